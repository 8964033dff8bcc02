//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target when mage is run without arguments.
var Default = Check

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the test suite with the race detector.
func Test() error {
	args := []string{"test", "-race", "-count=1"}
	if mg.Verbose() {
		args = append(args, "-v")
	}
	return sh.RunV("go", append(args, "./...")...)
}

// Lint runs golangci-lint with the repository configuration.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

type Dslc mg.Namespace

// Build installs the dslc command into bin/.
func (Dslc) Build() error {
	return sh.RunV("go", "build", "-o", filepath.Join("bin", "dslc"), "./cmd/dslc")
}

// Dump compiles every layout file and shader in cmd/dslc/testdata and prints
// the JSON reports.
func (Dslc) Dump() error {
	mg.Deps(Dslc.Build)

	var files []string
	for _, pattern := range []string{"*.toml", "*.wgsl"} {
		m, err := filepath.Glob(filepath.Join("cmd", "dslc", "testdata", pattern))
		if err != nil {
			return err
		}
		files = append(files, m...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no inputs in cmd/dslc/testdata")
	}

	// broken.toml is expected to fail.
	ran, err := sh.Exec(nil, os.Stdout, os.Stderr, filepath.Join("bin", "dslc"), append([]string{"-json"}, files...)...)
	if !ran {
		return err
	}
	return nil
}

// Clean removes build output.
func Clean() error {
	return sh.Rm("bin")
}
