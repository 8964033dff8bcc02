// Command dslc compiles descriptor set layouts and prints where every
// binding lands in the descriptor buffer.
//
// Usage:
//
//	dslc [-profile name] [-json] [-watch] [-v] file...
//
// Each file is either a TOML layout file (.toml) or a WGSL shader (.wgsl)
// whose resource bindings are reflected into layouts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gogpu/descset"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type config struct {
	profile string
	json    bool
	watch   bool
	verbose bool
	files   []string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("dslc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: dslc [flags] file.toml|file.wgsl...\n\nflags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nprofiles: %s\n", strings.Join(descset.Profiles(), ", "))
	}

	cfg := &config{}
	fs.StringVar(&cfg.profile, "profile", "", "hardware profile (overrides the [device] profile of layout files)")
	fs.BoolVar(&cfg.json, "json", false, "print JSON reports")
	fs.BoolVar(&cfg.watch, "watch", false, "recompile when a file changes")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.files = fs.Args()
	if len(cfg.files) == 0 {
		fs.Usage()
		return nil, fmt.Errorf("no input files")
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	h := log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "dslc",
	})
	return slog.New(h)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	logger := newLogger(stderr, cfg.verbose)
	descset.SetLogger(logger)
	defer descset.SetLogger(nil)

	ok := compileAll(cfg, stdout, logger)
	if !cfg.watch {
		if !ok {
			return 1
		}
		return 0
	}

	if err := watch(ctx, cfg, stdout, logger); err != nil {
		logger.Error("watch failed", "err", err)
		return 1
	}
	return 0
}

// compileAll compiles and prints every input file. It reports whether all
// of them succeeded.
func compileAll(cfg *config, stdout io.Writer, logger *slog.Logger) bool {
	ok := true
	for _, path := range cfg.files {
		if err := compileAndPrint(path, cfg, stdout); err != nil {
			logger.Error("compile failed", "file", path, "err", err)
			ok = false
		}
	}
	return ok
}

func compileAndPrint(path string, cfg *config, stdout io.Writer) error {
	c, err := compileFile(path, cfg.profile)
	if err != nil {
		return err
	}
	defer c.release()

	if cfg.json {
		return writeJSON(stdout, c.report)
	}
	return writeTable(stdout, c.report)
}
