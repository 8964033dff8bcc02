package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDslc(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunTOMLTable(t *testing.T) {
	code, out, _ := runDslc(t, filepath.Join("testdata", "material.toml"))
	require.Equal(t, 0, code)

	assert.Contains(t, out, "profile nvk")
	assert.Contains(t, out, `set 1 "material": 40 bytes`)
	assert.Contains(t, out, "StorageImage")
	assert.Contains(t, out, "CombinedImageSampler")
	assert.Contains(t, out, "UniformBufferDynamic")
}

func TestRunTOMLJSON(t *testing.T) {
	code, out, _ := runDslc(t, "-json", filepath.Join("testdata", "material.toml"))
	require.Equal(t, 0, code)

	var report struct {
		Profile            string `json:"profile"`
		DynamicBufferCount uint32 `json:"dynamicBufferCount"`
		Sets               []struct {
			DynamicBufferStart uint32 `json:"dynamicBufferStart"`
			Layout             struct {
				Label                string `json:"label"`
				DescriptorBufferSize uint32 `json:"descriptorBufferSize"`
				BindingCount         int    `json:"bindingCount"`
			} `json:"layout"`
		} `json:"sets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "nvk", report.Profile)
	assert.Equal(t, uint32(1), report.DynamicBufferCount)
	require.Len(t, report.Sets, 2)
	assert.Equal(t, "material", report.Sets[1].Layout.Label)
	assert.Equal(t, uint32(40), report.Sets[1].Layout.DescriptorBufferSize)
	assert.Equal(t, 4, report.Sets[1].Layout.BindingCount)
	assert.Equal(t, uint32(1), report.Sets[1].DynamicBufferStart)
}

func TestRunWGSL(t *testing.T) {
	code, out, _ := runDslc(t, "-profile", "webgpu", filepath.Join("testdata", "blit.wgsl"))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "profile webgpu")
	assert.Contains(t, out, `set 0 "group 0": 8 bytes`)
	assert.Contains(t, out, "SampledImage")
}

func TestRunErrors(t *testing.T) {
	code, _, stderr := runDslc(t, filepath.Join("testdata", "broken.toml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "compile failed")

	code, _, _ = runDslc(t, filepath.Join("testdata", "missing.toml"))
	assert.Equal(t, 1, code)

	code, _, _ = runDslc(t, "-profile", "radv", filepath.Join("testdata", "material.toml"))
	assert.Equal(t, 1, code)

	code, _, _ = runDslc(t, "layout.yaml")
	assert.Equal(t, 1, code)
}

func TestRunContinuesAfterFailure(t *testing.T) {
	code, out, _ := runDslc(t,
		filepath.Join("testdata", "broken.toml"),
		filepath.Join("testdata", "material.toml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "material")
}

func TestRunUsage(t *testing.T) {
	code, _, stderr := runDslc(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: dslc")
	assert.Contains(t, stderr, "nvk")

	code, _, _ = runDslc(t, "-bogus")
	assert.Equal(t, 2, code)
}

func TestChangedInput(t *testing.T) {
	abs, err := filepath.Abs(filepath.Join("testdata", "material.toml"))
	require.NoError(t, err)
	inputs := map[string]bool{abs: true}

	path, ok := changedInput(fsnotify.Event{Name: abs, Op: fsnotify.Write}, inputs)
	assert.True(t, ok)
	assert.Equal(t, abs, path)

	_, ok = changedInput(fsnotify.Event{Name: abs, Op: fsnotify.Create}, inputs)
	assert.True(t, ok)

	_, ok = changedInput(fsnotify.Event{Name: abs, Op: fsnotify.Chmod}, inputs)
	assert.False(t, ok)

	_, ok = changedInput(fsnotify.Event{Name: filepath.Join("testdata", "blit.wgsl"), Op: fsnotify.Write}, inputs)
	assert.False(t, ok)
}

func TestRunRejectsUnencodableMutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mutable.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[device]
profile = "webgpu"

[[set]]
  [[set.binding]]
  binding = 0
  type = "mutable"
  mutable_types = ["inline_uniform_block", "uniform_buffer"]
`), 0o600))

	var code int
	var stderr string
	require.NotPanics(t, func() { code, _, stderr = runDslc(t, path) })
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "max descriptor size")

	code, _, _ = runDslc(t, "-profile", "nvk", path)
	assert.Equal(t, 0, code)
}

func TestBindingTableKeepsFullNames(t *testing.T) {
	c, err := compileFile(filepath.Join("testdata", "material.toml"), "")
	require.NoError(t, err)
	defer c.release()

	out := bindingTable(c.report.Sets[1].Layout) + bindingTable(c.report.Sets[0].Layout)
	for _, s := range []string{"binding", "CombinedImageSampler", "UniformBufferDynamic", "StorageImage"} {
		assert.Contains(t, out, s)
	}
	assert.NotContains(t, out, "…")
}
