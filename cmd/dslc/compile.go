package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/descset"
	"github.com/gogpu/descset/layoutfile"
	"github.com/gogpu/descset/wgsl"
)

// compiled is the result of compiling one input file. The report refers to
// the pipeline layout's sets and is valid until release.
type compiled struct {
	report   *layoutfile.Report
	pipeline *descset.PipelineLayout
}

func (c *compiled) release() {
	c.pipeline.Release()
}

func compileFile(path, profile string) (*compiled, error) {
	var (
		opts  []descset.DeviceOption
		descs []*descset.LayoutDesc
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		f, err := layoutfile.Load(path)
		if err != nil {
			return nil, err
		}
		if profile != "" {
			f.Device.Profile = profile
		} else {
			profile = f.Device.Profile
		}
		if opts, err = f.DeviceOptions(); err != nil {
			return nil, err
		}
		if descs, err = f.Descs(); err != nil {
			return nil, err
		}

	case ".wgsl":
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		r, err := wgsl.Reflect(string(src))
		if err != nil {
			return nil, err
		}
		if profile != "" {
			opts = append(opts, descset.WithProfile(profile))
		}
		descs = r.Pipeline()

	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}

	if profile == "" {
		profile = descset.DefaultProfile()
	}
	dev, err := descset.NewDevice(opts...)
	if err != nil {
		return nil, err
	}
	p, err := dev.CreatePipelineLayout(descs)
	if err != nil {
		return nil, err
	}

	report := layoutfile.NewReport(p)
	report.Source = path
	report.Profile = profile
	return &compiled{report: report, pipeline: p}, nil
}
