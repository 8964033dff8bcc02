// Package layoutfile reads descriptor set layouts from TOML files.
//
// A layout file describes the sets of one pipeline layout and, optionally,
// the device they are compiled for:
//
//	[device]
//	profile = "nvk"
//	min_uniform_buffer_alignment = 64
//
//	[[set]]
//	label = "material"
//
//	  [[set.binding]]
//	  binding = 0
//	  type = "uniform_buffer"
//
//	  [[set.binding]]
//	  binding = 1
//	  type = "combined_image_sampler"
//	  count = 4
//	  flags = ["partially_bound"]
//	  stages = ["fragment"]
//	  immutable_samplers = 4
//
// Type and flag names are the descset names in snake_case or CamelCase.
// Unknown keys are rejected.
package layoutfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/descset"
	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidFile is returned for layout files that decode but describe an
// invalid layout.
var ErrInvalidFile = errors.New("layoutfile: invalid layout file")

// File is a decoded layout file.
type File struct {
	Device Device `toml:"device"`
	Sets   []Set  `toml:"set"`
}

// Device overrides the hardware constants. Unset fields keep the values of
// the selected profile.
type Device struct {
	Profile                   string  `toml:"profile"`
	ImageDescriptorSize       *uint32 `toml:"image_descriptor_size"`
	BufferDescriptorSize      *uint32 `toml:"buffer_descriptor_size"`
	MaxDescriptorSize         *uint32 `toml:"max_descriptor_size"`
	MinUniformBufferAlignment *uint32 `toml:"min_uniform_buffer_alignment"`
	MaxBindingsPerLayout      *uint32 `toml:"max_bindings_per_layout"`
}

// Set is one descriptor set. An empty set (no bindings) is kept as an
// empty layout; a set with skip = true leaves its slot unused.
type Set struct {
	Label    string    `toml:"label"`
	Skip     bool      `toml:"skip"`
	Bindings []Binding `toml:"binding"`
}

// Binding is one binding declaration.
type Binding struct {
	Binding           uint32   `toml:"binding"`
	Type              string   `toml:"type"`
	Count             *uint32  `toml:"count"`
	Flags             []string `toml:"flags"`
	Stages            []string `toml:"stages"`
	MutableTypes      []string `toml:"mutable_types"`
	ImmutableSamplers uint32   `toml:"immutable_samplers"`
}

// Parse decodes a layout file.
func Parse(data []byte) (*File, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFile, strict.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: %d:%d: %v", ErrInvalidFile, row, col, derr)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return &f, nil
}

// Load reads and decodes the layout file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Properties returns the hardware constants the file asks for: the
// selected profile, falling back to descset.DefaultProfile, with the
// [device] overrides applied.
func (f *File) Properties() (descset.Properties, error) {
	d := f.Device
	name := d.Profile
	if name == "" {
		name = descset.DefaultProfile()
	}
	props, err := descset.Profile(name)
	if err != nil {
		return descset.Properties{}, err
	}
	for _, o := range []struct {
		v   *uint32
		dst *uint32
	}{
		{d.ImageDescriptorSize, &props.ImageDescriptorSize},
		{d.BufferDescriptorSize, &props.BufferDescriptorSize},
		{d.MaxDescriptorSize, &props.MaxDescriptorSize},
		{d.MinUniformBufferAlignment, &props.MinUniformBufferAlignment},
		{d.MaxBindingsPerLayout, &props.MaxBindingsPerLayout},
	} {
		if o.v != nil {
			*o.dst = *o.v
		}
	}
	return props, nil
}

// DeviceOptions returns the device options the file asks for.
func (f *File) DeviceOptions() ([]descset.DeviceOption, error) {
	props, err := f.Properties()
	if err != nil {
		return nil, err
	}
	return []descset.DeviceOption{descset.WithProperties(props)}, nil
}

// Descs converts the sets into layout descriptors, one per set. Skipped
// sets are nil. Immutable samplers are created with default sampler state.
// Binding footprints are checked against the file's Properties, so the
// descriptors compile without panicking on a device created from
// DeviceOptions.
func (f *File) Descs() ([]*descset.LayoutDesc, error) {
	props, err := f.Properties()
	if err != nil {
		return nil, err
	}
	if err := props.Validate(); err != nil {
		return nil, err
	}

	descs := make([]*descset.LayoutDesc, len(f.Sets))
	for i := range f.Sets {
		s := &f.Sets[i]
		if s.Skip {
			continue
		}
		desc := &descset.LayoutDesc{
			Label:    s.Label,
			Bindings: make([]descset.Binding, 0, len(s.Bindings)),
		}
		seen := make(map[uint32]bool, len(s.Bindings))
		for j := range s.Bindings {
			b, err := s.Bindings[j].decl(props)
			if err != nil {
				return nil, fmt.Errorf("%w: set %d binding %d: %w", ErrInvalidFile, i, s.Bindings[j].Binding, err)
			}
			if seen[b.Binding] {
				return nil, fmt.Errorf("%w: set %d: binding %d declared twice", ErrInvalidFile, i, b.Binding)
			}
			seen[b.Binding] = true
			desc.Bindings = append(desc.Bindings, b)
		}
		descs[i] = desc
	}
	return descs, nil
}

// decl validates b and turns it into a binding declaration. Everything the
// compiler would treat as a contract violation under props is reported as
// an error here.
func (b *Binding) decl(props descset.Properties) (descset.Binding, error) {
	typ, err := descset.ParseDescriptorType(b.Type)
	if err != nil {
		return descset.Binding{}, err
	}
	out := descset.Binding{
		Binding: b.Binding,
		Type:    typ,
		Count:   1,
	}
	if b.Count != nil {
		out.Count = *b.Count
	}

	for _, name := range b.Flags {
		flag, err := descset.ParseBindingFlag(name)
		if err != nil {
			return descset.Binding{}, err
		}
		out.Flags |= flag
	}

	for _, name := range b.Stages {
		stage, err := parseStage(name)
		if err != nil {
			return descset.Binding{}, err
		}
		out.Stages |= stage
	}

	switch {
	case typ == descset.DescriptorTypeMutable:
		if len(b.MutableTypes) == 0 {
			return descset.Binding{}, errors.New("mutable binding needs mutable_types")
		}
		for _, name := range b.MutableTypes {
			mt, err := descset.ParseDescriptorType(name)
			if err != nil {
				return descset.Binding{}, err
			}
			if mt == descset.DescriptorTypeMutable {
				return descset.Binding{}, errors.New("mutable_types cannot contain mutable")
			}
			out.MutableTypes = append(out.MutableTypes, mt)
		}
	case len(b.MutableTypes) > 0:
		return descset.Binding{}, fmt.Errorf("mutable_types given for %v binding", typ)
	}
	if err := props.CheckBinding(typ, out.MutableTypes); err != nil {
		return descset.Binding{}, err
	}

	if b.ImmutableSamplers > 0 {
		if typ != descset.DescriptorTypeSampler && typ != descset.DescriptorTypeCombinedImageSampler {
			return descset.Binding{}, fmt.Errorf("immutable_samplers given for %v binding", typ)
		}
		if b.ImmutableSamplers != out.Count {
			return descset.Binding{}, fmt.Errorf("immutable_samplers = %d, want count (%d)", b.ImmutableSamplers, out.Count)
		}
		out.ImmutableSamplers = make([]*descset.Sampler, b.ImmutableSamplers)
		for k := range out.ImmutableSamplers {
			sd := gputypes.DefaultSamplerDescriptor()
			sd.Label = fmt.Sprintf("binding %d sampler %d", b.Binding, k)
			out.ImmutableSamplers[k] = descset.NewSampler(sd)
		}
	}
	return out, nil
}

func parseStage(name string) (gputypes.ShaderStages, error) {
	switch strings.ToLower(name) {
	case "vertex":
		return gputypes.ShaderStageVertex, nil
	case "fragment":
		return gputypes.ShaderStageFragment, nil
	case "compute":
		return gputypes.ShaderStageCompute, nil
	}
	return gputypes.ShaderStageNone, fmt.Errorf("unknown shader stage %q", name)
}
