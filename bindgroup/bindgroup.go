// Package bindgroup builds descriptor set layouts from WebGPU bind group
// layout entries.
//
// WebGPU bind groups map one to one onto descriptor sets. Every entry
// becomes a single-element binding at the same slot:
//
//	uniform buffer            -> UniformBuffer (UniformBufferDynamic with a dynamic offset)
//	storage / read-only buffer -> StorageBuffer (StorageBufferDynamic with a dynamic offset)
//	sampler                   -> Sampler
//	texture                   -> SampledImage
//	storage texture           -> StorageImage
package bindgroup

import (
	"errors"
	"fmt"

	"github.com/gogpu/descset"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrUnsupportedEntry is returned for an entry that names no resource or a
// buffer entry with an undefined binding type.
var ErrUnsupportedEntry = errors.New("bindgroup: unsupported layout entry")

// Convert maps one bind group layout entry to a binding declaration.
func Convert(entry gputypes.BindGroupLayoutEntry) (descset.Binding, error) {
	b := descset.Binding{
		Binding: entry.Binding,
		Count:   1,
		Stages:  entry.Visibility,
	}

	switch {
	case entry.Buffer != nil:
		dynamic := entry.Buffer.HasDynamicOffset
		switch entry.Buffer.Type {
		case gputypes.BufferBindingTypeUniform:
			b.Type = descset.DescriptorTypeUniformBuffer
			if dynamic {
				b.Type = descset.DescriptorTypeUniformBufferDynamic
			}
		case gputypes.BufferBindingTypeStorage, gputypes.BufferBindingTypeReadOnlyStorage:
			b.Type = descset.DescriptorTypeStorageBuffer
			if dynamic {
				b.Type = descset.DescriptorTypeStorageBufferDynamic
			}
		default:
			return descset.Binding{}, fmt.Errorf("%w: binding %d has buffer type %v",
				ErrUnsupportedEntry, entry.Binding, entry.Buffer.Type)
		}
	case entry.Sampler != nil:
		b.Type = descset.DescriptorTypeSampler
	case entry.Texture != nil:
		b.Type = descset.DescriptorTypeSampledImage
	case entry.StorageTexture != nil:
		b.Type = descset.DescriptorTypeStorageImage
	default:
		return descset.Binding{}, fmt.Errorf("%w: binding %d names no resource",
			ErrUnsupportedEntry, entry.Binding)
	}
	return b, nil
}

// FromEntries converts a list of bind group layout entries into a layout
// descriptor. The first unsupported entry aborts the conversion.
func FromEntries(label string, entries []gputypes.BindGroupLayoutEntry) (*descset.LayoutDesc, error) {
	desc := &descset.LayoutDesc{
		Label:    label,
		Bindings: make([]descset.Binding, 0, len(entries)),
	}
	for _, entry := range entries {
		b, err := Convert(entry)
		if err != nil {
			descset.Logger().Warn("bindgroup: entry skipped",
				"label", label,
				"binding", entry.Binding,
				"err", err)
			return nil, fmt.Errorf("bind group layout %q: %w", label, err)
		}
		desc.Bindings = append(desc.Bindings, b)
	}
	return desc, nil
}

// FromDescriptor converts a HAL bind group layout descriptor.
func FromDescriptor(desc *hal.BindGroupLayoutDescriptor) (*descset.LayoutDesc, error) {
	if desc == nil {
		return nil, fmt.Errorf("%w: nil descriptor", ErrUnsupportedEntry)
	}
	return FromEntries(desc.Label, desc.Entries)
}

// Entries is the inverse of FromEntries for layouts that only use kinds a
// WebGPU bind group can express. Bindings with other kinds or with more
// than one element are reported through ErrUnsupportedEntry.
func Entries(desc *descset.LayoutDesc) ([]gputypes.BindGroupLayoutEntry, error) {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(desc.Bindings))
	for _, b := range desc.Bindings {
		if b.Count != 1 {
			return nil, fmt.Errorf("%w: binding %d has %d elements", ErrUnsupportedEntry, b.Binding, b.Count)
		}
		e := gputypes.BindGroupLayoutEntry{
			Binding:    b.Binding,
			Visibility: b.Stages,
		}
		switch b.Type {
		case descset.DescriptorTypeUniformBuffer, descset.DescriptorTypeUniformBufferDynamic:
			e.Buffer = &gputypes.BufferBindingLayout{
				Type:             gputypes.BufferBindingTypeUniform,
				HasDynamicOffset: b.Type.IsDynamic(),
			}
		case descset.DescriptorTypeStorageBuffer, descset.DescriptorTypeStorageBufferDynamic:
			e.Buffer = &gputypes.BufferBindingLayout{
				Type:             gputypes.BufferBindingTypeStorage,
				HasDynamicOffset: b.Type.IsDynamic(),
			}
		case descset.DescriptorTypeSampler:
			e.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
		case descset.DescriptorTypeSampledImage:
			e.Texture = &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}
		case descset.DescriptorTypeStorageImage:
			e.StorageTexture = &gputypes.StorageTextureBindingLayout{
				Access:        gputypes.StorageTextureAccessReadWrite,
				Format:        gputypes.TextureFormatRGBA8Unorm,
				ViewDimension: gputypes.TextureViewDimension2D,
			}
		default:
			return nil, fmt.Errorf("%w: %v has no bind group equivalent", ErrUnsupportedEntry, b.Type)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
