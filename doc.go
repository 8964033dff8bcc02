// Package descset compiles descriptor set layouts for GPUs that store
// descriptors in a flat descriptor buffer.
//
// # Overview
//
// A descriptor set layout declares which resources a shader can reach
// through one set: uniform buffers, images, samplers and so on, each at a
// numbered binding slot. descset turns such a declaration into a dense,
// slot-indexed table that says where each binding's descriptors live in
// the set's descriptor buffer, how large each element is, and where a
// dynamic buffer's offset goes in the per-draw dynamic offset array.
//
// The compiled layout is the contract between the code that writes
// descriptors and the shaders that read them, so it is deterministic:
// the same bindings in any order produce the same table and the same
// Fingerprint.
//
// # Quick Start
//
//	dev, err := descset.NewDevice() // NVK descriptor format
//	if err != nil {
//		return err
//	}
//
//	layout, err := dev.CreateLayout(&descset.LayoutDesc{
//		Label: "material",
//		Bindings: []descset.Binding{
//			{Binding: 0, Type: descset.DescriptorTypeUniformBuffer, Count: 1},
//			{Binding: 2, Type: descset.DescriptorTypeStorageImage, Count: 4},
//		},
//	})
//	if err != nil {
//		return err
//	}
//	defer layout.Unref()
//
//	b := layout.Binding(2) // Offset 16, Stride 4
//
// # Hardware Profiles
//
// Descriptor sizes come from Properties. The built-in profiles are
// ProfileNVK (the default), ProfileWebGPU and ProfileDownlevel; more can
// be added with RegisterProfile. Real drivers pass the values they read at
// device initialization through WithProperties.
//
// # Lifetime
//
// Layouts are reference counted. CreateLayout returns one reference;
// PipelineLayout takes its own on each set. When the last reference is
// dropped the layout leaves its Device and FindLayout no longer sees it.
//
// # Front Ends
//
// Sub-packages build LayoutDesc values from other sources:
//   - bindgroup: WebGPU bind group layout entries (gputypes, wgpu hal)
//   - wgsl: resource bindings reflected from WGSL shaders (naga)
//   - layoutfile: TOML layout files and JSON reports
//
// The dslc command compiles any of these from the command line.
//
// # Logging
//
// descset is silent by default. See SetLogger.
package descset
