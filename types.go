package descset

import (
	"fmt"
	"strings"
)

// DescriptorType is the kind of resource bound at a layout slot.
//
// The set is closed: every value other than the ones declared here is a
// programming error when handed to the compiler.
type DescriptorType uint32

// Descriptor types.
const (
	// DescriptorTypeInvalid marks an unused slot in a compiled layout.
	DescriptorTypeInvalid DescriptorType = iota

	// DescriptorTypeSampler is a standalone sampler.
	DescriptorTypeSampler

	// DescriptorTypeCombinedImageSampler is an image paired with a sampler.
	DescriptorTypeCombinedImageSampler

	// DescriptorTypeSampledImage is a read-only sampled image.
	DescriptorTypeSampledImage

	// DescriptorTypeStorageImage is a read-write storage image.
	DescriptorTypeStorageImage

	// DescriptorTypeUniformTexelBuffer is a formatted read-only buffer view.
	DescriptorTypeUniformTexelBuffer

	// DescriptorTypeStorageTexelBuffer is a formatted read-write buffer view.
	DescriptorTypeStorageTexelBuffer

	// DescriptorTypeUniformBuffer is a uniform buffer range.
	DescriptorTypeUniformBuffer

	// DescriptorTypeStorageBuffer is a storage buffer range.
	DescriptorTypeStorageBuffer

	// DescriptorTypeUniformBufferDynamic is a uniform buffer whose offset is
	// supplied at bind time.
	DescriptorTypeUniformBufferDynamic

	// DescriptorTypeStorageBufferDynamic is a storage buffer whose offset is
	// supplied at bind time.
	DescriptorTypeStorageBufferDynamic

	// DescriptorTypeInputAttachment is a framebuffer attachment read in a
	// fragment shader.
	DescriptorTypeInputAttachment

	// DescriptorTypeInlineUniformBlock stores uniform data directly in the
	// descriptor buffer. Its Count is a size in bytes.
	DescriptorTypeInlineUniformBlock

	// DescriptorTypeMutable selects its concrete type per descriptor at
	// bind time from a declared candidate list.
	DescriptorTypeMutable

	descriptorTypeCount
)

var descriptorTypeNames = [descriptorTypeCount]string{
	DescriptorTypeInvalid:              "Invalid",
	DescriptorTypeSampler:              "Sampler",
	DescriptorTypeCombinedImageSampler: "CombinedImageSampler",
	DescriptorTypeSampledImage:         "SampledImage",
	DescriptorTypeStorageImage:         "StorageImage",
	DescriptorTypeUniformTexelBuffer:   "UniformTexelBuffer",
	DescriptorTypeStorageTexelBuffer:   "StorageTexelBuffer",
	DescriptorTypeUniformBuffer:        "UniformBuffer",
	DescriptorTypeStorageBuffer:        "StorageBuffer",
	DescriptorTypeUniformBufferDynamic: "UniformBufferDynamic",
	DescriptorTypeStorageBufferDynamic: "StorageBufferDynamic",
	DescriptorTypeInputAttachment:      "InputAttachment",
	DescriptorTypeInlineUniformBlock:   "InlineUniformBlock",
	DescriptorTypeMutable:              "Mutable",
}

// String returns the type name, e.g. "UniformBuffer".
func (t DescriptorType) String() string {
	if t < descriptorTypeCount {
		return descriptorTypeNames[t]
	}
	return fmt.Sprintf("DescriptorType(%d)", uint32(t))
}

// IsValid reports whether t is a known, non-invalid descriptor type.
func (t DescriptorType) IsValid() bool {
	return t > DescriptorTypeInvalid && t < descriptorTypeCount
}

// IsDynamic reports whether t takes its buffer offset at bind time.
// Dynamic types occupy no space in the descriptor buffer.
func (t DescriptorType) IsDynamic() bool {
	return t == DescriptorTypeUniformBufferDynamic || t == DescriptorTypeStorageBufferDynamic
}

// acceptsImmutableSamplers reports whether bindings of type t may carry
// pre-bound samplers. Immutable samplers on any other type are ignored.
func (t DescriptorType) acceptsImmutableSamplers() bool {
	return t == DescriptorTypeSampler || t == DescriptorTypeCombinedImageSampler
}

// ParseDescriptorType parses a descriptor type name. Both the String form
// ("UniformBufferDynamic") and snake_case ("uniform_buffer_dynamic") are
// accepted, case-insensitively.
func ParseDescriptorType(name string) (DescriptorType, error) {
	key := strings.ToLower(strings.ReplaceAll(name, "_", ""))
	for t := DescriptorTypeSampler; t < descriptorTypeCount; t++ {
		if strings.ToLower(descriptorTypeNames[t]) == key {
			return t, nil
		}
	}
	return DescriptorTypeInvalid, fmt.Errorf("%w: %q", ErrUnknownDescriptorType, name)
}

// BindingFlags are optional per-binding behaviors. The bit values match
// VkDescriptorBindingFlagBits so that flags pass through unchanged.
type BindingFlags uint32

// Binding flags.
const (
	BindingFlagUpdateAfterBind          BindingFlags = 1 << 0
	BindingFlagUpdateUnusedWhilePending BindingFlags = 1 << 1
	BindingFlagPartiallyBound           BindingFlags = 1 << 2
	BindingFlagVariableDescriptorCount  BindingFlags = 1 << 3
)

var bindingFlagNames = []struct {
	flag BindingFlags
	name string
}{
	{BindingFlagUpdateAfterBind, "UpdateAfterBind"},
	{BindingFlagUpdateUnusedWhilePending, "UpdateUnusedWhilePending"},
	{BindingFlagPartiallyBound, "PartiallyBound"},
	{BindingFlagVariableDescriptorCount, "VariableDescriptorCount"},
}

// String renders the set flags joined by "|", or "None".
func (f BindingFlags) String() string {
	if f == 0 {
		return "None"
	}
	var parts []string
	rest := f
	for _, n := range bindingFlagNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseBindingFlag parses a single flag name in either String or
// snake_case form.
func ParseBindingFlag(name string) (BindingFlags, error) {
	key := strings.ToLower(strings.ReplaceAll(name, "_", ""))
	for _, n := range bindingFlagNames {
		if strings.ToLower(n.name) == key {
			return n.flag, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBindingFlag, name)
}
