package descset

import (
	"fmt"
	"sort"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Built-in hardware profile names.
const (
	// ProfileNVK is the NVIDIA descriptor format: 4-byte image handles and
	// 16-byte buffer address descriptors.
	ProfileNVK = "nvk"

	// ProfileWebGPU uses the NVK descriptor sizes with the WebGPU default
	// limits for uniform alignment and bindings per group.
	ProfileWebGPU = "webgpu"

	// ProfileDownlevel uses the NVK descriptor sizes with WebGPU downlevel
	// limits.
	ProfileDownlevel = "downlevel"
)

const (
	nvkImageDescriptorSize  = 4
	nvkBufferDescriptorSize = 16
	nvkMaxDescriptorSize    = 16
	nvkMinUBOAlignment      = 16
	nvkMaxBindings          = 1 << 20
)

// profiles holds the registered hardware profiles. Earlier entries in the
// priority list win in DefaultProfile.
var profiles = gpucontext.NewRegistry[Properties](
	gpucontext.WithPriority(ProfileNVK, ProfileWebGPU, ProfileDownlevel),
)

func init() {
	RegisterProfile(ProfileNVK, NVKProperties())
	RegisterProfile(ProfileWebGPU, PropertiesFromLimits(NVKProperties(), gputypes.DefaultLimits()))
	RegisterProfile(ProfileDownlevel, PropertiesFromLimits(NVKProperties(), gputypes.DownlevelLimits()))
}

// NVKProperties returns the descriptor format of the NVK driver.
func NVKProperties() Properties {
	return Properties{
		ImageDescriptorSize:       nvkImageDescriptorSize,
		BufferDescriptorSize:      nvkBufferDescriptorSize,
		MaxDescriptorSize:         nvkMaxDescriptorSize,
		MinUniformBufferAlignment: nvkMinUBOAlignment,
		MaxBindingsPerLayout:      nvkMaxBindings,
	}
}

// PropertiesFromLimits derives properties from base, taking the uniform
// buffer alignment and bindings-per-layout budget from WebGPU limits.
// Zero limits leave the base values in place.
func PropertiesFromLimits(base Properties, limits gputypes.Limits) Properties {
	p := base
	if limits.MinUniformBufferOffsetAlignment != 0 {
		p.MinUniformBufferAlignment = limits.MinUniformBufferOffsetAlignment
	}
	if limits.MaxBindingsPerBindGroup != 0 {
		p.MaxBindingsPerLayout = limits.MaxBindingsPerBindGroup
	}
	return p
}

// RegisterProfile registers (or replaces) a named hardware profile.
// It is typically called from init functions.
func RegisterProfile(name string, p Properties) {
	profiles.Register(name, func() Properties { return p })
}

// Profile returns the properties of a registered profile.
func Profile(name string) (Properties, error) {
	if !profiles.Has(name) {
		return Properties{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return profiles.Get(name), nil
}

// Profiles returns the names of all registered profiles, sorted.
func Profiles() []string {
	names := profiles.Available()
	sort.Strings(names)
	return names
}

// DefaultProfile returns the name of the highest-priority registered profile.
func DefaultProfile() string {
	return profiles.BestName()
}
