package descset

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceOption configures a Device during creation.
//
// Example:
//
//	// NVK descriptor format
//	dev, err := descset.NewDevice()
//
//	// Explicit hardware constants from device initialization
//	dev, err := descset.NewDevice(descset.WithProperties(props))
type DeviceOption func(*deviceOptions)

type deviceOptions struct {
	profile string
	props   *Properties
	limits  *gputypes.Limits
	info    gpucontext.AdapterInfo
}

func defaultDeviceOptions() deviceOptions {
	return deviceOptions{
		profile: DefaultProfile(),
		info: gpucontext.AdapterInfo{
			Name: "unknown",
			Type: gpucontext.AdapterTypeUnknown,
		},
	}
}

// WithProfile selects a registered hardware profile by name.
// It is ignored when WithProperties is also given.
func WithProfile(name string) DeviceOption {
	return func(o *deviceOptions) {
		o.profile = name
	}
}

// WithProperties sets the hardware constants directly.
func WithProperties(p Properties) DeviceOption {
	return func(o *deviceOptions) {
		o.props = &p
	}
}

// WithLimits applies WebGPU limits on top of the selected properties.
// See PropertiesFromLimits for the fields that are taken over.
func WithLimits(limits gputypes.Limits) DeviceOption {
	return func(o *deviceOptions) {
		o.limits = &limits
	}
}

// WithAdapterInfo records the physical adapter the device belongs to.
func WithAdapterInfo(info gpucontext.AdapterInfo) DeviceOption {
	return func(o *deviceOptions) {
		o.info = info
	}
}
