package descset

import "errors"

// Package errors.
//
// Only ErrOutOfHostMemory can come back from CreateLayout. Malformed layout
// declarations (nested mutable types, unknown descriptor types, mismatched
// flag arrays) are contract violations of the validated API layer above
// this package and panic instead.
var (
	// ErrOutOfHostMemory is returned when a layout's binding table or
	// sampler storage exceeds the device's allocation budget.
	ErrOutOfHostMemory = errors.New("descset: out of host memory")

	// ErrUnknownProfile is returned when a hardware profile is not registered.
	ErrUnknownProfile = errors.New("descset: unknown hardware profile")

	// ErrInvalidProperties is returned when device properties are inconsistent.
	ErrInvalidProperties = errors.New("descset: invalid device properties")

	// ErrInvalidBinding is returned by Properties.CheckBinding for a binding
	// whose descriptor footprint cannot be encoded.
	ErrInvalidBinding = errors.New("descset: invalid binding")

	// ErrUnknownDescriptorType is returned when parsing an unknown type name.
	ErrUnknownDescriptorType = errors.New("descset: unknown descriptor type")

	// ErrUnknownBindingFlag is returned when parsing an unknown flag name.
	ErrUnknownBindingFlag = errors.New("descset: unknown binding flag")
)
