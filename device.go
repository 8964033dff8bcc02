package descset

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/google/uuid"
)

// Device owns the hardware constants used for layout compilation and
// tracks the layouts that are still referenced.
//
// Device is safe for concurrent use.
type Device struct {
	props Properties
	info  gpucontext.AdapterInfo

	mu      sync.Mutex
	layouts map[uuid.UUID]*Layout
}

// NewDevice creates a device. Without options it uses the default
// hardware profile (see DefaultProfile).
func NewDevice(opts ...DeviceOption) (*Device, error) {
	o := defaultDeviceOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var props Properties
	if o.props != nil {
		props = *o.props
	} else {
		p, err := Profile(o.profile)
		if err != nil {
			return nil, err
		}
		props = p
	}
	if o.limits != nil {
		props = PropertiesFromLimits(props, *o.limits)
	}
	if err := props.Validate(); err != nil {
		return nil, err
	}

	Logger().Info("descset: device created",
		"adapter", o.info.Name,
		"adapter_type", o.info.Type.String(),
		"image_descriptor_size", props.ImageDescriptorSize,
		"buffer_descriptor_size", props.BufferDescriptorSize)

	return &Device{
		props:   props,
		info:    o.info,
		layouts: make(map[uuid.UUID]*Layout),
	}, nil
}

// Properties returns the device's hardware constants.
func (d *Device) Properties() Properties { return d.props }

// AdapterInfo returns the adapter the device was created for.
func (d *Device) AdapterInfo() gpucontext.AdapterInfo { return d.info }

// CreateLayout compiles desc into a layout holding one reference.
//
// The only error is ErrOutOfHostMemory; in that case nothing is
// registered. Malformed declarations panic.
func (d *Device) CreateLayout(desc *LayoutDesc) (*Layout, error) {
	if desc == nil {
		panic("descset: nil layout descriptor")
	}
	l, err := compile(d.props, desc)
	if err != nil {
		return nil, fmt.Errorf("create layout %q: %w", desc.Label, err)
	}
	l.handle = uuid.New()
	l.device = d
	l.refs.Store(1)

	d.mu.Lock()
	d.layouts[l.handle] = l
	d.mu.Unlock()

	Logger().Debug("descset: layout compiled",
		"label", l.label,
		"handle", l.handle.String(),
		"bindings", len(l.bindings),
		"buffer_size", l.descriptorBufferSize,
		"dynamic_buffers", l.dynamicBufferCount,
		"fingerprint", l.fingerprint.String())
	return l, nil
}

// LiveLayouts returns the number of layouts still referenced.
func (d *Device) LiveLayouts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.layouts)
}

// FindLayout returns the live layout with the given handle. A found layout
// carries a new reference the caller must drop with Unref.
func (d *Device) FindLayout(handle uuid.UUID) (*Layout, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.layouts[handle]
	if !ok || !l.tryRef() {
		return nil, false
	}
	return l, true
}

// FindCompatible returns some live layout whose fingerprint equals fp,
// with a new reference the caller must drop with Unref.
func (d *Device) FindCompatible(fp Fingerprint) (*Layout, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range d.layouts {
		if l.fingerprint == fp && l.tryRef() {
			return l, true
		}
	}
	return nil, false
}

// forget removes a released layout from the registry.
func (d *Device) forget(l *Layout) {
	d.mu.Lock()
	delete(d.layouts, l.handle)
	d.mu.Unlock()
}
