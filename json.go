package descset

import "encoding/json"

type jsonBinding struct {
	Binding            int      `json:"binding"`
	Type               string   `json:"type"`
	Flags              string   `json:"flags,omitempty"`
	ArraySize          uint32   `json:"arraySize"`
	Offset             uint32   `json:"offset"`
	Stride             uint32   `json:"stride"`
	DynamicBufferIndex *uint32  `json:"dynamicBufferIndex,omitempty"`
	ImmutableSamplers  []string `json:"immutableSamplers,omitempty"`
}

type jsonLayout struct {
	Handle               string        `json:"handle"`
	Label                string        `json:"label,omitempty"`
	Fingerprint          string        `json:"fingerprint"`
	BindingCount         int           `json:"bindingCount"`
	DescriptorBufferSize uint32        `json:"descriptorBufferSize"`
	DynamicBufferCount   uint32        `json:"dynamicBufferCount"`
	Bindings             []jsonBinding `json:"bindings"`
}

// MarshalJSON renders the layout. Unused slots are omitted from the
// bindings list; bindingCount still reports the dense table size.
func (l *Layout) MarshalJSON() ([]byte, error) {
	out := jsonLayout{
		Handle:               l.handle.String(),
		Label:                l.label,
		Fingerprint:          l.fingerprint.String(),
		BindingCount:         len(l.bindings),
		DescriptorBufferSize: l.descriptorBufferSize,
		DynamicBufferCount:   l.dynamicBufferCount,
		Bindings:             []jsonBinding{},
	}
	for i, b := range l.bindings {
		if b.Type == DescriptorTypeInvalid {
			continue
		}
		jb := jsonBinding{
			Binding:   i,
			Type:      b.Type.String(),
			ArraySize: b.ArraySize,
			Offset:    b.Offset,
			Stride:    b.Stride,
		}
		if b.Flags != 0 {
			jb.Flags = b.Flags.String()
		}
		if b.Type.IsDynamic() {
			idx := b.DynamicBufferIndex
			jb.DynamicBufferIndex = &idx
		}
		for _, s := range b.ImmutableSamplers {
			jb.ImmutableSamplers = append(jb.ImmutableSamplers, s.ID().String())
		}
		out.Bindings = append(out.Bindings, jb)
	}
	return json.Marshal(out)
}
