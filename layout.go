package descset

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gogpu/descset/internal/align"
	"github.com/gogpu/gputypes"
	"github.com/google/uuid"
)

// Binding declares one binding of a descriptor set layout.
type Binding struct {
	// Binding is the slot number. Slot numbers need not be sorted or
	// contiguous, and must be unique within a layout.
	Binding uint32

	// Type is the descriptor type.
	Type DescriptorType

	// Count is the array length. For inline uniform blocks it is the block
	// size in bytes. A zero count declares the slot but gives it no storage.
	Count uint32

	// Flags are optional binding flags.
	Flags BindingFlags

	// Stages lists the shader stages that access the binding. It does not
	// affect the compiled layout.
	Stages gputypes.ShaderStages

	// ImmutableSamplers are pre-bound samplers for Sampler and
	// CombinedImageSampler bindings. When non-nil it must hold at least
	// Count samplers. It is ignored for every other type.
	ImmutableSamplers []*Sampler

	// MutableTypes lists the candidate types of a Mutable binding.
	MutableTypes []DescriptorType
}

func (b *Binding) hasImmutableSamplers() bool {
	return b.Type.acceptsImmutableSamplers() && b.ImmutableSamplers != nil
}

// LayoutDesc describes a descriptor set layout.
type LayoutDesc struct {
	// Label is an optional debug label.
	Label string

	// Bindings are the declared bindings, in any order.
	Bindings []Binding

	// BindingFlags optionally overrides Bindings[i].Flags. When non-empty
	// its length must equal len(Bindings).
	BindingFlags []BindingFlags
}

// BindingLayout is the compiled form of one slot of a layout.
type BindingLayout struct {
	// Type is DescriptorTypeInvalid for unused slots.
	Type DescriptorType

	Flags BindingFlags

	// ArraySize is the declared Count.
	ArraySize uint32

	// Offset is the byte offset of the first descriptor in the descriptor
	// buffer. Only meaningful when Stride > 0.
	Offset uint32

	// Stride is the byte distance between array elements. Zero for
	// dynamic buffers and unused slots.
	Stride uint32

	// DynamicBufferIndex is the position of the first element in the
	// layout's dynamic buffer array. Only meaningful for dynamic types.
	DynamicBufferIndex uint32

	// ImmutableSamplers holds exactly ArraySize samplers, or nil.
	ImmutableSamplers []*Sampler
}

// Size returns the number of descriptor buffer bytes the binding occupies.
func (b BindingLayout) Size() uint32 {
	return b.Stride * b.ArraySize
}

// Layout is a compiled descriptor set layout.
//
// A Layout is immutable once created and safe for concurrent reads. It is
// shared by reference counting: CreateLayout returns it with one reference,
// Ref adds one and Unref drops one. The last Unref removes it from its
// device.
type Layout struct {
	handle uuid.UUID
	label  string
	device *Device

	bindings             []BindingLayout
	descriptorBufferSize uint32
	dynamicBufferCount   uint32
	fingerprint          Fingerprint

	refs atomic.Int32
}

// Handle returns the layout's unique handle.
func (l *Layout) Handle() uuid.UUID { return l.handle }

// Label returns the debug label the layout was created with.
func (l *Layout) Label() string { return l.label }

// BindingCount returns the size of the dense binding table: one more than
// the highest declared binding number.
func (l *Layout) BindingCount() int { return len(l.bindings) }

// Binding returns the compiled slot b. It panics if b is out of range.
func (l *Layout) Binding(b int) BindingLayout { return l.bindings[b] }

// Bindings returns a copy of the binding table. The ImmutableSamplers
// slices are shared with the layout and must not be modified.
func (l *Layout) Bindings() []BindingLayout {
	out := make([]BindingLayout, len(l.bindings))
	copy(out, l.bindings)
	return out
}

// DescriptorBufferSize returns the size in bytes of one descriptor set's
// buffer region.
func (l *Layout) DescriptorBufferSize() uint32 { return l.descriptorBufferSize }

// DynamicBufferCount returns the number of dynamic buffer descriptors.
func (l *Layout) DynamicBufferCount() uint32 { return l.dynamicBufferCount }

// Fingerprint returns the layout's content digest.
func (l *Layout) Fingerprint() Fingerprint { return l.fingerprint }

// Compatible reports whether l and other are binary compatible, i.e. have
// equal fingerprints.
func (l *Layout) Compatible(other *Layout) bool {
	return other != nil && l.fingerprint == other.fingerprint
}

// Ref adds a reference to l and returns it.
func (l *Layout) Ref() *Layout {
	if l.refs.Add(1) <= 1 {
		panic("descset: Ref on a released layout")
	}
	return l
}

// tryRef adds a reference unless the layout has already been released.
func (l *Layout) tryRef() bool {
	for {
		n := l.refs.Load()
		if n <= 0 {
			return false
		}
		if l.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Unref drops a reference. The last one unregisters the layout.
func (l *Layout) Unref() {
	n := l.refs.Add(-1)
	switch {
	case n < 0:
		panic("descset: Unref on a released layout")
	case n == 0:
		if l.device != nil {
			l.device.forget(l)
		}
		Logger().Debug("descset: layout released",
			"label", l.label,
			"handle", l.handle.String())
	}
}

// compile builds a layout from desc. It never publishes anything: the
// caller registers the result.
func compile(props Properties, desc *LayoutDesc) (*Layout, error) {
	if n := len(desc.BindingFlags); n > 0 && n != len(desc.Bindings) {
		panic(fmt.Sprintf("descset: %d binding flags for %d bindings", n, len(desc.Bindings)))
	}

	var numBindings, samplerCount uint64
	for i := range desc.Bindings {
		b := &desc.Bindings[i]
		numBindings = max(numBindings, uint64(b.Binding)+1)
		if b.hasImmutableSamplers() {
			samplerCount += uint64(b.Count)
		}
	}
	if numBindings > uint64(props.MaxBindingsPerLayout) {
		return nil, fmt.Errorf("%w: binding table of %d entries exceeds limit %d",
			ErrOutOfHostMemory, numBindings, props.MaxBindingsPerLayout)
	}
	if samplerCount > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d immutable samplers", ErrOutOfHostMemory, samplerCount)
	}

	l := &Layout{
		label:    desc.Label,
		bindings: make([]BindingLayout, numBindings),
	}
	samplers := make([]*Sampler, samplerCount)

	// source[b] is the index+1 of the declaration filling slot b, 0 if the
	// slot is empty. Walking slots instead of declarations makes the result
	// independent of declaration order.
	source := make([]int, numBindings)
	for i := range desc.Bindings {
		source[desc.Bindings[i].Binding] = i + 1
	}

	var bufferSize uint64
	var dynamicCount uint32
	for b := range l.bindings {
		if source[b] == 0 {
			continue
		}
		idx := source[b] - 1
		decl := &desc.Bindings[idx]
		if decl.Count == 0 {
			continue
		}

		entry := &l.bindings[b]
		entry.Type = decl.Type
		entry.Flags = decl.Flags
		if len(desc.BindingFlags) > 0 {
			entry.Flags = desc.BindingFlags[idx]
		}
		entry.ArraySize = decl.Count

		if decl.Type.IsDynamic() {
			entry.DynamicBufferIndex = dynamicCount
			dynamicCount += decl.Count
		}

		var mutable []DescriptorType
		if decl.Type == DescriptorTypeMutable {
			mutable = decl.MutableTypes
		}
		stride, alignment := props.StrideAlign(decl.Type, mutable)
		if stride > 0 {
			if stride > maxStride {
				panic(fmt.Sprintf("descset: binding %d stride %d does not fit in 8 bits", b, stride))
			}
			if !align.IsPowerOfTwo(alignment) {
				panic(fmt.Sprintf("descset: binding %d alignment %d is not a power of two", b, alignment))
			}
			bufferSize = align.UpPOT(bufferSize, uint64(alignment))
			end := bufferSize + uint64(stride)*uint64(decl.Count)
			if end > math.MaxUint32 {
				return nil, fmt.Errorf("%w: descriptor buffer of %d bytes", ErrOutOfHostMemory, end)
			}
			entry.Offset = uint32(bufferSize)
			entry.Stride = stride
			bufferSize = end
		}

		if decl.hasImmutableSamplers() {
			if len(decl.ImmutableSamplers) < int(decl.Count) {
				panic(fmt.Sprintf("descset: binding %d has %d immutable samplers, want %d",
					b, len(decl.ImmutableSamplers), decl.Count))
			}
			n := copy(samplers, decl.ImmutableSamplers[:decl.Count])
			entry.ImmutableSamplers = samplers[:n:n]
			samplers = samplers[n:]
		}
	}

	l.descriptorBufferSize = uint32(bufferSize)
	l.dynamicBufferCount = dynamicCount
	l.fingerprint = l.computeFingerprint()
	return l, nil
}
