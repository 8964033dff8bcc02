package descset

import (
	"fmt"
	"sync/atomic"
)

// DynamicBufferStart returns the index at which set's dynamic buffer
// offsets begin in the flat dynamic offset array of a draw: the sum of the
// dynamic buffer counts of sets [0, set). set may equal len(sets), which
// yields the total count. Nil entries (unused set slots) count as zero.
func DynamicBufferStart(sets []*Layout, set int) uint32 {
	if set < 0 || set > len(sets) {
		panic(fmt.Sprintf("descset: set index %d out of range [0, %d]", set, len(sets)))
	}
	var start uint32
	for _, l := range sets[:set] {
		if l != nil {
			start += l.dynamicBufferCount
		}
	}
	return start
}

// PipelineLayout is an ordered sequence of set layouts as seen by a
// pipeline. It holds a reference on each set layout until Release.
type PipelineLayout struct {
	sets     []*Layout
	released atomic.Bool
}

// NewPipelineLayout creates a pipeline layout over sets, taking a reference
// on each non-nil set layout.
func NewPipelineLayout(sets ...*Layout) *PipelineLayout {
	p := &PipelineLayout{sets: make([]*Layout, len(sets))}
	for i, l := range sets {
		if l != nil {
			p.sets[i] = l.Ref()
		}
	}
	return p
}

// CreatePipelineLayout compiles one layout per descriptor and wraps them in
// a pipeline layout that owns the only reference to each. A nil descriptor
// leaves its set slot unused. If any set fails, the sets compiled so far
// are released.
func (d *Device) CreatePipelineLayout(descs []*LayoutDesc) (*PipelineLayout, error) {
	sets := make([]*Layout, len(descs))
	release := func() {
		for _, l := range sets {
			if l != nil {
				l.Unref()
			}
		}
	}
	for i, desc := range descs {
		if desc == nil {
			continue
		}
		l, err := d.CreateLayout(desc)
		if err != nil {
			release()
			return nil, fmt.Errorf("set %d: %w", i, err)
		}
		sets[i] = l
	}
	p := NewPipelineLayout(sets...)
	release()
	return p, nil
}

// SetCount returns the number of set slots.
func (p *PipelineLayout) SetCount() int { return len(p.sets) }

// Set returns the layout of set i, or nil for an unused slot.
func (p *PipelineLayout) Set(i int) *Layout { return p.sets[i] }

// DynamicBufferStart returns the first dynamic offset index of set.
func (p *PipelineLayout) DynamicBufferStart(set int) uint32 {
	return DynamicBufferStart(p.sets, set)
}

// DynamicBufferCount returns the total number of dynamic offsets a draw
// using this pipeline layout must supply.
func (p *PipelineLayout) DynamicBufferCount() uint32 {
	return DynamicBufferStart(p.sets, len(p.sets))
}

// CompatibleForSet reports whether sets 0 through set of p and other have
// pairwise compatible layouts, so descriptor sets bound for one pipeline
// layout stay valid for the other up to that set. An unused slot matches
// only another unused slot.
func (p *PipelineLayout) CompatibleForSet(other *PipelineLayout, set int) bool {
	if set < 0 || set >= len(p.sets) || set >= len(other.sets) {
		return false
	}
	for i := 0; i <= set; i++ {
		a, b := p.sets[i], other.sets[i]
		if a == nil || b == nil {
			if a != b {
				return false
			}
			continue
		}
		if !a.Compatible(b) {
			return false
		}
	}
	return true
}

// Release drops the references taken by NewPipelineLayout. It is safe to
// call more than once, including concurrently; only the first call unrefs.
func (p *PipelineLayout) Release() {
	if !p.released.CompareAndSwap(false, true) {
		return
	}
	for _, l := range p.sets {
		if l != nil {
			l.Unref()
		}
	}
}
