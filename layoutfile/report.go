package layoutfile

import (
	"github.com/gogpu/descset"
)

// Report summarizes a compiled pipeline layout. It marshals to JSON.
type Report struct {
	Source             string      `json:"source,omitempty"`
	Profile            string      `json:"profile,omitempty"`
	DynamicBufferCount uint32      `json:"dynamicBufferCount"`
	Sets               []SetReport `json:"sets"`
}

// SetReport describes one set slot. Layout is nil for unused slots.
type SetReport struct {
	Set                int             `json:"set"`
	DynamicBufferStart uint32          `json:"dynamicBufferStart"`
	Layout             *descset.Layout `json:"layout"`
}

// NewReport builds a report for p. The report refers to p's layouts and is
// only valid until p is released.
func NewReport(p *descset.PipelineLayout) *Report {
	r := &Report{
		DynamicBufferCount: p.DynamicBufferCount(),
		Sets:               make([]SetReport, p.SetCount()),
	}
	for i := range r.Sets {
		r.Sets[i] = SetReport{
			Set:                i,
			DynamicBufferStart: p.DynamicBufferStart(i),
			Layout:             p.Set(i),
		}
	}
	return r
}
