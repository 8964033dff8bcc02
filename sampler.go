package descset

import (
	"github.com/gogpu/gputypes"
	"github.com/google/uuid"
)

// Sampler is a driver sampler object that layouts may capture as an
// immutable (pre-bound) sampler.
//
// Layouts keep plain references to the samplers they capture and do not
// extend their lifetime. The owner must keep a sampler alive for as long as
// any layout that captured it is in use.
type Sampler struct {
	id   uuid.UUID
	desc gputypes.SamplerDescriptor
}

// NewSampler creates a sampler object from desc.
func NewSampler(desc gputypes.SamplerDescriptor) *Sampler {
	return &Sampler{id: uuid.New(), desc: desc}
}

// ID returns the sampler's unique identifier.
func (s *Sampler) ID() uuid.UUID { return s.id }

// Descriptor returns the sampler state the sampler was created with.
func (s *Sampler) Descriptor() gputypes.SamplerDescriptor { return s.desc }

// Label returns the sampler's debug label.
func (s *Sampler) Label() string { return s.desc.Label }
