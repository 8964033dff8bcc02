package descset

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/descset/internal/align"
)

// maxStride is the largest per-descriptor stride the hardware can encode;
// binding strides are stored in 8 bits.
const maxStride = math.MaxUint8

// Properties holds the hardware constants the layout compiler depends on.
// They come from device initialization and differ between GPU generations.
type Properties struct {
	// ImageDescriptorSize is the size in bytes of one opaque image
	// descriptor. Samplers, texel buffers and input attachments share it.
	ImageDescriptorSize uint32

	// BufferDescriptorSize is the size in bytes of one buffer address
	// descriptor (address + range).
	BufferDescriptorSize uint32

	// MaxDescriptorSize is the largest stride any single descriptor,
	// including a mutable one, may resolve to.
	MaxDescriptorSize uint32

	// MinUniformBufferAlignment is the alignment of inline uniform blocks
	// inside the descriptor buffer.
	MinUniformBufferAlignment uint32

	// MaxBindingsPerLayout bounds the dense binding table (highest binding
	// number + 1). Larger tables fail with ErrOutOfHostMemory.
	MaxBindingsPerLayout uint32
}

// Validate checks that the properties describe a usable descriptor format.
func (p Properties) Validate() error {
	for _, f := range []struct {
		name string
		v    uint32
	}{
		{"image descriptor size", p.ImageDescriptorSize},
		{"buffer descriptor size", p.BufferDescriptorSize},
		{"min uniform buffer alignment", p.MinUniformBufferAlignment},
	} {
		if !align.IsPowerOfTwo(f.v) {
			return fmt.Errorf("%w: %s %d is not a power of two", ErrInvalidProperties, f.name, f.v)
		}
	}
	if p.MaxDescriptorSize == 0 || p.MaxDescriptorSize > maxStride {
		return fmt.Errorf("%w: max descriptor size %d out of range [1, %d]",
			ErrInvalidProperties, p.MaxDescriptorSize, maxStride)
	}
	if p.ImageDescriptorSize > p.MaxDescriptorSize || p.BufferDescriptorSize > p.MaxDescriptorSize {
		return fmt.Errorf("%w: descriptor sizes (image %d, buffer %d) exceed max descriptor size %d",
			ErrInvalidProperties, p.ImageDescriptorSize, p.BufferDescriptorSize, p.MaxDescriptorSize)
	}
	if p.MaxBindingsPerLayout == 0 {
		return fmt.Errorf("%w: max bindings per layout is 0", ErrInvalidProperties)
	}
	return nil
}

// StrideAlign returns the byte stride and alignment of one descriptor of
// type t inside the descriptor buffer.
//
// mutable lists the candidate types of a DescriptorTypeMutable binding and
// is ignored for every other type. The mutable footprint is the maximum
// stride and alignment over all candidates, with the stride rounded up to
// the alignment, so any candidate chosen at bind time fits.
//
// Dynamic buffer types return (0, 0): their offsets live in the dynamic
// buffer array, not the descriptor buffer. Descriptor writers must use this
// function rather than re-deriving the rules.
//
// StrideAlign panics on an invalid type, on a mutable binding with no
// candidates or with a mutable candidate, and if the resolved stride
// exceeds MaxDescriptorSize. CheckBinding reports the same conditions as
// errors.
func (p Properties) StrideAlign(t DescriptorType, mutable []DescriptorType) (stride, alignment uint32) {
	stride, alignment, err := p.strideAlign(t, mutable)
	if err != nil {
		panic("descset: " + err.Error())
	}
	return stride, alignment
}

// CheckBinding reports whether a binding of type t with the given mutable
// candidates has a footprint these properties can encode. The returned
// error wraps ErrInvalidBinding.
func (p Properties) CheckBinding(t DescriptorType, mutable []DescriptorType) error {
	if _, _, err := p.strideAlign(t, mutable); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBinding, err)
	}
	return nil
}

func (p Properties) strideAlign(t DescriptorType, mutable []DescriptorType) (stride, alignment uint32, err error) {
	switch t {
	case DescriptorTypeSampler,
		DescriptorTypeCombinedImageSampler,
		DescriptorTypeSampledImage,
		DescriptorTypeStorageImage,
		DescriptorTypeInputAttachment,
		DescriptorTypeUniformTexelBuffer,
		DescriptorTypeStorageTexelBuffer:
		// Samplers use the image descriptor footprint until they get a
		// descriptor format of their own.
		stride, alignment = p.ImageDescriptorSize, p.ImageDescriptorSize

	case DescriptorTypeUniformBuffer, DescriptorTypeStorageBuffer:
		stride, alignment = p.BufferDescriptorSize, p.BufferDescriptorSize

	case DescriptorTypeUniformBufferDynamic, DescriptorTypeStorageBufferDynamic:
		stride, alignment = 0, 0

	case DescriptorTypeInlineUniformBlock:
		// Count is in bytes.
		stride, alignment = 1, p.MinUniformBufferAlignment

	case DescriptorTypeMutable:
		if len(mutable) == 0 {
			return 0, 0, errors.New("mutable binding without candidate types")
		}
		for _, mt := range mutable {
			if mt == DescriptorTypeMutable {
				return 0, 0, errors.New("mutable descriptor type listed as its own candidate")
			}
			s, a, err := p.strideAlign(mt, nil)
			if err != nil {
				return 0, 0, err
			}
			stride = max(stride, s)
			alignment = max(alignment, a)
		}
		stride = align.Up(stride, alignment)

	default:
		return 0, 0, fmt.Errorf("invalid descriptor type %v", t)
	}

	if stride > p.MaxDescriptorSize {
		return 0, 0, fmt.Errorf("%v stride %d exceeds max descriptor size %d",
			t, stride, p.MaxDescriptorSize)
	}
	return stride, alignment, nil
}
