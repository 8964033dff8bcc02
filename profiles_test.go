package descset

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProfiles(t *testing.T) {
	assert.Equal(t, ProfileNVK, DefaultProfile())
	assert.Subset(t, Profiles(), []string{ProfileNVK, ProfileWebGPU, ProfileDownlevel})

	for _, name := range []string{ProfileNVK, ProfileWebGPU, ProfileDownlevel} {
		p, err := Profile(name)
		require.NoError(t, err, name)
		assert.NoError(t, p.Validate(), name)
		assert.Equal(t, uint32(4), p.ImageDescriptorSize, name)
		assert.Equal(t, uint32(16), p.BufferDescriptorSize, name)
	}

	web, err := Profile(ProfileWebGPU)
	require.NoError(t, err)
	assert.Equal(t, gputypes.DefaultLimits().MaxBindingsPerBindGroup, web.MaxBindingsPerLayout)
}

func TestProfileUnknown(t *testing.T) {
	_, err := Profile("mali")
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestRegisterProfile(t *testing.T) {
	p := NVKProperties()
	p.ImageDescriptorSize = 8
	p.BufferDescriptorSize = 8
	RegisterProfile("test-compact", p)
	t.Cleanup(func() { profiles.Unregister("test-compact") })

	got, err := Profile("test-compact")
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.Contains(t, Profiles(), "test-compact")
	assert.Equal(t, ProfileNVK, DefaultProfile(), "unprioritized profiles never become the default")

	dev := newTestDevice(t, WithProfile("test-compact"))
	l := mustCreate(t, dev, uboDesc("compact"))
	assert.Equal(t, uint32(8), l.DescriptorBufferSize())
}

func TestPropertiesFromLimits(t *testing.T) {
	base := NVKProperties()

	got := PropertiesFromLimits(base, gputypes.Limits{})
	assert.Equal(t, base, got)

	got = PropertiesFromLimits(base, gputypes.Limits{
		MinUniformBufferOffsetAlignment: 64,
		MaxBindingsPerBindGroup:         32,
	})
	assert.Equal(t, uint32(64), got.MinUniformBufferAlignment)
	assert.Equal(t, uint32(32), got.MaxBindingsPerLayout)
	assert.Equal(t, base.ImageDescriptorSize, got.ImageDescriptorSize)
}

func TestWithLimits(t *testing.T) {
	dev := newTestDevice(t, WithLimits(gputypes.Limits{MaxBindingsPerBindGroup: 2}))

	_, err := dev.CreateLayout(&LayoutDesc{
		Bindings: []Binding{{Binding: 2, Type: DescriptorTypeSampler, Count: 1}},
	})
	assert.ErrorIs(t, err, ErrOutOfHostMemory)
}
