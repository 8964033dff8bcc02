package descset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorTypeString(t *testing.T) {
	assert.Equal(t, "UniformBufferDynamic", DescriptorTypeUniformBufferDynamic.String())
	assert.Equal(t, "Invalid", DescriptorTypeInvalid.String())
	assert.Equal(t, "DescriptorType(42)", DescriptorType(42).String())
}

func TestDescriptorTypeIsValid(t *testing.T) {
	assert.False(t, DescriptorTypeInvalid.IsValid())
	assert.True(t, DescriptorTypeSampler.IsValid())
	assert.True(t, DescriptorTypeMutable.IsValid())
	assert.False(t, descriptorTypeCount.IsValid())
}

func TestParseDescriptorType(t *testing.T) {
	tests := []struct {
		in   string
		want DescriptorType
	}{
		{"UniformBuffer", DescriptorTypeUniformBuffer},
		{"uniform_buffer_dynamic", DescriptorTypeUniformBufferDynamic},
		{"STORAGE_IMAGE", DescriptorTypeStorageImage},
		{"inlineuniformblock", DescriptorTypeInlineUniformBlock},
		{"mutable", DescriptorTypeMutable},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDescriptorType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "invalid", "texture"} {
		_, err := ParseDescriptorType(bad)
		assert.ErrorIs(t, err, ErrUnknownDescriptorType, bad)
	}
}

func TestParseDescriptorTypeRoundTrip(t *testing.T) {
	for typ := DescriptorTypeSampler; typ < descriptorTypeCount; typ++ {
		got, err := ParseDescriptorType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
}

func TestBindingFlagsString(t *testing.T) {
	assert.Equal(t, "None", BindingFlags(0).String())
	assert.Equal(t, "UpdateAfterBind", BindingFlagUpdateAfterBind.String())
	assert.Equal(t, "PartiallyBound|VariableDescriptorCount",
		(BindingFlagVariableDescriptorCount | BindingFlagPartiallyBound).String())
	assert.Equal(t, "UpdateAfterBind|0x30", (BindingFlagUpdateAfterBind | 0x30).String())
}

func TestParseBindingFlag(t *testing.T) {
	f, err := ParseBindingFlag("partially_bound")
	require.NoError(t, err)
	assert.Equal(t, BindingFlagPartiallyBound, f)

	f, err = ParseBindingFlag("UpdateUnusedWhilePending")
	require.NoError(t, err)
	assert.Equal(t, BindingFlagUpdateUnusedWhilePending, f)

	_, err = ParseBindingFlag("bindless")
	assert.ErrorIs(t, err, ErrUnknownBindingFlag)
}
