package wgsl

import (
	"testing"

	"github.com/gogpu/descset"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const materialShader = `
struct Camera {
    view_proj: mat4x4<f32>,
};

struct Light {
    color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(0) var albedo: texture_2d<f32>;
@group(1) @binding(1) var albedo_sampler: sampler;
@group(1) @binding(3) var<storage, read> lights: array<Light>;

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return camera.view_proj * vec4<f32>(f32(idx), 0.0, 0.0, 1.0);
}

@fragment
fn fs_main(@builtin(position) pos: vec4<f32>) -> @location(0) vec4<f32> {
    let base = textureSample(albedo, albedo_sampler, pos.xy);
    return base * lights[0].color;
}
`

func TestReflectMaterial(t *testing.T) {
	r, err := NewReflector(4).Reflect(materialShader)
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 1}, r.Groups())

	res := r.Resources()
	require.Len(t, res, 4)

	assert.Equal(t, "camera", res[0].Name)
	assert.Equal(t, descset.DescriptorTypeUniformBuffer, res[0].Type)
	assert.Equal(t, gputypes.ShaderStageVertex, res[0].Stages)

	assert.Equal(t, descset.DescriptorTypeSampledImage, res[1].Type)
	assert.Equal(t, gputypes.ShaderStageFragment, res[1].Stages)
	assert.Equal(t, descset.DescriptorTypeSampler, res[2].Type)
	assert.Equal(t, descset.DescriptorTypeStorageBuffer, res[3].Type)
	assert.Equal(t, uint32(3), res[3].Binding)

	for _, rs := range res {
		assert.Equal(t, uint32(1), rs.Count, rs.Name)
	}
}

func TestReflectionPipelineCompiles(t *testing.T) {
	r, err := Reflect(materialShader)
	require.NoError(t, err)

	descs := r.Pipeline()
	require.Len(t, descs, 2)
	assert.Equal(t, "group 1", descs[1].Label)

	dev, err := descset.NewDevice()
	require.NoError(t, err)

	set1, err := dev.CreateLayout(descs[1])
	require.NoError(t, err)
	defer set1.Unref()

	assert.Equal(t, 4, set1.BindingCount())
	// texture 0..4, sampler 4..8, unused slot 2, storage buffer aligned to 16.
	assert.Equal(t, uint32(16), set1.Binding(3).Offset)
	assert.Equal(t, uint32(32), set1.DescriptorBufferSize())
}

func TestReflectGapsAndArrays(t *testing.T) {
	src := `
@group(2) @binding(0) var textures: binding_array<texture_2d<f32>, 8>;
@group(2) @binding(1) var bindless: binding_array<texture_2d<f32>>;
@group(2) @binding(2) var output: texture_storage_2d<rgba8unorm, write>;
@group(2) @binding(3) var shadow: sampler_comparison;
@group(2) @binding(4) var depth: texture_depth_2d;

@compute @workgroup_size(1)
fn main() {
    textureStore(output, vec2<i32>(0, 0), textureLoad(textures[0], vec2<i32>(0, 0), 0));
}
`
	r, err := NewReflector(0).Reflect(src)
	require.NoError(t, err)

	descs := r.Pipeline()
	require.Len(t, descs, 3)
	assert.Empty(t, descs[0].Bindings)
	assert.Empty(t, descs[1].Bindings)

	b := descs[2].Bindings
	require.Len(t, b, 5)
	assert.Equal(t, descset.DescriptorTypeSampledImage, b[0].Type)
	assert.Equal(t, uint32(8), b[0].Count)
	assert.Equal(t, gputypes.ShaderStageCompute, b[0].Stages)

	assert.Equal(t, uint32(1), b[1].Count)
	assert.Equal(t, descset.BindingFlagPartiallyBound|descset.BindingFlagVariableDescriptorCount, b[1].Flags)
	assert.Equal(t, gputypes.ShaderStageNone, b[1].Stages)

	assert.Equal(t, descset.DescriptorTypeStorageImage, b[2].Type)
	assert.Equal(t, descset.DescriptorTypeSampler, b[3].Type)
	assert.Equal(t, descset.DescriptorTypeSampledImage, b[4].Type)
}

func TestReflectStagesThroughCalls(t *testing.T) {
	src := `
@group(0) @binding(0) var<uniform> tint: vec4<f32>;

fn shade() -> vec4<f32> {
    return tint;
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return shade();
}
`
	r, err := NewReflector(1).Reflect(src)
	require.NoError(t, err)
	res := r.Resources()
	require.Len(t, res, 1)
	assert.Equal(t, gputypes.ShaderStageFragment, res[0].Stages)
}

func TestReflectEmpty(t *testing.T) {
	r, err := NewReflector(1).Reflect(`
@compute @workgroup_size(1)
fn main() {}
`)
	require.NoError(t, err)
	assert.Empty(t, r.Groups())
	assert.Nil(t, r.Pipeline())
	assert.Empty(t, r.Layout(0).Bindings)
}

func TestReflectParseError(t *testing.T) {
	rf := NewReflector(4)
	_, err := rf.Reflect("@group(0) @binding(0) var<uniform> x: ;")
	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, 0, rf.CacheStats().Len, "failures are not cached")
}

func TestReflectorCaches(t *testing.T) {
	rf := NewReflector(4)
	a, err := rf.Reflect(materialShader)
	require.NoError(t, err)
	b, err := rf.Reflect(materialShader)
	require.NoError(t, err)

	assert.Same(t, a, b)
	s := rf.CacheStats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
}
