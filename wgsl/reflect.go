// Package wgsl derives descriptor set layouts from the resource bindings of
// WGSL shaders.
//
// Shaders are parsed and lowered with naga. Every module-scope variable
// with a @group/@binding attribute becomes a Resource; resources of one
// group form one descriptor set layout.
//
//	r, err := wgsl.Reflect(source)
//	if err != nil {
//		return err
//	}
//	for _, desc := range r.Pipeline() {
//		layout, err := dev.CreateLayout(desc)
//		...
//	}
package wgsl

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/gogpu/descset"
	"github.com/gogpu/descset/internal/cache"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// ErrParse is returned when a shader fails to parse or lower.
var ErrParse = errors.New("wgsl: invalid shader")

// DefaultCacheSize is the number of reflections the package-level
// reflector keeps.
const DefaultCacheSize = 64

// Resource is one bound shader resource.
type Resource struct {
	// Name is the WGSL variable name.
	Name string

	Group   uint32
	Binding uint32

	Type descset.DescriptorType

	// Count is the binding_array length, or 1.
	Count uint32

	// Flags is PartiallyBound|VariableDescriptorCount for runtime-sized
	// binding arrays.
	Flags descset.BindingFlags

	// Stages are the entry point stages that reference the variable.
	Stages gputypes.ShaderStages
}

// Reflection is the resource interface of one shader module. It is
// immutable and may be shared.
type Reflection struct {
	resources []Resource
}

// Resources returns all resources ordered by group, then binding.
func (r *Reflection) Resources() []Resource {
	return slices.Clone(r.resources)
}

// Groups returns the distinct group numbers in ascending order.
func (r *Reflection) Groups() []uint32 {
	var groups []uint32
	for _, res := range r.resources {
		if len(groups) == 0 || groups[len(groups)-1] != res.Group {
			groups = append(groups, res.Group)
		}
	}
	return groups
}

// Layout returns a layout descriptor for group. A group the shader does not
// use yields an empty descriptor.
func (r *Reflection) Layout(group uint32) *descset.LayoutDesc {
	desc := &descset.LayoutDesc{Label: "group " + strconv.FormatUint(uint64(group), 10)}
	for _, res := range r.resources {
		if res.Group != group {
			continue
		}
		desc.Bindings = append(desc.Bindings, descset.Binding{
			Binding: res.Binding,
			Type:    res.Type,
			Count:   res.Count,
			Flags:   res.Flags,
			Stages:  res.Stages,
		})
	}
	return desc
}

// Pipeline returns one layout descriptor per group from 0 through the
// highest group used. Gaps get empty descriptors.
func (r *Reflection) Pipeline() []*descset.LayoutDesc {
	groups := r.Groups()
	if len(groups) == 0 {
		return nil
	}
	out := make([]*descset.LayoutDesc, groups[len(groups)-1]+1)
	for g := range out {
		out[g] = r.Layout(uint32(g))
	}
	return out
}

// Reflector reflects shaders and caches the results by source text.
// It is safe for concurrent use.
type Reflector struct {
	cache *cache.Cache[string, *Reflection]
}

// NewReflector creates a reflector caching up to limit shaders. A limit of
// 0 disables eviction.
func NewReflector(limit int) *Reflector {
	return &Reflector{cache: cache.New[string, *Reflection](limit)}
}

// Reflect returns the resource interface of source.
func (rf *Reflector) Reflect(source string) (*Reflection, error) {
	r, hit, err := rf.cache.GetOrCreate(source, func() (*Reflection, error) {
		return reflectSource(source)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		descset.Logger().Debug("wgsl: reflection cache hit", "resources", len(r.resources))
	}
	return r, nil
}

// CacheStats returns the reflector's cache counters.
func (rf *Reflector) CacheStats() cache.Stats {
	return rf.cache.Stats()
}

var defaultReflector = NewReflector(DefaultCacheSize)

// Reflect reflects source with a shared package-level reflector.
func Reflect(source string) (*Reflection, error) {
	return defaultReflector.Reflect(source)
}

func reflectSource(source string) (*Reflection, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	stages := globalStages(module)
	r := &Reflection{}
	for i := range module.GlobalVariables {
		gv := &module.GlobalVariables[i]
		if gv.Binding == nil {
			continue
		}
		res, ok := classify(module, gv)
		if !ok {
			descset.Logger().Warn("wgsl: unsupported resource skipped",
				"name", gv.Name,
				"group", gv.Binding.Group,
				"binding", gv.Binding.Binding)
			continue
		}
		res.Stages = stages[i]
		r.resources = append(r.resources, res)
	}
	slices.SortStableFunc(r.resources, func(a, b Resource) int {
		if a.Group != b.Group {
			return cmpUint32(a.Group, b.Group)
		}
		return cmpUint32(a.Binding, b.Binding)
	})
	return r, nil
}

func cmpUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// classify maps a bound global to a resource.
func classify(module *ir.Module, gv *ir.GlobalVariable) (Resource, bool) {
	res := Resource{
		Name:    gv.Name,
		Group:   gv.Binding.Group,
		Binding: gv.Binding.Binding,
		Count:   1,
	}

	inner := typeInner(module, gv.Type)
	if arr, ok := inner.(ir.BindingArrayType); ok {
		if arr.Size != nil {
			res.Count = *arr.Size
		} else {
			res.Flags = descset.BindingFlagPartiallyBound | descset.BindingFlagVariableDescriptorCount
		}
		inner = typeInner(module, arr.Base)
	}

	switch gv.Space {
	case ir.SpaceUniform:
		res.Type = descset.DescriptorTypeUniformBuffer
	case ir.SpaceStorage:
		res.Type = descset.DescriptorTypeStorageBuffer
	case ir.SpaceHandle:
		switch t := inner.(type) {
		case ir.SamplerType:
			res.Type = descset.DescriptorTypeSampler
		case ir.ImageType:
			if t.Class == ir.ImageClassStorage {
				res.Type = descset.DescriptorTypeStorageImage
			} else {
				res.Type = descset.DescriptorTypeSampledImage
			}
		default:
			return Resource{}, false
		}
	default:
		return Resource{}, false
	}
	return res, true
}

func typeInner(module *ir.Module, h ir.TypeHandle) ir.TypeInner {
	if int(h) >= len(module.Types) {
		return nil
	}
	return module.Types[h].Inner
}

// globalStages returns, per global variable, the stages of the entry points
// that reach it directly or through called functions.
func globalStages(module *ir.Module) []gputypes.ShaderStages {
	out := make([]gputypes.ShaderStages, len(module.GlobalVariables))
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		stage := shaderStage(ep.Stage)
		if stage == gputypes.ShaderStageNone {
			continue
		}
		t := tracer{module: module, visited: make(map[ir.FunctionHandle]bool)}
		t.function(&ep.Function)
		for g := range t.globals {
			if int(g) < len(out) {
				out[g] |= stage
			}
		}
	}
	return out
}

func shaderStage(s ir.ShaderStage) gputypes.ShaderStages {
	switch s {
	case ir.StageVertex:
		return gputypes.ShaderStageVertex
	case ir.StageFragment:
		return gputypes.ShaderStageFragment
	case ir.StageCompute:
		return gputypes.ShaderStageCompute
	}
	return gputypes.ShaderStageNone
}

// tracer collects the globals referenced from one entry point.
type tracer struct {
	module  *ir.Module
	visited map[ir.FunctionHandle]bool
	globals map[ir.GlobalVariableHandle]struct{}
}

func (t *tracer) function(f *ir.Function) {
	if t.globals == nil {
		t.globals = make(map[ir.GlobalVariableHandle]struct{})
	}
	for _, expr := range f.Expressions {
		if gv, ok := expr.Kind.(ir.ExprGlobalVariable); ok {
			t.globals[gv.Variable] = struct{}{}
		}
	}
	t.block(f.Body)
}

func (t *tracer) block(b ir.Block) {
	for _, st := range b {
		switch s := st.Kind.(type) {
		case ir.StmtCall:
			if t.visited[s.Function] || int(s.Function) >= len(t.module.Functions) {
				continue
			}
			t.visited[s.Function] = true
			t.function(&t.module.Functions[s.Function])
		case ir.StmtBlock:
			t.block(s.Block)
		case ir.StmtIf:
			t.block(s.Accept)
			t.block(s.Reject)
		case ir.StmtSwitch:
			for _, c := range s.Cases {
				t.block(c.Body)
			}
		case ir.StmtLoop:
			t.block(s.Body)
			t.block(s.Continuing)
		}
	}
}
