/*
 * Copyright 2024 The FFIGen Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ffigen/ffigen/builtin/rules"
	"github.com/ffigen/ffigen/emit"
	"github.com/ffigen/ffigen/types"
	"github.com/ffigen/ffigen/utils/hashutil"
	"github.com/ffigen/ffigen/utils/jsguard"
)

var _ types.Generator = (*ChainEngine)(nil)

// ChainEngine is the top-level driver for one generation run (spec §2, §5):
// it owns a fresh Registry, Graph and GenericEdgeSet per call to Expand
// (never reused across runs, per the single-shot dependency reset design
// note), merges the bundled and caller-supplied rule files into them, then
// walks every Class and Method, handing each resolved MethodSignature to
// the low-level and high-level emitters.
//
// The name and before/after wiring mirror the teacher's rule-chain engine's
// initBuiltinsAspects/onMsg shape, generalized from runtime message
// dispatch to compile-time code generation.
type ChainEngine struct {
	id      string
	cfg     *types.Config
	aspects types.AspectList

	registry *TypeRegistry
	graph    *Graph
	generics *GenericEdgeSet
	guards   *GuardEvaluator

	classes []*types.Class
}

// NewChainEngine returns a Generator identified by id, with BuiltinAspects
// registered and a default Config (overridable via SetConfig/SetAspects
// before the first Expand call).
func NewChainEngine(id string) *ChainEngine {
	if id == "" {
		id = "ffigen"
	}
	cfg, _ := NewConfig()
	return &ChainEngine{
		id:      id,
		cfg:     cfg,
		aspects: append(types.AspectList{}, BuiltinAspects...),
	}
}

// Id returns this generator's identifier.
func (e *ChainEngine) Id() string { return e.id }

// SetConfig replaces the active Config; a nil cfg is ignored.
func (e *ChainEngine) SetConfig(cfg *types.Config) {
	if cfg != nil {
		e.cfg = cfg
	}
}

// SetAspects replaces the active aspect list wholesale, including
// BuiltinAspects — callers that want the built-ins kept should include
// BuiltinAspects explicitly.
func (e *ChainEngine) SetAspects(aspects ...types.Aspect) {
	e.aspects = aspects
}

// Classes returns the classes decoded by the most recent Expand call.
func (e *ChainEngine) Classes() []*types.Class { return e.classes }

// Expand parses classDescriptors, resolves every class and method against a
// freshly merged conversion graph, and writes nativeLibName's low-level
// (Go/cgo) and high-level (C#) source into outputDir (spec §2, §6).
func (e *ChainEngine) Expand(ctx context.Context, nativeLibName string, classDescriptors []byte, outputDir string) error {
	ctx, endSpan := e.cfg.Tracer.StartSpan(ctx, "Expand:"+nativeLibName)
	defer endSpan()

	e.registry = NewTypeRegistry()
	e.graph = NewGraph()
	e.guards = NewGuardEvaluator()
	e.generics = NewGenericEdgeSet(jsguard.New())

	sigMapper := NewSignatureMapper(e.cfg)
	pathFinder := NewPathFinder(e.graph, e.registry, e.generics, e.guards, e.cfg)
	composer := NewComposer(pathFinder, e.registry, e.cfg, e.aspects)

	parser := e.cfg.Parser
	if parser == nil {
		parser = JSONParser{}
	}

	var utilityCode []string
	merge := func(data []byte, source string) error {
		rf, err := parser.DecodeRuleFile(data, source)
		if err != nil {
			return err
		}
		for _, aop := range e.aspects.RuleFileAspects() {
			if err := aop.OnRuleFileBeforeMerge(e.cfg, rf); err != nil {
				return err
			}
		}
		e.mergeRuleFile(rf)
		utilityCode = append(utilityCode, rf.UtilityCode...)
		e.cfg.Logger.Infow("merged rule file", "source", source, "fingerprint", hashutil.Fingerprint(data))
		return nil
	}

	if err := merge(rules.Default(), "builtin/rules/default.json"); err != nil {
		return fmt.Errorf("merging bundled rule file: %w", err)
	}
	for _, path := range e.cfg.RuleFilePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return &types.IOError{Path: path, Err: err}
		}
		if err := merge(data, path); err != nil {
			return fmt.Errorf("merging rule file %s: %w", path, err)
		}
	}

	classes, err := parser.DecodeClasses(classDescriptors, "<class-descriptors>")
	if err != nil {
		return err
	}
	e.classes = classes

	lowLevel := emit.NewLowLevelAccumulator(nativeLibName)
	lowLevel.AddUtility(utilityCode...)
	highLevel := emit.NewDotNetFile(nativeLibName)

	beforeClass, afterClass := e.aspects.ClassAspects()

	for _, class := range classes {
		if err := e.expandClass(ctx, class, sigMapper, composer, lowLevel, highLevel, beforeClass, afterClass); err != nil {
			return err
		}
	}

	if err := lowLevel.Flush(filepath.Join(outputDir, nativeLibName+"_generated.go")); err != nil {
		return err
	}
	if err := highLevel.Flush(filepath.Join(outputDir, nativeLibName+".cs")); err != nil {
		return err
	}
	return nil
}

func (e *ChainEngine) expandClass(
	ctx context.Context,
	class *types.Class,
	sigMapper *SignatureMapper,
	composer *Composer,
	lowLevel *emit.LowLevelAccumulator,
	highLevel *emit.DotNetFile,
	beforeClass []types.ClassBeforeAspect,
	afterClass []types.ClassAfterAspect,
) error {
	ctx, endClassSpan := e.cfg.Tracer.StartSpan(ctx, "class:"+class.Name)
	defer endClassSpan()

	if err := sigMapper.ValidateClass(class); err != nil {
		return err
	}

	for _, aop := range beforeClass {
		if aop.PointCut(class) {
			if err := aop.Before(ctx, class); err != nil {
				return err
			}
		}
	}

	state := emit.NewClassState(class.Name, class.HasDestructor)
	if err := state.Open(); err != nil {
		return err
	}
	if err := lowLevel.BeginClass(state); err != nil {
		return err
	}
	if err := highLevel.BeginClass(state); err != nil {
		return err
	}

	methods := append(append([]*types.Method{}, class.Constructors...), class.Methods...)
	for _, method := range methods {
		if err := sigMapper.Validate(e.registry, class, method); err != nil {
			return err
		}
		sig, err := composer.ComposeMethod(ctx, class, method)
		if err != nil {
			return err
		}
		if err := lowLevel.EmitMethod(state, sig); err != nil {
			return err
		}
		if err := highLevel.EmitMethod(state, sig); err != nil {
			return err
		}
	}

	if err := lowLevel.EndClass(state); err != nil {
		return err
	}
	if err := highLevel.EndClass(state); err != nil {
		return err
	}
	if err := state.Close(); err != nil {
		return err
	}

	for _, aop := range afterClass {
		if aop.PointCut(class) {
			if err := aop.After(ctx, class); err != nil {
				return err
			}
		}
	}
	return nil
}

// mergeRuleFile interns rf's bindings, conversion edges and generic edges
// into the engine's registry, graph and generic edge set. Conflicts are
// logged as warnings, never fatal (spec §7): the earliest-registered
// binding or edge always wins.
func (e *ChainEngine) mergeRuleFile(rf *types.RuleFile) {
	for _, b := range rf.Bindings {
		src := e.registry.Intern(types.NewSourceType(b.SourceNormName))
		if err := e.registry.BindDestination(src.NormalizedName, b.DestinationName); err != nil {
			e.cfg.Logger.Warnw("destination binding conflict", "err", err)
		}
		if b.ABINormName != "" {
			e.registry.SetABI(src.NormalizedName, b.ABINormName)
		}
	}

	for _, c := range rf.Conversions {
		var dep *types.Dependency
		if c.Dependency != "" {
			dep = &types.Dependency{Code: c.Dependency}
		}
		edge, err := types.NewConversionEdge(c.CodeTemplate, dep)
		if err != nil {
			e.cfg.Logger.Warnw("invalid conversion template", "from", c.From, "to", c.To, "err", err)
			continue
		}
		edge.Guard = c.Guard

		from := e.registry.Intern(types.NewSourceType(c.From)).NormalizedName
		to := e.registry.Intern(types.NewSourceType(c.To)).NormalizedName
		if err := e.graph.AddEdge(from, to, edge); err != nil {
			e.cfg.Metrics.IncEdgeConflict()
			e.cfg.Logger.Warnw("conversion edge conflict", "err", err)
		}
	}

	for _, g := range rf.GenericEdges {
		var dep *types.Dependency
		if g.Dependency != "" {
			dep = &types.Dependency{Code: g.Dependency}
		}
		var bounds []types.TraitBound
		if g.TypeParam != "" {
			bounds = []types.TraitBound{{TypeParam: g.TypeParam, Traits: g.Traits}}
		}
		ge, err := types.NewGenericEdge(g.FromPattern, g.ToPattern, g.CodeTemplate, bounds, dep)
		if err != nil {
			e.cfg.Logger.Warnw("invalid generic edge template", "from", g.FromPattern, "to", g.ToPattern, "err", err)
			continue
		}
		ge.ToForeignerHint = g.ToForeignerHint
		ge.DynamicBound = g.DynamicBound
		e.generics.Add(ge)
	}
}
