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
	"strings"

	"github.com/fatih/structs"

	"github.com/ffigen/ffigen/types"
	"github.com/ffigen/ffigen/utils/varname"
)

// Composer resolves and composes the low-level and high-level code for a
// single method (spec §4.E "Signature Mapper" + §4.F "Code Composer"),
// wrapping each step with the registered MethodBeforeAspect/
// MethodAfterAspect hooks the same way the teacher's rule-processing
// context wraps a node's OnMsg with before/after aspects.
type Composer struct {
	pathFinder *PathFinder
	registry   *TypeRegistry
	cfg        *types.Config
	aspects    types.AspectList
	names      *varname.Generator
}

// NewComposer builds a Composer over the given path finder and registry.
func NewComposer(pf *PathFinder, reg *TypeRegistry, cfg *types.Config, aspects types.AspectList) *Composer {
	return &Composer{pathFinder: pf, registry: reg, cfg: cfg, aspects: aspects, names: varname.NewGenerator()}
}

// ComposeMethod resolves class.method's full MethodSignature: for every
// argument and the return value it finds a conversion path between the
// declared source type and its bound destination type, applies each edge's
// template to a uniquely-named variable, and collects any single-shot
// dependencies those edges carry.
func (c *Composer) ComposeMethod(ctx context.Context, class *types.Class, method *types.Method) (sig types.MethodSignature, err error) {
	before, after := c.aspects.MethodAspects()
	for _, asp := range before {
		if asp.PointCut(class, method) {
			if err = asp.Before(ctx, class, method); err != nil {
				return sig, err
			}
		}
	}

	sig, err = c.composeMethod(class, method)

	for _, asp := range after {
		if asp.PointCut(class, method) {
			if aerr := asp.After(ctx, class, sig, err); aerr != nil && err == nil {
				err = aerr
			}
		}
	}
	if err != nil {
		return sig, types.NewGenerationError(class.Name, method.Name, err)
	}
	c.cfg.Metrics.IncMethodsGenerated(sig.Variant.String())
	return sig, nil
}

func (c *Composer) composeMethod(class *types.Class, method *types.Method) (types.MethodSignature, error) {
	sig := types.MethodSignature{
		ClassName:  class.Name,
		MethodName: method.Name,
		Variant:    method.Variant,
	}
	if method.Variant == types.InstanceMethod {
		sig.SelfKind = class.SelfType
	}

	extra := templateContext{ClassName: class.Name}

	for _, arg := range method.Args {
		binding, err := c.composeBinding(arg.Name, arg.Type, types.Outgoing)
		if err != nil {
			return sig, fmt.Errorf("argument %s: %w", arg.Name, err)
		}
		if method.Variant == types.Constructor {
			binding.LowLevelCode = applyExtendedContext(binding.LowLevelCode, extra)
		}
		sig.Args = append(sig.Args, binding)
	}

	if method.Return != "" {
		ret, err := c.composeBinding("ret", method.Return, types.Incoming)
		if err != nil {
			return sig, fmt.Errorf("return value: %w", err)
		}
		sig.Return = ret
	}

	sig.Body = method.Body

	return sig, nil
}

// composeBinding resolves one argument (or the return value): it calls
// resolve_source_to_destination (spec §4.D) to find which registered
// destination binding the declared source type can reach (direction
// outgoing for arguments, incoming for the return value, per spec §4.E),
// then walks the conversion graph from the declared type to that binding's
// ABI-neutral node (spec §4.E "ABI intermediate type") and renders the
// low-level marshaling code for whatever path connects them. Most bindings
// cross the boundary as-is (the ABI node equals the declared type, so the
// walk is a zero-length reflexive match); a binding may override ABINormName
// to a genuinely different node when the declared type isn't itself
// ABI-safe.
func (c *Composer) composeBinding(argName, sourceSyntax string, direction types.Direction) (types.ArgBinding, error) {
	src := types.NewSourceType(sourceSyntax)
	src = c.registry.Intern(src)

	dest, err := c.pathFinder.ResolveDestination(src.NormalizedName, direction)
	if err != nil {
		return types.ArgBinding{}, err
	}

	steps, err := c.pathFinder.Resolve(src.NormalizedName, dest.ABINormName)
	if err != nil {
		return types.ArgBinding{}, err
	}

	abiType := dest.ABINormName
	if abiNode, ok := c.registry.Lookup(dest.ABINormName); ok {
		abiType = abiNode.Syntax
	}

	varName := c.names.Next(argName)
	lowCode, lowDeps := renderSteps(steps, varName, dest.DestinationName)

	binding := types.ArgBinding{
		Name:       argName,
		SourceType: src,
		Foreign: types.ForeignTypeInfo{
			DestinationName: dest.DestinationName,
			Source:          src,
		},
		ABIType:      abiType,
		LowLevelCode: lowCode,
		LowLevelDeps: lowDeps,
	}
	return binding, nil
}

// templateContext carries placeholder values beyond the four core tokens
// types.ConversionEdge.Apply already substitutes (spec §4.F): today just the
// owning class's name, for a constructor snippet that needs to reference it
// (e.g. a rule file's "new {class_name}()" low-level allocation template).
// Flattened to a {token: value} map via fatih/structs rather than adding a
// bespoke fifth parameter to Apply every time a new snippet needs more
// context.
type templateContext struct {
	ClassName string `structs:"class_name"`
}

// applyExtendedContext substitutes every templateContext field into code, as
// "{" + its structs tag + "}". Safe to call even if code mentions none of
// them.
func applyExtendedContext(code string, ctx templateContext) string {
	for key, val := range structs.Map(ctx) {
		code = strings.ReplaceAll(code, "{"+key+"}", fmt.Sprint(val))
	}
	return code
}

// renderSteps applies each step's template in sequence over a single
// variable name (spec §4.D "Single-buffer rewrite"), collecting every
// not-yet-taken dependency along the way.
func renderSteps(steps []Step, varName, destType string) (string, []types.Dependency) {
	var code string
	var deps []types.Dependency
	for _, s := range steps {
		code += s.Edge.Apply(varName, types.UnpackUniqueName(s.To), destType) + "\n"
		if dep := s.Edge.TakeDependency(); dep != nil {
			deps = append(deps, *dep)
		}
	}
	return code, deps
}
