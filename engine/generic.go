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
	"fmt"
	"strings"
	"sync"

	"github.com/ffigen/ffigen/types"
	"github.com/ffigen/ffigen/utils/jsguard"
)

// GenericEdgeSet holds the parametric conversion rules (spec §3, §4.C) and
// instantiates them against concrete candidate types on demand. It backs
// the path finder's lazy graph extension: a GenericEdge is never added to
// the Graph directly, only the concrete ConversionEdge produced by a
// successful TryInstantiate call is.
type GenericEdgeSet struct {
	mu     sync.Mutex
	edges  []types.GenericEdge
	guards *jsguard.Engine
}

// NewGenericEdgeSet returns an empty set. guards may be nil if no
// GenericEdge in this run declares a DynamicBound.
func NewGenericEdgeSet(guards *jsguard.Engine) *GenericEdgeSet {
	return &GenericEdgeSet{guards: guards}
}

// Add registers a generic edge.
func (s *GenericEdgeSet) Add(edge types.GenericEdge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges = append(s.edges, edge)
}

// Instantiation is the concrete result of successfully matching a candidate
// type against one of a GenericEdge's type parameters.
type Instantiation struct {
	FromName        string
	ToName          string
	ToForeignerName string
	Edge            types.ConversionEdge
}

// TryInstantiate attempts to bind every GenericEdge's type parameter to
// candidate, in registration order, returning every instantiation whose
// trait bounds (static Implements-subset check, plus an optional goja
// DynamicBound predicate) are satisfied.
//
// The original implementation resolves exactly one type parameter per
// generic edge (rust_swig's generics carry a single free variable in
// practice); this mirrors that by substituting every occurrence of the
// declared parameter name with candidate's normalized name in FromPattern,
// ToPattern and ToForeignerHint.
func (s *GenericEdgeSet) TryInstantiate(candidate types.SourceType, facts types.Facts) ([]Instantiation, error) {
	s.mu.Lock()
	edges := make([]types.GenericEdge, len(s.edges))
	copy(edges, s.edges)
	s.mu.Unlock()

	var out []Instantiation
	for _, ge := range edges {
		if len(ge.Params) == 0 {
			continue
		}
		param := ge.Params[0]
		if !staticBoundSatisfied(candidate, param) {
			continue
		}
		if ge.DynamicBound != "" {
			ok, err := s.evalDynamicBound(ge.DynamicBound, candidate, facts)
			if err != nil {
				return nil, fmt.Errorf("generic edge %s -> %s: dynamic bound: %w", ge.FromPattern, ge.ToPattern, err)
			}
			if !ok {
				continue
			}
		}
		fromName := substitute(ge.FromPattern, param.TypeParam, candidate.NormalizedName)
		toName := substitute(ge.ToPattern, param.TypeParam, candidate.NormalizedName)
		toForeigner := ""
		if ge.ToForeignerHint != "" {
			toForeigner = substitute(ge.ToForeignerHint, param.TypeParam, candidate.NormalizedName)
		}
		out = append(out, Instantiation{
			FromName:        fromName,
			ToName:          toName,
			ToForeignerName: toForeigner,
			Edge:            ge.Concrete(),
		})
	}
	return out, nil
}

func staticBoundSatisfied(t types.SourceType, bound types.TraitBound) bool {
	for _, trait := range bound.Traits {
		if !t.HasTrait(trait) {
			return false
		}
	}
	return true
}

func (s *GenericEdgeSet) evalDynamicBound(expr string, candidate types.SourceType, facts types.Facts) (bool, error) {
	if s.guards == nil {
		return false, fmt.Errorf("no script engine configured for dynamic bound %q", expr)
	}
	return s.guards.EvalBound(types.NewResolutionContext(candidate, facts), expr)
}

func substitute(pattern, param, value string) string {
	return strings.ReplaceAll(pattern, param, value)
}
