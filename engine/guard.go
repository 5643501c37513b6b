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
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ffigen/ffigen/types"
)

// guardEnv is the variable namespace a ConversionEdge.Guard expression is
// compiled and evaluated against: the candidate type's declared traits and
// facts, generalizing components/transform/expr_filter_node.go's message
// filtering environment from a RuleMsg's data/metadata to a SourceType's
// Implements/Facts.
type guardEnv struct {
	Traits map[string]bool
	Facts  map[string]any
}

// GuardEvaluator compiles and caches expr-lang programs for ConversionEdge
// guards, so a guard shared by many traversed edges (or re-evaluated across
// several lazy-extension rounds) is parsed once.
type GuardEvaluator struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
}

// NewGuardEvaluator returns an empty evaluator.
func NewGuardEvaluator() *GuardEvaluator {
	return &GuardEvaluator{cache: make(map[string]*vm.Program)}
}

// Satisfied reports whether expression guardExpr evaluates to true against
// candidate. An empty guardExpr always satisfies (spec §3: "absent means
// always usable").
func (g *GuardEvaluator) Satisfied(guardExpr string, candidate types.SourceType) (bool, error) {
	if guardExpr == "" {
		return true, nil
	}
	program, err := g.compile(guardExpr)
	if err != nil {
		return false, err
	}
	env := guardEnv{Traits: traitSet(candidate), Facts: candidate.Facts}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	ok, _ := out.(bool)
	return ok, nil
}

func (g *GuardEvaluator) compile(guardExpr string) (*vm.Program, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.cache[guardExpr]; ok {
		return p, nil
	}
	p, err := expr.Compile(guardExpr, expr.Env(guardEnv{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	g.cache[guardExpr] = p
	return p, nil
}

func traitSet(t types.SourceType) map[string]bool {
	out := make(map[string]bool, len(t.Implements))
	for k := range t.Implements {
		out[k] = true
	}
	return out
}
