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

// Package jsguard evaluates a GenericEdge's DynamicBound predicate — a
// snippet of JavaScript deciding whether a candidate type satisfies a trait
// bound that can't be expressed as static set membership (spec §4.C).
//
// Each distinct predicate string is compiled once and cached; a fresh goja
// VM is used per evaluation since goja.Runtime is not safe for concurrent
// use and path resolution for different methods can run concurrently.
package jsguard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/ffigen/ffigen/types"
)

// Engine compiles and evaluates DynamicBound predicates.
type Engine struct {
	mu      sync.Mutex
	cache   map[string]*goja.Program
}

// New returns an Engine with an empty compile cache.
func New() *Engine {
	return &Engine{cache: make(map[string]*goja.Program)}
}

func (e *Engine) compile(expr string) (*goja.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.cache[expr]; ok {
		return p, nil
	}
	p, err := goja.Compile("bound", "("+expr+")", true)
	if err != nil {
		return nil, fmt.Errorf("compiling dynamic bound: %w", err)
	}
	e.cache[expr] = p
	return p, nil
}

// EvalBound runs expr in a fresh VM with `candidate` (the type's normalized
// name and declared traits) and `facts` bound as globals, and interprets
// the result as a boolean. Typical predicates look like:
//
//	candidate.traits.includes("Copy") && facts.size <= 8
func (e *Engine) EvalBound(rc types.ResolutionContext, expr string) (bool, error) {
	program, err := e.compile(expr)
	if err != nil {
		return false, err
	}

	vm := goja.New()
	cand := rc.Candidate()
	traits := make([]string, 0, len(cand.Implements))
	for t := range cand.Implements {
		traits = append(traits, t)
	}
	if err := vm.Set("candidate", map[string]any{
		"name":   cand.NormalizedName,
		"traits": traits,
	}); err != nil {
		return false, err
	}
	if err := vm.Set("facts", map[string]any(rc.Facts())); err != nil {
		return false, err
	}

	v, err := vm.RunProgram(program)
	if err != nil {
		return false, fmt.Errorf("evaluating dynamic bound: %w", err)
	}
	b, ok := v.Export().(bool)
	if !ok {
		return false, errors.New("dynamic bound did not evaluate to a boolean")
	}
	return b, nil
}
