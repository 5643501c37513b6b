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

// Package varname generates collision-free local variable names for
// generated low-level and high-level code, generalizing the original
// implementation's "first_variant"/"last_variant" naming used while
// rewriting a value through several conversion edges in place.
package varname

import (
	"fmt"
	"sync"
)

// Generator hands out unique variable names derived from a base hint.
// Safe for concurrent use; the Composer shares one Generator across an
// entire class so names stay unique within the class's generated file even
// when two methods reuse the same argument name.
type Generator struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewGenerator returns an empty Generator.
func NewGenerator() *Generator {
	return &Generator{counts: make(map[string]int)}
}

// Next returns hint unchanged the first time it's requested, and
// "hint_N" (N starting at 2) on every subsequent request for the same
// hint.
func (g *Generator) Next(hint string) string {
	if hint == "" {
		hint = "v"
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.counts[hint]
	g.counts[hint] = n + 1
	if n == 0 {
		return hint
	}
	return fmt.Sprintf("%s_%d", hint, n+1)
}
