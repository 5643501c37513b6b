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

	"github.com/ffigen/ffigen/types"
	"go.uber.org/multierr"
)

// edgeRef pairs a ConversionEdge with the normalized name of the node it
// leads to, so adjacency lookups don't need a second map indirection.
type edgeRef struct {
	to   string
	edge types.ConversionEdge
}

// Graph is the directed type-conversion graph (spec §3, §4.B): nodes are
// normalized type names, edges carry the code needed to rewrite a value
// from one node's type to another's. It is the Go-side analogue of the
// original implementation's petgraph-backed TypesConvGraph, rebuilt as a
// plain adjacency map since Go's standard library has no graph package and
// the traversals the path finder needs (successors-of, Dijkstra over a
// small bounded graph) don't warrant a dependency.
type Graph struct {
	mu    sync.RWMutex
	edges map[string][]edgeRef
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[string][]edgeRef)}
}

// AddEdge adds a from -> to conversion edge. If an edge between the same
// two nodes already exists, the existing edge is kept (first-registration-
// wins, matching the original "merge" semantics) and the returned error
// wraps a non-fatal conflict notice via multierr so callers merging several
// rule files can collect every conflict in one pass instead of aborting on
// the first.
func (g *Graph) AddEdge(from, to string, edge types.ConversionEdge) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range g.edges[from] {
		if e.to == to {
			return multierr.Append(nil, &edgeConflictError{From: from, To: to})
		}
	}
	g.edges[from] = append(g.edges[from], edgeRef{to: to, edge: edge})
	return nil
}

// Successors returns the outgoing edges of from, in registration order.
func (g *Graph) Successors(from string) []edgeRef {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]edgeRef, len(g.edges[from]))
	copy(out, g.edges[from])
	return out
}

// HasNode reports whether from has at least one outgoing edge recorded.
func (g *Graph) HasNode(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.edges[name]
	return ok
}

// Nodes returns every node with at least one outgoing edge, for
// diagnostics.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.edges))
	for k := range g.edges {
		out = append(out, k)
	}
	return out
}

type edgeConflictError struct {
	From, To string
}

func (e *edgeConflictError) Error() string {
	return "conversion edge " + e.From + " -> " + e.To + " already registered; keeping the existing one"
}
