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
	"container/heap"

	"github.com/ffigen/ffigen/types"
)

// PathFinder resolves a conversion path between two SourceType nodes,
// extending the Graph on demand via GenericEdgeSet when no path exists yet
// (spec §4.D). It is the Go-native reconstruction of the original
// implementation's find_conversation_path (Dijkstra over petgraph) and
// try_build_path (bounded lazy extension via generic edges).
type PathFinder struct {
	graph    *Graph
	registry *TypeRegistry
	generics *GenericEdgeSet
	guards   *GuardEvaluator
	cfg      *types.Config
}

// NewPathFinder builds a PathFinder over the given graph, registry and
// generic edge set, using cfg for logging, metrics and the lazy-extension
// round bound. guards may be nil if no ConversionEdge in this run declares
// a Guard expression.
func NewPathFinder(graph *Graph, registry *TypeRegistry, generics *GenericEdgeSet, guards *GuardEvaluator, cfg *types.Config) *PathFinder {
	return &PathFinder{graph: graph, registry: registry, generics: generics, guards: guards, cfg: cfg}
}

// Step is one hop of a resolved conversion path.
type Step struct {
	From, To string
	Edge     types.ConversionEdge
}

// Resolve finds a path from `from` to `to` (both normalized type names),
// extending the graph with generic-edge instantiations for up to
// cfg.MaxLazyExtensionSteps rounds if no path exists yet. A reflexive
// request (from == to) always succeeds with a zero-length path, matching
// the original implementation's find_path short-circuit.
func (pf *PathFinder) Resolve(from, to string) ([]Step, error) {
	if from == to {
		return nil, nil
	}

	if path, ok := pf.dijkstra(from, to); ok {
		pf.cfg.Metrics.ObservePathLength("outgoing", len(path))
		return path, nil
	}

	rounds := pf.cfg.MaxLazyExtensionSteps
	if rounds <= 0 {
		rounds = 7
	}
	for round := 1; round <= rounds; round++ {
		extended, err := pf.extendOnce()
		if err != nil {
			return nil, err
		}
		if !extended {
			break
		}
		if path, ok := pf.dijkstra(from, to); ok {
			pf.cfg.Logger.Debugw("path found after lazy extension", "from", from, "to", to, "rounds", round)
			pf.cfg.Metrics.ObserveLazyExtensionRounds(round)
			pf.cfg.Metrics.ObservePathLength("outgoing", len(path))
			return path, nil
		}
	}

	return nil, &types.NoConversionPath{From: from, To: to, Direction: types.Outgoing}
}

// ResolveDestination implements resolve_source_to_destination (spec §4.D's
// first public operation): it finds which registered destination binding is
// reachable from (Outgoing) or reaches (Incoming) sourceNormName. A binding
// registered directly under sourceNormName is the fast path (the "cache"
// spec's wording refers to); otherwise every registered binding is scanned
// for reachability and the shortest one wins, ties going to whichever was
// registered first. If nothing is reachable yet, every to_foreigner_hint
// generic edge is instantiated against every currently-registered source
// type (spec §4.C) to manufacture new candidate bindings before giving up.
func (pf *PathFinder) ResolveDestination(sourceNormName string, direction types.Direction) (types.DestinationBinding, error) {
	if b, ok := pf.registry.Destination(sourceNormName); ok {
		return b, nil
	}
	if b, ok := pf.bestReachableBinding(sourceNormName, direction); ok {
		return b, nil
	}
	if extended, err := pf.extendForeignBindings(); err != nil {
		return types.DestinationBinding{}, err
	} else if extended {
		if b, ok := pf.bestReachableBinding(sourceNormName, direction); ok {
			return b, nil
		}
	}
	return types.DestinationBinding{}, &types.UnknownType{Name: sourceNormName}
}

// bestReachableBinding scans every registered destination binding for one
// reachable from/to sourceNormName (depending on direction) and returns the
// one with the shortest path, first-registered-wins on ties.
func (pf *PathFinder) bestReachableBinding(sourceNormName string, direction types.Direction) (types.DestinationBinding, bool) {
	var best types.DestinationBinding
	bestLen := -1
	found := false
	for _, b := range pf.registry.Bindings() {
		var steps []Step
		var ok bool
		if direction == types.Incoming {
			steps, ok = pf.dijkstra(b.SourceNormName, sourceNormName)
		} else {
			steps, ok = pf.dijkstra(sourceNormName, b.SourceNormName)
		}
		if !ok {
			continue
		}
		if !found || len(steps) < bestLen {
			best, bestLen, found = b, len(steps), true
		}
	}
	return best, found
}

// extendForeignBindings instantiates every to_foreigner_hint generic edge
// against every currently-registered source type, registering a destination
// binding and the backing conversion edge for each newly produced candidate
// (spec §4.C, §4.D lazy extension). Returns whether anything new was added.
func (pf *PathFinder) extendForeignBindings() (bool, error) {
	extended := false
	for _, candidate := range pf.registry.Snapshot() {
		insts, err := pf.generics.TryInstantiate(candidate, nil)
		if err != nil {
			return extended, err
		}
		for _, inst := range insts {
			if inst.ToForeignerName == "" {
				continue
			}
			if _, ok := pf.registry.Destination(inst.FromName); ok {
				continue
			}
			if err := pf.registry.BindDestination(inst.FromName, inst.ToForeignerName); err != nil {
				pf.cfg.Logger.Warnw("lazy foreign binding conflict", "from", inst.FromName, "to", inst.ToForeignerName, "err", err)
				continue
			}
			pf.registry.SetABI(inst.FromName, inst.ToName)
			if err := pf.graph.AddEdge(inst.FromName, inst.ToName, inst.Edge); err != nil {
				pf.cfg.Logger.Warnw("lazy foreign binding edge rejected", "from", inst.FromName, "to", inst.ToName, "err", err)
			}
			extended = true
		}
	}
	return extended, nil
}

// extendOnce instantiates every GenericEdge against every currently known
// node once, adding any newly-produced concrete edge to the graph. It
// returns false once a full pass adds nothing, so the caller's round loop
// terminates early instead of always spending MaxLazyExtensionSteps.
func (pf *PathFinder) extendOnce() (bool, error) {
	added := false
	for _, node := range pf.graph.Nodes() {
		cand, ok := pf.registry.Lookup(node)
		if !ok {
			continue
		}
		insts, err := pf.generics.TryInstantiate(cand, nil)
		if err != nil {
			return false, err
		}
		for _, inst := range insts {
			if err := pf.graph.AddEdge(inst.FromName, inst.ToName, inst.Edge); err == nil {
				added = true
			}
		}
	}
	return added, nil
}

// pqItem is one entry of the Dijkstra frontier.
type pqItem struct {
	node string
	dist int
}

// priorityQueue is a minimal container/heap.Interface implementation over
// pqItem, kept local since it's only ever used by dijkstra below.
type priorityQueue []pqItem

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(pqItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}

// edgeUsable reports whether edge may be traversed while standing at node
// `at`: always true for an unguarded edge, otherwise the outcome of
// evaluating edge.Guard against the SourceType interned at `at` (spec §3:
// "an optional expr-lang boolean expression ... before the edge is
// considered usable").
func (pf *PathFinder) edgeUsable(at string, edge types.ConversionEdge) bool {
	if edge.Guard == "" || pf.guards == nil {
		return true
	}
	candidate, ok := pf.registry.Lookup(at)
	if !ok {
		return true
	}
	ok, err := pf.guards.Satisfied(edge.Guard, candidate)
	if err != nil {
		pf.cfg.Logger.Warnw("guard evaluation failed; treating edge as unusable", "at", at, "guard", edge.Guard, "err", err)
		return false
	}
	return ok
}

// dijkstra finds the minimum-hop path from `from` to `to` over the current
// graph. Every edge has unit cost, so "minimum cost" and "fewest hops"
// coincide (spec §4.D: "the shortest available path wins").
func (pf *PathFinder) dijkstra(from, to string) ([]Step, bool) {
	dist := map[string]int{from: 0}
	prevNode := map[string]string{}
	prevEdge := map[string]types.ConversionEdge{}
	visited := map[string]bool{}

	pq := &priorityQueue{{node: from, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == to {
			break
		}
		for _, e := range pf.graph.Successors(cur.node) {
			if !pf.edgeUsable(cur.node, e.edge) {
				continue
			}
			nd := cur.dist + 1
			if best, ok := dist[e.to]; !ok || nd < best {
				dist[e.to] = nd
				prevNode[e.to] = cur.node
				prevEdge[e.to] = e.edge
				heap.Push(pq, pqItem{node: e.to, dist: nd})
			}
		}
	}

	if _, ok := dist[to]; !ok {
		return nil, false
	}

	var steps []Step
	for n := to; n != from; {
		p := prevNode[n]
		steps = append([]Step{{From: p, To: n, Edge: prevEdge[n]}}, steps...)
		n = p
	}
	return steps, true
}
