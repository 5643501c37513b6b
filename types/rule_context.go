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

package types

// ResolutionContext is passed to a GenericEdge's DynamicBound predicate: it
// exposes the candidate type being tested against the edge's type
// parameter, and the facts supplied by the caller of
// GenericEdgeSet.TryInstantiate, without exposing the whole conversion graph
// to the embedded script.
type ResolutionContext interface {
	// Candidate is the concrete SourceType being considered for
	// instantiation of the type parameter.
	Candidate() SourceType

	// Facts are the caller-supplied facts for this check; PathFinder passes
	// none (nil).
	Facts() Facts
}

type resolutionContext struct {
	candidate SourceType
	facts     Facts
}

// NewResolutionContext builds a ResolutionContext for a single bound check.
func NewResolutionContext(candidate SourceType, facts Facts) ResolutionContext {
	return &resolutionContext{candidate: candidate, facts: facts}
}

func (r *resolutionContext) Candidate() SourceType { return r.candidate }
func (r *resolutionContext) Facts() Facts           { return r.facts }
