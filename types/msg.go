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

import "github.com/gofrs/uuid/v5"

// Facts is a simple key-value bag handed to a GenericEdge.DynamicBound
// predicate through a ResolutionContext; utils/jsguard exposes it as the
// `facts` global next to `candidate`. ConversionEdge.Guard expressions do
// not see it: engine's guard evaluator binds the candidate SourceType's own
// Facts map as `Facts`, next to `Traits`.
type Facts map[string]any

// NewFacts returns an empty Facts map.
func NewFacts() Facts { return make(Facts) }

// BuildFacts returns a copy of data, or an empty Facts if data is nil.
func BuildFacts(data Facts) Facts {
	out := make(Facts, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

// Copy returns a shallow copy of f.
func (f Facts) Copy() Facts { return BuildFacts(f) }

// Has reports whether key is present.
func (f Facts) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Get returns the value at key, or nil.
func (f Facts) Get(key string) any { return f[key] }

// Put sets key to value; a no-op if key is empty.
func (f Facts) Put(key string, value any) {
	if key != "" {
		f[key] = value
	}
}

// RunID is a correlation identifier for one generation run. NewRunID mints
// one; ChainEngine itself neither creates a RunID nor attaches one to its
// logs or spans.
type RunID string

// NewRunID mints a fresh, random RunID.
func NewRunID() RunID {
	id, err := uuid.NewV4()
	if err != nil {
		return RunID("unidentified-run")
	}
	return RunID(id.String())
}

func (r RunID) String() string { return string(r) }
