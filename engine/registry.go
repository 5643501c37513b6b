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
)

// TypeRegistry interns SourceType nodes by normalized name and tracks the
// destination-side bindings laid over them (spec §4.A). It is the single
// source of truth the Graph, GenericEdgeSet and PathFinder all read from;
// none of them hold their own copy of a type's identity.
//
// A first-registration-wins policy applies to destination bindings: once a
// normalized name is bound, a later attempt to bind it to a different
// destination name fails with DuplicateBinding rather than silently
// overwriting, matching the original implementation's "we use existing"
// merge behavior.
type TypeRegistry struct {
	mu           sync.RWMutex
	byName       map[string]types.SourceType
	bindings     map[string]types.DestinationBinding
	byDestName   map[string]string // destinationName -> normalizedName
	bindingOrder []string          // normalizedName, in registration order
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		byName:     make(map[string]types.SourceType),
		bindings:   make(map[string]types.DestinationBinding),
		byDestName: make(map[string]string),
	}
}

// Intern registers t under its NormalizedName if not already present, and
// returns the canonical stored value (the first one registered, so callers
// racing to intern the same type converge on one SourceType).
func (r *TypeRegistry) Intern(t types.SourceType) types.SourceType {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byName[t.NormalizedName]; ok {
		return existing
	}
	r.byName[t.NormalizedName] = t
	return t
}

// Lookup returns the interned SourceType for a normalized name.
func (r *TypeRegistry) Lookup(normalizedName string) (types.SourceType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[normalizedName]
	return t, ok
}

// BindDestination records destinationName as the foreign-side name for
// normalizedName. If normalizedName is already bound to a different
// destination name, or destinationName is already claimed by a different
// normalized name, the existing binding wins and a *types.DuplicateBinding
// is returned; binding the same pair twice is idempotent.
func (r *TypeRegistry) BindDestination(normalizedName, destinationName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.bindings[normalizedName]; ok {
		if existing.DestinationName == destinationName {
			return nil
		}
		return &types.DuplicateBinding{
			NormalizedName: normalizedName,
			ExistingDest:   existing.DestinationName,
			AttemptedDest:  destinationName,
		}
	}
	if owner, ok := r.byDestName[destinationName]; ok && owner != normalizedName {
		return &types.DuplicateBinding{
			NormalizedName:   normalizedName,
			AttemptedDest:    destinationName,
			ExistingNormName: owner,
		}
	}
	r.bindings[normalizedName] = types.DestinationBinding{
		DestinationName: destinationName,
		SourceNormName:  normalizedName,
		ABINormName:     normalizedName,
	}
	r.byDestName[destinationName] = normalizedName
	r.bindingOrder = append(r.bindingOrder, normalizedName)
	return nil
}

// SetABI overrides the ABI-neutral node a destination binding marshals
// through, for bindings whose declared type isn't itself ABI-safe. A no-op
// if normalizedName has no binding yet; call after BindDestination.
func (r *TypeRegistry) SetABI(normalizedName, abiNormName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bindings[normalizedName]
	if !ok {
		return
	}
	b.ABINormName = abiNormName
	r.bindings[normalizedName] = b
}

// Destination returns the destination binding for a normalized name, if
// any.
func (r *TypeRegistry) Destination(normalizedName string) (types.DestinationBinding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[normalizedName]
	return b, ok
}

// LookupDestination is the reverse of Destination: given a destination-side
// name, it returns the interned SourceType node currently bound to it, if
// any (spec §4.A's lookup_destination).
func (r *TypeRegistry) LookupDestination(destinationName string) (types.SourceType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	normalizedName, ok := r.byDestName[destinationName]
	if !ok {
		return types.SourceType{}, false
	}
	t, ok := r.byName[normalizedName]
	return t, ok
}

// Bindings returns every destination binding in registration order, for
// PathFinder.ResolveDestination's reachability scan (spec §4.D: "scan all
// destination bindings"; ties go to the one registered first).
func (r *TypeRegistry) Bindings() []types.DestinationBinding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.DestinationBinding, 0, len(r.bindingOrder))
	for _, name := range r.bindingOrder {
		out = append(out, r.bindings[name])
	}
	return out
}

// Snapshot returns a defensive copy of every interned type, for diagnostics
// and tests.
func (r *TypeRegistry) Snapshot() map[string]types.SourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]types.SourceType, len(r.byName))
	for k, v := range r.byName {
		out[k] = v
	}
	return out
}
