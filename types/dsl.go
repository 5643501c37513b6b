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

// Class is the document-level descriptor for one foreign-exposed type (spec
// §3, §4.E): its constructor, methods, and the storage strategy used for
// live instances crossing the boundary.
type Class struct {
	// Name is both the low-level type's name and the destination-side
	// wrapper class name, unless overridden by a DestinationBinding.
	Name string `json:"name"`

	// SelfType is the syntax of the underlying source type this class
	// wraps (e.g. a Go struct name).
	SelfType string `json:"selfType"`

	// Constructors lists the methods with MethodVariant == Constructor.
	Constructors []*Method `json:"constructors"`

	// Methods lists static and instance methods.
	Methods []*Method `json:"methods"`

	// HasDestructor controls whether the emitter generates a low-level
	// "<Class>_delete" entry point and an IDisposable-style destination
	// wrapper (spec §4.F). Defaults to true whenever Constructors is
	// non-empty.
	HasDestructor bool `json:"hasDestructor,omitempty"`

	// Configuration carries free-form, rule-file-independent facts about
	// this class, available to aspects via PointCut.
	Configuration Configuration `json:"configuration,omitempty"`
}

// Method is the document-level descriptor for one class member (spec §3,
// §4.E).
type Method struct {
	// Name is the low-level and destination-side method name.
	Name string `json:"name"`

	// Variant classifies the method; the zero value is Constructor, so rule
	// files must set it explicitly for anything else.
	Variant MethodVariant `json:"variant"`

	// Args lists argument names paired with their source-type syntax, in
	// declaration order.
	Args []ArgDescriptor `json:"args"`

	// Return is the source-type syntax of the return value, or "" for a
	// method returning nothing.
	Return string `json:"return,omitempty"`

	// Body is the source-side expression invoking the real implementation
	// (spec §6 "body-expression"), emitted verbatim between the argument
	// and return conversions. Left empty for a method descriptor that only
	// exercises the conversion pipeline without a real callee.
	Body string `json:"body,omitempty"`
}

// ArgDescriptor is one method argument as written in a class descriptor.
type ArgDescriptor struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Configuration is a free-form property bag attached to a Class (modeled on
// the teacher's Configuration map, generalized from chain-node
// configuration to class configuration).
type Configuration map[string]any

// Copy returns a shallow copy of c.
func (c Configuration) Copy() Configuration {
	if c == nil {
		return nil
	}
	out := make(Configuration, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
