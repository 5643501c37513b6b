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

import (
	"context"
	"sort"
)

// Aspect is the base interface for cross-cutting behavior woven into a
// generation run without touching the path finder or code composer
// themselves: validation, debug tracing and metrics collection are all
// implemented as aspects (see builtin/aspect).
//
// Execution order within a kind is ascending by Order(); New() returns a
// fresh instance so that a single Aspect value registered on a Generator can back
// many independent runs without sharing mutable state.
type Aspect interface {
	// Order returns execution priority; lower values run earlier.
	Order() int

	// New returns an independent instance of this aspect.
	New() Aspect
}

// RuleFileAspect gates merging a parsed RuleFile into the registry (spec
// §4.A "merge").
type RuleFileAspect interface {
	Aspect

	// OnRuleFileBeforeMerge runs before a RuleFile's bindings and edges are
	// merged into the registry. Returning an error aborts the merge.
	OnRuleFileBeforeMerge(cfg *Config, rf *RuleFile) error
}

// ClassAspect gates and observes the generation of a single Class.
type ClassAspect interface {
	Aspect

	// PointCut reports whether this aspect applies to class.
	PointCut(class *Class) bool
}

// ClassBeforeAspect runs before any method of a class is resolved.
type ClassBeforeAspect interface {
	ClassAspect
	Before(ctx context.Context, class *Class) error
}

// ClassAfterAspect runs after every method of a class has been composed and
// the class is about to be flushed to the emitter.
type ClassAfterAspect interface {
	ClassAspect
	After(ctx context.Context, class *Class) error
}

// MethodAspect gates and observes the generation of a single Method.
type MethodAspect interface {
	Aspect
	PointCut(class *Class, method *Method) bool
}

// MethodBeforeAspect runs before a method's signature is resolved.
type MethodBeforeAspect interface {
	MethodAspect
	Before(ctx context.Context, class *Class, method *Method) error
}

// MethodAfterAspect runs after a method's signature has been resolved and
// composed, receiving the outcome (err is nil on success).
type MethodAfterAspect interface {
	MethodAspect
	After(ctx context.Context, class *Class, sig MethodSignature, err error) error
}

// AspectList is a registered set of aspects, partitioned by interface kind
// on demand (modeled on the teacher's AspectList helper).
type AspectList []Aspect

func (list AspectList) sorted() AspectList {
	sort.Slice(list, func(i, j int) bool { return list[i].Order() < list[j].Order() })
	return list
}

// RuleFileAspects returns the registered RuleFileAspect values, in order.
func (list AspectList) RuleFileAspects() []RuleFileAspect {
	var out []RuleFileAspect
	for _, item := range list.sorted() {
		if a, ok := item.(RuleFileAspect); ok {
			out = append(out, a)
		}
	}
	return out
}

// ClassAspects returns the registered before/after class aspects, in order.
func (list AspectList) ClassAspects() ([]ClassBeforeAspect, []ClassAfterAspect) {
	var before []ClassBeforeAspect
	var after []ClassAfterAspect
	for _, item := range list.sorted() {
		if a, ok := item.(ClassBeforeAspect); ok {
			before = append(before, a)
		}
		if a, ok := item.(ClassAfterAspect); ok {
			after = append(after, a)
		}
	}
	return before, after
}

// MethodAspects returns the registered before/after method aspects, in
// order.
func (list AspectList) MethodAspects() ([]MethodBeforeAspect, []MethodAfterAspect) {
	var before []MethodBeforeAspect
	var after []MethodAfterAspect
	for _, item := range list.sorted() {
		if a, ok := item.(MethodBeforeAspect); ok {
			before = append(before, a)
		}
		if a, ok := item.(MethodAfterAspect); ok {
			after = append(after, a)
		}
	}
	return before, after
}
