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

// Package types defines the core data model and interfaces shared by every
// subsystem of the FFI glue generator: the type-conversion graph, the path
// finder, the signature mapper, the code composer, and the emitter all build
// on the value types declared here.
//
// # Architecture Overview
//
// A generation run walks a fixed pipeline:
//
//  1. A rule file is parsed into conversion edges and generic edges and merged
//     into a fresh Registry + conversion graph.
//  2. Class and Method descriptors are decoded from the input document.
//  3. For each method, the signature mapper resolves a ForeignTypeInfo for
//     every argument and the return value, discovering conversion paths
//     through the graph (extending it lazily when no path yet exists).
//  4. The code composer stitches the discovered snippets into two method
//     bodies (low-level and high-level) and the emitter writes them out.
//
// None of this is specific to any one source or destination language; this
// package intentionally stays free of Go/cgo/C# details so that the engine
// package's choice of "Go as the low-level side, C# as the destination side"
// remains a decision made one layer up.
package types

import "fmt"

// NUL is the separator appended between a normalized source-type name and a
// destination-side disambiguator when two destination bindings share an
// otherwise identical source type (spec §4.A). Rendering code must strip
// everything from the first NUL onward before emitting a type name.
const NUL = "\x00"

// SourceType is a node in the conversion graph: a type on the low-level
// (source) side of the boundary, together with enough metadata to drive
// trait-bound matching and destination-side rendering.
//
// Two SourceType values are the same graph node if and only if their
// NormalizedName values are equal (including any unique suffix) — see
// Registry.Intern.
type SourceType struct {
	// NormalizedName is a canonical, interned form of Syntax as produced by
	// Normalize: whitespace trimmed, and kept only as a single space between
	// two identifier characters. No other rewriting is applied; bracket
	// styles and any lifetime/region annotations stay as written.
	// It is the key used for all registry and graph lookups.
	NormalizedName string

	// Syntax is the original, unnormalized type expression as written by the
	// rule file or class descriptor. Emitted code always uses Syntax, never
	// NormalizedName, since NormalizedName may carry a unique suffix.
	Syntax string

	// Implements is the set of trait/capability names this type is declared
	// to implement. Generic-edge trait bounds are checked against this set.
	Implements map[string]struct{}

	// Facts carries auxiliary properties about this type (e.g. "size": 8),
	// read by ConversionEdge guard expressions as `Facts`. The rule-file
	// parsers do not populate it; it is set only by code that builds a
	// SourceType directly. Never required; nil is equivalent to empty.
	Facts map[string]any
}

// NewSourceType builds a SourceType from its syntax, normalizing the name.
func NewSourceType(syntax string) SourceType {
	return SourceType{
		NormalizedName: Normalize(syntax),
		Syntax:         syntax,
		Implements:     map[string]struct{}{},
	}
}

// WithImplements returns a copy of t with trait declared as implemented.
func (t SourceType) WithImplements(traits ...string) SourceType {
	out := t
	out.Implements = make(map[string]struct{}, len(t.Implements)+len(traits))
	for k := range t.Implements {
		out.Implements[k] = struct{}{}
	}
	for _, tr := range traits {
		out.Implements[tr] = struct{}{}
	}
	return out
}

// HasTrait reports whether t declares trait as implemented.
func (t SourceType) HasTrait(trait string) bool {
	_, ok := t.Implements[trait]
	return ok
}

// WithUniqueSuffix appends a NUL-separated disambiguator to NormalizedName,
// producing a distinct graph node for an otherwise structurally identical
// source type bound to a different destination name (spec §4.A).
func (t SourceType) WithUniqueSuffix(suffix string) SourceType {
	out := t
	out.NormalizedName = t.NormalizedName + NUL + suffix
	return out
}

// UnpackUniqueName strips any NUL-separated unique suffix from name, leaving
// the syntactic type name suitable for emission.
func UnpackUniqueName(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == 0 {
			return name[:i]
		}
	}
	return name
}

func (t SourceType) String() string { return t.NormalizedName }

// Normalize performs a total, deterministic normalization of a type
// expression: leading/trailing whitespace is trimmed, and a run of internal
// whitespace becomes one space where it separates two identifier characters
// and is dropped everywhere else. Generic argument spacing
// ("Vec < Foo >" vs "Vec<Foo>") collapses to a single canonical form so that
// two differently-formatted occurrences of the same type intern to the same
// node.
func Normalize(syntax string) string {
	isWordByte := func(c byte) bool {
		return c == '_' || c >= 0x80 || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
	}
	var b []byte
	lastSpace := true // swallow leading space
	for i := 0; i < len(syntax); i++ {
		c := syntax[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			if lastSpace {
				continue
			}
			b = append(b, ' ')
			lastSpace = true
			continue
		}
		if n := len(b); n >= 2 && b[n-1] == ' ' && !(isWordByte(b[n-2]) && isWordByte(c)) {
			b = b[:n-1]
		}
		b = append(b, c)
		lastSpace = false
	}
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}
	return string(b)
}

// Placeholder tokens substituted by the code composer (spec §3, §9). Every
// ConversionEdge.CodeTemplate must mention at least ToVar, FromVar and
// ToVarType or it fails TemplateValidationError on registration.
const (
	ToVarTemplate          = "{to_var}"
	FromVarTemplate        = "{from_var}"
	ToVarTypeTemplate      = "{to_var_type}"
	FunctionRetTypeTemplate = "{function_ret_type}"
)

// ValidateCodeTemplate enforces the invariant from spec §3: a code template
// must mention all three of ToVarTemplate, FromVarTemplate and
// ToVarTypeTemplate.
func ValidateCodeTemplate(code string) error {
	if containsAll(code, ToVarTemplate, FromVarTemplate, ToVarTypeTemplate) {
		return nil
	}
	return &TemplateValidationError{Template: code}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(s, sub string) bool {
	if len(sub) == 0 {
		return true
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// Dependency is a single-shot helper declaration carried by a ConversionEdge
// or GenericEdge. It must appear at most once in the emitted low-level code
// per generation, no matter how many methods traverse the owning edge (spec
// §3, §8 property 4).
//
// Dependency intentionally holds the rendered source text rather than a
// parsed AST node: the abstract grammar leaves the source language
// unspecified, and plain text is sufficient since dependencies are emitted
// verbatim.
type Dependency struct {
	Code string
}

// dependencySlot is the shared, single-shot holder backing a ConversionEdge's
// dependency. Multiple concrete edges instantiated from the same GenericEdge
// may share one slot (spec: "Ownership"), so Take must be safe to call from
// any of them — the first caller wins.
type dependencySlot struct {
	dep *Dependency
}

func newDependencySlot(dep *Dependency) *dependencySlot {
	return &dependencySlot{dep: dep}
}

// Take returns and clears the held dependency; subsequent calls return nil.
func (s *dependencySlot) Take() *Dependency {
	if s == nil || s.dep == nil {
		return nil
	}
	d := s.dep
	s.dep = nil
	return d
}

// Peek reports whether a dependency is still held, without consuming it.
func (s *dependencySlot) Peek() bool {
	return s != nil && s.dep != nil
}

// ConversionEdge is a directed edge in the conversion graph, from one
// SourceType to another, carrying the code needed to rewrite a variable from
// the source node's type to the destination node's type (spec §3).
type ConversionEdge struct {
	// CodeTemplate is validated (ValidateCodeTemplate) before the edge is
	// added to the graph.
	CodeTemplate string

	// Guard is an optional expr-lang boolean expression evaluated against
	// the traversing SourceType's Implements/Facts before the edge is
	// considered usable by the path finder. Empty means "always usable".
	// This supplements the distilled spec: it generalizes is_conv_possible's
	// static trait-subset check to rule-file-declared runtime conditions.
	Guard string

	dep *dependencySlot
}

// NewConversionEdge validates template and constructs an edge. dep may be
// nil.
func NewConversionEdge(template string, dep *Dependency) (ConversionEdge, error) {
	if err := ValidateCodeTemplate(template); err != nil {
		return ConversionEdge{}, err
	}
	return ConversionEdge{CodeTemplate: template, dep: newDependencySlot(dep)}, nil
}

// TakeDependency returns and clears this edge's dependency (spec §4.B
// take_dependency). Safe to call even when the edge was instantiated from a
// GenericEdge and shares its slot with sibling edges.
func (e ConversionEdge) TakeDependency() *Dependency {
	return e.dep.Take()
}

// HasPendingDependency reports whether the dependency has not yet been taken.
func (e ConversionEdge) HasPendingDependency() bool {
	return e.dep.Peek()
}

// Apply performs the four-token textual substitution described in spec §9,
// returning the rendered snippet for a single edge traversal. varName is
// used for both {from_var} and {to_var} (a single-buffer rewrite, spec
// §4.D), toVarType is the next node's normalized name with any unique suffix
// stripped, and funcRetType is the caller-supplied {function_ret_type}.
func (e ConversionEdge) Apply(varName, toVarType, funcRetType string) string {
	return applyTemplate(e.CodeTemplate, varName, varName, toVarType, funcRetType)
}

func applyTemplate(template, toVar, fromVar, toVarType, funcRetType string) string {
	s := replaceAll(template, ToVarTemplate, toVar)
	s = replaceAll(s, FromVarTemplate, fromVar)
	s = replaceAll(s, ToVarTypeTemplate, toVarType)
	s = replaceAll(s, FunctionRetTypeTemplate, funcRetType)
	return s
}

func replaceAll(s, old, new string) string {
	if old == "" {
		return s
	}
	var out []byte
	for {
		idx := indexOf(s, old)
		if idx < 0 {
			out = append(out, s...)
			break
		}
		out = append(out, s[:idx]...)
		out = append(out, new...)
		s = s[idx+len(old):]
	}
	return string(out)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// TraitBound names one type-variable constraint in a GenericEdge: the
// variable must resolve to a type implementing every trait in Traits.
type TraitBound struct {
	TypeParam string
	Traits    []string
}

// GenericEdge is a parametric conversion rule (spec §3, §4.C): a pattern
// from_ty -> to_ty over one or more type variables, each constrained by
// trait bounds, instantiated on demand against concrete candidate types.
type GenericEdge struct {
	// FromPattern and ToPattern are type patterns containing the type
	// parameter name(s) declared in Params (e.g. "T" in "Vec<T>" -> "T[]").
	FromPattern string
	ToPattern   string

	Params []TraitBound

	CodeTemplate string

	// ToForeignerHint, when present, is a pattern for the destination-side
	// name of an instantiation, with the type parameter substituted by the
	// candidate's normalized name (spec §3, §4.C; scenario S4).
	ToForeignerHint string

	// DynamicBound is an optional goja-evaluated JavaScript predicate used
	// when a trait bound cannot be expressed as static set membership.
	// Supplements spec §4.C's static is_conv_possible check.
	DynamicBound string

	dep *dependencySlot
}

// NewGenericEdge validates template and constructs a generic edge. dep may
// be nil.
func NewGenericEdge(fromPattern, toPattern, template string, params []TraitBound, dep *Dependency) (GenericEdge, error) {
	if err := ValidateCodeTemplate(template); err != nil {
		return GenericEdge{}, err
	}
	return GenericEdge{
		FromPattern:  fromPattern,
		ToPattern:    toPattern,
		Params:       params,
		CodeTemplate: template,
		dep:          newDependencySlot(dep),
	}, nil
}

// Concrete instantiates a concrete ConversionEdge sharing this rule's
// dependency slot; the slot's lifetime is the longest-lived of the concrete
// edges it backs (spec "Ownership").
func (g GenericEdge) Concrete() ConversionEdge {
	return ConversionEdge{CodeTemplate: g.CodeTemplate, Guard: "", dep: g.dep}
}

// DestinationBinding records a destination-side name bound to a graph node,
// identified by the node's normalized name (spec §3). ABINormName is the
// node the low-level side actually marshals through; it defaults to
// SourceNormName (most bindings cross the boundary as-is) but a rule file
// may override it when the declared type isn't itself ABI-safe (a Go
// string needs to cross as *C.char, for instance).
type DestinationBinding struct {
	DestinationName string
	SourceNormName  string
	ABINormName     string
}

// ForeignTypeInfo is the pair returned when resolving a source type to a
// destination-side type (spec §3).
type ForeignTypeInfo struct {
	DestinationName string
	Source          SourceType
}

func (f ForeignTypeInfo) String() string {
	return fmt.Sprintf("%s (%s)", f.DestinationName, f.Source.NormalizedName)
}

// Direction selects which side of a resolution is fixed and which is sought
// (spec §4.D).
type Direction int

const (
	// Outgoing searches for a destination node reachable FROM the given
	// source type (source -> destination).
	Outgoing Direction = iota
	// Incoming searches for a destination node that reaches the given
	// source type (destination -> source).
	Incoming
)

func (d Direction) String() string {
	if d == Outgoing {
		return "outgoing"
	}
	return "incoming"
}

// MethodVariant classifies a method descriptor for signature-mapping and
// emission purposes (spec §4.E).
type MethodVariant int

const (
	Constructor MethodVariant = iota
	StaticMethod
	InstanceMethod
)

func (v MethodVariant) String() string {
	switch v {
	case Constructor:
		return "constructor"
	case StaticMethod:
		return "static"
	default:
		return "method"
	}
}

// ArgBinding is the per-argument (or per-return) result of signature mapping
// and code composition: the destination-facing type, the ABI intermediate
// type, and the two compiled snippets (spec §3 "MethodSignature").
type ArgBinding struct {
	// Name is the argument's variable name, or "" for the return binding.
	Name string

	// SourceType is the low-level (Go) type as declared on the method.
	SourceType SourceType

	// Foreign is the resolved destination (C#)-facing type.
	Foreign ForeignTypeInfo

	// ABIType is the concrete, bit-compatible type crossing the boundary.
	ABIType string

	// LowLevelDeps / LowLevelCode convert ABI <-> source type on the Go side.
	LowLevelDeps []Dependency
	LowLevelCode string

	// HighLevelDeps / HighLevelCode convert destination <-> ABI type on the
	// C# side.
	HighLevelDeps []Dependency
	HighLevelCode string

	// HasFinalizer reports whether this argument allocated heap memory on
	// the high-level side that must be released after the call returns
	// (spec §4.F).
	HasFinalizer bool
}

// MethodSignature is the fully-resolved, per-method derived data produced by
// the Signature Mapper and consumed by the Code Composer (spec §3).
type MethodSignature struct {
	ClassName  string
	MethodName string
	Variant    MethodVariant
	SelfKind   string // empty unless Variant == InstanceMethod
	Args       []ArgBinding
	Return     ArgBinding

	// Body is the user-supplied source-side expression invoking the real
	// implementation, carried verbatim from the class descriptor's method
	// (spec §6 "body-expression") and spliced between the argument and
	// return conversions at emission time.
	Body string
}

// FullName is the low-level entry point name for this method
// ("<Class>_<Method>"), matching spec §6's output naming convention.
func (m MethodSignature) FullName() string {
	return m.ClassName + "_" + m.MethodName
}
