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

import "fmt"

// SourceSpan locates an error in an input rule file or class descriptor for
// diagnostics (spec §7).
type SourceSpan struct {
	File   string
	Line   int
	Column int
}

func (s SourceSpan) String() string {
	if s.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// ParseError wraps a failure decoding a rule file or class descriptor.
type ParseError struct {
	Span SourceSpan
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: %v", e.Span, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TemplateValidationError is returned when a code template is missing one of
// the required substitution placeholders (spec §3, §7).
type TemplateValidationError struct {
	Template string
}

func (e *TemplateValidationError) Error() string {
	return fmt.Sprintf("code template missing a required placeholder ({to_var}/{from_var}/{to_var_type}): %q", e.Template)
}

// UnknownType is returned when a class or method descriptor references a
// type never interned into the registry.
type UnknownType struct {
	Name string
}

func (e *UnknownType) Error() string {
	return fmt.Sprintf("unknown type: %q", e.Name)
}

// NoConversionPath is returned when the path finder exhausts both cached
// reachability and lazy generic-edge extension without connecting From to
// To (spec §4.D, §7).
type NoConversionPath struct {
	From, To  string
	Direction Direction
}

func (e *NoConversionPath) Error() string {
	return fmt.Sprintf("no %s conversion path from %q to %q", e.Direction, e.From, e.To)
}

// DuplicateBinding is returned when a destination binding collides with one
// already registered, in either direction: the same normalized source type
// rebinding to a different destination name, or a destination name already
// claimed by a different normalized source type (spec §4.A, §7).
// ExistingNormName is set only for the latter case.
type DuplicateBinding struct {
	NormalizedName   string
	ExistingDest     string
	AttemptedDest    string
	ExistingNormName string
}

func (e *DuplicateBinding) Error() string {
	if e.ExistingNormName != "" {
		return fmt.Sprintf("destination %q already bound to type %q; refusing to also bind %q to it (first registration wins)",
			e.AttemptedDest, e.ExistingNormName, e.NormalizedName)
	}
	return fmt.Sprintf("type %q already bound to destination %q; refusing to rebind to %q (first registration wins)",
		e.NormalizedName, e.ExistingDest, e.AttemptedDest)
}

// EmitterStateError is returned when the emitter's class-emission state
// machine is driven out of order (e.g. a method emitted before its owning
// class is opened, or a class closed twice) — spec §4.F, §5.
type EmitterStateError struct {
	State string
	Op    string
}

func (e *EmitterStateError) Error() string {
	return fmt.Sprintf("emitter: operation %q invalid in state %q", e.Op, e.State)
}

// IOError wraps a failure writing generated output to its sink.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error writing %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
