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

// Package emit renders the low-level (Go/cgo) and high-level (C#) source
// for one generation run (spec §4.G). Both sinks are driven by one
// ClassState per class, so a method emitted before its class opens, or a
// class closed twice, fails fast with EmitterStateError instead of
// producing malformed output silently.
package emit

import "github.com/ffigen/ffigen/types"

type classPhase int

const (
	phaseBeforeClass classPhase = iota
	phaseClassOpen
	phaseClassClosed
)

// ClassState tracks one class's emission lifecycle: BeforeClass ->
// ClassOpen -> ClassClosed (spec §4.G). The driver (engine.ChainEngine)
// owns the Open/Close transitions; both sinks only observe the state via
// EnsureOpen before writing.
type ClassState struct {
	Name          string
	HasDestructor bool
	phase         classPhase
}

// NewClassState returns a state positioned at BeforeClass.
func NewClassState(name string, hasDestructor bool) *ClassState {
	return &ClassState{Name: name, HasDestructor: hasDestructor}
}

// Open transitions BeforeClass -> ClassOpen.
func (s *ClassState) Open() error {
	if s.phase != phaseBeforeClass {
		return &types.EmitterStateError{State: s.phaseName(), Op: "Open"}
	}
	s.phase = phaseClassOpen
	return nil
}

// EnsureOpen reports an EmitterStateError naming op if the state is not
// currently ClassOpen.
func (s *ClassState) EnsureOpen(op string) error {
	if s.phase != phaseClassOpen {
		return &types.EmitterStateError{State: s.phaseName(), Op: op}
	}
	return nil
}

// Close transitions ClassOpen -> ClassClosed.
func (s *ClassState) Close() error {
	if s.phase != phaseClassOpen {
		return &types.EmitterStateError{State: s.phaseName(), Op: "Close"}
	}
	s.phase = phaseClassClosed
	return nil
}

func (s *ClassState) phaseName() string {
	switch s.phase {
	case phaseBeforeClass:
		return "BeforeClass"
	case phaseClassOpen:
		return "ClassOpen"
	default:
		return "ClassClosed"
	}
}
