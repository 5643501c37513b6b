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

// OnClassStart fires when the emitter opens a new class's low-level and
// high-level output buffers.
type OnClassStart func(class *Class)

// OnMethodGenerated fires after a single method's signature has been
// resolved and its code composed, before it is appended to the class's
// buffers.
type OnMethodGenerated func(class *Class, method *Method, sig MethodSignature)

// OnClassDone fires once a class's buffers have been flushed to the sink.
type OnClassDone func(class *Class, lowLevelPath, highLevelPath string)

// Callbacks groups optional hooks for points in a generation run, for
// progress reporting and golden-file test harnesses that want to inspect
// intermediate MethodSignature values without re-deriving them. Config
// carries no Callbacks, and ChainEngine invokes none of these hooks.
type Callbacks struct {
	OnClassStart      OnClassStart
	OnMethodGenerated OnMethodGenerated
	OnClassDone       OnClassDone
}

// CallbackOption mutates a Callbacks during construction.
type CallbackOption func(*Callbacks) error

// NewCallbacks builds a Callbacks and applies opts in order.
func NewCallbacks(opts ...CallbackOption) Callbacks {
	c := &Callbacks{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		_ = opt(c)
	}
	return *c
}

// WithOnClassStart installs an OnClassStart hook.
func WithOnClassStart(fn OnClassStart) CallbackOption {
	return func(c *Callbacks) error {
		c.OnClassStart = fn
		return nil
	}
}

// WithOnMethodGenerated installs an OnMethodGenerated hook.
func WithOnMethodGenerated(fn OnMethodGenerated) CallbackOption {
	return func(c *Callbacks) error {
		c.OnMethodGenerated = fn
		return nil
	}
}

// WithOnClassDone installs an OnClassDone hook.
func WithOnClassDone(fn OnClassDone) CallbackOption {
	return func(c *Callbacks) error {
		c.OnClassDone = fn
		return nil
	}
}
