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

import "context"

// GeneratorOption configures a Generator after construction, mirroring the
// functional-options pattern used for Config.
type GeneratorOption func(Generator) error

// Generator is the top-level driver for one generation run: it owns the
// merged registry and conversion graph built from the bundled and
// user-supplied rule files, and exposes Expand as the single entry point
// that walks a list of classes, resolves every method, and writes low-level
// and high-level output.
//
// The concrete implementation lives in package engine; this interface
// exists so that cmd/ffigen and tests can depend on behavior rather than
// the concrete type.
type Generator interface {
	// Id identifies this generator instance, primarily for logging.
	Id() string

	// SetConfig replaces the active Config.
	SetConfig(cfg *Config)

	// SetAspects replaces the active aspect list.
	SetAspects(aspects ...Aspect)

	// Expand parses classDescriptors, resolves every class and method
	// against the merged conversion graph, and writes the low-level source
	// and high-level wrapper source for nativeLibName into outputDir.
	Expand(ctx context.Context, nativeLibName string, classDescriptors []byte, outputDir string) error

	// Classes returns the classes registered by the most recent Expand
	// call, primarily for test assertions and callbacks.
	Classes() []*Class
}
