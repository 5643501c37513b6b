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

// Logger is the structured-logging seam used throughout the generator. The
// default implementation (engine.NewZapLogger) wraps go.uber.org/zap; tests
// typically inject a no-op or observer-backed implementation instead.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
	With(keysAndValues ...any) Logger
}

// NopLogger discards everything. Useful as a default before NewConfig
// installs a real logger, and in unit tests that don't care about output.
type NopLogger struct{}

func (NopLogger) Debugw(string, ...any)   {}
func (NopLogger) Infow(string, ...any)    {}
func (NopLogger) Warnw(string, ...any)    {}
func (NopLogger) Errorw(string, ...any)   {}
func (NopLogger) With(...any) Logger      { return NopLogger{} }

// MetricsRecorder abstracts the Prometheus counters/histograms the engine
// updates during a run, so the engine package's concrete implementation can
// be swapped out in tests without pulling in a real registry.
type MetricsRecorder interface {
	ObservePathLength(direction string, steps int)
	ObserveLazyExtensionRounds(rounds int)
	IncEdgeConflict()
	IncMethodsGenerated(variant string)
}

// NopMetricsRecorder discards everything.
type NopMetricsRecorder struct{}

func (NopMetricsRecorder) ObservePathLength(string, int)        {}
func (NopMetricsRecorder) ObserveLazyExtensionRounds(int)       {}
func (NopMetricsRecorder) IncEdgeConflict()                     {}
func (NopMetricsRecorder) IncMethodsGenerated(string)           {}

// Tracer is the minimal span-starting seam the engine needs from
// go.opentelemetry.io/otel/trace, kept as an interface so the engine package
// can depend on the concrete SDK while this package stays dependency-light.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, func())
}

// NopTracer discards everything.
type NopTracer struct{}

func (NopTracer) StartSpan(ctx context.Context, _ string) (context.Context, func()) {
	return ctx, func() {}
}
