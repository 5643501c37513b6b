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
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ffigen/ffigen/types"
)

// otelTracer adapts the global otel tracer provider to types.Tracer, so a
// batch generation run emits spans around path resolution and emission
// that a caller's tracing backend (if any) can stitch into a larger build
// pipeline trace.
type otelTracer struct {
	tracer trace.Tracer
}

// NewOtelTracer returns a types.Tracer backed by the tracer named
// instrumentationName from the global otel TracerProvider.
func NewOtelTracer(instrumentationName string) types.Tracer {
	return &otelTracer{tracer: otel.Tracer(instrumentationName)}
}

func (t *otelTracer) StartSpan(ctx context.Context, name string) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}
