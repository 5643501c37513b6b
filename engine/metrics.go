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
	"github.com/prometheus/client_golang/prometheus"
)

var (
	pathLengthHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ffigen",
			Subsystem: "pathfinder",
			Name:      "path_length_steps",
			Help:      "Number of conversion-edge hops in a resolved path.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 7, 10},
		},
		[]string{"direction"},
	)

	lazyExtensionRoundsHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ffigen",
			Subsystem: "pathfinder",
			Name:      "lazy_extension_rounds",
			Help:      "Number of generic-edge instantiation rounds spent before a path was found.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7},
		},
		nil,
	)

	edgeConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ffigen",
			Subsystem: "graph",
			Name:      "edge_conflicts_total",
			Help:      "Number of conversion edges that lost to an already-registered edge.",
		},
	)

	methodsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ffigen",
			Subsystem: "composer",
			Name:      "methods_generated_total",
			Help:      "Number of methods successfully composed, by variant.",
		},
		[]string{"variant"},
	)
)

func init() {
	prometheus.MustRegister(pathLengthHistogram, lazyExtensionRoundsHistogram, edgeConflictsTotal, methodsGeneratedTotal)
}

// PrometheusMetrics implements types.MetricsRecorder over the package-level
// collectors above, registered once at init so repeated Generator
// construction within a process doesn't attempt double registration.
type PrometheusMetrics struct{}

// NewPrometheusMetrics returns a PrometheusMetrics recorder.
func NewPrometheusMetrics() PrometheusMetrics { return PrometheusMetrics{} }

func (PrometheusMetrics) ObservePathLength(direction string, steps int) {
	pathLengthHistogram.WithLabelValues(direction).Observe(float64(steps))
}

func (PrometheusMetrics) ObserveLazyExtensionRounds(rounds int) {
	lazyExtensionRoundsHistogram.WithLabelValues().Observe(float64(rounds))
}

func (PrometheusMetrics) IncEdgeConflict() {
	edgeConflictsTotal.Inc()
}

func (PrometheusMetrics) IncMethodsGenerated(variant string) {
	methodsGeneratedTotal.WithLabelValues(variant).Inc()
}
