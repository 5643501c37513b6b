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

package aspect

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ffigen/ffigen/types"
)

var (
	_ types.ClassBeforeAspect = (*MetricsAspect)(nil)
	_ types.ClassAfterAspect  = (*MetricsAspect)(nil)
)

var (
	classDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ffigen",
		Subsystem: "aspect",
		Name:      "class_expand_duration_seconds",
		Help:      "Wall-clock time spent expanding one class, start to finish.",
		Buckets:   prometheus.DefBuckets,
	})

	methodOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ffigen",
		Subsystem: "aspect",
		Name:      "method_outcomes_total",
		Help:      "Number of methods and constructors composed, counted under outcome=success per successfully expanded class.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(classDurationSeconds, methodOutcomesTotal)
}

// MetricsAspect records aspect-observable timing and outcome counters that
// sit outside what Config.Metrics already captures inside the path finder
// and composer (spec §8): how long each class took end to end, and how many
// methods and constructors it composed, counted under the "success" outcome.
// A class whose expansion fails never reaches After, so no outcome is
// recorded for it. It runs with order 500, after validation but before
// debug logging.
type MetricsAspect struct {
	start time.Time
}

// Order runs MetricsAspect between validation (10) and debug logging (900).
func (a *MetricsAspect) Order() int { return 500 }

// New returns a fresh MetricsAspect; start is per-instance so concurrent
// classes (a future parallel Expand) don't clobber each other's timer.
func (a *MetricsAspect) New() types.Aspect { return &MetricsAspect{} }

// PointCut applies MetricsAspect to every class.
func (a *MetricsAspect) PointCut(class *types.Class) bool { return true }

// Before records the start time for this class's expansion.
func (a *MetricsAspect) Before(ctx context.Context, class *types.Class) error {
	a.start = time.Now()
	return nil
}

// After observes the elapsed time since Before and counts the class's
// methods as a successful outcome. Reaching After means expandClass hit no
// error, since ChainEngine only runs ClassAfterAspects once EndClass and
// state.Close have both returned cleanly.
func (a *MetricsAspect) After(ctx context.Context, class *types.Class) error {
	if !a.start.IsZero() {
		classDurationSeconds.Observe(time.Since(a.start).Seconds())
	}
	methodOutcomesTotal.WithLabelValues("success").
		Add(float64(len(class.Methods) + len(class.Constructors)))
	return nil
}
