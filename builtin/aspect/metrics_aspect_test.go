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
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffigen/ffigen/types"
)

func TestMetricsAspectBeforeAfterRecordsOutcome(t *testing.T) {
	a := (&MetricsAspect{}).New().(*MetricsAspect)
	class := &types.Class{
		Name:         "Counter",
		Methods:      []*types.Method{{Name: "value"}, {Name: "add"}},
		Constructors: []*types.Method{{Name: "new"}},
	}

	before := testutil.ToFloat64(methodOutcomesTotal.WithLabelValues("success"))

	require.NoError(t, a.Before(context.Background(), class))
	require.NoError(t, a.After(context.Background(), class))

	after := testutil.ToFloat64(methodOutcomesTotal.WithLabelValues("success"))
	assert.Equal(t, float64(3), after-before)
}

func TestMetricsAspectAfterWithoutBeforeDoesNotPanic(t *testing.T) {
	a := &MetricsAspect{}
	class := &types.Class{Name: "Counter"}
	assert.NotPanics(t, func() {
		assert.NoError(t, a.After(context.Background(), class))
	})
}

func TestMetricsAspectPointCutAndOrder(t *testing.T) {
	a := &MetricsAspect{}
	assert.True(t, a.PointCut(&types.Class{Name: "Counter"}))
	assert.Equal(t, 500, a.Order())
}
