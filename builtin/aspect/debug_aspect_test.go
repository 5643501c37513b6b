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

	"github.com/stretchr/testify/assert"

	"github.com/ffigen/ffigen/types"
)

func TestDebugAspectPointCutAppliesToEveryClass(t *testing.T) {
	a := &DebugAspect{}
	assert.True(t, a.PointCut(&types.Class{Name: "Counter"}))
}

func TestDebugAspectBeforeAfterNeverError(t *testing.T) {
	a := (&DebugAspect{}).New().(*DebugAspect)
	class := &types.Class{Name: "Counter", Methods: []*types.Method{{Name: "value"}}}

	assert.NoError(t, a.Before(context.Background(), class))
	assert.NoError(t, a.After(context.Background(), class))
}

func TestDebugAspectLoggerFallsBackWhenNilLog(t *testing.T) {
	a := &DebugAspect{}
	assert.NotPanics(t, func() {
		_ = a.Before(context.Background(), &types.Class{Name: "Counter"})
	})
}

func TestDebugAspectOrder(t *testing.T) {
	assert.Equal(t, 900, (&DebugAspect{}).Order())
}
