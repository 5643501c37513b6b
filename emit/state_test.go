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

package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffigen/ffigen/types"
)

func TestClassStateOpenEnsureOpenClose(t *testing.T) {
	s := NewClassState("Counter", true)

	assert.Error(t, s.EnsureOpen("EmitMethod"), "not open yet")

	require.NoError(t, s.Open())
	assert.NoError(t, s.EnsureOpen("EmitMethod"))

	require.NoError(t, s.Close())
	assert.Error(t, s.EnsureOpen("EmitMethod"))
}

func TestClassStateOpenTwiceFails(t *testing.T) {
	s := NewClassState("Counter", false)
	require.NoError(t, s.Open())

	err := s.Open()
	var stateErr *types.EmitterStateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "ClassOpen", stateErr.State)
}

func TestClassStateCloseBeforeOpenFails(t *testing.T) {
	s := NewClassState("Counter", false)
	err := s.Close()
	var stateErr *types.EmitterStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestClassStateCloseTwiceFails(t *testing.T) {
	s := NewClassState("Counter", false)
	require.NoError(t, s.Open())
	require.NoError(t, s.Close())
	assert.Error(t, s.Close())
}
