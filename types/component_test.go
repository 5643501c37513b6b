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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleTableStoreLoadRelease(t *testing.T) {
	table := NewHandleTable()

	h1 := table.Store("first")
	h2 := table.Store("second")
	assert.NotEqual(t, uint64(0), h1)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, table.Len())

	v, ok := table.Load(h1)
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	released, ok := table.Release(h1)
	assert.True(t, ok)
	assert.Equal(t, "first", released)
	assert.Equal(t, 1, table.Len())

	_, ok = table.Load(h1)
	assert.False(t, ok)
}

func TestHandleTableReleaseUnknownHandle(t *testing.T) {
	table := NewHandleTable()
	_, ok := table.Release(999)
	assert.False(t, ok)
}
