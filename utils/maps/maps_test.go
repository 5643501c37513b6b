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

package maps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestDecodePopulatesByJSONTag(t *testing.T) {
	input := map[string]any{"name": "Counter", "age": "7"}

	var out decodeTarget
	require.NoError(t, Decode(input, &out))
	assert.Equal(t, "Counter", out.Name)
	assert.Equal(t, 7, out.Age)
}

func TestDecodeNestedSlice(t *testing.T) {
	type wrapper struct {
		Items []decodeTarget `json:"items"`
	}
	input := map[string]any{
		"items": []any{
			map[string]any{"name": "a", "age": 1},
			map[string]any{"name": "b", "age": 2},
		},
	}

	var out wrapper
	require.NoError(t, Decode(input, &out))
	require.Len(t, out.Items, 2)
	assert.Equal(t, "b", out.Items[1].Name)
}

func TestDecodeErrorsOnIncompatibleType(t *testing.T) {
	input := map[string]any{"name": map[string]any{"nope": true}}
	var out decodeTarget
	assert.Error(t, Decode(input, &out))
}
