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

package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultReturnsParseableJSON(t *testing.T) {
	var doc struct {
		Bindings []struct {
			Source      string `json:"source"`
			Destination string `json:"destination"`
		} `json:"bindings"`
		Conversions []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"conversions"`
		GenericEdges []struct {
			FromPattern string `json:"fromPattern"`
			ToPattern   string `json:"toPattern"`
		} `json:"genericEdges"`
		UtilityCode []string `json:"utilityCode"`
	}

	require.NoError(t, json.Unmarshal(Default(), &doc))
	assert.NotEmpty(t, doc.Bindings)
	assert.NotEmpty(t, doc.Conversions)
	assert.NotEmpty(t, doc.GenericEdges)
	assert.NotEmpty(t, doc.UtilityCode)

	var hasInt32Binding bool
	for _, b := range doc.Bindings {
		if b.Source == "int32" && b.Destination == "int" {
			hasInt32Binding = true
		}
	}
	assert.True(t, hasInt32Binding, "bundled rules must bind int32 to int")
}

func TestDefaultIsStableAcrossCalls(t *testing.T) {
	assert.Equal(t, Default(), Default())
}
