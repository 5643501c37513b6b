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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffigen/ffigen/types"
)

func TestGenericEdgeSetInstantiateSubstitutesPattern(t *testing.T) {
	generic, err := types.NewGenericEdge("[]T", "T[]", "{to_var} := {from_var} // {to_var_type}",
		[]types.TraitBound{{TypeParam: "T"}}, nil)
	require.NoError(t, err)

	set := NewGenericEdgeSet(nil)
	set.Add(generic)

	insts, err := set.TryInstantiate(types.NewSourceType("int32"), nil)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Equal(t, "[]int32", insts[0].FromName)
	assert.Equal(t, "int32[]", insts[0].ToName)
}

func TestGenericEdgeSetSkipsWhenStaticBoundUnmet(t *testing.T) {
	generic, err := types.NewGenericEdge("[]T", "T[]", "{to_var} := {from_var} // {to_var_type}",
		[]types.TraitBound{{TypeParam: "T", Traits: []string{"Copy"}}}, nil)
	require.NoError(t, err)

	set := NewGenericEdgeSet(nil)
	set.Add(generic)

	insts, err := set.TryInstantiate(types.NewSourceType("int32"), nil)
	require.NoError(t, err)
	assert.Empty(t, insts)

	insts, err = set.TryInstantiate(types.NewSourceType("int32").WithImplements("Copy"), nil)
	require.NoError(t, err)
	assert.Len(t, insts, 1)
}

func TestGenericEdgeSetToForeignerHint(t *testing.T) {
	generic, err := types.NewGenericEdge("*T", "T*", "{to_var} := {from_var} // {to_var_type}",
		[]types.TraitBound{{TypeParam: "T"}}, nil)
	require.NoError(t, err)
	generic.ToForeignerHint = "TForeign"

	set := NewGenericEdgeSet(nil)
	set.Add(generic)

	insts, err := set.TryInstantiate(types.NewSourceType("Foo"), nil)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Equal(t, "FooForeign", insts[0].ToForeignerName)
}

func TestGenericEdgeSetDynamicBoundWithoutEngineErrors(t *testing.T) {
	generic, err := types.NewGenericEdge("T", "T2", "{to_var} := {from_var} // {to_var_type}",
		[]types.TraitBound{{TypeParam: "T"}}, nil)
	require.NoError(t, err)
	generic.DynamicBound = "candidate.name.length > 0"

	set := NewGenericEdgeSet(nil)
	set.Add(generic)

	_, err = set.TryInstantiate(types.NewSourceType("Foo"), nil)
	assert.Error(t, err)
}
