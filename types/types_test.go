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
	"github.com/stretchr/testify/require"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "Vec<Foo>", Normalize("  Vec < Foo >  "))
	assert.Equal(t, "int32", Normalize("\tint32\n"))
	assert.Equal(t, "", Normalize("   "))
}

func TestSourceTypeTraits(t *testing.T) {
	st := NewSourceType("Foo").WithImplements("Copy", "Send")
	assert.True(t, st.HasTrait("Copy"))
	assert.True(t, st.HasTrait("Send"))
	assert.False(t, st.HasTrait("Sync"))
}

func TestWithUniqueSuffixAndUnpack(t *testing.T) {
	st := NewSourceType("Foo").WithUniqueSuffix("alt")
	assert.Contains(t, st.NormalizedName, NUL)
	assert.Equal(t, "Foo", UnpackUniqueName(st.NormalizedName))
	assert.Equal(t, "Foo", UnpackUniqueName("Foo"))
}

func TestValidateCodeTemplateRequiresAllPlaceholders(t *testing.T) {
	err := ValidateCodeTemplate("{to_var} := {from_var}")
	require.Error(t, err)
	var tverr *TemplateValidationError
	assert.ErrorAs(t, err, &tverr)

	require.NoError(t, ValidateCodeTemplate("var {to_var} {to_var_type} = {from_var}"))
}

func TestConversionEdgeApplySubstitutesAllTokens(t *testing.T) {
	edge, err := NewConversionEdge("var {to_var} {to_var_type} = {from_var}; _ = {function_ret_type}", nil)
	require.NoError(t, err)

	out := edge.Apply("x", "int32", "error")
	assert.Equal(t, "var x int32 = x; _ = error", out)
}

func TestDependencySingleShot(t *testing.T) {
	dep := &Dependency{Code: "func helper() {}"}
	edge, err := NewConversionEdge("{to_var} := {from_var} // {to_var_type}", dep)
	require.NoError(t, err)

	assert.True(t, edge.HasPendingDependency())
	first := edge.TakeDependency()
	require.NotNil(t, first)
	assert.Equal(t, dep.Code, first.Code)

	assert.False(t, edge.HasPendingDependency())
	assert.Nil(t, edge.TakeDependency())
}

func TestGenericEdgeConcreteSharesDependencySlot(t *testing.T) {
	dep := &Dependency{Code: "func freeIt() {}"}
	generic, err := NewGenericEdge("[]T", "T[]", "{to_var} := {from_var}.({to_var_type})", []TraitBound{{TypeParam: "T"}}, dep)
	require.NoError(t, err)

	a := generic.Concrete()
	b := generic.Concrete()

	// Both concrete edges share one dependency slot: the first to take it
	// wins, the second observes it already consumed.
	first := a.TakeDependency()
	require.NotNil(t, first)
	assert.Nil(t, b.TakeDependency())
}

func TestMethodSignatureFullName(t *testing.T) {
	sig := MethodSignature{ClassName: "Counter", MethodName: "add"}
	assert.Equal(t, "Counter_add", sig.FullName())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "outgoing", Outgoing.String())
	assert.Equal(t, "incoming", Incoming.String())
}

func TestMethodVariantString(t *testing.T) {
	assert.Equal(t, "constructor", Constructor.String())
	assert.Equal(t, "static", StaticMethod.String())
	assert.Equal(t, "method", InstanceMethod.String())
}
