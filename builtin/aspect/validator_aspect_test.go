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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffigen/ffigen/types"
)

func TestValidatorAspectAcceptsWellFormedRuleFile(t *testing.T) {
	v := &ValidatorAspect{}
	rf := &types.RuleFile{
		Bindings:    []types.DestinationBinding{{SourceNormName: "int32", DestinationName: "int"}},
		Conversions: []types.RuleConversion{{From: "int32", To: "int32", CodeTemplate: "{to_var} := {from_var} // {to_var_type}"}},
		GenericEdges: []types.RuleGenericEdge{
			{FromPattern: "[]T", ToPattern: "T[]", CodeTemplate: "{to_var} := {from_var} // {to_var_type}"},
		},
	}
	assert.NoError(t, v.OnRuleFileBeforeMerge(nil, rf))
}

func TestValidatorAspectRejectsConversionMissingCodeTemplate(t *testing.T) {
	v := &ValidatorAspect{}
	rf := &types.RuleFile{Conversions: []types.RuleConversion{{From: "int32", To: "int32"}}}
	assert.Error(t, v.OnRuleFileBeforeMerge(nil, rf))
}

func TestValidatorAspectRejectsGenericEdgeMissingPattern(t *testing.T) {
	v := &ValidatorAspect{}
	rf := &types.RuleFile{GenericEdges: []types.RuleGenericEdge{{ToPattern: "T[]", CodeTemplate: "x"}}}
	assert.Error(t, v.OnRuleFileBeforeMerge(nil, rf))
}

func TestValidatorAspectRejectsBindingMissingDestination(t *testing.T) {
	v := &ValidatorAspect{}
	rf := &types.RuleFile{Bindings: []types.DestinationBinding{{SourceNormName: "int32"}}}
	assert.Error(t, v.OnRuleFileBeforeMerge(nil, rf))
}

func TestValidatorAspectOrderAndNew(t *testing.T) {
	v := &ValidatorAspect{}
	assert.Equal(t, 10, v.Order())

	fresh := v.New()
	require.NotNil(t, fresh)
	_, ok := fresh.(*ValidatorAspect)
	assert.True(t, ok)
}
