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
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/ffigen/ffigen/types"
	"github.com/ffigen/ffigen/utils/maps"
)

// descriptorValidator checks struct-tag "required" constraints on decoded
// class/method descriptors (spec §6: descriptors are "checked for required
// fields with validator/v10" once decoded). A single package-level instance
// is safe for concurrent use, matching validator's own documented contract.
var descriptorValidator = validator.New()

// jsonRuleFile and jsonClass mirror types.RuleFile/types.Class field for
// field; kept as separate wire types (rather than adding json tags
// directly to the types.* structs) so a format change here never forces a
// change to the in-memory model.
type jsonRuleFile struct {
	Bindings []struct {
		Destination string `json:"destination"`
		Source      string `json:"source"`
		ABI         string `json:"abi,omitempty"`
	} `json:"bindings"`
	Conversions []struct {
		From         string `json:"from"`
		To           string `json:"to"`
		CodeTemplate string `json:"codeTemplate"`
		Guard        string `json:"guard,omitempty"`
		Dependency   string `json:"dependency,omitempty"`
	} `json:"conversions"`
	GenericEdges []struct {
		FromPattern     string   `json:"fromPattern"`
		ToPattern       string   `json:"toPattern"`
		TypeParam       string   `json:"typeParam"`
		Traits          []string `json:"traits,omitempty"`
		DynamicBound    string   `json:"dynamicBound,omitempty"`
		CodeTemplate    string   `json:"codeTemplate"`
		ToForeignerHint string   `json:"toForeignerHint,omitempty"`
		Dependency      string   `json:"dependency,omitempty"`
	} `json:"genericEdges"`
	UtilityCode []string `json:"utilityCode,omitempty"`
}

// JSONParser is the default types.Parser implementation (spec §6).
type JSONParser struct{}

// DecodeRuleFile decodes a JSON rule file.
func (JSONParser) DecodeRuleFile(data []byte, sourcePath string) (*types.RuleFile, error) {
	var wire jsonRuleFile
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &types.ParseError{Span: types.SourceSpan{File: sourcePath}, Err: err}
	}

	rf := &types.RuleFile{UtilityCode: wire.UtilityCode}
	for _, b := range wire.Bindings {
		rf.Bindings = append(rf.Bindings, types.DestinationBinding{
			DestinationName: b.Destination,
			SourceNormName:  types.Normalize(b.Source),
			ABINormName:     types.Normalize(b.ABI),
		})
	}
	for _, c := range wire.Conversions {
		rf.Conversions = append(rf.Conversions, types.RuleConversion{
			From: c.From, To: c.To, CodeTemplate: c.CodeTemplate, Guard: c.Guard, Dependency: c.Dependency,
		})
	}
	for _, g := range wire.GenericEdges {
		rf.GenericEdges = append(rf.GenericEdges, types.RuleGenericEdge{
			FromPattern: g.FromPattern, ToPattern: g.ToPattern, TypeParam: g.TypeParam,
			Traits: g.Traits, DynamicBound: g.DynamicBound, CodeTemplate: g.CodeTemplate,
			ToForeignerHint: g.ToForeignerHint, Dependency: g.Dependency,
		})
	}
	return rf, nil
}

// jsonClass mirrors types.Class for JSON decoding. The "required" tags are
// enforced by descriptorValidator after mapstructure decoding, independent
// of whatever zero-value defaulting encoding/json would otherwise apply
// silently.
type jsonClass struct {
	Name          string              `json:"name" validate:"required"`
	SelfType      string              `json:"selfType" validate:"required"`
	Constructors  []jsonMethod        `json:"constructors,omitempty" validate:"dive"`
	Methods       []jsonMethod        `json:"methods,omitempty" validate:"dive"`
	HasDestructor bool                `json:"hasDestructor,omitempty"`
	Configuration types.Configuration `json:"configuration,omitempty"`
}

type jsonMethod struct {
	Name    string `json:"name" validate:"required"`
	Variant string `json:"variant,omitempty"`
	Args    []struct {
		Name string `json:"name" validate:"required"`
		Type string `json:"type" validate:"required"`
	} `json:"args,omitempty" validate:"dive"`
	Return string `json:"return,omitempty"`
	Body   string `json:"body,omitempty"`
}

func decodeVariant(s string) types.MethodVariant {
	switch s {
	case "static":
		return types.StaticMethod
	case "method":
		return types.InstanceMethod
	default:
		return types.Constructor
	}
}

func classesFromWire(wireClasses []jsonClass) []*types.Class {
	var out []*types.Class
	for _, wc := range wireClasses {
		class := &types.Class{
			Name:          wc.Name,
			SelfType:      wc.SelfType,
			HasDestructor: wc.HasDestructor,
			Configuration: wc.Configuration,
		}
		for _, wm := range wc.Constructors {
			class.Constructors = append(class.Constructors, methodFromWire(wm))
		}
		for _, wm := range wc.Methods {
			class.Methods = append(class.Methods, methodFromWire(wm))
		}
		if !wc.HasDestructor && len(class.Constructors) > 0 {
			class.HasDestructor = true
		}
		out = append(out, class)
	}
	return out
}

func methodFromWire(wm jsonMethod) *types.Method {
	m := &types.Method{Name: wm.Name, Variant: decodeVariant(wm.Variant), Return: wm.Return, Body: wm.Body}
	for _, a := range wm.Args {
		m.Args = append(m.Args, types.ArgDescriptor{Name: a.Name, Type: a.Type})
	}
	return m
}

// DecodeClasses decodes a JSON class-descriptor document: either a bare
// array of classes, or an object with a top-level "classes" array. The raw
// document is first unmarshaled into untyped JSON values, then structured
// with utils/maps.Decode (mapstructure) rather than encoding/json directly,
// and checked for required fields with validator/v10 (spec §6).
func (JSONParser) DecodeClasses(data []byte, sourcePath string) ([]*types.Class, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &types.ParseError{Span: types.SourceSpan{File: sourcePath}, Err: err}
	}

	if _, isArray := raw.([]any); isArray {
		var wireClasses []jsonClass
		if err := maps.Decode(raw, &wireClasses); err != nil {
			return nil, &types.ParseError{Span: types.SourceSpan{File: sourcePath}, Err: err}
		}
		if err := validateClasses(wireClasses); err != nil {
			return nil, &types.ParseError{Span: types.SourceSpan{File: sourcePath}, Err: err}
		}
		return classesFromWire(wireClasses), nil
	}

	var wrapper struct {
		Classes []jsonClass `json:"classes"`
	}
	if err := maps.Decode(raw, &wrapper); err != nil {
		return nil, &types.ParseError{Span: types.SourceSpan{File: sourcePath}, Err: err}
	}
	if err := validateClasses(wrapper.Classes); err != nil {
		return nil, &types.ParseError{Span: types.SourceSpan{File: sourcePath}, Err: err}
	}
	return classesFromWire(wrapper.Classes), nil
}

func validateClasses(wireClasses []jsonClass) error {
	for i := range wireClasses {
		if err := descriptorValidator.Struct(wireClasses[i]); err != nil {
			return err
		}
	}
	return nil
}
