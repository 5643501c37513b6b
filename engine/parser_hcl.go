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
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/ffigen/ffigen/types"
)

// HCLParser implements types.Parser for rule files written in HCL,
// convenient for large hand-maintained rule sets that want block syntax and
// comments rather than JSON/YAML punctuation (spec §6).
type HCLParser struct{}

type hclBinding struct {
	Destination string `hcl:"destination"`
	Source      string `hcl:"source"`
	ABI         string `hcl:"abi,optional"`
}

type hclConversion struct {
	From         string `hcl:"from,label"`
	To           string `hcl:"to,label"`
	CodeTemplate string `hcl:"code_template"`
	Guard        string `hcl:"guard,optional"`
	Dependency   string `hcl:"dependency,optional"`
}

type hclGenericEdge struct {
	FromPattern     string   `hcl:"from_pattern,label"`
	ToPattern       string   `hcl:"to_pattern,label"`
	TypeParam       string   `hcl:"type_param"`
	Traits          []string `hcl:"traits,optional"`
	DynamicBound    string   `hcl:"dynamic_bound,optional"`
	CodeTemplate    string   `hcl:"code_template"`
	ToForeignerHint string   `hcl:"to_foreigner_hint,optional"`
	Dependency      string   `hcl:"dependency,optional"`
}

type hclRuleFile struct {
	Bindings     []hclBinding     `hcl:"binding,block"`
	Conversions  []hclConversion  `hcl:"conversion,block"`
	GenericEdges []hclGenericEdge `hcl:"generic_edge,block"`
	UtilityCode  []string         `hcl:"utility_code,optional"`
}

// DecodeRuleFile decodes an HCL rule file.
func (HCLParser) DecodeRuleFile(data []byte, sourcePath string) (*types.RuleFile, error) {
	var wire hclRuleFile
	if err := hclsimple.Decode(sourcePath, data, nil, &wire); err != nil {
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

type hclArg struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

type hclMethod struct {
	Name    string   `hcl:"name,label"`
	Variant string   `hcl:"variant,optional"`
	Args    []hclArg `hcl:"arg,block"`
	Return  string   `hcl:"return,optional"`
	Body    string   `hcl:"body,optional"`
}

type hclClass struct {
	Name          string      `hcl:"name,label"`
	SelfType      string      `hcl:"self_type"`
	HasDestructor bool        `hcl:"has_destructor,optional"`
	Constructors  []hclMethod `hcl:"constructor,block"`
	Methods       []hclMethod `hcl:"method,block"`
}

type hclClassFile struct {
	Classes []hclClass `hcl:"class,block"`
}

// DecodeClasses decodes an HCL class-descriptor document.
func (HCLParser) DecodeClasses(data []byte, sourcePath string) ([]*types.Class, error) {
	var wire hclClassFile
	if err := hclsimple.Decode(sourcePath, data, nil, &wire); err != nil {
		return nil, &types.ParseError{Span: types.SourceSpan{File: sourcePath}, Err: err}
	}

	var out []*types.Class
	for _, wc := range wire.Classes {
		class := &types.Class{Name: wc.Name, SelfType: wc.SelfType, HasDestructor: wc.HasDestructor}
		for _, wm := range wc.Constructors {
			class.Constructors = append(class.Constructors, methodFromHCL(wm))
		}
		for _, wm := range wc.Methods {
			class.Methods = append(class.Methods, methodFromHCL(wm))
		}
		if !class.HasDestructor && len(class.Constructors) > 0 {
			class.HasDestructor = true
		}
		out = append(out, class)
	}
	return out, nil
}

func methodFromHCL(wm hclMethod) *types.Method {
	m := &types.Method{Name: wm.Name, Variant: decodeVariant(wm.Variant), Return: wm.Return, Body: wm.Body}
	for _, a := range wm.Args {
		m.Args = append(m.Args, types.ArgDescriptor{Name: a.Name, Type: a.Type})
	}
	return m
}
