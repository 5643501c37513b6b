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

	"github.com/ffigen/ffigen/types"
	"gopkg.in/yaml.v3"
)

// YAMLParser implements types.Parser for human-edited rule files and class
// descriptors (spec §6). It decodes into the same wire structs as
// JSONParser by round-tripping through encoding/json, since yaml.v3
// produces map[string]interface{} keyed by YAML tag rather than JSON tag
// and the wire structs are already tagged for JSON.
type YAMLParser struct{}

func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(v))
}

// normalizeYAML converts the map[string]interface{} / []interface{} tree
// yaml.v3 produces into the map[string]any / []any shapes encoding/json
// expects, recursively, since yaml.v3 never emits map[string]any keys with
// the wrong underlying type but does nest via the any interface type.
func normalizeYAML(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, val := range vv {
			out[k] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, val := range vv {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return vv
	}
}

// DecodeRuleFile decodes a YAML rule file.
func (YAMLParser) DecodeRuleFile(data []byte, sourcePath string) (*types.RuleFile, error) {
	jsonData, err := yamlToJSON(data)
	if err != nil {
		return nil, &types.ParseError{Span: types.SourceSpan{File: sourcePath}, Err: err}
	}
	return (JSONParser{}).DecodeRuleFile(jsonData, sourcePath)
}

// DecodeClasses decodes a YAML class-descriptor document.
func (YAMLParser) DecodeClasses(data []byte, sourcePath string) ([]*types.Class, error) {
	jsonData, err := yamlToJSON(data)
	if err != nil {
		return nil, &types.ParseError{Span: types.SourceSpan{File: sourcePath}, Err: err}
	}
	return (JSONParser{}).DecodeClasses(jsonData, sourcePath)
}
