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

// Package maps decodes loosely-typed documents (map[string]any, as produced
// by the YAML and HCL parsers' intermediate forms) into typed structs. It is
// this repository's reimplementation of the teacher's referenced but
// unshipped utils/maps.Map2Struct helper.
package maps

import "github.com/mitchellh/mapstructure"

// Decode populates out (a pointer to a struct) from input, matching struct
// fields by their "json" tag so the same tagged structs used for JSON
// decoding also serve as the target of a generic map decode.
func Decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
