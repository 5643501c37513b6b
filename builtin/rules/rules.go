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

// Package rules bundles the default conversion rule file merged into every
// generation run ahead of any caller-supplied rule files (spec §6, §9). It
// plays the role the teacher's built-in component registrations play for a
// rule chain: a baseline that a user's own configuration layers on top of,
// never replaces outright.
package rules

import _ "embed"

//go:embed default.json
var defaultRuleFile []byte

// Default returns the bundled baseline rule file: primitive bool/int/
// string bindings, their low-level conversions, and the generic slice<->T[]
// and pointer-to-foreign-class hints exercised by the class-descriptor
// scenarios in the engine package's tests.
func Default() []byte {
	return defaultRuleFile
}
