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

// Package hashutil fingerprints merged rule file content so operators can
// tell which rule file version produced a given generation run without that
// identifier affecting the generated bytes themselves (spec's AMBIENT STACK
// expansion).
package hashutil

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a short, stable hex digest of data, suitable for a log
// field distinguishing one merged rule-file snapshot from another.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
