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

package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintIsStableAndHex(t *testing.T) {
	data := []byte(`{"conversions": []}`)
	first := Fingerprint(data)
	second := Fingerprint(data)

	assert.Equal(t, first, second)
	assert.Len(t, first, 16)
}

func TestFingerprintDiffersOnDifferentInput(t *testing.T) {
	a := Fingerprint([]byte("one"))
	b := Fingerprint([]byte("two"))
	assert.NotEqual(t, a, b)
}
