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

package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffigen/ffigen/types"
)

func TestLowLevelAccumulatorEmitMethodAndDestructor(t *testing.T) {
	acc := NewLowLevelAccumulator("counter")
	acc.AddUtility("import \"C\"", "import \"C\"")

	state := NewClassState("Counter", true)
	require.NoError(t, state.Open())
	require.NoError(t, acc.BeginClass(state))

	sig := types.MethodSignature{
		ClassName:  "Counter",
		MethodName: "add",
		Variant:    types.InstanceMethod,
		SelfKind:   "*Counter",
		Args: []types.ArgBinding{
			{
				Name:         "amount",
				ABIType:      "int32",
				LowLevelDeps: []types.Dependency{{Code: "func helper() {}"}, {Code: "func helper() {}"}},
			},
		},
		Body: "\tself.Add(amount)\n",
	}
	require.NoError(t, acc.EmitMethod(state, sig))
	require.NoError(t, acc.EndClass(state))
	require.NoError(t, state.Close())

	out := string(acc.Render())
	assert.Contains(t, out, "//export Counter_add")
	assert.Contains(t, out, "//export Counter_delete")
	assert.Contains(t, out, "handles.Release")
	assert.Contains(t, out, "self.Add(amount)")
	assert.Contains(t, out, "func helper() {}")

	// Duplicate utility and dependency snippets are deduplicated.
	assert.Equal(t, 1, strings.Count(out, "import \"C\""))
	assert.Equal(t, 1, strings.Count(out, "func helper() {}"))
}

func TestLowLevelAccumulatorEmitMethodBeforeOpenFails(t *testing.T) {
	acc := NewLowLevelAccumulator("counter")
	state := NewClassState("Counter", false)
	err := acc.EmitMethod(state, types.MethodSignature{})
	assert.Error(t, err)
}

func TestLowLevelAccumulatorFlushWritesFile(t *testing.T) {
	acc := NewLowLevelAccumulator("counter")
	dir := t.TempDir()
	path := filepath.Join(dir, "counter_generated.go")

	require.NoError(t, acc.Flush(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DO NOT EDIT")
}
