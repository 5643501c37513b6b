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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffigen/ffigen/types"
)

func TestDotNetFileRendersWrapperClassAndDispose(t *testing.T) {
	f := NewDotNetFile("counter")

	state := NewClassState("Counter", true)
	require.NoError(t, state.Open())
	require.NoError(t, f.BeginClass(state))

	sig := types.MethodSignature{
		ClassName:  "Counter",
		MethodName: "add",
		Variant:    types.InstanceMethod,
		Args: []types.ArgBinding{
			{Name: "amount", Foreign: types.ForeignTypeInfo{DestinationName: "int"}, HighLevelCode: ""},
		},
	}
	require.NoError(t, f.EmitMethod(state, sig))
	require.NoError(t, f.EndClass(state))
	require.NoError(t, state.Close())

	out := string(f.Render())
	assert.Contains(t, out, "public sealed class Counter : IDisposable")
	assert.Contains(t, out, "public void add(int amount)")
	assert.Contains(t, out, "NativeMethods.Counter_add(handle, amount);")
	assert.Contains(t, out, "public void Dispose()")
	assert.Contains(t, out, "[DllImport(Lib)]")
}

func TestDotNetFileEmitMethodBeforeOpenFails(t *testing.T) {
	f := NewDotNetFile("counter")
	state := NewClassState("Counter", false)
	assert.Error(t, f.EmitMethod(state, types.MethodSignature{}))
}

func TestDotNetFileFlushWritesFile(t *testing.T) {
	f := NewDotNetFile("counter")
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.cs")

	require.NoError(t, f.Flush(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "namespace FFIGen.Generated")
}
