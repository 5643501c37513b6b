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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffigen/ffigen/types"
)

const counterDescriptors = `{
  "classes": [
    {
      "name": "Counter",
      "selfType": "*Counter",
      "hasDestructor": true,
      "constructors": [
        {"name": "new", "variant": "constructor", "args": [{"name": "start", "type": "int32"}], "body": "ret := &Counter{count: start}\n"}
      ],
      "methods": [
        {"name": "add", "variant": "method", "args": [{"name": "amount", "type": "int32"}], "body": "self.count += amount\n"},
        {"name": "value", "variant": "method", "return": "int32", "body": "ret := self.count\n"}
      ]
    }
  ]
}`

func TestChainEngineExpandWritesLowAndHighLevelFiles(t *testing.T) {
	gen := NewChainEngine("counter-test")
	dir := t.TempDir()

	require.NoError(t, gen.Expand(context.Background(), "counter", []byte(counterDescriptors), dir))

	require.Len(t, gen.Classes(), 1)
	assert.Equal(t, "Counter", gen.Classes()[0].Name)

	lowLevel, err := os.ReadFile(filepath.Join(dir, "counter_generated.go"))
	require.NoError(t, err)
	assert.Contains(t, string(lowLevel), "//export Counter_new")
	assert.Contains(t, string(lowLevel), "//export Counter_delete")
	assert.Contains(t, string(lowLevel), "handles.Release")

	highLevel, err := os.ReadFile(filepath.Join(dir, "counter.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(highLevel), "class Counter")
}

// TestChainEngineExpandIsDeterministic exercises the no-op path of
// writeIfChanged (emit/sink.go): running Expand twice against the same
// descriptors and output directory must not change the file on disk, and
// must not error.
func TestChainEngineExpandIsDeterministic(t *testing.T) {
	dir := t.TempDir()

	gen1 := NewChainEngine("counter-test")
	require.NoError(t, gen1.Expand(context.Background(), "counter", []byte(counterDescriptors), dir))
	first, err := os.ReadFile(filepath.Join(dir, "counter_generated.go"))
	require.NoError(t, err)

	gen2 := NewChainEngine("counter-test")
	require.NoError(t, gen2.Expand(context.Background(), "counter", []byte(counterDescriptors), dir))
	second, err := os.ReadFile(filepath.Join(dir, "counter_generated.go"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestChainEngineExpandMergesCallerRuleFileOverBundledDefaults(t *testing.T) {
	dir := t.TempDir()
	rulePath := filepath.Join(dir, "extra.json")
	extra := []byte(`{
		"conversions": [
			{"from": "int8", "to": "bool", "guard": "from_var >= 0", "codeTemplate": "{to_var} := {from_var} != 0\n"}
		]
	}`)
	require.NoError(t, os.WriteFile(rulePath, extra, 0o644))

	cfg, err := types.NewConfig(types.WithRuleFiles(rulePath))
	require.NoError(t, err)

	gen := NewChainEngine("guarded")
	gen.SetConfig(cfg)

	require.NoError(t, gen.Expand(context.Background(), "guarded", []byte(counterDescriptors), dir))
	require.Len(t, gen.Classes(), 1)
}

func TestChainEngineExpandRejectsMalformedRuleFile(t *testing.T) {
	dir := t.TempDir()
	rulePath := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(rulePath, []byte("not json"), 0o644))

	cfg, err := types.NewConfig(types.WithRuleFiles(rulePath))
	require.NoError(t, err)

	gen := NewChainEngine("broken")
	gen.SetConfig(cfg)

	err = gen.Expand(context.Background(), "broken", []byte(counterDescriptors), dir)
	assert.Error(t, err)
}

func TestChainEngineExpandMissingConversionPathFails(t *testing.T) {
	dir := t.TempDir()
	descriptors := []byte(`{
		"classes": [
			{"name": "Widget", "selfType": "*Widget", "methods": [
				{"name": "describe", "variant": "method", "return": "totallyUnknownType"}
			]}
		]
	}`)

	gen := NewChainEngine("widget")
	err := gen.Expand(context.Background(), "widget", descriptors, dir)
	assert.Error(t, err)
}
