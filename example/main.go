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

// Command example drives one in-process generation run over an inline class
// descriptor, the same way cmd/ffigen does from the command line, and prints
// the classes it resolved. It exists to exercise engine.ChainEngine end to
// end without a filesystem round trip.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ffigen/ffigen/engine"
	"github.com/ffigen/ffigen/types"
)

// classDescriptors declares one class, Counter, with a constructor, an
// instance method taking an int32 amount, and a plain accessor. It is deliberately small: enough to walk every binding
// kind (constructor, instance method, return value) without the combinatorics
// of a larger type.
var classDescriptors = []byte(`{
  "classes": [
    {
      "name": "Counter",
      "selfType": "*Counter",
      "hasDestructor": true,
      "constructors": [
        {
          "name": "new",
          "variant": "constructor",
          "args": [{"name": "start", "type": "int32"}],
          "body": "ret := &Counter{count: start}\n"
        }
      ],
      "methods": [
        {
          "name": "add",
          "variant": "method",
          "args": [{"name": "amount", "type": "int32"}],
          "body": "self.count += amount\n"
        },
        {
          "name": "value",
          "variant": "method",
          "return": "int32",
          "body": "ret := self.count\n"
        }
      ]
    }
  ]
}`)

// extraRules layers one project-specific conversion on top of the bundled
// defaults (builtin/rules.Default): an int8-to-bool edge carrying a guard
// expression. The bundled file already declares int8-to-bool and is merged
// first, so this edge is logged as a conflict and dropped
// (first-registration-wins); its guard is never evaluated.
var extraRules = []byte(`{
  "conversions": [
    {
      "from": "int8",
      "to": "bool",
      "guard": "from_var >= 0",
      "codeTemplate": "{to_var} := {from_var} != 0\n"
    }
  ]
}`)

func main() {
	workDir, err := os.MkdirTemp("", "ffigen-example-*")
	if err != nil {
		log.Fatalf("create temp output dir: %v", err)
	}
	defer os.RemoveAll(workDir)

	ruleFilePath := workDir + "/extra_rules.json"
	if err := os.WriteFile(ruleFilePath, extraRules, 0o644); err != nil {
		log.Fatalf("write extra rule file: %v", err)
	}

	cfg, err := engine.NewConfig(
		types.WithRuleFiles(ruleFilePath),
		types.WithTracer(engine.NewOtelTracer("ffigen-example")),
		types.WithMetrics(engine.NewPrometheusMetrics()),
	)
	if err != nil {
		log.Fatalf("build config: %v", err)
	}

	gen := engine.NewChainEngine("counter")
	gen.SetConfig(cfg)

	start := time.Now()
	if err := gen.Expand(context.Background(), "counter", classDescriptors, workDir); err != nil {
		log.Fatalf("expand: %v", err)
	}
	fmt.Println("expand cost:", time.Since(start))

	for _, class := range gen.Classes() {
		fmt.Printf("class %s: %d constructor(s), %d method(s)\n",
			class.Name, len(class.Constructors), len(class.Methods))
	}

	lowLevel, err := os.ReadFile(workDir + "/counter_generated.go")
	if err == nil {
		fmt.Println("--- generated low-level source ---")
		fmt.Println(string(lowLevel))
	}
}
