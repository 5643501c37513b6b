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
	"bytes"
	"fmt"
	"strings"

	"github.com/ffigen/ffigen/types"
)

// LowLevelAccumulator collects the Go/cgo source for one generation run: a
// deduplicated utility/dependency preamble plus one //export function per
// method and one "<Class>_delete" destructor per instantiable class (spec
// §4.G, §6). Nothing is written to disk until Flush.
type LowLevelAccumulator struct {
	nativeLibName string

	utility     []string
	seenUtility map[string]bool

	depOrder []string
	seenDep  map[string]bool

	funcs []string
}

// NewLowLevelAccumulator returns an empty accumulator for the given native
// library name (used only as a comment header today; a future multi-file
// split would shard on it).
func NewLowLevelAccumulator(nativeLibName string) *LowLevelAccumulator {
	return &LowLevelAccumulator{
		nativeLibName: nativeLibName,
		seenUtility:   make(map[string]bool),
		seenDep:       make(map[string]bool),
	}
}

// AddUtility appends verbatim helper snippets (rule-file "helpers", spec §6
// scenario S6) in declaration order, skipping exact duplicates.
func (a *LowLevelAccumulator) AddUtility(snippets ...string) {
	for _, s := range snippets {
		if s == "" || a.seenUtility[s] {
			continue
		}
		a.seenUtility[s] = true
		a.utility = append(a.utility, s)
	}
}

// BeginClass validates that state has already been opened by the driver;
// the low-level sink itself has no class-scoped preamble to write.
func (a *LowLevelAccumulator) BeginClass(state *ClassState) error {
	return state.EnsureOpen("BeginClass")
}

// EmitMethod renders one method's low-level entry point and hoists its
// dependencies (spec §4.F "dependency hoisting").
//
// The rendered signature takes a leading "handle uint64" for instance
// methods (resolved to "self" via the handle table before Body runs) and
// one ABI-typed parameter per argument, each shadowed by its LowLevelCode
// conversion into the inner source type Body expects. Body is spliced in
// verbatim; by convention it binds its result, if any, to a variable
// named "ret" for the return conversion (or for a constructor, the newly
// built instance to hand to the handle table) to consume.
func (a *LowLevelAccumulator) EmitMethod(state *ClassState, sig types.MethodSignature) error {
	if err := state.EnsureOpen("EmitMethod"); err != nil {
		return err
	}
	for _, arg := range sig.Args {
		a.addDeps(arg.LowLevelDeps)
	}
	a.addDeps(sig.Return.LowLevelDeps)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "//export %s\n", sig.FullName())
	buf.WriteString("func ")
	buf.WriteString(sig.FullName())
	buf.WriteString("(")
	buf.WriteString(strings.Join(lowLevelParams(sig), ", "))
	buf.WriteString(")")
	if ret := lowLevelReturnType(sig); ret != "" {
		buf.WriteString(" ")
		buf.WriteString(ret)
	}
	buf.WriteString(" {\n")
	if sig.Variant == types.InstanceMethod {
		fmt.Fprintf(&buf, "\tobj, _ := handles.Load(handle)\n\tself := obj.(%s)\n", sig.SelfKind)
	}
	for _, arg := range sig.Args {
		buf.WriteString(arg.LowLevelCode)
	}
	buf.WriteString(sig.Body)
	switch sig.Variant {
	case types.Constructor:
		buf.WriteString("\treturn handles.Store(ret)\n")
	default:
		buf.WriteString(sig.Return.LowLevelCode)
		if sig.Return.ABIType != "" {
			buf.WriteString("\treturn ret\n")
		}
	}
	buf.WriteString("}\n")
	a.funcs = append(a.funcs, buf.String())
	return nil
}

// lowLevelParams lists the exported function's parameter declarations: a
// leading handle for instance methods, then one ABI-typed name per
// argument.
func lowLevelParams(sig types.MethodSignature) []string {
	params := make([]string, 0, len(sig.Args)+1)
	if sig.Variant == types.InstanceMethod {
		params = append(params, "handle uint64")
	}
	for _, arg := range sig.Args {
		params = append(params, arg.Name+" "+arg.ABIType)
	}
	return params
}

// lowLevelReturnType is the exported function's Go return type: always
// uint64 (a freshly stored handle) for constructors, the return binding's
// ABI type otherwise, or "" for a method returning nothing.
func lowLevelReturnType(sig types.MethodSignature) string {
	if sig.Variant == types.Constructor {
		return "uint64"
	}
	return sig.Return.ABIType
}

// EndClass validates the class is still open and, if state.HasDestructor,
// appends the "<Class>_delete" entry point releasing the instance's handle.
func (a *LowLevelAccumulator) EndClass(state *ClassState) error {
	if err := state.EnsureOpen("EndClass"); err != nil {
		return err
	}
	if state.HasDestructor {
		a.funcs = append(a.funcs, fmt.Sprintf(
			"//export %s_delete\nfunc %s_delete(handle uint64) {\n\thandles.Release(handle)\n}\n",
			state.Name, state.Name,
		))
	}
	return nil
}

// Render assembles the final Go source: a generated-file header, the
// deduplicated utility preamble, a package-level handle table backed by
// types.HandleTable, every hoisted dependency, then every method.
func (a *LowLevelAccumulator) Render() []byte {
	var buf bytes.Buffer
	buf.WriteString("// Code generated by ffigen. DO NOT EDIT.\n\n//go:build cgo\n\npackage main\n\n")
	for _, u := range a.utility {
		buf.WriteString(u)
		buf.WriteString("\n")
	}
	buf.WriteString("\nimport \"github.com/ffigen/ffigen/types\"\n\n")
	fmt.Fprintf(&buf, "// handles backs every instantiable class generated for %s.\n", a.nativeLibName)
	buf.WriteString("var handles = types.NewHandleTable()\n\n")
	for _, d := range a.depOrder {
		buf.WriteString(d)
		buf.WriteString("\n")
	}
	for _, f := range a.funcs {
		buf.WriteString(f)
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// Flush writes the rendered source to path if it differs from what is
// already there.
func (a *LowLevelAccumulator) Flush(path string) error {
	return writeIfChanged(path, a.Render())
}

func (a *LowLevelAccumulator) addDeps(deps []types.Dependency) {
	for _, d := range deps {
		if d.Code == "" || a.seenDep[d.Code] {
			continue
		}
		a.seenDep[d.Code] = true
		a.depOrder = append(a.depOrder, d.Code)
	}
}
