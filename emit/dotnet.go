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
	"sort"
	"strings"

	"github.com/ffigen/ffigen/types"
)

// handleType is the C# type of the opaque native handle every instantiable
// class stores, and the type constructors return across the boundary.
const handleType = "UIntPtr"

// nativeImportSig is the P/Invoke signature recorded for one entry point:
// enough to render a typed "[DllImport]" declaration instead of a bare,
// argument-less stub.
type nativeImportSig struct {
	params []string
	ret    string
}

// DotNetFile accumulates one namespace of C# wrapper classes, generalizing
// original_source/macroslib/src/dotnet/mod.rs's DotNetGenerator from a
// single Rust-specific macro expansion into a rule-file-driven renderer:
// a NativeMethods P/Invoke class, a namespace, and one wrapper class per
// input Class with IDisposable-style lifecycle methods when it has a
// destructor (spec §4.G, §6).
type DotNetFile struct {
	nativeLibName string
	namespace     string

	nativeImports map[string]nativeImportSig

	classBuf bytes.Buffer
	classes  []string
}

// NewDotNetFile returns an empty C# file for nativeLibName, importing it as
// the DllImport target for every NativeMethods declaration.
func NewDotNetFile(nativeLibName string) *DotNetFile {
	return &DotNetFile{
		nativeLibName: nativeLibName,
		namespace:     "FFIGen.Generated",
		nativeImports: map[string]nativeImportSig{
			"String_delete": {params: []string{handleType}, ret: "void"},
		},
	}
}

// abiCSharpType maps an ABI-facing type name to its P/Invoke-safe C#
// spelling. Anything not recognized as a value type crosses as an opaque
// handle.
func abiCSharpType(abi string) string {
	switch abi {
	case "int32":
		return "int"
	case "int64":
		return "long"
	case "float64":
		return "double"
	case "uint8", "byte":
		return "byte"
	case "bool", "int8":
		return "bool"
	case "", "void":
		return "void"
	default:
		return "IntPtr"
	}
}

// BeginClass validates state and starts buffering this class's C# body.
func (f *DotNetFile) BeginClass(state *ClassState) error {
	if err := state.EnsureOpen("BeginClass"); err != nil {
		return err
	}
	f.classBuf.Reset()
	fmt.Fprintf(&f.classBuf, "    public sealed class %s", state.Name)
	if state.HasDestructor {
		f.classBuf.WriteString(" : IDisposable")
	}
	f.classBuf.WriteString("\n    {\n")
	if state.HasDestructor {
		fmt.Fprintf(&f.classBuf, "        private %s handle;\n\n", handleType)
	}
	return nil
}

// EmitMethod appends one method's high-level wrapper, registering the
// NativeMethods import its signature needs.
func (f *DotNetFile) EmitMethod(state *ClassState, sig types.MethodSignature) error {
	if err := state.EnsureOpen("EmitMethod"); err != nil {
		return err
	}
	f.nativeImports[sig.FullName()] = nativeImportSig{
		params: nativeParams(sig),
		ret:    nativeReturnType(sig),
	}

	retType := dotnetReturnType(sig)
	switch sig.Variant {
	case types.Constructor:
		fmt.Fprintf(&f.classBuf, "        public %s(", state.Name)
	case types.StaticMethod:
		fmt.Fprintf(&f.classBuf, "        public static %s %s(", retType, sig.MethodName)
	default:
		fmt.Fprintf(&f.classBuf, "        public %s %s(", retType, sig.MethodName)
	}
	for i, arg := range sig.Args {
		if i > 0 {
			f.classBuf.WriteString(", ")
		}
		fmt.Fprintf(&f.classBuf, "%s %s", arg.Foreign.DestinationName, arg.Name)
	}
	f.classBuf.WriteString(")\n        {\n")
	for _, arg := range sig.Args {
		f.classBuf.WriteString(arg.HighLevelCode)
	}

	callArgs := make([]string, 0, len(sig.Args)+1)
	if sig.Variant == types.InstanceMethod {
		callArgs = append(callArgs, "handle")
	}
	for _, arg := range sig.Args {
		callArgs = append(callArgs, arg.Name)
	}
	call := fmt.Sprintf("NativeMethods.%s(%s)", sig.FullName(), strings.Join(callArgs, ", "))

	switch {
	case sig.Variant == types.Constructor:
		fmt.Fprintf(&f.classBuf, "            handle = %s;\n", call)
	case retType == "void":
		fmt.Fprintf(&f.classBuf, "            %s;\n", call)
	default:
		fmt.Fprintf(&f.classBuf, "            %s result = %s;\n", retType, call)
		f.classBuf.WriteString(sig.Return.HighLevelCode)
		f.classBuf.WriteString("            return result;\n")
	}
	f.classBuf.WriteString("        }\n\n")
	return nil
}

// dotnetReturnType is the wrapper method's declared C# return type: "void"
// for a constructor (it has none) or a method with no return binding,
// otherwise the return binding's ABI type mapped to C#.
func dotnetReturnType(sig types.MethodSignature) string {
	if sig.Variant == types.Constructor || sig.Return.ABIType == "" {
		return "void"
	}
	return abiCSharpType(sig.Return.ABIType)
}

// nativeParams lists the P/Invoke signature's parameter types: a leading
// handle for instance methods, then one ABI-mapped type per argument.
func nativeParams(sig types.MethodSignature) []string {
	params := make([]string, 0, len(sig.Args)+1)
	if sig.Variant == types.InstanceMethod {
		params = append(params, handleType)
	}
	for _, arg := range sig.Args {
		params = append(params, abiCSharpType(arg.ABIType))
	}
	return params
}

// nativeReturnType is the P/Invoke signature's return type: the handle
// type for constructors (the low-level side always returns a freshly
// stored handle there), otherwise the return binding's ABI type.
func nativeReturnType(sig types.MethodSignature) string {
	if sig.Variant == types.Constructor {
		return handleType
	}
	return abiCSharpType(sig.Return.ABIType)
}

// EndClass closes the buffered class body, adding a Dispose implementation
// when the class owns a native handle, and appends it to the accumulated
// class list.
func (f *DotNetFile) EndClass(state *ClassState) error {
	if err := state.EnsureOpen("EndClass"); err != nil {
		return err
	}
	if state.HasDestructor {
		f.nativeImports[state.Name+"_delete"] = nativeImportSig{params: []string{handleType}, ret: "void"}
		fmt.Fprintf(&f.classBuf, "        public void Dispose()\n        {\n            NativeMethods.%s_delete(handle);\n        }\n", state.Name)
	}
	f.classBuf.WriteString("    }\n")
	f.classes = append(f.classes, f.classBuf.String())
	f.classBuf.Reset()
	return nil
}

// Render assembles the final .cs source: usings, a NativeMethods static
// class with one typed DllImport per referenced entry point (sorted for
// deterministic output), the namespace, and every class body in emission
// order.
func (f *DotNetFile) Render() []byte {
	var buf bytes.Buffer
	buf.WriteString("// Code generated by ffigen. DO NOT EDIT.\n")
	buf.WriteString("using System;\nusing System.Runtime.InteropServices;\n\n")
	fmt.Fprintf(&buf, "namespace %s\n{\n", f.namespace)
	fmt.Fprintf(&buf, "    internal static class NativeMethods\n    {\n        private const string Lib = %q;\n\n", f.nativeLibName)

	names := make([]string, 0, len(f.nativeImports))
	for n := range f.nativeImports {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		sig := f.nativeImports[n]
		params := make([]string, len(sig.params))
		for i, p := range sig.params {
			params[i] = fmt.Sprintf("%s a%d", p, i)
		}
		fmt.Fprintf(&buf, "        [DllImport(Lib)]\n        internal static extern %s %s(%s);\n\n", sig.ret, n, strings.Join(params, ", "))
	}
	buf.WriteString("    }\n\n")

	for _, c := range f.classes {
		buf.WriteString(c)
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

// Flush writes the rendered source to path if it differs from what is
// already there.
func (f *DotNetFile) Flush(path string) error {
	return writeIfChanged(path, f.Render())
}
