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
	"fmt"

	"github.com/ffigen/ffigen/types"
)

// SignatureMapper validates a Class/Method descriptor pair before the
// Composer attempts to resolve any conversion path, so a malformed
// descriptor fails fast with a message naming the class and method instead
// of surfacing as a confusing NoConversionPath deep in path resolution.
type SignatureMapper struct {
	cfg *types.Config
}

// NewSignatureMapper builds a SignatureMapper using cfg for strictness
// settings.
func NewSignatureMapper(cfg *types.Config) *SignatureMapper {
	return &SignatureMapper{cfg: cfg}
}

// Validate checks method against the shape its Variant requires:
//   - a Constructor must not declare a return type (the constructed
//     instance's handle is always implicit)
//   - an InstanceMethod implicitly receives the class's SelfType as its
//     receiver and must not redeclare it among Args
//   - every argument and the return type, if StrictUnknownTypes is set,
//     must already be interned in reg
func (m *SignatureMapper) Validate(reg *TypeRegistry, class *types.Class, method *types.Method) error {
	switch method.Variant {
	case types.Constructor:
		if method.Return != "" {
			return fmt.Errorf("class %s: constructor %s must not declare a return type", class.Name, method.Name)
		}
	case types.InstanceMethod:
		for _, a := range method.Args {
			if a.Type == class.SelfType {
				return fmt.Errorf("class %s: instance method %s must not redeclare %s among its arguments; the receiver is implicit",
					class.Name, method.Name, class.SelfType)
			}
		}
	}

	if !m.cfg.StrictUnknownTypes {
		return nil
	}
	for _, a := range method.Args {
		if _, ok := reg.Lookup(types.Normalize(a.Type)); !ok {
			return &types.UnknownType{Name: a.Type}
		}
	}
	if method.Return != "" {
		if _, ok := reg.Lookup(types.Normalize(method.Return)); !ok {
			return &types.UnknownType{Name: method.Return}
		}
	}
	return nil
}

// ValidateClass checks a class for internally-consistent method naming:
// two methods (including constructors) may not share a name, since the
// low-level entry point is "<Class>_<Method>".
func (m *SignatureMapper) ValidateClass(class *types.Class) error {
	seen := make(map[string]bool)
	all := append(append([]*types.Method{}, class.Constructors...), class.Methods...)
	for _, meth := range all {
		if meth.Name == "" {
			return fmt.Errorf("class %s: method with empty name", class.Name)
		}
		if seen[meth.Name] {
			return fmt.Errorf("class %s: duplicate method name %q", class.Name, meth.Name)
		}
		seen[meth.Name] = true
	}
	return nil
}
