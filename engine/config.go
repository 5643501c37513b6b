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
	"github.com/ffigen/ffigen/builtin/aspect"
	"github.com/ffigen/ffigen/types"
)

// BuiltinAspects are copied into every ChainEngine by NewChainEngine. They
// provide rule-file validation, debug logging and metrics collection without
// requiring any configuration. SetAspects (and so WithAspects) replaces the
// whole list, these built-ins included.
var BuiltinAspects = []types.Aspect{
	&aspect.ValidatorAspect{},
	&aspect.DebugAspect{},
	&aspect.MetricsAspect{},
}

// NewConfig builds a types.Config with generator-specific defaults layered
// over types.NewConfig's ambient defaults: a JSON parser and a zap-backed
// logger.
func NewConfig(opts ...types.Option) (*types.Config, error) {
	defaults := []types.Option{
		types.WithLogger(NewZapLogger()),
		types.WithParser(JSONParser{}),
	}
	return types.NewConfig(append(defaults, opts...)...)
}

// WithConfig installs cfg on a Generator.
func WithConfig(cfg *types.Config) types.GeneratorOption {
	return func(g types.Generator) error {
		g.SetConfig(cfg)
		return nil
	}
}

// WithAspects replaces a Generator's aspect list, BuiltinAspects included,
// with aspects.
func WithAspects(aspects ...types.Aspect) types.GeneratorOption {
	return func(g types.Generator) error {
		g.SetAspects(aspects...)
		return nil
	}
}
