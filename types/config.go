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

package types

// Parser decodes a rule file (JSON/YAML/HCL) into a RuleFile, and a class
// descriptor document into a Class list. Each concrete format lives in the
// engine package (engine.JSONParser, engine.YAMLParser, engine.HCLParser);
// the rest of the generator depends only on this interface, so the active
// format is a Config-time choice rather than a compile-time one.
type Parser interface {
	DecodeRuleFile(data []byte, sourcePath string) (*RuleFile, error)
	DecodeClasses(data []byte, sourcePath string) ([]*Class, error)
}

// RuleFile is the parsed contents of a rule file: conversion edges, generic
// edges, destination bindings and raw utility snippets, prior to being
// resolved against interned SourceType nodes and merged into the registry
// (spec §4.A "merge").
type RuleFile struct {
	Bindings     []DestinationBinding
	Conversions  []RuleConversion
	GenericEdges []RuleGenericEdge
	UtilityCode  []string
}

// RuleConversion is one conversion-edge entry as it appears in a rule file.
type RuleConversion struct {
	From, To     string
	CodeTemplate string
	Guard        string
	Dependency   string
}

// RuleGenericEdge is one generic-edge entry as it appears in a rule file.
type RuleGenericEdge struct {
	FromPattern, ToPattern string
	TypeParam              string
	Traits                 []string
	DynamicBound            string
	CodeTemplate            string
	ToForeignerHint         string
	Dependency              string
}

// Config is the configuration shared by every component of a generation
// run: the registry, the path finder, the code composer and the emitter
// all read from the same Config rather than threading a dozen parameters.
//
// Build one with NewConfig and the With* options below; Config itself has
// no constructor logic beyond field defaults, matching the functional
// options pattern used throughout this codebase.
//
//	cfg, err := types.NewConfig(
//	    types.WithLogger(myLogger),
//	    types.WithRuleFiles("extra_rules.json"),
//	)
type Config struct {
	// Logger receives structured, leveled diagnostics for the whole run.
	Logger Logger

	// Metrics records path-search and emission statistics.
	Metrics MetricsRecorder

	// Tracer starts spans around path resolution and emission.
	Tracer Tracer

	// Parser decodes rule files and class descriptors. NewConfig leaves it
	// nil; engine.NewConfig installs engine.JSONParser, and
	// engine.ChainEngine.Expand uses engine.JSONParser when it is nil.
	Parser Parser

	// RuleFilePaths lists additional rule files merged on top of the
	// bundled defaults (builtin/rules), in order. A conflicting edge is
	// resolved by first-registration-wins, so earlier files take priority.
	RuleFilePaths []string

	// MaxLazyExtensionSteps bounds how many generic-edge instantiation
	// rounds the path finder attempts before giving up. Zero selects the
	// default of 7.
	MaxLazyExtensionSteps int

	// StrictUnknownTypes, when true, turns a class/method descriptor
	// referencing an un-interned type into an UnknownType error instead of
	// silently interning it on first sight.
	StrictUnknownTypes bool
}

// Option mutates a Config during construction.
type Option func(*Config) error

// NewConfig builds a Config with sane defaults (no-op logger/metrics/
// tracer, 7-round lazy-extension bound) and applies opts in order.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Logger:                NopLogger{},
		Metrics:               NopMetricsRecorder{},
		Tracer:                NopTracer{},
		MaxLazyExtensionSteps: 7,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithLogger installs a custom Logger.
func WithLogger(l Logger) Option {
	return func(c *Config) error {
		if l != nil {
			c.Logger = l
		}
		return nil
	}
}

// WithMetrics installs a custom MetricsRecorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Config) error {
		if m != nil {
			c.Metrics = m
		}
		return nil
	}
}

// WithTracer installs a custom Tracer.
func WithTracer(t Tracer) Option {
	return func(c *Config) error {
		if t != nil {
			c.Tracer = t
		}
		return nil
	}
}

// WithParser overrides the default rule-file/class-descriptor parser.
func WithParser(p Parser) Option {
	return func(c *Config) error {
		if p != nil {
			c.Parser = p
		}
		return nil
	}
}

// WithRuleFiles appends additional rule file paths merged over the bundled
// defaults.
func WithRuleFiles(paths ...string) Option {
	return func(c *Config) error {
		c.RuleFilePaths = append(c.RuleFilePaths, paths...)
		return nil
	}
}

// WithMaxLazyExtensionSteps overrides the bound on generic-edge
// instantiation rounds attempted by the path finder.
func WithMaxLazyExtensionSteps(n int) Option {
	return func(c *Config) error {
		if n > 0 {
			c.MaxLazyExtensionSteps = n
		}
		return nil
	}
}

// WithStrictUnknownTypes turns on UnknownType errors for un-interned types
// referenced by class/method descriptors.
func WithStrictUnknownTypes(strict bool) Option {
	return func(c *Config) error {
		c.StrictUnknownTypes = strict
		return nil
	}
}
