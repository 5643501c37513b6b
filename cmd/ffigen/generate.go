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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ffigen/ffigen/engine"
	"github.com/ffigen/ffigen/types"
)

var (
	nativeLibName    string
	inputPath        string
	outputDir        string
	ruleFiles        []string
	maxLazySteps     int
	strictUnknown    bool
	useYAMLRuleFiles bool
	useHCLRuleFiles  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Resolve a class descriptor document and emit low-level and high-level glue",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&nativeLibName, "native-lib", "", "name of the native shared library (required)")
	generateCmd.Flags().StringVar(&inputPath, "input", "", "path to the class descriptor document (required)")
	generateCmd.Flags().StringVar(&outputDir, "output", "", "directory to write generated sources into (required)")
	generateCmd.Flags().StringArrayVar(&ruleFiles, "rules", nil, "additional rule file(s), merged over the bundled defaults, first-registration-wins")
	generateCmd.Flags().IntVar(&maxLazySteps, "max-lazy-steps", 0, "bound on generic-edge instantiation rounds (0 selects the default of 7)")
	generateCmd.Flags().BoolVar(&strictUnknown, "strict-unknown-types", false, "fail instead of auto-interning a type never seen in a rule file")
	generateCmd.Flags().BoolVar(&useYAMLRuleFiles, "yaml", false, "parse rule files and the class descriptor as YAML instead of JSON")
	generateCmd.Flags().BoolVar(&useHCLRuleFiles, "hcl", false, "parse rule files and the class descriptor as HCL instead of JSON")
	_ = generateCmd.MarkFlagRequired("native-lib")
	_ = generateCmd.MarkFlagRequired("input")
	_ = generateCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := []types.Option{
		types.WithRuleFiles(ruleFiles...),
		types.WithMaxLazyExtensionSteps(maxLazySteps),
		types.WithStrictUnknownTypes(strictUnknown),
		types.WithTracer(engine.NewOtelTracer("ffigen")),
		types.WithMetrics(engine.NewPrometheusMetrics()),
	}
	switch {
	case useYAMLRuleFiles:
		opts = append(opts, types.WithParser(engine.YAMLParser{}))
	case useHCLRuleFiles:
		opts = append(opts, types.WithParser(engine.HCLParser{}))
	}

	cfg, err := engine.NewConfig(opts...)
	if err != nil {
		return fmt.Errorf("building config: %w", err)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return &types.IOError{Path: inputPath, Err: err}
	}

	gen := engine.NewChainEngine(nativeLibName)
	gen.SetConfig(cfg)

	if err := gen.Expand(context.Background(), nativeLibName, data, outputDir); err != nil {
		return err
	}

	cfg.Logger.Infow("generation complete", "nativeLib", nativeLibName, "classes", len(gen.Classes()), "output", outputDir)
	return nil
}
