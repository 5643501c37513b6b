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

package aspect

import (
	"fmt"
	"sync"

	"github.com/ffigen/ffigen/types"
)

var _ types.RuleFileAspect = (*ValidatorAspect)(nil)

// ValidatorAspect runs a registry of structural checks against a RuleFile
// before it is merged, catching malformed rule files early rather than
// letting them surface as a confusing conflict or template error deep in
// the graph. Every check in Rules runs in registration order; the first
// one to fail aborts the merge.
type ValidatorAspect struct{}

// Order runs validation ahead of every other built-in aspect (order 10,
// matching the teacher's chain validator).
func (a *ValidatorAspect) Order() int { return 10 }

// New returns a fresh ValidatorAspect; it carries no per-run state.
func (a *ValidatorAspect) New() types.Aspect { return &ValidatorAspect{} }

// OnRuleFileBeforeMerge runs every registered rule against rf, in order.
func (a *ValidatorAspect) OnRuleFileBeforeMerge(cfg *types.Config, rf *types.RuleFile) error {
	for _, rule := range Rules.rules() {
		if err := rule(cfg, rf); err != nil {
			return err
		}
	}
	return nil
}

// ruleFileRule checks one structural property of a parsed rule file.
type ruleFileRule func(cfg *types.Config, rf *types.RuleFile) error

// ruleRegistry is a thread-safe, appendable list of ruleFileRule functions,
// generalizing the teacher's package-level ChainRules registry from
// rule-chain topology checks to rule-file structural checks.
type ruleRegistry struct {
	mu    sync.RWMutex
	items []ruleFileRule
}

// AddRule appends one or more rules, executed in the order they were added.
func (r *ruleRegistry) AddRule(fn ...ruleFileRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, fn...)
}

func (r *ruleRegistry) rules() []ruleFileRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ruleFileRule(nil), r.items...)
}

// Rules is the global registry of rule-file validation functions applied by
// ValidatorAspect. Callers may AddRule their own checks at init time.
var Rules = newRuleRegistry()

func newRuleRegistry() *ruleRegistry {
	r := &ruleRegistry{}
	r.AddRule(checkConversionsWellFormed)
	r.AddRule(checkGenericEdgesWellFormed)
	r.AddRule(checkBindingsWellFormed)
	return r
}

// checkConversionsWellFormed rejects a conversion entry missing a From, To
// or CodeTemplate. types.NewConversionEdge would eventually reject a bad
// template too, but a missing From/To never even reaches that call and
// would otherwise merge as a same-type edge silently.
func checkConversionsWellFormed(_ *types.Config, rf *types.RuleFile) error {
	for i, c := range rf.Conversions {
		if c.From == "" || c.To == "" {
			return fmt.Errorf("conversion[%d]: from and to must both be set", i)
		}
		if c.CodeTemplate == "" {
			return fmt.Errorf("conversion[%d] (%s -> %s): codeTemplate must not be empty", i, c.From, c.To)
		}
	}
	return nil
}

// checkGenericEdgesWellFormed rejects a generic edge with an empty pattern
// or template. An empty Traits list is legitimate (an unconstrained type
// parameter, like the bundled slice-to-array hint): only FromPattern,
// ToPattern and CodeTemplate are load-bearing for every instantiation.
func checkGenericEdgesWellFormed(_ *types.Config, rf *types.RuleFile) error {
	for i, g := range rf.GenericEdges {
		if g.FromPattern == "" || g.ToPattern == "" {
			return fmt.Errorf("genericEdge[%d]: fromPattern and toPattern must both be set", i)
		}
		if g.CodeTemplate == "" {
			return fmt.Errorf("genericEdge[%d] (%s -> %s): codeTemplate must not be empty", i, g.FromPattern, g.ToPattern)
		}
	}
	return nil
}

// checkBindingsWellFormed rejects a destination binding with an empty
// source or destination name.
func checkBindingsWellFormed(_ *types.Config, rf *types.RuleFile) error {
	for i, b := range rf.Bindings {
		if b.SourceNormName == "" || b.DestinationName == "" {
			return fmt.Errorf("binding[%d]: sourceNormName and destinationName must both be set", i)
		}
	}
	return nil
}
