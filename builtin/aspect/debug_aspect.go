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
	"context"

	"go.uber.org/zap"

	"github.com/ffigen/ffigen/types"
)

var (
	_ types.ClassBeforeAspect = (*DebugAspect)(nil)
	_ types.ClassAfterAspect  = (*DebugAspect)(nil)
)

// DebugAspect logs the start and end of every class's expansion. It runs
// with order 900, after every other built-in aspect, so its log lines bound
// the work the rest of the aspect chain did for that class.
//
// Unlike ValidatorAspect's aborting errors, DebugAspect never fails a run:
// its Before/After always return nil; it only observes.
type DebugAspect struct {
	log *zap.SugaredLogger
}

// Order runs DebugAspect after validation and metrics collection.
func (a *DebugAspect) Order() int { return 900 }

// New returns a fresh DebugAspect backed by its own zap logger. A
// construction failure falls back to zap's no-op logger, since a debug
// aspect should never be the reason a generation run fails.
func (a *DebugAspect) New() types.Aspect {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return &DebugAspect{log: l.Sugar()}
}

// PointCut applies DebugAspect to every class.
func (a *DebugAspect) PointCut(class *types.Class) bool { return true }

// Before logs that class's expansion is starting.
func (a *DebugAspect) Before(ctx context.Context, class *types.Class) error {
	a.logger().Debugw("class expansion starting", "class", class.Name, "selfType", class.SelfType)
	return nil
}

// After logs that class's expansion has finished.
func (a *DebugAspect) After(ctx context.Context, class *types.Class) error {
	a.logger().Debugw("class expansion finished", "class", class.Name,
		"methods", len(class.Methods), "constructors", len(class.Constructors))
	return nil
}

func (a *DebugAspect) logger() *zap.SugaredLogger {
	if a.log == nil {
		return zap.NewNop().Sugar()
	}
	return a.log
}
