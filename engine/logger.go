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
	"go.uber.org/zap"

	"github.com/ffigen/ffigen/types"
)

// zapLogger adapts *zap.SugaredLogger to types.Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger returns a types.Logger backed by a production zap logger.
// Falls back to zap's no-op logger if the production config can't build
// (e.g. no writable stderr), since a generator run should never fail purely
// because logging couldn't initialize.
func NewZapLogger() types.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return &zapLogger{s: l.Sugar()}
}

func (z *zapLogger) Debugw(msg string, kv ...any) { z.s.Debugw(msg, kv...) }
func (z *zapLogger) Infow(msg string, kv ...any)  { z.s.Infow(msg, kv...) }
func (z *zapLogger) Warnw(msg string, kv ...any)  { z.s.Warnw(msg, kv...) }
func (z *zapLogger) Errorw(msg string, kv ...any) { z.s.Errorw(msg, kv...) }

func (z *zapLogger) With(kv ...any) types.Logger {
	return &zapLogger{s: z.s.With(kv...)}
}
