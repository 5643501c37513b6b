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
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"

	"github.com/ffigen/ffigen/types"
)

// writeIfChanged commits data to path only if it differs from what is
// already on disk, via a temp-file-then-rename sequence so a concurrent
// reader never observes a partially-written file. The temp file's suffix is
// a fresh UUID purely to avoid colliding with another run's scratch file;
// it never reaches the committed bytes, so determinism (spec §8 property 1)
// is unaffected by it (spec §4.G).
func writeIfChanged(path string, data []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	id, err := uuid.NewV4()
	if err != nil {
		return &types.IOError{Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &types.IOError{Path: path, Err: err}
	}

	tmp := path + "." + id.String() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &types.IOError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &types.IOError{Path: path, Err: err}
	}
	return nil
}
