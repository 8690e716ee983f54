/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package supervision

import (
	"fmt"
	"os"
	"time"
)

// StaleAfter is how long an external supervisor should wait since the
// last heartbeat before considering this process dead.
const StaleAfter = 5 * time.Second

// Heartbeat writes the current time to a file once per main loop
// iteration; an external watchdog process polls the file's contents
// (not its mtime, which can lag on some filesystems) and restarts this
// process once the written timestamp is more than StaleAfter old.
type Heartbeat struct {
	path string
}

// NewHeartbeat creates a Heartbeat writing to path.
func NewHeartbeat(path string) *Heartbeat {
	return &Heartbeat{path: path}
}

// Beat overwrites the heartbeat file with the current Unix millisecond
// timestamp.
func (h *Heartbeat) Beat() error {
	ms := time.Now().UnixMilli()
	return os.WriteFile(h.path, []byte(fmt.Sprintf("%d\n", ms)), 0o644)
}

// IsStale reads the heartbeat file and reports whether its timestamp is
// older than StaleAfter, for a self-check or an in-process watchdog test.
func (h *Heartbeat) IsStale() (bool, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return true, err
	}
	var ms int64
	if _, err := fmt.Sscanf(string(data), "%d", &ms); err != nil {
		return true, fmt.Errorf("supervision: parse heartbeat file: %w", err)
	}
	age := time.Since(time.UnixMilli(ms))
	return age > StaleAfter, nil
}
