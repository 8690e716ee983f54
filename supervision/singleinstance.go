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

// Package supervision provides the process-level safety net around the
// trading engine: a single-instance lock, a watchdog heartbeat file, a
// panic-isolating supervisor for engine goroutines, crash-safe position
// persistence, and a duplicate-execution filter.
package supervision

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// SingleInstanceLock holds an advisory exclusive lock on a named file
// under the OS temp directory, refusing a second instance from starting
// under the same name.
type SingleInstanceLock struct {
	path   string
	file   *os.File
	locked bool
}

// AcquireSingleInstanceLock attempts to take an exclusive, non-blocking
// advisory lock on a file named after name. Locked reports whether the
// lock was obtained; a caller that gets false must refuse to start.
func AcquireSingleInstanceLock(name string) (*SingleInstanceLock, error) {
	path := filepath.Join(os.TempDir(), name+".lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o666)
	if err != nil {
		return nil, fmt.Errorf("supervision: open lock file %s: %w", path, err)
	}

	l := &SingleInstanceLock{path: path, file: f}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return l, nil // not locked; caller checks Locked()
	}
	l.locked = true
	return l, nil
}

// Locked reports whether this process holds the exclusive lock.
func (l *SingleInstanceLock) Locked() bool {
	return l != nil && l.locked
}

// Release drops the lock and closes the underlying file.
func (l *SingleInstanceLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if l.locked {
		syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	}
	return l.file.Close()
}
