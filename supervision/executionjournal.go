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

import "sync"

// executionJournalClearThreshold is the tracked-ID count at which the
// dedup set is cleared wholesale rather than pruned entry-by-entry.
const executionJournalClearThreshold = 10000

// ExecutionJournal is a duplicate-execution filter: a broker can, on
// reconnect or retry, replay an execution report the engine already
// booked. RegisterExecution reports whether an execution ID has been
// seen before, so callers can ignore the replay instead of double
// counting a fill.
type ExecutionJournal struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewExecutionJournal creates an empty ExecutionJournal.
func NewExecutionJournal() *ExecutionJournal {
	return &ExecutionJournal{seen: make(map[string]struct{})}
}

// RegisterExecution records execID and reports true if it is newly seen,
// false if it was already registered (a duplicate).
func (j *ExecutionJournal) RegisterExecution(execID string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.seen[execID]; ok {
		return false
	}
	j.seen[execID] = struct{}{}
	return true
}

// ClearOldExecutions drops the entire dedup set once it grows past
// executionJournalClearThreshold entries. This trades a theoretical
// reappearance of a very old execution ID for bounded memory use.
func (j *ExecutionJournal) ClearOldExecutions() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.seen) > executionJournalClearThreshold {
		j.seen = make(map[string]struct{})
	}
}

// ExecutionCount returns the number of execution IDs currently tracked.
func (j *ExecutionJournal) ExecutionCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.seen)
}
