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
	"testing"
)

func TestExecutionJournal_FirstRegistrationIsNotADuplicate(t *testing.T) {
	j := NewExecutionJournal()
	if !j.RegisterExecution("exec-1") {
		t.Fatal("expected the first registration of an ID to return true")
	}
}

func TestExecutionJournal_SecondRegistrationIsADuplicate(t *testing.T) {
	j := NewExecutionJournal()
	j.RegisterExecution("exec-1")
	if j.RegisterExecution("exec-1") {
		t.Fatal("expected a repeated ID to return false")
	}
}

func TestExecutionJournal_ExecutionCountTracksUniqueIDs(t *testing.T) {
	j := NewExecutionJournal()
	j.RegisterExecution("a")
	j.RegisterExecution("b")
	j.RegisterExecution("a")
	if got := j.ExecutionCount(); got != 2 {
		t.Fatalf("expected 2 unique executions, got %d", got)
	}
}

func TestExecutionJournal_ClearOldExecutionsBelowThresholdIsNoop(t *testing.T) {
	j := NewExecutionJournal()
	j.RegisterExecution("a")
	j.ClearOldExecutions()
	if j.ExecutionCount() != 1 {
		t.Fatal("expected ClearOldExecutions to leave a small set untouched")
	}
}

func TestExecutionJournal_ClearOldExecutionsAboveThresholdWipesSet(t *testing.T) {
	j := NewExecutionJournal()
	for i := 0; i < executionJournalClearThreshold+1; i++ {
		j.RegisterExecution(fmt.Sprintf("exec-%d", i))
	}
	j.ClearOldExecutions()
	if j.ExecutionCount() != 0 {
		t.Fatalf("expected the dedup set to be wiped, got %d entries", j.ExecutionCount())
	}
}
