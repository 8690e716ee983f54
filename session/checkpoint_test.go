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

package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeqCheckpoint_MissingFileIsNotAnError(t *testing.T) {
	_, ok, err := LoadSeqCheckpoint(filepath.Join(t.TempDir(), "nope_seq.dat"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing checkpoint file")
	}
}

func TestSeqCheckpoint_SaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote_seq.dat")
	want := SeqCheckpoint{OutSeq: 42, ExpectedIn: 17}

	if err := SaveSeqCheckpoint(path, want); err != nil {
		t.Fatalf("SaveSeqCheckpoint: %v", err)
	}
	got, ok, err := LoadSeqCheckpoint(path)
	if err != nil {
		t.Fatalf("LoadSeqCheckpoint: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true after a successful save")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadSeqCheckpoint_CorruptFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt_seq.dat")
	if err := os.WriteFile(path, []byte("not eight bytes"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, _, err := LoadSeqCheckpoint(path); err == nil {
		t.Fatal("expected an error for a corrupt checkpoint file")
	}
}

func TestMachine_CheckpointAndRestoreCheckpointRoundTrip(t *testing.T) {
	m := newTestMachine()
	m.outSeq = 9
	m.expectedIn = 4

	cp := m.Checkpoint()
	if cp.OutSeq != 9 || cp.ExpectedIn != 4 {
		t.Fatalf("unexpected checkpoint: %+v", cp)
	}

	m2 := newTestMachine()
	m2.RestoreCheckpoint(cp)
	if m2.outSeq != 9 || m2.expectedIn != 4 {
		t.Fatalf("restore did not apply: outSeq=%d expectedIn=%d", m2.outSeq, m2.expectedIn)
	}
}

func TestMachine_ResetOnReconnectClearsGapAndThrottleState(t *testing.T) {
	m := newTestMachine()
	if _, err := m.HandleInbound(logonMsg(1, true)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.HandleInbound(appMsg(5, false)); err != nil {
		t.Fatal(err)
	}
	if !m.resendActive {
		t.Fatal("setup: expected an outstanding gap before reset")
	}

	m.ResetOnReconnect()

	if m.resendActive {
		t.Fatal("expected resendActive cleared after ResetOnReconnect")
	}
	if m.gapLow != 0 || m.gapHigh != 0 {
		t.Fatalf("expected gap range cleared, got [%d,%d]", m.gapLow, m.gapHigh)
	}
	if !m.lastResendAt.IsZero() {
		t.Fatal("expected resend throttle timer cleared")
	}
	if m.status != StatusDisconnected {
		t.Fatalf("expected StatusDisconnected after reset, got %v", m.status)
	}
	// Sequence numbers are untouched by a reconnect reset - only an
	// accepted ResetSeqNumFlag Logon resets them.
	if m.expectedIn != 6 {
		t.Fatalf("expected expectedIn left at 6, got %d", m.expectedIn)
	}
}
