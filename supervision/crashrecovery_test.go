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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStartupRecover_NoSnapshotFileReturnsEmptyNonPending(t *testing.T) {
	p := NewPositionPersistence(filepath.Join(t.TempDir(), "pos.dat"))
	rec, err := StartupRecover(p, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.PendingReconciliation {
		t.Fatal("expected a fresh install to not be pending reconciliation")
	}
}

func TestStartupRecover_ValidSnapshotIsPendingReconciliation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.dat")
	p := NewPositionPersistence(path)
	want := PositionSnapshot{Symbol: "XAUUSD", Direction: 1, Size: 1.5}
	if err := p.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, err := StartupRecover(p, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.PendingReconciliation {
		t.Fatal("expected a valid restored snapshot to be pending reconciliation")
	}
	if rec.Snapshot != want {
		t.Fatalf("got %+v, want %+v", rec.Snapshot, want)
	}
}

func TestStartupRecover_CorruptSnapshotContinueOptionReturnsFlat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.dat")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	p := NewPositionPersistence(path)

	rec, err := StartupRecover(p, strings.NewReader("C\n"), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.PendingReconciliation {
		t.Fatal("expected continuing flat to not be pending reconciliation")
	}
}

func TestStartupRecover_CorruptSnapshotAbortOptionReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.dat")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	p := NewPositionPersistence(path)

	_, err := StartupRecover(p, strings.NewReader("Q\n"), &bytes.Buffer{})
	if err != ErrOperatorAborted {
		t.Fatalf("expected ErrOperatorAborted, got %v", err)
	}
}

func TestStartupRecover_CorruptSnapshotIgnoresInvalidInputUntilValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.dat")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	p := NewPositionPersistence(path)

	rec, err := StartupRecover(p, strings.NewReader("garbage\nwhat\nC\n"), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.PendingReconciliation {
		t.Fatal("expected the eventual C response to resolve to continuing flat")
	}
}
