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
	"os"
	"path/filepath"
	"testing"
)

func TestPositionPersistence_LoadMissingFileIsNotAnError(t *testing.T) {
	p := NewPositionPersistence(filepath.Join(t.TempDir(), "nope.dat"))
	_, ok, err := p.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing snapshot file")
	}
}

func TestPositionPersistence_SaveThenLoadRoundTrips(t *testing.T) {
	p := NewPositionPersistence(filepath.Join(t.TempDir(), "pos.dat"))
	want := PositionSnapshot{Symbol: "XAUUSD", Direction: 1, Size: 2.5, AvgPrice: 1950.25, DailyPnL: -12.5}

	if err := p.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := p.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true after a successful save")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPositionPersistence_LoadCorruptFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	if err := os.WriteFile(path, []byte("not a snapshot\njust one line"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	p := NewPositionPersistence(path)
	_, _, err := p.Load()
	if err == nil {
		t.Fatal("expected an error loading a corrupt snapshot file")
	}
}

func TestPositionPersistence_ClearThenLoadIsTreatedAsAFreshInstall(t *testing.T) {
	p := NewPositionPersistence(filepath.Join(t.TempDir(), "pos.dat"))
	if err := p.Save(PositionSnapshot{Symbol: "XAUUSD", Size: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := p.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	_, ok, err := p.Load()
	if err != nil {
		t.Fatalf("expected an empty (cleared) file to load as absent, not corrupt: %v", err)
	}
	if ok {
		t.Fatal("expected a cleared snapshot file to report ok=false")
	}
}

func TestVerifyAgainstBroker_MatchesWithinTolerance(t *testing.T) {
	local := PositionSnapshot{Symbol: "XAUUSD", Direction: 1, Size: 2.50005}
	broker := BrokerPosition{Symbol: "XAUUSD", Direction: 1, Size: 2.5}
	if !VerifyAgainstBroker(local, broker) {
		t.Fatal("expected sizes within tolerance to verify")
	}
}

func TestVerifyAgainstBroker_RejectsDirectionMismatch(t *testing.T) {
	local := PositionSnapshot{Symbol: "XAUUSD", Direction: 1, Size: 2.5}
	broker := BrokerPosition{Symbol: "XAUUSD", Direction: -1, Size: 2.5}
	if VerifyAgainstBroker(local, broker) {
		t.Fatal("expected direction mismatch to fail verification")
	}
}

func TestVerifyAgainstBroker_EmptyBrokerSymbolRequiresFlatLocal(t *testing.T) {
	if !VerifyAgainstBroker(PositionSnapshot{Size: 0}, BrokerPosition{}) {
		t.Fatal("expected a flat local snapshot to verify against no broker position")
	}
	if VerifyAgainstBroker(PositionSnapshot{Symbol: "XAUUSD", Size: 1}, BrokerPosition{}) {
		t.Fatal("expected a non-flat local snapshot to fail verification against no broker position")
	}
}
