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
	"math"
	"os"
	"strconv"
	"strings"
)

// PositionSnapshot is the last-known position the engine held before an
// unclean shutdown, persisted so a restart can reconcile against the
// broker instead of assuming flat.
type PositionSnapshot struct {
	Symbol    string
	Direction int
	Size      float64
	AvgPrice  float64
	DailyPnL  float64
}

// PositionPersistence saves and restores a PositionSnapshot as
// position_snapshot.dat: a single newline-separated text record of
// (symbol, direction, size, avg_price, daily_pnl).
type PositionPersistence struct {
	path string
}

// NewPositionPersistence creates a PositionPersistence backed by path.
func NewPositionPersistence(path string) *PositionPersistence {
	return &PositionPersistence{path: path}
}

// Save rewrites the snapshot file in full, via a temp file plus rename so
// a crash mid-write never leaves a half-written file behind.
func (p *PositionPersistence) Save(snap PositionSnapshot) error {
	line := fmt.Sprintf("%s\n%d\n%s\n%s\n%s\n",
		snap.Symbol,
		snap.Direction,
		strconv.FormatFloat(snap.Size, 'f', -1, 64),
		strconv.FormatFloat(snap.AvgPrice, 'f', -1, 64),
		strconv.FormatFloat(snap.DailyPnL, 'f', -1, 64),
	)
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(line), 0o644); err != nil {
		return fmt.Errorf("supervision: write position snapshot: %w", err)
	}
	return os.Rename(tmp, p.path)
}

// Load reads the snapshot file. ok is false (with a nil error) if no
// snapshot file exists yet, or if it exists but is empty - a fresh
// install, not a corruption.
func (p *PositionPersistence) Load() (snap PositionSnapshot, ok bool, err error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return PositionSnapshot{}, false, nil
	}
	if err != nil {
		return PositionSnapshot{}, false, fmt.Errorf("supervision: read position snapshot: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return PositionSnapshot{}, false, nil
	}

	fields := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(fields) != 5 {
		return PositionSnapshot{}, false, fmt.Errorf("supervision: corrupt position snapshot: expected 5 fields, got %d", len(fields))
	}

	direction, err := strconv.Atoi(fields[1])
	if err != nil {
		return PositionSnapshot{}, false, fmt.Errorf("supervision: corrupt position snapshot: direction: %w", err)
	}
	size, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return PositionSnapshot{}, false, fmt.Errorf("supervision: corrupt position snapshot: size: %w", err)
	}
	avgPrice, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return PositionSnapshot{}, false, fmt.Errorf("supervision: corrupt position snapshot: avg_price: %w", err)
	}
	dailyPnL, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return PositionSnapshot{}, false, fmt.Errorf("supervision: corrupt position snapshot: daily_pnl: %w", err)
	}

	return PositionSnapshot{
		Symbol:    fields[0],
		Direction: direction,
		Size:      size,
		AvgPrice:  avgPrice,
		DailyPnL:  dailyPnL,
	}, true, nil
}

// Clear truncates the snapshot file, normally after a confirmed flat
// reconciliation with the broker.
func (p *PositionPersistence) Clear() error {
	return os.WriteFile(p.path, nil, 0o644)
}

// BrokerPosition is the broker's own view of an open position, queried on
// startup to reconcile against a restored PositionSnapshot.
type BrokerPosition struct {
	Symbol    string
	Direction int
	Size      float64
}

// VerifyAgainstBroker reports whether a restored local snapshot matches
// the broker's reported position within a small size tolerance. An empty
// broker symbol means the broker reports no open position, which only
// matches a zero-size local snapshot.
func VerifyAgainstBroker(local PositionSnapshot, broker BrokerPosition) bool {
	if broker.Symbol == "" {
		return local.Size == 0
	}
	if local.Symbol != broker.Symbol || local.Direction != broker.Direction {
		return false
	}
	return math.Abs(local.Size-broker.Size) <= 0.0001
}
