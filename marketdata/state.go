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

// Package marketdata holds the per-symbol hot-path market state: a seqlocked
// top-of-book snapshot plus the rolling tick windows the indicator pipeline
// reads from. One writer (the FIX session's market-data callback) updates
// State; many readers (engines, risk, telemetry) read it without blocking
// the writer.
package marketdata

import (
	"sync/atomic"
	"time"
)

// Snapshot is a coherent, by-value read of a symbol's top-of-book state.
type Snapshot struct {
	Symbol    string
	Bid       float64
	Ask       float64
	Mid       float64
	LastTrade float64
	LastSize  float64
	UpdatedAt time.Time
	SeqNum    uint64
}

// State is a seqlock-guarded top-of-book for one symbol. Writers bump the
// sequence counter to odd before mutating and back to even after; readers
// retry if they observe an odd sequence or the sequence changes mid-read.
// This keeps the hot write path allocation-free and lock-free, trading a
// rare reader retry for never blocking the writer goroutine.
type State struct {
	seq atomic.Uint64

	symbol    string
	bid       float64
	ask       float64
	lastTrade float64
	lastSize  float64
	updatedAt time.Time
}

// NewState creates a State for symbol.
func NewState(symbol string) *State {
	return &State{symbol: symbol}
}

// UpdateBook applies a new top-of-book bid/ask.
func (s *State) UpdateBook(bid, ask float64, at time.Time) {
	s.seq.Add(1) // now odd: writer in progress
	s.bid = bid
	s.ask = ask
	s.updatedAt = at
	s.seq.Add(1) // now even: write complete
}

// UpdateTrade applies a new last-trade print.
func (s *State) UpdateTrade(px, size float64, at time.Time) {
	s.seq.Add(1)
	s.lastTrade = px
	s.lastSize = size
	s.updatedAt = at
	s.seq.Add(1)
}

// Read performs a coherent read of the current state, retrying if a writer
// was in progress during the read.
func (s *State) Read() Snapshot {
	for {
		seq0 := s.seq.Load()
		if seq0&1 == 1 {
			continue
		}
		snap := Snapshot{
			Symbol:    s.symbol,
			Bid:       s.bid,
			Ask:       s.ask,
			LastTrade: s.lastTrade,
			LastSize:  s.lastSize,
			UpdatedAt: s.updatedAt,
			SeqNum:    seq0,
		}
		if s.seq.Load() != seq0 {
			continue
		}
		if snap.Bid > 0 && snap.Ask > 0 {
			snap.Mid = (snap.Bid + snap.Ask) / 2
		}
		return snap
	}
}

// IsStale reports whether the last update is older than maxAge - the basis
// for the tick-validity guard in the indicator pipeline.
func (s Snapshot) IsStale(now time.Time, maxAge time.Duration) bool {
	if s.UpdatedAt.IsZero() {
		return true
	}
	return now.Sub(s.UpdatedAt) > maxAge
}

// IsJump reports whether candidate mid deviates from the current mid by more
// than maxBps basis points, the guard against a single erroneous print
// corrupting downstream indicators.
func (s Snapshot) IsJump(candidateMid float64, maxBps float64) bool {
	if s.Mid <= 0 {
		return false
	}
	deltaBps := (candidateMid - s.Mid) / s.Mid * 10000
	if deltaBps < 0 {
		deltaBps = -deltaBps
	}
	return deltaBps > maxBps
}
