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

// Package telemetry publishes a single desk-wide snapshot that a dashboard
// or CLI can poll at any rate without coordinating with the writer.
package telemetry

import (
	"sync"
	"time"
)

// Snapshot is the full desk-wide picture published on every update: per-
// engine exposure and score, execution quality, adaptive thresholds, and
// the lockdown/trade-count bookkeeping an operator dashboard needs.
type Snapshot struct {
	GlobalExposure     float64
	HFTExposure        float64
	StructureExposure  float64
	DailyPnL           float64
	LatencyEMA         float64
	SlippageEMA        float64
	HFTScore           float64
	StructureScore     float64
	HFTThreshold       float64
	StructureThreshold float64
	SpreadLimit        float64
	VolLimit           float64
	LockdownMode       bool
	Timestamp          time.Time
	TotalTrades        int
}

// Publisher is a mutex-guarded double buffer: one writer updates the whole
// snapshot atomically with respect to readers, any number of readers can
// read the latest complete snapshot without blocking the writer for long.
type Publisher struct {
	mu     sync.RWMutex
	buffer Snapshot
}

// NewPublisher creates an empty Publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Update replaces the published snapshot.
func (p *Publisher) Update(s Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffer = s
}

// Read returns a copy of the most recently published snapshot.
func (p *Publisher) Read() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buffer
}
