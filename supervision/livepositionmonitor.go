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
	"sync"
	"time"
)

// PositionQuerier fetches the broker's current view of a position.
type PositionQuerier func(symbol string) (BrokerPosition, error)

// LivePositionMonitor periodically polls the broker's reported position
// for a symbol and compares it against the engine's local view, raising
// a mismatch flag the supervisor can use to halt trading rather than
// keep routing orders against a position the engine has lost track of.
type LivePositionMonitor struct {
	query    PositionQuerier
	interval time.Duration

	mu        sync.Mutex
	local     PositionSnapshot
	mismatch  bool
	lastErr   error
	lastCheck time.Time
}

// NewLivePositionMonitor creates a monitor polling query every interval.
func NewLivePositionMonitor(query PositionQuerier, interval time.Duration) *LivePositionMonitor {
	return &LivePositionMonitor{query: query, interval: interval}
}

// UpdateLocal replaces the engine's locally tracked position, normally
// called after every fill.
func (m *LivePositionMonitor) UpdateLocal(snap PositionSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.local = snap
}

// Verify queries the broker once and updates the mismatch flag. It
// returns the fresh mismatch state and any query error.
func (m *LivePositionMonitor) Verify() (mismatch bool, err error) {
	m.mu.Lock()
	local := m.local
	m.mu.Unlock()

	broker, err := m.query(local.Symbol)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCheck = time.Now()
	if err != nil {
		m.lastErr = err
		return m.mismatch, err
	}
	m.lastErr = nil
	m.mismatch = !VerifyAgainstBroker(local, broker)
	return m.mismatch, nil
}

// Run blocks, polling Verify on interval until stop is closed.
func (m *LivePositionMonitor) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.Verify()
		}
	}
}

// Mismatched reports the last-computed mismatch state without polling.
func (m *LivePositionMonitor) Mismatched() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mismatch
}

// LastError returns the error from the most recent broker query, if any.
func (m *LivePositionMonitor) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}
