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

// Package risk implements the governor and its supporting monitors: loss
// clustering, rolling statistical degradation, and capital anomaly
// detection, each kept as its own small component rather than folded into
// one god-struct.
package risk

import (
	"sync"
	"time"
)

const (
	lossClusterThreshold = 5
	lossClusterCooldown  = 60 * time.Second
)

// LossClusterMonitor latches a cooldown after a run of consecutive losses,
// resetting the streak on any win.
type LossClusterMonitor struct {
	mu           sync.Mutex
	consecutive  int
	cooldownUntil time.Time
}

// NewLossClusterMonitor creates a monitor with the streak reset.
func NewLossClusterMonitor() *LossClusterMonitor {
	return &LossClusterMonitor{}
}

// RecordTrade folds a win/loss outcome into the streak counter, arming the
// cooldown once the streak reaches the threshold.
func (m *LossClusterMonitor) RecordTrade(win bool, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if win {
		m.consecutive = 0
		return
	}
	m.consecutive++
	if m.consecutive >= lossClusterThreshold {
		m.cooldownUntil = now.Add(lossClusterCooldown)
	}
}

// IsCooldownActive reports whether the monitor is currently in cooldown.
func (m *LossClusterMonitor) IsCooldownActive(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return now.Before(m.cooldownUntil)
}

// ResetCooldown clears the cooldown and streak, for operator intervention.
func (m *LossClusterMonitor) ResetCooldown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consecutive = 0
	m.cooldownUntil = time.Time{}
}
