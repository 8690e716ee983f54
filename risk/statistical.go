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

package risk

import (
	"math"
	"sync"
)

const (
	statisticalWindowSize    = 100
	sharpeDegradationThresh  = -1.5
	minSamplesForSharpe      = 20
	minStddevForSharpe       = 0.001
)

// StatisticalMonitor tracks a rolling window of per-trade PnL and computes a
// rolling Sharpe ratio used to detect statistical degradation in live
// performance.
type StatisticalMonitor struct {
	mu      sync.Mutex
	samples []float64
	head    int
	full    bool

	peakEquity    float64
	equity        float64
	maxDrawdown   float64
}

// NewStatisticalMonitor creates a monitor with a fixed-size rolling window.
func NewStatisticalMonitor() *StatisticalMonitor {
	return &StatisticalMonitor{samples: make([]float64, statisticalWindowSize)}
}

// RecordPnL folds one trade's PnL into the rolling window and drawdown
// tracker.
func (m *StatisticalMonitor) RecordPnL(pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.samples[m.head] = pnl
	m.head = (m.head + 1) % statisticalWindowSize
	if m.head == 0 {
		m.full = true
	}

	m.equity += pnl
	if m.equity > m.peakEquity {
		m.peakEquity = m.equity
	}
	if dd := m.peakEquity - m.equity; dd > m.maxDrawdown {
		m.maxDrawdown = dd
	}
}

func (m *StatisticalMonitor) countLocked() int {
	if m.full {
		return statisticalWindowSize
	}
	return m.head
}

// GetRollingSharpe returns the rolling Sharpe ratio over the current
// window, or 0 if there are fewer than minSamplesForSharpe samples or the
// sample stddev is too small to be meaningful.
func (m *StatisticalMonitor) GetRollingSharpe() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.countLocked()
	if n < minSamplesForSharpe {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += m.samples[i]
	}
	mean := sum / float64(n)

	var variance float64
	for i := 0; i < n; i++ {
		d := m.samples[i] - mean
		variance += d * d
	}
	variance /= float64(n)
	stddev := math.Sqrt(variance)

	if stddev < minStddevForSharpe {
		return 0
	}
	return mean / stddev
}

// GetMaxDrawdown returns the largest peak-to-trough equity decline observed.
func (m *StatisticalMonitor) GetMaxDrawdown() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxDrawdown
}

// IsStatisticalDegradation reports whether the rolling Sharpe has fallen
// below the degradation threshold.
func (m *StatisticalMonitor) IsStatisticalDegradation() bool {
	return m.GetRollingSharpe() < sharpeDegradationThresh
}

// GetRecommendedSizeMultiplier halves recommended size under degradation.
func (m *StatisticalMonitor) GetRecommendedSizeMultiplier() float64 {
	if m.IsStatisticalDegradation() {
		return 0.5
	}
	return 1.0
}
