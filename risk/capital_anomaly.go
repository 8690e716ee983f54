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

import "sync/atomic"

const hardLimitMultiplier = 1.05

// EmergencyShutdownFunc is invoked exactly once when the capital anomaly
// guard trips.
type EmergencyShutdownFunc func(observedExposure, hardLimit float64)

// CapitalAnomalyGuard enforces an absolute hard ceiling on total exposure,
// independent of and in addition to the allocator's own per-symbol caps -
// a last-resort backstop against a bookkeeping bug letting exposure run
// past what any single cap should allow.
type CapitalAnomalyGuard struct {
	hardLimit float64
	shutdown  EmergencyShutdownFunc
	tripped   atomic.Bool
}

// NewCapitalAnomalyGuard creates a guard tripping at globalCap * 1.05.
func NewCapitalAnomalyGuard(globalCap float64, shutdown EmergencyShutdownFunc) *CapitalAnomalyGuard {
	return &CapitalAnomalyGuard{hardLimit: globalCap * hardLimitMultiplier, shutdown: shutdown}
}

// CheckAndEnforce compares observedExposure against the hard limit, firing
// the shutdown hook exactly once if it's exceeded.
func (g *CapitalAnomalyGuard) CheckAndEnforce(observedExposure float64) {
	if observedExposure <= g.hardLimit {
		return
	}
	if g.tripped.CompareAndSwap(false, true) {
		if g.shutdown != nil {
			g.shutdown(observedExposure, g.hardLimit)
		}
	}
}

// EmergencyActive reports whether the guard has tripped.
func (g *CapitalAnomalyGuard) EmergencyActive() bool {
	return g.tripped.Load()
}
