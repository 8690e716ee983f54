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
	"time"

	"github.com/Trendiisales/ChimeraMetals/allocator"
)

// Config bounds the governor's hard stops and adaptive scaling.
type Config struct {
	DailyDrawdownLimit      float64
	MaxConsecutiveLosses    int
	VolatilityKillThreshold float64
	MinRiskScaleFloor       float64
	MaxRiskScaleCeiling     float64
}

// DefaultConfig mirrors the original engine's tuned constants.
func DefaultConfig() Config {
	return Config{
		DailyDrawdownLimit:      500.0,
		MaxConsecutiveLosses:    4,
		VolatilityKillThreshold: 2.0,
		MinRiskScaleFloor:       0.2,
		MaxRiskScaleCeiling:     1.0,
	}
}

// GlobalMetrics is the desk-wide risk state the governor reacts to.
type GlobalMetrics struct {
	Equity             float64
	DailyPnL           float64
	UnrealizedPnL      float64
	ConsecutiveLosses  int
	VolatilityScore    float64 // normalized, 0-3+
}

// Governor is the final gate between an allocator's output and the
// execution layer: it enforces hard stops (daily drawdown, consecutive
// losses, a volatility kill switch) and otherwise scales intent size down
// adaptively as conditions degrade. It composes, rather than replaces, the
// narrower LossClusterMonitor, StatisticalMonitor and CapitalAnomalyGuard -
// those watch specific patterns; the governor owns the desk-wide picture
// and the final filter() decision.
type Governor struct {
	mu sync.Mutex

	cfg     Config
	metrics GlobalMetrics

	tradingHalted    bool
	volatilityLocked bool

	lossCluster    *LossClusterMonitor
	statistical    *StatisticalMonitor
	capitalAnomaly *CapitalAnomalyGuard
}

// NewGovernor composes a Governor with its three supporting monitors.
func NewGovernor(cfg Config, lossCluster *LossClusterMonitor, statistical *StatisticalMonitor, capitalAnomaly *CapitalAnomalyGuard) *Governor {
	return &Governor{cfg: cfg, lossCluster: lossCluster, statistical: statistical, capitalAnomaly: capitalAnomaly}
}

// UpdateMetrics folds a fresh desk-wide risk snapshot in, re-evaluating the
// volatility kill switch.
func (g *Governor) UpdateMetrics(m GlobalMetrics) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.metrics = m
	g.volatilityLocked = m.VolatilityScore > g.cfg.VolatilityKillThreshold
}

// Filter applies the hard stops and adaptive scaling to intent, returning
// the (possibly size-reduced) intent and whether it survives. Exit orders
// always pass through unfiltered - closing risk is never blocked. An
// already-latched CapitalAnomalyGuard blocks everything, including exits,
// since at that point the book's own accounting can no longer be trusted.
func (g *Governor) Filter(intent allocator.AllocatedIntent, isExit bool) (allocator.AllocatedIntent, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.capitalAnomaly != nil && g.capitalAnomaly.EmergencyActive() {
		return allocator.AllocatedIntent{}, false
	}

	if isExit {
		return intent, true
	}

	if g.tradingHalted || g.volatilityLocked {
		return allocator.AllocatedIntent{}, false
	}

	if g.lossCluster != nil && g.lossCluster.IsCooldownActive(time.Now()) {
		return allocator.AllocatedIntent{}, false
	}

	if g.metrics.DailyPnL <= -g.cfg.DailyDrawdownLimit {
		g.tradingHalted = true
		return allocator.AllocatedIntent{}, false
	}

	if g.metrics.ConsecutiveLosses >= g.cfg.MaxConsecutiveLosses {
		return allocator.AllocatedIntent{}, false
	}

	scale := g.riskScaleFactorLocked()
	if g.statistical != nil {
		scale *= g.statistical.GetRecommendedSizeMultiplier()
	}

	adjusted := intent
	adjusted.Size *= scale
	if adjusted.Size <= 0 {
		return allocator.AllocatedIntent{}, false
	}
	return adjusted, true
}

// IsTradingHalted reports whether the daily drawdown hard stop has tripped.
func (g *Governor) IsTradingHalted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tradingHalted
}

// IsVolatilityLocked reports whether the volatility kill switch is engaged.
func (g *Governor) IsVolatilityLocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.volatilityLocked
}

// CurrentRiskScale returns the scaling factor that would apply to a new
// intent right now, absent the statistical monitor's multiplier.
func (g *Governor) CurrentRiskScale() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.riskScaleFactorLocked()
}

// ResetDailyState clears the hard-stop and volatility latches at the start
// of a new trading day. Consecutive-loss and drawdown figures themselves
// come from the next UpdateMetrics call, not from this reset.
func (g *Governor) ResetDailyState() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tradingHalted = false
	g.volatilityLocked = false
}

func (g *Governor) riskScaleFactorLocked() float64 {
	drawdownScale := 1.0
	if g.cfg.DailyDrawdownLimit > 0 {
		ratio := clampF(math.Abs(g.metrics.DailyPnL)/g.cfg.DailyDrawdownLimit, 0, 1)
		drawdownScale = 1.0 - ratio
	}

	volatilityScale := 1.0
	if g.metrics.VolatilityScore > 1.0 {
		volatilityScale = 1.0 / g.metrics.VolatilityScore
	}

	lossScale := 1.0
	if g.metrics.ConsecutiveLosses > 0 {
		penalty := math.Min(float64(g.metrics.ConsecutiveLosses)*0.15, 0.6)
		lossScale = 1.0 - penalty
	}

	combined := drawdownScale * volatilityScale * lossScale
	return clampF(combined, g.cfg.MinRiskScaleFloor, g.cfg.MaxRiskScaleCeiling)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
