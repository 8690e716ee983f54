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

// Package engines implements the two signal-generating strategies that feed
// the capital allocator: the Structure engine (a slower, state-machine-driven
// strategy reacting to regime/microstructure shifts) and the HFT engine (a
// faster, threshold-driven scalper). Both emit EngineIntent values; neither
// engine knows about capital or risk - that's the allocator's job.
package engines

import "time"

// StructureState is the per-symbol lifecycle of the Structure engine.
type StructureState int

const (
	StateFlat StructureState = iota
	StateSetup
	StateEntered
	StateHold
	StateTrail
	StateCooldown
)

// Side is a trade direction.
type Side int

const (
	SideNone Side = iota
	SideBuy
	SideSell
)

// EngineIntent is what an engine proposes the allocator consider.
type EngineIntent struct {
	Symbol     string
	Side       Side
	Confidence float64
	SizeHint   float64
	Reason     string
	Engine     string
	At         time.Time
}

// StructureThresholds bundles the per-symbol tuning the original engine
// looks up by symbol (gold and silver carry different microstructure
// regimes and therefore different entry/exit thresholds). TrendEntry and
// OFIEntry are both normalized to [0,1]: a trend score derived from the
// fast/slow EMA spread, and an OFI-persistence ratio (the fraction of a
// recent OFI sample window whose sign agrees with the trend direction).
type StructureThresholds struct {
	TrendEntry      float64
	OFIEntry        float64
	MinStopBps      float64
	TrailTriggerBps float64
	MaxHoldMinutes  float64
	MaxSizeMult     float64
}

// DefaultThresholds returns the thresholds for a symbol, matching the
// distinct gold/silver tuning of the original strategy.
func DefaultThresholds(symbol string) StructureThresholds {
	switch symbol {
	case "XAGUSD":
		return StructureThresholds{
			TrendEntry: 0.70, OFIEntry: 0.65, MinStopBps: 7,
			TrailTriggerBps: 8, MaxHoldMinutes: 30, MaxSizeMult: 2.0,
		}
	default: // XAUUSD and any other precious-metals symbol
		return StructureThresholds{
			TrendEntry: 0.65, OFIEntry: 0.60, MinStopBps: 5,
			TrailTriggerBps: 6, MaxHoldMinutes: 45, MaxSizeMult: 3.0,
		}
	}
}

// structureCooldown is how long the engine refuses re-entry after any
// exit, regardless of symbol.
const structureCooldown = 60 * time.Second

// StructureEngine is a per-symbol state machine: FLAT -> SETUP -> ENTERED ->
// HOLD -> TRAIL -> COOLDOWN -> FLAT.
type StructureEngine struct {
	Symbol     string
	Thresholds StructureThresholds

	state       StructureState
	enteredAt   time.Time
	cooldownEnd time.Time
	entrySide   Side
	entryMid    float64
	trailingRef float64 // best mid seen since entering TRAIL, measured against the entry side
}

// NewStructureEngine creates an engine for symbol using its default
// thresholds.
func NewStructureEngine(symbol string) *StructureEngine {
	return &StructureEngine{Symbol: symbol, Thresholds: DefaultThresholds(symbol), state: StateFlat}
}

// State returns the engine's current lifecycle state.
func (e *StructureEngine) State() StructureState { return e.state }

// Evaluate advances the state machine given the latest trend score (fast/
// slow EMA spread, normalized to [0,1]), OFI persistence (the [0,1] fraction
// of a recent OFI sample window whose sign agrees with the trend direction),
// and mid price, returning an intent when action is warranted. trendScore's
// sign carries the candidate direction: positive favors BUY, negative SELL.
func (e *StructureEngine) Evaluate(trendScore, ofiPersistence, mid float64, now time.Time) (EngineIntent, bool) {
	switch e.state {
	case StateFlat:
		if absF(trendScore) >= e.Thresholds.TrendEntry && ofiPersistence >= e.Thresholds.OFIEntry {
			e.state = StateSetup
		}
		return EngineIntent{}, false

	case StateSetup:
		side := SideBuy
		if trendScore < 0 {
			side = SideSell
		}
		sizeMult := 1.0 + 1.5*absF(trendScore) + 1.0*ofiPersistence
		if sizeMult > e.Thresholds.MaxSizeMult {
			sizeMult = e.Thresholds.MaxSizeMult
		}
		e.state = StateEntered
		e.enteredAt = now
		e.entrySide = side
		e.entryMid = mid
		return EngineIntent{
			Symbol: e.Symbol, Side: side, Confidence: (absF(trendScore) + ofiPersistence) / 2.0,
			SizeHint: sizeMult, Reason: "structure_setup_confirmed",
			Engine: "structure", At: now,
		}, true

	case StateEntered:
		moveBps := e.signedMoveBps(mid)
		if moveBps <= -e.Thresholds.MinStopBps {
			return e.exit(now, "stop_hit")
		}
		if moveBps > e.Thresholds.TrailTriggerBps {
			e.state = StateHold
		}
		return EngineIntent{}, false

	case StateHold:
		moveBps := e.signedMoveBps(mid)
		if moveBps <= -e.Thresholds.MinStopBps {
			return e.exit(now, "stop_hit")
		}
		if moveBps > e.Thresholds.TrailTriggerBps {
			e.state = StateTrail
			e.trailingRef = mid
		}
		return EngineIntent{}, false

	case StateTrail:
		if e.entrySide == SideBuy {
			if mid > e.trailingRef {
				e.trailingRef = mid
			}
		} else {
			if e.trailingRef == 0 || mid < e.trailingRef {
				e.trailingRef = mid
			}
		}

		retraceBps := e.signedMoveBps(e.trailingRef) - e.signedMoveBps(mid)
		if retraceBps > e.Thresholds.TrailTriggerBps/2.0 {
			return e.exit(now, "trail_stop_hit")
		}
		if now.Sub(e.enteredAt) > time.Duration(e.Thresholds.MaxHoldMinutes*float64(time.Minute)) {
			return e.exit(now, "max_hold_exceeded")
		}
		return EngineIntent{}, false

	case StateCooldown:
		if now.After(e.cooldownEnd) {
			e.state = StateFlat
		}
		return EngineIntent{}, false
	}
	return EngineIntent{}, false
}

// signedMoveBps is the move from entry to px in basis points, signed so a
// positive value is always favorable to the held side.
func (e *StructureEngine) signedMoveBps(px float64) float64 {
	moveBps := bpsMove(e.entryMid, px)
	if e.entrySide == SideSell {
		moveBps = -moveBps
	}
	return moveBps
}

func (e *StructureEngine) exit(now time.Time, reason string) (EngineIntent, bool) {
	exitSide := SideSell
	if e.entrySide == SideSell {
		exitSide = SideBuy
	}
	e.state = StateCooldown
	e.cooldownEnd = now.Add(structureCooldown)
	e.trailingRef = 0
	return EngineIntent{
		Symbol: e.Symbol, Side: exitSide, Confidence: 1, SizeHint: 0,
		Reason: reason, Engine: "structure", At: now,
	}, true
}

func bpsMove(from, to float64) float64 {
	if from <= 0 {
		return 0
	}
	return (to - from) / from * 10000
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
