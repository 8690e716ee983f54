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

package engines

import "time"

// HFTThresholds bundles the per-symbol calibration of the three independent
// conditions the HFT engine requires to fire together: a liquidity sweep on
// one side of the book, a price pullback confirming the sweep wasn't just
// noise, and a tight enough spread that crossing it is worth paying for.
type HFTThresholds struct {
	SweepRatio    float64 // how many times the departing side's size thinned
	PullbackRatio float64 // fraction of the sweep's price move already reverted
	MaxSpread     float64 // price units; wider than this and the engine stands down
}

// DefaultHFTThresholds returns the calibration for a symbol. XAG trades a
// materially thinner book than XAU, so all three conditions are scaled down
// proportionally rather than carrying XAU's absolute levels.
func DefaultHFTThresholds(symbol string) HFTThresholds {
	switch symbol {
	case "XAGUSD":
		return HFTThresholds{SweepRatio: 1.0, PullbackRatio: 0.25, MaxSpread: 0.35}
	default: // XAUUSD and any other precious-metals symbol
		return HFTThresholds{SweepRatio: 1.2, PullbackRatio: 0.3, MaxSpread: 0.5}
	}
}

// HFTEngine is a fast, threshold-driven scalper: it fires on a liquidity
// sweep followed by a confirming pullback, with no multi-bar state machine,
// trading off selectivity for reaction speed. The allocator's dominant-engine
// arbitration decides whether a concurrent Structure intent on the same
// symbol takes precedence.
type HFTEngine struct {
	Symbol     string
	Thresholds HFTThresholds

	minReentryGap time.Duration
	lastFireAt    time.Time

	haveObservation          bool
	prevBidSize, prevAskSize float64
	prevMid                  float64

	sweepSide       Side
	sweepOriginMid  float64
	sweepExtremeMid float64
	sweepActive     bool
}

// NewHFTEngine creates an engine for symbol using its default thresholds.
func NewHFTEngine(symbol string) *HFTEngine {
	return &HFTEngine{Symbol: symbol, Thresholds: DefaultHFTThresholds(symbol), minReentryGap: 500 * time.Millisecond}
}

// OnBookUpdate folds one top-of-book update into the sweep/pullback tracker.
// Call this on every tick, independent of whether Evaluate is also called -
// the pullback signal needs the tick immediately after a sweep to measure
// the reversion against.
func (e *HFTEngine) OnBookUpdate(bidSize, askSize, mid float64) {
	if !e.haveObservation {
		e.prevBidSize, e.prevAskSize = bidSize, askSize
		e.prevMid = mid
		e.haveObservation = true
		return
	}

	bidSweep := sweepRatio(e.prevBidSize, bidSize)
	askSweep := sweepRatio(e.prevAskSize, askSize)

	switch {
	case bidSweep >= e.Thresholds.SweepRatio && bidSweep >= askSweep:
		// The bid thinned sharply: resting buyers got swept, so price
		// pressure favors the sell side continuing to push mid down. The
		// sweep's move is measured from the tick before the sweep, since
		// the sweep tick itself already carries the initial drop.
		e.sweepActive = true
		e.sweepSide = SideSell
		e.sweepOriginMid = e.prevMid
		e.sweepExtremeMid = mid
	case askSweep >= e.Thresholds.SweepRatio && askSweep > bidSweep:
		e.sweepActive = true
		e.sweepSide = SideBuy
		e.sweepOriginMid = e.prevMid
		e.sweepExtremeMid = mid
	case e.sweepActive:
		if e.sweepSide == SideSell {
			if mid < e.sweepExtremeMid {
				e.sweepExtremeMid = mid
			}
		} else {
			if mid > e.sweepExtremeMid {
				e.sweepExtremeMid = mid
			}
		}
	}

	e.prevBidSize, e.prevAskSize = bidSize, askSize
	e.prevMid = mid
}

// sweepRatio reports how many times size thinned from prev to cur, or 0 if
// size held steady or grew.
func sweepRatio(prev, cur float64) float64 {
	if prev <= 0 || cur <= 0 || cur >= prev {
		return 0
	}
	return prev / cur
}

// Evaluate fires an intent once a tracked sweep's pullback and the current
// spread both clear their thresholds. All three conditions - sweep,
// pullback, spread - must hold simultaneously; any one missing stands the
// engine down for this tick.
func (e *HFTEngine) Evaluate(mid, spread float64, now time.Time) (EngineIntent, bool) {
	if !e.sweepActive {
		return EngineIntent{}, false
	}
	if now.Sub(e.lastFireAt) < e.minReentryGap {
		return EngineIntent{}, false
	}
	if spread > e.Thresholds.MaxSpread {
		return EngineIntent{}, false
	}

	// totalMove and reverted are both expressed as positive-when-expected
	// magnitudes: a sell-side sweep (bid thinned) should push mid down, so
	// its move is origin-minus-extreme; a buy-side sweep's move is the
	// mirror image.
	totalMove := e.sweepExtremeMid - e.sweepOriginMid
	if e.sweepSide == SideSell {
		totalMove = -totalMove
	}
	if totalMove <= 0 {
		return EngineIntent{}, false
	}

	reverted := mid - e.sweepExtremeMid
	if e.sweepSide == SideBuy {
		reverted = -reverted
	}
	pullback := reverted / totalMove
	if pullback < e.Thresholds.PullbackRatio {
		return EngineIntent{}, false
	}

	// The sweep thinned one side of the book; the engine trades the
	// opposite direction of the side that got swept, following the
	// confirmed pullback back toward fair value.
	side := SideBuy
	if e.sweepSide == SideBuy {
		side = SideSell
	}

	e.lastFireAt = now
	e.sweepActive = false

	confidence := pullback
	if confidence > 1 {
		confidence = 1
	}
	return EngineIntent{
		Symbol: e.Symbol, Side: side, Confidence: confidence, SizeHint: 1,
		Reason: "sweep_pullback_confirmed", Engine: "hft", At: now,
	}, true
}
