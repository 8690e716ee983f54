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

// Package allocator turns per-engine trade intents into capital-bounded
// allocated intents, arbitrating between the Structure and HFT engines when
// both want the same symbol and enforcing per-symbol exposure caps.
package allocator

import (
	"sync"

	"github.com/Trendiisales/ChimeraMetals/engines"
)

// Config bounds the allocator's exposure and capital-share behavior.
type Config struct {
	MaxXAUExposure float64
	MaxXAGExposure float64

	StructureMinConfidence float64
	StructureCapitalBase   float64
	StructureCapitalBoost  float64

	HFTCapitalBase    float64
	HFTCapitalPenalty float64
}

// DefaultConfig mirrors the original engine's tuned constants.
func DefaultConfig() Config {
	return Config{
		MaxXAUExposure:         5.0,
		MaxXAGExposure:         3.0,
		StructureMinConfidence: 0.6,
		StructureCapitalBase:   0.4,
		StructureCapitalBoost:  0.5,
		HFTCapitalBase:         0.8,
		HFTCapitalPenalty:      0.5,
	}
}

// PositionState is the allocator's view of one symbol's current exposure.
type PositionState struct {
	Symbol   string
	Exposure float64 // signed: positive long, negative short
}

// AllocatedIntent is what the allocator hands to the execution layer.
type AllocatedIntent struct {
	Symbol        string
	Side          engines.Side
	Size          float64
	DominantEngine string
}

// Allocator tracks exposure per symbol and arbitrates engine intents.
type Allocator struct {
	mu   sync.Mutex
	cfg  Config
	caps map[string]float64 // symbol -> max exposure
	pos  map[string]*PositionState

	corrupted bool
}

// New creates an Allocator with the given capital-share configuration.
func New(cfg Config) *Allocator {
	return &Allocator{
		cfg: cfg,
		caps: map[string]float64{
			"XAUUSD": cfg.MaxXAUExposure,
			"XAGUSD": cfg.MaxXAGExposure,
		},
		pos: make(map[string]*PositionState),
	}
}

func (a *Allocator) positionLocked(symbol string) *PositionState {
	p, ok := a.pos[symbol]
	if !ok {
		p = &PositionState{Symbol: symbol}
		a.pos[symbol] = p
	}
	return p
}

// Allocate converts intents from both engines for the same symbol into at
// most one AllocatedIntent. When both engines propose, the higher-confidence
// (or Structure, on a tie, since it requires the higher StructureMinConfidence
// bar to even propose) engine is dominant. A SideNone intent - an explicit
// flat/exit signal - is treated as a no-op here. The allocated size is
// share * cap * SizeHint, so an intent with SizeHint 0 (such as the
// Structure engine's exit intent) also allocates nothing and returns false.
func (a *Allocator) Allocate(symbol string, structureIntent, hftIntent *engines.EngineIntent) (AllocatedIntent, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.corrupted {
		return AllocatedIntent{}, false
	}

	dominant := a.decideDominant(structureIntent, hftIntent)
	if dominant == nil || dominant.Side == engines.SideNone {
		return AllocatedIntent{}, false
	}

	share := a.capitalShare(dominant, structureIntent)
	cap := a.caps[symbol]
	pos := a.positionLocked(symbol)

	size := share * cap * dominant.SizeHint
	signedSize := size
	if dominant.Side == engines.SideSell {
		signedSize = -size
	}

	newExposure := pos.Exposure + signedSize
	if newExposure > cap {
		signedSize = cap - pos.Exposure
	} else if newExposure < -cap {
		signedSize = -cap - pos.Exposure
	}
	if signedSize == 0 {
		return AllocatedIntent{}, false
	}

	pos.Exposure += signedSize
	outSide := engines.SideBuy
	outSize := signedSize
	if signedSize < 0 {
		outSide = engines.SideSell
		outSize = -signedSize
	}

	return AllocatedIntent{
		Symbol: symbol, Side: outSide, Size: outSize, DominantEngine: dominant.Engine,
	}, true
}

func (a *Allocator) decideDominant(structureIntent, hftIntent *engines.EngineIntent) *engines.EngineIntent {
	structureEligible := structureIntent != nil && structureIntent.Confidence >= a.cfg.StructureMinConfidence
	switch {
	case structureEligible && hftIntent != nil:
		if structureIntent.Confidence >= hftIntent.Confidence {
			return structureIntent
		}
		return hftIntent
	case structureEligible:
		return structureIntent
	case hftIntent != nil:
		return hftIntent
	default:
		return nil
	}
}

// calculate_structure_capital_share clamps to [base, base+boost].
func (a *Allocator) calculateStructureCapitalShare(confidence float64) float64 {
	share := a.cfg.StructureCapitalBase + confidence*a.cfg.StructureCapitalBoost
	lo, hi := a.cfg.StructureCapitalBase, a.cfg.StructureCapitalBase+a.cfg.StructureCapitalBoost
	return clamp(share, lo, hi)
}

// calculate_hft_capital_share shrinks HFT's share as the *opposing*
// Structure engine's confidence grows, clamped to [0.2, hft_base].
// structureConfidence is 0 when Structure has no concurrent intent on this
// symbol at all.
func (a *Allocator) calculateHFTCapitalShare(structureConfidence float64) float64 {
	share := a.cfg.HFTCapitalBase - structureConfidence*a.cfg.HFTCapitalPenalty
	return clamp(share, 0.2, a.cfg.HFTCapitalBase)
}

// capitalShare computes the dominant intent's capital share. Structure's
// share depends only on its own confidence; HFT's share depends on the
// concurrent Structure intent's confidence (0 if Structure didn't propose),
// since HFT is the engine whose allocation shrinks when Structure is strong.
func (a *Allocator) capitalShare(dominant, structureIntent *engines.EngineIntent) float64 {
	if dominant.Engine == "structure" {
		return a.calculateStructureCapitalShare(dominant.Confidence)
	}
	structureConfidence := 0.0
	if structureIntent != nil {
		structureConfidence = structureIntent.Confidence
	}
	return a.calculateHFTCapitalShare(structureConfidence)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Exposure returns the current signed exposure for symbol.
func (a *Allocator) Exposure(symbol string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.positionLocked(symbol).Exposure
}

// TotalExposure sums the signed exposure across all tracked symbols, the
// figure the auditor compares against the externally observed global
// exposure.
func (a *Allocator) TotalExposure() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	var sum float64
	for _, p := range a.pos {
		sum += p.Exposure
	}
	return sum
}

// MarkCorrupted latches the allocator into a refuse-all-new-intents state.
// It mirrors the auditor's one-way corruption latch: only an operator
// calling ClearCorruption, after investigating, can undo it.
func (a *Allocator) MarkCorrupted() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.corrupted = true
}

// ClearCorruption undoes MarkCorrupted after manual investigation.
func (a *Allocator) ClearCorruption() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.corrupted = false
}

// Corrupted reports whether the allocator is currently latched.
func (a *Allocator) Corrupted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.corrupted
}
