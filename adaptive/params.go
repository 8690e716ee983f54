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

// Package adaptive tunes the HFT/Structure engine thresholds and risk
// limits every 30 seconds from rolling per-engine Sharpe scores and
// execution quality, always within hard safety bounds so a bad tuning
// round can narrow behavior but never runs parameters away.
package adaptive

import (
	"math"
	"sync/atomic"
)

// Bounds on every tunable parameter - deliberately hard-coded, not
// configurable, so the optimizer itself cannot walk a parameter outside a
// safe range regardless of how the tuning math behaves.
const (
	minHFTThreshold    = 0.3
	maxHFTThreshold    = 0.9
	minStructThreshold = 0.4
	maxStructThreshold = 0.95
	minSpread          = 0.2
	maxSpread          = 1.2
	minVol             = 2.0
	maxVol             = 15.0
)

// atomicFloat64 stores a float64 behind an atomic.Uint64 bit pattern, so a
// single value can be read and written lock-free without a snapshot guard.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func newAtomicFloat64(v float64) atomicFloat64 {
	var a atomicFloat64
	a.Store(v)
	return a
}

func (a *atomicFloat64) Load() float64 {
	return math.Float64frombits(a.bits.Load())
}

func (a *atomicFloat64) Store(v float64) {
	a.bits.Store(math.Float64bits(v))
}

// Params holds the live-tunable thresholds the Optimizer adjusts, each
// independently atomic so readers never block on the optimizer's tuning
// pass. The values are exposed only through the getters below; the HFT and
// Structure engines and the risk governor do not read them.
type Params struct {
	hftSignalThreshold     atomicFloat64
	structureConfThreshold atomicFloat64
	spreadLimit            atomicFloat64
	volLimit               atomicFloat64
	capitalBias            atomicFloat64
}

// NewParams creates Params at the original engine's starting values.
func NewParams() *Params {
	return &Params{
		hftSignalThreshold:     newAtomicFloat64(0.6),
		structureConfThreshold: newAtomicFloat64(0.7),
		spreadLimit:            newAtomicFloat64(0.5),
		volLimit:               newAtomicFloat64(5.0),
		capitalBias:            newAtomicFloat64(1.0),
	}
}

func (p *Params) HFTSignalThreshold() float64     { return p.hftSignalThreshold.Load() }
func (p *Params) StructureConfThreshold() float64 { return p.structureConfThreshold.Load() }
func (p *Params) SpreadLimit() float64            { return p.spreadLimit.Load() }
func (p *Params) VolLimit() float64               { return p.volLimit.Load() }
func (p *Params) CapitalBias() float64            { return p.capitalBias.Load() }
