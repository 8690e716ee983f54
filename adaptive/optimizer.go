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

package adaptive

import (
	"context"
	"time"
)

const (
	tuningInterval     = 30 * time.Second
	qualityThrottleMin = 0.6
	tuningStep         = 0.05
)

// PerformanceSource supplies a rolling Sharpe-like score per engine.
type PerformanceSource interface {
	ComputeSharpe(engine string) float64
}

// QualitySource supplies the running execution quality EMA, normally
// latency.Engine.QualityEMA.
type QualitySource interface {
	QualityEMA() float64
}

// Optimizer retunes Params on a fixed interval from each engine's rolling
// Sharpe and the execution layer's quality EMA. Each tuning round nudges
// the engine thresholds by a fixed step and scales the spread/vol limits
// by a fixed factor, all bounded by the package's hard-coded safety limits;
// the capital bias is set outright to 1.2, 0.8 or 1.0.
type Optimizer struct {
	params  *Params
	perf    PerformanceSource
	quality QualitySource

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an Optimizer tuning params from perf and quality.
func New(params *Params, perf PerformanceSource, quality QualitySource) *Optimizer {
	return &Optimizer{params: params, perf: perf, quality: quality}
}

// Params returns the tunable set this optimizer adjusts.
func (o *Optimizer) Params() *Params { return o.params }

// Start launches the tuning loop in its own goroutine. Calling Start twice
// without an intervening Stop leaks the first loop's goroutine.
func (o *Optimizer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.done = make(chan struct{})
	go o.loop(ctx)
}

// Stop signals the tuning loop to exit and waits for it to do so.
func (o *Optimizer) Stop() {
	if o.cancel == nil {
		return
	}
	o.cancel()
	<-o.done
}

func (o *Optimizer) loop(ctx context.Context) {
	defer close(o.done)
	ticker := time.NewTicker(tuningInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.tuneOnce()
		}
	}
}

func (o *Optimizer) tuneOnce() {
	hftSharpe := o.perf.ComputeSharpe("hft")
	structSharpe := o.perf.ComputeSharpe("structure")

	o.tuneHFT(hftSharpe)
	o.tuneStructure(structSharpe)
	o.tightenRiskDuringDrawdown(hftSharpe, structSharpe)
	o.shiftCapitalBias(hftSharpe, structSharpe)
	o.applyQualityThrottle()
}

func (o *Optimizer) tuneHFT(sharpe float64) {
	current := o.params.hftSignalThreshold.Load()
	switch {
	case sharpe > 0.7:
		o.params.hftSignalThreshold.Store(maxF(minHFTThreshold, current-tuningStep))
	case sharpe < 0.4:
		o.params.hftSignalThreshold.Store(minF(maxHFTThreshold, current+tuningStep))
	}
}

func (o *Optimizer) tuneStructure(sharpe float64) {
	current := o.params.structureConfThreshold.Load()
	switch {
	case sharpe > 0.7:
		o.params.structureConfThreshold.Store(maxF(minStructThreshold, current-tuningStep))
	case sharpe < 0.4:
		o.params.structureConfThreshold.Store(minF(maxStructThreshold, current+tuningStep))
	}
}

func (o *Optimizer) tightenRiskDuringDrawdown(hftSharpe, structSharpe float64) {
	if hftSharpe >= 0.3 || structSharpe >= 0.3 {
		return
	}
	spread := o.params.spreadLimit.Load() * 0.95
	vol := o.params.volLimit.Load() * 0.9
	o.params.spreadLimit.Store(clampF(spread, minSpread, maxSpread))
	o.params.volLimit.Store(clampF(vol, minVol, maxVol))
}

func (o *Optimizer) shiftCapitalBias(hftSharpe, structSharpe float64) {
	switch {
	case hftSharpe > structSharpe+0.2:
		o.params.capitalBias.Store(1.2)
	case structSharpe > hftSharpe+0.2:
		o.params.capitalBias.Store(0.8)
	default:
		o.params.capitalBias.Store(1.0)
	}
}

func (o *Optimizer) applyQualityThrottle() {
	if o.quality == nil || o.quality.QualityEMA() >= qualityThrottleMin {
		return
	}
	hft := o.params.hftSignalThreshold.Load()
	structConf := o.params.structureConfThreshold.Load()
	o.params.hftSignalThreshold.Store(minF(maxHFTThreshold, hft+tuningStep))
	o.params.structureConfThreshold.Store(minF(maxStructThreshold, structConf+tuningStep))
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
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
