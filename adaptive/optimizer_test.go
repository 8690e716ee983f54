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

import "testing"

type fixedPerf struct {
	hft, structure float64
}

func (f fixedPerf) ComputeSharpe(engine string) float64 {
	if engine == "hft" {
		return f.hft
	}
	return f.structure
}

type fixedQuality float64

func (f fixedQuality) QualityEMA() float64 { return float64(f) }

func TestOptimizer_GoodSharpeLowersThresholds(t *testing.T) {
	params := NewParams()
	o := New(params, fixedPerf{hft: 0.8, structure: 0.8}, fixedQuality(1.0))
	o.tuneOnce()

	if got := params.HFTSignalThreshold(); got >= 0.6 {
		t.Fatalf("expected HFT threshold to lower from good sharpe, got %v", got)
	}
	if got := params.StructureConfThreshold(); got >= 0.7 {
		t.Fatalf("expected structure threshold to lower from good sharpe, got %v", got)
	}
}

func TestOptimizer_PoorSharpeRaisesThresholds(t *testing.T) {
	params := NewParams()
	o := New(params, fixedPerf{hft: 0.1, structure: 0.1}, fixedQuality(1.0))
	o.tuneOnce()

	if got := params.HFTSignalThreshold(); got <= 0.6 {
		t.Fatalf("expected HFT threshold to raise from poor sharpe, got %v", got)
	}
	if got := params.StructureConfThreshold(); got <= 0.7 {
		t.Fatalf("expected structure threshold to raise from poor sharpe, got %v", got)
	}
}

func TestOptimizer_DrawdownTightensRiskLimits(t *testing.T) {
	params := NewParams()
	o := New(params, fixedPerf{hft: 0.1, structure: 0.1}, fixedQuality(1.0))
	before := params.SpreadLimit()
	o.tuneOnce()
	if params.SpreadLimit() >= before {
		t.Fatalf("expected spread limit to tighten under dual drawdown, got %v >= %v", params.SpreadLimit(), before)
	}
}

func TestOptimizer_ThresholdsNeverExceedBounds(t *testing.T) {
	params := NewParams()
	o := New(params, fixedPerf{hft: 0.1, structure: 0.1}, fixedQuality(1.0))
	for i := 0; i < 100; i++ {
		o.tuneOnce()
	}
	if got := params.HFTSignalThreshold(); got > maxHFTThreshold {
		t.Fatalf("expected HFT threshold bounded at %v, got %v", maxHFTThreshold, got)
	}
	if got := params.StructureConfThreshold(); got > maxStructThreshold {
		t.Fatalf("expected structure threshold bounded at %v, got %v", maxStructThreshold, got)
	}
}

func TestOptimizer_CapitalBiasShiftsTowardStrongerEngine(t *testing.T) {
	params := NewParams()
	o := New(params, fixedPerf{hft: 1.0, structure: 0.5}, fixedQuality(1.0))
	o.tuneOnce()
	if got := params.CapitalBias(); got != 1.2 {
		t.Fatalf("expected capital bias toward HFT, got %v", got)
	}
}

func TestOptimizer_QualityThrottleTightensThresholdsOnPoorExecution(t *testing.T) {
	params := NewParams()
	o := New(params, fixedPerf{hft: 0.5, structure: 0.5}, fixedQuality(0.2))
	o.tuneOnce()
	if got := params.HFTSignalThreshold(); got <= 0.6 {
		t.Fatalf("expected quality throttle to raise HFT threshold, got %v", got)
	}
}

func TestOptimizer_StartStopTerminatesCleanly(t *testing.T) {
	params := NewParams()
	o := New(params, fixedPerf{hft: 0.5, structure: 0.5}, fixedQuality(1.0))
	o.Start()
	o.Stop()
}
