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

package marketdata

// MicrostructureAnalyzer derives order flow imbalance (OFI) from repeated
// top-of-book deltas, the way a repeated-quote-update feed carries more
// aggressor information than isolated trade prints alone.
type MicrostructureAnalyzer struct {
	prevBidPx, prevBidSz float64
	prevAskPx, prevAskSz float64
	haveObservation      bool

	ofiEMA   float64
	ofiAlpha float64
}

// NewMicrostructureAnalyzer creates an analyzer with the given OFI smoothing
// factor (0 < alpha <= 1; higher reacts faster).
func NewMicrostructureAnalyzer(alpha float64) *MicrostructureAnalyzer {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.2
	}
	return &MicrostructureAnalyzer{ofiAlpha: alpha}
}

// OnBookUpdate folds one top-of-book update into the OFI estimate and
// returns the instantaneous order flow imbalance for this update.
//
// The per-update OFI contribution follows the standard top-of-book formula:
// an unchanged or improved bid price/size contributes positively, an
// unchanged or improved ask contributes negatively, and a worse bid/ask
// contributes the opposite sign.
func (a *MicrostructureAnalyzer) OnBookUpdate(bidPx, bidSz, askPx, askSz float64) float64 {
	if !a.haveObservation {
		a.prevBidPx, a.prevBidSz = bidPx, bidSz
		a.prevAskPx, a.prevAskSz = askPx, askSz
		a.haveObservation = true
		return 0
	}

	var bidContribution float64
	switch {
	case bidPx > a.prevBidPx:
		bidContribution = bidSz
	case bidPx == a.prevBidPx:
		bidContribution = bidSz - a.prevBidSz
	default:
		bidContribution = -a.prevBidSz
	}

	var askContribution float64
	switch {
	case askPx < a.prevAskPx:
		askContribution = askSz
	case askPx == a.prevAskPx:
		askContribution = askSz - a.prevAskSz
	default:
		askContribution = -a.prevAskSz
	}

	ofi := bidContribution - askContribution

	a.prevBidPx, a.prevBidSz = bidPx, bidSz
	a.prevAskPx, a.prevAskSz = askPx, askSz

	a.ofiEMA = a.ofiAlpha*ofi + (1-a.ofiAlpha)*a.ofiEMA
	return ofi
}

// OFIEma returns the smoothed order flow imbalance.
func (a *MicrostructureAnalyzer) OFIEma() float64 {
	return a.ofiEMA
}
