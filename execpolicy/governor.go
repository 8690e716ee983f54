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

// Package execpolicy decides how the execution layer is allowed to behave
// right now - disabled, resting-only, or aggressive - based on live
// latency, reject-rate, market, and exchange-stability signals, with a
// hard-kill latch that self-clears after a cooldown.
package execpolicy

import (
	"sync"
	"time"
)

// Mode is the execution posture the governor currently allows.
type Mode uint8

const (
	ModeDisabled Mode = iota
	ModePostOnly
	ModeTakeOnly
)

// String renders Mode for logging.
func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "DISABLED"
	case ModePostOnly:
		return "POST_ONLY"
	case ModeTakeOnly:
		return "TAKE_ONLY"
	default:
		return "UNKNOWN"
	}
}

// Config bounds the governor's bad/good thresholds and hard-kill recovery.
type Config struct {
	MaxRTT            time.Duration
	MaxQueueWait      time.Duration
	MaxRejectRate     float64
	MaxSpreadBps      float64
	VolBurstThreshold float64
	SizeDownscale     float64
	SizeUpscale       float64
	HardKillCooldown  time.Duration
}

// DefaultConfig mirrors the original governor's tuned constants.
func DefaultConfig() Config {
	return Config{
		MaxRTT:            5 * time.Millisecond,
		MaxQueueWait:      10 * time.Millisecond,
		MaxRejectRate:     0.15,
		MaxSpreadBps:      6.0,
		VolBurstThreshold: 3.0,
		SizeDownscale:     0.5,
		SizeUpscale:       1.0,
		HardKillCooldown:  60 * time.Second,
	}
}

// State is the governor's current, publishable execution posture.
type State struct {
	Mode           Mode
	TradingEnabled bool
	HardKill       bool
	SizeMultiplier float64
	LastUpdate     time.Time
}

// Sink receives every state transition, normally feeding telemetry or a
// dashboard websocket.
type Sink interface {
	Publish(State)
}

// Governor folds independent latency/reject/market/stability signals into
// a single execution posture, re-evaluating after each one.
type Governor struct {
	mu   sync.Mutex
	cfg  Config
	sink Sink

	state State

	lastHardKill time.Time

	rtt              time.Duration
	queueWait        time.Duration
	rejectRate       float64
	spreadBps        float64
	volatility       float64
	exchangeUnstable bool
}

// New creates a Governor starting in POST_ONLY mode, publishing transitions
// to sink.
func New(cfg Config, sink Sink) *Governor {
	return &Governor{cfg: cfg, sink: sink, state: State{Mode: ModePostOnly, TradingEnabled: true, SizeMultiplier: 1.0}}
}

// OnLatency folds in a fresh round-trip/queue-wait sample.
func (g *Governor) OnLatency(now time.Time, exchangeRTT, queueWait time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rtt = exchangeRTT
	g.queueWait = queueWait
	g.evaluateLocked(now)
}

// OnRejectRate folds in a fresh order-reject-rate sample.
func (g *Governor) OnRejectRate(now time.Time, rejectRate float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rejectRate = rejectRate
	g.evaluateLocked(now)
}

// OnMarketState folds in a fresh spread/volatility reading.
func (g *Governor) OnMarketState(now time.Time, spreadBps, volatilityScore float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.spreadBps = spreadBps
	g.volatility = volatilityScore
	g.evaluateLocked(now)
}

// OnExchangeInstability folds in a fresh exchange-connectivity signal.
func (g *Governor) OnExchangeInstability(now time.Time, unstable bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.exchangeUnstable = unstable
	g.evaluateLocked(now)
}

// State returns a copy of the governor's current posture.
func (g *Governor) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Governor) evaluateLocked(now time.Time) {
	if g.state.HardKill {
		if now.Sub(g.lastHardKill) > g.cfg.HardKillCooldown {
			g.state.HardKill = false
			g.state.TradingEnabled = true
		} else {
			return
		}
	}

	latencyBad := g.rtt > g.cfg.MaxRTT || g.queueWait > g.cfg.MaxQueueWait
	marketBad := g.spreadBps > g.cfg.MaxSpreadBps || g.volatility > g.cfg.VolBurstThreshold
	rejectsBad := g.rejectRate > g.cfg.MaxRejectRate

	switch {
	case g.exchangeUnstable || (latencyBad && rejectsBad):
		g.state.HardKill = true
		g.state.TradingEnabled = false
		g.state.Mode = ModeDisabled
		g.state.SizeMultiplier = 0.0
		g.lastHardKill = now
	case latencyBad || marketBad:
		g.state.TradingEnabled = true
		g.state.Mode = ModeTakeOnly
		g.state.SizeMultiplier = g.cfg.SizeDownscale
	default:
		g.state.TradingEnabled = true
		g.state.Mode = ModePostOnly
		g.state.SizeMultiplier = g.cfg.SizeUpscale
	}

	g.state.LastUpdate = now
	if g.sink != nil {
		g.sink.Publish(g.state)
	}
}
