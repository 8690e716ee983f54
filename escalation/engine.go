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

// Package escalation decides, per trade signal, whether to stay
// post-only-passive, escalate to a taker order, or abort - tracked per
// causal ID so a signal's escalation decision is made exactly once.
package escalation

import (
	"sync"
	"time"
)

// Action is the one-shot decision made for a causal ID.
type Action int

const (
	ActionStayPostOnly Action = iota
	ActionEscalateToTaker
	ActionAbortTrade
)

// String renders Action for logging.
func (a Action) String() string {
	switch a {
	case ActionStayPostOnly:
		return "STAY_POST_ONLY"
	case ActionEscalateToTaker:
		return "ESCALATE_TO_TAKER"
	case ActionAbortTrade:
		return "ABORT_TRADE"
	default:
		return "UNKNOWN"
	}
}

// Config bounds the confirmation window, wait ceilings, and confidence
// floors the engine escalates or aborts against.
type Config struct {
	MinConfirm          time.Duration
	MaxQueueWait        time.Duration
	MaxTotalWait        time.Duration
	MinSignalConfidence float64
	MinVolatility       float64
	MaxRTT              time.Duration
}

// DefaultConfig mirrors the original engine's tuned constants.
func DefaultConfig() Config {
	return Config{
		MinConfirm:          2 * time.Millisecond,
		MaxQueueWait:        6 * time.Millisecond,
		MaxTotalWait:        12 * time.Millisecond,
		MinSignalConfidence: 0.65,
		MinVolatility:       1.1,
		MaxRTT:              5 * time.Millisecond,
	}
}

// Decision is the one-shot verdict published for a causal ID.
type Decision struct {
	CausalID   uint64
	Action     Action
	Confidence float64
	DecidedAt  time.Time
}

// Sink receives each causal ID's decision exactly once.
type Sink interface {
	Publish(Decision)
}

// ExitMode is the execution posture for closing an already-open position.
type ExitMode int

const (
	ExitModeNormal ExitMode = iota
	ExitModeAggressiveTaker
)

// String renders ExitMode for logging.
func (m ExitMode) String() string {
	switch m {
	case ExitModeAggressiveTaker:
		return "AGGRESSIVE_TAKER"
	default:
		return "NORMAL"
	}
}

// AsymmetricExitConfig bounds the RTT/volatility thresholds that escalate a
// profitable position's close to an aggressive taker order.
type AsymmetricExitConfig struct {
	MaxRTT        time.Duration
	MaxVolatility float64
}

// DefaultAsymmetricExitConfig mirrors the original engine's tuned constants.
func DefaultAsymmetricExitConfig() AsymmetricExitConfig {
	return AsymmetricExitConfig{MaxRTT: 6 * time.Millisecond, MaxVolatility: 2.5}
}

// ExitDecision is the asymmetric-exit verdict for one position-close
// evaluation.
type ExitDecision struct {
	CausalID  uint64
	Mode      ExitMode
	DecidedAt time.Time
}

// DecideExit escalates a profitable position's close to an aggressive taker
// order once round-trip latency or volatility looks bad enough that resting
// passively risks giving back the unrealized gain. A position that is flat
// or underwater always closes normally - asymmetric escalation only
// protects profit already on the board, never chases a loss. Unlike
// OnSignal/OnExecutionState, this is stateless: every call to DecideExit is
// an independent, immediately-final decision, since a position close isn't
// tracked across repeated execution-state updates the way an open signal is.
func DecideExit(cfg AsymmetricExitConfig, causalID uint64, now time.Time, unrealizedPnL float64, rtt time.Duration, volatility float64) ExitDecision {
	d := ExitDecision{CausalID: causalID, DecidedAt: now, Mode: ExitModeNormal}
	if unrealizedPnL > 0 && (rtt > cfg.MaxRTT || volatility > cfg.MaxVolatility) {
		d.Mode = ExitModeAggressiveTaker
	}
	return d
}

type track struct {
	signalAt   time.Time
	confidence float64
	decided    bool
}

// Engine tracks one in-flight signal per causal ID and decides its
// execution posture exactly once, the first time its execution-state
// conditions qualify for a decision.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	sink   Sink
	tracks map[uint64]*track
}

// New creates an Engine publishing decisions to sink.
func New(cfg Config, sink Sink) *Engine {
	return &Engine{cfg: cfg, sink: sink, tracks: make(map[uint64]*track)}
}

// OnSignal registers (or re-arms) a causal ID's signal, resetting its
// decided flag so a fresh signal always gets its own verdict.
func (e *Engine) OnSignal(causalID uint64, signalAt time.Time, confidence float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tracks[causalID] = &track{signalAt: signalAt, confidence: confidence}
}

// OnExecutionState folds in a fresh execution-environment reading for
// causalID, deciding and publishing its escalation action if not already
// decided. Unknown causal IDs (no prior OnSignal) are ignored.
func (e *Engine) OnExecutionState(causalID uint64, now time.Time, queueWait, rtt time.Duration, volatility float64) {
	e.mu.Lock()
	t, ok := e.tracks[causalID]
	if !ok || t.decided {
		e.mu.Unlock()
		return
	}

	sinceSignal := now.Sub(t.signalAt)
	d := Decision{CausalID: causalID, DecidedAt: now, Confidence: t.confidence}

	switch {
	case t.confidence < e.cfg.MinSignalConfidence:
		d.Action = ActionAbortTrade
	case sinceSignal < e.cfg.MinConfirm:
		d.Action = ActionStayPostOnly
	case queueWait > e.cfg.MaxQueueWait && rtt < e.cfg.MaxRTT && volatility >= e.cfg.MinVolatility:
		d.Action = ActionEscalateToTaker
	case sinceSignal > e.cfg.MaxTotalWait:
		d.Action = ActionAbortTrade
	default:
		d.Action = ActionStayPostOnly
	}

	t.decided = true
	e.mu.Unlock()

	if e.sink != nil {
		e.sink.Publish(d)
	}
}
