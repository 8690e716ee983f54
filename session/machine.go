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

// Package session implements the FIX sequence/gap-recovery state machine
// shared by the quote and trade sessions. It intentionally departs from a
// textbook FIX engine in one respect: forward (in-sequence or higher)
// messages are never dropped while a gap is outstanding. A ResendRequest is
// issued for the missing range, but traffic that keeps arriving in the
// meantime is applied immediately rather than queued behind the resend.
// Dropping forward ticks while waiting for a handful of replayed messages
// would starve the signal engines of the market data they need most.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Trendiisales/ChimeraMetals/constants"
	"github.com/Trendiisales/ChimeraMetals/wire"
)

// Role distinguishes the quote session from the trade session for logging
// and metrics labels only; both run the identical state machine.
type Role string

const (
	RoleQuote Role = "quote"
	RoleTrade Role = "trade"
)

// Status is the session's lifecycle state.
type Status int

const (
	StatusDisconnected Status = iota
	StatusLogonSent
	StatusActive
	StatusResending
	StatusLoggedOut
)

// Action tells the caller what to do in response to HandleInbound.
type Action int

const (
	ActionNone Action = iota
	ActionApply          // deliver the message's business content to the app layer
	ActionSendResend      // a ResendRequest must be sent (see PendingResend)
	ActionSendHeartbeat
	ActionSendTestRequestReply
	ActionSendSequenceReset
	ActionDisconnect
)

// TransportError represents a fatal condition that must tear down the
// underlying connection.
type TransportError struct {
	Reason string
}

func (e *TransportError) Error() string { return "session: transport error: " + e.Reason }

// Config parameterizes one Machine instance.
type Config struct {
	Role            Role
	SenderCompID    string
	TargetCompID    string
	HeartBtInt      time.Duration
	Logger          zerolog.Logger
	ResendThrottle  time.Duration // minimum gap between ResendRequest issuances
}

// Machine tracks inbound/outbound sequence numbers and gap/resend state for
// one FIX session. All public methods are safe for concurrent use; the
// session has one reader and one writer goroutine in practice, but the
// watchdog and supervision code also reads Status.
type Machine struct {
	mu sync.Mutex

	cfg Config

	status       Status
	outSeq       int
	expectedIn   int
	lastResendAt time.Time

	// gapLow/gapHigh describe the outstanding resend range; gapHigh of 0
	// means "open-ended, resend through whatever arrives next".
	gapLow, gapHigh int
	resendActive    bool

	lastInboundAt time.Time
}

// New creates a Machine with sequence numbers starting at 1.
func New(cfg Config) *Machine {
	if cfg.HeartBtInt == 0 {
		cfg.HeartBtInt = 30 * time.Second
	}
	if cfg.ResendThrottle == 0 {
		cfg.ResendThrottle = 2 * time.Second
	}
	return &Machine{cfg: cfg, outSeq: 1, expectedIn: 1, status: StatusDisconnected}
}

// NextOutSeq returns the sequence number to stamp on the next outbound
// message and advances the counter.
func (m *Machine) NextOutSeq() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq := m.outSeq
	m.outSeq++
	return seq
}

// Status returns the current lifecycle state.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// OnLogonSent records that we have sent our Logon and are awaiting the
// counterparty's.
func (m *Machine) OnLogonSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = StatusLogonSent
}

// HandleInbound processes one decoded inbound message and reports the
// action the caller must take. The sequence number is read from the
// message's MsgSeqNum (34).
func (m *Machine) HandleInbound(msg *wire.Message) (Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastInboundAt = time.Now()
	seq := msg.GetInt(wire.TagMsgSeqNum)
	msgType := msg.MsgType()
	possDup := msg.GetOrEmpty(wire.TagPossDupFlag) == constants.PossDupYes

	switch msgType {
	case constants.MsgTypeLogon:
		return m.handleLogon(msg, seq)
	case constants.MsgTypeSequenceReset:
		return m.handleSequenceReset(msg, seq)
	}

	if seq == 0 {
		return ActionNone, &TransportError{Reason: "missing MsgSeqNum"}
	}

	switch {
	case seq == m.expectedIn:
		m.expectedIn++
		// A previously outstanding gap may have just been closed from the
		// low end; the high end (if any) is still owed.
		if m.resendActive && seq >= m.gapLow {
			m.gapLow = seq + 1
			if m.gapHigh != 0 && m.gapLow > m.gapHigh {
				m.resendActive = false
			}
		}
		return ActionApply, nil

	case seq > m.expectedIn:
		if m.expectedIn == 1 {
			// Post-reset forward-gap tolerance: a fresh session (or one
			// just reset via ResetSeqNumFlag) has no history to resend
			// against, so a forward gap here is accepted outright rather
			// than triggering a ResendRequest for messages that predate
			// the reset.
			m.expectedIn = seq + 1
			return ActionApply, nil
		}

		// Forward gap: keep applying this message's content (never dropped)
		// while requesting the missing range, unless we've already asked
		// and are within the throttle window.
		low := m.expectedIn
		high := seq - 1
		m.expectedIn = seq + 1
		if !m.resendActive {
			m.resendActive = true
			m.gapLow, m.gapHigh = low, high
		} else if high > m.gapHigh {
			m.gapHigh = high
		}
		if time.Since(m.lastResendAt) >= m.cfg.ResendThrottle {
			m.lastResendAt = time.Now()
			m.status = StatusResending
			return ActionSendResend, nil
		}
		return ActionApply, nil

	default: // seq < expectedIn: a duplicate or replayed message.
		if possDup {
			return ActionApply, nil
		}
		// Non-PossDup message with a stale sequence number is a protocol
		// violation from the counterparty, not a gap on our side; log and
		// ignore rather than tearing down a session over a single stray
		// message.
		m.cfg.Logger.Warn().
			Int("seq", seq).
			Int("expected", m.expectedIn).
			Str("msg_type", msgType).
			Msg("stale sequence number without PossDupFlag")
		return ActionNone, nil
	}
}

// PendingResend returns the [begin,end] range a caller should request after
// receiving ActionSendResend. end of 0 means open-ended.
func (m *Machine) PendingResend() (begin, end int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gapLow, m.gapHigh
}

// ResetOnReconnect clears gap-recovery state and the resend throttle
// timer and re-arms the heartbeat clock for a freshly connected socket.
// It deliberately leaves outbound/expected-inbound sequence numbers
// untouched - those carry over from a checkpoint restored by the
// transport, unless superseded by an accepted ResetSeqNumFlag Logon. A
// partial reset that skipped the heartbeat clock would leave a timeout
// primed from the old connection.
func (m *Machine) ResetOnReconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resendActive = false
	m.gapLow, m.gapHigh = 0, 0
	m.lastResendAt = time.Time{}
	m.lastInboundAt = time.Now()
	m.status = StatusDisconnected
}

// Checkpoint returns the current outbound/expected-inbound sequence
// numbers for durable persistence across a disconnect.
func (m *Machine) Checkpoint() SeqCheckpoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return SeqCheckpoint{OutSeq: uint32(m.outSeq), ExpectedIn: uint32(m.expectedIn)}
}

// RestoreCheckpoint reloads sequence numbers saved by a prior run. It is
// only meaningful immediately after a reconnect and before a Logon is
// exchanged; an accepted Logon with ResetSeqNumFlag=Y supersedes
// whatever this restores.
func (m *Machine) RestoreCheckpoint(c SeqCheckpoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outSeq = int(c.OutSeq)
	m.expectedIn = int(c.ExpectedIn)
}

func (m *Machine) handleLogon(msg *wire.Message, seq int) (Action, error) {
	reset := msg.GetOrEmpty(wire.TagResetSeqNumFlag) == constants.ResetSeqNumYes
	if reset {
		// A complete reset: both directions restart at 1. This is the only
		// path that re-synchronizes sequence numbers from scratch; a gap
		// discovered mid-session never implicitly resets state the way a
		// naive engine's "just jump to what they sent" shortcut would.
		m.outSeq = 1
		m.expectedIn = 2
		m.resendActive = false
		m.gapLow, m.gapHigh = 0, 0
		m.status = StatusActive
		return ActionApply, nil
	}

	if seq != m.expectedIn {
		// A forward gap inside the Logon itself still tolerates catching
		// up via ResendRequest rather than refusing the session outright.
		low, high := m.expectedIn, seq-1
		m.expectedIn = seq + 1
		m.resendActive = true
		m.gapLow, m.gapHigh = low, high
		m.status = StatusActive
		return ActionSendResend, nil
	}

	m.expectedIn = seq + 1
	m.status = StatusActive
	return ActionApply, nil
}

func (m *Machine) handleSequenceReset(msg *wire.Message, seq int) (Action, error) {
	gapFill := msg.GetOrEmpty(wire.TagGapFillFlag) == constants.GapFillYes
	newSeqNo := msg.GetInt(wire.TagNewSeqNo)

	if gapFill {
		// A gap-fill covers [seq, newSeqNo-1]; it must not regress our
		// expected counter below what we've already consumed. While a
		// resend is outstanding, forward traffic has already moved
		// expectedIn past the gap, so the fill only narrows or closes it.
		if m.resendActive {
			if newSeqNo > m.gapHigh {
				m.resendActive = false
			} else if newSeqNo > m.gapLow {
				m.gapLow = newSeqNo
			}
			if newSeqNo > m.expectedIn {
				m.expectedIn = newSeqNo
			}
			return ActionNone, nil
		}
		if newSeqNo < m.expectedIn {
			return ActionNone, fmt.Errorf("session: gap fill NewSeqNo %d below expected %d", newSeqNo, m.expectedIn)
		}
		m.expectedIn = newSeqNo
		return ActionNone, nil
	}

	// A non-gap-fill SequenceReset is an administrative reset of the
	// inbound counter only (partial reset, unlike a ResetSeqNumFlag Logon).
	if newSeqNo < m.expectedIn {
		return ActionNone, fmt.Errorf("session: SequenceReset NewSeqNo %d below expected %d", newSeqNo, m.expectedIn)
	}
	m.expectedIn = newSeqNo
	m.resendActive = false
	_ = seq
	return ActionNone, nil
}

// CheckHeartbeat reports whether the peer has gone silent for more than
// 2x the configured heartbeat interval, the threshold after which a Test
// Request should be sent.
func (m *Machine) CheckHeartbeat() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastInboundAt.IsZero() {
		return false
	}
	return time.Since(m.lastInboundAt) > 2*m.cfg.HeartBtInt
}

// ValidateSendingTime reports whether a peer-supplied SendingTime (52) is
// within the tolerance window of local time, guarding against replayed or
// clock-skewed traffic.
func ValidateSendingTime(sendingTime string, now time.Time, tolerance time.Duration) bool {
	t, err := time.Parse(constants.FixTimeFormat, sendingTime)
	if err != nil {
		return false
	}
	delta := now.Sub(t)
	if delta < 0 {
		delta = -delta
	}
	return delta <= tolerance
}
