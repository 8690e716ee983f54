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

package session

import (
	"testing"
	"time"

	"github.com/Trendiisales/ChimeraMetals/constants"
	"github.com/Trendiisales/ChimeraMetals/wire"
)

func newTestMachine() *Machine {
	return New(Config{Role: RoleTrade, SenderCompID: "US", TargetCompID: "THEM"})
}

func logonMsg(seq int, reset bool) *wire.Message {
	m := wire.NewMessage()
	m.Set(wire.TagMsgType, constants.MsgTypeLogon)
	m.SetInt(wire.TagMsgSeqNum, seq)
	if reset {
		m.Set(wire.TagResetSeqNumFlag, constants.ResetSeqNumYes)
	}
	return m
}

func appMsg(seq int, possDup bool) *wire.Message {
	m := wire.NewMessage()
	m.Set(wire.TagMsgType, constants.MsgTypeExecutionReport)
	m.SetInt(wire.TagMsgSeqNum, seq)
	if possDup {
		m.Set(wire.TagPossDupFlag, constants.PossDupYes)
	}
	return m
}

func TestHandleInbound_InSequence(t *testing.T) {
	m := newTestMachine()
	act, err := m.HandleInbound(logonMsg(1, true))
	if err != nil || act != ActionApply {
		t.Fatalf("logon: got action=%v err=%v", act, err)
	}

	act, err = m.HandleInbound(appMsg(2, false))
	if err != nil || act != ActionApply {
		t.Fatalf("in-sequence: got action=%v err=%v", act, err)
	}
}

func TestHandleInbound_ForwardGapTriggersResendButStillApplies(t *testing.T) {
	m := newTestMachine()
	if _, err := m.HandleInbound(logonMsg(1, true)); err != nil {
		t.Fatal(err)
	}

	act, err := m.HandleInbound(appMsg(5, false))
	if err != nil {
		t.Fatal(err)
	}
	if act != ActionSendResend {
		t.Fatalf("expected ActionSendResend, got %v", act)
	}
	low, high := m.PendingResend()
	if low != 2 || high != 4 {
		t.Fatalf("expected gap [2,4], got [%d,%d]", low, high)
	}

	// A subsequent forward message must still be delivered even though a
	// resend is outstanding - forward traffic is never dropped.
	m2 := newTestMachine()
	if _, err := m2.HandleInbound(logonMsg(1, true)); err != nil {
		t.Fatal(err)
	}
	if _, err := m2.HandleInbound(appMsg(5, false)); err != nil {
		t.Fatal(err)
	}
	act, err = m2.HandleInbound(appMsg(6, false))
	if err != nil || act != ActionApply {
		t.Fatalf("forward message during open gap should apply: action=%v err=%v", act, err)
	}
}

func TestHandleInbound_FreshMachineForwardGapIsAcceptedWithoutResend(t *testing.T) {
	// A freshly constructed Machine (expectedIn == 1, as after a complete
	// reset) has no prior history to resend against: a forward gap here
	// is accepted outright rather than requesting a ResendRequest for
	// messages that predate the reset.
	m := newTestMachine()

	act, err := m.HandleInbound(appMsg(5, false))
	if err != nil {
		t.Fatal(err)
	}
	if act != ActionApply {
		t.Fatalf("expected ActionApply with no resend, got %v", act)
	}
	if m.resendActive {
		t.Fatal("expected no resend to be outstanding")
	}

	act, err = m.HandleInbound(appMsg(6, false))
	if err != nil || act != ActionApply {
		t.Fatalf("next in-sequence message: got action=%v err=%v", act, err)
	}
}

func TestHandleInbound_StaleSequenceWithoutPossDupIgnored(t *testing.T) {
	m := newTestMachine()
	if _, err := m.HandleInbound(logonMsg(1, true)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.HandleInbound(appMsg(2, false)); err != nil {
		t.Fatal(err)
	}

	act, err := m.HandleInbound(appMsg(2, false))
	if err != nil || act != ActionNone {
		t.Fatalf("stale non-PossDup message should be ignored: action=%v err=%v", act, err)
	}
}

func TestHandleInbound_StaleSequenceWithPossDupApplied(t *testing.T) {
	m := newTestMachine()
	if _, err := m.HandleInbound(logonMsg(1, true)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.HandleInbound(appMsg(2, false)); err != nil {
		t.Fatal(err)
	}

	act, err := m.HandleInbound(appMsg(2, true))
	if err != nil || act != ActionApply {
		t.Fatalf("PossDup replay should apply: action=%v err=%v", act, err)
	}
}

func TestHandleInbound_GapFillClosesOutstandingResend(t *testing.T) {
	m := newTestMachine()
	if _, err := m.HandleInbound(logonMsg(1, true)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.HandleInbound(appMsg(5, false)); err != nil {
		t.Fatal(err)
	}

	reset := wire.NewMessage()
	reset.Set(wire.TagMsgType, constants.MsgTypeSequenceReset)
	reset.SetInt(wire.TagMsgSeqNum, 2)
	reset.Set(wire.TagGapFillFlag, constants.GapFillYes)
	reset.SetInt(wire.TagNewSeqNo, 5)

	if _, err := m.HandleInbound(reset); err != nil {
		t.Fatal(err)
	}
	if m.resendActive {
		t.Fatal("expected resend to be closed after gap fill reaches the gap's high end")
	}
}

func TestHandleLogon_ResetSeqNumFlagPerformsCompleteReset(t *testing.T) {
	m := newTestMachine()
	if _, err := m.HandleInbound(logonMsg(1, true)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.HandleInbound(appMsg(2, false)); err != nil {
		t.Fatal(err)
	}
	m.NextOutSeq()
	m.NextOutSeq()

	if _, err := m.HandleInbound(logonMsg(1, true)); err != nil {
		t.Fatal(err)
	}
	if m.expectedIn != 2 {
		t.Fatalf("expected inbound counter reset to 2, got %d", m.expectedIn)
	}
	if m.outSeq != 1 {
		t.Fatalf("expected outbound counter reset to 1, got %d", m.outSeq)
	}
}

func TestValidateSendingTime(t *testing.T) {
	now := time.Now().UTC()
	fresh := now.Format(constants.FixTimeFormat)
	if !ValidateSendingTime(fresh, now, 2*time.Second) {
		t.Fatal("fresh SendingTime should validate")
	}

	stale := now.Add(-time.Hour).Format(constants.FixTimeFormat)
	if ValidateSendingTime(stale, now, 2*time.Second) {
		t.Fatal("stale SendingTime should not validate")
	}
}
