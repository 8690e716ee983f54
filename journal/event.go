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

// Package journal records every externally-observable event - tick,
// execution, order intent, risk update - to an append-only binary log in
// a fixed header-plus-POD-payload schema, and can replay that log back
// through a type-indexed handler registry in original sequence order.
package journal

import "time"

// EventType classifies a journaled event's payload layout. Widened to a
// uint16 (rather than the single-byte enum its C++ ancestor used) to
// leave room for future event families without a schema-breaking change.
type EventType uint16

const (
	EventMarket EventType = iota
	EventSignal
	EventDecision
	EventOrder
	EventAck
	EventFill
	EventCancel
	EventPolicy
	EventRisk
)

// String renders EventType for logging.
func (t EventType) String() string {
	switch t {
	case EventMarket:
		return "MARKET"
	case EventSignal:
		return "SIGNAL"
	case EventDecision:
		return "DECISION"
	case EventOrder:
		return "ORDER"
	case EventAck:
		return "ACK"
	case EventFill:
		return "FILL"
	case EventCancel:
		return "CANCEL"
	case EventPolicy:
		return "POLICY"
	case EventRisk:
		return "RISK"
	default:
		return "UNKNOWN"
	}
}

// Event is one journaled occurrence. Payload is the type-indexed POD blob;
// the journal itself never interprets it - only a registered replay
// Handler for that Type does.
type Event struct {
	Type     EventType
	At       time.Time
	Sequence uint32
	Payload  []byte
}
