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

// Package builder assembles outbound FIX messages for the session, order
// entry, and market-data surfaces from plain parameter structs.
package builder

import (
	"strconv"
	"time"

	"github.com/Trendiisales/ChimeraMetals/constants"
	"github.com/Trendiisales/ChimeraMetals/wire"
)

// buildHeader sets the common header fields every outgoing message carries.
func buildHeader(m *wire.Message, msgType, senderCompID, targetCompID string, seqNum int) {
	m.Set(wire.TagBeginString, constants.FixBeginString)
	m.Set(wire.TagMsgType, msgType)
	m.Set(wire.TagSenderCompID, senderCompID)
	m.Set(wire.TagTargetCompID, targetCompID)
	m.SetInt(wire.TagMsgSeqNum, seqNum)
	m.Set(wire.TagSendingTime, time.Now().UTC().Format(constants.FixTimeFormat))
}

// --- Session-level messages ---

// LogonParams carries the fields needed to establish a FIX session.
type LogonParams struct {
	SenderCompID    string
	TargetCompID    string
	SeqNum          int
	HeartBtInt      int
	ResetSeqNumFlag bool
	Username        string
	Password        string
}

// BuildLogon creates a Logon (A) message.
func BuildLogon(p LogonParams) *wire.Message {
	m := wire.NewMessage()
	buildHeader(m, constants.MsgTypeLogon, p.SenderCompID, p.TargetCompID, p.SeqNum)
	m.Set(wire.TagEncryptMethod, constants.EncryptMethodNone)
	m.SetInt(wire.TagHeartBtInt, p.HeartBtInt)
	if p.ResetSeqNumFlag {
		m.Set(wire.TagResetSeqNumFlag, constants.ResetSeqNumYes)
	}
	m.SetIfNotEmpty(wire.TagUsername, p.Username)
	m.SetIfNotEmpty(wire.TagPassword, p.Password)
	return m
}

// BuildHeartbeat creates a Heartbeat (0) message, echoing TestReqID when the
// heartbeat is a reply to a Test Request.
func BuildHeartbeat(senderCompID, targetCompID string, seqNum int, testReqID string) *wire.Message {
	m := wire.NewMessage()
	buildHeader(m, constants.MsgTypeHeartbeat, senderCompID, targetCompID, seqNum)
	m.SetIfNotEmpty(wire.TagTestReqID, testReqID)
	return m
}

// BuildTestRequest creates a Test Request (1) message.
func BuildTestRequest(senderCompID, targetCompID string, seqNum int, testReqID string) *wire.Message {
	m := wire.NewMessage()
	buildHeader(m, constants.MsgTypeTestRequest, senderCompID, targetCompID, seqNum)
	m.Set(wire.TagTestReqID, testReqID)
	return m
}

// BuildResendRequest creates a Resend Request (2) message covering
// [beginSeqNo, endSeqNo]. endSeqNo of 0 means "to the highest seen".
func BuildResendRequest(senderCompID, targetCompID string, seqNum, beginSeqNo, endSeqNo int) *wire.Message {
	m := wire.NewMessage()
	buildHeader(m, constants.MsgTypeResendRequest, senderCompID, targetCompID, seqNum)
	m.SetInt(wire.TagBeginSeqNo, beginSeqNo)
	m.SetInt(wire.TagEndSeqNo, endSeqNo)
	return m
}

// BuildSequenceReset creates a Sequence Reset (4) message. gapFill indicates
// a GapFillFlag reset used during resend processing; a non-gap-fill reset is
// only ever sent as part of a full session reset.
func BuildSequenceReset(senderCompID, targetCompID string, seqNum, newSeqNo int, gapFill bool) *wire.Message {
	m := wire.NewMessage()
	buildHeader(m, constants.MsgTypeSequenceReset, senderCompID, targetCompID, seqNum)
	if gapFill {
		m.Set(wire.TagGapFillFlag, constants.GapFillYes)
	}
	m.SetInt(wire.TagNewSeqNo, newSeqNo)
	return m
}

// BuildLogout creates a Logout (5) message.
func BuildLogout(senderCompID, targetCompID string, seqNum int, text string) *wire.Message {
	m := wire.NewMessage()
	buildHeader(m, constants.MsgTypeLogout, senderCompID, targetCompID, seqNum)
	m.SetIfNotEmpty(wire.TagText, text)
	return m
}

// --- Market Data Request (V) ---

func BuildMarketDataRequest(
	mdReqID string,
	symbols []string,
	subscriptionRequestType string,
	marketDepth string,
	senderCompID, targetCompID string,
	seqNum int,
	mdEntryTypes []string,
) *wire.Message {
	m := wire.NewMessage()
	buildHeader(m, constants.MsgTypeMarketDataRequest, senderCompID, targetCompID, seqNum)

	m.Set(wire.TagMdReqID, mdReqID)
	m.Set(wire.TagSubscriptionRequestType, subscriptionRequestType)
	m.Set(wire.TagMarketDepth, marketDepth)

	if subscriptionRequestType == constants.SubscriptionRequestTypeSubscribe {
		m.Set(wire.TagMdUpdateType, constants.MdUpdateTypeIncremental)
	}

	for _, entryType := range mdEntryTypes {
		m.AddGroup(wire.TagNoMdEntryTypes, wire.Group{{Tag: wire.TagMdEntryType, Value: entryType}})
	}
	for _, symbol := range symbols {
		m.AddGroup(wire.TagNoRelatedSym, wire.Group{{Tag: wire.TagSymbol, Value: symbol}})
	}
	return m
}

// --- New Order Single (D) ---

// NewOrderParams contains parameters for creating a new order.
type NewOrderParams struct {
	Account        string // Book/portfolio identifier (required)
	ClOrdID        string // Client order ID (required)
	Symbol         string // XAUUSD / XAGUSD (required)
	Side           string // "1" buy, "2" sell (required)
	OrdType        string // Order type (required)
	TargetStrategy string // L, M, T, V, SL (required)
	TimeInForce    string // 1, 3, 4, 6 (required)
	OrderQty       string // Size in ounces (conditional)
	Price          string // Limit price (conditional)
	StopPx         string // Stop price for stop orders (conditional)
	ExpireTime     string // For GTD/TWAP/VWAP (conditional)
	ExecInst       string // "A" for post-only (conditional)
}

// BuildNewOrderSingle creates a New Order Single (D) message.
func BuildNewOrderSingle(p NewOrderParams, senderCompID, targetCompID string, seqNum int) *wire.Message {
	m := wire.NewMessage()
	buildHeader(m, constants.MsgTypeNewOrderSingle, senderCompID, targetCompID, seqNum)

	m.Set(wire.TagAccount, p.Account)
	m.Set(wire.TagClOrdID, p.ClOrdID)
	m.Set(wire.TagSymbol, p.Symbol)
	m.Set(wire.TagSide, p.Side)
	m.Set(wire.TagOrdType, p.OrdType)
	m.Set(wire.TagTargetStrategy, p.TargetStrategy)
	m.Set(wire.TagTimeInForce, p.TimeInForce)
	m.Set(wire.TagTransactTime, time.Now().UTC().Format(constants.FixTimeFormat))

	m.SetIfNotEmpty(wire.TagOrderQty, p.OrderQty)
	m.SetIfNotEmpty(wire.TagPrice, p.Price)
	m.SetIfNotEmpty(wire.TagStopPx, p.StopPx)
	m.SetIfNotEmpty(wire.TagExpireTime, p.ExpireTime)
	m.SetIfNotEmpty(wire.TagExecInst, p.ExecInst)

	return m
}

// --- Order Cancel Request (F) ---

// CancelOrderParams contains parameters for canceling an order.
type CancelOrderParams struct {
	Account     string
	ClOrdID     string
	OrigClOrdID string
	OrderID     string
	Symbol      string
	Side        string
	OrderQty    string
}

// BuildOrderCancelRequest creates an Order Cancel Request (F) message.
func BuildOrderCancelRequest(p CancelOrderParams, senderCompID, targetCompID string, seqNum int) *wire.Message {
	m := wire.NewMessage()
	buildHeader(m, constants.MsgTypeOrderCancelRequest, senderCompID, targetCompID, seqNum)

	m.Set(wire.TagAccount, p.Account)
	m.Set(wire.TagClOrdID, p.ClOrdID)
	m.Set(wire.TagOrigClOrdID, p.OrigClOrdID)
	m.Set(wire.TagOrderID, p.OrderID)
	m.Set(wire.TagSymbol, p.Symbol)
	m.Set(wire.TagSide, p.Side)
	m.Set(wire.TagTransactTime, time.Now().UTC().Format(constants.FixTimeFormat))
	m.SetIfNotEmpty(wire.TagOrderQty, p.OrderQty)

	return m
}

// --- Order Cancel/Replace Request (G) ---

// ReplaceOrderParams contains parameters for modifying an order.
type ReplaceOrderParams struct {
	Account     string
	ClOrdID     string
	OrigClOrdID string
	OrderID     string
	Symbol      string
	Side        string
	OrdType     string
	OrderQty    string
	Price       string
	StopPx      string
	ExpireTime  string
}

// BuildOrderCancelReplaceRequest creates an Order Cancel/Replace Request (G).
func BuildOrderCancelReplaceRequest(p ReplaceOrderParams, senderCompID, targetCompID string, seqNum int) *wire.Message {
	m := wire.NewMessage()
	buildHeader(m, constants.MsgTypeOrderCancelReplace, senderCompID, targetCompID, seqNum)

	m.Set(wire.TagAccount, p.Account)
	m.Set(wire.TagClOrdID, p.ClOrdID)
	m.Set(wire.TagOrigClOrdID, p.OrigClOrdID)
	m.Set(wire.TagOrderID, p.OrderID)
	m.Set(wire.TagSymbol, p.Symbol)
	m.Set(wire.TagSide, p.Side)
	m.Set(wire.TagOrdType, p.OrdType)
	m.Set(wire.TagHandlInst, constants.HandlInstAutomatedNoIntervention)
	m.Set(wire.TagTransactTime, time.Now().UTC().Format(constants.FixTimeFormat))
	m.Set(wire.TagPrice, p.Price)

	m.SetIfNotEmpty(wire.TagOrderQty, p.OrderQty)
	m.SetIfNotEmpty(wire.TagStopPx, p.StopPx)
	m.SetIfNotEmpty(wire.TagExpireTime, p.ExpireTime)

	return m
}

// --- Order Status Request (H) ---

// BuildOrderStatusRequest creates an Order Status Request (H) message.
func BuildOrderStatusRequest(orderID, clOrdID, symbol, side, senderCompID, targetCompID string, seqNum int) *wire.Message {
	m := wire.NewMessage()
	buildHeader(m, constants.MsgTypeOrderStatusRequest, senderCompID, targetCompID, seqNum)

	m.Set(wire.TagOrderID, orderID)
	m.SetIfNotEmpty(wire.TagClOrdID, clOrdID)
	m.SetIfNotEmpty(wire.TagSymbol, symbol)
	m.SetIfNotEmpty(wire.TagSide, side)

	return m
}

// buildClOrdID derives a compact monotonic client order id from a causal id
// and an attempt counter, so cancel/replace chains stay traceable back to
// the signal that caused them without pulling in a UUID for hot-path ids.
func buildClOrdID(causalID uint64, attempt int) string {
	return strconv.FormatUint(causalID, 10) + "-" + strconv.Itoa(attempt)
}
