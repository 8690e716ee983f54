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

// Package constants holds the FIX message-type literals, protocol constants,
// and enumerated field values shared by wire, session, and order-entry code.
package constants

// --- Message Types ---
const (
	// Admin/session messages
	MsgTypeHeartbeat      = "0"
	MsgTypeLogon          = "A"
	MsgTypeTestRequest    = "1"
	MsgTypeResendRequest  = "2"
	MsgTypeReject         = "3"
	MsgTypeSequenceReset  = "4"
	MsgTypeLogout         = "5"
	MsgTypeBusinessReject = "j"

	MsgTypeMarketDataReject = "Y"

	// Market data messages
	MsgTypeMarketDataRequest     = "V"
	MsgTypeMarketDataSnapshot    = "W"
	MsgTypeMarketDataIncremental = "X"

	// Order entry messages
	MsgTypeNewOrderSingle       = "D"
	MsgTypeOrderCancelRequest   = "F"
	MsgTypeOrderCancelReplace   = "G"
	MsgTypeOrderStatusRequest   = "H"
	MsgTypeExecutionReport      = "8"
	MsgTypeOrderCancelReject    = "9"
	MsgTypeQuoteRequest         = "R"
	MsgTypeQuote                = "S"
	MsgTypeQuoteAcknowledgement = "b"
)

// --- Protocol Constants ---
const (
	FixTimeFormat     = "20060102-15:04:05.000"
	FixBeginString    = "FIXT.1.1"
	EncryptMethodNone = "0"
	HeartBtInterval   = "30"
	DropCopyFlagYes   = "Y"
	MsgSeqNumInit     = "1"
	ResetSeqNumYes    = "Y"
	GapFillYes        = "Y"
	PossDupYes        = "Y"
)

// --- Precious metals product symbols ---
const (
	SymbolXAUUSD = "XAUUSD"
	SymbolXAGUSD = "XAGUSD"
)

// --- Subscription Request Types ---
const (
	SubscriptionRequestTypeSnapshot    = "0"
	SubscriptionRequestTypeSubscribe   = "1"
	SubscriptionRequestTypeUnsubscribe = "2"
)

// --- MD Entry Types ---
const (
	MdEntryTypeBid    = "0"
	MdEntryTypeOffer  = "1"
	MdEntryTypeTrade  = "2"
	MdEntryTypeOpen   = "4"
	MdEntryTypeClose  = "5"
	MdEntryTypeHigh   = "7"
	MdEntryTypeLow    = "8"
	MdEntryTypeVolume = "B"
)

// --- MD Update Types ---
const (
	MdUpdateTypeFullRefresh = "0"
	MdUpdateTypeIncremental = "1"
)

// --- Order Types (Tag 40) ---
const (
	OrdTypeMarket           = "1"
	OrdTypeLimit            = "2"
	OrdTypeStop             = "3"
	OrdTypeStopLimit        = "4"
	OrdTypePreviouslyQuoted = "D"
)

// --- Side (Tag 54) ---
const (
	SideBuy  = "1"
	SideSell = "2"
)

// --- Time In Force (Tag 59) ---
const (
	TimeInForceGTC = "1"
	TimeInForceIOC = "3"
	TimeInForceFOK = "4"
	TimeInForceGTD = "6"
)

// --- Target Strategy (Tag 847) ---
const (
	TargetStrategyLimit     = "L"
	TargetStrategyMarket    = "M"
	TargetStrategyTWAP      = "T"
	TargetStrategyVWAP      = "V"
	TargetStrategyStopLimit = "SL"
	TargetStrategyRFQ       = "R"
)

// --- Order Status (Tag 39) ---
const (
	OrdStatusNew             = "0"
	OrdStatusPartiallyFilled = "1"
	OrdStatusFilled          = "2"
	OrdStatusDoneForDay      = "3"
	OrdStatusCanceled        = "4"
	OrdStatusReplaced        = "5"
	OrdStatusPendingCancel   = "6"
	OrdStatusStopped         = "7"
	OrdStatusRejected        = "8"
	OrdStatusSuspended       = "9"
	OrdStatusPendingNew      = "A"
	OrdStatusCalculated      = "B"
	OrdStatusExpired         = "C"
	OrdStatusAcceptedBidding = "D"
	OrdStatusPendingReplace  = "E"
)

// --- Execution Type (Tag 150) ---
const (
	ExecTypeNew           = "0"
	ExecTypePartialFill   = "1"
	ExecTypeFilled        = "2"
	ExecTypeDone          = "3"
	ExecTypeCanceled      = "4"
	ExecTypePendingCancel = "6"
	ExecTypeStopped       = "7"
	ExecTypeRejected      = "8"
	ExecTypePendingNew    = "A"
	ExecTypeExpired       = "C"
	ExecTypeRestated      = "D"
	ExecTypeOrderStatus   = "I"
)

// --- Order Reject Reason (Tag 103) ---
const (
	OrdRejReasonBrokerOption   = "0"
	OrdRejReasonUnknownSymbol  = "1"
	OrdRejReasonExchangeClosed = "2"
	OrdRejReasonExceedsLimit   = "3"
	OrdRejReasonTooLate        = "4"
	OrdRejReasonUnknownOrder   = "5"
	OrdRejReasonDuplicateOrder = "6"
	OrdRejReasonOther          = "99"
)

// --- Cancel Reject Response To (Tag 434) ---
const (
	CxlRejResponseToCancel  = "1"
	CxlRejResponseToReplace = "2"
)

// --- Quote Acknowledgement Status (Tag 297) ---
const (
	QuoteAckStatusRejected = "5"
)

// --- Quote Reject Reason (Tag 300) ---
const (
	QuoteRejectReasonUnknownSymbol  = "1"
	QuoteRejectReasonExchangeClosed = "2"
	QuoteRejectReasonExceedsLimit   = "3"
	QuoteRejectReasonDuplicate      = "6"
	QuoteRejectReasonInvalidPrice   = "8"
	QuoteRejectReasonOther          = "99"
)

// --- Session Reject Reason (Tag 373) ---
const (
	SessionRejectReasonInvalidTag          = "0"
	SessionRejectReasonRequiredTagMissing  = "1"
	SessionRejectReasonTagNotDefined       = "2"
	SessionRejectReasonUndefinedTag        = "3"
	SessionRejectReasonTagWithoutValue     = "4"
	SessionRejectReasonValueOutOfRange     = "5"
	SessionRejectReasonIncorrectDataFormat = "6"
	SessionRejectReasonDecryptionProblem   = "7"
	SessionRejectReasonSignatureProblem    = "8"
	SessionRejectReasonCompIDProblem       = "9"
	SessionRejectReasonSendingTimeAccuracy = "10"
	SessionRejectReasonInvalidMsgType      = "11"
)

// --- Business Reject Reason (Tag 380) ---
const (
	BusinessRejectReasonOther               = "0"
	BusinessRejectReasonUnknownID           = "1"
	BusinessRejectReasonUnknownSecurity     = "2"
	BusinessRejectReasonUnsupportedMsgType  = "3"
	BusinessRejectReasonApplicationNotAvail = "4"
	BusinessRejectReasonCondRequiredMissing = "5"
	BusinessRejectReasonNotAuthorized       = "6"
)

// --- Execution Instruction (Tag 18) ---
const (
	ExecInstPostOnly = "A"
)

// --- Handling Instruction (Tag 21) ---
const (
	HandlInstAutomatedNoIntervention = "1"
)

// --- Commission Type (Tag 13) ---
const (
	CommTypeAbsolute = "3"
)

// --- Misc Fee Type (Tag 139) ---
const (
	MiscFeeTypeFinancing  = "1"
	MiscFeeTypeClientComm = "2"
	MiscFeeTypeCESComm    = "3"
	MiscFeeTypeVenueFee   = "4"
)

// --- MD Rejection Reasons ---
const (
	MdReqRejReasonUnknownSymbol              = "0"
	MdReqRejReasonDuplicateMdReqId           = "1"
	MdReqRejReasonInsufficientBandwidth      = "2"
	MdReqRejReasonInsufficientPermission     = "3"
	MdReqRejReasonInvalidSubscriptionReqType = "4"
	MdReqRejReasonInvalidMarketDepth         = "5"
	MdReqRejReasonUnsupportedMdUpdateType    = "6"
	MdReqRejReasonOther                      = "7"
	MdReqRejReasonUnsupportedMdEntryType     = "8"
)
