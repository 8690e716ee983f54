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

/*
HOT PATH - Market Tick Processing Flow

This documents the steady-state path a single inbound quote-stream tick
takes from the wire to a filtered, allocator-capped intent. Everything
downstream of step [1] runs on the session's single reader goroutine;
optimizations here have the highest impact on tick-to-intent latency.

[1] wire.Framer.Next() - reads one length-delimited frame off the TLS
    socket, skipping malformed bytes ahead of a frame start; the checksum
    is verified afterwards by session.Transport.Poll, which returns a
    *wire.FramingError on a mismatch.
[2] wire.Decode() - splits the frame into tag=value fields without a
    reflection-based struct mapping.
[3] session.Machine.HandleInbound() - sequence/gap bookkeeping; returns
    ActionApply for in-order business content, queuing nothing.
[4] marketdata.State.UpdateBook/UpdateTrade and MicrostructureAnalyzer.
    OnBookUpdate() - maintains the rolling mid/OFI picture per symbol.
[5] engines.HFTEngine.Evaluate() / StructureEngine.Evaluate() - produce a
    candidate EngineIntent from the refreshed signal state.
[6] allocator.Allocator.Allocate - arbitrates and caps the intent against
    per-symbol exposure.
[7] risk.Governor.Filter() - desk-wide hard stops and adaptive scaling.
[8] execpolicy.Governor state gates whether the result is sent at all.
*/

// Command chimera wires the precious-metals execution engine's components
// together. Process configuration, crash recovery, supervision, and the
// FIX quote/trade session transports all happen here; the packages it
// imports stay free of any notion of "the main loop". The dashboard
// HTTP/WebSocket server and the platform socket shim are external
// collaborators that consume the state this process publishes - they
// are not started here.
package main

import (
	"bufio"
	"crypto/tls"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Trendiisales/ChimeraMetals/adaptive"
	"github.com/Trendiisales/ChimeraMetals/allocator"
	"github.com/Trendiisales/ChimeraMetals/builder"
	"github.com/Trendiisales/ChimeraMetals/config"
	"github.com/Trendiisales/ChimeraMetals/constants"
	"github.com/Trendiisales/ChimeraMetals/escalation"
	"github.com/Trendiisales/ChimeraMetals/execpolicy"
	"github.com/Trendiisales/ChimeraMetals/journal"
	"github.com/Trendiisales/ChimeraMetals/latency"
	"github.com/Trendiisales/ChimeraMetals/logging"
	"github.com/Trendiisales/ChimeraMetals/marketdata"
	"github.com/Trendiisales/ChimeraMetals/metrics"
	"github.com/Trendiisales/ChimeraMetals/orderstore"
	"github.com/Trendiisales/ChimeraMetals/risk"
	"github.com/Trendiisales/ChimeraMetals/session"
	"github.com/Trendiisales/ChimeraMetals/storage"
	"github.com/Trendiisales/ChimeraMetals/supervision"
	"github.com/Trendiisales/ChimeraMetals/telemetry"
	"github.com/Trendiisales/ChimeraMetals/wire"
)

var tradedSymbols = []string{"XAUUSD", "XAGUSD"}

// engine bundles every long-lived component so the supervised goroutines
// below can close over one value instead of a long argument list.
type engine struct {
	logger zerolog.Logger
	cfg    *config.Config

	supervisor  *supervision.Supervisor
	heartbeat   *supervision.Heartbeat
	persistence *supervision.PositionPersistence
	monitor     *supervision.LivePositionMonitor
	executions  *supervision.ExecutionJournal

	auditDb   *storage.AuditDb
	eventLog  *journal.Log
	publisher *telemetry.Publisher

	riskGovernor *risk.Governor
	alloc        *allocator.Allocator
	execGovernor *execpolicy.Governor
	latencyEng   *latency.Engine
	escalationEn *escalation.Engine
	optimizer    *adaptive.Optimizer

	store *orderstore.Store

	quoteMachine   *session.Machine
	quoteTransport *session.Transport
	tradeMachine   *session.Machine
	tradeTransport *session.Transport

	symbolStates  map[string]*marketdata.State
	symbolWindows map[string]*marketdata.TickWindow
}

func main() {
	configPath := flag.String("config", "chimera.ini", "path to the INI configuration file")
	dataDir := flag.String("data-dir", ".", "directory for the position snapshot, heartbeat, and audit database")
	console := flag.Bool("console", true, "emit human-readable console logs instead of raw JSON")
	flag.Parse()

	logger := logging.New(os.Stdout, *console, "chimera")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	lock, err := supervision.AcquireSingleInstanceLock("chimera")
	if err != nil {
		logger.Fatal().Err(err).Msg("another instance is already running")
	}
	defer lock.Release()

	persistence := supervision.NewPositionPersistence(*dataDir + "/position_snapshot.dat")
	recovered, err := supervision.StartupRecover(persistence, bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		logger.Fatal().Err(err).Msg("operator aborted startup on a corrupt position snapshot")
	}
	if recovered.PendingReconciliation {
		logger.Warn().
			Str("symbol", recovered.Snapshot.Symbol).
			Float64("size", recovered.Snapshot.Size).
			Msg("recovered a position snapshot from a prior run; pending broker reconciliation")
	}

	auditDb, err := storage.NewAuditDb(*dataDir + "/audit.db")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open audit database")
	}
	defer auditDb.Close()

	eventLog := journal.New()
	replayEngine := journal.NewEngine(eventLog, logger)
	registerReplayHandlers(replayEngine)

	publisher := telemetry.NewPublisher()

	lossCluster := risk.NewLossClusterMonitor()
	statistical := risk.NewStatisticalMonitor()
	capitalAnomaly := risk.NewCapitalAnomalyGuard(8.0, func(observed, limit float64) {
		supervision.DisableEngine(fmt.Sprintf("capital anomaly: observed exposure %.2f exceeds hard limit %.2f", observed, limit))
		logger.Error().Float64("observed", observed).Float64("limit", limit).Msg("emergency shutdown: capital anomaly")
	})

	latencyEngine := latency.New(256)
	params := adaptive.NewParams()

	symbolStates := make(map[string]*marketdata.State, len(tradedSymbols))
	symbolWindows := make(map[string]*marketdata.TickWindow, len(tradedSymbols))
	for _, sym := range tradedSymbols {
		symbolStates[sym] = marketdata.NewState(sym)
		symbolWindows[sym] = marketdata.NewTickWindow(4096)
	}

	heartBtInt := time.Duration(cfg.FIX.HeartbeatInterval) * time.Second
	quoteMachine := session.New(session.Config{
		Role: session.RoleQuote, SenderCompID: cfg.FIX.SenderCompID, TargetCompID: cfg.FIX.TargetCompID,
		HeartBtInt: heartBtInt, Logger: logger,
	})
	tradeMachine := session.New(session.Config{
		Role: session.RoleTrade, SenderCompID: cfg.FIX.SenderCompID, TargetCompID: cfg.FIX.TargetCompID,
		HeartBtInt: heartBtInt, Logger: logger,
	})
	// The broker terminates TLS with a publicly trusted certificate; a
	// production deployment would additionally pin it via RootCAs. The
	// empty Config trusts the host's system root pool, the same default
	// every net/http client in this stack relies on.
	brokerTLSConfig := &tls.Config{}
	quoteTransport := session.NewTransport(quoteMachine, cfg.FIX.Host, cfg.FIX.Port, brokerTLSConfig, *dataDir+"/quote_seq.dat")
	tradeTransport := session.NewTransport(tradeMachine, cfg.FIX.Host, cfg.FIX.TradePort, brokerTLSConfig, *dataDir+"/trade_seq.dat")

	e := &engine{
		logger:         logger,
		cfg:            cfg,
		supervisor:     supervision.NewSupervisor(logger),
		heartbeat:      supervision.NewHeartbeat(*dataDir + "/heartbeat"),
		persistence:    persistence,
		executions:     supervision.NewExecutionJournal(),
		auditDb:        auditDb,
		eventLog:       eventLog,
		publisher:      publisher,
		riskGovernor:   risk.NewGovernor(risk.DefaultConfig(), lossCluster, statistical, capitalAnomaly),
		alloc:          allocator.New(allocator.DefaultConfig()),
		execGovernor:   execpolicy.New(execpolicy.DefaultConfig(), executionPolicySink{publisher: publisher}),
		latencyEng:     latencyEngine,
		escalationEn:   escalation.New(escalation.DefaultConfig(), noopEscalationSink{}),
		optimizer:      adaptive.New(params, shapeSource{statistical: statistical}, latencyEngine),
		store:          orderstore.New(),
		quoteMachine:   quoteMachine,
		quoteTransport: quoteTransport,
		tradeMachine:   tradeMachine,
		tradeTransport: tradeTransport,
		symbolStates:   symbolStates,
		symbolWindows:  symbolWindows,
	}

	// Querying the broker's own position view requires a live trade-session
	// transport; until one is connected the monitor treats every poll as a
	// query error rather than fabricate a broker position.
	e.monitor = supervision.NewLivePositionMonitor(func(symbol string) (supervision.BrokerPosition, error) {
		return supervision.BrokerPosition{}, fmt.Errorf("chimera: no broker connection established for %s", symbol)
	}, 5*time.Second)

	e.optimizer.Start()
	defer e.optimizer.Stop()

	stop := make(chan struct{})
	defer close(stop)

	e.supervisor.Go("live-position-monitor", func() { e.monitor.Run(stop) })
	e.supervisor.Go("heartbeat", func() { e.runHeartbeat(stop) })
	e.supervisor.Go("audit-snapshot", func() { e.runAuditSnapshot(stop) })
	e.supervisor.Go("quote-session", func() { e.quoteTransport.ReconnectLoop(stop, e.runQuoteSession) })
	e.supervisor.Go("trade-session", func() { e.tradeTransport.ReconnectLoop(stop, e.runTradeSession) })

	logger.Info().
		Str("run_id", auditDb.RunID()).
		Str("sender_comp_id", cfg.FIX.SenderCompID).
		Str("target_comp_id", cfg.FIX.TargetCompID).
		Int("dashboard_port", cfg.Dashboard.Port).
		Msg("chimera engine started")

	select {}
}

// runHeartbeat beats the liveness file on a fixed interval until the engine
// is globally disabled, letting an external watchdog process detect a hang
// even though the process itself never exits on its own.
func (e *engine) runHeartbeat(stop <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := e.heartbeat.Beat(); err != nil {
				e.logger.Error().Err(err).Msg("heartbeat write failed")
			}
			if supervision.EngineDisabled() {
				return
			}
		}
	}
}

// runAuditSnapshot periodically persists the desk's position and risk
// state to both the crash-recovery snapshot file and the append-only
// audit database, and refreshes the prometheus gauges a dashboard reads.
func (e *engine) runAuditSnapshot(stop <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			// A live trade session would feed real fills into e.store and
			// snap would reflect its current position; until one is wired
			// in, the flat snapshot still exercises the crash-recovery
			// write path end to end.
			snap := supervision.PositionSnapshot{}
			if err := e.persistence.Save(snap); err != nil {
				e.logger.Error().Err(err).Msg("position snapshot save failed")
			}
			if err := e.auditDb.RecordPosition(snap.Symbol, snap.Direction, snap.Size, snap.AvgPrice, snap.DailyPnL, now.UnixNano()); err != nil {
				e.logger.Error().Err(err).Msg("position audit row failed")
			}

			metrics.SetLatencyEMA(e.latencyEng.GetLatencyEMA())
			metrics.SetQualityEMA(e.latencyEng.QualityEMA())

			if e.executions.ExecutionCount() > 0 {
				e.executions.ClearOldExecutions()
			}

			telemetrySnap := e.publisher.Read()
			telemetrySnap.Timestamp = now
			telemetrySnap.TotalTrades = len(e.store.Open())
			e.publisher.Update(telemetrySnap)
		}
	}
}

// runQuoteSession drives one live connection of the quote-stream session:
// logon, subscribe every traded symbol, then service inbound market data
// and session-administrative traffic until the connection fails. The
// returned error sends the caller's ReconnectLoop back through backoff.
func (e *engine) runQuoteSession(tr *session.Transport) error {
	if err := tr.Send(e.buildLogon()); err != nil {
		return err
	}
	for _, sym := range tradedSymbols {
		req := builder.BuildMarketDataRequest(sym+"-md", []string{sym},
			constants.SubscriptionRequestTypeSubscribe, "0",
			e.cfg.FIX.SenderCompID, e.cfg.FIX.TargetCompID, 0,
			[]string{constants.MdEntryTypeBid, constants.MdEntryTypeOffer})
		if err := tr.Send(req); err != nil {
			return err
		}
	}

	for {
		msg, err := tr.Poll()
		if err != nil {
			return err
		}

		action, err := e.quoteMachine.HandleInbound(msg)
		if err != nil {
			return err
		}

		switch msg.MsgType() {
		case constants.MsgTypeLogon:
			tr.OnLogonSuccess()
		case constants.MsgTypeMarketDataSnapshot, constants.MsgTypeMarketDataIncremental:
			e.applyMarketData(msg)
		}

		if err := e.handleSessionAdminAction(tr, e.quoteMachine, msg, action); err != nil {
			return err
		}
		if e.quoteMachine.CheckHeartbeat() {
			return fmt.Errorf("chimera: quote session heartbeat timeout")
		}
	}
}

// runTradeSession drives one live connection of the order-execution
// session. Order submission and execution-report application are owned
// by orderstore.Store once a signal pipeline is emitting orders; this
// loop's job is the session-administrative traffic every FIX connection
// needs regardless of order flow (logon, heartbeat, gap recovery).
func (e *engine) runTradeSession(tr *session.Transport) error {
	if err := tr.Send(e.buildLogon()); err != nil {
		return err
	}

	for {
		msg, err := tr.Poll()
		if err != nil {
			return err
		}

		action, err := e.tradeMachine.HandleInbound(msg)
		if err != nil {
			return err
		}

		if msg.MsgType() == constants.MsgTypeLogon {
			tr.OnLogonSuccess()
		}

		if err := e.handleSessionAdminAction(tr, e.tradeMachine, msg, action); err != nil {
			return err
		}
		if e.tradeMachine.CheckHeartbeat() {
			return fmt.Errorf("chimera: trade session heartbeat timeout")
		}
	}
}

func (e *engine) buildLogon() *wire.Message {
	return builder.BuildLogon(builder.LogonParams{
		SenderCompID:    e.cfg.FIX.SenderCompID,
		TargetCompID:    e.cfg.FIX.TargetCompID,
		HeartBtInt:      e.cfg.FIX.HeartbeatInterval,
		ResetSeqNumFlag: e.cfg.FIX.ResetSeqNum,
		Username:        e.cfg.FIX.Username,
		Password:        e.cfg.FIX.Password,
	})
}

// handleSessionAdminAction replies to TestRequest and carries out the
// ResendRequest a Machine asks for, the administrative traffic common to
// both sessions regardless of their business content.
func (e *engine) handleSessionAdminAction(tr *session.Transport, m *session.Machine, msg *wire.Message, action session.Action) error {
	if msg.MsgType() == constants.MsgTypeTestRequest {
		reply := builder.BuildHeartbeat(e.cfg.FIX.SenderCompID, e.cfg.FIX.TargetCompID, 0, msg.GetOrEmpty(wire.TagTestReqID))
		if err := tr.Send(reply); err != nil {
			return err
		}
	}

	switch action {
	case session.ActionSendResend:
		low, high := m.PendingResend()
		resend := builder.BuildResendRequest(e.cfg.FIX.SenderCompID, e.cfg.FIX.TargetCompID, 0, low, high)
		return tr.Send(resend)
	case session.ActionDisconnect:
		return fmt.Errorf("chimera: session forced disconnect")
	}
	return nil
}

// applyMarketData folds a MarketDataSnapshot/Incremental's (269,270)
// entry groups into the per-symbol book state. Entries lacking a usable
// price are skipped rather than zeroing the book; a genuinely crossed or
// absent quote is caught downstream by State's own tick-validity filter.
func (e *engine) applyMarketData(msg *wire.Message) {
	symbol, ok := msg.Get(wire.TagSymbol)
	if !ok {
		return
	}
	state, ok := e.symbolStates[symbol]
	if !ok {
		return
	}

	var bid, ask float64
	for _, entry := range msg.Groups(wire.TagNoMdEntries) {
		pxStr, ok := entry.Get(wire.TagMdEntryPx)
		if !ok {
			continue
		}
		px, err := strconv.ParseFloat(pxStr, 64)
		if err != nil {
			continue
		}
		entryType, _ := entry.Get(wire.TagMdEntryType)
		switch entryType {
		case constants.MdEntryTypeBid:
			bid = px
		case constants.MdEntryTypeOffer:
			ask = px
		}
	}
	if bid > 0 && ask > 0 {
		state.UpdateBook(bid, ask, time.Now())
	}
}

type executionPolicySink struct {
	publisher *telemetry.Publisher
}

func (s executionPolicySink) Publish(state execpolicy.State) {
	metrics.SetExecutionPolicyMode(state.Mode.String())

	snap := s.publisher.Read()
	snap.LockdownMode = state.Mode == execpolicy.ModeDisabled
	snap.Timestamp = time.Now()
	s.publisher.Update(snap)
}

type noopEscalationSink struct{}

func (noopEscalationSink) Publish(escalation.Decision) {}

type shapeSource struct {
	statistical *risk.StatisticalMonitor
}

func (s shapeSource) ComputeSharpe(string) float64 {
	return s.statistical.GetRollingSharpe()
}

// registerReplayHandlers wires journal event types to the handlers that
// reconstruct in-memory state on a crash-recovery replay. None are
// required for the engine to start cold against an empty journal.
func registerReplayHandlers(engine *journal.Engine) {
}
