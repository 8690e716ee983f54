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

// Package storage provides SQLite-backed audit logging for order
// lifecycle events, fills, position snapshots and risk metrics.
// Prepared statements are initialized once and reused for all batch
// operations, avoiding SQL parsing overhead on each insert.
package storage

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// AuditDb provides SQLite storage for the engine's audit trail.
type AuditDb struct {
	db    *sql.DB
	runID string

	// Prepared statements for batch operations - prepared once in NewAuditDb
	stmtOrderEvent *sql.Stmt
	stmtFill       *sql.Stmt
	stmtPosition   *sql.Stmt
	stmtRisk       *sql.Stmt
}

// NewAuditDb opens (creating if necessary) the audit database at dbPath and
// stamps a fresh, randomly generated run ID into the runs table so every
// audit row inserted by this process can later be correlated back to one
// process lifetime, even across restarts that reuse the same database file.
func NewAuditDb(dbPath string) (*AuditDb, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	adb := &AuditDb{db: db, runID: uuid.New().String()}
	if err := adb.initSchema(); err != nil {
		_ = db.Close() // Cleanup on error - return value ignored
		return nil, fmt.Errorf("failed to initialize schema: %v", err)
	}
	if _, err := db.Exec(insertRunQuery, adb.runID, time.Now().UnixNano()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to record run id: %v", err)
	}

	// Prepare statements for batch operations - avoids SQL parsing on each insert
	if adb.stmtOrderEvent, err = db.Prepare(insertOrderEventQuery); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare order event statement: %v", err)
	}
	if adb.stmtFill, err = db.Prepare(insertFillQuery); err != nil {
		_ = adb.stmtOrderEvent.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare fill statement: %v", err)
	}
	if adb.stmtPosition, err = db.Prepare(insertPositionQuery); err != nil {
		_ = adb.stmtOrderEvent.Close()
		_ = adb.stmtFill.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare position statement: %v", err)
	}
	if adb.stmtRisk, err = db.Prepare(insertRiskQuery); err != nil {
		_ = adb.stmtOrderEvent.Close()
		_ = adb.stmtFill.Close()
		_ = adb.stmtPosition.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare risk statement: %v", err)
	}

	log.Printf("audit database initialized at %s", dbPath)
	return adb, nil
}

// RunID returns the random identifier generated for this process's lifetime.
func (adb *AuditDb) RunID() string { return adb.runID }

func (adb *AuditDb) Close() error {
	// Close prepared statements first - errors ignored as we're shutting down
	if adb.stmtOrderEvent != nil {
		_ = adb.stmtOrderEvent.Close()
	}
	if adb.stmtFill != nil {
		_ = adb.stmtFill.Close()
	}
	if adb.stmtPosition != nil {
		_ = adb.stmtPosition.Close()
	}
	if adb.stmtRisk != nil {
		_ = adb.stmtRisk.Close()
	}
	return adb.db.Close()
}

// RecordOrderEvent logs an order lifecycle transition.
func (adb *AuditDb) RecordOrderEvent(clOrdID uint64, orderID, symbol, side, state string, eventTimeNs int64) error {
	_, err := adb.db.Exec(insertOrderEventQuery, clOrdID, orderID, symbol, side, state, eventTimeNs)
	return err
}

// RecordFill logs an execution fill.
func (adb *AuditDb) RecordFill(execID string, clOrdID uint64, symbol, side string, qty, price float64, fillTimeNs int64) error {
	_, err := adb.db.Exec(insertFillQuery, execID, clOrdID, symbol, side, qty, price, fillTimeNs)
	return err
}

// RecordPosition logs a position snapshot.
func (adb *AuditDb) RecordPosition(symbol string, direction int, size, avgPrice, dailyPnL float64, snapTimeNs int64) error {
	_, err := adb.db.Exec(insertPositionQuery, symbol, direction, size, avgPrice, dailyPnL, snapTimeNs)
	return err
}

// RecordRisk logs a risk-governor snapshot.
func (adb *AuditDb) RecordRisk(equityUSD, riskScale, dailyDrawdownPct float64, snapTimeNs int64) error {
	_, err := adb.db.Exec(insertRiskQuery, equityUSD, riskScale, dailyDrawdownPct, snapTimeNs)
	return err
}

// Batch operations for better performance

func (adb *AuditDb) BeginTransaction() (*sql.Tx, error) {
	return adb.db.Begin()
}

// RecordOrderEventBatch inserts an order event using the prepared statement within a transaction.
// Using tx.Stmt() binds the prepared statement to the transaction context.
func (adb *AuditDb) RecordOrderEventBatch(tx *sql.Tx, clOrdID uint64, orderID, symbol, side, state string, eventTimeNs int64) error {
	_, err := tx.Stmt(adb.stmtOrderEvent).Exec(clOrdID, orderID, symbol, side, state, eventTimeNs)
	return err
}

// RecordFillBatch inserts a fill using the prepared statement within a transaction.
func (adb *AuditDb) RecordFillBatch(tx *sql.Tx, execID string, clOrdID uint64, symbol, side string, qty, price float64, fillTimeNs int64) error {
	_, err := tx.Stmt(adb.stmtFill).Exec(execID, clOrdID, symbol, side, qty, price, fillTimeNs)
	return err
}

// RecordPositionBatch inserts a position snapshot using the prepared statement.
func (adb *AuditDb) RecordPositionBatch(tx *sql.Tx, symbol string, direction int, size, avgPrice, dailyPnL float64, snapTimeNs int64) error {
	_, err := tx.Stmt(adb.stmtPosition).Exec(symbol, direction, size, avgPrice, dailyPnL, snapTimeNs)
	return err
}

// RecordRiskBatch inserts a risk snapshot using the prepared statement.
func (adb *AuditDb) RecordRiskBatch(tx *sql.Tx, equityUSD, riskScale, dailyDrawdownPct float64, snapTimeNs int64) error {
	_, err := tx.Stmt(adb.stmtRisk).Exec(equityUSD, riskScale, dailyDrawdownPct, snapTimeNs)
	return err
}
