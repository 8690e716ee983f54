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

package storage

const schemaDDL = `
CREATE TABLE IF NOT EXISTS order_events (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	cl_ord_id     INTEGER NOT NULL,
	order_id      TEXT NOT NULL,
	symbol        TEXT NOT NULL,
	side          TEXT NOT NULL,
	state         TEXT NOT NULL,
	event_time_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_events_cl_ord_id ON order_events(cl_ord_id);

CREATE TABLE IF NOT EXISTS fills (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	exec_id       TEXT NOT NULL UNIQUE,
	cl_ord_id     INTEGER NOT NULL,
	symbol        TEXT NOT NULL,
	side          TEXT NOT NULL,
	quantity      REAL NOT NULL,
	price         REAL NOT NULL,
	fill_time_ns  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fills_cl_ord_id ON fills(cl_ord_id);

CREATE TABLE IF NOT EXISTS position_snapshots (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol         TEXT NOT NULL,
	direction      INTEGER NOT NULL,
	size           REAL NOT NULL,
	avg_price      REAL NOT NULL,
	daily_pnl      REAL NOT NULL,
	snapshot_time_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_position_snapshots_symbol ON position_snapshots(symbol);

CREATE TABLE IF NOT EXISTS risk_snapshots (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	equity_usd          REAL NOT NULL,
	risk_scale          REAL NOT NULL,
	daily_drawdown_pct  REAL NOT NULL,
	snapshot_time_ns    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	started_at_ns INTEGER NOT NULL
);
`

const insertOrderEventQuery = `INSERT INTO order_events (cl_ord_id, order_id, symbol, side, state, event_time_ns) VALUES (?, ?, ?, ?, ?, ?)`

const insertFillQuery = `INSERT INTO fills (exec_id, cl_ord_id, symbol, side, quantity, price, fill_time_ns) VALUES (?, ?, ?, ?, ?, ?, ?)`

const insertPositionQuery = `INSERT INTO position_snapshots (symbol, direction, size, avg_price, daily_pnl, snapshot_time_ns) VALUES (?, ?, ?, ?, ?, ?)`

const insertRiskQuery = `INSERT INTO risk_snapshots (equity_usd, risk_scale, daily_drawdown_pct, snapshot_time_ns) VALUES (?, ?, ?, ?)`

const insertRunQuery = `INSERT INTO runs (id, started_at_ns) VALUES (?, ?)`

func (adb *AuditDb) initSchema() error {
	_, err := adb.db.Exec(schemaDDL)
	return err
}
