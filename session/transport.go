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
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/Trendiisales/ChimeraMetals/wire"
)

const (
	minReconnectBackoff = 1 * time.Second
	maxReconnectBackoff = 30 * time.Second
)

// SessionClosed is the terminal marker Poll returns once the underlying
// connection has been cleanly closed, distinguishing that from a
// transport-level failure that should still force a reconnect.
var SessionClosed = errors.New("session: closed")

// WriteError reports a failed or partial outbound write. Send does not
// retry: a write short of the full encoded message is reported as an
// error, and the bytes already written are not recalled from the wire.
type WriteError struct{ Reason string }

func (e *WriteError) Error() string { return "session: write error: " + e.Reason }

// Transport owns the bidirectional TLS byte stream for one FIX session:
// TCP+TLS connect, atomic message writes, inbound framing, sequence
// checkpointing, and exponential-backoff reconnection all live here so
// Machine itself never touches a socket.
type Transport struct {
	machine        *Machine
	addr           string
	tlsConfig      *tls.Config
	checkpointPath string
	dialTimeout    time.Duration

	connMu sync.Mutex
	conn   net.Conn
	framer *wire.Framer

	backoffMu sync.Mutex
	backoff   time.Duration
}

// NewTransport creates a Transport dialing host:port with tlsConfig,
// checkpointing sequence numbers to checkpointPath on every disconnect.
func NewTransport(m *Machine, host string, port int, tlsConfig *tls.Config, checkpointPath string) *Transport {
	return &Transport{
		machine:        m,
		addr:           fmt.Sprintf("%s:%d", host, port),
		tlsConfig:      tlsConfig,
		checkpointPath: checkpointPath,
		dialTimeout:    10 * time.Second,
		backoff:        minReconnectBackoff,
	}
}

// Connect opens TCP + TLS, resets the machine's gap/throttle/heartbeat
// state for the new connection, and restores the last checkpointed
// sequence numbers. An accepted Logon with ResetSeqNumFlag=Y, handled
// by the caller after Connect returns, supersedes whatever checkpoint
// this restores.
func (t *Transport) Connect() error {
	dialer := &net.Dialer{Timeout: t.dialTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", t.addr, t.tlsConfig)
	if err != nil {
		return &TransportError{Reason: err.Error()}
	}

	t.connMu.Lock()
	t.conn = conn
	t.framer = wire.NewFramer(conn, 4096)
	t.connMu.Unlock()

	t.machine.ResetOnReconnect()

	if cp, ok, err := LoadSeqCheckpoint(t.checkpointPath); err == nil && ok {
		t.machine.RestoreCheckpoint(cp)
	}

	return nil
}

// Send stamps msg with the next outbound sequence number and writes the
// encoded frame in a single Write call; a failed or short write is
// returned as a *WriteError.
func (t *Transport) Send(msg *wire.Message) error {
	msg.SetInt(wire.TagMsgSeqNum, t.machine.NextOutSeq())
	raw := msg.Encode()

	t.connMu.Lock()
	conn := t.conn
	t.connMu.Unlock()
	if conn == nil {
		return &WriteError{Reason: "not connected"}
	}

	n, err := conn.Write(raw)
	if err != nil {
		return &WriteError{Reason: err.Error()}
	}
	if n != len(raw) {
		return &WriteError{Reason: fmt.Sprintf("short write: wrote %d of %d bytes", n, len(raw))}
	}
	return nil
}

// Poll blocks until one complete inbound message is framed and
// checksum-verified, or the connection fails. A checksum failure is
// reported as a *wire.FramingError - fatal at the session level, forcing
// disconnect-and-reconnect per the failure semantics every caller should
// apply uniformly. Malformed bytes ahead of a frame are skipped by the
// Framer and are not reported.
func (t *Transport) Poll() (*wire.Message, error) {
	t.connMu.Lock()
	framer := t.framer
	t.connMu.Unlock()
	if framer == nil {
		return nil, SessionClosed
	}

	raw, err := framer.Next()
	if err != nil {
		if err == io.EOF {
			return nil, SessionClosed
		}
		return nil, err
	}
	if !wire.Verify(raw) {
		return nil, &wire.FramingError{Reason: "checksum mismatch"}
	}
	return wire.Decode(raw), nil
}

// Close checkpoints the current sequence numbers to stable storage and
// closes the socket. Safe to call even if Connect never succeeded.
func (t *Transport) Close() error {
	if err := SaveSeqCheckpoint(t.checkpointPath, t.machine.Checkpoint()); err != nil {
		return err
	}

	t.connMu.Lock()
	conn := t.conn
	t.conn = nil
	t.framer = nil
	t.connMu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

// OnLogonSuccess resets the reconnect backoff to its floor. The caller
// invokes this once an accepted Logon brings the session to
// StatusActive, per the reconnect policy's "reset on any successful
// logon" rule.
func (t *Transport) OnLogonSuccess() {
	t.backoffMu.Lock()
	t.backoff = minReconnectBackoff
	t.backoffMu.Unlock()
}

func (t *Transport) nextBackoff() time.Duration {
	t.backoffMu.Lock()
	defer t.backoffMu.Unlock()
	d := t.backoff
	t.backoff *= 2
	if t.backoff > maxReconnectBackoff {
		t.backoff = maxReconnectBackoff
	}
	return d
}

// ReconnectLoop repeatedly connects and hands the live Transport to
// onConnect, which should drive the session (send Logon, poll inbound
// messages, call OnLogonSuccess) until it returns - normally because
// Poll failed or the heartbeat watchdog declared the session stale. A
// failed Connect or a returning onConnect both trigger the same
// exponential backoff (1s doubling to a 30s ceiling) before the next
// attempt. The loop exits only when stop is closed.
func (t *Transport) ReconnectLoop(stop <-chan struct{}, onConnect func(*Transport) error) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := t.Connect(); err != nil {
			if !sleepOrStop(stop, t.nextBackoff()) {
				return
			}
			continue
		}

		_ = onConnect(t)
		_ = t.Close()

		if !sleepOrStop(stop, t.nextBackoff()) {
			return
		}
	}
}

func sleepOrStop(stop <-chan struct{}, d time.Duration) bool {
	select {
	case <-stop:
		return false
	case <-time.After(d):
		return true
	}
}
