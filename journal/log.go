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

package journal

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"
)

// headerSize is timestamp_ns(8) + type(2) + payload_size(2) + sequence(4).
const headerSize = 16

// maxPayloadSize bounds a single record's payload to what a uint16
// payload_size field can express.
const maxPayloadSize = math.MaxUint16

// Log is an in-memory, append-only sequence of Events, guarded by its own
// mutex so several goroutines may call Append. Sequence numbers are assigned
// monotonically from 0 as events are appended.
type Log struct {
	mu      sync.Mutex
	events  []Event
	nextSeq uint32
}

// New creates an empty Log.
func New() *Log {
	return &Log{}
}

// Append builds an Event from typ, at and payload, stamps it with the next
// sequence number, adds it to the log and returns it.
func (l *Log) Append(typ EventType, at time.Time, payload []byte) (Event, error) {
	if len(payload) > maxPayloadSize {
		return Event{}, fmt.Errorf("journal: payload of %d bytes exceeds max %d", len(payload), maxPayloadSize)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ev := Event{Type: typ, At: at, Sequence: l.nextSeq, Payload: payload}
	l.nextSeq++
	l.events = append(l.events, ev)
	return ev, nil
}

// Events returns a deep copy of the journaled events in append (sequence)
// order; mutating a returned Event's Payload never affects the log.
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	for i, e := range l.events {
		out[i] = e
		if e.Payload != nil {
			out[i].Payload = append([]byte(nil), e.Payload...)
		}
	}
	return out
}

// Save writes every event to path in the log's binary format, overwriting
// any existing file.
func (l *Log) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("journal: create %s: %w", path, err)
	}
	defer f.Close()
	return l.WriteTo(f)
}

// WriteTo serializes every event to w as header-plus-payload records,
// little-endian.
func (l *Log) WriteTo(w io.Writer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var header [headerSize]byte
	for _, e := range l.events {
		binary.LittleEndian.PutUint64(header[0:8], uint64(e.At.UnixNano()))
		binary.LittleEndian.PutUint16(header[8:10], uint16(e.Type))
		binary.LittleEndian.PutUint16(header[10:12], uint16(len(e.Payload)))
		binary.LittleEndian.PutUint32(header[12:16], e.Sequence)

		if _, err := w.Write(header[:]); err != nil {
			return fmt.Errorf("journal: write header: %w", err)
		}
		if len(e.Payload) > 0 {
			if _, err := w.Write(e.Payload); err != nil {
				return fmt.Errorf("journal: write payload: %w", err)
			}
		}
	}
	return nil
}

// Load replaces the in-memory log with the events read from path.
func (l *Log) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("journal: open %s: %w", path, err)
	}
	defer f.Close()
	return l.ReadFrom(f)
}

// ReadFrom replaces the in-memory log with events decoded from r, reading
// until r reports a clean EOF at a record boundary. The internal sequence
// counter resumes from one past the highest sequence read, so further
// Appends continue the series rather than restarting it.
func (l *Log) ReadFrom(r io.Reader) error {
	var events []Event
	var maxSeq uint32
	var any bool

	var header [headerSize]byte
	for {
		if _, err := io.ReadFull(r, header[:]); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("journal: read header: %w", err)
		}

		tsNs := binary.LittleEndian.Uint64(header[0:8])
		typ := EventType(binary.LittleEndian.Uint16(header[8:10]))
		payloadSize := binary.LittleEndian.Uint16(header[10:12])
		seq := binary.LittleEndian.Uint32(header[12:16])

		payload := make([]byte, payloadSize)
		if payloadSize > 0 {
			if _, err := io.ReadFull(r, payload); err != nil {
				return fmt.Errorf("journal: read payload: %w", err)
			}
		}

		events = append(events, Event{Type: typ, At: time.Unix(0, int64(tsNs)), Sequence: seq, Payload: payload})
		if !any || seq > maxSeq {
			maxSeq = seq
			any = true
		}
	}

	l.mu.Lock()
	l.events = events
	if any {
		l.nextSeq = maxSeq + 1
	}
	l.mu.Unlock()
	return nil
}
