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
	"bytes"
	"testing"
	"time"
)

func TestLog_WriteToThenReadFromRoundTrips(t *testing.T) {
	l := New()
	t1 := time.Unix(0, 1_700_000_000_000_000_000)
	t2 := time.Unix(0, 1_700_000_001_000_000_000)
	if _, err := l.Append(EventOrder, t1, []byte(`{"side":"BUY"}`)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := l.Append(EventFill, t2, nil); err != nil {
		t.Fatalf("Append: %v", err)
	}

	var buf bytes.Buffer
	if err := l.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	loaded := New()
	if err := loaded.ReadFrom(&buf); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}

	got := loaded.Events()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != EventOrder || got[0].Sequence != 0 || string(got[0].Payload) != `{"side":"BUY"}` {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	if !got[0].At.Equal(t1) {
		t.Fatalf("expected timestamp round trip, got %v want %v", got[0].At, t1)
	}
	if got[1].Type != EventFill || got[1].Sequence != 1 || len(got[1].Payload) != 0 {
		t.Fatalf("unexpected second event: %+v", got[1])
	}
}

func TestLog_SequenceNumbersAreMonotonicFromZero(t *testing.T) {
	l := New()
	ev0, _ := l.Append(EventMarket, time.Now(), nil)
	ev1, _ := l.Append(EventMarket, time.Now(), nil)
	ev2, _ := l.Append(EventMarket, time.Now(), nil)
	if ev0.Sequence != 0 || ev1.Sequence != 1 || ev2.Sequence != 2 {
		t.Fatalf("expected sequence 0,1,2, got %d,%d,%d", ev0.Sequence, ev1.Sequence, ev2.Sequence)
	}
}

func TestLog_SaveThenLoadRoundTripsThroughDisk(t *testing.T) {
	l := New()
	l.Append(EventSignal, time.Now(), []byte("payload"))

	path := t.TempDir() + "/events.bin"
	if err := l.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := New()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.Events(); len(got) != 1 || string(got[0].Payload) != "payload" {
		t.Fatalf("expected one round-tripped event, got %+v", got)
	}
}

func TestLog_ReadFromResumesSequenceCounter(t *testing.T) {
	l := New()
	l.Append(EventMarket, time.Now(), nil)
	l.Append(EventMarket, time.Now(), nil)

	var buf bytes.Buffer
	l.WriteTo(&buf)

	loaded := New()
	loaded.ReadFrom(&buf)
	next, _ := loaded.Append(EventMarket, time.Now(), nil)
	if next.Sequence != 2 {
		t.Fatalf("expected resumed sequence 2, got %d", next.Sequence)
	}
}

func TestLog_EmptyLogRoundTrips(t *testing.T) {
	l := New()
	var buf bytes.Buffer
	if err := l.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	loaded := New()
	if err := loaded.ReadFrom(&buf); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if got := loaded.Events(); len(got) != 0 {
		t.Fatalf("expected no events, got %+v", got)
	}
}

func TestLog_EventsReturnsACopy(t *testing.T) {
	l := New()
	l.Append(EventRisk, time.Now(), []byte("x"))
	got := l.Events()
	got[0].Payload[0] = 'y'
	if string(l.Events()[0].Payload) != "x" {
		t.Fatal("expected Events() payload slices to be independent copies")
	}
}
