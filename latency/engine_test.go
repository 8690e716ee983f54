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

package latency

import (
	"math"
	"testing"
	"time"
)

func TestEngine_FullLifecyclePublishesStats(t *testing.T) {
	e := New(4)
	e.OnOrderSent("ord-1", 100.0, 0.5)
	e.OnAck("ord-1")
	e.OnFill("ord-1", 100.3)

	select {
	case stats := <-e.Telemetry:
		if stats.OrderID != "ord-1" {
			t.Fatalf("expected stats for ord-1, got %+v", stats)
		}
		if math.Abs(stats.Slippage-0.3) > 1e-9 {
			t.Fatalf("expected slippage 0.3, got %v", stats.Slippage)
		}
		if stats.QualityScore < 0 || stats.QualityScore > 1 {
			t.Fatalf("expected quality score in [0,1], got %v", stats.QualityScore)
		}
	default:
		t.Fatal("expected a stats record to be published on fill")
	}
}

func TestEngine_FillWithoutAckLeavesZeroSendToAck(t *testing.T) {
	e := New(4)
	e.OnOrderSent("ord-2", 50.0, 0.2)
	e.OnFill("ord-2", 50.0)

	stats := <-e.Telemetry
	if stats.SendToAck != 0 || stats.AckToFill != 0 {
		t.Fatalf("expected zero ack-phase latencies without an ack, got %+v", stats)
	}
}

func TestEngine_UnknownOrderIDIgnored(t *testing.T) {
	e := New(4)
	e.OnAck("never-sent")
	e.OnFill("never-sent", 1.0)
	select {
	case s := <-e.Telemetry:
		t.Fatalf("expected no stats for an unknown order, got %+v", s)
	default:
	}
}

func TestEngine_EMAsUpdateAfterFill(t *testing.T) {
	e := New(4)
	if e.GetLatencyEMA() != 0 || e.GetSlippageEMA() != 0 {
		t.Fatal("expected zero EMAs before any fill")
	}
	e.OnOrderSent("ord-3", 10.0, 0.1)
	e.OnFill("ord-3", 10.5)
	<-e.Telemetry

	if e.GetSlippageEMA() == 0 {
		t.Fatal("expected nonzero slippage EMA after a slipped fill")
	}
}

func TestEngine_FullOrderDeletedFromActive(t *testing.T) {
	e := New(4)
	e.OnOrderSent("ord-4", 1.0, 0.1)
	e.OnFill("ord-4", 1.0)
	<-e.Telemetry

	// A second fill for the same, now-completed order id must be ignored.
	e.OnFill("ord-4", 2.0)
	select {
	case s := <-e.Telemetry:
		t.Fatalf("expected no second stats record for a completed order, got %+v", s)
	default:
	}
}

func TestEngine_TelemetrySendNeverBlocksOnFullChannel(t *testing.T) {
	e := New(1)
	e.OnOrderSent("a", 1, 0.1)
	e.OnFill("a", 1)
	e.OnOrderSent("b", 1, 0.1)

	done := make(chan struct{})
	go func() {
		e.OnFill("b", 1) // channel already has one buffered item
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected OnFill to not block when the telemetry channel is full")
	}
}
