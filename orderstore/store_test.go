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

package orderstore

import "testing"

func TestStore_SubmitAndGet(t *testing.T) {
	s := New()
	s.Submit(&Order{ClOrdID: 1, Symbol: "XAU", Side: SideBuy, Quantity: 2})

	got := s.Get(1)
	if got == nil {
		t.Fatal("expected to retrieve the submitted order")
	}
	if got.State != StateNew {
		t.Fatalf("expected a freshly submitted order to be NEW, got %s", got.State)
	}
	if got.LeavesQty != 2 {
		t.Fatalf("expected LeavesQty to seed from Quantity, got %v", got.LeavesQty)
	}
}

func TestStore_GetReturnsDefensiveCopy(t *testing.T) {
	s := New()
	s.Submit(&Order{ClOrdID: 1, Symbol: "XAU"})

	got := s.Get(1)
	got.Symbol = "MUTATED"

	again := s.Get(1)
	if again.Symbol != "XAU" {
		t.Fatal("expected Get to return a copy independent of internal state")
	}
}

func TestStore_AckMovesToAckedAndIndexesOrderID(t *testing.T) {
	s := New()
	s.Submit(&Order{ClOrdID: 1, Symbol: "XAU"})

	if err := s.Ack(1, "broker-order-1"); err != nil {
		t.Fatalf("Ack: %v", err)
	}
	got := s.GetByOrderID("broker-order-1")
	if got == nil || got.State != StateAcked {
		t.Fatal("expected the order to be retrievable by OrderID and ACKED")
	}
}

func TestStore_AckTwiceIsAnInvalidTransition(t *testing.T) {
	s := New()
	s.Submit(&Order{ClOrdID: 1})
	if err := s.Ack(1, "o-1"); err != nil {
		t.Fatalf("Ack: %v", err)
	}
	if err := s.Ack(1, "o-1"); err == nil {
		t.Fatal("expected a second Ack from ACKED to be rejected")
	}
}

func TestStore_RecordFillPartialThenFull(t *testing.T) {
	s := New()
	s.Submit(&Order{ClOrdID: 1, Quantity: 10})
	s.Ack(1, "o-1")

	ok, err := s.RecordFill(1, ExecutionRecord{ExecID: "e-1", Quantity: 4, Price: 1950})
	if err != nil || !ok {
		t.Fatalf("RecordFill (partial): ok=%v err=%v", ok, err)
	}
	got := s.Get(1)
	if got.State != StatePartial {
		t.Fatalf("expected PARTIAL after a partial fill, got %s", got.State)
	}
	if got.LeavesQty != 6 {
		t.Fatalf("expected LeavesQty=6, got %v", got.LeavesQty)
	}

	ok, err = s.RecordFill(1, ExecutionRecord{ExecID: "e-2", Quantity: 6, Price: 1952})
	if err != nil || !ok {
		t.Fatalf("RecordFill (final): ok=%v err=%v", ok, err)
	}
	got = s.Get(1)
	if got.State != StateFilled {
		t.Fatalf("expected FILLED after the remaining quantity fills, got %s", got.State)
	}
	if got.LeavesQty != 0 {
		t.Fatalf("expected LeavesQty=0, got %v", got.LeavesQty)
	}
}

func TestStore_RecordFillComputesVolumeWeightedAvgPx(t *testing.T) {
	s := New()
	s.Submit(&Order{ClOrdID: 1, Quantity: 10})
	s.Ack(1, "o-1")
	s.RecordFill(1, ExecutionRecord{ExecID: "e-1", Quantity: 5, Price: 1900})
	s.RecordFill(1, ExecutionRecord{ExecID: "e-2", Quantity: 5, Price: 1910})

	got := s.Get(1)
	if got.AvgPx != 1905 {
		t.Fatalf("expected volume-weighted avg px 1905, got %v", got.AvgPx)
	}
}

func TestStore_RecordFillDuplicateExecIDIsIgnored(t *testing.T) {
	s := New()
	s.Submit(&Order{ClOrdID: 1, Quantity: 10})
	s.Ack(1, "o-1")
	s.RecordFill(1, ExecutionRecord{ExecID: "e-1", Quantity: 4, Price: 1950})

	ok, err := s.RecordFill(1, ExecutionRecord{ExecID: "e-1", Quantity: 4, Price: 1950})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected a duplicate exec-id to be ignored, not recorded again")
	}
	if got := s.Get(1); got.CumQty != 4 {
		t.Fatalf("expected CumQty to reflect only the first fill, got %v", got.CumQty)
	}
}

func TestStore_BustFillReversesAFilledOrder(t *testing.T) {
	s := New()
	s.Submit(&Order{ClOrdID: 1, Quantity: 5})
	s.Ack(1, "o-1")
	s.RecordFill(1, ExecutionRecord{ExecID: "e-1", Quantity: 5, Price: 1950})

	rec, ok, err := s.BustFill("e-1")
	if err != nil || !ok {
		t.Fatalf("BustFill: ok=%v err=%v", ok, err)
	}
	if rec.Quantity != 5 || rec.Price != 1950 {
		t.Fatalf("expected the reversed record to carry the original fill data, got %+v", rec)
	}
	got := s.Get(1)
	if got.State != StateBusted {
		t.Fatalf("expected BUSTED after a bust, got %s", got.State)
	}
}

func TestStore_BustFillUnknownExecIDIsIgnoredNotAnError(t *testing.T) {
	s := New()
	_, ok, err := s.BustFill("does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected an unknown bust reference to be reported as not-ok, not an error")
	}
}

func TestStore_OpenExcludesTerminalOrders(t *testing.T) {
	s := New()
	s.Submit(&Order{ClOrdID: 1, Quantity: 5})
	s.Submit(&Order{ClOrdID: 2, Quantity: 5})
	s.Ack(1, "o-1")
	s.Ack(2, "o-2")
	s.RecordFill(2, ExecutionRecord{ExecID: "e-1", Quantity: 5, Price: 1900})

	open := s.Open()
	if len(open) != 1 || open[0].ClOrdID != 1 {
		t.Fatalf("expected only the unfilled order to be open, got %+v", open)
	}
}

func TestStore_RemoveDropsBothIndexes(t *testing.T) {
	s := New()
	s.Submit(&Order{ClOrdID: 1})
	s.Ack(1, "o-1")
	s.Remove(1)

	if s.Get(1) != nil {
		t.Fatal("expected Get to return nil after Remove")
	}
	if s.GetByOrderID("o-1") != nil {
		t.Fatal("expected GetByOrderID to return nil after Remove")
	}
}
