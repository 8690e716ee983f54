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

package telemetry

import (
	"sync"
	"testing"
	"time"
)

func TestPublisher_ReadReturnsLatestUpdate(t *testing.T) {
	p := NewPublisher()
	if got := p.Read(); got.TotalTrades != 0 {
		t.Fatalf("expected zero-value snapshot before any update, got %+v", got)
	}

	now := time.Now()
	p.Update(Snapshot{GlobalExposure: 2.5, TotalTrades: 7, Timestamp: now})
	got := p.Read()
	if got.GlobalExposure != 2.5 || got.TotalTrades != 7 || !got.Timestamp.Equal(now) {
		t.Fatalf("expected updated snapshot, got %+v", got)
	}
}

func TestPublisher_ConcurrentReadsDuringWrites(t *testing.T) {
	p := NewPublisher()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			p.Update(Snapshot{TotalTrades: i})
		}
	}()

	for i := 0; i < 100; i++ {
		_ = p.Read()
	}
	wg.Wait()
}
