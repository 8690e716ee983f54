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

package risk

import (
	"testing"
	"time"
)

func TestLossClusterMonitor_ArmsCooldownAtThreshold(t *testing.T) {
	m := NewLossClusterMonitor()
	now := time.Now()

	for i := 0; i < lossClusterThreshold-1; i++ {
		m.RecordTrade(false, now)
	}
	if m.IsCooldownActive(now) {
		t.Fatal("expected no cooldown before threshold reached")
	}

	m.RecordTrade(false, now)
	if !m.IsCooldownActive(now) {
		t.Fatal("expected cooldown armed at threshold")
	}
	if m.IsCooldownActive(now.Add(lossClusterCooldown + time.Second)) {
		t.Fatal("expected cooldown to expire")
	}
}

func TestLossClusterMonitor_WinResetsStreak(t *testing.T) {
	m := NewLossClusterMonitor()
	now := time.Now()

	for i := 0; i < lossClusterThreshold-1; i++ {
		m.RecordTrade(false, now)
	}
	m.RecordTrade(true, now)
	m.RecordTrade(false, now)
	if m.IsCooldownActive(now) {
		t.Fatal("expected streak reset by the intervening win")
	}
}

func TestLossClusterMonitor_ResetCooldown(t *testing.T) {
	m := NewLossClusterMonitor()
	now := time.Now()
	for i := 0; i < lossClusterThreshold; i++ {
		m.RecordTrade(false, now)
	}
	m.ResetCooldown()
	if m.IsCooldownActive(now) {
		t.Fatal("expected ResetCooldown to clear the latch")
	}
}
