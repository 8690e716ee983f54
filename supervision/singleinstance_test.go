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

package supervision

import (
	"fmt"
	"testing"
	"time"
)

func TestAcquireSingleInstanceLock_FirstCallerWins(t *testing.T) {
	name := fmt.Sprintf("chimera-test-%d", time.Now().UnixNano())
	l, err := AcquireSingleInstanceLock(name)
	if err != nil {
		t.Fatalf("AcquireSingleInstanceLock: %v", err)
	}
	defer l.Release()

	if !l.Locked() {
		t.Fatal("expected the first caller to obtain the lock")
	}
}

func TestAcquireSingleInstanceLock_SecondCallerIsRefused(t *testing.T) {
	name := fmt.Sprintf("chimera-test-%d", time.Now().UnixNano())
	first, err := AcquireSingleInstanceLock(name)
	if err != nil {
		t.Fatalf("AcquireSingleInstanceLock (first): %v", err)
	}
	defer first.Release()

	second, err := AcquireSingleInstanceLock(name)
	if err != nil {
		t.Fatalf("AcquireSingleInstanceLock (second): %v", err)
	}
	defer second.Release()

	if second.Locked() {
		t.Fatal("expected a second instance to be refused the lock")
	}
}

func TestSingleInstanceLock_ReleaseThenReacquireSucceeds(t *testing.T) {
	name := fmt.Sprintf("chimera-test-%d", time.Now().UnixNano())
	first, err := AcquireSingleInstanceLock(name)
	if err != nil {
		t.Fatalf("AcquireSingleInstanceLock (first): %v", err)
	}
	if !first.Locked() {
		t.Fatal("expected first to obtain the lock")
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	second, err := AcquireSingleInstanceLock(name)
	if err != nil {
		t.Fatalf("AcquireSingleInstanceLock (second): %v", err)
	}
	defer second.Release()
	if !second.Locked() {
		t.Fatal("expected a lock to be reacquirable after release")
	}
}
