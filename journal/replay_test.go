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
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestEngine_ReplayDispatchesToRegisteredHandlerInOrder(t *testing.T) {
	l := New()
	l.Append(EventMarket, time.Now(), nil)
	l.Append(EventOrder, time.Now(), nil)
	l.Append(EventFill, time.Now(), nil)

	e := NewEngine(l, zerolog.Nop())
	var seen []EventType
	h := func(ev Event) { seen = append(seen, ev.Type) }
	e.RegisterHandler(EventMarket, h)
	e.RegisterHandler(EventOrder, h)
	e.RegisterHandler(EventFill, h)

	e.Replay()

	if len(seen) != 3 || seen[0] != EventMarket || seen[1] != EventOrder || seen[2] != EventFill {
		t.Fatalf("expected replay in append order, got %v", seen)
	}
}

func TestEngine_UnregisteredTypeIsSkippedNotFatal(t *testing.T) {
	l := New()
	l.Append(EventMarket, time.Now(), nil)
	l.Append(EventRisk, time.Now(), nil)

	e := NewEngine(l, zerolog.Nop())
	var seen []EventType
	e.RegisterHandler(EventMarket, func(ev Event) { seen = append(seen, ev.Type) })

	e.Replay()

	if len(seen) != 1 || seen[0] != EventMarket {
		t.Fatalf("expected only the registered type dispatched, got %v", seen)
	}
}

func TestEngine_NoHandlersRegisteredSkipsEverything(t *testing.T) {
	l := New()
	l.Append(EventMarket, time.Now(), nil)
	e := NewEngine(l, zerolog.Nop())
	e.Replay() // must not panic with an empty handler registry
}
