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

import "github.com/rs/zerolog"

// Handler decodes and acts on one event's payload.
type Handler func(Event)

// Engine drives a Log's events back through type-registered Handlers in
// original sequence order. An event whose Type has no registered Handler
// is seek-skipped (its payload was already consumed off the wire, so
// nothing further to skip) but logged, matching the schema's tolerance
// for an unrecognized or not-yet-understood event type.
type Engine struct {
	log      *Log
	logger   zerolog.Logger
	handlers map[EventType]Handler
}

// NewEngine creates an Engine replaying log's events through logger.
func NewEngine(log *Log, logger zerolog.Logger) *Engine {
	return &Engine{log: log, logger: logger, handlers: make(map[EventType]Handler)}
}

// RegisterHandler arms the dispatcher for typ. Re-registering overwrites
// the previous handler.
func (e *Engine) RegisterHandler(typ EventType, h Handler) {
	e.handlers[typ] = h
}

// Replay dispatches every journaled event, in sequence order, to its
// registered Handler.
func (e *Engine) Replay() {
	for _, ev := range e.log.Events() {
		h, ok := e.handlers[ev.Type]
		if !ok {
			e.logger.Warn().
				Uint16("type", uint16(ev.Type)).
				Uint32("sequence", ev.Sequence).
				Msg("replay: unrecognized event type, skipping")
			continue
		}
		h(ev)
	}
}
