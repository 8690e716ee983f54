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
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Supervisor runs named goroutines and recovers panics out of them so a
// single faulting engine component disables itself instead of taking
// the whole process down.
type Supervisor struct {
	logger zerolog.Logger

	mu       sync.Mutex
	disabled map[string]bool

	wg sync.WaitGroup
}

// NewSupervisor creates a Supervisor that logs recovered panics through
// logger.
func NewSupervisor(logger zerolog.Logger) *Supervisor {
	return &Supervisor{logger: logger, disabled: make(map[string]bool)}
}

// Go runs fn in its own goroutine under name. A panic inside fn is
// recovered, logged, and marks name disabled; it never propagates.
func (s *Supervisor) Go(name string, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.markDisabled(name)
				s.logger.Error().
					Str("component", name).
					Interface("panic", r).
					Msg("component panicked; disabling")
			}
		}()
		fn()
	}()
}

func (s *Supervisor) markDisabled(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled[name] = true
}

// Disabled reports whether name has panicked and been taken offline.
func (s *Supervisor) Disabled(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled[name]
}

// Wait blocks until every goroutine started by Go has returned (normally
// or via a recovered panic).
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// engineDisabled latches true once DisableEngine is called, for callers
// that need a single global "stop trading" signal rather than per-component
// state. A panic recovered by Supervisor.Go does not set it.
var engineDisabled atomic.Bool

// DisableEngine latches the global engine-disabled flag.
func DisableEngine(reason string) {
	engineDisabled.Store(true)
}

// EngineDisabled reports whether DisableEngine has ever been called.
func EngineDisabled() bool {
	return engineDisabled.Load()
}

// ResetEngineDisabled clears the global flag, for tests and for an
// operator-confirmed restart after a fault.
func ResetEngineDisabled() {
	engineDisabled.Store(false)
}
