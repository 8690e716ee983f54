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

package allocator

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// auditTolerance is the dollar tolerance between the allocator's internal
// per-symbol exposure bookkeeping and the externally observed global
// exposure before the auditor latches a corruption flag.
const auditTolerance = 1.0

// ExposureSource supplies the externally observed global exposure to
// compare against the allocator's own bookkeeping - normally a broker
// reconciliation feed or the position snapshot maintained by supervision.
type ExposureSource interface {
	GlobalExposure() float64
}

// Auditor periodically cross-checks the allocator's internal exposure
// bookkeeping against an external source of truth, mirroring the original
// five-minute reconciliation sweep.
type Auditor struct {
	alloc    *Allocator
	source   ExposureSource
	interval time.Duration
	logger   zerolog.Logger
}

// NewAuditor creates an Auditor comparing alloc against source every
// interval (defaulting to five minutes).
func NewAuditor(alloc *Allocator, source ExposureSource, interval time.Duration, logger zerolog.Logger) *Auditor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Auditor{alloc: alloc, source: source, interval: interval, logger: logger}
}

// Run blocks, auditing on each tick until ctx is canceled.
func (a *Auditor) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.auditOnce()
		}
	}
}

func (a *Auditor) auditOnce() {
	internal := a.alloc.TotalExposure()
	external := a.source.GlobalExposure()

	if internal < 0 && external >= 0 {
		a.logger.Error().Float64("internal", internal).Msg("allocator reports negative exposure")
		a.alloc.MarkCorrupted()
		return
	}

	diff := internal - external
	if diff < 0 {
		diff = -diff
	}
	if diff > auditTolerance {
		a.logger.Error().
			Float64("internal", internal).
			Float64("external", external).
			Float64("diff", diff).
			Msg("allocator exposure diverges from external source beyond tolerance")
		a.alloc.MarkCorrupted()
	}
}
