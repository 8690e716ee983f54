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

// Package logging sets up the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a zerolog.Logger writing to w. When console is true, output
// is rendered through zerolog's human-readable console writer (for a
// terminal session); otherwise records are emitted as newline-delimited
// JSON, suited to log aggregation.
func New(w io.Writer, console bool, component string) zerolog.Logger {
	var out io.Writer = w
	if console {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().Timestamp().Str("component", component).Logger()
}

// NewConsole is a convenience wrapper over New for the common case of a
// human-facing logger writing to stdout.
func NewConsole(component string) zerolog.Logger {
	return New(os.Stdout, true, component)
}
