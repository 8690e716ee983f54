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

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONModeEmitsParseableLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false, "test-component")
	logger.Info().Str("key", "value").Msg("hello")

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if decoded["component"] != "test-component" {
		t.Fatalf("expected component field to be set, got %v", decoded["component"])
	}
	if decoded["key"] != "value" {
		t.Fatalf("expected key field to round-trip, got %v", decoded["key"])
	}
}

func TestNew_ConsoleModeProducesHumanReadableOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true, "test-component")
	logger.Info().Msg("hello world")

	if !strings.Contains(buf.String(), "hello world") {
		t.Fatalf("expected console output to contain the message, got %q", buf.String())
	}
}
