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

// Package config loads the engine's INI configuration file: a [fix]
// section describing the broker session and a [dashboard] section
// describing the read-only telemetry server.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FIX holds the broker session parameters.
type FIX struct {
	Host              string
	Port              int
	TradePort         int
	SenderCompID      string
	TargetCompID      string
	TargetSubID       string
	Username          string
	Password          string
	HeartbeatInterval int
	ResetSeqNum       bool
}

// Dashboard holds the read-only telemetry server parameters.
type Dashboard struct {
	Port int
}

// Config is the fully parsed configuration file.
type Config struct {
	FIX       FIX
	Dashboard Dashboard
}

// Load reads and parses the INI file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads an INI document with [fix] and [dashboard] sections.
// Comments begin with '#'; whitespace around keys and values is trimmed.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	section := ""

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("config: line %d: expected key=value, got %q", lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if err := assign(cfg, section, key, value); err != nil {
			return nil, fmt.Errorf("config: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: scan: %w", err)
	}
	return cfg, nil
}

func assign(cfg *Config, section, key, value string) error {
	switch section {
	case "fix":
		return assignFIX(&cfg.FIX, key, value)
	case "dashboard":
		if key == "port" {
			port, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("dashboard.port: %w", err)
			}
			cfg.Dashboard.Port = port
			return nil
		}
		return fmt.Errorf("unknown dashboard key %q", key)
	case "":
		return fmt.Errorf("key %q outside of any section", key)
	default:
		return fmt.Errorf("unknown section %q", section)
	}
}

func assignFIX(f *FIX, key, value string) error {
	switch key {
	case "host":
		f.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("fix.port: %w", err)
		}
		f.Port = port
	case "trade_port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("fix.trade_port: %w", err)
		}
		f.TradePort = port
	case "sender_comp_id":
		f.SenderCompID = value
	case "target_comp_id":
		f.TargetCompID = value
	case "target_sub_id":
		f.TargetSubID = value
	case "username":
		f.Username = value
	case "password":
		f.Password = value
	case "heartbeat_interval":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("fix.heartbeat_interval: %w", err)
		}
		f.HeartbeatInterval = interval
	case "reset_seq_num":
		reset, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("fix.reset_seq_num: %w", err)
		}
		f.ResetSeqNum = reset
	default:
		return fmt.Errorf("unknown fix key %q", key)
	}
	return nil
}
