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

package session

import (
	"encoding/binary"
	"fmt"
	"os"
)

// SeqCheckpoint is the durable record written to a session's
// <session>_seq.dat file on every disconnect: the next outbound and
// next expected-inbound sequence numbers, so a restart resumes the
// session instead of renegotiating sequence state from scratch.
type SeqCheckpoint struct {
	OutSeq     uint32
	ExpectedIn uint32
}

// SaveSeqCheckpoint writes c to path via a temp file plus rename, so a
// crash mid-write never leaves a half-written checkpoint behind.
func SaveSeqCheckpoint(path string, c SeqCheckpoint) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], c.OutSeq)
	binary.BigEndian.PutUint32(buf[4:8], c.ExpectedIn)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("session: write seq checkpoint: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadSeqCheckpoint reads the checkpoint file at path. ok is false (with
// a nil error) if no checkpoint exists yet - a fresh install, not a
// corruption.
func LoadSeqCheckpoint(path string) (c SeqCheckpoint, ok bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return SeqCheckpoint{}, false, nil
	}
	if err != nil {
		return SeqCheckpoint{}, false, fmt.Errorf("session: read seq checkpoint: %w", err)
	}
	if len(data) != 8 {
		return SeqCheckpoint{}, false, fmt.Errorf("session: corrupt seq checkpoint: expected 8 bytes, got %d", len(data))
	}
	return SeqCheckpoint{
		OutSeq:     binary.BigEndian.Uint32(data[0:4]),
		ExpectedIn: binary.BigEndian.Uint32(data[4:8]),
	}, true, nil
}
