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

package wire

import (
	"fmt"
	"io"
)

// Framer extracts complete FIX messages from a byte stream. It keeps a
// single growable buffer and slides it forward on each complete message
// instead of reallocating per read, the same ring-buffer discipline the
// rest of this codebase applies to trade/order history.
type Framer struct {
	buf []byte
	r   io.Reader
	tmp []byte
}

// NewFramer wraps r, reading in tmpSize chunks.
func NewFramer(r io.Reader, tmpSize int) *Framer {
	if tmpSize <= 0 {
		tmpSize = 4096
	}
	return &Framer{r: r, tmp: make([]byte, tmpSize)}
}

// Next blocks until one complete FIX message is available and returns its
// raw bytes (including the trailing CheckSum field and SOH). The returned
// slice is only valid until the next call to Next.
func (f *Framer) Next() ([]byte, error) {
	for {
		if msg, ok := f.tryExtract(); ok {
			return msg, nil
		}
		n, err := f.r.Read(f.tmp)
		if n > 0 {
			f.buf = append(f.buf, f.tmp[:n]...)
		}
		if err != nil {
			if n > 0 {
				if msg, ok := f.tryExtract(); ok {
					return msg, nil
				}
			}
			return nil, err
		}
	}
}

// tryExtract looks for a complete 8=...10=nnn\x01 frame at the start of the
// buffer. It requires BeginString (8=) and BodyLength (9=) to be the first
// two fields, which every FIX message on this session guarantees.
func (f *Framer) tryExtract() ([]byte, bool) {
	beginPos := indexByte(f.buf, 0, SOH)
	if beginPos == -1 {
		return nil, false
	}
	if len(f.buf) < 3 || f.buf[0] != '8' || f.buf[1] != '=' {
		// Resync: drop bytes until the next plausible BeginString.
		f.resync()
		return nil, false
	}

	lenFieldStart := beginPos + 1
	if lenFieldStart+2 > len(f.buf) || f.buf[lenFieldStart] != '9' || f.buf[lenFieldStart+1] != '=' {
		return nil, false
	}
	lenValStart := lenFieldStart + 2
	lenValEnd := indexByte(f.buf, lenValStart, SOH)
	if lenValEnd == -1 {
		return nil, false
	}
	bodyLen := 0
	for _, c := range f.buf[lenValStart:lenValEnd] {
		if c < '0' || c > '9' {
			f.resync()
			return nil, false
		}
		bodyLen = bodyLen*10 + int(c-'0')
	}

	bodyStart := lenValEnd + 1
	bodyEnd := bodyStart + bodyLen
	// Trailing checksum field "10=nnn\x01" follows the body.
	checksumFieldEnd := bodyEnd + len("10=000\x01")
	if len(f.buf) < checksumFieldEnd {
		return nil, false
	}
	// CheckSum value length can vary (always 3 digits per spec, but guard
	// against malformed peers by scanning for the terminating SOH instead
	// of assuming a fixed width).
	sohAfterSum := indexByte(f.buf, bodyEnd, SOH)
	if sohAfterSum == -1 {
		return nil, false
	}

	total := sohAfterSum + 1
	msg := make([]byte, total)
	copy(msg, f.buf[:total])
	f.buf = f.buf[total:]
	return msg, true
}

func (f *Framer) resync() {
	next := indexByte(f.buf, 1, SOH)
	if next == -1 {
		f.buf = f.buf[:0]
		return
	}
	f.buf = f.buf[next+1:]
}

// FramingError reports a frame that failed an integrity check. Framer.Next
// does not return it; Next skips malformed bytes instead.
type FramingError struct {
	Reason string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("wire: framing error: %s", e.Reason)
}
