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

// HOT PATH: Decode is on the inbound critical path for every session and
// market-data message. It single-pass scans the raw bytes between SOH
// delimiters rather than building a generic field map first, the same
// technique the rest of this package's callers use for MD-entry scanning.
package wire

import (
	"strconv"
)

// groupMembers lists the countTag->memberTags mapping needed to fold a flat
// tag/value stream back into repeating-group entries. Only the groups this
// system actually parses are listed; unrecognized repeating groups fall back
// to flat fields on the message (harmless for callers that never read them).
var groupMembers = map[Tag]map[Tag]bool{
	TagNoMdEntryTypes: {TagMdEntryType: true},
	TagNoRelatedSym:   {TagSymbol: true},
	TagNoMdEntries: {
		TagMdEntryType: true, TagMdEntryPx: true, TagMdEntrySize: true,
		TagMdEntryTime: true, TagMdEntryPositionNo: true, TagAggressorSide: true,
	},
}

// Decode parses a single, already-delimited FIX message (as produced by
// Framer.Next) into a Message. It never returns an error for malformed
// trailing bytes; callers that care about checksum/body-length integrity
// should call Verify separately, mirroring the split between framing and
// validation the inbound pipeline uses.
func Decode(raw []byte) *Message {
	m := NewMessage()

	var activeCountTag Tag
	var activeMembers map[Tag]bool
	var current Group

	pos := 0
	n := len(raw)
	for pos < n {
		eq := indexByte(raw, pos, '=')
		if eq == -1 {
			break
		}
		tagNum, _ := strconv.Atoi(string(raw[pos:eq]))
		tag := Tag(tagNum)

		valStart := eq + 1
		soh := indexByte(raw, valStart, SOH)
		var value []byte
		var next int
		if soh == -1 {
			value = raw[valStart:]
			next = n
		} else {
			value = raw[valStart:soh]
			next = soh + 1
		}
		pos = next

		if members, ok := groupMembers[tag]; ok {
			if activeCountTag != 0 && len(current) > 0 {
				m.AddGroup(activeCountTag, current)
			}
			activeCountTag = tag
			activeMembers = members
			current = nil
			continue
		}

		if activeMembers != nil && activeMembers[tag] {
			if len(current) > 0 {
				for _, f := range current {
					if f.Tag == tag {
						m.AddGroup(activeCountTag, current)
						current = nil
						break
					}
				}
			}
			current = append(current, field{tag, string(value)})
			continue
		}

		if activeCountTag != 0 {
			m.AddGroup(activeCountTag, current)
			activeCountTag = 0
			activeMembers = nil
			current = nil
		}
		m.Set(tag, string(value))
	}

	if activeCountTag != 0 && len(current) > 0 {
		m.AddGroup(activeCountTag, current)
	}

	return m
}

func indexByte(b []byte, from int, c byte) int {
	for i := from; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}

// Verify recomputes BodyLength and CheckSum against raw and reports whether
// both match the values the message itself carries.
func Verify(raw []byte) bool {
	m := Decode(raw)
	wantLen := m.GetInt(TagBodyLength)
	wantSum := m.GetInt(TagCheckSum)

	bodyStart := indexByte(raw, 0, SOH)
	if bodyStart == -1 {
		return false
	}
	bodyStart = indexByte(raw, bodyStart+1, SOH)
	if bodyStart == -1 {
		return false
	}
	bodyStart++

	sumEnd := lastIndexByte(raw, SOH, len(raw)-1)
	sumEnd = lastIndexByte(raw, SOH, sumEnd-1)
	if sumEnd == -1 {
		return false
	}
	sumEnd++

	gotLen := sumEnd - bodyStart
	if gotLen != wantLen {
		return false
	}
	gotSum := Checksum(raw[:sumEnd])
	return gotSum == wantSum
}

func lastIndexByte(b []byte, c byte, from int) int {
	if from >= len(b) {
		from = len(b) - 1
	}
	for i := from; i >= 0; i-- {
		if b[i] == c {
			return i
		}
	}
	return -1
}
