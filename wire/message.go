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
	"strconv"
	"strings"
)

// SOH is the FIX field delimiter.
const SOH = '\x01'

// Field is a single ordered tag/value pair. Messages keep fields in an
// ordered slice rather than a map: outbound messages must preserve insertion
// order (BeginString/BodyLength/MsgType first, CheckSum last) and most
// messages carry fewer than twenty fields, so linear lookups are cheap and
// avoid a map allocation per message.
type Field struct {
	Tag   Tag
	Value string
}

// field is kept as an internal alias so the rest of this file (written
// before Field was exported for group construction) reads unchanged.
type field = Field

// Message is a mutable, ordered set of FIX fields plus zero or more
// repeating groups, built up by callers before encoding to the wire or
// decoded off it. It replaces a session-engine's Message/Header/Body/
// FieldMap triad with one flat type.
type Message struct {
	fields []field
	groups map[Tag][]Group
}

// Group is one instance of a repeating group: an ordered list of fields
// belonging to a single group entry.
type Group []Field

func NewMessage() *Message {
	return &Message{}
}

// Set assigns tag to value, overwriting any prior value for that tag.
func (m *Message) Set(tag Tag, value string) *Message {
	for i := range m.fields {
		if m.fields[i].Tag == tag {
			m.fields[i].Value = value
			return m
		}
	}
	m.fields = append(m.fields, field{tag, value})
	return m
}

// SetIfNotEmpty assigns tag to value only when value is non-empty.
func (m *Message) SetIfNotEmpty(tag Tag, value string) *Message {
	if value != "" {
		m.Set(tag, value)
	}
	return m
}

// SetInt is a convenience wrapper over Set for integer fields.
func (m *Message) SetInt(tag Tag, value int) *Message {
	return m.Set(tag, strconv.Itoa(value))
}

// Get returns the value of tag and whether it was present.
func (m *Message) Get(tag Tag) (string, bool) {
	for i := range m.fields {
		if m.fields[i].Tag == tag {
			return m.fields[i].Value, true
		}
	}
	return "", false
}

// GetOrEmpty returns the value of tag, or "" if absent.
func (m *Message) GetOrEmpty(tag Tag) string {
	v, _ := m.Get(tag)
	return v
}

// GetInt returns the integer value of tag, or 0 if absent or unparsable.
func (m *Message) GetInt(tag Tag) int {
	v, ok := m.Get(tag)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}

// MsgType returns tag 35.
func (m *Message) MsgType() string { return m.GetOrEmpty(TagMsgType) }

// AddGroup appends entry as a new instance of the repeating group identified
// by countTag (e.g. TagNoMdEntries).
func (m *Message) AddGroup(countTag Tag, entry Group) {
	if m.groups == nil {
		m.groups = make(map[Tag][]Group)
	}
	m.groups[countTag] = append(m.groups[countTag], entry)
}

// Groups returns the repeating-group instances recorded under countTag.
func (m *Message) Groups(countTag Tag) []Group {
	return m.groups[countTag]
}

// Get returns the value of tag within a decoded group entry.
func (g Group) Get(tag Tag) (string, bool) {
	for _, f := range g {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}

// Encode renders m to the wire, computing BodyLength (9) and CheckSum (10).
// BeginString (8), MsgType (35), and the sender/target/sendingTime header
// fields must already be set by the caller via buildHeader; Encode only
// injects body length and checksum around them.
func (m *Message) Encode() []byte {
	var body strings.Builder
	for _, f := range m.fields {
		if f.Tag == TagBeginString || f.Tag == TagBodyLength || f.Tag == TagCheckSum {
			continue
		}
		body.WriteString(f.Tag.String())
		body.WriteByte('=')
		body.WriteString(f.Value)
		body.WriteByte(SOH)
	}
	for countTag, instances := range m.groups {
		body.WriteString(countTag.String())
		body.WriteByte('=')
		body.WriteString(strconv.Itoa(len(instances)))
		body.WriteByte(SOH)
		for _, entry := range instances {
			for _, f := range entry {
				body.WriteString(f.Tag.String())
				body.WriteByte('=')
				body.WriteString(f.Value)
				body.WriteByte(SOH)
			}
		}
	}

	beginString := m.GetOrEmpty(TagBeginString)
	bodyStr := body.String()

	var out strings.Builder
	out.WriteString(TagBeginString.String())
	out.WriteByte('=')
	out.WriteString(beginString)
	out.WriteByte(SOH)

	bodyLength := len(bodyStr)
	out.WriteString(TagBodyLength.String())
	out.WriteByte('=')
	out.WriteString(strconv.Itoa(bodyLength))
	out.WriteByte(SOH)

	out.WriteString(bodyStr)

	checksum := Checksum([]byte(out.String()))
	out.WriteString(TagCheckSum.String())
	out.WriteByte('=')
	out.WriteString(checksumString(checksum))
	out.WriteByte(SOH)

	return []byte(out.String())
}

// Checksum is the FIX checksum: sum of all bytes up to (not including) the
// CheckSum field, modulo 256.
func Checksum(b []byte) int {
	sum := 0
	for _, c := range b {
		sum += int(c)
	}
	return sum % 256
}

func checksumString(sum int) string {
	s := strconv.Itoa(sum)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
