// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package wiretest builds synthetic o5m streams for tests. Production
// code never writes the format; these helpers exist so decode tests can
// construct inputs without multi-megabyte fixtures.
package wiretest

import (
	"golang.org/x/exp/constraints"
)

// Dataset type bytes and structural markers, mirroring the wire format.
const (
	Node      = 0x10
	Way       = 0x11
	Relation  = 0x12
	BBox      = 0xdb
	Timestamp = 0xdc
	Header    = 0xe0
	EOD       = 0xfe
	Reset     = 0xff
)

// AppendUvarint appends the o5m unsigned varint encoding of v.
func AppendUvarint[T constraints.Unsigned](buf []byte, v T) []byte {
	u := uint64(v)

	for u >= 0x80 {
		buf = append(buf, byte(u)|0x80)
		u >>= 7
	}

	return append(buf, byte(u))
}

// AppendSvarint appends the o5m signed varint encoding of v: the low
// bit of the magnitude is the sign flag, negatives map to -1-(mag>>1).
func AppendSvarint[T constraints.Signed](buf []byte, v T) []byte {
	i := int64(v)

	var mag uint64
	if i < 0 {
		mag = uint64(-i-1)<<1 | 1
	} else {
		mag = uint64(i) << 1
	}

	return AppendUvarint(buf, mag)
}

// AppendString appends s with its null terminator.
func AppendString(buf []byte, s string) []byte {
	buf = append(buf, s...)

	return append(buf, 0)
}

// AppendPair appends a fresh string pair: a zero reference marker
// followed by two null-terminated fields.
func AppendPair(buf []byte, key, value string) []byte {
	buf = append(buf, 0)
	buf = AppendString(buf, key)

	return AppendString(buf, value)
}

// Record frames payload as one dataset: type byte, unsigned-varint
// length, payload.
func Record(kind byte, payload []byte) []byte {
	buf := []byte{kind}
	buf = AppendUvarint(buf, uint64(len(payload)))

	return append(buf, payload...)
}

// Stream assembles a complete o5m byte stream: the mandatory leading
// reset marker, the framed records, and the end-of-data marker.
func Stream(records ...[]byte) []byte {
	buf := []byte{Reset}
	for _, r := range records {
		buf = append(buf, r...)
	}

	return append(buf, EOD)
}

// HeaderRecord frames a header dataset with the given magic, normally
// "o5m2" or "o5c2".
func HeaderRecord(magic string) []byte {
	return Record(Header, []byte(magic))
}

// BBoxRecord frames a bounding box dataset from wire-scale coordinates
// (hundredths of nano-degrees).
func BBoxRecord(minLon, minLat, maxLon, maxLat int32) []byte {
	var payload []byte
	for _, v := range []int32{minLon, minLat, maxLon, maxLat} {
		payload = AppendSvarint(payload, v)
	}

	return Record(BBox, payload)
}
