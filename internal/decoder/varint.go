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

package decoder

import (
	"io"
)

// cursor walks a framed record payload. Every read is bounded by the
// declared payload length; running past it is a protocol violation, not
// an I/O condition.
type cursor struct {
	buf []byte
	pos int
}

// remaining returns the number of payload bytes not yet consumed.
func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

func (c *cursor) readByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, errPayloadTruncated
	}

	b := c.buf[c.pos]
	c.pos++

	return b, nil
}

// uvarint decodes an unsigned o5m varint: seven low bits per byte, high
// bit signals continuation.
func (c *cursor) uvarint() (uint64, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, err
	}

	result := uint64(b)
	if b&0x80 == 0 { // just one byte
		return result, nil
	}

	result &= 0x7f
	shift := 7

	for {
		if b, err = c.readByte(); err != nil {
			return 0, err
		}

		if b&0x80 == 0 {
			return result + uint64(b)<<shift, nil
		}

		result += uint64(b&0x7f) << shift
		shift += 7
	}
}

// svarint decodes a signed o5m varint. The low bit of the raw magnitude
// is the sign flag: clear means magnitude>>1, set means -1-(magnitude>>1).
// This is the format's own mapping, not protobuf zig-zag.
func (c *cursor) svarint() (int64, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, err
	}

	if b&0x80 == 0 { // just one byte
		if b&0x01 == 1 {
			return -1 - int64(b>>1), nil
		}

		return int64(b >> 1), nil
	}

	sign := b & 0x01
	result := uint64(b&0x7e) >> 1
	shift := 6

	for {
		if b, err = c.readByte(); err != nil {
			return 0, err
		}

		if b&0x80 == 0 {
			break
		}

		result += uint64(b&0x7f) << shift
		shift += 7
	}

	result += uint64(b) << shift
	if sign == 1 {
		return -1 - int64(result), nil
	}

	return int64(result), nil
}

// cstring reads a null-terminated UTF-8 field.
func (c *cursor) cstring() (string, error) {
	start := c.pos

	for {
		b, err := c.readByte()
		if err != nil {
			return "", err
		}

		if b == 0 {
			return string(c.buf[start : c.pos-1]), nil
		}
	}
}

// readUvarint decodes an unsigned varint directly from the raw stream;
// the outer framing length is read this way because no payload buffer
// exists yet. It reports the number of bytes consumed.
func readUvarint(rdr io.ByteReader) (uint64, int, error) {
	b, err := rdr.ReadByte()
	if err != nil {
		return 0, 0, err
	}

	n := 1

	result := uint64(b)
	if b&0x80 == 0 { // just one byte
		return result, n, nil
	}

	result &= 0x7f
	shift := 7

	for {
		if b, err = rdr.ReadByte(); err != nil {
			return 0, n, err
		}

		n++

		if b&0x80 == 0 {
			return result + uint64(b)<<shift, n, nil
		}

		result += uint64(b&0x7f) << shift
		shift += 7
	}
}
