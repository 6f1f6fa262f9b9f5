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

// Package decoder implements wire-level decoding of the o5m/o5c format.
package decoder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"m4o.io/o5m/internal/core"
	"m4o.io/o5m/model"
)

// o5m dataset type bytes.
const (
	datasetNode      = 0x10
	datasetWay       = 0x11
	datasetRelation  = 0x12
	datasetBBox      = 0xdb
	datasetTimestamp = 0xdc
	datasetHeader    = 0xe0

	flagEOD   = 0xfe
	flagReset = 0xff

	// sizedLimit bounds the range of type bytes that carry a
	// length-prefixed payload.
	sizedLimit = 0xf0

	// maxEagerGrow caps speculative payload-buffer growth for a declared
	// record length. The declared length is untrusted input; past the cap
	// the buffer grows only as real bytes arrive, so a bogus huge length
	// fails as a truncated payload once the source runs dry.
	maxEagerGrow = 4 << 20
)

// Session holds all state for one traversal of an o5m stream: the
// running delta counters, the string table, the payload buffer, and the
// byte offset. A session is single-owner and single-use.
type Session struct {
	rdr     *bufio.Reader
	payload *core.PooledBuffer
	cur     cursor
	offset  int64

	tbl stringTable

	lastNodeID    int64
	lastWayID     int64
	lastRelID     int64
	lastRef       [4]int64 // node, way, relation, unknown
	lastTimestamp int64
	lastChangeset int64
	lastLon       int32
	lastLat       int32

	version int32
	uid     model.UID
	user    string
	hasUser bool

	headerTag         string
	header            *model.Header
	bounds            []model.BoundingBox
	fileTimestamp     time.Time
	uploadDiscouraged bool
}

// NewSession creates a session reading from rdr. Begin must be called
// before Next.
func NewSession(rdr io.Reader, bufferSize int) *Session {
	payload := core.NewPooledBuffer()
	if bufferSize > payload.Cap() {
		payload.Grow(bufferSize)
	}

	s := &Session{
		rdr:     bufio.NewReader(rdr),
		payload: payload,
	}
	s.reset()

	return s
}

// Begin consumes the mandatory leading reset marker.
func (s *Session) Begin() error {
	b, err := s.rdr.ReadByte()
	if err != nil {
		return fmt.Errorf("missing leading reset byte: %w", ErrMalformedStream)
	}

	s.offset++

	if b != flagReset {
		return fmt.Errorf("stream starts with %#02x, not a reset byte: %w", b, ErrMalformedStream)
	}

	s.reset()

	return nil
}

// Next decodes records until the next node, way, or relation is
// produced. Bounding boxes, headers, and file timestamps are absorbed
// into session state; delete markers produce nothing. The end of the
// stream is reported as io.EOF.
func (s *Session) Next(ctx context.Context) (model.Entity, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("reading was canceled at stream offset %d: %w", s.offset, ErrCancelled)
		default:
		}

		kind, err := s.rdr.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		} else if err != nil {
			return nil, fmt.Errorf("read dataset type: %w", err)
		}

		s.offset++

		switch {
		case kind < sizedLimit:
			entity, err := s.nextSized(kind)
			if err != nil {
				return nil, err
			}

			if entity != nil {
				return entity, nil
			}

		case kind == flagEOD:
			return nil, io.EOF

		case kind == flagReset:
			s.reset()

		default:
			// 0xf0..0xfd carry no length and no payload; ignore.
		}
	}
}

// nextSized handles one length-prefixed dataset. The returned entity is
// nil for non-primitive datasets and delete markers.
func (s *Session) nextSized(kind byte) (model.Entity, error) {
	size, n, err := readUvarint(s.rdr)
	if err != nil {
		return nil, fmt.Errorf("read dataset length: %w", ErrMalformedStream)
	}

	s.offset += int64(n)

	switch kind {
	case datasetNode, datasetWay, datasetRelation, datasetBBox, datasetTimestamp, datasetHeader:
		if err := s.fill(size); err != nil {
			return nil, err
		}
	default:
		return nil, s.skip(size)
	}

	switch kind {
	case datasetNode:
		return s.readNode()
	case datasetWay:
		return s.readWay()
	case datasetRelation:
		return s.readRelation()
	case datasetBBox:
		return nil, s.readBBox()
	case datasetTimestamp:
		return nil, s.readFileTimestamp()
	default:
		return nil, s.readHeader()
	}
}

// fill materializes exactly size payload bytes and rewinds the cursor.
func (s *Session) fill(size uint64) error {
	if size > math.MaxInt64 {
		return fmt.Errorf("dataset length %d is not representable: %w", size, ErrMalformedStream)
	}

	s.payload.Reset()

	if grow := int(min(size, maxEagerGrow)); grow > s.payload.Cap() {
		s.payload.Grow(grow)
	}

	if _, err := io.CopyN(s.payload, s.rdr, int64(size)); err != nil {
		return fmt.Errorf("dataset payload of %d bytes truncated: %w", size, ErrMalformedStream)
	}

	s.offset += int64(size)
	s.cur = cursor{buf: s.payload.Bytes()}

	return nil
}

// skip discards the payload of an unrecognized sized dataset. The
// declared length counts payload bytes only; the length field itself
// was consumed while reading it.
func (s *Session) skip(size uint64) error {
	for size > 0 {
		chunk := size
		if chunk > 1<<30 {
			chunk = 1 << 30
		}

		n, err := s.rdr.Discard(int(chunk))
		s.offset += int64(n)

		if err != nil {
			return fmt.Errorf("skipping unknown dataset: %w", ErrMalformedStream)
		}

		size -= uint64(n)
	}

	return nil
}

// reset zeroes all delta counters and clears the string table. Invoked
// at session start and on every reset marker in the stream.
func (s *Session) reset() {
	s.lastNodeID = 0
	s.lastWayID = 0
	s.lastRelID = 0
	s.lastRef = [4]int64{}
	s.lastTimestamp = 0
	s.lastChangeset = 0
	s.lastLon = 0
	s.lastLat = 0
	s.tbl.reset()
}

// Header returns the decoded header record, or nil if none was seen yet.
func (s *Session) Header() *model.Header {
	return s.header
}

// Bounds returns the bounding boxes decoded so far, in stream order.
func (s *Session) Bounds() []model.BoundingBox {
	return s.bounds
}

// FileTimestamp returns the stream's file timestamp record, zero if absent.
func (s *Session) FileTimestamp() time.Time {
	return s.fileTimestamp
}

// UploadDiscouraged reports whether any decoded record carried version 0.
func (s *Session) UploadDiscouraged() bool {
	return s.uploadDiscouraged
}

// Offset returns the number of stream bytes consumed so far.
func (s *Session) Offset() int64 {
	return s.offset
}

// Close releases the session's payload buffer.
func (s *Session) Close() error {
	return s.payload.Close()
}
