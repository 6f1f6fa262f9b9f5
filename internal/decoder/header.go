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
	"fmt"
	"log/slog"
	"time"

	"m4o.io/o5m/model"
)

// readHeader verifies the stream identifier; known values are "o5m2"
// and "o5c2". The first three bytes become the tag attached to
// subsequent bounding boxes.
func (s *Session) readHeader() error {
	buf := s.cur.buf
	if len(buf) < 4 || buf[0] != 'o' || buf[1] != '5' || (buf[2] != 'c' && buf[2] != 'm') || buf[3] != '2' {
		return fmt.Errorf("header %q: %w", string(buf), ErrUnsupportedHeader)
	}

	s.headerTag = string(buf[:3])
	s.header = &model.Header{Format: s.headerTag, Timestamp: s.fileTimestamp}

	return nil
}

// readBBox decodes a bounding box dataset. Degenerate or out-of-range
// boxes are dropped with a warning; they do not fail the session.
func (s *Session) readBBox() error {
	var edges [4]int32 // min-lon, min-lat, max-lon, max-lat

	for i := range edges {
		v, err := s.cur.svarint()
		if err != nil {
			return err
		}

		edges[i] = int32(v)
	}

	bounds := model.BoundingBox{
		Left:   model.ToDegrees(edges[0]).Rounded(),
		Bottom: model.ToDegrees(edges[1]).Rounded(),
		Right:  model.ToDegrees(edges[2]).Rounded(),
		Top:    model.ToDegrees(edges[3]).Rounded(),
		Origin: s.headerTag,
	}

	if bounds.Collapsed() || !bounds.Valid() {
		slog.Warn("discarding invalid bounds", "bounds", bounds.String())

		return nil
	}

	s.bounds = append(s.bounds, bounds)

	return nil
}

// readFileTimestamp decodes the stream-wide timestamp dataset. The
// value has no effect on record decoding; it is only retained for
// callers that want it.
func (s *Session) readFileTimestamp() error {
	ts, err := s.cur.svarint()
	if err != nil {
		return err
	}

	s.fileTimestamp = time.Unix(ts, 0).UTC()
	if s.header != nil {
		s.header.Timestamp = s.fileTimestamp
	}

	return nil
}
