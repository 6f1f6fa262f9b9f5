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

// Package o5m decodes the o5m/o5c binary geodata interchange format: a
// compact, delta-encoded, string-table-deduplicated serialization of
// OSM nodes, ways, and relations.
package o5m

import (
	"context"
	"io"
	"time"

	"m4o.io/o5m/internal/decoder"
	"m4o.io/o5m/model"
)

// Decoder reads and decodes o5m data from an input stream. Decoding is
// single-threaded and pull-based; a decoder is valid for exactly one
// traversal of its input.
type Decoder struct {
	ctx     context.Context
	session *decoder.Session
}

// NewDecoder returns a new decoder that reads from rdr. The stream must
// begin with a reset marker; its absence is ErrMalformedStream.
func NewDecoder(ctx context.Context, rdr io.Reader, opts ...DecoderOption) (*Decoder, error) {
	cfg := defaultDecoderConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	session := decoder.NewSession(rdr, cfg.bufferSize)

	if err := session.Begin(); err != nil {
		_ = session.Close()

		return nil, err
	}

	return &Decoder{ctx: ctx, session: session}, nil
}

// Decode returns the next node, way, or relation in the stream. The end
// of the stream is reported by an io.EOF error. Header, bounding-box,
// and file-timestamp records are absorbed into decoder state and can be
// inspected through Header, Bounds, and Timestamp; delete markers are
// dropped silently.
func (d *Decoder) Decode() (model.Entity, error) {
	return d.session.Next(d.ctx)
}

// Header returns the stream header, or nil if none has been decoded yet.
func (d *Decoder) Header() *model.Header {
	return d.session.Header()
}

// Bounds returns the bounding boxes decoded so far, in stream order,
// each tagged with the format of the header active when it appeared.
func (d *Decoder) Bounds() []model.BoundingBox {
	return d.session.Bounds()
}

// Timestamp returns the stream's file timestamp, zero if absent.
func (d *Decoder) Timestamp() time.Time {
	return d.session.FileTimestamp()
}

// UploadDiscouraged reports whether any decoded record carried version
// 0, marking the data as unsafe for re-upload.
func (d *Decoder) UploadDiscouraged() bool {
	return d.session.UploadDiscouraged()
}

// Offset returns the number of input bytes consumed so far.
func (d *Decoder) Offset() int64 {
	return d.session.Offset()
}

// Close releases the decoder's buffers. The decoder must not be used
// afterwards.
func (d *Decoder) Close() error {
	return d.session.Close()
}
