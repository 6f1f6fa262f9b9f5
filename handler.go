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

package o5m

import (
	"context"
	"errors"
	"fmt"
	"io"

	"m4o.io/o5m/model"
)

// Handler receives decoded records during a Parse traversal. Each
// accept method is invoked exactly once per emitted record, in stream
// order; returning a non-nil error stops consumption and surfaces as
// ErrCancelled. MarkUploadDiscouraged is invoked at most once, after a
// successful traversal, if any record carried version 0.
type Handler interface {
	Node(node model.Node) error
	Way(way model.Way) error
	Relation(relation model.Relation) error
	Bounds(bounds model.BoundingBox) error
	MarkUploadDiscouraged()
}

// Parse decodes the whole stream, pushing records into handler. It
// returns nil after a complete traversal, or the first decode error.
func Parse(ctx context.Context, rdr io.Reader, handler Handler, opts ...DecoderOption) error {
	d, err := NewDecoder(ctx, rdr, opts...)
	if err != nil {
		return err
	}
	defer d.Close()

	var delivered int

	// bounding boxes accumulate on the decoder between entities; flush
	// the ones that arrived ahead of the entity being delivered
	flush := func() error {
		for _, b := range d.Bounds()[delivered:] {
			delivered++

			if err := handler.Bounds(b); err != nil {
				return err
			}
		}

		return nil
	}

	for {
		entity, err := d.Decode()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}

		if err := flush(); err != nil {
			return stopped(d, err)
		}

		switch e := entity.(type) {
		case model.Node:
			err = handler.Node(e)
		case model.Way:
			err = handler.Way(e)
		case model.Relation:
			err = handler.Relation(e)
		}

		if err != nil {
			return stopped(d, err)
		}
	}

	if err := flush(); err != nil {
		return stopped(d, err)
	}

	if d.UploadDiscouraged() {
		handler.MarkUploadDiscouraged()
	}

	return nil
}

// stopped maps a handler refusal onto the cancellation path.
func stopped(d *Decoder, err error) error {
	return fmt.Errorf("handler stopped consumption at stream offset %d: %v: %w", d.Offset(), err, ErrCancelled)
}
