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

package o5m_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/o5m"
	"m4o.io/o5m/internal/wiretest"
	"m4o.io/o5m/model"
)

func minimalStream() []byte {
	node := wiretest.AppendSvarint(nil, int64(1))
	node = wiretest.AppendUvarint(node, uint64(1))
	node = wiretest.AppendSvarint(node, int64(0))
	node = wiretest.AppendSvarint(node, int64(1))
	node = wiretest.AppendSvarint(node, int64(1))
	node = wiretest.AppendPair(node, "name", "A")

	return wiretest.Stream(
		wiretest.HeaderRecord("o5m2"),
		wiretest.BBoxRecord(-10000000, -10000000, 10000000, 10000000),
		wiretest.Record(wiretest.Node, node),
	)
}

func TestDecodeMinimalStream(t *testing.T) {
	d, err := o5m.NewDecoder(context.Background(), bytes.NewReader(minimalStream()))
	require.NoError(t, err)
	defer d.Close()

	entity, err := d.Decode()
	require.NoError(t, err)

	node, ok := entity.(model.Node)
	require.True(t, ok)
	assert.Equal(t, model.ID(1), node.ID)
	assert.Equal(t, model.Degrees(1e-7), node.Lon)
	assert.Equal(t, model.Degrees(1e-7), node.Lat)
	assert.Equal(t, map[string]string{"name": "A"}, node.Tags)

	_, err = d.Decode()
	assert.Equal(t, io.EOF, err)

	header := d.Header()
	require.NotNil(t, header)
	assert.Equal(t, model.FormatO5M, header.Format)
	assert.False(t, header.Change())

	bounds := d.Bounds()
	require.Len(t, bounds, 1)
	assert.Equal(t, model.Degrees(-1), bounds[0].Left)
	assert.Equal(t, model.Degrees(1), bounds[0].Top)
	assert.Equal(t, "o5m", bounds[0].Origin)

	assert.False(t, d.UploadDiscouraged())
	assert.Equal(t, int64(len(minimalStream())), d.Offset())
}

func TestNewDecoderRejectsGarbage(t *testing.T) {
	_, err := o5m.NewDecoder(context.Background(), bytes.NewReader([]byte("not o5m data")))
	assert.ErrorIs(t, err, o5m.ErrMalformedStream)
}

func TestDecoderBufferOption(t *testing.T) {
	d, err := o5m.NewDecoder(context.Background(), bytes.NewReader(minimalStream()),
		o5m.WithBufferSize(64*1024))
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Decode()
	assert.NoError(t, err)
}

// recordingHandler journals the order in which records arrive.
type recordingHandler struct {
	events      []string
	discouraged bool

	nodeErr error
}

func (h *recordingHandler) Node(model.Node) error {
	h.events = append(h.events, "node")

	return h.nodeErr
}

func (h *recordingHandler) Way(model.Way) error {
	h.events = append(h.events, "way")

	return nil
}

func (h *recordingHandler) Relation(model.Relation) error {
	h.events = append(h.events, "relation")

	return nil
}

func (h *recordingHandler) Bounds(model.BoundingBox) error {
	h.events = append(h.events, "bounds")

	return nil
}

func (h *recordingHandler) MarkUploadDiscouraged() {
	h.discouraged = true
}

func TestParseOrdering(t *testing.T) {
	node := wiretest.AppendSvarint(nil, int64(1))
	node = wiretest.AppendUvarint(node, uint64(1))
	node = wiretest.AppendSvarint(node, int64(0))
	node = wiretest.AppendSvarint(node, int64(0))
	node = wiretest.AppendSvarint(node, int64(0))

	refs := wiretest.AppendSvarint(nil, int64(1))
	way := wiretest.AppendSvarint(nil, int64(1))
	way = wiretest.AppendUvarint(way, uint64(1))
	way = wiretest.AppendSvarint(way, int64(0))
	way = wiretest.AppendUvarint(way, uint64(len(refs)))
	way = append(way, refs...)

	stream := wiretest.Stream(
		wiretest.HeaderRecord("o5m2"),
		wiretest.BBoxRecord(-10000000, -10000000, 10000000, 10000000),
		wiretest.Record(wiretest.Node, node),
		wiretest.Record(wiretest.Way, way),
	)

	h := &recordingHandler{}
	require.NoError(t, o5m.Parse(context.Background(), bytes.NewReader(stream), h))

	assert.Equal(t, []string{"bounds", "node", "way"}, h.events)
	assert.False(t, h.discouraged)
}

func TestParseMarksUploadDiscouraged(t *testing.T) {
	node := wiretest.AppendSvarint(nil, int64(1))
	node = wiretest.AppendUvarint(node, uint64(0)) // version 0
	node = wiretest.AppendSvarint(node, int64(0))
	node = wiretest.AppendSvarint(node, int64(0))

	stream := wiretest.Stream(wiretest.Record(wiretest.Node, node))

	h := &recordingHandler{}
	require.NoError(t, o5m.Parse(context.Background(), bytes.NewReader(stream), h))

	assert.True(t, h.discouraged)
}

func TestParseHandlerStopsConsumption(t *testing.T) {
	h := &recordingHandler{nodeErr: assert.AnError}

	err := o5m.Parse(context.Background(), bytes.NewReader(minimalStream()), h)

	assert.ErrorIs(t, err, o5m.ErrCancelled)
	assert.False(t, h.discouraged)
}

func TestParseSurfacesDecodeErrors(t *testing.T) {
	node := wiretest.AppendSvarint(nil, int64(1))
	node = wiretest.AppendUvarint(node, uint64(1))
	node = wiretest.AppendSvarint(node, int64(0))
	node = wiretest.AppendSvarint(node, int64(0))
	node = wiretest.AppendSvarint(node, int64(910000000))

	stream := wiretest.Stream(wiretest.Record(wiretest.Node, node))

	err := o5m.Parse(context.Background(), bytes.NewReader(stream), &recordingHandler{})
	assert.ErrorIs(t, err, o5m.ErrInvalidCoordinates)
}
