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

package info

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/o5m/internal/wiretest"
	"m4o.io/o5m/model"
)

func testStream() []byte {
	first := wiretest.AppendSvarint(nil, int64(1))
	first = wiretest.AppendUvarint(first, uint64(1))
	first = wiretest.AppendSvarint(first, int64(0))
	first = wiretest.AppendSvarint(first, int64(0))
	first = wiretest.AppendSvarint(first, int64(0))
	first = wiretest.AppendPair(first, "name", "A")

	second := wiretest.AppendSvarint(nil, int64(1))
	second = wiretest.AppendUvarint(second, uint64(1))
	second = wiretest.AppendSvarint(second, int64(0))
	second = wiretest.AppendSvarint(second, int64(1))
	second = wiretest.AppendSvarint(second, int64(1))

	refs := wiretest.AppendSvarint(nil, int64(1))
	refs = wiretest.AppendSvarint(refs, int64(1))
	way := wiretest.AppendSvarint(nil, int64(1))
	way = wiretest.AppendUvarint(way, uint64(1))
	way = wiretest.AppendSvarint(way, int64(0))
	way = wiretest.AppendUvarint(way, uint64(len(refs)))
	way = append(way, refs...)
	way = wiretest.AppendPair(way, "highway", "primary")

	return wiretest.Stream(
		wiretest.HeaderRecord("o5m2"),
		wiretest.BBoxRecord(-10000000, -10000000, 10000000, 10000000),
		wiretest.Record(wiretest.Node, first),
		wiretest.Record(wiretest.Node, second),
		wiretest.Record(wiretest.Way, way),
	)
}

func TestRunInfoPlain(t *testing.T) {
	info := runInfo(context.Background(), bytes.NewReader(testStream()), 1, false)

	require.NotNil(t, info.Header)
	assert.Equal(t, model.FormatO5M, info.Header.Format)
	assert.Len(t, info.Bounds, 1)
	assert.False(t, info.UploadDiscouraged)
	assert.Zero(t, info.NodeCount)
}

func TestRunInfoExtended(t *testing.T) {
	info := runInfo(context.Background(), bytes.NewReader(testStream()), 4, true)

	require.NotNil(t, info.Header)
	assert.Equal(t, int64(2), info.NodeCount)
	assert.Equal(t, int64(1), info.WayCount)
	assert.Zero(t, info.RelationCount)
	assert.Equal(t, int64(2), info.TagCount)
}

func TestRenderTxt(t *testing.T) {
	var buf bytes.Buffer

	saved := out
	out = &buf

	defer func() { out = saved }()

	info := runInfo(context.Background(), bytes.NewReader(testStream()), 4, true)
	renderTxt(info, true)

	assert.Contains(t, buf.String(), "Format: o5m\n")
	assert.Contains(t, buf.String(), "NodeCount: 2\n")
	assert.Contains(t, buf.String(), "WayCount: 1\n")
	assert.Contains(t, buf.String(), "UploadDiscouraged: false\n")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer

	saved := out
	out = &buf

	defer func() { out = saved }()

	info := runInfo(context.Background(), bytes.NewReader(testStream()), 4, true)
	renderJSON(info)

	var round streamInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &round))
	assert.Equal(t, int64(2), round.NodeCount)
	assert.Equal(t, int64(1), round.WayCount)
	require.NotNil(t, round.Header)
	assert.Equal(t, model.FormatO5M, round.Header.Format)
}
