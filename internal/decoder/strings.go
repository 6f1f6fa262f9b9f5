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

const (
	// stringTableSize is the fixed number of ring slots mandated by the
	// o5m format.
	stringTableSize = 15000

	// maxStringPairSize caps the encoded length of a cacheable pair,
	// 250 bytes of payload plus the two terminators.
	maxStringPairSize = 250 + 2
)

// stringPair is a (key, value) pair from the stream: a tag, an author
// (uid, username), or a relation member (type, role).
type stringPair struct {
	key   string
	value string
}

// stringTable is the o5m backward-reference ring. References address
// slots by distance from the most recent write; distance 1 is the last
// pair stored. The format guarantees encoders never reference slots
// that were not written since the last reset, so resolution performs
// bounds wrapping only, no validity checking.
type stringTable struct {
	pairs [stringTableSize]stringPair
	pos   int
}

// store appends the pair at the current write position, wrapping
// circularly. Callers perform the size-cap check.
func (t *stringTable) store(pair stringPair) {
	t.pairs[t.pos] = pair

	t.pos++
	if t.pos >= stringTableSize {
		t.pos = 0
	}
}

// resolve returns the pair stored distance slots back.
func (t *stringTable) resolve(distance uint64) stringPair {
	pos := t.pos - int(distance%stringTableSize)
	if pos < 0 {
		pos += stringTableSize
	}

	return t.pairs[pos]
}

// reset drops every cached pair and rewinds the write position.
func (t *stringTable) reset() {
	t.pairs = [stringTableSize]stringPair{}
	t.pos = 0
}
