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

package cli

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"
)

// Compression container magic numbers.
var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLz4  = []byte{0x04, 0x22, 0x4d, 0x18}
	magicXz   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// NewReader wraps rdr with the decompressor its leading magic bytes
// call for; an unrecognized prefix is passed through untouched so plain
// o5m streams decode directly.
func NewReader(rdr io.Reader) (io.Reader, error) {
	br := bufio.NewReader(rdr)

	magic, err := br.Peek(6)
	if err != nil && len(magic) == 0 {
		// too short to sniff; let the decoder report the real problem
		return br, nil
	}

	switch {
	case bytes.HasPrefix(magic, magicGzip):
		return gzip.NewReader(br)
	case bytes.HasPrefix(magic, magicZstd):
		return zstd.NewReader(br)
	case bytes.HasPrefix(magic, magicLz4):
		return lz4.NewReader(br), nil
	case bytes.HasPrefix(magic, magicXz):
		return xz.NewReader(br)
	default:
		return br, nil
	}
}
