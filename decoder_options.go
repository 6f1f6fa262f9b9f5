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

// DefaultBufferSize is the default initial size of the record payload
// buffer. Any value produces valid results; the buffer grows when a
// record's declared length requires it.
const DefaultBufferSize = 8 * 1024

// decoderOptions provides optional configuration parameters for Decoder construction.
type decoderOptions struct {
	bufferSize int // initial size of the record payload buffer
}

// DecoderOption configures how we set up the decoder.
type DecoderOption func(*decoderOptions)

// WithBufferSize lets you set the initial size of the record payload buffer.
func WithBufferSize(s int) DecoderOption {
	return func(o *decoderOptions) {
		o.bufferSize = s
	}
}

// defaultDecoderConfig provides a default configuration for decoders.
var defaultDecoderConfig = decoderOptions{
	bufferSize: DefaultBufferSize,
}
