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
	"errors"
	"fmt"
)

// Decode failures are classified by these sentinels; every error
// returned by a session wraps exactly one of them.
var (
	ErrMalformedStream    = errors.New("o5m: malformed stream")
	ErrUnsupportedHeader  = errors.New("o5m: unsupported header")
	ErrInvalidCoordinates = errors.New("o5m: invalid coordinates")
	ErrInvalidChangesetID = errors.New("o5m: invalid changeset id")
	ErrInvalidTimestamp   = errors.New("o5m: invalid timestamp")
	ErrCancelled          = errors.New("o5m: decoding canceled")
)

// errPayloadTruncated is returned when a record decoder runs off the end
// of its framed payload, a protocol violation.
var errPayloadTruncated = fmt.Errorf("record payload truncated: %w", ErrMalformedStream)
