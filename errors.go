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
	"m4o.io/o5m/internal/decoder"
)

// Decode failures wrap exactly one of these sentinels; classify with
// errors.Is. Every kind except ErrCancelled indicates a corrupt file
// and aborts the session at the first failing record.
var (
	// ErrMalformedStream reports a missing leading reset byte, a
	// truncated payload, or a premature end-of-stream mid-record.
	ErrMalformedStream = decoder.ErrMalformedStream

	// ErrUnsupportedHeader reports a header prefix other than "o5m2" or
	// "o5c2".
	ErrUnsupportedHeader = decoder.ErrUnsupportedHeader

	// ErrInvalidCoordinates reports a node coordinate outside the valid
	// latitude or longitude range.
	ErrInvalidCoordinates = decoder.ErrInvalidCoordinates

	// ErrInvalidChangesetID reports a changeset id beyond the positive
	// 32-bit range.
	ErrInvalidChangesetID = decoder.ErrInvalidChangesetID

	// ErrInvalidTimestamp reports a negative entity timestamp.
	ErrInvalidTimestamp = decoder.ErrInvalidTimestamp

	// ErrCancelled reports cooperative cancellation, observed once per
	// top-level record; it marks a user action, not corruption.
	ErrCancelled = decoder.ErrCancelled
)
