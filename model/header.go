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

package model

import (
	"time"
)

// Format tags carried by o5m header records.
const (
	FormatO5M = "o5m" // plain data file
	FormatO5C = "o5c" // change file
)

// Header is the contents of an o5m header record. Timestamp is filled
// in when the stream carries a file timestamp record.
type Header struct {
	Format    string    `json:"format"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Change reports whether the stream is an o5c change file.
func (h Header) Change() bool {
	return h.Format == FormatO5C
}
