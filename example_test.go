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
	"fmt"
	"io"
	"log"

	"m4o.io/o5m"
	"m4o.io/o5m/model"
)

func Example() {
	// a minimal stream: reset marker, "o5m2" header, one node with
	// id 2 at the origin, end-of-data marker
	stream := []byte{
		0xff,
		0xe0, 0x04, 'o', '5', 'm', '2',
		0x10, 0x05, 0x04, 0x01, 0x00, 0x00, 0x00,
		0xfe,
	}

	d, err := o5m.NewDecoder(context.Background(), bytes.NewReader(stream))
	if err != nil {
		log.Fatal(err)
	}
	defer d.Close()

	var nc, wc, rc uint64

	for {
		if v, err := d.Decode(); err == io.EOF {
			break
		} else if err != nil {
			log.Fatal(err)
		} else {
			switch v := v.(type) {
			case model.Node:
				// Process Node v.
				nc++
			case model.Way:
				// Process Way v.
				wc++
			case model.Relation:
				// Process Relation v.
				rc++
			default:
				log.Fatalf("unknown type %T\n", v)
			}
		}
	}

	fmt.Printf("Format: %s, Nodes: %d, Ways: %d, Relations: %d\n", d.Header().Format, nc, wc, rc)
	// Output:
	// Format: o5m, Nodes: 1, Ways: 0, Relations: 0
}
