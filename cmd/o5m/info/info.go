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

// Package info implements the "o5m info" subcommand.
package info

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/destel/rill"
	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/o5m"
	"m4o.io/o5m/cmd/o5m/cli"
	"m4o.io/o5m/model"
)

var (
	out   io.Writer = os.Stdout
	input *os.File
)

// streamInfo is what the scan reports; counts are only filled in for
// extended scans.
type streamInfo struct {
	Header            *model.Header       `json:"header,omitempty"`
	Bounds            []model.BoundingBox `json:"bounds,omitempty"`
	UploadDiscouraged bool                `json:"upload_discouraged"`

	NodeCount     int64 `json:"node_count,omitempty"`
	WayCount      int64 `json:"way_count,omitempty"`
	RelationCount int64 `json:"relation_count,omitempty"`
	TagCount      int64 `json:"tag_count,omitempty"`
}

func init() {
	cli.RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolP("json", "j", false, "format information in JSON")
	flags.BoolP("extended", "e", false, "provide extended information (scans entire file)")
	flags.IntP("workers", "w", runtime.GOMAXPROCS(-1), "number of workers aggregating extended statistics")
	flags.VarP(cli.NewReaderValue(os.Stdin, &input, "file"), "input", "i", "o5m file to read (defaults to stdin)")
}

var infoCmd = &cobra.Command{
	Use:   "info [<o5m file>]",
	Short: "Print information about an o5m file",
	Long:  "Print information about an o5m file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f := input
		if len(args) == 1 {
			var err error
			if f, err = os.Open(args[0]); err != nil {
				log.Fatal(err)
			}
		}

		in, err := cli.WrapInputFile(f)
		if err != nil {
			log.Fatal(err)
		}

		rdr, err := cli.NewReader(in)
		if err != nil {
			log.Fatal(err)
		}

		flags := cmd.Flags()

		extended, err := flags.GetBool("extended")
		if err != nil {
			log.Fatal(err)
		}

		workers, err := flags.GetInt("workers")
		if err != nil {
			log.Fatal(err)
		}

		info := runInfo(cmd.Context(), rdr, workers, extended)

		if err := in.Close(); err != nil {
			log.Fatal(err)
		}

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			log.Fatal(err)
		}

		if jsonfmt {
			renderJSON(info)
		} else {
			renderTxt(info, extended)
		}
	},
}

// runInfo scans the stream. A plain scan stops once the header and any
// leading bounds have been decoded; an extended scan traverses every
// record, aggregating statistics across workers while a single
// goroutine performs the decoding.
func runInfo(ctx context.Context, in io.Reader, workers int, extended bool) *streamInfo {
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := o5m.NewDecoder(ctx, in)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Close()

	info := &streamInfo{}

	if extended {
		entities := make(chan rill.Try[model.Entity], 256)

		go func() {
			defer close(entities)

			for {
				e, err := d.Decode()
				if errors.Is(err, io.EOF) {
					return
				} else if err != nil {
					entities <- rill.Try[model.Entity]{Error: err}

					return
				}

				entities <- rill.Try[model.Entity]{Value: e}
			}
		}()

		var nodes, ways, relations, tags atomic.Int64

		err := rill.ForEach(entities, workers, func(e model.Entity) error {
			switch e.(type) {
			case model.Node:
				nodes.Add(1)
			case model.Way:
				ways.Add(1)
			case model.Relation:
				relations.Add(1)
			}

			tags.Add(int64(len(e.GetTags())))

			return nil
		})
		if err != nil {
			log.Fatal(err)
		}

		info.NodeCount = nodes.Load()
		info.WayCount = ways.Load()
		info.RelationCount = relations.Load()
		info.TagCount = tags.Load()
	} else {
		for d.Header() == nil {
			if _, err := d.Decode(); errors.Is(err, io.EOF) {
				break
			} else if err != nil {
				log.Fatal(err)
			}
		}
	}

	info.Header = d.Header()
	info.Bounds = d.Bounds()
	info.UploadDiscouraged = d.UploadDiscouraged()

	return info
}

func renderJSON(info *streamInfo) {
	b, err := json.Marshal(info)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Fprint(out, string(b))
}

func renderTxt(info *streamInfo, extended bool) {
	format := "unknown"
	if info.Header != nil {
		format = info.Header.Format
	}

	fmt.Fprintf(out, "Format: %s\n", format)

	if info.Header != nil && !info.Header.Timestamp.IsZero() {
		fmt.Fprintf(out, "Timestamp: %s\n", info.Header.Timestamp.UTC().Format(time.RFC3339))
	}

	for _, b := range info.Bounds {
		fmt.Fprintf(out, "Bounds: %s\n", b.String())
	}

	if extended {
		fmt.Fprintf(out, "NodeCount: %s\n", humanize.Comma(info.NodeCount))
		fmt.Fprintf(out, "WayCount: %s\n", humanize.Comma(info.WayCount))
		fmt.Fprintf(out, "RelationCount: %s\n", humanize.Comma(info.RelationCount))
		fmt.Fprintf(out, "TagCount: %s\n", humanize.Comma(info.TagCount))
		fmt.Fprintf(out, "UploadDiscouraged: %t\n", info.UploadDiscouraged)
	}
}
