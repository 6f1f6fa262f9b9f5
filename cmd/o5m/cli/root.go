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

// Package cli holds the root command and the shared input plumbing for
// the o5m command line tool.
package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd is the root of the o5m command tree; subcommands register
// themselves in their package init.
var RootCmd = &cobra.Command{
	Use:   "o5m",
	Short: "Tools for inspecting o5m/o5c geodata files",
	Long: `o5m is a toolbox for the o5m/o5c binary geodata interchange format.

Input files may be compressed with gzip, zstd, lz4, or xz; compression
is detected from the file contents, not the name.`,
	SilenceUsage: true,
}
