// LAKE - Lightweight Authenticated Key Exchange
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of LAKE.
//
// LAKE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LAKE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with LAKE. If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lake",
	Short: "LAKE CLI - four-message static-DH authenticated key exchange",
	Long: `LAKE CLI drives the four-message authenticated key exchange between an
in-process initiator and responder.

This tool supports:
- Running a complete handshake with fixed or configured keys
- Printing every wire message and the exported channel keys
- Printing the reference test vectors`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
