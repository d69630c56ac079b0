// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for GoBBS.
//
// Usage:
//
//	go run . [flags]
//	./gobbs [flags]
//
// Running without a subcommand drops into the interactive shell. See
// --help for the operational subcommands.
package main

import (
	"log"
	"os"

	"github.com/retroterm/gobbs/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("GoBBS error: %v", err)
		os.Exit(1)
	}
}
