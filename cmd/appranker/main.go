// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Command appranker ranks catalog apps for users.
//
// Usage:
//
//	appranker [--config file] <command> [flags]
//
// Commands:
//
//	serve      run scheduled training and the metrics server
//	train      train and store one factor generation
//	recommend  print the top-n apps for a user
//	import     replace the catalog from a JSON file
//
// See internal/config for the configuration keys and environment variables.
package main

import (
	"fmt"
	"os"

	"github.com/tomtom215/appranker/cmd/appranker/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
