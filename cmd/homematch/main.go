// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

// Package main is the Homematch operator CLI.
//
// It works directly on the artifact directory and catalog file the server
// reads, so it can prepare and check a bundle before the server sees it:
//
//	homematch import --facet nearby --csv nearby.csv --dir ./artifacts
//	homematch inspect --dir ./artifacts
//	homematch recommend --dir ./artifacts --catalog catalog.csv --society "green acres"
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
