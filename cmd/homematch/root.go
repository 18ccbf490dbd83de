// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/homematch/internal/database"
	"github.com/tomtom215/homematch/internal/logging"
)

// DefaultArtifactsDir matches the server's default ARTIFACTS_DIR.
const DefaultArtifactsDir = "/data/artifacts"

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "homematch",
		Short: "Homematch - property similarity artifacts and recommendations",
		Long: `Operator tooling for Homematch.

Subcommands:
  import     - Convert a numeric CSV matrix into a versioned artifact
  inspect    - Show the latest artifact header of every facet
  recommend  - Run a recommendation offline and print JSON`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !logging.ValidLevel(logLevel) {
				return fmt.Errorf("invalid log level %q", logLevel)
			}
			logging.Init(logging.Config{
				Level:     logLevel,
				Format:    "console",
				Timestamp: true,
				Output:    cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")

	root.AddCommand(newImportCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newRecommendCmd())

	return root
}

// openDatabase opens a small DuckDB instance for one command run.
func openDatabase(ctx context.Context) (*database.DB, error) {
	cfg := database.DefaultConfig()
	cfg.Threads = 2
	return database.Open(ctx, cfg)
}

func requireFile(path, flag string) error {
	if path == "" {
		return fmt.Errorf("--%s is required", flag)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("--%s: %w", flag, err)
	}
	return nil
}
