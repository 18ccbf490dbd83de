// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/homematch/internal/config"
	"github.com/tomtom215/homematch/internal/logging"
	"github.com/tomtom215/homematch/internal/recommend"
	"github.com/tomtom215/homematch/internal/similarity"
)

type recommendOptions struct {
	dir        string
	catalog    string
	configPath string
	society    string
	mode       string
	n          int
	normalize  string
}

func newRecommendCmd() *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Run a recommendation offline",
		Long: `Load the latest artifacts and the catalog, run one recommendation and
print the response as JSON, exactly as the server would return it.

Weights and normalization come from --config when given, otherwise from
the built-in defaults.`,
		Example: `  homematch recommend --dir ./artifacts --catalog catalog.csv --society "green acres" --mode facility_based --n 5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", DefaultArtifactsDir, "artifact directory")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalog table (CSV or Parquet)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "optional config.yaml for weights and limits")
	cmd.Flags().StringVar(&opts.society, "society", "", "reference society name")
	cmd.Flags().StringVar(&opts.mode, "mode", string(recommend.ModeCombined),
		"nearby_locations, facility_based, property_info_based or auto")
	cmd.Flags().IntVar(&opts.n, "n", 5, "number of recommendations")
	cmd.Flags().StringVar(&opts.normalize, "normalize", "", "none, minmax or weight_sum (default from config)")
	_ = cmd.MarkFlagRequired("catalog") //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("society") //nolint:errcheck // flag is defined above

	return cmd
}

func runRecommend(cmd *cobra.Command, opts *recommendOptions) error {
	if _, err := recommend.ParseMode(opts.mode); err != nil {
		return err
	}
	if opts.n <= 0 {
		return fmt.Errorf("--n must be positive, got %d: %w", opts.n, recommend.ErrInvalidArgument)
	}
	if err := requireFile(opts.catalog, "catalog"); err != nil {
		return err
	}

	engineCfg := recommend.DefaultConfig()
	if opts.configPath != "" {
		cfg, err := config.LoadFile(opts.configPath)
		if err != nil {
			return err
		}
		engineCfg = cfg.Recommend.EngineConfig()
	}
	// One request per run; nothing to cache.
	engineCfg.Cache.Enabled = false

	ctx := cmd.Context()

	store, err := similarity.OpenArtifactStore(opts.dir)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	bundle, err := recommend.LoadBundle(ctx, store, db, opts.catalog)
	if err != nil {
		return err
	}

	engine, err := recommend.NewEngine(engineCfg, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}
	engine.Swap(bundle)

	resp, err := engine.Recommend(ctx, recommend.Request{
		Name:          opts.society,
		Mode:          opts.mode,
		N:             opts.n,
		Normalization: opts.normalize,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
