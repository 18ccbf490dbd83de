// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/homematch/internal/logging"
	"github.com/tomtom215/homematch/internal/similarity"
)

type importOptions struct {
	facet   string
	csvPath string
	dir     string
	version int
	batch   string
	force   bool
}

func newImportCmd() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a similarity matrix from CSV",
		Long: `Convert a headerless numeric CSV matrix into a versioned artifact.

The matrix must be square with row and column i both referring to row i of
the catalog. Without --version the artifact is written one past the latest
version of the facet. An existing version is never replaced unless --force
is given.

Give the three facets of one export the same --batch. The server only
publishes a bundle once the latest artifact of every facet carries the
same batch, so a half-finished import never goes live.`,
		Example: `  homematch import --facet nearby --csv nearby_sim.csv --batch 2026-10-18 --dir ./artifacts
  homematch import --facet facility --csv facility_sim.csv --batch 2026-10-18 --dir ./artifacts
  homematch import --facet property_info --csv info_sim.csv --batch 2026-10-18 --dir ./artifacts`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.facet, "facet", "", "facet: nearby, facility or property_info")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "path of the headerless CSV matrix")
	cmd.Flags().StringVar(&opts.dir, "dir", DefaultArtifactsDir, "artifact directory")
	cmd.Flags().IntVar(&opts.version, "version", 0, "artifact version (0 = next)")
	cmd.Flags().StringVar(&opts.batch, "batch", "", "batch label shared by the facets of one export")
	cmd.Flags().BoolVar(&opts.force, "force", false, "replace an existing artifact of the same version")
	_ = cmd.MarkFlagRequired("facet") //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("csv")   //nolint:errcheck // flag is defined above

	return cmd
}

func runImport(cmd *cobra.Command, opts *importOptions) error {
	facet := similarity.Facet(opts.facet)
	if !facet.Valid() {
		return fmt.Errorf("%q: %w", opts.facet, similarity.ErrUnknownFacet)
	}
	if opts.version < 0 {
		return fmt.Errorf("--version must not be negative, got %d", opts.version)
	}
	if err := requireFile(opts.csvPath, "csv"); err != nil {
		return err
	}

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

	m, err := similarity.Import(ctx, db, opts.csvPath)
	if err != nil {
		return err
	}

	h, err := store.Save(ctx, facet, m, similarity.SaveOptions{
		Version: opts.version,
		Source:  opts.csvPath,
		Batch:   opts.batch,
		Force:   opts.force,
	})
	if err != nil {
		return err
	}

	logging.Info().
		Str(logging.FieldFacet, string(h.Facet)).
		Int("version", h.Version).
		Str("batch", h.Batch).
		Int("rows", h.Rows).
		Msg("artifact written")

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s v%d %dx%d %s\n",
		h.Facet, h.Version, h.Rows, h.Cols, similarity.ArtifactName(h.Facet, h.Version))
	return err
}
