// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/homematch/internal/similarity"
)

type inspectOptions struct {
	dir    string
	asJSON bool
	all    bool
}

func newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show latest artifact headers",
		Long: `Show the header of the latest artifact of every facet.

Facets with no artifact are listed as missing; the server cannot become
ready until all three exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", DefaultArtifactsDir, "artifact directory")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print headers as JSON")
	cmd.Flags().BoolVar(&opts.all, "all", false, "also list every version on disk per facet")

	return cmd
}

func runInspect(cmd *cobra.Command, opts *inspectOptions) error {
	store, err := similarity.OpenArtifactStore(opts.dir)
	if err != nil {
		return err
	}

	headers, err := store.Headers(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		if headers == nil {
			headers = []similarity.Header{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(headers)
	}

	found := make(map[similarity.Facet]similarity.Header, len(headers))
	for _, h := range headers {
		found[h.Facet] = h
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	header := "FACET\tVERSION\tSHAPE\tBATCH\tCHECKSUM\tCREATED"
	if opts.all {
		header += "\tON DISK"
	}
	fmt.Fprintln(tw, header)
	for _, f := range similarity.Facets() {
		h, ok := found[f]
		if !ok {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\tmissing", f)
		} else {
			fmt.Fprintf(tw, "%s\t%d\t%dx%d\t%s\t%s\t%s",
				h.Facet, h.Version, h.Rows, h.Cols, batchLabel(h.Batch), shortChecksum(h.Checksum), h.CreatedAt.Format(time.RFC3339))
		}
		if opts.all {
			versions, err := store.Versions(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "\t%s", joinVersions(versions))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func batchLabel(batch string) string {
	if batch == "" {
		return "-"
	}
	return batch
}

func joinVersions(versions []int) string {
	if len(versions) == 0 {
		return "-"
	}
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = "v" + strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
