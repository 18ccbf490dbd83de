// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/tomtom215/homematch/internal/database"
)

// TableReader reads a header-first table file in row order.
// *database.DB implements it.
type TableReader interface {
	ReadTable(ctx context.Context, path string) (*database.Table, error)
}

// Load reads the catalog export at path and builds an Index. The Index
// digest is the SHA-256 of the file bytes.
func Load(ctx context.Context, r TableReader, path string) (*Index, error) {
	digest, err := fileDigest(path)
	if err != nil {
		return nil, err
	}

	table, err := r.ReadTable(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	ix, err := New(table.Columns, table.Rows)
	if err != nil {
		return nil, fmt.Errorf("build catalog index: %w", err)
	}
	ix.digest = digest
	return ix, nil
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return "", fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash catalog: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
