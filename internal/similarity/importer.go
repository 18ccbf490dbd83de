// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package similarity

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MatrixReader reads a headerless numeric table into row-major data.
// *database.DB implements it.
type MatrixReader interface {
	ReadMatrix(ctx context.Context, path string) (data []float64, rows, cols int, err error)
}

// Import reads a square matrix exported by the upstream batch job.
func Import(ctx context.Context, r MatrixReader, path string) (*mat.Dense, error) {
	data, rows, cols, err := r.ReadMatrix(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read matrix: %w", err)
	}
	if rows != cols {
		return nil, fmt.Errorf("%s is %dx%d, not square: %w", path, rows, cols, ErrDimensionMismatch)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%s has no rows: %w", path, ErrDimensionMismatch)
	}
	m := mat.NewDense(rows, cols, data)
	if err := checkFinite(m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
