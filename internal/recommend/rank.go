// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"fmt"
	"math"
	"slices"
)

// TopN returns the n highest-scoring positions of vector, excluding the
// reference position exclude.
//
// Sorting is stable, so equal scores keep ascending position order. NaN
// scores sort after every number. n must satisfy 0 < n < len(vector).
func TopN(vector []float64, exclude, n int) ([]Scored, error) {
	size := len(vector)
	if n <= 0 || n >= size {
		return nil, fmt.Errorf("n=%d must be in [1, %d): %w", n, size, ErrInvalidArgument)
	}
	if exclude < 0 || exclude >= size {
		return nil, fmt.Errorf("exclude=%d not in [0, %d): %w", exclude, size, ErrIndexOutOfRange)
	}

	candidates := make([]Scored, 0, size-1)
	for pos, score := range vector {
		if pos == exclude {
			continue
		}
		candidates = append(candidates, Scored{Position: pos, Score: score})
	}

	slices.SortStableFunc(candidates, byScoreDesc)

	return candidates[:n], nil
}

func byScoreDesc(a, b Scored) int {
	switch {
	case a.Score > b.Score:
		return -1
	case a.Score < b.Score:
		return 1
	}
	aNaN, bNaN := math.IsNaN(a.Score), math.IsNaN(b.Score)
	switch {
	case aNaN && !bNaN:
		return 1
	case bNaN && !aNaN:
		return -1
	}
	return 0
}
