// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Normalization names an optional score normalization stage. Raw blended
// scores are the default output; combined-mode scores can exceed 1 and are
// not probabilities. A stage rescales the vector before ranking and never
// changes the order of results.
type Normalization string

const (
	// NormalizeNone leaves scores as blended.
	NormalizeNone Normalization = "none"

	// NormalizeMinMax maps candidate scores onto [0, 1] using the minimum and
	// maximum over every position except the reference item.
	NormalizeMinMax Normalization = "minmax"

	// NormalizeWeightSum divides combined-mode scores by the sum of the
	// blend weights. Single-facet modes are left unchanged.
	NormalizeWeightSum Normalization = "weight_sum"
)

// ParseNormalization validates s. The empty string is NormalizeNone.
func ParseNormalization(s string) (Normalization, error) {
	switch n := Normalization(s); n {
	case "":
		return NormalizeNone, nil
	case NormalizeNone, NormalizeMinMax, NormalizeWeightSum:
		return n, nil
	}
	return "", fmt.Errorf("normalization %q: %w", s, ErrInvalidArgument)
}

// normalize rescales vec in place. vec must be owned by the caller.
func normalize(kind Normalization, vec []float64, exclude int, mode Mode, w BlendWeights) {
	switch kind {
	case NormalizeMinMax:
		minMax(vec, exclude)
	case NormalizeWeightSum:
		if mode == ModeCombined {
			floats.Scale(1/w.Sum(), vec)
		}
	}
}

// minMax leaves vec unchanged when every candidate has the same score.
func minMax(vec []float64, exclude int) {
	lo, hi, seen := 0.0, 0.0, false
	for i, v := range vec {
		if i == exclude {
			continue
		}
		if !seen {
			lo, hi, seen = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if !seen || hi == lo {
		return
	}
	floats.AddConst(-lo, vec)
	floats.Scale(1/(hi-lo), vec)
}
