// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/homematch/internal/similarity"
)

// Blender produces the effective similarity vector for a reference item.
type Blender struct {
	weights BlendWeights
}

// NewBlender returns a Blender using w for combined mode.
func NewBlender(w BlendWeights) *Blender {
	return &Blender{weights: w}
}

// Weights returns the combined-mode weights.
func (b *Blender) Weights() BlendWeights {
	return b.weights
}

// VectorFor returns a fresh length-N vector for position pos.
//
// Single-facet modes return a copy of the matrix row. Combined mode returns
// w.PropertyInfo*info + w.Facility*facility + w.Nearby*nearby with no
// normalization. The mode is checked before any matrix is touched.
func (b *Blender) VectorFor(store *similarity.Store, pos int, mode Mode) ([]float64, error) {
	switch mode {
	case ModeNearby, ModeFacility, ModePropertyInfo:
		facet, _ := mode.Facet()
		return store.Row(facet, pos)
	case ModeCombined:
		return b.combined(store, pos)
	default:
		return nil, fmt.Errorf("%q: %w", mode, ErrInvalidMode)
	}
}

func (b *Blender) combined(store *similarity.Store, pos int) ([]float64, error) {
	terms := []struct {
		facet  similarity.Facet
		weight float64
	}{
		{similarity.FacetPropertyInfo, b.weights.PropertyInfo},
		{similarity.FacetFacility, b.weights.Facility},
		{similarity.FacetNearby, b.weights.Nearby},
	}

	out := make([]float64, store.Size())
	for _, t := range terms {
		row, err := store.RowView(t.facet, pos)
		if err != nil {
			return nil, err
		}
		floats.AddScaled(out, t.weight, row)
	}
	return out, nil
}
