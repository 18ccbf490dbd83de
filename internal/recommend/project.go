// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"fmt"

	"github.com/tomtom215/homematch/internal/catalog"
)

// Project attaches the mode's detail columns to ranked results, in rank
// order. A catalog missing any schema column fails the whole projection.
func Project(ix *catalog.Index, ranked []Scored, mode Mode) ([]DetailRow, error) {
	schema := mode.Schema()
	if schema == nil {
		return nil, fmt.Errorf("%q: %w", mode, ErrInvalidMode)
	}

	positions := make([]int, len(ranked))
	for i, r := range ranked {
		positions[i] = r.Position
	}

	rows, err := ix.Attributes(positions, schema)
	if err != nil {
		return nil, fmt.Errorf("project %s details: %w", mode, err)
	}

	details := make([]DetailRow, len(rows))
	for i, row := range rows {
		details[i] = DetailRow{Row: row, Percent: Percent(ranked[i].Score)}
	}
	return details, nil
}
