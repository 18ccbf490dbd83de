// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"database/sql"
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/homematch/internal/catalog"
	"github.com/tomtom215/homematch/internal/similarity"
)

// fixtureColumns covers every mode schema.
var fixtureColumns = []string{
	"society_name", "property_name", "place", "nearby_locations", "features", "link",
	"property_type", "price", "bedrooms", "built_up_area", "bathrooms", "balconies",
	"age_possession", "furnish_label", "parking_availability", "luxury_score", "price_per_sqft",
}

// Reference row for "a" in each facet:
//
//	nearby   [1.0, 0.9, 0.2, 0.5]
//	facility [1.0, 0.1, 0.7, 0.7]
//	info     [1.0, 0.5, 0.4, 0.3]
//
// Combined for "a": b=1.36, c=0.94, d=1.16.
var (
	fixtureNames = []string{"a", "b", "c", "d"}

	fixtureNearby = []float64{
		1.0, 0.9, 0.2, 0.5,
		0.9, 1.0, 0.3, 0.4,
		0.2, 0.3, 1.0, 0.6,
		0.5, 0.4, 0.6, 1.0,
	}
	fixtureFacility = []float64{
		1.0, 0.1, 0.7, 0.7,
		0.1, 1.0, 0.2, 0.3,
		0.7, 0.2, 1.0, 0.8,
		0.7, 0.3, 0.8, 1.0,
	}
	fixtureInfo = []float64{
		1.0, 0.5, 0.4, 0.3,
		0.5, 1.0, 0.6, 0.2,
		0.4, 0.6, 1.0, 0.9,
		0.3, 0.2, 0.9, 1.0,
	}
)

func testStore(t *testing.T, nearby, facility, info []float64) *similarity.Store {
	t.Helper()
	n := int(math.Sqrt(float64(len(nearby))))
	store, err := similarity.NewStore(
		mat.NewDense(n, n, append([]float64(nil), nearby...)),
		mat.NewDense(n, n, append([]float64(nil), facility...)),
		mat.NewDense(n, n, append([]float64(nil), info...)),
	)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

// testCatalog builds a catalog with one row per name. Cell values are
// "<column>:<name>"; the price of "d" is NULL.
func testCatalog(t *testing.T, columns, names []string) *catalog.Index {
	t.Helper()
	rows := make([][]sql.NullString, len(names))
	for i, name := range names {
		row := make([]sql.NullString, len(columns))
		for j, c := range columns {
			switch {
			case c == catalog.KeyColumn:
				row[j] = sql.NullString{String: name, Valid: true}
			case c == "price" && name == "d":
			default:
				row[j] = sql.NullString{String: fmt.Sprintf("%s:%s", c, name), Valid: true}
			}
		}
		rows[i] = row
	}
	ix, err := catalog.New(columns, rows)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return ix
}

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := NewBundle(
		testStore(t, fixtureNearby, fixtureFacility, fixtureInfo),
		testCatalog(t, fixtureColumns, fixtureNames),
		nil,
	)
	if err != nil {
		t.Fatalf("NewBundle: %v", err)
	}
	return b
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
