// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

// Package similarity holds the precomputed pairwise similarity matrices.
//
// A Store owns one square matrix per facet (nearby, facility,
// property_info). All three share the same dimension N and the same
// position assignment, which is the catalog row order. A Store is never
// mutated after construction and is safe for concurrent readers.
//
// Matrices are persisted as versioned artifacts; see ArtifactStore.
package similarity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch is returned when a matrix is not square or the
	// facets disagree on N.
	ErrDimensionMismatch = errors.New("similarity dimension mismatch")

	// ErrIndexOutOfRange is returned for positions outside [0, N).
	ErrIndexOutOfRange = errors.New("position out of range")

	// ErrUnknownFacet is returned for a facet name that has no matrix.
	ErrUnknownFacet = errors.New("unknown similarity facet")

	// ErrNonFinite is returned when a matrix holds NaN or an infinity.
	ErrNonFinite = errors.New("similarity score is not finite")
)

// Facet names one similarity matrix.
type Facet string

const (
	FacetNearby       Facet = "nearby"
	FacetFacility     Facet = "facility"
	FacetPropertyInfo Facet = "property_info"
)

// Facets lists every facet in artifact order.
func Facets() []Facet {
	return []Facet{FacetNearby, FacetFacility, FacetPropertyInfo}
}

// Valid reports whether f is a known facet.
func (f Facet) Valid() bool {
	switch f {
	case FacetNearby, FacetFacility, FacetPropertyInfo:
		return true
	}
	return false
}

// Store is an immutable set of aligned similarity matrices.
type Store struct {
	size     int
	matrices map[Facet]*mat.Dense
}

// NewStore validates and wraps the three facet matrices. The Store takes
// ownership of the matrices; callers must not modify them afterwards.
func NewStore(nearby, facility, propertyInfo *mat.Dense) (*Store, error) {
	matrices := map[Facet]*mat.Dense{
		FacetNearby:       nearby,
		FacetFacility:     facility,
		FacetPropertyInfo: propertyInfo,
	}

	size := -1
	for _, f := range Facets() {
		m := matrices[f]
		if m == nil || m.IsEmpty() {
			return nil, fmt.Errorf("%s matrix is empty: %w", f, ErrDimensionMismatch)
		}
		r, c := m.Dims()
		if r != c {
			return nil, fmt.Errorf("%s matrix is %dx%d, not square: %w", f, r, c, ErrDimensionMismatch)
		}
		if size != -1 && r != size {
			return nil, fmt.Errorf("%s matrix has N=%d, expected %d: %w", f, r, size, ErrDimensionMismatch)
		}
		size = r
		if err := checkFinite(m); err != nil {
			return nil, fmt.Errorf("%s matrix: %w", f, err)
		}
	}

	return &Store{size: size, matrices: matrices}, nil
}

// checkFinite reports the first NaN or infinite cell of m.
func checkFinite(m *mat.Dense) error {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		for j, v := range m.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("cell (%d,%d) is %v: %w", i, j, v, ErrNonFinite)
			}
		}
	}
	return nil
}

// Size returns N, the number of items every matrix covers.
func (s *Store) Size() int {
	return s.size
}

// RowView returns the backing slice of row pos in facet f. The slice
// aliases the matrix and must be treated as read-only.
func (s *Store) RowView(f Facet, pos int) ([]float64, error) {
	m, ok := s.matrices[f]
	if !ok {
		return nil, fmt.Errorf("%q: %w", f, ErrUnknownFacet)
	}
	if pos < 0 || pos >= s.size {
		return nil, fmt.Errorf("position %d not in [0, %d): %w", pos, s.size, ErrIndexOutOfRange)
	}
	return m.RawRowView(pos), nil
}

// Row returns a copy of row pos in facet f.
func (s *Store) Row(f Facet, pos int) ([]float64, error) {
	view, err := s.RowView(f, pos)
	if err != nil {
		return nil, err
	}
	row := make([]float64, len(view))
	copy(row, view)
	return row, nil
}

// At returns the similarity between positions i and j in facet f.
func (s *Store) At(f Facet, i, j int) (float64, error) {
	row, err := s.RowView(f, i)
	if err != nil {
		return 0, err
	}
	if j < 0 || j >= s.size {
		return 0, fmt.Errorf("position %d not in [0, %d): %w", j, s.size, ErrIndexOutOfRange)
	}
	return row[j], nil
}
