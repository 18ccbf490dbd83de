// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/homematch/internal/similarity"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"nearby_locations", ModeNearby, false},
		{"facility_based", ModeFacility, false},
		{"property_info_based", ModePropertyInfo, false},
		{"auto", ModeCombined, false},
		{"bogus_mode", "", true},
		{"", "", true},
		{"AUTO", "", true},
		{" auto", "", true},
		{"combined", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Errorf("ParseMode(%q) error = %v, want ErrInvalidMode", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMode_Facet(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		mode  Mode
		facet similarity.Facet
		ok    bool
	}{
		{ModeNearby, similarity.FacetNearby, true},
		{ModeFacility, similarity.FacetFacility, true},
		{ModePropertyInfo, similarity.FacetPropertyInfo, true},
		{ModeCombined, "", false},
	} {
		f, ok := tt.mode.Facet()
		if f != tt.facet || ok != tt.ok {
			t.Errorf("%s.Facet() = %q, %v; want %q, %v", tt.mode, f, ok, tt.facet, tt.ok)
		}
	}
}

func TestMode_Schema(t *testing.T) {
	t.Parallel()

	tests := map[Mode]string{
		ModeFacility: "society_name,property_name,features,link",
		ModeNearby:   "society_name,property_name,place,nearby_locations,link",
		ModePropertyInfo: "society_name,property_name,property_type,price,bedrooms,built_up_area," +
			"bathrooms,balconies,age_possession,furnish_label,parking_availability,luxury_score,link",
		ModeCombined: "society_name,place,property_name,price,bedrooms,price_per_sqft," +
			"property_type,age_possession,furnish_label,features,link",
	}

	for mode, want := range tests {
		if got := strings.Join(mode.Schema(), ","); got != want {
			t.Errorf("%s schema:\n got  %s\n want %s", mode, got, want)
		}
	}
	if Mode("bogus_mode").Schema() != nil {
		t.Error("unknown mode should have no schema")
	}
}

func TestMode_Label(t *testing.T) {
	t.Parallel()

	if got := ModeCombined.Label(); got != "Combined" {
		t.Errorf("Label = %q", got)
	}
	if got := Mode("x").Label(); got != "x" {
		t.Errorf("unknown Label = %q", got)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  float64
	}{
		{0.9, 90},
		{0.5, 50},
		{0, 0},
		{1, 100},
		{1.36, 136},
		{0.123456, 12.35},
		{0.98761, 98.76},
		{-0.25, -25},
		// Decimal ties that sit below the midpoint in binary.
		{0.60805, 60.8},
		{0.14495, 14.49},
		{0.00015, 0.01},
	}

	for _, tt := range tests {
		if got := Percent(tt.score); got != tt.want {
			t.Errorf("Percent(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
