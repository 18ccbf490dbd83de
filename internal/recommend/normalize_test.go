// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"errors"
	"testing"
)

func TestParseNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Normalization
		wantErr bool
	}{
		{"", NormalizeNone, false},
		{"none", NormalizeNone, false},
		{"minmax", NormalizeMinMax, false},
		{"weight_sum", NormalizeWeightSum, false},
		{"MinMax", "", true},
		{"zscore", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseNormalization(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("got %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_None(t *testing.T) {
	t.Parallel()

	vec := []float64{2.4, 1.36, 0.94, 1.16}
	normalize(NormalizeNone, vec, 0, ModeCombined, DefaultBlendWeights())

	want := []float64{2.4, 1.36, 0.94, 1.16}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("vec[%d] = %v, want %v", i, vec[i], want[i])
		}
	}
}

func TestNormalize_MinMaxIgnoresReference(t *testing.T) {
	t.Parallel()

	vec := []float64{2.4, 1.36, 0.94, 1.16}
	normalize(NormalizeMinMax, vec, 0, ModeCombined, DefaultBlendWeights())

	if !approxEqual(vec[1], 1, 1e-12) {
		t.Errorf("max candidate = %v, want 1", vec[1])
	}
	if !approxEqual(vec[2], 0, 1e-12) {
		t.Errorf("min candidate = %v, want 0", vec[2])
	}
	if !approxEqual(vec[3], (1.16-0.94)/(1.36-0.94), 1e-12) {
		t.Errorf("middle candidate = %v", vec[3])
	}
}

func TestNormalize_MinMaxPreservesOrder(t *testing.T) {
	t.Parallel()

	raw := []float64{1.0, 0.9, 0.2, 0.5}
	vec := append([]float64(nil), raw...)
	normalize(NormalizeMinMax, vec, 0, ModeNearby, DefaultBlendWeights())

	before, _ := TopN(raw, 0, 3)
	after, _ := TopN(vec, 0, 3)
	if !equalInts(positions(before), positions(after)) {
		t.Errorf("order changed: %v -> %v", positions(before), positions(after))
	}
}

func TestNormalize_MinMaxDegenerate(t *testing.T) {
	t.Parallel()

	vec := []float64{1.0, 0.4, 0.4, 0.4}
	normalize(NormalizeMinMax, vec, 0, ModeNearby, DefaultBlendWeights())

	for i, want := range []float64{1.0, 0.4, 0.4, 0.4} {
		if vec[i] != want {
			t.Errorf("vec[%d] = %v, want %v", i, vec[i], want)
		}
	}
}

func TestNormalize_WeightSum(t *testing.T) {
	t.Parallel()

	w := DefaultBlendWeights()

	combined := []float64{2.4, 1.36, 0.94, 1.16}
	normalize(NormalizeWeightSum, combined, 0, ModeCombined, w)
	if !approxEqual(combined[0], 1, 1e-12) {
		t.Errorf("self score = %v, want 1", combined[0])
	}
	if !approxEqual(combined[1], 1.36/2.4, 1e-12) {
		t.Errorf("combined[1] = %v, want %v", combined[1], 1.36/2.4)
	}

	single := []float64{1.0, 0.9, 0.2, 0.5}
	normalize(NormalizeWeightSum, single, 0, ModeNearby, w)
	if single[1] != 0.9 {
		t.Errorf("single facet scaled: %v", single[1])
	}
}
