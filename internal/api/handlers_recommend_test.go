// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/homematch/internal/models"
)

type recommendationBody struct {
	Mode      string `json:"mode"`
	Reference struct {
		Position    int    `json:"position"`
		SocietyName string `json:"society_name"`
	} `json:"reference"`
	Recommendations []struct {
		Position    int     `json:"position"`
		SocietyName string  `json:"society_name"`
		Score       float64 `json:"score"`
		Percent     float64 `json:"similarity_percent"`
	} `json:"recommendations"`
	Details []json.RawMessage `json:"details"`
}

func TestRecommendations_Nearby(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodGet, "/api/v1/recommendations?society=Green+Acres&mode=nearby_locations&n=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	envl := decodeEnvelope(t, rec)
	if envl.Status != "success" {
		t.Fatalf("status = %q", envl.Status)
	}
	if envl.Metadata.RequestID == "" {
		t.Error("expected request_id in metadata")
	}
	if rec.Header().Get("X-Request-ID") != envl.Metadata.RequestID {
		t.Error("metadata request_id should match X-Request-ID header")
	}

	var body recommendationBody
	if err := json.Unmarshal(envl.Data, &body); err != nil {
		t.Fatal(err)
	}
	if body.Reference.SocietyName != "green acres" {
		t.Errorf("reference = %+v", body.Reference)
	}
	if len(body.Recommendations) != 2 {
		t.Fatalf("got %d recommendations", len(body.Recommendations))
	}
	want := []struct {
		name string
		pct  float64
	}{{"blue ridge", 90}, {"lake view", 50}}
	for i, w := range want {
		got := body.Recommendations[i]
		if got.SocietyName != w.name || got.Percent != w.pct {
			t.Errorf("rec[%d] = %s %.2f, want %s %.2f", i, got.SocietyName, got.Percent, w.name, w.pct)
		}
	}

	if len(body.Details) != 2 {
		t.Fatalf("got %d detail rows", len(body.Details))
	}
	var first map[string]interface{}
	if err := json.Unmarshal(body.Details[0], &first); err != nil {
		t.Fatal(err)
	}
	if first["society_name"] != "blue ridge" || first["similarity_percent"] != 90.0 {
		t.Errorf("detail[0] = %v", first)
	}
	if _, ok := first["price"]; ok {
		t.Error("nearby detail rows should not include price")
	}
}

func TestRecommendations_DefaultMode(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodGet, "/api/v1/recommendations?society=green%20acres&n=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body recommendationBody
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &body); err != nil {
		t.Fatal(err)
	}
	if body.Mode != "auto" {
		t.Errorf("mode = %q, want auto", body.Mode)
	}

	// 0.8*info + 0.6*facility + 1.0*nearby for the first row.
	want := []string{"blue ridge", "lake view", "palm court"}
	for i, w := range want {
		if body.Recommendations[i].SocietyName != w {
			t.Errorf("rec[%d] = %s, want %s", i, body.Recommendations[i].SocietyName, w)
		}
	}
	if body.Recommendations[0].Percent != 136 {
		t.Errorf("top percent = %v, want 136", body.Recommendations[0].Percent)
	}
}

func TestRecommendations_DefaultNExceedsCatalog(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	// The default of 5 is not smaller than the four-item catalog.
	rec := env.do(t, http.MethodGet, "/api/v1/recommendations?society=green%20acres&mode=nearby_locations", nil)
	expectError(t, rec, http.StatusBadRequest, ErrCodeInvalidArgument)
}

func TestRecommendations_Errors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		name   string
		query  url.Values
		status int
		code   string
	}{
		{
			name:   "unknown society",
			query:  url.Values{"society": {"Nonexistent Society"}, "mode": {"nearby_locations"}, "n": {"2"}},
			status: http.StatusNotFound,
			code:   ErrCodeNotFound,
		},
		{
			name:   "bogus mode",
			query:  url.Values{"society": {"green acres"}, "mode": {"bogus_mode"}},
			status: http.StatusBadRequest,
			code:   ErrCodeInvalidMode,
		},
		{
			name:   "bogus mode reported before missing society",
			query:  url.Values{"mode": {"bogus_mode"}},
			status: http.StatusBadRequest,
			code:   ErrCodeInvalidMode,
		},
		{
			name:   "missing society",
			query:  url.Values{"mode": {"facility_based"}},
			status: http.StatusBadRequest,
			code:   ErrCodeValidation,
		},
		{
			name:   "blank society",
			query:  url.Values{"society": {"   "}},
			status: http.StatusBadRequest,
			code:   ErrCodeValidation,
		},
		{
			name:   "n not an integer",
			query:  url.Values{"society": {"green acres"}, "mode": {"nearby_locations"}, "n": {"two"}},
			status: http.StatusBadRequest,
			code:   ErrCodeInvalidArgument,
		},
		{
			name:   "n zero",
			query:  url.Values{"society": {"green acres"}, "mode": {"nearby_locations"}, "n": {"0"}},
			status: http.StatusBadRequest,
			code:   ErrCodeInvalidArgument,
		},
		{
			name:   "n equal to catalog size",
			query:  url.Values{"society": {"green acres"}, "mode": {"nearby_locations"}, "n": {"4"}},
			status: http.StatusBadRequest,
			code:   ErrCodeInvalidArgument,
		},
		{
			name:   "unknown normalization",
			query:  url.Values{"society": {"green acres"}, "normalize": {"zscore"}, "n": {"2"}},
			status: http.StatusBadRequest,
			code:   ErrCodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := env.do(t, http.MethodGet, "/api/v1/recommendations?"+tt.query.Encode(), nil)
			expectError(t, rec, tt.status, tt.code)
		})
	}
}

func TestRecommendations_NotReady(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{noBundle: true})

	rec := env.do(t, http.MethodGet, "/api/v1/recommendations?society=green+acres&mode=nearby_locations&n=2", nil)
	expectError(t, rec, http.StatusServiceUnavailable, ErrCodeServiceUnavailable)

	// Mode is still checked first.
	rec = env.do(t, http.MethodGet, "/api/v1/recommendations?society=green+acres&mode=bogus_mode", nil)
	expectError(t, rec, http.StatusBadRequest, ErrCodeInvalidMode)
}

func TestRecommendations_CachedSecondCall(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	target := "/api/v1/recommendations?society=palm+court&mode=facility_based&n=2"
	first := decodeEnvelope(t, env.do(t, http.MethodGet, target, nil))
	second := decodeEnvelope(t, env.do(t, http.MethodGet, target, nil))

	if first.Metadata.Cached {
		t.Error("first call should not be cached")
	}
	if !second.Metadata.Cached {
		t.Error("second call should be served from cache")
	}

	var a, b recommendationBody
	if err := json.Unmarshal(first.Data, &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(second.Data, &b); err != nil {
		t.Fatal(err)
	}
	for i := range a.Recommendations {
		if a.Recommendations[i] != b.Recommendations[i] {
			t.Errorf("rec[%d] differs between calls: %+v vs %+v", i, a.Recommendations[i], b.Recommendations[i])
		}
	}
}

func TestProperties(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"all in catalog order", "/api/v1/properties", testNames},
		{"filtered", "/api/v1/properties?q=ACRES", []string{"green acres"}},
		{"limited", "/api/v1/properties?limit=2", testNames[:2]},
		{"no match", "/api/v1/properties?q=zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := env.do(t, http.MethodGet, tt.target, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			envl := decodeEnvelope(t, rec)
			var items []models.PropertyItem
			if err := json.Unmarshal(envl.Data, &items); err != nil {
				t.Fatal(err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.want))
			}
			for i, w := range tt.want {
				if items[i].Name != w {
					t.Errorf("items[%d] = %q, want %q", i, items[i].Name, w)
				}
			}
			if envl.Metadata.Count == nil || *envl.Metadata.Count != len(tt.want) {
				t.Errorf("metadata count = %v", envl.Metadata.Count)
			}
		})
	}

	t.Run("display name", func(t *testing.T) {
		t.Parallel()
		rec := env.do(t, http.MethodGet, "/api/v1/properties?q=lake", nil)
		var items []models.PropertyItem
		if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &items); err != nil {
			t.Fatal(err)
		}
		if len(items) != 1 || items[0].DisplayName != "Lake View" {
			t.Errorf("items = %+v", items)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		t.Parallel()
		rec := env.do(t, http.MethodGet, "/api/v1/properties?limit=0", nil)
		expectError(t, rec, http.StatusBadRequest, ErrCodeValidation)
	})
}

func TestProperties_NotReady(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{noBundle: true})
	rec := env.do(t, http.MethodGet, "/api/v1/properties", nil)
	expectError(t, rec, http.StatusServiceUnavailable, ErrCodeServiceUnavailable)
}

func TestModes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{noBundle: true})

	rec := env.do(t, http.MethodGet, "/api/v1/modes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var modes []models.ModeInfo
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &modes); err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"nearby_locations":    "Nearby Locations",
		"facility_based":      "Facility Based",
		"property_info_based": "Property Info Based",
		"auto":                "Combined",
	}
	if len(modes) != len(want) {
		t.Fatalf("got %d modes", len(modes))
	}
	for _, m := range modes {
		if want[m.Name] != m.Label {
			t.Errorf("mode %s label = %q, want %q", m.Name, m.Label, want[m.Name])
		}
		if len(m.Columns) == 0 || m.Columns[0] != "society_name" {
			t.Errorf("mode %s columns = %v", m.Name, m.Columns)
		}
		if len(m.Missing) != 0 {
			t.Errorf("mode %s missing = %v without a bundle", m.Name, m.Missing)
		}
	}
}
