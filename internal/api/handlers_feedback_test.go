// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/homematch/internal/feedback"
)

func TestSubmitFeedback(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodPost, "/api/v1/feedback", []byte(`{"name":"Alice","feedback":"Spot on","rating":5}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var entry feedback.Entry
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &entry); err != nil {
		t.Fatal(err)
	}
	if entry.ID == "" || entry.Rating != 5 || entry.Feedback != "Spot on" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestSubmitFeedback_Invalid(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{"empty body", ``, ErrCodeBadRequest, ""},
		{"malformed json", `{"feedback":`, ErrCodeBadRequest, ""},
		{"rating too high", `{"feedback":"ok","rating":6}`, ErrCodeValidation, "rating"},
		{"rating missing", `{"feedback":"ok"}`, ErrCodeValidation, "rating"},
		{"blank feedback", `{"feedback":"  ","rating":3}`, ErrCodeValidation, "feedback"},
		{"name too long", `{"name":"` + strings.Repeat("x", 201) + `","feedback":"ok","rating":3}`, ErrCodeValidation, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := env.do(t, http.MethodPost, "/api/v1/feedback", []byte(tt.body))
			expectError(t, rec, http.StatusBadRequest, tt.code)
			if tt.field == "" {
				return
			}
			details := decodeEnvelope(t, rec).Error.Details
			if details["field"] != tt.field {
				t.Errorf("details = %v, want field %q", details, tt.field)
			}
		})
	}
}

func TestListFeedbackAndStats(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	for _, body := range []string{
		`{"feedback":"one","rating":2}`,
		`{"feedback":"two","rating":4}`,
		`{"feedback":"three","rating":5}`,
	} {
		if rec := env.do(t, http.MethodPost, "/api/v1/feedback", []byte(body)); rec.Code != http.StatusCreated {
			t.Fatalf("submit status = %d", rec.Code)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/v1/feedback?limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	envl := decodeEnvelope(t, rec)
	var entries []feedback.Entry
	if err := json.Unmarshal(envl.Data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if envl.Metadata.Count == nil || *envl.Metadata.Count != 2 {
		t.Errorf("count = %v", envl.Metadata.Count)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/feedback/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	var stats feedback.Stats
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Count != 3 || stats.AverageRating != 3.67 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestListFeedback_InvalidLimit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})
	rec := env.do(t, http.MethodGet, "/api/v1/feedback?limit=-1", nil)
	expectError(t, rec, http.StatusBadRequest, ErrCodeValidation)
}

func TestFeedback_Disabled(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{noFeedback: true})

	for _, tc := range []struct{ method, target, body string }{
		{http.MethodPost, "/api/v1/feedback", `{"feedback":"x","rating":1}`},
		{http.MethodGet, "/api/v1/feedback", ""},
		{http.MethodGet, "/api/v1/feedback/stats", ""},
	} {
		var body []byte
		if tc.body != "" {
			body = []byte(tc.body)
		}
		rec := env.do(t, tc.method, tc.target, body)
		expectError(t, rec, http.StatusNotFound, ErrCodeFeatureDisabled)
	}
}
