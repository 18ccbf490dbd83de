// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package api

import (
	"bytes"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/homematch/internal/catalog"
	"github.com/tomtom215/homematch/internal/feedback"
	"github.com/tomtom215/homematch/internal/middleware"
	"github.com/tomtom215/homematch/internal/recommend"
	"github.com/tomtom215/homematch/internal/similarity"
)

var testColumns = []string{
	"society_name", "property_name", "place", "nearby_locations", "features", "link",
	"property_type", "price", "bedrooms", "built_up_area", "bathrooms", "balconies",
	"age_possession", "furnish_label", "parking_availability", "luxury_score", "price_per_sqft",
}

var testNames = []string{"green acres", "blue ridge", "palm court", "lake view"}

var (
	testNearby = []float64{
		1.0, 0.9, 0.2, 0.5,
		0.9, 1.0, 0.3, 0.4,
		0.2, 0.3, 1.0, 0.6,
		0.5, 0.4, 0.6, 1.0,
	}
	testFacility = []float64{
		1.0, 0.1, 0.7, 0.7,
		0.1, 1.0, 0.2, 0.3,
		0.7, 0.2, 1.0, 0.8,
		0.7, 0.3, 0.8, 1.0,
	}
	testInfo = []float64{
		1.0, 0.5, 0.4, 0.3,
		0.5, 1.0, 0.6, 0.2,
		0.4, 0.6, 1.0, 0.9,
		0.3, 0.2, 0.9, 1.0,
	}
)

func testBundle(t *testing.T) *recommend.Bundle {
	t.Helper()

	store, err := similarity.NewStore(
		mat.NewDense(4, 4, append([]float64(nil), testNearby...)),
		mat.NewDense(4, 4, append([]float64(nil), testFacility...)),
		mat.NewDense(4, 4, append([]float64(nil), testInfo...)),
	)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	rows := make([][]sql.NullString, len(testNames))
	for i, name := range testNames {
		row := make([]sql.NullString, len(testColumns))
		for j, c := range testColumns {
			if c == catalog.KeyColumn {
				row[j] = sql.NullString{String: name, Valid: true}
				continue
			}
			row[j] = sql.NullString{String: fmt.Sprintf("%s of %s", c, name), Valid: true}
		}
		rows[i] = row
	}
	ix, err := catalog.New(testColumns, rows)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	b, err := recommend.NewBundle(store, ix, nil)
	if err != nil {
		t.Fatalf("NewBundle: %v", err)
	}
	return b
}

// testEnv is a fully wired server over the four-item fixture.
type testEnv struct {
	engine   *recommend.Engine
	feedback *feedback.Store
	server   http.Handler
}

type envOptions struct {
	noBundle   bool
	noFeedback bool
	rateLimit  int

	// slowThreshold overrides the performance monitor's 1s default.
	slowThreshold time.Duration
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	engine, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if !opts.noBundle {
		engine.Swap(testBundle(t))
	}

	env := &testEnv{engine: engine}

	var fb FeedbackStore
	if !opts.noFeedback {
		store, err := feedback.Open(feedback.Config{InMemory: true})
		if err != nil {
			t.Fatalf("feedback.Open: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		env.feedback = store
		fb = store
	}

	slow := time.Second
	if opts.slowThreshold > 0 {
		slow = opts.slowThreshold
	}
	perf := middleware.NewPerformanceMonitor(100, slow, zerolog.Nop())
	handler := NewHandler(engine, fb, perf, HandlerConfig{Version: "test", FeedbackListLimit: 50})

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = []string{"https://app.example"}
	if opts.rateLimit > 0 {
		mwCfg.RateLimitRequests = opts.rateLimit
	} else {
		mwCfg.RateLimitDisabled = true
	}

	env.server = NewRouter(handler, NewChiMiddleware(mwCfg), 5*time.Second).SetupChi()
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors models.APIResponse with a raw data payload.
type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		RequestID   string `json:"request_id"`
		QueryTimeMS int64  `json:"query_time_ms"`
		Cached      bool   `json:"cached"`
		Count       *int   `json:"count"`
	} `json:"metadata"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("code = %q, want %q", env.Error.Code, code)
	}
}
