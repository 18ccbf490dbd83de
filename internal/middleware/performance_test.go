// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func TestPerformanceMonitor_Window(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(3, 0, zerolog.Nop())
	for i := 1; i <= 5; i++ {
		pm.Record(RequestSample{Route: "/r", Method: "GET", Duration: time.Duration(i) * time.Millisecond})
	}

	recent := pm.recent(10)
	if len(recent) != 3 {
		t.Fatalf("retained %d samples, want 3", len(recent))
	}
	for i, want := range []time.Duration{3, 4, 5} {
		if recent[i].Duration != want*time.Millisecond {
			t.Errorf("sample %d = %v, want %v", i, recent[i].Duration, want*time.Millisecond)
		}
	}
	if got := pm.recent(1); len(got) != 1 || got[0].Duration != 5*time.Millisecond {
		t.Errorf("recent(1) = %+v", got)
	}
}

func TestPerformanceMonitor_Stats(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(100, 0, zerolog.Nop())
	for i := 1; i <= 10; i++ {
		pm.Record(RequestSample{Route: "/a", Method: "GET", Duration: time.Duration(i) * time.Millisecond, StatusCode: 200})
	}
	pm.Record(RequestSample{Route: "/b", Method: "POST", Duration: 7 * time.Millisecond, StatusCode: 500})

	stats := pm.Stats()
	if len(stats) != 2 {
		t.Fatalf("got %d routes, want 2", len(stats))
	}

	a := stats[0]
	if a.Route != "GET /a" || a.RequestCount != 10 {
		t.Fatalf("busiest route = %+v", a)
	}
	if a.AvgMS != 5.5 {
		t.Errorf("avg = %v, want 5.5", a.AvgMS)
	}
	if a.P50MS != 5 || a.P99MS != 9 || a.MaxMS != 10 {
		t.Errorf("percentiles = p50 %v p99 %v max %v", a.P50MS, a.P99MS, a.MaxMS)
	}

	if b := stats[1]; b.ErrorCount != 1 {
		t.Errorf("POST /b errors = %d, want 1", b.ErrorCount)
	}
}

func TestPerformanceMonitor_SlowRequestLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	pm := NewPerformanceMonitor(10, 50*time.Millisecond, zerolog.New(&buf))

	pm.Record(RequestSample{Route: "/fast", Method: "GET", Duration: time.Millisecond})
	if buf.Len() != 0 {
		t.Errorf("fast request logged: %s", buf.String())
	}

	pm.Record(RequestSample{Route: "/slow", Method: "GET", Duration: 80 * time.Millisecond})
	if !strings.Contains(buf.String(), "slow request") || !strings.Contains(buf.String(), "/slow") {
		t.Errorf("slow request not logged: %s", buf.String())
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10, 0, zerolog.Nop())
	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/api/v1/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/things/9", nil))

	recent := pm.recent(1)
	if len(recent) != 1 {
		t.Fatal("request not recorded")
	}
	if recent[0].Route != "/api/v1/things/{id}" || recent[0].StatusCode != http.StatusAccepted {
		t.Errorf("sample = %+v", recent[0])
	}
}

func TestPerformanceMonitor_Empty(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(0, 0, zerolog.Nop())
	if len(pm.Stats()) != 0 || len(pm.recent(5)) != 0 {
		t.Error("empty monitor returned data")
	}
	if got := pm.recent(-1); len(got) != 0 {
		t.Errorf("recent(-1) = %+v, want none", got)
	}
}

func TestPerformanceMonitor_SlowRequests(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10, 50*time.Millisecond, zerolog.Nop())
	pm.Record(RequestSample{Route: "/a", Method: "GET", Duration: 80 * time.Millisecond, StatusCode: 200})
	pm.Record(RequestSample{Route: "/b", Method: "GET", Duration: time.Millisecond, StatusCode: 200})
	pm.Record(RequestSample{Route: "/c", Method: "POST", Duration: 120 * time.Millisecond, StatusCode: 500})

	slow := pm.SlowRequests(5)
	if len(slow) != 2 {
		t.Fatalf("got %d slow requests, want 2: %+v", len(slow), slow)
	}
	if slow[0].Route != "/c" || slow[0].DurationMS != 120 || slow[0].StatusCode != 500 {
		t.Errorf("newest slow request = %+v", slow[0])
	}
	if slow[1].Route != "/a" {
		t.Errorf("second slow request = %+v", slow[1])
	}

	if got := pm.SlowRequests(1); len(got) != 1 || got[0].Route != "/c" {
		t.Errorf("SlowRequests(1) = %+v", got)
	}
	for _, n := range []int{0, -3} {
		if got := pm.SlowRequests(n); got == nil || len(got) != 0 {
			t.Errorf("SlowRequests(%d) = %+v, want empty", n, got)
		}
	}

	disabled := NewPerformanceMonitor(10, 0, zerolog.Nop())
	disabled.Record(RequestSample{Route: "/a", Method: "GET", Duration: time.Hour})
	if got := disabled.SlowRequests(5); len(got) != 0 {
		t.Errorf("threshold 0 should report nothing, got %+v", got)
	}
}
