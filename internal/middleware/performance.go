// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package middleware

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RequestSample is one observed request.
type RequestSample struct {
	Route      string
	Method     string
	Duration   time.Duration
	StatusCode int
	Timestamp  time.Time
}

// RouteStats are latency statistics for one method and route over the
// monitor's window.
type RouteStats struct {
	Route        string  `json:"route"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgMS        float64 `json:"avg_ms"`
	P50MS        float64 `json:"p50_ms"`
	P95MS        float64 `json:"p95_ms"`
	P99MS        float64 `json:"p99_ms"`
	MaxMS        float64 `json:"max_ms"`
}

// PerformanceMonitor keeps a fixed-size window of recent requests.
type PerformanceMonitor struct {
	mu      sync.RWMutex
	samples []RequestSample
	next    int
	full    bool

	slowThreshold time.Duration
	logger        zerolog.Logger
}

// NewPerformanceMonitor creates a monitor holding the last window requests.
// Requests slower than slowThreshold are logged; zero disables logging.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPerformanceMonitor(window int, slowThreshold time.Duration, logger zerolog.Logger) *PerformanceMonitor {
	if window <= 0 {
		window = 1000
	}
	return &PerformanceMonitor{
		samples:       make([]RequestSample, window),
		slowThreshold: slowThreshold,
		logger:        logger,
	}
}

// Record adds a sample, evicting the oldest when the window is full.
func (pm *PerformanceMonitor) Record(s RequestSample) {
	pm.mu.Lock()
	pm.samples[pm.next] = s
	pm.next = (pm.next + 1) % len(pm.samples)
	if pm.next == 0 {
		pm.full = true
	}
	pm.mu.Unlock()

	if pm.slowThreshold > 0 && s.Duration > pm.slowThreshold {
		pm.logger.Warn().
			Str("method", s.Method).
			Str("route", s.Route).
			Int("status", s.StatusCode).
			Dur("duration", s.Duration).
			Dur("threshold", pm.slowThreshold).
			Msg("slow request")
	}
}

// window returns a copy of the retained samples, oldest first.
func (pm *PerformanceMonitor) window() []RequestSample {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if !pm.full {
		return slices.Clone(pm.samples[:pm.next])
	}
	out := make([]RequestSample, 0, len(pm.samples))
	out = append(out, pm.samples[pm.next:]...)
	return append(out, pm.samples[:pm.next]...)
}

// Stats aggregates the window per "METHOD route", busiest first.
func (pm *PerformanceMonitor) Stats() []RouteStats {
	grouped := make(map[string][]RequestSample)
	for _, s := range pm.window() {
		key := s.Method + " " + s.Route
		grouped[key] = append(grouped[key], s)
	}

	stats := make([]RouteStats, 0, len(grouped))
	for key, samples := range grouped {
		durations := make([]time.Duration, len(samples))
		var total time.Duration
		var errs int64
		for i, s := range samples {
			durations[i] = s.Duration
			total += s.Duration
			if s.StatusCode >= http.StatusInternalServerError {
				errs++
			}
		}
		slices.Sort(durations)

		stats = append(stats, RouteStats{
			Route:        key,
			RequestCount: int64(len(samples)),
			ErrorCount:   errs,
			AvgMS:        ms(total / time.Duration(len(samples))),
			P50MS:        ms(percentile(durations, 0.50)),
			P95MS:        ms(percentile(durations, 0.95)),
			P99MS:        ms(percentile(durations, 0.99)),
			MaxMS:        ms(durations[len(durations)-1]),
		})
	}

	slices.SortFunc(stats, func(a, b RouteStats) int {
		if a.RequestCount != b.RequestCount {
			if a.RequestCount > b.RequestCount {
				return -1
			}
			return 1
		}
		if a.Route < b.Route {
			return -1
		}
		if a.Route > b.Route {
			return 1
		}
		return 0
	})
	return stats
}

// SlowRequest is a retained request that exceeded the slow threshold.
type SlowRequest struct {
	Method     string    `json:"method"`
	Route      string    `json:"route"`
	StatusCode int       `json:"status"`
	DurationMS float64   `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// SlowRequests returns up to n of the newest slow requests still in the
// window, newest first. It is empty when slow logging is disabled.
func (pm *PerformanceMonitor) SlowRequests(n int) []SlowRequest {
	out := make([]SlowRequest, 0)
	if n <= 0 || pm.slowThreshold <= 0 {
		return out
	}
	all := pm.window()
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		s := all[i]
		if s.Duration <= pm.slowThreshold {
			continue
		}
		out = append(out, SlowRequest{
			Method:     s.Method,
			Route:      s.Route,
			StatusCode: s.StatusCode,
			DurationMS: ms(s.Duration),
			Timestamp:  s.Timestamp,
		})
	}
	return out
}

// recent returns up to n of the newest samples, oldest first.
func (pm *PerformanceMonitor) recent(n int) []RequestSample {
	all := pm.window()
	n = max(0, min(n, len(all)))
	return all[len(all)-n:]
}

// Middleware records every request that passes through it.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		pm.Record(RequestSample{
			Route:      RoutePattern(r),
			Method:     r.Method,
			Duration:   time.Since(start),
			StatusCode: wrapper.statusCode,
			Timestamp:  start,
		})
	})
}

// percentile uses nearest-rank on a sorted slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
