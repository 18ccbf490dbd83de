// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/tomtom215/homematch/internal/catalog"
	"github.com/tomtom215/homematch/internal/logging"
	"github.com/tomtom215/homematch/internal/metrics"
)

// Engine serves recommendations from the currently published Bundle.
// It is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	blender *Blender

	bundle atomic.Pointer[Bundle]

	// nil when caching is disabled
	cache *expirable.LRU[string, *Response]

	requestCount atomic.Int64
	errorCount   atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
}

// NewEngine creates an engine with no bundle. Recommend returns ErrNotReady
// until Swap publishes one.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:  cfg.Clone(),
		logger:  logger,
		blender: NewBlender(cfg.Weights),
	}
	if cfg.Cache.Enabled {
		e.cache = expirable.NewLRU[string, *Response](cfg.Cache.MaxEntries, nil, cfg.Cache.TTL)
	}
	return e, nil
}

// Swap publishes b and returns the previous bundle, if any. In-flight
// requests finish on the bundle they started with.
func (e *Engine) Swap(b *Bundle) *Bundle {
	prev := e.bundle.Swap(b)
	if e.cache != nil {
		e.cache.Purge()
	}

	event := e.logger.Info().
		Str(logging.FieldBundleVersion, b.Version).
		Int(logging.FieldItems, b.Size())
	if prev != nil {
		event = event.Str("previous_version", prev.Version)
	}
	event.Msg("bundle published")

	for mode, missing := range b.IncompleteModes() {
		e.logger.Warn().
			Str(logging.FieldMode, mode.String()).
			Strs("missing_columns", missing).
			Msg("catalog lacks detail columns; requests in this mode will fail")
	}

	metrics.SetBundleItems(b.Size())
	return prev
}

// Bundle returns the published bundle, or nil.
func (e *Engine) Bundle() *Bundle {
	return e.bundle.Load()
}

// Ready reports whether a bundle has been published.
func (e *Engine) Ready() bool {
	return e.bundle.Load() != nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Recommend resolves req.Name, blends, ranks and projects details.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	resp, err := e.recommend(ctx, req, start)

	metrics.RecordRecommendation(modeLabel(req.Mode), Outcome(err), time.Since(start))
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	return resp, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(ctx context.Context, req Request, start time.Time) (*Response, error) {
	// Parameter validation happens before any shared state is read.
	mode, err := ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	n, err := e.resolveN(req.N)
	if err != nil {
		return nil, err
	}
	norm := e.config.Normalization
	if req.Normalization != "" {
		if norm, err = ParseNormalization(req.Normalization); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := e.bundle.Load()
	if b == nil {
		return nil, ErrNotReady
	}

	logger := e.logger.With().
		Str(logging.FieldRequestID, req.RequestID).
		Str(logging.FieldMode, mode.String()).
		Int("n", n).
		Logger()

	key := cacheKey(b.Version, req.Name, mode, n, norm)
	if resp := e.cached(key, req.RequestID, start); resp != nil {
		logger.Debug().Msg("cache hit")
		return resp, nil
	}

	resp, err := e.execute(b, req.Name, mode, n, norm)
	if err != nil {
		logger.Debug().Err(err).Str(logging.FieldSociety, req.Name).Msg("recommendation failed")
		return nil, err
	}

	resp.Metadata = ResponseMetadata{
		BundleVersion: b.Version,
		N:             n,
		Normalization: string(norm),
		Timestamp:     time.Now().UTC(),
	}
	if e.cache != nil {
		e.cache.Add(key, resp)
	}

	out := copyResponse(resp)
	out.Metadata.RequestID = req.RequestID
	out.Metadata.LatencyMS = time.Since(start).Milliseconds()

	logger.Debug().
		Int("reference", resp.Reference.Position).
		Int("returned", len(resp.Recommendations)).
		Int64("latency_ms", out.Metadata.LatencyMS).
		Msg("recommendation complete")

	return out, nil
}

// execute runs resolve, blend, normalize, rank and project against b.
func (e *Engine) execute(b *Bundle, name string, mode Mode, n int, norm Normalization) (*Response, error) {
	pos, err := b.Catalog.Resolve(name)
	if err != nil {
		return nil, err
	}

	vec, err := e.blender.VectorFor(b.Store, pos, mode)
	if err != nil {
		return nil, fmt.Errorf("blend: %w", err)
	}
	normalize(norm, vec, pos, mode, e.blender.Weights())

	ranked, err := TopN(vec, pos, n)
	if err != nil {
		return nil, err
	}

	details, err := Project(b.Catalog, ranked, mode)
	if err != nil {
		return nil, err
	}

	refName, err := b.Catalog.Name(pos)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, len(ranked))
	for i, r := range ranked {
		society, err := b.Catalog.Name(r.Position)
		if err != nil {
			return nil, err
		}
		recs[i] = Recommendation{
			Position:    r.Position,
			SocietyName: society,
			DisplayName: catalog.DisplayName(society),
			Score:       r.Score,
			Percent:     Percent(r.Score),
		}
	}

	return &Response{
		Mode:            mode,
		ModeLabel:       mode.Label(),
		Reference:       Reference{Position: pos, SocietyName: refName},
		Recommendations: recs,
		Details:         details,
	}, nil
}

func (e *Engine) resolveN(n int) (int, error) {
	if n == 0 {
		return e.config.Limits.DefaultN, nil
	}
	if n < 0 || n > e.config.Limits.MaxN {
		return 0, fmt.Errorf("n=%d must be in [1, %d]: %w", n, e.config.Limits.MaxN, ErrInvalidArgument)
	}
	return n, nil
}

func (e *Engine) cached(key, requestID string, start time.Time) *Response {
	if e.cache == nil {
		return nil
	}
	resp, ok := e.cache.Get(key)
	if !ok {
		e.cacheMisses.Add(1)
		metrics.RecordCache(false)
		return nil
	}
	e.cacheHits.Add(1)
	metrics.RecordCache(true)

	out := copyResponse(resp)
	out.Metadata.CacheHit = true
	out.Metadata.RequestID = requestID
	out.Metadata.LatencyMS = time.Since(start).Milliseconds()
	return out
}

// Stats returns counters since start.
func (e *Engine) Stats() Stats {
	s := Stats{
		Requests:    e.requestCount.Load(),
		Errors:      e.errorCount.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
	}
	if b := e.bundle.Load(); b != nil {
		s.BundleVersion = b.Version
		s.Items = b.Size()
	}
	return s
}

// modeLabel bounds metric label cardinality to the known modes.
func modeLabel(s string) string {
	if m, err := ParseMode(s); err == nil {
		return m.String()
	}
	return "invalid"
}

func cacheKey(version, name string, mode Mode, n int, norm Normalization) string {
	return fmt.Sprintf("%s|%s|%s|%d|%s", version, strings.ToLower(name), mode, n, norm)
}

// copyResponse copies the slices so callers cannot mutate a cached entry.
// Detail field values are immutable strings shared with the catalog.
func copyResponse(resp *Response) *Response {
	out := *resp
	out.Recommendations = append([]Recommendation(nil), resp.Recommendations...)
	out.Details = make([]DetailRow, len(resp.Details))
	for i, d := range resp.Details {
		d.Fields = append([]catalog.Field(nil), d.Fields...)
		out.Details[i] = d
	}
	return &out
}
