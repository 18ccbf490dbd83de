// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package feedback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/homematch/internal/logging"
	"github.com/tomtom215/homematch/internal/metrics"
)

const keyPrefix = "feedback:"

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrInvalidRating is returned for ratings outside MinRating..MaxRating.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrEmptyFeedback is returned when the feedback text is blank.
	ErrEmptyFeedback = errors.New("feedback text is required")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("feedback store is closed")
)

// Submission is a new feedback entry as received from a client.
type Submission struct {
	Name     string `json:"name" validate:"omitempty,max=200"`
	Feedback string `json:"feedback" validate:"required,notblank,max=5000"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
}

// Entry is a stored feedback record.
type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Feedback  string    `json:"feedback"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats summarizes all stored feedback.
type Stats struct {
	Count         int         `json:"count"`
	AverageRating float64     `json:"average_rating"`
	ByRating      map[int]int `json:"by_rating"`
}

// Config configures the store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in memory (tests and the offline CLI).
	InMemory bool

	// SyncWrites fsyncs every submission.
	SyncWrites bool
}

// Store persists feedback entries.
type Store struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
	now    func() time.Time
}

// Open opens (or creates) the store.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("feedback store path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = cfg.SyncWrites
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open feedback store: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Feedback store opened")

	return &Store{db: db, now: time.Now}, nil
}

// Submit validates and stores a submission.
func (s *Store) Submit(ctx context.Context, sub Submission) (*Entry, error) {
	if sub.Rating < MinRating || sub.Rating > MaxRating {
		return nil, ErrInvalidRating
	}
	text := strings.TrimSpace(sub.Feedback)
	if text == "" {
		return nil, ErrEmptyFeedback
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	entry := &Entry{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(sub.Name),
		Feedback:  text,
		Rating:    sub.Rating,
		CreatedAt: s.now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshal feedback: %w", err)
	}

	start := time.Now()
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(entry), data)
	})
	metrics.RecordDBQuery("feedback_submit", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}

	metrics.RecordFeedback(entry.Rating)
	logging.Ctx(ctx).Info().
		Str("feedback_id", entry.ID).
		Int("rating", entry.Rating).
		Msg("Feedback stored")

	return entry, nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	entries := make([]Entry, 0)
	err := s.scan(ctx, func(e Entry) bool {
		entries = append(entries, e)
		return limit <= 0 || len(entries) < limit
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Stats computes the entry count and average rating.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{ByRating: make(map[int]int, MaxRating)}
	for r := MinRating; r <= MaxRating; r++ {
		st.ByRating[r] = 0
	}

	var sum int
	err := s.scan(ctx, func(e Entry) bool {
		st.Count++
		sum += e.Rating
		st.ByRating[e.Rating]++
		return true
	})
	if err != nil {
		return nil, err
	}
	if st.Count > 0 {
		st.AverageRating = math.Round(float64(sum)/float64(st.Count)*100) / 100
	}
	return st, nil
}

// scan visits entries newest first until fn returns false.
func (s *Store) scan(ctx context.Context, fn func(Entry) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	start := time.Now()
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration must start past the last key with the prefix.
		seek := append([]byte(keyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix([]byte(keyPrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decode feedback %s: %w", it.Item().Key(), err)
			}
			if !fn(e) {
				return nil
			}
		}
		return nil
	})
	metrics.RecordDBQuery("feedback_scan", time.Since(start), err)
	return err
}

// Close closes the underlying database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// entryKey orders entries by creation time, then ID for equal timestamps.
func entryKey(e *Entry) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", keyPrefix, e.CreatedAt.UnixNano(), e.ID))
}
