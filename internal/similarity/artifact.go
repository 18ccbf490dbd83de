// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package similarity

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Artifact layout
//
// Each file is named {facet}_v{version}.sim.gz and holds one gob-encoded
// artifactFile. The payload is the gonum Dense binary form (row-major
// float64, little-endian, with gonum's own shape header) compressed with
// gzip. Header.Checksum is the SHA-256 of the uncompressed payload and is
// what makes an artifact content-addressed.
const (
	artifactExt = ".sim.gz"

	// DTypeFloat64 is the only supported element type.
	DTypeFloat64 = "float64"

	// OrderRowMajor is the only supported element order.
	OrderRowMajor = "row-major"
)

var (
	// ErrArtifactNotFound is returned when no artifact exists for a facet.
	ErrArtifactNotFound = errors.New("similarity artifact not found")

	// ErrArtifactExists is returned by Save when the version is taken.
	ErrArtifactExists = errors.New("similarity artifact already exists")

	// ErrBatchMismatch is returned by LoadStore when the latest artifacts
	// of the facets were not imported as one batch.
	ErrBatchMismatch = errors.New("similarity artifacts belong to different batches")
)

// Header describes a stored matrix.
type Header struct {
	Facet     Facet     `json:"facet"`
	Version   int       `json:"version"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	DType     string    `json:"dtype"`
	Order     string    `json:"order"`
	Checksum  string    `json:"checksum"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`

	// Source records where the matrix came from, e.g. the imported CSV path.
	Source string `json:"source,omitempty"`

	// Batch groups the facets of one upstream export.
	Batch string `json:"batch,omitempty"`
}

// SaveOptions controls Save.
type SaveOptions struct {
	// Version to write. 0 means one past the current latest.
	Version int

	Source string

	// Batch is copied into the header. LoadStore combines facets only when
	// their latest artifacts carry the same batch.
	Batch string

	// Force replaces an existing artifact of the same version.
	Force bool
}

type artifactFile struct {
	Header  Header
	Payload []byte
}

// ArtifactStore reads and writes versioned matrix artifacts in a directory.
type ArtifactStore struct {
	dir string
	mu  sync.RWMutex

	// latest version per facet
	versions map[Facet]int
}

// OpenArtifactStore opens dir, creating it if needed, and indexes the
// artifacts already present.
func OpenArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for artifact storage
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}

	s := &ArtifactStore{
		dir:      dir,
		versions: make(map[Facet]int),
	}
	if err := s.Rescan(); err != nil {
		return nil, fmt.Errorf("scan artifacts: %w", err)
	}
	return s, nil
}

// Dir returns the artifact directory.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// Rescan rebuilds the latest-version index from the directory contents.
func (s *ArtifactStore) Rescan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	versions := make(map[Facet]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		facet, version, ok := ParseArtifactName(entry.Name())
		if !ok {
			continue
		}
		if current, seen := versions[facet]; !seen || version > current {
			versions[facet] = version
		}
	}

	s.mu.Lock()
	s.versions = versions
	s.mu.Unlock()
	return nil
}

// ArtifactName returns the file name for a facet version.
func ArtifactName(f Facet, version int) string {
	return fmt.Sprintf("%s_v%d%s", f, version, artifactExt)
}

// ParseArtifactName extracts facet and version from a file name such as
// "nearby_v3.sim.gz". Unknown facets are rejected.
func ParseArtifactName(name string) (Facet, int, bool) {
	base, ok := strings.CutSuffix(name, artifactExt)
	if !ok {
		return "", 0, false
	}
	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0, false
	}
	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version <= 0 {
		return "", 0, false
	}
	facet := Facet(base[:idx])
	if !facet.Valid() {
		return "", 0, false
	}
	return facet, version, true
}

// Latest returns the newest version stored for f.
func (s *ArtifactStore) Latest(f Facet) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[f]
	return v, ok
}

// Save writes m as a new version of facet f. An existing version is never
// replaced unless opts.Force is set; Save returns ErrArtifactExists instead.
func (s *ArtifactStore) Save(ctx context.Context, f Facet, m *mat.Dense, opts SaveOptions) (*Header, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%q: %w", f, ErrUnknownFacet)
	}
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("%s matrix is empty: %w", f, ErrDimensionMismatch)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	version := opts.Version
	if version == 0 {
		version = s.versions[f] + 1
	}

	raw, err := m.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode matrix: %w", err)
	}
	sum := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return nil, fmt.Errorf("compress matrix: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	rows, cols := m.Dims()
	header := Header{
		Facet:     f,
		Version:   version,
		Rows:      rows,
		Cols:      cols,
		DType:     DTypeFloat64,
		Order:     OrderRowMajor,
		Checksum:  hex.EncodeToString(sum[:]),
		SizeBytes: int64(compressed.Len()),
		CreatedAt: time.Now().UTC(),
		Source:    opts.Source,
		Batch:     opts.Batch,
	}

	// Write to a temp file and rename so readers never see a partial artifact.
	final := filepath.Join(s.dir, ArtifactName(f, version))
	tmp, err := os.CreateTemp(s.dir, ".tmp-"+string(f)+"-*")
	if err != nil {
		return nil, fmt.Errorf("create artifact file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() //nolint:errcheck // drops the temp name; the published link survives

	if err := gob.NewEncoder(tmp).Encode(artifactFile{Header: header, Payload: compressed.Bytes()}); err != nil {
		_ = tmp.Close() //nolint:errcheck // already returning the encode error
		return nil, fmt.Errorf("write artifact file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close artifact file: %w", err)
	}
	if err := publish(tmp.Name(), final, opts.Force); err != nil {
		return nil, err
	}

	if current, ok := s.versions[f]; !ok || version > current {
		s.versions[f] = version
	}
	return &header, nil
}

// publish moves tmp to final. Without force it links instead of renaming,
// which fails atomically when final already exists.
func publish(tmp, final string, force bool) error {
	if force {
		if err := os.Rename(tmp, final); err != nil {
			return fmt.Errorf("publish artifact file: %w", err)
		}
		return nil
	}
	if err := os.Link(tmp, final); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", filepath.Base(final), ErrArtifactExists)
		}
		return fmt.Errorf("publish artifact file: %w", err)
	}
	return nil
}

// Load reads version of facet f. A version of 0 loads the latest.
func (s *ArtifactStore) Load(ctx context.Context, f Facet, version int) (*mat.Dense, *Header, error) {
	if version == 0 {
		latest, ok := s.Latest(f)
		if !ok {
			return nil, nil, fmt.Errorf("%s: %w", f, ErrArtifactNotFound)
		}
		version = latest
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	af, err := s.readFile(ArtifactName(f, version))
	if err != nil {
		return nil, nil, err
	}
	h := af.Header
	if h.DType != DTypeFloat64 || h.Order != OrderRowMajor {
		return nil, nil, fmt.Errorf("%s v%d: unsupported layout %s/%s", f, version, h.DType, h.Order)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(af.Payload))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress %s v%d: %w", f, version, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // read-only stream

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s v%d: %w", f, version, err)
	}

	sum := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(sum[:]); checksum != h.Checksum {
		return nil, nil, fmt.Errorf("%s v%d checksum mismatch: expected %s, got %s", f, version, h.Checksum, checksum)
	}

	var m mat.Dense
	if err := m.UnmarshalBinary(raw); err != nil {
		return nil, nil, fmt.Errorf("decode %s v%d: %w", f, version, err)
	}
	if r, c := m.Dims(); r != h.Rows || c != h.Cols {
		return nil, nil, fmt.Errorf("%s v%d is %dx%d, header says %dx%d: %w", f, version, r, c, h.Rows, h.Cols, ErrDimensionMismatch)
	}

	return &m, &h, nil
}

// Headers returns the header of the latest artifact of every facet that
// has one, in facet order.
func (s *ArtifactStore) Headers(ctx context.Context) ([]Header, error) {
	var headers []Header
	for _, f := range Facets() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		version, ok := s.Latest(f)
		if !ok {
			continue
		}
		af, err := s.readFile(ArtifactName(f, version))
		if err != nil {
			return nil, err
		}
		headers = append(headers, af.Header)
	}
	return headers, nil
}

// Versions lists every version on disk for f, oldest first.
func (s *ArtifactStore) Versions(f Facet) ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var versions []int
	for _, entry := range entries {
		facet, version, ok := ParseArtifactName(entry.Name())
		if ok && facet == f {
			versions = append(versions, version)
		}
	}
	sort.Ints(versions)
	return versions, nil
}

// LoadStore loads the latest artifact of each facet into a Store. The three
// headers must share a batch; a partially imported batch returns
// ErrBatchMismatch so the previous bundle keeps serving.
func (s *ArtifactStore) LoadStore(ctx context.Context) (*Store, []Header, error) {
	loaded := make(map[Facet]*mat.Dense, 3)
	headers := make([]Header, 0, 3)
	for _, f := range Facets() {
		m, h, err := s.Load(ctx, f, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", f, err)
		}
		if len(headers) > 0 && h.Batch != headers[0].Batch {
			return nil, nil, fmt.Errorf("%s v%d is batch %q, %s v%d is batch %q: %w",
				f, h.Version, h.Batch, headers[0].Facet, headers[0].Version, headers[0].Batch, ErrBatchMismatch)
		}
		loaded[f] = m
		headers = append(headers, *h)
	}

	store, err := NewStore(loaded[FacetNearby], loaded[FacetFacility], loaded[FacetPropertyInfo])
	if err != nil {
		return nil, nil, err
	}
	return store, headers, nil
}

func (s *ArtifactStore) readFile(name string) (*artifactFile, error) {
	f, err := os.Open(filepath.Join(s.dir, name)) //nolint:gosec // name is built from a validated facet and version
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	var af artifactFile
	if err := gob.NewDecoder(f).Decode(&af); err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}
	return &af, nil
}
