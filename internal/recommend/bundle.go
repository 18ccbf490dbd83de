// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/tomtom215/homematch/internal/catalog"
	"github.com/tomtom215/homematch/internal/similarity"
)

// Bundle is the immutable serving state: the similarity matrices and the
// catalog they are aligned to. A Bundle is built once and never modified;
// reloads publish a new Bundle through Engine.Swap.
type Bundle struct {
	Store     *similarity.Store
	Catalog   *catalog.Index
	Artifacts []similarity.Header

	// Version is a content address over the artifact checksums and the
	// catalog digest. Identical inputs give identical versions.
	Version  string
	LoadedAt time.Time
}

// NewBundle checks that store and catalog agree on N.
func NewBundle(store *similarity.Store, ix *catalog.Index, headers []similarity.Header) (*Bundle, error) {
	if store == nil || ix == nil {
		return nil, fmt.Errorf("bundle needs both a store and a catalog: %w", ErrDimensionMismatch)
	}
	if store.Size() != ix.Len() {
		return nil, fmt.Errorf("matrices have N=%d but catalog has %d rows: %w", store.Size(), ix.Len(), ErrDimensionMismatch)
	}

	return &Bundle{
		Store:     store,
		Catalog:   ix,
		Artifacts: append([]similarity.Header(nil), headers...),
		Version:   bundleVersion(headers, ix.Digest()),
		LoadedAt:  time.Now().UTC(),
	}, nil
}

// LoadBundle loads the latest artifact of every facet and the catalog at
// catalogPath, then validates them together.
func LoadBundle(ctx context.Context, artifacts *similarity.ArtifactStore, tables catalog.TableReader, catalogPath string) (*Bundle, error) {
	if err := artifacts.Rescan(); err != nil {
		return nil, fmt.Errorf("scan artifacts: %w", err)
	}

	store, headers, err := artifacts.LoadStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("load similarity matrices: %w", err)
	}

	ix, err := catalog.Load(ctx, tables, catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return NewBundle(store, ix, headers)
}

// Size returns N.
func (b *Bundle) Size() int {
	return b.Store.Size()
}

// IncompleteModes reports, per mode, the detail columns the catalog lacks.
// Requests in those modes fail with ErrMissingAttribute.
func (b *Bundle) IncompleteModes() map[Mode][]string {
	out := make(map[Mode][]string)
	for _, m := range Modes() {
		if missing := b.Catalog.Missing(m.Schema()); len(missing) > 0 {
			out[m] = missing
		}
	}
	return out
}

func bundleVersion(headers []similarity.Header, catalogDigest string) string {
	h := sha256.New()
	for _, hdr := range headers {
		fmt.Fprintf(h, "%s:%d:%s\n", hdr.Facet, hdr.Version, hdr.Checksum)
	}
	fmt.Fprintf(h, "catalog:%s\n", catalogDigest)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
