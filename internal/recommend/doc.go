// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

// Package recommend ranks catalog items by similarity to a named reference
// item.
//
// # Modes
//
// Three precomputed N x N matrices back the single-facet modes:
//
//   - nearby_locations: geographic proximity
//   - facility_based: amenity overlap
//   - property_info_based: price, size and configuration
//
// The auto mode blends them as
//
//	0.8*property_info + 0.6*facility + 1.0*nearby
//
// with weights taken from Config.Weights. Combined scores are not
// normalized unless a normalization stage is selected, so they can exceed 1.
//
// # Pipeline
//
// A request is validated (mode, n, normalization) before the serving bundle
// is touched. The reference name is then resolved case-insensitively, its
// similarity row is blended and optionally normalized, and the top n other
// positions are selected with a stable descending sort. Ties keep ascending
// position order. Finally the mode's detail columns are projected from the
// catalog in rank order.
//
// # Bundles
//
// Matrices and catalog are published together as an immutable Bundle.
// Engine.Swap replaces the bundle atomically, so a request never sees
// matrices from one load and a catalog from another.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	bundle, err := recommend.LoadBundle(ctx, artifacts, db, "catalog.csv")
//	engine.Swap(bundle)
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    Name: "m3m golf estate",
//	    Mode: "nearby_locations",
//	    N:    5,
//	})
package recommend
