// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

// Package feedback stores user feedback about recommendations in BadgerDB.
//
// Entries are keyed by submission time so a reverse prefix scan returns the
// newest first. There is no delete operation.
//
//	store, err := feedback.Open(feedback.Config{Path: "/data/feedback"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	entry, err := store.Submit(ctx, feedback.Submission{
//	    Name:     "Alice",
//	    Feedback: "Useful matches",
//	    Rating:   5,
//	})
package feedback
