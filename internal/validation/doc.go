// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

/*
Package validation wraps go-playground/validator with a shared instance and
API-friendly error messages.

Request types declare constraints with struct tags:

	type FeedbackRequest struct {
	    Name     string `json:"name" validate:"required,notblank,max=200"`
	    Feedback string `json:"feedback" validate:"max=2000"`
	    Rating   int    `json:"rating" validate:"gte=1,lte=5"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    // respond 400 with apiErr.Code and apiErr.Message
	}

Field names in messages use the json tag (or query tag), so errors match
the names clients sent.
*/
package validation
