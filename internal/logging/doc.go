// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

// Package logging provides the process-wide zerolog logger.
//
// # Overview
//
// The package provides:
//   - JSON output for production and console output for development
//   - Component loggers via WithComponent
//   - Request and correlation IDs carried in context.Context
//   - An slog.Handler backed by zerolog, used for supervisor events
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("bundle_version", v).Msg("bundle published")
//
//	logger := logging.WithComponent("reload")
//	logger.Warn().Err(err).Msg("reload failed")
//
// # Request Context
//
// The HTTP middleware stores IDs in the request context; handlers log
// through Ctx so every line carries them:
//
//	logging.Ctx(r.Context()).Info().Msg("feedback stored")
package logging
