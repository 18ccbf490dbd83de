// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/homematch/internal/catalog"
	"github.com/tomtom215/homematch/internal/similarity"
)

// Mode selects which similarity facet(s) drive a recommendation.
type Mode string

const (
	// ModeNearby ranks by geographic proximity.
	ModeNearby Mode = "nearby_locations"

	// ModeFacility ranks by amenity and facility overlap.
	ModeFacility Mode = "facility_based"

	// ModePropertyInfo ranks by structured attributes such as price and size.
	ModePropertyInfo Mode = "property_info_based"

	// ModeCombined ranks by the weighted sum of all three facets.
	ModeCombined Mode = "auto"
)

// Modes returns every mode in display order.
func Modes() []Mode {
	return []Mode{ModeNearby, ModeFacility, ModePropertyInfo, ModeCombined}
}

// ParseMode returns the Mode named s. Only the four external names are
// accepted; there are no aliases and no case folding.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNearby, ModeFacility, ModePropertyInfo, ModeCombined:
		return m, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidMode)
}

// String returns the external mode name.
func (m Mode) String() string {
	return string(m)
}

// Label returns the human-readable mode name.
func (m Mode) Label() string {
	switch m {
	case ModeNearby:
		return "Nearby Locations"
	case ModeFacility:
		return "Facility Based"
	case ModePropertyInfo:
		return "Property Info Based"
	case ModeCombined:
		return "Combined"
	default:
		return string(m)
	}
}

// Facet returns the single matrix backing m. Combined mode has none.
func (m Mode) Facet() (similarity.Facet, bool) {
	switch m {
	case ModeNearby:
		return similarity.FacetNearby, true
	case ModeFacility:
		return similarity.FacetFacility, true
	case ModePropertyInfo:
		return similarity.FacetPropertyInfo, true
	default:
		return "", false
	}
}

// Schema returns the detail columns shown for m.
func (m Mode) Schema() catalog.Schema {
	switch m {
	case ModeFacility:
		return catalog.Schema{"society_name", "property_name", "features", "link"}
	case ModeNearby:
		return catalog.Schema{"society_name", "property_name", "place", "nearby_locations", "link"}
	case ModePropertyInfo:
		return catalog.Schema{
			"society_name", "property_name", "property_type", "price", "bedrooms", "built_up_area",
			"bathrooms", "balconies", "age_possession", "furnish_label", "parking_availability",
			"luxury_score", "link",
		}
	case ModeCombined:
		return catalog.Schema{
			"society_name", "place", "property_name", "price", "bedrooms", "price_per_sqft",
			"property_type", "age_possession", "furnish_label", "features", "link",
		}
	default:
		return nil
	}
}

// Request is a single recommendation query.
type Request struct {
	// Name is the reference society name, matched case-insensitively.
	Name string

	// Mode is the external mode name. It is validated before anything else.
	Mode string

	// N is the number of results. Zero means Limits.DefaultN.
	N int

	// Normalization optionally overrides Config.Normalization.
	Normalization string

	// RequestID is carried into logs and response metadata.
	RequestID string
}

// Scored is a ranked (position, score) pair.
type Scored struct {
	Position int
	Score    float64
}

// Percent renders a score as a percentage rounded to two decimals.
// Rounding is done on the exact binary value of score*100, so 0.60805
// (stored just below the tie) gives 60.8.
func Percent(score float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(score*100, 'f', 2, 64), 64) //nolint:errcheck // FormatFloat output always parses
	return v
}

// Recommendation is one ranked result.
type Recommendation struct {
	Position    int     `json:"position"`
	SocietyName string  `json:"society_name"`
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
	Percent     float64 `json:"similarity_percent"`
}

// DetailRow is a catalog projection for one ranked result, with the
// percentage appended after the schema columns.
type DetailRow struct {
	catalog.Row
	Percent float64
}

// MarshalJSON writes the schema columns in order, then similarity_percent.
//
//nolint:gocritic // value receiver so both values and pointers marshal the same
func (d DetailRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := catalog.WriteFields(&buf, d.Fields); err != nil {
		return nil, err
	}
	if len(d.Fields) > 0 {
		buf.WriteByte(',')
	}
	pct, err := json.Marshal(d.Percent)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"similarity_percent":`)
	buf.Write(pct)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Reference identifies the item a request was resolved to.
type Reference struct {
	Position    int    `json:"position"`
	SocietyName string `json:"society_name"`
}

// Response is the result of a recommendation request.
type Response struct {
	Mode            Mode             `json:"mode"`
	ModeLabel       string           `json:"mode_label"`
	Reference       Reference        `json:"reference"`
	Recommendations []Recommendation `json:"recommendations"`
	Details         []DetailRow      `json:"details"`
	Metadata        ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	RequestID     string    `json:"request_id,omitempty"`
	BundleVersion string    `json:"bundle_version"`
	N             int       `json:"n"`
	Normalization string    `json:"normalization"`
	LatencyMS     int64     `json:"latency_ms"`
	CacheHit      bool      `json:"cache_hit"`
	Timestamp     time.Time `json:"timestamp"`
}

// Stats are engine counters since start.
type Stats struct {
	Requests      int64  `json:"requests"`
	Errors        int64  `json:"errors"`
	CacheHits     int64  `json:"cache_hits"`
	CacheMisses   int64  `json:"cache_misses"`
	BundleVersion string `json:"bundle_version,omitempty"`
	Items         int    `json:"items"`
}
