// Package domain defines the core data model for the vulnerability dashboard.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoData indicates a query succeeded but returned zero records. The
// presentation layer renders an explicit "no data" state for this; it is the
// only failure mode that ever reaches the user.
var ErrNoData = errors.New("no data available for the selected time range")

// UnknownValue is substituted for any categorical field missing from a
// backend document, so every grouping operation has a defined bucket.
const UnknownValue = "UNKNOWN"

// Severity levels in fixed rank order. Cross-tab columns and severity
// breakdowns follow this sequence.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
)

// SeverityRank is the fixed ordering of known severities, most severe first.
var SeverityRank = []string{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Sectors is the fixed set of critical-infrastructure categories tracked on
// the overview page. "Lainnya" is the catch-all bucket.
var Sectors = []string{
	"Administrasi Pemerintahan",
	"Keuangan",
	"Transportasi",
	"Pangan",
	"ESDM",
	"TIK",
	"Kesehatan",
	"Pertahanan",
	"Lainnya",
}

// Record is one vulnerability-detection event, normalized to a flat shape.
// No Record is mutated after normalization.
type Record struct {
	Timestamp     time.Time `json:"timestamp"`
	Severity      string    `json:"severity"`
	Sector        string    `json:"sector"`
	Organization  string    `json:"organization"`
	Vulnerability string    `json:"vulnerability"`
	SourceAsset   string    `json:"source_asset"`
	TargetAsset   string    `json:"target_asset"`
	Score         float64   `json:"score"`
	Exploited     bool      `json:"exploited"`
	IPAddresses   string    `json:"ip_addresses"`
}

// Dataset is an ordered, immutable collection of Records for one time window.
// It is built once per render cycle and discarded afterwards.
type Dataset struct {
	Records []Record `json:"records"`
	// Source tells whether the records came from the live backend or the
	// synthetic fallback generator.
	Source DataSource `json:"source"`
	// Skipped counts backend documents dropped during normalization
	// (unparseable timestamps).
	Skipped int `json:"skipped"`
}

// DataSource identifies where a Dataset's records came from.
type DataSource string

const (
	// SourceLive marks data fetched from the search backend.
	SourceLive DataSource = "live"
	// SourceSynthetic marks generated fallback data.
	SourceSynthetic DataSource = "synthetic"
)

// Empty reports whether the dataset contains no records.
func (d *Dataset) Empty() bool {
	return len(d.Records) == 0
}

// TimeRange is a symbolic time-range token selected in the UI.
type TimeRange string

// The enumerated time-range tokens.
const (
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range90d TimeRange = "90d"
	Range1y  TimeRange = "1y"
	RangeAll TimeRange = "All"
)

// rangeDurations maps bounded tokens to their lookback duration.
var rangeDurations = map[TimeRange]time.Duration{
	Range7d:  7 * 24 * time.Hour,
	Range30d: 30 * 24 * time.Hour,
	Range90d: 90 * 24 * time.Hour,
	Range1y:  365 * 24 * time.Hour,
}

// ParseTimeRange validates a raw token string.
func ParseTimeRange(s string) (TimeRange, error) {
	tr := TimeRange(s)
	if tr == RangeAll {
		return tr, nil
	}
	if _, ok := rangeDurations[tr]; ok {
		return tr, nil
	}
	return "", fmt.Errorf("unknown time range %q", s)
}

// Window resolves the token to a concrete [start, end] window ending at now.
// For RangeAll the returned start is the zero time, meaning no lower bound.
func (tr TimeRange) Window(now time.Time) (start, end time.Time) {
	end = now
	if tr == RangeAll {
		return time.Time{}, end
	}
	d, ok := rangeDurations[tr]
	if !ok {
		// Unrecognized tokens get the widest bounded lookback.
		d = rangeDurations[Range1y]
	}
	return now.Add(-d), end
}
