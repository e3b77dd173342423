package datasource

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/siber-nasional/cve-dashboard/internal/domain"
)

// Score display domain.
const (
	scoreMin = 0
	scoreMax = 10
)

// timestampLayouts are tried in order when parsing the @timestamp field.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeResult carries the normalized records plus the count of documents
// dropped for unparseable timestamps.
type NormalizeResult struct {
	Records []domain.Record
	Skipped int
}

// ParseSearchResponse decodes a raw search response body and normalizes every
// hit into a flat Record.
func ParseSearchResponse(body io.Reader) (*NormalizeResult, error) {
	var esResponse struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	result := &NormalizeResult{
		Records: make([]domain.Record, 0, len(esResponse.Hits.Hits)),
	}
	for _, hit := range esResponse.Hits.Hits {
		record, ok := NormalizeDocument(hit.Source)
		if !ok {
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}

// NormalizeDocument converts one raw backend document into a Record. The
// second return value is false when the document has no parseable timestamp
// and must be dropped.
func NormalizeDocument(source map[string]any) (domain.Record, bool) {
	ts, ok := parseTimestamp(source["@timestamp"])
	if !ok {
		return domain.Record{}, false
	}

	return domain.Record{
		Timestamp:     ts,
		Severity:      categoricalValue(source, "Severity"),
		Sector:        categoricalValue(source, "Sektor"),
		Organization:  categoricalValue(source, "Organisasi"),
		Vulnerability: categoricalValue(source, "Vuln"),
		SourceAsset:   categoricalValue(source, "Source"),
		TargetAsset:   categoricalValue(source, "Target"),
		Score:         clampScore(numericValue(source["Score"])),
		Exploited:     boolValue(source["hasCisa"]),
		IPAddresses:   categoricalValue(source, "IPAddresses"),
	}, true
}

// categoricalValue applies the fallback chain for a categorical field: the
// exact keyword variant wins, then the plain value, then UNKNOWN.
func categoricalValue(source map[string]any, field string) string {
	if v, ok := stringValue(source[field+".keyword"]); ok {
		return v
	}
	if v, ok := stringValue(source[field]); ok {
		return v
	}
	return domain.UnknownValue
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func numericValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func boolValue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// clampScore bounds a score to the display domain.
func clampScore(score float64) float64 {
	if score < scoreMin {
		return scoreMin
	}
	if score > scoreMax {
		return scoreMax
	}
	return score
}

func parseTimestamp(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
