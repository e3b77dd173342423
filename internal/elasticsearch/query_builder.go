package elasticsearch

import (
	"time"

	"github.com/siber-nasional/cve-dashboard/internal/config"
	"github.com/siber-nasional/cve-dashboard/internal/domain"
)

// sourceFields is the fixed field projection requested from the backend.
// Categorical fields are requested in both their keyword and plain variants;
// the normalizer prefers the exact keyword representation.
var sourceFields = []string{
	"@timestamp",
	"Severity.keyword",
	"Sektor.keyword",
	"Organisasi.keyword",
	"Vuln.keyword",
	"Source.keyword",
	"Target.keyword",
	"Score",
	"hasCisa",
	"IPAddresses.keyword",
}

// QueryBuilder builds detection queries from time-range tokens.
type QueryBuilder struct {
	config *config.ElasticsearchConfig
}

// NewQueryBuilder creates a new query builder.
func NewQueryBuilder(cfg *config.ElasticsearchConfig) *QueryBuilder {
	return &QueryBuilder{config: cfg}
}

// Build constructs the bounded time-window query for a time-range token.
// It is a pure function of (token, now). RangeAll applies no lower bound.
func (qb *QueryBuilder) Build(tr domain.TimeRange, now time.Time) map[string]any {
	start, end := tr.Window(now)

	timestampRange := map[string]any{
		"lte": end.Format(time.RFC3339),
	}
	if !start.IsZero() {
		timestampRange["gte"] = start.Format(time.RFC3339)
	}

	return map[string]any{
		"size": qb.config.MaxResults,
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{
						"range": map[string]any{
							"@timestamp": timestampRange,
						},
					},
				},
			},
		},
		"_source": sourceFields,
	}
}
