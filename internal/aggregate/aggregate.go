// Package aggregate derives the summary tables consumed by the presentation
// layer. Every function is a pure function of its inputs; records are never
// mutated.
package aggregate

import (
	"sort"
	"time"

	"github.com/siber-nasional/cve-dashboard/internal/domain"
)

// Top-N sizes used by the overview page.
const (
	TopOrganizations   = 10
	TopAssets          = 5
	TopVulnerabilities = 5

	// ExploitedRecentsLimit caps the raw-record table of the exploited view.
	ExploitedRecentsLimit = 50
)

// Apply filters records by a selection, preserving order. See
// domain.FilterSelection for the asymmetric empty-selection semantics.
func Apply(records []domain.Record, sel *domain.FilterSelection) []domain.Record {
	if sel == nil {
		return records
	}
	out := make([]domain.Record, 0, len(records))
	for i := range records {
		if sel.Matches(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// CountBy counts records per key value, sorted descending by count with ties
// broken by first-encountered order.
func CountBy(records []domain.Record, key func(*domain.Record) string) []domain.CountRow {
	counts := make(map[string]int)
	order := make([]string, 0)
	for i := range records {
		k := key(&records[i])
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	rows := make([]domain.CountRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, domain.CountRow{Key: k, Count: counts[k]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows
}

// CountBySeverity counts records per severity.
func CountBySeverity(records []domain.Record) []domain.CountRow {
	return CountBy(records, func(r *domain.Record) string { return r.Severity })
}

// CountBySector counts records per sector.
func CountBySector(records []domain.Record) []domain.CountRow {
	return CountBy(records, func(r *domain.Record) string { return r.Sector })
}

// SeverityCount returns the record count for one severity level.
func SeverityCount(records []domain.Record, severity string) int {
	n := 0
	for i := range records {
		if records[i].Severity == severity {
			n++
		}
	}
	return n
}

// OrgsPerSector counts distinct organizations per sector, one row for every
// fixed sector in fixed order, zero-filled. This is a cardinality count, not
// a record count.
func OrgsPerSector(records []domain.Record) []domain.CountRow {
	orgs := make(map[string]map[string]struct{}, len(domain.Sectors))
	for i := range records {
		r := &records[i]
		if orgs[r.Sector] == nil {
			orgs[r.Sector] = make(map[string]struct{})
		}
		orgs[r.Sector][r.Organization] = struct{}{}
	}

	rows := make([]domain.CountRow, 0, len(domain.Sectors))
	for _, sector := range domain.Sectors {
		rows = append(rows, domain.CountRow{Key: sector, Count: len(orgs[sector])})
	}
	return rows
}

// Distinct counts the distinct values of a field.
func Distinct(records []domain.Record, key func(*domain.Record) string) int {
	seen := make(map[string]struct{})
	for i := range records {
		seen[key(&records[i])] = struct{}{}
	}
	return len(seen)
}

// TopN ranks records by frequency of a field, descending, ties broken by
// first-encountered order, truncated to n.
func TopN(records []domain.Record, key func(*domain.Record) string, n int) []domain.RankedRow {
	counts := CountBy(records, key)
	if len(counts) > n {
		counts = counts[:n]
	}
	rows := make([]domain.RankedRow, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, domain.RankedRow{Key: c.Key, Hits: c.Count})
	}
	return rows
}

// CrossTab pivots record counts by (sector, severity). Rows are sorted by
// sector name; columns follow the fixed severity rank restricted to
// severities present anywhere in the data. Severities outside the rank
// sequence are omitted. Missing cells are zero.
func CrossTab(records []domain.Record) domain.CrossTab {
	cells := make(map[string]map[string]int)
	present := make(map[string]bool)
	for i := range records {
		r := &records[i]
		if cells[r.Sector] == nil {
			cells[r.Sector] = make(map[string]int)
		}
		cells[r.Sector][r.Severity]++
		present[r.Severity] = true
	}

	columns := make([]string, 0, len(domain.SeverityRank))
	for _, sev := range domain.SeverityRank {
		if present[sev] {
			columns = append(columns, sev)
		}
	}

	sectors := make([]string, 0, len(cells))
	for sector := range cells {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	rows := make([]domain.CrossTabRow, 0, len(sectors))
	for _, sector := range sectors {
		row := domain.CrossTabRow{Sector: sector, Cells: make([]int, len(columns))}
		for i, sev := range columns {
			row.Cells[i] = cells[sector][sev]
		}
		rows = append(rows, row)
	}

	return domain.CrossTab{Columns: columns, Rows: rows}
}

// TimeBuckets counts records per calendar day (UTC). The series is dense:
// contiguous from the first to the last day with zero-filled gaps, matching
// a daily resample.
func TimeBuckets(records []domain.Record) []domain.TimeBucket {
	if len(records) == 0 {
		return nil
	}

	counts := make(map[time.Time]int)
	var first, last time.Time
	for i := range records {
		day := truncateToDay(records[i].Timestamp)
		counts[day]++
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}

	days := int(last.Sub(first).Hours()/24) + 1
	buckets := make([]domain.TimeBucket, 0, days)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		buckets = append(buckets, domain.TimeBucket{Day: day, Count: counts[day]})
	}
	return buckets
}

func truncateToDay(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

// Exploited summarizes the subset of records with the known-exploited flag.
// Returns nil when no record is flagged.
func Exploited(records []domain.Record) *domain.ExploitedSummary {
	subset := make([]domain.Record, 0)
	for i := range records {
		if records[i].Exploited {
			subset = append(subset, records[i])
		}
	}
	if len(subset) == 0 {
		return nil
	}

	recents := subset
	if len(recents) > ExploitedRecentsLimit {
		recents = recents[:ExploitedRecentsLimit]
	}

	return &domain.ExploitedSummary{
		TotalHits:    len(subset),
		UniqueVulns:  Distinct(subset, func(r *domain.Record) string { return r.Vulnerability }),
		UniqueOrgs:   Distinct(subset, func(r *domain.Record) string { return r.Organization }),
		RecentsLimit: ExploitedRecentsLimit,
		Recents:      recents,
	}
}

// ScoreBySector summarizes the score distribution per sector (min, quartiles,
// max), rows sorted by sector name.
func ScoreBySector(records []domain.Record) []domain.ScoreSummary {
	scores := make(map[string][]float64)
	for i := range records {
		r := &records[i]
		scores[r.Sector] = append(scores[r.Sector], r.Score)
	}

	sectors := make([]string, 0, len(scores))
	for sector := range scores {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	summaries := make([]domain.ScoreSummary, 0, len(sectors))
	for _, sector := range sectors {
		values := scores[sector]
		sort.Float64s(values)
		summaries = append(summaries, domain.ScoreSummary{
			Sector: sector,
			Count:  len(values),
			Min:    values[0],
			Q1:     percentile(values, 0.25),
			Median: percentile(values, 0.5),
			Q3:     percentile(values, 0.75),
			Max:    values[len(values)-1],
		})
	}
	return summaries
}

// percentile computes a linearly interpolated percentile over sorted values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lower := int(pos)
	frac := pos - float64(lower)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// FilterValues lists the distinct filter values present in a dataset, sorted
// ascending, for populating the detail-view multi-selects.
func FilterValues(records []domain.Record) domain.FilterValues {
	return domain.FilterValues{
		Sectors:       distinctSorted(records, func(r *domain.Record) string { return r.Sector }),
		Severities:    distinctSorted(records, func(r *domain.Record) string { return r.Severity }),
		Organizations: distinctSorted(records, func(r *domain.Record) string { return r.Organization }),
	}
}

func distinctSorted(records []domain.Record, key func(*domain.Record) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range records {
		k := key(&records[i])
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
