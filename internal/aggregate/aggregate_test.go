package aggregate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siber-nasional/cve-dashboard/internal/aggregate"
	"github.com/siber-nasional/cve-dashboard/internal/domain"
)

func record(day int, severity, sector, org, vuln string) domain.Record {
	return domain.Record{
		Timestamp:     time.Date(2026, 8, day, 10, 0, 0, 0, time.UTC),
		Severity:      severity,
		Sector:        sector,
		Organization:  org,
		Vulnerability: vuln,
	}
}

func TestApply_FilterSemantics(t *testing.T) {
	records := []domain.Record{
		record(1, domain.SeverityHigh, "Keuangan", "Bank Indonesia", "CVE-2024-3400"),
		record(2, domain.SeverityLow, "Kesehatan", "Kemenkes", "CVE-2023-44487"),
	}

	t.Run("nil selection keeps everything", func(t *testing.T) {
		assert.Len(t, aggregate.Apply(records, nil), 2)
	})

	t.Run("untouched selection keeps everything", func(t *testing.T) {
		assert.Len(t, aggregate.Apply(records, &domain.FilterSelection{}), 2)
	})

	t.Run("empty sector selection excludes everything", func(t *testing.T) {
		sel := &domain.FilterSelection{Sectors: []string{}}
		assert.Empty(t, aggregate.Apply(records, sel))
	})

	t.Run("empty organization selection keeps everything", func(t *testing.T) {
		sel := &domain.FilterSelection{Organizations: []string{}}
		assert.Len(t, aggregate.Apply(records, sel), 2)
	})

	t.Run("selections intersect", func(t *testing.T) {
		sel := &domain.FilterSelection{
			Sectors:    []string{"Keuangan", "Kesehatan"},
			Severities: []string{domain.SeverityHigh},
		}
		filtered := aggregate.Apply(records, sel)
		require.Len(t, filtered, 1)
		assert.Equal(t, "Bank Indonesia", filtered[0].Organization)
	})
}

func TestCountBy_OrderAndTies(t *testing.T) {
	records := []domain.Record{
		record(1, domain.SeverityHigh, "Energi", "", ""),
		record(2, domain.SeverityLow, "Keuangan", "", ""),
		record(3, domain.SeverityLow, "Energi", "", ""),
		record(4, domain.SeverityMedium, "Kesehatan", "", ""),
	}

	rows := aggregate.CountBySector(records)

	require.Len(t, rows, 3)
	assert.Equal(t, domain.CountRow{Key: "Energi", Count: 2}, rows[0])
	// Keuangan and Kesehatan tie at 1; first-encountered order wins.
	assert.Equal(t, domain.CountRow{Key: "Keuangan", Count: 1}, rows[1])
	assert.Equal(t, domain.CountRow{Key: "Kesehatan", Count: 1}, rows[2])
}

func TestCountBy_Idempotent(t *testing.T) {
	records := []domain.Record{
		record(1, domain.SeverityHigh, "Energi", "", ""),
		record(2, domain.SeverityHigh, "Keuangan", "", ""),
		record(3, domain.SeverityLow, "Energi", "", ""),
	}

	first := aggregate.CountBySeverity(records)
	second := aggregate.CountBySeverity(records)

	assert.Equal(t, first, second)
}

func TestSeverityCount(t *testing.T) {
	records := []domain.Record{
		record(1, domain.SeverityCritical, "", "", ""),
		record(2, domain.SeverityCritical, "", "", ""),
		record(3, domain.SeverityLow, "", "", ""),
	}

	assert.Equal(t, 2, aggregate.SeverityCount(records, domain.SeverityCritical))
	assert.Equal(t, 0, aggregate.SeverityCount(records, domain.SeverityMedium))
}

func TestOrgsPerSector_CountsCardinality(t *testing.T) {
	// Three records, two distinct orgs: the row must say 2, not 3.
	records := []domain.Record{
		record(1, "", "Keuangan", "Bank Indonesia", ""),
		record(2, "", "Keuangan", "Bank Indonesia", ""),
		record(3, "", "Keuangan", "OJK", ""),
	}

	rows := aggregate.OrgsPerSector(records)

	require.Len(t, rows, len(domain.Sectors))
	byKey := make(map[string]int, len(rows))
	for _, row := range rows {
		byKey[row.Key] = row.Count
	}
	assert.Equal(t, 2, byKey["Keuangan"])
	assert.Equal(t, 0, byKey["Kesehatan"], "sectors with no records are zero-filled")

	for i, sector := range domain.Sectors {
		assert.Equal(t, sector, rows[i].Key, "rows follow the fixed sector order")
	}
}

func TestTopN_TruncationAndTies(t *testing.T) {
	var records []domain.Record
	appendHits := func(org string, n int) {
		for i := 0; i < n; i++ {
			records = append(records, record(1, "", "", org, ""))
		}
	}
	appendHits("A", 5)
	appendHits("B", 5)
	appendHits("C", 3)

	rows := aggregate.TopN(records, func(r *domain.Record) string { return r.Organization }, 2)

	require.Len(t, rows, 2)
	assert.Equal(t, domain.RankedRow{Key: "A", Hits: 5}, rows[0])
	assert.Equal(t, domain.RankedRow{Key: "B", Hits: 5}, rows[1])
}

func TestCrossTab(t *testing.T) {
	records := []domain.Record{
		record(1, domain.SeverityCritical, "Keuangan", "", ""),
		record(2, domain.SeverityCritical, "Keuangan", "", ""),
		record(3, domain.SeverityLow, "Keuangan", "", ""),
		record(4, domain.SeverityLow, "Energi", "", ""),
		record(5, "UNKNOWN", "Energi", "", ""),
	}

	tab := aggregate.CrossTab(records)

	// Only severities in the rank order that actually appear become columns;
	// UNKNOWN is omitted.
	assert.Equal(t, []string{domain.SeverityCritical, domain.SeverityLow}, tab.Columns)

	require.Len(t, tab.Rows, 2)
	assert.Equal(t, "Energi", tab.Rows[0].Sector)
	assert.Equal(t, []int{0, 1}, tab.Rows[0].Cells)
	assert.Equal(t, "Keuangan", tab.Rows[1].Sector)
	assert.Equal(t, []int{2, 1}, tab.Rows[1].Cells)
}

func TestTimeBuckets_DenseDaily(t *testing.T) {
	records := []domain.Record{
		record(1, "", "", "", ""),
		record(1, "", "", "", ""),
		record(3, "", "", "", ""),
	}

	buckets := aggregate.TimeBuckets(records)

	want := []domain.TimeBucket{
		{Day: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), Count: 2},
		{Day: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), Count: 0},
		{Day: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), Count: 1},
	}
	assert.Equal(t, want, buckets)
}

func TestTimeBuckets_Empty(t *testing.T) {
	assert.Nil(t, aggregate.TimeBuckets(nil))
}

func TestExploited(t *testing.T) {
	t.Run("no flagged records", func(t *testing.T) {
		records := []domain.Record{record(1, "", "", "BSSN", "CVE-2024-3400")}
		assert.Nil(t, aggregate.Exploited(records))
	})

	t.Run("summarizes flagged subset", func(t *testing.T) {
		records := []domain.Record{
			record(1, "", "", "BSSN", "CVE-2024-3400"),
			record(2, "", "", "BSSN", "CVE-2024-3400"),
			record(3, "", "", "OJK", "CVE-2023-44487"),
		}
		records[0].Exploited = true
		records[2].Exploited = true

		summary := aggregate.Exploited(records)

		require.NotNil(t, summary)
		assert.Equal(t, 2, summary.TotalHits)
		assert.Equal(t, 2, summary.UniqueVulns)
		assert.Equal(t, 2, summary.UniqueOrgs)
		assert.Len(t, summary.Recents, 2)
	})
}

func TestScoreBySector(t *testing.T) {
	records := []domain.Record{
		record(1, "", "Keuangan", "", ""),
		record(2, "", "Keuangan", "", ""),
		record(3, "", "Keuangan", "", ""),
		record(4, "", "Energi", "", ""),
	}
	records[0].Score = 4.0
	records[1].Score = 6.0
	records[2].Score = 8.0
	records[3].Score = 9.5

	summaries := aggregate.ScoreBySector(records)

	require.Len(t, summaries, 2)

	energi := summaries[0]
	assert.Equal(t, "Energi", energi.Sector)
	assert.Equal(t, 1, energi.Count)
	assert.Equal(t, 9.5, energi.Median)

	keuangan := summaries[1]
	assert.Equal(t, "Keuangan", keuangan.Sector)
	assert.Equal(t, 3, keuangan.Count)
	assert.Equal(t, 4.0, keuangan.Min)
	assert.Equal(t, 6.0, keuangan.Median)
	assert.Equal(t, 8.0, keuangan.Max)
	assert.Equal(t, 5.0, keuangan.Q1)
	assert.Equal(t, 7.0, keuangan.Q3)
}

func TestFilterValues_SortedDistinct(t *testing.T) {
	records := []domain.Record{
		record(1, domain.SeverityLow, "Kesehatan", "OJK", ""),
		record(2, domain.SeverityHigh, "Energi", "BSSN", ""),
		record(3, domain.SeverityLow, "Energi", "BSSN", ""),
	}

	values := aggregate.FilterValues(records)

	assert.Equal(t, []string{"Energi", "Kesehatan"}, values.Sectors)
	assert.Equal(t, []string{domain.SeverityHigh, domain.SeverityLow}, values.Severities)
	assert.Equal(t, []string{"BSSN", "OJK"}, values.Organizations)
}
