package domain

import "time"

// CountRow is one row of a category-count table.
type CountRow struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// RankedRow is one row of a top-N ranking.
type RankedRow struct {
	Key  string `json:"key"`
	Hits int    `json:"hits"`
}

// CrossTab is a 2D pivot of record counts keyed by (sector, severity).
// Columns holds the severity columns actually present in the filtered data,
// in fixed severity-rank order. Missing cells are zero-filled.
type CrossTab struct {
	Columns []string      `json:"columns"`
	Rows    []CrossTabRow `json:"rows"`
}

// CrossTabRow is one sector row of the pivot; Cells aligns with Columns.
type CrossTabRow struct {
	Sector string `json:"sector"`
	Cells  []int  `json:"cells"`
}

// TimeBucket is one calendar-day bucket of the detection timeline.
type TimeBucket struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// ExploitedSummary holds metrics restricted to records with the known-
// exploited flag set.
type ExploitedSummary struct {
	TotalHits    int      `json:"total_hits"`
	UniqueVulns  int      `json:"unique_vulns"`
	UniqueOrgs   int      `json:"unique_orgs"`
	RecentsLimit int      `json:"recents_limit"`
	Recents      []Record `json:"recents"`
}

// ScoreSummary is the per-sector score distribution backing the box plot.
type ScoreSummary struct {
	Sector string  `json:"sector"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Overview is the full payload of the national dashboard page.
type Overview struct {
	TimeRange      TimeRange         `json:"time_range"`
	DataSource     DataSource        `json:"data_source"`
	OrgsPerSector  []CountRow        `json:"orgs_per_sector"`
	TotalHits      int               `json:"total_hits"`
	UniqueVulns    int               `json:"unique_vulns"`
	UniqueOrgs     int               `json:"unique_orgs"`
	UniqueAssets   int               `json:"unique_assets"`
	SeverityCounts []CountRow        `json:"severity_counts"`
	TopOrgs        []RankedRow       `json:"top_orgs"`
	TopAssets      []RankedRow       `json:"top_assets"`
	TopVulns       []RankedRow       `json:"top_vulns"`
	Exploited      *ExploitedSummary `json:"exploited,omitempty"`
	Timeline       []TimeBucket      `json:"timeline"`
}

// FilterValues lists the distinct values available for the detail filters,
// sorted ascending.
type FilterValues struct {
	Sectors       []string `json:"sectors"`
	Severities    []string `json:"severities"`
	Organizations []string `json:"organizations"`
}

// Detail is the full payload of the detail-analysis page.
type Detail struct {
	TimeRange     TimeRange      `json:"time_range"`
	DataSource    DataSource     `json:"data_source"`
	TotalRecords  int            `json:"total_records"`
	CrossTab      CrossTab       `json:"cross_tab"`
	ScoreBySector []ScoreSummary `json:"score_by_sector"`
	FilterValues  FilterValues   `json:"filter_values"`
	Records       []Record       `json:"records"`
}
