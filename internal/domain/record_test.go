package domain_test

import (
	"testing"
	"time"

	"github.com/siber-nasional/cve-dashboard/internal/domain"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		raw     string
		want    domain.TimeRange
		wantErr bool
	}{
		{"7d", domain.Range7d, false},
		{"30d", domain.Range30d, false},
		{"90d", domain.Range90d, false},
		{"1y", domain.Range1y, false},
		{"All", domain.RangeAll, false},
		{"14d", "", true},
		{"all", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := domain.ParseTimeRange(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeRange(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimeRange(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTimeRange_Window_StartNotAfterEnd(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC)

	for _, tr := range []domain.TimeRange{domain.Range7d, domain.Range30d, domain.Range90d, domain.Range1y, domain.RangeAll} {
		start, end := tr.Window(now)
		if start.After(end) {
			t.Errorf("Window(%s) start %v after end %v", tr, start, end)
		}
		if !end.Equal(now) {
			t.Errorf("Window(%s) end = %v, want now", tr, end)
		}
	}
}

func TestTimeRange_Window_UnrecognizedTokenUsesYearLookback(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC)

	start, end := domain.TimeRange("14d").Window(now)
	if got := end.Sub(start); got != 365*24*time.Hour {
		t.Errorf("Window(unrecognized) lookback = %v, want 365 days", got)
	}
}

func TestTimeRange_Window_AllHasNoLowerBound(t *testing.T) {
	start, _ := domain.RangeAll.Window(time.Now())
	if !start.IsZero() {
		t.Errorf("Window(All) start = %v, want zero time", start)
	}
}

func TestFilterSelection_Matches(t *testing.T) {
	record := domain.Record{
		Sector:       "Keuangan",
		Severity:     domain.SeverityHigh,
		Organization: "Bank Indonesia",
	}

	tests := []struct {
		name string
		sel  *domain.FilterSelection
		want bool
	}{
		{"nil selection matches all", nil, true},
		{"untouched controls match all", &domain.FilterSelection{}, true},
		{
			// Deselecting every sector excludes every record.
			"empty sector selection excludes all",
			&domain.FilterSelection{Sectors: []string{}},
			false,
		},
		{
			"empty severity selection excludes all",
			&domain.FilterSelection{Severities: []string{}},
			false,
		},
		{
			// The organization control is the asymmetric one: empty means
			// no filter applied.
			"empty organization selection matches all",
			&domain.FilterSelection{Organizations: []string{}},
			true,
		},
		{
			"matching sector and severity",
			&domain.FilterSelection{Sectors: []string{"Keuangan"}, Severities: []string{domain.SeverityHigh}},
			true,
		},
		{
			"non-matching organization",
			&domain.FilterSelection{Organizations: []string{"OJK"}},
			false,
		},
		{
			"matching organization",
			&domain.FilterSelection{Organizations: []string{"OJK", "Bank Indonesia"}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.Matches(&record); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
