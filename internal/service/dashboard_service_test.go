package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/siber-nasional/cve-dashboard/internal/config"
	"github.com/siber-nasional/cve-dashboard/internal/datasource"
	"github.com/siber-nasional/cve-dashboard/internal/domain"
	"github.com/siber-nasional/cve-dashboard/internal/logger"
	"github.com/siber-nasional/cve-dashboard/internal/service"
)

// fakeBackend serves a scripted search response and health state.
type fakeBackend struct {
	connected bool
	body      string
	healthErr error
}

func (f *fakeBackend) Connected() bool { return f.connected }

func (f *fakeBackend) Search(context.Context, map[string]any) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func (f *fakeBackend) HealthCheck(context.Context) error { return f.healthErr }

func getTestService(backend *fakeBackend) *service.DashboardService {
	cfg := &config.Config{}
	cfg.Service.Version = "1.0.0"
	cfg.Elasticsearch.IndexPattern = "nasional_cve*"
	cfg.Elasticsearch.MaxResults = 10000
	cfg.Mock.Records = 100
	cfg.Mock.SpanDays = 90

	log := logger.NewNop()
	client := datasource.NewClient(backend, cfg, log, nil)
	return service.NewDashboardService(client, backend, cfg, log)
}

func liveBody() string {
	return `{"hits": {"hits": [
		{"_source": {"@timestamp": "2026-08-18T08:00:00Z", "Severity.keyword": "CRITICAL", "Sektor.keyword": "Keuangan", "Organisasi.keyword": "Bank Indonesia", "Vuln.keyword": "CVE-2024-3400", "Score": 9.8, "hasCisa": true}},
		{"_source": {"@timestamp": "2026-08-19T09:00:00Z", "Severity.keyword": "HIGH", "Sektor.keyword": "Keuangan", "Organisasi.keyword": "OJK", "Vuln.keyword": "CVE-2023-44487", "Score": 7.5}},
		{"_source": {"@timestamp": "2026-08-20T10:00:00Z", "Severity.keyword": "LOW", "Sektor.keyword": "Kesehatan", "Organisasi.keyword": "Kemenkes", "Vuln.keyword": "CVE-2023-44487", "Score": 3.1}}
	]}}`
}

func TestDashboardService_Overview(t *testing.T) {
	svc := getTestService(&fakeBackend{connected: true, body: liveBody()})

	overview, err := svc.Overview(context.Background(), domain.Range90d)
	if err != nil {
		t.Fatalf("Overview() unexpected error: %v", err)
	}

	if overview.DataSource != domain.SourceLive {
		t.Errorf("Overview() data source = %q, want live", overview.DataSource)
	}
	if overview.TotalHits != 3 {
		t.Errorf("Overview() total hits = %d, want 3", overview.TotalHits)
	}
	if overview.UniqueVulns != 2 {
		t.Errorf("Overview() unique vulns = %d, want 2", overview.UniqueVulns)
	}
	if overview.UniqueOrgs != 3 {
		t.Errorf("Overview() unique orgs = %d, want 3", overview.UniqueOrgs)
	}
	if len(overview.OrgsPerSector) != len(domain.Sectors) {
		t.Errorf("Overview() orgs-per-sector rows = %d, want one per fixed sector", len(overview.OrgsPerSector))
	}
	if len(overview.Timeline) != 3 {
		t.Errorf("Overview() timeline buckets = %d, want 3 contiguous days", len(overview.Timeline))
	}
	if overview.Exploited == nil {
		t.Fatal("Overview() exploited summary missing")
	}
	if overview.Exploited.TotalHits != 1 {
		t.Errorf("Overview() exploited hits = %d, want 1", overview.Exploited.TotalHits)
	}
	if len(overview.TopVulns) == 0 || overview.TopVulns[0].Key != "CVE-2023-44487" {
		t.Errorf("Overview() top vulns = %v, want CVE-2023-44487 ranked first", overview.TopVulns)
	}
}

func TestDashboardService_Overview_NoData(t *testing.T) {
	svc := getTestService(&fakeBackend{connected: true, body: `{"hits": {"hits": []}}`})

	_, err := svc.Overview(context.Background(), domain.Range7d)
	if !errors.Is(err, domain.ErrNoData) {
		t.Errorf("Overview() error = %v, want ErrNoData", err)
	}
}

func TestDashboardService_Overview_DegradedBackendStillServes(t *testing.T) {
	svc := getTestService(&fakeBackend{connected: false})

	overview, err := svc.Overview(context.Background(), domain.Range30d)
	if err != nil {
		t.Fatalf("Overview() unexpected error: %v", err)
	}
	if overview.DataSource != domain.SourceSynthetic {
		t.Errorf("Overview() data source = %q, want synthetic", overview.DataSource)
	}
	if overview.TotalHits == 0 {
		t.Error("Overview() synthetic dataset should not be empty")
	}
}

func TestDashboardService_Detail(t *testing.T) {
	svc := getTestService(&fakeBackend{connected: true, body: liveBody()})

	sel := &domain.FilterSelection{Sectors: []string{"Keuangan"}}
	detail, err := svc.Detail(context.Background(), domain.Range90d, sel)
	if err != nil {
		t.Fatalf("Detail() unexpected error: %v", err)
	}

	if detail.TotalRecords != 2 {
		t.Errorf("Detail() filtered records = %d, want 2", detail.TotalRecords)
	}
	// Filter values come from the unfiltered dataset so deselected options
	// stay visible.
	wantSectors := []string{"Kesehatan", "Keuangan"}
	if len(detail.FilterValues.Sectors) != len(wantSectors) {
		t.Fatalf("Detail() filter sectors = %v, want %v", detail.FilterValues.Sectors, wantSectors)
	}
	for i, sector := range wantSectors {
		if detail.FilterValues.Sectors[i] != sector {
			t.Errorf("Detail() filter sectors[%d] = %q, want %q", i, detail.FilterValues.Sectors[i], sector)
		}
	}
	wantCols := []string{domain.SeverityCritical, domain.SeverityHigh}
	if len(detail.CrossTab.Columns) != len(wantCols) {
		t.Fatalf("Detail() crosstab columns = %v, want %v", detail.CrossTab.Columns, wantCols)
	}
}

func TestDashboardService_Detail_ExcludeAllSelection(t *testing.T) {
	svc := getTestService(&fakeBackend{connected: true, body: liveBody()})

	sel := &domain.FilterSelection{Severities: []string{}}
	detail, err := svc.Detail(context.Background(), domain.Range90d, sel)
	if err != nil {
		t.Fatalf("Detail() unexpected error: %v", err)
	}
	if detail.TotalRecords != 0 {
		t.Errorf("Detail() filtered records = %d, want 0 for an exclude-all selection", detail.TotalRecords)
	}
}

func TestDashboardService_ExportCSV(t *testing.T) {
	svc := getTestService(&fakeBackend{connected: true, body: liveBody()})

	data, filename, err := svc.ExportCSV(context.Background(), domain.Range90d, nil)
	if err != nil {
		t.Fatalf("ExportCSV() unexpected error: %v", err)
	}
	if filename != "filtered_threat_data.csv" {
		t.Errorf("ExportCSV() filename = %q", filename)
	}
	lines := strings.Count(strings.TrimSpace(string(data)), "\n") + 1
	if lines != 4 {
		t.Errorf("ExportCSV() lines = %d, want header + 3 rows", lines)
	}
}

func TestDashboardService_HealthCheck(t *testing.T) {
	t.Run("healthy backend", func(t *testing.T) {
		svc := getTestService(&fakeBackend{connected: true})
		status := svc.HealthCheck(context.Background())
		if status.Status != "healthy" {
			t.Errorf("status = %q, want healthy", status.Status)
		}
		if status.Dependencies["elasticsearch"] != "healthy" {
			t.Errorf("elasticsearch dependency = %q", status.Dependencies["elasticsearch"])
		}
	})

	t.Run("degraded backend keeps service healthy", func(t *testing.T) {
		backend := &fakeBackend{connected: false, healthErr: errors.New("dial tcp: connection refused")}
		svc := getTestService(backend)
		status := svc.HealthCheck(context.Background())
		if status.Status != "healthy" {
			t.Errorf("status = %q, want healthy despite degraded backend", status.Status)
		}
		if !strings.HasPrefix(status.Dependencies["elasticsearch"], "degraded") {
			t.Errorf("elasticsearch dependency = %q, want degraded", status.Dependencies["elasticsearch"])
		}
	})
}
