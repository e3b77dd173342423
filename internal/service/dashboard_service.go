// Package service orchestrates the dashboard render cycles: fetch a dataset,
// derive the summary tables, hand flat structures to the API layer.
package service

import (
	"context"
	"time"

	"github.com/siber-nasional/cve-dashboard/internal/aggregate"
	"github.com/siber-nasional/cve-dashboard/internal/config"
	"github.com/siber-nasional/cve-dashboard/internal/datasource"
	"github.com/siber-nasional/cve-dashboard/internal/domain"
	"github.com/siber-nasional/cve-dashboard/internal/export"
	"github.com/siber-nasional/cve-dashboard/internal/logger"
)

// HealthChecker is the dependency probe surface used by HealthCheck.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// DashboardService builds the overview and detail payloads. Each call is one
// self-contained render cycle; no state crosses calls.
type DashboardService struct {
	client  *datasource.Client
	backend HealthChecker
	config  *config.Config
	logger  logger.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	client *datasource.Client,
	backend HealthChecker,
	cfg *config.Config,
	log logger.Logger,
) *DashboardService {
	return &DashboardService{
		client:  client,
		backend: backend,
		config:  cfg,
		logger:  log,
	}
}

// Overview fetches the dataset for a time range and derives the national
// dashboard tables. Returns domain.ErrNoData when the window holds no
// records.
func (s *DashboardService) Overview(ctx context.Context, tr domain.TimeRange) (*domain.Overview, error) {
	startTime := time.Now()

	ds := s.client.Fetch(ctx, tr)
	if ds.Empty() {
		return nil, domain.ErrNoData
	}
	records := ds.Records

	overview := &domain.Overview{
		TimeRange:      tr,
		DataSource:     ds.Source,
		OrgsPerSector:  aggregate.OrgsPerSector(records),
		TotalHits:      len(records),
		UniqueVulns:    aggregate.Distinct(records, func(r *domain.Record) string { return r.Vulnerability }),
		UniqueOrgs:     aggregate.Distinct(records, func(r *domain.Record) string { return r.Organization }),
		UniqueAssets:   aggregate.Distinct(records, func(r *domain.Record) string { return r.SourceAsset }),
		SeverityCounts: aggregate.CountBySeverity(records),
		TopOrgs:        aggregate.TopN(records, func(r *domain.Record) string { return r.Organization }, aggregate.TopOrganizations),
		TopAssets:      aggregate.TopN(records, func(r *domain.Record) string { return r.SourceAsset }, aggregate.TopAssets),
		TopVulns:       aggregate.TopN(records, func(r *domain.Record) string { return r.Vulnerability }, aggregate.TopVulnerabilities),
		Exploited:      aggregate.Exploited(records),
		Timeline:       aggregate.TimeBuckets(records),
	}

	s.logger.Info("Overview computed",
		logger.String("time_range", string(tr)),
		logger.String("data_source", string(ds.Source)),
		logger.Int("records", len(records)),
		logger.Duration("took", time.Since(startTime)),
	)

	return overview, nil
}

// Detail fetches the dataset for a time range, applies the row-level filter
// selection, and derives the detail-analysis tables. Filter values are
// computed from the unfiltered dataset so deselected options stay available.
func (s *DashboardService) Detail(ctx context.Context, tr domain.TimeRange, sel *domain.FilterSelection) (*domain.Detail, error) {
	ds := s.client.Fetch(ctx, tr)
	if ds.Empty() {
		return nil, domain.ErrNoData
	}

	filtered := aggregate.Apply(ds.Records, sel)

	detail := &domain.Detail{
		TimeRange:     tr,
		DataSource:    ds.Source,
		TotalRecords:  len(filtered),
		CrossTab:      aggregate.CrossTab(filtered),
		ScoreBySector: aggregate.ScoreBySector(filtered),
		FilterValues:  aggregate.FilterValues(ds.Records),
		Records:       filtered,
	}

	s.logger.Info("Detail computed",
		logger.String("time_range", string(tr)),
		logger.Int("records", len(ds.Records)),
		logger.Int("filtered", len(filtered)),
	)

	return detail, nil
}

// ExportCSV serializes the filtered dataset for download. Returns the CSV
// bytes and the fixed download filename.
func (s *DashboardService) ExportCSV(ctx context.Context, tr domain.TimeRange, sel *domain.FilterSelection) ([]byte, string, error) {
	ds := s.client.Fetch(ctx, tr)
	if ds.Empty() {
		return nil, "", domain.ErrNoData
	}

	filtered := aggregate.Apply(ds.Records, sel)
	data, err := export.CSV(filtered)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("Dataset exported",
		logger.String("time_range", string(tr)),
		logger.Int("rows", len(filtered)),
	)

	return data, export.Filename, nil
}

// HealthCheck reports service health and backend connectivity. A degraded
// backend does not make the service unhealthy — the dashboard still renders
// synthetic data — so the backend state is reported as a dependency detail.
func (s *DashboardService) HealthCheck(ctx context.Context) *domain.HealthStatus {
	status := &domain.HealthStatus{
		Status:       "healthy",
		Timestamp:    time.Now(),
		Version:      s.config.Service.Version,
		Dependencies: make(map[string]string),
	}

	if err := s.backend.HealthCheck(ctx); err != nil {
		status.Dependencies["elasticsearch"] = "degraded: " + err.Error()
	} else {
		status.Dependencies["elasticsearch"] = "healthy"
	}

	return status
}
