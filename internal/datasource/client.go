// Package datasource is the sole boundary that absorbs backend failures.
// Fetch never returns an error: disconnection, query failures, and malformed
// responses all collapse to a synthetic dataset so the dashboard always has
// something to render.
package datasource

import (
	"context"
	"io"
	"time"

	"github.com/siber-nasional/cve-dashboard/internal/config"
	"github.com/siber-nasional/cve-dashboard/internal/domain"
	"github.com/siber-nasional/cve-dashboard/internal/elasticsearch"
	"github.com/siber-nasional/cve-dashboard/internal/logger"
)

// Backend is the search-backend surface the client depends on.
type Backend interface {
	Connected() bool
	Search(ctx context.Context, query map[string]any) (io.ReadCloser, error)
}

// MetricsRecorder receives fetch outcome counts. Implementations must be
// safe for nil-free no-op use via NopMetrics.
type MetricsRecorder interface {
	ObserveFetch(source domain.DataSource)
	ObserveFallback(reason string)
	ObserveSkipped(count int)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

// ObserveFetch does nothing.
func (NopMetrics) ObserveFetch(domain.DataSource) {}

// ObserveFallback does nothing.
func (NopMetrics) ObserveFallback(string) {}

// ObserveSkipped does nothing.
func (NopMetrics) ObserveSkipped(int) {}

// Fallback reasons reported to metrics.
const (
	FallbackDisconnected = "disconnected"
	FallbackQueryFailed  = "query_failed"
	FallbackBadResponse  = "bad_response"
)

// Client fetches detection datasets with graceful degradation.
type Client struct {
	backend      Backend
	queryBuilder *elasticsearch.QueryBuilder
	generator    *Generator
	logger       logger.Logger
	metrics      MetricsRecorder
	timeout      time.Duration
	now          func() time.Time
}

// NewClient creates a datasource client over an already-probed backend.
func NewClient(backend Backend, cfg *config.Config, log logger.Logger, metrics MetricsRecorder) *Client {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Client{
		backend:      backend,
		queryBuilder: elasticsearch.NewQueryBuilder(&cfg.Elasticsearch),
		generator:    NewGenerator(cfg.Mock.Records, cfg.Mock.SpanDays, time.Now().UnixNano()),
		logger:       log,
		metrics:      metrics,
		timeout:      cfg.Elasticsearch.Timeout,
		now:          time.Now,
	}
}

// Connected reports the backend connectivity recorded at startup.
func (c *Client) Connected() bool {
	return c.backend.Connected()
}

// Fetch returns the Dataset for a time-range token. It never returns an
// error; every failure mode degrades to the synthetic generator. A successful
// query with zero records returns an empty live Dataset — surfacing the
// "no data" state is the caller's concern.
func (c *Client) Fetch(ctx context.Context, tr domain.TimeRange) *domain.Dataset {
	now := c.now()

	if !c.backend.Connected() {
		return c.fallback(now, FallbackDisconnected, nil)
	}

	// The backend timeout is enforced here as a request deadline; a hung
	// backend surfaces as a query failure instead of blocking the render.
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	query := c.queryBuilder.Build(tr, now)
	body, err := c.backend.Search(ctx, query)
	if err != nil {
		return c.fallback(now, FallbackQueryFailed, err)
	}
	defer func() {
		_ = body.Close()
	}()

	result, err := ParseSearchResponse(body)
	if err != nil {
		return c.fallback(now, FallbackBadResponse, err)
	}

	if result.Skipped > 0 {
		c.metrics.ObserveSkipped(result.Skipped)
		c.logger.Warn("Dropped records with unparseable timestamps",
			logger.Int("skipped", result.Skipped),
		)
	}

	c.metrics.ObserveFetch(domain.SourceLive)
	c.logger.Info("Fetched detection dataset",
		logger.String("time_range", string(tr)),
		logger.Int("records", len(result.Records)),
		logger.Int("skipped", result.Skipped),
	)

	return &domain.Dataset{
		Records: result.Records,
		Source:  domain.SourceLive,
		Skipped: result.Skipped,
	}
}

// fallback logs the failure and returns a synthetic dataset.
func (c *Client) fallback(now time.Time, reason string, err error) *domain.Dataset {
	fields := []logger.Field{logger.String("reason", reason)}
	if err != nil {
		fields = append(fields, logger.Error(err))
	}
	c.logger.Warn("Falling back to synthetic data", fields...)

	c.metrics.ObserveFallback(reason)
	c.metrics.ObserveFetch(domain.SourceSynthetic)

	return c.generator.Generate(now)
}
