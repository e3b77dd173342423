// Package elasticsearch wraps the Elasticsearch client for the dashboard.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/siber-nasional/cve-dashboard/internal/config"
)

// pingTimeout bounds the startup connectivity probe.
const pingTimeout = 5 * time.Second

// Client wraps the Elasticsearch client. It is constructed once per process;
// connectivity is probed at startup and a failed probe leaves the client in a
// disconnected state instead of failing construction, so the caller can fall
// back to synthetic data.
type Client struct {
	esClient  *es.Client
	config    *config.ElasticsearchConfig
	connected bool
}

// NewClient creates a new Elasticsearch client and probes connectivity once.
// Only a malformed configuration returns an error; an unreachable backend
// yields a client with Connected() == false.
func NewClient(cfg *config.ElasticsearchConfig) (*Client, error) {
	clientConfig := es.Config{
		Addresses:  []string{normalizeURL(cfg.URL)},
		MaxRetries: cfg.MaxRetries,
	}

	if cfg.Username != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	esClient, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	client := &Client{
		esClient: esClient,
		config:   cfg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	client.connected = client.Ping(ctx) == nil

	return client, nil
}

// normalizeURL adds an http:// prefix if the URL has no scheme.
func normalizeURL(url string) string {
	if url == "" {
		return "http://localhost:9200"
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

// Connected reports whether the startup probe reached the backend.
func (c *Client) Connected() bool {
	return c.connected
}

// Ping verifies the Elasticsearch connection.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.esClient.Ping(c.esClient.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch ping failed: %s", string(body))
	}

	return nil
}

// Search executes a search query against the configured index pattern and
// returns the raw response body. The caller owns closing the reader.
func (c *Client) Search(ctx context.Context, query map[string]any) (io.ReadCloser, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	res, err := c.esClient.Search(
		c.esClient.Search.WithContext(ctx),
		c.esClient.Search.WithIndex(c.config.IndexPattern),
		c.esClient.Search.WithBody(&buf),
		c.esClient.Search.WithTimeout(c.config.Timeout),
		c.esClient.Search.WithTrackTotalHits(true),
	)

	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		_ = res.Body.Close()
		return nil, fmt.Errorf("search returned error [%d]: %s", res.StatusCode, string(body))
	}

	return res.Body, nil
}

// HealthCheck checks whether the backend currently responds to a ping.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx)
}
