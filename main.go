package main

import (
	"fmt"
	"os"

	"github.com/siber-nasional/cve-dashboard/internal/api"
	"github.com/siber-nasional/cve-dashboard/internal/config"
	"github.com/siber-nasional/cve-dashboard/internal/datasource"
	"github.com/siber-nasional/cve-dashboard/internal/elasticsearch"
	"github.com/siber-nasional/cve-dashboard/internal/logger"
	"github.com/siber-nasional/cve-dashboard/internal/service"
	"github.com/siber-nasional/cve-dashboard/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting dashboard service",
		logger.String("name", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug),
	)

	// The ES client is constructed once per process. A failed probe is not
	// fatal: the datasource serves synthetic data until restart.
	log.Info("Probing Elasticsearch", logger.String("url", cfg.Elasticsearch.URL))
	esClient, err := elasticsearch.NewClient(&cfg.Elasticsearch)
	if err != nil {
		log.Error("Failed to create Elasticsearch client", logger.Error(err))
		return 1
	}
	if esClient.Connected() {
		log.Info("Elasticsearch connection established")
	} else {
		log.Warn("Elasticsearch unreachable, serving synthetic data",
			logger.String("url", cfg.Elasticsearch.URL),
		)
	}

	metrics := telemetry.NewMetrics()
	client := datasource.NewClient(esClient, cfg, log, metrics)
	dashboard := service.NewDashboardService(client, esClient, cfg, log)

	handler := api.NewHandler(dashboard, log)
	server := api.NewServer(handler, cfg, log, metrics)

	log.Info("Dashboard service starting",
		logger.Int("port", cfg.Service.Port),
		logger.String("index_pattern", cfg.Elasticsearch.IndexPattern),
	)

	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return 1
	}

	log.Info("Dashboard service exited cleanly")
	return 0
}

// createLogger creates the service logger from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, err
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}
