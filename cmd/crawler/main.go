package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tienda/pricewatch/configs"
	"tienda/pricewatch/internal/catalog"
	"tienda/pricewatch/internal/crawler"
	"tienda/pricewatch/internal/events"
	"tienda/pricewatch/internal/export"
	"tienda/pricewatch/internal/storage"
)

var (
	interval    = flag.Int("interval", 0, "Seconds between runs; 0 runs once and exits")
	summaryCSV  = flag.String("summary-csv", "", "Write the run summary CSV to this path (overrides EXPORT_SUMMARY_CSV)")
	productsCSV = flag.String("products-csv", "", "Write the full product table CSV to this path after each run")
)

func main() {
	flag.Parse()

	cfg := configs.AppLoad()
	logger := crawler.NewLogger()

	if *summaryCSV != "" {
		cfg.Export.SummaryCSV = *summaryCSV
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewPostgresStore(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Language, logger)

	crawlCfg := crawler.DefaultConfig()
	if cfg.Catalog.ProductDelayMs > 0 {
		crawlCfg.ProductDelay = time.Duration(cfg.Catalog.ProductDelayMs) * time.Millisecond
	}
	c := crawler.New(client, store, logger, crawlCfg)

	var sender *events.Sender
	if cfg.Kafka.Broker != "" {
		sender = events.NewSender(events.NewWriter(cfg.Kafka.Broker, cfg.Kafka.Topic), logger)
		defer sender.Close()
		logger.Infof("Change events will be published to %s on %s", cfg.Kafka.Topic, cfg.Kafka.Broker)
	}

	runOnce := func() error {
		report, err := c.Run(ctx)
		if err != nil {
			return err
		}
		report.LogSummary(logger)

		if sender != nil {
			if err := sender.PublishChanges(ctx, report.Changes()); err != nil {
				logger.Errorf("Failed to publish change events: %v", err)
			}
		}
		if cfg.Export.SummaryCSV != "" {
			if err := writeSummaryCSV(cfg.Export.SummaryCSV, report); err != nil {
				logger.Errorf("Failed to write summary CSV: %v", err)
			}
		}
		if *productsCSV != "" {
			if err := writeProductsCSV(ctx, *productsCSV, store); err != nil {
				logger.Errorf("Failed to write products CSV: %v", err)
			}
		}
		return nil
	}

	if *interval <= 0 {
		if err := runOnce(); err != nil {
			logger.Fatalf("Crawl failed: %v", err)
		}
		return
	}

	ticker := time.NewTicker(time.Duration(*interval) * time.Second)
	defer ticker.Stop()

	logger.Infof("Crawling every %ds", *interval)

	// First run immediately, then on the ticker.
	if err := runOnce(); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Fatalf("Crawl failed: %v", err)
	}
	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, stopping crawler")
			return
		case <-ticker.C:
			if err := runOnce(); err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Fatalf("Crawl failed: %v", err)
			}
		}
	}
}

func writeSummaryCSV(path string, report *crawler.RunReport) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return export.WriteRunSummary(file, report.Changes())
}

func writeProductsCSV(ctx context.Context, path string, store storage.Store) error {
	products, err := store.Products(ctx)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return export.WriteProducts(file, products)
}
