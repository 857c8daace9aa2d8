// Package main runs a search indexer configuration once, or publishes it to
// the reindex topic for the running service to pick up.
//
// Usage:
//
//	go run ./cmd/indexer --title Shop --starting-points 3,4 --target-pid 12
//	go run ./cmd/indexer --publish
//
// Flags default to the indexer section of the configuration.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"

	"github.com/hapkiduki/cart-products/internal/application/indexer"
	"github.com/hapkiduki/cart-products/internal/infrastructure/config"
	"github.com/hapkiduki/cart-products/internal/infrastructure/logging"
	"github.com/hapkiduki/cart-products/internal/infrastructure/messaging"
	"github.com/hapkiduki/cart-products/internal/infrastructure/metrics"
	"github.com/hapkiduki/cart-products/internal/infrastructure/persistance"
	"github.com/hapkiduki/cart-products/internal/infrastructure/search"
	"github.com/hapkiduki/cart-products/internal/infrastructure/tracing"
	"github.com/hapkiduki/cart-products/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := pflag.NewFlagSet("indexer", pflag.ExitOnError)
	var indexCfg indexer.Config
	flags.StringVar(&indexCfg.Type, "type", indexer.ProductIndexerType, "indexer type")
	flags.StringVar(&indexCfg.Title, "title", cfg.Indexer.Title, "title of the indexer configuration")
	flags.UintVar(&indexCfg.StoragePid, "storage-pid", 0, "page the index entries belong to")
	flags.UintSliceVar(&indexCfg.StartingPoints, "starting-points", cfg.Indexer.StartingPoints, "page trees searched for products")
	flags.UintVar(&indexCfg.Sysfolder, "sysfolder", cfg.Indexer.Sysfolder, "additional storage page")
	flags.UintVar(&indexCfg.TargetPid, "target-pid", cfg.Indexer.TargetPid, "single view page when a category has none")
	publish := flags.Bool("publish", false, "publish the configuration to the reindex topic instead of running it")
	_ = flags.Parse(os.Args[1:])

	log := logger.MustNew(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "cart-products-indexer",
	})
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *publish {
		err = publishConfig(ctx, cfg, indexCfg)
	} else {
		err = runConfig(ctx, cfg, indexCfg, log)
	}
	if err != nil {
		log.Error("Indexer failed", "type", indexCfg.Type, "error", err)
	}
	return err
}

func publishConfig(ctx context.Context, cfg *config.Config, indexCfg indexer.Config) error {
	publisher := messaging.NewPublisher(messaging.NewWriter(cfg.Kafka))
	defer publisher.Close()

	if err := publisher.PublishReindex(ctx, indexCfg); err != nil {
		return err
	}
	fmt.Printf("Published %s configuration %q to %s\n", indexCfg.Type, indexCfg.Title, cfg.Kafka.Topic)
	return nil
}

func runConfig(ctx context.Context, cfg *config.Config, indexCfg indexer.Config, log *logger.Logger) error {
	repos, err := persistance.Open(cfg.Database, cfg.App.Debug)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repos.Close()

	index, err := search.Open(ctx, cfg.Search)
	if err != nil {
		return fmt.Errorf("open search index: %w", err)
	}

	registry := indexer.NewRegistry()
	registry.Register(indexer.ProductIndexerType, indexer.ProductIndexerTitle, indexer.NewProductIndexer(
		repos.Products,
		repos.Categories,
		repos.Pages,
		index,
		logging.NewPortLogger(log),
		metrics.Nop(),
		tracing.NewTracer(otel.GetTracerProvider()),
	))

	status, err := registry.Run(ctx, indexCfg)
	if err != nil {
		return err
	}
	if status == "" {
		return fmt.Errorf("no indexer registered for type %q", indexCfg.Type)
	}
	fmt.Println(status)
	return nil
}
