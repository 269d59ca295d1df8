package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/lawnchairsociety/questabletractor/internal/bridge"
	"github.com/lawnchairsociety/questabletractor/internal/config"
	"github.com/lawnchairsociety/questabletractor/internal/database"
	"github.com/lawnchairsociety/questabletractor/internal/items"
	"github.com/lawnchairsociety/questabletractor/internal/logger"
	"github.com/lawnchairsociety/questabletractor/internal/text"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "data/tractorquests.yaml", "Path to config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	textFile := flag.String("text", "", "Path to text YAML file overriding the built-in text")
	itemsFile := flag.String("items", "", "Path to items YAML file overriding the built-in catalog")
	listen := flag.String("listen", "", "Bridge listen address (overrides config)")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configFile, *textFile, *itemsFile, *listen); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, textFile, itemsFile, listen string) error {
	logger.Info("Starting Questable Tractor quest engine")

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if listen != "" {
		cfg.Bridge.ListenAddress = listen
	}
	logger.Info("Config loaded",
		"listen", cfg.Bridge.ListenAddress,
		"store", cfg.Store.Driver,
		"hint_day", cfg.Hints.DayOfWeek)

	if cfg.Bridge.TokenHash == "" {
		logger.Warning("No bridge token configured; any local process may connect")
	}

	catalog := text.Default()
	if textFile != "" {
		if catalog, err = text.Load(textFile); err != nil {
			return fmt.Errorf("loading text: %w", err)
		}
		logger.Info("Text loaded", "path", textFile, "messages", len(catalog.MessageKeys()))
	}

	itemsConfig := items.Default()
	if itemsFile != "" {
		if itemsConfig, err = items.LoadItemsFromYAML(itemsFile); err != nil {
			return fmt.Errorf("loading items: %w", err)
		}
		logger.Info("Items loaded", "path", itemsFile, "count", len(itemsConfig.Items))
	}

	db, err := database.OpenWithConfig(cfg.Store.Database())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()
	logger.Info("Store opened", "driver", cfg.Store.Driver)

	srv := bridge.NewServer(bridge.Options{
		Bridge:  cfg.Bridge,
		Hints:   cfg.Hints,
		Fishing: cfg.Fishing,
		Store:   db,
		Text:    catalog,
		Items:   itemsConfig,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", "reason", context.Cause(gctx))
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Quest engine stopped")
	return nil
}
