package root

import (
	"fmt"

	"github.com/lawnchairsociety/questabletractor/internal/config"
	"github.com/lawnchairsociety/questabletractor/internal/database"
)

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.dbPath != "" {
		cfg.Store.Driver = "sqlite"
		cfg.Store.SQLitePath = opts.dbPath
	}
	return cfg, nil
}

func openDB(opts *options) (*database.Database, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.OpenWithConfig(cfg.Store.Database())
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}
