package main

import (
	"context"
	"fmt"
	"os"

	"weightduel/internal/adapter/memory"
	"weightduel/internal/adapter/postgres"
	"weightduel/internal/adapter/sheets"
	"weightduel/internal/adapter/sqlite"
	"weightduel/internal/config"
	"weightduel/internal/domain"
)

type stores struct {
	entries  domain.EntryRepository
	sessions domain.SessionRepository
	close    func() error
}

// openStores builds the configured entry store. Backends without session
// tables keep sessions in memory.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreMemory:
		return &stores{entries: memory.New(), sessions: memory.NewSessionRepo(), close: noop}, nil

	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &stores{entries: db, sessions: memory.NewSessionRepo(), close: db.Close}, nil

	case config.StorePostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &stores{entries: db, sessions: db, close: db.Close}, nil

	case config.StoreSheets:
		creds, err := os.ReadFile(cfg.SheetsCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read sheets credentials: %w", err)
		}
		svc, err := sheets.NewService(ctx, creds)
		if err != nil {
			return nil, err
		}
		store := sheets.New(svc, cfg.SheetsSpreadsheetID, cfg.SheetsName)
		return &stores{entries: store, sessions: memory.NewSessionRepo(), close: noop}, nil

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
