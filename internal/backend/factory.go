package backend

import (
	"fmt"
	"log/slog"

	"expenselog/internal/config"
	"expenselog/internal/storage"
)

// New creates the persistence store described by the configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{
			Store:    store,
			Cleanup:  store.Close,
			Location: cfg.SQLiteDBPath,
		}, nil
	default:
		store := storage.NewCSVStore(cfg.ExpensesFile)
		logger.Info("Initialized CSV backend", "file", cfg.ExpensesFile)
		return &Result{
			Store:    store,
			Cleanup:  nil, // no resources held between calls
			Location: cfg.ExpensesFile,
		}, nil
	}
}
