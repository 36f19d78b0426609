package backend

import (
	"context"
	"fmt"

	"ledger/internal/kv/file"
	"ledger/internal/kv/memory"
	"ledger/internal/kv/sqlite"
	"ledger/internal/log"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// Create implements Factory.Create
func (f *DefaultFactory) Create(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case FileBackend:
		return f.createFileBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*Result, error) {
	store, err := sqlite.New(config.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", log.FieldBackend, SQLiteBackend.String(), "db_path", config.SQLitePath)

	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createFileBackend(ctx context.Context, config Config) (*Result, error) {
	store, err := file.New(config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized file backend", log.FieldBackend, FileBackend.String(), "data_directory", store.Dir())

	return &Result{Store: store}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context) (*Result, error) {
	f.logger.InfoContext(ctx, "Initialized memory backend, data will not survive restart", log.FieldBackend, MemoryBackend.String())

	return &Result{Store: memory.New()}, nil
}
