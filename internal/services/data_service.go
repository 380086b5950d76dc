package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"esglens/internal/config"
	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
)

// DataService owns the loaded dataset and serves it to the rest of the
// application. Reloads swap the store atomically under a write lock.
type DataService struct {
	cfg    *config.Config
	logger *slog.Logger

	mu       sync.RWMutex
	store    *dataset.Store
	loadedAt time.Time
	source   string
}

// NewDataService creates a data service bound to the configured dataset path
func NewDataService(cfg *config.Config, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "data_service")),
	}
}

// Load reads the configured dataset file into memory
func (ds *DataService) Load(ctx context.Context) error {
	return ds.loadFrom(ctx, ds.cfg.DatasetPath())
}

// LoadFrom reads a dataset from an explicit path, replacing the current store
func (ds *DataService) LoadFrom(ctx context.Context, path string) error {
	return ds.loadFrom(ctx, path)
}

func (ds *DataService) loadFrom(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	records, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("load dataset from %s: %w", path, err)
	}

	store := dataset.NewStore(records)

	ds.mu.Lock()
	ds.store = store
	ds.loadedAt = time.Now()
	ds.source = path
	ds.mu.Unlock()

	ds.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("records", store.Len()),
		slog.Int("companies", len(store.Companies())),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Reload re-reads the most recently loaded source
func (ds *DataService) Reload(ctx context.Context) error {
	ds.mu.RLock()
	source := ds.source
	ds.mu.RUnlock()

	if source == "" {
		source = ds.cfg.DatasetPath()
	}
	return ds.loadFrom(ctx, source)
}

// Store returns the current dataset store
func (ds *DataService) Store() (*dataset.Store, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.store == nil {
		return nil, apperrors.ErrDatasetNotLoaded
	}
	return ds.store, nil
}

// Status describes the currently loaded dataset
type Status struct {
	Loaded    bool      `json:"loaded"`
	Source    string    `json:"source,omitempty"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	Records   int       `json:"records"`
	Companies int       `json:"companies"`
	Sectors   int       `json:"sectors"`
	Countries int       `json:"countries"`
	YearFrom  int       `json:"year_from,omitempty"`
	YearTo    int       `json:"year_to,omitempty"`
}

// Status reports whether a dataset is loaded and its basic dimensions
func (ds *DataService) Status() Status {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.store == nil {
		return Status{}
	}

	from, to := ds.store.YearRange()
	return Status{
		Loaded:    true,
		Source:    ds.source,
		LoadedAt:  ds.loadedAt,
		Records:   ds.store.Len(),
		Companies: len(ds.store.Companies()),
		Sectors:   len(ds.store.Sectors()),
		Countries: len(ds.store.Countries()),
		YearFrom:  from,
		YearTo:    to,
	}
}
