package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/couchcryptid/incident-insights/internal/domain"
	"github.com/couchcryptid/incident-insights/internal/observability"
)

// sourceKey identifies one version of the source file. A load stays cached
// until the key changes.
type sourceKey struct {
	path    string
	modTime time.Time
	size    int64
}

// Store memoizes the loaded Dataset keyed on source identity. Every user
// interaction reads through the store; the file is only re-parsed when it
// changes on disk. Safe for concurrent readers.
type Store struct {
	loader  *Loader
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	key     sourceKey
	dataset *Dataset
}

// NewStore creates a Store over the source file at path.
func NewStore(loader *Loader, path string, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{loader: loader, path: path, logger: logger, metrics: metrics}
}

// Dataset returns the memoized table, loading or reloading it if the source
// file is new or has changed since the cached load.
func (s *Store) Dataset() (*Dataset, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, s.path)
		}
		return nil, fmt.Errorf("stat source: %w", err)
	}
	key := sourceKey{path: s.path, modTime: info.ModTime(), size: info.Size()}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dataset != nil && s.key == key {
		return s.dataset, nil
	}

	if s.dataset != nil {
		s.logger.Info("source changed, reloading", "source", s.path)
	}

	ds, err := s.loader.Load(s.path)
	if err != nil {
		return nil, err
	}

	s.key = key
	s.dataset = ds
	s.metrics.DatasetLoaded.Set(1)
	return ds, nil
}

// CheckReadiness reports whether a dataset can be served. Used by /readyz.
func (s *Store) CheckReadiness(_ context.Context) error {
	if _, err := s.Dataset(); err != nil {
		return fmt.Errorf("dataset not available: %w", err)
	}
	return nil
}
