package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/voucher/internal/voucher/domain"
)

// Store keeps the dataset in a single JSON document on disk. Writes go to a
// temporary file in the same directory followed by an atomic rename over the
// canonical path, so the canonical file is always a complete document.
type Store struct {
	path   string
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("file store: path must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("file store: create data directory: %w", err)
	}

	return &Store{path: path, logger: logger}, nil
}

// Load reads the dataset document. A missing file initialises an empty
// dataset and persists it. Unparsable content is discarded and reinitialised;
// the loss is logged, not fatal, because tokens are operationally
// recoverable and availability wins over preserving an unreadable file.
func (s *Store) Load(ctx context.Context) (domain.Dataset, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("dataset file missing, initialising empty dataset", "path", s.path)
		ds := domain.EmptyDataset()
		if err := s.Save(ctx, ds); err != nil {
			return domain.Dataset{}, err
		}
		return ds, nil
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("file store: read %s: %w", s.path, err)
	}

	var ds domain.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		// Self-healing path: the corrupt file is replaced with an empty
		// dataset. This is the only error class downgraded like this.
		s.logger.Warn("dataset file corrupt, discarding and reinitialising",
			"path", s.path,
			"bytes_lost", len(raw),
			"error", err,
		)
		ds = domain.EmptyDataset()
		if err := s.Save(ctx, ds); err != nil {
			return domain.Dataset{}, err
		}
		return ds, nil
	}

	// Normalise nil slices from hand-edited files.
	if ds.Tokens == nil {
		ds.Tokens = []domain.TokenRecord{}
	}
	if ds.Redemptions == nil {
		ds.Redemptions = []domain.RedemptionRecord{}
	}

	return ds, nil
}

// Save writes the dataset to <path>.tmp and renames it over the canonical
// path. Rename is atomic on POSIX filesystems, so a crash mid-write leaves
// the previous complete document in place.
func (s *Store) Save(ctx context.Context, ds domain.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: encode dataset: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o640); err != nil {
		return fmt.Errorf("file store: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		// Best effort cleanup; the canonical file is untouched either way.
		_ = os.Remove(tmp)
		return fmt.Errorf("file store: rename %s: %w", tmp, err)
	}

	return nil
}

// Ping checks the data directory is still accessible.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("file store: stat data directory: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
