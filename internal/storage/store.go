package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrCorrupt marks a stored record that exists but cannot be decoded.
var ErrCorrupt = errors.New("stored state is corrupt")

// Store persists a single Record.
type Store interface {
	// Load returns the stored record. found is false when nothing is stored.
	Load(ctx context.Context) (rec Record, found bool, err error)
	Save(ctx context.Context, rec Record) error
	// Reset discards the stored record.
	Reset(ctx context.Context) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// ParseBackend validates a backend name.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendFile, BackendSQLite:
		return b, nil
	case "":
		return BackendFile, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q", name)
	}
}

// Open returns the store for backend rooted at path.
func Open(ctx context.Context, backend Backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path), nil
	case BackendSQLite:
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// LoadOrReset loads the stored record. A corrupt record is logged, removed
// and treated as absent, so startup always proceeds with either the stored
// state or defaults.
func LoadOrReset(ctx context.Context, s Store, logger *zap.Logger) (Record, bool, error) {
	rec, found, err := s.Load(ctx)
	if err == nil {
		return rec, found, nil
	}
	if !errors.Is(err, ErrCorrupt) {
		return Record{}, false, err
	}
	logger.Warn("discarding saved state", zap.Error(err))
	if rerr := s.Reset(ctx); rerr != nil {
		logger.Warn("could not remove saved state", zap.Error(rerr))
	}
	return Record{}, false, nil
}
