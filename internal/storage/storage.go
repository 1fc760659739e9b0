package storage

import (
	"context"
	"errors"
	"fmt"

	"promptcanvas/internal/config"
)

// ErrNotFound is returned when no stored image exists under the given
// filename. The gallery treats it as a per-item condition, not a failure.
var ErrNotFound = errors.New("stored image not found")

// ImageStore is the durable home of generated image bytes. Keys are
// write-once: one Save per record id, immediately after feedback.
type ImageStore interface {
	Save(ctx context.Context, filename string, data []byte) (int64, error)
	Load(ctx context.Context, filename string) ([]byte, error)
	Stat(ctx context.Context, filename string) (int64, error)
	Remove(ctx context.Context, filename string) error
	List(ctx context.Context) ([]string, error)
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Backend {
	case "", "disk":
		return NewDiskStore(cfg.DiskRoot)
	case "s3":
		store, err := NewObjectStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
