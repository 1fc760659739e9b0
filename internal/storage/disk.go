package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps image files in a flat directory under root.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, fmt.Errorf("disk storage root not configured")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("invalid storage filename %q", filename)
	}
	return filepath.Join(s.root, filename), nil
}

func (s *DiskStore) Save(ctx context.Context, filename string, data []byte) (int64, error) {
	path, err := s.path(filename)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write image file: %w", err)
	}
	return int64(len(data)), nil
}

func (s *DiskStore) Load(ctx context.Context, filename string) ([]byte, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return data, nil
}

func (s *DiskStore) Stat(ctx context.Context, filename string) (int64, error) {
	path, err := s.path(filename)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("stat image file: %w", err)
	}
	return info.Size(), nil
}

func (s *DiskStore) Remove(ctx context.Context, filename string) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}

func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list storage root: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
