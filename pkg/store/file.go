package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileDriver keeps each collection in <dir>/<collection>.json.
type FileDriver struct {
	dir string
}

// NewFileDriver ensures the data directory exists.
func NewFileDriver(dir string) (*FileDriver, error) {
	if dir == "" {
		dir = "./data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileDriver{dir: dir}, nil
}

// Name implements Driver.
func (d *FileDriver) Name() string { return "file" }

// Path returns the file backing a collection.
func (d *FileDriver) Path(collection string) string {
	return filepath.Join(d.dir, collection+".json")
}

// Read implements Driver.
func (d *FileDriver) Read(_ context.Context, collection string) ([]byte, error) {
	if err := validName(collection); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.Path(collection))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Write implements Driver. Content goes to a temp file that is renamed over the
// target, so readers never observe a half-written collection.
func (d *FileDriver) Write(_ context.Context, collection string, payload []byte) error {
	if err := validName(collection); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.dir, ".tmp-"+collection+"-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), d.Path(collection))
}

// Close implements Driver.
func (d *FileDriver) Close() error { return nil }

func validName(collection string) error {
	if strings.TrimSpace(collection) == "" || strings.ContainsAny(collection, `/\`) || strings.Contains(collection, "..") {
		return fmt.Errorf("invalid collection name %q", collection)
	}
	return nil
}
