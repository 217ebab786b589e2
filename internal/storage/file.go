package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileKV keeps one JSON file per key under a data directory. It is the default
// persistence backend for locally running clients.
type FileKV struct {
	dir string
}

// NewFileKV ensures dir exists and returns a file-backed store.
func NewFileKV(dir string) (*FileKV, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage: data directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// path flattens the key into a safe file name.
func (f *FileKV) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, key)
	return filepath.Join(f.dir, safe+".json")
}

func (f *FileKV) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, nil
}

// Put writes atomically via a temp file rename so a crash mid-write never
// leaves a truncated transcript behind.
func (f *FileKV) Put(key string, data []byte) error {
	dst := f.path(key)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("storage: commit %s: %w", key, err)
	}
	return nil
}
