package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

type FileStore struct {
	Fs afero.Fs
}

func NewFileStore(fs afero.Fs) *FileStore {
	return &FileStore{Fs: fs}
}

func (s *FileStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := afero.ReadFile(s.Fs, key)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) Write(ctx context.Context, key string, data []byte, contentType string) error {
	if dir := filepath.Dir(key); dir != "." {
		if err := s.Fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.Fs, key, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
