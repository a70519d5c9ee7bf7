package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store is the file-storage contract used for profile photos. Paths are
// relative to the store's root; callers never see the backing filesystem.
type Store interface {
	// Save writes the reader's content to path, creating parent directories
	// as needed, and returns the number of bytes written.
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	// Get opens the file at path for reading.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes the file at path.
	Delete(ctx context.Context, path string) error
}

// AferoStore implements Store on any afero filesystem: the OS filesystem in
// production, an in-memory one in tests.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a store backed by the given filesystem.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// NewOsStore creates a store rooted at baseDir on the real filesystem.
func NewOsStore(baseDir string) *AferoStore {
	return &AferoStore{fs: afero.NewBasePathFs(afero.NewOsFs(), baseDir)}
}

// Save writes the content of the reader to the given path.
func (s *AferoStore) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	f, err := s.fs.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(f, reader)
}

// Get opens a file for reading.
func (s *AferoStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.fs.OpenFile(path, os.O_RDONLY, 0)
}

// Delete removes a file.
func (s *AferoStore) Delete(ctx context.Context, path string) error {
	return s.fs.Remove(path)
}
