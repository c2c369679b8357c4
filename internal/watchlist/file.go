package watchlist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps each record in its own JSON file under Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore { return &FileStore{Dir: dir} }

func (f *FileStore) path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

// Get reads the record file. A missing file is ErrNotFound.
func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put replaces the record file. The write goes through a temp file and a
// rename so readers never see a half-written record.
func (f *FileStore) Put(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	tmp, err := os.CreateTemp(f.Dir, key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}
