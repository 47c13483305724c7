package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"msuhthegreat/pricefinder/internal/product"
)

const snapshotFileName = "snapshot.json"

// FileStore keeps the two generations as JSON files under a data directory,
// current in new/ and the baseline in old/.
type FileStore struct {
	dataDir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store rooted at dataDir. The directory
// layout is created on first persist.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dataDir: dataDir}
}

func (f *FileStore) currentPath() string {
	return filepath.Join(f.dataDir, "new", snapshotFileName)
}

func (f *FileStore) previousPath() string {
	return filepath.Join(f.dataDir, "old", snapshotFileName)
}

// LoadPrevious reads the baseline snapshot. A missing file is the first-run
// state and yields an empty snapshot; a corrupt file is a real error.
func (f *FileStore) LoadPrevious(_ context.Context) (product.Snapshot, error) {
	raw, err := os.ReadFile(f.previousPath())
	if os.IsNotExist(err) {
		return product.Snapshot{}, nil
	}
	if err != nil {
		return product.Snapshot{}, fmt.Errorf("read baseline snapshot: %w", err)
	}

	var snap product.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return product.Snapshot{}, fmt.Errorf("parse baseline snapshot: %w", err)
	}
	return snap, nil
}

// PersistCurrent writes the snapshot to the current generation. The write
// goes through a temp file and rename so a crash never leaves a half-written
// current snapshot.
func (f *FileStore) PersistCurrent(_ context.Context, snap product.Snapshot) error {
	dir := filepath.Dir(f.currentPath())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, snapshotFileName+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.currentPath()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace current snapshot: %w", err)
	}
	return nil
}

// Rotate moves the current generation into the baseline slot. Failing when
// there is no current snapshot keeps a half-finished run from wiping the
// baseline.
func (f *FileStore) Rotate(_ context.Context) error {
	if _, err := os.Stat(f.currentPath()); err != nil {
		return fmt.Errorf("no current snapshot to rotate: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.previousPath()), 0755); err != nil {
		return fmt.Errorf("create baseline dir: %w", err)
	}
	if err := os.Remove(f.previousPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("drop old baseline: %w", err)
	}
	if err := os.Rename(f.currentPath(), f.previousPath()); err != nil {
		return fmt.Errorf("promote current snapshot: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (f *FileStore) Close() error {
	return nil
}
