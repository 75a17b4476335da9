package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/internal/domain/repository"
)

// FileSnapshotStore keeps each snapshot as <dir>/<name>.json.
type FileSnapshotStore struct {
	dir string
}

// NewFileSnapshotStore creates a store rooted at dir. The directory is
// created lazily on first write.
func NewFileSnapshotStore(dir string) *FileSnapshotStore {
	return &FileSnapshotStore{dir: dir}
}

var _ repository.SnapshotStore = (*FileSnapshotStore)(nil)

// Dir returns the data directory.
func (s *FileSnapshotStore) Dir() string { return s.dir }

func (s *FileSnapshotStore) path(name models.SnapshotName) string {
	return filepath.Join(s.dir, name.File())
}

func (s *FileSnapshotStore) Read(ctx context.Context, name models.SnapshotName) ([]byte, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, time.Time{}, err
	}
	p := s.path(name)
	fi, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, time.Time{}, fmt.Errorf("%s: %w", name, models.ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("stat %s: %w", name, err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read %s: %w", name, err)
	}
	return b, fi.ModTime(), nil
}

// Write encodes doc as indented JSON and swaps it into place atomically.
func (s *FileSnapshotStore) Write(ctx context.Context, name models.SnapshotName, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := EncodeJSON(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return WriteFileAtomic(s.path(name), b)
}

func (s *FileSnapshotStore) ModTime(_ context.Context, name models.SnapshotName) (time.Time, bool) {
	fi, err := os.Stat(s.path(name))
	if err != nil {
		return time.Time{}, false
	}
	return fi.ModTime(), true
}

// EncodeJSON renders v with two-space indentation and without HTML
// escaping, so non-ASCII text and "&" stay readable on disk.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFileAtomic writes b to a temp file beside path and renames it over path.
func WriteFileAtomic(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// LoadSnapshot reads and decodes one document. It never fails: absence and
// decode errors are reported through the returned Snapshot. Values of the
// wrong type are zeroed and listed in Dropped instead of failing the
// whole document.
func LoadSnapshot[T any](ctx context.Context, store repository.SnapshotStore, name models.SnapshotName) models.Snapshot[T] {
	var snap models.Snapshot[T]
	b, mod, err := store.Read(ctx, name)
	if errors.Is(err, models.ErrSnapshotNotFound) {
		return snap
	}
	if err != nil {
		snap.Err = err
		return snap
	}
	snap.ModTime = mod
	if len(bytes.TrimSpace(b)) == 0 {
		return snap
	}
	dropped, err := decodeSnapshot(b, &snap.Doc)
	if err != nil {
		snap.Err = fmt.Errorf("decode %s: %w", name, err)
		var zero T
		snap.Doc = zero
		return snap
	}
	snap.Dropped = dropped
	snap.Present = true
	return snap
}
