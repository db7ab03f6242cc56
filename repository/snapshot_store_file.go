package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/spf13/afero"
)

const snapshotFileExt = ".json"

var snapshotKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileSnapshotStore 以目录保存快照，每个键一个 <key>.json 文件
type FileSnapshotStore struct {
	mu  sync.Mutex
	fs  afero.Fs
	dir string
}

func NewFileSnapshotStore(fs afero.Fs, dir string) (*FileSnapshotStore, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir %s: %w", dir, err)
	}
	return &FileSnapshotStore{fs: fs, dir: dir}, nil
}

var _ domain.SnapshotStore = (*FileSnapshotStore)(nil)

func (s *FileSnapshotStore) path(key string) (string, error) {
	if !snapshotKeyPattern.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid snapshot key %q", key)
	}
	return filepath.Join(s.dir, key+snapshotFileExt), nil
}

func (s *FileSnapshotStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes the value to a sibling temp file and renames it into place.
func (s *FileSnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to store snapshot %s: %w", key, err)
	}
	return nil
}

func (s *FileSnapshotStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, snapshotFileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, snapshotFileExt))
	}
	sort.Strings(keys)
	return keys, nil
}
