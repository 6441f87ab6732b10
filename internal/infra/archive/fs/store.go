// Package fs provides a local filesystem archive store.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jobdeck/internal/infra/archive"
)

// Store persists exports as plain files under a root directory.
type Store struct {
	root string
}

// New creates a filesystem store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("fs archive: root directory required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("fs archive: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("fs archive: create root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Driver reports the filesystem driver identity.
func (s *Store) Driver() archive.Driver { return archive.DriverFilesystem }

// sanitizeKey rejects keys that would escape the root directory.
func (s *Store) sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("fs archive: key required")
	}
	clean := filepath.Clean(strings.ReplaceAll(key, "\\", "/"))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("fs archive: invalid key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

// Put writes the export to disk via a temp file and rename so readers
// never observe a partial snapshot.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) (archive.Info, error) {
	if err := ctx.Err(); err != nil {
		return archive.Info{}, err
	}
	path, err := s.sanitizeKey(key)
	if err != nil {
		return archive.Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return archive.Info{}, fmt.Errorf("fs archive: create parent: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return archive.Info{}, fmt.Errorf("fs archive: create temp: %w", err)
	}
	tmpName := tmp.Name()
	size, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return archive.Info{}, fmt.Errorf("fs archive: write: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return archive.Info{}, fmt.Errorf("fs archive: rename: %w", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return archive.Info{}, fmt.Errorf("fs archive: stat: %w", err)
	}
	return archive.Info{Key: key, Size: size, LastModified: st.ModTime().UTC()}, nil
}

// Get opens a stored export for reading.
func (s *Store) Get(ctx context.Context, key string) (archive.Info, io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return archive.Info{}, nil, err
	}
	path, err := s.sanitizeKey(key)
	if err != nil {
		return archive.Info{}, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return archive.Info{}, nil, fmt.Errorf("fs archive: open %q: %w", key, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return archive.Info{}, nil, fmt.Errorf("fs archive: stat %q: %w", key, err)
	}
	return archive.Info{Key: key, Size: st.Size(), LastModified: st.ModTime().UTC()}, f, nil
}

// Delete removes a stored export. It reports whether the key existed.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := s.sanitizeKey(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("fs archive: delete %q: %w", key, err)
	}
	return true, nil
}

// List walks the root and returns exports whose key has the given prefix,
// sorted by key.
func (s *Store) List(ctx context.Context, prefix string) ([]archive.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var infos []archive.Info
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".export-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		st, err := d.Info()
		if err != nil {
			return err
		}
		infos = append(infos, archive.Info{Key: key, Size: st.Size(), LastModified: st.ModTime().UTC()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fs archive: list: %w", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}
