// Package memory provides an in-memory archive store used in tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"jobdeck/internal/infra/archive"
)

type object struct {
	data     []byte
	modified time.Time
}

// Store keeps exports in a map guarded by a mutex.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	nowFn   func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{objects: map[string]object{}, nowFn: time.Now}
}

// SetNowFunc overrides the clock, for tests.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		s.nowFn = fn
	}
}

// Driver reports the memory driver identity.
func (s *Store) Driver() archive.Driver { return archive.DriverMemory }

func (s *Store) Put(ctx context.Context, key string, r io.Reader) (archive.Info, error) {
	if err := ctx.Err(); err != nil {
		return archive.Info{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return archive.Info{}, fmt.Errorf("memory archive: key required")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return archive.Info{}, fmt.Errorf("memory archive: read: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	obj := object{data: data, modified: s.nowFn().UTC()}
	s.objects[key] = obj
	return archive.Info{Key: key, Size: int64(len(data)), LastModified: obj.modified}, nil
}

func (s *Store) Get(ctx context.Context, key string) (archive.Info, io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return archive.Info{}, nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return archive.Info{}, nil, fmt.Errorf("memory archive: %q not found", key)
	}
	info := archive.Info{Key: key, Size: int64(len(obj.data)), LastModified: obj.modified}
	return info, io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return false, nil
	}
	delete(s.objects, key)
	return true, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]archive.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var infos []archive.Info
	for key, obj := range s.objects {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		infos = append(infos, archive.Info{Key: key, Size: int64(len(obj.data)), LastModified: obj.modified})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}
