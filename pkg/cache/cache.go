// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache stores analysis results and built profiles in a local leveldb
// so repeated runs over an unchanged repository skip the scan.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/analyzer"
)

// 🔑 key namespaces
const (
	PrefixAnalysis = "analysis:"
	PrefixProfile  = "profile:"
)

// 📦 entry wraps a stored value with the time it was written
type entry struct {
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// 🗄️ Cache is a leveldb-backed store with a maximum entry age
type Cache struct {
	db     *leveldb.DB
	maxAge time.Duration
	now    func() time.Time
}

// 🏭 Open opens (or creates) the cache database in dir
func Open(dir string, maxAge time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Errorf("creating cache directory: %w", err)
	}

	db, err := leveldb.OpenFile(dir, &opt.Options{
		WriteBuffer:        4 * 1024 * 1024,
		BlockCacheCapacity: 8 * 1024 * 1024,
	})
	if err != nil {
		return nil, errors.Errorf("opening cache %s: %w", dir, err)
	}

	return &Cache{db: db, maxAge: maxAge, now: time.Now}, nil
}

// DefaultDir returns <appDir>/cache
func DefaultDir(appDir string) string {
	return filepath.Join(appDir, "cache")
}

// Close releases the database
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) expired(e entry) bool {
	return c.maxAge > 0 && c.now().Sub(e.StoredAt) > c.maxAge
}

// 🔍 Get decodes the value at key into v; false means missing or expired
func (c *Cache) Get(ctx context.Context, key string, v any) (bool, error) {
	raw, err := c.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Errorf("reading cache key %s: %w", key, err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("dropping corrupt cache entry")
		_ = c.db.Delete([]byte(key), nil)
		return false, nil
	}
	if c.expired(e) {
		zerolog.Ctx(ctx).Debug().Str("key", key).Time("stored_at", e.StoredAt).Msg("cache entry expired")
		return false, nil
	}

	if err := json.Unmarshal(e.Payload, v); err != nil {
		return false, errors.Errorf("decoding cache key %s: %w", key, err)
	}
	return true, nil
}

// 💾 Put stores v at key
func (c *Cache) Put(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Errorf("encoding cache value: %w", err)
	}
	raw, err := json.Marshal(entry{StoredAt: c.now(), Payload: payload})
	if err != nil {
		return errors.Errorf("encoding cache entry: %w", err)
	}
	if err := c.db.Put([]byte(key), raw, &opt.WriteOptions{}); err != nil {
		return errors.Errorf("writing cache key %s: %w", key, err)
	}
	return nil
}

// 🗑️ Delete removes key
func (c *Cache) Delete(key string) error {
	if err := c.db.Delete([]byte(key), nil); err != nil {
		return errors.Errorf("deleting cache key %s: %w", key, err)
	}
	return nil
}

// 🧹 Cleanup removes expired and unreadable entries and returns how many were dropped
func (c *Cache) Cleanup(ctx context.Context) (int, error) {
	iter := c.db.NewIterator(nil, nil)
	defer iter.Release()

	batch := new(leveldb.Batch)
	for iter.Next() {
		var e entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil || c.expired(e) {
			batch.Delete(append([]byte(nil), iter.Key()...))
		}
	}
	if err := iter.Error(); err != nil {
		return 0, errors.Errorf("iterating cache: %w", err)
	}

	if err := c.db.Write(batch, nil); err != nil {
		return 0, errors.Errorf("cleaning cache: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Int("removed", batch.Len()).Msg("cache cleanup complete")
	return batch.Len(), nil
}

// 📊 Count returns the number of entries under prefix
func (c *Cache) Count(prefix string) (int, error) {
	iter := c.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		n++
	}
	if err := iter.Error(); err != nil {
		return 0, errors.Errorf("iterating cache: %w", err)
	}
	return n, nil
}

// 🔑 AnalysisKey identifies a repository state: its absolute path plus the
// HEAD commit, or the directory mtime when git is unavailable
func AnalysisKey(ctx context.Context, git analyzer.GitRunner, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("resolving path: %w", err)
	}

	if head, err := analyzer.HeadCommit(ctx, git, abs); err == nil && head != "" {
		return PrefixAnalysis + abs + "@" + head, nil
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Errorf("reading repository: %w", err)
	}
	return fmt.Sprintf("%s%s@%d", PrefixAnalysis, abs, info.ModTime().UnixNano()), nil
}

// RemoteKey identifies a clone of a remote repository at a commit
func RemoteKey(cloneURL, head string) string {
	return PrefixAnalysis + cloneURL + "@" + head
}

// 🔑 ProfileKey identifies a built profile for a user
func ProfileKey(username string) string {
	return PrefixProfile + username
}
