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

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 ArtifactStatus represents what a write did to a file
type ArtifactStatus int

const (
	StatusUnknown   ArtifactStatus = iota
	StatusNew                      // File did not exist
	StatusModified                 // File existed with different content
	StatusUnchanged                // File existed with identical content
	StatusFailed                   // Write failed
)

// String returns a string representation of ArtifactStatus
func (s ArtifactStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Artifact describes one generated file
type Artifact struct {
	Path       string         // Path the content was (or would be) written to
	Kind       string         // readme, cv, portfolio, linkedin, settings...
	Status     ArtifactStatus // Outcome of the write
	Size       int64          // Content size in bytes
	Checksum   string         // sha256 of the new content
	Diff       string         // Unified diff against the previous content
	BackupPath string         // Where the previous content was saved, if anywhere
	DryRun     bool           // Content was not written
	Error      error          // Any error associated with this file
}

// ⚙️ WriteOptions controls a single Write
type WriteOptions struct {
	Kind      string
	Backup    bool // copy an existing, different file to <path>.backup first
	Diff      bool // compute a unified diff against the existing file
	DryRun    bool // report status without touching the disk
	Timestamp bool // insert _YYYYMMDD_HHMMSS before the extension
	Perm      os.FileMode
}

// 📈 Summary counts artifacts by status
type Summary struct {
	Total     int
	New       int
	Modified  int
	Unchanged int
	Failed    int
}

// 🔧 Manager writes generated artifacts and tracks their status
type Manager struct {
	baseDir   string          // Base directory for relative paths
	logger    *zerolog.Logger // Logger for status updates
	formatter FileFormatter   // Formatter for status messages
	now       func() time.Time

	mu        sync.RWMutex
	artifacts map[string]Artifact

	total     int
	processed int
}

// 🏭 New creates a new artifact manager rooted at baseDir
func New(baseDir string, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		now:       time.Now,
		artifacts: make(map[string]Artifact),
	}
}

// 🔒 absPath resolves path against the base directory
func (m *Manager) absPath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(m.baseDir, path)
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// 🕒 TimestampedPath inserts _YYYYMMDD_HHMMSS before the extension
func TimestampedPath(path string, t time.Time) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + t.Format("20060102_150405") + ext
}

// 💾 WriteFileAtomic writes content to a temp file in the same directory and renames it into place
func WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// ✍️ Write stores content at path and records how the file changed
func (m *Manager) Write(ctx context.Context, path string, content []byte, opts WriteOptions) (Artifact, error) {
	absPath := m.absPath(path)
	if opts.Timestamp {
		absPath = TimestampedPath(absPath, m.now())
	}

	art := Artifact{
		Path:     absPath,
		Kind:     opts.Kind,
		Size:     int64(len(content)),
		Checksum: Checksum(content),
		DryRun:   opts.DryRun,
	}

	existing, err := os.ReadFile(absPath)
	switch {
	case err == nil:
		if Checksum(existing) == art.Checksum {
			art.Status = StatusUnchanged
		} else {
			art.Status = StatusModified
		}
	case errors.Is(err, os.ErrNotExist):
		art.Status = StatusNew
	default:
		return m.fail(ctx, art, errors.Errorf("reading existing file: %w", err))
	}

	if opts.Diff && art.Status != StatusUnchanged {
		art.Diff = UnifiedDiff(absPath, string(existing), string(content))
	}

	if art.Status == StatusUnchanged || opts.DryRun {
		m.track(ctx, art)
		return art, nil
	}

	if opts.Backup && art.Status == StatusModified {
		backup, err := m.BackupFile(ctx, absPath)
		if err != nil {
			return m.fail(ctx, art, err)
		}
		art.BackupPath = backup
	}

	if err := WriteFileAtomic(absPath, content, opts.Perm); err != nil {
		return m.fail(ctx, art, err)
	}

	m.track(ctx, art)
	return art, nil
}

func (m *Manager) fail(ctx context.Context, art Artifact, err error) (Artifact, error) {
	art.Status = StatusFailed
	art.Error = err
	m.track(ctx, art)
	return art, err
}

// 📦 BackupFile copies path to path.backup and returns the backup location
func (m *Manager) BackupFile(ctx context.Context, path string) (string, error) {
	absPath := m.absPath(path)
	backupPath := absPath + ".backup"

	if _, err := os.Stat(absPath); errors.Is(err, os.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", errors.Errorf("checking file existence: %w", err)
	}

	if err := copyFile(absPath, backupPath); err != nil {
		return "", errors.Errorf("creating backup: %w", err)
	}

	m.logger.Debug().Str("path", absPath).Str("backup", backupPath).Msg("backed up file")
	return backupPath, nil
}

// ♻️ RestoreFile puts path.backup back in place, removes the backup and records the file as modified
func (m *Manager) RestoreFile(ctx context.Context, path string) error {
	absPath := m.absPath(path)
	backupPath := absPath + ".backup"

	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		return errors.Errorf("backup file does not exist: %s", backupPath)
	} else if err != nil {
		return errors.Errorf("checking backup existence: %w", err)
	}

	if err := copyFile(backupPath, absPath); err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		return errors.Errorf("removing backup: %w", err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return errors.Errorf("reading restored file: %w", err)
	}
	m.track(ctx, Artifact{
		Path:     absPath,
		Kind:     "restored",
		Status:   StatusModified,
		Size:     int64(len(content)),
		Checksum: Checksum(content),
	})
	return nil
}

func (m *Manager) track(ctx context.Context, art Artifact) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.artifacts[art.Path] = art

	msg := m.formatter.FormatFileOperation(art.Path, art.Kind, art.Status, art.DryRun)
	if art.Error != nil {
		m.logger.Error().Err(art.Error).Str("path", art.Path).Msg(m.formatter.FormatError(art.Error))
		return
	}
	m.logger.Info().
		Str("path", art.Path).
		Str("kind", art.Kind).
		Str("status", art.Status.String()).
		Int64("bytes", art.Size).
		Msg(msg)
}

// 🔍 Lookup returns what is known about path
func (m *Manager) Lookup(path string) (Artifact, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	art, ok := m.artifacts[m.absPath(path)]
	return art, ok
}

// 📋 Artifacts returns every tracked artifact sorted by path
func (m *Manager) Artifacts() []Artifact {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Artifact, 0, len(m.artifacts))
	for _, art := range m.artifacts {
		out = append(out, art)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// 📊 Summary counts tracked artifacts by status
func (m *Manager) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var s Summary
	for _, art := range m.artifacts {
		s.Total++
		switch art.Status {
		case StatusNew:
			s.New++
		case StatusModified:
			s.Modified++
		case StatusUnchanged:
			s.Unchanged++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// ⏳ StartOperation resets progress for a batch of total items
func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.logger.Info().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

// ⏳ Advance marks one more item as processed
func (m *Manager) Advance(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed++
	m.logger.Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

// ✅ FinishOperation logs the final progress line
func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	destination, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}

	return nil
}
