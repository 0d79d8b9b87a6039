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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	logger := zerolog.Nop()
	return New(dir, &logger), dir
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name       string
		existing   *string
		content    string
		opts       WriteOptions
		wantStatus ArtifactStatus
		wantOnDisk string
		check      func(t *testing.T, dir string, art Artifact)
	}{
		{
			name:       "new_file",
			content:    "# hello\n",
			opts:       WriteOptions{Kind: "readme"},
			wantStatus: StatusNew,
			wantOnDisk: "# hello\n",
		},
		{
			name:       "unchanged_file",
			existing:   ptr("# same\n"),
			content:    "# same\n",
			opts:       WriteOptions{Kind: "readme", Backup: true, Diff: true},
			wantStatus: StatusUnchanged,
			wantOnDisk: "# same\n",
			check: func(t *testing.T, dir string, art Artifact) {
				assert.Empty(t, art.Diff, "unchanged file should have no diff")
				assert.NoFileExists(t, filepath.Join(dir, "README.md.backup"), "unchanged file should not be backed up")
			},
		},
		{
			name:       "modified_with_backup_and_diff",
			existing:   ptr("a\nb\nc\n"),
			content:    "a\nB\nc\n",
			opts:       WriteOptions{Kind: "readme", Backup: true, Diff: true},
			wantStatus: StatusModified,
			wantOnDisk: "a\nB\nc\n",
			check: func(t *testing.T, dir string, art Artifact) {
				backup, err := os.ReadFile(filepath.Join(dir, "README.md.backup"))
				require.NoError(t, err, "backup should exist")
				assert.Equal(t, "a\nb\nc\n", string(backup), "backup should hold old content")
				assert.Equal(t, filepath.Join(dir, "README.md.backup"), art.BackupPath, "backup path should be reported")
				assert.Contains(t, art.Diff, "-b\n+B\n", "diff should show the change")
			},
		},
		{
			name:       "dry_run_leaves_disk_alone",
			existing:   ptr("old\n"),
			content:    "new\n",
			opts:       WriteOptions{Kind: "readme", DryRun: true, Diff: true},
			wantStatus: StatusModified,
			wantOnDisk: "old\n",
			check: func(t *testing.T, dir string, art Artifact) {
				assert.True(t, art.DryRun, "artifact should be marked dry run")
				assert.NotEmpty(t, art.Diff, "dry run should still diff")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, dir := newTestManager(t)
			path := filepath.Join(dir, "README.md")
			if tt.existing != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.existing), 0o644), "seeding file should succeed")
			}

			art, err := mgr.Write(context.Background(), "README.md", []byte(tt.content), tt.opts)
			require.NoError(t, err, "write should succeed")
			assert.Equal(t, tt.wantStatus, art.Status, "status should match")
			assert.Equal(t, Checksum([]byte(tt.content)), art.Checksum, "checksum should be of new content")

			onDisk, err := os.ReadFile(path)
			require.NoError(t, err, "reading result should succeed")
			assert.Equal(t, tt.wantOnDisk, string(onDisk), "disk content should match")

			if tt.check != nil {
				tt.check(t, dir, art)
			}
		})
	}
}

func TestWriteTimestamp(t *testing.T) {
	mgr, dir := newTestManager(t)
	mgr.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }

	art, err := mgr.Write(context.Background(), "cv.md", []byte("cv"), WriteOptions{Kind: "cv", Timestamp: true})
	require.NoError(t, err, "write should succeed")
	assert.Equal(t, filepath.Join(dir, "cv_20250304_050607.md"), art.Path, "path should carry timestamp")
	assert.FileExists(t, art.Path, "timestamped file should exist")
}

func TestWriteFailure(t *testing.T) {
	mgr, dir := newTestManager(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocker"), []byte("x"), 0o644), "seeding blocker should succeed")

	art, err := mgr.Write(context.Background(), "blocker/README.md", []byte("x"), WriteOptions{Kind: "readme"})
	require.Error(t, err, "writing under a file should fail")
	assert.Equal(t, StatusFailed, art.Status, "status should be failed")
	assert.Equal(t, 1, mgr.Summary().Failed, "failure should be counted")
}

func TestSummaryAndArtifacts(t *testing.T) {
	mgr, dir := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("same"), 0o644), "seeding should succeed")

	_, err := mgr.Write(ctx, "a.md", []byte("new"), WriteOptions{})
	require.NoError(t, err, "write a should succeed")
	_, err = mgr.Write(ctx, "b.md", []byte("same"), WriteOptions{})
	require.NoError(t, err, "write b should succeed")

	assert.Equal(t, Summary{Total: 2, New: 1, Unchanged: 1}, mgr.Summary(), "summary should match")

	arts := mgr.Artifacts()
	require.Len(t, arts, 2, "should track two artifacts")
	assert.Equal(t, filepath.Join(dir, "a.md"), arts[0].Path, "artifacts should be sorted")

	art, ok := mgr.Lookup("b.md")
	require.True(t, ok, "lookup should find b.md")
	assert.Equal(t, StatusUnchanged, art.Status, "lookup status should match")
}

func TestBackupRestore(t *testing.T) {
	mgr, dir := newTestManager(t)
	ctx := context.Background()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644), "seeding should succeed")

	backup, err := mgr.BackupFile(ctx, "settings.json")
	require.NoError(t, err, "backup should succeed")
	assert.Equal(t, path+".backup", backup, "backup path should match")

	require.NoError(t, WriteFileAtomic(path, []byte("v2"), 0), "overwrite should succeed")
	require.NoError(t, mgr.RestoreFile(ctx, "settings.json"), "restore should succeed")

	content, err := os.ReadFile(path)
	require.NoError(t, err, "reading should succeed")
	assert.Equal(t, "v1", string(content), "content should be restored")
	assert.NoFileExists(t, backup, "backup should be removed")

	art, ok := mgr.Lookup("settings.json")
	require.True(t, ok, "restored file is tracked")
	assert.Equal(t, StatusModified, art.Status, "restore modifies the file")
	assert.Equal(t, "restored", art.Kind, "restore kind")
	assert.Equal(t, Checksum([]byte("v1")), art.Checksum, "checksum of the restored content")

	require.Error(t, mgr.RestoreFile(ctx, "settings.json"), "second restore has no backup")

	missing, err := mgr.BackupFile(ctx, "nope.json")
	require.NoError(t, err, "backing up a missing file is a no-op")
	assert.Empty(t, missing, "no backup path for missing file")
}

func TestWriteFileAtomicLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.html")
	require.NoError(t, WriteFileAtomic(path, []byte("<html></html>"), 0o600), "write should succeed")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err, "reading dir should succeed")
	require.Len(t, entries, 1, "only the target should remain")

	info, err := os.Stat(path)
	require.NoError(t, err, "stat should succeed")
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "permissions should be applied")
}

func TestUnifiedDiff(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		assert.Empty(t, UnifiedDiff("x", "a\n", "a\n"), "identical content has no diff")
	})

	t.Run("collapses_context", func(t *testing.T) {
		var before []string
		for i := 0; i < 10; i++ {
			before = append(before, fmt.Sprintf("line %d", i))
		}
		after := append(append([]string{}, before...), "added")

		diff := UnifiedDiff("README.md", strings.Join(before, "\n")+"\n", strings.Join(after, "\n")+"\n")
		want := "--- a/README.md\n+++ b/README.md\n@@\n line 7\n line 8\n line 9\n+added\n"
		assert.Equal(t, want, diff, "diff should keep three lines of context")
	})
}

func TestFormatter(t *testing.T) {
	f := NewDefaultFileFormatter()
	tests := []struct {
		name   string
		status ArtifactStatus
		dryRun bool
		want   string
	}{
		{"new", StatusNew, false, "✨ Created README.md (readme)"},
		{"modified", StatusModified, false, "📝 Modified README.md (readme)"},
		{"failed", StatusFailed, false, "❌ Failed README.md (readme)"},
		{"unchanged", StatusUnchanged, true, "👍 Unchanged README.md (readme)"},
		{"dry_run", StatusNew, true, "✨ Created README.md (readme) [dry run]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.FormatFileOperation("/out/README.md", "readme", tt.status, tt.dryRun)
			assert.Equal(t, tt.want, got, "formatted message should match")
		})
	}

	assert.Equal(t, "⏳ Progress: 1/4 (25%)", f.FormatProgress(1, 4), "partial progress")
	assert.Equal(t, "✅ Progress: 4/4 (100%)", f.FormatProgress(4, 4), "complete progress")
	assert.Equal(t, "❌ Error: boom", f.FormatError(errors.New("boom")), "error message")
	assert.Empty(t, f.FormatError(nil), "nil error")
}

func ptr(s string) *string { return &s }
