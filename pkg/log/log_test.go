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

package log

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_artifact",
			op: func(t *testing.T, logger *Logger) {
				logger.LogArtifact(context.Background(), ArtifactOperation{
					Path:   "README.md",
					Kind:   "readme",
					Status: "NEW",
					IsNew:  true,
				})
			},
			wantLogs: []string{
				"✓ README.md                           readme       NEW",
			},
		},
		{
			name: "log_repo_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRepoOperation(context.Background(), RepoOperation{
					Name:     "octocat/hello",
					Provider: "github",
					Source:   "https://github.com/octocat/hello.git",
				})
			},
			wantLogs: []string{
				"[analyzing https://github.com/octocat/hello.git]",
				"◆ octocat/hello • github",
			},
		},
		{
			name: "end_repo_operation_success",
			op: func(t *testing.T, logger *Logger) {
				ctx := context.Background()
				logger.StartRepoOperation(ctx, RepoOperation{Name: "octocat/hello", Provider: "github", Source: "hello.git"})
				logger.LogArtifact(ctx, ArtifactOperation{Path: "README.md", Repo: "octocat/hello", Kind: "readme", Status: "new", IsNew: true})
				logger.EndRepoOperation(ctx, "octocat/hello", RepoOutcome{Stage: "done", Status: "new", Duration: 1500 * time.Millisecond})
			},
			wantLogs: []string{
				"[analyzing hello.git]",
				"◆ octocat/hello • github",
				"✓ README.md                           readme       new",
				"✓ octocat/hello new in 1.5s",
			},
		},
		{
			name: "end_repo_operation_failure",
			op: func(t *testing.T, logger *Logger) {
				ctx := context.Background()
				logger.StartRepoOperation(ctx, RepoOperation{Name: "octocat/broken", Provider: "gitlab", Source: "broken.git"})
				logger.EndRepoOperation(ctx, "octocat/broken", RepoOutcome{Stage: "clone", Err: errors.New("auth failed")})
			},
			wantLogs: []string{
				"[analyzing broken.git]",
				"◆ octocat/broken • gitlab",
				"✗ octocat/broken failed at clone: auth failed",
			},
		},
		{
			name: "end_unknown_repo_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.EndRepoOperation(context.Background(), "never/started", RepoOutcome{Stage: "done"})
				logger.Info("still here")
			},
			wantLogs: []string{
				"ℹ️  still here",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("generating readme files")
			},
			wantLogs: []string{
				"reporeadme • generating readme files",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	missing := FromContext(context.Background())
	require.NotNil(t, missing, "missing logger falls back to a silent one")
	assert.NotPanics(t, func() {
		missing.StartRepoOperation(context.Background(), RepoOperation{Name: "x"})
		missing.EndRepoOperation(context.Background(), "x", RepoOutcome{Stage: "done"})
	}, "silent logger accepts repo operations")
}

func TestArtifactFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   ArtifactOperation
		want string
	}{
		{
			name: "new_readme",
			op:   ArtifactOperation{Path: "README.md", Kind: "readme", Status: "NEW", IsNew: true},
			want: "✓ README.md                           readme       NEW",
		},
		{
			name: "modified_cv",
			op:   ArtifactOperation{Path: "cv.html", Kind: "cv", Status: "UPDATED", IsModified: true},
			want: "⟳ cv.html                             cv           UPDATED",
		},
		{
			name: "failed_portfolio",
			op:   ArtifactOperation{Path: "portfolio.pdf", Kind: "portfolio", Status: "FAILED", IsFailed: true, Bytes: 10},
			want: "✗ portfolio.pdf                       portfolio    FAILED",
		},
		{
			name: "unchanged_with_size",
			op:   ArtifactOperation{Path: "README.md", Kind: "readme", Status: "no change", Bytes: 82},
			want: "• README.md                           readme       no change (82 B)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			logger.LogArtifact(context.Background(), tt.op)

			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()), "formatted output should match")
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "DEBUG", want: zerolog.DebugLevel},
		{in: "info", want: zerolog.InfoLevel},
		{in: "WARNING", want: zerolog.WarnLevel},
		{in: "ERROR", want: zerolog.ErrorLevel},
		{in: "CRITICAL", want: zerolog.FatalLevel},
		{in: "bogus", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in), "level should match")
		})
	}
}

func TestSetupWritesLogFile(t *testing.T) {
	dir := t.TempDir()

	logger, closer, err := Setup(SetupOptions{Level: "INFO", LogDir: dir, KeepLogsDays: 3})
	require.NoError(t, err, "setup should succeed")

	ctx := logger.WithContext(context.Background())
	LogRepositoryAnalysis(ctx, "hello", "comprehensive", "completed", "3 files")
	LogReadmeGeneration(ctx, "hello", "modern", "README.md", true)
	LogPerformance(ctx, "repository_analysis", 25*time.Millisecond, map[string]any{"files": 3})

	require.NoError(t, closer.Close(), "closing log file should succeed")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err, "log file should exist")

	content := string(data)
	assert.Contains(t, content, `"category":"ANALYSIS"`, "analysis event should be logged")
	assert.Contains(t, content, `"template":"modern"`, "template event should be logged")
	assert.NotContains(t, content, `"category":"PERFORMANCE"`, "performance events are debug only")
}
