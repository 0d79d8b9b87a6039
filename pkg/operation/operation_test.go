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

package operation

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/goleak"

	"github.com/walteh/reporeadme/pkg/analyzer"
	"github.com/walteh/reporeadme/pkg/log"
	"github.com/walteh/reporeadme/pkg/readme"
	"github.com/walteh/reporeadme/pkg/remote"
	"github.com/walteh/reporeadme/pkg/status"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type MockCloner struct {
	mock.Mock
}

func (m *MockCloner) Clone(ctx context.Context, repo remote.RepositoryInfo) (string, error) {
	args := m.Called(repo.FullName)
	return args.String(0), args.Error(1)
}

func (m *MockCloner) Cleanup(ctx context.Context) error {
	return m.Called().Error(0)
}

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, root, name, url string) (*analyzer.ProjectMetadata, error) {
	args := m.Called(name)
	meta, _ := args.Get(0).(*analyzer.ProjectMetadata)
	return meta, args.Error(1)
}

type MockGit struct {
	mock.Mock
}

func (m *MockGit) Run(ctx context.Context, dir string, args ...string) (string, error) {
	result := m.Called(strings.Join(args, " "))
	return result.String(0), result.Error(1)
}

// memoryCache keeps json encoded values like the leveldb cache does
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, v any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (c *memoryCache) Put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Cleanup(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = map[string][]byte{}
	return n, nil
}

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func repo(name string) remote.RepositoryInfo {
	return remote.RepositoryInfo{
		Name:     name,
		FullName: "walteh/" + name,
		URL:      "https://github.com/walteh/" + name,
		CloneURL: "https://github.com/walteh/" + name + ".git",
		Provider: "github",
	}
}

func meta(name, lang, kind string, quality float64) *analyzer.ProjectMetadata {
	m := analyzer.NewProjectMetadata(name)
	m.Description = name + " does things"
	m.PrimaryLanguage = lang
	m.Languages[lang] = 100
	m.ProjectType = kind
	m.CodeQualityScore = quality
	return m
}

func options(t *testing.T, cloner *MockCloner, an *MockAnalyzer, repos ...remote.RepositoryInfo) Options {
	t.Helper()
	return Options{
		Repositories: repos,
		Cloner:       cloner,
		Analyzer:     an,
		Status:       status.New(t.TempDir(), nil),
		Readme:       readme.DefaultConfig(),
	}
}

func TestBulkExecute(t *testing.T) {
	for _, concurrency := range []int{1, 3} {
		t.Run(map[int]string{1: "sequential", 3: "concurrent"}[concurrency], func(t *testing.T) {
			cloner := &MockCloner{}
			cloner.On("Clone", "walteh/api").Return("/tmp/api", nil)
			cloner.On("Clone", "walteh/broken").Return("", errors.New("auth failed"))
			cloner.On("Clone", "walteh/empty").Return("/tmp/empty", nil)
			cloner.On("Cleanup").Return(nil).Once()

			an := &MockAnalyzer{}
			an.On("Analyze", "api").Return(meta("api", "Go", "api", 80), nil)
			an.On("Analyze", "empty").Return(nil, analyzer.ErrPathNotFound)

			opts := options(t, cloner, an, repo("api"), repo("broken"), repo("empty"))
			opts.Concurrency = concurrency
			op := NewBulkOperation(opts)

			require.NoError(t, op.Execute(testContext()), "per repository failures do not fail the run")
			cloner.AssertExpectations(t)
			an.AssertExpectations(t)

			results := op.Results()
			require.Len(t, results, 3, "one result per repository")
			assert.Equal(t, "walteh/api", results[0].Repository.FullName, "input order is kept")
			assert.Equal(t, StageDone, results[0].Stage, "api finished")
			assert.Equal(t, status.StatusNew, results[0].Status, "readme is new")
			assert.Equal(t, StageClone, results[1].Stage, "broken failed to clone")
			assert.Contains(t, results[1].Err.Error(), "auth failed", "clone error is kept")
			assert.Equal(t, StageAnalyze, results[2].Stage, "empty failed to analyze")
			assert.ErrorIs(t, results[2].Err, analyzer.ErrPathNotFound, "analysis error is wrapped")

			content, err := os.ReadFile(results[0].Output)
			require.NoError(t, err, "readme should be written")
			assert.Contains(t, string(content), "api does things", "readme is rendered from metadata")
			assert.True(t, strings.HasSuffix(results[0].Output, filepath.Join("walteh", "api", ReadmeName)), "owner/name layout")

			s := op.Summary()
			assert.Equal(t, op.RunID, s.RunID, "run id")
			assert.Equal(t, 3, s.Total, "total")
			assert.Equal(t, 1, s.Succeeded, "succeeded")
			assert.Equal(t, 2, s.Failed, "failed")
			assert.Equal(t, map[string]int{StageClone: 1, StageAnalyze: 1}, s.FailedByStage, "failures by stage")
			assert.Equal(t, map[string]int{"Go": 1}, s.Languages, "languages")
			assert.Equal(t, 1, s.New, "new readmes")
			assert.InDelta(t, 80, s.AverageQuality, 0.001, "average quality")
		})
	}
}

func TestBulkCache(t *testing.T) {
	cloner := &MockCloner{}
	cloner.On("Clone", "walteh/api").Return("/tmp/api", nil)
	cloner.On("Cleanup").Return(nil)

	an := &MockAnalyzer{}
	an.On("Analyze", "api").Return(meta("api", "Go", "api", 80), nil).Once()

	git := &MockGit{}
	git.On("Run", "rev-parse HEAD").Return("abc123\n", nil)

	opts := options(t, cloner, an, repo("api"))
	opts.Cache = newMemoryCache()
	opts.Git = git

	first := NewBulkOperation(opts)
	require.NoError(t, first.Execute(testContext()), "first run")
	assert.False(t, first.Results()[0].Cached, "first run analyzes")
	assert.Equal(t, status.StatusNew, first.Results()[0].Status, "first run writes")

	second := NewBulkOperation(opts)
	require.NoError(t, second.Execute(testContext()), "second run")
	assert.True(t, second.Results()[0].Cached, "second run reuses the analysis")
	assert.Equal(t, status.StatusUnchanged, second.Results()[0].Status, "same content is unchanged")
	assert.Equal(t, 1, second.Summary().Cached, "cached count")
	assert.NotEqual(t, first.RunID, second.RunID, "each run gets an id")

	an.AssertExpectations(t)
}

func TestBulkConsoleEvents(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	cloner := &MockCloner{}
	cloner.On("Clone", "walteh/api").Return("/tmp/api", nil)
	cloner.On("Clone", "walteh/broken").Return("", errors.New("auth failed"))
	cloner.On("Cleanup").Return(nil)
	an := &MockAnalyzer{}
	an.On("Analyze", "api").Return(meta("api", "Go", "api", 80), nil)

	buf := &bytes.Buffer{}
	ctx := log.NewContext(testContext(), log.New(buf, zerolog.Disabled))

	opts := options(t, cloner, an, repo("api"), repo("broken"))
	opts.Concurrency = 2
	require.NoError(t, NewBulkOperation(opts).Execute(ctx), "bulk run")

	out := buf.String()
	assert.Contains(t, out, "◆ walteh/api • github", "api start event")
	assert.Contains(t, out, "◆ walteh/broken • github", "broken start event")
	assert.Contains(t, out, "[analyzing https://github.com/walteh/api.git]", "source is shown")
	assert.Regexp(t, `✓ walteh/api new in \S+`, out, "api end event carries its status")
	assert.Contains(t, out, "✗ walteh/broken failed at clone: auth failed", "broken end event carries the failure")
	assert.Contains(t, out, filepath.Join("walteh", "api", ReadmeName), "written readme is listed")
}

func TestBulkDryRun(t *testing.T) {
	cloner := &MockCloner{}
	cloner.On("Clone", "walteh/api").Return("/tmp/api", nil)
	cloner.On("Cleanup").Return(nil)
	an := &MockAnalyzer{}
	an.On("Analyze", "api").Return(meta("api", "Go", "api", 80), nil)

	opts := options(t, cloner, an, repo("api"))
	opts.Write.DryRun = true
	op := NewBulkOperation(opts)
	require.NoError(t, op.Execute(testContext()), "dry run")

	res := op.Results()[0]
	assert.Equal(t, status.StatusNew, res.Status, "status is still reported")
	assert.NoFileExists(t, res.Output, "nothing is written")
}

func TestBulkInclude(t *testing.T) {
	cloner := &MockCloner{}
	cloner.On("Clone", "walteh/api-server").Return("/tmp/a", nil)
	cloner.On("Cleanup").Return(nil)
	an := &MockAnalyzer{}
	an.On("Analyze", "api-server").Return(meta("api-server", "Go", "api", 50), nil)

	opts := options(t, cloner, an, repo("api-server"), repo("website"))
	opts.Include = []string{"walteh/api-*"}
	op := NewBulkOperation(opts)
	require.NoError(t, op.Execute(testContext()), "filtered run")
	require.Len(t, op.Results(), 1, "only matching repositories run")
	cloner.AssertNotCalled(t, "Clone", "walteh/website")

	opts.Include = []string{"walteh/[api"}
	err := NewBulkOperation(opts).Execute(testContext())
	require.Error(t, err, "bad patterns are rejected")
	assert.Contains(t, err.Error(), "invalid include pattern", "error names the pattern")
}

func TestBulkValidate(t *testing.T) {
	err := NewBulkOperation(Options{}).Execute(testContext())
	require.Error(t, err, "missing dependencies")
	assert.Contains(t, err.Error(), "cloner is required", "first missing dependency")
}

func TestBulkCancelled(t *testing.T) {
	cloner := &MockCloner{}
	cloner.On("Cleanup").Return(nil).Once()
	an := &MockAnalyzer{}

	ctx, cancel := context.WithCancel(testContext())
	cancel()

	op := NewBulkOperation(options(t, cloner, an, repo("a"), repo("b")))
	err := op.Execute(ctx)
	require.ErrorIs(t, err, context.Canceled, "cancellation is reported")

	for _, r := range op.Results() {
		assert.ErrorIs(t, r.Err, ErrNotProcessed, "%s was never started", r.Repository.FullName)
	}
	cloner.AssertExpectations(t)
	cloner.AssertNotCalled(t, "Clone", mock.Anything)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name string
		repo remote.RepositoryInfo
		want string
	}{
		{"owner_and_name", remote.RepositoryInfo{FullName: "walteh/api"}, filepath.Join("walteh", "api", ReadmeName)},
		{"gitlab_subgroups", remote.RepositoryInfo{FullName: "group/sub/api"}, filepath.Join("group", "sub", "api", ReadmeName)},
		{"traversal_is_dropped", remote.RepositoryInfo{FullName: "../../etc/api"}, filepath.Join("etc", "api", ReadmeName)},
		{"name_only", remote.RepositoryInfo{Name: "api"}, filepath.Join("api", ReadmeName)},
		{"empty", remote.RepositoryInfo{}, filepath.Join("unnamed", ReadmeName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.repo), "output path")
		})
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Stage: StageDone, Status: status.StatusNew, Language: "Go", Type: "cli", Quality: 60},
		{Stage: StageDone, Status: status.StatusUnchanged, Language: "Go", Type: "api", Quality: 90, Cached: true},
		{Stage: StageDone, Status: status.StatusModified, Language: "Rust", Type: "cli", Quality: 30},
		{Stage: StageWrite, Err: errors.New("disk full")},
	}
	s := Summarize("run-1", results, time.Second)

	assert.Equal(t, 4, s.Total, "total")
	assert.Equal(t, 3, s.Succeeded, "succeeded")
	assert.Equal(t, 1, s.Failed, "failed")
	assert.Equal(t, 1, s.New, "new")
	assert.Equal(t, 1, s.Modified, "modified")
	assert.Equal(t, 1, s.Unchanged, "unchanged")
	assert.Equal(t, 1, s.Cached, "cached")
	assert.Equal(t, map[string]int{"Go": 2, "Rust": 1}, s.Languages, "languages")
	assert.Equal(t, map[string]int{"cli": 2, "api": 1}, s.ProjectTypes, "project types")
	assert.Equal(t, map[string]int{StageWrite: 1}, s.FailedByStage, "failed stages")
	assert.InDelta(t, 60, s.AverageQuality, 0.001, "average over successes")
	assert.InDelta(t, 75, s.SuccessRate(), 0.001, "success rate")
	assert.Zero(t, Summarize("", nil, 0).SuccessRate(), "empty runs have no rate")
}

func TestForEach(t *testing.T) {
	t.Run("bounded", func(t *testing.T) {
		var inFlight, peak, calls atomic.Int32
		err := ForEach(context.Background(), 3, 12, func(ctx context.Context, i int) error {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			calls.Add(1)
			return nil
		})
		require.NoError(t, err, "all calls succeed")
		assert.Equal(t, int32(12), calls.Load(), "every index is visited")
		assert.LessOrEqual(t, peak.Load(), int32(3), "limit is respected")
	})

	t.Run("sequential_order", func(t *testing.T) {
		var order []int
		err := ForEach(context.Background(), 1, 4, func(ctx context.Context, i int) error {
			order = append(order, i)
			return nil
		})
		require.NoError(t, err, "sequential run")
		assert.Equal(t, []int{0, 1, 2, 3}, order, "in order")
	})

	t.Run("error_stops", func(t *testing.T) {
		boom := errors.New("boom")
		for _, limit := range []int{1, 4} {
			err := ForEach(context.Background(), limit, 8, func(ctx context.Context, i int) error {
				if i == 2 {
					return boom
				}
				return nil
			})
			assert.ErrorIs(t, err, boom, "error is returned with limit %d", limit)
		}
	})
}

type blockingOperation struct {
	started chan struct{}
}

func (o *blockingOperation) Execute(ctx context.Context) error {
	close(o.started)
	<-ctx.Done()
	return ctx.Err()
}

type funcOperation func(ctx context.Context) error

func (f funcOperation) Execute(ctx context.Context) error { return f(ctx) }

func TestRunner(t *testing.T) {
	for _, async := range []bool{false, true} {
		runner := NewRunner(nil, async)
		ran := false
		require.NoError(t, runner.Run(context.Background(), funcOperation(func(ctx context.Context) error {
			ran = true
			return nil
		})), "run succeeds, async=%v", async)
		assert.True(t, ran, "operation executed, async=%v", async)

		err := runner.Run(context.Background(), funcOperation(func(ctx context.Context) error {
			return errors.New("nope")
		}))
		assert.ErrorContains(t, err, "nope", "errors surface, async=%v", async)
	}

	t.Run("async_cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		op := &blockingOperation{started: make(chan struct{})}
		go func() {
			<-op.started
			cancel()
		}()
		err := NewRunner(nil, true).Run(ctx, op)
		require.Error(t, err, "cancelled")
		assert.Contains(t, err.Error(), "operation cancelled", "cancellation is named")
	})
}

func TestCleanOperation(t *testing.T) {
	cloner := &MockCloner{}
	cloner.On("Cleanup").Return(nil).Once()

	c := newMemoryCache()
	require.NoError(t, c.Put(testContext(), "analysis:x", meta("x", "Go", "cli", 1)), "seed cache")

	op := NewCleanOperation(Options{Cloner: cloner, Cache: c})
	require.NoError(t, op.Execute(testContext()), "clean succeeds")
	assert.Equal(t, 1, op.Removed, "cache entries removed")
	cloner.AssertExpectations(t)

	failing := &MockCloner{}
	failing.On("Cleanup").Return(errors.New("busy"))
	err := NewCleanOperation(Options{Cloner: failing}).Execute(testContext())
	assert.ErrorContains(t, err, "cleaning clones", "cleanup errors are wrapped")
}
