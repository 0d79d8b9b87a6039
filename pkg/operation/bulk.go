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
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/analyzer"
	"github.com/walteh/reporeadme/pkg/cache"
	"github.com/walteh/reporeadme/pkg/log"
	"github.com/walteh/reporeadme/pkg/readme"
	"github.com/walteh/reporeadme/pkg/remote"
	"github.com/walteh/reporeadme/pkg/status"
)

// ErrNotProcessed marks repositories skipped because the run was cancelled
var ErrNotProcessed = errors.New("repository was not processed")

// ReadmeName is the file written for every repository
const ReadmeName = "README.md"

// 📚 BulkOperation generates a README for each selected repository
type BulkOperation struct {
	BaseOperation

	now func() time.Time

	mu       sync.Mutex
	results  []Result
	started  time.Time
	finished time.Time
}

// 🏭 NewBulkOperation creates a bulk README operation
func NewBulkOperation(opts Options) *BulkOperation {
	if opts.Git == nil {
		opts.Git = analyzer.ExecGit{}
	}
	if opts.Write.Kind == "" {
		opts.Write.Kind = "readme"
	}
	return &BulkOperation{
		BaseOperation: NewBaseOperation(opts),
		now:           time.Now,
	}
}

// 🏃 Execute runs clone, analyze, generate and write for every selected repository
func (op *BulkOperation) Execute(ctx context.Context) error {
	if err := op.validate(); err != nil {
		return errors.Errorf("validating bulk operation: %w", err)
	}

	l := logger(ctx, op.RunID)
	ctx = l.WithContext(ctx)

	repos := Selected(op.Repositories, op.Include)
	results := make([]Result, len(repos))
	for i, r := range repos {
		results[i] = Result{Repository: r, Stage: StageClone, Err: ErrNotProcessed}
	}

	l.Info().
		Int("repositories", len(repos)).
		Int("skipped_by_filter", len(op.Repositories)-len(repos)).
		Int("concurrency", max(op.Concurrency, 1)).
		Msg("starting bulk generation")

	op.mu.Lock()
	op.started = op.now()
	op.mu.Unlock()

	op.Status.StartOperation(ctx, len(repos))
	err := ForEach(ctx, op.Concurrency, len(repos), func(ctx context.Context, i int) error {
		results[i] = op.process(ctx, repos[i])
		op.Status.Advance(ctx)
		return nil
	})
	op.Status.FinishOperation(ctx)

	if cerr := op.Cloner.Cleanup(ctx); cerr != nil {
		l.Warn().Err(cerr).Msg("cleaning up clones")
	}

	op.mu.Lock()
	op.results = results
	op.finished = op.now()
	op.mu.Unlock()

	log.LogPerformance(ctx, "bulk_generation", op.finished.Sub(op.started), map[string]any{
		"repositories": len(repos),
		"run_id":       op.RunID,
	})

	if err != nil {
		return errors.Errorf("running bulk operation: %w", err)
	}
	return nil
}

// Results returns one record per selected repository, in input order
func (op *BulkOperation) Results() []Result {
	op.mu.Lock()
	defer op.mu.Unlock()
	return append([]Result(nil), op.results...)
}

// 📊 Summary aggregates the results of the last Execute
func (op *BulkOperation) Summary() Summary {
	op.mu.Lock()
	defer op.mu.Unlock()
	return Summarize(op.RunID, op.results, op.finished.Sub(op.started))
}

func (op *BulkOperation) process(ctx context.Context, repo remote.RepositoryInfo) (res Result) {
	start := op.now()
	res = Result{Repository: repo}

	console := log.FromContext(ctx)
	console.StartRepoOperation(ctx, log.RepoOperation{
		Name:     repo.FullName,
		Provider: repo.Provider,
		Source:   repo.CloneURL,
	})
	defer func() {
		outcome := log.RepoOutcome{Stage: res.Stage, Err: res.Err, Duration: res.Duration}
		if res.Status != status.StatusUnknown {
			outcome.Status = res.Status.String()
		}
		console.EndRepoOperation(ctx, repo.FullName, outcome)
	}()
	defer func() {
		res.Duration = op.now().Sub(start)
	}()

	l := zerolog.Ctx(ctx).With().Str("repo", repo.FullName).Logger()
	ctx = l.WithContext(ctx)

	fail := func(stage string, err error) Result {
		res.Stage = stage
		res.Err = err
		log.LogRepositoryAnalysis(ctx, repo.FullName, stage, "failed", err.Error())
		return res
	}

	path, err := op.Cloner.Clone(ctx, repo)
	if err != nil {
		return fail(StageClone, err)
	}

	meta, cached, err := op.analyze(ctx, repo, path)
	if err != nil {
		return fail(StageAnalyze, err)
	}
	res.Cached = cached
	res.Language = meta.PrimaryLanguage
	res.Type = meta.ProjectType
	res.Quality = meta.CodeQualityScore
	log.LogRepositoryAnalysis(ctx, repo.FullName, "full", "completed", meta.ProjectType)

	content, err := readme.Generate(ctx, meta, op.Readme)
	if err != nil {
		return fail(StageGenerate, err)
	}

	art, err := op.Status.Write(ctx, OutputPath(repo), []byte(content), op.Write)
	res.Output = art.Path
	res.Status = art.Status
	log.LogReadmeGeneration(ctx, repo.FullName, op.Readme.Template, art.Path, err == nil)
	if art.Path != "" {
		console.LogArtifact(ctx, log.ArtifactOperation{
			Path:       art.Path,
			Repo:       repo.FullName,
			Kind:       art.Kind,
			Status:     art.Status.String(),
			IsNew:      art.Status == status.StatusNew,
			IsModified: art.Status == status.StatusModified,
			IsFailed:   art.Status == status.StatusFailed,
			Bytes:      int(art.Size),
		})
	}
	if err != nil {
		return fail(StageWrite, err)
	}

	res.Stage = StageDone
	return res
}

// 🔍 analyze reuses cached metadata when the clone's HEAD has been seen before
func (op *BulkOperation) analyze(ctx context.Context, repo remote.RepositoryInfo, path string) (*analyzer.ProjectMetadata, bool, error) {
	logger := zerolog.Ctx(ctx)

	var key string
	if op.Cache != nil {
		head, err := analyzer.HeadCommit(ctx, op.Git, path)
		if err != nil || head == "" {
			logger.Debug().Err(err).Msg("no head commit, skipping cache")
		} else {
			key = cache.RemoteKey(repo.CloneURL, head)
			var meta analyzer.ProjectMetadata
			ok, err := op.Cache.Get(ctx, key, &meta)
			if err != nil {
				logger.Debug().Err(err).Str("key", key).Msg("reading analysis cache")
			}
			if ok {
				return &meta, true, nil
			}
		}
	}

	meta, err := op.Analyzer.Analyze(ctx, path, repo.Name, repo.URL)
	if err != nil {
		return nil, false, errors.Errorf("analyzing %s: %w", repo.FullName, err)
	}

	if key != "" {
		if err := op.Cache.Put(ctx, key, meta); err != nil {
			logger.Debug().Err(err).Str("key", key).Msg("writing analysis cache")
		}
	}
	return meta, false, nil
}

// 📁 OutputPath is where a repository's README goes, relative to the output directory
func OutputPath(repo remote.RepositoryInfo) string {
	name := repo.FullName
	if name == "" {
		name = repo.Name
	}

	parts := []string{}
	for _, p := range strings.Split(name, "/") {
		p = strings.TrimSpace(p)
		if p == "" || p == "." || p == ".." {
			continue
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		parts = append(parts, "unnamed")
	}
	return filepath.Join(append(parts, ReadmeName)...)
}
