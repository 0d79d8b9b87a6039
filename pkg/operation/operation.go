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
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/analyzer"
	"github.com/walteh/reporeadme/pkg/readme"
	"github.com/walteh/reporeadme/pkg/remote"
	"github.com/walteh/reporeadme/pkg/status"
)

// 🎯 Operation is a unit of work the runner can execute
type Operation interface {
	Execute(ctx context.Context) error
}

// 📥 Cloner checks a repository out locally
type Cloner interface {
	Clone(ctx context.Context, repo remote.RepositoryInfo) (string, error)
	Cleanup(ctx context.Context) error
}

// 🔍 Analyzer extracts metadata from a checkout
type Analyzer interface {
	Analyze(ctx context.Context, root, name, url string) (*analyzer.ProjectMetadata, error)
}

// 🗄️ AnalysisCache stores metadata between runs
type AnalysisCache interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Put(ctx context.Context, key string, v any) error
	Cleanup(ctx context.Context) (int, error)
}

// 🔧 Options contains everything an operation needs
type Options struct {
	Repositories []remote.RepositoryInfo
	Include      []string // doublestar patterns matched against full_name, empty means all
	Concurrency  int      // repositories processed at once, 1 or less is sequential

	Cloner   Cloner
	Analyzer Analyzer
	Cache    AnalysisCache // optional
	Git      analyzer.GitRunner
	Status   *status.Manager

	Readme readme.Config
	Write  status.WriteOptions
}

// Stage names where a repository can fail
const (
	StageFilter   = "filter"
	StageClone    = "clone"
	StageAnalyze  = "analyze"
	StageGenerate = "generate"
	StageWrite    = "write"
	StageDone     = "done"
)

// 📄 Result is the outcome for one repository
type Result struct {
	Repository remote.RepositoryInfo `json:"repository"`
	Stage      string                `json:"stage"`
	Output     string                `json:"output,omitempty"`
	Status     status.ArtifactStatus `json:"status"`
	Language   string                `json:"primary_language,omitempty"`
	Type       string                `json:"project_type,omitempty"`
	Quality    float64               `json:"quality_score"`
	Cached     bool                  `json:"cached"`
	Duration   time.Duration         `json:"duration"`
	Err        error                 `json:"-"`
}

// Failed reports whether the repository did not reach the end of the pipeline
func (r Result) Failed() bool {
	return r.Err != nil
}

// 🏗️ BaseOperation holds the options shared by every operation
type BaseOperation struct {
	Options
	RunID string
}

// 🏭 NewBaseOperation assigns a run id to the options
func NewBaseOperation(opts Options) BaseOperation {
	return BaseOperation{Options: opts, RunID: uuid.NewString()}
}

func (op BaseOperation) validate() error {
	if op.Cloner == nil {
		return errors.New("cloner is required")
	}
	if op.Analyzer == nil {
		return errors.New("analyzer is required")
	}
	if op.Status == nil {
		return errors.New("status manager is required")
	}
	for _, pattern := range op.Include {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid include pattern %q", pattern)
		}
	}
	return nil
}

// 🔎 Selected returns the repositories matching the include patterns
func Selected(repos []remote.RepositoryInfo, include []string) []remote.RepositoryInfo {
	if len(include) == 0 {
		return repos
	}
	out := make([]remote.RepositoryInfo, 0, len(repos))
	for _, r := range repos {
		for _, pattern := range include {
			if ok, _ := doublestar.Match(pattern, r.FullName); ok {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func logger(ctx context.Context, runID string) zerolog.Logger {
	return zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
}
