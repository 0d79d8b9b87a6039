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

package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/analyzer"
	"github.com/walteh/reporeadme/pkg/cache"
	"github.com/walteh/reporeadme/pkg/log"
	"github.com/walteh/reporeadme/pkg/profile"
)

// newAnalyzer builds an analyzer from the exclude and hidden file settings
func newAnalyzer(o *opts.RootOpts) *analyzer.Analyzer {
	return analyzer.New(analyzer.Options{
		ExcludePatterns: o.Settings.ExcludePatterns,
		IncludeHidden:   o.Settings.IncludeHiddenFiles,
	})
}

// analyzePath analyzes a local repository, going through the cache when enabled
func analyzePath(ctx context.Context, o *opts.RootOpts, path string, refresh bool) (*analyzer.ProjectMetadata, bool, error) {
	logger := zerolog.Ctx(ctx)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false, errors.Errorf("resolving path: %w", err)
	}
	name := filepath.Base(abs)
	start := time.Now()

	c := o.OpenCache(ctx)
	var key string
	if c != nil {
		key, err = cache.AnalysisKey(ctx, analyzer.ExecGit{}, abs)
		if err != nil {
			logger.Debug().Err(err).Msg("no cache key")
			key = ""
		}
	}

	if key != "" && !refresh {
		var meta analyzer.ProjectMetadata
		ok, err := c.Get(ctx, key, &meta)
		if err != nil {
			logger.Debug().Err(err).Msg("reading analysis cache")
		}
		if ok {
			log.LogRepositoryAnalysis(ctx, name, "full", "cached", key)
			return &meta, true, nil
		}
	}

	meta, err := newAnalyzer(o).Analyze(ctx, abs, name, "")
	if err != nil {
		log.LogRepositoryAnalysis(ctx, name, "full", "failed", err.Error())
		return nil, false, err
	}
	log.LogRepositoryAnalysis(ctx, name, "full", "completed", meta.ProjectType)
	log.LogPerformance(ctx, "analyze", time.Since(start), map[string]any{"files": meta.TotalFiles})

	if key != "" {
		if err := c.Put(ctx, key, meta); err != nil {
			logger.Warn().Err(err).Msg("writing analysis cache")
		}
	}
	return meta, false, nil
}

// loadProfile reads a saved profile, a cached one, or builds it from GitHub
func loadProfile(ctx context.Context, o *opts.RootOpts, username, path string, refresh bool) (*profile.GitHubProfile, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Errorf("reading profile: %w", err)
		}
		p := profile.New("")
		if err := json.Unmarshal(data, p); err != nil {
			return nil, errors.Errorf("decoding profile %s: %w", path, err)
		}
		return p, nil
	}

	if username == "" {
		username = o.Settings.GitHubUsername
	}
	if username == "" {
		return nil, errors.New("a username or --profile is required")
	}

	c := o.OpenCache(ctx)
	if c != nil && !refresh {
		p := profile.New(username)
		if ok, err := c.Get(ctx, cache.ProfileKey(username), p); err == nil && ok {
			o.UserLogger.LogStep("Using cached profile for " + username)
			return p, nil
		}
	}

	builder := profile.NewBuilder(profile.DefaultBuilderConfig())
	p, err := builder.Build(ctx, username, o.Settings.GitHubToken, func(msg string, pct int) {
		o.UserLogger.LogProgress(msg, pct)
	})
	if err != nil {
		return nil, errors.Errorf("building profile for %s: %w", username, err)
	}

	if c != nil {
		if err := c.Put(ctx, cache.ProfileKey(username), p); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("caching profile")
		}
	}
	return p, nil
}

// readBio takes the bio from the flag or from a file
func readBio(bio, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Errorf("reading bio file: %w", err)
		}
		bio = string(data)
	}
	bio = strings.TrimSpace(bio)
	if bio == "" {
		return "", errors.New("a bio is required, pass --bio or --bio-file")
	}
	return bio, nil
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
