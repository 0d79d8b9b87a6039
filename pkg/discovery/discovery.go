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

// Package discovery lists a user's repositories across hosting providers,
// filters them and clones them for analysis.
package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/reporeadme/pkg/log"
	"github.com/walteh/reporeadme/pkg/remote"
	_ "github.com/walteh/reporeadme/pkg/remote/github"
	_ "github.com/walteh/reporeadme/pkg/remote/gitlab"
)

// ⚙️ Config selects providers and filters repositories
type Config struct {
	IncludeGitHub bool `json:"include_github"`
	IncludeGitLab bool `json:"include_gitlab"`

	GitHubToken    string `json:"-"`
	GitLabToken    string `json:"-"`
	GitHubUsername string `json:"github_username,omitempty"`
	GitLabURL      string `json:"gitlab_url,omitempty"`
	SSHKeyPath     string `json:"ssh_key_path,omitempty"`

	IncludePrivate  bool     `json:"include_private"`
	IncludeForks    bool     `json:"include_forks"`
	IncludeArchived bool     `json:"include_archived"`
	MinStars        int      `json:"min_stars"`
	Languages       []string `json:"languages"`
	ExcludePatterns []string `json:"exclude_patterns"`

	MaxReposPerProvider int `json:"max_repos_per_provider"`
	ConcurrentRequests  int `json:"concurrent_requests"`
}

// 🏭 DefaultConfig returns the discovery defaults
func DefaultConfig() Config {
	return Config{
		IncludeGitHub:       true,
		IncludeGitLab:       true,
		IncludePrivate:      true,
		Languages:           []string{},
		ExcludePatterns:     []string{},
		MaxReposPerProvider: 1000,
		ConcurrentRequests:  10,
	}
}

// 📊 Stats summarizes a discovery run
type Stats struct {
	TotalDiscovered int            `json:"total_discovered"`
	GitHubRepos     int            `json:"github_repos"`
	GitLabRepos     int            `json:"gitlab_repos"`
	PrivateRepos    int            `json:"private_repos"`
	PublicRepos     int            `json:"public_repos"`
	Forks           int            `json:"forks"`
	Languages       map[string]int `json:"languages"`
	Providers       map[string]int `json:"providers"`
}

// 🔭 Discovery queries providers and keeps the filtered result
type Discovery struct {
	cfg       Config
	providers []remote.Provider

	mu    sync.Mutex
	repos []remote.RepositoryInfo
	stats Stats
}

// 🏭 New builds the providers enabled in cfg. Providers that cannot be used
// with the given credentials are skipped with a warning.
func New(ctx context.Context, cfg Config) *Discovery {
	logger := zerolog.Ctx(ctx)

	var providers []remote.Provider
	add := func(name string, creds remote.Credentials) {
		p, err := remote.NewProvider(name, creds)
		if err != nil {
			logger.Warn().Err(err).Str("provider", name).Msg("skipping provider")
			return
		}
		providers = append(providers, p)
	}

	if cfg.IncludeGitHub {
		add("github", remote.Credentials{Token: cfg.GitHubToken, Username: cfg.GitHubUsername})
	}
	if cfg.IncludeGitLab {
		add("gitlab", remote.Credentials{Token: cfg.GitLabToken, BaseURL: cfg.GitLabURL})
	}

	return NewWithProviders(cfg, providers...)
}

// 🏭 NewWithProviders uses the given providers as-is
func NewWithProviders(cfg Config, providers ...remote.Provider) *Discovery {
	if cfg.ConcurrentRequests < 1 {
		cfg.ConcurrentRequests = 1
	}
	return &Discovery{cfg: cfg, providers: providers, stats: newStats()}
}

func newStats() Stats {
	return Stats{Languages: map[string]int{}, Providers: map[string]int{}}
}

// Config returns the configuration used by this discovery
func (d *Discovery) Config() Config {
	return d.cfg
}

// 🚀 Discover lists repositories from every provider concurrently, then
// deduplicates and filters them. A failing provider is logged and skipped.
func (d *Discovery) Discover(ctx context.Context, progress remote.ProgressFunc) ([]remote.RepositoryInfo, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	var progressMu sync.Mutex
	safeProgress := func(msg string) {
		if progress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		progress(msg)
	}

	results := make([][]remote.RepositoryInfo, len(d.providers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.ConcurrentRequests)
	for i, p := range d.providers {
		g.Go(func() error {
			repos, err := p.ListRepositories(gctx, remote.ListOptions{MaxRepos: d.cfg.MaxReposPerProvider}, safeProgress)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error().Err(err).Str("provider", p.Name()).Msg("repository discovery failed")
				return nil
			}
			results[i] = repos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []remote.RepositoryInfo
	for _, r := range results {
		all = append(all, r...)
	}

	repos := d.Filter(all)
	stats := ComputeStats(repos)

	d.mu.Lock()
	d.repos = repos
	d.stats = stats
	d.mu.Unlock()

	log.LogPerformance(ctx, "discovery", time.Since(start), map[string]any{
		"providers": len(d.providers),
		"found":     len(all),
		"kept":      len(repos),
	})
	logger.Info().Str("category", log.CategoryDiscovery).Int("total", len(repos)).Msg("discovery complete")

	return repos, nil
}

// 🔍 Filter removes duplicate clone urls, keeping the first, then applies the configured filters
func (d *Discovery) Filter(repos []remote.RepositoryInfo) []remote.RepositoryInfo {
	seen := map[string]bool{}
	out := []remote.RepositoryInfo{}

	for _, r := range repos {
		if seen[r.CloneURL] {
			continue
		}
		seen[r.CloneURL] = true

		if d.keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (d *Discovery) keep(r remote.RepositoryInfo) bool {
	if !d.cfg.IncludePrivate && r.IsPrivate {
		return false
	}
	if !d.cfg.IncludeForks && r.IsFork {
		return false
	}
	if !d.cfg.IncludeArchived && r.IsArchived {
		return false
	}
	if r.Stars < d.cfg.MinStars {
		return false
	}
	if len(d.cfg.Languages) > 0 && !containsFold(d.cfg.Languages, r.Language) {
		return false
	}
	name := strings.ToLower(r.Name)
	for _, pattern := range d.cfg.ExcludePatterns {
		if pattern != "" && strings.Contains(name, strings.ToLower(pattern)) {
			return false
		}
	}
	return true
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// 📊 ComputeStats counts repositories per provider, visibility and language
func ComputeStats(repos []remote.RepositoryInfo) Stats {
	s := newStats()
	s.TotalDiscovered = len(repos)
	for _, r := range repos {
		if r.IsPrivate {
			s.PrivateRepos++
		} else {
			s.PublicRepos++
		}
		if r.IsFork {
			s.Forks++
		}

		s.Providers[r.Provider]++
		switch r.Provider {
		case "github":
			s.GitHubRepos++
		case "gitlab":
			s.GitLabRepos++
		}

		lang := r.Language
		if lang == "" {
			lang = remote.UnknownLanguage
		}
		s.Languages[lang]++
	}
	return s
}

// Repositories returns the result of the last Discover call
func (d *Discovery) Repositories() []remote.RepositoryInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]remote.RepositoryInfo(nil), d.repos...)
}

// Stats returns the statistics of the last Discover call
func (d *Discovery) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}
