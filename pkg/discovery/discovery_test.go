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

package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/walteh/reporeadme/pkg/remote"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) ListRepositories(ctx context.Context, opts remote.ListOptions, progress remote.ProgressFunc) ([]remote.RepositoryInfo, error) {
	args := m.Called(opts.MaxRepos)
	repos, _ := args.Get(0).([]remote.RepositoryInfo)
	for _, r := range repos {
		if progress != nil {
			progress("found " + r.FullName)
		}
	}
	return repos, args.Error(1)
}

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func info(provider, name string, mods ...func(*remote.RepositoryInfo)) remote.RepositoryInfo {
	r := remote.RepositoryInfo{
		Name:     name,
		FullName: "walteh/" + name,
		CloneURL: "https://" + provider + ".com/walteh/" + name + ".git",
		Language: "Go",
		Provider: provider,
	}
	for _, m := range mods {
		m(&r)
	}
	return r
}

func TestDiscover(t *testing.T) {
	ctx := testContext()

	gh := &MockProvider{name: "github"}
	gh.On("ListRepositories", 1000).Return([]remote.RepositoryInfo{
		info("github", "api", func(r *remote.RepositoryInfo) { r.Stars = 5 }),
		info("github", "secret", func(r *remote.RepositoryInfo) { r.IsPrivate = true }),
		info("github", "fork", func(r *remote.RepositoryInfo) { r.IsFork = true }),
		info("github", "old", func(r *remote.RepositoryInfo) { r.IsArchived = true }),
	}, nil)

	gl := &MockProvider{name: "gitlab"}
	gl.On("ListRepositories", 1000).Return([]remote.RepositoryInfo{
		info("gitlab", "tool", func(r *remote.RepositoryInfo) { r.Language = remote.UnknownLanguage }),
		// same clone url as the github repo
		info("github", "api", func(r *remote.RepositoryInfo) { r.Provider = "gitlab"; r.Stars = 99 }),
	}, nil)

	d := NewWithProviders(DefaultConfig(), gh, gl)

	var messages []string
	repos, err := d.Discover(ctx, func(msg string) { messages = append(messages, msg) })
	require.NoError(t, err, "discovery should not error")

	names := []string{}
	for _, r := range repos {
		names = append(names, r.Provider+":"+r.Name)
	}
	assert.Equal(t, []string{"github:api", "github:secret", "gitlab:tool"}, names, "forks and archived are filtered, duplicates dropped")
	assert.Equal(t, 5, repos[0].Stars, "first occurrence wins")
	assert.Len(t, messages, 6, "every provider reports progress")

	stats := d.Stats()
	assert.Equal(t, 3, stats.TotalDiscovered, "total")
	assert.Equal(t, 2, stats.GitHubRepos, "github count")
	assert.Equal(t, 1, stats.GitLabRepos, "gitlab count")
	assert.Equal(t, 1, stats.PrivateRepos, "private count")
	assert.Equal(t, 2, stats.PublicRepos, "public count")
	assert.Equal(t, map[string]int{"Go": 2, "Unknown": 1}, stats.Languages, "language counts")
	assert.Equal(t, map[string]int{"github": 2, "gitlab": 1}, stats.Providers, "provider counts")
}

func TestDiscoverProviderFailure(t *testing.T) {
	gh := &MockProvider{name: "github"}
	gh.On("ListRepositories", 1000).Return(nil, errors.New("boom"))

	gl := &MockProvider{name: "gitlab"}
	gl.On("ListRepositories", 1000).Return([]remote.RepositoryInfo{info("gitlab", "tool")}, nil)

	d := NewWithProviders(DefaultConfig(), gh, gl)
	repos, err := d.Discover(testContext(), nil)
	require.NoError(t, err, "a failing provider should not fail discovery")
	assert.Len(t, repos, 1, "repositories from healthy providers are kept")
}

func TestFilter(t *testing.T) {
	repos := []remote.RepositoryInfo{
		info("github", "web-app", func(r *remote.RepositoryInfo) { r.Stars = 10; r.Language = "TypeScript" }),
		info("github", "dotfiles", func(r *remote.RepositoryInfo) { r.Stars = 10 }),
		info("github", "Test-Harness", func(r *remote.RepositoryInfo) { r.Stars = 10 }),
		info("github", "low", func(r *remote.RepositoryInfo) { r.Stars = 1 }),
		info("github", "priv", func(r *remote.RepositoryInfo) { r.Stars = 10; r.IsPrivate = true }),
		info("github", "fork", func(r *remote.RepositoryInfo) { r.Stars = 10; r.IsFork = true }),
		info("github", "old", func(r *remote.RepositoryInfo) { r.Stars = 10; r.IsArchived = true }),
	}

	tests := []struct {
		name string
		cfg  func(*Config)
		want []string
	}{
		{
			name: "defaults",
			cfg:  func(c *Config) {},
			want: []string{"web-app", "dotfiles", "Test-Harness", "low", "priv"},
		},
		{
			name: "min_stars_and_no_private",
			cfg:  func(c *Config) { c.MinStars = 5; c.IncludePrivate = false },
			want: []string{"web-app", "dotfiles", "Test-Harness"},
		},
		{
			name: "languages_case_insensitive",
			cfg:  func(c *Config) { c.Languages = []string{"typescript"} },
			want: []string{"web-app"},
		},
		{
			name: "exclude_patterns",
			cfg:  func(c *Config) { c.ExcludePatterns = []string{"DOT", "test"} },
			want: []string{"web-app", "low", "priv"},
		},
		{
			name: "forks_and_archived",
			cfg:  func(c *Config) { c.IncludeForks = true; c.IncludeArchived = true },
			want: []string{"web-app", "dotfiles", "Test-Harness", "low", "priv", "fork", "old"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.cfg(&cfg)
			got := []string{}
			for _, r := range NewWithProviders(cfg).Filter(repos) {
				got = append(got, r.Name)
			}
			assert.Equal(t, tt.want, got, "filtered names")
		})
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := testContext()
	gh := &MockProvider{name: "github"}
	gh.On("ListRepositories", 1000).Return([]remote.RepositoryInfo{info("github", "api")}, nil)

	cfg := DefaultConfig()
	cfg.GitHubToken = "ghp_supersecret"
	cfg.GitLabToken = "glpat-supersecret"
	d := NewWithProviders(cfg, gh)
	_, err := d.Discover(ctx, nil)
	require.NoError(t, err, "discovery should not error")

	path := filepath.Join(t.TempDir(), "repos.json")
	require.NoError(t, d.Save(ctx, path), "save should not error")

	raw, err := os.ReadFile(path)
	require.NoError(t, err, "reading saved file should not error")
	assert.NotContains(t, string(raw), "supersecret", "tokens must not be written")
	assert.Contains(t, string(raw), `"discovery_date"`, "document has a date")

	doc, err := Load(ctx, path)
	require.NoError(t, err, "load should not error")
	require.Len(t, doc.Repositories, 1, "repositories round trip")
	assert.Equal(t, "walteh/api", doc.Repositories[0].FullName, "repository fields round trip")
	assert.Equal(t, 1, doc.Statistics.GitHubRepos, "statistics round trip")
	assert.Empty(t, doc.Config.GitHubToken, "loaded config has no token")

	_, err = Load(ctx, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err, "missing file should error")
}

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, env []string, args ...string) error {
	a := m.Called(env, strings.Join(args, " "))
	if a.Error(0) == nil {
		// behave like git and create the destination
		if err := os.MkdirAll(args[len(args)-1], 0o755); err != nil {
			return err
		}
	}
	return a.Error(0)
}

func TestCloner(t *testing.T) {
	ctx := testContext()
	root := t.TempDir()

	t.Run("https", func(t *testing.T) {
		runner := &MockRunner{}
		runner.On("Run", []string(nil), mock.MatchedBy(func(s string) bool {
			return strings.HasPrefix(s, "clone --depth 1 https://github.com/walteh/api.git ")
		})).Return(nil)

		c := NewCloner("").WithRunner(runner)
		c.TempRoot = root

		dest, err := c.Clone(ctx, info("github", "api"))
		require.NoError(t, err, "clone should not error")
		assert.Equal(t, "api", filepath.Base(dest), "clone lands in a directory named after the repo")
		assert.True(t, strings.HasPrefix(filepath.Base(filepath.Dir(dest)), "reporeadme_api_"), "temp dir prefix")
		assert.DirExists(t, dest, "clone destination exists")

		require.NoError(t, c.Cleanup(ctx), "cleanup should not error")
		assert.NoDirExists(t, filepath.Dir(dest), "cleanup removes temp dirs")
		runner.AssertExpectations(t)
	})

	t.Run("ssh", func(t *testing.T) {
		runner := &MockRunner{}
		runner.On("Run", []string{"GIT_SSH_COMMAND=ssh -i /keys/id -o IdentitiesOnly=yes"}, mock.MatchedBy(func(s string) bool {
			return strings.Contains(s, "git@github.com:walteh/api.git")
		})).Return(nil)

		c := NewCloner("/keys/id").WithRunner(runner)
		c.TempRoot = root

		repo := info("github", "api", func(r *remote.RepositoryInfo) { r.SSHURL = "git@github.com:walteh/api.git" })
		_, err := c.Clone(ctx, repo)
		require.NoError(t, err, "ssh clone should not error")
		require.NoError(t, c.Cleanup(ctx), "cleanup should not error")
		runner.AssertExpectations(t)
	})

	t.Run("failure_removes_dir", func(t *testing.T) {
		dir := t.TempDir()
		runner := &MockRunner{}
		runner.On("Run", mock.Anything, mock.Anything).Return(errors.New("auth failed"))

		c := NewCloner("").WithRunner(runner)
		c.TempRoot = dir

		_, err := c.Clone(ctx, info("github", "api"))
		require.Error(t, err, "failed clone should error")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err, "reading temp root should not error")
		assert.Empty(t, entries, "failed clone leaves nothing behind")
	})

	t.Run("adopt_leftovers", func(t *testing.T) {
		dir := t.TempDir()
		leftover := filepath.Join(dir, "reporeadme_api_123")
		require.NoError(t, os.MkdirAll(filepath.Join(leftover, "api"), 0o755), "creating leftover should not error")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "reporeadme_notes_1"), []byte("x"), 0o644), "writing file should not error")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "unrelated"), 0o755), "creating unrelated dir should not error")

		c := NewCloner("")
		c.TempRoot = dir

		n, err := c.AdoptLeftovers(ctx)
		require.NoError(t, err, "adopting should not error")
		assert.Equal(t, 1, n, "only clone directories are adopted")

		n, err = c.AdoptLeftovers(ctx)
		require.NoError(t, err, "adopting again should not error")
		assert.Zero(t, n, "directories are adopted once")

		require.NoError(t, c.Cleanup(ctx), "cleanup should not error")
		assert.NoDirExists(t, leftover, "leftover removed")
		assert.DirExists(t, filepath.Join(dir, "unrelated"), "unrelated dirs kept")
		assert.FileExists(t, filepath.Join(dir, "reporeadme_notes_1"), "files kept")
	})
}

func TestFindSSHKey(t *testing.T) {
	home := t.TempDir()
	assert.Empty(t, FindSSHKey(home), "no keys")

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".ssh"), 0o700), "creating .ssh should not error")
	require.NoError(t, os.WriteFile(filepath.Join(home, ".ssh", "id_rsa"), []byte("k"), 0o600), "writing key should not error")
	assert.Equal(t, filepath.Join(home, ".ssh", "id_rsa"), FindSSHKey(home), "rsa key found")

	require.NoError(t, os.WriteFile(filepath.Join(home, ".ssh", "reporeadme_github"), []byte("k"), 0o600), "writing key should not error")
	assert.Equal(t, filepath.Join(home, ".ssh", "reporeadme_github"), FindSSHKey(home), "dedicated key preferred")
}
