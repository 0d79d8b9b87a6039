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

package profile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/remote"
	"github.com/walteh/reporeadme/pkg/status"
)

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Discover(ctx context.Context, progress remote.ProgressFunc) ([]remote.RepositoryInfo, error) {
	args := m.Called()
	repos, _ := args.Get(0).([]remote.RepositoryInfo)
	return repos, args.Error(1)
}

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) Account(ctx context.Context, username string) (remote.Account, error) {
	args := m.Called(username)
	return args.Get(0).(remote.Account), args.Error(1)
}

type fakeRenderer struct {
	html string
	err  error
}

func (f *fakeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func repoInfo(name, lang string, stars, forks, size int, updated string) remote.RepositoryInfo {
	return remote.RepositoryInfo{
		Name:      name,
		FullName:  "jane/" + name,
		URL:       "https://github.com/jane/" + name,
		CloneURL:  "https://github.com/jane/" + name + ".git",
		Language:  lang,
		Stars:     stars,
		Forks:     forks,
		SizeKB:    size,
		UpdatedAt: updated,
		Provider:  "github",
		Topics:    []string{},
	}
}

func sampleRepos() []remote.RepositoryInfo {
	web := repoInfo("portfolio-website", "JavaScript", 12, 3, 400, "2025-02-01T00:00:00Z")
	web.HasReadme = true
	web.Description = "My personal site"

	api := repoInfo("orders", "Go", 30, 5, 600, "2025-01-10T00:00:00Z")
	api.Description = "Order microservice"
	api.HasReadme = true

	lib := repoInfo("mathkit", "Python", 0, 0, 200, "2024-06-01T00:00:00Z")
	lib.Topics = []string{"library"}

	fork := repoInfo("linux", "C", 50, 2, 5000, "2023-01-01T00:00:00Z")
	fork.IsFork = true

	private := repoInfo("notes", "Unknown", 0, 0, 0, "2025-03-01T00:00:00Z")
	private.IsPrivate = true

	return []remote.RepositoryInfo{web, api, lib, fork, private}
}

func TestInferProjectType(t *testing.T) {
	tests := []struct {
		name   string
		repo   remote.RepositoryInfo
		expect string
	}{
		{"web_by_name", remote.RepositoryInfo{Name: "my-react-thing"}, "web-app"},
		{"backend_is_web_first", remote.RepositoryInfo{Name: "backend-core"}, "web-app"},
		{"mobile_by_topic", remote.RepositoryInfo{Name: "dots", Topics: []string{"Flutter"}}, "mobile-app"},
		{"cli_by_description", remote.RepositoryInfo{Name: "zz", Description: "A command runner"}, "cli-tool"},
		{"library_by_topic", remote.RepositoryInfo{Name: "zz", Topics: []string{"sdk"}}, "library"},
		{"api_by_name", remote.RepositoryInfo{Name: "payments-server"}, "api"},
		{"other", remote.RepositoryInfo{Name: "dotfiles"}, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, InferProjectType(tt.repo), "project type")
		})
	}
}

func TestBuild(t *testing.T) {
	source := new(MockSource)
	source.On("Discover").Return(sampleRepos(), nil)

	accounts := new(MockAccounts)
	accounts.On("Account", "jane").Return(remote.Account{
		Login:      "jane",
		Name:       "Jane Doe",
		Location:   "Berlin",
		ProfileURL: "https://github.com/jane",
	}, nil)

	var steps []int
	var messages []string
	builder := NewBuilder(DefaultBuilderConfig()).WithSources(source, accounts)

	p, err := builder.Build(testContext(), "jane", "", func(msg string, pct int) {
		steps = append(steps, pct)
		messages = append(messages, msg)
	})
	require.NoError(t, err, "build should not error")

	source.AssertExpectations(t)
	accounts.AssertExpectations(t)

	assert.Equal(t, "Jane Doe", p.Name, "account name")
	assert.Equal(t, "Berlin", p.Location, "account location")

	// the empty private repo falls below the size floor
	assert.Equal(t, 4, p.TotalRepositories, "repositories after size filter")
	assert.Equal(t, 4, p.PublicRepositories, "public repositories")
	assert.Equal(t, 1, p.ForkedRepositories, "forks")
	assert.Equal(t, 3, p.OriginalRepositories, "originals")
	assert.Equal(t, 92, p.TotalStarsReceived, "stars")
	assert.Equal(t, 10, p.TotalForksReceived, "forks received")
	assert.Equal(t, 2, p.RepositoriesWithReadme, "readme count")

	assert.Equal(t, []string{"C", "Go", "JavaScript", "Python"}, p.PrimaryLanguages, "languages by size")
	assert.InDelta(t, 80.645, p.LanguagesPercentage["C"], 0.01, "C share")

	assert.Equal(t, 1, p.ProjectTypes["web-app"], "web count")
	assert.Equal(t, 1, p.ProjectTypes["api"], "api count")
	assert.Equal(t, 1, p.ProjectTypes["library"], "library count")
	assert.True(t, p.HasWebProjects, "web flag")
	assert.True(t, p.HasAPIs, "api flag")
	assert.False(t, p.HasMobileProjects, "mobile flag")

	require.Len(t, p.FeaturedProjects, 2, "forks and unstarred repos are not featured")
	assert.Equal(t, "orders", p.FeaturedProjects[0].Name, "most starred first")
	assert.Equal(t, "linux", p.MostStarredRepos[0].Name, "most starred includes forks")
	assert.Equal(t, "portfolio-website", p.RecentActiveRepos[0].Name, "most recent first")
	assert.NotContains(t, p.ProjectCategories, "other", "fork is not categorized")
	assert.Len(t, p.ProjectCategories["library"], 1, "library category")

	// web ∩ {JavaScript, Python} = 2, + 2 for web projects
	assert.Equal(t, "Full-stack", p.DeveloperType, "developer type")
	assert.Equal(t, "Junior", p.ExperienceLevel, "experience level")
	assert.InDelta(t, 50.0, p.ConsistencyScore, 0.001, "consistency")
	assert.InDelta(t, 33.33+30+10, p.CollaborationScore, 0.01, "collaboration")

	assert.Equal(t, "Expert", p.SkillLevels["C"], "skill level")
	assert.Contains(t, p.Achievements, "Earned 92 stars across public projects", "achievements")

	require.NotEmpty(t, steps, "progress was reported")
	assert.Equal(t, 0, steps[0], "starts at 0")
	assert.Equal(t, 100, steps[len(steps)-1], "ends at 100")
	assert.Contains(t, messages, "Analyzing orders...", "per repository progress")
	for i := 1; i < len(steps); i++ {
		assert.GreaterOrEqual(t, steps[i], steps[i-1], "progress is monotonic")
	}
}

func TestBuildNoRepositories(t *testing.T) {
	source := new(MockSource)
	source.On("Discover").Return([]remote.RepositoryInfo{}, nil)
	accounts := new(MockAccounts)

	_, err := NewBuilder(DefaultBuilderConfig()).WithSources(source, accounts).Build(testContext(), "ghost", "", nil)
	require.ErrorIs(t, err, ErrNoRepositories, "empty discovery is an error")
	accounts.AssertNotCalled(t, "Account", mock.Anything)
}

func TestBuildAccountFailure(t *testing.T) {
	source := new(MockSource)
	source.On("Discover").Return(sampleRepos()[:1], nil)
	accounts := new(MockAccounts)
	accounts.On("Account", "jane").Return(remote.Account{}, errors.New("boom"))

	p, err := NewBuilder(DefaultBuilderConfig()).WithSources(source, accounts).Build(testContext(), "jane", "", nil)
	require.NoError(t, err, "account failures only warn")
	assert.Equal(t, "jane", p.DisplayName(), "falls back to username")
}

func TestClassifyDeveloper(t *testing.T) {
	tests := []struct {
		name       string
		languages  []string
		repos      int
		stars      int
		libraries  bool
		expectType string
		expectExp  string
	}{
		{"nothing", nil, 1, 0, false, "Generalist", "Entry-level"},
		{"systems", []string{"C", "Assembly"}, 10, 0, false, "Systems", "Junior"},
		{"tie_goes_to_earlier", []string{"Go"}, 20, 20, false, "Backend", "Mid-level"},
		{"library_bonus", []string{"Shell"}, 60, 500, true, "Library Developer", "Senior"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("x")
			p.TotalRepositories = tt.repos
			p.TotalStarsReceived = tt.stars
			p.HasLibraries = tt.libraries
			for _, l := range tt.languages {
				p.LanguagesUsed[l] = 1
			}
			classifyDeveloper(p)
			assert.Equal(t, tt.expectType, p.DeveloperType, "developer type")
			assert.Equal(t, tt.expectExp, p.ExperienceLevel, "experience level")
		})
	}
}

func sampleProfile(t *testing.T) *GitHubProfile {
	t.Helper()
	source := new(MockSource)
	source.On("Discover").Return(sampleRepos(), nil)
	accounts := new(MockAccounts)
	accounts.On("Account", "jane").Return(remote.Account{Name: "Jane <Doe>", Email: "jane@example.com"}, nil)

	p, err := NewBuilder(DefaultBuilderConfig()).WithSources(source, accounts).Build(testContext(), "jane", "", nil)
	require.NoError(t, err, "build should not error")
	return p
}

func TestExporter(t *testing.T) {
	p := sampleProfile(t)
	exp := NewExporter(p, &fakeRenderer{})
	exp.now = func() time.Time { return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC) }

	t.Run("json", func(t *testing.T) {
		data, err := exp.JSON()
		require.NoError(t, err, "json should not error")
		var back GitHubProfile
		require.NoError(t, json.Unmarshal(data, &back), "json should parse")
		assert.Equal(t, p.TotalStarsReceived, back.TotalStarsReceived, "stars survive")
	})

	t.Run("resume", func(t *testing.T) {
		r := exp.ResumeData()
		assert.Equal(t, "jane", r.PersonalInfo.Username, "username")
		assert.Len(t, r.Projects.MostStarred, 4, "at most five most starred")
		assert.Equal(t, p.InnovationScore, r.Achievements.InnovationScore, "scores copied")

		data, err := exp.ResumeJSON()
		require.NoError(t, err, "resume json should not error")
		assert.Contains(t, string(data), `"professional_summary"`, "snake case sections")
	})

	t.Run("html", func(t *testing.T) {
		html, err := exp.PortfolioHTML()
		require.NoError(t, err, "html should not error")
		assert.Contains(t, html, "Jane &lt;Doe&gt; - Developer Portfolio", "name is escaped")
		assert.Contains(t, html, "February 2025", "timeline dates")
		assert.Contains(t, html, "Order microservice", "project card")
		assert.Contains(t, html, "mailto:jane@example.com", "contact email")
		assert.Contains(t, html, "&copy; 2025", "footer year")
		assert.Contains(t, html, "Expert", "skill levels")
	})

	t.Run("pdf", func(t *testing.T) {
		renderer := &fakeRenderer{}
		data, err := NewExporter(p, renderer).PDF(testContext())
		require.NoError(t, err, "pdf should not error")
		assert.True(t, strings.HasPrefix(string(data), "%PDF"), "pdf bytes")
		assert.Contains(t, renderer.html, "<!DOCTYPE html>", "renderer got the portfolio")

		_, err = NewExporter(p, nil).PDF(testContext())
		require.ErrorIs(t, err, ErrNoRenderer, "pdf needs a renderer")
	})
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	p := sampleProfile(t)
	mgr := status.New(dir, nil)

	arts, err := NewExporter(p, &fakeRenderer{err: errors.New("no chrome")}).
		Export(testContext(), mgr, "out", Formats, status.WriteOptions{})
	require.Error(t, err, "pdf failure is reported")
	assert.Contains(t, err.Error(), "no chrome", "renderer error surfaces")
	require.Len(t, arts, 3, "other formats are still written")

	for _, name := range []string{"jane_profile.json", "jane_portfolio.html", "jane_resume_data.json"} {
		_, statErr := os.Stat(filepath.Join(dir, "out", name))
		assert.NoError(t, statErr, "%s written", name)
	}

	_, err = NewExporter(p, nil).Export(testContext(), mgr, "out", []string{"docx"}, status.WriteOptions{})
	require.ErrorIs(t, err, ErrUnknownFormat, "unknown formats error")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 3), "short strings are untouched")
	assert.Equal(t, "ab...", clip("abcd", 2), "long strings are cut and marked")
	assert.Equal(t, "Recent", timelineDate("yesterday"), "unparseable dates")
}
