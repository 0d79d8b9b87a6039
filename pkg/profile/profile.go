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

// Package profile aggregates a user's repositories into a developer profile
// and exports it as JSON, resume data, an HTML portfolio or a PDF.
package profile

import (
	"cmp"
	"slices"
)

// 📦 Project is a repository as it appears in the portfolio lists
type Project struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name,omitempty"`
	Description string   `json:"description"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Language    string   `json:"language"`
	URL         string   `json:"url"`
	Topics      []string `json:"topics,omitempty"`
	SizeKB      int      `json:"size_kb,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
	ProjectType string   `json:"project_type,omitempty"`
	HasReadme   bool     `json:"has_readme,omitempty"`
}

// 👤 GitHubProfile is everything we learned about a developer
type GitHubProfile struct {
	// basic profile info
	Username   string `json:"username"`
	Name       string `json:"name"`
	Bio        string `json:"bio"`
	Location   string `json:"location"`
	Company    string `json:"company"`
	Website    string `json:"website"`
	Email      string `json:"email"`
	AvatarURL  string `json:"avatar_url"`
	ProfileURL string `json:"profile_url"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`

	// repository statistics
	TotalRepositories    int `json:"total_repositories"`
	PublicRepositories   int `json:"public_repositories"`
	PrivateRepositories  int `json:"private_repositories"`
	ForkedRepositories   int `json:"forked_repositories"`
	OriginalRepositories int `json:"original_repositories"`

	// code statistics
	TotalStarsReceived int `json:"total_stars_received"`
	TotalForksReceived int `json:"total_forks_received"`
	TotalCommits       int `json:"total_commits"`
	TotalLinesOfCode   int `json:"total_lines_of_code"`
	TotalFiles         int `json:"total_files"`

	// languages, weighted by repository size
	LanguagesUsed       map[string]int     `json:"languages_used"`
	LanguagesPercentage map[string]float64 `json:"languages_percentage"`
	PrimaryLanguages    []string           `json:"primary_languages"`

	// technology stack
	FrameworksUsed map[string]int `json:"frameworks_used"`
	DatabasesUsed  map[string]int `json:"databases_used"`
	ToolsUsed      map[string]int `json:"tools_used"`

	// project types
	ProjectTypes      map[string]int `json:"project_types"`
	HasWebProjects    bool           `json:"has_web_projects"`
	HasMobileProjects bool           `json:"has_mobile_projects"`
	HasCLITools       bool           `json:"has_cli_tools"`
	HasLibraries      bool           `json:"has_libraries"`
	HasAPIs           bool           `json:"has_apis"`

	// development practices
	RepositoriesWithTests  int     `json:"repositories_with_tests"`
	RepositoriesWithDocs   int     `json:"repositories_with_docs"`
	RepositoriesWithCI     int     `json:"repositories_with_ci"`
	RepositoriesWithDocker int     `json:"repositories_with_docker"`
	RepositoriesWithReadme int     `json:"repositories_with_readme"`
	TestCoveragePercentage float64 `json:"test_coverage_percentage"`

	// activity
	MostActiveMonths      []string       `json:"most_active_months"`
	CommitFrequency       map[string]int `json:"commit_frequency"`
	AverageCommitsPerRepo float64        `json:"average_commits_per_repo"`

	// notable repositories
	MostStarredRepos  []Project `json:"most_starred_repos"`
	MostForkedRepos   []Project `json:"most_forked_repos"`
	LargestRepos      []Project `json:"largest_repos"`
	RecentActiveRepos []Project `json:"recent_active_repos"`

	// skills
	SkillLevels     map[string]string `json:"skill_levels"`
	ExpertiseAreas  []string          `json:"expertise_areas"`
	Specializations []string          `json:"specializations"`

	// insights
	DeveloperType      string  `json:"developer_type"`
	ExperienceLevel    string  `json:"experience_level"`
	CollaborationScore float64 `json:"collaboration_score"`
	InnovationScore    float64 `json:"innovation_score"`
	ConsistencyScore   float64 `json:"consistency_score"`

	// portfolio
	FeaturedProjects  []Project            `json:"featured_projects"`
	ProjectCategories map[string][]Project `json:"project_categories"`
	Achievements      []string             `json:"achievements"`

	// metadata
	AnalysisDate       string  `json:"analysis_date"`
	TotalAnalyzedRepos int     `json:"total_analyzed_repos"`
	AnalysisDuration   float64 `json:"analysis_duration"`
}

// 🏭 New returns a profile with every collection initialized
func New(username string) *GitHubProfile {
	return &GitHubProfile{
		Username:            username,
		LanguagesUsed:       map[string]int{},
		LanguagesPercentage: map[string]float64{},
		PrimaryLanguages:    []string{},
		FrameworksUsed:      map[string]int{},
		DatabasesUsed:       map[string]int{},
		ToolsUsed:           map[string]int{},
		ProjectTypes:        map[string]int{},
		MostActiveMonths:    []string{},
		CommitFrequency:     map[string]int{},
		MostStarredRepos:    []Project{},
		MostForkedRepos:     []Project{},
		LargestRepos:        []Project{},
		RecentActiveRepos:   []Project{},
		SkillLevels:         map[string]string{},
		ExpertiseAreas:      []string{},
		Specializations:     []string{},
		FeaturedProjects:    []Project{},
		ProjectCategories:   map[string][]Project{},
		Achievements:        []string{},
	}
}

// DisplayName is the name when set, otherwise the username
func (p *GitHubProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Username
}

// ReadmeRatio is the share of repositories that have a README
func (p *GitHubProfile) ReadmeRatio() float64 {
	return float64(p.RepositoriesWithReadme) / float64(max(p.TotalRepositories, 1))
}

// LanguageShare is a language and its share of the profile
type LanguageShare struct {
	Language   string
	Percentage float64
}

// 📊 LanguagesByShare lists languages by percentage, largest first, ties by name
func (p *GitHubProfile) LanguagesByShare() []LanguageShare {
	out := make([]LanguageShare, 0, len(p.LanguagesPercentage))
	for lang, pct := range p.LanguagesPercentage {
		out = append(out, LanguageShare{Language: lang, Percentage: pct})
	}
	slices.SortFunc(out, func(a, b LanguageShare) int {
		if c := cmp.Compare(b.Percentage, a.Percentage); c != 0 {
			return c
		}
		return cmp.Compare(a.Language, b.Language)
	})
	return out
}

// SortedKeys returns the keys of a counter, most frequent first, ties by name
func SortedKeys(counter map[string]int) []string {
	keys := make([]string, 0, len(counter))
	for k := range counter {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(counter[b], counter[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return keys
}
