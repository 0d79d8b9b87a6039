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
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/analyzer"
	"github.com/walteh/reporeadme/pkg/discovery"
	"github.com/walteh/reporeadme/pkg/log"
	"github.com/walteh/reporeadme/pkg/remote"
	"github.com/walteh/reporeadme/pkg/remote/github"
)

var ErrNoRepositories = errors.New("no repositories found")

// BuilderConfig tunes which repositories count and how the portfolio is assembled
type BuilderConfig struct {
	IncludeForks    bool `json:"include_forks"`
	IncludeArchived bool `json:"include_archived"`
	MinRepoSizeKB   int  `json:"min_repo_size_kb"`
	MaxRepos        int  `json:"max_repos"` // 0 is unlimited

	MaxFeatured         int  `json:"max_featured"`
	MinStarsForFeatured int  `json:"min_stars_for_featured"`
	PrioritizeRecent    bool `json:"prioritize_recent"`

	MinCommitsForSkill   int `json:"min_commits_for_skill"`
	MinLinesForExpertise int `json:"min_lines_for_expertise"`

	GeneratePortfolioHTML bool `json:"generate_portfolio_html"`
	GenerateResumeData    bool `json:"generate_resume_data"`
	ExportRawData         bool `json:"export_raw_data"`
}

func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		MinRepoSizeKB:         1,
		MaxFeatured:           6,
		MinStarsForFeatured:   1,
		PrioritizeRecent:      true,
		MinCommitsForSkill:    10,
		MinLinesForExpertise:  1000,
		GeneratePortfolioHTML: true,
		GenerateResumeData:    true,
		ExportRawData:         true,
	}
}

// ProgressFunc receives a message and a completion percentage in [0, 100]
type ProgressFunc func(message string, percent int)

// RepositorySource lists the repositories a profile is built from
type RepositorySource interface {
	Discover(ctx context.Context, progress remote.ProgressFunc) ([]remote.RepositoryInfo, error)
}

// 🏗️ Builder turns a user's repositories into a GitHubProfile
type Builder struct {
	cfg      BuilderConfig
	repos    RepositorySource
	accounts remote.AccountProvider
	now      func() time.Time
}

func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{cfg: cfg, now: time.Now}
}

// WithSources overrides the GitHub discovery and account lookup
func (b *Builder) WithSources(repos RepositorySource, accounts remote.AccountProvider) *Builder {
	b.repos = repos
	b.accounts = accounts
	return b
}

func (b *Builder) sources(ctx context.Context, username, token string) (RepositorySource, remote.AccountProvider) {
	repos, accounts := b.repos, b.accounts

	if repos == nil {
		maxRepos := b.cfg.MaxRepos
		if maxRepos <= 0 {
			maxRepos = 1000
		}
		cfg := discovery.DefaultConfig()
		cfg.IncludeGitLab = false
		cfg.GitHubToken = token
		cfg.GitHubUsername = username
		cfg.IncludePrivate = true
		cfg.IncludeForks = b.cfg.IncludeForks
		cfg.IncludeArchived = b.cfg.IncludeArchived
		cfg.MaxReposPerProvider = maxRepos
		repos = discovery.New(ctx, cfg)
	}

	if accounts == nil {
		accounts = github.NewProvider(remote.Credentials{Token: token, Username: username})
	}

	return repos, accounts
}

type analyzedRepo struct {
	info remote.RepositoryInfo
	meta *analyzer.ProjectMetadata
}

// Build discovers, analyzes and scores every repository owned by username
func (b *Builder) Build(ctx context.Context, username, token string, progress ProgressFunc) (*GitHubProfile, error) {
	logger := zerolog.Ctx(ctx)
	start := b.now()

	report := func(msg string, pct int) {
		if progress != nil {
			progress(msg, pct)
		}
	}

	profile := New(username)
	profile.AnalysisDate = start.Format(time.RFC3339)

	repoSource, accounts := b.sources(ctx, username, token)

	report("Discovering repositories...", 0)
	repos, err := b.discover(ctx, repoSource, profile)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, errors.Errorf("%w for user: %s", ErrNoRepositories, username)
	}

	report("Fetching profile information...", 10)
	b.fetchAccount(ctx, accounts, profile)

	report("Analyzing repositories...", 20)
	analyzed := make([]analyzedRepo, 0, len(repos))
	for i, repo := range repos {
		report(fmt.Sprintf("Analyzing %s...", repo.Name), 20+int(float64(i)/float64(len(repos))*60))
		analyzed = append(analyzed, analyzedRepo{info: repo, meta: metadataFromRepo(repo)})
	}
	profile.TotalAnalyzedRepos = len(analyzed)

	report("Generating insights...", 80)
	generateInsights(profile, analyzed)

	report("Building portfolio data...", 90)
	b.buildPortfolio(profile, analyzed)

	calculateScores(profile)
	classifyDeveloper(profile)
	assessSkills(profile)

	duration := b.now().Sub(start)
	profile.AnalysisDuration = duration.Seconds()

	report("Profile building completed!", 100)

	log.LogPerformance(ctx, "profile_build", duration, map[string]any{
		"username":     username,
		"repositories": len(analyzed),
	})
	logger.Info().Str("username", username).Int("repositories", len(analyzed)).Msg("profile built")

	return profile, nil
}

func (b *Builder) discover(ctx context.Context, source RepositorySource, profile *GitHubProfile) ([]remote.RepositoryInfo, error) {
	repos, err := source.Discover(ctx, func(message string) {
		zerolog.Ctx(ctx).Debug().Msg(message)
	})
	if err != nil {
		return nil, errors.Errorf("discovering repositories: %w", err)
	}

	if b.cfg.MinRepoSizeKB > 0 {
		repos = slices.DeleteFunc(repos, func(r remote.RepositoryInfo) bool {
			return r.SizeKB < b.cfg.MinRepoSizeKB
		})
	}

	profile.TotalRepositories = len(repos)
	for _, r := range repos {
		if r.IsPrivate {
			profile.PrivateRepositories++
		} else {
			profile.PublicRepositories++
		}
		if r.IsFork {
			profile.ForkedRepositories++
		} else {
			profile.OriginalRepositories++
		}
	}

	return repos, nil
}

func (b *Builder) fetchAccount(ctx context.Context, accounts remote.AccountProvider, profile *GitHubProfile) {
	acct, err := accounts.Account(ctx, profile.Username)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("username", profile.Username).Msg("failed to fetch user profile")
		return
	}

	profile.Name = acct.Name
	profile.Bio = acct.Bio
	profile.Location = acct.Location
	profile.Company = acct.Company
	profile.Website = acct.Website
	profile.Email = acct.Email
	profile.AvatarURL = acct.AvatarURL
	profile.ProfileURL = acct.ProfileURL
	profile.CreatedAt = acct.CreatedAt
	profile.UpdatedAt = acct.UpdatedAt
}

func metadataFromRepo(repo remote.RepositoryInfo) *analyzer.ProjectMetadata {
	meta := analyzer.NewProjectMetadata(repo.Name)
	meta.Description = repo.Description
	meta.RepositoryURL = repo.URL
	meta.PrimaryLanguage = repo.Language
	if repo.Language != remote.UnknownLanguage && repo.Language != "" {
		meta.Languages = map[string]float64{repo.Language: 100}
	}
	meta.CreatedDate = repo.CreatedAt
	meta.LastUpdated = repo.UpdatedAt
	meta.License = repo.License
	meta.ProjectType = InferProjectType(repo)
	return meta
}

var (
	webIndicators     = []string{"website", "web", "app", "frontend", "backend", "fullstack", "react", "vue", "angular"}
	mobileIndicators  = []string{"mobile", "android", "ios", "flutter", "react-native", "swift", "kotlin"}
	cliIndicators     = []string{"cli", "command", "tool", "utility", "script"}
	libraryIndicators = []string{"library", "lib", "package", "sdk", "framework"}
	apiIndicators     = []string{"api", "server", "backend", "microservice", "service"}
)

// 🔍 InferProjectType guesses a project type from the repository name, description and topics
func InferProjectType(repo remote.RepositoryInfo) string {
	name := strings.ToLower(repo.Name)
	desc := strings.ToLower(repo.Description)
	topics := make([]string, 0, len(repo.Topics))
	for _, t := range repo.Topics {
		topics = append(topics, strings.ToLower(t))
	}

	inText := func(indicators []string) bool {
		for _, ind := range indicators {
			if strings.Contains(name, ind) || strings.Contains(desc, ind) {
				return true
			}
		}
		return false
	}
	inTopics := func(indicators []string) bool {
		for _, ind := range indicators {
			if slices.Contains(topics, ind) {
				return true
			}
		}
		return false
	}

	switch {
	case inText(webIndicators):
		return "web-app"
	case inText(mobileIndicators) || inTopics(mobileIndicators):
		return "mobile-app"
	case inText(cliIndicators):
		return "cli-tool"
	case inText(libraryIndicators) || inTopics(libraryIndicators):
		return "library"
	case inText(apiIndicators):
		return "api"
	default:
		return "other"
	}
}

func generateInsights(profile *GitHubProfile, analyzed []analyzedRepo) {
	for _, a := range analyzed {
		profile.TotalStarsReceived += a.info.Stars
		profile.TotalForksReceived += a.info.Forks

		if lang := a.meta.PrimaryLanguage; lang != "" && lang != remote.UnknownLanguage {
			profile.LanguagesUsed[lang] += a.info.SizeKB
		}
		if a.meta.ProjectType != "" {
			profile.ProjectTypes[a.meta.ProjectType]++
		}
		if a.info.HasReadme {
			profile.RepositoriesWithReadme++
		}
	}

	total := 0
	for _, size := range profile.LanguagesUsed {
		total += size
	}
	total = max(total, 1)
	for lang, size := range profile.LanguagesUsed {
		profile.LanguagesPercentage[lang] = float64(size) / float64(total) * 100
	}

	for _, share := range profile.LanguagesByShare() {
		if len(profile.PrimaryLanguages) == 5 {
			break
		}
		profile.PrimaryLanguages = append(profile.PrimaryLanguages, share.Language)
	}

	profile.HasWebProjects = profile.ProjectTypes["web-app"] > 0
	profile.HasMobileProjects = profile.ProjectTypes["mobile-app"] > 0
	profile.HasCLITools = profile.ProjectTypes["cli-tool"] > 0
	profile.HasLibraries = profile.ProjectTypes["library"] > 0
	profile.HasAPIs = profile.ProjectTypes["api"] > 0
}

func toProject(a analyzedRepo) Project {
	return Project{
		Name:        a.info.Name,
		FullName:    a.info.FullName,
		Description: a.info.Description,
		Stars:       a.info.Stars,
		Forks:       a.info.Forks,
		Language:    a.info.Language,
		URL:         a.info.URL,
		Topics:      a.info.Topics,
		SizeKB:      a.info.SizeKB,
		UpdatedAt:   a.info.UpdatedAt,
		ProjectType: a.meta.ProjectType,
		HasReadme:   a.info.HasReadme,
	}
}

func topBy(analyzed []analyzedRepo, n int, key func(remote.RepositoryInfo) int) []Project {
	sorted := slices.Clone(analyzed)
	slices.SortStableFunc(sorted, func(a, b analyzedRepo) int {
		return cmp.Compare(key(b.info), key(a.info))
	})
	out := []Project{}
	for _, a := range sorted[:min(n, len(sorted))] {
		out = append(out, toProject(a))
	}
	return out
}

func (b *Builder) buildPortfolio(profile *GitHubProfile, analyzed []analyzedRepo) {
	profile.MostStarredRepos = topBy(analyzed, 10, func(r remote.RepositoryInfo) int { return r.Stars })
	profile.MostForkedRepos = topBy(analyzed, 10, func(r remote.RepositoryInfo) int { return r.Forks })
	profile.LargestRepos = topBy(analyzed, 10, func(r remote.RepositoryInfo) int { return r.SizeKB })

	recent := slices.Clone(analyzed)
	slices.SortStableFunc(recent, func(a, b analyzedRepo) int {
		return cmp.Compare(b.info.UpdatedAt, a.info.UpdatedAt)
	})
	for _, a := range recent[:min(10, len(recent))] {
		profile.RecentActiveRepos = append(profile.RecentActiveRepos, toProject(a))
	}

	candidates := []analyzedRepo{}
	for _, a := range analyzed {
		if a.info.Stars >= b.cfg.MinStarsForFeatured && !a.info.IsFork {
			candidates = append(candidates, a)
		}
	}
	slices.SortStableFunc(candidates, func(x, y analyzedRepo) int {
		if c := cmp.Compare(y.info.Stars, x.info.Stars); c != 0 {
			return c
		}
		return cmp.Compare(y.info.UpdatedAt, x.info.UpdatedAt)
	})
	for _, a := range candidates[:min(b.cfg.MaxFeatured, len(candidates))] {
		p := toProject(a)
		if p.Description == "" {
			p.Description = a.meta.Description
		}
		profile.FeaturedProjects = append(profile.FeaturedProjects, p)
	}

	for _, a := range analyzed {
		if a.info.IsFork {
			continue
		}
		category := cmp.Or(a.meta.ProjectType, "other")
		profile.ProjectCategories[category] = append(profile.ProjectCategories[category], toProject(a))
	}
}

func calculateScores(profile *GitHubProfile) {
	profile.ConsistencyScore = 50
	if profile.TotalRepositories == 0 {
		return
	}

	total := float64(profile.TotalRepositories)
	original := float64(max(profile.OriginalRepositories, 1))

	forkRatio := float64(profile.TotalForksReceived) / original
	profile.CollaborationScore = min(forkRatio*10, 50) +
		float64(profile.PublicRepositories)/total*30 +
		float64(profile.RepositoriesWithReadme)/total*20

	starsPerRepo := float64(profile.TotalStarsReceived) / original
	profile.InnovationScore = min(starsPerRepo*5, 40) +
		min(float64(len(profile.LanguagesUsed))*5, 30) +
		float64(profile.OriginalRepositories)/total*30
}

var (
	webLanguages      = []string{"JavaScript", "TypeScript", "HTML", "CSS", "PHP", "Ruby", "Python"}
	mobileLanguages   = []string{"Swift", "Kotlin", "Dart", "Objective-C", "Java"}
	backendLanguages  = []string{"Python", "Java", "Go", "Rust", "C++", "C#", "Ruby", "PHP", "Scala"}
	frontendLanguages = []string{"JavaScript", "TypeScript", "HTML", "CSS"}
	systemsLanguages  = []string{"C", "C++", "Rust", "Go", "Assembly"}
)

func overlap(used map[string]int, set []string) int {
	n := 0
	for _, lang := range set {
		if _, ok := used[lang]; ok {
			n++
		}
	}
	return n
}

func bonus(cond bool, n int) int {
	if cond {
		return n
	}
	return 0
}

type typeScore struct {
	name  string
	score int
}

// 🧑‍💻 classifyDeveloper picks the highest scoring developer type, earlier entries win ties
func classifyDeveloper(profile *GitHubProfile) {
	used := profile.LanguagesUsed
	_, hasShell := used["Shell"]
	_, hasDockerfile := used["Dockerfile"]
	_, hasPython := used["Python"]
	_, hasR := used["R"]

	scores := []typeScore{
		{"Full-stack", overlap(used, webLanguages) + bonus(profile.HasWebProjects, 2)},
		{"Frontend", overlap(used, frontendLanguages) + bonus(profile.HasWebProjects, 2)},
		{"Backend", overlap(used, backendLanguages) + bonus(profile.HasAPIs, 2)},
		{"Mobile", overlap(used, mobileLanguages) + bonus(profile.HasMobileProjects, 3)},
		{"DevOps", bonus(hasShell || hasDockerfile, 1)},
		{"Data Science", bonus(hasPython || hasR, 2)},
		{"Systems", overlap(used, systemsLanguages)},
	}
	if profile.HasLibraries {
		scores = append(scores, typeScore{"Library Developer", 2})
	}
	if profile.HasCLITools {
		scores = append(scores, typeScore{"Tool Developer", 2})
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.score > best.score {
			best = s
		}
	}
	profile.DeveloperType = best.name
	if best.score == 0 {
		profile.DeveloperType = "Generalist"
	}

	profile.ExperienceLevel = experienceLevel(profile)
}

func experienceLevel(profile *GitHubProfile) string {
	indicators := []int{}

	switch {
	case profile.TotalRepositories >= 50:
		indicators = append(indicators, 3)
	case profile.TotalRepositories >= 20:
		indicators = append(indicators, 2)
	case profile.TotalRepositories >= 10:
		indicators = append(indicators, 1)
	}

	switch {
	case profile.TotalStarsReceived >= 100:
		indicators = append(indicators, 2)
	case profile.TotalStarsReceived >= 20:
		indicators = append(indicators, 1)
	}

	switch langs := len(profile.LanguagesUsed); {
	case langs >= 5:
		indicators = append(indicators, 2)
	case langs >= 3:
		indicators = append(indicators, 1)
	}

	avg := 0.0
	if len(indicators) > 0 {
		sum := 0
		for _, v := range indicators {
			sum += v
		}
		avg = float64(sum) / float64(len(indicators))
	}

	switch {
	case avg >= 2.5:
		return "Senior"
	case avg >= 1.5:
		return "Mid-level"
	case avg >= 0.5:
		return "Junior"
	default:
		return "Entry-level"
	}
}

// SkillLevel maps a language share onto a proficiency label
func SkillLevel(percentage float64) string {
	switch {
	case percentage >= 30:
		return "Expert"
	case percentage >= 15:
		return "Advanced"
	case percentage >= 5:
		return "Intermediate"
	default:
		return "Beginner"
	}
}

var specializationsByType = map[string]string{
	"web-app":    "Web Development",
	"mobile-app": "Mobile Development",
	"cli-tool":   "Developer Tooling",
	"library":    "Library Design",
	"api":        "API Development",
}

// assessSkills fills skill levels, expertise, specializations and achievements
func assessSkills(profile *GitHubProfile) {
	for lang, pct := range profile.LanguagesPercentage {
		profile.SkillLevels[lang] = SkillLevel(pct)
	}

	for _, share := range profile.LanguagesByShare() {
		if level := profile.SkillLevels[share.Language]; level == "Expert" || level == "Advanced" {
			profile.ExpertiseAreas = append(profile.ExpertiseAreas, share.Language)
		}
	}

	for _, projectType := range SortedKeys(profile.ProjectTypes) {
		if spec, ok := specializationsByType[projectType]; ok {
			profile.Specializations = append(profile.Specializations, spec)
		}
	}

	if profile.TotalStarsReceived > 0 {
		profile.Achievements = append(profile.Achievements, fmt.Sprintf("Earned %d stars across public projects", profile.TotalStarsReceived))
	}
	if profile.TotalForksReceived > 0 {
		profile.Achievements = append(profile.Achievements, fmt.Sprintf("Projects forked %d times by other developers", profile.TotalForksReceived))
	}
	if profile.OriginalRepositories >= 10 {
		profile.Achievements = append(profile.Achievements, fmt.Sprintf("Created %d original repositories", profile.OriginalRepositories))
	}
	if n := len(profile.LanguagesUsed); n >= 3 {
		profile.Achievements = append(profile.Achievements, fmt.Sprintf("Works across %d programming languages", n))
	}
	if len(profile.MostStarredRepos) > 0 && profile.MostStarredRepos[0].Stars >= 10 {
		top := profile.MostStarredRepos[0]
		profile.Achievements = append(profile.Achievements, fmt.Sprintf("%s reached %d stars", top.Name, top.Stars))
	}
}
