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
	"bytes"
	"cmp"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/render"
	"github.com/walteh/reporeadme/pkg/status"
	"github.com/walteh/reporeadme/pkg/text"
)

// Export formats
const (
	FormatJSON   = "json"
	FormatHTML   = "html"
	FormatResume = "resume"
	FormatPDF    = "pdf"
)

// Formats lists every export format in the order Export writes them
var Formats = []string{FormatJSON, FormatHTML, FormatResume, FormatPDF}

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoRenderer    = errors.New("no pdf renderer configured")
)

//go:embed portfolio.html.tmpl
var portfolioSource string

var portfolioTemplate = template.Must(template.New("portfolio").Funcs(template.FuncMap{
	"clip":  clip,
	"comma": text.Comma,
}).Parse(portfolioSource))

// clip cuts s to n runes, appending "..." when something was removed
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return text.Truncate(s, n) + "..."
}

// 📤 Exporter writes a profile out in the supported formats
type Exporter struct {
	profile  *GitHubProfile
	renderer render.PDFRenderer
	now      func() time.Time
}

func NewExporter(profile *GitHubProfile, renderer render.PDFRenderer) *Exporter {
	return &Exporter{profile: profile, renderer: renderer, now: time.Now}
}

// JSON is the full profile, indented
func (e *Exporter) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(e.profile, "", "  ")
	if err != nil {
		return nil, errors.Errorf("marshalling profile: %w", err)
	}
	return data, nil
}

// ResumeData is the resume-ready subset of a profile
type ResumeData struct {
	PersonalInfo struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Bio      string `json:"bio"`
		Location string `json:"location"`
		Email    string `json:"email"`
		Website  string `json:"website"`
		GitHub   string `json:"github"`
	} `json:"personal_info"`

	ProfessionalSummary struct {
		DeveloperType     string   `json:"developer_type"`
		ExperienceLevel   string   `json:"experience_level"`
		Specializations   []string `json:"specializations"`
		TotalRepositories int      `json:"total_repositories"`
		StarsReceived     int      `json:"stars_received"`
	} `json:"professional_summary"`

	TechnicalSkills struct {
		PrimaryLanguages     []string           `json:"primary_languages"`
		LanguagesProficiency map[string]float64 `json:"languages_proficiency"`
		Frameworks           []string           `json:"frameworks"`
		Databases            []string           `json:"databases"`
		Tools                []string           `json:"tools"`
	} `json:"technical_skills"`

	Projects struct {
		FeaturedProjects  []Project            `json:"featured_projects"`
		ProjectCategories map[string][]Project `json:"project_categories"`
		MostStarred       []Project            `json:"most_starred"`
		RecentWork        []Project            `json:"recent_work"`
	} `json:"projects"`

	Achievements struct {
		TotalStars         int      `json:"total_stars"`
		TotalForks         int      `json:"total_forks"`
		CollaborationScore float64  `json:"collaboration_score"`
		InnovationScore    float64  `json:"innovation_score"`
		Achievements       []string `json:"achievements"`
	} `json:"achievements"`

	DevelopmentPractices struct {
		RepositoriesWithReadme int `json:"repositories_with_readme"`
		RepositoriesWithTests  int `json:"repositories_with_tests"`
		RepositoriesWithDocs   int `json:"repositories_with_docs"`
		RepositoriesWithCI     int `json:"repositories_with_ci"`
	} `json:"development_practices"`

	Metadata struct {
		GeneratedDate      string  `json:"generated_date"`
		TotalAnalyzedRepos int     `json:"total_analyzed_repos"`
		AnalysisDuration   float64 `json:"analysis_duration"`
	} `json:"metadata"`
}

// 📄 ResumeData extracts the resume-ready view of the profile
func (e *Exporter) ResumeData() ResumeData {
	p := e.profile
	var r ResumeData

	r.PersonalInfo.Name = p.Name
	r.PersonalInfo.Username = p.Username
	r.PersonalInfo.Bio = p.Bio
	r.PersonalInfo.Location = p.Location
	r.PersonalInfo.Email = p.Email
	r.PersonalInfo.Website = p.Website
	r.PersonalInfo.GitHub = p.ProfileURL

	r.ProfessionalSummary.DeveloperType = p.DeveloperType
	r.ProfessionalSummary.ExperienceLevel = p.ExperienceLevel
	r.ProfessionalSummary.Specializations = p.Specializations
	r.ProfessionalSummary.TotalRepositories = p.TotalRepositories
	r.ProfessionalSummary.StarsReceived = p.TotalStarsReceived

	r.TechnicalSkills.PrimaryLanguages = p.PrimaryLanguages
	r.TechnicalSkills.LanguagesProficiency = p.LanguagesPercentage
	r.TechnicalSkills.Frameworks = SortedKeys(p.FrameworksUsed)
	r.TechnicalSkills.Databases = SortedKeys(p.DatabasesUsed)
	r.TechnicalSkills.Tools = SortedKeys(p.ToolsUsed)

	r.Projects.FeaturedProjects = p.FeaturedProjects
	r.Projects.ProjectCategories = p.ProjectCategories
	r.Projects.MostStarred = text.Head(p.MostStarredRepos, 5)
	r.Projects.RecentWork = text.Head(p.RecentActiveRepos, 5)

	r.Achievements.TotalStars = p.TotalStarsReceived
	r.Achievements.TotalForks = p.TotalForksReceived
	r.Achievements.CollaborationScore = p.CollaborationScore
	r.Achievements.InnovationScore = p.InnovationScore
	r.Achievements.Achievements = p.Achievements

	r.DevelopmentPractices.RepositoriesWithReadme = p.RepositoriesWithReadme
	r.DevelopmentPractices.RepositoriesWithTests = p.RepositoriesWithTests
	r.DevelopmentPractices.RepositoriesWithDocs = p.RepositoriesWithDocs
	r.DevelopmentPractices.RepositoriesWithCI = p.RepositoriesWithCI

	r.Metadata.GeneratedDate = p.AnalysisDate
	r.Metadata.TotalAnalyzedRepos = p.TotalAnalyzedRepos
	r.Metadata.AnalysisDuration = p.AnalysisDuration

	return r
}

func (e *Exporter) ResumeJSON() ([]byte, error) {
	data, err := json.MarshalIndent(e.ResumeData(), "", "  ")
	if err != nil {
		return nil, errors.Errorf("marshalling resume data: %w", err)
	}
	return data, nil
}

type skillView struct {
	Language   string
	Level      string
	Width      float64
	Percentage float64
}

type timelineView struct {
	Date        string
	Name        string
	Description string
}

type portfolioView struct {
	*GitHubProfile
	DisplayName string
	Avatar      string
	Bio         string
	AboutText   string
	Languages   int
	Skills      []skillView
	Timeline    []timelineView
	Projects    []Project
	Year        int
}

// timelineDate renders an RFC 3339 timestamp as "January 2006"
func timelineDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return "Recent"
	}
	return t.Format("January 2006")
}

func (e *Exporter) portfolioView() portfolioView {
	p := e.profile

	view := portfolioView{
		GitHubProfile: p,
		DisplayName:   p.DisplayName(),
		Avatar:        cmp.Or(p.AvatarURL, "https://via.placeholder.com/150"),
		Bio:           cmp.Or(p.Bio, fmt.Sprintf("Passionate developer with %d repositories and %d stars", p.TotalRepositories, p.TotalStarsReceived)),
		AboutText:     cmp.Or(p.Bio, p.DeveloperType+" developer passionate about creating innovative solutions."),
		Languages:     len(p.LanguagesUsed),
		Year:          e.now().Year(),
	}

	for _, share := range text.Head(p.LanguagesByShare(), 8) {
		view.Skills = append(view.Skills, skillView{
			Language:   share.Language,
			Level:      SkillLevel(share.Percentage),
			Width:      min(share.Percentage, 100),
			Percentage: share.Percentage,
		})
	}

	timeline := slices.DeleteFunc(slices.Clone(p.FeaturedProjects), func(pr Project) bool {
		return pr.UpdatedAt == ""
	})
	slices.SortStableFunc(timeline, func(a, b Project) int {
		return cmp.Compare(b.UpdatedAt, a.UpdatedAt)
	})
	for _, pr := range text.Head(timeline, 8) {
		view.Timeline = append(view.Timeline, timelineView{
			Date:        timelineDate(pr.UpdatedAt),
			Name:        pr.Name,
			Description: cmp.Or(clip(pr.Description, 100), "Active development on this project"),
		})
	}

	view.Projects = text.Head(p.FeaturedProjects, 6)

	return view
}

// 🌐 PortfolioHTML renders the standalone portfolio page
func (e *Exporter) PortfolioHTML() (string, error) {
	var buf bytes.Buffer
	if err := portfolioTemplate.Execute(&buf, e.portfolioView()); err != nil {
		return "", errors.Errorf("rendering portfolio: %w", err)
	}
	return buf.String(), nil
}

// PDF renders the portfolio page through the configured renderer
func (e *Exporter) PDF(ctx context.Context) ([]byte, error) {
	if e.renderer == nil {
		return nil, ErrNoRenderer
	}
	html, err := e.PortfolioHTML()
	if err != nil {
		return nil, err
	}
	data, err := e.renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, errors.Errorf("rendering portfolio pdf: %w", err)
	}
	return data, nil
}

// FileName is the default output name for a format
func (e *Exporter) FileName(format string) string {
	user := e.profile.Username
	switch format {
	case FormatJSON:
		return user + "_profile.json"
	case FormatHTML:
		return user + "_portfolio.html"
	case FormatResume:
		return user + "_resume_data.json"
	case FormatPDF:
		return user + "_portfolio.pdf"
	default:
		return user + "_" + format
	}
}

// Render produces the bytes for one format
func (e *Exporter) Render(ctx context.Context, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return e.JSON()
	case FormatHTML:
		html, err := e.PortfolioHTML()
		return []byte(html), err
	case FormatResume:
		return e.ResumeJSON()
	case FormatPDF:
		return e.PDF(ctx)
	default:
		return nil, errors.Errorf("%w: %s, options: %s", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

// 💾 Export writes each format into dir through the artifact manager.
// A failing format is recorded and the rest are still written.
func (e *Exporter) Export(ctx context.Context, mgr *status.Manager, dir string, formats []string, opts status.WriteOptions) ([]status.Artifact, error) {
	logger := zerolog.Ctx(ctx)

	var (
		artifacts []status.Artifact
		errs      []error
	)
	for _, format := range formats {
		data, err := e.Render(ctx, format)
		if err != nil {
			logger.Error().Err(err).Str("format", format).Msg("profile export failed")
			errs = append(errs, errors.Errorf("exporting %s: %w", format, err))
			continue
		}

		o := opts
		o.Kind = "profile-" + format
		art, err := mgr.Write(ctx, filepath.Join(dir, e.FileName(format)), data, o)
		if err != nil {
			errs = append(errs, errors.Errorf("writing %s: %w", format, err))
			continue
		}
		artifacts = append(artifacts, art)
	}

	if len(errs) > 0 {
		return artifacts, errors.Join(errs...)
	}
	return artifacts, nil
}
