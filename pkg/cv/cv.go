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

// Package cv derives resume content from a developer profile.
package cv

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/walteh/reporeadme/pkg/config"
	"github.com/walteh/reporeadme/pkg/profile"
	"github.com/walteh/reporeadme/pkg/text"
)

// Config selects which sections are generated and how
type Config struct {
	Style  string `json:"style"`
	Format string `json:"format"`

	IncludeSummary      bool `json:"include_summary"`
	IncludeSkills       bool `json:"include_skills"`
	IncludeProjects     bool `json:"include_projects"`
	IncludeExperience   bool `json:"include_experience"`
	IncludeAchievements bool `json:"include_achievements"`
	IncludeContactInfo  bool `json:"include_contact_info"`
	IncludeGitHubStats  bool `json:"include_github_stats"`

	MaxFeaturedProjects  int  `json:"max_featured_projects"`
	MinStarsForProjects  int  `json:"min_stars_for_projects"`
	GroupProjectsByType  bool `json:"group_projects_by_type"`
	MaxSkillsToShow      int  `json:"max_skills_to_show"`
	ShowSkillProficiency bool `json:"show_skill_proficiency"`

	// PersonalInfo overrides generated contact fields
	PersonalInfo   map[string]string `json:"personal_info,omitempty"`
	TargetRole     string            `json:"target_role,omitempty"`
	TargetIndustry string            `json:"target_industry,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Style:                "modern",
		Format:               FormatHTML,
		IncludeSummary:       true,
		IncludeSkills:        true,
		IncludeProjects:      true,
		IncludeExperience:    true,
		IncludeAchievements:  true,
		IncludeContactInfo:   true,
		IncludeGitHubStats:   true,
		MaxFeaturedProjects:  6,
		MinStarsForProjects:  1,
		GroupProjectsByType:  true,
		MaxSkillsToShow:      12,
		ShowSkillProficiency: true,
		PersonalInfo:         map[string]string{},
	}
}

// ConfigFromSettings applies the persisted CV style
func ConfigFromSettings(s *config.Settings) Config {
	cfg := DefaultConfig()
	if s.CVStyle != "" {
		cfg.Style = s.CVStyle
	}
	return cfg
}

// Credential is an education or certification entry supplied by the user
type Credential struct {
	Title       string `json:"title"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// AdditionalInfo is what the user knows that GitHub does not
type AdditionalInfo struct {
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Location       string       `json:"location,omitempty"`
	Website        string       `json:"website,omitempty"`
	LinkedIn       string       `json:"linkedin,omitempty"`
	WorkExperience []Experience `json:"work_experience,omitempty"`
	Education      []Credential `json:"education,omitempty"`
	Certifications []Credential `json:"certifications,omitempty"`
}

// SkillCategory is a named group of skills, kept in display order
type SkillCategory struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
	Technologies []string `json:"technologies"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url"`
	Stars        int      `json:"stars"`
	Highlights   []string `json:"highlights"`
	Type         string   `json:"type"`
	Year         string   `json:"year"`
}

type GitHubStats struct {
	TotalRepositories  int      `json:"total_repositories"`
	OriginalProjects   int      `json:"original_projects"`
	TotalStars         int      `json:"total_stars"`
	TotalForks         int      `json:"total_forks"`
	LanguagesUsed      int      `json:"languages_used"`
	CollaborationScore float64  `json:"collaboration_score"`
	InnovationScore    float64  `json:"innovation_score"`
	PrimaryLanguages   []string `json:"primary_languages"`
	DeveloperType      string   `json:"developer_type"`
	ExperienceLevel    string   `json:"experience_level"`
}

// 📄 Data is a generated CV, ready for any export format
type Data struct {
	PersonalInfo map[string]string `json:"personal_info"`

	ProfessionalSummary string `json:"professional_summary"`
	Objective           string `json:"objective"`

	TechnicalSkills  []SkillCategory   `json:"technical_skills"`
	SoftSkills       []string          `json:"soft_skills"`
	SkillProficiency map[string]string `json:"skill_proficiency"`

	WorkExperience    []Experience                 `json:"work_experience"`
	FeaturedProjects  []Project                    `json:"featured_projects"`
	ProjectCategories map[string][]profile.Project `json:"project_categories"`

	Education      []Credential `json:"education"`
	Certifications []Credential `json:"certifications"`

	Achievements []string     `json:"achievements"`
	GitHubStats  *GitHubStats `json:"github_stats,omitempty"`

	GeneratedDate string `json:"generated_date"`
	TargetRole    string `json:"target_role,omitempty"`
	Style         string `json:"cv_style"`
}

// Name is the display name, "Professional" when unknown
func (d *Data) Name() string {
	if n := d.PersonalInfo["name"]; n != "" {
		return n
	}
	return "Professional"
}

// Title is the headline role under the name
func (d *Data) Title() string {
	if d.TargetRole != "" {
		return d.TargetRole
	}
	return "Software Developer"
}

// 🏭 Generator builds CV data from a profile
type Generator struct {
	cfg Config
	now func() time.Time
}

func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg, now: time.Now}
}

// Generate derives every CV section from p, merging in what the user supplied
func (g *Generator) Generate(ctx context.Context, p *profile.GitHubProfile, extra AdditionalInfo) *Data {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("username", p.Username).Str("style", g.cfg.Style).Msg("generating cv")

	d := &Data{
		GeneratedDate:    g.now().Format(time.RFC3339),
		TargetRole:       g.cfg.TargetRole,
		Style:            g.cfg.Style,
		PersonalInfo:     g.personalInfo(p, extra),
		SkillProficiency: SkillProficiency(p),
		Education:        extra.Education,
		Certifications:   extra.Certifications,
	}

	d.ProfessionalSummary = g.summary(p)
	d.Objective = g.objective(p)
	d.TechnicalSkills = g.technicalSkills(p)
	d.SoftSkills = g.softSkills(p)
	d.WorkExperience = g.workExperience(p, extra)
	d.FeaturedProjects = g.featuredProjects(p)
	if g.cfg.GroupProjectsByType {
		d.ProjectCategories = p.ProjectCategories
	}
	d.Achievements = g.achievements(p)
	d.GitHubStats = g.githubStats(p)

	logger.Info().Int("projects", len(d.FeaturedProjects)).Msg("cv generated")
	return d
}

func (g *Generator) personalInfo(p *profile.GitHubProfile, extra AdditionalInfo) map[string]string {
	info := map[string]string{
		"name":     p.DisplayName(),
		"username": p.Username,
		"email":    firstNonEmpty(p.Email, extra.Email),
		"phone":    extra.Phone,
		"location": firstNonEmpty(p.Location, extra.Location),
		"website":  firstNonEmpty(p.Website, extra.Website),
		"linkedin": extra.LinkedIn,
		"github":   p.ProfileURL,
		"bio":      p.Bio,
	}
	for k, v := range g.cfg.PersonalInfo {
		info[k] = v
	}
	if !g.cfg.IncludeContactInfo {
		for _, k := range []string{"email", "phone", "location", "website", "linkedin"} {
			delete(info, k)
		}
	}
	for k, v := range info {
		if v == "" {
			delete(info, k)
		}
	}
	return info
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// joinSeries renders ["a","b","c"] as "a, b, and c" and ["a","b"] as "a and b"
func joinSeries(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

func (g *Generator) summary(p *profile.GitHubProfile) string {
	if !g.cfg.IncludeSummary {
		return ""
	}

	var descriptor string
	switch strings.ToLower(p.ExperienceLevel) {
	case "senior":
		descriptor = "Seasoned"
	case "lead":
		descriptor = "Lead"
	case "mid-level":
		descriptor = "Experienced"
	default:
		descriptor = "Motivated"
	}

	developerType := strings.ToLower(p.DeveloperType)
	opening := fmt.Sprintf("%s %s developer", descriptor, developerType)
	if g.cfg.TargetRole != "" {
		opening += " focused on " + strings.ToLower(g.cfg.TargetRole)
	}

	active := 0
	for _, pct := range p.LanguagesPercentage {
		if pct > 5 {
			active++
		}
	}
	if active > 0 {
		langs := joinSeries(text.Head(p.PrimaryLanguages, 3))
		if langs == "" {
			langs = "multiple programming languages"
		}
		opening += " with expertise in " + langs
	}
	parts := []string{opening}

	if p.OriginalRepositories > 5 {
		portfolio := fmt.Sprintf("Maintained a portfolio of %d open-source projects", p.OriginalRepositories)
		if p.TotalStarsReceived > 10 {
			portfolio += fmt.Sprintf(", earning %d stars from the developer community", p.TotalStarsReceived)
		}
		parts = append(parts, portfolio)
	}

	specs := []string{}
	if p.HasWebProjects {
		specs = append(specs, "web applications")
	}
	if p.HasMobileProjects {
		specs = append(specs, "mobile development")
	}
	if p.HasAPIs {
		specs = append(specs, "API development")
	}
	if p.HasCLITools {
		specs = append(specs, "developer tools")
	}
	if p.HasLibraries {
		specs = append(specs, "library development")
	}
	if len(specs) > 0 {
		parts = append(parts, "Specialized in "+joinSeries(specs))
	}

	qualities := []string{}
	if p.CollaborationScore > 60 {
		qualities = append(qualities, "collaborative")
	}
	if p.InnovationScore > 60 {
		qualities = append(qualities, "innovative")
	}
	if p.ReadmeRatio() > 0.7 {
		qualities = append(qualities, "documentation-focused")
	}
	if len(qualities) > 0 {
		parts = append(parts, fmt.Sprintf("Known for %s development practices", strings.Join(qualities, " and ")))
	}

	if g.cfg.TargetIndustry != "" {
		parts = append(parts, fmt.Sprintf("Seeking to apply technical skills in the %s industry", g.cfg.TargetIndustry))
	}

	return strings.Join(parts, ". ") + "."
}

func (g *Generator) objective(p *profile.GitHubProfile) string {
	if g.cfg.TargetRole == "" {
		return ""
	}
	return fmt.Sprintf("Seeking a %s position where I can leverage my expertise in %s and proven track record "+
		"of building %d open-source projects to drive innovative solutions and contribute to team success.",
		g.cfg.TargetRole, strings.Join(text.Head(p.PrimaryLanguages, 2), ", "), p.OriginalRepositories)
}

// ProficiencyLevel maps a language share onto a CV proficiency label
func ProficiencyLevel(percentage float64) string {
	switch {
	case percentage >= 25:
		return "Expert"
	case percentage >= 15:
		return "Advanced"
	case percentage >= 5:
		return "Intermediate"
	default:
		return "Basic"
	}
}

// SkillProficiency labels every language in the profile
func SkillProficiency(p *profile.GitHubProfile) map[string]string {
	out := make(map[string]string, len(p.LanguagesPercentage))
	for lang, pct := range p.LanguagesPercentage {
		out[lang] = ProficiencyLevel(pct)
	}
	return out
}

func hasLanguage(p *profile.GitHubProfile, langs ...string) bool {
	for _, l := range langs {
		if _, ok := p.LanguagesUsed[l]; ok {
			return true
		}
	}
	return false
}

func (g *Generator) technicalSkills(p *profile.GitHubProfile) []SkillCategory {
	if !g.cfg.IncludeSkills {
		return nil
	}

	out := []SkillCategory{}
	add := func(name string, skills []string) {
		if len(skills) > 0 {
			out = append(out, SkillCategory{Name: name, Skills: skills})
		}
	}

	languages := []string{}
	for _, share := range text.Head(p.LanguagesByShare(), g.cfg.MaxSkillsToShow) {
		if share.Percentage <= 2 {
			continue
		}
		if g.cfg.ShowSkillProficiency {
			languages = append(languages, fmt.Sprintf("%s (%s)", share.Language, ProficiencyLevel(share.Percentage)))
		} else {
			languages = append(languages, share.Language)
		}
	}
	add("Programming Languages", languages)

	frameworks := []string{}
	if hasLanguage(p, "JavaScript", "TypeScript") && p.HasWebProjects {
		frameworks = append(frameworks, "React", "Node.js", "Express")
	}
	if hasLanguage(p, "Python") {
		frameworks = append(frameworks, "Django", "Flask", "FastAPI")
	}
	if hasLanguage(p, "Java") {
		frameworks = append(frameworks, "Spring Boot", "Spring Framework")
	}
	if hasLanguage(p, "C#") {
		frameworks = append(frameworks, ".NET", "ASP.NET Core")
	}
	frameworks = append(frameworks, text.Head(profile.SortedKeys(p.FrameworksUsed), 5)...)
	add("Frameworks & Libraries", text.Head(text.Dedupe(frameworks), 8))

	tools := []string{"Git", "GitHub"}
	if p.RepositoriesWithCI > 0 {
		tools = append(tools, "CI/CD", "GitHub Actions")
	}
	if p.RepositoriesWithDocker > 0 {
		tools = append(tools, "Docker")
	}
	if p.HasWebProjects {
		tools = append(tools, "HTML/CSS", "REST APIs")
	}
	if p.HasMobileProjects {
		tools = append(tools, "Mobile Development", "App Stores")
	}
	tools = append(tools, text.Head(profile.SortedKeys(p.ToolsUsed), 5)...)
	add("Development Tools", text.Head(text.Dedupe(tools), 10))

	add("Databases", text.Head(profile.SortedKeys(p.DatabasesUsed), 6))

	methods := []string{}
	if p.ReadmeRatio() > 0.5 {
		methods = append(methods, "Documentation")
	}
	if p.RepositoriesWithTests > 0 {
		methods = append(methods, "Test-Driven Development")
	}
	if p.CollaborationScore > 50 {
		methods = append(methods, "Collaborative Development")
	}
	if p.OriginalRepositories > 10 {
		methods = append(methods, "Open Source Development")
	}
	add("Methodologies", methods)

	return out
}

func (g *Generator) softSkills(p *profile.GitHubProfile) []string {
	skills := []string{}

	if p.CollaborationScore > 60 {
		skills = append(skills, "Team Collaboration", "Code Review", "Mentoring")
	}
	if p.InnovationScore > 60 {
		skills = append(skills, "Problem Solving", "Creative Thinking", "Innovation")
	}
	if p.TotalForksReceived > 20 {
		skills = append(skills, "Community Building")
	}
	if p.ReadmeRatio() > 0.7 {
		skills = append(skills, "Technical Writing", "Documentation")
	}
	if p.OriginalRepositories > 15 {
		skills = append(skills, "Self-Motivation", "Independent Learning")
	}
	if len(p.LanguagesUsed) > 5 {
		skills = append(skills, "Adaptability")
	}
	if p.ExperienceLevel == "Senior" || p.ExperienceLevel == "Lead" {
		skills = append(skills, "Leadership", "Project Management", "Strategic Planning")
	}

	industry := strings.ToLower(g.cfg.TargetIndustry)
	switch {
	case strings.Contains(industry, "fintech"):
		skills = append(skills, "Attention to Detail", "Risk Assessment")
	case strings.Contains(industry, "healthcare"):
		skills = append(skills, "Regulatory Compliance", "Data Privacy")
	case strings.Contains(industry, "education"):
		skills = append(skills, "Training", "Communication")
	}

	return text.Dedupe(skills)
}

func (g *Generator) workExperience(p *profile.GitHubProfile, extra AdditionalInfo) []Experience {
	if !g.cfg.IncludeExperience {
		return nil
	}
	if len(extra.WorkExperience) > 0 {
		return extra.WorkExperience
	}
	if p.TotalRepositories <= 5 {
		return []Experience{}
	}

	title := "Software Developer"
	if p.TotalStarsReceived > 50 {
		title = "Open Source Developer"
	}

	return []Experience{{
		Title:        title,
		Company:      "Freelance / Open Source Community",
		Location:     firstNonEmpty(p.Location, "Remote"),
		StartDate:    fmt.Sprint(g.now().Year() - min(5, p.TotalRepositories/10+1)),
		EndDate:      "Present",
		Description:  experienceDescription(p),
		Achievements: experienceAchievements(p),
		Technologies: text.Head(p.PrimaryLanguages, 5),
	}}
}

func experienceDescription(p *profile.GitHubProfile) string {
	parts := []string{}
	if p.HasWebProjects {
		parts = append(parts, "Developed and maintained web applications using modern frameworks")
	}
	if p.HasMobileProjects {
		parts = append(parts, "Built mobile applications for iOS and Android platforms")
	}
	if p.HasAPIs {
		parts = append(parts, "Designed and implemented RESTful APIs and backend services")
	}
	if p.HasLibraries {
		parts = append(parts, "Created and maintained open-source libraries and developer tools")
	}
	if p.CollaborationScore > 60 {
		parts = append(parts, "Collaborated with distributed teams and contributed to community projects")
	}
	if p.TotalStarsReceived > 100 {
		parts = append(parts, "Gained recognition in the developer community through quality open-source contributions")
	}
	if len(parts) == 0 {
		return "Developed software solutions and contributed to open-source projects."
	}
	return strings.Join(parts, ". ") + "."
}

func experienceAchievements(p *profile.GitHubProfile) []string {
	out := []string{}
	if p.TotalRepositories > 20 {
		out = append(out, fmt.Sprintf("Built and maintained %d software projects", p.TotalRepositories))
	}
	if p.TotalStarsReceived > 50 {
		out = append(out, fmt.Sprintf("Earned %d stars from the developer community", p.TotalStarsReceived))
	}
	if p.TotalForksReceived > 20 {
		out = append(out, fmt.Sprintf("Projects were forked %d times, demonstrating reusability", p.TotalForksReceived))
	}
	if n := len(p.LanguagesUsed); n > 7 {
		out = append(out, fmt.Sprintf("Demonstrated proficiency in %d programming languages", n))
	}
	if p.ReadmeRatio() > 0.8 {
		out = append(out, "Maintained comprehensive documentation across all projects")
	}
	return out
}

func (g *Generator) featuredProjects(p *profile.GitHubProfile) []Project {
	if !g.cfg.IncludeProjects {
		return nil
	}

	out := []Project{}
	for _, fp := range text.Head(p.FeaturedProjects, g.cfg.MaxFeaturedProjects) {
		if fp.Stars < g.cfg.MinStarsForProjects {
			continue
		}
		tech := []string{firstNonEmpty(fp.Language, "N/A")}
		tech = append(tech, text.Head(fp.Topics, 3)...)

		out = append(out, Project{
			Name:         fp.Name,
			Description:  EnhanceDescription(fp),
			Technologies: tech,
			URL:          fp.URL,
			Stars:        fp.Stars,
			Highlights:   ProjectHighlights(fp),
			Type:         firstNonEmpty(fp.ProjectType, "other"),
			Year:         g.year(fp.UpdatedAt),
		})
	}
	return out
}

var nameSeparators = strings.NewReplacer("-", " ", "_", " ")

var typeDescriptions = map[string]string{
	"web-app":    "A web application",
	"mobile-app": "A mobile application",
	"api":        "An API service",
	"library":    "A software library",
	"cli-tool":   "A command-line tool",
}

// EnhanceDescription tidies a project description, inventing one from the name when empty
func EnhanceDescription(fp profile.Project) string {
	desc := strings.TrimSpace(fp.Description)
	if desc == "" {
		name := text.Title(nameSeparators.Replace(fp.Name))
		kind, ok := typeDescriptions[fp.ProjectType]
		if !ok {
			kind = "A software project"
		}
		return name + " - " + kind
	}
	if !strings.HasSuffix(desc, ".") {
		desc += "."
	}
	return desc
}

// ProjectHighlights lists notable facts about a project
func ProjectHighlights(fp profile.Project) []string {
	out := []string{}

	switch {
	case fp.Stars > 100:
		out = append(out, fmt.Sprintf("Achieved %d GitHub stars", fp.Stars))
	case fp.Stars > 20:
		out = append(out, fmt.Sprintf("Gained %d stars from community", fp.Stars))
	}

	switch {
	case fp.Forks > 50:
		out = append(out, fmt.Sprintf("Forked %d times by other developers", fp.Forks))
	case fp.Forks > 10:
		out = append(out, fmt.Sprintf("Forked %d times, showing reusability", fp.Forks))
	}

	if fp.HasReadme {
		out = append(out, "Comprehensive documentation provided")
	}

	switch fp.ProjectType {
	case "web-app":
		out = append(out, "Full-stack web application development")
	case "mobile-app":
		out = append(out, "Cross-platform mobile development")
	case "api":
		out = append(out, "RESTful API design and implementation")
	case "library":
		out = append(out, "Reusable component development")
	}

	return out
}

func (g *Generator) year(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format("2006")
	}
	return g.now().Format("2006")
}

func (g *Generator) achievements(p *profile.GitHubProfile) []string {
	if !g.cfg.IncludeAchievements {
		return nil
	}

	out := []string{}
	switch {
	case p.TotalStarsReceived > 500:
		out = append(out, fmt.Sprintf("🌟 Earned %d GitHub stars across all projects", p.TotalStarsReceived))
	case p.TotalStarsReceived > 100:
		out = append(out, fmt.Sprintf("⭐ Achieved %d GitHub stars for open-source contributions", p.TotalStarsReceived))
	}
	if p.TotalRepositories > 50 {
		out = append(out, fmt.Sprintf("🚀 Built and published %d software projects", p.TotalRepositories))
	}
	if p.CollaborationScore > 80 {
		out = append(out, "🤝 Recognized for exceptional collaborative development practices")
	}
	if p.InnovationScore > 80 {
		out = append(out, "💡 Demonstrated innovation through original project development")
	}
	if n := len(p.LanguagesUsed); n > 10 {
		out = append(out, fmt.Sprintf("🔧 Proficient in %d programming languages and technologies", n))
	}
	switch p.ExperienceLevel {
	case "Senior":
		out = append(out, "👨‍💻 Senior-level expertise in software development")
	case "Lead":
		out = append(out, "👑 Lead-level technical expertise and project management")
	}

	return append(out, p.Achievements...)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (g *Generator) githubStats(p *profile.GitHubProfile) *GitHubStats {
	if !g.cfg.IncludeGitHubStats {
		return nil
	}
	return &GitHubStats{
		TotalRepositories:  p.TotalRepositories,
		OriginalProjects:   p.OriginalRepositories,
		TotalStars:         p.TotalStarsReceived,
		TotalForks:         p.TotalForksReceived,
		LanguagesUsed:      len(p.LanguagesUsed),
		CollaborationScore: round1(p.CollaborationScore),
		InnovationScore:    round1(p.InnovationScore),
		PrimaryLanguages:   text.Head(p.PrimaryLanguages, 5),
		DeveloperType:      p.DeveloperType,
		ExperienceLevel:    p.ExperienceLevel,
	}
}
