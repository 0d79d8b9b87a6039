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

// Package linkedin derives LinkedIn profile content and networking advice
// from a developer profile.
package linkedin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/walteh/reporeadme/pkg/config"
	"github.com/walteh/reporeadme/pkg/profile"
	"github.com/walteh/reporeadme/pkg/text"
)

// MaxHeadline is the LinkedIn headline limit
const MaxHeadline = 220

// Summary lengths
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Config controls tone, length and positioning of the generated content
type Config struct {
	Tone           string `json:"tone"`
	Length         string `json:"length"`
	IncludeEmojis  bool   `json:"include_emojis"`
	UseFirstPerson bool   `json:"use_first_person"`

	FocusOnResults         bool `json:"focus_on_results"`
	HighlightLeadership    bool `json:"highlight_leadership"`
	EmphasizeInnovation    bool `json:"emphasize_innovation"`
	IncludePersonalTouches bool `json:"include_personal_touches"`

	TargetRole     string `json:"target_role,omitempty"`
	TargetIndustry string `json:"target_industry,omitempty"`
	CareerLevel    string `json:"career_level,omitempty"`

	OptimizeForKeywords        bool `json:"optimize_for_keywords"`
	IncludeCallToAction        bool `json:"include_call_to_action"`
	MentionOpenToOpportunities bool `json:"mention_open_to_opportunities"`

	PersonalBrandKeywords []string `json:"personal_brand_keywords,omitempty"`
	CompanyPreferences    []string `json:"company_preferences,omitempty"`
	LocationPreferences   []string `json:"location_preferences,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Tone:                "professional",
		Length:              LengthMedium,
		UseFirstPerson:      true,
		FocusOnResults:      true,
		EmphasizeInnovation: true,
		OptimizeForKeywords: true,
		IncludeCallToAction: true,
	}
}

// ConfigFromSettings applies the persisted LinkedIn tone
func ConfigFromSettings(s *config.Settings) Config {
	cfg := DefaultConfig()
	if s.LinkedInTone != "" {
		cfg.Tone = s.LinkedInTone
	}
	return cfg
}

// Experience is a position as it should read on LinkedIn
type Experience struct {
	Title               string   `json:"title"`
	Company             string   `json:"company"`
	StartDate           string   `json:"start_date,omitempty"`
	EndDate             string   `json:"end_date,omitempty"`
	Description         string   `json:"description"`
	LinkedInDescription string   `json:"linkedin_description"`
	Accomplishments     []string `json:"accomplishments,omitempty"`
	GitHubAchievements  []string `json:"github_achievements,omitempty"`
	SuggestedSkills     []string `json:"suggested_skills,omitempty"`
	Technologies        []string `json:"technologies,omitempty"`
	GitHubBacked        bool     `json:"github_backed"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url"`
	Achievements []string `json:"achievements"`
	Year         string   `json:"year"`
}

// SkillCategory is a named group of skills, kept in display order
type SkillCategory struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// AdditionalInfo is what the user knows that GitHub does not
type AdditionalInfo struct {
	Location       string       `json:"location,omitempty"`
	Interests      []string     `json:"interests,omitempty"`
	Hobbies        []string     `json:"hobbies,omitempty"`
	WorkExperience []Experience `json:"work_experience,omitempty"`
}

// 💼 Profile is the generated LinkedIn content
type Profile struct {
	Username        string `json:"username"`
	Headline        string `json:"headline"`
	CurrentPosition string `json:"current_position"`
	Location        string `json:"location"`

	Summary      string `json:"summary"`
	SummaryShort string `json:"summary_short"`
	SummaryLong  string `json:"summary_long"`

	ExperienceDescriptions []Experience `json:"experience_descriptions"`
	ProjectDescriptions    []Project    `json:"project_descriptions"`

	TopSkills       []string        `json:"top_skills"`
	SkillCategories []SkillCategory `json:"skill_categories"`

	PostIdeas     []string `json:"post_ideas"`
	ArticleTopics []string `json:"article_topics"`

	ConnectionTargets []string `json:"connection_targets"`
	IndustryKeywords  []string `json:"industry_keywords"`

	ImprovementTips     []string `json:"profile_improvement_tips"`
	KeywordOptimization []string `json:"keyword_optimization"`

	AIBio *Bio `json:"ai_bio,omitempty"`

	GeneratedDate string  `json:"generated_date"`
	Config        *Config `json:"config_used,omitempty"`
}

var industryKeywords = map[string][]string{
	"fintech":       {"financial technology", "payments", "blockchain", "cryptocurrency", "trading", "banking"},
	"healthtech":    {"healthcare technology", "medical software", "telemedicine", "health informatics", "HIPAA"},
	"edtech":        {"educational technology", "e-learning", "online education", "learning management", "MOOC"},
	"ecommerce":     {"e-commerce", "online retail", "marketplace", "payment processing", "inventory management"},
	"saas":          {"software as a service", "cloud computing", "subscription model", "B2B software", "enterprise"},
	"gaming":        {"game development", "interactive entertainment", "mobile games", "game engine", "VR/AR"},
	"iot":           {"internet of things", "connected devices", "embedded systems", "sensor networks", "smart devices"},
	"ai":            {"artificial intelligence", "machine learning", "deep learning", "natural language processing", "computer vision"},
	"cybersecurity": {"information security", "cybersecurity", "threat detection", "security architecture", "penetration testing"},
}

var roleKeywords = map[string][]string{
	"frontend developer":   {"React", "Vue", "Angular", "JavaScript", "TypeScript", "CSS", "HTML", "responsive design", "user experience"},
	"backend developer":    {"API development", "microservices", "database design", "server architecture", "RESTful services"},
	"full stack developer": {"full-stack development", "end-to-end solutions", "frontend and backend", "complete software solutions"},
	"mobile developer":     {"iOS development", "Android development", "mobile applications", "app store", "mobile UX"},
	"devops engineer":      {"continuous integration", "continuous deployment", "infrastructure as code", "containerization", "cloud platforms"},
	"data scientist":       {"data analysis", "machine learning", "statistical modeling", "data visualization", "big data"},
	"software architect":   {"system architecture", "technical leadership", "scalable solutions", "design patterns", "technology strategy"},
	"product manager":      {"product strategy", "roadmap planning", "stakeholder management", "user research", "agile development"},
	"tech lead":            {"technical leadership", "team management", "code review", "mentoring", "technical decision making"},
}

// IndustryKeywords returns the search terms recruiters use for an industry
func IndustryKeywords(industry string) []string {
	return industryKeywords[strings.ToLower(industry)]
}

// RoleKeywords returns the search terms recruiters use for a role
func RoleKeywords(role string) []string {
	return roleKeywords[strings.ToLower(role)]
}

// 🏭 Generator builds LinkedIn content from a profile
type Generator struct {
	cfg Config
	now func() time.Time
}

func NewGenerator(cfg Config) *Generator {
	if cfg.Length == "" {
		cfg.Length = LengthMedium
	}
	return &Generator{cfg: cfg, now: time.Now}
}

// Generate derives every LinkedIn section from p
func (g *Generator) Generate(ctx context.Context, p *profile.GitHubProfile, extra AdditionalInfo) *Profile {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("username", p.Username).Str("tone", g.cfg.Tone).Str("length", g.cfg.Length).Msg("generating linkedin profile")

	cfg := g.cfg
	out := &Profile{
		Username:        p.Username,
		GeneratedDate:   g.now().Format(time.RFC3339),
		Config:          &cfg,
		Headline:        g.headline(p),
		CurrentPosition: g.currentPosition(p),
		Location:        firstNonEmpty(p.Location, extra.Location),
	}

	out.SummaryShort = g.summaryShort(p)
	out.SummaryLong = g.summaryLong(p, extra)
	switch g.cfg.Length {
	case LengthShort:
		out.Summary = out.SummaryShort
	case LengthLong:
		out.Summary = out.SummaryLong
	default:
		out.Summary = g.summaryMedium(p)
	}

	out.ExperienceDescriptions = g.experienceDescriptions(p, extra)
	out.ProjectDescriptions = g.projectDescriptions(p)
	out.TopSkills = g.topSkills(p)
	out.SkillCategories = skillCategories(p)
	out.PostIdeas = postIdeas(p)
	out.ArticleTopics = g.articleTopics(p)
	out.ConnectionTargets = g.connectionTargets(p)
	out.IndustryKeywords = g.industryKeywords(p)
	out.ImprovementTips = improvementTips(p)
	out.KeywordOptimization = keywordOptimization()

	logger.Info().Int("skills", len(out.TopSkills)).Int("headline_length", len(out.Headline)).Msg("linkedin profile generated")
	return out
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

func isSenior(p *profile.GitHubProfile) bool {
	level := strings.ToLower(p.ExperienceLevel)
	return level == "senior" || level == "lead"
}

// roleTitle turns a developer type such as "Backend" into "Backend Developer"
func roleTitle(developerType string) string {
	if developerType == "" {
		return "Software Developer"
	}
	if strings.HasSuffix(developerType, "Developer") || strings.HasSuffix(developerType, "Engineer") {
		return developerType
	}
	return developerType + " Developer"
}

func (g *Generator) opportunity() string {
	if g.cfg.MentionOpenToOpportunities {
		return " | Open to New Opportunities"
	}
	return ""
}

// headline picks the first variation that fits within MaxHeadline
func (g *Generator) headline(p *profile.GitHubProfile) string {
	target := firstNonEmpty(g.cfg.TargetRole, roleTitle(p.DeveloperType))
	role := target
	if isSenior(p) {
		role = p.ExperienceLevel + " " + target
	}

	langs := text.Head(p.PrimaryLanguages, 3)
	tech := strings.Join(langs, " | ")

	specs := []string{}
	switch {
	case p.HasWebProjects && p.HasMobileProjects:
		specs = append(specs, "Full-Stack")
	case p.HasWebProjects:
		specs = append(specs, "Web Development")
	case p.HasMobileProjects:
		specs = append(specs, "Mobile Development")
	}
	if p.HasAPIs {
		specs = append(specs, "API Development")
	}
	if p.HasCLITools {
		specs = append(specs, "Developer Tools")
	}

	results := []string{}
	if p.TotalStarsReceived > 100 {
		results = append(results, fmt.Sprintf("%d+ GitHub Stars", p.TotalStarsReceived))
	}
	if p.OriginalRepositories > 20 {
		results = append(results, fmt.Sprintf("%d Projects", p.OriginalRepositories))
	}

	industry := ""
	if g.cfg.TargetIndustry != "" {
		industry = " in " + g.cfg.TargetIndustry
	}
	opp := g.opportunity()

	variations := []string{}
	if tech != "" && len(results) > 0 {
		variations = append(variations, fmt.Sprintf("%s | %s | %s%s", role, tech, results[0], opp))
	}
	if len(specs) > 0 {
		variations = append(variations, fmt.Sprintf("%s specializing in %s%s%s", role, strings.Join(text.Head(specs, 2), " & "), industry, opp))
	}
	if len(langs) > 0 {
		second := "Full-Stack"
		if len(langs) > 1 {
			second = langs[1]
		}
		variations = append(variations, fmt.Sprintf("%s | %s & %s | Building scalable solutions%s", role, langs[0], second, opp))
	}
	variations = append(variations, fmt.Sprintf("Experienced %s | %s | Passionate about open source%s", target, firstNonEmpty(tech, "Multi-stack"), opp))

	for _, v := range variations {
		if len(v) <= MaxHeadline {
			return g.decorate(v)
		}
	}

	fallback := fmt.Sprintf("%s | %s%s", role, firstNonEmpty(text.Truncate(tech, 50), "Software Development"), opp)
	return text.Truncate(fallback, MaxHeadline)
}

// decorate prefixes the headline with an emoji when enabled and it still fits
func (g *Generator) decorate(headline string) string {
	if !g.cfg.IncludeEmojis {
		return headline
	}
	if withEmoji := "🚀 " + headline; len(withEmoji) <= MaxHeadline {
		return withEmoji
	}
	return headline
}

func (g *Generator) currentPosition(p *profile.GitHubProfile) string {
	if g.cfg.TargetRole != "" {
		return g.cfg.TargetRole
	}
	if isSenior(p) {
		return p.ExperienceLevel + " " + roleTitle(p.DeveloperType)
	}
	return roleTitle(p.DeveloperType)
}

// pronouns for first or third person copy
type pronouns struct {
	subject    string // "I'm" / "Jane is"
	possessive string // "my" / "Jane's"
	perfect    string // "I've" / "They've"
	plural     string // "I'm" / "They're"
	believe    string
}

func (g *Generator) voice(p *profile.GitHubProfile) pronouns {
	if g.cfg.UseFirstPerson {
		return pronouns{subject: "I'm", possessive: "my", perfect: "I've", plural: "I'm", believe: "I believe"}
	}
	name := "They"
	if fields := strings.Fields(p.Name); len(fields) > 0 {
		name = fields[0]
	}
	subject, possessive := name+" is", name+"'s"
	if name == "They" {
		subject, possessive = "They're", "their"
	}
	return pronouns{subject: subject, possessive: possessive, perfect: "They've", plural: "They're", believe: "They believe"}
}

func (g *Generator) summaryShort(p *profile.GitHubProfile) string {
	developerType := strings.ToLower(roleTitle(p.DeveloperType))

	var opening string
	if isSenior(p) {
		opening = fmt.Sprintf("I'm a %s %s with a passion for building innovative software solutions.", strings.ToLower(p.ExperienceLevel), developerType)
	} else {
		opening = fmt.Sprintf("I'm a %s passionate about creating impactful software solutions.", developerType)
	}

	var closing string
	switch {
	case p.TotalRepositories > 10 && p.TotalStarsReceived > 20:
		closing = fmt.Sprintf("With %d open-source projects and %d GitHub stars, I love sharing knowledge and collaborating with the developer community.", p.OriginalRepositories, p.TotalStarsReceived)
	case p.TotalRepositories > 5:
		closing = fmt.Sprintf("I've built %d open-source projects and enjoy collaborating with fellow developers.", p.OriginalRepositories)
	default:
		langs := joinSeries(text.Head(p.PrimaryLanguages, 2))
		closing = fmt.Sprintf("I specialize in %s and enjoy tackling complex technical challenges.", firstNonEmpty(langs, "modern programming languages"))
	}

	return opening + " " + closing
}

func (g *Generator) summaryMedium(p *profile.GitHubProfile) string {
	paragraphs := []string{
		g.introParagraph(p),
		g.technicalParagraph(p),
		g.achievementsParagraph(p),
	}
	if g.cfg.IncludeCallToAction {
		paragraphs = append(paragraphs, g.ctaParagraph(p))
	}
	return strings.Join(paragraphs, "\n\n")
}

func (g *Generator) summaryLong(p *profile.GitHubProfile, extra AdditionalInfo) string {
	paragraphs := []string{g.summaryMedium(p)}
	if s := g.philosophyParagraph(p); s != "" {
		paragraphs = append(paragraphs, s)
	}
	if s := g.industryParagraph(p); s != "" {
		paragraphs = append(paragraphs, s)
	}
	if g.cfg.IncludePersonalTouches {
		if s := g.personalParagraph(p, extra); s != "" {
			paragraphs = append(paragraphs, s)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func (g *Generator) introParagraph(p *profile.GitHubProfile) string {
	v := g.voice(p)
	developerType := strings.ToLower(roleTitle(p.DeveloperType))

	var opening string
	if isSenior(p) {
		opening = fmt.Sprintf("%s a %s %s with a proven track record of delivering high-impact software solutions.", v.subject, strings.ToLower(p.ExperienceLevel), developerType)
	} else {
		opening = fmt.Sprintf("%s a passionate %s dedicated to crafting innovative software that solves real-world problems.", v.subject, developerType)
	}

	props := []string{}
	if p.CollaborationScore > 70 {
		props = append(props, "collaborative approach to development")
	}
	if p.InnovationScore > 70 && g.cfg.EmphasizeInnovation {
		props = append(props, "focus on cutting-edge technologies")
	}
	if p.ReadmeRatio() > 0.8 {
		props = append(props, "commitment to clean, well-documented code")
	}

	value := "Committed to writing clean, maintainable code and delivering exceptional user experiences"
	if len(props) > 0 {
		value = fmt.Sprintf("Known for %s %s", v.possessive, strings.Join(text.Head(props, 2), " and "))
	}
	if g.cfg.TargetIndustry != "" {
		value += fmt.Sprintf(" in the %s space", g.cfg.TargetIndustry)
	}

	return opening + " " + value + "."
}

func (g *Generator) technicalParagraph(p *profile.GitHubProfile) string {
	possessive := "Their"
	if g.cfg.UseFirstPerson {
		possessive = "My"
	}

	langs := joinSeries(text.Head(p.PrimaryLanguages, 4))
	out := fmt.Sprintf("%s technical expertise spans %s", possessive, firstNonEmpty(langs, "multiple programming languages"))

	specs := []string{}
	if p.HasWebProjects {
		specs = append(specs, "web application development")
	}
	if p.HasMobileProjects {
		specs = append(specs, "mobile app development")
	}
	if p.HasAPIs {
		specs = append(specs, "API design and development")
	}
	if p.HasLibraries {
		specs = append(specs, "open-source library development")
	}
	if p.HasCLITools {
		specs = append(specs, "developer tooling")
	}
	if len(specs) > 0 {
		out += ", with particular strengths in " + joinSeries(specs)
	}

	practices := []string{}
	if p.RepositoriesWithTests > 0 {
		practices = append(practices, "test-driven development")
	}
	if p.RepositoriesWithCI > 0 {
		practices = append(practices, "continuous integration")
	}
	if p.RepositoriesWithDocker > 0 {
		practices = append(practices, "containerization")
	}
	if p.CollaborationScore > 60 {
		practices = append(practices, "collaborative development")
	}
	if len(practices) > 0 {
		out += ". Following best practices in " + strings.Join(text.Head(practices, 2), " and ")
	}

	return out + "."
}

// impact sentences by tone
var impactStatements = map[string]string{
	"professional": "demonstrating %s commitment to quality software development",
	"creative":     "reflecting %s passion for sharing knowledge with the developer community",
	"technical":    "showcasing %s ability to build solutions that resonate with other developers",
	"executive":    "demonstrating %s commitment to quality software development",
}

func (g *Generator) achievementsParagraph(p *profile.GitHubProfile) string {
	v := g.voice(p)
	possessive := "their"
	if g.cfg.UseFirstPerson {
		possessive = "my"
	}

	items := []string{}
	switch {
	case p.OriginalRepositories > 20:
		items = append(items, fmt.Sprintf("built and maintained %d open-source projects", p.OriginalRepositories))
	case p.OriginalRepositories > 5:
		items = append(items, fmt.Sprintf("created %d software projects", p.OriginalRepositories))
	}
	switch {
	case p.TotalStarsReceived > 500:
		items = append(items, fmt.Sprintf("earned over %d GitHub stars", p.TotalStarsReceived))
	case p.TotalStarsReceived > 100:
		items = append(items, fmt.Sprintf("received %d GitHub stars from the community", p.TotalStarsReceived))
	case p.TotalStarsReceived > 20:
		items = append(items, fmt.Sprintf("gained recognition with %d GitHub stars", p.TotalStarsReceived))
	}
	switch {
	case p.TotalForksReceived > 100:
		items = append(items, fmt.Sprintf("had %s work forked over %d times", possessive, p.TotalForksReceived))
	case p.TotalForksReceived > 20:
		items = append(items, fmt.Sprintf("contributed to the community with %d project forks", p.TotalForksReceived))
	}
	if n := len(p.LanguagesUsed); n > 8 {
		items = append(items, fmt.Sprintf("demonstrated proficiency across %d programming languages", n))
	}
	if len(items) == 0 {
		items = append(items, "contributed to multiple open-source projects", "maintained high code quality standards")
	}

	impact, ok := impactStatements[g.cfg.Tone]
	if !ok {
		impact = impactStatements["professional"]
	}

	return fmt.Sprintf("%s %s, %s.", v.perfect, strings.Join(text.Head(items, 2), " and "), fmt.Sprintf(impact, possessive))
}

func (g *Generator) ctaParagraph(p *profile.GitHubProfile) string {
	v := g.voice(p)
	if g.cfg.MentionOpenToOpportunities {
		return v.plural + " always open to discussing new opportunities and interesting projects."
	}
	if g.cfg.TargetIndustry != "" {
		return fmt.Sprintf("%s particularly interested in connecting with professionals in the %s industry.", v.plural, g.cfg.TargetIndustry)
	}
	verb := "connect with them"
	if g.cfg.UseFirstPerson {
		verb = "connect"
	}
	return fmt.Sprintf("Feel free to %s if you'd like to discuss technology, collaborate on projects, or share insights about software development.", verb)
}

func (g *Generator) philosophyParagraph(p *profile.GitHubProfile) string {
	if p.TotalRepositories < 10 {
		return ""
	}

	var belief string
	switch {
	case p.ReadmeRatio() > 0.7:
		belief = "that great code tells a story through clear documentation"
	case p.CollaborationScore > 60:
		belief = "in the power of collaborative development and code review"
	case p.InnovationScore > 60:
		belief = "that technology should solve real problems and create meaningful impact"
	case p.OriginalRepositories > 10:
		belief = "in giving back to the open-source community that has given so much"
	default:
		return ""
	}
	return g.voice(p).believe + " " + belief + "."
}

var industryInsights = map[string]string{
	"fintech":    "passionate about the intersection of finance and technology, particularly in areas like digital payments, blockchain applications, and financial data security.",
	"healthtech": "excited about leveraging technology to improve healthcare outcomes, with focus on patient data privacy, telemedicine solutions, and healthcare interoperability.",
	"edtech":     "committed to democratizing education through technology, creating engaging learning experiences and accessible educational tools.",
	"ecommerce":  "fascinated by the evolving e-commerce landscape, from personalized shopping experiences to supply chain optimization.",
	"ai":         "at the forefront of the AI revolution, exploring how machine learning and artificial intelligence can augment human capabilities.",
}

func (g *Generator) industryParagraph(p *profile.GitHubProfile) string {
	insight, ok := industryInsights[strings.ToLower(g.cfg.TargetIndustry)]
	if !ok {
		return ""
	}
	return g.voice(p).plural + " " + insight
}

func (g *Generator) personalParagraph(p *profile.GitHubProfile, extra AdditionalInfo) string {
	interests := extra.Interests
	if len(interests) == 0 {
		interests = extra.Hobbies
	}
	if len(interests) == 0 {
		return ""
	}

	lead, verb, work := "When they're", "they enjoy", "their"
	if g.cfg.UseFirstPerson {
		lead, verb, work = "When I'm", "I enjoy", "my"
	}
	return fmt.Sprintf("%s not coding, %s %s. These interests often inspire creative approaches to problem-solving in %s development work.",
		lead, verb, strings.Join(text.Head(interests, 2), ", "), work)
}

func (g *Generator) experienceDescriptions(p *profile.GitHubProfile, extra AdditionalInfo) []Experience {
	if len(extra.WorkExperience) > 0 {
		out := make([]Experience, 0, len(extra.WorkExperience))
		for _, exp := range extra.WorkExperience {
			out = append(out, enhanceExperience(exp, p))
		}
		return out
	}
	if exp, ok := g.synthesizedExperience(p); ok {
		return []Experience{exp}
	}
	return []Experience{}
}

var actionVerbs = strings.NewReplacer(
	"worked on", "developed",
	"was responsible for", "led",
	"helped", "collaborated to",
	"made", "built",
	"did", "executed",
	"handled", "managed",
	"used", "leveraged",
	"wrote", "authored",
)

// RewriteWithActionVerbs swaps weak verbs for stronger ones
func RewriteWithActionVerbs(description string) string {
	return actionVerbs.Replace(description)
}

func enhanceExperience(exp Experience, p *profile.GitHubProfile) Experience {
	exp.LinkedInDescription = RewriteWithActionVerbs(exp.Description)

	achievements := []string{}
	if p.TotalStarsReceived > 20 {
		achievements = append(achievements, fmt.Sprintf("• Built open-source projects that earned %d GitHub stars", p.TotalStarsReceived))
	}
	if p.CollaborationScore > 60 {
		achievements = append(achievements, "• Demonstrated strong collaborative development practices through code reviews and contributions")
	}
	exp.GitHubAchievements = achievements
	exp.SuggestedSkills = relevantSkills(exp.Technologies, p)
	return exp
}

func relevantSkills(existing []string, p *profile.GitHubProfile) []string {
	skills := append([]string{}, existing...)
	skills = append(skills, p.PrimaryLanguages...)
	if p.HasWebProjects {
		skills = append(skills, "HTML/CSS", "JavaScript", "Web Development")
	}
	if p.HasMobileProjects {
		skills = append(skills, "Mobile Development", "iOS", "Android")
	}
	if p.HasAPIs {
		skills = append(skills, "REST APIs", "API Development")
	}
	return text.Head(text.Dedupe(skills), 15)
}

func (g *Generator) synthesizedExperience(p *profile.GitHubProfile) (Experience, bool) {
	if p.TotalRepositories < 5 {
		return Experience{}, false
	}

	title := "Software Developer"
	if p.TotalStarsReceived > 100 {
		title = "Senior Open Source Developer"
	}

	accomplishments := []string{
		fmt.Sprintf("Architected and developed %d open-source software projects", p.OriginalRepositories),
	}
	if p.TotalStarsReceived > 50 {
		accomplishments = append(accomplishments, fmt.Sprintf("Earned %d GitHub stars, demonstrating code quality and community value", p.TotalStarsReceived))
	}
	if p.TotalForksReceived > 20 {
		accomplishments = append(accomplishments, fmt.Sprintf("Achieved %d project forks, indicating high reusability and adoption", p.TotalForksReceived))
	}
	if n := len(p.LanguagesUsed); n > 5 {
		accomplishments = append(accomplishments, fmt.Sprintf("Demonstrated proficiency across %d programming languages and frameworks", n))
	}

	description := activityDescription(p)
	start := g.now().Year() - min(6, max(2, p.TotalRepositories/8))

	return Experience{
		Title:               title,
		Company:             "Freelance / Open Source Community",
		StartDate:           fmt.Sprint(start),
		EndDate:             "Present",
		Description:         description,
		LinkedInDescription: description,
		Accomplishments:     accomplishments,
		Technologies:        text.Head(p.PrimaryLanguages, 6),
		GitHubBacked:        true,
	}, true
}

func activityDescription(p *profile.GitHubProfile) string {
	parts := []string{}
	switch {
	case p.HasWebProjects && p.HasMobileProjects:
		parts = append(parts, "Developed full-stack applications spanning web and mobile platforms")
	case p.HasWebProjects:
		parts = append(parts, "Specialized in web application development using modern frameworks and technologies")
	case p.HasMobileProjects:
		parts = append(parts, "Focused on mobile application development for iOS and Android platforms")
	}
	if p.HasAPIs {
		parts = append(parts, "Designed and implemented RESTful APIs and backend services")
	}
	if p.HasLibraries {
		parts = append(parts, "Created reusable software libraries and developer tools for the open-source community")
	}

	practices := []string{}
	if p.ReadmeRatio() > 0.7 {
		practices = append(practices, "comprehensive documentation")
	}
	if p.RepositoriesWithTests > 0 {
		practices = append(practices, "test-driven development")
	}
	if p.CollaborationScore > 60 {
		practices = append(practices, "collaborative development workflows")
	}
	if len(practices) > 0 {
		parts = append(parts, "Maintained high standards in "+strings.Join(text.Head(practices, 2), " and "))
	}

	if len(parts) == 0 {
		return "Developed and published open-source software projects."
	}
	return strings.Join(parts, ". ") + "."
}

func (g *Generator) projectDescriptions(p *profile.GitHubProfile) []Project {
	out := []Project{}
	for _, fp := range text.Head(p.FeaturedProjects, 6) {
		tech := []string{}
		if fp.Language != "" {
			tech = append(tech, fp.Language)
		}
		tech = append(tech, text.Head(fp.Topics, 3)...)

		out = append(out, Project{
			Name:         fp.Name,
			Description:  ProjectDescription(fp),
			Technologies: tech,
			URL:          fp.URL,
			Achievements: ProjectAchievements(fp),
			Year:         g.year(fp.UpdatedAt),
		})
	}
	return out
}

var nameSeparators = strings.NewReplacer("-", " ", "_", " ")

var typeDescriptions = map[string]string{
	"web-app":    "A comprehensive web application that demonstrates modern full-stack development practices",
	"mobile-app": "A cross-platform mobile application built with focus on user experience and performance",
	"api":        "A robust API service designed for scalability and reliability",
	"library":    "An open-source library that provides reusable components for developers",
	"cli-tool":   "A command-line tool that streamlines developer workflows and productivity",
	"other":      "A software solution addressing specific technical challenges",
}

// ProjectDescription adds community impact to a description, inventing one when empty
func ProjectDescription(fp profile.Project) string {
	desc := strings.TrimSpace(fp.Description)
	if desc == "" {
		kind, ok := typeDescriptions[fp.ProjectType]
		if !ok {
			kind = typeDescriptions["other"]
		}
		return text.Title(nameSeparators.Replace(fp.Name)) + ": " + kind + "."
	}

	impact := []string{}
	if fp.Stars > 50 {
		impact = append(impact, fmt.Sprintf("Recognized by the community with %d GitHub stars", fp.Stars))
	}
	if fp.Forks > 20 {
		impact = append(impact, fmt.Sprintf("adopted and extended by %d developers", fp.Forks))
	}
	if len(impact) == 0 {
		return desc
	}
	if !strings.HasSuffix(desc, ".") {
		desc += "."
	}
	return desc + " " + strings.Join(impact, ". ") + "."
}

// ProjectAchievements lists what a project earned on LinkedIn terms
func ProjectAchievements(fp profile.Project) []string {
	out := []string{}
	switch {
	case fp.Stars > 100:
		out = append(out, fmt.Sprintf("Achieved %d GitHub stars, indicating high community value", fp.Stars))
	case fp.Stars > 20:
		out = append(out, fmt.Sprintf("Earned %d GitHub stars from the developer community", fp.Stars))
	}
	switch {
	case fp.Forks > 50:
		out = append(out, fmt.Sprintf("Forked %d times, demonstrating practical utility and adoption", fp.Forks))
	case fp.Forks > 10:
		out = append(out, fmt.Sprintf("Successfully adopted by %d other developers", fp.Forks))
	}
	if fp.HasReadme {
		out = append(out, "Maintained comprehensive documentation and user guides")
	}
	switch fp.ProjectType {
	case "web-app":
		out = append(out, "Implemented responsive design and modern web standards")
	case "mobile-app":
		out = append(out, "Delivered cross-platform compatibility and optimized performance")
	case "api":
		out = append(out, "Designed scalable architecture with comprehensive API documentation")
	}
	return out
}

func (g *Generator) year(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format("2006")
	}
	return g.now().Format("2006")
}

func languagesAbove(p *profile.GitHubProfile, threshold float64, limit int) []string {
	out := []string{}
	for _, share := range p.LanguagesByShare() {
		if share.Percentage > threshold {
			out = append(out, share.Language)
		}
	}
	return text.Head(out, limit)
}

func (g *Generator) topSkills(p *profile.GitHubProfile) []string {
	skills := languagesAbove(p, 5, 8)

	core := []string{}
	if p.HasWebProjects {
		core = append(core, "Web Development", "Frontend Development", "Backend Development")
	}
	if p.HasMobileProjects {
		core = append(core, "Mobile Application Development", "iOS Development", "Android Development")
	}
	if p.HasAPIs {
		core = append(core, "API Development", "RESTful Services", "Microservices")
	}
	if p.HasLibraries {
		core = append(core, "Software Architecture", "Library Development")
	}
	if p.HasCLITools {
		core = append(core, "Developer Tools", "Command Line Interface")
	}
	if p.RepositoriesWithTests > 0 {
		core = append(core, "Test-Driven Development")
	}
	if p.RepositoriesWithCI > 0 {
		core = append(core, "Continuous Integration", "DevOps")
	}
	if p.RepositoriesWithDocker > 0 {
		core = append(core, "Docker")
	}
	skills = append(skills, text.Head(core, 10)...)

	soft := []string{}
	if p.CollaborationScore > 60 || g.cfg.HighlightLeadership {
		soft = append(soft, "Team Collaboration", "Code Review", "Technical Leadership")
	}
	if p.InnovationScore > 60 {
		soft = append(soft, "Problem Solving", "Innovation", "Technical Strategy")
	}
	if p.ReadmeRatio() > 0.7 {
		soft = append(soft, "Technical Writing", "Documentation")
	}
	skills = append(skills, text.Head(soft, 8)...)

	skills = append(skills, text.Head(IndustryKeywords(g.cfg.TargetIndustry), 5)...)
	skills = append(skills, text.Head(RoleKeywords(g.cfg.TargetRole), 5)...)

	return text.Head(text.Dedupe(skills), 50)
}

func skillCategories(p *profile.GitHubProfile) []SkillCategory {
	out := []SkillCategory{}
	add := func(name string, skills []string) {
		if len(skills) > 0 {
			out = append(out, SkillCategory{Name: name, Skills: skills})
		}
	}

	add("Programming Languages", languagesAbove(p, 2, 12))

	frameworks := []string{}
	if _, ok := p.LanguagesUsed["JavaScript"]; ok {
		frameworks = append(frameworks, "React", "Node.js", "Express.js")
	} else if _, ok := p.LanguagesUsed["TypeScript"]; ok {
		frameworks = append(frameworks, "React", "Node.js", "Express.js")
	}
	if _, ok := p.LanguagesUsed["Python"]; ok {
		frameworks = append(frameworks, "Django", "Flask", "FastAPI")
	}
	if _, ok := p.LanguagesUsed["Java"]; ok {
		frameworks = append(frameworks, "Spring Boot", "Spring Framework")
	}
	add("Frameworks & Technologies", text.Head(frameworks, 10))

	tools := []string{"Git", "GitHub"}
	if p.RepositoriesWithCI > 0 {
		tools = append(tools, "CI/CD", "GitHub Actions")
	}
	if p.RepositoriesWithDocker > 0 {
		tools = append(tools, "Docker")
	}
	add("Development Tools", tools)

	specs := []string{}
	if p.HasWebProjects {
		specs = append(specs, "Web Development")
	}
	if p.HasMobileProjects {
		specs = append(specs, "Mobile Development")
	}
	if p.HasAPIs {
		specs = append(specs, "API Development")
	}
	if p.HasLibraries {
		specs = append(specs, "Library Development")
	}
	add("Specializations", specs)

	return out
}

func postIdeas(p *profile.GitHubProfile) []string {
	ideas := []string{}
	for _, lang := range text.Head(p.PrimaryLanguages, 3) {
		ideas = append(ideas,
			fmt.Sprintf("Share insights about %s best practices and lessons learned from your projects", lang),
			fmt.Sprintf("Write about a challenging %s problem you solved and your approach", lang))
	}
	for _, fp := range text.Head(p.FeaturedProjects, 3) {
		ideas = append(ideas,
			fmt.Sprintf("Create a case study post about %s: the problem, solution, and results", fp.Name),
			fmt.Sprintf("Share the technical architecture and decision-making process behind %s", fp.Name))
	}
	if p.HasWebProjects {
		ideas = append(ideas, "Share thoughts on the latest web development trends and how they impact your work")
	}
	if p.HasMobileProjects {
		ideas = append(ideas, "Discuss mobile development best practices and user experience insights")
	}
	if p.HasAPIs {
		ideas = append(ideas, "Write about API design principles and common pitfalls to avoid")
	}
	if p.TotalStarsReceived > 50 {
		ideas = append(ideas, "Reflect on what you've learned from building popular open-source projects")
	}
	if p.CollaborationScore > 60 {
		ideas = append(ideas, "Share tips for effective collaboration in distributed development teams")
	}
	ideas = append(ideas,
		fmt.Sprintf("Write about your journey as a %s and key milestones", strings.ToLower(roleTitle(p.DeveloperType))),
		"Share resources and learning paths for developers wanting to improve their skills",
		"Document a technical debugging session and the systematic approach you used",
		"Share automation tools or scripts that have improved your development workflow",
	)
	return text.Head(ideas, 15)
}

func (g *Generator) articleTopics(p *profile.GitHubProfile) []string {
	topics := []string{}
	for _, lang := range text.Head(p.PrimaryLanguages, 2) {
		topics = append(topics,
			fmt.Sprintf("Advanced %s Patterns: Lessons from Building %d Projects", lang, p.OriginalRepositories),
			fmt.Sprintf("The Evolution of %s: How It's Shaped My Development Journey", lang))
	}
	if p.HasWebProjects {
		topics = append(topics, "Building Scalable Web Applications: Architecture Decisions That Matter")
	}
	if p.HasMobileProjects {
		topics = append(topics, "Mobile-First Development: Creating Apps That Users Love")
	}
	if p.HasAPIs {
		topics = append(topics, "API Design Philosophy: Creating Interfaces That Stand the Test of Time")
	}
	if p.TotalStarsReceived > 100 {
		topics = append(topics, fmt.Sprintf("From Zero to %d GitHub Stars: Building Software That Resonates", p.TotalStarsReceived))
	}
	if p.OriginalRepositories > 20 {
		topics = append(topics, "The Art of Open Source: What I've Learned from Publishing 20+ Projects")
	}
	if industry := g.cfg.TargetIndustry; industry != "" {
		topics = append(topics,
			fmt.Sprintf("Technology Trends Shaping the %s Industry in %d", industry, g.now().Year()),
			fmt.Sprintf("Building Software for %s: Challenges and Opportunities", industry))
	}
	topics = append(topics,
		fmt.Sprintf("The %s Mindset: How to Think Like a Solution Architect", roleTitle(p.DeveloperType)),
		"Continuous Learning in Tech: Staying Current in a Fast-Changing Field")
	if p.CollaborationScore > 60 {
		topics = append(topics, "Code Review Culture: Building Better Software Through Collaboration")
	}
	if p.ReadmeRatio() > 0.7 {
		topics = append(topics, "Documentation as Code: Making Your Projects Accessible and Maintainable")
	}
	return text.Head(topics, 12)
}

func (g *Generator) connectionTargets(p *profile.GitHubProfile) []string {
	targets := []string{}
	if role := strings.ToLower(g.cfg.TargetRole); role != "" {
		targets = append(targets,
			fmt.Sprintf("Senior %ss and tech leads in similar roles", role),
			fmt.Sprintf("Hiring managers looking for %s talent", role))
	}
	if industry := g.cfg.TargetIndustry; industry != "" {
		targets = append(targets,
			fmt.Sprintf("Technology leaders in the %s industry", industry),
			fmt.Sprintf("Product managers and CTOs in %s companies", industry))
	}
	for _, lang := range text.Head(p.PrimaryLanguages, 2) {
		targets = append(targets, lang+" developers and community leaders")
	}
	for _, company := range text.Head(g.cfg.CompanyPreferences, 3) {
		targets = append(targets, "Engineers and technical leaders at "+company)
	}

	locations := []string{}
	if p.Location != "" {
		locations = append(locations, p.Location)
	}
	locations = append(locations, g.cfg.LocationPreferences...)
	for _, loc := range text.Head(locations, 2) {
		targets = append(targets, "Tech professionals in "+loc)
	}

	if p.TotalStarsReceived > 50 {
		targets = append(targets, "Open source maintainers and contributors")
	}
	if p.HasLibraries {
		targets = append(targets, "Developer tool creators and library maintainers")
	}
	targets = append(targets, "Tech conference speakers and organizers", "Startup founders and early-stage company builders")
	return text.Head(targets, 10)
}

func (g *Generator) industryKeywords(p *profile.GitHubProfile) []string {
	keywords := append([]string{}, text.Head(p.PrimaryLanguages, 5)...)

	if g.cfg.OptimizeForKeywords {
		keywords = append(keywords, text.Head(RoleKeywords(g.cfg.TargetRole), 8)...)
		keywords = append(keywords, text.Head(IndustryKeywords(g.cfg.TargetIndustry), 8)...)
	}

	methods := []string{}
	if p.RepositoriesWithTests > 0 {
		methods = append(methods, "test-driven development", "unit testing", "quality assurance")
	}
	if p.RepositoriesWithCI > 0 {
		methods = append(methods, "continuous integration", "continuous deployment", "DevOps")
	}
	if p.CollaborationScore > 60 {
		methods = append(methods, "agile development", "collaborative programming", "code review")
	}
	keywords = append(keywords, text.Head(methods, 6)...)

	if p.HasWebProjects {
		keywords = append(keywords, "web applications", "full-stack development", "responsive design")
	}
	if p.HasMobileProjects {
		keywords = append(keywords, "mobile applications", "app development", "user experience")
	}
	if p.HasAPIs {
		keywords = append(keywords, "REST APIs", "microservices", "API design")
	}
	keywords = append(keywords, g.cfg.PersonalBrandKeywords...)

	return text.Head(text.Dedupe(keywords), 30)
}

func improvementTips(p *profile.GitHubProfile) []string {
	tips := []string{}
	if p.Bio == "" {
		tips = append(tips, "Add a compelling bio/summary that tells your professional story")
	}
	if p.Location == "" {
		tips = append(tips, "Include your location to improve local networking opportunities")
	}
	if p.Website == "" {
		tips = append(tips, "Add a personal website or portfolio link to showcase your work")
	}
	tips = append(tips,
		"Use industry-specific keywords in your headline and summary",
		"Include quantifiable achievements (GitHub stars, project impacts)",
		"Add skill endorsements by connecting with colleagues and peers",
		"Post regularly about your technical work and industry insights",
		"Share updates about your projects and development milestones",
		"Engage with other developers' content through thoughtful comments",
		"Connect with developers working in similar technologies",
		"Join LinkedIn groups related to your programming languages and industry",
		"Follow and engage with thought leaders in your field",
	)
	switch strings.ToLower(p.ExperienceLevel) {
	case "entry-level", "junior":
		tips = append(tips,
			"Highlight your learning journey and growth trajectory",
			"Showcase personal projects that demonstrate your skills")
	case "senior", "lead":
		tips = append(tips,
			"Emphasize leadership experience and mentoring activities",
			"Share insights about technical decision-making and architecture")
	}
	tips = append(tips,
		"Create case studies of your most successful projects",
		"Write about technical challenges you've solved",
		"Share resources and tools that have helped your development",
	)
	return text.Head(tips, 15)
}

func keywordOptimization() []string {
	return []string{
		"Include your target role and top 2-3 technologies in your headline",
		"Add industry-specific terms that recruiters search for",
		"Use your top programming languages naturally throughout your summary",
		"Include methodology keywords like 'agile', 'scrum', or 'DevOps' if applicable",
		"Mention specific frameworks and tools you're proficient in",
		"Use action verbs and quantify achievements in experience descriptions",
		"Include relevant technologies in each experience entry",
		"List both technical skills and soft skills relevant to your target role",
		"Include variations of skill names (e.g., 'JavaScript', 'JS', 'Node.js')",
		"Write posts and articles using keywords from your target job descriptions",
		"Use hashtags strategically in your posts to increase visibility",
		"Ensure all sections are completed to improve LinkedIn search ranking",
	}
}
