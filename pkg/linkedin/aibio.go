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

package linkedin

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/reporeadme/pkg/profile"
	"github.com/walteh/reporeadme/pkg/text"
)

// Bio styles
const (
	StyleProfessional = "professional"
	StyleCreative     = "creative"
	StyleTechnical    = "technical"
	StyleExecutive    = "executive"
	StyleStartup      = "startup"
)

var BioStyles = []string{StyleProfessional, StyleCreative, StyleTechnical, StyleExecutive, StyleStartup}

// Engagement levels
const (
	EngagementHigh   = "high"
	EngagementMedium = "medium"
	EngagementLow    = "low"
)

// BioConfig controls the repository driven "about" bio
type BioConfig struct {
	Style            string   `json:"style"`
	Length           string   `json:"length"`
	ExperienceLevel  string   `json:"experience_level"`
	TargetRole       string   `json:"target_role"`
	TargetIndustry   string   `json:"target_industry"`
	FocusAreas       []string `json:"focus_areas,omitempty"`
	PrimaryKeywords  []string `json:"primary_keywords,omitempty"`
	ValueProposition string   `json:"value_proposition,omitempty"`

	IncludePassion      bool `json:"include_passion"`
	IncludeCallToAction bool `json:"include_call_to_action"`
}

func DefaultBioConfig() BioConfig {
	return BioConfig{
		Style:               StyleProfessional,
		Length:              LengthMedium,
		ExperienceLevel:     "mid_level",
		TargetRole:          "Software Engineer",
		TargetIndustry:      "technology",
		FocusAreas:          []string{"technical_skills", "innovation", "results"},
		IncludePassion:      true,
		IncludeCallToAction: true,
	}
}

// BioConfigFrom carries the shared LinkedIn settings over to a bio config
func BioConfigFrom(cfg Config, style string) BioConfig {
	bc := DefaultBioConfig()
	bc.Style = cmp.Or(style, bc.Style)
	bc.Length = cmp.Or(cfg.Length, bc.Length)
	bc.TargetRole = cmp.Or(cfg.TargetRole, bc.TargetRole)
	bc.TargetIndustry = cmp.Or(cfg.TargetIndustry, bc.TargetIndustry)
	bc.ExperienceLevel = cmp.Or(cfg.CareerLevel, bc.ExperienceLevel)
	bc.PrimaryKeywords = cfg.PersonalBrandKeywords
	bc.IncludeCallToAction = cfg.IncludeCallToAction
	return bc
}

// 🔍 BioAnalysis is what the repositories say about their author
type BioAnalysis struct {
	TotalRepositories int      `json:"total_repositories"`
	DiverseProjects   []string `json:"diverse_projects"`
	ComplexityScore   float64  `json:"complexity_score"`
	Innovation        []string `json:"innovation_indicators"`

	PrimaryLanguages      []string `json:"primary_languages"`
	Frameworks            []string `json:"frameworks_mastery"`
	DomainExpertise       []string `json:"domain_expertise"`
	ArchitecturalPatterns []string `json:"architectural_patterns"`

	LeadershipEvidence []string          `json:"leadership_evidence"`
	Collaboration      map[string]int    `json:"collaboration_metrics"`
	CommunityImpact    map[string]string `json:"community_impact"`
	ProblemSolving     []string          `json:"problem_solving_examples"`

	StarsReceived int `json:"stars_received"`
	ForksReceived int `json:"forks_received"`

	TechnologyEvolution []string `json:"technology_evolution"`
	ScaleGrowth         []string `json:"project_scale_growth"`
	Responsibility      []string `json:"responsibility_indicators"`

	UniqueProjects      []string `json:"unique_projects"`
	InnovativeSolutions []string `json:"innovative_solutions"`
	CrossFunctional     []string `json:"cross_functional_skills"`
}

// BioComponents are the sentences a bio is assembled from, in order
type BioComponents struct {
	OpeningHook      string `json:"opening_hook"`
	Expertise        string `json:"expertise_statement"`
	Achievements     string `json:"achievement_highlights"`
	ValueProposition string `json:"value_proposition"`
	Passion          string `json:"passion_statement,omitempty"`
	CallToAction     string `json:"call_to_action,omitempty"`
}

func (c BioComponents) parts() []string {
	return []string{c.OpeningHook, c.Expertise, c.Achievements, c.ValueProposition, c.Passion, c.CallToAction}
}

// BioMetrics scores a bio for search and readers
type BioMetrics struct {
	KeywordDensity         map[string]float64 `json:"keyword_density"`
	Readability            float64            `json:"readability_score"`
	Engagement             string             `json:"engagement_potential"`
	SEO                    float64            `json:"search_optimization_score"`
	PrimaryKeywordsUsed    []string           `json:"primary_keywords_used"`
	IndustryKeywordsUsed   []string           `json:"industry_keywords_used"`
	Uniqueness             float64            `json:"uniqueness_score"`
	AuthenticityIndicators []string           `json:"authenticity_indicators"`
}

// 🤖 Bio is a generated LinkedIn about section with its variants and scores
type Bio struct {
	Primary      string        `json:"primary_bio"`
	Alternatives []string      `json:"alternative_versions"`
	Components   BioComponents `json:"components"`
	Metrics      BioMetrics    `json:"metrics"`
	Analysis     BioAnalysis   `json:"analysis"`
	Config       BioConfig     `json:"config_used"`
}

type bioTemplate struct {
	opening, expertise, achievements, value, passion, cta string
}

var bioTemplates = map[string]bioTemplate{
	StyleProfessional: {
		opening:      "Experienced {role} with {years}+ years building {domain} solutions",
		expertise:    "Expert in {technologies} with proven track record in {domains}",
		achievements: "Led {achievement_count} successful projects resulting in {impact}",
		value:        "I transform complex technical challenges into elegant, scalable solutions",
		passion:      "Passionate about {passion_areas} and continuous learning",
		cta:          "Let's connect to discuss {topics}",
	},
	StyleCreative: {
		opening:      "I turn ideas into code and dreams into digital reality ✨",
		expertise:    "My toolkit: {technologies} | My superpower: {unique_skill}",
		achievements: "🏆 Built {notable_projects} that {impact_description}",
		value:        "I believe great software should be both powerful and beautiful",
		passion:      "When I'm not coding, you'll find me {hobbies} 🎯",
		cta:          "Let's create something amazing together! 💡",
	},
	StyleTechnical: {
		opening:      "Senior {role} with deep expertise in {technical_domains}",
		expertise:    "Core competencies: {technologies} | Architecture: {patterns}",
		achievements: "Architected systems handling {scale} with {performance_metrics}",
		value:        "I design and build robust, scalable systems that perform under pressure",
		passion:      "Constantly exploring {emerging_technologies} and {research_areas}",
		cta:          "Open to discussing architecture, scalability, and {technical_topics}",
	},
	StyleExecutive: {
		opening:      "{title} driving digital transformation through {strategic_focus}",
		expertise:    "Strategic expertise in {domains} with hands-on {technical_background}",
		achievements: "Led teams of {team_size}+ delivering {business_outcomes}",
		value:        "I align technology strategy with business objectives for maximum impact",
		passion:      "Passionate about {leadership_focus} and {organizational_development}",
		cta:          "Open to board positions and strategic consulting opportunities",
	},
	StyleStartup: {
		opening:      "Startup veteran building {solutions} that {impact}",
		expertise:    "End-to-end product development: {technologies} + {business_skills}",
		achievements: "Built and launched {products} from 0 to {scale}",
		value:        "I build products that solve real problems for real people",
		passion:      "Obsessed with {product_focus} and {user_experience}",
		cta:          "Let's build something amazing together 🚀",
	},
}

var templateDefaults = map[string]string{
	"role":                       "Software Engineer",
	"years":                      "3",
	"domain":                     "software development",
	"technologies":               "modern technologies",
	"domains":                    "technology",
	"achievement_count":          "5",
	"impact":                     "significant community impact",
	"scale":                      "global developers",
	"notable_projects":           "key projects",
	"impact_description":         "gained recognition",
	"passion_areas":              "technology and innovation",
	"topics":                     "technology and innovation",
	"unique_skill":               "problem solving",
	"hobbies":                    "exploring new technologies",
	"technical_domains":          "software engineering",
	"patterns":                   "modern architectures",
	"performance_metrics":        "optimal performance",
	"emerging_technologies":      "AI and cloud technologies",
	"research_areas":             "emerging technologies",
	"technical_topics":           "software architecture",
	"title":                      "Technology Leader",
	"strategic_focus":            "digital innovation",
	"technical_background":       "engineering excellence",
	"team_size":                  "20",
	"business_outcomes":          "measurable outcomes",
	"leadership_focus":           "team development",
	"organizational_development": "culture building",
	"solutions":                  "innovative software solutions",
	"business_skills":            "strategic thinking",
	"products":                   "innovative solutions",
	"product_focus":              "user experience",
	"user_experience":            "seamless interfaces",
}

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// fillTemplate resolves {name} from vars, then the defaults; unknown names render as [name]
func fillTemplate(tmpl string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		if v := vars[key]; v != "" {
			return v
		}
		if v, ok := templateDefaults[key]; ok {
			return v
		}
		return "[" + key + "]"
	})
}

var technologyKeywords = []string{
	"software development", "engineering", "architecture", "scalability",
	"innovation", "digital transformation", "agile", "devops", "cloud",
	"microservices", "api", "full-stack", "backend", "frontend",
}

// bioIndustryKeywords falls back to general technology terms
func bioIndustryKeywords(industry string) []string {
	if kw := IndustryKeywords(industry); len(kw) > 0 {
		return kw
	}
	return technologyKeywords
}

// 🏭 BioGenerator writes LinkedIn bios from repository analysis
type BioGenerator struct {
	cfg BioConfig
}

func NewBioGenerator(cfg BioConfig) *BioGenerator {
	if _, ok := bioTemplates[cfg.Style]; !ok {
		cfg.Style = StyleProfessional
	}
	cfg.Length = cmp.Or(cfg.Length, LengthMedium)
	cfg.TargetRole = cmp.Or(cfg.TargetRole, "Software Engineer")
	return &BioGenerator{cfg: cfg}
}

// Generate analyzes p, assembles a bio in the configured style and scores it
func (g *BioGenerator) Generate(ctx context.Context, p *profile.GitHubProfile) *Bio {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("username", p.Username).Str("style", g.cfg.Style).Msg("generating ai bio")

	analysis := AnalyzeForBio(p)
	components := g.components(g.cfg.Style, p, analysis)
	primary := AdjustLength(assemble(components), g.cfg.Length)

	bio := &Bio{
		Primary:      primary,
		Alternatives: g.alternatives(p, analysis, components),
		Components:   components,
		Metrics:      g.Score(primary),
		Analysis:     analysis,
		Config:       g.cfg,
	}

	logger.Info().
		Float64("complexity", analysis.ComplexityScore).
		Float64("seo", bio.Metrics.SEO).
		Str("engagement", bio.Metrics.Engagement).
		Int("words", len(text.Words(primary))).
		Msg("ai bio generated")
	return bio
}

// Score computes every optimization metric for bio
func (g *BioGenerator) Score(bio string) BioMetrics {
	industry := bioIndustryKeywords(g.cfg.TargetIndustry)
	return BioMetrics{
		KeywordDensity:         KeywordDensity(bio, g.cfg.PrimaryKeywords),
		Readability:            ReadabilityScore(bio),
		Engagement:             EngagementPotential(bio),
		SEO:                    SEOScore(bio, g.cfg.TargetRole, industry, g.cfg.PrimaryKeywords),
		PrimaryKeywordsUsed:    UsedKeywords(bio, g.cfg.PrimaryKeywords),
		IndustryKeywordsUsed:   UsedKeywords(bio, industry),
		Uniqueness:             UniquenessScore(bio),
		AuthenticityIndicators: AuthenticityIndicators(bio),
	}
}

func assemble(c BioComponents) string {
	var parts []string
	for _, s := range c.parts() {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, terminate(s))
		}
	}
	return strings.Join(parts, " ")
}

// terminate ends s with a full stop unless it already ends a sentence or with an emoji
func terminate(s string) string {
	if s == "" {
		return s
	}
	last := s[len(s)-1]
	if last == '.' || last == '!' || last == '?' || last >= 0x80 {
		return s
	}
	return s + "."
}

// alternatives are a short cut of the primary plus the creative and technical takes
func (g *BioGenerator) alternatives(p *profile.GitHubProfile, a BioAnalysis, c BioComponents) []string {
	short := strings.Join([]string{terminate(c.OpeningHook), terminate(c.Expertise)}, " ")
	if c.CallToAction != "" {
		short += " " + terminate(c.CallToAction)
	}
	out := []string{AdjustLength(short, LengthShort)}

	for _, style := range []string{StyleCreative, StyleTechnical} {
		if style == g.cfg.Style {
			continue
		}
		out = append(out, AdjustLength(assemble(g.components(style, p, a)), g.cfg.Length))
	}
	return out
}

func (g *BioGenerator) components(style string, p *profile.GitHubProfile, a BioAnalysis) BioComponents {
	t := bioTemplates[style]
	vars := g.variables(p, a)

	c := BioComponents{
		OpeningHook:      fillTemplate(t.opening, vars),
		Expertise:        fillTemplate(t.expertise, vars),
		Achievements:     fillTemplate(t.achievements, vars),
		ValueProposition: cmp.Or(g.cfg.ValueProposition, t.value),
	}
	if g.cfg.IncludePassion {
		c.Passion = fillTemplate(t.passion, vars)
	}
	if g.cfg.IncludeCallToAction {
		c.CallToAction = fillTemplate(t.cta, vars)
	}
	return c
}

func (g *BioGenerator) variables(p *profile.GitHubProfile, a BioAnalysis) map[string]string {
	primaryLang := "technology"
	if len(a.PrimaryLanguages) > 0 {
		primaryLang = a.PrimaryLanguages[0]
	}
	return map[string]string{
		"role":               g.cfg.TargetRole,
		"years":              ExperienceYears(p.TotalRepositories),
		"domain":             primaryDomain(a),
		"technologies":       strings.Join(text.Head(a.PrimaryLanguages, 4), ", "),
		"domains":            strings.Join(text.Head(a.DomainExpertise, 3), ", "),
		"achievement_count":  fmt.Sprint(len(p.FeaturedProjects)),
		"impact":             fmt.Sprintf("%s stars and %s forks", text.Comma(a.StarsReceived), text.Comma(a.ForksReceived)),
		"scale":              ImpactScale(a.StarsReceived),
		"notable_projects":   strings.Join(text.Head(a.UniqueProjects, 2), ", "),
		"impact_description": "gained significant community recognition",
		"passion_areas":      strings.Join(text.Head(a.DomainExpertise, 2), ", "),
		"topics":             joinSeries(append(text.Head(slices.Clone(a.DomainExpertise), 2), "innovation")),
		"technical_domains":  strings.Join(text.Head(a.DomainExpertise, 2), " and "),
		"patterns":           strings.Join(text.Head(a.ArchitecturalPatterns, 3), ", "),
		"technical_topics":   primaryLang + " development",
	}
}

// 🔍 AnalyzeForBio reads the profile for the signals a bio draws on
func AnalyzeForBio(p *profile.GitHubProfile) BioAnalysis {
	return BioAnalysis{
		TotalRepositories:     len(p.FeaturedProjects),
		StarsReceived:         p.TotalStarsReceived,
		ForksReceived:         p.TotalForksReceived,
		DiverseProjects:       projectDiversity(p),
		ComplexityScore:       ComplexityScore(p),
		Innovation:            innovationIndicators(p),
		PrimaryLanguages:      slices.Clone(text.Head(p.PrimaryLanguages, 5)),
		Frameworks:            frameworks(p),
		DomainExpertise:       DomainExpertise(p),
		ArchitecturalPatterns: ArchitecturalPatterns(p),
		LeadershipEvidence:    LeadershipEvidence(p),
		Collaboration: map[string]int{
			"stars_received": p.TotalStarsReceived,
			"forks_received": p.TotalForksReceived,
			"public_repos":   p.PublicRepositories,
			"total_repos":    p.TotalRepositories,
		},
		CommunityImpact:     communityImpact(p),
		ProblemSolving:      problemSolving(p),
		TechnologyEvolution: technologyEvolution(p),
		ScaleGrowth:         scaleGrowth(p),
		Responsibility:      responsibility(p),
		UniqueProjects:      uniqueProjects(p),
		InnovativeSolutions: innovativeSolutions(p),
		CrossFunctional:     crossFunctional(p),
	}
}

func ratio(n, total int) float64 {
	return float64(n) / float64(max(total, 1))
}

func hasLanguage(p *profile.GitHubProfile, langs ...string) bool {
	for _, l := range p.PrimaryLanguages {
		if slices.Contains(langs, l) {
			return true
		}
	}
	return false
}

func categories(p *profile.GitHubProfile) []string {
	var out []string
	for _, c := range slices.Sorted(maps.Keys(p.ProjectCategories)) {
		if len(p.ProjectCategories[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// 📊 ComplexityScore rates breadth and engineering practice from 0 to 100
func ComplexityScore(p *profile.GitHubProfile) float64 {
	score := float64(min(len(p.PrimaryLanguages)*5, 30))

	score += ratio(p.RepositoriesWithReadme, p.TotalRepositories) * 20
	score += ratio(p.RepositoriesWithTests, p.TotalRepositories) * 15
	score += ratio(p.RepositoriesWithCI, p.TotalRepositories) * 10

	switch stars := p.TotalStarsReceived; {
	case stars > 100:
		score += 15
	case stars > 50:
		score += 10
	case stars > 10:
		score += 5
	}

	switch forks := p.TotalForksReceived; {
	case forks > 20:
		score += 10
	case forks > 5:
		score += 5
	}

	return min(score, 100)
}

var categoryDomains = map[string]string{
	"web-app":          "Web Development",
	"mobile-app":       "Mobile Development",
	"api":              "API Development",
	"library":          "Library Development",
	"cli-tool":         "DevOps & Automation",
	"data-science":     "Data Science",
	"machine-learning": "Machine Learning",
}

var languageDomains = map[string]string{
	"JavaScript": "Frontend Development",
	"TypeScript": "Full-stack Development",
	"Python":     "Backend Development",
	"Java":       "Enterprise Development",
	"C++":        "Systems Programming",
	"Swift":      "iOS Development",
	"Kotlin":     "Android Development",
	"Go":         "Cloud Infrastructure",
	"Rust":       "Systems Programming",
}

// 🧭 DomainExpertise names the domains implied by project categories and the top three languages
func DomainExpertise(p *profile.GitHubProfile) []string {
	var out []string
	for _, c := range categories(p) {
		if d, ok := categoryDomains[c]; ok {
			out = append(out, d)
		}
	}
	for _, lang := range text.Head(p.PrimaryLanguages, 3) {
		if d, ok := languageDomains[lang]; ok {
			out = append(out, d)
		}
	}
	return text.Dedupe(out)
}

// 🏛️ ArchitecturalPatterns infers patterns from docker use, project names and languages
func ArchitecturalPatterns(p *profile.GitHubProfile) []string {
	var out []string
	if p.RepositoriesWithDocker > 0 {
		out = append(out, "Containerization")
	}
	for _, proj := range p.FeaturedProjects {
		if text.ContainsAny(strings.ToLower(proj.Name+" "+proj.Description), "microservice") {
			out = append(out, "Microservices")
			break
		}
	}
	for _, proj := range p.FeaturedProjects {
		if strings.Contains(strings.ToLower(proj.Name), "api") {
			out = append(out, "RESTful APIs")
			break
		}
	}
	if hasLanguage(p, "JavaScript", "TypeScript") {
		out = append(out, "Single Page Applications", "Component Architecture")
	}
	if hasLanguage(p, "Python") {
		out = append(out, "MVC Architecture")
	}
	return out
}

// 👑 LeadershipEvidence lists the leadership signals in reach, documentation and testing
func LeadershipEvidence(p *profile.GitHubProfile) []string {
	var out []string
	if p.TotalStarsReceived > 100 {
		out = append(out, "Open source thought leader")
	}
	if p.TotalForksReceived > 20 {
		out = append(out, "Collaborative project leader")
	}
	if ratio(p.RepositoriesWithReadme, p.TotalRepositories) > 0.8 {
		out = append(out, "Documentation advocate")
	}
	if ratio(p.RepositoriesWithTests, p.TotalRepositories) > 0.5 {
		out = append(out, "Quality engineering leader")
	}
	return out
}

func projectDiversity(p *profile.GitHubProfile) []string {
	var out []string
	for _, c := range categories(p) {
		out = append(out, text.Title(strings.ReplaceAll(c, "-", " ")))
	}
	if len(p.PrimaryLanguages) > 3 {
		out = append(out, "Multi-language proficiency")
	}
	return out
}

var aiKeywords = []string{"ai", "ml", "machine-learning", "neural", "tensorflow", "pytorch"}

func innovationIndicators(p *profile.GitHubProfile) []string {
	var out []string
	if hasLanguage(p, "Rust", "Go", "TypeScript", "Kotlin", "Swift", "Python") {
		out = append(out, "Adopts modern technologies")
	}
	for _, proj := range p.FeaturedProjects {
		if text.ContainsAny(strings.ToLower(proj.Description), aiKeywords...) {
			out = append(out, "AI/ML innovation")
			break
		}
	}
	if p.TotalStarsReceived > 50 {
		out = append(out, "Community-recognized projects")
	}
	if len(p.ProjectCategories) > 3 {
		out = append(out, "Cross-domain expertise")
	}
	return out
}

var languageFrameworks = map[string][]string{
	"JavaScript": {"React", "Node.js"},
	"TypeScript": {"Angular", "React"},
	"Python":     {"Django", "Flask"},
	"Java":       {"Spring", "Spring Boot"},
	"C#":         {".NET", "ASP.NET"},
	"Go":         {"Gin", "Echo"},
	"Rust":       {"Actix", "Rocket"},
}

// frameworks are the eight most used detected frameworks, then the usual ones for each language
func frameworks(p *profile.GitHubProfile) []string {
	used := slices.SortedFunc(maps.Keys(p.FrameworksUsed), func(a, b string) int {
		return cmp.Or(cmp.Compare(p.FrameworksUsed[b], p.FrameworksUsed[a]), cmp.Compare(a, b))
	})
	out := slices.Clone(text.Head(used, 8))
	for _, lang := range p.PrimaryLanguages {
		out = append(out, languageFrameworks[lang]...)
	}
	return text.Head(text.Dedupe(out), 10)
}

func communityImpact(p *profile.GitHubProfile) map[string]string {
	impact := map[string]string{
		"visibility":   "low",
		"contribution": "moderate",
		"influence":    "growing",
	}
	switch {
	case p.TotalStarsReceived > 100:
		impact["visibility"] = "high"
	case p.TotalStarsReceived > 20:
		impact["visibility"] = "medium"
	}
	if p.PublicRepositories > 10 {
		impact["contribution"] = "active"
	}
	if p.TotalForksReceived > 50 {
		impact["influence"] = "significant"
	}
	return impact
}

func problemSolving(p *profile.GitHubProfile) []string {
	var out []string
	for _, proj := range text.Head(p.FeaturedProjects, 5) {
		desc := strings.ToLower(proj.Description)
		switch {
		case desc == "":
		case text.ContainsAny(desc, "optimization", "improved", "enhanced", "automated", "simplified"):
			out = append(out, "Optimized "+proj.Name)
		case text.ContainsAny(desc, "built", "created", "developed", "designed"):
			out = append(out, "Architected "+proj.Name)
		}
	}
	return out
}

var modernFrameworks = []string{"React", "Vue", "Angular", "Django", "Flask", "Spring Boot"}

func technologyEvolution(p *profile.GitHubProfile) []string {
	var out []string
	if len(p.PrimaryLanguages) > 3 {
		out = append(out, "Multi-language proficiency evolution")
	}
	modern := 0
	for fw := range p.FrameworksUsed {
		if slices.Contains(modernFrameworks, fw) {
			modern++
		}
	}
	if modern > 2 {
		out = append(out, "Modern framework adoption")
	}
	return out
}

func scaleGrowth(p *profile.GitHubProfile) []string {
	var out []string
	switch {
	case p.TotalStarsReceived > 200:
		out = append(out, "Large-scale project success")
	case p.TotalStarsReceived > 50:
		out = append(out, "Medium-scale project impact")
	}
	if p.TotalRepositories > 30 {
		out = append(out, "Extensive portfolio development")
	}
	return out
}

func responsibility(p *profile.GitHubProfile) []string {
	var out []string
	if p.OriginalRepositories > p.ForkedRepositories {
		out = append(out, "Original project creator")
	}
	if ratio(p.RepositoriesWithReadme, p.TotalRepositories) > 0.7 {
		out = append(out, "Documentation ownership")
	}
	if ratio(p.RepositoriesWithTests, p.TotalRepositories) > 0.4 {
		out = append(out, "Quality assurance leadership")
	}
	return out
}

// uniqueProjects are the three most starred featured projects with more than ten stars
func uniqueProjects(p *profile.GitHubProfile) []string {
	sorted := slices.SortedStableFunc(slices.Values(p.FeaturedProjects), func(a, b profile.Project) int {
		return cmp.Compare(b.Stars, a.Stars)
	})
	var out []string
	for _, proj := range text.Head(sorted, 3) {
		if proj.Stars > 10 {
			out = append(out, proj.Name)
		}
	}
	return out
}

func innovativeSolutions(p *profile.GitHubProfile) []string {
	var out []string
	for _, proj := range p.FeaturedProjects {
		if text.ContainsAny(strings.ToLower(proj.Description), "ai", "ml", "blockchain", "automation", "optimization", "real-time") {
			out = append(out, "Innovative "+proj.Name)
		}
	}
	return text.Head(out, 3)
}

func crossFunctional(p *profile.GitHubProfile) []string {
	var out []string
	if hasLanguage(p, "JavaScript", "TypeScript", "HTML", "CSS") && hasLanguage(p, "Python", "Java", "Go", "C#", "PHP", "Ruby") {
		out = append(out, "Full-stack development")
	}
	if p.RepositoriesWithDocker > 0 {
		out = append(out, "DevOps & Infrastructure")
	}
	if hasLanguage(p, "Python") {
		out = append(out, "Data analysis & automation")
	}
	if hasLanguage(p, "Swift", "Kotlin", "Dart", "Java") {
		out = append(out, "Mobile development")
	}
	return out
}

// ExperienceYears estimates years of experience from the repository count
func ExperienceYears(repos int) string {
	switch {
	case repos > 50:
		return "5"
	case repos > 30:
		return "3"
	case repos > 15:
		return "2"
	default:
		return "1"
	}
}

// ImpactScale describes who a body of work reached
func ImpactScale(stars int) string {
	switch {
	case stars > 500:
		return "thousands of developers"
	case stars > 100:
		return "hundreds of developers"
	case stars > 20:
		return "dozens of developers"
	default:
		return "the developer community"
	}
}

func primaryDomain(a BioAnalysis) string {
	if len(a.DomainExpertise) > 0 {
		return strings.ToLower(a.DomainExpertise[0])
	}
	return "software development"
}

var lengthLimits = map[string]int{
	LengthShort:  50,
	LengthMedium: 100,
	LengthLong:   150,
}

// ✂️ AdjustLength cuts bio to the word limit of length, ending in "..." when cut
func AdjustLength(bio, length string) string {
	limit, ok := lengthLimits[length]
	words := text.Words(bio)
	if !ok || len(words) <= limit {
		return bio
	}
	return strings.Join(words[:limit], " ") + "..."
}

// 📈 KeywordDensity is the percentage of words containing each keyword
func KeywordDensity(bio string, keywords []string) map[string]float64 {
	words := text.Words(strings.ToLower(bio))
	out := make(map[string]float64, len(keywords))
	for _, kw := range keywords {
		if len(words) == 0 {
			out[kw] = 0
			continue
		}
		count := 0
		for _, w := range words {
			if strings.Contains(w, strings.ToLower(kw)) {
				count++
			}
		}
		out[kw] = float64(count) / float64(len(words)) * 100
	}
	return out
}

// 📖 ReadabilityScore buckets the average sentence length: short sentences read best
func ReadabilityScore(bio string) float64 {
	sentences := strings.Count(bio, ".") + strings.Count(bio, "!") + strings.Count(bio, "?")
	if sentences == 0 {
		return 50
	}
	avg := float64(len(text.Words(bio))) / float64(sentences)
	switch {
	case avg <= 15:
		return 85
	case avg <= 20:
		return 70
	default:
		return 55
	}
}

var engagementWords = []string{
	"passionate", "innovative", "love", "excited", "driven",
	"enthusiastic", "committed", "dedicated", "obsessed",
}

// 💬 EngagementPotential is high with three or more energetic words, medium with one
func EngagementPotential(bio string) string {
	switch n := text.CountContaining(strings.ToLower(bio), engagementWords...); {
	case n >= 3:
		return EngagementHigh
	case n >= 1:
		return EngagementMedium
	default:
		return EngagementLow
	}
}

var seoActionWords = []string{"built", "created", "developed", "led", "managed", "designed", "architected"}

// 🔎 SEOScore weighs the target role, industry terms, personal keywords and action words
func SEOScore(bio, role string, industry, primary []string) float64 {
	lower := strings.ToLower(bio)

	score := 0
	if role != "" && strings.Contains(lower, strings.ToLower(role)) {
		score += 20
	}
	score += min(len(UsedKeywords(bio, industry))*5, 30)
	score += min(len(UsedKeywords(bio, primary))*10, 30)
	score += min(text.CountContaining(lower, seoActionWords...)*4, 20)

	return float64(min(score, 100))
}

// UsedKeywords returns the keywords that appear in bio, case-insensitively
func UsedKeywords(bio string, keywords []string) []string {
	lower := strings.ToLower(bio)
	var out []string
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			out = append(out, kw)
		}
	}
	return out
}

var specificDetails = []string{
	"github", "open source", "stars", "repositories", "projects",
	"ai", "ml", "machine learning", "automation", "optimization",
}

// 🦄 UniquenessScore rewards concrete details, 15 points each
func UniquenessScore(bio string) float64 {
	return float64(min(text.CountContaining(strings.ToLower(bio), specificDetails...)*15, 100))
}

var digits = regexp.MustCompile(`\d+`)

// ✅ AuthenticityIndicators names the kinds of evidence a bio offers
func AuthenticityIndicators(bio string) []string {
	lower := strings.ToLower(bio)
	var out []string
	if text.ContainsAny(lower, "github", "open source", "repositories") {
		out = append(out, "Technical authenticity")
	}
	if text.ContainsAny(lower, "passionate", "love", "excited", "driven") {
		out = append(out, "Personal passion")
	}
	if text.ContainsAny(lower, "built", "created", "developed", "led") {
		out = append(out, "Concrete achievements")
	}
	if digits.MatchString(bio) {
		out = append(out, "Quantified results")
	}
	return out
}
