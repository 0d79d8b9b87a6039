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

package openrouter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/walteh/reporeadme/pkg/text"
)

var styleGuides = map[string]string{
	StyleProfessional: `• Tone: Confident, accomplished, approachable
• Language: Clear, direct, industry-appropriate
• Structure: Achievement-focused with quantifiable results
• Voice: Third-person perspective, authoritative but humble
• Keywords: Leadership, expertise, results, innovation
• Avoid: Overly casual language, buzzword overload`,
	StyleCreative: `• Tone: Innovative, passionate, authentic
• Language: Vivid, engaging, story-driven
• Structure: Journey narrative with creative metaphors
• Voice: First-person, personal yet professional
• Keywords: Innovation, creativity, vision, impact
• Avoid: Corporate jargon, overly formal language`,
	StyleTechnical: `• Tone: Precise, knowledgeable, solution-oriented
• Language: Technical accuracy with accessibility
• Structure: Problem-solution focused with metrics
• Voice: Expert practitioner, thought leader
• Keywords: Architecture, scalability, optimization, systems
• Avoid: Non-technical fluff, generic statements`,
	StyleExecutive: `• Tone: Strategic, visionary, results-driven
• Language: Business-focused, outcome-oriented
• Structure: Vision → execution → impact → future
• Voice: Thought leader, change agent
• Keywords: Strategy, transformation, growth, leadership
• Avoid: Operational details, technical jargon`,
	StyleStartup: `• Tone: Energetic, agile, growth-minded
• Language: Fast-paced, opportunity-focused
• Structure: Problem → solution → traction → vision
• Voice: Builder, innovator, risk-taker
• Keywords: Scale, disruption, innovation, growth
• Avoid: Corporate bureaucracy language, slow/safe terminology`,
}

var approaches = map[string]string{
	ApproachImprove:     "Transform this bio into a compelling narrative that showcases expertise while maintaining authenticity. Enhance clarity, impact, and professional appeal.",
	ApproachRewrite:     "Completely reimagine this bio with fresh perspective, better flow, and stronger positioning. Create a new narrative structure while preserving core achievements.",
	ApproachOptimize:    "Engineer this bio for maximum LinkedIn visibility and engagement. Focus on keyword optimization, algorithm-friendly structure, and recruiter appeal.",
	ApproachPersonalize: "Inject authentic personality and unique voice while maintaining professional standards. Make it memorable and distinctly human.",
}

var audiences = map[string]string{
	"technology": "CTOs, Engineering Managers, Tech Recruiters, Startup Founders",
	"fintech":    "Finance Leaders, Risk Managers, Fintech Recruiters, Investment Partners",
	"healthcare": "Healthcare CIOs, Medical Directors, Health Tech Recruiters",
	"ecommerce":  "E-commerce Leaders, Product Managers, Digital Marketing Directors",
	"gaming":     "Game Studio Leaders, Creative Directors, Gaming Industry Recruiters",
	"ai_ml":      "AI Research Leaders, Data Science Managers, ML Engineering Directors",
}

var promptKeywords = map[string]string{
	"technology": "software engineering, scalability, architecture, DevOps, cloud",
	"fintech":    "financial technology, compliance, risk management, payments, blockchain",
	"healthcare": "healthcare technology, patient care, medical software, HIPAA, clinical",
	"ecommerce":  "e-commerce, conversion optimization, customer experience, analytics",
	"gaming":     "game development, user engagement, monetization, player experience",
	"ai_ml":      "artificial intelligence, machine learning, data science, automation",
}

type projectCategory struct {
	name     string
	keywords []string
}

var projectCategories = []projectCategory{
	{"Web Applications", []string{"web", "app", "site", "dashboard", "portal", "frontend", "react", "vue"}},
	{"APIs & Backend", []string{"api", "backend", "server", "service", "rest", "graphql", "microservice"}},
	{"Data & Analytics", []string{"data", "analytics", "dashboard", "visualization", "ml", "ai", "analysis"}},
	{"Mobile Development", []string{"mobile", "ios", "android", "flutter", "react-native", "app"}},
	{"DevOps & Tools", []string{"cli", "tool", "automation", "deploy", "docker", "kubernetes", "ci"}},
	{"Libraries & Frameworks", []string{"library", "framework", "package", "sdk", "component"}},
	{"Games & Entertainment", []string{"game", "bot", "entertainment", "fun", "interactive"}},
	{"Blockchain & Crypto", []string{"blockchain", "crypto", "defi", "nft", "ethereum", "bitcoin"}},
}

var (
	frontendLangs = []string{"javascript", "typescript", "html", "css", "react", "vue", "angular"}
	backendLangs  = []string{"python", "java", "go", "c#", "rust", "php", "ruby", "node.js"}
	mobileLangs   = []string{"swift", "kotlin", "dart", "java", "objective-c"}
	modernLangs   = []string{"typescript", "go", "rust", "kotlin", "swift", "python"}
)

func lookup(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// EnhancementPrompt builds the full enhancement instructions for a request
func EnhancementPrompt(req EnhancementRequest) string {
	req = req.withDefaults()

	metrics := "🎯 Focus on impact and qualitative achievements"
	if req.IncludeMetrics {
		metrics = "📊 MUST include specific numbers, percentages, and quantifiable achievements"
	}

	return fmt.Sprintf(`You are an elite LinkedIn profile strategist with 15+ years of experience crafting compelling professional narratives. You've helped thousands of %[1]ss in %[2]s land their dream roles.

=== CONTEXT & BACKGROUND ===
%[3]s

=== ORIGINAL BIO TO ENHANCE ===
%[4]s

=== ENHANCEMENT MISSION ===
%[5]s

=== STYLE REQUIREMENTS ===
%[6]s

=== CRITICAL SUCCESS FACTORS ===
%[7]s
🔍 Optimize for LinkedIn algorithm: use industry keywords naturally
🎭 Target audience: %[8]s
📱 Platform optimization: LinkedIn's 220-character preview + full bio
🎪 Engagement hooks: Start strong, end with clear value proposition

=== FORMATTING GUIDELINES ===
• Length: 180-280 words (LinkedIn sweet spot)
• Structure: Hook → Expertise → Achievements → Value → CTA
• Readability: Varied sentence lengths, active voice
• Keywords: Naturally integrate %[9]s

=== OUTPUT REQUIREMENTS ===
Provide ONLY the enhanced bio text. No explanations, no prefixes, no commentary.
Make it so compelling that hiring managers can't help but click "Connect".

ENHANCED BIO:
`,
		req.Role,
		req.Industry,
		contextSection(req),
		req.OriginalBio,
		lookup(approaches, req.Approach, approaches[ApproachImprove]),
		lookup(styleGuides, req.Style, styleGuides[StyleProfessional]),
		metrics,
		lookup(audiences, req.Industry, "Hiring Managers, Team Leaders, Industry Recruiters"),
		lookup(promptKeywords, req.Industry, "innovation, technology, leadership, results"),
	)
}

// IterativePrompt builds instructions that steer away from earlier attempts
func IterativePrompt(req EnhancementRequest, previous []string, feedback string) string {
	req = req.withDefaults()

	var attempts string
	if len(previous) > 0 {
		lines := make([]string, 0, len(previous))
		for i, attempt := range previous {
			lines = append(lines, fmt.Sprintf("Attempt %d: %s...", i+1, text.Truncate(attempt, 100)))
		}
		attempts = fmt.Sprintf(`
=== PREVIOUS ATTEMPTS ANALYSIS ===
I've generated %d previous versions. Here's what we've tried:

%s

LEARNING POINTS:
• Avoid repeating exact phrases from previous attempts
• Build on successful elements while exploring new directions
• Ensure each iteration brings meaningful improvements
`, len(previous), strings.Join(lines, "\n"))
	}

	var feedbackSection string
	if feedback != "" {
		feedbackSection = fmt.Sprintf(`
=== USER FEEDBACK ===
The user specifically mentioned: "%s"

INSTRUCTIONS: Address this feedback directly while maintaining bio quality.
`, feedback)
	}

	return fmt.Sprintf(`You are an expert LinkedIn bio strategist specializing in iterative improvement. Your mission is to create a bio that learns from previous attempts and user feedback while avoiding repetition.

=== CONTEXT & BACKGROUND ===
%s

=== ORIGINAL BIO ===
%s

%s

%s

=== ITERATIVE IMPROVEMENT STRATEGY ===
1. ANALYZE what worked well in previous attempts (if any)
2. IDENTIFY patterns to avoid repeating
3. INCORPORATE user feedback meaningfully
4. EXPLORE new angles and expressions
5. MAINTAIN authenticity while pushing creative boundaries

=== STYLE REQUIREMENTS ===
%s

=== SUCCESS CRITERIA ===
✨ Must feel fresh and different from previous attempts
🎯 Directly address any user feedback provided
📈 Improve upon the strongest elements of previous versions
🚀 Push creative boundaries while staying professional
🔍 Optimize for LinkedIn engagement and discoverability

=== OUTPUT REQUIREMENTS ===
Provide ONLY the enhanced bio text. No explanations, no commentary.
Make this iteration significantly better than previous attempts.

ENHANCED BIO:
`,
		contextSection(req),
		req.OriginalBio,
		attempts,
		feedbackSection,
		lookup(styleGuides, req.Style, styleGuides[StyleProfessional]),
	)
}

func alternativePrompt(bio, style string) string {
	return fmt.Sprintf(`Create a LinkedIn bio alternative based on this original bio. Make it %[1]s in style while maintaining the core message and achievements.

Original bio:
%[2]s

Create a %[1]s alternative that:
1. Maintains the same key accomplishments
2. Uses a %[1]s tone and language
3. Optimizes for LinkedIn engagement
4. Stays authentic to the person's background

Alternative bio:
`, style, bio)
}

func keywordPrompt(bio string, keywords []string) string {
	return fmt.Sprintf(`Optimize this LinkedIn bio to naturally include these target keywords while maintaining readability and authenticity:

Target keywords: %s

Original bio:
%s

Instructions:
1. Integrate keywords naturally into the existing content
2. Maintain the professional tone and message
3. Don't force keywords - only include where they fit naturally
4. Ensure the bio remains readable and engaging
5. Prioritize the most important keywords

Optimized bio:
`, strings.Join(keywords, ", "), bio)
}

func contextSection(req EnhancementRequest) string {
	var parts []string

	if req.Username != "" {
		parts = append(parts, "👤 GitHub Profile: @"+req.Username)
	}

	if langs := text.Head(req.Languages, 5); len(langs) > 0 {
		var insight string
		switch {
		case len(langs) >= 4:
			insight = "Polyglot developer with expertise across multiple languages"
		case len(langs) >= 2:
			insight = fmt.Sprintf("Strong in %s and %s with multi-language capabilities", langs[0], langs[1])
		default:
			insight = fmt.Sprintf("Specialized in %s development", langs[0])
		}
		parts = append(parts, fmt.Sprintf("💻 Technical Stack: %s (%s)", strings.Join(langs, ", "), insight))
	}

	if projects := text.Head(req.Projects, 3); len(projects) > 0 {
		parts = append(parts, "🚀 Notable Projects: "+strings.Join(projects, ", "))
		if types := inferProjectTypes(projects); len(types) > 0 {
			parts = append(parts, "📂 Project Categories: "+strings.Join(types, ", "))
		}
	}

	if achievements := text.Head(req.Achievements, 3); len(achievements) > 0 {
		parts = append(parts, "🏆 Key Achievements: "+strings.Join(achievements, ", "))
		parts = append(parts, "🎯 Achievement Focus: "+achievementFocus(achievements))
	}

	parts = append(parts, "🎯 Target Role: "+req.Role)
	parts = append(parts, "🏢 Industry Focus: "+req.Industry)

	if insights := developerInsights(req); insights != "" {
		parts = append(parts, "🧠 Developer Profile: "+insights)
	}

	return strings.Join(parts, "\n")
}

func inferProjectTypes(projects []string) []string {
	joined := strings.ToLower(strings.Join(projects, " "))
	var out []string
	for _, cat := range projectCategories {
		if text.ContainsAny(joined, cat.keywords...) {
			out = append(out, cat.name)
		}
	}
	return text.Head(out, 3)
}

func achievementFocus(achievements []string) string {
	joined := strings.ToLower(strings.Join(achievements, " "))
	var focus []string
	if text.ContainsAny(joined, "star", "fork", "community", "open source") {
		focus = append(focus, "Community Impact")
	}
	if text.ContainsAny(joined, "performance", "optimization", "speed", "efficiency") {
		focus = append(focus, "Performance Optimization")
	}
	if text.ContainsAny(joined, "scale", "growth", "user", "traffic") {
		focus = append(focus, "Scalability & Growth")
	}
	if text.ContainsAny(joined, "innovation", "new", "first", "pioneering") {
		focus = append(focus, "Innovation Leadership")
	}
	if text.ContainsAny(joined, "team", "lead", "mentor", "manage") {
		focus = append(focus, "Technical Leadership")
	}
	if len(focus) == 0 {
		return "Technical Excellence"
	}
	return strings.Join(focus, ", ")
}

func anyIn(langs, set []string) bool {
	return slices.ContainsFunc(langs, func(l string) bool {
		return slices.Contains(set, l)
	})
}

func developerInsights(req EnhancementRequest) string {
	var insights []string

	if len(req.Languages) > 0 {
		langs := make([]string, 0, 4)
		for _, l := range text.Head(req.Languages, 4) {
			langs = append(langs, strings.ToLower(l))
		}

		front := anyIn(langs, frontendLangs)
		back := anyIn(langs, backendLangs)
		switch {
		case front && back:
			insights = append(insights, "Full-stack developer")
		case back:
			insights = append(insights, "Backend specialist")
		case front:
			insights = append(insights, "Frontend specialist")
		}
		if anyIn(langs, mobileLangs) {
			insights = append(insights, "Mobile developer")
		}

		modern := 0
		for _, l := range langs {
			if slices.Contains(modernLangs, l) {
				modern++
			}
		}
		if modern >= 2 {
			insights = append(insights, "Modern technology adopter")
		}

		switch {
		case len(langs) >= 4:
			insights = append(insights, "Technology polyglot")
		case len(langs) >= 2:
			insights = append(insights, "Multi-technology professional")
		}
	}

	if len(req.Projects) > 0 {
		joined := strings.ToLower(strings.Join(req.Projects, " "))
		if text.ContainsAny(joined, "open", "source", "community") {
			insights = append(insights, "Open source contributor")
		}
		if text.ContainsAny(joined, "startup", "business", "product") {
			insights = append(insights, "Product-focused engineer")
		}
		if text.ContainsAny(joined, "enterprise", "large", "scale") {
			insights = append(insights, "Enterprise-scale developer")
		}
	}

	return strings.Join(insights, ", ")
}
