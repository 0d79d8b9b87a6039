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
	"math"
	"strings"

	"github.com/walteh/reporeadme/pkg/text"
)

// Bio styles
const (
	StyleProfessional   = "professional"
	StyleCreative       = "creative"
	StyleTechnical      = "technical"
	StyleExecutive      = "executive"
	StyleStartup        = "startup"
	StyleConversational = "conversational"
)

// Styles lists the styles with a dedicated evaluator
var Styles = []string{StyleProfessional, StyleCreative, StyleTechnical, StyleExecutive, StyleStartup}

// Category is one weighted dimension of a style evaluation
type Category struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// 🎯 Evaluation scores a bio against a style
type Evaluation struct {
	Style      string     `json:"style"`
	Overall    float64    `json:"overall_score"`
	Categories []Category `json:"category_scores"`
	Feedback   []string   `json:"feedback"`
	Compliance string     `json:"style_compliance"`
}

// Score returns the named category score
func (e Evaluation) Score(name string) float64 {
	for _, c := range e.Categories {
		if c.Name == name {
			return c.Score
		}
	}
	return 0
}

// Lowest returns the weakest category
func (e Evaluation) Lowest() (Category, bool) {
	if len(e.Categories) == 0 {
		return Category{}, false
	}
	low := e.Categories[0]
	for _, c := range e.Categories[1:] {
		if c.Score < low.Score {
			low = c
		}
	}
	return low, true
}

type check struct {
	category  string
	threshold float64
	message   string
}

type rubric struct {
	pass     float64
	passName string
	failName string
	checks   []check
	score    func(bio, lower string, m TextMetrics) []Category
}

func (r rubric) evaluate(style, bio string) Evaluation {
	m := AnalyzeText(bio)
	cats := r.score(bio, strings.ToLower(bio), m)

	out := Evaluation{Style: style, Categories: cats, Feedback: []string{}}
	for i := range out.Categories {
		out.Categories[i].Score = min(100, out.Categories[i].Score)
		out.Overall += out.Categories[i].Score * out.Categories[i].Weight
	}
	for _, c := range r.checks {
		if out.Score(c.category) < c.threshold {
			out.Feedback = append(out.Feedback, c.message)
		}
	}
	out.Compliance = r.failName
	if out.Overall >= r.pass {
		out.Compliance = r.passName
	}
	return out
}

func per(lower string, points float64, terms ...string) float64 {
	return points * float64(text.CountContaining(lower, terms...))
}

func when(cond bool, points float64) float64 {
	if cond {
		return points
	}
	return 0
}

var rubrics = map[string]rubric{
	StyleProfessional: {
		pass: 75, passName: "Professional", failName: "Needs improvement",
		checks: []check{
			{"authority", 70, "Add more quantifiable achievements and strong action verbs"},
			{"clarity", 70, "Improve sentence structure and overall clarity"},
			{"engagement", 50, "Include more personality and passion indicators"},
		},
		score: func(_, lower string, m TextMetrics) []Category {
			clarity := max(0, 40-math.Abs(m.WordsPerSentence-17.5)*2)
			if m.WordsPerSentence >= 15 && m.WordsPerSentence <= 20 {
				clarity = 40
			}
			clarity += when(m.Words >= 180 && m.Words <= 280, 35) + when(m.SentenceVariety > 3, 25)

			return []Category{
				{"authority", when(m.ProfessionalSignals >= 2, 40) + when(m.Numbers >= 2, 30) + when(m.ActionVerbs >= 3, 30), 0.3},
				{"clarity", clarity, 0.25},
				{"relevance", per(lower, 20, "experience", "expertise", "professional", "results", "successful", "proven"), 0.2},
				{"engagement", per(lower, 25, "passionate", "driven", "committed", "focused", "dedicated"), 0.15},
				{"optimization", when(m.KeywordDensity > 5, 50) + when(m.TechnicalTerms >= 2, 50), 0.1},
			}
		},
	},
	StyleCreative: {
		pass: 75, passName: "Creative", failName: "Needs more creativity",
		checks: []check{
			{"creativity", 70, "Add more creative language and unique expressions"},
			{"storytelling", 70, "Improve narrative flow and personal story elements"},
			{"authenticity", 50, "Include more personal passion and authentic voice"},
		},
		score: func(bio, lower string, m TextMetrics) []Category {
			creativity := per(lower, 20, "innovative", "creative", "passionate", "vision", "imagination", "artistic") +
				per(lower, 15, "journey", "craft", "build", "create", "design", "architect")
			return []Category{
				{"creativity", creativity, 0.35},
				{"storytelling", when(m.SentenceVariety > 4, 40) + when(m.EngagementWords >= 2, 35) + when(strings.Contains(bio, "I"), 25), 0.25},
				{"authenticity", per(lower, 25, "love", "enjoy", "excited", "believe", "dream", "inspire"), 0.2},
				{"visual_appeal", when(text.ContainsAny(bio, "✨", "🚀", "💡"), 50) + when(m.SentenceVariety > 3, 50), 0.1},
				{"professional_balance", when(m.ProfessionalSignals >= 1, 50) + when(m.ActionVerbs >= 2, 50), 0.1},
			}
		},
	},
	StyleTechnical: {
		pass: 75, passName: "Technical", failName: "Needs more technical depth",
		checks: []check{
			{"technical_expertise", 70, "Include more specific technical terminology and concepts"},
			{"quantified_results", 70, "Add more specific metrics and performance indicators"},
			{"problem_solving", 60, "Emphasize problem-solving achievements and solutions"},
		},
		score: func(_, lower string, m TextMetrics) []Category {
			expertise := when(m.TechnicalTerms >= 3, 40) + when(m.TechnicalTerms >= 5, 20) +
				per(lower, 10, "architecture", "scalability", "optimization", "performance", "systems", "algorithms")

			var results float64
			switch {
			case m.Numbers >= 3:
				results = 100
			case m.Numbers >= 2:
				results = 70
			case m.Numbers >= 1:
				results = 40
			}

			density := float64(m.TechnicalTerms) / float64(max(m.Words, 1)) * 100
			return []Category{
				{"technical_expertise", expertise, 0.4},
				{"problem_solving", per(lower, 15, "solved", "optimized", "improved", "designed", "architected", "built", "implemented"), 0.25},
				{"quantified_results", results, 0.2},
				{"precision", when(m.WordsPerSentence >= 12 && m.WordsPerSentence <= 18, 60) + when(density > 3, 40), 0.1},
				{"industry_standards", per(lower, 20, "best practices", "standards", "methodologies", "frameworks", "protocols"), 0.05},
			}
		},
	},
	StyleExecutive: {
		pass: 80, passName: "Executive", failName: "Needs executive presence",
		checks: []check{
			{"strategic_vision", 70, "Emphasize strategic thinking and visionary leadership"},
			{"leadership", 70, "Include more evidence of team leadership and mentorship"},
			{"business_impact", 70, "Add specific business outcomes and measurable impact"},
		},
		score: func(_, lower string, m TextMetrics) []Category {
			return []Category{
				{"strategic_vision", per(lower, 20, "strategy", "vision", "transformation", "growth", "innovation", "leadership"), 0.3},
				{"leadership", per(lower, 20, "led", "managed", "directed", "guided", "mentored", "built teams"), 0.25},
				{"business_impact", when(m.Numbers >= 2, 60) + per(lower, 10, "revenue", "growth", "roi", "efficiency", "scale", "market"), 0.25},
				{"communication", when(m.WordsPerSentence >= 20 && m.WordsPerSentence <= 25, 70) + when(m.ProfessionalSignals >= 3, 30), 0.2},
			}
		},
	},
	StyleStartup: {
		pass: 75, passName: "Startup-ready", failName: "Needs startup energy",
		checks: []check{
			{"innovation", 70, "Emphasize innovation and disruptive thinking"},
			{"growth_focus", 70, "Include more growth and scaling achievements"},
			{"energy", 60, "Add more energy and entrepreneurial passion"},
		},
		score: func(_, lower string, m TextMetrics) []Category {
			versatility := when(m.TechnicalTerms >= 2, 40) + when(m.ActionVerbs >= 4, 40) +
				per(lower, 5, "full-stack", "end-to-end", "product", "business")
			return []Category{
				{"innovation", per(lower, 20, "innovative", "disruption", "startup", "entrepreneur", "agile", "rapid"), 0.35},
				{"growth_focus", per(lower, 25, "scale", "growth", "launch", "built", "shipped", "0 to"), 0.25},
				{"versatility", versatility, 0.2},
				{"energy", float64(m.EngagementWords) * 30, 0.2},
			}
		},
	},
}

// Evaluate scores a bio against a style. Unknown styles use the professional rubric.
func Evaluate(bio, style string) Evaluation {
	r, ok := rubrics[style]
	if !ok {
		style = StyleProfessional
		r = rubrics[style]
	}
	return r.evaluate(style, bio)
}

// SuggestDirection returns up to three next steps for a bio at a given score
func SuggestDirection(bio, style string, score float64) []string {
	m := AnalyzeText(bio)
	eval := Evaluate(bio, style)

	var out []string
	switch {
	case score < 60:
		out = append(out, "Complete restructure recommended - consider different approach")
	case score < 75:
		out = append(out, "Good foundation - focus on specific enhancements")
	default:
		out = append(out, "Fine-tuning for excellence - polish specific elements")
	}

	if low, ok := eval.Lowest(); ok && low.Score < 70 {
		out = append(out, fmt.Sprintf("Focus on improving %s (current score: %.0f)", strings.ReplaceAll(low.Name, "_", " "), low.Score))
	}

	switch {
	case m.Words < 150:
		out = append(out, "Expand with more specific achievements and context")
	case m.Words > 300:
		out = append(out, "Condense for better impact and readability")
	}
	if m.Numbers < 2 {
		out = append(out, "Add specific metrics and quantifiable results")
	}
	if m.ActionVerbs < 3 {
		out = append(out, "Include more dynamic action verbs")
	}

	return text.Head(out, 3)
}
