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
	"math"
	"regexp"
	"strings"

	"github.com/walteh/reporeadme/pkg/text"
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	digitRun      = regexp.MustCompile(`\d+`)
)

var (
	actionVerbs = []string{
		"led", "managed", "built", "created", "developed", "designed", "implemented", "optimized",
		"delivered", "achieved", "improved", "increased", "reduced", "launched", "architected",
	}
	technicalTerms = []string{
		"api", "database", "architecture", "framework", "algorithm", "optimization",
		"scalability", "microservices", "cloud", "devops", "automation", "ci/cd",
	}
	densityKeywords = []string{
		"software", "engineering", "development", "programming", "technology",
		"innovation", "solutions", "systems", "applications", "projects",
	}
	engagementWords = []string{
		"passionate", "innovative", "excited", "driven", "love", "enjoy",
		"enthusiastic", "committed", "dedicated", "focused",
	}
	professionalWords = []string{
		"experience", "expertise", "proven", "results", "successful",
		"accomplished", "established", "recognized", "certified",
	}
	scoreActionWords = []string{"led", "built", "created", "developed", "managed", "designed"}
)

// 📏 TextMetrics are the raw counts behind every bio score
type TextMetrics struct {
	Words               int     `json:"word_count"`
	Sentences           int     `json:"sentence_count"`
	Chars               int     `json:"char_count"`
	WordsPerSentence    float64 `json:"avg_words_per_sentence"`
	CharsPerWord        float64 `json:"avg_chars_per_word"`
	Numbers             int     `json:"number_count"`
	ActionVerbs         int     `json:"action_verbs"`
	TechnicalTerms      int     `json:"technical_terms"`
	KeywordDensity      float64 `json:"keyword_density"`
	SentenceVariety     float64 `json:"sentence_variety"`
	EngagementWords     int     `json:"engagement_count"`
	ProfessionalSignals int     `json:"professional_count"`
}

// AnalyzeText measures a bio. Term counts are substring matches against the
// lowercased text, so each listed term counts at most once.
func AnalyzeText(s string) TextMetrics {
	words := strings.Fields(s)
	var lengths []int
	for _, sentence := range sentenceSplit.Split(s, -1) {
		if strings.TrimSpace(sentence) != "" {
			lengths = append(lengths, len(strings.Fields(sentence)))
		}
	}

	lower := strings.ToLower(s)
	m := TextMetrics{
		Words:               len(words),
		Sentences:           len(lengths),
		Chars:               len(s),
		Numbers:             len(digitRun.FindAllString(s, -1)),
		ActionVerbs:         text.CountContaining(lower, actionVerbs...),
		TechnicalTerms:      text.CountContaining(lower, technicalTerms...),
		EngagementWords:     text.CountContaining(lower, engagementWords...),
		ProfessionalSignals: text.CountContaining(lower, professionalWords...),
		SentenceVariety:     stdev(lengths),
	}
	m.WordsPerSentence = float64(m.Words) / float64(max(m.Sentences, 1))
	m.CharsPerWord = float64(m.Chars) / float64(max(m.Words, 1))
	m.KeywordDensity = float64(text.CountContaining(lower, densityKeywords...)) / float64(max(m.Words, 1)) * 100
	return m
}

// stdev is the sample standard deviation, zero for fewer than two values
func stdev(values []int) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

func (m TextMetrics) readability() float64 {
	sentence := max(0, 100-math.Abs(m.WordsPerSentence-15)*5)
	word := max(0, 100-math.Abs(m.CharsPerWord-5)*10)
	variety := min(100, m.SentenceVariety*10)
	return (sentence + word + variety) / 3
}

func (m TextMetrics) engagement() float64 {
	eng := min(100, float64(m.EngagementWords)*25)
	act := min(100, float64(m.ActionVerbs)*20)
	prof := min(100, float64(m.ProfessionalSignals)*15)
	return eng*0.3 + act*0.4 + prof*0.3
}

// Improvements compares an original bio with its rewrite
type Improvements struct {
	Made        []string    `json:"improvements"`
	Suggestions []string    `json:"suggestions"`
	Readability float64     `json:"readability_improvement"`
	Engagement  float64     `json:"engagement_improvement"`
	Keywords    float64     `json:"keyword_optimization"`
	Original    TextMetrics `json:"original_analysis"`
	Enhanced    TextMetrics `json:"enhanced_analysis"`
}

// AnalyzeImprovements lists what changed between two bios and scores the delta
func AnalyzeImprovements(original, enhanced string) Improvements {
	o := AnalyzeText(original)
	e := AnalyzeText(enhanced)

	made := []string{}
	switch {
	case float64(e.Words) > float64(o.Words)*1.2:
		made = append(made, "Expanded content with more detail")
	case float64(e.Words) < float64(o.Words)*0.8:
		made = append(made, "Condensed content for better impact")
	}
	if e.Numbers > o.Numbers {
		made = append(made, "Added quantified achievements")
	}
	if e.TechnicalTerms > o.TechnicalTerms {
		made = append(made, "Enhanced technical skills listing")
	}
	if e.ActionVerbs > o.ActionVerbs {
		made = append(made, "Strengthened action verbs")
	}
	if e.SentenceVariety > o.SentenceVariety {
		made = append(made, "Improved sentence structure variety")
	}
	if e.KeywordDensity > o.KeywordDensity {
		made = append(made, "Optimized keyword usage")
	}

	keywords := (e.KeywordDensity - o.KeywordDensity) +
		float64(e.TechnicalTerms-o.TechnicalTerms)*10 +
		float64(e.Numbers-o.Numbers)*15

	return Improvements{
		Made:        made,
		Suggestions: Suggestions(e),
		Readability: e.readability() - o.readability(),
		Engagement:  e.engagement() - o.engagement(),
		Keywords:    min(100, max(-100, keywords)),
		Original:    o,
		Enhanced:    e,
	}
}

// Suggestions lists concrete edits for a measured bio
func Suggestions(m TextMetrics) []string {
	out := []string{}
	if m.Numbers < 2 {
		out = append(out, "Add more specific metrics and quantifiable achievements")
	}
	if m.ActionVerbs < 3 {
		out = append(out, "Include more strong action verbs (led, built, optimized, etc.)")
	}
	if m.WordsPerSentence > 20 {
		out = append(out, "Break up long sentences for better readability")
	}
	if m.TechnicalTerms < 2 {
		out = append(out, "Include more relevant technical terminology")
	}
	if m.EngagementWords < 1 {
		out = append(out, "Add more personality with passion statements")
	}
	if m.Words < 150 {
		out = append(out, "Expand content to reach optimal LinkedIn bio length (180-280 words)")
	}
	if m.Words > 300 {
		out = append(out, "Consider condensing content for better impact")
	}
	return out
}

// EnhancementScore rates a rewrite between 75 and 100
func EnhancementScore(original, enhanced string) float64 {
	score := 75.0
	ow := len(strings.Fields(original))
	ew := len(strings.Fields(enhanced))

	if ew >= 150 && ew <= 300 {
		score += 10
	}
	if float64(ew) > float64(ow)*1.2 {
		score += 10
	}
	if text.CountContaining(strings.ToLower(enhanced), scoreActionWords...) >
		text.CountContaining(strings.ToLower(original), scoreActionWords...) {
		score += 5
	}
	return min(score, 100)
}

// Novelty is the mean word-set distance from previous attempts, 0 to 100
func Novelty(enhanced string, previous []string) float64 {
	if len(previous) == 0 {
		return 100
	}
	current := wordSet(enhanced)
	var total float64
	for _, attempt := range previous {
		other := wordSet(attempt)
		union := len(current)
		overlap := 0
		for w := range other {
			if _, ok := current[w]; ok {
				overlap++
			} else {
				union++
			}
		}
		similarity := 0.0
		if union > 0 {
			similarity = float64(overlap) / float64(union)
		}
		total += (1 - similarity) * 100
	}
	return total / float64(len(previous))
}

func wordSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[w] = struct{}{}
	}
	return out
}

// iterationInsights judges a rewrite against earlier attempts
func iterationInsights(enhanced string, previous []string) []string {
	if len(previous) == 0 {
		return nil
	}

	var out []string
	switch novelty := Novelty(enhanced, previous); {
	case novelty > 70:
		out = append(out, "Successfully avoided repetition from previous attempts")
	case novelty > 50:
		out = append(out, "Some fresh elements added, but could be more distinctive")
	default:
		out = append(out, "High similarity to previous attempts - needs more differentiation")
	}

	var sum int
	for _, attempt := range previous {
		sum += len(strings.Fields(attempt))
	}
	avg := float64(sum) / float64(len(previous))
	words := float64(len(strings.Fields(enhanced)))
	switch {
	case words > avg*1.1:
		out = append(out, "Expanded content compared to previous iterations")
	case words < avg*0.9:
		out = append(out, "Condensed content for better impact")
	}
	return out
}
