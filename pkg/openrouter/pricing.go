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
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Model identifiers known to the pricing table
const (
	ModelGPT35Turbo     = "openai/gpt-3.5-turbo"
	ModelGPT4           = "openai/gpt-4"
	ModelGPT4Turbo      = "openai/gpt-4-turbo"
	ModelClaude3Haiku   = "anthropic/claude-3-haiku"
	ModelClaude3Sonnet  = "anthropic/claude-3-sonnet"
	ModelClaude3Opus    = "anthropic/claude-3-opus"
	ModelClaudeSonnet45 = "anthropic/claude-sonnet-4.5"
	ModelLlama3_8B      = "meta-llama/llama-3-8b-instruct"
	ModelLlama3_70B     = "meta-llama/llama-3-70b-instruct"
	ModelDeepSeekV32    = "deepseek/deepseek-v3.2-exp"
	ModelGemini25Flash  = "google/gemini-2.5-flash"
)

// DefaultMaxBioBudget is the per-bio budget used when none is given
const DefaultMaxBioBudget = 0.01

const (
	bioInputTokens      = 500
	bioOutputTokens     = 300
	requestOutputTokens = 300
	requestPromptTokens = 200
	defaultQualityScore = 70.0
	economyTierMaxCost  = 0.001
	balancedTierMaxCost = 0.005
	daysPerMonth        = 30
	monthsPerYear       = 12
)

// Budget preferences accepted by SuggestModel
const (
	BudgetEconomy  = "economy"
	BudgetBalanced = "balanced"
	BudgetPremium  = "premium"
)

// ErrUnknownModel is returned when a model has no pricing entry
var ErrUnknownModel = errors.New("model pricing not available")

// 💰 ModelPricing describes the cost and shape of one model
type ModelPricing struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	InputPer1K    float64 `json:"input_price_per_1k"`
	OutputPer1K   float64 `json:"output_price_per_1k"`
	ContextLength int     `json:"context_length"`
	MaxOutput     int     `json:"max_output"`
	Description   string  `json:"description"`
	Provider      string  `json:"provider"`
	Latency       float64 `json:"latency"`
}

// EstimateCost prices the given token counts
func (p ModelPricing) EstimateCost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1000*p.InputPer1K + float64(outputTokens)/1000*p.OutputPer1K
}

// BioCost prices a typical bio enhancement
func (p ModelPricing) BioCost() float64 {
	return p.EstimateCost(bioInputTokens, bioOutputTokens)
}

var pricingTable = map[string]ModelPricing{
	ModelGPT35Turbo: {
		Name: "GPT-3.5 Turbo", InputPer1K: 0.0015, OutputPer1K: 0.002, ContextLength: 16385, MaxOutput: 4096,
		Description: "Fast, cost-effective, great for most use cases", Provider: "OpenAI", Latency: 1.2,
	},
	ModelGPT4: {
		Name: "GPT-4", InputPer1K: 0.03, OutputPer1K: 0.06, ContextLength: 8192, MaxOutput: 4096,
		Description: "High quality, better reasoning, more expensive", Provider: "OpenAI", Latency: 2.8,
	},
	ModelGPT4Turbo: {
		Name: "GPT-4 Turbo", InputPer1K: 0.01, OutputPer1K: 0.03, ContextLength: 128000, MaxOutput: 4096,
		Description: "Latest GPT-4 with improved performance and larger context", Provider: "OpenAI", Latency: 2.1,
	},
	ModelClaude3Haiku: {
		Name: "Claude 3 Haiku", InputPer1K: 0.00025, OutputPer1K: 0.00125, ContextLength: 200000, MaxOutput: 4096,
		Description: "Fast Claude model, excellent value", Provider: "Anthropic", Latency: 0.8,
	},
	ModelClaude3Sonnet: {
		Name: "Claude 3 Sonnet", InputPer1K: 0.003, OutputPer1K: 0.015, ContextLength: 200000, MaxOutput: 4096,
		Description: "High-quality Claude, excellent writing", Provider: "Anthropic", Latency: 1.5,
	},
	ModelClaude3Opus: {
		Name: "Claude 3 Opus", InputPer1K: 0.015, OutputPer1K: 0.075, ContextLength: 200000, MaxOutput: 4096,
		Description: "Most capable Claude model", Provider: "Anthropic", Latency: 2.3,
	},
	ModelClaudeSonnet45: {
		Name: "Claude Sonnet 4.5", InputPer1K: 0.003, OutputPer1K: 0.015, ContextLength: 1000000, MaxOutput: 64000,
		Description: "Latest Claude with 1M context, exceptional reasoning", Provider: "Anthropic", Latency: 2.5,
	},
	ModelLlama3_8B: {
		Name: "Llama 3 8B Instruct", InputPer1K: 0.0001, OutputPer1K: 0.0001, ContextLength: 8192, MaxOutput: 2048,
		Description: "Open source, fast, very cost-effective", Provider: "Meta", Latency: 0.6,
	},
	ModelLlama3_70B: {
		Name: "Llama 3 70B Instruct", InputPer1K: 0.0009, OutputPer1K: 0.0009, ContextLength: 8192, MaxOutput: 2048,
		Description: "Larger Llama model, better quality", Provider: "Meta", Latency: 1.8,
	},
	ModelDeepSeekV32: {
		Name: "DeepSeek V3.2 Exp", InputPer1K: 0.00027, OutputPer1K: 0.00041, ContextLength: 163800, MaxOutput: 65500,
		Description: "Advanced reasoning model, excellent value", Provider: "DeepSeek", Latency: 0.9,
	},
	ModelGemini25Flash: {
		Name: "Gemini 2.5 Flash", InputPer1K: 0.0003, OutputPer1K: 0.0025, ContextLength: 1050000, MaxOutput: 65500,
		Description: "Ultra-fast Google model with massive context", Provider: "Google", Latency: 0.4,
	},
}

var baseQuality = map[string]float64{
	ModelClaudeSonnet45: 95,
	ModelClaude3Opus:    92,
	ModelGPT4Turbo:      90,
	ModelGPT4:           88,
	ModelClaude3Sonnet:  85,
	ModelDeepSeekV32:    82,
	ModelGemini25Flash:  80,
	ModelClaude3Haiku:   78,
	ModelGPT35Turbo:     75,
	ModelLlama3_70B:     73,
	ModelLlama3_8B:      70,
}

var styleQuality = map[string]map[string]float64{
	StyleCreative: {
		ModelClaude3Opus:    8,
		ModelClaudeSonnet45: 6,
		ModelGPT4Turbo:      5,
		ModelClaude3Sonnet:  4,
	},
	StyleTechnical: {
		ModelDeepSeekV32:    8,
		ModelClaudeSonnet45: 6,
		ModelGPT4Turbo:      5,
		ModelLlama3_8B:      3,
	},
	StyleProfessional: {
		ModelClaude3Sonnet: 5,
		ModelGPT35Turbo:    4,
		ModelClaude3Haiku:  3,
	},
}

var bestFor = map[string]string{
	ModelClaudeSonnet45: "Premium content with exceptional reasoning",
	ModelClaude3Opus:    "Highest quality creative writing",
	ModelGPT4Turbo:      "Professional content with reliability",
	ModelClaude3Sonnet:  "Balanced quality and cost",
	ModelDeepSeekV32:    "Technical content, excellent value",
	ModelGemini25Flash:  "Fast, cost-effective generation",
	ModelClaude3Haiku:   "Budget-friendly, reliable quality",
	ModelGPT35Turbo:     "Standard professional content",
	ModelLlama3_8B:      "Very cost-effective, good quality",
}

// Pricing looks up a model in the pricing table
func Pricing(model string) (ModelPricing, bool) {
	p, ok := pricingTable[model]
	if ok {
		p.ID = model
	}
	return p, ok
}

// Models returns every priced model, cheapest bio first
func Models() []ModelPricing {
	out := make([]ModelPricing, 0, len(pricingTable))
	for id := range pricingTable {
		p, _ := Pricing(id)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BioCost() != out[j].BioCost() {
			return out[i].BioCost() < out[j].BioCost()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// QualityScore rates a model for a bio style, capped at 100
func QualityScore(model, style string) float64 {
	base, ok := baseQuality[model]
	if !ok {
		base = defaultQualityScore
	}
	return min(100, base+styleQuality[style][model])
}

// 📊 CostReport is the priced result of a real completion
type CostReport struct {
	Model            string            `json:"model"`
	PromptTokens     int               `json:"prompt_tokens"`
	CompletionTokens int               `json:"completion_tokens"`
	TotalTokens      int               `json:"total_tokens"`
	InputCost        float64           `json:"input_cost"`
	OutputCost       float64           `json:"output_cost"`
	TotalCost        float64           `json:"total_cost"`
	Formatted        string            `json:"cost_formatted"`
	Breakdown        map[string]string `json:"cost_breakdown"`
}

// ActualCost prices the usage reported by the API
func ActualCost(usage Usage, model string) (*CostReport, error) {
	p, ok := Pricing(model)
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrUnknownModel, model)
	}
	if usage == (Usage{}) {
		return nil, errors.New("missing usage data")
	}

	in := p.EstimateCost(usage.PromptTokens, 0)
	out := p.EstimateCost(0, usage.CompletionTokens)
	total := in + out
	return &CostReport{
		Model:            p.Name,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
		InputCost:        in,
		OutputCost:       out,
		TotalCost:        total,
		Formatted:        fmt.Sprintf("$%.6f", total),
		Breakdown: map[string]string{
			"input":  fmt.Sprintf("$%.6f (%d tokens)", in, usage.PromptTokens),
			"output": fmt.Sprintf("$%.6f (%d tokens)", out, usage.CompletionTokens),
		},
	}, nil
}

// CostEstimate is a pre-flight price for enhancing a bio
type CostEstimate struct {
	Model        string  `json:"model"`
	Provider     string  `json:"provider"`
	InputTokens  int     `json:"estimated_input_tokens"`
	OutputTokens int     `json:"estimated_output_tokens"`
	Cost         float64 `json:"estimated_cost"`
	Formatted    string  `json:"cost_formatted"`
	InputPer1K   float64 `json:"input_cost_per_1k"`
	OutputPer1K  float64 `json:"output_cost_per_1k"`
}

// EstimateEnhancementCost approximates the tokens a bio enhancement will use
func EstimateEnhancementCost(bio, model string) (*CostEstimate, error) {
	p, ok := Pricing(model)
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrUnknownModel, model)
	}

	in := int(float64(len(strings.Fields("Please enhance this LinkedIn bio: "+bio))) * 1.3)
	out := len(strings.Fields(bio)) * 2
	cost := p.EstimateCost(in, out)
	return &CostEstimate{
		Model:        model,
		Provider:     p.Provider,
		InputTokens:  in,
		OutputTokens: out,
		Cost:         cost,
		Formatted:    fmt.Sprintf("$%.6f", cost),
		InputPer1K:   p.InputPer1K,
		OutputPer1K:  p.OutputPer1K,
	}, nil
}

// requestCost is the rough estimate recorded next to the actual cost
func requestCost(bio, model string) float64 {
	p, ok := Pricing(model)
	if !ok {
		return 0
	}
	in := int(float64(len(strings.Fields(bio)))/0.75) + requestPromptTokens
	return p.EstimateCost(in, requestOutputTokens)
}

// SuggestModel picks a model for a style under a budget preference,
// falling back when no candidate is priced.
func SuggestModel(style, budget, fallback string) string {
	var candidates []string
	switch budget {
	case BudgetEconomy:
		candidates = []string{ModelLlama3_8B, ModelGemini25Flash, ModelClaude3Haiku, ModelDeepSeekV32}
	case BudgetPremium:
		candidates = []string{ModelClaudeSonnet45, ModelGPT4Turbo, ModelClaude3Opus, ModelGPT4}
	default:
		switch style {
		case StyleCreative:
			candidates = []string{ModelClaude3Sonnet, ModelGPT35Turbo, ModelGemini25Flash}
		case StyleTechnical:
			candidates = []string{ModelDeepSeekV32, ModelClaude3Sonnet, ModelLlama3_8B}
		default:
			candidates = []string{ModelClaude3Haiku, ModelGemini25Flash, ModelLlama3_8B}
		}
	}

	for _, m := range candidates {
		if _, ok := pricingTable[m]; ok {
			return m
		}
	}
	return fallback
}

// ⭐ Recommendation scores one model for a bio style
type Recommendation struct {
	Model        string  `json:"model_id"`
	Name         string  `json:"model_name"`
	Provider     string  `json:"provider"`
	Cost         float64 `json:"estimated_cost"`
	Formatted    string  `json:"cost_formatted"`
	Quality      float64 `json:"quality_score"`
	Speed        float64 `json:"speed_score"`
	Value        float64 `json:"value_score"`
	Overall      float64 `json:"overall_score"`
	Description  string  `json:"description"`
	BestFor      string  `json:"best_for"`
	ContextLimit int     `json:"context_length"`
}

func recommend(p ModelPricing, style string) Recommendation {
	cost := p.BioCost()
	quality := QualityScore(p.ID, style)
	speed := max(0, 100-p.Latency*20)
	use := bestFor[p.ID]
	if use == "" {
		use = "General purpose content generation"
	}
	return Recommendation{
		Model:        p.ID,
		Name:         p.Name,
		Provider:     p.Provider,
		Cost:         cost,
		Formatted:    fmt.Sprintf("$%.4f", cost),
		Quality:      quality,
		Speed:        speed,
		Value:        quality / (cost * 1000),
		Overall:      quality*0.5 + speed*0.2 + max(0, 100-cost*1000)*0.3,
		Description:  p.Description,
		BestFor:      use,
		ContextLimit: p.ContextLength,
	}
}

// Recommend ranks every priced model for a style, best overall first
func Recommend(style string) []Recommendation {
	models := Models()
	out := make([]Recommendation, 0, len(models))
	for _, p := range models {
		out = append(out, recommend(p, style))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Overall > out[j].Overall
	})
	return out
}

// BudgetPlan is the outcome of fitting a model under a per-bio budget
type BudgetPlan struct {
	Recommended    Recommendation   `json:"recommended"`
	BudgetExceeded bool             `json:"budget_exceeded"`
	Message        string           `json:"message,omitempty"`
	Alternatives   []Recommendation `json:"alternatives,omitempty"`
	Savings        float64          `json:"savings"`
}

// OptimizeForBudget picks the best quality per cent among models under maxCost
func OptimizeForBudget(style string, maxCost float64) BudgetPlan {
	if maxCost <= 0 {
		maxCost = DefaultMaxBioBudget
	}

	models := Models()
	var viable []Recommendation
	for _, p := range models {
		if p.BioCost() <= maxCost {
			viable = append(viable, recommend(p, style))
		}
	}

	if len(viable) == 0 {
		cheapest := recommend(models[0], style)
		return BudgetPlan{
			Recommended:    cheapest,
			BudgetExceeded: true,
			Message:        fmt.Sprintf("Budget too low. Cheapest option is $%.4f", cheapest.Cost),
		}
	}

	sortByValue(viable)
	plan := BudgetPlan{
		Recommended: viable[0],
		Savings:     maxCost - viable[0].Cost,
	}
	if len(viable) > 1 {
		plan.Alternatives = viable[1:min(3, len(viable))]
	}
	return plan
}

// Tier names, cheapest first
var Tiers = []string{BudgetEconomy, BudgetBalanced, BudgetPremium}

// QualityAnalysis groups models into cost tiers and names the standouts
type QualityAnalysis struct {
	Tiers          map[string][]Recommendation `json:"budget_tiers"`
	BestValue      Recommendation              `json:"best_value"`
	HighestQuality Recommendation              `json:"highest_quality"`
	MostEconomical Recommendation              `json:"most_economical"`
}

// CostVsQuality buckets every model by bio cost for a style
func CostVsQuality(style string) QualityAnalysis {
	out := QualityAnalysis{Tiers: map[string][]Recommendation{}}
	for i, p := range Models() {
		r := recommend(p, style)
		switch {
		case r.Cost <= economyTierMaxCost:
			out.Tiers[BudgetEconomy] = append(out.Tiers[BudgetEconomy], r)
		case r.Cost <= balancedTierMaxCost:
			out.Tiers[BudgetBalanced] = append(out.Tiers[BudgetBalanced], r)
		default:
			out.Tiers[BudgetPremium] = append(out.Tiers[BudgetPremium], r)
		}

		if i == 0 {
			out.BestValue, out.HighestQuality, out.MostEconomical = r, r, r
			continue
		}
		if r.Value > out.BestValue.Value {
			out.BestValue = r
		}
		if r.Quality > out.HighestQuality.Quality {
			out.HighestQuality = r
		}
	}
	for _, tier := range out.Tiers {
		sortByValue(tier)
	}
	return out
}

func sortByValue(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Value > recs[j].Value
	})
}

// MonthlyEstimate projects spend for a daily bio volume
type MonthlyEstimate struct {
	Model          string             `json:"model"`
	DailyBios      int                `json:"daily_bios"`
	PerBio         float64            `json:"cost_per_bio"`
	Daily          float64            `json:"daily_cost"`
	Monthly        float64            `json:"monthly_cost"`
	Yearly         float64            `json:"yearly_cost"`
	Volume         map[string]float64 `json:"volume_analysis"`
	Recommendation string             `json:"recommendation"`
}

// MonthlyCosts projects the cost of enhancing dailyBios bios every day
func MonthlyCosts(dailyBios int, model string) (*MonthlyEstimate, error) {
	p, ok := Pricing(model)
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrUnknownModel, model)
	}

	per := p.BioCost()
	daily := per * float64(dailyBios)
	monthly := daily * daysPerMonth

	var advice string
	switch {
	case monthly < 1:
		advice = "Very economical - suitable for regular use"
	case monthly < 5:
		advice = "Reasonable for business use"
	case monthly < 20:
		advice = "Higher cost - consider usage optimization"
	default:
		advice = "Expensive - evaluate cheaper alternatives"
	}

	return &MonthlyEstimate{
		Model:     p.Name,
		DailyBios: dailyBios,
		PerBio:    per,
		Daily:     daily,
		Monthly:   monthly,
		Yearly:    monthly * monthsPerYear,
		Volume: map[string]float64{
			"light_usage":    per * 1 * daysPerMonth,
			"moderate_usage": per * 5 * daysPerMonth,
			"heavy_usage":    per * 20 * daysPerMonth,
		},
		Recommendation: advice,
	}, nil
}
