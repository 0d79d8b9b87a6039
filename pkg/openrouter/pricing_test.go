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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(recs []Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Model)
	}
	return out
}

func TestModels(t *testing.T) {
	models := Models()
	require.Len(t, models, 11, "every priced model is listed")

	var got []string
	for _, m := range models {
		got = append(got, m.ID)
	}
	assert.Equal(t, []string{
		ModelLlama3_8B,
		ModelDeepSeekV32,
		ModelClaude3Haiku,
		ModelLlama3_70B,
		ModelGemini25Flash,
		ModelGPT35Turbo,
		ModelClaude3Sonnet,
		ModelClaudeSonnet45,
		ModelGPT4Turbo,
		ModelClaude3Opus,
		ModelGPT4,
	}, got, "cheapest bio first, ties by id")

	gpt, ok := Pricing(ModelGPT35Turbo)
	require.True(t, ok, "gpt-3.5 is priced")
	assert.Equal(t, "GPT-3.5 Turbo", gpt.Name, "display name")
	assert.InDelta(t, 0.00135, gpt.BioCost(), 1e-12, "500 in / 300 out")

	_, ok = Pricing("acme/unknown")
	assert.False(t, ok, "unknown models are not priced")
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		model, style string
		want         float64
	}{
		{ModelClaude3Opus, StyleCreative, 100},
		{ModelDeepSeekV32, StyleTechnical, 90},
		{ModelClaude3Haiku, StyleProfessional, 81},
		{ModelClaude3Haiku, StyleStartup, 78},
		{"acme/unknown", StyleCreative, 70},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, QualityScore(tt.model, tt.style), 0.001, "%s for %s", tt.model, tt.style)
	}
}

func TestSuggestModel(t *testing.T) {
	tests := []struct {
		name, style, budget, want string
	}{
		{"economy", StyleCreative, BudgetEconomy, ModelLlama3_8B},
		{"premium", StyleTechnical, BudgetPremium, ModelClaudeSonnet45},
		{"balanced_creative", StyleCreative, BudgetBalanced, ModelClaude3Sonnet},
		{"balanced_technical", StyleTechnical, BudgetBalanced, ModelDeepSeekV32},
		{"balanced_default", StyleExecutive, "", ModelClaude3Haiku},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestModel(tt.style, tt.budget, "fallback"), "suggested model")
		})
	}
}

func TestRecommend(t *testing.T) {
	recs := Recommend(StyleProfessional)
	require.Len(t, recs, 11, "every model is ranked")
	assert.Equal(t, ModelGemini25Flash, recs[0].Model, "fast and cheap wins for professional")
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Overall, recs[i].Overall, "sorted by overall score")
	}

	haiku := recs[0]
	for _, r := range recs {
		if r.Model == ModelClaude3Haiku {
			haiku = r
		}
	}
	assert.InDelta(t, 81, haiku.Quality, 0.001, "quality with style bonus")
	assert.InDelta(t, 84, haiku.Speed, 0.001, "speed from latency")
	assert.Equal(t, "$0.0005", haiku.Formatted, "formatted cost")
	assert.Equal(t, "Budget-friendly, reliable quality", haiku.BestFor, "best for")

	for _, r := range recs {
		if r.Model == ModelLlama3_70B {
			assert.Equal(t, "General purpose content generation", r.BestFor, "models without a use case get the generic one")
		}
	}
}

func TestOptimizeForBudget(t *testing.T) {
	plan := OptimizeForBudget(StyleProfessional, 0)
	assert.False(t, plan.BudgetExceeded, "default budget fits several models")
	assert.Equal(t, ModelLlama3_8B, plan.Recommended.Model, "best quality per cent")
	assert.Equal(t, []string{ModelDeepSeekV32, ModelClaude3Haiku}, ids(plan.Alternatives), "two runners up")
	assert.InDelta(t, 0.01-0.00008, plan.Savings, 1e-9, "savings against the budget")

	plan = OptimizeForBudget(StyleProfessional, 0.00001)
	assert.True(t, plan.BudgetExceeded, "nothing fits")
	assert.Equal(t, ModelLlama3_8B, plan.Recommended.Model, "cheapest is offered")
	assert.Equal(t, "Budget too low. Cheapest option is $0.0001", plan.Message, "message")
	assert.Empty(t, plan.Alternatives, "no alternatives")
}

func TestCostVsQuality(t *testing.T) {
	got := CostVsQuality(StyleProfessional)

	assert.Len(t, got.Tiers[BudgetEconomy], 5, "economy tier")
	assert.Equal(t, []string{ModelGPT35Turbo}, ids(got.Tiers[BudgetBalanced]), "balanced tier")
	assert.Len(t, got.Tiers[BudgetPremium], 5, "premium tier")
	assert.Equal(t, ModelLlama3_8B, got.Tiers[BudgetEconomy][0].Model, "tiers are sorted by value")

	assert.Equal(t, ModelLlama3_8B, got.BestValue.Model, "best value")
	assert.Equal(t, ModelClaudeSonnet45, got.HighestQuality.Model, "highest quality")
	assert.Equal(t, ModelLlama3_8B, got.MostEconomical.Model, "most economical")
}

func TestMonthlyCosts(t *testing.T) {
	got, err := MonthlyCosts(10, ModelGPT35Turbo)
	require.NoError(t, err, "gpt-3.5 is priced")
	assert.InDelta(t, 0.0135, got.Daily, 1e-9, "daily")
	assert.InDelta(t, 0.405, got.Monthly, 1e-9, "monthly")
	assert.InDelta(t, 4.86, got.Yearly, 1e-9, "yearly")
	assert.InDelta(t, 0.00135*150, got.Volume["moderate_usage"], 1e-9, "moderate volume")
	assert.Equal(t, "Very economical - suitable for regular use", got.Recommendation, "recommendation")

	got, err = MonthlyCosts(1000, ModelGPT4)
	require.NoError(t, err, "gpt-4 is priced")
	assert.Equal(t, "Expensive - evaluate cheaper alternatives", got.Recommendation, "expensive")

	_, err = MonthlyCosts(1, "acme/unknown")
	assert.ErrorIs(t, err, ErrUnknownModel, "unknown model")
}

func TestActualCost(t *testing.T) {
	got, err := ActualCost(Usage{PromptTokens: 2000, CompletionTokens: 1000, TotalTokens: 3000}, ModelClaude3Haiku)
	require.NoError(t, err, "haiku is priced")
	assert.Equal(t, "Claude 3 Haiku", got.Model, "model name")
	assert.InDelta(t, 0.0005, got.InputCost, 1e-12, "input cost")
	assert.InDelta(t, 0.00125, got.OutputCost, 1e-12, "output cost")
	assert.Equal(t, "$0.001750", got.Formatted, "formatted total")
	assert.Equal(t, "$0.001250 (1000 tokens)", got.Breakdown["output"], "output breakdown")

	_, err = ActualCost(Usage{}, ModelClaude3Haiku)
	assert.Error(t, err, "usage is required")
	_, err = ActualCost(Usage{TotalTokens: 1}, "acme/unknown")
	assert.ErrorIs(t, err, ErrUnknownModel, "pricing is required")
}

func TestEstimateEnhancementCost(t *testing.T) {
	got, err := EstimateEnhancementCost("a b c d", ModelGPT35Turbo)
	require.NoError(t, err, "estimate should succeed")
	assert.Equal(t, 11, got.InputTokens, "nine prompt words at 1.3 tokens")
	assert.Equal(t, 8, got.OutputTokens, "twice the bio words")
	assert.Equal(t, "OpenAI", got.Provider, "provider")

	_, err = EstimateEnhancementCost("a", "acme/unknown")
	assert.ErrorIs(t, err, ErrUnknownModel, "unknown model")

	assert.InDelta(t, 0.000906, requestCost("a b c", ModelGPT35Turbo), 1e-12, "request estimate")
	assert.Zero(t, requestCost("a b c", "acme/unknown"), "unknown model costs nothing")
}
