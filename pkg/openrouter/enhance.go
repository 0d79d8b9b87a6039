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
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/profile"
	"github.com/walteh/reporeadme/pkg/text"
)

// FallbackModel marks results produced without the API
const FallbackModel = "fallback-template"

const fallbackScore = 70.0

// Enhancement approaches
const (
	ApproachImprove     = "improve"
	ApproachRewrite     = "rewrite"
	ApproachOptimize    = "optimize"
	ApproachPersonalize = "personalize"
)

var alternativeStyles = []string{StyleProfessional, StyleCreative, StyleTechnical, StyleConversational, StyleExecutive}

var iterativeModels = map[string]string{
	StyleCreative:     ModelClaude3Opus,
	StyleTechnical:    ModelClaudeSonnet45,
	StyleProfessional: ModelGPT4Turbo,
	StyleExecutive:    ModelClaude3Sonnet,
	StyleStartup:      ModelGemini25Flash,
}

// ✍️ EnhancementRequest describes a bio rewrite and the context behind it
type EnhancementRequest struct {
	OriginalBio    string   `json:"original_bio"`
	Style          string   `json:"target_style"`
	Role           string   `json:"target_role"`
	Industry       string   `json:"target_industry"`
	Approach       string   `json:"enhancement_type"`
	IncludeMetrics bool     `json:"include_metrics"`
	Username       string   `json:"github_username,omitempty"`
	Languages      []string `json:"primary_languages,omitempty"`
	Projects       []string `json:"project_highlights,omitempty"`
	Achievements   []string `json:"technical_achievements,omitempty"`
}

// NewEnhancementRequest returns a request with the default targeting
func NewEnhancementRequest(bio string) EnhancementRequest {
	return EnhancementRequest{
		OriginalBio:    bio,
		Style:          StyleProfessional,
		Role:           "Software Engineer",
		Industry:       "technology",
		Approach:       ApproachImprove,
		IncludeMetrics: true,
	}
}

// WithProfile fills the context fields from an analyzed profile
func (r EnhancementRequest) WithProfile(p *profile.GitHubProfile) EnhancementRequest {
	if p == nil {
		return r
	}
	r.Username = p.Username
	r.Languages = nil
	for _, share := range p.LanguagesByShare() {
		r.Languages = append(r.Languages, share.Language)
	}
	r.Projects = nil
	for _, fp := range p.FeaturedProjects {
		label := fp.Name
		if fp.Description != "" {
			label += " (" + text.Ellipsis(fp.Description, 60) + ")"
		}
		r.Projects = append(r.Projects, label)
	}
	r.Achievements = append([]string(nil), p.Achievements...)
	return r
}

func (r EnhancementRequest) withDefaults() EnhancementRequest {
	d := NewEnhancementRequest(r.OriginalBio)
	if r.Style == "" {
		r.Style = d.Style
	}
	if r.Role == "" {
		r.Role = d.Role
	}
	if r.Industry == "" {
		r.Industry = d.Industry
	}
	if r.Approach == "" {
		r.Approach = d.Approach
	}
	return r
}

// ✨ EnhancementResult is a rewritten bio with its scores and accounting
type EnhancementResult struct {
	EnhancedBio    string            `json:"enhanced_bio"`
	Score          float64           `json:"enhancement_score"`
	Improvements   []string          `json:"improvements_made"`
	Suggestions    []string          `json:"suggestions"`
	Readability    float64           `json:"readability_improvement"`
	Engagement     float64           `json:"engagement_improvement"`
	Keywords       float64           `json:"keyword_optimization"`
	Model          string            `json:"model_used"`
	TokensUsed     int               `json:"tokens_used"`
	ProcessingTime time.Duration     `json:"processing_time"`
	ActualCost     float64           `json:"actual_cost"`
	EstimatedCost  float64           `json:"estimated_cost"`
	PromptTokens   int               `json:"prompt_tokens"`
	OutputTokens   int               `json:"completion_tokens"`
	GenerationID   string            `json:"generation_id"`
	CostBreakdown  map[string]string `json:"cost_breakdown"`
	Insights       []string          `json:"iteration_insights,omitempty"`
}

// Fallback reports whether the result came from the local templates
func (r *EnhancementResult) Fallback() bool {
	return r.Model == FallbackModel
}

// ConnectionResult is the outcome of a connection test
type ConnectionResult struct {
	Success    bool   `json:"success"`
	Model      string `json:"model,omitempty"`
	Response   string `json:"response,omitempty"`
	TokensUsed int    `json:"tokens_used,omitempty"`
	Error      string `json:"error,omitempty"`
	Details    string `json:"details,omitempty"`
}

type statsQuerier interface {
	GenerationStats(ctx context.Context, id string) (map[string]any, error)
}

// 🤖 Service turns bios into AI-enhanced bios, degrading to templates
type Service struct {
	cfg    Config
	client Completer
	now    func() time.Time
}

// NewService wires a completer to the service. A nil completer gets a resty client.
func NewService(cfg Config, client Completer) *Service {
	if client == nil {
		client = NewClient(cfg)
	}
	return &Service{cfg: cfg, client: client, now: time.Now}
}

// Configured reports whether API calls can be made
func (s *Service) Configured() bool {
	return s.cfg.Configured()
}

// Model returns the configured default model
func (s *Service) Model() string {
	return s.cfg.Model
}

// TestConnection sends a tiny prompt and reports what came back
func (s *Service) TestConnection(ctx context.Context) ConnectionResult {
	if !s.Configured() {
		return ConnectionResult{
			Error:   ErrNotConfigured.Error(),
			Details: "Please add your OpenRouter API key in settings",
		}
	}

	resp, err := s.client.Complete(ctx, Request{
		Model:       s.cfg.Model,
		Prompt:      "Tell me you're working in 5 words.",
		MaxTokens:   20,
		Temperature: 0.1,
	})
	if errors.Is(err, ErrEmptyResponse) {
		return ConnectionResult{
			Error:   err.Error(),
			Details: "Check your API key and model configuration",
		}
	}
	if err != nil {
		return ConnectionResult{
			Error:   err.Error(),
			Details: "Failed to connect to OpenRouter API",
		}
	}
	return ConnectionResult{
		Success:    true,
		Model:      s.cfg.Model,
		Response:   resp.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}
}

// Enhance rewrites a bio. It never fails: without a key, or on any API
// error, the result comes from the local templates.
func (s *Service) Enhance(ctx context.Context, req EnhancementRequest) *EnhancementResult {
	req = req.withDefaults()
	logger := zerolog.Ctx(ctx)

	if !s.Configured() {
		return s.fallback(ctx, req)
	}

	start := s.now()
	logger.Info().Str("model", s.cfg.Model).Str("style", req.Style).Msg("enhancing bio")

	resp, err := s.client.Complete(ctx, Request{
		Model:       s.cfg.Model,
		Prompt:      EnhancementPrompt(req),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		logger.Error().Err(err).Msg("bio enhancement failed, using fallback")
		return s.fallback(ctx, req)
	}

	result := s.result(ctx, req.OriginalBio, resp)
	result.ProcessingTime = s.now().Sub(start)
	result.EstimatedCost = requestCost(req.OriginalBio, s.cfg.Model)

	logger.Info().
		Dur("duration", result.ProcessingTime).
		Int("tokens", result.TokensUsed).
		Msg("bio enhancement complete")
	return result
}

func (s *Service) result(ctx context.Context, original string, resp *Completion) *EnhancementResult {
	enhanced := ExtractBio(resp.Content)
	imp := AnalyzeImprovements(original, enhanced)

	out := &EnhancementResult{
		EnhancedBio:   enhanced,
		Score:         EnhancementScore(original, enhanced),
		Improvements:  imp.Made,
		Suggestions:   imp.Suggestions,
		Readability:   imp.Readability,
		Engagement:    imp.Engagement,
		Keywords:      imp.Keywords,
		Model:         resp.Model,
		TokensUsed:    resp.Usage.TotalTokens,
		PromptTokens:  resp.Usage.PromptTokens,
		OutputTokens:  resp.Usage.CompletionTokens,
		GenerationID:  resp.ID,
		CostBreakdown: map[string]string{},
	}

	cost, err := ActualCost(resp.Usage, resp.Model)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("no actual cost for completion")
		return out
	}
	out.ActualCost = cost.TotalCost
	out.CostBreakdown = cost.Breakdown
	return out
}

func (s *Service) fallback(ctx context.Context, req EnhancementRequest) *EnhancementResult {
	zerolog.Ctx(ctx).Info().Str("style", req.Style).Msg("using template bio enhancement")

	enhanced := TemplateEnhancement(req)
	imp := AnalyzeImprovements(req.OriginalBio, enhanced)
	return &EnhancementResult{
		EnhancedBio:    enhanced,
		Score:          fallbackScore,
		Improvements:   []string{"Applied template-based enhancement (API unavailable)"},
		Suggestions:    []string{"Retry with API when connection is stable"},
		Readability:    imp.Readability,
		Engagement:     imp.Engagement,
		Keywords:       imp.Keywords,
		Model:          FallbackModel,
		ProcessingTime: 100 * time.Millisecond,
		GenerationID:   "fallback-" + uuid.NewString(),
		CostBreakdown:  map[string]string{},
	}
}

// Alternatives asks for count variations, cycling through styles. Failed
// variations are skipped and an unconfigured service returns none.
func (s *Service) Alternatives(ctx context.Context, bio string, count int) []string {
	if !s.Configured() {
		return []string{}
	}
	logger := zerolog.Ctx(ctx)

	out := []string{}
	for i := range count {
		style := alternativeStyles[i%len(alternativeStyles)]
		resp, err := s.client.Complete(ctx, Request{
			Model:       s.cfg.Model,
			Prompt:      alternativePrompt(bio, style),
			MaxTokens:   500,
			Temperature: 0.8,
		})
		if err != nil {
			logger.Warn().Err(err).Int("alternative", i+1).Msg("failed to generate alternative")
			continue
		}
		out = append(out, ExtractBio(resp.Content))
	}

	logger.Info().Int("count", len(out)).Msg("generated bio alternatives")
	return out
}

// OptimizeKeywords works keywords into a bio, returning it unchanged on failure
func (s *Service) OptimizeKeywords(ctx context.Context, bio string, keywords []string) string {
	if !s.Configured() || len(keywords) == 0 {
		return bio
	}

	resp, err := s.client.Complete(ctx, Request{
		Model:       s.cfg.Model,
		Prompt:      keywordPrompt(bio, keywords),
		MaxTokens:   600,
		Temperature: 0.5,
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("keyword optimization failed")
		return bio
	}
	return ExtractBio(resp.Content)
}

// Iterate produces a fresh rewrite that avoids previous attempts and
// answers user feedback. Unlike Enhance it reports API failures.
func (s *Service) Iterate(ctx context.Context, req EnhancementRequest, previous []string, feedback string) (*EnhancementResult, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	req = req.withDefaults()

	model := iterativeModels[req.Style]
	if model == "" {
		model = ModelClaude3Sonnet
	}
	if _, ok := Pricing(model); !ok {
		model = s.cfg.Model
	}

	start := s.now()
	zerolog.Ctx(ctx).Info().Str("model", model).Int("previous", len(previous)).Msg("starting iterative bio improvement")

	resp, err := s.client.Complete(ctx, Request{
		Model:       model,
		Prompt:      IterativePrompt(req, previous, feedback),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: min(0.9, s.cfg.Temperature+0.2),
	})
	if err != nil {
		return nil, errors.Errorf("iterating bio: %w", err)
	}

	result := s.result(ctx, req.OriginalBio, resp)
	result.Insights = iterationInsights(result.EnhancedBio, previous)
	result.Improvements = append(result.Improvements, result.Insights...)
	result.ProcessingTime = s.now().Sub(start)
	return result, nil
}

// SuggestModel picks a model for a style and budget, defaulting to the configured one
func (s *Service) SuggestModel(style, budget string) string {
	return SuggestModel(style, budget, s.cfg.Model)
}

// EstimateRequestCost prices a bio enhancement on the configured model
func (s *Service) EstimateRequestCost(bio string) float64 {
	return requestCost(bio, s.cfg.Model)
}

// GenerationStats looks up accounting for a generation when the transport supports it
func (s *Service) GenerationStats(ctx context.Context, id string) (map[string]any, error) {
	q, ok := s.client.(statsQuerier)
	if !ok {
		return nil, nil
	}
	return q.GenerationStats(ctx, id)
}

var bioPrefixes = []string{
	"Enhanced bio:",
	"Optimized bio:",
	"Alternative bio:",
	"Here's the enhanced bio:",
	"Here's an optimized version:",
	"Bio:",
	"LinkedIn bio:",
}

// ExtractBio strips answer prefixes and wrapping quotes from a completion
func ExtractBio(content string) string {
	bio := strings.TrimSpace(content)
	for _, prefix := range bioPrefixes {
		if strings.HasPrefix(strings.ToLower(bio), strings.ToLower(prefix)) {
			bio = strings.TrimSpace(bio[len(prefix):])
		}
	}
	if len(bio) >= 2 && strings.HasPrefix(bio, `"`) && strings.HasSuffix(bio, `"`) {
		bio = strings.TrimSpace(bio[1 : len(bio)-1])
	}
	return bio
}

// TemplateEnhancement rewrites a bio from canned text when no model is available
func TemplateEnhancement(req EnhancementRequest) string {
	req = req.withDefaults()
	languages := orDefault(strings.Join(text.Head(req.Languages, 3), ", "), "modern technologies")
	projects := orDefault(strings.Join(text.Head(req.Projects, 2), ", "), "innovative solutions")
	achievements := orDefault(strings.Join(text.Head(req.Achievements, 2), ", "), "significant impact")

	var out string
	switch req.Style {
	case StyleCreative:
		out = fmt.Sprintf(`I'm a %[1]s who loves turning ideas into reality through code! 🚀

My toolkit includes %[2]s, and I've had the pleasure of building %[3]s. What drives me is the opportunity to create solutions that make a real difference.

Some highlights from my journey: %[4]s. Each project has taught me something new and pushed me to grow as both a developer and a problem-solver.

When I'm not coding, you'll find me exploring new technologies and contributing to the %[5]s community. I believe the best software comes from passionate people working together.

Always excited to connect with fellow creators and innovators! Let's build something amazing together. ✨`,
			req.Role, languages, projects, achievements, req.Industry)
	case StyleTechnical:
		out = fmt.Sprintf(`Senior %[1]s specializing in %[2]s with focus on scalable architecture and system optimization.

Technical expertise includes %[4]s across projects involving %[3]s. Experience spans full-stack development, performance optimization, and building robust systems that handle scale.

Core competencies:
• Architecture design and implementation
• Performance optimization and scalability
• Code quality and engineering best practices
• Technical leadership and mentorship

Committed to engineering excellence and continuous improvement. Open to discussing technical challenges, architecture decisions, and engineering opportunities in %[5]s.`,
			req.Role, languages, projects, achievements, req.Industry)
	default:
		out = fmt.Sprintf(`Experienced %[1]s with expertise in %[2]s. Proven track record of delivering high-quality solutions and driving technical excellence in %[5]s.

Key accomplishments include %[4]s through projects like %[3]s. Skilled in building scalable applications and leading technical initiatives that deliver measurable business value.

Passionate about innovation and continuous learning, with a focus on leveraging cutting-edge technologies to solve complex challenges. Always seeking opportunities to collaborate with talented teams and contribute to impactful projects.

Let's connect to discuss %[5]s opportunities and technical collaboration.`,
			req.Role, languages, projects, achievements, req.Industry)
	}
	return strings.TrimSpace(out)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
