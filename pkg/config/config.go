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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for settings file formats
type Parser interface {
	// 📝 Parse decodes data on top of the values already in into
	Parse(ctx context.Context, data []byte, into *Settings) error

	// 📤 Encode renders settings in this format
	Encode(ctx context.Context, s *Settings) ([]byte, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	return slices.Contains(exts, ext)
}

// 🎨 allowed values, first entry of each is the default
var (
	Templates     = []string{"modern", "classic", "minimalist", "developer", "academic", "corporate"}
	EmojiStyles   = []string{"unicode", "github", "none"}
	BadgeStyles   = []string{"flat", "flat-square", "plastic"}
	ExportFormats = []string{"markdown", "html", "pdf"}
	LogLevels     = []string{"INFO", "DEBUG", "WARNING", "ERROR", "CRITICAL"}
	CVStyles      = []string{"modern", "classic", "minimal", "technical", "creative"}
	LinkedInTones = []string{"professional", "creative", "technical", "executive"}
)

// 📚 Settings is the persisted application configuration
type Settings struct {
	// template
	DefaultTemplate        string `json:"default_template" yaml:"default_template" toml:"default_template"`
	IncludeBadges          bool   `json:"include_badges" yaml:"include_badges" toml:"include_badges"`
	IncludeTOC             bool   `json:"include_toc" yaml:"include_toc" toml:"include_toc"`
	IncludeScreenshots     bool   `json:"include_screenshots" yaml:"include_screenshots" toml:"include_screenshots"`
	IncludeAPIDocs         bool   `json:"include_api_docs" yaml:"include_api_docs" toml:"include_api_docs"`
	IncludeContributing    bool   `json:"include_contributing" yaml:"include_contributing" toml:"include_contributing"`
	IncludeLicenseSection  bool   `json:"include_license_section" yaml:"include_license_section" toml:"include_license_section"`
	IncludeAcknowledgments bool   `json:"include_acknowledgments" yaml:"include_acknowledgments" toml:"include_acknowledgments"`
	EmojiStyle             string `json:"emoji_style" yaml:"emoji_style" toml:"emoji_style"`
	BadgeStyle             string `json:"badge_style" yaml:"badge_style" toml:"badge_style"`

	// analysis
	AutoAnalyze        bool     `json:"auto_analyze" yaml:"auto_analyze" toml:"auto_analyze"`
	CacheAnalysis      bool     `json:"cache_analysis" yaml:"cache_analysis" toml:"cache_analysis"`
	MaxCacheAgeDays    int      `json:"max_cache_age_days" yaml:"max_cache_age_days" toml:"max_cache_age_days"`
	ExcludePatterns    []string `json:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`
	IncludeHiddenFiles bool     `json:"include_hidden_files" yaml:"include_hidden_files" toml:"include_hidden_files"`

	// export
	DefaultExportFormat string `json:"default_export_format" yaml:"default_export_format" toml:"default_export_format"`
	AutoTimestampFiles  bool   `json:"auto_timestamp_files" yaml:"auto_timestamp_files" toml:"auto_timestamp_files"`
	CreateBackup        bool   `json:"create_backup" yaml:"create_backup" toml:"create_backup"`
	ExportDirectory     string `json:"export_directory" yaml:"export_directory" toml:"export_directory"`

	// ai
	OpenRouterAPIKey      string  `json:"openrouter_api_key" yaml:"openrouter_api_key" toml:"openrouter_api_key"`
	OpenRouterModel       string  `json:"openrouter_model" yaml:"openrouter_model" toml:"openrouter_model"`
	OpenRouterEnabled     bool    `json:"openrouter_enabled" yaml:"openrouter_enabled" toml:"openrouter_enabled"`
	OpenRouterEnhanceBios bool    `json:"openrouter_enhance_bios" yaml:"openrouter_enhance_bios" toml:"openrouter_enhance_bios"`
	OpenRouterMaxTokens   int     `json:"openrouter_max_tokens" yaml:"openrouter_max_tokens" toml:"openrouter_max_tokens"`
	OpenRouterTemperature float64 `json:"openrouter_temperature" yaml:"openrouter_temperature" toml:"openrouter_temperature"`

	// accounts
	GitHubUsername string `json:"github_username" yaml:"github_username" toml:"github_username"`
	GitHubToken    string `json:"github_token" yaml:"github_token" toml:"github_token"`
	GitLabToken    string `json:"gitlab_token" yaml:"gitlab_token" toml:"gitlab_token"`
	SSHKeyPath     string `json:"ssh_key_path" yaml:"ssh_key_path" toml:"ssh_key_path"`

	// generators
	CVStyle      string `json:"cv_style" yaml:"cv_style" toml:"cv_style"`
	LinkedInTone string `json:"linkedin_tone" yaml:"linkedin_tone" toml:"linkedin_tone"`

	// logging
	LogLevel     string `json:"log_level" yaml:"log_level" toml:"log_level"`
	KeepLogsDays int    `json:"keep_logs_days" yaml:"keep_logs_days" toml:"keep_logs_days"`
	LogToFile    bool   `json:"log_to_file" yaml:"log_to_file" toml:"log_to_file"`

	// performance
	ConcurrentRequests int `json:"concurrent_requests" yaml:"concurrent_requests" toml:"concurrent_requests"`
}

// 🏭 Defaults returns settings with every field at its default value
func Defaults() *Settings {
	return &Settings{
		DefaultTemplate:        "modern",
		IncludeBadges:          true,
		IncludeTOC:             true,
		IncludeScreenshots:     true,
		IncludeAPIDocs:         true,
		IncludeContributing:    true,
		IncludeLicenseSection:  true,
		IncludeAcknowledgments: true,
		EmojiStyle:             "unicode",
		BadgeStyle:             "flat",

		AutoAnalyze:     true,
		CacheAnalysis:   true,
		MaxCacheAgeDays: 7,
		ExcludePatterns: []string{"node_modules", ".git", "__pycache__", ".venv", "venv", "build", "dist", ".cache", "coverage"},

		DefaultExportFormat: "markdown",
		CreateBackup:        true,

		OpenRouterModel:       "openai/gpt-3.5-turbo",
		OpenRouterEnhanceBios: true,
		OpenRouterMaxTokens:   1000,
		OpenRouterTemperature: 0.7,

		CVStyle:      "modern",
		LinkedInTone: "professional",

		LogLevel:     "INFO",
		KeepLogsDays: 30,
		LogToFile:    true,

		ConcurrentRequests: 10,
	}
}

func normalize(value *string, allowed []string, fold func(string) string) {
	v := fold(strings.TrimSpace(*value))
	if slices.Contains(allowed, v) {
		*value = v
		return
	}
	*value = allowed[0]
}

// 🔍 Validate normalizes out-of-range values back to their defaults and
// rejects values that cannot be repaired
func (s *Settings) Validate() error {
	normalize(&s.DefaultTemplate, Templates, strings.ToLower)
	normalize(&s.EmojiStyle, EmojiStyles, strings.ToLower)
	normalize(&s.BadgeStyle, BadgeStyles, strings.ToLower)
	normalize(&s.DefaultExportFormat, ExportFormats, strings.ToLower)
	normalize(&s.LogLevel, LogLevels, strings.ToUpper)
	normalize(&s.CVStyle, CVStyles, strings.ToLower)
	normalize(&s.LinkedInTone, LinkedInTones, strings.ToLower)

	if s.MaxCacheAgeDays < 1 {
		s.MaxCacheAgeDays = 7
	}
	if s.KeepLogsDays < 1 {
		s.KeepLogsDays = 30
	}
	if s.ConcurrentRequests < 1 {
		s.ConcurrentRequests = 10
	}

	if s.OpenRouterTemperature < 0 || s.OpenRouterTemperature > 2 {
		return errors.Errorf("openrouter_temperature must be between 0 and 2, got %v", s.OpenRouterTemperature)
	}
	if s.OpenRouterMaxTokens < 1 {
		return errors.Errorf("openrouter_max_tokens must be positive, got %d", s.OpenRouterMaxTokens)
	}

	if s.ExportDirectory != "" {
		s.ExportDirectory = filepath.Clean(s.ExportDirectory)
	}

	return nil
}

// 📝 String returns a one-line description of the settings
func (s *Settings) String() string {
	ai := "off"
	if s.OpenRouterEnabled {
		ai = s.OpenRouterModel
	}
	return fmt.Sprintf("template=%s format=%s ai=%s log=%s", s.DefaultTemplate, s.DefaultExportFormat, ai, s.LogLevel)
}

// 🎯 Load reads settings from a file on top of the defaults
func Load(ctx context.Context, path string) (*Settings, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading settings")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	return Decode(ctx, path, data)
}

// 🔄 Decode parses data using the parser registered for path
func Decode(ctx context.Context, path string, data []byte) (*Settings, error) {
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	s := Defaults()
	if err := p.Parse(ctx, data, s); err != nil {
		return nil, errors.Errorf("parsing settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, errors.Errorf("validating settings: %w", err)
	}

	return s, nil
}

// 📤 Encode renders settings in the format registered for path
func Encode(ctx context.Context, path string, s *Settings) ([]byte, error) {
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}
	data, err := p.Encode(ctx, s)
	if err != nil {
		return nil, errors.Errorf("encoding settings: %w", err)
	}
	return data, nil
}
