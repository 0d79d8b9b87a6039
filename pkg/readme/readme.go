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

package readme

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/analyzer"
	"github.com/walteh/reporeadme/pkg/config"
	"github.com/walteh/reporeadme/pkg/log"
)

// ErrUnknownTemplate is returned for template names that are not registered
var ErrUnknownTemplate = errors.New("unknown template")

// ⚙️ Config controls which sections a template emits
type Config struct {
	Template               string
	IncludeBadges          bool
	IncludeTOC             bool
	IncludeScreenshots     bool
	IncludeAPIDocs         bool
	IncludeContributing    bool
	IncludeLicenseSection  bool
	IncludeAcknowledgments bool
	EmojiStyle             string // unicode, github, none
	BadgeStyle             string // flat, flat-square, plastic
	Language               string
}

// 🏭 DefaultConfig returns the modern template with every section enabled
func DefaultConfig() Config {
	return Config{
		Template:               "modern",
		IncludeBadges:          true,
		IncludeTOC:             true,
		IncludeScreenshots:     true,
		IncludeAPIDocs:         true,
		IncludeContributing:    true,
		IncludeLicenseSection:  true,
		IncludeAcknowledgments: true,
		EmojiStyle:             "unicode",
		BadgeStyle:             "flat",
		Language:               "en",
	}
}

// 🔄 ConfigFromSettings maps persisted settings onto a template config
func ConfigFromSettings(s *config.Settings) Config {
	cfg := DefaultConfig()
	cfg.Template = s.DefaultTemplate
	cfg.IncludeBadges = s.IncludeBadges
	cfg.IncludeTOC = s.IncludeTOC
	cfg.IncludeScreenshots = s.IncludeScreenshots
	cfg.IncludeAPIDocs = s.IncludeAPIDocs
	cfg.IncludeContributing = s.IncludeContributing
	cfg.IncludeLicenseSection = s.IncludeLicenseSection
	cfg.IncludeAcknowledgments = s.IncludeAcknowledgments
	cfg.EmojiStyle = s.EmojiStyle
	cfg.BadgeStyle = s.BadgeStyle
	return cfg
}

type templateFunc func(meta *analyzer.ProjectMetadata, cfg Config, now time.Time) *doc

type template struct {
	name        string
	description string
	render      templateFunc
}

// 📚 templates in display order
var templates = []template{
	{"modern", "Contemporary design with badges, emojis, and comprehensive sections", modern},
	{"classic", "Traditional README format with essential information", classic},
	{"minimalist", "Clean, simple design with minimal content", minimalist},
	{"developer", "Technical focus with detailed development information", developer},
	{"academic", "Research project format with citations and methodology", academic},
	{"corporate", "Professional business format with compliance and deployment info", corporate},
}

// TemplateInfo names a template and says what it is for
type TemplateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// 📋 Templates lists the available templates
func Templates() []TemplateInfo {
	out := make([]TemplateInfo, 0, len(templates))
	for _, t := range templates {
		out = append(out, TemplateInfo{Name: t.name, Description: t.description})
	}
	return out
}

func lookup(name string) (template, bool) {
	i := slices.IndexFunc(templates, func(t template) bool { return t.name == name })
	if i < 0 {
		return template{}, false
	}
	return templates[i], true
}

// 🚀 Generate renders the README for meta with the configured template
func Generate(ctx context.Context, meta *analyzer.ProjectMetadata, cfg Config) (string, error) {
	return generateAt(ctx, meta, cfg, time.Now())
}

func generateAt(ctx context.Context, meta *analyzer.ProjectMetadata, cfg Config, now time.Time) (string, error) {
	t, ok := lookup(cfg.Template)
	if !ok {
		names := make([]string, 0, len(templates))
		for _, t := range templates {
			names = append(names, t.name)
		}
		return "", errors.Errorf("%w: %q, options: %s", ErrUnknownTemplate, cfg.Template, strings.Join(names, ", "))
	}

	zerolog.Ctx(ctx).Info().Str("category", log.CategoryTemplate).Str("template", t.name).Str("repo", meta.Name).Msg("generating readme")

	out := t.render(meta, cfg, now).String()

	log.LogReadmeGeneration(ctx, meta.Name, t.name, fmt.Sprintf("%s_README.md", meta.Name), true)
	return out, nil
}

// doc accumulates markdown lines
type doc struct {
	lines []string
}

func (d *doc) add(lines ...string) {
	d.lines = append(d.lines, lines...)
}

func (d *doc) addf(format string, args ...any) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
}

func (d *doc) blank() {
	d.lines = append(d.lines, "")
}

func (d *doc) String() string {
	return strings.Join(d.lines, "\n") + "\n"
}
