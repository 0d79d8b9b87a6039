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
	"fmt"
	"slices"
	"strings"

	"github.com/walteh/reporeadme/pkg/analyzer"
	"github.com/walteh/reporeadme/pkg/text"
)

const shieldsURL = "https://img.shields.io"

var languageColors = map[string]string{
	"python":     "blue",
	"javascript": "yellow",
	"typescript": "blue",
	"java":       "orange",
	"go":         "cyan",
	"rust":       "orange",
	"php":        "purple",
}

// shields.io treats dashes and underscores as separators
var shieldsEscaper = strings.NewReplacer("-", "--", "_", "__", " ", "_")

func badge(label, message, color, style string) string {
	return fmt.Sprintf("![%s](%s/badge/%s-%s-%s.svg?style=%s)",
		text.Title(label), shieldsURL, label, shieldsEscaper.Replace(message), color, style)
}

// QualityColor maps a quality score onto a badge color
func QualityColor(score float64) string {
	switch {
	case score >= 80:
		return "green"
	case score >= 60:
		return "yellow"
	default:
		return "red"
	}
}

func badges(meta *analyzer.ProjectMetadata, cfg Config) []string {
	var out []string

	if meta.Version != "" {
		out = append(out, badge("version", meta.Version, "blue", cfg.BadgeStyle))
	}
	if meta.License != "" {
		out = append(out, badge("license", meta.License, "green", cfg.BadgeStyle))
	}
	if meta.PrimaryLanguage != "" {
		color, ok := languageColors[strings.ToLower(meta.PrimaryLanguage)]
		if !ok {
			color = "lightgrey"
		}
		out = append(out, badge("language", meta.PrimaryLanguage, color, cfg.BadgeStyle))
	}
	if meta.CodeQualityScore > 0 {
		out = append(out, fmt.Sprintf("![Quality](%s/badge/quality-%.0f%%25-%s.svg?style=%s)",
			shieldsURL, meta.CodeQualityScore, QualityColor(meta.CodeQualityScore), cfg.BadgeStyle))
	}

	if len(out) == 0 {
		return nil
	}
	return []string{"## Badges", "", strings.Join(out, " "), ""}
}

func hasAPISection(meta *analyzer.ProjectMetadata, cfg Config) bool {
	return cfg.IncludeAPIDocs && slices.Contains([]string{"api", "web-app"}, meta.ProjectType)
}

func tableOfContents(meta *analyzer.ProjectMetadata, cfg Config) []string {
	sections := []struct {
		name    string
		include bool
	}{
		{"Features", len(meta.Features) > 0},
		{"Technology Stack", len(meta.Languages) > 0 || len(meta.Frameworks) > 0},
		{"Getting Started", true},
		{"Usage", len(meta.UsageExamples) > 0},
		{"API Documentation", hasAPISection(meta, cfg)},
		{"Project Structure", len(meta.Structure) > 0},
		{"Testing", meta.HasTests},
		{"Contributing", cfg.IncludeContributing},
		{"License", cfg.IncludeLicenseSection && meta.License != ""},
	}

	toc := []string{"## Table of Contents", ""}
	for _, s := range sections {
		if s.include {
			heading := sectionTitle(cfg, s.name)
			toc = append(toc, fmt.Sprintf("- [%s](#%s)", heading, text.Anchor(heading)))
		}
	}
	return toc
}

// emoji shown in front of each modern template section
var sectionEmojis = map[string]string{
	"Features":          "sparkles",
	"Technology Stack":  "tools",
	"Getting Started":   "rocket",
	"Usage":             "book",
	"API Documentation": "books",
	"Project Structure": "folder",
	"Testing":           "test_tube",
	"Contributing":      "handshake",
	"License":           "memo",
	"Acknowledgments":   "pray",
}

// sectionTitle is the exact heading text for a modern template section
func sectionTitle(cfg Config, name string) string {
	return withEmoji(cfg, sectionEmojis[name], name)
}

// emoji shortcodes and their unicode forms
var emojis = map[string]string{
	"rocket":    "🚀",
	"sparkles":  "✨",
	"tools":     "🛠️",
	"book":      "📖",
	"books":     "📚",
	"folder":    "📁",
	"test_tube": "🧪",
	"handshake": "🤝",
	"memo":      "📝",
	"pray":      "🙏",
	"heart":     "❤️",
}

func emoji(cfg Config, name string) string {
	switch cfg.EmojiStyle {
	case "none":
		return ""
	case "github":
		return ":" + name + ":"
	default:
		return emojis[name]
	}
}

func withEmoji(cfg Config, name, s string) string {
	if e := emoji(cfg, name); e != "" {
		return e + " " + s
	}
	return s
}
