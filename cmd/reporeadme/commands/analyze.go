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

package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/analyzer"
	"github.com/walteh/reporeadme/pkg/profile"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd(o *opts.RootOpts) *cobra.Command {
	var (
		asJSON  bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a local repository",
		Long: `Analyze scans a repository and reports what it finds.
It will:
1. Read manifests and detect languages, frameworks and tools
2. Count files and lines of code
3. Read the git history
4. Score the project's code quality`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := argOrEmpty(args)
			if path == "" {
				path = "."
			}

			meta, cached, err := analyzePath(ctx, o, path, refresh)
			if err != nil {
				return errors.Errorf("analyzing %s: %w", path, err)
			}

			if asJSON {
				return o.PrintJSON(meta)
			}

			printAnalysis(o, meta, cached)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as json")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the analysis cache")

	return cmd
}

func printAnalysis(o *opts.RootOpts, meta *analyzer.ProjectMetadata, cached bool) {
	c := o.Console
	title := "📊 Analysis of " + meta.Name
	if cached {
		title += " (cached)"
	}
	c.Header(title)

	if meta.Description != "" {
		c.KeyValue("Description", meta.Description)
	}
	c.KeyValue("Type", meta.ProjectType)
	c.KeyValue("Primary language", orDash(meta.PrimaryLanguage))

	if len(meta.Languages) > 0 {
		var langs []string
		for _, lang := range profile.SortedKeys(percentKeys(meta.Languages)) {
			langs = append(langs, fmt.Sprintf("%s %.1f%%", lang, meta.Languages[lang]))
		}
		c.KeyValue("Languages", strings.Join(langs, ", "))
	}
	if len(meta.Frameworks) > 0 {
		c.KeyValue("Frameworks", strings.Join(meta.Frameworks, ", "))
	}
	if len(meta.Databases) > 0 {
		c.KeyValue("Databases", strings.Join(meta.Databases, ", "))
	}
	if len(meta.Tools) > 0 {
		c.KeyValue("Tools", strings.Join(meta.Tools, ", "))
	}

	c.KeyValue("Files", humanize.Comma(int64(meta.TotalFiles)))
	c.KeyValue("Lines", fmt.Sprintf("%s (%s code, %s comments)",
		humanize.Comma(int64(meta.TotalLines)),
		humanize.Comma(int64(meta.CodeLines)),
		humanize.Comma(int64(meta.CommentLines))))
	c.KeyValue("Dependencies", meta.DependencyCount())

	if meta.Commits > 0 {
		c.KeyValue("Commits", humanize.Comma(int64(meta.Commits)))
		c.KeyValue("Contributors", meta.Contributors)
	}
	if meta.LastUpdated != "" {
		c.KeyValue("Last updated", meta.LastUpdated)
	}

	c.KeyValue("Tests", yesNo(meta.HasTests))
	c.KeyValue("CI", yesNo(meta.HasCI))
	c.KeyValue("Docker", yesNo(meta.HasDocker))
	c.KeyValue("Quality score", fmt.Sprintf("%.0f/100", meta.CodeQualityScore))

	if len(meta.APIEndpoints) > 0 {
		c.KeyValue("API endpoints", len(meta.APIEndpoints))
	}
	if len(meta.Features) > 0 {
		c.KeyValue("Features", strings.Join(meta.Features, ", "))
	}
}

// percentKeys scales language shares to tenths of a percent so they rank like counters
func percentKeys(m map[string]float64) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = int(v * 10)
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
