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
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/config"
	"github.com/walteh/reporeadme/pkg/linkedin"
	"github.com/walteh/reporeadme/pkg/openrouter"
)

// NewLinkedInCmd creates the linkedin command
func NewLinkedInCmd(o *opts.RootOpts) *cobra.Command {
	cfg := linkedin.DefaultConfig()
	var (
		profilePath string
		outDir      string
		formats     []string
		enhance     bool
		aiBio       bool
		bioStyle    string
		refresh     bool
		dryRun      bool
		extra       linkedin.AdditionalInfo
	)

	cmd := &cobra.Command{
		Use:   "linkedin [username]",
		Short: "Generate LinkedIn content from a GitHub profile",
		Long: `LinkedIn writes a headline, summary, experience and content ideas.
It will:
1. Load the profile from --profile, the cache or GitHub
2. Generate content in the chosen tone and length
3. Optionally rewrite the summary with OpenRouter (--enhance)
4. Optionally write a repository driven about bio with scores (--ai-bio)
5. Export it as json and a plain text guide`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if aiBio && !slices.Contains(linkedin.BioStyles, bioStyle) {
				return errors.Errorf("unknown bio style %q, options: %s", bioStyle, strings.Join(linkedin.BioStyles, ", "))
			}

			p, err := loadProfile(ctx, o, argOrEmpty(args), profilePath, refresh)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("tone") && o.Settings.LinkedInTone != "" {
				cfg.Tone = o.Settings.LinkedInTone
			}

			content := linkedin.NewGenerator(cfg).Generate(ctx, p, extra)

			if enhance || (o.Settings.OpenRouterEnabled && o.Settings.OpenRouterEnhanceBios) {
				svc := newService(o)
				if !svc.Configured() {
					o.Console.Warning("openrouter is not configured, keeping the generated summary")
				} else {
					req := openrouter.NewEnhancementRequest(content.Summary).WithProfile(p)
					req.Style = cfg.Tone
					req.Role = cfg.TargetRole
					req.Industry = cfg.TargetIndustry
					res := svc.Enhance(ctx, req)
					if res.Fallback() {
						o.Console.Warning("enhancement failed, keeping the generated summary")
					} else {
						content.Summary = res.EnhancedBio
						o.Console.Successf("summary enhanced with %s (score %.0f)", res.Model, res.Score)
					}
				}
			}

			o.Console.Header("💼 LinkedIn")
			o.Console.KeyValue("Headline", content.Headline)
			o.Console.KeyValue("Position", content.CurrentPosition)
			o.Printf("\n%s\n\n", content.Summary)

			if aiBio {
				content.AIBio = linkedin.NewBioGenerator(linkedin.BioConfigFrom(cfg, bioStyle)).Generate(ctx, p)
				reportAIBio(o, content.AIBio)
			}

			dir := o.ExportDir(outDir, "linkedin")
			mgr := o.StatusManager(ctx, dir)
			arts, err := linkedin.NewExporter(content).Export(ctx, mgr, dir, formats, o.WriteOptions("linkedin", dryRun))
			o.ReportArtifacts(ctx, arts...)
			if err != nil {
				return errors.Errorf("exporting linkedin content: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "profile json written by the profile command")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory to export to (default ./linkedin)")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", linkedin.Formats, "export formats: "+strings.Join(linkedin.Formats, ", "))
	cmd.Flags().StringVar(&cfg.Tone, "tone", cfg.Tone, "tone: "+strings.Join(config.LinkedInTones, ", "))
	cmd.Flags().StringVar(&cfg.Length, "length", cfg.Length, "summary length: short, medium, long")
	cmd.Flags().StringVar(&cfg.TargetRole, "role", "", "target role")
	cmd.Flags().StringVar(&cfg.TargetIndustry, "industry", "", "target industry")
	cmd.Flags().BoolVar(&cfg.IncludeEmojis, "emojis", cfg.IncludeEmojis, "decorate the headline with emojis")
	cmd.Flags().BoolVar(&cfg.MentionOpenToOpportunities, "open-to-work", cfg.MentionOpenToOpportunities, "mention that you are open to opportunities")
	cmd.Flags().StringVar(&extra.Location, "location", "", "location")
	cmd.Flags().StringSliceVar(&extra.Interests, "interests", nil, "personal interests")
	cmd.Flags().StringSliceVar(&extra.Hobbies, "hobbies", nil, "hobbies")
	cmd.Flags().BoolVar(&enhance, "enhance", false, "rewrite the summary with openrouter")
	cmd.Flags().BoolVar(&aiBio, "ai-bio", false, "generate an about bio from repository analysis")
	cmd.Flags().StringVar(&bioStyle, "bio-style", linkedin.StyleProfessional, "ai bio style: "+strings.Join(linkedin.BioStyles, ", "))
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the cached profile")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be written without writing")

	return cmd
}

func reportAIBio(o *opts.RootOpts, bio *linkedin.Bio) {
	o.Console.Header(fmt.Sprintf("🤖 AI bio (%s)", bio.Config.Style))
	o.Printf("%s\n\n", bio.Primary)

	m := bio.Metrics
	o.UserLogger.LogTable([][]string{
		{"Metric", "Value"},
		{"Complexity", fmt.Sprintf("%.0f/100", bio.Analysis.ComplexityScore)},
		{"Readability", fmt.Sprintf("%.0f/100", m.Readability)},
		{"SEO", fmt.Sprintf("%.0f/100", m.SEO)},
		{"Uniqueness", fmt.Sprintf("%.0f/100", m.Uniqueness)},
		{"Engagement", m.Engagement},
		{"Authenticity", strings.Join(m.AuthenticityIndicators, ", ")},
		{"Industry keywords", strings.Join(m.IndustryKeywordsUsed, ", ")},
	})
	o.Console.KeyValue("Domains", strings.Join(bio.Analysis.DomainExpertise, ", "))
	o.Console.KeyValue("Patterns", strings.Join(bio.Analysis.ArchitecturalPatterns, ", "))
	o.Console.KeyValue("Leadership", strings.Join(bio.Analysis.LeadershipEvidence, ", "))
	o.Console.KeyValue("Alternatives", len(bio.Alternatives))
}
