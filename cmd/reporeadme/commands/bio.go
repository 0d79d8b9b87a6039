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

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/openrouter"
)

func newService(o *opts.RootOpts) *openrouter.Service {
	return openrouter.NewService(openrouter.ConfigFromSettings(o.Settings), nil)
}

// bioFlags are shared by the bio subcommands
type bioFlags struct {
	bio         string
	file        string
	style       string
	role        string
	industry    string
	approach    string
	username    string
	profilePath string
	asJSON      bool
}

func (f *bioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.bio, "bio", "", "bio text")
	cmd.Flags().StringVar(&f.file, "bio-file", "", "read the bio from a file")
	cmd.Flags().StringVarP(&f.style, "style", "s", openrouter.StyleProfessional, "target style: "+strings.Join(openrouter.Styles, ", "))
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the result as json")
}

func (f *bioFlags) registerTargeting(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.role, "role", "", "target role")
	cmd.Flags().StringVar(&f.industry, "industry", "", "target industry")
	cmd.Flags().StringVar(&f.approach, "approach", openrouter.ApproachImprove, "improve, rewrite, optimize or personalize")
	cmd.Flags().StringVar(&f.username, "username", "", "github user whose profile adds context")
	cmd.Flags().StringVar(&f.profilePath, "profile", "", "profile json that adds context")
}

// request builds an enhancement request, adding profile context when asked for
func (f *bioFlags) request(cmd *cobra.Command, o *opts.RootOpts) (openrouter.EnhancementRequest, error) {
	bio, err := readBio(f.bio, f.file)
	if err != nil {
		return openrouter.EnhancementRequest{}, err
	}

	req := openrouter.NewEnhancementRequest(bio)
	req.Style = f.style
	if f.role != "" {
		req.Role = f.role
	}
	if f.industry != "" {
		req.Industry = f.industry
	}
	if f.approach != "" {
		req.Approach = f.approach
	}

	if f.username != "" || f.profilePath != "" {
		p, err := loadProfile(cmd.Context(), o, f.username, f.profilePath, false)
		if err != nil {
			return req, err
		}
		req = req.WithProfile(p)
	}
	return req, nil
}

// NewBioCmd creates the bio command group
func NewBioCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bio",
		Short: "Enhance and evaluate professional bios with OpenRouter",
	}

	cmd.AddCommand(
		newBioEnhanceCmd(o),
		newBioAlternativesCmd(o),
		newBioKeywordsCmd(o),
		newBioEvaluateCmd(o),
		newBioIterateCmd(o),
		newBioSuggestCmd(o),
	)

	return cmd
}

func newBioEnhanceCmd(o *opts.RootOpts) *cobra.Command {
	var f bioFlags

	cmd := &cobra.Command{
		Use:   "enhance",
		Short: "Rewrite a bio in a target style",
		Long: `Enhance rewrites a bio with the configured model.
When OpenRouter is not configured or the request fails, a template rewrite is
returned instead and marked as a fallback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			req, err := f.request(cmd, o)
			if err != nil {
				return err
			}

			svc := newService(o)
			if !svc.Configured() {
				o.Console.Warning("openrouter is not configured, using the template rewrite")
			}

			res := svc.Enhance(ctx, req)
			if f.asJSON {
				return o.PrintJSON(res)
			}
			printEnhancement(o, req, res)
			return nil
		},
	}

	f.register(cmd)
	f.registerTargeting(cmd)

	return cmd
}

func printEnhancement(o *opts.RootOpts, req openrouter.EnhancementRequest, res *openrouter.EnhancementResult) {
	c := o.Console
	c.Header("✨ Enhanced bio")
	o.Printf("\n%s\n\n", res.EnhancedBio)

	c.KeyValue("Model", res.Model)
	c.KeyValue("Score", fmt.Sprintf("%.0f/100", res.Score))
	if !res.Fallback() {
		c.KeyValue("Tokens", res.TokensUsed)
		c.KeyValue("Cost", fmt.Sprintf("$%.6f (estimated $%.6f)", res.ActualCost, res.EstimatedCost))
		c.KeyValue("Time", res.ProcessingTime.String())
	}
	for _, imp := range res.Improvements {
		c.Success(imp)
	}
	for _, s := range res.Suggestions {
		c.Info(s)
	}

	eval := openrouter.Evaluate(res.EnhancedBio, req.Style)
	before := openrouter.Evaluate(req.OriginalBio, req.Style)
	c.KeyValue("Evaluation", fmt.Sprintf("%.0f -> %.0f (%s)", before.Overall, eval.Overall, eval.Compliance))
}

func newBioAlternativesCmd(o *opts.RootOpts) *cobra.Command {
	var (
		f     bioFlags
		count int
	)

	cmd := &cobra.Command{
		Use:   "alternatives",
		Short: "Generate variations of a bio in different styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			bio, err := readBio(f.bio, f.file)
			if err != nil {
				return err
			}

			svc := newService(o)
			if !svc.Configured() {
				return errors.Errorf("generating alternatives: %w", openrouter.ErrNotConfigured)
			}

			alts := svc.Alternatives(ctx, bio, count)
			if f.asJSON {
				return o.PrintJSON(alts)
			}
			if len(alts) == 0 {
				o.Console.Warning("no alternatives were generated")
				return nil
			}
			for i, alt := range alts {
				o.Console.Header(fmt.Sprintf("Alternative %d", i+1))
				o.Printf("%s\n", alt)
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 3, "number of alternatives")

	return cmd
}

func newBioKeywordsCmd(o *opts.RootOpts) *cobra.Command {
	var (
		f        bioFlags
		keywords []string
	)

	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Work keywords into a bio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			bio, err := readBio(f.bio, f.file)
			if err != nil {
				return err
			}
			if len(keywords) == 0 {
				return errors.New("at least one --keyword is required")
			}

			svc := newService(o)
			if !svc.Configured() {
				return errors.Errorf("optimizing keywords: %w", openrouter.ErrNotConfigured)
			}

			out := svc.OptimizeKeywords(ctx, bio, keywords)
			if f.asJSON {
				return o.PrintJSON(map[string]any{"bio": out, "keywords": keywords})
			}
			o.Printf("%s\n", out)

			lower := strings.ToLower(out)
			for _, k := range keywords {
				if strings.Contains(lower, strings.ToLower(k)) {
					o.Console.Successf("contains %q", k)
				} else {
					o.Console.Warningf("missing %q", k)
				}
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "keywords to include")

	return cmd
}

func newBioEvaluateCmd(o *opts.RootOpts) *cobra.Command {
	var f bioFlags

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a bio against a style without calling the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			bio, err := readBio(f.bio, f.file)
			if err != nil {
				return err
			}

			eval := openrouter.Evaluate(bio, f.style)
			metrics := openrouter.AnalyzeText(bio)
			direction := openrouter.SuggestDirection(bio, f.style, eval.Overall)

			if f.asJSON {
				return o.PrintJSON(map[string]any{
					"evaluation": eval,
					"metrics":    metrics,
					"direction":  direction,
				})
			}

			c := o.Console
			c.Header(fmt.Sprintf("📝 %s evaluation", eval.Style))
			c.KeyValue("Overall", fmt.Sprintf("%.0f/100", eval.Overall))
			c.KeyValue("Compliance", eval.Compliance)

			rows := [][]string{{"Category", "Score", "Weight"}}
			for _, cat := range eval.Categories {
				rows = append(rows, []string{strings.ReplaceAll(cat.Name, "_", " "), fmt.Sprintf("%.0f", cat.Score), fmt.Sprintf("%.0f%%", cat.Weight*100)})
			}
			o.UserLogger.LogTable(rows)

			c.KeyValue("Words", metrics.Words)
			c.KeyValue("Sentences", metrics.Sentences)
			c.KeyValue("Action verbs", metrics.ActionVerbs)
			c.KeyValue("Technical terms", metrics.TechnicalTerms)

			for _, fb := range eval.Feedback {
				c.Info(fb)
			}
			for _, d := range direction {
				c.Info(d)
			}
			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func newBioIterateCmd(o *opts.RootOpts) *cobra.Command {
	var (
		f        bioFlags
		previous []string
		feedback string
	)

	cmd := &cobra.Command{
		Use:   "iterate",
		Short: "Produce a fresh rewrite that avoids previous attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			req, err := f.request(cmd, o)
			if err != nil {
				return err
			}

			res, err := newService(o).Iterate(ctx, req, previous, feedback)
			if err != nil {
				return errors.Errorf("iterating bio: %w", err)
			}

			if f.asJSON {
				return o.PrintJSON(res)
			}
			printEnhancement(o, req, res)
			c := o.Console
			c.KeyValue("Novelty", fmt.Sprintf("%.0f%%", openrouter.Novelty(res.EnhancedBio, previous)))
			for _, d := range openrouter.SuggestDirection(res.EnhancedBio, req.Style, res.Score) {
				c.Info(d)
			}
			return nil
		},
	}

	f.register(cmd)
	f.registerTargeting(cmd)
	cmd.Flags().StringArrayVar(&previous, "previous", nil, "a previous attempt to avoid (repeatable)")
	cmd.Flags().StringVar(&feedback, "feedback", "", "what to change from the previous attempts")

	return cmd
}

func newBioSuggestCmd(o *opts.RootOpts) *cobra.Command {
	var (
		f     bioFlags
		score float64
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest where to take a bio next",
		Long: `Suggest returns up to three next steps for a bio. The score defaults to the
bio's own evaluation in the chosen style.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bio, err := readBio(f.bio, f.file)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("score") {
				score = openrouter.Evaluate(bio, f.style).Overall
			}

			direction := openrouter.SuggestDirection(bio, f.style, score)
			if f.asJSON {
				return o.PrintJSON(map[string]any{"score": score, "direction": direction})
			}
			for i, d := range direction {
				o.Printf("%d. %s\n", i+1, d)
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().Float64Var(&score, "score", 0, "score of the bio, 0 to 100")

	return cmd
}
