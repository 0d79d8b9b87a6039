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
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/openrouter"
)

// NewModelsCmd creates the models command group
func NewModelsCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Compare OpenRouter models by cost and quality",
	}

	cmd.AddCommand(
		newModelsListCmd(o),
		newModelsRecommendCmd(o),
		newModelsBudgetCmd(o),
		newModelsCompareCmd(o),
		newModelsMonthlyCmd(o),
		newModelsEstimateCmd(o),
		newModelsTestCmd(o),
	)

	return cmd
}

func price(v float64) string {
	return fmt.Sprintf("$%.4f", v)
}

func newModelsListCmd(o *opts.RootOpts) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List priced models, cheapest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			models := openrouter.Models()
			if asJSON {
				return o.PrintJSON(models)
			}

			rows := [][]string{{"Model", "Provider", "Per bio", "Input/1K", "Output/1K", "Context"}}
			for _, m := range models {
				name := m.ID
				if m.ID == o.Settings.OpenRouterModel {
					name += " *"
				}
				rows = append(rows, []string{
					name,
					m.Provider,
					price(m.BioCost()),
					fmt.Sprintf("$%.5f", m.InputPer1K),
					fmt.Sprintf("$%.5f", m.OutputPer1K),
					humanize.Comma(int64(m.ContextLength)),
				})
			}
			o.UserLogger.LogTable(rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the models as json")

	return cmd
}

func newModelsRecommendCmd(o *opts.RootOpts) *cobra.Command {
	var (
		style  string
		budget string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank models for a bio style",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs := openrouter.Recommend(style)
			if limit > 0 && limit < len(recs) {
				recs = recs[:limit]
			}
			suggested := newService(o).SuggestModel(style, budget)

			if asJSON {
				return o.PrintJSON(map[string]any{"suggested": suggested, "recommendations": recs})
			}

			rows := [][]string{{"Model", "Overall", "Quality", "Speed", "Value", "Cost", "Best for"}}
			for _, r := range recs {
				rows = append(rows, []string{
					r.Model,
					fmt.Sprintf("%.1f", r.Overall),
					fmt.Sprintf("%.0f", r.Quality),
					fmt.Sprintf("%.0f", r.Speed),
					fmt.Sprintf("%.0f", r.Value),
					r.Formatted,
					r.BestFor,
				})
			}
			o.UserLogger.LogTable(rows)
			o.Console.Successf("suggested for %s on a %s budget: %s", style, budget, suggested)
			return nil
		},
	}

	cmd.Flags().StringVarP(&style, "style", "s", openrouter.StyleProfessional, "bio style")
	cmd.Flags().StringVarP(&budget, "budget", "b", openrouter.BudgetBalanced, "budget: "+strings.Join(openrouter.Tiers, ", "))
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "number of models to show, 0 for all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the ranking as json")

	return cmd
}

func newModelsBudgetCmd(o *opts.RootOpts) *cobra.Command {
	var (
		style  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "budget <max-cost-per-bio>",
		Short: "Pick the best quality per cent under a per-bio budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxCost, err := strconv.ParseFloat(strings.TrimPrefix(args[0], "$"), 64)
			if err != nil {
				return errors.Errorf("parsing budget %q: %w", args[0], err)
			}

			plan := openrouter.OptimizeForBudget(style, maxCost)
			if asJSON {
				return o.PrintJSON(plan)
			}

			c := o.Console
			if plan.BudgetExceeded {
				c.Warning(plan.Message)
			}
			c.KeyValue("Recommended", fmt.Sprintf("%s (%s per bio)", plan.Recommended.Model, plan.Recommended.Formatted))
			for _, alt := range plan.Alternatives {
				c.KeyValue("Alternative", fmt.Sprintf("%s (%s per bio)", alt.Model, alt.Formatted))
			}
			if !plan.BudgetExceeded {
				c.KeyValue("Savings", price(plan.Savings))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&style, "style", "s", openrouter.StyleProfessional, "bio style")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as json")

	return cmd
}

func newModelsCompareCmd(o *opts.RootOpts) *cobra.Command {
	var (
		style  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Group models into cost tiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			qa := openrouter.CostVsQuality(style)
			if asJSON {
				return o.PrintJSON(qa)
			}

			rows := [][]string{{"Tier", "Model", "Cost", "Quality", "Value"}}
			for _, tier := range openrouter.Tiers {
				for _, r := range qa.Tiers[tier] {
					rows = append(rows, []string{tier, r.Model, r.Formatted, fmt.Sprintf("%.0f", r.Quality), fmt.Sprintf("%.1f", r.Value)})
				}
			}
			o.UserLogger.LogTable(rows)

			c := o.Console
			c.KeyValue("Best value", qa.BestValue.Model)
			c.KeyValue("Highest quality", qa.HighestQuality.Model)
			c.KeyValue("Most economical", qa.MostEconomical.Model)
			return nil
		},
	}

	cmd.Flags().StringVarP(&style, "style", "s", openrouter.StyleProfessional, "bio style")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the comparison as json")

	return cmd
}

func newModelsMonthlyCmd(o *opts.RootOpts) *cobra.Command {
	var (
		model  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "monthly <bios-per-day>",
		Short: "Project spend for a daily bio volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			daily, err := strconv.Atoi(args[0])
			if err != nil || daily < 0 {
				return errors.Errorf("bios per day must be a non-negative integer, got %q", args[0])
			}
			if model == "" {
				model = o.Settings.OpenRouterModel
			}

			est, err := openrouter.MonthlyCosts(daily, model)
			if err != nil {
				return err
			}
			if asJSON {
				return o.PrintJSON(est)
			}

			c := o.Console
			c.Header("💰 " + est.Model)
			c.KeyValue("Per bio", fmt.Sprintf("$%.6f", est.PerBio))
			c.KeyValue("Daily", price(est.Daily))
			c.KeyValue("Monthly", price(est.Monthly))
			c.KeyValue("Yearly", price(est.Yearly))
			c.Info(est.Recommendation)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model id (default from settings)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the estimate as json")

	return cmd
}

func newModelsEstimateCmd(o *opts.RootOpts) *cobra.Command {
	var (
		f     bioFlags
		model string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the cost of enhancing a bio",
		RunE: func(cmd *cobra.Command, args []string) error {
			bio, err := readBio(f.bio, f.file)
			if err != nil {
				return err
			}
			if model == "" {
				model = o.Settings.OpenRouterModel
			}

			est, err := openrouter.EstimateEnhancementCost(bio, model)
			if err != nil {
				return err
			}
			if f.asJSON {
				return o.PrintJSON(est)
			}

			c := o.Console
			c.KeyValue("Model", est.Model)
			c.KeyValue("Tokens", fmt.Sprintf("~%d in, ~%d out", est.InputTokens, est.OutputTokens))
			c.KeyValue("Cost", est.Formatted)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&model, "model", "m", "", "model id (default from settings)")

	return cmd
}

func newModelsTestCmd(o *opts.RootOpts) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the OpenRouter api key with a tiny request",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := newService(o).TestConnection(cmd.Context())
			if asJSON {
				return o.PrintJSON(res)
			}
			if !res.Success {
				o.UserLogger.LogValidation(false, "openrouter connection failed", errors.New(res.Error))
				return errors.New("openrouter connection failed")
			}
			o.UserLogger.LogValidation(true, fmt.Sprintf("connected to %s (%d tokens)", res.Model, res.TokensUsed), nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as json")

	return cmd
}
