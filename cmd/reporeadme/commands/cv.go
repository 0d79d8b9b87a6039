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
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/config"
	"github.com/walteh/reporeadme/pkg/cv"
	"github.com/walteh/reporeadme/pkg/render"
)

// NewCVCmd creates the cv command
func NewCVCmd(o *opts.RootOpts) *cobra.Command {
	var (
		profilePath string
		outDir      string
		format      string
		style       string
		role        string
		industry    string
		refresh     bool
		dryRun      bool
		extra       cv.AdditionalInfo
	)

	cmd := &cobra.Command{
		Use:   "cv [username]",
		Short: "Generate a CV from a GitHub profile",
		Long: `CV turns a developer profile into a curriculum vitae.
It will:
1. Load the profile from --profile, the cache or GitHub
2. Write a summary, group skills and pick featured projects
3. Export it as html, json, markdown or pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := loadProfile(ctx, o, argOrEmpty(args), profilePath, refresh)
			if err != nil {
				return err
			}

			cfg := cv.ConfigFromSettings(o.Settings)
			if style != "" {
				cfg.Style = style
			}
			cfg.TargetRole = role
			cfg.TargetIndustry = industry

			data := cv.NewGenerator(cfg).Generate(ctx, p, extra)

			if format == "" {
				format = o.Settings.DefaultExportFormat
			}

			dir := o.ExportDir(outDir, "cv")
			mgr := o.StatusManager(ctx, dir)
			art, err := cv.NewExporter(data, render.NewChrome()).Export(ctx, mgr, dir, format, o.WriteOptions("cv", dryRun))
			o.ReportArtifacts(ctx, art)
			if err != nil {
				return errors.Errorf("exporting cv: %w", err)
			}

			o.Console.Successf("cv for %s (%s)", data.Name(), data.Title())
			return nil
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "profile json written by the profile command")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory to export to (default ./cv)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "export format: "+strings.Join(cv.Formats, ", ")+" (default from settings)")
	cmd.Flags().StringVar(&style, "style", "", "cv style: "+strings.Join(config.CVStyles, ", "))
	cmd.Flags().StringVar(&role, "role", "", "target role")
	cmd.Flags().StringVar(&industry, "industry", "", "target industry")
	cmd.Flags().StringVar(&extra.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&extra.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&extra.Location, "location", "", "location")
	cmd.Flags().StringVar(&extra.Website, "website", "", "personal website")
	cmd.Flags().StringVar(&extra.LinkedIn, "linkedin", "", "linkedin profile url")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the cached profile")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be written without writing")

	return cmd
}
