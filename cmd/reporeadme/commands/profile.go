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
	"github.com/walteh/reporeadme/pkg/profile"
	"github.com/walteh/reporeadme/pkg/render"
	"github.com/walteh/reporeadme/pkg/text"
)

// NewProfileCmd creates the profile command
func NewProfileCmd(o *opts.RootOpts) *cobra.Command {
	var (
		outDir  string
		formats []string
		refresh bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "profile [username]",
		Short: "Build a developer profile from GitHub",
		Long: `Profile collects a GitHub account's repositories and scores the developer.
It will:
1. List the account's repositories and estimate language, framework and practice usage
2. Classify the developer type and experience level
3. Export the profile as json, an html portfolio, a resume json or a pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := loadProfile(ctx, o, argOrEmpty(args), "", refresh)
			if err != nil {
				return err
			}

			printProfile(o, p)

			if len(formats) == 0 {
				return nil
			}

			dir := o.ExportDir(outDir, "profiles")
			mgr := o.StatusManager(ctx, dir)
			arts, err := profile.NewExporter(p, render.NewChrome()).Export(ctx, mgr, dir, formats, o.WriteOptions("profile", dryRun))
			o.ReportArtifacts(ctx, arts...)
			if err != nil {
				return errors.Errorf("exporting profile: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory to export to (default ./profiles)")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{profile.FormatJSON}, "export formats: "+strings.Join(profile.Formats, ", "))
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the cached profile")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be written without writing")

	return cmd
}

func printProfile(o *opts.RootOpts, p *profile.GitHubProfile) {
	c := o.Console
	c.Header("👤 " + p.DisplayName())
	if p.Bio != "" {
		c.KeyValue("Bio", text.Ellipsis(p.Bio, 100))
	}
	c.KeyValue("Developer type", p.DeveloperType)
	c.KeyValue("Experience", p.ExperienceLevel)
	c.KeyValue("Repositories", fmt.Sprintf("%d (%d original, %d forks)", p.TotalRepositories, p.OriginalRepositories, p.ForkedRepositories))
	c.KeyValue("Stars received", humanize.Comma(int64(p.TotalStarsReceived)))
	c.KeyValue("Languages", text.JoinMore(p.PrimaryLanguages, 5, ", "))
	if len(p.ExpertiseAreas) > 0 {
		c.KeyValue("Expertise", strings.Join(p.ExpertiseAreas, ", "))
	}
	c.KeyValue("Scores", fmt.Sprintf("collaboration %.0f, innovation %.0f, consistency %.0f",
		p.CollaborationScore, p.InnovationScore, p.ConsistencyScore))

	if len(p.FeaturedProjects) > 0 {
		rows := [][]string{{"Project", "Language", "Stars", "Description"}}
		for _, fp := range text.Head(p.FeaturedProjects, 5) {
			rows = append(rows, []string{fp.Name, orDash(fp.Language), humanize.Comma(int64(fp.Stars)), text.Ellipsis(fp.Description, 50)})
		}
		o.UserLogger.LogTable(rows)
	}
	for _, a := range p.Achievements {
		c.Success(a)
	}
}
