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
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/operation"
	"github.com/walteh/reporeadme/pkg/readme"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd(o *opts.RootOpts) *cobra.Command {
	var (
		template string
		output   string
		preview  bool
		dryRun   bool
		backup   bool
		noBadges bool
		noTOC    bool
		refresh  bool
		restore  bool
	)

	cmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Generate a README for a local repository",
		Long: `Generate analyzes a repository and writes a README for it.
It will:
1. Analyze the repository (using the cache when enabled)
2. Render the chosen template
3. Write the README, reporting whether it is new, modified or unchanged

With --restore it puts the README.md.backup left by --backup back in place instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := argOrEmpty(args)
			if path == "" {
				path = "."
			}
			if output == "" {
				output = filepath.Join(path, operation.ReadmeName)
			}
			mgr := o.StatusManager(ctx, filepath.Dir(output))

			if restore {
				if err := mgr.RestoreFile(ctx, filepath.Base(output)); err != nil {
					return errors.Errorf("restoring readme: %w", err)
				}
				if art, ok := mgr.Lookup(filepath.Base(output)); ok {
					o.ReportArtifacts(ctx, art)
				}
				return nil
			}

			meta, _, err := analyzePath(ctx, o, path, refresh)
			if err != nil {
				return errors.Errorf("analyzing %s: %w", path, err)
			}

			cfg := readme.ConfigFromSettings(o.Settings)
			if template != "" {
				cfg.Template = template
			}
			if noBadges {
				cfg.IncludeBadges = false
			}
			if noTOC {
				cfg.IncludeTOC = false
			}

			content, err := readme.Generate(ctx, meta, cfg)
			if err != nil {
				return errors.Errorf("generating readme: %w", err)
			}

			if preview {
				return printMarkdown(o, content)
			}

			wopts := o.WriteOptions("readme", dryRun)
			if cmd.Flags().Changed("backup") {
				wopts.Backup = backup
			}

			art, err := mgr.Write(ctx, filepath.Base(output), []byte(content), wopts)
			o.ReportArtifacts(ctx, art)
			if err != nil {
				return errors.Errorf("writing readme: %w", err)
			}

			if art.Diff != "" && o.Debug {
				o.Printf("%s\n", art.Diff)
			}
			if art.BackupPath != "" {
				o.Console.Infof("backup saved to %s", art.BackupPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "template to use (see the templates command)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <path>/README.md)")
	cmd.Flags().BoolVar(&preview, "preview", false, "render the readme in the terminal instead of writing it")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().BoolVar(&backup, "backup", false, "back up an existing readme before overwriting it")
	cmd.Flags().BoolVar(&noBadges, "no-badges", false, "leave out the badge row")
	cmd.Flags().BoolVar(&noTOC, "no-toc", false, "leave out the table of contents")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the analysis cache")
	cmd.Flags().BoolVar(&restore, "restore", false, "restore the readme from its .backup and exit")

	return cmd
}

// printMarkdown renders markdown for the terminal, falling back to the raw text
func printMarkdown(o *opts.RootOpts, content string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		_, err = fmt.Fprintln(o.Out, content)
		return err
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		rendered = content
	}
	_, err = fmt.Fprint(o.Out, rendered)
	return err
}

// NewTemplatesCmd creates the templates command
func NewTemplatesCmd(o *opts.RootOpts) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the available README templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := readme.Templates()
			if asJSON {
				return o.PrintJSON(templates)
			}

			rows := [][]string{{"Template", "Description"}}
			for _, t := range templates {
				name := t.Name
				if name == o.Settings.DefaultTemplate {
					name += " (default)"
				}
				rows = append(rows, []string{name, t.Description})
			}
			o.UserLogger.LogTable(rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the templates as json")

	return cmd
}
