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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/analyzer"
	"github.com/walteh/reporeadme/pkg/discovery"
	"github.com/walteh/reporeadme/pkg/operation"
	"github.com/walteh/reporeadme/pkg/readme"
	"github.com/walteh/reporeadme/pkg/remote"
	"github.com/walteh/reporeadme/pkg/text"
)

// SummaryFile is written next to the generated readmes after a bulk run
const SummaryFile = "bulk_summary.json"

// NewBulkCmd creates the bulk command
func NewBulkCmd(o *opts.RootOpts) *cobra.Command {
	var (
		from        string
		outDir      string
		include     []string
		template    string
		concurrency int
		dryRun      bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Generate READMEs for every discovered repository",
		Long: `Bulk generates a README for each repository saved by discover --save.
When no saved file exists and auto_analyze is enabled it discovers them first.
It will:
1. Select repositories matching the --include patterns
2. Clone each repository into a temporary directory
3. Analyze it, render the template and write <out-dir>/<owner>/<name>/README.md
4. Print a summary and write it to ` + SummaryFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repos, err := bulkRepositories(cmd, o, from)
			if err != nil {
				return err
			}
			if len(repos) == 0 {
				o.Console.Warning("no repositories to process")
				return nil
			}

			sshKey := o.Settings.SSHKeyPath
			if sshKey == "" {
				if home, err := os.UserHomeDir(); err == nil {
					sshKey = discovery.FindSSHKey(home)
				}
			}

			cfg := readme.ConfigFromSettings(o.Settings)
			if template != "" {
				cfg.Template = template
			}

			if concurrency < 1 {
				concurrency = o.Settings.ConcurrentRequests
			}

			dir := o.ExportDir(outDir, "readmes")
			mgr := o.StatusManager(ctx, dir)

			bopts := operation.Options{
				Repositories: repos,
				Include:      include,
				Concurrency:  concurrency,
				Cloner:       discovery.NewCloner(sshKey),
				Analyzer: analyzer.New(analyzer.Options{
					ExcludePatterns: o.Settings.ExcludePatterns,
					IncludeHidden:   o.Settings.IncludeHiddenFiles,
				}),
				Git:    analyzer.ExecGit{},
				Status: mgr,
				Readme: cfg,
				Write:  o.WriteOptions("readme", dryRun),
			}
			if c := o.OpenCache(ctx); c != nil {
				bopts.Cache = c
			}

			op := operation.NewBulkOperation(bopts)
			runner := operation.NewRunner(zerolog.Ctx(ctx), true)

			o.UserLogger.LogStep(fmt.Sprintf("Processing %d repositories into %s", len(operation.Selected(repos, include)), dir))
			runErr := runner.Run(ctx, op)

			summary := op.Summary()
			if asJSON {
				if err := o.PrintJSON(summary); err != nil {
					return err
				}
			} else {
				printResults(o, op.Results())
				printSummary(o, summary)
			}

			data, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return errors.Errorf("encoding summary: %w", err)
			}
			sopts := o.WriteOptions("summary", dryRun)
			sopts.Backup = false
			sopts.Diff = false
			if _, err := mgr.Write(ctx, SummaryFile, append(data, '\n'), sopts); err != nil {
				o.Console.Warningf("writing summary: %v", err)
			}

			if runErr != nil {
				return errors.Errorf("bulk generation: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "discovery file to read (default "+DefaultDiscoveryFile+")")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory to write readmes to (default ./readmes)")
	cmd.Flags().StringSliceVar(&include, "include", nil, "only process repositories whose owner/name matches these glob patterns")
	cmd.Flags().StringVarP(&template, "template", "t", "", "template to use")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "repositories processed at once (default from settings)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as json")

	return cmd
}

// ErrNoDiscovery is returned when bulk has nothing saved to read and may not discover live
var ErrNoDiscovery = errors.New("no saved discovery")

// bulkRepositories reads the discovery file, or discovers live when there is none and auto_analyze is on
func bulkRepositories(cmd *cobra.Command, o *opts.RootOpts, from string) ([]remote.RepositoryInfo, error) {
	ctx := cmd.Context()

	path := discoveryFile(o, from)
	doc, err := discovery.Load(ctx, path)
	if err == nil {
		return doc.Repositories, nil
	}
	if from != "" || !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Errorf("loading repositories: %w", err)
	}

	if !o.Settings.AutoAnalyze {
		return nil, errors.Errorf("%w at %s: run discover --save first or enable auto_analyze", ErrNoDiscovery, path)
	}

	o.UserLogger.LogStep("No saved discovery at " + path + ", discovering repositories")
	cfg := discovery.DefaultConfig()
	cfg.GitHubToken = o.Settings.GitHubToken
	cfg.GitLabToken = o.Settings.GitLabToken
	cfg.GitHubUsername = o.Settings.GitHubUsername
	cfg.ExcludePatterns = o.Settings.ExcludePatterns
	cfg.IncludeGitLab = cfg.GitLabToken != ""
	if o.Settings.ConcurrentRequests > 0 {
		cfg.ConcurrentRequests = o.Settings.ConcurrentRequests
	}

	repos, err := discovery.New(ctx, cfg).Discover(ctx, func(msg string) {
		o.UserLogger.LogStep(msg)
	})
	if err != nil {
		return nil, errors.Errorf("discovering repositories: %w", err)
	}
	return repos, nil
}

func printResults(o *opts.RootOpts, results []operation.Result) {
	rows := [][]string{{"Repository", "Stage", "Status", "Language", "Quality", "Time", "Error"}}
	for _, r := range results {
		state := r.Status.String()
		errText := ""
		if r.Failed() {
			state = color.RedString("failed")
			errText = text.Ellipsis(r.Err.Error(), 60)
		} else if r.Cached {
			state += " (cached)"
		}
		rows = append(rows, []string{
			r.Repository.FullName,
			r.Stage,
			state,
			orDash(r.Language),
			fmt.Sprintf("%.0f", r.Quality),
			r.Duration.Round(time.Millisecond).String(),
			errText,
		})
	}
	o.UserLogger.LogTable(rows)
}

func printSummary(o *opts.RootOpts, s operation.Summary) {
	c := o.Console
	c.Header("📈 Bulk summary")
	c.KeyValue("Run", s.RunID)
	c.KeyValue("Repositories", s.Total)
	c.KeyValue("Succeeded", fmt.Sprintf("%d (%.0f%%)", s.Succeeded, s.SuccessRate()))
	c.KeyValue("Failed", s.Failed)
	c.KeyValue("New / modified / unchanged", fmt.Sprintf("%d / %d / %d", s.New, s.Modified, s.Unchanged))
	c.KeyValue("From cache", s.Cached)
	c.KeyValue("Average quality", fmt.Sprintf("%.1f", s.AverageQuality))
	c.KeyValue("Duration", s.Duration.Round(time.Millisecond).String())

	for _, stage := range []string{operation.StageClone, operation.StageAnalyze, operation.StageGenerate, operation.StageWrite} {
		if n := s.FailedByStage[stage]; n > 0 {
			c.Warningf("%s repositories failed at %s", humanize.Comma(int64(n)), stage)
		}
	}

	if s.Failed == 0 && s.Total > 0 {
		c.Success("all repositories processed")
	}
}
