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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/discovery"
	"github.com/walteh/reporeadme/pkg/profile"
	"github.com/walteh/reporeadme/pkg/remote"
	ghremote "github.com/walteh/reporeadme/pkg/remote/github"
)

// DefaultDiscoveryFile is where discovered repositories are saved
const DefaultDiscoveryFile = "discovered_repositories.json"

// NewDiscoverCmd creates the discover command
func NewDiscoverCmd(o *opts.RootOpts) *cobra.Command {
	cfg := discovery.DefaultConfig()
	var (
		noGitHub bool
		noGitLab bool
		save      string
		asJSON    bool
		checkAuth bool
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover repositories on GitHub and GitLab",
		Long: `Discover lists the repositories of your accounts.
It will:
1. Query every configured provider concurrently
2. Drop duplicates and apply the fork, archive, star and language filters
3. Print statistics and optionally save the list for the bulk command

With --check-auth it only verifies the github token and prints the remaining rate limits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg.IncludeGitHub = !noGitHub
			cfg.IncludeGitLab = !noGitLab
			cfg.GitHubToken = o.Settings.GitHubToken
			cfg.GitLabToken = o.Settings.GitLabToken
			if cfg.GitHubUsername == "" {
				cfg.GitHubUsername = o.Settings.GitHubUsername
			}
			if len(cfg.ExcludePatterns) == 0 {
				cfg.ExcludePatterns = o.Settings.ExcludePatterns
			}
			if !cmd.Flags().Changed("concurrency") && o.Settings.ConcurrentRequests > 0 {
				cfg.ConcurrentRequests = o.Settings.ConcurrentRequests
			}

			if checkAuth {
				p := ghremote.NewProvider(remote.Credentials{Token: cfg.GitHubToken, Username: cfg.GitHubUsername})
				return reportGitHubAuth(ctx, o, p, asJSON)
			}

			if cfg.IncludeGitLab && cfg.GitLabToken == "" {
				o.Console.Warning("no gitlab token configured, gitlab is skipped")
				cfg.IncludeGitLab = false
			}
			if !cfg.IncludeGitHub && !cfg.IncludeGitLab {
				return errors.New("no providers enabled")
			}

			d := discovery.New(ctx, cfg)
			repos, err := d.Discover(ctx, func(msg string) {
				o.UserLogger.LogStep(msg)
			})
			if err != nil {
				return errors.Errorf("discovering repositories: %w", err)
			}

			if save != "" {
				if err := d.Save(ctx, save); err != nil {
					return err
				}
				o.Console.Successf("saved %d repositories to %s", len(repos), save)
			}

			if asJSON {
				return o.PrintJSON(repos)
			}

			printStats(o, d.Stats())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noGitHub, "no-github", false, "skip github")
	cmd.Flags().BoolVar(&noGitLab, "no-gitlab", false, "skip gitlab")
	cmd.Flags().StringVar(&cfg.GitHubUsername, "username", "", "github user to list (default from settings)")
	cmd.Flags().StringVar(&cfg.GitLabURL, "gitlab-url", "", "base url of a self-hosted gitlab")
	cmd.Flags().BoolVar(&cfg.IncludePrivate, "private", cfg.IncludePrivate, "include private repositories")
	cmd.Flags().BoolVar(&cfg.IncludeForks, "forks", cfg.IncludeForks, "include forks")
	cmd.Flags().BoolVar(&cfg.IncludeArchived, "archived", cfg.IncludeArchived, "include archived repositories")
	cmd.Flags().IntVar(&cfg.MinStars, "min-stars", cfg.MinStars, "minimum number of stars")
	cmd.Flags().StringSliceVar(&cfg.Languages, "language", nil, "only keep these languages")
	cmd.Flags().StringSliceVar(&cfg.ExcludePatterns, "exclude", nil, "exclude repositories whose name contains any of these")
	cmd.Flags().IntVar(&cfg.MaxReposPerProvider, "max", cfg.MaxReposPerProvider, "maximum repositories per provider")
	cmd.Flags().IntVar(&cfg.ConcurrentRequests, "concurrency", cfg.ConcurrentRequests, "concurrent provider requests")
	cmd.Flags().StringVar(&save, "save", "", "save the repositories to this file (e.g. "+DefaultDiscoveryFile+")")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the repositories as json")
	cmd.Flags().BoolVar(&checkAuth, "check-auth", false, "check the github token and rate limits instead of discovering")

	return cmd
}

// authChecker verifies provider credentials
type authChecker interface {
	CheckAuth(ctx context.Context) (ghremote.AuthStatus, error)
}

// reportGitHubAuth prints the credential check, failing when the token or api is unusable
func reportGitHubAuth(ctx context.Context, o *opts.RootOpts, c authChecker, asJSON bool) error {
	st, err := c.CheckAuth(ctx)
	if asJSON {
		if perr := o.PrintJSON(st); perr != nil {
			return perr
		}
	} else {
		o.Console.Header("🔑 GitHub")
		switch {
		case st.Authenticated:
			o.Console.Successf("authenticated as %s", st.Username)
		case st.PublicAccess:
			o.Console.Warning("no token configured, public access only")
		}
		if err == nil {
			o.UserLogger.LogTable([][]string{
				{"Limit", "Remaining", "Total", "Resets"},
				{"core", strconv.Itoa(st.Core.Remaining), strconv.Itoa(st.Core.Limit), orDash(st.Core.Reset)},
				{"search", strconv.Itoa(st.Search.Remaining), strconv.Itoa(st.Search.Limit), orDash(st.Search.Reset)},
			})
		}
	}
	if err != nil {
		return errors.Errorf("github auth: %w", err)
	}
	return nil
}

func printStats(o *opts.RootOpts, stats discovery.Stats) {
	o.Console.Header("🔍 Discovery")
	rows := [][]string{
		{"Metric", "Count"},
		{"Total", strconv.Itoa(stats.TotalDiscovered)},
		{"GitHub", strconv.Itoa(stats.GitHubRepos)},
		{"GitLab", strconv.Itoa(stats.GitLabRepos)},
		{"Private", strconv.Itoa(stats.PrivateRepos)},
		{"Public", strconv.Itoa(stats.PublicRepos)},
		{"Forks", strconv.Itoa(stats.Forks)},
	}
	o.UserLogger.LogTable(rows)

	if len(stats.Languages) == 0 {
		return
	}
	langs := [][]string{{"Language", "Repositories"}}
	for i, lang := range profile.SortedKeys(stats.Languages) {
		if i == 10 {
			langs = append(langs, []string{"...", fmt.Sprintf("%d more", len(stats.Languages)-10)})
			break
		}
		langs = append(langs, []string{lang, strconv.Itoa(stats.Languages[lang])})
	}
	o.UserLogger.LogTable(langs)
}

// discoveryFile picks the flag, then a discovery file in the working directory, then the app dir
func discoveryFile(o *opts.RootOpts, flag string) string {
	if flag != "" {
		return flag
	}
	if _, err := os.Stat(DefaultDiscoveryFile); err == nil {
		return DefaultDiscoveryFile
	}
	return filepath.Join(o.AppDir, DefaultDiscoveryFile)
}
