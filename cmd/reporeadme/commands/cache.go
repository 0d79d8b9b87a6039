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
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/cache"
	"github.com/walteh/reporeadme/pkg/discovery"
	"github.com/walteh/reporeadme/pkg/operation"
)

// NewCacheCmd creates the cache command group
func NewCacheCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clean the analysis cache",
	}

	cmd.AddCommand(newCacheStatsCmd(o), newCacheCleanCmd(o))

	return cmd
}

func newCacheStatsCmd(o *opts.RootOpts) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count cached analyses and profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.OpenCache(cmd.Context())
			if c == nil {
				o.Console.Warning("caching is disabled (cache_analysis = false)")
				return nil
			}

			counts := map[string]int{}
			for name, prefix := range map[string]string{
				"analyses": cache.PrefixAnalysis,
				"profiles": cache.PrefixProfile,
				"total":    "",
			} {
				n, err := c.Count(prefix)
				if err != nil {
					return errors.Errorf("counting %s: %w", name, err)
				}
				counts[name] = n
			}

			if asJSON {
				return o.PrintJSON(counts)
			}
			o.Console.KeyValue("Directory", cache.DefaultDir(o.AppDir))
			o.Console.KeyValue("Analyses", counts["analyses"])
			o.Console.KeyValue("Profiles", counts["profiles"])
			o.Console.KeyValue("Total", counts["total"])
			o.Console.KeyValue("Max age (days)", o.Settings.MaxCacheAgeDays)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the counts as json")

	return cmd
}

func newCacheCleanCmd(o *opts.RootOpts) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Drop expired cache entries and leftover clones",
		Long: `Clean removes cache entries older than max_cache_age_days and any
temporary clone directories left by an interrupted bulk run.
With --all the cache directory is removed entirely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if all {
				if err := os.RemoveAll(cache.DefaultDir(o.AppDir)); err != nil {
					return errors.Errorf("removing cache: %w", err)
				}
				o.Console.Success("cache removed")
				return nil
			}

			cloner := discovery.NewCloner("")
			leftovers, err := cloner.AdoptLeftovers(ctx)
			if err != nil {
				o.Console.Warningf("looking for leftover clones: %v", err)
			}

			copts := operation.Options{Cloner: cloner}
			if c := o.OpenCache(ctx); c != nil {
				copts.Cache = c
			}

			op := operation.NewCleanOperation(copts)
			if err := operation.NewRunner(nil, false).Run(ctx, op); err != nil {
				return err
			}

			o.Console.Successf("removed %d expired cache entries and %d leftover clones", op.Removed, leftovers)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "remove the whole cache directory")

	return cmd
}
