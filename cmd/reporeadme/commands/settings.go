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
	"github.com/walteh/reporeadme/pkg/config"
	"github.com/walteh/reporeadme/pkg/profile"
)

var secretKeys = map[string]bool{
	"github_token":       true,
	"gitlab_token":       true,
	"openrouter_api_key": true,
}

// mask hides all but the last four characters of a secret
func mask(key string, v any) any {
	s, ok := v.(string)
	if !secretKeys[key] || !ok || s == "" {
		return v
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// NewSettingsCmd creates the settings command group
func NewSettingsCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"config"},
		Short:   "Show and change persisted settings",
		Long: `Settings manages the settings file (json, yaml, toml or hcl by extension).
Environment variables and a .env file override the file at runtime but are
never written back.`,
	}

	cmd.AddCommand(
		newSettingsShowCmd(o),
		newSettingsGetCmd(o),
		newSettingsSetCmd(o),
		newSettingsResetCmd(o),
		newSettingsExportCmd(o),
		newSettingsImportCmd(o),
		newSettingsPathCmd(o),
	)

	return cmd
}

func newSettingsShowCmd(o *opts.RootOpts) *cobra.Command {
	var (
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the settings summary, or every key with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := o.Manager.Summary()
			if all {
				keys, err := config.Keys()
				if err != nil {
					return err
				}
				values = map[string]any{}
				for _, key := range keys {
					v, err := o.Manager.Get(key)
					if err != nil {
						return err
					}
					values[key] = mask(key, v)
				}
			}

			if asJSON {
				return o.PrintJSON(values)
			}

			rows := [][]string{{"Key", "Value"}}
			for _, key := range sortedAnyKeys(values) {
				rows = append(rows, []string{key, formatValue(values[key])})
			}
			o.UserLogger.LogTable(rows)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "show every key")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as json")

	return cmd
}

func sortedAnyKeys(m map[string]any) []string {
	counter := make(map[string]int, len(m))
	for k := range m {
		counter[k] = 0
	}
	return profile.SortedKeys(counter)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

func newSettingsGetCmd(o *opts.RootOpts) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.Manager.Get(args[0])
			if err != nil {
				return err
			}
			if !reveal {
				v = mask(args[0], v)
			}
			_, err = fmt.Fprintln(o.Out, formatValue(v))
			return err
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return completeKeys()
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print secrets in full")

	return cmd
}

func newSettingsSetCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and save",
		Long: `Set parses the value by the key's type: booleans, numbers, comma separated
lists or strings. Invalid values are rejected before anything is written.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := o.Manager.Set(args[0], args[1]); err != nil {
				return errors.Errorf("setting %s: %w", args[0], err)
			}
			if err := o.Manager.Save(ctx); err != nil {
				return err
			}

			v, _ := o.Manager.Get(args[0])
			o.Console.Successf("%s = %s", args[0], formatValue(mask(args[0], v)))
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return completeKeys()
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}
}

func newSettingsResetCmd(o *opts.RootOpts) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the defaults and save",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset overwrites every setting, pass --yes to confirm")
			}
			o.Manager.Reset()
			if err := o.Manager.Save(cmd.Context()); err != nil {
				return err
			}
			o.Console.Success("settings reset to defaults")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")

	return cmd
}

func newSettingsExportCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the settings to a file, format by extension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Manager.Export(cmd.Context(), args[0]); err != nil {
				return err
			}
			o.Console.Successf("settings exported to %s", args[0])
			return nil
		},
	}
}

func newSettingsImportCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the settings with a file and save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Manager.Import(cmd.Context(), args[0]); err != nil {
				return err
			}
			o.Console.Successf("settings imported from %s", args[0])
			return nil
		},
	}
}

func newSettingsPathCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(o.Out, o.Manager.Path())
			return err
		},
	}
}

// completeKeys offers settings keys to shell completion
func completeKeys() ([]string, cobra.ShellCompDirective) {
	keys, err := config.Keys()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}
