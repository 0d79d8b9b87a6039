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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/walteh/reporeadme/cmd/reporeadme/commands"
	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	o := &opts.RootOpts{}
	rootCmd := newRootCmd(o)

	err := rootCmd.ExecuteContext(ctx)
	closeErr := o.Close()
	stop()

	if err != nil {
		log.NewUserLogger(ctx).LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
	if closeErr != nil {
		log.NewUserLogger(ctx).LogValidation(false, "Shutdown failed", closeErr)
		os.Exit(1)
	}
}

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reporeadme",
		Short: "Analyze repositories and generate READMEs, portfolios, CVs and LinkedIn content",
		Long: `reporeadme scans GitHub and GitLab repositories, detects their languages,
frameworks and structure, and turns that metadata into README files,
developer portfolios, CVs and LinkedIn content. Bios can optionally be
rewritten through the OpenRouter API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initRootOpts(cmd, o)
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewAnalyzeCmd(o),
		commands.NewGenerateCmd(o),
		commands.NewTemplatesCmd(o),
		commands.NewDiscoverCmd(o),
		commands.NewBulkCmd(o),
		commands.NewProfileCmd(o),
		commands.NewCVCmd(o),
		commands.NewLinkedInCmd(o),
		commands.NewBioCmd(o),
		commands.NewModelsCmd(o),
		commands.NewSettingsCmd(o),
		commands.NewCacheCmd(o),
		newVersionCmd(o),
	)

	return rootCmd
}
