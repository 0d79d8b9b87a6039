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
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/config"
	"github.com/walteh/reporeadme/pkg/log"
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "settings file path (default ~/.reporeadme/config/settings.json)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&o.Quiet, "quiet", "q", false, "only print errors and requested output")
}

// initRootOpts loads settings and credentials and sets up logging for the running command
func initRootOpts(cmd *cobra.Command, o *opts.RootOpts) error {
	appDir, err := config.DefaultDir()
	if err != nil {
		return err
	}
	o.AppDir = appDir

	path := o.ConfigFile
	if path == "" {
		path = filepath.Join(appDir, "config", "settings.json")
	}

	// settings are read before logging exists, so they log nowhere
	ctx := zerolog.Nop().WithContext(cmd.Context())

	o.Manager = config.NewManager(path)
	settings, err := o.Manager.Load(ctx)
	if err != nil {
		return errors.Errorf("loading settings: %w", err)
	}

	logger, err := setupLogging(o, settings)
	if err != nil {
		return err
	}
	ctx = logger.WithContext(cmd.Context())

	config.LoadDotEnv(ctx, appDir)
	settings.ApplyEnv()
	o.Settings = settings

	o.Out = cmd.OutOrStdout()
	o.UserLogger = log.NewUserLogger(ctx).Quiet(o.Quiet)
	console := cmd.ErrOrStderr()
	if o.Quiet {
		console = io.Discard
	}
	o.Console = log.NewWithZerolog(console, logger)

	logger.Debug().Str("settings", path).Str("command", cmd.CommandPath()).Msg("starting")
	cmd.SetContext(log.NewContext(ctx, o.Console))
	return nil
}

// setupLogging configures zerolog from flags and settings
func setupLogging(o *opts.RootOpts, s *config.Settings) (zerolog.Logger, error) {
	setup := log.SetupOptions{
		Level:        s.LogLevel,
		Debug:        o.Debug,
		KeepLogsDays: s.KeepLogsDays,
	}
	if o.Debug {
		setup.Console = os.Stderr
	}
	if s.LogToFile {
		setup.LogDir = filepath.Join(o.AppDir, "logs")
	}

	logger, closer, err := log.Setup(setup)
	if err != nil {
		return zerolog.Nop(), errors.Errorf("setting up logging: %w", err)
	}
	o.AddCloser(closer)

	zerolog.SetGlobalLevel(logger.GetLevel())
	zerolog.DefaultContextLogger = &logger
	return logger, nil
}
