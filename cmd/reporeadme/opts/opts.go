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

package opts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/cache"
	"github.com/walteh/reporeadme/pkg/config"
	"github.com/walteh/reporeadme/pkg/log"
	"github.com/walteh/reporeadme/pkg/status"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// flags
	ConfigFile string
	Debug      bool
	Quiet      bool

	AppDir     string
	Manager    *config.Manager
	Settings   *config.Settings
	UserLogger *log.UserLogger
	Console    *log.Logger
	Out        io.Writer

	cache   *cache.Cache
	closers []io.Closer
}

// AddCloser registers something to close when the command exits
func (o *RootOpts) AddCloser(c io.Closer) {
	o.closers = append(o.closers, c)
}

// Close releases everything registered with AddCloser, newest first
func (o *RootOpts) Close() error {
	var errs []error
	for i := len(o.closers) - 1; i >= 0; i-- {
		if err := o.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	o.closers = nil
	if len(errs) > 0 {
		return errors.Errorf("closing resources: %w", errors.Join(errs...))
	}
	return nil
}

// 🗄️ OpenCache opens the analysis cache, or returns nil when caching is disabled
func (o *RootOpts) OpenCache(ctx context.Context) *cache.Cache {
	if !o.Settings.CacheAnalysis || o.AppDir == "" {
		return nil
	}
	if o.cache != nil {
		return o.cache
	}
	maxAge := time.Duration(o.Settings.MaxCacheAgeDays) * 24 * time.Hour
	c, err := cache.Open(cache.DefaultDir(o.AppDir), maxAge)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("analysis cache unavailable")
		return nil
	}
	o.cache = c
	o.AddCloser(c)
	return c
}

// ExportDir picks the flag value, then the configured export directory, then fallback
func (o *RootOpts) ExportDir(flag, fallback string) string {
	switch {
	case flag != "":
		return flag
	case o.Settings.ExportDirectory != "":
		return o.Settings.ExportDirectory
	default:
		return fallback
	}
}

// WriteOptions applies the backup and timestamp settings to an artifact write
func (o *RootOpts) WriteOptions(kind string, dryRun bool) status.WriteOptions {
	return status.WriteOptions{
		Kind:      kind,
		Backup:    o.Settings.CreateBackup,
		Diff:      true,
		DryRun:    dryRun,
		Timestamp: o.Settings.AutoTimestampFiles,
	}
}

// StatusManager creates an artifact manager rooted at dir
func (o *RootOpts) StatusManager(ctx context.Context, dir string) *status.Manager {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return status.New(abs, zerolog.Ctx(ctx))
}

// ReportArtifacts prints one aligned line per artifact
func (o *RootOpts) ReportArtifacts(ctx context.Context, artifacts ...status.Artifact) {
	for _, art := range artifacts {
		label := art.Status.String()
		if art.DryRun {
			label += " (dry run)"
		}
		o.Console.LogArtifact(ctx, log.ArtifactOperation{
			Path:       art.Path,
			Kind:       art.Kind,
			Status:     label,
			IsNew:      art.Status == status.StatusNew,
			IsModified: art.Status == status.StatusModified,
			IsFailed:   art.Status == status.StatusFailed,
			Bytes:      int(art.Size),
		})
	}
}

// PrintJSON writes v as indented JSON to Out
func (o *RootOpts) PrintJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Errorf("encoding json: %w", err)
	}
	_, err = fmt.Fprintln(o.Out, string(data))
	return err
}

// Printf writes to Out unless quiet
func (o *RootOpts) Printf(format string, args ...any) {
	if o.Quiet {
		return
	}
	fmt.Fprintf(o.Out, format, args...)
}
