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

package log

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback for long running commands
type UserLogger struct {
	log   zerolog.Logger
	quiet bool
}

// 🎨 ChangeType represents what happened to a generated artifact
type ChangeType int

const (
	ArtifactCreated ChangeType = iota
	ArtifactUpdated
	ArtifactUnchanged
	ArtifactSkipped
	ArtifactFailed
)

// 🖼️ Change represents a change to a generated artifact
type Change struct {
	Type        ChangeType
	Path        string
	Description string
	Error       error
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 🔇 Quiet suppresses terminal output, entries still reach zerolog
func (u *UserLogger) Quiet(quiet bool) *UserLogger {
	u.quiet = quiet
	return u
}

func (u *UserLogger) println(printer *pterm.PrefixPrinter, msg string) {
	if u.quiet {
		return
	}
	printer.Println(msg)
}

// 📝 LogChange logs an artifact change with appropriate emoji and formatting
func (u *UserLogger) LogChange(change Change) {
	relPath := filepath.Base(change.Path)

	var action string
	var printer *pterm.PrefixPrinter
	switch change.Type {
	case ArtifactCreated:
		action = "Created"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"})
	case ArtifactUpdated:
		action = "Updated"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "🔄"})
	case ArtifactUnchanged:
		action = "Unchanged"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "👍"})
	case ArtifactSkipped:
		action = "Skipped"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: "⏭️"})
	default:
		action = "Failed"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
	}

	msg := fmt.Sprintf("%s %s", action, relPath)
	if change.Description != "" {
		msg += fmt.Sprintf(" (%s)", change.Description)
	}

	u.println(printer, msg)
	if change.Error != nil {
		u.println(&pterm.Error, change.Error.Error())
		u.log.Error().Err(change.Error).Str("path", change.Path).Msg(msg)
		return
	}
	u.log.Info().Str("path", change.Path).Msg(msg)
}

// 📊 LogStep logs a step of a command
func (u *UserLogger) LogStep(description string) {
	u.println(pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}), description)
	u.log.Info().Msg(description)
}

// 📈 LogProgress logs a progress update with a percentage
func (u *UserLogger) LogProgress(message string, percent int) {
	u.println(pterm.Info.WithPrefix(pterm.Prefix{Text: "⏳"}), fmt.Sprintf("[%3d%%] %s", percent, message))
	u.log.Debug().Int("percent", percent).Msg(message)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		u.println(pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}), description)
		u.log.Info().Msg(description)
	case err != nil:
		u.println(pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}), description)
		u.println(&pterm.Error, err.Error())
		u.log.Error().Err(err).Msg(description)
	default:
		u.println(pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}), description)
		u.log.Warn().Msg(description)
	}
}

// 🗒️ LogTable renders rows as a table, the first row being the header
func (u *UserLogger) LogTable(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	u.log.Debug().Int("rows", len(rows)-1).Msg("table")
	if u.quiet {
		return
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		u.log.Warn().Err(err).Msg("rendering table")
	}
}
