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
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent artifact entries
	nameWidth   = 35 // base width for artifact path
	kindWidth   = 12 // width for artifact kind
	statusWidth = 12 // width for status text
)

// 🎯 ArtifactOperation describes one generated file (README, CV, portfolio...)
type ArtifactOperation struct {
	Path       string // output path
	Repo       string // owning repository, when part of a repo operation
	Kind       string // readme, cv, portfolio, linkedin, resume, analysis
	Status     string // status text shown to the user
	IsNew      bool
	IsModified bool
	IsFailed   bool
	Bytes      int
}

// 📦 RepoOperation describes a repository being processed
type RepoOperation struct {
	Name     string // repository name
	Provider string // github, gitlab, local
	Source   string // clone url or local path
}

// 🏁 RepoOutcome is how a repository operation ended
type RepoOutcome struct {
	Stage    string // last pipeline stage reached
	Status   string // artifact status when one was written
	Err      error
	Duration time.Duration
}

type repoState struct {
	op        RepoOperation
	artifacts int
}

// 🎯 Logger prints aligned progress lines to the console and mirrors them to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	ops     map[string]*repoState
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(io.Discard).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		ops:     map[string]*repoState{},
	}
}

// 🏭 NewWithZerolog creates a logger that mirrors entries into an existing zerolog logger
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		ops:     map[string]*repoState{},
	}
}

type contextKey struct{}

// 🎯 FromContext gets the logger from context, or one that prints nothing
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, zerolog.Disabled)
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (l *Logger) formatArtifact(op ArtifactOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	var kindColor color.Attribute
	switch op.Kind {
	case "readme":
		kindColor = color.FgCyan
	case "cv", "resume":
		kindColor = color.FgMagenta
	default:
		kindColor = color.FgYellow
	}

	status := op.Status
	if op.Bytes > 0 && !op.IsFailed {
		status = fmt.Sprintf("%s (%s)", status, humanize.Bytes(uint64(op.Bytes)))
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, op.Kind)),
		fmt.Sprintf("%-*s", statusWidth, status))
}

// 📝 LogArtifact logs a generated artifact
func (l *Logger) LogArtifact(ctx context.Context, op ArtifactOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if op.Repo != "" {
		if st, ok := l.ops[op.Repo]; ok {
			st.artifacts++
		}
	}

	fmt.Fprintln(l.console, l.formatArtifact(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("kind", op.Kind).
		Str("repo", op.Repo).
		Str("status", op.Status).
		Bool("is_new", op.IsNew).
		Bool("is_modified", op.IsModified).
		Bool("is_failed", op.IsFailed).
		Int("bytes", op.Bytes).
		Msg("artifact written")
}

// 📝 StartRepoOperation prints the repository header and tracks it until EndRepoOperation
func (l *Logger) StartRepoOperation(ctx context.Context, op RepoOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ops[op.Name] = &repoState{op: op}

	fmt.Fprintf(l.console, "[analyzing %s]\n",
		color.New(color.FgCyan).Sprint(op.Source))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Provider))

	l.zlog.Info().
		Str("repo", op.Name).
		Str("provider", op.Provider).
		Str("source", op.Source).
		Msg("starting repository operation")
}

// 📝 EndRepoOperation prints how the named repository finished
func (l *Logger) EndRepoOperation(ctx context.Context, name string, outcome RepoOutcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.ops[name]
	if !ok {
		return
	}
	delete(l.ops, name)

	took := outcome.Duration.Round(time.Millisecond)
	if outcome.Err != nil {
		fmt.Fprintf(l.console, "%s%s %s failed at %s: %v\n",
			fmt.Sprintf("%*s", fileIndent, ""),
			color.New(color.FgRed).Sprint("✗"),
			st.op.Name, outcome.Stage, outcome.Err)
		l.zlog.Warn().
			Err(outcome.Err).
			Str("repo", st.op.Name).
			Str("stage", outcome.Stage).
			Dur("duration", took).
			Msg("repository operation failed")
		return
	}

	fmt.Fprintf(l.console, "%s%s %s %s in %s\n",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(color.FgGreen).Sprint("✓"),
		st.op.Name, outcome.Status, took)
	l.zlog.Info().
		Str("repo", st.op.Name).
		Str("stage", outcome.Stage).
		Str("status", outcome.Status).
		Int("artifacts", st.artifacts).
		Dur("duration", took).
		Msg("repository operation complete")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("reporeadme")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 KeyValue prints an aligned "key: value" line
func (l *Logger) KeyValue(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s%s %v\n",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(color.Bold).Sprint(fmt.Sprintf("%-*s", nameWidth/2, key+":")),
		value)
	l.zlog.Debug().Str("key", key).Interface("value", value).Msg("summary")
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
