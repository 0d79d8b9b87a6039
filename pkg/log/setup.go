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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the name of the rotating log file inside the logs directory
const LogFileName = "reporeadme.log"

// ⚙️ SetupOptions controls where and how much we log
type SetupOptions struct {
	Level        string    // DEBUG, INFO, WARNING, ERROR, CRITICAL
	Debug        bool      // forces debug level
	Console      io.Writer // nil disables console output
	LogDir       string    // empty disables the file sink
	KeepLogsDays int       // retention for rotated files
}

// 🎚️ ParseLevel maps settings log levels onto zerolog levels
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARNING", "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "CRITICAL":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// 🏗️ Setup builds the process logger: a console writer plus a rotating file
func Setup(opts SetupOptions) (zerolog.Logger, io.Closer, error) {
	level := ParseLevel(opts.Level)
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: "15:04:05"})
	}

	var closer io.Closer = nopCloser{}
	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return zerolog.Nop(), nil, errors.Errorf("creating log directory: %w", err)
		}
		keep := opts.KeepLogsDays
		if keep < 1 {
			keep = 30
		}
		file := &lumberjack.Logger{
			Filename:  filepath.Join(opts.LogDir, LogFileName),
			MaxSize:   100, // megabytes
			MaxAge:    keep,
			Compress:  true,
			LocalTime: true,
		}
		writers = append(writers, file)
		closer = file
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("app", "reporeadme").
		Logger()

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
