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

package analyzer

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ⏱️ GitTimeout bounds every git invocation
const GitTimeout = 10 * time.Second

// 🔧 GitRunner runs git in a directory and returns stdout
type GitRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// 🖥️ ExecGit runs the git binary found on PATH
type ExecGit struct {
	Timeout time.Duration
}

// Run implements GitRunner
func (g ExecGit) Run(ctx context.Context, dir string, args ...string) (string, error) {
	timeout := g.Timeout
	if timeout == 0 {
		timeout = GitTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// 🔖 HeadCommit returns the commit hash checked out in dir
func HeadCommit(ctx context.Context, git GitRunner, dir string) (string, error) {
	out, err := git.Run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func datePart(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// 📜 readGitHistory fills commit, contributor and date fields; failures are logged and skipped
func readGitHistory(ctx context.Context, git GitRunner, root string, meta *ProjectMetadata) {
	logger := zerolog.Ctx(ctx)

	if out, err := git.Run(ctx, root, "rev-list", "--all", "--count"); err != nil {
		logger.Debug().Err(err).Str("repo", root).Msg("git commit count failed")
	} else if n, err := strconv.Atoi(strings.TrimSpace(out)); err == nil {
		meta.Commits = n
	}

	// shortlog reads stdin when it has no tty, so point it at HEAD explicitly
	if out, err := git.Run(ctx, root, "shortlog", "-sn", "HEAD"); err != nil {
		logger.Debug().Err(err).Str("repo", root).Msg("git contributor count failed")
	} else {
		meta.Contributors = len(nonEmptyLines(out))
	}

	if out, err := git.Run(ctx, root, "log", "--format=%ai", "--reverse"); err != nil {
		logger.Debug().Err(err).Str("repo", root).Msg("git log failed")
	} else if dates := nonEmptyLines(out); len(dates) > 0 {
		meta.CreatedDate = datePart(dates[0])
		meta.LastUpdated = datePart(dates[len(dates)-1])
	}
}
