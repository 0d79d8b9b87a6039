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

package discovery

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/remote"
)

// CloneTimeout bounds a single clone
const CloneTimeout = 300 * time.Second

// CommandRunner runs git with extra environment variables
type CommandRunner interface {
	Run(ctx context.Context, env []string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, env []string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// 📥 Cloner makes shallow clones into temporary directories
type Cloner struct {
	SSHKeyPath string
	TempRoot   string // empty means the system temp dir
	Timeout    time.Duration

	runner CommandRunner

	mu   sync.Mutex
	dirs []string
}

// 🏭 NewCloner creates a cloner, using SSH for repositories that have an ssh url when sshKey is set
func NewCloner(sshKey string) *Cloner {
	return &Cloner{SSHKeyPath: sshKey, Timeout: CloneTimeout, runner: execRunner{}}
}

// WithRunner replaces the git runner
func (c *Cloner) WithRunner(r CommandRunner) *Cloner {
	c.runner = r
	return c
}

// 📥 Clone makes a depth 1 clone of repo and returns its path
func (c *Cloner) Clone(ctx context.Context, repo remote.RepositoryInfo) (string, error) {
	logger := zerolog.Ctx(ctx)

	name := filepath.Base(repo.Name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", errors.Errorf("invalid repository name %q", repo.Name)
	}

	dir, err := os.MkdirTemp(c.TempRoot, fmt.Sprintf("reporeadme_%s_", name))
	if err != nil {
		return "", errors.Errorf("creating clone directory: %w", err)
	}
	dest := filepath.Join(dir, name)

	url := repo.CloneURL
	var env []string
	if c.SSHKeyPath != "" && repo.SSHURL != "" {
		url = repo.SSHURL
		env = append(env, fmt.Sprintf("GIT_SSH_COMMAND=ssh -i %s -o IdentitiesOnly=yes", c.SSHKeyPath))
	}
	if url == "" {
		os.RemoveAll(dir)
		return "", errors.Errorf("repository %s has no clone url", repo.FullName)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = CloneTimeout
	}
	cloneCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Info().Str("repo", repo.FullName).Str("dest", dest).Bool("ssh", len(env) > 0).Msg("cloning repository")

	if err := c.runner.Run(cloneCtx, env, "clone", "--depth", "1", url, dest); err != nil {
		os.RemoveAll(dir)
		if cloneCtx.Err() == context.DeadlineExceeded {
			return "", errors.Errorf("cloning %s: timed out after %s", repo.FullName, timeout)
		}
		return "", errors.Errorf("cloning %s: %w", repo.FullName, err)
	}

	c.mu.Lock()
	c.dirs = append(c.dirs, dir)
	c.mu.Unlock()

	return dest, nil
}

// AdoptLeftovers registers clone directories left in the temp root by an
// earlier run so the next Cleanup removes them too
func (c *Cloner) AdoptLeftovers(ctx context.Context) (int, error) {
	root := c.TempRoot
	if root == "" {
		root = os.TempDir()
	}

	matches, err := doublestar.Glob(os.DirFS(root), "reporeadme_*_*")
	if err != nil {
		return 0, errors.Errorf("listing leftover clones: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range matches {
		dir := filepath.Join(root, m)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() || slices.Contains(c.dirs, dir) {
			continue
		}
		c.dirs = append(c.dirs, dir)
		n++
	}
	zerolog.Ctx(ctx).Debug().Str("root", root).Int("dirs", n).Msg("adopted leftover clones")
	return n, nil
}

// 🧹 Cleanup removes every directory created by Clone
func (c *Cloner) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	dirs := c.dirs
	c.dirs = nil
	c.mu.Unlock()

	var errs []error
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}
	zerolog.Ctx(ctx).Debug().Int("dirs", len(dirs)).Int("failed", len(errs)).Msg("cleaned up clones")

	if len(errs) > 0 {
		return errors.Errorf("cleaning up clones: %w", errors.Join(errs...))
	}
	return nil
}

// sshKeyNames in lookup order
var sshKeyNames = []string{"reporeadme_github", "id_ed25519", "id_rsa"}

// 🔑 FindSSHKey returns the first key found in home/.ssh, or an empty string
func FindSSHKey(home string) string {
	for _, name := range sshKeyNames {
		p := filepath.Join(home, ".ssh", name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
