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
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// 🚫 ignorer decides which paths the analyzer skips
type ignorer struct {
	rules         *gitignore.GitIgnore
	includeHidden bool
}

// newIgnorer combines the configured exclude patterns with the repository's .gitignore
func newIgnorer(root string, excludes []string, includeHidden bool) *ignorer {
	lines := append([]string{}, excludes...)
	if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" && !strings.HasPrefix(line, "#") {
				lines = append(lines, line)
			}
		}
	}
	return &ignorer{
		rules:         gitignore.CompileIgnoreLines(lines...),
		includeHidden: includeHidden,
	}
}

// ignored reports whether rel (slash separated, relative to the root) is skipped
func (ig *ignorer) ignored(rel string, isDir bool) bool {
	lower := strings.ToLower(rel)
	for _, s := range ignoreSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}

	if isDir && !ig.includeHidden && strings.HasPrefix(filepath.Base(rel), ".") {
		return true
	}

	if ig.rules == nil {
		return false
	}
	if isDir {
		return ig.rules.MatchesPath(rel + "/")
	}
	return ig.rules.MatchesPath(rel)
}
