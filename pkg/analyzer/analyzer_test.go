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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockGit is a mock implementation of GitRunner
type MockGit struct {
	mock.Mock
}

func (m *MockGit) Run(ctx context.Context, dir string, args ...string) (string, error) {
	result := m.Called(strings.Join(args, " "))
	return result.String(0), result.Error(1)
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "creating dir should succeed")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing file should succeed")
	}
	return root
}

func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

func noGit() *MockGit {
	g := &MockGit{}
	g.On("Run", mock.Anything).Return("", errors.New("not a git repository"))
	return g
}

func TestAnalyzeNodeProject(t *testing.T) {
	root := writeTree(t, map[string]string{
		"package.json": `{
  "name": "shop",
  "description": "An online shop",
  "version": "1.2.3",
  "author": {"name": "Ada"},
  "license": "MIT",
  "dependencies": {"express": "^4", "mongoose": "^7"},
  "devDependencies": {"jest": "^29"}
}`,
		"LICENSE":                 "MIT License\n\nCopyright...",
		"README.md":               "# Shop\n\n```bash\nnpm start\n```\n\n![badge](https://img.shields.io/x)\n",
		"src/server.js":           "const express = require('express')\nconst app = express()\n\n// routes\napp.get('/api/items', list)\n",
		"src/db.js":               "const mongoose = require('mongoose')\n",
		"tests/server.test.js":    "test('ok', () => {})\n",
		"api/index.js":            "module.exports = {}\n",
		"docs/guide.md":           "guide\n",
		"Dockerfile":              "FROM node:20\n",
		".github/workflows/ci.yml": "on: push\n",
		"node_modules/x/index.js": "ignored()\n",
		"build/out.js":            "ignored()\n",
	})

	g := &MockGit{}
	g.On("Run", "rev-list --all --count").Return("42\n", nil)
	g.On("Run", "shortlog -sn HEAD").Return("  30\tAda\n  12\tBob\n", nil)
	g.On("Run", "log --format=%ai --reverse").Return("2023-01-02 10:00:00 +0000\n2024-05-06 11:00:00 +0000\n", nil)

	meta, err := New(Options{Git: g}).Analyze(testContext(), root, "", "https://github.com/ada/shop")
	require.NoError(t, err, "analysis should succeed")

	assert.Equal(t, filepath.Base(root), meta.Name, "name should default to directory")
	assert.Equal(t, "An online shop", meta.Description, "description should come from package.json")
	assert.Equal(t, "1.2.3", meta.Version, "version should match")
	assert.Equal(t, "Ada", meta.Author, "author object should be flattened")
	assert.Equal(t, "MIT", meta.License, "license file should win")
	assert.Equal(t, "https://github.com/ada/shop", meta.RepositoryURL, "url should be kept")

	assert.Equal(t, "javascript", meta.PrimaryLanguage, "primary language should match")
	assert.InDelta(t, 100.0, meta.Languages["javascript"], 0.001, "all code is javascript")
	assert.Equal(t, []string{"express"}, meta.Frameworks, "frameworks should match")
	assert.Equal(t, []string{"mongodb"}, meta.Databases, "databases should match")
	assert.Equal(t, []string{"docker"}, meta.Tools, "tools should match")

	assert.Equal(t, []string{"express", "mongoose"}, meta.Dependencies["npm"], "npm deps should keep order")
	assert.Equal(t, []string{"jest"}, meta.DevDependencies["npm"], "dev deps should match")

	assert.True(t, meta.HasTests, "tests dir should be found")
	assert.True(t, meta.HasDocs, "docs dir should be found")
	assert.True(t, meta.HasDocker, "Dockerfile should be found")
	assert.True(t, meta.HasCI, "workflows should be found")
	assert.Equal(t, DirStats{Files: 2}, meta.Structure["src"], "src stats should match")

	assert.Equal(t, "library", meta.ProjectType, "package.json plus src/ scores library highest")
	assert.Equal(t, []string{"npm install", "npm start"}, meta.InstallationCommands, "setup should match")

	assert.Equal(t, 42, meta.Commits, "commits should be parsed")
	assert.Equal(t, 2, meta.Contributors, "contributors should be counted")
	assert.Equal(t, "2023-01-02", meta.CreatedDate, "created date should be first commit")
	assert.Equal(t, "2024-05-06", meta.LastUpdated, "last updated should be last commit")

	assert.Equal(t, []string{"REST API", "Automated Testing", "Docker Support"}, meta.Features, "features should match")
	assert.Equal(t, []string{"npm start\n"}, meta.UsageExamples, "usage should come from code blocks")
	assert.True(t, meta.HasBadges, "badges should be detected")
	assert.Contains(t, meta.APIEndpoints, Endpoint{Method: "GET", Path: "/api/items", File: "src/server.js"}, "endpoint should be found")

	for _, f := range []string{"node_modules/x/index.js", "build/out.js"} {
		for _, e := range meta.APIEndpoints {
			assert.NotEqual(t, f, e.File, "ignored files should not be scanned")
		}
	}

	// readme 15 + docs 5 + tests 25 + ci 15 + structure 10 + license 5 + deps 5 + commits 5 + contributors 5
	assert.InDelta(t, 90.0, meta.CodeQualityScore, 0.001, "quality score should match")
}

func TestAnalyzeMissingPath(t *testing.T) {
	_, err := New(Options{Git: noGit()}).Analyze(testContext(), filepath.Join(t.TempDir(), "nope"), "", "")
	require.Error(t, err, "missing path should fail")
	assert.ErrorIs(t, err, ErrPathNotFound, "error should be ErrPathNotFound")
}

func TestAnalyzeGitFailureIsIgnored(t *testing.T) {
	root := writeTree(t, map[string]string{"main.py": "print('hi')\n"})

	meta, err := New(Options{Git: noGit()}).Analyze(testContext(), root, "tool", "")
	require.NoError(t, err, "git failures should not fail analysis")
	assert.Equal(t, 0, meta.Commits, "commits should stay zero")
	assert.Empty(t, meta.CreatedDate, "created date should stay empty")
	assert.Equal(t, "tool", meta.Name, "explicit name should be used")
}

func TestManifests(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		check func(t *testing.T, meta *ProjectMetadata)
	}{
		{
			name: "setup_py",
			files: map[string]string{"setup.py": `setup(
    name="pkgname",
    version='0.3.1',
    description="Does things",
    author="Grace",
)`},
			check: func(t *testing.T, meta *ProjectMetadata) {
				assert.Equal(t, "pkgname", meta.Name, "name should match")
				assert.Equal(t, "0.3.1", meta.Version, "version should match")
				assert.Equal(t, "Grace", meta.Author, "author should match")
			},
		},
		{
			name: "cargo_toml",
			files: map[string]string{"Cargo.toml": `[package]
name = "crab"
version = "0.1.0"
description = "A crab"
license = "Apache-2.0"

[dependencies]
serde = "1"
tokio = { version = "1", features = ["full"] }
`},
			check: func(t *testing.T, meta *ProjectMetadata) {
				assert.Equal(t, "crab", meta.Name, "name should match")
				assert.Equal(t, "Apache-2.0", meta.License, "license should match")
				assert.Equal(t, []string{"serde", "tokio"}, meta.Dependencies["cargo"], "cargo deps should be sorted")
				assert.Equal(t, []string{"cargo build", "cargo run"}, meta.InstallationCommands, "setup should match")
			},
		},
		{
			name: "go_mod",
			files: map[string]string{
				"go.mod": "module github.com/acme/widget\n\ngo 1.22\n\nrequire (\n\tgithub.com/spf13/cobra v1.8.1\n\tgolang.org/x/sys v0.1.0 // indirect\n)\n",
				"main.go": "package main\n\nfunc main() {}\n",
			},
			check: func(t *testing.T, meta *ProjectMetadata) {
				assert.Equal(t, "widget", meta.Name, "name should be module base")
				assert.Equal(t, "https://github.com/acme/widget", meta.Homepage, "homepage should be module path")
				assert.Equal(t, []string{"github.com/spf13/cobra"}, meta.Dependencies["go"], "only direct deps")
				assert.Equal(t, "go", meta.PrimaryLanguage, "language should be go")
				assert.Equal(t, "cli-tool", meta.ProjectType, "main.go marks a cli tool")
				assert.Equal(t, []string{"go mod download", "go run ."}, meta.InstallationCommands, "setup should match")
			},
		},
		{
			name: "pubspec",
			files: map[string]string{"pubspec.yaml": "name: flutter_app\nversion: 2.0.0\ndescription: A flutter app\n"},
			check: func(t *testing.T, meta *ProjectMetadata) {
				assert.Equal(t, "flutter_app", meta.Name, "name should match")
				assert.Equal(t, "mobile-app", meta.ProjectType, "pubspec marks a mobile app")
			},
		},
		{
			name: "broken_manifest_falls_through",
			files: map[string]string{
				"package.json":  "{broken",
				"composer.json": `{"name": "acme/site", "description": "PHP site"}`,
			},
			check: func(t *testing.T, meta *ProjectMetadata) {
				assert.Equal(t, "acme/site", meta.Name, "composer should be used")
				assert.Equal(t, "PHP site", meta.Description, "description should match")
			},
		},
		{
			name: "requirements",
			files: map[string]string{"requirements.txt": "# deps\nflask==2.0\nrequests>=2.28\nnumpy\n"},
			check: func(t *testing.T, meta *ProjectMetadata) {
				assert.Equal(t, []string{"flask", "requests", "numpy"}, meta.Dependencies["pip"], "specifiers should be stripped")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeTree(t, tt.files)
			meta, err := New(Options{Git: noGit()}).Analyze(testContext(), root, "", "")
			require.NoError(t, err, "analysis should succeed")
			tt.check(t, meta)
		})
	}
}

func TestDetectLicense(t *testing.T) {
	tests := map[string]string{
		"The MIT License (MIT)":                 "MIT",
		"Apache License\nVersion 2.0":           "Apache 2.0",
		"GNU GENERAL PUBLIC LICENSE Version 3":  "GPL",
		"Redistribution... BSD License":         "BSD",
		"Mozilla Public License Version 2.0":    "MPL",
		"All rights reserved by the authors.":   "Custom",
	}
	for in, want := range tests {
		assert.Equal(t, want, detectLicense(in), "license for %q", in)
	}
}

func TestIgnoreRules(t *testing.T) {
	root := writeTree(t, map[string]string{
		".gitignore":        "generated/\n*.min.js\n",
		"app.js":            "a\n",
		"app.min.js":        "b\n",
		"generated/x.js":    "c\n",
		"vendor/lib.js":     "d\n",
		".idea/workspace.js": "e\n",
	})

	files, err := New(Options{ExcludePatterns: []string{"vendor"}, Git: noGit()}).listFiles(root)
	require.NoError(t, err, "listing should succeed")
	assert.Equal(t, []string{"app.js"}, files, "only app.js should survive ignore rules")
}

func TestCodeMetrics(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "# comment\nimport os\n\n// odd\nx = 1\n",
		"b.bin": "\x00\x01\x02",
	})

	meta, err := New(Options{Git: noGit()}).Analyze(testContext(), root, "", "")
	require.NoError(t, err, "analysis should succeed")
	assert.Equal(t, 1, meta.TotalFiles, "binary files are skipped")
	assert.Equal(t, 5, meta.TotalLines, "total lines should match")
	assert.Equal(t, 1, meta.BlankLines, "blank lines should match")
	assert.Equal(t, 2, meta.CommentLines, "comment lines should match")
	assert.Equal(t, 2, meta.CodeLines, "code lines should match")
}

func TestPrimaryLanguageTieBreaksByName(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.rb": "x\n",
		"b.go": "y\n",
	})
	meta, err := New(Options{Git: noGit()}).Analyze(testContext(), root, "", "")
	require.NoError(t, err, "analysis should succeed")
	assert.Equal(t, "go", meta.PrimaryLanguage, "ties should resolve alphabetically")
}
