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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/reporeadme/cmd/reporeadme/commands"
	"github.com/walteh/reporeadme/cmd/reporeadme/opts"
	"github.com/walteh/reporeadme/pkg/operation"
)

// run executes the cli against an isolated home and settings file
func run(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITLAB_TOKEN", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	o := &opts.RootOpts{}
	cmd := newRootCmd(o)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--quiet", "--config", filepath.Join(home, "settings.json")}, args...))

	err := cmd.ExecuteContext(context.Background())
	require.NoError(t, o.Close(), "closing resources should not error")
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version", "--json")
	require.NoError(t, err, "version should not error")

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info), "version json should decode")
	assert.NotEmpty(t, info.Version, "version is set")
	assert.True(t, strings.HasPrefix(info.GoVersion, "go"), "go version is set")

	assert.Contains(t, FormatVersion(&VersionInfo{Version: "v1.2.3", Modified: true}), "v1.2.3 ", "formatted version")
	assert.Contains(t, FormatVersion(&VersionInfo{Modified: true}), "(modified)", "modified marker")
}

func TestSettings(t *testing.T) {
	home := t.TempDir()

	t.Run("set_and_get", func(t *testing.T) {
		_, err := run(t, home, "settings", "set", "default_template", "classic")
		require.NoError(t, err, "set should not error")
		assert.FileExists(t, filepath.Join(home, "settings.json"), "settings are saved")

		out, err := run(t, home, "settings", "get", "default_template")
		require.NoError(t, err, "get should not error")
		assert.Equal(t, "classic\n", out, "value persisted")
	})

	t.Run("secrets_are_masked", func(t *testing.T) {
		_, err := run(t, home, "settings", "set", "github_token", "ghp_abcdef123456")
		require.NoError(t, err, "set should not error")

		out, err := run(t, home, "settings", "get", "github_token")
		require.NoError(t, err, "get should not error")
		assert.Equal(t, "****3456\n", out, "token masked")

		out, err = run(t, home, "settings", "get", "github_token", "--reveal")
		require.NoError(t, err, "get should not error")
		assert.Equal(t, "ghp_abcdef123456\n", out, "token revealed")
	})

	t.Run("rejects_bad_values", func(t *testing.T) {
		_, err := run(t, home, "settings", "set", "cache_analysis", "maybe")
		assert.Error(t, err, "non boolean rejected")

		_, err = run(t, home, "settings", "get", "no_such_key")
		assert.Error(t, err, "unknown key rejected")
	})

	t.Run("export_and_import", func(t *testing.T) {
		exported := filepath.Join(t.TempDir(), "settings.yaml")
		_, err := run(t, home, "settings", "export", exported)
		require.NoError(t, err, "export should not error")
		data, err := os.ReadFile(exported)
		require.NoError(t, err, "export should be readable")
		assert.Contains(t, string(data), "default_template: classic", "exported as yaml")

		_, err = run(t, home, "settings", "reset")
		assert.Error(t, err, "reset needs confirmation")
		_, err = run(t, home, "settings", "reset", "--yes")
		require.NoError(t, err, "reset should not error")
		out, err := run(t, home, "settings", "get", "default_template")
		require.NoError(t, err, "get should not error")
		assert.Equal(t, "modern\n", out, "defaults restored")

		_, err = run(t, home, "settings", "import", exported)
		require.NoError(t, err, "import should not error")
		out, err = run(t, home, "settings", "get", "default_template")
		require.NoError(t, err, "get should not error")
		assert.Equal(t, "classic\n", out, "imported value")
	})

	t.Run("path", func(t *testing.T) {
		out, err := run(t, home, "settings", "path")
		require.NoError(t, err, "path should not error")
		assert.Equal(t, filepath.Join(home, "settings.json")+"\n", out, "settings path")
	})
}

func TestBioEvaluate(t *testing.T) {
	out, err := run(t, t.TempDir(), "bio", "evaluate", "--json", "--style", "technical",
		"--bio", "Built distributed Go services on Kubernetes handling 10M requests a day.")
	require.NoError(t, err, "evaluate should not error")

	var got struct {
		Evaluation struct {
			Style   string  `json:"style"`
			Overall float64 `json:"overall_score"`
		} `json:"evaluation"`
		Metrics struct {
			Words int `json:"word_count"`
		} `json:"metrics"`
		Direction []string `json:"direction"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), "evaluation json should decode")
	assert.Equal(t, "technical", got.Evaluation.Style, "style evaluated")
	assert.Positive(t, got.Evaluation.Overall, "scored")
	assert.Equal(t, 11, got.Metrics.Words, "word count")
	assert.NotEmpty(t, got.Direction, "direction given")

	_, err = run(t, t.TempDir(), "bio", "evaluate")
	assert.Error(t, err, "a bio is required")
}

func TestBioWithoutKey(t *testing.T) {
	home := t.TempDir()

	_, err := run(t, home, "bio", "alternatives", "--bio", "I write Go.")
	assert.Error(t, err, "alternatives need a key")

	out, err := run(t, home, "bio", "enhance", "--json", "--bio", "I write Go.")
	require.NoError(t, err, "enhance falls back without a key")
	var res struct {
		Model string `json:"model_used"`
		Bio   string `json:"enhanced_bio"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res), "result json should decode")
	assert.Equal(t, "fallback-template", res.Model, "template rewrite")
	assert.NotEmpty(t, res.Bio, "bio produced")
}

func TestModels(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, home, "models", "monthly", "10", "--model", "openai/gpt-3.5-turbo", "--json")
	require.NoError(t, err, "monthly should not error")
	var est struct {
		Monthly float64 `json:"monthly_cost"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &est), "estimate json should decode")
	assert.InDelta(t, 0.405, est.Monthly, 1e-9, "monthly cost")

	_, err = run(t, home, "models", "monthly", "ten")
	assert.Error(t, err, "count must be a number")
	_, err = run(t, home, "models", "monthly", "1", "--model", "acme/unknown")
	assert.Error(t, err, "unknown model")

	out, err = run(t, home, "models", "budget", "$0.00001", "--json")
	require.NoError(t, err, "budget should not error")
	assert.Contains(t, out, `"budget_exceeded": true`, "nothing fits")

	_, err = run(t, home, "models", "test")
	assert.Error(t, err, "connection test fails without a key")
}

func TestGenerateLocal(t *testing.T) {
	home := t.TempDir()
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "go.mod"), []byte("module example.com/widget\n\ngo 1.24\n\nrequire github.com/spf13/cobra v1.8.0\n"), 0o644), "writing go.mod should not error")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "main.go"), []byte("package main\n\n// main starts the widget\nfunc main() {}\n"), 0o644), "writing main.go should not error")

	_, err := run(t, home, "settings", "set", "cache_analysis", "false")
	require.NoError(t, err, "disabling the cache should not error")

	out, err := run(t, home, "analyze", repo, "--json")
	require.NoError(t, err, "analyze should not error")
	var meta struct {
		Primary string `json:"primary_language"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &meta), "analysis json should decode")
	assert.Equal(t, "Go", meta.Primary, "go detected")

	_, err = run(t, home, "generate", repo, "--template", "minimalist", "--dry-run")
	require.NoError(t, err, "dry run should not error")
	assert.NoFileExists(t, filepath.Join(repo, operation.ReadmeName), "dry run writes nothing")

	_, err = run(t, home, "generate", repo, "--template", "minimalist")
	require.NoError(t, err, "generate should not error")
	data, err := os.ReadFile(filepath.Join(repo, operation.ReadmeName))
	require.NoError(t, err, "readme should be written")
	assert.Contains(t, string(data), "# ", "readme has a title")

	_, err = run(t, home, "generate", repo, "--template", "nope")
	assert.Error(t, err, "unknown template rejected")

	readmePath := filepath.Join(repo, operation.ReadmeName)
	_, err = run(t, home, "generate", repo, "--template", "classic", "--backup")
	require.NoError(t, err, "regenerating with a backup should not error")
	require.FileExists(t, readmePath+".backup", "previous readme is backed up")
	classic, err := os.ReadFile(readmePath)
	require.NoError(t, err, "classic readme should be written")
	assert.NotEqual(t, string(data), string(classic), "templates differ")

	_, err = run(t, home, "generate", repo, "--restore")
	require.NoError(t, err, "restore should not error")
	restored, err := os.ReadFile(readmePath)
	require.NoError(t, err, "restored readme should exist")
	assert.Equal(t, string(data), string(restored), "minimalist readme is back")
	assert.NoFileExists(t, readmePath+".backup", "backup is consumed")

	_, err = run(t, home, "generate", repo, "--restore")
	assert.Error(t, err, "nothing left to restore")
}

func TestBulkWithoutDiscovery(t *testing.T) {
	home := t.TempDir()

	_, err := run(t, home, "settings", "set", "auto_analyze", "false")
	require.NoError(t, err, "disabling auto analyze should not error")

	_, err = run(t, home, "bulk", "--dry-run")
	require.Error(t, err, "bulk needs a saved discovery when auto analyze is off")
	assert.ErrorIs(t, err, commands.ErrNoDiscovery, "error names the missing discovery")
	assert.Contains(t, err.Error(), "discover --save", "error says how to fix it")
}

func TestLinkedInAIBio(t *testing.T) {
	home := t.TempDir()
	profilePath := filepath.Join(home, "profile.json")
	require.NoError(t, os.WriteFile(profilePath, []byte(`{
		"username": "jane",
		"total_repositories": 12,
		"total_stars_received": 140,
		"total_forks_received": 30,
		"repositories_with_readme": 11,
		"primary_languages": ["Go", "TypeScript"],
		"featured_projects": [{"name": "orders-api", "description": "Automated order routing", "stars": 90}]
	}`), 0o644), "writing profile")

	dir := filepath.Join(home, "out")
	_, err := run(t, home, "linkedin", "--profile", profilePath, "--ai-bio", "--bio-style", "technical", "--format", "json", "--out-dir", dir)
	require.NoError(t, err, "linkedin with an ai bio should not error")

	data, err := os.ReadFile(filepath.Join(dir, "jane_linkedin.json"))
	require.NoError(t, err, "linkedin json is exported")

	var got struct {
		AIBio struct {
			Primary      string   `json:"primary_bio"`
			Alternatives []string `json:"alternative_versions"`
			Config       struct {
				Style string `json:"style"`
			} `json:"config_used"`
			Metrics struct {
				SEO float64 `json:"search_optimization_score"`
			} `json:"metrics"`
		} `json:"ai_bio"`
	}
	require.NoError(t, json.Unmarshal(data, &got), "linkedin json should decode")
	assert.Equal(t, "technical", got.AIBio.Config.Style, "requested style is used")
	assert.Contains(t, got.AIBio.Primary, "Cloud Infrastructure", "bio names the go domain")
	assert.Len(t, got.AIBio.Alternatives, 2, "short and creative alternatives")
	assert.Positive(t, got.AIBio.Metrics.SEO, "bio is scored")

	_, err = run(t, home, "linkedin", "--profile", profilePath, "--ai-bio", "--bio-style", "poetic")
	require.Error(t, err, "unknown bio styles are rejected")
	assert.Contains(t, err.Error(), "unknown bio style", "error names the problem")
}
