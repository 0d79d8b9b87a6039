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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		data        string
		wantErr     bool
		errContains string
		check       func(t *testing.T, s *Settings)
	}{
		{
			name:     "json_partial_keeps_defaults",
			filename: "settings.json",
			data:     `{"default_template": "developer", "include_toc": false}`,
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "developer", s.DefaultTemplate, "template should match")
				assert.False(t, s.IncludeTOC, "toc should be disabled")
				assert.True(t, s.IncludeBadges, "badges should keep default")
				assert.Equal(t, 7, s.MaxCacheAgeDays, "cache age should keep default")
			},
		},
		{
			name:        "json_unknown_field",
			filename:    "settings.json",
			data:        `{"window_width": 1200}`,
			wantErr:     true,
			errContains: "window_width",
		},
		{
			name:     "yaml_settings",
			filename: "settings.yaml",
			data: `
default_template: academic
exclude_patterns:
  - vendor
  - testdata
openrouter_temperature: 1.2
`,
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "academic", s.DefaultTemplate, "template should match")
				assert.Equal(t, []string{"vendor", "testdata"}, s.ExcludePatterns, "patterns should be replaced")
				assert.InDelta(t, 1.2, s.OpenRouterTemperature, 0.0001, "temperature should match")
			},
		},
		{
			name:        "yaml_unknown_field",
			filename:    "settings.yml",
			data:        "theme: dark\n",
			wantErr:     true,
			errContains: "theme",
		},
		{
			name:     "toml_settings",
			filename: "settings.toml",
			data: `
badge_style = "plastic"
concurrent_requests = 4
`,
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "plastic", s.BadgeStyle, "badge style should match")
				assert.Equal(t, 4, s.ConcurrentRequests, "concurrency should match")
			},
		},
		{
			name:     "hcl_settings",
			filename: "settings.hcl",
			data: `
default_template = "corporate"
exclude_patterns = ["a", "b"]
max_cache_age_days = 3
`,
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "corporate", s.DefaultTemplate, "template should match")
				assert.Equal(t, []string{"a", "b"}, s.ExcludePatterns, "patterns should match")
				assert.Equal(t, 3, s.MaxCacheAgeDays, "cache age should match")
			},
		},
		{
			name:        "hcl_unknown_attribute",
			filename:    "settings.hcl",
			data:        `theme = "dark"`,
			wantErr:     true,
			errContains: "theme",
		},
		{
			name:     "invalid_enums_normalized",
			filename: "settings.json",
			data:     `{"default_template": "fancy", "emoji_style": "GITHUB", "log_level": "debug", "max_cache_age_days": 0}`,
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "modern", s.DefaultTemplate, "unknown template should fall back")
				assert.Equal(t, "github", s.EmojiStyle, "emoji style should be lowercased")
				assert.Equal(t, "DEBUG", s.LogLevel, "log level should be uppercased")
				assert.Equal(t, 7, s.MaxCacheAgeDays, "cache age should fall back")
			},
		},
		{
			name:        "temperature_out_of_range",
			filename:    "settings.json",
			data:        `{"openrouter_temperature": 3.5}`,
			wantErr:     true,
			errContains: "openrouter_temperature",
		},
		{
			name:        "no_parser",
			filename:    "settings.ini",
			data:        "x=1",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode(testContext(), tt.filename, []byte(tt.data))
			if tt.wantErr {
				require.Error(t, err, "expected error")
				assert.Contains(t, err.Error(), tt.errContains, "error should mention the problem")
				return
			}
			require.NoError(t, err, "decode should succeed")
			tt.check(t, s)
		})
	}
}

func TestHCLEnvironment(t *testing.T) {
	t.Setenv("REPOREADME_TEST_TOKEN", "ghp_from_env")

	s, err := Decode(testContext(), "settings.hcl", []byte(`github_token = env.REPOREADME_TEST_TOKEN`))
	require.NoError(t, err, "decode should succeed")
	assert.Equal(t, "ghp_from_env", s.GitHubToken, "token should come from env")
}

func TestEncodeRoundTripPerFormat(t *testing.T) {
	ctx := testContext()
	original := Defaults()
	original.DefaultTemplate = "minimalist"
	original.ExcludePatterns = []string{"vendor"}
	original.OpenRouterMaxTokens = 512

	for _, name := range []string{"s.json", "s.yaml", "s.toml", "s.hcl"} {
		t.Run(name, func(t *testing.T) {
			data, err := Encode(ctx, name, original)
			require.NoError(t, err, "encode should succeed")

			decoded, err := Decode(ctx, name, data)
			require.NoError(t, err, "decode should succeed")
			assert.Equal(t, original, decoded, "settings should survive %s", name)
		})
	}
}

func TestManager(t *testing.T) {
	ctx := testContext()

	t.Run("missing_file_uses_defaults", func(t *testing.T) {
		m := NewManager(filepath.Join(t.TempDir(), "settings.json"))
		s, err := m.Load(ctx)
		require.NoError(t, err, "load should succeed")
		assert.Equal(t, Defaults(), s, "should return defaults")
	})

	t.Run("save_and_reload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config", "settings.json")
		m := NewManager(path)
		require.NoError(t, m.Set("default_template", "classic"), "set should succeed")
		require.NoError(t, m.Save(ctx), "save should succeed")

		reloaded, err := NewManager(path).Load(ctx)
		require.NoError(t, err, "load should succeed")
		assert.Equal(t, "classic", reloaded.DefaultTemplate, "template should persist")
	})

	t.Run("corrupt_file_falls_back_to_backup", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		m := NewManager(path)
		require.NoError(t, m.Set("badge_style", "flat-square"), "set should succeed")
		require.NoError(t, m.Save(ctx), "first save should succeed")
		require.NoError(t, m.Set("badge_style", "plastic"), "set should succeed")
		require.NoError(t, m.Save(ctx), "second save should succeed")

		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600), "corrupting file should succeed")

		s, err := NewManager(path).Load(ctx)
		require.NoError(t, err, "load should succeed")
		assert.Equal(t, "flat-square", s.BadgeStyle, "should load from backup")
	})

	t.Run("set_coerces_types", func(t *testing.T) {
		m := NewManager(filepath.Join(t.TempDir(), "settings.json"))
		require.NoError(t, m.Set("include_badges", "false"), "bool set should succeed")
		require.NoError(t, m.Set("concurrent_requests", "3"), "int set should succeed")
		require.NoError(t, m.Set("exclude_patterns", "vendor, dist ,"), "list set should succeed")

		s := m.Settings()
		assert.False(t, s.IncludeBadges, "bool should be parsed")
		assert.Equal(t, 3, s.ConcurrentRequests, "int should be parsed")
		assert.Equal(t, []string{"vendor", "dist"}, s.ExcludePatterns, "list should be split")

		v, err := m.Get("concurrent_requests")
		require.NoError(t, err, "get should succeed")
		assert.InDelta(t, 3.0, v, 0.0001, "get should return the stored number")
	})

	t.Run("set_rejects_bad_values", func(t *testing.T) {
		m := NewManager(filepath.Join(t.TempDir(), "settings.json"))
		assert.Error(t, m.Set("include_badges", "maybe"), "non-bool should fail")
		assert.Error(t, m.Set("concurrent_requests", "1.5"), "fractional int should fail")
		assert.ErrorIs(t, m.Set("nope", "x"), ErrUnknownKey, "unknown key should fail")
		_, err := m.Get("nope")
		assert.ErrorIs(t, err, ErrUnknownKey, "unknown key get should fail")
	})

	t.Run("export_import_yaml", func(t *testing.T) {
		dir := t.TempDir()
		m := NewManager(filepath.Join(dir, "settings.json"))
		require.NoError(t, m.Set("cv_style", "technical"), "set should succeed")
		exported := filepath.Join(dir, "backup.yaml")
		require.NoError(t, m.Export(ctx, exported), "export should succeed")

		other := NewManager(filepath.Join(dir, "other.json"))
		require.NoError(t, other.Import(ctx, exported), "import should succeed")
		assert.Equal(t, "technical", other.Settings().CVStyle, "imported value should match")
		assert.FileExists(t, filepath.Join(dir, "other.json"), "import should save")
	})

	t.Run("reset_and_summary", func(t *testing.T) {
		m := NewManager("/tmp/settings.json")
		require.NoError(t, m.Set("github_token", "abc"), "set should succeed")
		assert.Equal(t, true, m.Summary()["github_configured"], "token should be reported")
		m.Reset()
		assert.Equal(t, false, m.Summary()["github_configured"], "reset should clear token")
	})
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvGitHubToken, "env-gh")
	t.Setenv(EnvOpenRouterAPIKey, "env-or")

	s := Defaults()
	s.OpenRouterAPIKey = "configured"
	s.ApplyEnv()

	assert.Equal(t, "env-gh", s.GitHubToken, "empty token should be filled")
	assert.Equal(t, "configured", s.OpenRouterAPIKey, "configured key should win")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REPOREADME_DOTENV_TEST=loaded\n"), 0o600), "writing env should succeed")
	t.Setenv("REPOREADME_DOTENV_TEST", "")
	os.Unsetenv("REPOREADME_DOTENV_TEST")

	LoadDotEnv(testContext(), dir)
	assert.Equal(t, "loaded", os.Getenv("REPOREADME_DOTENV_TEST"), "value should come from .env")
}

func TestKeys(t *testing.T) {
	keys, err := Keys()
	require.NoError(t, err, "keys should encode")
	assert.Contains(t, keys, "default_template", "keys should include template")
	assert.Contains(t, keys, "openrouter_api_key", "keys should include api key")
	assert.IsNonDecreasing(t, keys, "keys should be sorted")
}
