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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// 🔑 environment variables that can supply credentials
const (
	EnvGitHubToken      = "GITHUB_TOKEN"
	EnvGitLabToken      = "GITLAB_TOKEN"
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"
)

// 🌱 LoadDotEnv loads .env from the working directory and from dir.
// Variables already set in the environment win.
func LoadDotEnv(ctx context.Context, dir string) {
	logger := zerolog.Ctx(ctx)

	candidates := []string{".env"}
	if dir != "" {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("failed to load env file")
			continue
		}
		logger.Debug().Str("path", path).Msg("loaded env file")
	}
}

// 🔄 ApplyEnv fills empty credential fields from the environment
func (s *Settings) ApplyEnv() {
	fill := func(field *string, name string) {
		if *field == "" {
			*field = os.Getenv(name)
		}
	}
	fill(&s.GitHubToken, EnvGitHubToken)
	fill(&s.GitLabToken, EnvGitLabToken)
	fill(&s.OpenRouterAPIKey, EnvOpenRouterAPIKey)
}
