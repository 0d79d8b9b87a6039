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
	"time"

	"github.com/rs/zerolog"
)

// category values attached to structured events
const (
	CategoryAnalysis    = "ANALYSIS"
	CategoryTemplate    = "TEMPLATE"
	CategoryPerformance = "PERFORMANCE"
	CategoryDiscovery   = "DISCOVERY"
	CategoryAI          = "AI"
)

// LogRepositoryAnalysis records the outcome of analyzing a repository
func LogRepositoryAnalysis(ctx context.Context, repo, analysisType, status, details string) {
	zerolog.Ctx(ctx).Info().
		Str("category", CategoryAnalysis).
		Str("repo", repo).
		Str("analysis_type", analysisType).
		Str("status", status).
		Str("details", details).
		Msg("repository analysis")
}

// LogReadmeGeneration records a README render
func LogReadmeGeneration(ctx context.Context, repo, template, outputFile string, success bool) {
	ev := zerolog.Ctx(ctx).Info()
	if !success {
		ev = zerolog.Ctx(ctx).Warn()
	}
	ev.Str("category", CategoryTemplate).
		Str("repo", repo).
		Str("template", template).
		Str("output", outputFile).
		Bool("success", success).
		Msg("readme generation")
}

// LogPerformance records how long an operation took
func LogPerformance(ctx context.Context, operation string, duration time.Duration, fields map[string]any) {
	zerolog.Ctx(ctx).Debug().
		Str("category", CategoryPerformance).
		Str("operation", operation).
		Dur("duration", duration).
		Fields(fields).
		Msg("performance")
}
