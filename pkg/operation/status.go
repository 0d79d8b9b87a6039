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

package operation

import (
	"time"

	"github.com/walteh/reporeadme/pkg/status"
)

// 📈 Summary aggregates the results of a bulk run
type Summary struct {
	RunID          string         `json:"run_id"`
	Total          int            `json:"total"`
	Succeeded      int            `json:"succeeded"`
	Failed         int            `json:"failed"`
	Cached         int            `json:"cached"`
	New            int            `json:"new"`
	Modified       int            `json:"modified"`
	Unchanged      int            `json:"unchanged"`
	FailedByStage  map[string]int `json:"failed_by_stage"`
	Languages      map[string]int `json:"languages"`
	ProjectTypes   map[string]int `json:"project_types"`
	AverageQuality float64        `json:"average_quality"`
	Duration       time.Duration  `json:"duration"`
}

// SuccessRate is the share of repositories that reached the end, 0 to 100
func (s Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total) * 100
}

// 📊 Summarize counts results by outcome
func Summarize(runID string, results []Result, duration time.Duration) Summary {
	s := Summary{
		RunID:         runID,
		Total:         len(results),
		FailedByStage: map[string]int{},
		Languages:     map[string]int{},
		ProjectTypes:  map[string]int{},
		Duration:      duration,
	}

	var quality float64
	for _, r := range results {
		if r.Failed() {
			s.Failed++
			s.FailedByStage[r.Stage]++
			continue
		}

		s.Succeeded++
		quality += r.Quality
		if r.Cached {
			s.Cached++
		}
		if r.Language != "" {
			s.Languages[r.Language]++
		}
		if r.Type != "" {
			s.ProjectTypes[r.Type]++
		}
		switch r.Status {
		case status.StatusNew:
			s.New++
		case status.StatusModified:
			s.Modified++
		case status.StatusUnchanged:
			s.Unchanged++
		}
	}
	if s.Succeeded > 0 {
		s.AverageQuality = quality / float64(s.Succeeded)
	}
	return s
}
