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

// 📁 DirStats counts the direct children of a recognized directory
type DirStats struct {
	Files   int `json:"files"`
	Subdirs int `json:"subdirs"`
}

// 🌐 Endpoint is a route found in source code
type Endpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	File   string `json:"file"`
}

// 📦 ProjectMetadata holds everything the analyzer learned about a repository
type ProjectMetadata struct {
	// basic information
	Name          string `json:"name"`
	Description   string `json:"description"`
	Version       string `json:"version"`
	License       string `json:"license"`
	Author        string `json:"author"`
	Homepage      string `json:"homepage"`
	RepositoryURL string `json:"repository_url"`

	// technology stack
	PrimaryLanguage string             `json:"primary_language"`
	Languages       map[string]float64 `json:"languages"`
	Frameworks      []string           `json:"frameworks"`
	Databases       []string           `json:"databases"`
	Tools           []string           `json:"tools"`

	// project structure
	ProjectType string              `json:"project_type"`
	Structure   map[string]DirStats `json:"structure"`
	HasTests    bool                `json:"has_tests"`
	HasDocs     bool                `json:"has_docs"`
	HasCI       bool                `json:"has_ci"`
	HasDocker   bool                `json:"has_docker"`

	// dependencies, keyed by package manager
	Dependencies    map[string][]string `json:"dependencies"`
	DevDependencies map[string][]string `json:"dev_dependencies"`

	// code metrics
	TotalFiles   int `json:"total_files"`
	TotalLines   int `json:"total_lines"`
	CodeLines    int `json:"code_lines"`
	CommentLines int `json:"comment_lines"`
	BlankLines   int `json:"blank_lines"`

	// git
	Commits      int    `json:"commits"`
	Contributors int    `json:"contributors"`
	CreatedDate  string `json:"created_date,omitempty"`
	LastUpdated  string `json:"last_updated,omitempty"`

	// features and capabilities
	Features             []string   `json:"features"`
	InstallationCommands []string   `json:"installation_commands"`
	UsageExamples        []string   `json:"usage_examples"`
	APIEndpoints         []Endpoint `json:"api_endpoints"`

	// documentation
	ExistingReadme    string `json:"existing_readme"`
	Changelog         string `json:"changelog"`
	ContributingGuide string `json:"contributing_guide"`

	// quality indicators
	HasBadges        bool    `json:"has_badges"`
	HasScreenshots   bool    `json:"has_screenshots"`
	HasExamples      bool    `json:"has_examples"`
	CodeQualityScore float64 `json:"code_quality_score"`
}

// 🏭 NewProjectMetadata returns metadata with every map initialized
func NewProjectMetadata(name string) *ProjectMetadata {
	return &ProjectMetadata{
		Name:            name,
		Languages:       map[string]float64{},
		Structure:       map[string]DirStats{},
		Dependencies:    map[string][]string{},
		DevDependencies: map[string][]string{},
	}
}

// 🔢 DependencyCount totals runtime dependencies across package managers
func (m *ProjectMetadata) DependencyCount() int {
	n := 0
	for _, deps := range m.Dependencies {
		n += len(deps)
	}
	return n
}

// 🔍 HasDir reports whether a recognized top-level directory exists
func (m *ProjectMetadata) HasDir(name string) bool {
	_, ok := m.Structure[name]
	return ok
}
