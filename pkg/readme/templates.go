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

package readme

import (
	"slices"
	"strings"
	"time"

	"github.com/walteh/reporeadme/pkg/analyzer"
	"github.com/walteh/reporeadme/pkg/text"
)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func cmdAt(meta *analyzer.ProjectMetadata, i int) string {
	if i < len(meta.InstallationCommands) {
		return meta.InstallationCommands[i]
	}
	return ""
}

func modern(meta *analyzer.ProjectMetadata, cfg Config, _ time.Time) *doc {
	d := &doc{}
	lang := meta.PrimaryLanguage

	d.add("# "+withEmoji(cfg, "rocket", meta.Name), "")

	if meta.Description != "" {
		d.addf("> %s", meta.Description)
		d.blank()
	}

	if cfg.IncludeBadges {
		d.add(badges(meta, cfg)...)
	}

	if cfg.IncludeTOC {
		d.add(tableOfContents(meta, cfg)...)
		d.blank()
	}

	if len(meta.Features) > 0 {
		d.add("## "+sectionTitle(cfg, "Features"), "")
		for _, f := range meta.Features {
			d.addf("- %s", f)
		}
		d.blank()
	}

	if len(meta.Languages) > 0 || len(meta.Frameworks) > 0 {
		d.add("## "+sectionTitle(cfg, "Technology Stack"), "")
		if lang != "" {
			d.addf("**Primary Language:** %s", text.Title(lang))
			d.blank()
		}
		for _, group := range []struct {
			heading string
			items   []string
		}{
			{"**Frameworks & Libraries:**", meta.Frameworks},
			{"**Databases:**", meta.Databases},
			{"**DevOps & Tools:**", meta.Tools},
		} {
			if len(group.items) == 0 {
				continue
			}
			d.add(group.heading)
			for _, item := range group.items {
				d.addf("- %s", text.Title(item))
			}
			d.blank()
		}
	}

	d.add("## "+sectionTitle(cfg, "Getting Started"), "")
	d.add("### Prerequisites", "")
	switch lang {
	case "python":
		d.add("- Python 3.8 or higher", "- pip package manager")
	case "javascript":
		d.add("- Node.js 16 or higher", "- npm or yarn package manager")
	case "java":
		d.add("- Java 11 or higher", "- Maven or Gradle")
	default:
		d.addf("- %s runtime environment", text.Title(lang))
	}
	d.blank()

	d.add("### Installation", "")
	d.add("1. Clone the repository", "```bash")
	if meta.RepositoryURL != "" {
		d.addf("git clone %s", meta.RepositoryURL)
	} else {
		d.addf("git clone https://github.com/yourusername/%s.git", meta.Name)
	}
	d.addf("cd %s", meta.Name)
	d.add("```", "")

	d.add("2. Install dependencies", "```bash")
	switch {
	case cmdAt(meta, 0) != "":
		d.add(cmdAt(meta, 0))
	case lang == "python":
		d.add("pip install -r requirements.txt")
	case lang == "javascript":
		d.add("npm install")
	}
	d.add("```", "")

	d.add("3. Run the application", "```bash")
	switch {
	case cmdAt(meta, 1) != "":
		d.add(cmdAt(meta, 1))
	case lang == "python":
		d.add("python main.py")
	case lang == "javascript":
		d.add("npm start")
	}
	d.add("```", "")

	if len(meta.UsageExamples) > 0 {
		d.add("## "+sectionTitle(cfg, "Usage"), "")
		for i, example := range text.Head(meta.UsageExamples, 3) {
			d.addf("### Example %d", i+1)
			d.blank()
			d.add("```"+lang, strings.TrimSpace(example), "```", "")
		}
	}

	if hasAPISection(meta, cfg) {
		d.add("## "+sectionTitle(cfg, "API Documentation"), "")
		d.add("### Endpoints", "")
		if len(meta.APIEndpoints) > 0 {
			for _, e := range meta.APIEndpoints {
				method, path := e.Method, e.Path
				if method == "" {
					method = "GET"
				}
				if path == "" {
					path = "/"
				}
				d.addf("- `%s %s`", method, path)
			}
		} else {
			d.add("- `GET /api/health` - Health check", "- `GET /api/docs` - API documentation")
		}
		d.blank()
	}

	if len(meta.Structure) > 0 {
		d.add("## "+sectionTitle(cfg, "Project Structure"), "")
		d.add("```", meta.Name+"/")
		for _, dir := range sortedKeys(meta.Structure) {
			if meta.Structure[dir].Files > 0 {
				d.addf("├── %s/", dir)
			}
		}
		d.add("├── README.md")
		if meta.License != "" {
			d.add("└── LICENSE")
		}
		d.add("```", "")
	}

	if meta.HasTests {
		d.add("## "+sectionTitle(cfg, "Testing"), "")
		d.add("Run the test suite:", "", "```bash")
		switch lang {
		case "python":
			d.add("pytest")
		case "javascript":
			d.add("npm test")
		case "go":
			d.add("go test ./...")
		default:
			d.add("# Run tests")
		}
		d.add("```", "")
	}

	if cfg.IncludeScreenshots && meta.HasScreenshots {
		d.add("## Screenshots", "")
		d.add("![Screenshot](screenshots/screenshot.png)", "")
	}

	if cfg.IncludeContributing {
		d.add("## "+sectionTitle(cfg, "Contributing"), "")
		d.add("Contributions are welcome! Please feel free to submit a Pull Request.", "")
		d.add(
			"1. Fork the project",
			"2. Create your feature branch (`git checkout -b feature/AmazingFeature`)",
			"3. Commit your changes (`git commit -m 'Add some AmazingFeature'`)",
			"4. Push to the branch (`git push origin feature/AmazingFeature`)",
			"5. Open a Pull Request",
			"",
		)
	}

	if cfg.IncludeLicenseSection && meta.License != "" {
		d.add("## "+sectionTitle(cfg, "License"), "")
		d.addf("This project is licensed under the %s License - see the [LICENSE](LICENSE) file for details.", meta.License)
		d.blank()
	}

	if cfg.IncludeAcknowledgments {
		d.add("## "+sectionTitle(cfg, "Acknowledgments"), "")
		d.add("- Thanks to all contributors who helped with this project")
		if len(meta.Frameworks) > 0 {
			d.addf("- Built with %s", strings.Join(meta.Frameworks, ", "))
		}
		d.add("- Inspired by the open source community", "")
	}

	made := "Generated"
	if e := emoji(cfg, "heart"); e != "" {
		made = "Generated with " + e
	}
	d.add("---", "")
	d.addf("**%s** - %s by [RepoReadme](https://github.com/walteh/reporeadme)", meta.Name, made)
	return d
}

func classic(meta *analyzer.ProjectMetadata, _ Config, _ time.Time) *doc {
	d := &doc{}
	d.add("# "+meta.Name, "")
	if meta.Description != "" {
		d.add(meta.Description, "")
	}

	d.add("## Installation", "")
	for _, c := range text.Head(meta.InstallationCommands, 2) {
		d.add("    " + c)
	}
	d.blank()

	d.add("## Usage", "")
	if len(meta.UsageExamples) > 0 {
		d.add(meta.UsageExamples[0])
	} else {
		d.add("Add usage instructions here.")
	}
	d.blank()

	if len(meta.Features) > 0 {
		d.add("## Features", "")
		for _, f := range meta.Features {
			d.addf("* %s", f)
		}
		d.blank()
	}

	if meta.License != "" {
		d.add("## License", "")
		d.addf("Licensed under %s", meta.License)
		d.blank()
	}
	return d
}

func minimalist(meta *analyzer.ProjectMetadata, _ Config, _ time.Time) *doc {
	d := &doc{}
	d.add("# " + meta.Name)
	if meta.Description != "" {
		d.add(meta.Description)
	}
	d.blank()

	d.add("## Install", "```bash")
	if c := cmdAt(meta, 0); c != "" {
		d.add(c)
	}
	d.add("```", "")

	d.add("## Use", "```bash")
	if c := cmdAt(meta, 1); c != "" {
		d.add(c)
	}
	d.add("```", "")

	if meta.License != "" {
		d.add("## License", meta.License)
	}
	return d
}

func developer(meta *analyzer.ProjectMetadata, _ Config, _ time.Time) *doc {
	d := &doc{}
	d.add("# "+meta.Name, "")
	if meta.Description != "" {
		d.addf("**%s**", meta.Description)
		d.blank()
	}

	d.add("## Technical Overview", "")
	d.addf("- **Language:** %s", text.Title(meta.PrimaryLanguage))
	d.addf("- **Type:** %s", text.Title(meta.ProjectType))
	if len(meta.Frameworks) > 0 {
		d.addf("- **Framework:** %s", strings.Join(meta.Frameworks, ", "))
	}
	if len(meta.Databases) > 0 {
		d.addf("- **Database:** %s", strings.Join(meta.Databases, ", "))
	}
	d.blank()

	if len(meta.Structure) > 0 {
		d.add("## Architecture", "", "```")
		for _, dir := range sortedKeys(meta.Structure) {
			d.addf("%s/ - %s components", dir, text.Title(dir))
		}
		d.add("```", "")
	}

	if len(meta.Dependencies) > 0 {
		d.add("## Dependencies", "")
		for _, manager := range sortedKeys(meta.Dependencies) {
			deps := meta.Dependencies[manager]
			d.addf("### %s", strings.ToUpper(manager))
			for _, dep := range text.Head(deps, 10) {
				d.addf("- %s", dep)
			}
			if len(deps) > 10 {
				d.addf("- ... and %d more", len(deps)-10)
			}
			d.blank()
		}
	}

	d.add("## Development Setup", "", "```bash")
	d.add("# Clone repository", "git clone <repository-url>")
	d.addf("cd %s", meta.Name)
	d.add("", "# Install dependencies")
	if c := cmdAt(meta, 0); c != "" {
		d.add(c)
	}
	d.add("", "# Start development server")
	if c := cmdAt(meta, 1); c != "" {
		d.add(c)
	}
	d.add("```", "")

	if meta.HasTests {
		d.add("## Testing", "", "```bash")
		switch meta.PrimaryLanguage {
		case "python":
			d.add("pytest tests/ -v")
		case "javascript":
			d.add("npm test")
		case "go":
			d.add("go test ./...")
		}
		d.add("```", "")
	}

	d.add("## Performance", "")
	d.addf("- **Files:** %s", text.Comma(meta.TotalFiles))
	d.addf("- **Lines of Code:** %s", text.Comma(meta.CodeLines))
	if meta.Commits > 0 {
		d.addf("- **Commits:** %s", text.Comma(meta.Commits))
	}
	if meta.Contributors > 0 {
		d.addf("- **Contributors:** %d", meta.Contributors)
	}
	d.blank()
	return d
}

func academic(meta *analyzer.ProjectMetadata, _ Config, now time.Time) *doc {
	d := &doc{}
	d.add("# "+meta.Name, "")

	d.add("## Abstract", "")
	if meta.Description != "" {
		d.add(meta.Description)
	} else {
		d.add("This research project explores...")
	}
	d.blank()

	d.add("## Background", "", "Add background information and motivation for this research.", "")
	d.add("## Methodology", "", "Describe the methodology and approach used.", "")

	d.add("## Implementation", "")
	if meta.PrimaryLanguage != "" {
		d.addf("The implementation is written in %s.", text.Title(meta.PrimaryLanguage))
	}
	if len(meta.Frameworks) > 0 {
		d.addf("Key frameworks used: %s", strings.Join(meta.Frameworks, ", "))
	}
	d.blank()

	d.add("## Results", "", "Present your findings and results here.", "")

	d.add("## Usage", "")
	if len(meta.InstallationCommands) > 0 {
		d.add("```bash")
		d.add(meta.InstallationCommands...)
		d.add("```")
	}
	d.blank()

	year := now.Year()
	d.add("## Citation", "", "If you use this work in your research, please cite:", "```")
	d.addf("@software{%s_%d,", meta.Name, year)
	d.addf("  title = {%s},", meta.Name)
	if meta.Author != "" {
		d.addf("  author = {%s},", meta.Author)
	}
	d.addf("  year = {%d},", year)
	if meta.RepositoryURL != "" {
		d.addf("  url = {%s}", meta.RepositoryURL)
	}
	d.add("}", "```", "")
	return d
}

func corporate(meta *analyzer.ProjectMetadata, _ Config, _ time.Time) *doc {
	d := &doc{}
	d.add("# "+meta.Name, "")

	d.add("## Executive Summary", "")
	if meta.Description != "" {
		d.add(meta.Description)
	} else {
		d.add("This project delivers business value by...")
	}
	d.blank()

	d.add("## Business Value", "")
	if len(meta.Features) > 0 {
		d.add("Key benefits:")
		for _, f := range meta.Features {
			d.addf("- %s", f)
		}
	}
	d.blank()

	d.add("## Technical Specifications", "")
	d.add("| Component | Technology |", "|-----------|------------|")
	d.addf("| Runtime | %s |", text.Title(meta.PrimaryLanguage))
	if len(meta.Frameworks) > 0 {
		d.addf("| Framework | %s |", strings.Join(meta.Frameworks, ", "))
	}
	if len(meta.Databases) > 0 {
		d.addf("| Database | %s |", strings.Join(meta.Databases, ", "))
	}
	d.blank()

	d.add("## Deployment", "")
	d.add("### Prerequisites",
		"- Production environment setup",
		"- Required access credentials",
		"- Infrastructure provisioning",
		"")
	d.add("### Installation Steps", "")
	for i, c := range meta.InstallationCommands {
		d.addf("%d. `%s`", i+1, c)
	}
	d.blank()

	d.add("## Support and Maintenance", "")
	d.add("- **Support Team:** Development Team",
		"- **SLA:** 99.9% uptime",
		"- **Maintenance Window:** Sundays 2-4 AM UTC",
		"")

	d.add("## Compliance", "", "This project adheres to:")
	d.add("- Company coding standards", "- Security best practices")
	if meta.HasTests {
		d.add("- Quality assurance requirements")
	}
	d.blank()
	return d
}
