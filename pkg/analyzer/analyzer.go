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
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/reporeadme/pkg/log"
	"github.com/walteh/reporeadme/pkg/text"
)

// ❌ ErrPathNotFound is returned when the repository path does not exist
var ErrPathNotFound = errors.New("repository path does not exist")

const (
	readmeLimit       = 5000
	changelogLimit    = 2000
	contributingLimit = 2000
)

// ⚙️ Options tunes a scan
type Options struct {
	ExcludePatterns []string  // gitignore-style patterns added to the repository's .gitignore
	IncludeHidden   bool      // descend into dot-directories
	Concurrency     int       // files read in parallel
	MaxFileSize     int64     // larger files are skipped
	Git             GitRunner // git history source
}

// 🏭 DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		Concurrency: runtime.NumCPU(),
		MaxFileSize: 5 << 20,
		Git:         ExecGit{},
	}
}

// 🔍 Analyzer extracts ProjectMetadata from a checked-out repository
type Analyzer struct {
	opts Options
}

// 🏭 New creates an analyzer
func New(opts Options) *Analyzer {
	def := DefaultOptions()
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = def.MaxFileSize
	}
	if opts.Git == nil {
		opts.Git = def.Git
	}
	return &Analyzer{opts: opts}
}

// 📄 fileResult is what one file contributes to the scan
type fileResult struct {
	rel       string
	language  string
	lines     int
	blank     int
	comment   int
	code      int
	tech      []string
	endpoints []Endpoint
	ok        bool
}

// 🎯 Analyze runs every analysis step over the repository at root
func (a *Analyzer) Analyze(ctx context.Context, root, name, url string) (*ProjectMetadata, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.Errorf("%w: %s", ErrPathNotFound, root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving repository path: %w", err)
	}
	if name == "" {
		name = filepath.Base(abs)
	}

	logger.Info().Str("path", abs).Msg("starting repository analysis")

	meta := NewProjectMetadata(name)
	meta.RepositoryURL = url

	a.readBasicInfo(ctx, abs, meta)
	readStructure(abs, meta)

	files, err := a.listFiles(abs)
	if err != nil {
		return nil, err
	}
	results, err := a.scanFiles(ctx, abs, files)
	if err != nil {
		return nil, err
	}
	applyLanguages(results, meta)
	applyTechnologies(results, meta)

	if err := readDependencies(abs, meta); err != nil {
		logger.Debug().Err(err).Msg("dependency parsing incomplete")
	}

	meta.ProjectType = detectProjectType(abs)
	meta.InstallationCommands = setupCommandsFor(abs)
	readDocumentation(abs, meta)
	readGitHistory(ctx, a.opts.Git, abs, meta)
	applyMetrics(results, meta)
	extractFeatures(abs, results, meta)
	meta.CodeQualityScore = qualityScore(meta)

	log.LogPerformance(ctx, "repository_analysis", time.Since(start), map[string]any{
		"repo":      meta.Name,
		"files":     meta.TotalFiles,
		"languages": len(meta.Languages),
	})
	log.LogRepositoryAnalysis(ctx, meta.Name, "comprehensive", "completed",
		fmt.Sprintf("%d files, %d languages", meta.TotalFiles, len(meta.Languages)))

	return meta, nil
}

func (a *Analyzer) readBasicInfo(ctx context.Context, root string, meta *ProjectMetadata) {
	logger := zerolog.Ctx(ctx)

	for _, m := range manifests {
		data, err := os.ReadFile(filepath.Join(root, m.filename))
		if err != nil {
			continue
		}
		if err := m.parse(data, meta); err != nil {
			logger.Debug().Err(err).Str("manifest", m.filename).Msg("failed to parse manifest")
			continue
		}
		break
	}

	for _, lf := range licenseFiles {
		data, err := os.ReadFile(filepath.Join(root, lf))
		if err != nil {
			continue
		}
		meta.License = detectLicense(string(data))
		break
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readStructure(root string, meta *ProjectMetadata) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || !importantDirs[strings.ToLower(e.Name())] {
			continue
		}
		meta.Structure[e.Name()] = countDir(filepath.Join(root, e.Name()))
	}

	for _, d := range testDirs {
		meta.HasTests = meta.HasTests || meta.HasDir(d)
	}
	for _, d := range docDirs {
		meta.HasDocs = meta.HasDocs || meta.HasDir(d)
	}
	for _, f := range dockerIndicators {
		meta.HasDocker = meta.HasDocker || exists(filepath.Join(root, f))
	}
	for _, f := range ciIndicators {
		meta.HasCI = meta.HasCI || exists(filepath.Join(root, f))
	}
}

func countDir(dir string) DirStats {
	var s DirStats
	entries, err := os.ReadDir(dir)
	if err != nil {
		return s
	}
	for _, e := range entries {
		switch {
		case e.Type().IsRegular():
			s.Files++
		case e.IsDir() && !strings.HasPrefix(e.Name(), "."):
			s.Subdirs++
		}
	}
	return s
}

// 📂 listFiles walks root and returns the slash-separated relative paths that are not ignored
func (a *Analyzer) listFiles(root string) ([]string, error) {
	ig := newIgnorer(root, a.opts.ExcludePatterns, a.opts.IncludeHidden)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ig.ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || ig.ignored(rel, false) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking repository: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// 🧵 scanFiles reads files in parallel and gathers per-file statistics
func (a *Analyzer) scanFiles(ctx context.Context, root string, files []string) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.scanFile(root, rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("scanning files: %w", err)
	}
	return results, nil
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(text.Head(data, 8000), 0) >= 0
}

func (a *Analyzer) scanFile(root, rel string) fileResult {
	res := fileResult{rel: rel}

	path := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil || info.Size() > a.opts.MaxFileSize {
		return res
	}
	data, err := os.ReadFile(path)
	if err != nil || isBinary(data) {
		return res
	}
	res.ok = true

	content := string(data)
	lines := splitLines(content)
	res.lines = len(lines)
	res.language = languageFor(strings.ToLower(filepath.Ext(rel)))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			res.blank++
		case strings.HasPrefix(line, "#"), strings.HasPrefix(line, "//"), strings.HasPrefix(line, "/*"):
			res.comment++
		default:
			res.code++
		}
	}

	lowerContent := strings.ToLower(content)
	lowerName := strings.ToLower(filepath.Base(rel))
	for _, tp := range techPatterns {
		for _, re := range tp.patterns {
			if re.MatchString(lowerContent) || re.MatchString(lowerName) {
				res.tech = append(res.tech, tp.name)
				break
			}
		}
	}

	switch res.language {
	case "javascript", "typescript", "python":
		res.endpoints = findEndpoints(rel, content)
	}

	return res
}

func findEndpoints(rel, content string) []Endpoint {
	var out []Endpoint
	seen := map[string]bool{}
	for _, re := range endpointPatterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			method := strings.ToUpper(m[1])
			if method == "ROUTE" {
				method = "GET"
			}
			key := method + " " + m[2]
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Endpoint{Method: method, Path: m[2], File: rel})
		}
	}
	return out
}

// 🗣️ applyLanguages converts per-language line counts to percentages
func applyLanguages(results []fileResult, meta *ProjectMetadata) {
	counts := map[string]int{}
	total := 0
	for _, r := range results {
		if !r.ok || r.language == "" {
			continue
		}
		counts[r.language] += r.lines
		total += r.lines
	}
	if total == 0 {
		return
	}

	best := ""
	for _, lang := range sortedKeys(counts) {
		meta.Languages[lang] = float64(counts[lang]) / float64(total) * 100
		if best == "" || meta.Languages[lang] > meta.Languages[best] {
			best = lang
		}
	}
	meta.PrimaryLanguage = best
}

func applyTechnologies(results []fileResult, meta *ProjectMetadata) {
	detected := map[string]bool{}
	for _, r := range results {
		for _, t := range r.tech {
			detected[t] = true
		}
	}

	meta.Frameworks, meta.Databases, meta.Tools = []string{}, []string{}, []string{}
	for _, t := range sortedKeys(detected) {
		switch {
		case webFrameworks[t]:
			meta.Frameworks = append(meta.Frameworks, t)
		case databaseTech[t]:
			meta.Databases = append(meta.Databases, t)
		case devopsTools[t]:
			meta.Tools = append(meta.Tools, t)
		}
	}
}

func applyMetrics(results []fileResult, meta *ProjectMetadata) {
	for _, r := range results {
		if !r.ok {
			continue
		}
		meta.TotalFiles++
		meta.TotalLines += r.lines
		meta.BlankLines += r.blank
		meta.CommentLines += r.comment
		meta.CodeLines += r.code
		meta.APIEndpoints = append(meta.APIEndpoints, r.endpoints...)
	}
}

// 🧭 detectProjectType scores each indicator table entry; ties keep the earlier entry
func detectProjectType(root string) string {
	fsys := os.DirFS(root)
	best, bestScore := "general", 0
	for _, p := range projectTypePatterns {
		score := 0
		for _, ind := range p.indicators {
			if strings.Contains(ind, "*") {
				if matches, err := doublestar.Glob(fsys, ind); err == nil && len(matches) > 0 {
					score++
				}
				continue
			}
			if exists(filepath.Join(root, strings.TrimSuffix(ind, "/"))) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = p.projectType, score
		}
	}
	return best
}

func setupCommandsFor(root string) []string {
	cmds := []string{}
	for _, s := range setupByManifest {
		if exists(filepath.Join(root, s.manifest)) {
			cmds = append(cmds, s.commands...)
		}
	}
	return cmds
}

func readLimited(path string, limit int) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return text.Truncate(string(data), limit), true
}

func readDocumentation(root string, meta *ProjectMetadata) {
	for _, f := range readmeFiles {
		if content, ok := readLimited(filepath.Join(root, f), readmeLimit); ok {
			meta.ExistingReadme = content
			break
		}
	}
	meta.Changelog, _ = readLimited(filepath.Join(root, "CHANGELOG.md"), changelogLimit)
	meta.ContributingGuide, _ = readLimited(filepath.Join(root, "CONTRIBUTING.md"), contributingLimit)
}

func extractFeatures(root string, results []fileResult, meta *ProjectMetadata) {
	meta.Features = []string{}
	if meta.HasDir("api") {
		meta.Features = append(meta.Features, "REST API")
	}
	for name := range meta.Structure {
		if strings.Contains(strings.ToLower(name), "auth") {
			meta.Features = append(meta.Features, "Authentication")
			break
		}
	}
	if dependenciesMention(meta, "database") {
		meta.Features = append(meta.Features, "Database Integration")
	}
	if meta.HasTests {
		meta.Features = append(meta.Features, "Automated Testing")
	}
	if meta.HasDocker {
		meta.Features = append(meta.Features, "Docker Support")
	}

	meta.UsageExamples = []string{}
	if meta.ExistingReadme != "" {
		for _, m := range codeBlockPattern.FindAllStringSubmatch(meta.ExistingReadme, 3) {
			meta.UsageExamples = append(meta.UsageExamples, m[1])
		}
	}

	readme := strings.ToLower(meta.ExistingReadme)
	meta.HasBadges = strings.Contains(readme, "shields.io") || strings.Contains(readme, "badge")
	meta.HasScreenshots = strings.Contains(readme, "screenshot") || exists(filepath.Join(root, "screenshots"))
	meta.HasExamples = meta.HasDir("examples") || meta.HasDir("demo") || len(meta.UsageExamples) > 0
}

func dependenciesMention(meta *ProjectMetadata, word string) bool {
	for manager, deps := range meta.Dependencies {
		if strings.Contains(strings.ToLower(manager), word) {
			return true
		}
		for _, d := range deps {
			if strings.Contains(strings.ToLower(d), word) {
				return true
			}
		}
	}
	return false
}

// 🏆 qualityScore awards points for documentation, tests, CI, organization and activity
func qualityScore(meta *ProjectMetadata) float64 {
	score := 0.0
	add := func(cond bool, pts float64) {
		if cond {
			score += pts
		}
	}

	add(meta.ExistingReadme != "", 15)
	add(meta.Changelog != "", 5)
	add(meta.ContributingGuide != "", 5)
	add(meta.HasDocs, 5)

	add(meta.HasTests, 25)

	add(meta.HasCI, 15)

	add(len(meta.Structure) >= 3, 10)
	add(meta.License != "", 5)
	add(len(meta.Dependencies) > 0, 5)

	add(meta.Commits > 10, 5)
	add(meta.Contributors > 1, 5)

	return min(score, 100)
}
