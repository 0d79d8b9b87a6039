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
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

type manifestParser struct {
	filename string
	parse    func(data []byte, meta *ProjectMetadata) error
}

// 📜 manifests are tried in order; the first one that parses wins
var manifests = []manifestParser{
	{"package.json", parsePackageJSON},
	{"setup.py", parseSetupPy},
	{"Cargo.toml", parseCargoToml},
	{"pom.xml", parsePomXML},
	{"build.gradle", func([]byte, *ProjectMetadata) error { return nil }},
	{"composer.json", parseComposerJSON},
	{"pubspec.yaml", parsePubspecYAML},
	{"go.mod", parseGoMod},
	{"pyproject.toml", parsePyproject},
}

func setIf(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func parsePackageJSON(data []byte, meta *ProjectMetadata) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid package.json")
	}
	doc := gjson.ParseBytes(data)
	setIf(&meta.Description, doc.Get("description").String())
	setIf(&meta.Version, doc.Get("version").String())
	setIf(&meta.Homepage, doc.Get("homepage").String())
	setIf(&meta.License, doc.Get("license").String())

	author := doc.Get("author")
	if author.IsObject() {
		setIf(&meta.Author, author.Get("name").String())
	} else {
		setIf(&meta.Author, author.String())
	}
	return nil
}

var setupPyFields = map[string]*regexp.Regexp{
	"name":        regexp.MustCompile(`(?i)name\s*=\s*["']([^"']+)["']`),
	"version":     regexp.MustCompile(`(?i)version\s*=\s*["']([^"']+)["']`),
	"description": regexp.MustCompile(`(?i)description\s*=\s*["']([^"']+)["']`),
	"author":      regexp.MustCompile(`(?i)author\s*=\s*["']([^"']+)["']`),
	"license":     regexp.MustCompile(`(?i)license\s*=\s*["']([^"']+)["']`),
}

func parseSetupPy(data []byte, meta *ProjectMetadata) error {
	fields := map[string]*string{
		"name":        &meta.Name,
		"version":     &meta.Version,
		"description": &meta.Description,
		"author":      &meta.Author,
		"license":     &meta.License,
	}
	for field, re := range setupPyFields {
		if m := re.FindSubmatch(data); m != nil {
			setIf(fields[field], string(m[1]))
		}
	}
	return nil
}

type cargoManifest struct {
	Package struct {
		Name        string `toml:"name"`
		Version     string `toml:"version"`
		Description string `toml:"description"`
		License     string `toml:"license"`
		Homepage    string `toml:"homepage"`
	} `toml:"package"`
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

func parseCargoToml(data []byte, meta *ProjectMetadata) error {
	var c cargoManifest
	if err := toml.Unmarshal(data, &c); err != nil {
		return errors.Errorf("parsing Cargo.toml: %w", err)
	}
	setIf(&meta.Name, c.Package.Name)
	setIf(&meta.Version, c.Package.Version)
	setIf(&meta.Description, c.Package.Description)
	setIf(&meta.License, c.Package.License)
	setIf(&meta.Homepage, c.Package.Homepage)
	return nil
}

var pomFields = []struct {
	field string
	re    *regexp.Regexp
}{
	{"name", regexp.MustCompile(`<artifactId>([^<]+)</artifactId>`)},
	{"version", regexp.MustCompile(`<version>([^<]+)</version>`)},
	{"description", regexp.MustCompile(`<description>([^<]+)</description>`)},
}

func parsePomXML(data []byte, meta *ProjectMetadata) error {
	fields := map[string]*string{
		"name":        &meta.Name,
		"version":     &meta.Version,
		"description": &meta.Description,
	}
	for _, f := range pomFields {
		if m := f.re.FindSubmatch(data); m != nil {
			setIf(fields[f.field], string(m[1]))
		}
	}
	return nil
}

func parseComposerJSON(data []byte, meta *ProjectMetadata) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid composer.json")
	}
	doc := gjson.ParseBytes(data)
	setIf(&meta.Name, doc.Get("name").String())
	setIf(&meta.Description, doc.Get("description").String())
	setIf(&meta.Version, doc.Get("version").String())
	setIf(&meta.License, doc.Get("license").String())
	return nil
}

type pubspecManifest struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Homepage    string `yaml:"homepage"`
}

func parsePubspecYAML(data []byte, meta *ProjectMetadata) error {
	var p pubspecManifest
	if err := yaml.Unmarshal(data, &p); err != nil {
		return errors.Errorf("parsing pubspec.yaml: %w", err)
	}
	setIf(&meta.Name, p.Name)
	setIf(&meta.Version, p.Version)
	setIf(&meta.Description, p.Description)
	setIf(&meta.Homepage, p.Homepage)
	return nil
}

func parseGoMod(data []byte, meta *ProjectMetadata) error {
	f, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil {
		return errors.Errorf("parsing go.mod: %w", err)
	}
	if f.Module == nil {
		return errors.New("go.mod has no module directive")
	}
	setIf(&meta.Name, path.Base(f.Module.Mod.Path))
	if strings.Contains(f.Module.Mod.Path, ".") {
		setIf(&meta.Homepage, "https://"+f.Module.Mod.Path)
	}
	return nil
}

type pyprojectManifest struct {
	Project struct {
		Name         string   `toml:"name"`
		Version      string   `toml:"version"`
		Description  string   `toml:"description"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name         string         `toml:"name"`
			Version      string         `toml:"version"`
			Description  string         `toml:"description"`
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func parsePyproject(data []byte, meta *ProjectMetadata) error {
	var p pyprojectManifest
	if err := toml.Unmarshal(data, &p); err != nil {
		return errors.Errorf("parsing pyproject.toml: %w", err)
	}
	setIf(&meta.Name, p.Tool.Poetry.Name)
	setIf(&meta.Version, p.Tool.Poetry.Version)
	setIf(&meta.Description, p.Tool.Poetry.Description)
	setIf(&meta.Name, p.Project.Name)
	setIf(&meta.Version, p.Project.Version)
	setIf(&meta.Description, p.Project.Description)
	return nil
}

// ⚖️ detectLicense maps license text to a short name
func detectLicense(content string) string {
	content = strings.ToLower(content)
	switch {
	case strings.Contains(content, "mit license"):
		return "MIT"
	case strings.Contains(content, "apache license"):
		return "Apache 2.0"
	case strings.Contains(content, "gnu general public license"):
		return "GPL"
	case strings.Contains(content, "bsd license"):
		return "BSD"
	case strings.Contains(content, "mozilla public license"):
		return "MPL"
	default:
		return "Custom"
	}
}

var requirementSplit = regexp.MustCompile(`==|>=|<=`)

func parseRequirements(data []byte) []string {
	var deps []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		deps = append(deps, requirementSplit.Split(line, 2)[0])
	}
	return deps
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// 📦 readDependencies collects runtime and dev dependencies per package manager
func readDependencies(root string, meta *ProjectMetadata) error {
	var errs []error

	if data, err := os.ReadFile(filepath.Join(root, "package.json")); err == nil {
		if gjson.ValidBytes(data) {
			doc := gjson.ParseBytes(data)
			meta.Dependencies["npm"] = objectKeys(doc.Get("dependencies"))
			meta.DevDependencies["npm"] = objectKeys(doc.Get("devDependencies"))
		} else {
			errs = append(errs, errors.New("invalid package.json"))
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "requirements.txt")); err == nil {
		meta.Dependencies["pip"] = parseRequirements(data)
	}

	if data, err := os.ReadFile(filepath.Join(root, "Cargo.toml")); err == nil {
		var c cargoManifest
		if err := toml.Unmarshal(data, &c); err != nil {
			errs = append(errs, errors.Errorf("parsing Cargo.toml: %w", err))
		} else {
			meta.Dependencies["cargo"] = sortedKeys(c.Dependencies)
			if len(c.DevDependencies) > 0 {
				meta.DevDependencies["cargo"] = sortedKeys(c.DevDependencies)
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "go.mod")); err == nil {
		f, err := modfile.ParseLax("go.mod", data, nil)
		if err != nil {
			errs = append(errs, errors.Errorf("parsing go.mod: %w", err))
		} else {
			var direct []string
			for _, r := range f.Require {
				if !r.Indirect {
					direct = append(direct, r.Mod.Path)
				}
			}
			meta.Dependencies["go"] = direct
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func objectKeys(r gjson.Result) []string {
	keys := []string{}
	r.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}
