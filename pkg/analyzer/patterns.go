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

import "regexp"

type techPattern struct {
	name     string
	patterns []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// 🔎 techPatterns are matched against lowercase file content and lowercase file names
var techPatterns = []techPattern{
	// frontend
	{"react", compileAll(`react`, `@types/react`, `create-react-app`)},
	{"vue", compileAll(`vue`, `@vue/`, `vue-cli`)},
	{"angular", compileAll(`@angular/`, `angular-cli`, `ng\s`)},

	// backend
	{"express", compileAll(`express`, `expressjs`)},
	{"fastapi", compileAll(`fastapi`, `uvicorn`)},
	{"django", compileAll(`django`, `Django`)},
	{"flask", compileAll(`flask`, `Flask`)},
	{"spring", compileAll(`spring-boot`, `@SpringBootApplication`)},
	{"rails", compileAll(`rails`, `Ruby on Rails`)},

	// databases
	{"mongodb", compileAll(`mongodb`, `mongoose`, `pymongo`)},
	{"postgresql", compileAll(`postgresql`, `psycopg2`, `pg`)},
	{"mysql", compileAll(`mysql`, `pymysql`, `mysql2`)},
	{"sqlite", compileAll(`sqlite`, `sqlite3`)},
	{"redis", compileAll(`redis`, `ioredis`)},

	// devops
	{"docker", compileAll(`dockerfile`, `docker-compose`, `\.dockerignore`)},
	{"kubernetes", compileAll(`kubernetes`, `kubectl`, `k8s`)},
	{"aws", compileAll(`aws-sdk`, `boto3`, `@aws-sdk`)},
	{"terraform", compileAll(`terraform`, `\.tf$`)},

	// testing
	{"jest", compileAll(`jest`, `@jest/`)},
	{"pytest", compileAll(`pytest`, `test_.*\.py`)},
	{"mocha", compileAll(`mocha`, `chai`)},
	{"junit", compileAll(`junit`, `@Test`)},

	// build tools
	{"webpack", compileAll(`webpack`, `webpack\.config`)},
	{"vite", compileAll(`vite`, `vite\.config`)},
	{"gradle", compileAll(`gradle`, `build\.gradle`)},
	{"maven", compileAll(`maven`, `pom\.xml`)},
}

var (
	webFrameworks = setOf("react", "vue", "angular", "express", "fastapi", "django", "flask", "spring", "rails")
	databaseTech  = setOf("mongodb", "postgresql", "mysql", "sqlite", "redis")
	devopsTools   = setOf("docker", "kubernetes", "aws", "terraform")
)

func setOf(items ...string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		out[it] = true
	}
	return out
}

type languageExt struct {
	language   string
	extensions []string
}

// 🗣️ languageExtensions maps extensions to languages; the first match wins
var languageExtensions = []languageExt{
	{"python", []string{".py", ".pyx", ".pyi"}},
	{"javascript", []string{".js", ".jsx", ".mjs"}},
	{"typescript", []string{".ts", ".tsx"}},
	{"java", []string{".java"}},
	{"go", []string{".go"}},
	{"rust", []string{".rs"}},
	{"php", []string{".php"}},
	{"ruby", []string{".rb"}},
	{"c++", []string{".cpp", ".cc", ".cxx", ".hpp", ".h"}},
	{"c", []string{".c", ".h"}},
	{"c#", []string{".cs"}},
	{"kotlin", []string{".kt"}},
	{"swift", []string{".swift"}},
	{"dart", []string{".dart"}},
	{"scala", []string{".scala"}},
	{"r", []string{".r"}},
	{"shell", []string{".sh", ".bash", ".zsh"}},
}

func languageFor(ext string) string {
	for _, l := range languageExtensions {
		for _, e := range l.extensions {
			if e == ext {
				return l.language
			}
		}
	}
	return ""
}

type projectTypePattern struct {
	projectType string
	indicators  []string
}

// 🧭 projectTypePatterns are scored in order; ties go to the earlier entry
var projectTypePatterns = []projectTypePattern{
	{"web-app", []string{"package.json", "requirements.txt", "index.html", "app.py", "server.js"}},
	{"mobile-app", []string{"android/", "ios/", "pubspec.yaml", "Package.swift"}},
	{"library", []string{"setup.py", "__init__.py", "lib/", "src/", "package.json"}},
	{"cli-tool", []string{"bin/", "cli.py", "main.go", "cmd/"}},
	{"data-science", []string{"jupyter/", "*.ipynb", "data/", "notebooks/"}},
	{"game", []string{"unity/", "unreal/", "godot/", "assets/"}},
	{"api", []string{"api/", "routes/", "controllers/", "endpoints/"}},
	{"desktop-app", []string{"electron/", "tauri/", "gui.py", "main.cpp"}},
}

// 📁 importantDirs are the top-level directories recorded in Structure
var importantDirs = setOf(
	"src", "lib", "app", "components", "pages", "views", "models",
	"controllers", "routes", "api", "services", "utils", "helpers",
	"tests", "test", "spec", "__tests__", "docs", "documentation",
	"examples", "demo", "scripts", "bin", "config", "assets",
	"static", "public", "resources", "data",
)

var (
	testDirs = []string{"tests", "test", "spec", "__tests__"}
	docDirs  = []string{"docs", "documentation"}

	ciIndicators     = []string{".github/workflows", ".gitlab-ci.yml", ".travis.yml", "Jenkinsfile", ".circleci"}
	dockerIndicators = []string{"Dockerfile", "docker-compose.yml"}
	licenseFiles     = []string{"LICENSE", "LICENSE.txt", "LICENSE.md", "COPYING"}
	readmeFiles      = []string{"README.md", "README.txt", "README.rst", "readme.md"}
)

// 🚫 ignoreSubstrings skip any path containing them
var ignoreSubstrings = []string{
	".git", "__pycache__", "node_modules", ".env", "venv",
	"build", "dist", ".cache", "coverage", ".nyc_output",
	".pytest_cache", ".mypy_cache", ".tox",
}

type setupCommands struct {
	manifest string
	commands []string
}

// 🛠️ setupByManifest lists install and run commands per manifest
var setupByManifest = []setupCommands{
	{"package.json", []string{"npm install", "npm start"}},
	{"requirements.txt", []string{"pip install -r requirements.txt", "python main.py"}},
	{"Cargo.toml", []string{"cargo build", "cargo run"}},
	{"pom.xml", []string{"mvn install", "mvn spring-boot:run"}},
	{"build.gradle", []string{"./gradlew build", "./gradlew run"}},
	{"go.mod", []string{"go mod download", "go run ."}},
}

var (
	codeBlockPattern = regexp.MustCompile("(?s)```.*?\n(.*?)```")

	endpointPatterns = []*regexp.Regexp{
		// express / koa style: app.get('/users', ...)
		regexp.MustCompile(`(?:app|router)\.(get|post|put|patch|delete)\(\s*['"]([^'"]+)['"]`),
		// fastapi style: @app.get("/users")
		regexp.MustCompile(`@(?:app|router)\.(get|post|put|patch|delete)\(\s*['"]([^'"]+)['"]`),
		// flask style: @app.route("/users")
		regexp.MustCompile(`@(?:app|bp|blueprint)\.(route)\(\s*['"]([^'"]+)['"]`),
	}
)
