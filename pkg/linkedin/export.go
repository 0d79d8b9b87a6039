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

package linkedin

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/status"
	"github.com/walteh/reporeadme/pkg/text"
)

// Export formats
const (
	FormatJSON = "json"
	FormatText = "text"
)

var Formats = []string{FormatJSON, FormatText}

var ErrUnknownFormat = errors.New("unknown linkedin format")

//go:embed guide.txt.tmpl
var guideSource string

var guideTemplate = template.Must(template.New("guide").Funcs(template.FuncMap{
	"head": headAny,
	"inc":  func(i int) int { return i + 1 },
	"num":  func(i int) string { return fmt.Sprintf("%2d", i+1) },
}).Parse(guideSource))

// headAny lets the guide template cap any list it ranges over
func headAny(list any, n int) any {
	switch l := list.(type) {
	case []string:
		return text.Head(l, n)
	case []Project:
		return text.Head(l, n)
	case []Experience:
		return text.Head(l, n)
	default:
		return list
	}
}

// 📤 Exporter renders LinkedIn content as JSON or a plain-text guide
type Exporter struct {
	profile *Profile
}

func NewExporter(p *Profile) *Exporter {
	return &Exporter{profile: p}
}

func (e *Exporter) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(e.profile, "", "  ")
	if err != nil {
		return nil, errors.Errorf("marshalling linkedin profile: %w", err)
	}
	return out, nil
}

// Guide renders the human readable optimization guide
func (e *Exporter) Guide() (string, error) {
	var buf bytes.Buffer
	if err := guideTemplate.Execute(&buf, e.profile); err != nil {
		return "", errors.Errorf("rendering linkedin guide: %w", err)
	}
	return buf.String(), nil
}

// NormalizeFormat accepts "txt" for text and is case-insensitive
func NormalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "txt" {
		return FormatText
	}
	return format
}

func (e *Exporter) Render(format string) ([]byte, error) {
	switch NormalizeFormat(format) {
	case FormatJSON:
		return e.JSON()
	case FormatText:
		guide, err := e.Guide()
		return []byte(guide), err
	default:
		return nil, errors.Errorf("%w: %s, options: %s", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

var extensions = map[string]string{
	FormatJSON: ".json",
	FormatText: ".txt",
}

// FileName is <username>_linkedin<ext>
func (e *Exporter) FileName(format string) string {
	user := e.profile.Username
	if user == "" {
		user = "developer"
	}
	return user + "_linkedin" + extensions[NormalizeFormat(format)]
}

// 💾 Export writes each format into dir through the artifact manager
func (e *Exporter) Export(ctx context.Context, mgr *status.Manager, dir string, formats []string, opts status.WriteOptions) ([]status.Artifact, error) {
	logger := zerolog.Ctx(ctx)

	var (
		artifacts []status.Artifact
		errs      []error
	)
	for _, format := range formats {
		data, err := e.Render(format)
		if err != nil {
			logger.Error().Err(err).Str("format", format).Msg("linkedin export failed")
			errs = append(errs, err)
			continue
		}

		o := opts
		o.Kind = "linkedin-" + NormalizeFormat(format)
		art, err := mgr.Write(ctx, filepath.Join(dir, e.FileName(format)), data, o)
		if err != nil {
			errs = append(errs, errors.Errorf("writing %s: %w", format, err))
			continue
		}
		artifacts = append(artifacts, art)
	}

	if len(errs) > 0 {
		return artifacts, errors.Join(errs...)
	}
	return artifacts, nil
}
