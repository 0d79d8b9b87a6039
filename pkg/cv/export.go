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

package cv

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"path/filepath"
	"slices"
	"strings"
	texttemplate "text/template"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/config"
	"github.com/walteh/reporeadme/pkg/render"
	"github.com/walteh/reporeadme/pkg/status"
)

// Export formats
const (
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatPDF      = "pdf"
)

var Formats = []string{FormatHTML, FormatJSON, FormatMarkdown, FormatPDF}

var (
	ErrUnknownFormat = errors.New("unknown cv format")
	ErrNoRenderer    = errors.New("no pdf renderer configured")
)

//go:embed cv.html.tmpl cv.md.tmpl styles/*.css
var assets embed.FS

var (
	htmlTemplate = template.Must(template.ParseFS(assets, "cv.html.tmpl"))

	markdownTemplate = texttemplate.Must(texttemplate.New("cv.md.tmpl").Funcs(texttemplate.FuncMap{
		"join":    strings.Join,
		"contact": contactLine,
	}).ParseFS(assets, "cv.md.tmpl"))
)

var contactFields = []string{"email", "phone", "location", "website", "linkedin", "github"}

func contactLine(info map[string]string) string {
	parts := []string{}
	for _, k := range contactFields {
		if v := info[k]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " | ")
}

// Stylesheet returns the CSS for a style, falling back to modern
func Stylesheet(style string) (string, error) {
	if !slices.Contains(config.CVStyles, style) {
		style = "modern"
	}
	data, err := assets.ReadFile("styles/" + style + ".css")
	if err != nil {
		return "", errors.Errorf("reading %s stylesheet: %w", style, err)
	}
	return string(data), nil
}

// 📤 Exporter renders CV data in the supported formats
type Exporter struct {
	data     *Data
	renderer render.PDFRenderer
}

func NewExporter(data *Data, renderer render.PDFRenderer) *Exporter {
	return &Exporter{data: data, renderer: renderer}
}

func (e *Exporter) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(e.data, "", "  ")
	if err != nil {
		return nil, errors.Errorf("marshalling cv: %w", err)
	}
	return out, nil
}

// HTML renders the standalone page using the stylesheet of the CV's style
func (e *Exporter) HTML() (string, error) {
	css, err := Stylesheet(e.data.Style)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = htmlTemplate.Execute(&buf, struct {
		Data       *Data
		Stylesheet template.CSS
	}{e.data, template.CSS(css)})
	if err != nil {
		return "", errors.Errorf("rendering cv html: %w", err)
	}
	return buf.String(), nil
}

func (e *Exporter) Markdown() (string, error) {
	var buf bytes.Buffer
	if err := markdownTemplate.Execute(&buf, e.data); err != nil {
		return "", errors.Errorf("rendering cv markdown: %w", err)
	}
	return buf.String(), nil
}

func (e *Exporter) PDF(ctx context.Context) ([]byte, error) {
	if e.renderer == nil {
		return nil, ErrNoRenderer
	}
	html, err := e.HTML()
	if err != nil {
		return nil, err
	}
	out, err := e.renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, errors.Errorf("rendering cv pdf: %w", err)
	}
	return out, nil
}

// NormalizeFormat accepts "md" for markdown and is case-insensitive
func NormalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "md" {
		return FormatMarkdown
	}
	return format
}

func (e *Exporter) Render(ctx context.Context, format string) ([]byte, error) {
	switch NormalizeFormat(format) {
	case FormatHTML:
		html, err := e.HTML()
		return []byte(html), err
	case FormatJSON:
		return e.JSON()
	case FormatMarkdown:
		md, err := e.Markdown()
		return []byte(md), err
	case FormatPDF:
		return e.PDF(ctx)
	default:
		return nil, errors.Errorf("%w: %s, options: %s", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

var extensions = map[string]string{
	FormatHTML:     ".html",
	FormatJSON:     ".json",
	FormatMarkdown: ".md",
	FormatPDF:      ".pdf",
}

// FileName is <username>_cv_<style><ext>
func (e *Exporter) FileName(format string) string {
	user := e.data.PersonalInfo["username"]
	if user == "" {
		user = "developer"
	}
	return user + "_cv_" + e.data.Style + extensions[NormalizeFormat(format)]
}

// 💾 Export renders format and writes it into dir through the artifact manager
func (e *Exporter) Export(ctx context.Context, mgr *status.Manager, dir, format string, opts status.WriteOptions) (status.Artifact, error) {
	out, err := e.Render(ctx, format)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("format", format).Msg("cv export failed")
		return status.Artifact{}, err
	}
	opts.Kind = "cv"
	return mgr.Write(ctx, filepath.Join(dir, e.FileName(format)), out, opts)
}
