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

// Package render turns generated HTML documents into PDFs with headless Chrome.
package render

import (
	"context"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultTimeout bounds a single render
const DefaultTimeout = 30 * time.Second

// A4 in inches
const (
	a4Width  = 8.27
	a4Height = 11.69
	margin   = 0.5
)

// PDFRenderer turns an HTML document into PDF bytes
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// 🖨️ Chrome renders through a locally launched headless browser
type Chrome struct {
	Bin         string // empty lets rod find or download a browser
	DebuggerURL string // connect to a running browser instead of launching one
	Timeout     time.Duration

	launch launchFunc
}

// launchFunc starts a browser that lives no longer than ctx and returns its control url
type launchFunc func(ctx context.Context, bin string) (string, func(), error)

// NewChrome returns a renderer with the default timeout
func NewChrome() *Chrome {
	return &Chrome{Timeout: DefaultTimeout}
}

func launchChrome(ctx context.Context, bin string) (string, func(), error) {
	l := launcher.New().
		Context(ctx).
		Headless(true).
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-dev-shm-usage")
	if bin != "" {
		l = l.Bin(bin)
	}
	url, err := l.Launch()
	if err != nil {
		l.Kill()
		return "", nil, err
	}
	return url, l.Cleanup, nil
}

func (c *Chrome) connect(ctx context.Context) (*rod.Browser, func(), error) {
	controlURL := c.DebuggerURL
	cleanup := func() {}

	if controlURL == "" {
		launch := c.launch
		if launch == nil {
			launch = launchChrome
		}
		url, stop, err := launch(ctx, c.Bin)
		if err != nil {
			return nil, nil, errors.Errorf("launching chrome: %w", err)
		}
		controlURL = url
		cleanup = stop
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		cleanup()
		return nil, nil, errors.Errorf("connecting to chrome: %w", err)
	}

	return browser, func() {
		_ = browser.Close()
		cleanup()
	}, nil
}

// RenderPDF loads html into a blank page and prints it as A4 with backgrounds
func (c *Chrome) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browser, done, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, errors.Errorf("opening page: %w", err)
	}

	if err := page.SetDocumentContent(html); err != nil {
		return nil, errors.Errorf("loading document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, errors.Errorf("waiting for document: %w", err)
	}

	w, h, m := a4Width, a4Height, margin
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      &w,
		PaperHeight:     &h,
		MarginTop:       &m,
		MarginBottom:    &m,
		MarginLeft:      &m,
		MarginRight:     &m,
	})
	if err != nil {
		return nil, errors.Errorf("printing pdf: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, errors.Errorf("reading pdf: %w", err)
	}

	logger.Debug().Int("bytes", len(data)).Msg("rendered pdf")
	return data, nil
}
