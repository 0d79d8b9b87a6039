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

package discovery

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/remote"
	"github.com/walteh/reporeadme/pkg/status"
)

// 💾 Document is the on-disk form of a discovery run
type Document struct {
	DiscoveryDate string                  `json:"discovery_date"`
	Config        Config                  `json:"config"`
	Statistics    Stats                   `json:"statistics"`
	Repositories  []remote.RepositoryInfo `json:"repositories"`
}

// 💾 Save writes the last discovery result to path. Tokens are never written.
func (d *Discovery) Save(ctx context.Context, path string) error {
	doc := Document{
		DiscoveryDate: time.Now().Format(time.RFC3339),
		Config:        d.cfg,
		Statistics:    d.Stats(),
		Repositories:  d.Repositories(),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Errorf("marshalling discovery: %w", err)
	}

	if err := status.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return errors.Errorf("saving discovery: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("path", path).Int("repositories", len(doc.Repositories)).Msg("saved discovered repositories")
	return nil
}

// 📂 Load reads a document written by Save
func Load(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading discovery file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Errorf("parsing discovery file: %w", err)
	}
	if doc.Statistics.Languages == nil {
		doc.Statistics = ComputeStats(doc.Repositories)
	}

	zerolog.Ctx(ctx).Info().Str("path", path).Int("repositories", len(doc.Repositories)).Msg("loaded discovered repositories")
	return &doc, nil
}
