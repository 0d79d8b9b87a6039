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

package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider struct {
	name  string
	token string
}

func (s *staticProvider) Name() string { return s.name }

func (s *staticProvider) ListRepositories(ctx context.Context, opts ListOptions, progress ProgressFunc) ([]RepositoryInfo, error) {
	return []RepositoryInfo{{Name: "one", Provider: s.name}}, nil
}

func TestRegistry(t *testing.T) {
	RegisterProvider("static", func(creds Credentials) (Provider, error) {
		if creds.Token == "" {
			return nil, ErrNoCredentials
		}
		return &staticProvider{name: "static", token: creds.Token}, nil
	})

	t.Run("known_provider", func(t *testing.T) {
		p, err := NewProvider("static", Credentials{Token: "abc"})
		require.NoError(t, err, "building a registered provider should not error")
		assert.Equal(t, "static", p.Name(), "provider name should match")

		repos, err := p.ListRepositories(context.Background(), ListOptions{}, nil)
		require.NoError(t, err, "listing should not error")
		assert.Len(t, repos, 1, "static provider returns one repository")
	})

	t.Run("factory_error", func(t *testing.T) {
		_, err := NewProvider("static", Credentials{})
		require.ErrorIs(t, err, ErrNoCredentials, "factory error should be returned")
	})

	t.Run("unknown_provider", func(t *testing.T) {
		_, err := NewProvider("bitbucket", Credentials{})
		require.Error(t, err, "unknown provider should error")
		assert.Contains(t, err.Error(), "static", "error should list the options")
	})

	assert.Contains(t, Providers(), "static", "registered providers should be listed")
}
