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
	"slices"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// ErrNoCredentials is returned when a provider cannot be queried without a token
var ErrNoCredentials = errors.New("no credentials configured")

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Factory builds a provider from credentials
type Factory func(creds Credentials) (Provider, error)

// RegisterProvider makes a provider available under name
func RegisterProvider(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Providers returns the registered provider names in sorted order
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// NewProvider builds the provider registered under name
func NewProvider(name string, creds Credentials) (Provider, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("provider %s not found, options: %s", name, strings.Join(Providers(), ", "))
	}
	return factory(creds)
}

// Credentials carries what a provider needs to authenticate
type Credentials struct {
	Token    string
	Username string // used for anonymous listing when no token is set
	BaseURL  string // empty means the public service
}

// ProgressFunc receives human readable progress messages
type ProgressFunc func(message string)

// ListOptions bounds a repository listing
type ListOptions struct {
	MaxRepos int
}

// Provider is the primary interface for listing repositories on a hosting service (e.g. GitHub)
type Provider interface {
	// Name returns the name of the provider (e.g. "github")
	Name() string
	// ListRepositories returns the repositories visible to the configured account
	ListRepositories(ctx context.Context, opts ListOptions, progress ProgressFunc) ([]RepositoryInfo, error)
}

// AccountProvider is implemented by providers that can describe a user account
type AccountProvider interface {
	Account(ctx context.Context, username string) (Account, error)
}

// RepositoryInfo describes a remote repository
type RepositoryInfo struct {
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	URL           string   `json:"url"`
	CloneURL      string   `json:"clone_url"`
	SSHURL        string   `json:"ssh_url"`
	Description   string   `json:"description"`
	Language      string   `json:"language"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	IsPrivate     bool     `json:"is_private"`
	IsFork        bool     `json:"is_fork"`
	IsArchived    bool     `json:"is_archived"`
	Provider      string   `json:"provider"`
	Owner         string   `json:"owner"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	SizeKB        int      `json:"size_kb"`
	DefaultBranch string   `json:"default_branch"`
	HasReadme     bool     `json:"has_readme"`
	Topics        []string `json:"topics"`
	License       string   `json:"license,omitempty"`
}

// UnknownLanguage is reported when a provider does not know the language
const UnknownLanguage = "Unknown"

// Account is the public profile of a user
type Account struct {
	Login      string `json:"login"`
	Name       string `json:"name"`
	Bio        string `json:"bio"`
	Location   string `json:"location"`
	Company    string `json:"company"`
	Website    string `json:"website"`
	Email      string `json:"email"`
	AvatarURL  string `json:"avatar_url"`
	ProfileURL string `json:"profile_url"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}
