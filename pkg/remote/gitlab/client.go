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

package gitlab

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/remote"
)

// DefaultBaseURL is the public GitLab instance
const DefaultBaseURL = "https://gitlab.com"

const perPage = 100

// Provider implements the remote.Provider interface for GitLab
type Provider struct {
	client *resty.Client
}

func init() {
	remote.RegisterProvider("gitlab", func(creds remote.Credentials) (remote.Provider, error) {
		if creds.Token == "" {
			return nil, errors.Errorf("gitlab: %w", remote.ErrNoCredentials)
		}
		return NewProvider(creds), nil
	})
}

// NewProvider creates a new GitLab provider
func NewProvider(creds remote.Credentials) *Provider {
	base := creds.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(base, "/")).
		SetHeader("PRIVATE-TOKEN", creds.Token).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second)
	return &Provider{client: client}
}

// Name returns the name of the provider
func (p *Provider) Name() string {
	return "gitlab"
}

// ListRepositories returns the projects owned by the token's user
func (p *Provider) ListRepositories(ctx context.Context, opts remote.ListOptions, progress remote.ProgressFunc) ([]remote.RepositoryInfo, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Msg("discovering gitlab repositories")

	var repos []remote.RepositoryInfo
	page := 1
	for page > 0 {
		resp, err := p.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"owned":    "true",
				"per_page": strconv.Itoa(perPage),
				"page":     strconv.Itoa(page),
			}).
			Get("/api/v4/projects")
		if err != nil {
			return nil, errors.Errorf("listing gitlab projects: %w", err)
		}
		if resp.IsError() {
			return nil, errors.Errorf("listing gitlab projects: unexpected status %d", resp.StatusCode())
		}

		body := gjson.ParseBytes(resp.Body())
		if !body.IsArray() {
			return nil, errors.Errorf("listing gitlab projects: response is not a list")
		}

		for _, project := range body.Array() {
			if opts.MaxRepos > 0 && len(repos) >= opts.MaxRepos {
				logger.Info().Int("count", len(repos)).Msg("gitlab discovery capped")
				return repos, nil
			}
			info := convert(project)
			repos = append(repos, info)
			if progress != nil {
				progress(fmt.Sprintf("GitLab: Found %s", info.FullName))
			}
		}

		page, _ = strconv.Atoi(resp.Header().Get("X-Next-Page"))
	}

	logger.Info().Int("count", len(repos)).Msg("gitlab discovery complete")
	return repos, nil
}

func convert(p gjson.Result) remote.RepositoryInfo {
	topics := []string{}
	list := p.Get("topics")
	if !list.Exists() || len(list.Array()) == 0 {
		list = p.Get("tag_list")
	}
	for _, t := range list.Array() {
		topics = append(topics, t.String())
	}

	return remote.RepositoryInfo{
		Name:          p.Get("name").String(),
		FullName:      p.Get("path_with_namespace").String(),
		URL:           p.Get("web_url").String(),
		CloneURL:      p.Get("http_url_to_repo").String(),
		SSHURL:        p.Get("ssh_url_to_repo").String(),
		Description:   p.Get("description").String(),
		Language:      remote.UnknownLanguage,
		Stars:         int(p.Get("star_count").Int()),
		Forks:         int(p.Get("forks_count").Int()),
		IsPrivate:     p.Get("visibility").String() == "private",
		IsFork:        p.Get("forked_from_project").IsObject(),
		IsArchived:    p.Get("archived").Bool(),
		Provider:      "gitlab",
		Owner:         p.Get("namespace.path").String(),
		CreatedAt:     p.Get("created_at").String(),
		UpdatedAt:     p.Get("last_activity_at").String(),
		DefaultBranch: p.Get("default_branch").String(),
		HasReadme:     p.Get("readme_url").String() != "",
		Topics:        topics,
	}
}
