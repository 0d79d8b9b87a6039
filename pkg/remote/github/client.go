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

package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/time/rate"

	"github.com/walteh/reporeadme/pkg/remote"
)

const (
	perPage = 100

	// readme lookups are one request per repository, keep them well under the api limit
	readmeRate  = rate.Limit(10)
	readmeBurst = 5
)

// GitHubClient defines the interface for GitHub API operations we need
type GitHubClient interface {
	GetUser(ctx context.Context, user string) (*github.User, *github.Response, error)
	ListByAuthenticatedUser(ctx context.Context, opts *github.RepositoryListByAuthenticatedUserOptions) ([]*github.Repository, *github.Response, error)
	ListByUser(ctx context.Context, user string, opts *github.RepositoryListByUserOptions) ([]*github.Repository, *github.Response, error)
	ListOrganizations(ctx context.Context, user string, opts *github.ListOptions) ([]*github.Organization, *github.Response, error)
	ListByOrg(ctx context.Context, org string, opts *github.RepositoryListByOrgOptions) ([]*github.Repository, *github.Response, error)
	GetReadme(ctx context.Context, owner, repo string) (*github.RepositoryContent, *github.Response, error)
	RateLimits(ctx context.Context) (*github.RateLimits, *github.Response, error)
}

// Provider implements the remote.Provider interface for GitHub
type Provider struct {
	client        GitHubClient
	authenticated bool
	username      string
	limiter       *rate.Limiter
}

func init() {
	remote.RegisterProvider("github", func(creds remote.Credentials) (remote.Provider, error) {
		return NewProvider(creds), nil
	})
}

// NewProvider creates a new GitHub provider
func NewProvider(creds remote.Credentials) *Provider {
	client := github.NewClient(nil)
	if creds.Token != "" {
		client = client.WithAuthToken(creds.Token)
	}
	return NewProviderWithClient(&githubClientWrapper{client: client}, creds)
}

// NewProviderWithClient creates a provider on top of an existing client
func NewProviderWithClient(client GitHubClient, creds remote.Credentials) *Provider {
	return &Provider{
		client:        client,
		authenticated: creds.Token != "",
		username:      creds.Username,
		limiter:       rate.NewLimiter(readmeRate, readmeBurst),
	}
}

// githubClientWrapper wraps the GitHub client to implement our interface
type githubClientWrapper struct {
	client *github.Client
}

func (w *githubClientWrapper) GetUser(ctx context.Context, user string) (*github.User, *github.Response, error) {
	return w.client.Users.Get(ctx, user)
}

func (w *githubClientWrapper) ListByAuthenticatedUser(ctx context.Context, opts *github.RepositoryListByAuthenticatedUserOptions) ([]*github.Repository, *github.Response, error) {
	return w.client.Repositories.ListByAuthenticatedUser(ctx, opts)
}

func (w *githubClientWrapper) ListByUser(ctx context.Context, user string, opts *github.RepositoryListByUserOptions) ([]*github.Repository, *github.Response, error) {
	return w.client.Repositories.ListByUser(ctx, user, opts)
}

func (w *githubClientWrapper) ListOrganizations(ctx context.Context, user string, opts *github.ListOptions) ([]*github.Organization, *github.Response, error) {
	return w.client.Organizations.List(ctx, user, opts)
}

func (w *githubClientWrapper) ListByOrg(ctx context.Context, org string, opts *github.RepositoryListByOrgOptions) ([]*github.Repository, *github.Response, error) {
	return w.client.Repositories.ListByOrg(ctx, org, opts)
}

func (w *githubClientWrapper) GetReadme(ctx context.Context, owner, repo string) (*github.RepositoryContent, *github.Response, error) {
	return w.client.Repositories.GetReadme(ctx, owner, repo, nil)
}

func (w *githubClientWrapper) RateLimits(ctx context.Context) (*github.RateLimits, *github.Response, error) {
	return w.client.RateLimit.Get(ctx)
}

// Name returns the name of the provider
func (p *Provider) Name() string {
	return "github"
}

func nextPage(resp *github.Response) int {
	if resp == nil {
		return 0
	}
	return resp.NextPage
}

type collector struct {
	p        *Provider
	max      int
	repos    []remote.RepositoryInfo
	progress remote.ProgressFunc
}

func (c *collector) full() bool {
	return c.max > 0 && len(c.repos) >= c.max
}

func (c *collector) add(ctx context.Context, r *github.Repository, label string) {
	info := convert(r, c.p.hasReadme(ctx, r))
	c.repos = append(c.repos, info)
	if c.progress != nil {
		c.progress(fmt.Sprintf("%s: Found %s", label, info.FullName))
	}
}

// ListRepositories returns the user's repositories, followed by the repositories of
// their organizations when the provider is authenticated
func (p *Provider) ListRepositories(ctx context.Context, opts remote.ListOptions, progress remote.ProgressFunc) ([]remote.RepositoryInfo, error) {
	logger := zerolog.Ctx(ctx)

	if !p.authenticated && p.username == "" {
		return nil, errors.Errorf("listing github repositories: %w", remote.ErrNoCredentials)
	}

	c := &collector{p: p, max: opts.MaxRepos, progress: progress}

	logger.Info().Str("user", p.username).Bool("authenticated", p.authenticated).Msg("discovering github repositories")

	if err := p.listUserRepos(ctx, c); err != nil {
		return nil, err
	}

	if p.authenticated && !c.full() {
		if err := p.listOrgRepos(ctx, c); err != nil {
			// org listing needs extra scopes, what we already have is still useful
			logger.Warn().Err(err).Msg("listing organization repositories")
		}
	}

	logger.Info().Int("count", len(c.repos)).Msg("github discovery complete")
	return c.repos, nil
}

func (p *Provider) listUserRepos(ctx context.Context, c *collector) error {
	page := 1
	for page != 0 && !c.full() {
		var (
			repos []*github.Repository
			resp  *github.Response
			err   error
		)
		if p.authenticated {
			repos, resp, err = p.client.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
				ListOptions: github.ListOptions{Page: page, PerPage: perPage},
			})
		} else {
			repos, resp, err = p.client.ListByUser(ctx, p.username, &github.RepositoryListByUserOptions{
				ListOptions: github.ListOptions{Page: page, PerPage: perPage},
			})
		}
		if err != nil {
			if ctx.Err() != nil {
				return errors.Errorf("context error: %w", ctx.Err())
			}
			if resp != nil && resp.StatusCode == http.StatusForbidden {
				return errors.Errorf("rate limit exceeded listing github repositories: %w", err)
			}
			return errors.Errorf("listing github repositories: %w", err)
		}

		for _, r := range repos {
			if c.full() {
				break
			}
			c.add(ctx, r, "GitHub")
		}
		page = nextPage(resp)
	}
	return nil
}

func (p *Provider) listOrgRepos(ctx context.Context, c *collector) error {
	orgs, _, err := p.client.ListOrganizations(ctx, "", &github.ListOptions{PerPage: perPage})
	if err != nil {
		return errors.Errorf("listing organizations: %w", err)
	}

	for _, org := range orgs {
		page := 1
		for page != 0 && !c.full() {
			repos, resp, err := p.client.ListByOrg(ctx, org.GetLogin(), &github.RepositoryListByOrgOptions{
				ListOptions: github.ListOptions{Page: page, PerPage: perPage},
			})
			if err != nil {
				return errors.Errorf("listing repositories for org %s: %w", org.GetLogin(), err)
			}
			for _, r := range repos {
				if c.full() {
					break
				}
				c.add(ctx, r, "GitHub Org")
			}
			page = nextPage(resp)
		}
		if c.full() {
			break
		}
	}
	return nil
}

func (p *Provider) hasReadme(ctx context.Context, r *github.Repository) bool {
	if err := p.limiter.Wait(ctx); err != nil {
		return false
	}
	_, _, err := p.client.GetReadme(ctx, r.GetOwner().GetLogin(), r.GetName())
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("repo", r.GetFullName()).Msg("no readme")
		return false
	}
	return true
}

// Account fetches the public profile of username, or of the authenticated user when empty
func (p *Provider) Account(ctx context.Context, username string) (remote.Account, error) {
	u, _, err := p.client.GetUser(ctx, username)
	if err != nil {
		return remote.Account{}, errors.Errorf("getting github user %q: %w", username, err)
	}
	return remote.Account{
		Login:      u.GetLogin(),
		Name:       u.GetName(),
		Bio:        u.GetBio(),
		Location:   u.GetLocation(),
		Company:    u.GetCompany(),
		Website:    u.GetBlog(),
		Email:      u.GetEmail(),
		AvatarURL:  u.GetAvatarURL(),
		ProfileURL: u.GetHTMLURL(),
		CreatedAt:  isoTime(u.GetCreatedAt()),
		UpdatedAt:  isoTime(u.GetUpdatedAt()),
	}, nil
}

func isoTime(ts github.Timestamp) string {
	if ts.Time.IsZero() {
		return ""
	}
	return ts.Time.UTC().Format(time.RFC3339)
}

func convert(r *github.Repository, hasReadme bool) remote.RepositoryInfo {
	language := r.GetLanguage()
	if language == "" {
		language = remote.UnknownLanguage
	}
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	return remote.RepositoryInfo{
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		URL:           r.GetHTMLURL(),
		CloneURL:      r.GetCloneURL(),
		SSHURL:        r.GetSSHURL(),
		Description:   r.GetDescription(),
		Language:      language,
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		IsPrivate:     r.GetPrivate(),
		IsFork:        r.GetFork(),
		IsArchived:    r.GetArchived(),
		Provider:      "github",
		Owner:         r.GetOwner().GetLogin(),
		CreatedAt:     isoTime(r.GetCreatedAt()),
		UpdatedAt:     isoTime(r.GetUpdatedAt()),
		SizeKB:        r.GetSize(),
		DefaultBranch: r.GetDefaultBranch(),
		HasReadme:     hasReadme,
		Topics:        topics,
		License:       r.GetLicense().GetName(),
	}
}

// ⏱️ RateInfo is one api rate limit bucket
type RateInfo struct {
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Reset     string `json:"reset,omitempty"`
}

// 🔑 AuthStatus reports who the credentials belong to and how much api budget is left
type AuthStatus struct {
	Authenticated bool     `json:"authenticated"`
	PublicAccess  bool     `json:"public_access"`
	Username      string   `json:"username,omitempty"`
	Core          RateInfo `json:"core"`
	Search        RateInfo `json:"search"`
	Error         string   `json:"error,omitempty"`
}

func rateInfo(r *github.Rate) RateInfo {
	if r == nil {
		return RateInfo{}
	}
	return RateInfo{Limit: r.Limit, Remaining: r.Remaining, Reset: isoTime(r.Reset)}
}

// 🔑 CheckAuth verifies the token against the authenticated user endpoint and reads the rate limits.
// Without a token it only checks that the public api answers.
func (p *Provider) CheckAuth(ctx context.Context) (AuthStatus, error) {
	logger := zerolog.Ctx(ctx)
	var st AuthStatus

	if p.authenticated {
		u, _, err := p.client.GetUser(ctx, "")
		if err != nil {
			st.Error = fmt.Sprintf("invalid token: %v", err)
			return st, errors.Errorf("checking github token: %w", err)
		}
		st.Authenticated = true
		st.Username = u.GetLogin()
	} else {
		st.PublicAccess = true
	}

	limits, _, err := p.client.RateLimits(ctx)
	if err != nil {
		st.PublicAccess = false
		st.Error = fmt.Sprintf("github api error: %v", err)
		return st, errors.Errorf("reading github rate limits: %w", err)
	}
	st.Core = rateInfo(limits.Core)
	st.Search = rateInfo(limits.Search)

	logger.Debug().
		Bool("authenticated", st.Authenticated).
		Str("user", st.Username).
		Int("core_remaining", st.Core.Remaining).
		Msg("checked github credentials")
	return st, nil
}
