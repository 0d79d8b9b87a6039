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
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/walteh/reporeadme/pkg/remote"
)

type MockGitHubClient struct {
	mock.Mock
}

func (m *MockGitHubClient) GetUser(ctx context.Context, user string) (*github.User, *github.Response, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*github.User)
	return u, nil, args.Error(1)
}

func (m *MockGitHubClient) ListByAuthenticatedUser(ctx context.Context, opts *github.RepositoryListByAuthenticatedUserOptions) ([]*github.Repository, *github.Response, error) {
	args := m.Called(ctx, opts.Page)
	repos, _ := args.Get(0).([]*github.Repository)
	resp, _ := args.Get(1).(*github.Response)
	return repos, resp, args.Error(2)
}

func (m *MockGitHubClient) ListByUser(ctx context.Context, user string, opts *github.RepositoryListByUserOptions) ([]*github.Repository, *github.Response, error) {
	args := m.Called(ctx, user, opts.Page)
	repos, _ := args.Get(0).([]*github.Repository)
	resp, _ := args.Get(1).(*github.Response)
	return repos, resp, args.Error(2)
}

func (m *MockGitHubClient) ListOrganizations(ctx context.Context, user string, opts *github.ListOptions) ([]*github.Organization, *github.Response, error) {
	args := m.Called(ctx, user)
	orgs, _ := args.Get(0).([]*github.Organization)
	return orgs, nil, args.Error(1)
}

func (m *MockGitHubClient) ListByOrg(ctx context.Context, org string, opts *github.RepositoryListByOrgOptions) ([]*github.Repository, *github.Response, error) {
	args := m.Called(ctx, org, opts.Page)
	repos, _ := args.Get(0).([]*github.Repository)
	resp, _ := args.Get(1).(*github.Response)
	return repos, resp, args.Error(2)
}

func (m *MockGitHubClient) GetReadme(ctx context.Context, owner, repo string) (*github.RepositoryContent, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	c, _ := args.Get(0).(*github.RepositoryContent)
	return c, nil, args.Error(1)
}

func (m *MockGitHubClient) RateLimits(ctx context.Context) (*github.RateLimits, *github.Response, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).(*github.RateLimits)
	return l, nil, args.Error(1)
}

func repo(owner, name string, stars int) *github.Repository {
	return &github.Repository{
		Name:            github.String(name),
		FullName:        github.String(owner + "/" + name),
		HTMLURL:         github.String("https://github.com/" + owner + "/" + name),
		CloneURL:        github.String("https://github.com/" + owner + "/" + name + ".git"),
		SSHURL:          github.String("git@github.com:" + owner + "/" + name + ".git"),
		StargazersCount: github.Int(stars),
		Owner:           &github.User{Login: github.String(owner)},
	}
}

func TestListRepositories(t *testing.T) {
	ctx := context.Background()

	t.Run("authenticated_with_orgs", func(t *testing.T) {
		client := &MockGitHubClient{}
		client.On("ListByAuthenticatedUser", mock.Anything, 1).Return(
			[]*github.Repository{repo("walteh", "one", 3)},
			&github.Response{NextPage: 2}, nil)
		client.On("ListByAuthenticatedUser", mock.Anything, 2).Return(
			[]*github.Repository{repo("walteh", "two", 1)},
			&github.Response{}, nil)
		client.On("ListOrganizations", mock.Anything, "").Return(
			[]*github.Organization{{Login: github.String("acme")}}, nil)
		client.On("ListByOrg", mock.Anything, "acme", 1).Return(
			[]*github.Repository{repo("acme", "tool", 9)},
			&github.Response{}, nil)
		client.On("GetReadme", mock.Anything, "walteh", "one").Return(&github.RepositoryContent{}, nil)
		client.On("GetReadme", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("404"))

		p := NewProviderWithClient(client, remote.Credentials{Token: "t"})

		var messages []string
		repos, err := p.ListRepositories(ctx, remote.ListOptions{MaxRepos: 10}, func(msg string) {
			messages = append(messages, msg)
		})
		require.NoError(t, err, "listing should not error")
		require.Len(t, repos, 3, "user and org repositories should be returned")

		assert.Equal(t, "walteh/one", repos[0].FullName, "first page comes first")
		assert.True(t, repos[0].HasReadme, "readme found")
		assert.False(t, repos[1].HasReadme, "readme missing")
		assert.Equal(t, remote.UnknownLanguage, repos[0].Language, "missing language defaults to Unknown")
		assert.Equal(t, "github", repos[2].Provider, "provider should be set")
		assert.Equal(t, []string{"GitHub: Found walteh/one", "GitHub: Found walteh/two", "GitHub Org: Found acme/tool"}, messages, "progress messages")
		client.AssertExpectations(t)
	})

	t.Run("cap_stops_listing", func(t *testing.T) {
		client := &MockGitHubClient{}
		client.On("ListByAuthenticatedUser", mock.Anything, 1).Return(
			[]*github.Repository{repo("walteh", "one", 3), repo("walteh", "two", 1)},
			&github.Response{NextPage: 2}, nil)
		client.On("GetReadme", mock.Anything, mock.Anything, mock.Anything).Return(&github.RepositoryContent{}, nil)

		p := NewProviderWithClient(client, remote.Credentials{Token: "t"})
		repos, err := p.ListRepositories(ctx, remote.ListOptions{MaxRepos: 1}, nil)
		require.NoError(t, err, "listing should not error")
		assert.Len(t, repos, 1, "max repos should cap the listing")
		client.AssertNotCalled(t, "ListOrganizations", mock.Anything, mock.Anything)
	})

	t.Run("anonymous_named_user", func(t *testing.T) {
		client := &MockGitHubClient{}
		client.On("ListByUser", mock.Anything, "octocat", 1).Return(
			[]*github.Repository{repo("octocat", "hello", 100)},
			&github.Response{}, nil)
		client.On("GetReadme", mock.Anything, "octocat", "hello").Return(&github.RepositoryContent{}, nil)

		p := NewProviderWithClient(client, remote.Credentials{Username: "octocat"})
		repos, err := p.ListRepositories(ctx, remote.ListOptions{}, nil)
		require.NoError(t, err, "anonymous listing should not error")
		require.Len(t, repos, 1, "one repository")
		assert.Equal(t, 100, repos[0].Stars, "stars should be mapped")
		client.AssertNotCalled(t, "ListOrganizations", mock.Anything, mock.Anything)
	})

	t.Run("no_credentials", func(t *testing.T) {
		p := NewProviderWithClient(&MockGitHubClient{}, remote.Credentials{})
		_, err := p.ListRepositories(ctx, remote.ListOptions{}, nil)
		require.ErrorIs(t, err, remote.ErrNoCredentials, "listing without user or token should fail")
	})

	t.Run("rate_limited", func(t *testing.T) {
		client := &MockGitHubClient{}
		client.On("ListByAuthenticatedUser", mock.Anything, 1).Return(
			nil,
			&github.Response{Response: &http.Response{StatusCode: http.StatusForbidden}},
			errors.New("forbidden"))

		p := NewProviderWithClient(client, remote.Credentials{Token: "t"})
		_, err := p.ListRepositories(ctx, remote.ListOptions{}, nil)
		require.Error(t, err, "listing should fail")
		assert.Contains(t, err.Error(), "rate limit", "error should mention the rate limit")
	})
}

func TestAccount(t *testing.T) {
	created := time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC)
	client := &MockGitHubClient{}
	client.On("GetUser", mock.Anything, "octocat").Return(&github.User{
		Login:     github.String("octocat"),
		Name:      github.String("The Octocat"),
		Blog:      github.String("https://github.blog"),
		HTMLURL:   github.String("https://github.com/octocat"),
		CreatedAt: &github.Timestamp{Time: created},
	}, nil)

	p := NewProviderWithClient(client, remote.Credentials{})
	acct, err := p.Account(context.Background(), "octocat")
	require.NoError(t, err, "account should not error")
	assert.Equal(t, "The Octocat", acct.Name, "name should be mapped")
	assert.Equal(t, "https://github.blog", acct.Website, "blog maps to website")
	assert.Equal(t, "2015-06-01T12:00:00Z", acct.CreatedAt, "created date is iso formatted")
	assert.Empty(t, acct.UpdatedAt, "missing dates stay empty")
}

func TestCheckAuth(t *testing.T) {
	ctx := context.Background()
	reset := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	limits := &github.RateLimits{
		Core:   &github.Rate{Limit: 5000, Remaining: 4321, Reset: github.Timestamp{Time: reset}},
		Search: &github.Rate{Limit: 30, Remaining: 29},
	}

	tests := []struct {
		name      string
		token     string
		setup     func(c *MockGitHubClient)
		want      AuthStatus
		wantError string
	}{
		{
			name:  "valid_token",
			token: "t",
			setup: func(c *MockGitHubClient) {
				c.On("GetUser", mock.Anything, "").Return(&github.User{Login: github.String("walteh")}, nil)
				c.On("RateLimits", mock.Anything).Return(limits, nil)
			},
			want: AuthStatus{
				Authenticated: true,
				Username:      "walteh",
				Core:          RateInfo{Limit: 5000, Remaining: 4321, Reset: "2025-05-01T12:00:00Z"},
				Search:        RateInfo{Limit: 30, Remaining: 29},
			},
		},
		{
			name:  "invalid_token",
			token: "bad",
			setup: func(c *MockGitHubClient) {
				c.On("GetUser", mock.Anything, "").Return(nil, errors.New("401 Bad credentials"))
			},
			want:      AuthStatus{Error: "invalid token: 401 Bad credentials"},
			wantError: "checking github token",
		},
		{
			name: "public_access",
			setup: func(c *MockGitHubClient) {
				c.On("RateLimits", mock.Anything).Return(&github.RateLimits{Core: &github.Rate{Limit: 60, Remaining: 58}}, nil)
			},
			want: AuthStatus{PublicAccess: true, Core: RateInfo{Limit: 60, Remaining: 58}},
		},
		{
			name: "api_unreachable",
			setup: func(c *MockGitHubClient) {
				c.On("RateLimits", mock.Anything).Return(nil, errors.New("dial tcp: no route"))
			},
			want:      AuthStatus{Error: "github api error: dial tcp: no route"},
			wantError: "reading github rate limits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockGitHubClient{}
			tt.setup(client)
			p := NewProviderWithClient(client, remote.Credentials{Token: tt.token, Username: "walteh"})

			got, err := p.CheckAuth(ctx)
			if tt.wantError != "" {
				require.Error(t, err, "check should fail")
				assert.Contains(t, err.Error(), tt.wantError, "error should name the failing call")
			} else {
				require.NoError(t, err, "check should succeed")
			}
			assert.Equal(t, tt.want, got, "auth status")
			client.AssertExpectations(t)
			if tt.token == "" {
				client.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
			}
		})
	}
}
