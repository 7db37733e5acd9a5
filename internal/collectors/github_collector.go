package collectors

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/go-github/v57/github"
	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"

	"github.com/alimgiray/ghcollect/internal/httpclient"
	"github.com/alimgiray/ghcollect/internal/models"
	"github.com/alimgiray/ghcollect/pkg/logger"
)

// GitHubCollector reads repositories, issues, pull requests and profiles
// from the GitHub REST API.
type GitHubCollector struct {
	client *httpclient.Client
	log    logrus.FieldLogger
}

// NewGitHubCollector creates a collector for the REST API. Requests are
// authenticated with "token <Token>" when a token is set.
func NewGitHubCollector(opts Options) *GitHubCollector {
	log := logger.Component(opts.Logger, "github_collector")

	clientOpts := opts.clientOptions(DefaultAPIURL, DefaultAPIDelay)
	clientOpts.Credentials = httpclient.StaticToken(opts.Token, "token")
	clientOpts.CheckResponse = github.CheckResponse
	clientOpts.Logger = log

	if opts.Token == "" {
		log.Warn("No GitHub token configured, requests are limited to 60 per hour")
	}

	return &GitHubCollector{
		client: httpclient.New(clientOpts),
		log:    log,
	}
}

// Close releases pooled connections.
func (c *GitHubCollector) Close() {
	c.client.Close()
}

// CollectUserRepos lists the repositories of username, most recently
// updated first unless opts says otherwise.
func (c *GitHubCollector) CollectUserRepos(ctx context.Context, username string, opts *github.RepositoryListByUserOptions) models.Result[[]models.RawRepository] {
	o := github.RepositoryListByUserOptions{}
	if opts != nil {
		o = *opts
	}
	if o.Type == "" {
		o.Type = "public"
	}
	if o.Sort == "" {
		o.Sort = "updated"
	}
	if o.Direction == "" {
		o.Direction = "desc"
	}
	o.PerPage = capPerPage(o.PerPage)

	path := fmt.Sprintf("/users/%s/repos", url.PathEscape(username))
	result := collectList[models.RawRepository](ctx, c, path, &o)

	c.log.WithFields(logrus.Fields{"user": username, "count": len(result.Data)}).Info("Collected repositories")
	return result
}

// CollectRepoIssues lists the issues of owner/repo. Pull requests are
// still included at this stage.
func (c *GitHubCollector) CollectRepoIssues(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) models.Result[[]models.RawIssue] {
	o := github.IssueListByRepoOptions{}
	if opts != nil {
		o = *opts
	}
	if o.State == "" {
		o.State = "all"
	}
	o.PerPage = capPerPage(o.PerPage)

	path := fmt.Sprintf("/repos/%s/%s/issues", url.PathEscape(owner), url.PathEscape(repo))
	result := collectList[models.RawIssue](ctx, c, path, &o)

	c.log.WithFields(logrus.Fields{"repo": owner + "/" + repo, "count": len(result.Data)}).Info("Collected issues")
	return result
}

// CollectPullRequests lists the pull requests of owner/repo.
func (c *GitHubCollector) CollectPullRequests(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) models.Result[[]models.RawPullRequest] {
	o := github.PullRequestListOptions{}
	if opts != nil {
		o = *opts
	}
	if o.State == "" {
		o.State = "all"
	}
	o.PerPage = capPerPage(o.PerPage)

	path := fmt.Sprintf("/repos/%s/%s/pulls", url.PathEscape(owner), url.PathEscape(repo))
	result := collectList[models.RawPullRequest](ctx, c, path, &o)

	c.log.WithFields(logrus.Fields{"repo": owner + "/" + repo, "count": len(result.Data)}).Info("Collected pull requests")
	return result
}

// CollectUserProfile fetches a single user. On failure the profile is
// empty and the error is recorded in the result.
func (c *GitHubCollector) CollectUserProfile(ctx context.Context, username string) models.Result[models.RawUser] {
	result := models.Result[models.RawUser]{}
	path := fmt.Sprintf("/users/%s", url.PathEscape(username))

	resp, err := c.client.Do(ctx, httpclient.Request{Path: path})
	if err == nil {
		var user models.RawUser
		if err = resp.Decode(&user); err == nil {
			result.Data = user
			c.log.WithField("user", username).Info("Collected profile")
			return result
		}
	}

	c.log.WithFields(logrus.Fields{"user": username, "error": err}).Error("Failed to fetch profile")
	result.AddError(fmt.Errorf("profile %s: %w", username, err))
	return result
}

func collectList[T any](ctx context.Context, c *GitHubCollector, path string, opts any) models.Result[[]T] {
	params, err := query.Values(opts)
	if err != nil {
		result := models.Result[[]T]{Data: []T{}}
		result.AddError(fmt.Errorf("failed to encode list options: %w", err))
		return result
	}
	return collectPages[T](ctx, c.client, c.log, path, params)
}
