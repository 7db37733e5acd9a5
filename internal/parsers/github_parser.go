package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/alimgiray/ghcollect/internal/models"
	"github.com/alimgiray/ghcollect/pkg/logger"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// dateLayout pairs an accepted input layout with whether it carries a UTC offset.
type dateLayout struct {
	layout    string
	hasOffset bool
}

var dateLayouts = []dateLayout{
	{layout: time.RFC3339Nano, hasOffset: true},
	{layout: "2006-01-02 15:04:05.999999999Z07:00", hasOffset: true},
	{layout: "2006-01-02T15:04:05.999999999", hasOffset: false},
	{layout: "2006-01-02 15:04:05.999999999", hasOffset: false},
	{layout: "2006-01-02T15:04", hasOffset: false},
	{layout: "2006-01-02", hasOffset: false},
}

// GitHubParser maps raw GitHub API records to their normalized form
type GitHubParser struct {
	log logrus.FieldLogger
}

func NewGitHubParser(log logrus.FieldLogger) *GitHubParser {
	return &GitHubParser{log: logger.Component(log, "github_parser")}
}

// ParseRepos normalizes repository records.
func (p *GitHubParser) ParseRepos(repos []models.RawRepository) []models.Repository {
	parsed := make([]models.Repository, 0, len(repos))
	for _, repo := range repos {
		parsed = append(parsed, models.Repository{
			ID:            repo.ID,
			Name:          repo.Name,
			FullName:      repo.FullName,
			Description:   stringOr(repo.Description, ""),
			URL:           repo.HTMLURL,
			CloneURL:      repo.CloneURL,
			Language:      repo.Language,
			Stars:         intOr(repo.StargazersCount),
			Forks:         intOr(repo.ForksCount),
			Watchers:      intOr(repo.WatchersCount),
			OpenIssues:    intOr(repo.OpenIssuesCount),
			IsPrivate:     boolOr(repo.Private),
			IsFork:        boolOr(repo.Fork),
			CreatedAt:     p.ParseDate(repo.CreatedAt),
			UpdatedAt:     p.ParseDate(repo.UpdatedAt),
			PushedAt:      p.ParseDate(repo.PushedAt),
			DefaultBranch: stringOr(repo.DefaultBranch, "main"),
			Topics:        nonNil(repo.Topics),
		})
	}
	return parsed
}

// ParseIssues normalizes issue records and drops the pull requests the
// issues endpoint mixes in.
func (p *GitHubParser) ParseIssues(issues []models.RawIssue) []models.Issue {
	parsed := make([]models.Issue, 0, len(issues))
	skipped := 0
	for _, issue := range issues {
		if issue.IsPullRequest() {
			skipped++
			continue
		}
		parsed = append(parsed, models.Issue{
			ID:        issue.ID,
			Number:    issue.Number,
			Title:     issue.Title,
			Body:      stringOr(issue.Body, ""),
			State:     issue.State,
			URL:       issue.HTMLURL,
			User:      login(issue.User),
			Labels:    labelNames(issue.Labels),
			Assignees: logins(issue.Assignees),
			Comments:  intOr(issue.Comments),
			CreatedAt: p.ParseDate(issue.CreatedAt),
			UpdatedAt: p.ParseDate(issue.UpdatedAt),
			ClosedAt:  p.ParseDate(issue.ClosedAt),
		})
	}
	if skipped > 0 {
		p.log.WithField("skipped", skipped).Debug("Dropped pull requests from issue list")
	}
	return parsed
}

// ParsePullRequests normalizes pull request records.
func (p *GitHubParser) ParsePullRequests(prs []models.RawPullRequest) []models.PullRequest {
	parsed := make([]models.PullRequest, 0, len(prs))
	for _, pr := range prs {
		parsed = append(parsed, models.PullRequest{
			ID:             pr.ID,
			Number:         pr.Number,
			Title:          pr.Title,
			Body:           stringOr(pr.Body, ""),
			State:          pr.State,
			URL:            pr.HTMLURL,
			User:           login(pr.User),
			HeadBranch:     branch(pr.Head),
			BaseBranch:     branch(pr.Base),
			Labels:         labelNames(pr.Labels),
			Assignees:      logins(pr.Assignees),
			Reviewers:      logins(pr.RequestedReviewers),
			Comments:       intOr(pr.Comments),
			ReviewComments: intOr(pr.ReviewComments),
			Commits:        intOr(pr.Commits),
			Additions:      pr.Additions,
			Deletions:      pr.Deletions,
			ChangedFiles:   pr.ChangedFiles,
			Merged:         boolOr(pr.Merged),
			Mergeable:      pr.Mergeable,
			CreatedAt:      p.ParseDate(pr.CreatedAt),
			UpdatedAt:      p.ParseDate(pr.UpdatedAt),
			ClosedAt:       p.ParseDate(pr.ClosedAt),
			MergedAt:       p.ParseDate(pr.MergedAt),
		})
	}
	return parsed
}

// ParseProfile normalizes a user profile.
func (p *GitHubParser) ParseProfile(user models.RawUser) models.Profile {
	return models.Profile{
		ID:          user.ID,
		Login:       user.Login,
		Name:        user.Name,
		Bio:         stringOr(user.Bio, ""),
		Company:     user.Company,
		Blog:        user.Blog,
		Location:    user.Location,
		Email:       user.Email,
		Hireable:    user.Hireable,
		PublicRepos: intOr(user.PublicRepos),
		PublicGists: intOr(user.PublicGists),
		Followers:   intOr(user.Followers),
		Following:   intOr(user.Following),
		CreatedAt:   p.ParseDate(user.CreatedAt),
		UpdatedAt:   p.ParseDate(user.UpdatedAt),
		URL:         user.HTMLURL,
	}
}

// ParseDate renders an ISO-8601 date as 2006-01-02T15:04:05[.ffffff][-07:00].
// The offset is kept only when the input had one. Text that is not a
// date is returned unchanged.
func (p *GitHubParser) ParseDate(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}

	for _, dl := range dateLayouts {
		t, err := time.Parse(dl.layout, *value)
		if err != nil {
			continue
		}
		out := formatDate(t, dl.hasOffset)
		return &out
	}

	p.log.WithField("date", *value).Warn("Failed to parse date")
	out := *value
	return &out
}

func formatDate(t time.Time, hasOffset bool) string {
	layout := "2006-01-02T15:04:05"
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		layout += ".000000"
	}
	if hasOffset {
		layout += "-07:00"
	}
	return t.Format(layout)
}

// Detect guesses what kind of records a raw API payload holds. Lists are
// judged by their first element.
func (p *GitHubParser) Detect(data []byte) models.Kind {
	var payload any
	if err := jsonAPI.Unmarshal(data, &payload); err != nil {
		return models.KindUnknown
	}

	switch v := payload.(type) {
	case []any:
		if len(v) == 0 {
			return models.KindUnknown
		}
		sample, ok := v[0].(map[string]any)
		if !ok {
			return models.KindUnknown
		}
		switch {
		case hasKey(sample, "pull_request"):
			return models.KindIssues
		case hasKey(sample, "merged_at", "mergeable"):
			return models.KindPullRequests
		case hasKey(sample, "full_name", "clone_url"):
			return models.KindRepos
		}
	case map[string]any:
		switch {
		case hasKey(v, "login") && hasKey(v, "public_repos"):
			return models.KindProfile
		case hasKey(v, "full_name", "clone_url"):
			return models.KindRepos
		}
	}
	return models.KindUnknown
}

// Parse decodes raw API JSON of the given kind and normalizes it.
// KindUnknown passes the payload through untouched.
func (p *GitHubParser) Parse(kind models.Kind, data []byte) (any, error) {
	switch kind {
	case models.KindRepos:
		repos, err := decodeList[models.RawRepository](data)
		if err != nil {
			return nil, err
		}
		return p.ParseRepos(repos), nil
	case models.KindIssues:
		issues, err := decodeList[models.RawIssue](data)
		if err != nil {
			return nil, err
		}
		return p.ParseIssues(issues), nil
	case models.KindPullRequests:
		prs, err := decodeList[models.RawPullRequest](data)
		if err != nil {
			return nil, err
		}
		return p.ParsePullRequests(prs), nil
	case models.KindProfile:
		if !isObject(data) {
			return models.Profile{}, nil
		}
		var user models.RawUser
		if err := jsonAPI.Unmarshal(data, &user); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		return p.ParseProfile(user), nil
	case models.KindTrending:
		return decodeList[models.TrendingRepository](data)
	default:
		p.log.WithField("type", kind).Warn("Unknown data type, returning raw data")
		return json.RawMessage(data), nil
	}
}

// decodeList decodes a JSON array, treating a single object as a
// one-element list and null as an empty one.
func decodeList[T any](data []byte) ([]T, error) {
	items := []T{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return items, nil
	}

	if isObject(trimmed) {
		var item T
		if err := jsonAPI.Unmarshal(trimmed, &item); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		return append(items, item), nil
	}

	if err := jsonAPI.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func isObject(data []byte) bool {
	return strings.HasPrefix(string(bytes.TrimSpace(data)), "{")
}

func hasKey(m map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func intOr(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func boolOr(b *bool) bool {
	return b != nil && *b
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func login(u *models.RawUserRef) *string {
	if u == nil {
		return nil
	}
	return u.Login
}

func logins(users []models.RawUserRef) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, stringOr(u.Login, ""))
	}
	return out
}

func labelNames(labels []models.RawLabel) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, stringOr(l.Name, ""))
	}
	return out
}

func branch(b *models.RawBranchRef) *string {
	if b == nil {
		return nil
	}
	return b.Ref
}
