package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"

	"github.com/alimgiray/ghcollect/internal/collectors"
	"github.com/alimgiray/ghcollect/internal/exporters"
	"github.com/alimgiray/ghcollect/internal/models"
	"github.com/alimgiray/ghcollect/internal/parsers"
	"github.com/alimgiray/ghcollect/pkg/logger"
)

// Report describes what one command collected and where it was written
type Report struct {
	Kind    models.Kind
	Path    string
	Paths   []string
	Records int
	Data    any
	Errors  []error
}

// Partial reports whether any page or row error was suppressed.
func (r *Report) Partial() bool {
	return len(r.Errors) > 0
}

// CollectService runs collect, normalize and export for each command.
// Collection errors end up in the report; only export failures are
// returned as errors.
type CollectService struct {
	collector *collectors.GitHubCollector
	scraper   *collectors.GitHubScraper
	parser    *parsers.GitHubParser
	exporter  exporters.Exporter
	snapshots *exporters.JSONExporter
	log       logrus.FieldLogger
}

func NewCollectService(
	collector *collectors.GitHubCollector,
	scraper *collectors.GitHubScraper,
	exporter exporters.Exporter,
	snapshots *exporters.JSONExporter,
	log logrus.FieldLogger,
) *CollectService {
	return &CollectService{
		collector: collector,
		scraper:   scraper,
		parser:    parsers.NewGitHubParser(log),
		exporter:  exporter,
		snapshots: snapshots,
		log:       logger.Component(log, "collect_service"),
	}
}

// Repos collects the repositories of username.
func (s *CollectService) Repos(ctx context.Context, username string, opts *github.RepositoryListByUserOptions) (*Report, error) {
	s.log.WithField("user", username).Info("Starting repository collection")

	raw := s.collector.CollectUserRepos(ctx, username, opts)
	repos := s.parser.ParseRepos(raw.Data)

	return s.export(models.KindRepos, repos, len(repos), raw.Errors, username+"_repos")
}

// Issues collects the issues of owner/repo without pull requests.
func (s *CollectService) Issues(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) (*Report, error) {
	s.log.WithField("repo", owner+"/"+repo).Info("Starting issue collection")

	raw := s.collector.CollectRepoIssues(ctx, owner, repo, opts)
	issues := s.parser.ParseIssues(raw.Data)

	return s.export(models.KindIssues, issues, len(issues), raw.Errors, owner+"_"+repo+"_issues")
}

// PullRequests collects the pull requests of owner/repo.
func (s *CollectService) PullRequests(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) (*Report, error) {
	s.log.WithField("repo", owner+"/"+repo).Info("Starting pull request collection")

	raw := s.collector.CollectPullRequests(ctx, owner, repo, opts)
	prs := s.parser.ParsePullRequests(raw.Data)

	return s.export(models.KindPullRequests, prs, len(prs), raw.Errors, owner+"_"+repo+"_prs")
}

// Profile collects the profile of username.
func (s *CollectService) Profile(ctx context.Context, username string) (*Report, error) {
	s.log.WithField("user", username).Info("Starting profile collection")

	raw := s.collector.CollectUserProfile(ctx, username)
	profile := s.parser.ParseProfile(raw.Data)

	return s.export(models.KindProfile, profile, 1, raw.Errors, username+"_profile")
}

// Trending scrapes the trending page. An empty language means all languages.
func (s *CollectService) Trending(ctx context.Context, language, since string) (*Report, error) {
	label := language
	if label == "" {
		label = "all"
	}
	s.log.WithFields(logrus.Fields{"language": label, "since": since}).Info("Starting trending collection")

	res := s.scraper.CollectTrending(ctx, language, since)

	return s.export(models.KindTrending, res.Data, len(res.Data), res.Errors, fmt.Sprintf("trending_%s_%s", label, since))
}

// Snapshot writes the profile and repositories of username as two JSON files.
func (s *CollectService) Snapshot(ctx context.Context, username string, opts *github.RepositoryListByUserOptions) (*Report, error) {
	s.log.WithField("user", username).Info("Starting snapshot")

	profile := s.collector.CollectUserProfile(ctx, username)
	repos := s.collector.CollectUserRepos(ctx, username, opts)

	parsedRepos := s.parser.ParseRepos(repos.Data)
	data := map[string]any{
		"profile": s.parser.ParseProfile(profile.Data),
		"repos":   parsedRepos,
	}

	paths, err := s.snapshots.ExportMultiple(data, username+"_")
	if err != nil {
		return nil, fmt.Errorf("failed to export snapshot: %w", err)
	}

	errs := append(append([]error{}, profile.Errors...), repos.Errors...)
	report := &Report{
		Kind:    models.KindProfile,
		Paths:   paths,
		Records: 1 + len(parsedRepos),
		Data:    data,
		Errors:  errs,
	}
	if len(paths) > 0 {
		report.Path = paths[0]
	}
	return report, nil
}

// Normalize reads a raw API dump from path and exports its normalized
// form. An empty kind means the kind is detected from the content.
func (s *CollectService) Normalize(path string, kind models.Kind) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if kind == "" {
		kind = s.parser.Detect(data)
		s.log.WithFields(logrus.Fields{"file": path, "type": kind}).Info("Detected data type")
	}

	parsed, err := s.parser.Parse(kind, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s as %s: %w", path, kind, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return s.export(kind, parsed, countRecords(parsed), nil, stem+"_"+string(kind))
}

func (s *CollectService) export(kind models.Kind, data any, records int, errs []error, filename string) (*Report, error) {
	path, err := s.exporter.Export(data, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", kind, err)
	}

	entry := s.log.WithFields(logrus.Fields{
		"type":    kind,
		"records": records,
		"path":    path,
	})
	if len(errs) > 0 {
		entry.WithField("errors", len(errs)).Warn("Data exported with errors")
	} else {
		entry.Info("Data exported")
	}

	return &Report{
		Kind:    kind,
		Path:    path,
		Records: records,
		Data:    data,
		Errors:  errs,
	}, nil
}

func countRecords(data any) int {
	switch v := data.(type) {
	case []models.Repository:
		return len(v)
	case []models.Issue:
		return len(v)
	case []models.PullRequest:
		return len(v)
	case []models.TrendingRepository:
		return len(v)
	case models.Profile:
		return 1
	default:
		return 0
	}
}
