package collectors

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/sirupsen/logrus"

	"github.com/alimgiray/ghcollect/internal/httpclient"
	"github.com/alimgiray/ghcollect/internal/models"
	"github.com/alimgiray/ghcollect/internal/parsers"
	"github.com/alimgiray/ghcollect/pkg/logger"
)

// Trending periods accepted by github.com/trending
const (
	SinceDaily   = "daily"
	SinceWeekly  = "weekly"
	SinceMonthly = "monthly"
)

// GitHubScraper reads the public trending page. It needs no token.
type GitHubScraper struct {
	client    *httpclient.Client
	parser    *parsers.TrendingParser
	userAgent func() string
	log       logrus.FieldLogger
}

func NewGitHubScraper(opts Options) *GitHubScraper {
	log := logger.Component(opts.Logger, "github_scraper")

	clientOpts := opts.clientOptions(DefaultWebURL, DefaultScraperDelay)
	clientOpts.Accept = "text/html"
	clientOpts.WrapTransport = func(rt http.RoundTripper) http.RoundTripper {
		return cloudflarebp.AddCloudFlareByPass(rt)
	}
	clientOpts.Logger = log

	userAgent := opts.BrowserUserAgent
	if userAgent == nil {
		userAgent = browser.Random
	}

	return &GitHubScraper{
		client:    httpclient.New(clientOpts),
		parser:    parsers.NewTrendingParser(opts.Logger),
		userAgent: userAgent,
		log:       log,
	}
}

// Close releases pooled connections.
func (s *GitHubScraper) Close() {
	s.client.Close()
}

// CollectTrending fetches and parses the trending page for language
// (empty for all languages) over the given period. Any request failure
// yields an empty list and the error.
func (s *GitHubScraper) CollectTrending(ctx context.Context, language, since string) models.Result[[]models.TrendingRepository] {
	s.log.WithFields(logrus.Fields{"language": language, "since": since}).Info("Collecting trending repositories")

	path := "trending"
	if language != "" {
		path = "trending/" + url.PathEscape(language)
	}

	query := url.Values{}
	if since != "" && since != SinceDaily {
		query.Set("since", since)
	}

	resp, err := s.client.Do(ctx, httpclient.Request{
		Path:    path,
		Query:   query,
		Headers: map[string]string{"User-Agent": s.userAgent()},
	})
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch trending page")
		result := models.Result[[]models.TrendingRepository]{Data: []models.TrendingRepository{}}
		result.AddError(fmt.Errorf("trending %s: %w", path, err))
		return result
	}

	return s.parser.Parse(bytes.NewReader(resp.Body))
}
