package parsers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/alimgiray/ghcollect/internal/models"
	"github.com/alimgiray/ghcollect/pkg/logger"
)

const githubWebURL = "https://github.com"

// TrendingParser extracts repositories from the github.com/trending page
type TrendingParser struct {
	log logrus.FieldLogger
}

func NewTrendingParser(log logrus.FieldLogger) *TrendingParser {
	return &TrendingParser{log: logger.Component(log, "trending_parser")}
}

// Parse reads one trending page. Rows that cannot be parsed are skipped
// and the rest of the page is still returned.
func (p *TrendingParser) Parse(r io.Reader) models.Result[[]models.TrendingRepository] {
	result := models.Result[[]models.TrendingRepository]{Data: []models.TrendingRepository{}}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		p.log.WithError(err).Error("Failed to read trending page")
		result.AddError(fmt.Errorf("failed to read trending page: %w", err))
		return result
	}

	doc.Find("article.Box-row").Each(func(i int, row *goquery.Selection) {
		repo, ok, err := p.parseRow(row)
		if err != nil {
			p.log.WithFields(logrus.Fields{"row": i, "error": err}).Warn("Error parsing a trending row")
			result.AddError(fmt.Errorf("trending row %d: %w", i, err))
			return
		}
		if ok {
			result.Data = append(result.Data, repo)
		}
	})

	p.log.WithField("count", len(result.Data)).Info("Parsed trending repositories")
	return result
}

func (p *TrendingParser) parseRow(row *goquery.Selection) (models.TrendingRepository, bool, error) {
	title := row.Find("h2.h3 a").First()
	if title.Length() == 0 {
		p.log.Debug("Trending row without a title link, skipping")
		return models.TrendingRepository{}, false, nil
	}

	href, _ := title.Attr("href")
	fullName := strings.Trim(strings.TrimSpace(href), "/")
	parts := strings.Split(fullName, "/")
	owner := parts[0]
	name := ""
	if len(parts) > 1 {
		name = parts[1]
	}

	stats := row.Find("div.f6").First()
	if stats.Length() == 0 {
		return models.TrendingRepository{}, false, fmt.Errorf("no stats block for %q", fullName)
	}

	language := strings.TrimSpace(stats.Find(`span[itemprop="programmingLanguage"]`).First().Text())
	if language == "" {
		language = "Unknown"
	}

	starsSince := 0
	if fields := strings.Fields(stats.Find("span.d-inline-block.float-sm-right").First().Text()); len(fields) > 0 {
		starsSince = parseCount(fields[0])
	}

	return models.TrendingRepository{
		FullName:    fullName,
		Owner:       owner,
		Name:        name,
		Description: strings.TrimSpace(row.Find("p.col-9").First().Text()),
		Language:    language,
		StarsTotal:  parseCount(stats.Find(`a[href$="/stargazers"]`).First().Text()),
		ForksTotal:  parseCount(stats.Find(`a[href$="/forks"]`).First().Text()),
		StarsSince:  starsSince,
		URL:         githubWebURL + "/" + fullName,
	}, true, nil
}

// parseCount turns "1,234" into 1234. Anything unparsable counts as 0.
func parseCount(text string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(text), ",", ""))
	if err != nil {
		return 0
	}
	return n
}
