package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/ghcollect/internal/models"
	"github.com/alimgiray/ghcollect/pkg/logger"
)

const trendingRow = `
<article class="Box-row">
  <h2 class="h3 lh-condensed">
    <a href="/a/b">a / b</a>
  </h2>
  <p class="col-9 color-fg-muted my-1 pr-4">
    A sample project
  </p>
  <div class="f6 color-fg-muted mt-2">
    <span class="d-inline-block ml-0 mr-3">
      <span itemprop="programmingLanguage">Go</span>
    </span>
    <a class="Link--muted d-inline-block mr-3" href="/a/b/stargazers">1,000</a>
    <a class="Link--muted d-inline-block mr-3" href="/a/b/forks">100</a>
    <span class="d-inline-block float-sm-right">50 stars today</span>
  </div>
</article>`

func page(rows ...string) string {
	return `<html><body><div class="Box">` + strings.Join(rows, "\n") + `</div></body></html>`
}

func TestTrendingParserParsesRow(t *testing.T) {
	p := NewTrendingParser(logger.Discard())

	res := p.Parse(strings.NewReader(page(trendingRow)))

	require.Empty(t, res.Errors)
	require.Len(t, res.Data, 1)
	assert.Equal(t, models.TrendingRepository{
		FullName:    "a/b",
		Owner:       "a",
		Name:        "b",
		Description: "A sample project",
		Language:    "Go",
		StarsTotal:  1000,
		ForksTotal:  100,
		StarsSince:  50,
		URL:         "https://github.com/a/b",
	}, res.Data[0])
}

func TestTrendingParserDefaults(t *testing.T) {
	row := `
<article class="Box-row">
  <h2 class="h3"><a href="/solo/">solo</a></h2>
  <div class="f6">
    <a href="/solo/stargazers">lots</a>
  </div>
</article>`

	res := NewTrendingParser(logger.Discard()).Parse(strings.NewReader(page(row)))

	require.Empty(t, res.Errors)
	require.Len(t, res.Data, 1)
	got := res.Data[0]
	assert.Equal(t, "solo", got.FullName)
	assert.Equal(t, "solo", got.Owner)
	assert.Equal(t, "", got.Name)
	assert.Equal(t, "", got.Description)
	assert.Equal(t, "Unknown", got.Language)
	assert.Equal(t, 0, got.StarsTotal)
	assert.Equal(t, 0, got.ForksTotal)
	assert.Equal(t, 0, got.StarsSince)
}

func TestTrendingParserMalformedRowDoesNotAffectOthers(t *testing.T) {
	broken := `
<article class="Box-row">
  <h2 class="h3"><a href="/broken/repo">broken</a></h2>
  <p class="col-9">no stats here</p>
</article>`

	res := NewTrendingParser(logger.Discard()).Parse(strings.NewReader(page(trendingRow, broken, trendingRow)))

	assert.Len(t, res.Data, 2)
	assert.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), "broken/repo")
}

func TestTrendingParserSkipsRowsWithoutTitle(t *testing.T) {
	noTitle := `<article class="Box-row"><div class="f6"></div></article>`

	res := NewTrendingParser(logger.Discard()).Parse(strings.NewReader(page(noTitle, trendingRow)))

	assert.Empty(t, res.Errors)
	assert.Len(t, res.Data, 1)
}

func TestTrendingParserNoRows(t *testing.T) {
	res := NewTrendingParser(logger.Discard()).Parse(strings.NewReader(`<html><body><p>nothing trending</p></body></html>`))

	assert.Empty(t, res.Errors)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
}

func TestParseCount(t *testing.T) {
	testCases := []struct {
		in   string
		want int
	}{
		{in: "1,234", want: 1234},
		{in: "  42 ", want: 42},
		{in: "", want: 0},
		{in: "1.2k", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, parseCount(tc.in))
		})
	}
}
