package collectors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trendingPage = `<html><body>
<article class="Box-row">
  <h2 class="h3 lh-condensed"><a href="/a/b">a / b</a></h2>
  <p class="col-9">Desc</p>
  <div class="f6">
    <span itemprop="programmingLanguage">Go</span>
    <a href="/a/b/stargazers">1,000</a>
    <a href="/a/b/forks">100</a>
    <span class="d-inline-block float-sm-right">50 stars this week</span>
  </div>
</article>
</body></html>`

func newTestScraper(t *testing.T, baseURL string) *GitHubScraper {
	t.Helper()
	opts := testOptions(baseURL)
	opts.BrowserUserAgent = func() string { return "Mozilla/5.0 (test)" }
	s := NewGitHubScraper(opts)
	t.Cleanup(s.Close)
	return s
}

func TestCollectTrending(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(trendingPage))
	}))
	defer ts.Close()

	s := newTestScraper(t, ts.URL)
	res := s.CollectTrending(context.Background(), "go", SinceWeekly)

	require.Empty(t, res.Errors)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "a/b", res.Data[0].FullName)
	assert.Equal(t, 1000, res.Data[0].StarsTotal)
	assert.Equal(t, 50, res.Data[0].StarsSince)

	require.NotNil(t, got)
	assert.Equal(t, "/trending/go", got.URL.Path)
	assert.Equal(t, "weekly", got.URL.Query().Get("since"))
	assert.Equal(t, "Mozilla/5.0 (test)", got.Header.Get("User-Agent"))
	assert.Empty(t, got.Header.Get("Authorization"))
}

func TestCollectTrendingDailyAllLanguages(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer ts.Close()

	res := newTestScraper(t, ts.URL).CollectTrending(context.Background(), "", SinceDaily)

	require.Empty(t, res.Errors)
	assert.Empty(t, res.Data)
	require.NotNil(t, got)
	assert.Equal(t, "/trending", got.URL.Path)
	assert.False(t, got.URL.Query().Has("since"))
}

func TestCollectTrendingRequestFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	res := newTestScraper(t, ts.URL).CollectTrending(context.Background(), "nosuchlang", SinceDaily)

	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Len(t, res.Errors, 1)
}
