package collectors

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alimgiray/ghcollect/internal/httpclient"
)

const (
	DefaultAPIURL = "https://api.github.com"
	DefaultWebURL = "https://github.com"

	DefaultAPIDelay     = 500 * time.Millisecond
	DefaultScraperDelay = time.Second
)

// Options configures a collector or scraper. A zero RequestDelay means the
// collector's default pacing; use a negative value to disable pacing.
type Options struct {
	BaseURL      string
	Token        string
	UserAgent    string
	RequestDelay time.Duration
	MaxRetries   int
	Timeout      time.Duration
	Logger       logrus.FieldLogger

	// BrowserUserAgent picks the User-Agent for each trending page
	// request. Defaults to a random real browser string.
	BrowserUserAgent func() string

	RetryWait time.Duration
	Sleep     httpclient.SleepFunc
}

func (o Options) clientOptions(defaultBaseURL string, defaultDelay time.Duration) httpclient.Options {
	if o.BaseURL == "" {
		o.BaseURL = defaultBaseURL
	}
	switch {
	case o.RequestDelay == 0:
		o.RequestDelay = defaultDelay
	case o.RequestDelay < 0:
		o.RequestDelay = 0
	}
	return httpclient.Options{
		BaseURL:      o.BaseURL,
		UserAgent:    o.UserAgent,
		RequestDelay: o.RequestDelay,
		MaxRetries:   o.MaxRetries,
		RetryWait:    o.RetryWait,
		Timeout:      o.Timeout,
		Logger:       o.Logger,
		Sleep:        o.Sleep,
	}
}
