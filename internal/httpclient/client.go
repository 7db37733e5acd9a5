package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/alimgiray/ghcollect/pkg/logger"
)

const (
	DefaultUserAgent = "ghcollect/1.0"
	DefaultAccept    = "application/json"
	DefaultRetryWait = time.Second
	DefaultTimeout   = 30 * time.Second

	// DefaultRateLimitWait is used when a 429 response carries no Retry-After header.
	DefaultRateLimitWait = 60 * time.Second

	maxRetryWait = 120 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// retryStatuses are retried at the transport level before the caller sees them.
var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL   string
	UserAgent string
	Accept    string

	// Credentials is nil for anonymous access.
	Credentials oauth2.TokenSource

	RequestDelay time.Duration
	MaxRetries   int
	RetryWait    time.Duration
	Timeout      time.Duration

	// WrapTransport decorates the underlying round tripper.
	WrapTransport func(http.RoundTripper) http.RoundTripper

	// CheckResponse turns a response with status >= 400 into an error.
	// Defaults to a *StatusError.
	CheckResponse func(*http.Response) error

	Logger logrus.FieldLogger
	Sleep  SleepFunc
}

// Request describes one call relative to the client's base URL
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// StatusError is returned for responses with status >= 400
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
}

// Client is a resty client with fixed pacing, retry with exponential
// backoff and optional credentials.
type Client struct {
	http          *resty.Client
	credentials   oauth2.TokenSource
	delay         time.Duration
	checkResponse func(*http.Response) error
	sleep         SleepFunc
	log           logrus.FieldLogger
}

// New builds a Client from opts.
func New(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Accept == "" {
		opts.Accept = DefaultAccept
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = DefaultRetryWait
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Sleep == nil {
		opts.Sleep = SleepContext
	}
	if opts.CheckResponse == nil {
		opts.CheckResponse = checkStatus
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", opts.Accept)
	client.SetLogger(log)

	if opts.WrapTransport != nil {
		client.GetClient().Transport = opts.WrapTransport(client.GetClient().Transport)
	}

	retryWait := opts.RetryWait
	client.SetRetryCount(opts.MaxRetries)
	client.SetRetryWaitTime(retryWait)
	client.SetRetryMaxWaitTime(maxRetryWait)
	client.SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
		return retryDelay(resp, retryWait), nil
	})
	client.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return resp != nil && retryStatuses[resp.StatusCode()]
	})

	return &Client{
		http:          client,
		credentials:   opts.Credentials,
		delay:         opts.RequestDelay,
		checkResponse: opts.CheckResponse,
		sleep:         opts.Sleep,
		log:           log,
	}
}

// Do paces, sends and checks one request. Transient failures are retried
// by the transport. A final 429 waits out Retry-After before returning
// its error so the next call is not rejected as well.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if err := c.sleep(ctx, c.delay); err != nil {
		return nil, err
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req := c.http.R().SetContext(ctx)
	if len(r.Query) > 0 {
		req.SetQueryParamsFromValues(r.Query)
	}
	if len(r.Headers) > 0 {
		req.SetHeaders(r.Headers)
	}
	if c.credentials != nil {
		tok, err := c.credentials.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to get access token: %w", err)
		}
		req.SetAuthScheme(tok.Type())
		req.SetAuthToken(tok.AccessToken)
	}

	c.log.WithFields(logrus.Fields{"method": method, "path": r.Path}).Debug("Sending request")

	resp, err := req.Execute(method, r.Path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, r.Path, err)
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}

	if out.StatusCode == http.StatusTooManyRequests {
		wait := retryAfter(out.Header, DefaultRateLimitWait)
		c.log.WithField("retry_after", wait).Warn("Rate limited, waiting before giving up")
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	if out.StatusCode >= http.StatusBadRequest {
		return out, c.checkResponse(rawResponse(resp))
	}

	return out, nil
}

// Close releases pooled idle connections.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}

// StaticToken returns a token source for a fixed token, or nil when the
// token is empty. Scheme is the Authorization scheme; empty means Bearer.
func StaticToken(token, scheme string) oauth2.TokenSource {
	if token == "" {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   scheme,
	})
}

// SleepContext waits for d unless ctx is done first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryDelay is base * 2^(attempt-1), or the server's Retry-After on
// 413, 429 and 503 responses.
func retryDelay(resp *resty.Response, base time.Duration) time.Duration {
	attempt := 1
	if resp != nil && resp.Request != nil && resp.Request.Attempt > 0 {
		attempt = resp.Request.Attempt
	}
	wait := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))

	if resp != nil {
		switch resp.StatusCode() {
		case http.StatusRequestEntityTooLarge, http.StatusTooManyRequests, http.StatusServiceUnavailable:
			wait = retryAfter(resp.Header(), wait)
		}
	}
	if wait > maxRetryWait {
		wait = maxRetryWait
	}
	return wait
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(h http.Header, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(h.Get("Retry-After"))
	if value == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
		return 0
	}
	return fallback
}

// rawResponse rebuilds an *http.Response whose body can be read again,
// since resty has already drained the original.
func rawResponse(resp *resty.Response) *http.Response {
	raw := &http.Response{}
	if resp.RawResponse != nil {
		copied := *resp.RawResponse
		raw = &copied
	}
	raw.StatusCode = resp.StatusCode()
	raw.Status = resp.Status()
	raw.Header = resp.Header()
	raw.Body = io.NopCloser(bytes.NewReader(resp.Body()))
	if raw.Request == nil && resp.Request != nil && resp.Request.RawRequest != nil {
		raw.Request = resp.Request.RawRequest
	}
	return raw
}

func checkStatus(resp *http.Response) error {
	err := &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
	if err.Status == "" {
		err.Status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if resp.Request != nil {
		err.Method = resp.Request.Method
		if resp.Request.URL != nil {
			err.URL = resp.Request.URL.String()
		}
	}
	if resp.Body != nil {
		err.Body, _ = io.ReadAll(resp.Body)
	}
	return err
}
