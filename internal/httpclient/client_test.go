package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

func newTestClient(t *testing.T, srv *httptest.Server, opts Options) (*Client, *sleepRecorder) {
	t.Helper()
	rec := &sleepRecorder{}
	opts.BaseURL = srv.URL
	opts.Sleep = rec.sleep
	if opts.RetryWait == 0 {
		opts.RetryWait = time.Millisecond
	}
	c := New(opts)
	t.Cleanup(c.Close)
	return c, rec
}

func TestDoSendsDefaultHeaders(t *testing.T) {
	var got http.Header
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, rec := newTestClient(t, srv, Options{RequestDelay: 500 * time.Millisecond})

	resp, err := c.Do(context.Background(), Request{
		Path:  "/users/octocat",
		Query: url.Values{"page": {"2"}},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	assert.Equal(t, DefaultAccept, got.Get("Accept"))
	assert.Empty(t, got.Get("Authorization"))
	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, rec.calls)

	var body struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, resp.Decode(&body))
	assert.True(t, body.OK)
}

func TestDoAuthorizationScheme(t *testing.T) {
	testCases := []struct {
		name   string
		token  string
		scheme string
		want   string
	}{
		{name: "token scheme", token: "abc", scheme: "token", want: "token abc"},
		{name: "default bearer", token: "abc", scheme: "", want: "Bearer abc"},
		{name: "anonymous", token: "", scheme: "token", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
			}))
			defer srv.Close()

			c, _ := newTestClient(t, srv, Options{Credentials: StaticToken(tc.token, tc.scheme)})
			_, err := c.Do(context.Background(), Request{Path: "/"})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDoPerRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, Options{UserAgent: "custom/2.0", Accept: "text/html"})
	_, err := c.Do(context.Background(), Request{
		Path:    "/trending",
		Headers: map[string]string{"User-Agent": "Mozilla/5.0"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Mozilla/5.0", got.Get("User-Agent"))
	assert.Equal(t, "text/html", got.Get("Accept"))
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, Options{MaxRetries: 3})

	resp, err := c.Do(context.Background(), Request{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, Options{MaxRetries: 2})

	resp, err := c.Do(context.Background(), Request{Path: "/"})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, http.MethodGet, statusErr.Method)
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, Options{MaxRetries: 3})

	_, err := c.Do(context.Background(), Request{Path: "/users/ghost"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.JSONEq(t, `{"message":"Not Found"}`, string(statusErr.Body))
}

func TestDoRateLimitSleepsThenFails(t *testing.T) {
	testCases := []struct {
		name       string
		retryAfter string
		want       time.Duration
	}{
		{name: "header", retryAfter: "7", want: 7 * time.Second},
		{name: "no header", retryAfter: "", want: DefaultRateLimitWait},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.retryAfter != "" {
					w.Header().Set("Retry-After", tc.retryAfter)
				}
				w.WriteHeader(http.StatusTooManyRequests)
			}))
			defer srv.Close()

			c, rec := newTestClient(t, srv, Options{MaxRetries: 0})

			_, err := c.Do(context.Background(), Request{Path: "/"})
			require.Error(t, err)
			// request delay first, then the rate limit wait
			assert.Equal(t, []time.Duration{0, tc.want}, rec.calls)
		})
	}
}

func TestDoCustomCheckResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`forbidden`))
	}))
	defer srv.Close()

	sentinel := errors.New("custom")
	var body string
	c, _ := newTestClient(t, srv, Options{CheckResponse: func(resp *http.Response) error {
		buf := make([]byte, 64)
		n, _ := resp.Body.Read(buf)
		body = string(buf[:n])
		return sentinel
	}})

	_, err := c.Do(context.Background(), Request{Path: "/"})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "forbidden", body)
}

func TestDoWrapTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	var wrapped int32
	c, _ := newTestClient(t, srv, Options{WrapTransport: func(next http.RoundTripper) http.RoundTripper {
		if next == nil {
			next = http.DefaultTransport
		}
		return roundTripFunc(func(r *http.Request) (*http.Response, error) {
			atomic.AddInt32(&wrapped, 1)
			return next.RoundTrip(r)
		})
	}})

	_, err := c.Do(context.Background(), Request{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&wrapped))
}

func TestDoCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, RequestDelay: time.Hour})
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Do(ctx, Request{Path: "/"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryAfterParsing(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "seconds", value: "3", want: 3 * time.Second},
		{name: "empty", value: "", want: time.Minute},
		{name: "garbage", value: "soon", want: time.Minute},
		{name: "past date", value: "Wed, 21 Oct 2015 07:28:00 GMT", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.value != "" {
				h.Set("Retry-After", tc.value)
			}
			assert.Equal(t, tc.want, retryAfter(h, time.Minute))
		})
	}
}

func TestStaticTokenEmpty(t *testing.T) {
	assert.Nil(t, StaticToken("", "token"))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
