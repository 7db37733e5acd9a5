package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/ghcollect/internal/models"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "ghcollect", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotEmpty(t, cmd.Version)

	for _, name := range []string{"format", "config", "preview", "strict", "per-page"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
	assert.Equal(t, "100", cmd.PersistentFlags().Lookup("per-page").DefValue)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"repos", "issues", "prs", "profile", "trending", "snapshot", "parse", "version"})
}

// testEnv points the configuration at server and a temporary output directory.
func testEnv(t *testing.T, server *httptest.Server) string {
	t.Helper()
	out := t.TempDir()

	apiURL := "http://127.0.0.1:1"
	if server != nil {
		apiURL = server.URL
	}
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_API_URL", apiURL)
	t.Setenv("GITHUB_WEB_URL", apiURL)
	t.Setenv("OUTPUT_DIR", out)
	t.Setenv("OUTPUT_FORMAT", "")
	t.Setenv("RATE_LIMIT_DELAY", "0")
	t.Setenv("SCRAPER_DELAY", "0")
	t.Setenv("MAX_RETRIES", "0")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	return out
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 1, "login": "octocat", "name": "The Octocat", "public_repos": 2}`))
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1, "name": "hello", "full_name": "octocat/hello"}]`))
	})
	mux.HandleFunc("/users/broken/repos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "boom"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRootWithoutCommand(t *testing.T) {
	testEnv(t, nil)

	out, err := execute(t)
	require.ErrorIs(t, err, errNoCommand)
	assert.Contains(t, out, "Usage:")
}

func TestProfileCommand(t *testing.T) {
	dir := testEnv(t, newAPIServer(t))

	out, err := execute(t, "profile", "octocat")
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "octocat_profile.json"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"login": "octocat"`)
}

func TestReposCommandWithPreview(t *testing.T) {
	dir := testEnv(t, newAPIServer(t))

	out, err := execute(t, "repos", "octocat", "--format", "csv", "--preview", "5")
	require.NoError(t, err)

	assert.Contains(t, out, filepath.Join(dir, "octocat_repos.csv"))
	assert.Contains(t, out, "octocat/hello")
}

func TestStrictMode(t *testing.T) {
	dir := testEnv(t, newAPIServer(t))

	out, err := execute(t, "repos", "broken")
	require.NoError(t, err, "suppressed errors do not fail the command")
	assert.Contains(t, out, filepath.Join(dir, "broken_repos.json"))

	_, err = execute(t, "repos", "broken", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 collection errors")
}

func TestSnapshotCommand(t *testing.T) {
	dir := testEnv(t, newAPIServer(t))

	out, err := execute(t, "snapshot", "octocat", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		filepath.Join(dir, "octocat_profile.json"),
		filepath.Join(dir, "octocat_repos.json"),
	}, lines)
}

func TestParseCommand(t *testing.T) {
	dir := testEnv(t, nil)

	raw := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(raw, []byte(`[{"id": 7, "number": 3, "title": "crash", "state": "open", "pull_request": null}]`), 0o600))

	out, err := execute(t, "parse", raw, "--format", "markdown")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dump_issues.md"), strings.TrimSpace(out))

	out, err = execute(t, "parse", raw, "--type", "prs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dump_prs.json"), strings.TrimSpace(out))
}

func TestInvalidFlags(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "format", args: []string{"profile", "octocat", "--format", "xml"}, want: "xml"},
		{name: "since", args: []string{"trending", "--since", "yearly"}, want: "invalid --since"},
		{name: "state", args: []string{"issues", "golang", "go", "--state", "merged"}, want: "invalid --state"},
		{name: "sort", args: []string{"repos", "octocat", "--sort", "stars"}, want: "invalid --sort"},
		{name: "direction", args: []string{"repos", "octocat", "--direction", "up"}, want: "invalid --direction"},
		{name: "type", args: []string{"parse", "x.json", "--type", "commits"}, want: "invalid --type"},
		{name: "missing args", args: []string{"issues", "golang"}, want: "accepts 2 arg(s)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testEnv(t, nil)

			_, err := execute(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseType(t *testing.T) {
	testCases := []struct {
		input   string
		want    models.Kind
		wantErr bool
	}{
		{input: "auto", want: ""},
		{input: "repos", want: models.KindRepos},
		{input: "prs", want: models.KindPullRequests},
		{input: "trending", want: models.KindTrending},
		{input: "unknown", wantErr: true},
		{input: "commits", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parseType(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ghcollect "))
}
