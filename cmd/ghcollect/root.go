package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alimgiray/ghcollect/internal/collectors"
	"github.com/alimgiray/ghcollect/internal/exporters"
	"github.com/alimgiray/ghcollect/internal/services"
	"github.com/alimgiray/ghcollect/pkg/config"
	"github.com/alimgiray/ghcollect/pkg/logger"
)

var errNoCommand = errors.New("no command given")

// app holds the state shared by all commands of one invocation
type app struct {
	configPath string
	format     string
	preview    int
	strict     bool
	perPage    int

	cfg          *config.Config
	outputFormat exporters.Format
	log          *logrus.Entry
}

// NewRootCmd creates the root command for ghcollect.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ghcollect",
		Short: "Collect data from the GitHub API and trending page",
		Long: `ghcollect collects repositories, issues, pull requests and user profiles
from the GitHub REST API, and trending repositories from github.com/trending.
Records are normalized to a flat, stable shape and written to the output
directory as JSON, CSV, XLSX or Markdown.

Set GITHUB_TOKEN to raise the API rate limit from 60 to 5000 requests per hour.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return errNoCommand
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.format, "format", "",
		fmt.Sprintf("Output format: %s (default from OUTPUT_FORMAT, else json)", formatNames()))
	flags.StringVarP(&a.configPath, "config", "c", "",
		"Path to a YAML config file (default "+config.DefaultConfigPath()+")")
	flags.IntVar(&a.preview, "preview", 0, "Print the first N records as a table")
	flags.BoolVar(&a.strict, "strict", false, "Exit with status 1 when any page or row could not be collected")
	flags.IntVar(&a.perPage, "per-page", collectors.MaxPerPage, "Results per API page (at most 100)")

	cmd.AddCommand(newReposCmd(a))
	cmd.AddCommand(newIssuesCmd(a))
	cmd.AddCommand(newPullRequestsCmd(a))
	cmd.AddCommand(newProfileCmd(a))
	cmd.AddCommand(newTrendingCmd(a))
	cmd.AddCommand(newSnapshotCmd(a))
	cmd.AddCommand(newParseCmd(a))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()

	if err != nil {
		a.fail(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	format := cfg.Output.Format
	if a.format != "" {
		format = a.format
	}
	a.outputFormat, err = exporters.ParseFormat(format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.ForRun(logger.New(stderr, cfg.Log.Level, cfg.Log.Format))
	a.log.WithField("config", a.configPath).Debug("Configuration loaded")
	return nil
}

// fail reports a fatal error once, through the logger when it exists.
func (a *app) fail(stderr io.Writer, err error) {
	if a.log != nil && !errors.Is(err, errNoCommand) {
		a.log.WithError(err).Error("Command failed")
		return
	}
	fmt.Fprintln(stderr, "Error:", err)
}

func (a *app) collectorOptions(baseURL string, delay time.Duration) collectors.Options {
	if delay == 0 {
		delay = -1
	}
	return collectors.Options{
		BaseURL:      baseURL,
		Token:        a.cfg.GitHub.Token,
		UserAgent:    a.cfg.HTTP.UserAgent,
		RequestDelay: delay,
		MaxRetries:   a.cfg.HTTP.MaxRetries,
		Timeout:      a.cfg.TimeoutDuration(),
		Logger:       a.log,
	}
}

// newService wires collectors and exporters for one command. The returned
// func releases their connections.
func (a *app) newService() (*services.CollectService, func(), error) {
	collector := collectors.NewGitHubCollector(a.collectorOptions(a.cfg.GitHub.APIURL, a.cfg.RequestDelayDuration()))

	scraperOpts := a.collectorOptions(a.cfg.GitHub.WebURL, a.cfg.ScraperDelayDuration())
	scraperOpts.Token = ""
	scraper := collectors.NewGitHubScraper(scraperOpts)

	cleanup := func() {
		collector.Close()
		scraper.Close()
	}

	exporter, err := exporters.New(a.outputFormat, a.cfg.Output.Dir, a.log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	snapshots, err := exporters.NewJSONExporter(a.cfg.Output.Dir, a.log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return services.NewCollectService(collector, scraper, exporter, snapshots, a.log), cleanup, nil
}

// run builds the service, runs fn and reports its result.
func (a *app) run(cmd *cobra.Command, fn func(*services.CollectService) (*services.Report, error)) error {
	svc, cleanup, err := a.newService()
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := fn(svc)
	if err != nil {
		return err
	}
	return a.report(cmd.OutOrStdout(), report)
}

// report prints the written paths and the optional preview. Suppressed
// errors only fail the command in strict mode.
func (a *app) report(out io.Writer, report *services.Report) error {
	paths := report.Paths
	if len(paths) == 0 {
		paths = []string{report.Path}
	}
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}

	if err := exporters.Preview(out, report.Data, a.preview); err != nil {
		a.log.WithError(err).Warn("Failed to render preview")
	}

	if !report.Partial() {
		return nil
	}
	a.log.WithField("errors", len(report.Errors)).Warn("Some data could not be collected, output may be incomplete")
	if a.strict {
		return fmt.Errorf("%d collection errors: %w", len(report.Errors), errors.Join(report.Errors...))
	}
	return nil
}

func formatNames() string {
	names := make([]string, 0, len(exporters.Formats()))
	for _, f := range exporters.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, "|")
}

// oneOf checks a flag value against its allowed values.
func oneOf(flag, value string, allowed ...string) error {
	for _, v := range allowed {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("invalid --%s %q: must be one of %s", flag, value, strings.Join(allowed, ", "))
}
