package main

import (
	"github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"

	"github.com/alimgiray/ghcollect/internal/services"
)

func validState(state string) error {
	return oneOf("state", state, "open", "closed", "all")
}

func newIssuesCmd(a *app) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:     "issues <owner> <repo>",
		Short:   "Collect the issues of a repository, without pull requests",
		Example: "  ghcollect issues golang go --state open --format csv",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validState(state); err != nil {
				return err
			}
			opts := &github.IssueListByRepoOptions{
				State:       state,
				ListOptions: github.ListOptions{PerPage: a.perPage},
			}
			return a.run(cmd, func(svc *services.CollectService) (*services.Report, error) {
				return svc.Issues(cmd.Context(), args[0], args[1], opts)
			})
		},
	}

	cmd.Flags().StringVar(&state, "state", "all", "Issue state: open, closed or all")
	return cmd
}

func newPullRequestsCmd(a *app) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:     "prs <owner> <repo>",
		Aliases: []string{"pulls"},
		Short:   "Collect the pull requests of a repository",
		Example: "  ghcollect prs golang go --state closed",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validState(state); err != nil {
				return err
			}
			opts := &github.PullRequestListOptions{
				State:       state,
				ListOptions: github.ListOptions{PerPage: a.perPage},
			}
			return a.run(cmd, func(svc *services.CollectService) (*services.Report, error) {
				return svc.PullRequests(cmd.Context(), args[0], args[1], opts)
			})
		},
	}

	cmd.Flags().StringVar(&state, "state", "all", "Pull request state: open, closed or all")
	return cmd
}
