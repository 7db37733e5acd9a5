package main

import (
	"github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"

	"github.com/alimgiray/ghcollect/internal/services"
)

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <username>",
		Short: "Collect the public profile of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(svc *services.CollectService) (*services.Report, error) {
				return svc.Profile(cmd.Context(), args[0])
			})
		},
	}
}

// snapshot always writes JSON, whatever --format says.
func newSnapshotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <username>",
		Short: "Write the profile and public repositories of a user as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &github.RepositoryListByUserOptions{
				ListOptions: github.ListOptions{PerPage: a.perPage},
			}
			return a.run(cmd, func(svc *services.CollectService) (*services.Report, error) {
				return svc.Snapshot(cmd.Context(), args[0], opts)
			})
		},
	}
}
