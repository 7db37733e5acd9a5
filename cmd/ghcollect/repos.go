package main

import (
	"github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"

	"github.com/alimgiray/ghcollect/internal/services"
)

type reposFlags struct {
	includePrivate bool
	sort           string
	direction      string
}

func newReposCmd(a *app) *cobra.Command {
	f := &reposFlags{}

	cmd := &cobra.Command{
		Use:   "repos <username>",
		Short: "Collect the repositories of a user",
		Example: `  ghcollect repos torvalds
  ghcollect repos octocat --sort pushed --direction asc --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(a.perPage)
			if err != nil {
				return err
			}
			return a.run(cmd, func(svc *services.CollectService) (*services.Report, error) {
				return svc.Repos(cmd.Context(), args[0], opts)
			})
		},
	}

	cmd.Flags().BoolVar(&f.includePrivate, "include-private", false, "Include private repositories visible to the token")
	cmd.Flags().StringVar(&f.sort, "sort", "updated", "Sort by created, updated, pushed or full_name")
	cmd.Flags().StringVar(&f.direction, "direction", "desc", "Sort direction, asc or desc")

	return cmd
}

func (f *reposFlags) options(perPage int) (*github.RepositoryListByUserOptions, error) {
	if err := oneOf("sort", f.sort, "created", "updated", "pushed", "full_name"); err != nil {
		return nil, err
	}
	if err := oneOf("direction", f.direction, "asc", "desc"); err != nil {
		return nil, err
	}

	visibility := "public"
	if f.includePrivate {
		visibility = "all"
	}
	return &github.RepositoryListByUserOptions{
		Type:        visibility,
		Sort:        f.sort,
		Direction:   f.direction,
		ListOptions: github.ListOptions{PerPage: perPage},
	}, nil
}
