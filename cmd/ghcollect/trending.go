package main

import (
	"github.com/spf13/cobra"

	"github.com/alimgiray/ghcollect/internal/collectors"
	"github.com/alimgiray/ghcollect/internal/services"
)

func newTrendingCmd(a *app) *cobra.Command {
	var language, since string

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Scrape the GitHub trending page",
		Example: `  ghcollect trending
  ghcollect trending --language go --since weekly --preview 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := oneOf("since", since, collectors.SinceDaily, collectors.SinceWeekly, collectors.SinceMonthly); err != nil {
				return err
			}
			return a.run(cmd, func(svc *services.CollectService) (*services.Report, error) {
				return svc.Trending(cmd.Context(), language, since)
			})
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Programming language, empty for all languages")
	cmd.Flags().StringVarP(&since, "since", "s", collectors.SinceDaily, "Time range: daily, weekly or monthly")
	return cmd
}
