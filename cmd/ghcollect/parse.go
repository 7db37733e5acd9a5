package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alimgiray/ghcollect/internal/models"
	"github.com/alimgiray/ghcollect/internal/services"
)

func newParseCmd(a *app) *cobra.Command {
	var dataType string

	cmd := &cobra.Command{
		Use:   "parse <raw.json>",
		Short: "Normalize a saved raw API response",
		Long: `Normalize a raw GitHub API response saved to a file and export it in the
selected format. With --type auto the data type is detected from the keys
of the first record.`,
		Example: "  ghcollect parse dump.json --type issues --format markdown",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseType(dataType)
			if err != nil {
				return err
			}
			return a.run(cmd, func(svc *services.CollectService) (*services.Report, error) {
				return svc.Normalize(args[0], kind)
			})
		},
	}

	cmd.Flags().StringVarP(&dataType, "type", "t", "auto", "Data type: auto, repos, issues, prs, profile or trending")
	return cmd
}

// parseType maps --type to a kind; auto becomes the empty kind.
func parseType(s string) (models.Kind, error) {
	if s == "auto" || s == "" {
		return "", nil
	}
	kind, err := models.ParseKind(s)
	if err != nil || kind == models.KindUnknown {
		return "", fmt.Errorf("invalid --type %q", s)
	}
	return kind, nil
}
