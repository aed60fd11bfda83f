package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/bootstrap"
)

var (
	refreshLogKind  string
	refreshLogID    string
	refreshLogLimit int64
)

var refreshLogCmd = &cobra.Command{
	Use:   "refresh-log",
	Short: "Print recent embedding recompute attempts for an entity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, err := parseKind(refreshLogKind)
		if err != nil {
			return err
		}
		return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
			if c.RefreshLogs == nil {
				return errors.New("refresh log unavailable: MONGO_URI not configured or unreachable")
			}
			logs, err := c.RefreshLogs.ListByOwner(ctx, string(kind), refreshLogID, refreshLogLimit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), logs)
		})
	},
}

func init() {
	rootCmd.AddCommand(refreshLogCmd)
	refreshLogCmd.Flags().StringVar(&refreshLogKind, "kind", "", "profile or posting")
	refreshLogCmd.Flags().StringVar(&refreshLogID, "id", "", "entity id")
	refreshLogCmd.Flags().Int64Var(&refreshLogLimit, "limit", 20, "max attempts to print")
	_ = refreshLogCmd.MarkFlagRequired("kind")
	_ = refreshLogCmd.MarkFlagRequired("id")
}
