package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/spf13/cobra"
)

func newPathCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Privileged path operations under the storage roots",
	}

	cmd.AddCommand(newPathDeleteCmd(c))

	return cmd
}

func newPathDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a file or directory tree below a storage root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			res := withSpinner(cmd.Context(), app, cmd.ErrOrStderr(), "Deleting...", func(ctx context.Context) domain.Result[struct{}] {
				return app.broker.DeletePath(ctx, args[0])
			})
			if !res.OK() {
				return app.showFailure(cmd, res.Failure)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return err
		},
	}
}
