package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/spf13/cobra"
)

func newFileCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Read or write privileged files under the storage roots",
	}

	cmd.AddCommand(
		newFileReadCmd(c),
		newFileWriteCmd(c),
	)

	return cmd
}

func newFileReadCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "read <path>",
		Short: "Write the content of a privileged file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.app
			res := withSpinner(cmd.Context(), app, cmd.ErrOrStderr(), "Reading...", func(ctx context.Context) domain.Result[[]byte] {
				return app.broker.ReadFile(ctx, args[0])
			})
			if !res.OK() {
				return app.showFailure(cmd, res.Failure)
			}

			_, err := cmd.OutOrStdout().Write(res.Value)
			return err
		},
	}
}

func newFileWriteCmd(c *cli) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "write <path>",
		Short: "Replace a privileged file with the content read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			perm, err := parseFileMode(mode)
			if err != nil {
				return err
			}

			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			app := c.app
			res := withSpinner(cmd.Context(), app, cmd.ErrOrStderr(), "Writing...", func(ctx context.Context) domain.Result[struct{}] {
				return app.broker.WriteFile(ctx, args[0], data, perm)
			})
			if !res.OK() {
				return app.showFailure(cmd, res.Failure)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), args[0])
			return err
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "0644", "Octal file mode")

	return cmd
}

func parseFileMode(raw string) (fs.FileMode, error) {
	value, err := strconv.ParseUint(raw, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("parse --mode %q: %w", raw, err)
	}
	if value > uint64(fs.ModePerm) {
		return 0, fmt.Errorf("parse --mode %q: only permission bits are allowed", raw)
	}

	return fs.FileMode(value), nil
}
