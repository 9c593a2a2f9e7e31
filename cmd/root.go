package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

const annotationSkipWire = "rootbroker/skip-wire"

type globalOptions struct {
	configFile string
	debug      bool
}

// cli carries the wired collaborators to every subcommand. app is set by the
// root command's PersistentPreRunE.
type cli struct {
	opts globalOptions
	app  *app
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer stop()

	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errNoticeShown) {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}

	return err
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "rb",
		Short:         "rootbroker (rb): run privileged file and user operations through a scoped root session",
		Long:          "rb opens a short-lived root session for each request, runs one privileged operation (list device users, delete, read or write files under the configured storage roots) and tears the session down again.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationSkipWire] != "" {
				return nil
			}

			app, err := wireApp(wireOptions{configFile: c.opts.configFile, debug: c.opts.debug})
			if err != nil {
				return err
			}
			c.app = app

			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c.app != nil {
				_ = c.app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.opts.configFile, "config", "", "Config file (default $HOME/.config/rootbroker/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&c.opts.debug, "debug", false, "Log debug output and append failure details to notices")

	rootCmd.AddCommand(
		newVersionCmd(),
		newUsersCmd(c),
		newPathCmd(c),
		newFileCmd(c),
		newConfigCmd(c),
		newRootServiceCmd(),
	)

	return rootCmd
}
