package cmd

import (
	"fmt"
	"io"
	"strings"

	configtoml "github.com/bnema/rootbroker/internal/adapters/config/toml"
	"github.com/bnema/rootbroker/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(c),
		newConfigWatchCmd(c),
	)

	return cmd
}

func newConfigShowCmd(c *cli) *cobra.Command {
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the settings after defaults, config file and RB_* overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := c.app.settings.Current()

			if asTOML {
				data, err := configtoml.Encode(settings)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			return writeSettings(cmd.OutOrStdout(), c.app.loader.ConfigFile(), settings)
		},
	}

	cmd.Flags().BoolVar(&asTOML, "toml", false, "Render as a config file")

	return cmd
}

func newConfigWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the settings again every time the config file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := c.app
			path := app.loader.ConfigFile()
			if path == "" {
				return fmt.Errorf("no config file to watch")
			}

			unsubscribe := app.settings.Subscribe(func(settings domain.Settings) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "--- reloaded")
				_ = writeSettings(cmd.OutOrStdout(), path, settings)
			})
			defer unsubscribe()

			app.loader.Watch(func(settings domain.Settings, err error) {
				if err != nil {
					app.logger.Warn("config reload rejected", zap.String("file", path), zap.Error(err))
					return
				}
				if c.opts.debug {
					settings.Debug = true
				}
				if err := app.settings.Update(settings); err != nil {
					app.logger.Warn("config reload rejected", zap.String("file", path), zap.Error(err))
				}
			})

			if err := writeSettings(cmd.OutOrStdout(), path, app.settings.Current()); err != nil {
				return err
			}

			<-cmd.Context().Done()
			return nil
		},
	}
}

func writeSettings(w io.Writer, path string, settings domain.Settings) error {
	if path == "" {
		path = "(none)"
	}

	lines := []string{
		fmt.Sprintf("config_file: %s", path),
		fmt.Sprintf("open_timeout: %s", settings.OpenTimeout),
		fmt.Sprintf("grace_period: %s", settings.GracePeriod),
		fmt.Sprintf("elevation: %s", settings.Elevation),
		fmt.Sprintf("su_path: %s", settings.SuPath),
		fmt.Sprintf("roots: %s", strings.Join(settings.Roots, ", ")),
		fmt.Sprintf("user_source: %s", settings.UserSource),
		fmt.Sprintf("debug: %t", settings.Debug),
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
