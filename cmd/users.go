package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	usersrender "github.com/bnema/rootbroker/internal/adapters/render/users"
	"github.com/bnema/rootbroker/internal/application"
	"github.com/bnema/rootbroker/internal/domain"
	"github.com/spf13/cobra"
)

type userJSON struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type selectionJSON struct {
	Users      []userJSON `json:"users"`
	Previous   int        `json:"previous"`
	SelectedID int        `json:"selected_id"`
	Changed    bool       `json:"changed"`
	NoUsers    bool       `json:"no_users"`
}

func newUsersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Enumerate device users through the root service",
	}

	cmd.AddCommand(
		newUsersListCmd(c),
		newUsersSelectCmd(c),
	)

	return cmd
}

func newUsersListCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List device users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := c.app
			res := withSpinner(cmd.Context(), app, cmd.ErrOrStderr(), "Listing users...", func(ctx context.Context) domain.Result[[]domain.User] {
				return app.broker.ListUsers(ctx)
			})
			if !res.OK() {
				return app.showFailure(cmd, res.Failure)
			}

			if asJSON {
				return writeJSON(cmd, toUsersJSON(res.Value))
			}

			output, err := app.renderUsers(usersrender.View{Users: res.Value, Selected: -1})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newUsersSelectCmd(c *cli) *cobra.Command {
	var (
		current string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Re-enumerate users and reconcile a previously selected user id",
		Long:  "select lists the device users again and keeps --current when that user still exists. Otherwise it falls back to the first user and reports the change. With no users at all the current id is kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := domain.ParseUserID(current)
			if err != nil {
				return err
			}

			app := c.app
			res := withSpinner(cmd.Context(), app, cmd.ErrOrStderr(), "Listing users...", func(ctx context.Context) domain.Result[application.Selection] {
				return app.selection.Refresh(ctx, id)
			})
			if !res.OK() {
				return app.showFailure(cmd, res.Failure)
			}
			selection := res.Value

			if asJSON {
				return writeJSON(cmd, selectionJSON{
					Users:      toUsersJSON(selection.Users),
					Previous:   int(selection.Previous),
					SelectedID: int(selection.SelectedID),
					Changed:    selection.Changed,
					NoUsers:    selection.NoUsers,
				})
			}

			view := usersrender.View{Users: selection.Users, Selected: selection.Index}
			if selection.Changed {
				view.Previous = &selection.Previous
			}

			output, err := app.renderUsers(view)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().StringVar(&current, "current", "0", "Previously selected user id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func toUsersJSON(users []domain.User) []userJSON {
	out := make([]userJSON, 0, len(users))
	for _, user := range users {
		out = append(out, userJSON{ID: int(user.ID), Name: user.Name, Label: user.Label()})
	}

	return out
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
