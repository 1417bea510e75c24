package cli

import (
	"fmt"

	usersvc "mycarts/internal/service/user"

	"github.com/spf13/cobra"
)

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	var guest, withToken bool
	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if withToken {
				if err := a.checkTokenSecret(); err != nil {
					return err
				}
			}
			u, err := a.backend.Users.Create(cmd.Context(), usersvc.CreateInput{Username: args[0], Guest: guest})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			a.log.Info("user created", "username", u.Username, "id", u.ID, "guest", u.Guest)
			fmt.Fprintln(cmd.OutOrStdout(), u.ID)
			if !withToken {
				return nil
			}
			token, err := a.backend.Users.IssueToken(cmd.Context(), u.Username)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	create.Flags().BoolVar(&guest, "guest", false, "mark the user as a guest")
	create.Flags().BoolVar(&withToken, "token", false, "also print a bearer token")

	del := &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user; their carts are kept without an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.backend.Users.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete user %s: %w", args[0], err)
			}
			a.log.Info("user deleted", "username", args[0])
			return nil
		},
	}

	token := &cobra.Command{
		Use:   "token <username>",
		Short: "Print a bearer token for an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkTokenSecret(); err != nil {
				return err
			}
			t, err := a.backend.Users.IssueToken(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}

	cmd.AddCommand(create, del, token)
	return cmd
}
