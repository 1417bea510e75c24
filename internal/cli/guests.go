package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) guestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guests",
		Short: "Manage guest accounts",
	}

	var age time.Duration
	reap := &cobra.Command{
		Use:   "reap",
		Short: "Remove guest users older than --age (defaults to GUEST_MAX_AGE)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("age") {
				age = a.cfg.GuestMaxAge
			}
			removed, err := a.backend.Users.ReapGuests(cmd.Context(), age)
			if err != nil {
				return err
			}
			a.log.Info("reaped guests", "removed", removed, "age", age.String())
			fmt.Fprintln(cmd.OutOrStdout(), removed)
			return nil
		},
	}
	reap.Flags().DurationVar(&age, "age", 0, "minimum guest age, e.g. 24h")

	cmd.AddCommand(reap)
	return cmd
}
