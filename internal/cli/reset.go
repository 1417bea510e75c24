package cli

import (
	"fmt"

	"mycarts/internal/seed"

	"github.com/spf13/cobra"
)

func (a *app) resetCmd() *cobra.Command {
	var withDemo bool
	cmd := &cobra.Command{
		Use:   "reset [username...]",
		Short: "Delete all carts and activity plus the named users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := seed.Reset(cmd.Context(), a.backend.Stores, args...); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			a.log.Info("fixtures reset", "users", len(args))
			if !withDemo {
				return nil
			}
			demo, err := seed.Apply(cmd.Context(), a.backend.Stores)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), demo.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withDemo, "demo", false, "insert the demo user and carts afterwards")
	return cmd
}
