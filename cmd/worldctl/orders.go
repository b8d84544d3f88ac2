package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOrdersCmd(open func() (*backend, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Maintain the live order ledger",
	}
	cmd.AddCommand(newOrdersClearCmd(open))
	return cmd
}

func newOrdersClearCmd(open func() (*backend, error)) *cobra.Command {
	var (
		worldToken string
		confirm    bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete live order rows; order history is kept",
		Long: `Delete live order rows, for one world or for every world. Order history is
kept, so daily queries still answer.

Examples:
  worldctl orders clear --world AB12CD34 --yes
  worldctl orders clear --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to clear orders without --yes")
			}

			b, err := open()
			if err != nil {
				return err
			}
			defer b.close()

			var worldID *int64
			scope := "every world"
			if worldToken != "" {
				ref, err := resolveWorld(worldToken)
				if err != nil {
					return err
				}
				world, err := b.worlds.FindWorld(cmd.Context(), ref)
				if err != nil {
					return err
				}
				worldID = &world.ID
				scope = world.DisplayName()
			}

			n, err := b.ledger.ClearAllOrders(cmd.Context(), worldID)
			if err != nil {
				return fmt.Errorf("failed to clear orders: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d live order rows for %s\n", n, scope)
			return nil
		},
	}
	cmd.Flags().StringVar(&worldToken, "world", "", "world id or share code (default every world)")
	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm the deletion")
	return cmd
}
