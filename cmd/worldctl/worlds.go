package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/worldorder/worldorder/internal/command"
)

func newWorldsCmd(open func() (*backend, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worlds",
		Short: "Inspect worlds",
	}
	cmd.AddCommand(newWorldsListCmd(open))
	cmd.AddCommand(newWorldsQRCmd(open))
	return cmd
}

func newWorldsListCmd(open func() (*backend, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every world with its share code and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := open()
			if err != nil {
				return err
			}
			defer b.close()

			worlds, err := b.worlds.ListWorlds(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list worlds: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCODE\tNAME\tSTATUS\tOWNER\tITEMS")
			for _, w := range worlds {
				items := 0
				if w.Catalog != nil {
					items = w.Catalog.ItemCount()
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n", w.ID, w.Code, w.DisplayName(), w.Status, w.OwnerUserID, items)
			}
			return tw.Flush()
		},
	}
}

func newWorldsQRCmd(open func() (*backend, error)) *cobra.Command {
	var (
		out  string
		size int
	)

	cmd := &cobra.Command{
		Use:   "qr <world>",
		Short: "Write a QR code PNG that joins the world when scanned",
		Long: `Write a QR code PNG encoding the join phrase for a world's share code, for
posting where employees can scan it.

Examples:
  worldctl worlds qr AB12CD34 --out join.png
  worldctl worlds qr '#12' --size 512`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := resolveWorld(args[0])
			if err != nil {
				return err
			}

			b, err := open()
			if err != nil {
				return err
			}
			defer b.close()

			world, err := b.worlds.FindWorld(cmd.Context(), ref)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = fmt.Sprintf("world-%s.png", world.Code)
			}
			if err := writeShareQR(world.Code, path, size); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s for %s (%s)\n", path, world.DisplayName(), world.Code)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default world-<code>.png)")
	cmd.Flags().IntVar(&size, "size", 256, "image size in pixels")
	return cmd
}

// joinPhrase is the chat message that binds the sender to the world
func joinPhrase(code string) string {
	return command.DefaultKeywords().JoinWorld[0] + " " + code
}

func writeShareQR(code, path string, size int) error {
	if size <= 0 {
		return fmt.Errorf("size must be positive")
	}
	if err := qrcode.WriteFile(joinPhrase(code), qrcode.Medium, size, path); err != nil {
		return fmt.Errorf("failed to write QR code: %w", err)
	}
	return nil
}
