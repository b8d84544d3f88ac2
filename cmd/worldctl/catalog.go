package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/pkg/sheetimport"
)

func newCatalogCmd(open func() (*backend, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Preview and import spreadsheet catalogs",
	}
	cmd.AddCommand(newCatalogPreviewCmd())
	cmd.AddCommand(newCatalogImportCmd(open))
	return cmd
}

func openSheet(path, sheetName string) (*sheetimport.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return sheetimport.Open(f, sheetName)
}

func newCatalogPreviewCmd() *cobra.Command {
	var (
		sheetName string
		rows      int
	)

	cmd := &cobra.Command{
		Use:   "preview <file.xlsx>",
		Short: "Show the first rows of a workbook and the detected column mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := openSheet(args[0], sheetName)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sheet: %s (%d rows)\n", sheet.Name, len(sheet.Rows))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, row := range sheetimport.Preview(sheet, rows) {
				fmt.Fprintf(tw, "%d\t%s\n", i+1, strings.Join(row, "\t"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			printMapping(out, sheetimport.DetectMapping(sheet))
			return nil
		},
	}
	cmd.Flags().StringVar(&sheetName, "sheet", "", "worksheet name (default first sheet)")
	cmd.Flags().IntVar(&rows, "rows", 10, "number of rows to show")
	return cmd
}

func printMapping(out io.Writer, m *sheetimport.Mapping) {
	if m == nil {
		fmt.Fprintln(out, "Mapping: not detected")
		return
	}
	col := func(p *int) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprintf("%d", *p+1)
	}
	fmt.Fprintf(out, "Mapping: vendor=%s item=%d qty=%d attributes=%s options=%s header=%t start=%d\n",
		col(m.VendorColumn), m.ItemColumn+1, m.QtyColumn+1, col(m.AttrColumn), col(m.OptionsColumn), m.HasHeader, m.StartRow+1)
}

func newCatalogImportCmd(open func() (*backend, error)) *cobra.Command {
	var sheetName string

	cmd := &cobra.Command{
		Use:   "import <world> <file.xlsx>",
		Short: "Replace a world's catalog with the contents of a workbook",
		Long: `Replace a world's catalog with the contents of a workbook. Columns are
detected from the header row or, failing that, from the cell contents.

Examples:
  worldctl catalog import AB12CD34 menu.xlsx
  worldctl catalog import '#12' menu.xlsx --sheet 進貨`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := resolveWorld(args[0])
			if err != nil {
				return err
			}
			sheet, err := openSheet(args[1], sheetName)
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
			catalog, err := b.worlds.ImportCatalog(cmd.Context(), world.ID, sheet, nil)
			if err != nil {
				return fmt.Errorf("import into %s failed: %w", world.DisplayName(), err)
			}

			printCatalog(cmd.OutOrStdout(), world, catalog)
			return nil
		},
	}
	cmd.Flags().StringVar(&sheetName, "sheet", "", "worksheet name (default first sheet)")
	return cmd
}

func printCatalog(out io.Writer, world *domain.World, catalog *domain.VendorMap) {
	fmt.Fprintf(out, "Imported %d items into %s (%s)\n", catalog.ItemCount(), world.DisplayName(), world.Code)
	for _, v := range catalog.Vendors {
		fmt.Fprintf(out, "  %s\n", v.Name)
		for _, it := range v.Items {
			fmt.Fprintf(out, "    %s %d\n", it.Name, it.Entry.Quantity())
		}
	}
}
