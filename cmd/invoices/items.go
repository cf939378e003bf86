package main

import (
	"errors"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/export"
	"github.com/joseph-ayodele/invoices-tracker/internal/repository"
)

func (a *app) itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Query the item database",
	}
	cmd.AddCommand(
		a.itemsQueryCmd("part PART_NUMBER", "Purchases of a part", func(s *repository.Store, cmd *cobra.Command, arg string) error {
			items, err := s.ItemsByPartNumber(cmd.Context(), arg)
			if err != nil {
				return err
			}
			a.printItems(items)
			return nil
		}),
		a.itemsQueryCmd("vendor NAME", "Items bought from a vendor", func(s *repository.Store, cmd *cobra.Command, arg string) error {
			items, err := s.ItemsByVendor(cmd.Context(), arg)
			if err != nil {
				return err
			}
			a.printItems(items)
			return nil
		}),
		a.itemsQueryCmd("lowest PART_NUMBER", "Lowest unit price of a part per vendor", func(s *repository.Store, cmd *cobra.Command, arg string) error {
			prices, err := s.LowestPriceByVendor(cmd.Context(), arg)
			if err != nil {
				return err
			}
			tw := newTable("Vendor", "Lowest price")
			for _, p := range prices {
				tw.Append([]string{p.Vendor, p.LowestPrice.StringFixed(2)})
			}
			tw.Render()
			return nil
		}),
		a.itemsQueryCmd("history PART_NUMBER", "Price history of a part", func(s *repository.Store, cmd *cobra.Command, arg string) error {
			points, err := s.PriceHistory(cmd.Context(), arg)
			if err != nil {
				return err
			}
			tw := newTable("Date", "Vendor", "Invoice", "Qty", "Unit price")
			for _, p := range points {
				tw.Append([]string{export.SheetName(p.Date), p.Vendor, p.InvoiceNumber, p.Quantity.String(), p.UnitPrice.StringFixed(2)})
			}
			tw.Render()
			return nil
		}),
		a.renameCmd(),
	)
	return cmd
}

type itemsQuery func(s *repository.Store, cmd *cobra.Command, arg string) error

func (a *app) itemsQueryCmd(use, short string, run itemsQuery) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, err := a.records(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			return run(store, cmd, args[0])
		},
	}
}

func (a *app) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename PART_NUMBER DESCRIPTION",
		Short: "Set the custom description of every line item of a part",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, err := a.records(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := store.UpdateCustomDescription(cmd.Context(), args[0], args[1])
			if errors.Is(err, common.ErrNotFound) {
				a.printf("No line items for part %s\n", args[0])
				return err
			}
			if err != nil {
				return err
			}
			a.printf("Updated %d line items\n", n)
			return nil
		},
	}
}

func newTable(header ...string) *tablewriter.Table {
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader(header)
	tw.SetAutoWrapText(false)
	return tw
}

func (a *app) printItems(items []entity.LineItem) {
	tw := newTable("Date", "Vendor", "Invoice", "Part", "Description", "Qty", "Unit price", "Total")
	for _, it := range items {
		tw.Append([]string{
			export.SheetName(it.Date), it.Vendor, it.InvoiceNumber, it.PartNumber,
			it.CustomDescription, it.Quantity.String(), it.UnitPrice.StringFixed(2), it.TotalPrice.StringFixed(2),
		})
	}
	tw.Render()
}
