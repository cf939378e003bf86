package main

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (a *app) vendorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vendors",
		Short: "List the vendor templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.templates()
			if err != nil {
				return err
			}
			tw := tablewriter.NewWriter(os.Stdout)
			tw.SetHeader([]string{"Vendor", "Identifier", "Multiple", "Line items"})
			tw.SetAutoWrapText(false)
			for _, name := range store.List() {
				t, _ := store.Template(name)
				method := "-"
				if t.LineItemConfig != nil {
					method = string(t.LineItemConfig.Method())
				}
				tw.Append([]string{name, t.Identifier, strconv.FormatBool(t.MultipleInvoices), method})
			}
			tw.Render()
			return nil
		},
	}
}
