package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
)

const dateFlagLayout = "2006-01-02"

func (a *app) exportCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the invoice and item workbooks from the record store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fromT, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			toT, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}
			db, store, err := a.records(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			return a.exportWorkbooks(cmd.Context(), store, fromT, toT)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first invoice date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last invoice date, YYYY-MM-DD")
	return cmd
}

func parseDateFlag(name, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateFlagLayout, v)
	if err != nil {
		return nil, fmt.Errorf("--%s %q: %w", name, v, common.ErrInvalidInput)
	}
	return &t, nil
}
