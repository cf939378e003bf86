package main

import (
	"time"

	"github.com/spf13/cobra"
)

func (a *app) dbHealthCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "dbhealth",
		Short: "Check that the record store is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _, err := a.records(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.HealthCheck(cmd.Context(), timeout); err != nil {
				a.logger.Error("database health check failed", "error", err)
				return err
			}
			a.logger.Info("database health check passed", "dialect", db.Dialect())
			a.printf("OK (%s)\n", db.Dialect())
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "ping timeout")
	return cmd
}
