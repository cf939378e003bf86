// Command invoices extracts invoice records from vendor PDFs with trained
// per-vendor templates.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg    *common.Config
	logger *slog.Logger

	jsonLogs      bool
	silent        bool
	templatesPath string
	dbURL         string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "invoices",
		Short:        "Template-driven invoice extraction",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	pf := root.PersistentFlags()
	pf.BoolVar(&a.jsonLogs, "json-logs", false, "log as JSON")
	pf.BoolVar(&a.silent, "silent", false, "only log errors and never prompt")
	pf.StringVar(&a.templatesPath, "templates", "", "vendor template file (default $TEMPLATES_PATH)")
	pf.StringVar(&a.dbURL, "db", "", "record store DSN (default $DB_URL)")

	root.AddCommand(
		a.extractCmd(),
		a.trainCmd(),
		a.trainItemsCmd(),
		a.vendorsCmd(),
		a.watchCmd(),
		a.exportCmd(),
		a.itemsCmd(),
		a.dbHealthCmd(),
	)
	return root
}

func (a *app) init() error {
	a.cfg = common.LoadConfig()
	if a.templatesPath != "" {
		a.cfg.Templates.Path = a.templatesPath
	}
	if a.dbURL != "" {
		a.cfg.Database.DSN = a.dbURL
	}

	level := a.cfg.LogLevel
	if a.silent {
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if a.jsonLogs {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	a.logger = slog.New(h)
	slog.SetDefault(a.logger)

	if err := a.cfg.Validate(); err != nil {
		a.logger.Error("invalid configuration", "error", err)
		return err
	}
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
}
