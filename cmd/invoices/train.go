package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoices-tracker/internal/training"
)

type trainFlags struct {
	vendor    string
	pdf       string
	lineItems bool
	script    string
}

func (a *app) trainCmd() *cobra.Command {
	var f trainFlags
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Build or update a vendor template from a sample document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTrain(cmd.Context(), f, training.Options{Vendor: f.vendor, LineItems: f.lineItems})
		},
	}
	cmd.Flags().StringVar(&f.vendor, "vendor", "", "vendor name (asked when empty)")
	cmd.Flags().StringVar(&f.pdf, "pdf", "", "sample document")
	cmd.Flags().BoolVar(&f.lineItems, "line-items", false, "also train line-item extraction")
	cmd.Flags().StringVar(&f.script, "script", "", "YAML file of prepared answers")
	_ = cmd.MarkFlagRequired("pdf")
	return cmd
}

func (a *app) trainItemsCmd() *cobra.Command {
	var f trainFlags
	cmd := &cobra.Command{
		Use:   "train-items",
		Short: "Train line-item extraction for an existing vendor template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTrain(cmd.Context(), f, training.Options{Vendor: f.vendor, LineItemsOnly: true})
		},
	}
	cmd.Flags().StringVar(&f.vendor, "vendor", "", "vendor name")
	cmd.Flags().StringVar(&f.pdf, "pdf", "", "sample document")
	cmd.Flags().StringVar(&f.script, "script", "", "YAML file of prepared answers")
	_ = cmd.MarkFlagRequired("vendor")
	_ = cmd.MarkFlagRequired("pdf")
	return cmd
}

func (a *app) runTrain(ctx context.Context, f trainFlags, opts training.Options) error {
	store, err := a.templates()
	if err != nil {
		return err
	}
	doc, err := a.opener().Open(ctx, f.pdf)
	if err != nil {
		a.logger.Error("train.open.failed", "path", f.pdf, "error", err)
		return err
	}

	var p training.Prompter = training.NewTerminalPrompter(os.Stdin, os.Stdout)
	if f.script != "" {
		if p, err = training.LoadScript(f.script); err != nil {
			return err
		}
	}

	report, err := training.New(store, a.logger).Train(ctx, doc, p, opts)
	if err != nil {
		return err
	}
	a.printf("Saved template for %s to %s\n", report.Vendor, a.cfg.Templates.Path)
	if len(report.Abandoned) > 0 {
		a.printf("No pattern could be built for: %s\n", strings.Join(report.Abandoned, ", "))
	}
	if report.Template.LineItemConfig != nil {
		a.printf("Line items: %s\n", report.Template.LineItemConfig.ExtractionMethod)
	}
	return nil
}
