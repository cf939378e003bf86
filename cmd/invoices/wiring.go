package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joseph-ayodele/invoices-tracker/internal/document"
	"github.com/joseph-ayodele/invoices-tracker/internal/export"
	"github.com/joseph-ayodele/invoices-tracker/internal/extract"
	"github.com/joseph-ayodele/invoices-tracker/internal/repository"
	"github.com/joseph-ayodele/invoices-tracker/internal/templates"
)

func (a *app) templates() (*templates.Store, error) {
	store, err := templates.Open(templates.NewFileBackend(a.cfg.Templates.Path), a.logger)
	if err != nil {
		a.logger.Error("failed to load templates", "path", a.cfg.Templates.Path, "error", err)
		return nil, err
	}
	return store, nil
}

func (a *app) extractor() (*extract.Extractor, *templates.Store, error) {
	store, err := a.templates()
	if err != nil {
		return nil, nil, err
	}
	return extract.New(store, a.logger), store, nil
}

func (a *app) opener() document.Opener {
	var pdf document.Opener
	switch a.cfg.PDF.Backend {
	case "native":
		pdf = document.NewNativeOpener(a.cfg.PDF.MaxPages, a.logger)
	default:
		pdf = document.NewPdftotextOpener(document.PdftotextConfig{
			Binary:   a.cfg.PDF.Pdftotext,
			MaxPages: a.cfg.PDF.MaxPages,
		}, a.logger)
	}
	return document.ExtOpener{PDF: pdf, Text: document.TextFileOpener{}}
}

func (a *app) records(ctx context.Context) (*repository.DB, *repository.Store, error) {
	db, err := repository.Open(ctx, repository.Config{
		DSN:             a.cfg.Database.DSN,
		MaxConns:        a.cfg.Database.MaxConns,
		MinConns:        a.cfg.Database.MinConns,
		MaxConnLifetime: a.cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: a.cfg.Database.MaxConnIdleTime,
		DialTimeout:     a.cfg.Database.DialTimeout,
	}, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open record store: %w", err)
	}
	return db, repository.NewStore(db, a.logger), nil
}

// exportWorkbooks rewrites both workbooks from the record store.
func (a *app) exportWorkbooks(ctx context.Context, store *repository.Store, from, to *time.Time) error {
	svc := export.NewService(store, store, a.logger)

	invoices, err := svc.ExportInvoicesXLSX(ctx, from, to)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.cfg.Output.InvoicesXLSX, invoices, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", a.cfg.Output.InvoicesXLSX, err)
	}

	items, err := svc.ExportItemsXLSX(ctx, from, to)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.cfg.Output.ItemsXLSX, items, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", a.cfg.Output.ItemsXLSX, err)
	}
	a.logger.Info("export.write.ok", "invoices", a.cfg.Output.InvoicesXLSX, "items", a.cfg.Output.ItemsXLSX)
	return nil
}
