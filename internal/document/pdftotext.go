package document

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// PdftotextConfig configures the poppler pdftotext backend.
type PdftotextConfig struct {
	Binary   string // binary name or absolute path; if empty -> "pdftotext"
	MaxPages int    // 0 = no limit
}

// PdftotextOpener extracts layout-preserving text with poppler's pdftotext.
type PdftotextOpener struct {
	cfg    PdftotextConfig
	runner Runner
	logger *slog.Logger
}

func NewPdftotextOpener(cfg PdftotextConfig, logger *slog.Logger) *PdftotextOpener {
	if logger == nil {
		logger = slog.Default()
	}
	return NewPdftotextOpenerWithRunner(cfg, execRunner{logger: logger}, logger)
}

func NewPdftotextOpenerWithRunner(cfg PdftotextConfig, r Runner, logger *slog.Logger) *PdftotextOpener {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Binary == "" {
		cfg.Binary = "pdftotext"
	}
	return &PdftotextOpener{cfg: cfg, runner: r, logger: logger}
}

func (o *PdftotextOpener) Open(ctx context.Context, path string) (Document, error) {
	args := []string{"-layout", "-enc", "UTF-8", "-eol", "unix"}
	if o.cfg.MaxPages > 0 {
		args = append(args, "-l", fmt.Sprintf("%d", o.cfg.MaxPages))
	}
	args = append(args, path, "-")

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := o.runner.Run(ctx, o.cfg.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("pdftotext %s: %w: %s", path, err, strings.TrimSpace(string(errb)))
	}

	// A form-feed \f is used as page separator by default
	pages := splitPages(string(out))
	if !hasText(pages) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTextLayer)
	}
	o.logger.Debug("document.open.ok", "path", path, "backend", "pdftotext", "pages", len(pages))
	return NewTextDocument(path, pages), nil
}
