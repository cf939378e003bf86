package document

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NativeOpener reads PDFs in-process with ledongthuc/pdf and rebuilds a
// layout-like text per page from positioned text runs.
type NativeOpener struct {
	MaxPages int
	logger   *slog.Logger
}

func NewNativeOpener(maxPages int, logger *slog.Logger) *NativeOpener {
	if logger == nil {
		logger = slog.Default()
	}
	return &NativeOpener{MaxPages: maxPages, logger: logger}
}

func (o *NativeOpener) Open(ctx context.Context, path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	if o.MaxPages > 0 && o.MaxPages < total {
		total = o.MaxPages
	}

	// Pages are 1-indexed in ledongthuc/pdf.
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			o.logger.Warn("document.page.failed", "path", path, "page", i, "error", err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, layoutRows(rows))
	}

	if !hasText(pages) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTextLayer)
	}
	o.logger.Debug("document.open.ok", "path", path, "backend", "native", "pages", len(pages))
	return NewTextDocument(path, pages), nil
}

// layoutRows renders each row left to right, marking wide horizontal gaps
// with several spaces so table detection can find column boundaries.
func layoutRows(rows pdf.Rows) string {
	var b strings.Builder
	for _, row := range rows {
		words := append(pdf.TextHorizontal(nil), row.Content...)
		sort.Slice(words, func(i, j int) bool { return words[i].X < words[j].X })

		prevEnd := math.Inf(-1)
		for _, w := range words {
			if w.S == "" {
				continue
			}
			gap := w.X - prevEnd
			size := w.FontSize
			if size <= 0 {
				size = 10
			}
			switch {
			case math.IsInf(prevEnd, -1):
			case gap > size*1.5:
				b.WriteString("    ")
			case gap > size*0.2:
				b.WriteString(" ")
			}
			b.WriteString(w.S)
			prevEnd = w.X + w.W
		}
		b.WriteString("\n")
	}
	return b.String()
}
