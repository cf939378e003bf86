package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/invoices-tracker/constants"
)

// TextFileOpener reads plain text exports; form feeds separate pages.
type TextFileOpener struct{}

func (TextFileOpener) Open(_ context.Context, path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	pages := splitPages(string(raw))
	if !hasText(pages) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTextLayer)
	}
	return NewTextDocument(path, pages), nil
}

// ExtOpener dispatches on file extension: .txt goes to Text, everything else
// to PDF.
type ExtOpener struct {
	PDF  Opener
	Text Opener
}

func (o ExtOpener) Open(ctx context.Context, path string) (Document, error) {
	if strings.EqualFold(constants.NormalizeExt(filepath.Ext(path)), "txt") && o.Text != nil {
		return o.Text.Open(ctx, path)
	}
	return o.PDF.Open(ctx, path)
}
