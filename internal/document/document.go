// Package document turns source files into page text and table grids for
// the extraction engine.
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Table is a grid of optional cells; nil means no cell at that position.
type Table [][]*string

// TableSettings are the per-vendor table detection hints stored on a
// template. Recognised keys are min_gap and min_cells; others are ignored.
type TableSettings map[string]any

// Document is a parsed source document.
type Document interface {
	Path() string
	NumPages() int
	PageText(page int) (string, error)
	// AllText joins every page with a blank line.
	AllText() (string, error)
	Tables(page int, settings TableSettings) ([]Table, error)
}

// Opener parses a file into a Document.
type Opener interface {
	Open(ctx context.Context, path string) (Document, error)
}

// ErrNoTextLayer is returned for documents without extractable text, such as
// scanned images.
var ErrNoTextLayer = errors.New("document has no text layer")

// ErrPageOutOfRange is returned for a page index past the last page.
var ErrPageOutOfRange = errors.New("page out of range")

// TextDocument is a Document backed by already extracted page text.
type TextDocument struct {
	path  string
	pages []string
}

// NewTextDocument builds a document from page texts.
func NewTextDocument(path string, pages []string) *TextDocument {
	return &TextDocument{path: path, pages: pages}
}

func (d *TextDocument) Path() string  { return d.path }
func (d *TextDocument) NumPages() int { return len(d.pages) }

func (d *TextDocument) PageText(page int) (string, error) {
	if page < 0 || page >= len(d.pages) {
		return "", fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, len(d.pages))
	}
	return d.pages[page], nil
}

func (d *TextDocument) AllText() (string, error) {
	return strings.Join(d.pages, "\n\n"), nil
}

func (d *TextDocument) Tables(page int, settings TableSettings) ([]Table, error) {
	text, err := d.PageText(page)
	if err != nil {
		return nil, err
	}
	return DetectTables(text, settings), nil
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// splitPages splits form-feed separated text, dropping the empty tail
// pdftotext leaves after the last page.
func splitPages(text string) []string {
	pages := strings.Split(text, "\f")
	for len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
