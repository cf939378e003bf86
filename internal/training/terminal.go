package training

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/joseph-ayodele/invoices-tracker/internal/document"
)

// SkipInput is the reply that skips a prompt even when it has a default.
const SkipInput = "-"

// TerminalPrompter asks on a line-oriented terminal. An empty reply takes
// the default (or skips when there is none); multi-line replies end at an
// empty line.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

func (t *TerminalPrompter) Ask(ctx context.Context, p Prompt) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}
	msg := p.Message
	if p.Default != "" {
		msg += fmt.Sprintf(" [%s]", p.Default)
	}
	if p.Multiline {
		msg += " (finish with an empty line)"
	}
	fmt.Fprintf(t.out, "%s: ", msg)
	if p.Multiline {
		fmt.Fprintln(t.out)
	}

	var lines []string
	for {
		line, err := t.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if err != nil && (!errors.Is(err, io.EOF) || (line == "" && len(lines) == 0)) {
			return Answer{}, fmt.Errorf("read answer for %s: %w", p.Key(), err)
		}
		if !p.Multiline {
			lines = append(lines, line)
			break
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	value := strings.Join(lines, "\n")
	switch strings.TrimSpace(value) {
	case SkipInput:
		return Answer{Skipped: true}, nil
	case "":
		if p.Default != "" {
			return Answer{Value: p.Default}, nil
		}
		return Answer{Skipped: true}, nil
	}
	return Answer{Value: value}, nil
}

func (t *TerminalPrompter) Show(text string) {
	fmt.Fprintln(t.out, text)
}

func (t *TerminalPrompter) ShowTables(tables []document.Table) {
	for i, table := range tables {
		fmt.Fprintf(t.out, "\nTable %d (%d rows)\n", i+1, len(table))
		w := tablewriter.NewWriter(t.out)
		width := 0
		for _, row := range table {
			width = max(width, len(row))
		}
		header := make([]string, width)
		for c := range header {
			header[c] = "col " + strconv.Itoa(c)
		}
		w.SetHeader(header)
		w.SetAutoWrapText(false)
		for _, row := range table {
			cells := make([]string, width)
			for c, cell := range row {
				if cell != nil {
					cells[c] = *cell
				}
			}
			w.Append(cells)
		}
		w.Render()
	}
}
