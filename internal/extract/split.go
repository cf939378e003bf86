package extract

import (
	"strings"

	"github.com/joseph-ayodele/invoices-tracker/internal/templates"
)

// Split cuts text into invoice sections on the template's separator.
// Without a separator the whole trimmed text is the only section. Blank
// sections are dropped.
func Split(text string, c *templates.Compiled) []string {
	if c == nil || c.Separator == nil {
		if s := strings.TrimSpace(text); s != "" {
			return []string{s}
		}
		return nil
	}

	var sections []string
	for _, part := range c.Separator.Split(text, -1) {
		if s := strings.TrimSpace(part); s != "" {
			sections = append(sections, s)
		}
	}
	return sections
}
