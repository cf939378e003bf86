package document

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultMinGap   = 2
	defaultMinCells = 2
)

type cellSpan struct {
	start, end int
	text       string
}

// DetectTables finds tables in layout text. A line is cut into cells at runs
// of at least min_gap spaces; consecutive lines with at least min_cells
// cells form a table. Cells are aligned to the columns of the widest row.
func DetectTables(text string, settings TableSettings) []Table {
	minGap := settings.Int("min_gap", defaultMinGap)
	if minGap < 1 {
		minGap = 1
	}
	minCells := settings.Int("min_cells", defaultMinCells)
	gap := regexp.MustCompile(`[ \t]{` + strconv.Itoa(minGap) + `,}`)

	var tables []Table
	var block [][]cellSpan
	flush := func() {
		if len(block) > 0 {
			tables = append(tables, align(block))
		}
		block = nil
	}

	for _, line := range strings.Split(text, "\n") {
		cells := splitCells(strings.ReplaceAll(line, "\t", "    "), gap)
		if len(cells) >= minCells {
			block = append(block, cells)
			continue
		}
		flush()
	}
	flush()
	return tables
}

func splitCells(line string, gap *regexp.Regexp) []cellSpan {
	var cells []cellSpan
	pos := 0
	emit := func(start, end int) {
		seg := line[start:end]
		trimmed := strings.TrimSpace(seg)
		if trimmed == "" {
			return
		}
		lead := len(seg) - len(strings.TrimLeft(seg, " "))
		cells = append(cells, cellSpan{start: start + lead, end: start + lead + len(trimmed), text: trimmed})
	}
	for _, loc := range gap.FindAllStringIndex(line, -1) {
		emit(pos, loc[0])
		pos = loc[1]
	}
	emit(pos, len(line))
	return cells
}

func align(block [][]cellSpan) Table {
	ref := block[0]
	for _, row := range block[1:] {
		if len(row) > len(ref) {
			ref = row
		}
	}

	table := make(Table, 0, len(block))
	for _, row := range block {
		out := make([]*string, len(ref))
		for _, c := range row {
			col := column(ref, c)
			if out[col] == nil {
				v := c.text
				out[col] = &v
				continue
			}
			joined := *out[col] + " " + c.text
			out[col] = &joined
		}
		table = append(table, out)
	}
	return table
}

// column picks the reference column with the largest overlap, falling back
// to the nearest start position.
func column(ref []cellSpan, c cellSpan) int {
	best, bestOverlap := -1, 0
	for i, r := range ref {
		overlap := min(r.end, c.end) - max(r.start, c.start)
		if overlap > bestOverlap {
			best, bestOverlap = i, overlap
		}
	}
	if best >= 0 {
		return best
	}
	best, bestDist := 0, -1
	for i, r := range ref {
		d := r.start - c.start
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Int reads an integer setting; YAML and JSON decode numbers differently.
func (s TableSettings) Int(key string, def int) int {
	switch v := s[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
