package synth

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// FieldLiteral is the exact text of one line-item field inside a sample line.
type FieldLiteral struct {
	Group   string
	Literal string
}

// ErrNoFields is returned when none of the field literals occur in the sample.
var ErrNoFields = errors.New("no field literal found in sample line")

var (
	reMoneyLiteral  = regexp.MustCompile(`^` + MoneyShape + `$`)
	reNumberLiteral = regexp.MustCompile(`^[\d,]*\.?\d+$`)
	reDateLiteral   = regexp.MustCompile(`^` + DateShape + `$`)
)

const (
	numberShape = `[\d,]*\.?\d+`
	tokenShape  = `\S+`
	phraseShape = `.+?`
	gapPattern  = `[ \t]+`
)

// ShapeOf infers a value shape from one literal occurrence.
func ShapeOf(literal string) string {
	switch {
	case reMoneyLiteral.MatchString(literal):
		return MoneyShape
	case reNumberLiteral.MatchString(literal):
		return numberShape
	case reDateLiteral.MatchString(literal):
		return DateShape
	case !strings.ContainsFunc(literal, unicode.IsSpace):
		return tokenShape
	default:
		return phraseShape
	}
}

type span struct {
	start, end int
	group      string
	literal    string
}

// BuildItemPattern turns one full sample line into a line-item pattern. The
// text between fields is kept literally (whitespace runs become [ \t]+) and
// each field literal is replaced by a named group whose body is ShapeOf the
// literal. Fields whose literal is empty or cannot be placed are returned in
// skipped and are absent from the pattern.
func BuildItemPattern(sample string, fields []FieldLiteral) (pattern string, skipped []string, err error) {
	sample = strings.TrimSpace(sample)
	var spans []span
	for _, f := range fields {
		lit := strings.TrimSpace(f.Literal)
		if lit == "" {
			skipped = append(skipped, f.Group)
			continue
		}
		start := locate(sample, lit, spans)
		if start < 0 {
			skipped = append(skipped, f.Group)
			continue
		}
		spans = append(spans, span{start: start, end: start + len(lit), group: f.Group, literal: lit})
	}
	if len(spans) == 0 {
		return "", skipped, ErrNoFields
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	pos := 0
	for _, s := range spans {
		b.WriteString(escapeLayout(sample[pos:s.start]))
		b.WriteString("(?P<" + s.group + ">" + ShapeOf(s.literal) + ")")
		pos = s.end
	}
	b.WriteString(escapeLayout(sample[pos:]))
	return b.String(), skipped, nil
}

// locate finds lit in sample outside taken spans, preferring occurrences
// bounded by whitespace or the line ends.
func locate(sample, lit string, taken []span) int {
	fallback := -1
	for off := 0; off <= len(sample)-len(lit); {
		i := strings.Index(sample[off:], lit)
		if i < 0 {
			break
		}
		start := off + i
		end := start + len(lit)
		if !overlaps(start, end, taken) {
			if bounded(sample, start, end) {
				return start
			}
			if fallback < 0 {
				fallback = start
			}
		}
		off = start + 1
	}
	return fallback
}

func overlaps(start, end int, taken []span) bool {
	for _, s := range taken {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

func bounded(s string, start, end int) bool {
	left := start == 0 || unicode.IsSpace(rune(s[start-1]))
	right := end == len(s) || unicode.IsSpace(rune(s[end]))
	return left && right
}

func escapeLayout(s string) string {
	var b strings.Builder
	inGap := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inGap {
				b.WriteString(gapPattern)
				inGap = true
			}
			continue
		}
		inGap = false
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	return b.String()
}
