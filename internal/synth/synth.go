// Package synth derives context-anchored extraction patterns from a single
// annotated sample.
package synth

import (
	"regexp"
	"strings"
)

// ContextWidth is the number of characters of literal context kept on each
// side of a located value.
const ContextWidth = 20

// Value shapes used for header fields.
const (
	DateShape  = `\d{1,2}/\d{1,2}/\d{2,4}`
	MoneyShape = `\$?\s*[\d,]+\.\d{2}`
)

// LiteralShape matches exactly value.
func LiteralShape(value string) string {
	return regexp.QuoteMeta(value)
}

// Synthesize builds escaped(before) + "(" + shape + ")" + escaped(after)
// around the occurrence of shape in sample. When located is non-empty the
// first occurrence whose text contains it is preferred over the first
// occurrence overall. It reports false when shape is invalid or absent from
// sample.
func Synthesize(sample, located, shape string) (string, bool) {
	re, err := regexp.Compile(shape)
	if err != nil {
		return "", false
	}
	matches := re.FindAllStringIndex(sample, -1)
	if len(matches) == 0 {
		return "", false
	}

	loc := matches[0]
	if located = strings.TrimSpace(located); located != "" {
		for _, m := range matches {
			if strings.Contains(sample[m[0]:m[1]], located) {
				loc = m
				break
			}
		}
	}

	before := lastRunes(sample[:loc[0]], ContextWidth)
	after := firstRunes(sample[loc[1]:], ContextWidth)

	return regexp.QuoteMeta(before) + "(" + shape + ")" + regexp.QuoteMeta(after), true
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
