package synth

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeRoundTrip(t *testing.T) {
	sample := "Invoice Date: 03/14/2024 Page 1"

	pattern, ok := Synthesize(sample, "", DateShape)
	require.True(t, ok)
	assert.Equal(t, `Invoice Date: (\d{1,2}/\d{1,2}/\d{2,4}) Page 1`, pattern)

	m := regexp.MustCompile(pattern).FindStringSubmatch(sample)
	require.Len(t, m, 2)
	assert.Equal(t, "03/14/2024", m[1])
}

func TestSynthesizeKeepsTwentyCharactersOfContext(t *testing.T) {
	sample := "0123456789ABCDEFGHIJKLMNOP Total: $1,234.56 due upon receipt of goods"

	pattern, ok := Synthesize(sample, "1234.56", MoneyShape)
	require.True(t, ok)
	assert.Equal(t, `EFGHIJKLMNOP Total: (`+MoneyShape+`) due upon receipt of`, pattern)

	m := regexp.MustCompile(pattern).FindStringSubmatch(sample)
	require.Len(t, m, 2)
	assert.Equal(t, "$1,234.56", m[1])
}

func TestSynthesizeEscapesContext(t *testing.T) {
	sample := "Job (PO#): Smith [Main] Rd."

	pattern, ok := Synthesize(sample, "Smith", LiteralShape("Smith"))
	require.True(t, ok)
	assert.Equal(t, `Job \(PO#\): (Smith) \[Main\] Rd\.`, pattern)
	assert.Equal(t, "Smith", regexp.MustCompile(pattern).FindStringSubmatch(sample)[1])
}

func TestSynthesizePrefersLocatedValue(t *testing.T) {
	sample := "Subtotal 400.00 Total 500.00"

	pattern, ok := Synthesize(sample, "500.00", MoneyShape)
	require.True(t, ok)
	m := regexp.MustCompile(pattern).FindStringSubmatch(sample)
	require.Len(t, m, 2)
	assert.Equal(t, "500.00", strings.TrimSpace(m[1]))
}

func TestSynthesizeNoMatch(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		shape  string
	}{
		{name: "shape absent", sample: "no dates here", shape: DateShape},
		{name: "invalid shape", sample: "Date: 01/02/2024", shape: `(\d+`},
		{name: "empty sample", sample: "", shape: MoneyShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, ok := Synthesize(tt.sample, "", tt.shape)
			assert.False(t, ok)
			assert.Empty(t, pattern)
		})
	}
}

func TestShapeOf(t *testing.T) {
	tests := map[string]string{
		"$12.50":            MoneyShape,
		"1,204.00":          MoneyShape,
		"4":                 numberShape,
		"3.5":               numberShape,
		"01/02/2024":        DateShape,
		"ABC-123":           tokenShape,
		"Copper pipe 1/2in": phraseShape,
	}
	for literal, want := range tests {
		assert.Equal(t, want, ShapeOf(literal), literal)
	}
}

func TestBuildItemPattern(t *testing.T) {
	sample := "ABC-123  Copper pipe 1/2in   1   12.50   12.50"
	fields := []FieldLiteral{
		{Group: "part_number", Literal: "ABC-123"},
		{Group: "description", Literal: "Copper pipe 1/2in"},
		{Group: "quantity", Literal: "1"},
		{Group: "unit_price", Literal: "12.50"},
		{Group: "total_price", Literal: "12.50"},
	}

	pattern, skipped, err := BuildItemPattern(sample, fields)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	re := regexp.MustCompile("(?m)" + pattern)

	m := re.FindStringSubmatch(sample)
	require.NotNil(t, m)
	assert.Equal(t, "ABC-123", m[re.SubexpIndex("part_number")])
	assert.Equal(t, "1", m[re.SubexpIndex("quantity")])

	other := "XYZ-9  Brass elbow 3/4in   10   2.25   22.50"
	m = re.FindStringSubmatch(other)
	require.NotNil(t, m)
	assert.Equal(t, "XYZ-9", m[re.SubexpIndex("part_number")])
	assert.Equal(t, "Brass elbow 3/4in", m[re.SubexpIndex("description")])
	assert.Equal(t, "10", m[re.SubexpIndex("quantity")])
	assert.Equal(t, "2.25", m[re.SubexpIndex("unit_price")])
	assert.Equal(t, "22.50", m[re.SubexpIndex("total_price")])
}

func TestBuildItemPatternSkipsMissingFields(t *testing.T) {
	sample := "W-1 Widget 9.99"

	pattern, skipped, err := BuildItemPattern(sample, []FieldLiteral{
		{Group: "part_number", Literal: "W-1"},
		{Group: "description", Literal: ""},
		{Group: "quantity", Literal: "7"},
		{Group: "unit_price", Literal: "9.99"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"description", "quantity"}, skipped)

	re := regexp.MustCompile(pattern)
	assert.Equal(t, -1, re.SubexpIndex("quantity"))
	assert.Equal(t, "W-1", re.FindStringSubmatch(sample)[re.SubexpIndex("part_number")])
}

func TestBuildItemPatternWithoutFields(t *testing.T) {
	_, skipped, err := BuildItemPattern("anything", []FieldLiteral{{Group: "part_number", Literal: "missing"}})
	require.ErrorIs(t, err, ErrNoFields)
	assert.Equal(t, []string{"part_number"}, skipped)
}
