package training

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/document"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/extract"
	"github.com/joseph-ayodele/invoices-tracker/internal/synth"
)

const defaultMinGap = 2

func (s *session) lineItems() error {
	cfg := &entity.LineItemConfig{}
	if s.tpl.LineItemConfig != nil {
		c := *s.tpl.LineItemConfig
		cfg = &c
	}

	method, ok, err := s.ask(Prompt{Step: StepMethod, Message: "Extraction method (table/pattern)", Default: string(cfg.Method())})
	if err != nil {
		return err
	}
	m := cfg.Method()
	if ok {
		m = constants.ExtractionMethod(strings.ToLower(strings.TrimSpace(method)))
	}

	switch m {
	case constants.ExtractionTable:
		return s.tableItems(cfg)
	case constants.ExtractionPattern:
		return s.patternItems(cfg)
	default:
		s.abandon("line_item_config", fmt.Sprintf("unknown extraction method %q", method))
		return nil
	}
}

func (s *session) tableItems(cfg *entity.LineItemConfig) error {
	settings := document.TableSettings{}
	for k, v := range cfg.TableSettings {
		settings[k] = v
	}
	gap, err := s.askInt(Prompt{Step: StepMinGap, Message: "Minimum spaces between columns", Default: strconv.Itoa(settings.Int("min_gap", defaultMinGap))})
	if err != nil {
		return err
	}
	if gap > 0 {
		settings["min_gap"] = gap
	}

	tables, err := s.sampleTables(settings)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		s.abandon("line_item_config", errNoTables.Error())
		return nil
	}
	s.p.ShowTables(tables)

	choice, err := s.askInt(Prompt{Step: StepTableChoice, Message: fmt.Sprintf("Line-item table number (1-%d)", len(tables)), Default: "1"})
	if err != nil {
		return err
	}
	if choice == 0 {
		choice = 1
	}
	if choice < 1 || choice > len(tables) {
		s.p.Show(fmt.Sprintf("No table %d, using table 1", choice))
		choice = 1
	}
	table := tables[choice-1]
	width := 0
	for _, row := range table {
		width = max(width, len(row))
	}

	header, ok, err := s.ask(Prompt{Step: StepHasHeader, Message: "Is the first row a header? (y/n)", Default: yesNo(cfg.Header())})
	if err != nil {
		return err
	}
	hasHeader := cfg.Header()
	if ok {
		hasHeader = yes(header)
	}

	columns := map[string]int{}
	for _, field := range constants.ItemFields {
		def := ""
		if idx, found := cfg.ColumnMap[field]; found {
			def = strconv.Itoa(idx)
		}
		v, ok, err := s.ask(Prompt{Step: StepColumn, Field: field, Message: fmt.Sprintf("Column number for %s (0-%d)", field, width-1), Default: def})
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		idx, convErr := strconv.Atoi(strings.TrimSpace(v))
		if convErr != nil || idx < 0 || idx >= width {
			s.p.Show(fmt.Sprintf("Ignoring column %q for %s", v, field))
			continue
		}
		columns[field] = idx
	}
	if len(columns) == 0 {
		s.abandon("line_item_config", "no columns mapped")
		return nil
	}

	minCols, err := s.askInt(Prompt{Step: StepMinColumns, Message: "Minimum filled columns of a line-item table", Default: strconv.Itoa(cfg.EffectiveMinColumns())})
	if err != nil {
		return err
	}
	tableID, ok, err := s.ask(Prompt{Step: StepTableIdentifier, Message: "Text that marks the line-item table (optional)", Default: cfg.TableIdentifier})
	if err != nil {
		return err
	}

	cfg.ExtractionMethod = constants.ExtractionTable
	cfg.TableSettings = map[string]any(settings)
	cfg.HasHeader = &hasHeader
	cfg.ColumnMap = columns
	cfg.MinColumns = constants.DefaultMinColumns
	if minCols > 0 {
		cfg.MinColumns = minCols
	}
	cfg.TableIdentifier = ""
	if ok {
		cfg.TableIdentifier = strings.TrimSpace(tableID)
	}
	cfg.ItemPattern = ""

	preview := extract.New(nil, s.log).ExtractTable([][]document.Table{{table}}, entity.HeaderRecord{}, cfg)
	s.p.Show(fmt.Sprintf("%d line items found in the sample table", len(preview)))
	s.tpl.LineItemConfig = cfg
	return nil
}

// sampleTables returns the tables of the first page, or of the second page
// when the first has none.
func (s *session) sampleTables(settings document.TableSettings) ([]document.Table, error) {
	for page := 0; page < min(2, s.doc.NumPages()); page++ {
		tables, err := s.doc.Tables(page, settings)
		if err != nil {
			return nil, common.UnreadableError(s.doc.Path(), err)
		}
		if len(tables) > 0 {
			return tables, nil
		}
	}
	return nil, nil
}

func (s *session) patternItems(cfg *entity.LineItemConfig) error {
	sample, ok, err := s.ask(Prompt{Step: StepItemSample, Message: "Paste one complete line item"})
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(sample) == "" {
		s.abandon("item_pattern", "no sample line given")
		return nil
	}

	groups := []string{
		constants.FieldPartNumber,
		constants.GroupDescription,
		constants.FieldQuantity,
		constants.FieldUnitPrice,
		constants.FieldTotalPrice,
	}
	var literals []synth.FieldLiteral
	for _, g := range groups {
		v, ok, err := s.ask(Prompt{Step: StepItemLiteral, Field: g, Message: "Exact text of " + g + " in that line"})
		if err != nil {
			return err
		}
		if ok {
			literals = append(literals, synth.FieldLiteral{Group: g, Literal: v})
		}
	}

	pattern, skipped, err := synth.BuildItemPattern(sample, literals)
	if err != nil {
		s.abandon("item_pattern", err.Error())
		return nil
	}
	if len(skipped) > 0 {
		s.p.Show("Not found in the sample line: " + strings.Join(skipped, ", "))
	}

	cfg.ExtractionMethod = constants.ExtractionPattern
	cfg.ItemPattern = pattern
	cfg.ColumnMap = nil

	s.p.Show("item_pattern: " + pattern)
	if text, err := s.doc.AllText(); err == nil {
		re := regexp.MustCompile("(?m)" + pattern)
		preview := extract.New(nil, s.log).ExtractPattern(text, entity.HeaderRecord{}, re)
		s.p.Show(fmt.Sprintf("%d line items found in the sample document", len(preview)))
	}
	s.tpl.LineItemConfig = cfg
	return nil
}

// askInt returns 0 for a skipped or non-numeric answer.
func (s *session) askInt(p Prompt) (int, error) {
	v, ok, err := s.ask(p)
	if err != nil || !ok {
		return 0, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(v))
	if convErr != nil {
		s.p.Show(fmt.Sprintf("%q is not a number", v))
		return 0, nil
	}
	return n, nil
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
