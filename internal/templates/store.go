// Package templates is the vendor template store: a mapping from vendor name
// to extraction template with compiled patterns cached per template.
package templates

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

// Store is safe for concurrent readers. Writers are serialised and a reader
// sees either the old or the new snapshot of a vendor, never a mix.
type Store struct {
	backend Backend
	logger  *slog.Logger

	writeMu sync.Mutex

	mu      sync.RWMutex
	raw     map[string]entity.Template
	byName  map[string]*Compiled
	ordered []*Compiled
}

func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		raw:     map[string]entity.Template{},
		byName:  map[string]*Compiled{},
	}
}

// Open creates a store and loads it from backend.
func Open(backend Backend, logger *slog.Logger) (*Store, error) {
	s := NewStore(backend, logger)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory snapshot with the backend contents. Patterns
// that do not compile are logged and treated as absent.
func (s *Store) Load() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	all, err := s.backend.Load()
	if err != nil {
		return common.WrapError(err, "load templates")
	}

	byName := make(map[string]*Compiled, len(all))
	for vendor, t := range all {
		c, err := Compile(vendor, t)
		if err != nil {
			s.logger.Warn("templates.load.invalid_pattern", "vendor", vendor, "error", err)
		}
		byName[vendor] = c
	}

	s.mu.Lock()
	s.raw = all
	s.byName = byName
	s.ordered = order(byName)
	s.mu.Unlock()

	s.logger.Info("templates.load.ok", "vendors", len(all))
	return nil
}

// Get returns the snapshot for vendor.
func (s *Store) Get(vendor string) (*Compiled, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byName[vendor]
	return c, ok
}

// Template returns a copy of the stored raw template for vendor.
func (s *Store) Template(vendor string) (entity.Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.raw[vendor]
	if !ok {
		return entity.Template{}, false
	}
	return t.Clone(), true
}

// List returns all vendor names, sorted.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ordered returns the snapshots in identification order: longest identifier
// first, ties broken by vendor name.
func (s *Store) Ordered() []*Compiled {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Compiled, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Put validates t, persists the whole mapping and then publishes the new
// snapshot. On any error the previously stored template stays in effect.
func (s *Store) Put(vendor string, t entity.Template) error {
	vendor = strings.TrimSpace(vendor)
	if t.Name == "" {
		t.Name = vendor
	}
	if err := Validate(vendor, t); err != nil {
		return err
	}
	c, err := Compile(vendor, t)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidTemplate, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next := make(map[string]entity.Template, len(s.raw)+1)
	for k, v := range s.raw {
		next[k] = v
	}
	s.mu.RUnlock()
	next[vendor] = c.Template

	if err := s.backend.Save(next); err != nil {
		return common.WrapError(err, "save templates")
	}

	s.mu.Lock()
	byName := make(map[string]*Compiled, len(s.byName)+1)
	for k, v := range s.byName {
		byName[k] = v
	}
	byName[vendor] = c
	s.raw = next
	s.byName = byName
	s.ordered = order(byName)
	s.mu.Unlock()

	s.logger.Info("templates.put.ok", "vendor", vendor, "identifier", t.Identifier)
	return nil
}

func order(byName map[string]*Compiled) []*Compiled {
	out := make([]*Compiled, 0, len(byName))
	for _, c := range byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := len(out[i].Template.Identifier), len(out[j].Template.Identifier)
		if li != lj {
			return li > lj
		}
		return out[i].Vendor < out[j].Vendor
	})
	return out
}

// Validate checks a template before it is stored.
func Validate(vendor string, t entity.Template) error {
	v := common.NewValidator().
		Field("vendor", vendor, common.Required).
		Field("identifier", t.Identifier, common.Required).
		Field("invoice_separator", t.InvoiceSeparator, common.Regexp).
		Field("date_pattern", t.DatePattern, common.Regexp).
		Field("job_name_pattern", t.JobNamePattern, common.Regexp).
		Field("total_cost_pattern", t.TotalCostPattern, common.Regexp).
		Field("invoice_number_pattern", t.InvoiceNumberPattern, common.Regexp)

	if lc := t.LineItemConfig; lc != nil {
		v.Field("extraction_method", string(lc.Method()),
			common.OneOf(string(constants.ExtractionTable), string(constants.ExtractionPattern)))
		v.Field("item_pattern", lc.ItemPattern, common.Regexp)
		if lc.Method() == constants.ExtractionPattern {
			v.Field("item_pattern", lc.ItemPattern, common.Required)
		}
		v.Field("min_columns", lc.MinColumns, common.NonNegative)
		for field, idx := range lc.ColumnMap {
			if field != constants.FieldCustomDescription && !isItemField(field) {
				v.Add(common.ValidationError{Field: "column_map", Value: field, Message: "unknown line-item field"})
			}
			v.Field("column_map."+field, idx, common.NonNegative)
		}
	}

	if err := v.Error(); err != nil {
		return common.NewAppError("INVALID_TEMPLATE", vendor, errors.Join(common.ErrInvalidTemplate, err))
	}
	return nil
}

func isItemField(f string) bool {
	for _, k := range constants.ItemFields {
		if k == f {
			return true
		}
	}
	return false
}
