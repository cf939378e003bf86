package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

const dateLayout = "2006-01-02"

type InvoiceRepository interface {
	AddInvoices(ctx context.Context, invoices []entity.HeaderRecord) error
	InvoicesByDateRange(ctx context.Context, from, to *time.Time) ([]entity.HeaderRecord, error)
}

type invoiceRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewInvoiceRepository(db *DB, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceRepository{db: db, logger: logger}
}

func (r *invoiceRepository) AddInvoices(ctx context.Context, invoices []entity.HeaderRecord) error {
	q := r.db.rebind(`INSERT INTO invoices
		(id, invoice_date, job_name, supply_house, total_cost, job_cost, invoice_number, processed_date, source_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, h := range invoices {
			if h.ID == uuid.Nil {
				h.ID = uuid.New()
			}
			if _, err := tx.ExecContext(ctx, q,
				h.ID.String(), nullDate(h.Date), h.JobName, h.SupplyHouse,
				h.TotalCost, h.JobCost, h.InvoiceNumber,
				h.ProcessedDate.UTC().Format(time.RFC3339Nano), h.SourcePath,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to add invoices", "count", len(invoices), "error", err)
		return fmt.Errorf("add invoices: %w", err)
	}
	r.logger.Debug("invoices added", "count", len(invoices))
	return nil
}

// InvoicesByDateRange lists invoices dated within [from, to]; nil bounds are
// open. Undated invoices are only listed when both bounds are nil.
func (r *invoiceRepository) InvoicesByDateRange(ctx context.Context, from, to *time.Time) ([]entity.HeaderRecord, error) {
	q := `SELECT id, invoice_date, job_name, supply_house, total_cost, job_cost, invoice_number, processed_date, source_path
		FROM invoices`
	where, args := dateRange("invoice_date", from, to)
	q += where + ` ORDER BY invoice_date, invoice_number, processed_date`

	rows, err := r.db.sql.QueryContext(ctx, r.db.rebind(q), args...)
	if err != nil {
		r.logger.Error("failed to list invoices", "error", err)
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []entity.HeaderRecord
	for rows.Next() {
		var (
			h             entity.HeaderRecord
			id, processed string
			date          sql.NullString
		)
		if err := rows.Scan(&id, &date, &h.JobName, &h.SupplyHouse, &h.TotalCost, &h.JobCost, &h.InvoiceNumber, &processed, &h.SourcePath); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		h.ID, _ = uuid.Parse(id)
		h.Date = parseDate(date)
		h.ProcessedDate, _ = time.Parse(time.RFC3339Nano, processed)
		out = append(out, h)
	}
	return out, rows.Err()
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func dateRange(column string, from, to *time.Time) (string, []any) {
	var clauses []string
	var args []any
	if from != nil {
		clauses = append(clauses, column+" >= ?")
		args = append(args, from.Format(dateLayout))
	}
	if to != nil {
		clauses = append(clauses, column+" <= ?")
		args = append(args, to.Format(dateLayout))
	}
	switch len(clauses) {
	case 0:
		return "", nil
	case 1:
		return " WHERE " + clauses[0], args
	default:
		return " WHERE " + clauses[0] + " AND " + clauses[1], args
	}
}
