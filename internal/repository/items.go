package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

// VendorPrice is the lowest unit price a vendor charged for a part.
type VendorPrice struct {
	Vendor      string
	LowestPrice decimal.Decimal
}

// PricePoint is one purchase of a part.
type PricePoint struct {
	Date          *time.Time
	Vendor        string
	InvoiceNumber string
	UnitPrice     decimal.Decimal
	Quantity      decimal.Decimal
}

type ItemRepository interface {
	AddItems(ctx context.Context, items []entity.LineItem) error
	ItemsByPartNumber(ctx context.Context, partNumber string) ([]entity.LineItem, error)
	ItemsByVendor(ctx context.Context, vendor string) ([]entity.LineItem, error)
	ItemsByDateRange(ctx context.Context, from, to *time.Time) ([]entity.LineItem, error)
	LowestPriceByVendor(ctx context.Context, partNumber string) ([]VendorPrice, error)
	PriceHistory(ctx context.Context, partNumber string) ([]PricePoint, error)
	UpdateCustomDescription(ctx context.Context, partNumber, description string) (int64, error)
}

type itemRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewItemRepository(db *DB, logger *slog.Logger) ItemRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &itemRepository{db: db, logger: logger}
}

const itemColumns = `id, part_number, original_description, custom_description, quantity, unit_price, total_price, item_date, invoice_number, vendor`

func (r *itemRepository) AddItems(ctx context.Context, items []entity.LineItem) error {
	q := r.db.rebind(`INSERT INTO items (` + itemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, it := range items {
			if it.ID == uuid.Nil {
				it.ID = uuid.New()
			}
			if _, err := tx.ExecContext(ctx, q,
				it.ID.String(), it.PartNumber, it.OriginalDescription, it.CustomDescription,
				it.Quantity, it.UnitPrice, it.TotalPrice,
				nullDate(it.Date), it.InvoiceNumber, it.Vendor,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to add items", "count", len(items), "error", err)
		return fmt.Errorf("add items: %w", err)
	}
	r.logger.Debug("items added", "count", len(items))
	return nil
}

func (r *itemRepository) ItemsByPartNumber(ctx context.Context, partNumber string) ([]entity.LineItem, error) {
	return r.query(ctx, `SELECT `+itemColumns+` FROM items WHERE part_number = ? ORDER BY item_date, vendor`, partNumber)
}

func (r *itemRepository) ItemsByVendor(ctx context.Context, vendor string) ([]entity.LineItem, error) {
	return r.query(ctx, `SELECT `+itemColumns+` FROM items WHERE vendor = ? ORDER BY item_date, part_number`, vendor)
}

// ItemsByDateRange lists items dated within [from, to]; nil bounds are open.
func (r *itemRepository) ItemsByDateRange(ctx context.Context, from, to *time.Time) ([]entity.LineItem, error) {
	where, args := dateRange("item_date", from, to)
	return r.query(ctx, `SELECT `+itemColumns+` FROM items`+where+` ORDER BY item_date, vendor, part_number`, args...)
}

func (r *itemRepository) LowestPriceByVendor(ctx context.Context, partNumber string) ([]VendorPrice, error) {
	q := r.db.rebind(`SELECT vendor, MIN(unit_price) FROM items
		WHERE part_number = ? AND unit_price > 0
		GROUP BY vendor ORDER BY MIN(unit_price), vendor`)
	rows, err := r.db.sql.QueryContext(ctx, q, partNumber)
	if err != nil {
		r.logger.Error("failed to query lowest prices", "part_number", partNumber, "error", err)
		return nil, fmt.Errorf("lowest price by vendor: %w", err)
	}
	defer rows.Close()

	var out []VendorPrice
	for rows.Next() {
		var vp VendorPrice
		if err := rows.Scan(&vp.Vendor, &vp.LowestPrice); err != nil {
			return nil, fmt.Errorf("scan vendor price: %w", err)
		}
		out = append(out, vp)
	}
	return out, rows.Err()
}

func (r *itemRepository) PriceHistory(ctx context.Context, partNumber string) ([]PricePoint, error) {
	items, err := r.ItemsByPartNumber(ctx, partNumber)
	if err != nil {
		return nil, err
	}
	out := make([]PricePoint, 0, len(items))
	for _, it := range items {
		out = append(out, PricePoint{
			Date:          it.Date,
			Vendor:        it.Vendor,
			InvoiceNumber: it.InvoiceNumber,
			UnitPrice:     it.UnitPrice,
			Quantity:      it.Quantity,
		})
	}
	return out, nil
}

// UpdateCustomDescription renames every stored item with partNumber.
func (r *itemRepository) UpdateCustomDescription(ctx context.Context, partNumber, description string) (int64, error) {
	res, err := r.db.sql.ExecContext(ctx, r.db.rebind(`UPDATE items SET custom_description = ? WHERE part_number = ?`), description, partNumber)
	if err != nil {
		r.logger.Error("failed to update description", "part_number", partNumber, "error", err)
		return 0, fmt.Errorf("update custom description: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update custom description: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("part %q: %w", partNumber, common.ErrNotFound)
	}
	return n, nil
}

func (r *itemRepository) query(ctx context.Context, q string, args ...any) ([]entity.LineItem, error) {
	rows, err := r.db.sql.QueryContext(ctx, r.db.rebind(q), args...)
	if err != nil {
		r.logger.Error("failed to query items", "error", err)
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var out []entity.LineItem
	for rows.Next() {
		var (
			it   entity.LineItem
			id   string
			date sql.NullString
		)
		if err := rows.Scan(&id, &it.PartNumber, &it.OriginalDescription, &it.CustomDescription,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &date, &it.InvoiceNumber, &it.Vendor); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.ID, _ = uuid.Parse(id)
		it.Date = parseDate(date)
		out = append(out, it)
	}
	return out, rows.Err()
}
