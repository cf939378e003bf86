package repository

import "log/slog"

// Store bundles the record repositories over one database.
type Store struct {
	InvoiceRepository
	ItemRepository
}

func NewStore(db *DB, logger *slog.Logger) *Store {
	return &Store{
		InvoiceRepository: NewInvoiceRepository(db, logger),
		ItemRepository:    NewItemRepository(db, logger),
	}
}
