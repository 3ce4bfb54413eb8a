// Package store persists contacts, batches, saved filters and the
// call log in PostgreSQL. The Store interface is what the service
// layer programs against; Postgres is the only production
// implementation.
package store

import (
	"context"
	"errors"

	"github.com/ringoptima/ringoptima/internal/contact"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence façade used by the service layer.
// Implementations must be safe for concurrent use.
type Store interface {
	// Batches
	InsertBatch(ctx context.Context, b contact.Batch) (int64, error)
	ListBatches(ctx context.Context) ([]contact.Batch, error)
	UpdateBatchCount(ctx context.Context, id int64, count int) error
	DeleteBatch(ctx context.Context, id int64) error

	// Contacts
	InsertContacts(ctx context.Context, contacts []contact.Contact, chunkSize int) error
	ListContacts(ctx context.Context) ([]contact.Contact, error)
	GetContact(ctx context.Context, id int64) (contact.Contact, error)
	ListContactsByBatch(ctx context.Context, batchID int64) ([]contact.Contact, error)
	UpdateContact(ctx context.Context, id int64, upd contact.Update) error
	DeleteContact(ctx context.Context, id int64) error

	// Saved filters
	InsertSavedFilter(ctx context.Context, name string, f contact.Filter) (int64, error)
	ListSavedFilters(ctx context.Context) ([]contact.SavedFilter, error)
	DeleteSavedFilter(ctx context.Context, id int64) error

	// Call log
	InsertCallLog(ctx context.Context, log contact.CallLog) (int64, error)
	ListCallLogs(ctx context.Context, contactID int64) ([]contact.CallLog, error)

	// Dashboard
	Stats(ctx context.Context) (contact.DashboardStats, error)
}
