package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ringoptima/ringoptima/internal/contact"
)

// DB is the database handle the store needs. Satisfied by
// *pgxpool.Pool in production and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	db DB
}

// NewPostgres wraps an existing database handle.
func NewPostgres(db DB) *Postgres {
	return &Postgres{db: db}
}

// listPageSize bounds a single page when loading the full contact
// set, mirroring the hosted API's row cap.
const listPageSize = 1000

// schema is applied on startup. CREATE IF NOT EXISTS keeps restarts
// idempotent; there is deliberately no migration machinery.
const schema = `
CREATE TABLE IF NOT EXISTS batches (
	id         BIGSERIAL PRIMARY KEY,
	import_id  UUID,
	name       TEXT NOT NULL,
	file_name  TEXT NOT NULL DEFAULT '',
	count      INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contacts (
	id          BIGSERIAL PRIMARY KEY,
	batch_id    BIGINT REFERENCES batches(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	org         TEXT NOT NULL DEFAULT '',
	address     TEXT NOT NULL DEFAULT '',
	city        TEXT NOT NULL DEFAULT '',
	phones      TEXT NOT NULL DEFAULT '',
	users       TEXT NOT NULL DEFAULT '',
	operators   TEXT NOT NULL DEFAULT '',
	contact     TEXT NOT NULL DEFAULT '',
	role        TEXT NOT NULL DEFAULT '',
	notes       TEXT NOT NULL DEFAULT '',
	priority    TEXT NOT NULL DEFAULT 'medium',
	status      TEXT NOT NULL DEFAULT 'new',
	last_called TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_contacts_batch  ON contacts (batch_id);
CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts (status);

CREATE TABLE IF NOT EXISTS saved_filters (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	filter     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS call_log (
	id               BIGSERIAL PRIMARY KEY,
	contact_id       BIGINT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	note             TEXT NOT NULL DEFAULT '',
	outcome          TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Bootstrap creates the tables if they do not exist yet.
func (p *Postgres) Bootstrap(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}
	return nil
}

// --- Batches ---

func (p *Postgres) InsertBatch(ctx context.Context, b contact.Batch) (int64, error) {
	var id int64
	err := p.db.QueryRow(ctx,
		`INSERT INTO batches (import_id, name, file_name, count) VALUES ($1, $2, $3, $4) RETURNING id`,
		b.ImportID, b.Name, b.FileName, b.Count,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert batch: %w", err)
	}
	return id, nil
}

func (p *Postgres) ListBatches(ctx context.Context) ([]contact.Batch, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, COALESCE(import_id::text, ''), name, file_name, count, created_at
		 FROM batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []contact.Batch
	for rows.Next() {
		var b contact.Batch
		if err := rows.Scan(&b.ID, &b.ImportID, &b.Name, &b.FileName, &b.Count, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (p *Postgres) UpdateBatchCount(ctx context.Context, id int64, count int) error {
	tag, err := p.db.Exec(ctx, `UPDATE batches SET count = $1 WHERE id = $2`, count, id)
	if err != nil {
		return fmt.Errorf("update batch count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteBatch(ctx context.Context, id int64) error {
	// Contacts go with the batch via ON DELETE CASCADE.
	tag, err := p.db.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Contacts ---

const contactColumns = `id, COALESCE(batch_id, 0), name, org, address, city,
	phones, users, operators, contact, role, notes, priority, status,
	last_called, created_at, updated_at`

func scanContact(row pgx.Row) (contact.Contact, error) {
	var c contact.Contact
	err := row.Scan(&c.ID, &c.BatchID, &c.Name, &c.Org, &c.Address, &c.City,
		&c.Phones, &c.Users, &c.Operators, &c.ContactPerson, &c.Role, &c.Notes,
		&c.Priority, &c.Status, &c.LastCalled, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// InsertContacts bulk-inserts contacts in chunks. Chunking bounds the
// statement parameter count, not correctness; a zero or negative
// chunkSize falls back to a sane default.
func (p *Postgres) InsertContacts(ctx context.Context, contacts []contact.Contact, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	for start := 0; start < len(contacts); start += chunkSize {
		end := start + chunkSize
		if end > len(contacts) {
			end = len(contacts)
		}
		if err := p.insertChunk(ctx, contacts[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) insertChunk(ctx context.Context, chunk []contact.Contact) error {
	const cols = 13
	var sb strings.Builder
	sb.WriteString(`INSERT INTO contacts
		(batch_id, name, org, address, city, phones, users, operators, contact, role, notes, priority, status)
		VALUES `)

	args := make([]any, 0, len(chunk)*cols)
	for i := range chunk {
		c := &chunk[i]
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*cols+j+1)
		}
		sb.WriteString(")")
		args = append(args, nullableID(c.BatchID), c.Name, c.Org, c.Address, c.City,
			c.Phones, c.Users, c.Operators, c.ContactPerson, c.Role, c.Notes,
			string(c.Priority), string(c.Status))
	}

	if _, err := p.db.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert contacts: %w", err)
	}
	return nil
}

// nullableID maps the zero id to SQL NULL so manually created
// contacts are not pinned to a phantom batch.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// ListContacts loads the full contact set newest-first, paging
// internally so a single query never exceeds the page cap.
func (p *Postgres) ListContacts(ctx context.Context) ([]contact.Contact, error) {
	var all []contact.Contact
	for offset := 0; ; offset += listPageSize {
		page, err := p.listContactPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < listPageSize {
			return all, nil
		}
	}
}

func (p *Postgres) listContactPage(ctx context.Context, offset int) ([]contact.Contact, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		listPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var page []contact.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		page = append(page, c)
	}
	return page, rows.Err()
}

func (p *Postgres) GetContact(ctx context.Context, id int64) (contact.Contact, error) {
	c, err := scanContact(p.db.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return contact.Contact{}, ErrNotFound
	}
	if err != nil {
		return contact.Contact{}, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (p *Postgres) ListContactsByBatch(ctx context.Context, batchID int64) ([]contact.Contact, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE batch_id = $1 ORDER BY name`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list contacts by batch: %w", err)
	}
	defer rows.Close()

	var contacts []contact.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// UpdateContact applies the non-nil fields of upd and bumps
// updated_at. A no-op update is rejected before touching the
// database.
func (p *Postgres) UpdateContact(ctx context.Context, id int64, upd contact.Update) error {
	sets := []string{"updated_at = now()"}
	args := []any{}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Org != nil {
		add("org", *upd.Org)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.City != nil {
		add("city", *upd.City)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	if upd.Priority != nil {
		add("priority", string(*upd.Priority))
	}
	if upd.Status != nil {
		add("status", string(*upd.Status))
	}
	if upd.LastCalled != nil {
		add("last_called", *upd.LastCalled)
	}

	if len(args) == 0 {
		return fmt.Errorf("update contact %d: no fields to update", id)
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE contacts SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := p.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteContact(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Saved filters ---

func (p *Postgres) InsertSavedFilter(ctx context.Context, name string, f contact.Filter) (int64, error) {
	payload, err := json.Marshal(f)
	if err != nil {
		return 0, fmt.Errorf("encode filter: %w", err)
	}
	var id int64
	err = p.db.QueryRow(ctx,
		`INSERT INTO saved_filters (name, filter) VALUES ($1, $2) RETURNING id`,
		name, payload,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert saved filter: %w", err)
	}
	return id, nil
}

func (p *Postgres) ListSavedFilters(ctx context.Context) ([]contact.SavedFilter, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, name, filter, created_at FROM saved_filters ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list saved filters: %w", err)
	}
	defer rows.Close()

	var filters []contact.SavedFilter
	for rows.Next() {
		var sf contact.SavedFilter
		var payload []byte
		if err := rows.Scan(&sf.ID, &sf.Name, &payload, &sf.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved filter: %w", err)
		}
		if err := json.Unmarshal(payload, &sf.Filter); err != nil {
			return nil, fmt.Errorf("decode filter %d: %w", sf.ID, err)
		}
		filters = append(filters, sf)
	}
	return filters, rows.Err()
}

func (p *Postgres) DeleteSavedFilter(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM saved_filters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saved filter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Call log ---

func (p *Postgres) InsertCallLog(ctx context.Context, log contact.CallLog) (int64, error) {
	var id int64
	err := p.db.QueryRow(ctx,
		`INSERT INTO call_log (contact_id, note, outcome, duration_seconds) VALUES ($1, $2, $3, $4) RETURNING id`,
		log.ContactID, log.Note, string(log.Outcome), log.DurationSeconds,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert call log: %w", err)
	}
	return id, nil
}

func (p *Postgres) ListCallLogs(ctx context.Context, contactID int64) ([]contact.CallLog, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, contact_id, note, outcome, duration_seconds, created_at
		 FROM call_log WHERE contact_id = $1 ORDER BY created_at DESC`, contactID)
	if err != nil {
		return nil, fmt.Errorf("list call logs: %w", err)
	}
	defer rows.Close()

	var logs []contact.CallLog
	for rows.Next() {
		var l contact.CallLog
		if err := rows.Scan(&l.ID, &l.ContactID, &l.Note, &l.Outcome, &l.DurationSeconds, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan call log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// --- Dashboard ---

// Stats aggregates status and priority counts in one grouped query
// and derives the rates in Go.
func (p *Postgres) Stats(ctx context.Context) (contact.DashboardStats, error) {
	rows, err := p.db.Query(ctx,
		`SELECT status, priority, COUNT(*) FROM contacts GROUP BY status, priority`)
	if err != nil {
		return contact.DashboardStats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats contact.DashboardStats
	for rows.Next() {
		var status, priority string
		var count int
		if err := rows.Scan(&status, &priority, &count); err != nil {
			return contact.DashboardStats{}, fmt.Errorf("scan stats: %w", err)
		}
		stats.TotalContacts += count
		switch contact.Status(status) {
		case contact.StatusNew:
			stats.NewCount += count
		case contact.StatusContacted:
			stats.ContactedCount += count
		case contact.StatusInterested:
			stats.InterestedCount += count
		case contact.StatusNotInterested:
			stats.NotInterestedCount += count
		case contact.StatusConverted:
			stats.ConvertedCount += count
		}
		switch contact.Priority(priority) {
		case contact.PriorityHigh:
			stats.HighPriority += count
		case contact.PriorityMedium:
			stats.MediumPriority += count
		case contact.PriorityLow:
			stats.LowPriority += count
		}
	}
	if err := rows.Err(); err != nil {
		return contact.DashboardStats{}, err
	}

	if stats.TotalContacts > 0 {
		engaged := stats.ContactedCount + stats.InterestedCount + stats.ConvertedCount
		stats.ConversionRate = float64(stats.ConvertedCount) / float64(stats.TotalContacts) * 100
		stats.EngagementRate = float64(engaged) / float64(stats.TotalContacts) * 100
	}
	return stats, nil
}
