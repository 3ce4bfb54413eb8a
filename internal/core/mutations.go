package core

import (
	"context"
	"fmt"
	"time"

	"github.com/ringoptima/ringoptima/internal/contact"
)

// Every mutation writes through to the store first, then patches the
// in-memory snapshot so reads never require a full reload. Derived
// caches are invalidated on every successful write.

// GetContact returns one contact from the snapshot, falling back to
// the store when the snapshot does not have it yet.
func (s *Service) GetContact(ctx context.Context, id int64) (contact.Contact, error) {
	s.mu.RLock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			c := s.contacts[i]
			s.mu.RUnlock()
			return c, nil
		}
	}
	s.mu.RUnlock()
	return s.store.GetContact(ctx, id)
}

// UpdateContact applies a partial edit to one contact.
func (s *Service) UpdateContact(ctx context.Context, id int64, upd contact.Update) (contact.Contact, error) {
	if err := s.store.UpdateContact(ctx, id, upd); err != nil {
		return contact.Contact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			upd.Apply(&s.contacts[i])
			s.contacts[i].UpdatedAt = time.Now()
			s.invalidateLocked()
			return s.contacts[i], nil
		}
	}
	// Not in the snapshot; the store accepted the write, so the
	// snapshot is stale. Signal the caller with the stored row.
	s.invalidateLocked()
	c, err := s.store.GetContact(ctx, id)
	if err != nil {
		return contact.Contact{}, fmt.Errorf("reload updated contact: %w", err)
	}
	return c, nil
}

// DeleteContact removes one contact.
func (s *Service) DeleteContact(ctx context.Context, id int64) error {
	if err := s.store.DeleteContact(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			break
		}
	}
	s.invalidateLocked()
	return nil
}

// DeleteBatch removes a batch and, through the store's cascade, all
// contacts imported with it.
func (s *Service) DeleteBatch(ctx context.Context, id int64) error {
	if err := s.store.DeleteBatch(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.contacts[:0]
	for _, c := range s.contacts {
		if c.BatchID != id {
			kept = append(kept, c)
		}
	}
	s.contacts = kept
	for i := range s.batches {
		if s.batches[i].ID == id {
			s.batches = append(s.batches[:i], s.batches[i+1:]...)
			break
		}
	}
	s.invalidateLocked()
	return nil
}

// LogCall records a call against a contact and bumps its lastCalled
// timestamp.
func (s *Service) LogCall(ctx context.Context, log contact.CallLog) (contact.CallLog, error) {
	id, err := s.store.InsertCallLog(ctx, log)
	if err != nil {
		return contact.CallLog{}, err
	}
	log.ID = id
	log.CreatedAt = time.Now()

	now := log.CreatedAt
	if _, err := s.UpdateContact(ctx, log.ContactID, contact.Update{LastCalled: &now}); err != nil {
		return contact.CallLog{}, fmt.Errorf("update last called: %w", err)
	}
	return log, nil
}

// CallLogs returns the call history for one contact, newest first.
func (s *Service) CallLogs(ctx context.Context, contactID int64) ([]contact.CallLog, error) {
	return s.store.ListCallLogs(ctx, contactID)
}

// SaveFilter persists a named filter configuration.
func (s *Service) SaveFilter(ctx context.Context, name string, f contact.Filter) (contact.SavedFilter, error) {
	id, err := s.store.InsertSavedFilter(ctx, name, f)
	if err != nil {
		return contact.SavedFilter{}, err
	}
	return contact.SavedFilter{ID: id, Name: name, Filter: f, CreatedAt: time.Now()}, nil
}

// SavedFilters lists the persisted filter configurations.
func (s *Service) SavedFilters(ctx context.Context) ([]contact.SavedFilter, error) {
	return s.store.ListSavedFilters(ctx)
}

// DeleteSavedFilter removes a persisted filter configuration.
func (s *Service) DeleteSavedFilter(ctx context.Context, id int64) error {
	return s.store.DeleteSavedFilter(ctx, id)
}
