package core

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ringoptima/ringoptima/internal/contact"
	"github.com/ringoptima/ringoptima/internal/store"
)

// Service owns the in-memory working set and the business logic on
// top of the store. All reads are served from the snapshot; every
// mutation writes through to the store, updates the snapshot and
// invalidates the derived caches.
type Service struct {
	store store.Store

	maxFileSize int64
	chunkSize   int

	mu       sync.RWMutex
	contacts []contact.Contact
	batches  []contact.Batch

	// Derived caches, guarded by mu. filterKey identifies the
	// filter the filtered slice was computed for.
	filterKey  string
	filtered   []contact.Contact
	stats      contact.DashboardStats
	statsValid bool
}

// NewService creates a Service on top of st. maxFileSize caps import
// uploads in bytes; chunkSize bounds a single bulk insert.
func NewService(st store.Store, maxFileSize int64, chunkSize int) *Service {
	return &Service{
		store:       st,
		maxFileSize: maxFileSize,
		chunkSize:   chunkSize,
	}
}

// Refresh reloads the contact and batch snapshots from the store.
// The two loads run concurrently; either failure aborts the refresh
// and leaves the previous snapshot in place.
func (s *Service) Refresh(ctx context.Context) error {
	var (
		contacts []contact.Contact
		batches  []contact.Batch
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contacts, err = s.store.ListContacts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		batches, err = s.store.ListBatches(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	s.mu.Lock()
	s.contacts = contacts
	s.batches = batches
	s.invalidateLocked()
	s.mu.Unlock()
	return nil
}

// invalidateLocked drops the derived caches. Callers must hold mu.
func (s *Service) invalidateLocked() {
	s.filterKey = ""
	s.filtered = nil
	s.statsValid = false
}

// Contacts returns a copy of the current contact snapshot.
func (s *Service) Contacts() []contact.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]contact.Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// FilteredContacts applies f to the snapshot. The result is cached
// until the next mutation or a different filter arrives, so repeated
// identical queries are free.
func (s *Service) FilteredContacts(f contact.Filter) []contact.Contact {
	key := filterKey(f)

	s.mu.RLock()
	if s.filterKey == key && s.filtered != nil {
		cached := s.filtered
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filterKey == key && s.filtered != nil {
		return s.filtered
	}
	s.filtered = f.Apply(s.contacts)
	s.filterKey = key
	return s.filtered
}

func filterKey(f contact.Filter) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d|%s|%s",
		f.Search, f.Operator, f.Status, f.Priority, f.BatchID, f.City, f.Sort)
}

// Stats returns the dashboard aggregates, computed lazily from the
// snapshot and cached until the next mutation.
func (s *Service) Stats() contact.DashboardStats {
	s.mu.RLock()
	if s.statsValid {
		stats := s.stats
		s.mu.RUnlock()
		return stats
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.statsValid {
		s.stats = contact.ComputeStats(s.contacts)
		s.statsValid = true
	}
	return s.stats
}

// OperatorDistribution returns the operator chart slices for the
// current snapshot.
func (s *Service) OperatorDistribution() []contact.OperatorShare {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contact.OperatorDistribution(s.contacts)
}

// Batches returns a copy of the current batch snapshot.
func (s *Service) Batches() []contact.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]contact.Batch, len(s.batches))
	copy(out, s.batches)
	return out
}
