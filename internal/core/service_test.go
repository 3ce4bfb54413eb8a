package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ringoptima/ringoptima/internal/contact"
	"github.com/ringoptima/ringoptima/internal/store"
)

// ---------------------------------------------------------------------------
// fakeStore: in-memory Store for service tests
// ---------------------------------------------------------------------------

type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	contacts []contact.Contact
	batches  []contact.Batch
	filters  []contact.SavedFilter
	calls    []contact.CallLog

	listContactsErr error
}

func newFakeStore() *fakeStore { return &fakeStore{} }

func (f *fakeStore) nid() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) InsertBatch(_ context.Context, b contact.Batch) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.nid()
	b.CreatedAt = time.Now()
	f.batches = append(f.batches, b)
	return b.ID, nil
}

func (f *fakeStore) ListBatches(_ context.Context) ([]contact.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]contact.Batch, len(f.batches))
	copy(out, f.batches)
	return out, nil
}

func (f *fakeStore) UpdateBatchCount(_ context.Context, id int64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.batches {
		if f.batches[i].ID == id {
			f.batches[i].Count = count
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) DeleteBatch(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.batches {
		if f.batches[i].ID == id {
			f.batches = append(f.batches[:i], f.batches[i+1:]...)
			kept := f.contacts[:0]
			for _, c := range f.contacts {
				if c.BatchID != id {
					kept = append(kept, c)
				}
			}
			f.contacts = kept
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) InsertContacts(_ context.Context, contacts []contact.Contact, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range contacts {
		c.ID = f.nid()
		c.CreatedAt = time.Now()
		c.UpdatedAt = c.CreatedAt
		f.contacts = append(f.contacts, c)
	}
	return nil
}

func (f *fakeStore) ListContacts(_ context.Context) ([]contact.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listContactsErr != nil {
		return nil, f.listContactsErr
	}
	out := make([]contact.Contact, len(f.contacts))
	copy(out, f.contacts)
	return out, nil
}

func (f *fakeStore) GetContact(_ context.Context, id int64) (contact.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.contacts {
		if f.contacts[i].ID == id {
			return f.contacts[i], nil
		}
	}
	return contact.Contact{}, store.ErrNotFound
}

func (f *fakeStore) ListContactsByBatch(_ context.Context, batchID int64) ([]contact.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contact.Contact
	for _, c := range f.contacts {
		if c.BatchID == batchID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateContact(_ context.Context, id int64, upd contact.Update) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.contacts {
		if f.contacts[i].ID == id {
			upd.Apply(&f.contacts[i])
			f.contacts[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) DeleteContact(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.contacts {
		if f.contacts[i].ID == id {
			f.contacts = append(f.contacts[:i], f.contacts[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) InsertSavedFilter(_ context.Context, name string, flt contact.Filter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sf := contact.SavedFilter{ID: f.nid(), Name: name, Filter: flt, CreatedAt: time.Now()}
	f.filters = append(f.filters, sf)
	return sf.ID, nil
}

func (f *fakeStore) ListSavedFilters(_ context.Context) ([]contact.SavedFilter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]contact.SavedFilter, len(f.filters))
	copy(out, f.filters)
	return out, nil
}

func (f *fakeStore) DeleteSavedFilter(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.filters {
		if f.filters[i].ID == id {
			f.filters = append(f.filters[:i], f.filters[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) InsertCallLog(_ context.Context, log contact.CallLog) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	log.ID = f.nid()
	log.CreatedAt = time.Now()
	f.calls = append(f.calls, log)
	return log.ID, nil
}

func (f *fakeStore) ListCallLogs(_ context.Context, contactID int64) ([]contact.CallLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contact.CallLog
	for _, l := range f.calls {
		if l.ContactID == contactID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) Stats(_ context.Context) (contact.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return contact.ComputeStats(f.contacts), nil
}

var _ store.Store = (*fakeStore)(nil)

// newTestService seeds a fake store and returns a refreshed service.
func newTestService(t *testing.T, contacts ...contact.Contact) (*Service, *fakeStore) {
	t.Helper()
	fake := newFakeStore()
	if len(contacts) > 0 {
		if err := fake.InsertContacts(context.Background(), contacts, 0); err != nil {
			t.Fatalf("seed contacts: %v", err)
		}
	}
	svc := NewService(fake, 0, 0)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	return svc, fake
}

// ---------------------------------------------------------------------------
// Snapshot and caches
// ---------------------------------------------------------------------------

func TestRefresh_LoadsSnapshot(t *testing.T) {
	svc, _ := newTestService(t,
		contact.Contact{Name: "Acme AB", Status: contact.StatusNew, Priority: contact.PriorityMedium},
		contact.Contact{Name: "Beta AB", Status: contact.StatusNew, Priority: contact.PriorityMedium},
	)

	if got := svc.Contacts(); len(got) != 2 {
		t.Fatalf("Contacts() returned %d contacts, want 2", len(got))
	}
}

func TestRefresh_FailureKeepsSnapshot(t *testing.T) {
	svc, fake := newTestService(t,
		contact.Contact{Name: "Acme AB"},
	)

	fake.mu.Lock()
	fake.listContactsErr = errors.New("connection refused")
	fake.mu.Unlock()

	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() succeeded, want error")
	}
	if got := svc.Contacts(); len(got) != 1 {
		t.Errorf("snapshot lost after failed refresh: %d contacts, want 1", len(got))
	}
}

func TestContacts_ReturnsCopy(t *testing.T) {
	svc, _ := newTestService(t, contact.Contact{Name: "Acme AB"})

	got := svc.Contacts()
	got[0].Name = "mutated"

	if svc.Contacts()[0].Name != "Acme AB" {
		t.Error("caller mutation leaked into the snapshot")
	}
}

func TestFilteredContacts_InvalidatedByMutation(t *testing.T) {
	svc, _ := newTestService(t,
		contact.Contact{Name: "Acme AB", Status: contact.StatusNew},
		contact.Contact{Name: "Beta AB", Status: contact.StatusContacted},
	)
	f := contact.Filter{Status: contact.StatusNew}

	if got := svc.FilteredContacts(f); len(got) != 1 {
		t.Fatalf("filtered %d contacts, want 1", len(got))
	}
	// Second identical call hits the cache.
	if got := svc.FilteredContacts(f); len(got) != 1 {
		t.Fatalf("cached call returned %d contacts, want 1", len(got))
	}

	status := contact.StatusNew
	if _, err := svc.UpdateContact(context.Background(), 2, contact.Update{Status: &status}); err != nil {
		t.Fatalf("UpdateContact() = %v", err)
	}

	if got := svc.FilteredContacts(f); len(got) != 2 {
		t.Errorf("filtered %d contacts after mutation, want 2", len(got))
	}
}

func TestStats_InvalidatedByMutation(t *testing.T) {
	svc, _ := newTestService(t,
		contact.Contact{Name: "Acme AB", Status: contact.StatusNew, Priority: contact.PriorityMedium},
		contact.Contact{Name: "Beta AB", Status: contact.StatusNew, Priority: contact.PriorityMedium},
	)

	if got := svc.Stats(); got.ConvertedCount != 0 {
		t.Fatalf("ConvertedCount = %d, want 0", got.ConvertedCount)
	}

	status := contact.StatusConverted
	if _, err := svc.UpdateContact(context.Background(), 1, contact.Update{Status: &status}); err != nil {
		t.Fatalf("UpdateContact() = %v", err)
	}

	got := svc.Stats()
	if got.ConvertedCount != 1 {
		t.Errorf("ConvertedCount = %d, want 1", got.ConvertedCount)
	}
	if got.ConversionRate != 50 {
		t.Errorf("ConversionRate = %v, want 50", got.ConversionRate)
	}
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func TestUpdateContact_PatchesSnapshot(t *testing.T) {
	svc, _ := newTestService(t, contact.Contact{Name: "Acme AB"})

	city := "Göteborg"
	got, err := svc.UpdateContact(context.Background(), 1, contact.Update{City: &city})
	if err != nil {
		t.Fatalf("UpdateContact() = %v", err)
	}
	if got.City != "Göteborg" {
		t.Errorf("returned City = %q, want %q", got.City, "Göteborg")
	}
	if svc.Contacts()[0].City != "Göteborg" {
		t.Error("snapshot not patched after update")
	}
}

func TestUpdateContact_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	name := "Finns Inte AB"
	_, err := svc.UpdateContact(context.Background(), 404, contact.Update{Name: &name})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateContact() = %v, want ErrNotFound", err)
	}
}

func TestGetContact_FallsBackToStore(t *testing.T) {
	svc, fake := newTestService(t)

	// Insert behind the service's back so the snapshot misses it.
	if err := fake.InsertContacts(context.Background(), []contact.Contact{{Name: "Sen AB"}}, 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.GetContact(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetContact() = %v", err)
	}
	if got.Name != "Sen AB" {
		t.Errorf("Name = %q, want %q", got.Name, "Sen AB")
	}
}

func TestDeleteContact_RemovesFromSnapshot(t *testing.T) {
	svc, _ := newTestService(t,
		contact.Contact{Name: "Acme AB"},
		contact.Contact{Name: "Beta AB"},
	)

	if err := svc.DeleteContact(context.Background(), 1); err != nil {
		t.Fatalf("DeleteContact() = %v", err)
	}

	got := svc.Contacts()
	if len(got) != 1 || got[0].Name != "Beta AB" {
		t.Errorf("snapshot after delete = %+v, want only Beta AB", got)
	}
}

func TestDeleteBatch_RemovesBatchContacts(t *testing.T) {
	fake := newFakeStore()
	batchID, err := fake.InsertBatch(context.Background(), contact.Batch{Name: "mars"})
	if err != nil {
		t.Fatalf("InsertBatch() = %v", err)
	}
	seed := []contact.Contact{
		{Name: "Acme AB", BatchID: batchID},
		{Name: "Beta AB", BatchID: batchID},
		{Name: "Annan AB"},
	}
	if err := fake.InsertContacts(context.Background(), seed, 0); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewService(fake, 0, 0)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}

	if err := svc.DeleteBatch(context.Background(), batchID); err != nil {
		t.Fatalf("DeleteBatch() = %v", err)
	}

	got := svc.Contacts()
	if len(got) != 1 || got[0].Name != "Annan AB" {
		t.Errorf("snapshot after batch delete = %+v, want only Annan AB", got)
	}
	if len(svc.Batches()) != 0 {
		t.Errorf("batches after delete = %+v, want none", svc.Batches())
	}
}

func TestLogCall_BumpsLastCalled(t *testing.T) {
	svc, _ := newTestService(t, contact.Contact{Name: "Acme AB"})

	log, err := svc.LogCall(context.Background(), contact.CallLog{
		ContactID: 1,
		Note:      "intresserad, ring nästa vecka",
		Outcome:   contact.OutcomeAnswered,
	})
	if err != nil {
		t.Fatalf("LogCall() = %v", err)
	}
	if log.ID == 0 {
		t.Error("LogCall() did not assign an id")
	}

	got, err := svc.GetContact(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetContact() = %v", err)
	}
	if got.LastCalled == nil {
		t.Fatal("LastCalled not set after LogCall")
	}

	logs, err := svc.CallLogs(context.Background(), 1)
	if err != nil {
		t.Fatalf("CallLogs() = %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("CallLogs() returned %d entries, want 1", len(logs))
	}
}

func TestSaveFilter_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	saved, err := svc.SaveFilter(context.Background(), "Telia, nya", contact.Filter{
		Operator: "telia",
		Status:   contact.StatusNew,
	})
	if err != nil {
		t.Fatalf("SaveFilter() = %v", err)
	}
	if saved.ID == 0 {
		t.Error("SaveFilter() did not assign an id")
	}

	filters, err := svc.SavedFilters(context.Background())
	if err != nil {
		t.Fatalf("SavedFilters() = %v", err)
	}
	if len(filters) != 1 || filters[0].Name != "Telia, nya" {
		t.Errorf("SavedFilters() = %+v, want the saved filter", filters)
	}

	if err := svc.DeleteSavedFilter(context.Background(), saved.ID); err != nil {
		t.Fatalf("DeleteSavedFilter() = %v", err)
	}
	filters, err = svc.SavedFilters(context.Background())
	if err != nil {
		t.Fatalf("SavedFilters() = %v", err)
	}
	if len(filters) != 0 {
		t.Errorf("SavedFilters() after delete = %+v, want none", filters)
	}
}
