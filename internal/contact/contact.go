// Package contact defines the canonical lead records and the pure
// helpers that operate on them: phone-list accessors, operator
// detection, search/sort filtering and dashboard aggregation.
// This package has no storage or HTTP dependencies.
package contact

import "time"

// Priority levels for a contact.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Status tracks where a contact is in the sales process.
type Status string

const (
	StatusNew           Status = "new"
	StatusContacted     Status = "contacted"
	StatusInterested    Status = "interested"
	StatusNotInterested Status = "not_interested"
	StatusConverted     Status = "converted"
)

// CallOutcome classifies a logged call.
type CallOutcome string

const (
	OutcomeAnswered    CallOutcome = "answered"
	OutcomeNoAnswer    CallOutcome = "no_answer"
	OutcomeVoicemail   CallOutcome = "voicemail"
	OutcomeCallback    CallOutcome = "callback"
	OutcomeWrongNumber CallOutcome = "wrong_number"
)

// Contact is the canonical imported lead record. Phones, Users and
// Operators are newline-joined lists; empty string means none.
// Text fields default to "" rather than being nullable.
type Contact struct {
	ID            int64      `json:"id"`
	BatchID       int64      `json:"batchId,omitempty"`
	Name          string     `json:"name"`
	Org           string     `json:"org"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	Phones        string     `json:"phones"`
	Users         string     `json:"users"`
	Operators     string     `json:"operators"`
	ContactPerson string     `json:"contact"`
	Role          string     `json:"role"`
	Notes         string     `json:"notes"`
	Priority      Priority   `json:"priority"`
	Status        Status     `json:"status"`
	LastCalled    *time.Time `json:"lastCalled,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Update carries a partial contact edit. Nil fields are left unchanged.
type Update struct {
	Name       *string    `json:"name,omitempty"`
	Org        *string    `json:"org,omitempty"`
	Address    *string    `json:"address,omitempty"`
	City       *string    `json:"city,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	Priority   *Priority  `json:"priority,omitempty"`
	Status     *Status    `json:"status,omitempty"`
	LastCalled *time.Time `json:"lastCalled,omitempty"`
}

// Apply copies the non-nil fields of u onto c.
func (u Update) Apply(c *Contact) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Org != nil {
		c.Org = *u.Org
	}
	if u.Address != nil {
		c.Address = *u.Address
	}
	if u.City != nil {
		c.City = *u.City
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	if u.Priority != nil {
		c.Priority = *u.Priority
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.LastCalled != nil {
		c.LastCalled = u.LastCalled
	}
}

// Batch groups the contacts created by one import.
type Batch struct {
	ID        int64     `json:"id"`
	ImportID  string    `json:"importId,omitempty"`
	Name      string    `json:"name"`
	FileName  string    `json:"fileName"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"createdAt"`
}

// CallLog is one logged call against a contact.
type CallLog struct {
	ID              int64       `json:"id"`
	ContactID       int64       `json:"contactId"`
	Note            string      `json:"note"`
	Outcome         CallOutcome `json:"outcome"`
	DurationSeconds int         `json:"durationSeconds"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// Filter selects and orders a contact list. Zero values mean "no
// constraint". Operator matching is case-insensitive containment
// against the newline-joined operators field.
type Filter struct {
	Search   string   `json:"search"`
	Operator string   `json:"operator"`
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`
	BatchID  int64    `json:"batchId,omitempty"`
	City     string   `json:"city,omitempty"`
	Sort     string   `json:"sort"`
}

// Sort options accepted by Filter.Sort.
const (
	SortNameAsc    = "name-asc"
	SortNameDesc   = "name-desc"
	SortPhonesDesc = "phones-desc"
	SortPhonesAsc  = "phones-asc"
	SortRecent     = "recent"
	SortUpdated    = "updated"
)

// SavedFilter is a named, persisted filter configuration.
type SavedFilter struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Filter    Filter    `json:"filter"`
	CreatedAt time.Time `json:"createdAt"`
}

// DashboardStats aggregates the contact list for the dashboard.
type DashboardStats struct {
	TotalContacts      int     `json:"totalContacts"`
	NewCount           int     `json:"newCount"`
	ContactedCount     int     `json:"contactedCount"`
	InterestedCount    int     `json:"interestedCount"`
	NotInterestedCount int     `json:"notInterestedCount"`
	ConvertedCount     int     `json:"convertedCount"`
	HighPriority       int     `json:"highPriority"`
	MediumPriority     int     `json:"mediumPriority"`
	LowPriority        int     `json:"lowPriority"`
	ConversionRate     float64 `json:"conversionRate"`
	EngagementRate     float64 `json:"engagementRate"`
}

// OperatorShare is one slice of the dashboard operator chart.
type OperatorShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}
