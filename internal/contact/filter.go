package contact

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// svCollator orders names the way a Swedish speaker expects
// (å, ä, ö sort after z, not next to a and o).
var svCollator = collate.New(language.Swedish, collate.IgnoreCase)

// MatchesSearch reports whether c matches a free-text search term.
// Name, city and contact person are matched case-insensitively;
// phones and org-id are matched as-is since they are numeric.
func (c *Contact) MatchesSearch(term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	lower := strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Name), lower) ||
		strings.Contains(strings.ToLower(c.City), lower) ||
		strings.Contains(strings.ToLower(c.ContactPerson), lower) ||
		strings.Contains(c.Phones, term) ||
		strings.Contains(c.Org, term)
}

// Matches reports whether c passes every constraint of f.
// Constraints combine with AND; zero values are ignored.
func (f Filter) Matches(c *Contact) bool {
	if !c.MatchesSearch(f.Search) {
		return false
	}
	if f.Operator != "" &&
		!strings.Contains(strings.ToLower(c.Operators), strings.ToLower(f.Operator)) {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Priority != "" && c.Priority != f.Priority {
		return false
	}
	if f.BatchID != 0 && c.BatchID != f.BatchID {
		return false
	}
	if f.City != "" &&
		!strings.Contains(strings.ToLower(c.City), strings.ToLower(f.City)) {
		return false
	}
	return true
}

// Apply returns the contacts passing f, ordered per f.Sort.
// The input slice is not modified.
func (f Filter) Apply(contacts []Contact) []Contact {
	filtered := make([]Contact, 0, len(contacts))
	for i := range contacts {
		if f.Matches(&contacts[i]) {
			filtered = append(filtered, contacts[i])
		}
	}
	SortContacts(filtered, f.Sort)
	return filtered
}

// SortContacts orders contacts in place by the given sort option.
// Unknown options leave the order unchanged.
func SortContacts(contacts []Contact, by string) {
	switch by {
	case SortNameAsc:
		sort.SliceStable(contacts, func(i, j int) bool {
			return svCollator.CompareString(contacts[i].Name, contacts[j].Name) < 0
		})
	case SortNameDesc:
		sort.SliceStable(contacts, func(i, j int) bool {
			return svCollator.CompareString(contacts[i].Name, contacts[j].Name) > 0
		})
	case SortPhonesDesc:
		sort.SliceStable(contacts, func(i, j int) bool {
			return CountPhones(contacts[i].Phones) > CountPhones(contacts[j].Phones)
		})
	case SortPhonesAsc:
		sort.SliceStable(contacts, func(i, j int) bool {
			return CountPhones(contacts[i].Phones) < CountPhones(contacts[j].Phones)
		})
	case SortRecent:
		sort.SliceStable(contacts, func(i, j int) bool {
			return contacts[i].CreatedAt.After(contacts[j].CreatedAt)
		})
	case SortUpdated:
		sort.SliceStable(contacts, func(i, j int) bool {
			return contacts[i].UpdatedAt.After(contacts[j].UpdatedAt)
		})
	}
}
