package core

import (
	"time"

	"github.com/ringoptima/ringoptima/internal/contact"
	"github.com/ringoptima/ringoptima/internal/csv"
)

// ExportCSV serializes the contacts selected by f into the export
// CSV format and returns the suggested download file name with it.
// A zero filter exports the whole snapshot.
func (s *Service) ExportCSV(f contact.Filter) (fileName, content string) {
	contacts := s.FilteredContacts(f)
	return csv.ExportFileName(time.Now()), csv.Serialize(contacts)
}
