package csv

import (
	"strings"

	"github.com/ringoptima/ringoptima/internal/contact"
)

// SkipSummary counts the rows an import rejected, by reason. Skips are
// diagnostic only; they never fail the import.
type SkipSummary struct {
	Malformed int `json:"malformed"` // fewer than minRowCells cells
	NoName    int `json:"noName"`    // empty resolved name cell
	NoPhone   int `json:"noPhone"`   // extractor found no number
}

// Total returns the number of skipped rows.
func (s SkipSummary) Total() int { return s.Malformed + s.NoName + s.NoPhone }

// minRowCells is the structural floor for a data row. Anything
// shorter is a broken line rather than a sparse record.
const minRowCells = 3

// Assemble turns tokenized data rows (header excluded) into canonical
// contact records for one batch. A row is emitted only when its
// resolved name is non-empty and the extractor found at least one
// phone number; everything else is counted in the summary and
// dropped. Assembled contacts carry the creation defaults: status
// "new", priority "medium", empty notes.
func Assemble(rows [][]string, cols ColumnMap, batchID int64) ([]contact.Contact, SkipSummary) {
	var contacts []contact.Contact
	var skips SkipSummary

	for _, row := range rows {
		if len(row) < minRowCells {
			skips.Malformed++
			continue
		}

		name := strings.TrimSpace(cell(row, cols.Name))
		if name == "" {
			skips.NoName++
			continue
		}

		set := Extract(
			cell(row, cols.SimplePhone),
			cell(row, cols.PhoneBlob),
			cell(row, cols.BoardBlob),
		)
		if set.Empty() {
			skips.NoPhone++
			continue
		}

		contacts = append(contacts, contact.Contact{
			BatchID:       batchID,
			Name:          name,
			Org:           strings.TrimSpace(cell(row, cols.Org)),
			Address:       strings.TrimSpace(cell(row, cols.Address)),
			City:          strings.TrimSpace(cell(row, cols.City)),
			Phones:        strings.Join(set.Phones, "\n"),
			Users:         strings.Join(set.Users, "\n"),
			Operators:     strings.Join(set.Operators, "\n"),
			ContactPerson: strings.TrimSpace(cell(row, cols.ContactPerson)),
			Role:          strings.TrimSpace(cell(row, cols.Role)),
			Notes:         "",
			Priority:      contact.PriorityMedium,
			Status:        contact.StatusNew,
		})
	}

	return contacts, skips
}

// cell reads a column from a row, treating unresolved columns and
// short rows as empty cells.
func cell(row []string, idx int) string {
	if idx == Unresolved || idx >= len(row) {
		return ""
	}
	return row[idx]
}
