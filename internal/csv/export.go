package csv

import (
	"strings"
	"time"

	"github.com/ringoptima/ringoptima/internal/contact"
)

// exportBOM makes spreadsheet applications detect UTF-8 instead of
// falling back to Latin-1 and mangling å/ä/ö.
const exportBOM = "\uFEFF"

// exportHeader is the fixed export column set. Order is part of the
// format.
var exportHeader = []string{
	"Företagsnamn",
	"Organisationsnummer",
	"Adress",
	"Ort",
	"Telefon",
	"Kontaktperson",
	"Roll",
	"Operatör",
	"Status",
	"Prioritet",
	"Anteckningar",
	"Senast ringd",
	"Skapad",
}

// Serialize renders contacts as semicolon-delimited text with a UTF-8
// BOM. Newline-joined phone and operator lists flatten to "; ";
// newlines inside notes become single spaces. Cells containing ';',
// '"' or a newline are quote-wrapped with internal quotes doubled,
// the exact inverse of Tokenize's quoting rules. The output re-encodes
// the canonical record and is not byte-identical to the original
// import source.
func Serialize(contacts []contact.Contact) string {
	var b strings.Builder
	b.WriteString(exportBOM)
	b.WriteString(strings.Join(exportHeader, ";"))

	for i := range contacts {
		c := &contacts[i]
		row := []string{
			escapeCell(c.Name),
			escapeCell(c.Org),
			escapeCell(c.Address),
			escapeCell(c.City),
			escapeCell(strings.ReplaceAll(c.Phones, "\n", "; ")),
			escapeCell(c.ContactPerson),
			escapeCell(c.Role),
			escapeCell(strings.ReplaceAll(c.Operators, "\n", "; ")),
			escapeCell(string(c.Status)),
			escapeCell(string(c.Priority)),
			escapeCell(strings.ReplaceAll(c.Notes, "\n", " ")),
			escapeCell(formatTime(c.LastCalled)),
			escapeCell(formatCreated(c.CreatedAt)),
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(row, ";"))
	}

	return b.String()
}

// ExportFileName returns the download name for an export generated on
// the given day, e.g. "ringoptima-export-2026-08-31.csv".
func ExportFileName(now time.Time) string {
	return "ringoptima-export-" + now.Format("2006-01-02") + ".csv"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// escapeCell quote-wraps a value only when it contains a character
// that would break the row.
func escapeCell(v string) string {
	if !strings.ContainsAny(v, ";\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
