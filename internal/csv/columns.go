package csv

import (
	"errors"
	"strings"
)

// Unresolved marks a semantic field with no matching header column.
const Unresolved = -1

// ErrNoNameColumn aborts an import whose header has no recognizable
// company-name column. All other fields are optional.
var ErrNoNameColumn = errors.New("missing required column: company name")

// ColumnMap maps the pipeline's semantic fields onto header positions.
// Unresolved fields read as empty cells downstream.
type ColumnMap struct {
	Name          int
	Org           int
	Address       int
	City          int
	SimplePhone   int
	PhoneBlob     int
	BoardBlob     int
	ContactPerson int
	Role          int
}

// Candidate header names per semantic field, in priority order.
// Registry exports label the phone-blob column "Operatör" even though
// it mostly holds numbers; the dedicated names come after it.
var (
	nameCandidates    = []string{"företagsnamn", "företag", "namn", "name", "bolag"}
	orgCandidates     = []string{"org", "organisationsnummer", "orgnr"}
	addressCandidates = []string{"adress", "address", "gatuadress"}
	cityCandidates    = []string{"ort", "stad", "city", "postort"}
	phoneCandidates   = []string{"telefon", "phone", "tel"}
	blobCandidates    = []string{"operatör", "operator", "telefondata", "phonedata", "teldata"}
	boardCandidates   = []string{"styrelse", "board", "ledning"}
	contactCandidates = []string{"kontaktperson", "kontakt", "contact"}
	roleCandidates    = []string{"roll", "titel", "role", "position", "befattning"}
)

// ResolveColumns maps a header row onto a ColumnMap using
// case-insensitive substring containment in either direction (the
// header cell may contain the candidate, or the candidate the header
// cell). Candidates take precedence over header position: the first
// candidate that matches any cell wins, and within that candidate the
// leftmost matching cell wins. This keeps "Telefonnummer" matching the
// "telefon" candidate while "Operatör" claims the phone-blob column.
//
// Returns ErrNoNameColumn when the name field cannot be resolved.
func ResolveColumns(header []string) (ColumnMap, error) {
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := ColumnMap{
		Name:          findColumn(cells, nameCandidates),
		Org:           findColumn(cells, orgCandidates),
		Address:       findColumn(cells, addressCandidates),
		City:          findColumn(cells, cityCandidates),
		SimplePhone:   findColumn(cells, phoneCandidates),
		PhoneBlob:     findColumn(cells, blobCandidates),
		BoardBlob:     findColumn(cells, boardCandidates),
		ContactPerson: findColumn(cells, contactCandidates),
		Role:          findColumn(cells, roleCandidates),
	}

	if cols.Name == Unresolved {
		return cols, ErrNoNameColumn
	}
	return cols, nil
}

// findColumn returns the index of the first header cell matching the
// first candidate that matches anything, or Unresolved. The outer loop
// is over candidates so that candidate order encodes priority.
func findColumn(cells []string, candidates []string) int {
	for _, cand := range candidates {
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			if strings.Contains(cell, cand) || strings.Contains(cand, cell) {
				return i
			}
		}
	}
	return Unresolved
}
