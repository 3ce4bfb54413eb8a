package csv

import (
	"errors"
	"testing"
)

// ----------------------------------------------------------------------------
// ResolveColumns Tests
// ----------------------------------------------------------------------------

func TestResolveColumns_FullSwedishHeader(t *testing.T) {
	header := []string{
		"Företagsnamn", "Org.nr", "Adress", "Ort", "Telefon",
		"Operatör", "Styrelse", "Kontaktperson", "Roll",
	}

	cols, err := ResolveColumns(header)
	if err != nil {
		t.Fatalf("ResolveColumns() error = %v", err)
	}

	checks := []struct {
		field string
		got   int
		want  int
	}{
		{"Name", cols.Name, 0},
		{"Org", cols.Org, 1},
		{"Address", cols.Address, 2},
		{"City", cols.City, 3},
		{"SimplePhone", cols.SimplePhone, 4},
		{"PhoneBlob", cols.PhoneBlob, 5},
		{"BoardBlob", cols.BoardBlob, 6},
		{"ContactPerson", cols.ContactPerson, 7},
		{"Role", cols.Role, 8},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.field, c.got, c.want)
		}
	}
}

func TestResolveColumns_TwoWayContainment(t *testing.T) {
	// "Tel" is shorter than the candidate "telefon"; the candidate
	// containing the header cell still counts as a match.
	cols, err := ResolveColumns([]string{"Namn", "Tel"})
	if err != nil {
		t.Fatalf("ResolveColumns() error = %v", err)
	}
	if cols.SimplePhone != 1 {
		t.Errorf("SimplePhone = %d, want 1", cols.SimplePhone)
	}

	// "Telefonnummer" contains the candidate "telefon".
	cols, err = ResolveColumns([]string{"Namn", "Telefonnummer", "Operatör"})
	if err != nil {
		t.Fatalf("ResolveColumns() error = %v", err)
	}
	if cols.SimplePhone != 1 {
		t.Errorf("SimplePhone = %d, want 1", cols.SimplePhone)
	}
	if cols.PhoneBlob != 2 {
		t.Errorf("PhoneBlob = %d, want 2", cols.PhoneBlob)
	}
}

func TestResolveColumns_CandidatePriority(t *testing.T) {
	// "Namn på företag" misses the first name candidates but matches
	// "företag" by containment.
	cols, err := ResolveColumns([]string{"Namn på företag"})
	if err != nil {
		t.Fatalf("ResolveColumns() error = %v", err)
	}
	if cols.Name != 0 {
		t.Errorf("Name = %d, want 0", cols.Name)
	}

	// Candidate order wins over header position: with both an English
	// and a Swedish name header, the earlier candidate decides.
	cols, err = ResolveColumns([]string{"Name", "Företagsnamn"})
	if err != nil {
		t.Fatalf("ResolveColumns() error = %v", err)
	}
	if cols.Name != 1 {
		t.Errorf("Name = %d, want 1 (företagsnamn outranks name)", cols.Name)
	}
}

func TestResolveColumns_CaseInsensitive(t *testing.T) {
	cols, err := ResolveColumns([]string{"FÖRETAGSNAMN", "TELEFON"})
	if err != nil {
		t.Fatalf("ResolveColumns() error = %v", err)
	}
	if cols.Name != 0 || cols.SimplePhone != 1 {
		t.Errorf("Name = %d, SimplePhone = %d; want 0, 1", cols.Name, cols.SimplePhone)
	}
}

func TestResolveColumns_MissingName(t *testing.T) {
	_, err := ResolveColumns([]string{"Adress", "Ort", "Telefon"})
	if !errors.Is(err, ErrNoNameColumn) {
		t.Fatalf("ResolveColumns() error = %v, want ErrNoNameColumn", err)
	}
}

func TestResolveColumns_UnmatchedFieldsAreUnresolved(t *testing.T) {
	cols, err := ResolveColumns([]string{"Företagsnamn"})
	if err != nil {
		t.Fatalf("ResolveColumns() error = %v", err)
	}
	for field, got := range map[string]int{
		"Org":           cols.Org,
		"Address":       cols.Address,
		"City":          cols.City,
		"SimplePhone":   cols.SimplePhone,
		"PhoneBlob":     cols.PhoneBlob,
		"BoardBlob":     cols.BoardBlob,
		"ContactPerson": cols.ContactPerson,
		"Role":          cols.Role,
	} {
		if got != Unresolved {
			t.Errorf("%s = %d, want Unresolved", field, got)
		}
	}
}

func TestResolveColumns_EmptyCellsSkipped(t *testing.T) {
	// An empty header cell must not match by containment.
	cols, err := ResolveColumns([]string{"", "Företagsnamn", ""})
	if err != nil {
		t.Fatalf("ResolveColumns() error = %v", err)
	}
	if cols.Name != 1 {
		t.Errorf("Name = %d, want 1", cols.Name)
	}
	if cols.Org != Unresolved {
		t.Errorf("Org = %d, want Unresolved", cols.Org)
	}
}
