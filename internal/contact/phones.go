package contact

import "strings"

// CountPhones returns the number of non-empty lines in a
// newline-joined phone list.
func CountPhones(phones string) int {
	if strings.TrimSpace(phones) == "" {
		return 0
	}
	n := 0
	for _, p := range strings.Split(phones, "\n") {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// FirstPhone returns the first entry of a newline-joined phone list,
// or "" when the list is empty.
func FirstPhone(phones string) string {
	if phones == "" {
		return ""
	}
	first, _, _ := strings.Cut(phones, "\n")
	return strings.TrimSpace(first)
}

// Swedish mobile prefixes per operator. Prefix ranges overlap and
// numbers are portable between carriers, so this is a best-effort
// guess, not an authoritative lookup.
var operatorPrefixes = []struct {
	operator string
	prefixes []string
}{
	{"telia", []string{"070", "072", "076"}},
	{"tele2", []string{"070", "073", "076"}},
	{"tre", []string{"073", "076"}},
	{"telenor", []string{"070", "079"}},
}

// DetectOperator guesses the carrier of a phone number from its
// mobile prefix. Returns "other" when no prefix matches.
func DetectOperator(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	clean := digits.String()
	if len(clean) < 3 {
		return "other"
	}
	prefix := clean[:3]

	for _, op := range operatorPrefixes {
		for _, p := range op.prefixes {
			if prefix == p {
				return op.operator
			}
		}
	}
	return "other"
}
