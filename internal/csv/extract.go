package csv

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PhoneSet is the extraction result for one source row: parallel
// ordered lists of normalized phone numbers, best-effort owner names
// and best-effort carrier names. Phones contains no duplicates; Users
// and Operators may be shorter and do not align index-for-index.
type PhoneSet struct {
	Phones    []string
	Users     []string
	Operators []string
}

// Empty reports whether no phone number was found. An empty PhoneSet
// is the assembler's signal to skip the row.
func (p PhoneSet) Empty() bool { return len(p.Phones) == 0 }

// Phone number notations seen in registry exports, in matching
// priority order: grouped national forms (08-123 45 67, 0152-15423),
// +-prefixed international forms, then any bare run of 7+ digits.
// Later patterns only match text not already claimed by earlier ones.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{2,4}-\d(?: ?\d){4,8}`),
	regexp.MustCompile(`\+\d(?:[ -]?\d){6,14}`),
	regexp.MustCompile(`\d{7,}`),
}

// Same notations anchored at line start, for the phone-blob lines
// where position carries meaning (number first, then owner, then
// carrier).
var anchoredPhonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{2,4}-\d(?: ?\d){4,8}`),
	regexp.MustCompile(`^\+\d(?:[ -]?\d){6,14}`),
	regexp.MustCompile(`^\d{7,}`),
}

// Known Swedish carriers and resellers. Multi-word names come first so
// they win over their prefixes.
var operatorPattern = regexp.MustCompile(
	`(?i)\b(telia ?sonera|hi3g(?: access)?|telia|tele2|telenor|comviq|telness|advoco|tre)\b`)

// Header-like or instructional lines inside phone blobs that carry no
// number of their own.
var noiseLinePrefixes = []string{
	"telefonnummer",
	"operatör",
	"operator",
	"abonnemang",
	"användare",
	"uppgifter",
	"se bifogad",
	"se bilaga",
	"saknas",
}

// Words that disqualify a candidate owner string when they lead it:
// number-type labels and bare company-suffix words.
var userNoiseWords = map[string]bool{
	"mobil":      true,
	"fast":       true,
	"växel":      true,
	"vxl":        true,
	"ab":         true,
	"hb":         true,
	"kb":         true,
	"aktiebolag": true,
	"filial":     true,
}

// Role and boilerplate words that terminate a board-member name scan.
var boardSkipWords = map[string]bool{
	"ordförande":    true,
	"verkställande": true,
	"direktör":      true,
	"ledamot":       true,
	"suppleant":     true,
	"revisor":       true,
	"vd":            true,
	"org":           true,
	"orgnr":         true,
	"e-post":        true,
	"epost":         true,
	"tel":           true,
	"telefon":       true,
	"styrelse":      true,
}

// candidate is one tagged phone match with optional attribution,
// produced by a stage scan and reconciled by Extract.
type candidate struct {
	number   string // normalized: digits and optional leading '+'
	user     string
	operator string // verbatim casing as found
}

// Extract mines phone numbers, owner names and carrier names out of
// the three free-text sources of one row: the plain phone cell, the
// phone/operator blob, and the board-members blob. It is a pure
// function of its inputs.
//
// Stages run in that fixed order and share one per-row deduplication
// set keyed by normalized number, so a number found by an earlier
// stage is never repeated. A duplicate also drops its attribution
// along with the number. Operators are kept once per row,
// case-insensitively, in the casing first encountered.
func Extract(simplePhone, phoneBlob, boardBlob string) PhoneSet {
	var cands []candidate
	cands = append(cands, scanSimplePhone(simplePhone)...)
	cands = append(cands, scanPhoneBlob(phoneBlob)...)
	cands = append(cands, scanBoardBlob(boardBlob)...)

	var set PhoneSet
	seen := make(map[string]bool, len(cands))
	seenOps := make(map[string]bool, 4)

	for _, c := range cands {
		if !validNumber(c.number) || seen[c.number] {
			continue
		}
		seen[c.number] = true
		set.Phones = append(set.Phones, c.number)

		if c.user != "" {
			set.Users = append(set.Users, c.user)
		}
		if c.operator != "" && !seenOps[strings.ToLower(c.operator)] {
			seenOps[strings.ToLower(c.operator)] = true
			set.Operators = append(set.Operators, c.operator)
		}
	}
	return set
}

// normalize strips every character that is not a digit or '+'.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validNumber requires at least 7 digit characters.
func validNumber(s string) bool {
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7
}

// span is a half-open matched range within a scanned string.
type span struct{ start, end int }

// phoneSpans finds every phone-notation match in s. Patterns are tried
// in priority order and later patterns cannot claim text inside an
// earlier match, which keeps the bare-digit fallback from re-matching
// the body of a grouped number. Results come back in text order.
func phoneSpans(s string) []span {
	var spans []span
	for _, re := range phonePatterns {
		for _, loc := range re.FindAllStringIndex(s, -1) {
			if overlapsAny(spans, loc[0], loc[1]) {
				continue
			}
			spans = append(spans, span{loc[0], loc[1]})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

func overlapsAny(spans []span, start, end int) bool {
	for _, sp := range spans {
		if start < sp.end && end > sp.start {
			return true
		}
	}
	return false
}

// scanSimplePhone handles the plain phone cell. When no notation
// matches at all, the whole cell is normalized as a single candidate;
// registry exports sometimes store a number with stray punctuation no
// pattern anticipates.
func scanSimplePhone(s string) []candidate {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []candidate
	for _, sp := range phoneSpans(s) {
		if n := normalize(s[sp.start:sp.end]); validNumber(n) {
			out = append(out, candidate{number: n})
		}
	}
	if len(out) == 0 {
		if n := normalize(s); validNumber(n) {
			out = append(out, candidate{number: n})
		}
	}
	return out
}

// scanPhoneBlob handles the overloaded "Operatör" column: one entry
// per line, typically "<number> <owner> <carrier>". A number anchored
// at line start gets owner/operator attribution from the remainder of
// its line; a general re-scan then catches any further numbers on the
// line without attribution.
func scanPhoneBlob(blob string) []candidate {
	if strings.TrimSpace(blob) == "" {
		return nil
	}
	var out []candidate
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isNoiseLine(line) {
			continue
		}

		anchoredEnd := 0
		if loc := matchAnchored(line); loc != nil {
			anchoredEnd = loc[1]
			if n := normalize(line[:anchoredEnd]); validNumber(n) {
				c := candidate{number: n}
				rest := line[anchoredEnd:]

				userText := rest
				if opLoc := operatorPattern.FindStringIndex(rest); opLoc != nil {
					c.operator = rest[opLoc[0]:opLoc[1]]
					userText = rest[:opLoc[0]]
				}
				if u := cleanUserText(userText); acceptUser(u) {
					c.user = u
				}
				out = append(out, c)
			}
		}

		for _, sp := range phoneSpans(line) {
			if sp.start < anchoredEnd {
				continue
			}
			if n := normalize(line[sp.start:sp.end]); validNumber(n) {
				out = append(out, candidate{number: n})
			}
		}
	}
	return out
}

// scanBoardBlob handles the board-members blob: segments separated by
// ';' or newlines, each typically "<role> <Firstname Lastname> <number>".
// The capitalized word run right before a number is taken as the owner
// name; a carrier mention anywhere in the segment is attributed to the
// segment's first number.
func scanBoardBlob(blob string) []candidate {
	if strings.TrimSpace(blob) == "" {
		return nil
	}
	var out []candidate
	for _, seg := range strings.FieldsFunc(blob, func(r rune) bool {
		return r == ';' || r == '\n'
	}) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		var operator string
		if opLoc := operatorPattern.FindStringIndex(seg); opLoc != nil {
			operator = seg[opLoc[0]:opLoc[1]]
		}

		first := true
		for _, sp := range phoneSpans(seg) {
			n := normalize(seg[sp.start:sp.end])
			if !validNumber(n) {
				continue
			}
			c := candidate{number: n, user: nameBefore(seg[:sp.start])}
			if first {
				c.operator = operator
				first = false
			}
			out = append(out, c)
		}
	}
	return out
}

// matchAnchored returns the location of a phone notation starting at
// position 0, or nil.
func matchAnchored(line string) []int {
	for _, re := range anchoredPhonePatterns {
		if loc := re.FindStringIndex(line); loc != nil {
			return loc
		}
	}
	return nil
}

// isNoiseLine reports whether a blob line is a label or instruction
// rather than data.
func isNoiseLine(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range noiseLinePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// cleanUserText trims separators and parenthesis debris from a
// candidate owner string.
func cleanUserText(s string) string {
	return strings.Trim(s, " \t()-–,.;:")
}

// acceptUser applies the owner-string gate: more than two characters
// and not led by a number-type label or company-suffix word.
func acceptUser(s string) bool {
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	first, _, _ := strings.Cut(s, " ")
	return !userNoiseWords[strings.ToLower(first)]
}

// nameBefore extracts a trailing run of capitalized words from the
// text preceding a phone match. The scan walks backwards and stops at
// the first lowercase word or role/boilerplate word, which cuts
// "Ordförande Anna Svensson" down to "Anna Svensson".
func nameBefore(prefix string) string {
	prefix = strings.TrimRight(prefix, " \t,;:-–(")
	words := strings.Fields(prefix)

	var name []string
	for i := len(words) - 1; i >= 0; i-- {
		w := strings.Trim(words[i], ",;:().")
		if w == "" || boardSkipWords[strings.ToLower(w)] || !startsUpper(w) {
			break
		}
		name = append([]string{w}, name...)
	}

	joined := strings.Join(name, " ")
	if utf8.RuneCountInString(joined) <= 2 {
		return ""
	}
	return joined
}

// startsUpper is å/ä/ö-aware via the unicode tables.
func startsUpper(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsUpper(r)
}
