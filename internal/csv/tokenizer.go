package csv

import "strings"

// Tokenize splits raw CSV text into rows of trimmed cells.
//
// Both ',' and ';' act as cell separators, so comma- and
// semicolon-delimited exports parse without a delimiter probe. Quoting
// follows spreadsheet conventions: a '"' opens a quoted span, '""'
// inside it is a literal quote, and everything else, separators and
// newlines included, is kept verbatim until the closing quote. Rows
// whose cells are all empty after trimming are dropped.
//
// Tokenize never fails. An unterminated quote simply swallows the rest
// of the input into the current cell, which mirrors how spreadsheet
// applications recover from the same defect.
func Tokenize(text string) [][]string {
	var rows [][]string
	var row []string
	var cell strings.Builder
	inQuotes := false

	endCell := func() {
		row = append(row, strings.TrimSpace(cell.String()))
		cell.Reset()
	}
	endRow := func() {
		endCell()
		for _, c := range row {
			if c != "" {
				rows = append(rows, row)
				break
			}
		}
		row = nil
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inQuotes {
			if ch == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					cell.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				cell.WriteByte(ch)
			}
			continue
		}

		switch {
		case ch == '"':
			inQuotes = true
		case ch == ',' || ch == ';':
			endCell()
		case ch == '\n':
			endRow()
		case ch == '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				endRow()
				i++
			}
			// bare CR outside \r\n is noise, skip it
		default:
			cell.WriteByte(ch)
		}
	}

	endRow()
	return rows
}
