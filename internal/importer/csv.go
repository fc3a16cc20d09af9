package importer

import "strings"

type cursor int

const (
	unquoted cursor = iota
	quoted
)

// splitRecords splits delimited text into trimmed fields. Quoted fields may
// hold delimiters and line breaks, and a doubled quote inside them is a
// literal quote. Carriage returns outside quotes are dropped, as are rows
// whose fields are all blank.
func splitRecords(text string, delim rune) [][]string {
	var (
		rows  [][]string
		row   []string
		field strings.Builder
		state = unquoted
	)

	endField := func() {
		row = append(row, strings.TrimSpace(field.String()))
		field.Reset()
	}

	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch state {
		case quoted:
			switch {
			case ch == '"' && i+1 < len(runes) && runes[i+1] == '"':
				field.WriteRune('"')
				i++
			case ch == '"':
				state = unquoted
			default:
				field.WriteRune(ch)
			}
		case unquoted:
			switch ch {
			case '"':
				state = quoted
			case delim:
				endField()
			case '\n':
				endRow()
			case '\r':
			default:
				field.WriteRune(ch)
			}
		}
	}

	if field.Len() > 0 || len(row) > 0 {
		endRow()
	}

	out := rows[:0]

	for _, r := range rows {
		if !blank(r) {
			out = append(out, r)
		}
	}

	return out
}

func blank(row []string) bool {
	for _, f := range row {
		if f != "" {
			return false
		}
	}

	return true
}

// detectDelimiter picks ';' when the first line has more unquoted semicolons
// than commas, as spreadsheet exports with comma decimals do.
func detectDelimiter(text string) rune {
	var commas, semicolons int

	inQuotes := false

	for _, ch := range text {
		if ch == '\n' && !inQuotes {
			if commas+semicolons > 0 {
				break
			}

			continue
		}

		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case ch == ',':
			commas++
		case ch == ';':
			semicolons++
		}
	}

	if semicolons > commas {
		return ';'
	}

	return ','
}
