package importer

import (
	"strings"
)

// delimiter candidates in preference order; ties favor the comma
var delimiterCandidates = []byte{';', ',', '\t', '|'}

// DetectDelimiter examines up to the first 5 non-blank lines and picks the
// candidate with the most occurrences outside quoted spans.
func DetectDelimiter(text string) byte {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 5 {
			break
		}
	}

	best := byte(',')
	bestScore := -1

	for _, delim := range delimiterCandidates {
		score := 0
		for _, line := range lines {
			score += strings.Count(stripQuotedSpans(line), string(delim))
		}
		if score > bestScore || (score == bestScore && delim == ',') {
			bestScore = score
			best = delim
		}
	}

	return best
}

// stripQuotedSpans removes double-quoted sections (with "" as an escaped
// quote) so delimiter counting ignores separators embedded in cell values.
func stripQuotedSpans(line string) string {
	var b strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if ch == '"' {
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				i++
				continue
			}
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// Decode tokenizes raw spreadsheet text into rows of cells. The delimiter is
// auto-detected, double quotes toggle quoted-field mode and "" emits one
// literal quote. Rows may be ragged; missing trailing cells are the
// caller's concern. Empty input yields a nil grid.
func Decode(text string) [][]string {
	text = strings.TrimSpace(strings.TrimPrefix(text, "\uFEFF"))
	if text == "" {
		return nil
	}

	delim := DetectDelimiter(text)

	var rows [][]string
	var row []string
	var cell strings.Builder
	inQuotes := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if ch == '"' {
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				cell.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
			continue
		}

		if !inQuotes && ch == delim {
			row = append(row, cell.String())
			cell.Reset()
			continue
		}

		if !inQuotes && (ch == '\n' || ch == '\r') {
			row = append(row, cell.String())
			cell.Reset()
			rows = append(rows, row)
			row = nil

			if ch == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			continue
		}

		cell.WriteByte(ch)
	}

	row = append(row, cell.String())
	rows = append(rows, row)

	// Drop a trailing fully-empty row left by a final line terminator.
	if n := len(rows); n > 0 {
		last := rows[n-1]
		if len(last) == 1 && strings.TrimSpace(last[0]) == "" {
			rows = rows[:n-1]
		}
	}

	return rows
}
