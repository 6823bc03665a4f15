package ingest

import "strings"

// delimiterSampleSize is how many raw bytes of the file are decoded for
// delimiter sniffing.
const delimiterSampleSize = 8 * 1024

// maxSniffLines bounds how many sample lines the sniffer tokenizes.
const maxSniffLines = 10

// delimiterCandidates are tried in preference order; comma wins ties
// and is the fallback when sniffing is inconclusive.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// DelimiterSniffer infers the field separator from a decoded text
// sample. Implementations must return one of comma, semicolon, tab or
// pipe, defaulting to comma when the data is ambiguous.
type DelimiterSniffer interface {
	SniffDelimiter(sample string) rune
}

// heuristicSniffer is the default DelimiterSniffer. It tokenizes a few
// sample lines with each candidate delimiter, ignoring delimiter
// characters that occur inside double-quoted fields, and picks the
// candidate that yields the most consistent multi-field row shape.
type heuristicSniffer struct{}

// NewDelimiterSniffer returns the default quote-aware heuristic sniffer.
func NewDelimiterSniffer() DelimiterSniffer {
	return heuristicSniffer{}
}

func (heuristicSniffer) SniffDelimiter(sample string) rune {
	lines := sniffLines(sample)
	if len(lines) == 0 {
		return ','
	}

	best := ','
	bestScore := 0
	for _, cand := range delimiterCandidates {
		score := scoreCandidate(lines, cand)
		if score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best
}

// sniffLines splits the sample into up to maxSniffLines non-empty
// lines. Callers are expected to hand over complete lines only; the
// reader trims a trailing partial row before sniffing.
func sniffLines(sample string) []string {
	raw := strings.Split(strings.ReplaceAll(sample, "\r\n", "\n"), "\n")

	lines := make([]string, 0, maxSniffLines)
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxSniffLines {
			break
		}
	}
	return lines
}

// scoreCandidate counts how many sample lines share the most common
// field count for the candidate delimiter. Candidates that never split
// a line (field count 1 everywhere) score zero so that single-column
// data falls through to the comma default.
func scoreCandidate(lines []string, delim rune) int {
	counts := make(map[int]int)
	for _, line := range lines {
		counts[countFields(line, delim)]++
	}

	mode, modeLines := 0, 0
	for fields, n := range counts {
		if n > modeLines || (n == modeLines && fields > mode) {
			mode = fields
			modeLines = n
		}
	}
	if mode < 2 {
		return 0
	}
	return modeLines
}

// countFields returns the number of fields the line splits into for the
// given delimiter, treating text between double quotes as opaque. A
// doubled quote inside a quoted field toggles the state twice and so
// stays quoted, matching CSV escaping rules.
func countFields(line string, delim rune) int {
	fields := 1
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields++
		}
	}
	return fields
}
