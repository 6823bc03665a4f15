// Package anonymize replaces cell values with deterministic keyed
// digests and serializes the result as canonical CSV.
package anonymize

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/karangattu/csv-anonymizer/internal/ingest"
)

// digestLen is the number of hex characters kept from the HMAC output.
const digestLen = 16

// Cell pseudonymizes a single value with the secret key.
//
// Blank values (empty or whitespace-only) pass through unchanged:
// blanks are not identifying information and must stay distinguishable
// from hashed values. Everything else becomes the first 16 hex
// characters of HMAC-SHA256(key, value). The output depends only on
// (value, key), so the same logical entity hashes identically across
// exports sharing a key, while different keys produce unlinkable
// results.
func Cell(value, key string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))[:digestLen]
}

// Columns replaces every cell of the named columns in place, returning
// the names that were actually present in the table. Unknown names are
// ignored; all other columns and the row order are untouched.
func Columns(t *ingest.Table, names []string, key string) []string {
	idx := t.ColumnIndex()

	matched := make([]string, 0, len(names))
	for _, name := range names {
		col, ok := idx[name]
		if !ok {
			continue
		}
		matched = append(matched, name)
		for _, row := range t.Rows {
			row[col] = Cell(row[col], key)
		}
	}
	return matched
}

// WriteCSV serializes the table as UTF-8, comma-delimited, double-quote
// escaped CSV regardless of the input file's original encoding and
// delimiter, so downstream consumers never need to detect the format
// again.
func WriteCSV(t *ingest.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
