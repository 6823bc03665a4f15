package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Parse failures that the caller can classify. Anything else coming out
// of Parse wraps the underlying decode or CSV error.
var (
	ErrEmptyInput = errors.New("file is empty")
	ErrNoColumns  = errors.New("csv file has no columns")
	ErrNoDataRows = errors.New("csv file has no data rows")
)

// Reader parses CSV files using pluggable encoding and delimiter
// detection strategies.
type Reader struct {
	detector EncodingDetector
	sniffer  DelimiterSniffer
}

// NewReader builds a Reader. A nil detector or sniffer selects the
// default heuristic implementation; tests inject deterministic fakes.
func NewReader(detector EncodingDetector, sniffer DelimiterSniffer) *Reader {
	if detector == nil {
		detector = NewEncodingDetector()
	}
	if sniffer == nil {
		sniffer = NewDelimiterSniffer()
	}
	return &Reader{detector: detector, sniffer: sniffer}
}

// Parse reads the file at path, detecting its encoding and delimiter,
// and returns the normalized table together with the parameters it
// inferred. Detection is deterministic: identical bytes always yield
// the identical result.
func (r *Reader) Parse(path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	charset := r.detector.DetectEncoding(head(raw, encodingSampleSize))

	sample := decodeToUTF8(head(raw, delimiterSampleSize), charset)
	if len(raw) > delimiterSampleSize {
		sample = trimPartialLine(sample)
	}
	delim := r.sniffer.SniffDelimiter(sample)

	return r.parse(path, raw, charset, delim)
}

// ParseFixed re-reads the file with a previously recorded encoding and
// delimiter, skipping detection entirely. Anonymization uses this so
// the column set and row alignment are guaranteed to match the
// ingestion pass.
func (r *Reader) ParseFixed(path, charset string, delim rune) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}
	return r.parse(path, raw, charset, delim)
}

func (r *Reader) parse(path string, raw []byte, charset string, delim rune) (*Result, error) {
	text := decodeToUTF8(raw, charset)

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = cleanHeader(name)
	}
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == "") {
		return nil, ErrNoColumns
	}
	columns = dedupeHeaders(columns)

	var rows [][]string
	skipped := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if len(record) != len(columns) {
			skipped++
			continue
		}
		rows = append(rows, record)
	}

	if skipped > 0 {
		slog.Warn("skipped malformed csv rows",
			"file", path,
			"skipped", skipped,
			"expected_fields", len(columns),
		)
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}

	return &Result{
		Table:       &Table{Columns: columns, Rows: rows},
		Encoding:    charset,
		Delimiter:   delim,
		SkippedRows: skipped,
	}, nil
}

func head(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

// trimPartialLine cuts a decoded sample back to its last complete line.
// A sample cut from a larger file usually ends mid-row, and a truncated
// row would skew the sniffer's field counts. Only the caller knows
// whether the raw bytes were actually cut; decoded length is no proxy
// for that once multibyte encodings are involved.
func trimPartialLine(sample string) string {
	if i := strings.LastIndexByte(sample, '\n'); i >= 0 {
		return sample[:i]
	}
	return sample
}
