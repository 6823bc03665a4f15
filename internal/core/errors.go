package core

import (
	"errors"

	"github.com/karangattu/csv-anonymizer/internal/ingest"
	"github.com/karangattu/csv-anonymizer/internal/store"
)

// Typed failures returned by the service. All are recoverable at the
// request boundary; none is fatal to the process. Parse-level failures
// from the ingest package are re-exported so callers only import core.
var (
	ErrEmptyInput = ingest.ErrEmptyInput
	ErrNoColumns  = ingest.ErrNoColumns
	ErrNoDataRows = ingest.ErrNoDataRows

	ErrNotCSV            = errors.New("only csv files are allowed")
	ErrUnknownHandle     = store.ErrUnknownUpload
	ErrNoColumnsSelected = errors.New("no columns selected for anonymization")
	ErrEmptyKey          = errors.New("no secret key provided")
	ErrNotYetAnonymized  = errors.New("file has not been anonymized yet")
)

// StatusCode maps a service error to the HTTP status the web layer
// should respond with. Unknown errors are treated as server faults.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnknownHandle):
		return 404
	case errors.Is(err, ErrNotYetAnonymized):
		return 409
	case errors.Is(err, ErrEmptyInput),
		errors.Is(err, ErrNotCSV),
		errors.Is(err, ErrNoColumns),
		errors.Is(err, ErrNoDataRows),
		errors.Is(err, ErrNoColumnsSelected),
		errors.Is(err, ErrEmptyKey):
		return 400
	case isParseFailure(err):
		return 400
	default:
		return 500
	}
}

// isParseFailure reports whether the error came out of CSV parsing
// rather than the service's own validation.
func isParseFailure(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// ParseError wraps any decode or row-shape error from ingestion that is
// not otherwise classified.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "invalid csv: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
