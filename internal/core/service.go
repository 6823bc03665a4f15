// Package core provides the business logic for CSV anonymization.
// This package has no HTTP dependencies and can be driven by any
// frontend.
package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/karangattu/csv-anonymizer/internal/anonymize"
	"github.com/karangattu/csv-anonymizer/internal/ingest"
	"github.com/karangattu/csv-anonymizer/internal/store"
)

// Service orchestrates the upload lifecycle: ingest, anonymize,
// download, release. State per handle lives in the injected Store; the
// file bytes stay on disk and are re-read by path for every operation,
// so the encoding and delimiter recorded at ingestion remain
// authoritative.
type Service struct {
	store     store.Store
	reader    *ingest.Reader
	uploadDir string
}

// NewService creates the service and ensures the upload directory
// exists.
func NewService(st store.Store, reader *ingest.Reader, uploadDir string) (*Service, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", uploadDir, err)
	}
	return &Service{store: st, reader: reader, uploadDir: uploadDir}, nil
}

// IngestResult is returned to the caller after a successful upload.
type IngestResult struct {
	Handle         string
	Columns        []string
	RowCount       int
	Encoding       string
	DelimiterLabel string
}

// AnonymizeResult reports which of the requested columns were
// anonymized.
type AnonymizeResult struct {
	AnonymizedColumns []string
}

// Ingest stores the uploaded bytes under a fresh handle and parses them
// with encoding and delimiter detection. On any failure the partially
// written file is removed; no state is left behind.
func (s *Service) Ingest(ctx context.Context, data []byte, filename string) (*IngestResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return nil, ErrNotCSV
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	id := uuid.NewString()
	path := filepath.Join(s.uploadDir, id+"_"+sanitizeFilename(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("saving upload: %w", err)
	}

	res, err := s.reader.Parse(path)
	if err != nil {
		_ = os.Remove(path)
		return nil, classifyParseError(err)
	}

	rec := store.Upload{
		ID:               id,
		FilePath:         path,
		OriginalFilename: sanitizeFilename(filename),
		Columns:          res.Table.Columns,
		RowCount:         res.Table.RowCount(),
		Encoding:         res.Encoding,
		Delimiter:        res.Delimiter,
		CreatedAt:        time.Now(),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("registering upload: %w", err)
	}

	slog.InfoContext(ctx, "file ingested",
		"handle", id,
		"filename", rec.OriginalFilename,
		"columns", len(rec.Columns),
		"rows", rec.RowCount,
		"encoding", rec.Encoding,
		"delimiter", DelimiterLabel(rec.Delimiter),
		"skipped_rows", res.SkippedRows,
	)

	return &IngestResult{
		Handle:         id,
		Columns:        rec.Columns,
		RowCount:       rec.RowCount,
		Encoding:       rec.Encoding,
		DelimiterLabel: DelimiterLabel(rec.Delimiter),
	}, nil
}

// Anonymize re-reads the stored file with the parameters recorded at
// ingestion, replaces the requested columns with keyed digests, and
// writes the canonical UTF-8 comma-delimited result next to the
// original. The handle record is only updated after the output file is
// fully written; failures leave the prior state untouched.
func (s *Service) Anonymize(ctx context.Context, handle string, columns []string, key string) (*AnonymizeResult, error) {
	rec, err := s.store.Get(ctx, handle)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, ErrNoColumnsSelected
	}
	if key == "" {
		return nil, ErrEmptyKey
	}

	// Always re-read from disk rather than trusting a cached table, so
	// the recorded encoding/delimiter stay authoritative.
	res, err := s.reader.ParseFixed(rec.FilePath, rec.Encoding, rec.Delimiter)
	if err != nil {
		return nil, classifyParseError(err)
	}

	matched := anonymize.Columns(res.Table, columns, key)

	outName := anonymizedName(rec.OriginalFilename)
	outPath := filepath.Join(s.uploadDir, handle+"_"+outName)
	f, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	if err := anonymize.WriteCSV(res.Table, f); err != nil {
		f.Close()
		_ = os.Remove(outPath)
		return nil, fmt.Errorf("writing output file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(outPath)
		return nil, fmt.Errorf("closing output file: %w", err)
	}

	if err := s.store.Update(ctx, handle, func(u *store.Upload) {
		u.AnonymizedPath = outPath
		u.AnonymizedName = outName
	}); err != nil {
		_ = os.Remove(outPath)
		return nil, err
	}

	slog.InfoContext(ctx, "columns anonymized",
		"handle", handle,
		"requested", len(columns),
		"matched", len(matched),
	)

	return &AnonymizeResult{AnonymizedColumns: matched}, nil
}

// FetchResult opens the anonymized artifact for download. The caller
// owns closing the reader.
func (s *Service) FetchResult(ctx context.Context, handle string) (io.ReadCloser, string, error) {
	rec, err := s.store.Get(ctx, handle)
	if err != nil {
		return nil, "", err
	}
	if rec.AnonymizedPath == "" {
		return nil, "", ErrNotYetAnonymized
	}

	f, err := os.Open(rec.AnonymizedPath)
	if err != nil {
		return nil, "", fmt.Errorf("opening result: %w", err)
	}
	return f, rec.AnonymizedName, nil
}

// Release removes the handle and any files it owns. It is a best-effort
// idempotent no-op for unknown handles.
func (s *Service) Release(ctx context.Context, handle string) {
	rec, err := s.store.Get(ctx, handle)
	if err == nil {
		removeIfSet(rec.FilePath)
		removeIfSet(rec.AnonymizedPath)
	}
	if err := s.store.Delete(ctx, handle); err != nil {
		slog.WarnContext(ctx, "failed to delete upload record", "handle", handle, "error", err)
	}
}

// DelimiterLabel renders a delimiter rune as the label reported to
// clients.
func DelimiterLabel(delim rune) string {
	switch delim {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	default:
		return string(delim)
	}
}

// classifyParseError passes through the typed ingest failures and wraps
// everything else as a parse failure.
func classifyParseError(err error) error {
	switch {
	case err == nil:
		return nil
	case err == ErrEmptyInput || err == ErrNoColumns || err == ErrNoDataRows:
		return err
	default:
		return &ParseError{Err: err}
	}
}

// anonymizedName derives the download filename: the original base name
// with the .csv extension stripped case-insensitively and
// "-anonymized.csv" attached.
func anonymizedName(original string) string {
	base := original
	if strings.EqualFold(filepath.Ext(base), ".csv") {
		base = base[:len(base)-len(".csv")]
	}
	return base + "-anonymized.csv"
}

// sanitizeFilename keeps only characters that are safe in a flat
// storage directory, collapsing everything else to underscores and
// refusing path traversal.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		out = "upload.csv"
	}
	return out
}

func removeIfSet(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove file", "path", path, "error", err)
	}
}
