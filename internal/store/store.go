// Package store holds the registry of upload handles.
//
// The registry is deliberately an abstraction rather than a package
// level map: the core receives a Store and never depends on process
// lifetime, so deployments can choose the in-memory driver or the
// Redis driver without touching the service code.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownUpload is returned when a handle does not exist, either
// because it was never created, was released, or expired.
var ErrUnknownUpload = errors.New("upload not found")

// Upload is the per-handle record created at ingestion time.
//
// Encoding and Delimiter are the parameters detected during ingestion;
// they must be reused verbatim whenever the file is re-read so the
// column set and row alignment stay identical between passes.
type Upload struct {
	ID               string    `json:"id"`
	FilePath         string    `json:"file_path"`
	OriginalFilename string    `json:"original_filename"`
	Columns          []string  `json:"columns"`
	RowCount         int       `json:"row_count"`
	Encoding         string    `json:"encoding"`
	Delimiter        rune      `json:"delimiter"`
	CreatedAt        time.Time `json:"created_at"`

	// Set once after successful anonymization.
	AnonymizedPath string `json:"anonymized_path,omitempty"`
	AnonymizedName string `json:"anonymized_name,omitempty"`
}

// Store is the handle registry used by the core service.
//
// Get returns ErrUnknownUpload for missing handles. Delete is
// idempotent. Evict removes records created before the cutoff and
// returns them so the caller can delete their files; drivers with
// native expiry may return nil.
type Store interface {
	Put(ctx context.Context, u Upload) error
	Get(ctx context.Context, id string) (Upload, error)
	Update(ctx context.Context, id string, fn func(*Upload)) error
	Delete(ctx context.Context, id string) error
	Evict(ctx context.Context, cutoff time.Time) ([]Upload, error)
}
