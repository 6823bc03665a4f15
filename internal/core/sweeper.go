package core

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// StartSweeper runs the TTL sweep until the context is cancelled.
// Clients that never call Release would otherwise leak files and
// registry entries for the life of the process.
//
// Each pass does two things: asks the store to evict records older than
// the TTL (removing their files), and removes any file in the upload
// directory whose modification time predates the TTL. The second pass
// covers store drivers with native expiry, which cannot delete local
// files themselves, and any files orphaned by a crash.
func (s *Service) StartSweeper(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx, ttl)
		}
	}
}

func (s *Service) sweepOnce(ctx context.Context, ttl time.Duration) {
	cutoff := time.Now().Add(-ttl)

	evicted, err := s.store.Evict(ctx, cutoff)
	if err != nil {
		slog.WarnContext(ctx, "sweep: evicting expired uploads failed", "error", err)
	}
	for _, u := range evicted {
		removeIfSet(u.FilePath)
		removeIfSet(u.AnonymizedPath)
	}
	if len(evicted) > 0 {
		slog.InfoContext(ctx, "sweep: evicted expired uploads", "count", len(evicted))
	}

	removed := s.sweepOrphanedFiles(cutoff)
	if removed > 0 {
		slog.InfoContext(ctx, "sweep: removed stale files", "count", removed)
	}
}

// sweepOrphanedFiles deletes files in the upload directory last
// modified before the cutoff, returning how many were removed.
func (s *Service) sweepOrphanedFiles(cutoff time.Time) int {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		slog.Warn("sweep: reading upload dir failed", "dir", s.uploadDir, "error", err)
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			removeIfSet(filepath.Join(s.uploadDir, entry.Name()))
			removed++
		}
	}
	return removed
}
