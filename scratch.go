package htmlposter

import (
	"fmt"
	"log/slog"
	"os"
)

// scratchPrefix names scratch directories so stale ones are identifiable.
const scratchPrefix = "poster_export_"

// newScratch creates a uniquely named scratch directory.
func newScratch() (string, error) {
	dir, err := os.MkdirTemp("", scratchPrefix)
	if err != nil {
		return "", fmt.Errorf("htmlposter: creating scratch directory: %w", err)
	}
	return dir, nil
}

// removeScratch best-effort removes a scratch directory. Failures are
// logged and suppressed so they never mask the render outcome.
func removeScratch(logger *slog.Logger, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("htmlposter: removing scratch directory failed", "dir", dir, "error", err)
	}
}

// WithScratch runs fn with a freshly created scratch directory and
// guarantees its recursive removal after fn returns, including when fn
// panics. The directory's lifetime strictly contains fn's, so files
// created inside it are safe to use for the whole call.
func WithScratch(fn func(dir string) error) error {
	dir, err := newScratch()
	if err != nil {
		return err
	}
	defer removeScratch(slog.Default(), dir)
	return fn(dir)
}
