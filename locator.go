package htmlposter

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// maxEntrySize caps a single extracted archive entry (256 MB) to prevent
// zip bombs from exhausting disk.
const maxEntrySize = 256 * 1024 * 1024

// Source is the outcome of [Locate]: a canonical document path plus the
// directory its relative resources resolve against.
//
// When the Source was extracted from an archive it owns a scratch
// directory; call [Source.Cleanup] after rendering to remove it.
type Source struct {
	// DocumentPath is the absolute path of the selected HTML document.
	DocumentPath string

	// ResourceRoot holds the document's resources. For a direct file this
	// is the document's directory; for an archive it is the scratch root
	// (the document's own directory lies inside it).
	ResourceRoot string

	scratch string
}

// Cleanup removes the scratch directory when the Source owns one.
// Removal failures are logged and suppressed; a stale scratch directory
// must not mask the render outcome. Cleanup is a no-op for direct files.
func (s *Source) Cleanup() {
	s.cleanup(slog.Default())
}

func (s *Source) cleanup(logger *slog.Logger) {
	if s.scratch == "" {
		return
	}
	removeScratch(logger, s.scratch)
	s.scratch = ""
}

// Locate resolves a user-supplied input to a renderable document.
//
// A path ending in .zip is treated as an archive: its entries are
// extracted into a fresh scratch directory and the best-candidate HTML
// document is selected, preferring root-level files, then names
// containing "poster" or "index", then the first file in traversal order.
// Any other path must name an existing file with an HTML extension.
func Locate(input string) (*Source, error) {
	if strings.EqualFold(filepath.Ext(input), ".zip") {
		return locateArchive(input)
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, input)
	}
	if info.IsDir() || !isHTMLPath(input) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, input)
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, fmt.Errorf("htmlposter: resolving path: %w", err)
	}
	return &Source{DocumentPath: abs, ResourceRoot: filepath.Dir(abs)}, nil
}

// locateArchive extracts the archive into a scratch directory and selects
// the candidate document. The scratch directory is removed again when no
// candidate exists or extraction fails.
func locateArchive(archivePath string) (*Source, error) {
	scratch, err := newScratch()
	if err != nil {
		return nil, err
	}

	if err := extractZip(archivePath, scratch); err != nil {
		removeScratch(slog.Default(), scratch)
		return nil, err
	}

	candidates, err := findHTMLFiles(scratch)
	if err != nil {
		removeScratch(slog.Default(), scratch)
		return nil, fmt.Errorf("htmlposter: scanning archive contents: %w", err)
	}
	if len(candidates) == 0 {
		removeScratch(slog.Default(), scratch)
		return nil, fmt.Errorf("%w: %s", ErrNoDocument, archivePath)
	}

	return &Source{
		DocumentPath: selectCandidate(scratch, candidates),
		ResourceRoot: scratch,
		scratch:      scratch,
	}, nil
}

// findHTMLFiles returns every HTML-extension file under root, in lexical
// traversal order, as absolute paths.
func findHTMLFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isHTMLPath(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// selectCandidate applies the document-selection heuristic: a file
// directly at the archive root wins, then a file whose name contains
// "poster" or "index", then the first file in traversal order. The
// heuristic is a fixed contract; do not re-derive it.
func selectCandidate(root string, candidates []string) string {
	for _, c := range candidates {
		if filepath.Dir(c) == root {
			return c
		}
	}
	for _, c := range candidates {
		name := strings.ToLower(filepath.Base(c))
		if strings.Contains(name, "poster") || strings.Contains(name, "index") {
			return c
		}
	}
	return candidates[0]
}

// extractZip extracts every archive entry under dest, rejecting entries
// that would escape it and entries above maxEntrySize.
func extractZip(archivePath, dest string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		// OpenReader can hand back a reader alongside ErrInsecurePath.
		if zr != nil {
			zr.Close()
		}
		return fmt.Errorf("htmlposter: opening archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if err := extractEntry(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, dest string) error {
	target := filepath.Join(dest, filepath.FromSlash(f.Name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return fmt.Errorf("htmlposter: archive entry %q escapes extraction root", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("htmlposter: extracting %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("htmlposter: extracting %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("htmlposter: extracting %s: %w", f.Name, err)
	}
	defer out.Close()

	n, err := io.Copy(out, io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return fmt.Errorf("htmlposter: extracting %s: %w", f.Name, err)
	}
	if n > maxEntrySize {
		return fmt.Errorf("htmlposter: archive entry %s exceeds 256 MB limit", f.Name)
	}
	return out.Close()
}
