package htmlposter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExportInfo describes a persisted export.
type ExportInfo struct {
	// Path is the output file that was written.
	Path string
	// Width and Height are the true pixel dimensions decoded from the image.
	Width  int
	Height int
	// ByteSize is the output size in bytes.
	ByteSize int64
	// Density is the density the image was rendered at.
	Density Density
	// SourcePath is the document the image was rendered from.
	SourcePath string
}

// Summary renders the human-readable status block shown after an export.
func (i *ExportInfo) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "exported %s\n", i.Path)
	fmt.Fprintf(&b, "dimensions: %d x %d px\n", i.Width, i.Height)
	fmt.Fprintf(&b, "density: %d ppi\n", i.Density)
	fmt.Fprintf(&b, "size: %.2f MB\n", float64(i.ByteSize)/1024/1024)
	fmt.Fprintf(&b, "source: %s", i.SourcePath)
	return b.String()
}

// Export writes the rendered image to a uniquely named file under dir,
// embedding the source document's stem and the density in the name
// (stem_300ppi_*.png). An empty dir uses the system temp directory. The
// bytes are written verbatim, never re-encoded.
//
// The image is decoded only to report its true pixel dimensions; failure
// to decode returns [ErrBadImage] and writes nothing.
func Export(res *Result, dir string) (*ExportInfo, error) {
	width, height, err := res.Dimensions()
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(res.sourcePath), filepath.Ext(res.sourcePath))
	if stem == "" || stem == "." {
		stem = "poster"
	}

	f, err := os.CreateTemp(dir, fmt.Sprintf("%s_%dppi_*.png", stem, res.density))
	if err != nil {
		return nil, fmt.Errorf("htmlposter: creating output file: %w", err)
	}
	name := f.Name()

	if _, err := f.Write(res.data); err != nil {
		f.Close()
		os.Remove(name)
		return nil, fmt.Errorf("htmlposter: writing output file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return nil, fmt.Errorf("htmlposter: closing output file: %w", err)
	}

	return &ExportInfo{
		Path:       name,
		Width:      width,
		Height:     height,
		ByteSize:   int64(res.Len()),
		Density:    res.density,
		SourcePath: res.sourcePath,
	}, nil
}
