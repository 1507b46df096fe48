package htmlposter

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"os"

	_ "image/png" // screenshot bytes are PNG
)

// Result holds a captured poster image and provides helpers for common
// output forms such as raw bytes, streaming readers, and files.
//
// A Result is returned by every render. It is safe to call its methods
// multiple times — the underlying data is never modified.
type Result struct {
	data       []byte
	sourcePath string
	density    Density
}

// Bytes returns the raw PNG content.
func (r *Result) Bytes() []byte {
	return r.data
}

// Base64 returns the image encoded as a standard base64 string (RFC 4648).
// This is useful for embedding in JSON payloads or data URIs.
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.data)
}

// Reader returns a [*bytes.Reader] over the image content, suitable for
// streaming uploads or any API that accepts an [io.Reader].
func (r *Result) Reader() *bytes.Reader {
	return bytes.NewReader(r.data)
}

// WriteTo writes the full image content to w. It implements [io.WriterTo].
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// WriteToFile writes the image to the file at path, creating it if needed.
func (r *Result) WriteToFile(path string, perm os.FileMode) error {
	return os.WriteFile(path, r.data, perm)
}

// Len returns the size of the image in bytes.
func (r *Result) Len() int {
	return len(r.data)
}

// Density returns the density the image was rendered at.
func (r *Result) Density() Density {
	return r.density
}

// SourcePath returns the document the image was rendered from.
func (r *Result) SourcePath() string {
	return r.sourcePath
}

// Dimensions decodes and returns the true pixel width and height. The
// browser determines the output size, so dimensions are read from the
// image itself rather than computed from density math. Fails with
// [ErrBadImage] when the bytes are not a decodable raster image.
func (r *Result) Dimensions() (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(r.data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	return cfg.Width, cfg.Height, nil
}
