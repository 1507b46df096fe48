package htmlposter

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the library. They are wrapped with the
// offending path, so match them with [errors.Is].
var (
	// ErrClosed is returned when attempting to use a closed [Renderer].
	ErrClosed = errors.New("htmlposter: renderer is closed")

	// ErrNotFound is returned when the input path does not exist.
	ErrNotFound = errors.New("htmlposter: document not found")

	// ErrUnsupportedFormat is returned when the input path does not carry
	// a recognized HTML extension (.html or .htm, case-insensitive).
	ErrUnsupportedFormat = errors.New("htmlposter: unsupported document format")

	// ErrNoDocument is returned when an archive contains no HTML document.
	ErrNoDocument = errors.New("htmlposter: archive contains no HTML document")

	// ErrBadImage is returned when screenshot bytes cannot be decoded as a
	// raster image. It signals a renderer contract violation, not bad input.
	ErrBadImage = errors.New("htmlposter: screenshot is not a valid image")
)

// RenderError wraps a browser session or navigation failure with the
// document URL that was being rendered.
type RenderError struct {
	URL string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("htmlposter: rendering %s: %v", e.URL, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
