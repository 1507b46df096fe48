package htmlposter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Defaults applied by [RenderRequest.resolved].
const (
	// DefaultSelector is the element captured when none is given.
	DefaultSelector = "#poster"
	// DefaultDensity is the density used when none is given.
	DefaultDensity = HQPrint
	// DefaultViewportWidth is the nominal poster width in CSS pixels.
	DefaultViewportWidth = 900
	// DefaultViewportHeight is the nominal poster height in CSS pixels.
	DefaultViewportHeight = 1200
)

// RenderRequest describes a single export.
//
// A nil RenderRequest or zero-value fields use sensible defaults: the
// "#poster" selector, 300 ppi, and a 900×1200 viewport. DocumentPath has
// no default and must name an existing HTML file.
type RenderRequest struct {
	// DocumentPath is the path to the HTML document to render.
	DocumentPath string

	// Selector identifies the element to capture. When the document has
	// no matching element the full viewport is captured instead.
	Selector string

	// Density is the requested output resolution in pixels per inch.
	Density Density

	// ViewportWidth and ViewportHeight size the nominal poster box in CSS
	// pixels. The browser viewport is padded beyond these to leave room
	// for shadows and other overflow.
	ViewportWidth  int
	ViewportHeight int
}

// resolved returns a RenderRequest with all zero values replaced by defaults.
func (r *RenderRequest) resolved() RenderRequest {
	var q RenderRequest
	if r != nil {
		q = *r
	}
	if q.Selector == "" {
		q.Selector = DefaultSelector
	}
	if q.Density == 0 {
		q.Density = DefaultDensity
	}
	if q.ViewportWidth == 0 {
		q.ViewportWidth = DefaultViewportWidth
	}
	if q.ViewportHeight == 0 {
		q.ViewportHeight = DefaultViewportHeight
	}
	return q
}

// validateParams rejects bad render parameters. It skips the document
// path, which archive rendering fills in only after extraction.
func (r RenderRequest) validateParams() error {
	if err := r.Density.validate(); err != nil {
		return err
	}
	if r.ViewportWidth <= 0 || r.ViewportHeight <= 0 {
		return fmt.Errorf("htmlposter: viewport must be positive, got %dx%d", r.ViewportWidth, r.ViewportHeight)
	}
	return nil
}

// validate rejects bad requests before any browser work happens.
func (r RenderRequest) validate() error {
	if err := r.validateParams(); err != nil {
		return err
	}
	info, err := os.Stat(r.DocumentPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, r.DocumentPath)
	}
	if info.IsDir() || !isHTMLPath(r.DocumentPath) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, r.DocumentPath)
	}
	return nil
}

// isHTMLPath reports whether path carries a recognized HTML extension.
func isHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
