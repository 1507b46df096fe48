package htmlposter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeHTML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderRequest_ResolvedDefaults(t *testing.T) {
	var nilReq *RenderRequest
	q := nilReq.resolved()
	if q.Selector != "#poster" {
		t.Errorf("default selector = %q, want #poster", q.Selector)
	}
	if q.Density != HQPrint {
		t.Errorf("default density = %d, want %d", q.Density, HQPrint)
	}
	if q.ViewportWidth != 900 || q.ViewportHeight != 1200 {
		t.Errorf("default viewport = %dx%d, want 900x1200", q.ViewportWidth, q.ViewportHeight)
	}
}

func TestRenderRequest_ResolvedKeepsExplicit(t *testing.T) {
	q := (&RenderRequest{
		Selector:       "#banner",
		Density:        Screen,
		ViewportWidth:  500,
		ViewportHeight: 700,
	}).resolved()
	if q.Selector != "#banner" || q.Density != Screen || q.ViewportWidth != 500 || q.ViewportHeight != 700 {
		t.Errorf("resolved() overwrote explicit fields: %+v", q)
	}
}

func TestRenderRequest_Validate(t *testing.T) {
	path := writeHTML(t, "poster.html", "<div id=poster></div>")

	good := RenderRequest{DocumentPath: path, Selector: "#poster", Density: 300, ViewportWidth: 900, ViewportHeight: 1200}
	if err := good.validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	t.Run("zero density", func(t *testing.T) {
		q := good
		q.Density = 0
		if err := q.validate(); err == nil {
			t.Error("density 0 should be rejected")
		}
	})

	t.Run("negative density", func(t *testing.T) {
		q := good
		q.Density = -72
		if err := q.validate(); err == nil {
			t.Error("negative density should be rejected")
		}
	})

	t.Run("bad viewport", func(t *testing.T) {
		q := good
		q.ViewportWidth = 0
		if err := q.validate(); err == nil {
			t.Error("zero viewport width should be rejected")
		}
	})

	t.Run("missing document", func(t *testing.T) {
		q := good
		q.DocumentPath = filepath.Join(t.TempDir(), "gone.html")
		if err := q.validate(); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		q := good
		q.DocumentPath = writeHTML(t, "poster.txt", "not html")
		if err := q.validate(); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("err = %v, want ErrUnsupportedFormat", err)
		}
	})
}

func TestRenderRequest_ValidateParams(t *testing.T) {
	// validateParams never touches the filesystem, so it can run before a
	// document path is known.
	good := RenderRequest{Selector: "#poster", Density: 300, ViewportWidth: 900, ViewportHeight: 1200}
	if err := good.validateParams(); err != nil {
		t.Fatalf("valid parameters rejected: %v", err)
	}

	q := good
	q.ViewportHeight = -1
	if err := q.validateParams(); err == nil {
		t.Error("negative viewport height should be rejected")
	}

	q = good
	q.Density = 0
	if err := q.validateParams(); err == nil {
		t.Error("zero density should be rejected")
	}
}

func TestIsHTMLPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"poster.html", true},
		{"poster.htm", true},
		{"POSTER.HTML", true},
		{"a/b/Index.Htm", true},
		{"poster.xhtml", false},
		{"poster.txt", false},
		{"poster", false},
	}
	for _, tt := range tests {
		if got := isHTMLPath(tt.path); got != tt.want {
			t.Errorf("isHTMLPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
