package htmlposter

import (
	"log/slog"
	"time"
)

// rendererConfig holds internal configuration for a Renderer.
type rendererConfig struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	headless     string
	autoDownload bool
	logger       *slog.Logger
}

func defaultConfig() rendererConfig {
	return rendererConfig{
		headless: "new",
		logger:   slog.Default(),
	}
}

// Option configures a [Renderer].
type Option func(*rendererConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *rendererConfig) {
		c.chromePath = path
	}
}

// WithTimeout sets the maximum duration for a single render. By default no
// timeout is imposed beyond what the browser itself enforces; a zero or
// negative value keeps it that way.
func WithTimeout(d time.Duration) Option {
	return func(c *rendererConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *rendererConfig) {
		c.noSandbox = true
	}
}

// WithAutoDownload downloads a compatible Chromium binary when no local
// Chrome installation is found, and caches it for later runs.
func WithAutoDownload() Option {
	return func(c *rendererConfig) {
		c.autoDownload = true
	}
}

// WithLogger sets the logger used for non-fatal events such as scratch
// directory removal failures. Defaults to [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(c *rendererConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
