package htmlposter

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const (
	// Viewport padding beyond the nominal poster box. Shadows and other
	// visual overflow would otherwise be clipped at the viewport edge.
	viewportPadX = 100
	viewportPadY = 200

	// settleDelay allows late layout and paint passes after network idle.
	// Fixed by contract; shortening it regresses output fidelity.
	settleDelay = 2 * time.Second

	// networkIdleGuard bounds the wait for Chrome's networkIdle lifecycle
	// event. The event fires once per navigation and can be missed if the
	// page reaches idle through a path that skips it; the pipeline then
	// proceeds with whatever has loaded.
	networkIdleGuard = 15 * time.Second
)

// Renderer exports HTML documents as raster images.
//
// A Renderer manages a headless browser instance that is reused across
// multiple renders for performance; each render runs in its own isolated
// tab. It is safe for concurrent use.
//
// Call [Renderer.Close] when the Renderer is no longer needed to release
// browser resources.
type Renderer struct {
	cfg           rendererConfig
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewRenderer creates a Renderer with the given options.
//
// It starts a headless browser in the background. The caller must call
// [Renderer.Close] when finished.
func NewRenderer(opts ...Option) (*Renderer, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.chromePath == "" && cfg.autoDownload {
		path, err := resolveBrowser()
		if err != nil {
			return nil, err
		}
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("headless", cfg.headless),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("htmlposter: starting browser: %w", err)
	}

	return &Renderer{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases all resources held by the Renderer, including the
// browser process. Close is idempotent.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.browserCancel()
	r.allocCancel()
	return nil
}

// Render captures req.DocumentPath as a PNG image.
//
// The document is loaded over the file:// scheme so that relative
// resources resolve against its own directory. The pipeline waits for
// network idleness, injects the snapshot stylesheet, waits a fixed
// settling delay plus best-effort font readiness, then screenshots the
// element matched by req.Selector. When the selector matches nothing the
// full viewport is captured instead.
//
// Validation failures and missing documents return sentinel errors;
// browser failures return a [*RenderError] wrapping the cause.
func (r *Renderer) Render(ctx context.Context, req *RenderRequest) (*Result, error) {
	if err := r.checkClosed(); err != nil {
		return nil, err
	}

	rq := req.resolved()
	if err := rq.validate(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(rq.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("htmlposter: resolving path: %w", err)
	}
	fileURL := "file://" + abs

	if r.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.timeout)
		defer cancel()
	}
	tabCtx, tabCancel := chromedp.NewContext(r.browserCtx)
	defer tabCancel()

	// The tab context descends from the browser context, not from ctx;
	// propagate caller cancellation and the optional timeout by hand.
	go func() {
		select {
		case <-ctx.Done():
			tabCancel()
		case <-tabCtx.Done():
		}
	}()

	// The networkIdle listener must be installed before navigation starts,
	// otherwise a fast local load can fire the event unobserved.
	watcher := newNetworkIdleWatcher()
	listenCtx, stopListening := context.WithCancel(tabCtx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, watcher.handle)

	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(
			int64(rq.ViewportWidth+viewportPadX),
			int64(rq.ViewportHeight+viewportPadY),
			chromedp.EmulateScale(rq.Density.ScaleFactor()),
		),
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(fileURL),
		waitNetworkIdle(watcher.idle),
		injectStyle(snapshotCSS),
		chromedp.Sleep(settleDelay),
		awaitFontsReady(),
		captureTarget(rq.Selector, &buf),
	); err != nil {
		return nil, &RenderError{URL: fileURL, Err: err}
	}

	return &Result{data: buf, sourcePath: abs, density: rq.Density}, nil
}

// RenderArchive extracts a ZIP archive, renders the best-candidate HTML
// document inside it, and removes the scratch directory afterwards on
// both success and failure paths. A nil req uses defaults.
func (r *Renderer) RenderArchive(ctx context.Context, archivePath string, req *RenderRequest) (*Result, error) {
	if err := r.checkClosed(); err != nil {
		return nil, err
	}

	src, err := Locate(archivePath)
	if err != nil {
		return nil, err
	}
	defer src.cleanup(r.cfg.logger)

	rq := req.resolved()
	rq.DocumentPath = src.DocumentPath
	return r.Render(ctx, &rq)
}

func (r *Renderer) checkClosed() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return nil
}

// networkIdleWatcher signals when the navigated document reaches network
// idle. Lifecycle events carry the loader that produced them, and enabling
// lifecycle tracking makes Chrome replay the events of whatever document is
// current at that moment (about:blank for a fresh tab). Matching on the
// main frame's committed loader keeps those replayed events from
// satisfying the wait before the poster document has loaded.
type networkIdleWatcher struct {
	mu     sync.Mutex
	loader cdp.LoaderID
	fired  bool
	idle   chan struct{}
}

func newNetworkIdleWatcher() *networkIdleWatcher {
	return &networkIdleWatcher{idle: make(chan struct{}, 1)}
}

func (w *networkIdleWatcher) handle(ev interface{}) {
	switch e := ev.(type) {
	case *page.EventFrameNavigated:
		if e.Frame.ParentID == "" {
			w.mu.Lock()
			w.loader = e.Frame.LoaderID
			w.mu.Unlock()
		}
	case *page.EventLifecycleEvent:
		if e.Name != "networkIdle" {
			return
		}
		w.mu.Lock()
		match := w.loader != "" && e.LoaderID == w.loader && !w.fired
		if match {
			w.fired = true
		}
		w.mu.Unlock()
		if match {
			w.idle <- struct{}{}
		}
	}
}

// waitNetworkIdle blocks until the page reaches network idle: no requests
// in flight for Chrome's quiescence window (500 ms). Local resource loads
// are asynchronous even over file://, so capturing earlier races them.
func waitNetworkIdle(idle <-chan struct{}) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		select {
		case <-idle:
			return nil
		case <-time.After(networkIdleGuard):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// injectStyle appends css to the document head as an additional stylesheet.
// The document itself is never rewritten.
func injectStyle(css string) chromedp.Action {
	expr := fmt.Sprintf(`(css => {
		const style = document.createElement('style');
		style.id = 'snapshot-mode-inject';
		style.appendChild(document.createTextNode(css));
		document.head.appendChild(style);
	})(%s)`, strconv.Quote(css))
	return chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.Evaluate(expr, nil).Do(ctx)
	})
}

// awaitFontsReady waits for font-face loading to finish. Best-effort: a
// failure means some glyphs render with fallback fonts, never a failed
// export.
func awaitFontsReady() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_ = chromedp.Evaluate(`document.fonts.ready.then(() => true)`, nil,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			},
		).Do(ctx)
		return nil
	})
}

// captureTarget screenshots the element matched by sel, clipped to its
// bounding box so the output aspect ratio matches the poster regardless of
// viewport padding. An absent, hidden, or zero-sized element degrades to a
// viewport capture; an element screenshot needs a box to clip to, and
// waiting on one that will never appear would stall the export.
func captureTarget(sel string, buf *[]byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var capturable bool
		expr := fmt.Sprintf(`(sel => {
			const el = document.querySelector(sel);
			if (el === null) {
				return false;
			}
			const rect = el.getBoundingClientRect();
			return rect.width > 0 && rect.height > 0;
		})(%s)`, strconv.Quote(sel))
		if err := chromedp.Evaluate(expr, &capturable).Do(ctx); err != nil {
			return err
		}
		if capturable {
			return chromedp.Screenshot(sel, buf, chromedp.NodeReady, chromedp.ByQuery).Do(ctx)
		}
		return chromedp.CaptureScreenshot(buf).Do(ctx)
	})
}

// --- Package-level convenience functions ---

// Render captures an HTML document using a temporary [Renderer]. This is
// convenient for one-off exports. For repeated use, create a Renderer with
// [NewRenderer] to reuse the browser instance.
//
// The request is validated before the browser is started, so bad input
// never pays the browser launch cost.
func Render(ctx context.Context, req *RenderRequest, opts ...Option) (*Result, error) {
	rq := req.resolved()
	if err := rq.validate(); err != nil {
		return nil, err
	}

	r, err := NewRenderer(opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Render(ctx, &rq)
}

// RenderArchive renders the best-candidate HTML document inside a ZIP
// archive using a temporary [Renderer]. The document path comes from the
// archive, so only the render parameters can be checked before the browser
// is started.
func RenderArchive(ctx context.Context, archivePath string, req *RenderRequest, opts ...Option) (*Result, error) {
	rq := req.resolved()
	if err := rq.validateParams(); err != nil {
		return nil, err
	}

	r, err := NewRenderer(opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.RenderArchive(ctx, archivePath, &rq)
}
