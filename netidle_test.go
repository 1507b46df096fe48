package htmlposter

import (
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
)

func idleSignalled(w *networkIdleWatcher) bool {
	select {
	case <-w.idle:
		return true
	default:
		return false
	}
}

func TestNetworkIdleWatcher_IgnoresReplayedLoader(t *testing.T) {
	w := newNetworkIdleWatcher()

	// Enabling lifecycle tracking replays events for the tab's initial
	// document, before our navigation has committed.
	w.handle(&page.EventLifecycleEvent{Name: "networkIdle", LoaderID: "initial"})
	if idleSignalled(w) {
		t.Fatal("networkIdle from the pre-navigation loader was accepted")
	}

	w.handle(&page.EventFrameNavigated{
		Frame: &cdp.Frame{ID: "main", LoaderID: "poster"},
	})
	w.handle(&page.EventLifecycleEvent{Name: "networkIdle", LoaderID: "initial"})
	if idleSignalled(w) {
		t.Fatal("networkIdle from a stale loader was accepted after navigation")
	}

	w.handle(&page.EventLifecycleEvent{Name: "networkIdle", LoaderID: "poster"})
	if !idleSignalled(w) {
		t.Fatal("networkIdle from the committed loader was not signalled")
	}
}

func TestNetworkIdleWatcher_IgnoresSubframesAndOtherEvents(t *testing.T) {
	w := newNetworkIdleWatcher()
	w.handle(&page.EventFrameNavigated{
		Frame: &cdp.Frame{ID: "main", LoaderID: "poster"},
	})

	// A subframe navigation must not displace the main frame's loader.
	w.handle(&page.EventFrameNavigated{
		Frame: &cdp.Frame{ID: "child", ParentID: "main", LoaderID: "iframe"},
	})
	w.handle(&page.EventLifecycleEvent{Name: "networkIdle", LoaderID: "iframe"})
	if idleSignalled(w) {
		t.Fatal("networkIdle from a subframe loader was accepted")
	}

	w.handle(&page.EventLifecycleEvent{Name: "load", LoaderID: "poster"})
	if idleSignalled(w) {
		t.Fatal("a non-networkIdle lifecycle event was accepted")
	}

	w.handle(&page.EventLifecycleEvent{Name: "networkIdle", LoaderID: "poster"})
	if !idleSignalled(w) {
		t.Fatal("networkIdle from the committed loader was not signalled")
	}
}

func TestNetworkIdleWatcher_SignalsOnce(t *testing.T) {
	w := newNetworkIdleWatcher()
	w.handle(&page.EventFrameNavigated{
		Frame: &cdp.Frame{ID: "main", LoaderID: "poster"},
	})

	// A second matching event must neither block nor signal again.
	w.handle(&page.EventLifecycleEvent{Name: "networkIdle", LoaderID: "poster"})
	w.handle(&page.EventLifecycleEvent{Name: "networkIdle", LoaderID: "poster"})
	if !idleSignalled(w) {
		t.Fatal("networkIdle from the committed loader was not signalled")
	}
	if idleSignalled(w) {
		t.Fatal("networkIdle was signalled more than once")
	}
}
