// Package browser rasterizes composed scenes through a long-lived
// headless Chrome session. The session is the one shared mutable
// resource in the render path: each capture opens an isolated tab
// context against it, so concurrent renders do not interfere with each
// other's content.
package browser

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/wojo-o/inker-sub001/internal/scene"
)

// ErrCaptureFailed marks engine crashes and capture timeouts. Unlike a
// single widget's failure, a capture failure is surfaced to the caller,
// who may retry.
var ErrCaptureFailed = errors.New("screen capture failed")

const (
	// assetWait bounds how long a capture waits for web fonts and
	// embedded images; after that, rendering proceeds with whatever has
	// loaded. The page never hangs a render indefinitely.
	assetWait = 5 * time.Second

	// captureTimeout bounds one full capture call end to end.
	captureTimeout = 30 * time.Second
)

// Session owns the headless browser process: lazy launch on first use,
// disconnect detection with single-flight relaunch, explicit shutdown.
type Session struct {
	execPath string

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewSession prepares a session without launching anything. execPath
// may be empty to use the default Chrome discovery.
func NewSession(execPath string) *Session {
	return &Session{execPath: execPath}
}

// browser returns a live browser context, launching or relaunching the
// process if needed. The mutex makes relaunch single-flight: concurrent
// callers hitting a dead session start exactly one new process.
func (s *Session) browser() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browserCtx != nil && s.browserCtx.Err() == nil {
		return s.browserCtx, nil
	}
	if s.browserCtx != nil {
		log.Printf("browser: session disconnected, relaunching")
		s.teardownLocked()
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("force-device-scale-factor", "1"),
	)
	if s.execPath != "" {
		opts = append(opts, chromedp.ExecPath(s.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser process now, so launch
	// failures surface here instead of inside the first render.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	return s.browserCtx, nil
}

func (s *Session) teardownLocked() {
	if s.browserCancel != nil {
		s.browserCancel()
		s.browserCancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	s.browserCtx = nil
}

// Shutdown terminates the browser process.
func (s *Session) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
}

// invalidate drops the session after a mid-call crash so the next use
// relaunches.
func (s *Session) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browserCtx != nil && s.browserCtx.Err() != nil {
		s.teardownLocked()
	}
}

// waitAssets resolves when document fonts and all images have loaded,
// or after assetWait, whichever comes first.
const waitAssets = `new Promise((resolve) => {
	const timer = setTimeout(() => resolve(false), %d);
	const images = Array.from(document.images).map((img) =>
		img.complete ? Promise.resolve() : new Promise((r) => { img.onload = r; img.onerror = r; }));
	Promise.all([document.fonts.ready, ...images]).then(() => {
		clearTimeout(timer);
		resolve(true);
	});
})`

// Rasterize loads the scene in a fresh isolated tab, waits for assets,
// captures an exact-size raster and tears the tab down — release is
// guaranteed even on failure.
func (s *Session) Rasterize(ctx context.Context, sc scene.Scene) (image.Image, error) {
	browserCtx, err := s.browser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	runCtx, cancelRun := context.WithTimeout(tabCtx, captureTimeout)
	defer cancelRun()
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(runCtx, deadline)
		defer cancel()
	}

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(sc.HTML))
	script := fmt.Sprintf(waitAssets, assetWait.Milliseconds())

	var loaded bool
	var shot []byte
	err = chromedp.Run(runCtx,
		chromedp.EmulateViewport(int64(sc.Width), int64(sc.Height)),
		chromedp.Navigate(dataURL),
		chromedp.Evaluate(script, &loaded, func(p *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			shot, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithClip(&page.Viewport{
					X: 0, Y: 0,
					Width:  float64(sc.Width),
					Height: float64(sc.Height),
					Scale:  1,
				}).
				WithCaptureBeyondViewport(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		s.invalidate()
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	if !loaded {
		log.Printf("browser: asset wait expired after %s, captured with partial assets", assetWait)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("%w: decode screenshot: %v", ErrCaptureFailed, err)
	}
	if b := img.Bounds(); b.Dx() != sc.Width || b.Dy() != sc.Height {
		return nil, fmt.Errorf("%w: raster is %dx%d, want %dx%d", ErrCaptureFailed, b.Dx(), b.Dy(), sc.Width, sc.Height)
	}
	return img, nil
}
