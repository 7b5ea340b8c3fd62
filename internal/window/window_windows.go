//go:build windows

package window

import (
	"context"
	"sync"

	webview2 "github.com/jchv/go-webview2"
)

// Compile-time interface satisfaction check.
var _ Shell = (*webviewShell)(nil)

// webviewShell shows the UI in an Edge WebView2 window.
type webviewShell struct {
	*shellState

	uiMu sync.Mutex
	ui   webview2.WebView
}

// New creates the platform shell. The native window is not created until
// the first Reveal.
func New(cfg Config) (Shell, error) {
	state, err := newShellState(cfg)
	if err != nil {
		return nil, err
	}
	return &webviewShell{shellState: state}, nil
}

func (s *webviewShell) Eval(script string) error {
	s.uiMu.Lock()
	ui := s.ui
	s.uiMu.Unlock()

	if ui == nil {
		return ErrNotRevealed
	}
	// Evaluation has to happen on the message-loop thread.
	ui.Dispatch(func() {
		ui.Eval(script)
	})
	return nil
}

// Run waits for the reveal request, creates the window, applies the host
// bindings, and runs the message loop until the window closes or ctx is
// cancelled. WebView2 is thread-affine; Run must stay on the OS-thread-locked
// main goroutine, so cross-goroutine shutdown goes through Dispatch.
func (s *webviewShell) Run(ctx context.Context) error {
	script, ok := s.latch.wait(ctx)
	if !ok {
		return nil
	}

	ui := webview2.NewWithOptions(webview2.WebViewOptions{
		AutoFocus: true,
		WindowOptions: webview2.WindowOptions{
			Title:  s.cfg.Title,
			Width:  uint(s.cfg.Width),
			Height: uint(s.cfg.Height),
			Center: true,
		},
	})
	if ui == nil {
		s.log.Warn("creating WebView2 window failed, runtime may be missing")
		return s.fallback(ctx)
	}
	defer func() {
		s.uiMu.Lock()
		s.ui = nil
		s.uiMu.Unlock()
		ui.Destroy()
	}()

	s.applyBindings(ui.Bind)

	if script != "" {
		// Init scripts run on every navigation; the marker guard keeps
		// repeat runs idempotent.
		ui.Init(script)
	}
	ui.Navigate(s.cfg.URL)

	s.uiMu.Lock()
	s.ui = ui
	s.uiMu.Unlock()

	s.log.Info("window revealed", "url", s.cfg.URL)

	loopDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			ui.Dispatch(ui.Terminate)
		case <-loopDone:
		}
	}()

	ui.Run()
	close(loopDone)
	s.log.Info("window closed")
	return nil
}
