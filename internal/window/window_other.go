//go:build !windows

package window

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/zserge/lorca"
)

// Compile-time interface satisfaction check.
var _ Shell = (*chromeShell)(nil)

// chromeShell shows the UI in a Chrome app window driven over the DevTools
// protocol.
type chromeShell struct {
	*shellState

	uiMu sync.Mutex
	ui   lorca.UI
}

// New creates the platform shell. The native window is not created until
// the first Reveal.
func New(cfg Config) (Shell, error) {
	state, err := newShellState(cfg)
	if err != nil {
		return nil, err
	}
	return &chromeShell{shellState: state}, nil
}

func (s *chromeShell) Eval(script string) error {
	s.uiMu.Lock()
	ui := s.ui
	s.uiMu.Unlock()

	if ui == nil {
		return ErrNotRevealed
	}
	if v := ui.Eval(script); v.Err() != nil {
		return fmt.Errorf("evaluating script: %w", v.Err())
	}
	return nil
}

// Run waits for the reveal request, creates the window on a blank page,
// applies the host bindings, then navigates. The bindings exist before the
// server page does, so a click can never beat them.
func (s *chromeShell) Run(ctx context.Context) error {
	script, ok := s.latch.wait(ctx)
	if !ok {
		return nil
	}

	ui, err := lorca.New("", "", s.cfg.Width, s.cfg.Height)
	if err != nil {
		s.log.Warn("creating chrome window failed", "error", err)
		return s.fallback(ctx)
	}
	defer func() {
		s.uiMu.Lock()
		s.ui = nil
		s.uiMu.Unlock()
		_ = ui.Close()
	}()

	s.applyBindings(ui.Bind)

	if err := ui.Load(s.cfg.URL); err != nil {
		s.log.Warn("navigating window failed", "url", s.cfg.URL, "error", err)
	}

	// Chrome app windows take their title from the page.
	if encoded, err := json.Marshal(s.cfg.Title); err == nil {
		ui.Eval("document.title = " + string(encoded))
	}

	s.uiMu.Lock()
	s.ui = ui
	s.uiMu.Unlock()

	if script != "" {
		if v := ui.Eval(script); v.Err() != nil {
			s.log.Warn("evaluating reveal script failed", "error", v.Err())
		}
	}

	s.log.Info("window revealed", "url", s.cfg.URL)

	select {
	case <-ui.Done():
		s.log.Info("window closed")
		return nil
	case <-ctx.Done():
		return nil
	}
}
