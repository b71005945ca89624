package cmd

import (
	"fmt"
	"strings"

	"github.com/spiffcs/statcard/internal/tui"
)

// tuiFlag is the tri-state --tui flag. It leaves Options.TUI nil for
// auto-detection; a bare --tui means true.
type tuiFlag struct {
	opts *Options
}

func newTUIFlag(opts *Options) *tuiFlag {
	return &tuiFlag{opts: opts}
}

func (f *tuiFlag) String() string {
	switch {
	case f.opts.TUI == nil:
		return "auto"
	case *f.opts.TUI:
		return "true"
	default:
		return "false"
	}
}

func (f *tuiFlag) Set(s string) error {
	var v bool
	switch strings.ToLower(s) {
	case "auto":
		f.opts.TUI = nil
		return nil
	case "true", "1", "yes", "on":
		v = true
	case "false", "0", "no", "off":
		v = false
	default:
		return fmt.Errorf("invalid value %q: use true, false, or auto", s)
	}
	f.opts.TUI = &v
	return nil
}

func (f *tuiFlag) Type() string { return "bool" }

func (f *tuiFlag) IsBoolFlag() bool { return true }

// shouldUseTUI reports whether generate should draw the progress UI.
// Verbose runs log to stderr instead.
func shouldUseTUI(opts *Options) bool {
	switch {
	case opts.Verbosity > 0:
		return false
	case opts.TUI != nil:
		return *opts.TUI
	default:
		return tui.ShouldUseTUI()
	}
}
