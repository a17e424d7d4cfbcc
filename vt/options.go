package vt

import (
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/nyxterm/sixelterm/sixel"
)

// Option configures a Terminal at construction time, in the usual
// functional-options style.
type Option func(*Terminal)

// WithLogger attaches a logger to the Terminal in place of the default,
// which discards output. The Terminal writes nothing to it; sixel decoder
// logging is configured separately through WithSixelOptions.
func WithLogger(l *log.Logger) Option {
	return func(t *Terminal) { t.logger = l }
}

// WithTERM sets the TERM environment variable passed to the spawned
// command. Defaults to "xterm-256color".
func WithTERM(name string) Option {
	return func(t *Terminal) { t.termName = name }
}

// WithEventHandler attaches the callback invoked on terminal events (title
// changes, redraw requests, process exit).
func WithEventHandler(fn func(Event)) Option {
	return func(t *Terminal) { t.eventHandler = fn }
}

// WithSixelOptions passes through options to every sixel.Decoder the
// DCS bridge constructs.
func WithSixelOptions(opts ...sixel.Option) Option {
	return func(t *Terminal) { t.sixelOpts = append(t.sixelOpts, opts...) }
}

// WithDefaultStyle sets the foreground/background new cells are erased to.
func WithDefaultStyle(fg, bg tcell.Color) Option {
	return func(t *Terminal) { t.defaultFG, t.defaultBG = fg, bg }
}
