package gridcalc

import "log/slog"

// Options holds configuration for a Spreadsheet.
type Options struct {
	logger        *slog.Logger
	lenientParens bool
	listeners     []CellListener
}

func defaultOptions() *Options {
	return &Options{
		logger: slog.New(slog.DiscardHandler),
	}
}

// Option configures a Spreadsheet.
type Option func(*Options)

// WithLogger sets the structured logger used for recompute and I/O events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLenientParens makes formulas tolerate unmatched parentheses (default: false).
func WithLenientParens(lenient bool) Option {
	return func(o *Options) { o.lenientParens = lenient }
}

// WithCellListener adds a listener that is notified of every cell change.
func WithCellListener(listener CellListener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, listener) }
}

func (o *Options) compileOptions() []CompileOption {
	if o.lenientParens {
		return []CompileOption{AllowUnmatchedParens()}
	}
	return nil
}
