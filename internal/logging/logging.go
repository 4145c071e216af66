// Package logging provides structured logging helpers for the query planner.
//
// Design principles:
//   - Loggers are dependency-injected, never global
//   - Each component scopes its logger once, at construction time
//   - If no logger is provided, a discard logger is used
//
// Output format, level, and destination are configured only in main().
// Components must never call slog.SetDefault or reach for global loggers.
//
// The planning core is pure and allocation-only; logging there is limited
// to plan-level decisions, never per-filter or per-index iteration.
package logging

import (
	"context"
	"log/slog"
)

// discardHandler drops all records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Discard returns a logger that discards all output.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// Default returns logger if non-nil, otherwise a discard logger.
func Default(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return Discard()
}

// Component returns logger (or a discard logger if nil) scoped with a
// component attribute. This is the standard constructor pattern:
//
//	func NewPlanner(logger *slog.Logger) *Planner {
//	    return &Planner{logger: logging.Component(logger, "planner")}
//	}
func Component(logger *slog.Logger, name string) *slog.Logger {
	return Default(logger).With("component", name)
}
