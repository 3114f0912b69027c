// Package logging provides the logger interface used across btrsnap.
package logging

import (
	"fmt"
	"os"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// StdLogger writes informational lines to stdout and errors to stderr.
// Quiet suppresses Info (Warn and Error always get through); Verbose
// enables Debug.
type StdLogger struct {
	Quiet   bool
	Verbose bool
}

func (l StdLogger) Debug(msg string, args ...any) {
	if l.Verbose {
		fmt.Fprintf(os.Stdout, "debug: "+msg+"\n", args...)
	}
}

func (l StdLogger) Info(msg string, args ...any) {
	if !l.Quiet {
		fmt.Fprintf(os.Stdout, msg+"\n", args...)
	}
}

func (l StdLogger) Warn(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+msg+"\n", args...)
}

func (l StdLogger) Error(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+msg+"\n", args...)
}

// tee duplicates every record to all sinks.
type tee []Logger

func (t tee) Debug(msg string, args ...any) {
	for _, l := range t {
		l.Debug(msg, args...)
	}
}

func (t tee) Info(msg string, args ...any) {
	for _, l := range t {
		l.Info(msg, args...)
	}
}

func (t tee) Warn(msg string, args ...any) {
	for _, l := range t {
		l.Warn(msg, args...)
	}
}

func (t tee) Error(msg string, args ...any) {
	for _, l := range t {
		l.Error(msg, args...)
	}
}

// New builds the production logger: stdout/stderr plus the system log
// facility when one can be attached. quiet only silences the stdout copy;
// syslog receives every record regardless.
func New(tag string, quiet, verbose bool) Logger {
	std := StdLogger{Quiet: quiet, Verbose: verbose}

	sys, err := newSysLogger(tag)
	if err != nil || sys == nil {
		return std
	}
	return tee{std, sys}
}

// Nop discards everything. Used by tests.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
