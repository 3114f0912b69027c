//go:build unix

package logging

import (
	"fmt"
	"log/syslog"
)

type sysLogger struct {
	w *syslog.Writer
}

func newSysLogger(tag string) (Logger, error) {
	w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_DAEMON, tag)
	if err != nil {
		return nil, err
	}
	return &sysLogger{w: w}, nil
}

func (l *sysLogger) Debug(msg string, args ...any) { _ = l.w.Debug(fmt.Sprintf(msg, args...)) }
func (l *sysLogger) Info(msg string, args ...any)  { _ = l.w.Info(fmt.Sprintf(msg, args...)) }
func (l *sysLogger) Warn(msg string, args ...any)  { _ = l.w.Warning(fmt.Sprintf(msg, args...)) }
func (l *sysLogger) Error(msg string, args ...any) { _ = l.w.Err(fmt.Sprintf(msg, args...)) }
