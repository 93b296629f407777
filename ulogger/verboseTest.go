package ulogger

import (
	"sync"
	"testing"
)

// VerboseTestLogger sends every line to t.Logf, so logs show up with -v or
// when the test fails.
type VerboseTestLogger struct {
	t  testing.TB
	mu sync.Mutex
}

func NewVerboseTestLogger(t testing.TB) *VerboseTestLogger {
	return &VerboseTestLogger{t: t}
}

func (l *VerboseTestLogger) logf(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.t.Helper()
	l.t.Logf("["+level+"] "+format, args...)
}

func (l *VerboseTestLogger) LogLevel() int { return 0 }
func (l *VerboseTestLogger) SetLogLevel(_ string) {}
func (l *VerboseTestLogger) New(_ string, _ ...Option) Logger { return l }
func (l *VerboseTestLogger) Duplicate(_ ...Option) Logger { return l }
func (l *VerboseTestLogger) Debugf(format string, args ...interface{}) { l.logf("DEBUG", format, args...) }
func (l *VerboseTestLogger) Infof(format string, args ...interface{}) { l.logf("INFO", format, args...) }
func (l *VerboseTestLogger) Warnf(format string, args ...interface{}) { l.logf("WARN", format, args...) }
func (l *VerboseTestLogger) Errorf(format string, args ...interface{}) { l.logf("ERROR", format, args...) }

func (l *VerboseTestLogger) Fatalf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.t.Fatalf("[FATAL] "+format, args...)
}
