// Package ulogger is the logging facade used by every service. The default
// implementation is backed by zerolog; the gocore logger can be selected with
// WithLoggerType("gocore").
package ulogger

// ANSI color codes used by the console writer.
const (
	colorBold   = 1
	colorRed    = 31
	colorGreen  = 32
	colorYellow = 33
	colorBlue   = 34
)

type Logger interface {
	LogLevel() int
	SetLogLevel(level string)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	New(service string, options ...Option) Logger
	Duplicate(options ...Option) Logger
}

func New(service string, options ...Option) Logger {
	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	switch opts.loggerType {
	case "gocore":
		return NewGoCoreLogger(service, options...)
	default:
		return NewZeroLogger(service, options...)
	}
}
