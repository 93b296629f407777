package ulogger

import (
	"github.com/ordishs/gocore"
)

// GoCoreLogger is the gocore logger behind the Logger interface. Its level is
// fixed at construction.
type GoCoreLogger struct {
	*gocore.Logger
}

func NewGoCoreLogger(service string, options ...Option) *GoCoreLogger {
	if service == "" {
		service = "mineblock"
	}

	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	return &GoCoreLogger{gocore.Log(service, gocore.NewLogLevelFromString(opts.logLevel))}
}

func (g *GoCoreLogger) New(service string, _ ...Option) Logger {
	return &GoCoreLogger{gocore.Log(service, g.Logger.GetLogLevel())}
}

func (g *GoCoreLogger) Duplicate(_ ...Option) Logger {
	return &GoCoreLogger{g.Logger}
}

func (g *GoCoreLogger) SetLogLevel(_ string) {}
