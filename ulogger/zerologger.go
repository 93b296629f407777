package ulogger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ordishs/gocore"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	zerologLevels = map[string]zerolog.Level{
		"DEBUG": zerolog.DebugLevel,
		"INFO":  zerolog.InfoLevel,
		"WARN":  zerolog.WarnLevel,
		"ERROR": zerolog.ErrorLevel,
		"FATAL": zerolog.FatalLevel,
		"PANIC": zerolog.PanicLevel,
	}

	gocoreLevels = map[zerolog.Level]int{
		zerolog.DebugLevel: int(gocore.DEBUG),
		zerolog.InfoLevel:  int(gocore.INFO),
		zerolog.WarnLevel:  int(gocore.WARN),
		zerolog.ErrorLevel: int(gocore.ERROR),
		zerolog.FatalLevel: int(gocore.FATAL),
	}

	levelColors = map[string]int{
		"debug": colorBlue,
		"info":  colorGreen,
		"warn":  colorYellow,
		"error": colorRed,
		"fatal": colorRed,
		"panic": colorRed,
	}
)

// ZLoggerWrapper adapts a zerolog.Logger to Logger.
type ZLoggerWrapper struct {
	zerolog.Logger
	service string
	w       io.Writer
}

// NewZeroLogger writes to the configured writer, as a colored console log
// unless PRETTY_LOGS is false, in which case it writes JSON lines.
func NewZeroLogger(service string, options ...Option) *ZLoggerWrapper {
	if service == "" {
		service = "mineblock"
	}

	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	var out io.Writer = opts.writer
	if gocore.Config().GetBool("PRETTY_LOGS", true) {
		out = consoleWriter(opts.writer, service)
	}

	z := &ZLoggerWrapper{
		Logger: zerolog.New(out).With().
			CallerWithSkipFrameCount(zerolog.CallerSkipFrameCount + 1 + opts.skip).
			Timestamp().
			Logger(),
		service: service,
		w:       opts.writer,
	}

	z.SetLogLevel(opts.logLevel)

	return z
}

func consoleWriter(w io.Writer, service string) zerolog.ConsoleWriter {
	noColor := !term.IsTerminal(int(os.Stdout.Fd()))

	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: "15:04:05",
		FormatLevel: func(i interface{}) string {
			level, _ := i.(string)
			return fmt.Sprintf("| %s|", colorize(strings.ToUpper(fmt.Sprintf("%-6s", level)), levelColors[level], noColor))
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("| %-6s| %s", service, i)
		},
		FormatCaller: func(i interface{}) string {
			caller, _ := i.(string)
			if caller == "" {
				return ""
			}

			// package/file.go:line
			short := filepath.Join(filepath.Base(filepath.Dir(caller)), filepath.Base(caller))

			return colorize(fmt.Sprintf("%-32s", short), colorBold, noColor)
		},
		FormatTimestamp: func(i interface{}) string {
			ts, _ := i.(string)

			parsed, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				return ts
			}

			return parsed.Format("15:04:05")
		},
	}
}

func (z *ZLoggerWrapper) New(service string, options ...Option) Logger {
	inherited := []Option{WithWriter(z.w), WithLevel(strings.ToUpper(z.Logger.GetLevel().String()))}

	return NewZeroLogger(service, append(inherited, options...)...)
}

// Duplicate returns a copy of the logger for the same service, optionally
// with a different level or writer.
func (z *ZLoggerWrapper) Duplicate(options ...Option) Logger {
	opts := &Options{writer: z.w, logLevel: strings.ToUpper(z.Logger.GetLevel().String())}
	for _, o := range options {
		o(opts)
	}

	dup := &ZLoggerWrapper{Logger: z.Logger, service: z.service, w: z.w}
	if opts.writer != z.w {
		dup.Logger = z.Logger.Output(opts.writer)
		dup.w = opts.writer
	}

	dup.SetLogLevel(opts.logLevel)

	return dup
}

// SetLogLevel falls back to INFO for unknown names.
func (z *ZLoggerWrapper) SetLogLevel(logLevel string) {
	level, ok := zerologLevels[strings.ToUpper(logLevel)]
	if !ok {
		level = zerolog.InfoLevel
	}

	z.Logger = z.Logger.Level(level)
}

func (z *ZLoggerWrapper) LogLevel() int {
	level, ok := gocoreLevels[z.Logger.GetLevel()]
	if !ok {
		return int(gocore.INFO)
	}

	return level
}

func (z *ZLoggerWrapper) Debugf(format string, args ...interface{}) {
	z.Logger.Debug().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Infof(format string, args ...interface{}) {
	z.Logger.Info().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Warnf(format string, args ...interface{}) {
	z.Logger.Warn().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Errorf(format string, args ...interface{}) {
	z.Logger.Error().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Fatalf(format string, args ...interface{}) {
	z.Logger.Fatal().Msgf(format, args...)
}

// colorize wraps s in ANSI code c. NO_COLOR in the environment disables it.
func colorize(s string, c int, disabled bool) string {
	if disabled || c == 0 || os.Getenv("NO_COLOR") != "" {
		return s
	}

	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", c, s)
}
