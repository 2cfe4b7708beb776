package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger on top of rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger writes to stderr so stdout stays free for the stdout
// record sink. APP_ENV=dev switches to the console writer.
func NewZerologLogger(component string) Logger {
	var w io.Writer = os.Stderr
	if strings.EqualFold(os.Getenv("APP_ENV"), "dev") {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(component, w)
}

// NewWithWriter creates a logger writing JSON lines to w.
func NewWithWriter(component string, w io.Writer) *ZerologLogger {
	z := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

// With returns a child logger adding fields to every line.
func (l *ZerologLogger) With(fields map[string]any) Logger {
	return &ZerologLogger{log: l.log.With().Fields(fields).Logger()}
}
