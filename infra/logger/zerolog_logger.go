package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger on rs/zerolog, emitting structured JSON
// with a per-component tag so one service log stream can be filtered by
// pipeline stage ("service", "optimize-command", "mqtt_publisher", ...).
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger builds a logger for the given component. With APP_ENV=dev
// output switches to the human-readable console writer; everything else gets
// machine-parseable JSON on stdout.
func NewZerologLogger(component string) Logger {
	out := io.Writer(os.Stdout)
	if strings.EqualFold(os.Getenv("APP_ENV"), "dev") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(out).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

// Debugw logs at debug level with structured fields, used for run summaries
// where the fields (run_id, counts, cost) matter more than the message.
func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
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
