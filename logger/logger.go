package logger

import (
	"io"
	"log/slog"
)

// Logger tags every record with the component name and an instance id.
type Logger struct {
	name string
	id   string
	log  *slog.Logger
}

// NewLogger returns a logger writing to the configured log file, or stderr.
func NewLogger(name, id string) *Logger {
	w, lvl := sharedOutput()
	return newLogger(name, id, w, lvl)
}

// NewWithWriter returns a logger that writes every level to w.
func NewWithWriter(name, id string, w io.Writer) *Logger {
	return newLogger(name, id, w, slog.LevelDebug)
}

func newLogger(name, id string, w io.Writer, lvl slog.Level) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return &Logger{
		name: name,
		id:   id,
		log:  slog.New(h).With("component", name, "id", id),
	}
}

func (l *Logger) Name() string { return l.name }

func (l *Logger) Debug(msg string) { l.log.Debug(msg) }
func (l *Logger) Info(msg string)  { l.log.Info(msg) }
func (l *Logger) Warn(msg string)  { l.log.Warn(msg) }
func (l *Logger) Error(msg string) { l.log.Error(msg) }
