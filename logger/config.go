package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joeshaw/envdecode"
)

type Conf struct {
	LogDir string `env:"TOOLCALLS_LOG_DIR"`
	Level  string `env:"TOOLCALLS_LOG_LEVEL,default=info"`
}

func LogConfig() *Conf {
	configs := &Conf{Level: "info"}
	if err := envdecode.Decode(configs); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		fmt.Fprintf(os.Stderr, "failed to decode log config: %s\n", err)
	}
	return configs
}

// parseLevel maps a config level name onto slog. Unknown names mean info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	outputOnce sync.Once
	output     io.Writer = os.Stderr
	level      slog.Level
)

// sharedOutput opens the log file the first time any logger writes.
func sharedOutput() (io.Writer, slog.Level) {
	outputOnce.Do(func() {
		cfg := LogConfig()
		level = parseLevel(cfg.Level)
		if cfg.LogDir == "" {
			return
		}
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log dir %s: %s\n", cfg.LogDir, err)
			return
		}
		f, err := os.OpenFile(filepath.Join(cfg.LogDir, "toolcalls.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %s\n", err)
			return
		}
		output = f
	})
	return output, level
}
