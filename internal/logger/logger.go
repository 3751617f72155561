package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joshua-takyi/estate/internal/config"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger. Production and file logging use JSON;
// development logs go to the terminal through tint. The returned closer
// flushes the log file and is nil when no file is configured.
func New(cfg *config.Config, stdout io.Writer) (*slog.Logger, io.Closer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	level := ParseLevel(cfg.LogLevel, cfg.IsDevelopment())

	var (
		out    = stdout
		closer io.Closer
	)
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 30,
			MaxAge:     30, // days
			Compress:   true,
			LocalTime:  true,
		}
		out = io.MultiWriter(stdout, file)
		closer = file
	}

	var handler slog.Handler
	if cfg.IsProduction() || cfg.LogFile != "" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    !isTerminal(out),
		})
	}

	return slog.New(handler).With("service", "estate-api"), closer
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// ParseLevel maps LOG_LEVEL to a slog level. An empty value means debug in
// development and info everywhere else.
func ParseLevel(s string, development bool) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if development {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
