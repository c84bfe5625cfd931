// Package logger builds the process-wide zerolog logger from config.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"genebank/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	colorTeal   = "#3ddbd9"
	colorBlue   = "#4589ff"
	colorOrange = "#ff832b"
	colorRed    = "#da1e28"
	colorGray   = "#8d8d8d"
)

// Logger wraps the zerolog logger together with the rotating file it may own.
type Logger struct {
	zerolog.Logger
	file *lumberjack.Logger
}

// New builds a logger writing to out, plus cfg.LogFile when set. Console
// output is used when log_format is "console", or "auto" and out is a terminal.
func New(cfg *config.Config, out io.Writer) (*Logger, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var console io.Writer = out
	if useConsole(cfg.LogFormat, out) {
		console = consoleWriter(out)
	}

	l := &Logger{}
	writers := []io.Writer{console}
	if cfg.LogFile != "" {
		l.file = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   cfg.LogCompress,
		}
		writers = append(writers, l.file)
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	return l, nil
}

// ParseLevel accepts zerolog level names; empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// DebugLevel maps the create command's 0/1 debug switch onto a log level.
func DebugLevel(debug int) string {
	if debug > 0 {
		return zerolog.DebugLevel.String()
	}
	return zerolog.InfoLevel.String()
}

func useConsole(format string, out io.Writer) bool {
	switch strings.ToLower(format) {
	case "console":
		return true
	case "json":
		return false
	}
	f, ok := out.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	gray := lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray))
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
		FormatLevel: func(i any) string {
			lvl := strings.ToLower(fmt.Sprint(i))
			color := colorGray
			switch lvl {
			case "debug":
				color = colorTeal
			case "info":
				color = colorBlue
			case "warn":
				color = colorOrange
			case "error", "fatal", "panic":
				color = colorRed
			}
			tag := strings.ToUpper(lvl)
			if len(tag) > 3 {
				tag = tag[:3]
			}
			return lipgloss.NewStyle().
				Foreground(lipgloss.Color(color)).
				Bold(true).
				Render(tag)
		},
		FormatFieldName: func(i any) string {
			return gray.Render(fmt.Sprint(i) + "=")
		},
	}
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
