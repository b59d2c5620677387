package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var Logger *log.Logger

func init() {
	Logger = New(os.Stderr)

	// Set log level from environment variable
	if err := SetLevel(os.Getenv("LOG_LEVEL")); err != nil {
		Logger.SetLevel(log.InfoLevel)
	}
}

// New builds a logger writing to w with the panel's level badges.
func New(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          "yarrbar",
	})
	l.SetStyles(styles())
	return l
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	badge := func(label, color string) lipgloss.Style {
		return lipgloss.NewStyle().
			SetString(label).
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color(color))
	}
	s.Levels[log.DebugLevel] = badge("DEBU", "63")
	s.Levels[log.InfoLevel] = badge("INFO", "86")
	s.Levels[log.WarnLevel] = badge("WARN", "192")
	s.Levels[log.ErrorLevel] = badge("ERRO", "204")
	s.Levels[log.FatalLevel] = badge("FATA", "134")
	s.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	s.Values["err"] = lipgloss.NewStyle().Bold(true)
	return s
}

// SetLevel applies a textual level. An empty string defaults to INFO.
func SetLevel(level string) error {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		Logger.SetLevel(log.DebugLevel)
	case "", "INFO":
		Logger.SetLevel(log.InfoLevel)
	case "WARN", "WARNING":
		Logger.SetLevel(log.WarnLevel)
	case "ERROR":
		Logger.SetLevel(log.ErrorLevel)
	case "FATAL":
		Logger.SetLevel(log.FatalLevel)
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}

// Convenience functions for common operations
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

func Fatal(msg interface{}, keyvals ...interface{}) {
	Logger.Fatal(msg, keyvals...)
}

func Infof(format string, args ...interface{}) {
	Logger.Infof(format, args...)
}

func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	Logger.Errorf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	Logger.Fatalf(format, args...)
}
