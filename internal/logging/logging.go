package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type contextKey struct{}

// New builds the process logger. Unknown levels fall back to info and any
// format other than "text" produces JSON lines.
func New(level, format string) *logrus.Logger {
	return NewWithOutput(os.Stdout, level, format)
}

func NewWithOutput(out io.Writer, level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if strings.EqualFold(format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}

// ContextWithLogger returns a derived context that carries the provided entry.
func ContextWithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	if ctx == nil || entry == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, entry)
}

// FromContext extracts an entry previously attached to the context.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return nil
	}
	entry, _ := ctx.Value(contextKey{}).(*logrus.Entry)
	return entry
}

// Entry prefers the request scoped entry and falls back to base, then to the
// logrus standard logger.
func Entry(ctx context.Context, base *logrus.Logger) *logrus.Entry {
	if entry := FromContext(ctx); entry != nil {
		return entry
	}
	if base != nil {
		return logrus.NewEntry(base)
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
