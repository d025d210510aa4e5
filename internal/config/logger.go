package config

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

type loggerKey struct{}

var Log = logrus.New()

func Init(s *Settings) {
	Log.SetOutput(os.Stdout)

	if s.IsDevelopment() {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}

// WithContext returns the request scoped logger, or the base logger
// when the context carries none.
func WithContext(ctx context.Context) logrus.FieldLogger {
	if ctx != nil {
		if entry, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(Log)
}

// ContextWithFields stores a logger enriched with fields in ctx.
func ContextWithFields(ctx context.Context, fields logrus.Fields) context.Context {
	entry, ok := ctx.Value(loggerKey{}).(*logrus.Entry)
	if !ok {
		entry = logrus.NewEntry(Log)
	}
	return context.WithValue(ctx, loggerKey{}, entry.WithFields(fields))
}
