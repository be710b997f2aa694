package config

import (
	"context"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

func InitLogger(level, format string) {
	Logger.SetOutput(os.Stdout)

	if format == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Logger.WithError(err).Warnf("Unknown log level %q, falling back to info", level)
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)
}

type userKey struct{}

// WithUser tags every entry produced by WithContext(ctx) with the user id.
func WithUser(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(Logger)
	if ctx == nil {
		return entry
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	if userID, ok := ctx.Value(userKey{}).(uint); ok {
		entry = entry.WithField("user_id", userID)
	}
	return entry
}
