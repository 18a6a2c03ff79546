package logger

import (
	"io"

	"github.com/jasperdg/bsc-seedify-pm/internal/config"
	"github.com/sirupsen/logrus"
)

const appName = "pricefeed"

// Configure applies cfg to l and directs its output to out. The CLI points
// it at stderr so that stdout only ever carries the reported result.
func Configure(l *logrus.Logger, cfg config.LoggingConfig, out io.Writer) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		l.Warnf("Invalid log level %s, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "time",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
		})
	}

	l.SetOutput(out)
}

// WithFeed returns an entry of l tagged with the feed identifier.
// A nil l uses the standard logger.
func WithFeed(l logrus.FieldLogger, feed string) *logrus.Entry {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return l.WithFields(logrus.Fields{
		"feed": feed,
		"app":  appName,
	})
}
