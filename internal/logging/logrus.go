package logging

import "github.com/sirupsen/logrus"

type logrusLogger struct {
	entry *logrus.Entry
}

// FromLogrus wraps a logrus.Entry as an Interface.
func FromLogrus(entry *logrus.Entry) Interface {
	return logrusLogger{entry: entry}
}

// NewLogrus builds a default logrus-backed logger at the given level.
func NewLogrus(level logrus.Level) Interface {
	l := logrus.New()
	l.SetLevel(level)
	return logrusLogger{entry: logrus.NewEntry(l)}
}

func (l logrusLogger) WithField(key string, value interface{}) Interface {
	return logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l logrusLogger) WithError(err error) Interface {
	return logrusLogger{entry: l.entry.WithError(err)}
}

func (l logrusLogger) Debug(msg string) { l.entry.Debug(msg) }
func (l logrusLogger) Info(msg string)  { l.entry.Info(msg) }
func (l logrusLogger) Warn(msg string)  { l.entry.Warn(msg) }
func (l logrusLogger) Error(msg string) { l.entry.Error(msg) }
