package logging

import "go.uber.org/zap"

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// FromZap wraps a zap.SugaredLogger as an Interface.
func FromZap(sugar *zap.SugaredLogger) Interface {
	return zapLogger{sugar: sugar}
}

func (l zapLogger) WithField(key string, value interface{}) Interface {
	return zapLogger{sugar: l.sugar.With(key, value)}
}

func (l zapLogger) WithError(err error) Interface {
	return zapLogger{sugar: l.sugar.With("error", err)}
}

func (l zapLogger) Debug(msg string) { l.sugar.Debug(msg) }
func (l zapLogger) Info(msg string)  { l.sugar.Info(msg) }
func (l zapLogger) Warn(msg string)  { l.sugar.Warn(msg) }
func (l zapLogger) Error(msg string) { l.sugar.Error(msg) }
