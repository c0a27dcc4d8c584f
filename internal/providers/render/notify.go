package render

import (
	"context"

	"go.uber.org/zap"
)

// Level classifies a notification
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a user-facing render diagnostic
type Notification struct {
	Level   Level
	Title   string
	Message string
}

// Notifier receives render diagnostics
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// LogNotifier writes notifications to a zap logger
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by logger
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notification at a level matching its severity
func (l *LogNotifier) Notify(_ context.Context, n Notification) {
	fields := []zap.Field{zap.String("title", n.Title), zap.String("message", n.Message)}
	switch n.Level {
	case LevelError:
		l.logger.Error("render notification", fields...)
	case LevelWarning:
		l.logger.Warn("render notification", fields...)
	default:
		l.logger.Info("render notification", fields...)
	}
}

func notify(ctx context.Context, n Notifier, level Level, title, message string) {
	if n == nil {
		return
	}
	n.Notify(ctx, Notification{Level: level, Title: title, Message: message})
}
