package cart

import "go.uber.org/zap"

// Level classifies a user-facing message.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notifier displays short feedback messages to the shopper.
type Notifier interface {
	Notify(message string, level Level)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, level Level)

func (f NotifierFunc) Notify(message string, level Level) { f(message, level) }

// LogNotifier writes messages to a zap logger. It is the fallback when no UI is attached.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(message string, level Level) {
	if level == LevelError {
		n.Logger.Warn(message, zap.String("type", string(level)))
		return
	}
	n.Logger.Info(message, zap.String("type", string(level)))
}
