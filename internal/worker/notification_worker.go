package worker

import "go.uber.org/zap"

// Notifier subscribes its handlers to order events.
type Notifier interface {
	RegisterHandlers()
}

// StartNotificationWorker attaches the notifier to the event stream.
func StartNotificationWorker(notifier Notifier, logger *zap.Logger) {
	if notifier == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier.RegisterHandlers()
	logger.Info("notification worker started")
}
