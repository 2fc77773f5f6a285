package session

import "go.uber.org/zap"

// Notifier shows a blocking message about a failed operation.
type Notifier interface {
	Notify(title string, err error)
}

// LogNotifier records notifications at debug level. The CLI uses it
// because it prints the returned error itself.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Notify(title string, err error) {
	if n.Log == nil {
		return
	}
	n.Log.Debug(title, zap.Error(err))
}
