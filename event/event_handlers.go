package event

import (
	"github.com/sirupsen/logrus"
)

// EventHandler consumes one change record after its transaction committed.
// A handler that does not care about the record returns nil and leaves no
// trace in the result set.
type EventHandler func(e *EventRecord) *EventHandleResult

type EventHandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

// EventHandlers run in registration order for every committed change.
var EventHandlers []EventHandler

var InvokeHandlersFunc = invokeHandlers

func invokeHandlers(record *EventRecord) []EventHandleResult {
	results := []EventHandleResult{}
	for _, handler := range EventHandlers {
		logrus.Debug("dispatching change record ", record.Event)
		result := handler(record)
		if result == nil {
			continue
		}
		results = append(results, *result)

		if result.Success {
			logrus.Info("change record handled. ", result)
		} else {
			logrus.Error("change record handling failed. ", result)
		}
	}
	return results
}
