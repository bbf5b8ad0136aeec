package dispatcher

import (
	"context"

	"github.com/muni-rrhh/dashboard/internal/domain/event"
)

// Flusher drops every cached entry
type Flusher interface {
	Flush()
}

// FlushOn returns a handler that empties the cache whatever the event
func FlushOn(cache Flusher) Handler {
	return func(ctx context.Context, evt *event.Event) error {
		cache.Flush()
		return nil
	}
}

// LogActivity returns a handler that records each event as an activity line
func LogActivity(logger Logger) Handler {
	return func(ctx context.Context, evt *event.Event) error {
		logger.Info("Dashboard activity", evt.Fields()...)
		return nil
	}
}

// RegisterDefaults wires the dashboard subscribers: analytics caches are
// invalidated when the grid changes and every event is logged.
func RegisterDefaults(d Dispatcher, cache Flusher, activity Logger) {
	d.Subscribe(event.TypeCasesChanged, "analytics-cache", FlushOn(cache))
	for _, t := range []event.Type{event.TypeCasesChanged, event.TypeReconciliationCompleted} {
		d.Subscribe(t, "activity-log", LogActivity(activity))
	}
}
