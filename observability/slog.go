package observability

import (
	"context"
	"log/slog"
)

// SlogObserver logs events. The event message (or type, when empty) becomes
// the log message and Data keys become attributes.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver logs to logger, or to slog.Default() at emission time when
// logger is nil.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := make([]slog.Attr, 0, len(event.Data)+2)
	attrs = append(attrs, slog.String("event", string(event.Type)), slog.String("source", event.Source))
	for k, v := range event.Data {
		attrs = append(attrs, slog.Any(k, v))
	}
	msg := event.Message
	if msg == "" {
		msg = string(event.Type)
	}
	logger.LogAttrs(ctx, event.Level.SlogLevel(), msg, attrs...)
}

type MultiObserver struct {
	observers []Observer
}

func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}

// Recorder keeps every event in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) OnEvent(_ context.Context, event Event) {
	r.Events = append(r.Events, event)
}

// Count returns how many recorded events have type t.
func (r *Recorder) Count(t EventType) int {
	n := 0
	for _, e := range r.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}
