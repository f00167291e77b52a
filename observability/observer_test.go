package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/delaneyj/servable/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// levels map onto slog levels
func TestLevelMapping(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, observability.LevelVerbose.SlogLevel())
	assert.Equal(t, slog.LevelInfo, observability.LevelInfo.SlogLevel())
	assert.Equal(t, slog.LevelWarn, observability.LevelWarning.SlogLevel())
	assert.Equal(t, slog.LevelError, observability.LevelError.SlogLevel())
	assert.Equal(t, "WARN", observability.LevelWarning.String())
}

// the slog observer writes message, type and data
func TestSlogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	obs := observability.NewSlogObserver(logger)

	observability.Emit(context.Background(), obs, observability.Event{
		Type:    observability.EventResolutionFailure,
		Level:   observability.LevelWarning,
		Source:  "test",
		Message: "member not found",
		Data:    map[string]any{"member": "Score"},
	})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="member not found"`)
	assert.Contains(t, out, "member=Score")
	assert.Contains(t, out, "event=binding.resolution_failure")
}

// multi observer fans out and skips nil observers
func TestMultiObserver(t *testing.T) {
	a, b := &observability.Recorder{}, &observability.Recorder{}
	multi := observability.NewMultiObserver(a, nil, b, observability.NoOpObserver{})

	observability.Emit(context.Background(), multi, observability.Event{Type: observability.EventRegistered})
	assert.Equal(t, 1, a.Count(observability.EventRegistered))
	assert.Equal(t, 1, b.Count(observability.EventRegistered))
	assert.False(t, a.Events[0].Timestamp.IsZero())
}

// the prometheus observer counts events by type and level
func TestPrometheusObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := observability.NewPrometheusObserver(reg)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		obs.OnEvent(ctx, observability.Event{Type: observability.EventRegistered, Level: observability.LevelVerbose})
	}
	obs.OnEvent(ctx, observability.Event{Type: observability.EventConfigError, Level: observability.LevelError})

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "servable_events_total", families[0].GetName())
	require.Len(t, families[0].GetMetric(), 2)
	total := 0.0
	for _, m := range families[0].GetMetric() {
		total += m.GetCounter().GetValue()
	}
	assert.Equal(t, 4.0, total)

	_, err = observability.NewPrometheusObserver(reg)
	assert.Error(t, err, "second registration collides")
}

// SetDefault swaps the observer used for nil targets
func TestSetDefault(t *testing.T) {
	rec := &observability.Recorder{}
	observability.SetDefault(rec)
	t.Cleanup(func() { observability.SetDefault(nil) })

	observability.Emit(context.Background(), nil, observability.Event{Type: observability.EventLifecycle})
	assert.Equal(t, 1, rec.Count(observability.EventLifecycle))
}

// Reporter turns errors into events and ignores nil
func TestReporter(t *testing.T) {
	rec := &observability.Recorder{}
	report := observability.Reporter(rec, observability.EventListenerFailure, "observable")
	report(nil)
	report(assert.AnError)
	require.Len(t, rec.Events, 1)
	e := rec.Events[0]
	assert.Equal(t, observability.EventListenerFailure, e.Type)
	assert.Equal(t, observability.LevelError, e.Level)
	assert.Equal(t, "observable", e.Source)
	assert.Equal(t, assert.AnError, e.Data["error"])
	assert.False(t, e.Timestamp.IsZero())
}
