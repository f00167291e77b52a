package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver counts events by type and level.
type PrometheusObserver struct {
	events *prometheus.CounterVec
}

// NewPrometheusObserver registers its collector with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func NewPrometheusObserver(reg prometheus.Registerer) (*PrometheusObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "servable",
		Name:      "events_total",
		Help:      "Binding, observable and storage events by type and level.",
	}, []string{"type", "level"})
	if err := reg.Register(events); err != nil {
		return nil, err
	}
	return &PrometheusObserver{events: events}, nil
}

func (p *PrometheusObserver) OnEvent(_ context.Context, event Event) {
	p.events.WithLabelValues(string(event.Type), event.Level.String()).Inc()
}
