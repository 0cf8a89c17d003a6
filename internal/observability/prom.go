package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "eventdesk"

type Prom struct {
	// reservations
	ReservationsTotal *prometheus.CounterVec

	// persistence file
	StoreOpDuration   *prometheus.HistogramVec
	StoreErrorsTotal  *prometheus.CounterVec
	LinesSkippedTotal prometheus.Counter

	CatalogEvents prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewProm registers every collector on reg. reg is usually a fresh
// prometheus.NewRegistry(); when it also implements prometheus.Gatherer,
// WriteTextfile can dump it.
func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reservations_total",
				Help:      "Reserve and cancel attempts by outcome.",
			},
			[]string{"op", "result"}, // op=reserve|cancel, result=ok|invalid_count|insufficient|not_found
		),
		StoreOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "op_duration_seconds",
				Help:      "Persistence file load/save latency.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"op", "status"},
		),
		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Persistence file errors by op and class.",
			},
			[]string{"op", "class"},
		),
		LinesSkippedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "lines_skipped_total",
				Help:      "Malformed lines ignored while loading.",
			},
		),
		CatalogEvents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "events",
				Help:      "Events currently held in memory.",
			},
		),
	}
	reg.MustRegister(p.ReservationsTotal, p.StoreOpDuration, p.StoreErrorsTotal, p.LinesSkippedTotal, p.CatalogEvents)

	if g, ok := reg.(prometheus.Gatherer); ok {
		p.gatherer = g
	}

	return p
}

// ErrNoGatherer is returned by WriteTextfile when the registerer given to
// NewProm cannot be gathered.
var ErrNoGatherer = errors.New("metrics registerer cannot be gathered")

// WriteTextfile dumps the registry in the node_exporter textfile collector format.
func (p *Prom) WriteTextfile(path string) error {
	if p.gatherer == nil {
		return ErrNoGatherer
	}

	return prometheus.WriteToTextfile(path, p.gatherer)
}
