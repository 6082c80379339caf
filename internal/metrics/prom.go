package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prom records drag events as Prometheus counters.
type Prom struct {
	started   prometheus.Counter
	committed *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	cancelled prometheus.Counter
}

// NewProm registers the drag counters on reg. If reg is nil, the default
// registerer is used. Collectors that are already registered are reused.
func NewProm(reg prometheus.Registerer) (*Prom, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &Prom{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timegrid_drag_started_total",
			Help: "Drag gestures that passed the activation distance",
		}),
		committed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timegrid_drag_committed_total",
			Help: "Drops applied to the schedule store",
		}, []string{"table"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timegrid_drag_skipped_total",
			Help: "Drops that left the schedule store unchanged",
		}, []string{"reason"}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timegrid_drag_cancelled_total",
			Help: "Drag gestures aborted before the drop",
		}),
	}

	var err error
	if p.started, err = register(reg, p.started); err != nil {
		return nil, err
	}
	if p.committed, err = register(reg, p.committed); err != nil {
		return nil, err
	}
	if p.skipped, err = register(reg, p.skipped); err != nil {
		return nil, err
	}
	if p.cancelled, err = register(reg, p.cancelled); err != nil {
		return nil, err
	}
	return p, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (p *Prom) DragStarted(string) { p.started.Inc() }

func (p *Prom) DragCommitted(tableID string) {
	p.committed.WithLabelValues(tableID).Inc()
}

func (p *Prom) DragSkipped(reason string) {
	p.skipped.WithLabelValues(reason).Inc()
}

func (p *Prom) DragCancelled() { p.cancelled.Inc() }
