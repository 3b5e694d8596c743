package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smazurov/bbled/internal/events"
)

// LEDCollector turns LED bus events into metrics.
type LEDCollector struct {
	changes      *prometheus.CounterVec
	pattern      *prometheus.GaugeVec
	profileLEDs  *prometheus.GaugeVec
	profileTotal prometheus.Counter
}

// NewLEDCollector registers the LED state metrics with reg.
func NewLEDCollector(reg prometheus.Registerer) *LEDCollector {
	factory := promauto.With(reg)
	return &LEDCollector{
		changes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "led",
			Name:      "state_changes_total",
			Help:      "Applied LED state changes by LED and source",
		}, []string{"led", "source"}),
		pattern: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "led",
			Name:      "pattern",
			Help:      "1 for the pattern last applied to each LED",
		}, []string{"led", "pattern"}),
		profileLEDs: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "profile",
			Name:      "leds",
			Help:      "LEDs of the last applied profile by outcome",
		}, []string{"result"}),
		profileTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "profile",
			Name:      "applied_total",
			Help:      "Profiles applied",
		}),
	}
}

// Subscribe starts recording bus events. The returned function stops it.
func (c *LEDCollector) Subscribe(bus *events.Bus) func() {
	unsubChanged := bus.Subscribe(c.recordStateChanged)
	unsubApplied := bus.Subscribe(c.recordProfileApplied)
	return func() {
		unsubChanged()
		unsubApplied()
	}
}

func (c *LEDCollector) recordStateChanged(e events.LEDStateChangedEvent) {
	c.changes.WithLabelValues(e.LED, e.Source).Inc()
	c.pattern.DeletePartialMatch(prometheus.Labels{"led": e.LED})
	c.pattern.WithLabelValues(e.LED, e.State.Pattern).Set(1)
}

func (c *LEDCollector) recordProfileApplied(e events.ProfileAppliedEvent) {
	c.profileTotal.Inc()
	c.profileLEDs.WithLabelValues("applied").Set(float64(len(e.Applied)))
	c.profileLEDs.WithLabelValues("failed").Set(float64(len(e.Failed)))
}
