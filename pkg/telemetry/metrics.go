package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics publishes the counters named in §6 as a prometheus.Collector set,
// one label per signal id where the spec calls for per-signal granularity.
type Metrics struct {
	SamplesAccepted  *prometheus.CounterVec
	SamplesDropped   *prometheus.CounterVec
	AnalysesComplete *prometheus.CounterVec
	AnomaliesFound   *prometheus.CounterVec
	SubscribersDrop  prometheus.Counter
	LoopOverruns     *prometheus.CounterVec
}

// NewMetrics builds and registers the telemetry metric family on registerer.
// A nil registerer uses prometheus.DefaultRegisterer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		SamplesAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry",
			Name:      "samples_accepted_total",
			Help:      "Samples accepted into a signal's ring buffer.",
		}, []string{"signal_id"}),
		SamplesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry",
			Name:      "samples_dropped_total",
			Help:      "Samples rejected at ingest (unknown signal, derived-signal guard, or out-of-order timestamp).",
		}, []string{"signal_id", "reason"}),
		AnalysesComplete: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry",
			Name:      "analyses_completed_total",
			Help:      "Analyses completed by the processing loop.",
		}, []string{"signal_id", "mode"}),
		AnomaliesFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry",
			Name:      "anomalies_detected_total",
			Help:      "Anomaly points detected by the processing loop.",
		}, []string{"signal_id"}),
		SubscribersDrop: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telemetry",
			Name:      "subscribers_dropped_total",
			Help:      "Event-bus deliveries dropped to subscriber backpressure.",
		}),
		LoopOverruns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry",
			Name:      "loop_overruns_total",
			Help:      "Processing-loop ticks that skipped a signal still in flight from a prior tick.",
		}, []string{"signal_id"}),
	}

	registerer.MustRegister(m.SamplesAccepted, m.SamplesDropped, m.AnalysesComplete,
		m.AnomaliesFound, m.SubscribersDrop, m.LoopOverruns)
	return m
}
