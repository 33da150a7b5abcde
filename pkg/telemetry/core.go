// Package telemetry implements component J: the public façade that wires
// the Ring Buffer, Signal Registry, Sampler, DSP Kernel, Pattern Detector,
// Adaptive Controller, Aggregator, Processing Loop, and Event Bus into the
// single in-process contract described in §4.J.
package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/signalforge/telemetry/pkg/aggregate"
	"github.com/signalforge/telemetry/pkg/control"
	"github.com/signalforge/telemetry/pkg/dsp"
	"github.com/signalforge/telemetry/pkg/eventbus"
	"github.com/signalforge/telemetry/pkg/loop"
	"github.com/signalforge/telemetry/pkg/pattern"
	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/sampler"
	"github.com/signalforge/telemetry/pkg/signal"
)

// Config configures a Core instance.
type Config struct {
	Logger     *zap.Logger
	Registerer prometheus.Registerer // nil uses prometheus.DefaultRegisterer
	LoopConfig loop.Config
}

// Core is the façade composing components A-I (§4.J). Construct with
// NewCore; start the background processing loop with Run.
type Core struct {
	log *zap.Logger

	registry    *signal.Registry
	sampler     *sampler.Sampler
	agg         *aggregate.Aggregator
	bus         *eventbus.Bus
	loop        *loop.Loop
	metrics     *Metrics
	patternOpts pattern.Options

	controlMu  sync.Mutex
	thresholds map[string]*control.ThresholdController
	scalers    map[string]*control.AutoScaler
}

// NewCore composes a new Core instance, wiring the event bus as the
// registry's Notifier and the metrics hooks into the processing loop.
func NewCore(cfg Config) *Core {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	bus := eventbus.New(log)
	registry := signal.NewRegistry(bus)
	smp := sampler.New(registry)
	agg := aggregate.New(registry, smp)
	metrics := NewMetrics(cfg.Registerer)
	l := loop.New(registry, agg, bus, log, cfg.LoopConfig)

	c := &Core{
		log:         log,
		registry:    registry,
		sampler:     smp,
		agg:         agg,
		bus:         bus,
		loop:        l,
		metrics:     metrics,
		patternOpts: cfg.LoopConfig.Options,
		thresholds:  make(map[string]*control.ThresholdController),
		scalers:     make(map[string]*control.AutoScaler),
	}

	l.OnAnalysisComplete = func(id string, mode signal.Mode) {
		metrics.AnalysesComplete.WithLabelValues(id, mode.String()).Inc()
	}
	l.OnAnomalies = func(id string, count int) {
		metrics.AnomaliesFound.WithLabelValues(id).Add(float64(count))
	}
	l.OnOverrun = func(id string) {
		metrics.LoopOverruns.WithLabelValues(id).Inc()
	}

	return c
}

// Run starts the background processing loop; it blocks until ctx is
// cancelled (§4.H).
func (c *Core) Run(ctx context.Context) error {
	return c.loop.Run(ctx)
}

// RegisterSignal implements §4.J `register_signal(id, config)`.
func (c *Core) RegisterSignal(id string, cfg signal.Config) error {
	return c.registry.Register(id, cfg)
}

// UnregisterSignal implements §4.J `unregister_signal(id)`. It is
// idempotent, matching Registry.Unregister.
func (c *Core) UnregisterSignal(id string) {
	c.registry.Unregister(id)
	c.controlMu.Lock()
	delete(c.thresholds, id)
	delete(c.scalers, id)
	c.controlMu.Unlock()
}

// SampleSignal implements §4.J `sample_signal(id, value, metadata?)`,
// recording per-signal ingestion metrics alongside the Sampler's own
// internal counters.
func (c *Core) SampleSignal(id string, value float64, metadata map[string]any) sampler.Outcome {
	outcome := c.sampler.Sample(id, value, metadata)
	switch outcome {
	case sampler.Accepted:
		c.metrics.SamplesAccepted.WithLabelValues(id).Inc()
	case sampler.DroppedUnknownSignal:
		c.metrics.SamplesDropped.WithLabelValues(id, "unknown_signal").Inc()
	case sampler.DroppedDerived:
		c.metrics.SamplesDropped.WithLabelValues(id, "derived").Inc()
	case sampler.DroppedOutOfOrder:
		c.metrics.SamplesDropped.WithLabelValues(id, "out_of_order").Inc()
	}
	return outcome
}

// SampleSignalAt is SampleSignal with an explicit ingest timestamp, used by
// tests and replay tooling (mirrors sampler.Sampler.SampleAt).
func (c *Core) SampleSignalAt(id string, value float64, metadata map[string]any, timestampUs int64) sampler.Outcome {
	outcome := c.sampler.SampleAt(id, value, metadata, timestampUs)
	switch outcome {
	case sampler.Accepted:
		c.metrics.SamplesAccepted.WithLabelValues(id).Inc()
	case sampler.DroppedUnknownSignal:
		c.metrics.SamplesDropped.WithLabelValues(id, "unknown_signal").Inc()
	case sampler.DroppedDerived:
		c.metrics.SamplesDropped.WithLabelValues(id, "derived").Inc()
	case sampler.DroppedOutOfOrder:
		c.metrics.SamplesDropped.WithLabelValues(id, "out_of_order").Inc()
	}
	return outcome
}

// GetSignalData implements §4.J `get_signal_data(id, options)`. options is
// currently just a result-size cap: 0 returns the whole buffer.
func (c *Core) GetSignalData(id string, limit int) (SignalData, error) {
	sig, err := c.registry.Get(id)
	if err != nil {
		return SignalData{}, err
	}

	samples := sig.Buffer.Snapshot()
	if limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}

	data := SignalData{Samples: samples, Count: len(samples)}
	if len(samples) > 0 {
		data.StartUs = samples[0].TimestampUs
		data.EndUs = samples[len(samples)-1].TimestampUs
		data.HaveRange = true
	}
	return data, nil
}

// AnalyzeWaveform implements §4.J `analyze_waveform(id, mode)`.
func (c *Core) AnalyzeWaveform(id string, mode signal.Mode) (pattern.Result, error) {
	sig, err := c.registry.Get(id)
	if err != nil {
		return pattern.Result{}, err
	}
	samples := sig.Buffer.Snapshot()
	res := pattern.Analyze(samples, mode, c.patternOpts)
	if res.Status == pattern.StatusInsufficientData {
		return res, ErrInsufficientData
	}
	return res, nil
}

// ApplyFilter implements §4.J `apply_filter(id, filter_type, params)`. Per
// §3, filters are applied at analysis time, never mutating the stored raw
// samples.
func (c *Core) ApplyFilter(id string, filterType signal.FilterType, params map[string]float64) (FilteredSeries, error) {
	sig, err := c.registry.Get(id)
	if err != nil {
		return FilteredSeries{}, err
	}
	samples := sig.Buffer.Snapshot()
	values := values(samples)
	timestamps := make([]int64, len(samples))
	for i, s := range samples {
		timestamps[i] = s.TimestampUs
	}

	var out []float64
	switch filterType {
	case signal.FilterMovingAverage:
		out = dsp.MovingAverage(values, int(params["window"]))
	case signal.FilterLowPass:
		out = dsp.LowPass(values, params["cutoff"])
	case signal.FilterHighPass:
		out = dsp.HighPass(values, params["cutoff"])
	case signal.FilterBandPass:
		out = dsp.BandPass(values, params["low_cutoff"], params["high_cutoff"])
	case signal.FilterButterworth:
		order := int(params["order"])
		if order == 0 {
			order = 4
		}
		coeffs := dsp.DesignButterworthLowPass(order, params["cutoff"])
		out = dsp.Apply(coeffs, values)
	case signal.FilterKalman:
		q, r := params["q"], params["r"]
		if q == 0 {
			q = 0.01
		}
		if r == 0 {
			r = 1
		}
		var seed float64
		if len(values) > 0 {
			seed = values[0]
		}
		k := dsp.NewKalman(seed, 1, q, r, 0, 0)
		out = k.FilterSeries(values)
	case signal.FilterLMS:
		taps := int(params["taps"])
		if taps == 0 {
			taps = 5
		}
		mu := params["mu"]
		if mu == 0 {
			mu = 0.01
		}
		lms := dsp.NewLMS(taps, mu, false)
		out, _ = lms.FilterSeries(values)
	default:
		return FilteredSeries{}, fmt.Errorf("%w: unknown filter type %v", ErrInvalidConfig, filterType)
	}

	return FilteredSeries{Values: out, Timestamps: timestamps}, nil
}

// Correlate implements §4.J `correlate(id_a, id_b)`: Pearson correlation
// plus a cross-correlation sweep over ±20 lags, reporting the lag of peak
// magnitude.
func (c *Core) Correlate(idA, idB string) (CorrelationResult, error) {
	sigA, err := c.registry.Get(idA)
	if err != nil {
		return CorrelationResult{}, err
	}
	sigB, err := c.registry.Get(idB)
	if err != nil {
		return CorrelationResult{}, err
	}

	a := values(sigA.Buffer.Snapshot())
	b := values(sigB.Buffer.Snapshot())

	const maxLag = 20
	cross := dsp.CrossCorrelation(a, b, maxLag, true)
	lags := make([]int, len(cross))
	bestIdx, bestVal := 0, 0.0
	for i := range cross {
		lag := i - maxLag
		lags[i] = lag
		if i == 0 || abs(cross[i]) > abs(bestVal) {
			bestIdx, bestVal = i, cross[i]
		}
	}

	return CorrelationResult{
		Pearson:     pearson(a, b),
		CrossLags:   lags,
		CrossValues: cross,
		BestLag:     lags[bestIdx],
		BestValue:   bestVal,
	}, nil
}

// CreateAggregation implements §4.J `create_aggregation(spec)`.
func (c *Core) CreateAggregation(spec aggregate.PipelineSpec) (string, error) {
	return c.agg.CreateAggregation(spec)
}

// CreateThreshold implements §4.J `create_threshold(id, config)`.
func (c *Core) CreateThreshold(id string, cfg control.ThresholdConfig) error {
	ctrl, err := control.NewThresholdController(cfg)
	if err != nil {
		return err
	}
	c.controlMu.Lock()
	c.thresholds[id] = ctrl
	c.controlMu.Unlock()
	return nil
}

// CreateScaler implements §4.J `create_scaler(id, config)`.
func (c *Core) CreateScaler(id string, cfg control.ScalerConfig) error {
	sc, err := control.NewAutoScaler(cfg)
	if err != nil {
		return err
	}
	c.controlMu.Lock()
	c.scalers[id] = sc
	c.controlMu.Unlock()
	return nil
}

// ApplyControl implements §4.J `apply_control(id, value)`.
func (c *Core) ApplyControl(id string, value float64) (control.Outcome, error) {
	c.controlMu.Lock()
	ctrl, ok := c.thresholds[id]
	c.controlMu.Unlock()
	if !ok {
		return control.Outcome{}, fmt.Errorf("%w: no threshold controller for %s", ErrNotFound, id)
	}
	return ctrl.ApplyControl(value), nil
}

// UpdateAdaptation implements §4.J `update_adaptation(id, feedback)`,
// folding feedback into both the signal's threshold controller (if any)
// and its auto-scaler (if any).
func (c *Core) UpdateAdaptation(id string, fb control.Feedback) error {
	c.controlMu.Lock()
	ctrl, haveCtrl := c.thresholds[id]
	sc, haveScaler := c.scalers[id]
	c.controlMu.Unlock()

	if !haveCtrl && !haveScaler {
		return fmt.Errorf("%w: no controller or scaler for %s", ErrNotFound, id)
	}
	if haveCtrl {
		ctrl.UpdateAdaptation(fb)
	}
	if haveScaler {
		sc.UpdateAdaptation(fb.Value)
	}
	return nil
}

// Subscribe implements §4.J `subscribe(topic) -> SubscriptionHandle`.
func (c *Core) Subscribe(topic string) (SubscriptionHandle, <-chan eventbus.Event) {
	h, ch := c.bus.Subscribe(topic)
	return SubscriptionHandle{Topic: topic, handle: h}, ch
}

// Unsubscribe implements §4.J `unsubscribe(handle)`.
func (c *Core) Unsubscribe(h SubscriptionHandle) {
	c.bus.Unsubscribe(h.handle)
}

func values(samples []ringbuffer.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func pearson(a, b []float64) float64 {
	cross := dsp.CrossCorrelation(a, b, 0, true)
	if len(cross) == 0 {
		return 0
	}
	return cross[0]
}
