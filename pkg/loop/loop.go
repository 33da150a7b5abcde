// Package loop implements component H: the cooperative processing loop that
// periodically analyzes every registered signal and executes active
// aggregation pipelines. It is grounded on the ticker + errgroup worker pool
// pattern yanet2's pdump control plane uses to drain a ring buffer into protobuf records
// (modules/pdump/controlplane/ring.go's spawnWakers/runReaders), generalized
// from packet records to per-signal analysis work items.
package loop

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/signalforge/telemetry/pkg/aggregate"
	"github.com/signalforge/telemetry/pkg/eventbus"
	"github.com/signalforge/telemetry/pkg/pattern"
	"github.com/signalforge/telemetry/pkg/signal"
)

// DefaultPeriod is the scheduler tick interval (§4.H: "on a timer (default
// every 100 ms)").
const DefaultPeriod = 100 * time.Millisecond

// DefaultMaxConcurrent bounds the per-tick worker pool width.
const DefaultMaxConcurrent = 8

// Config configures the Loop.
type Config struct {
	Period        time.Duration // defaults to DefaultPeriod if zero
	MaxConcurrent int64         // worker pool width; defaults to DefaultMaxConcurrent if zero
	Options       pattern.Options
}

func (c Config) period() time.Duration {
	if c.Period <= 0 {
		return DefaultPeriod
	}
	return c.Period
}

func (c Config) maxConcurrent() int64 {
	if c.MaxConcurrent <= 0 {
		return DefaultMaxConcurrent
	}
	return c.MaxConcurrent
}

// Loop is the single cooperative scheduler component (§4.H, §5). Each tick
// it iterates registered signals under a bounded worker pool; a per-signal
// lease (the inFlight set) enforces that at most one worker analyzes a
// given signal at a time and throttles an overrunning signal by skipping it
// for the current tick instead of queuing duplicate work (§5 Resource
// bounds: "skip an analysis for a signal in the current tick if its prior
// analysis has not completed").
type Loop struct {
	registry *signal.Registry
	agg      *aggregate.Aggregator
	bus      *eventbus.Bus
	log      *zap.Logger
	cfg      Config

	sem *semaphore.Weighted

	inFlightMu sync.Mutex
	inFlight   map[string]struct{}

	overruns          atomic.Uint64
	analysesCompleted atomic.Uint64
	anomaliesDetected atomic.Uint64

	// Hooks, if set, are invoked synchronously as each event occurs — the
	// metrics-wiring point for callers (e.g. pkg/telemetry) that need
	// per-signal label granularity the aggregate Counters() snapshot
	// doesn't carry.
	OnAnalysisComplete func(signalID string, mode signal.Mode)
	OnAnomalies        func(signalID string, count int)
	OnOverrun          func(signalID string)
}

// New creates a Loop bound to registry, aggregator, and event bus. A nil
// logger is replaced with zap.NewNop().
func New(registry *signal.Registry, agg *aggregate.Aggregator, bus *eventbus.Bus, log *zap.Logger, cfg Config) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		registry: registry,
		agg:      agg,
		bus:      bus,
		log:      log,
		cfg:      cfg,
		sem:      semaphore.NewWeighted(cfg.maxConcurrent()),
		inFlight: make(map[string]struct{}),
	}
}

// Run ticks every cfg.Period until ctx is cancelled, running one
// errgroup-bounded analysis pass per tick. It does not return an error on
// ctx cancellation — that is the normal shutdown path.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.period())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

// tick runs exactly one analysis pass: every registered signal is analyzed
// (subject to the per-signal lease) and every active pipeline is executed.
// It never propagates a single signal's or pipeline's error — pipeline
// errors are logged, matching §7's "analysis/control errors are reported
// per-signal and never abort the loop".
func (l *Loop) tick(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)

	for _, id := range l.registry.Ids() {
		id := id
		if !l.acquireLease(id) {
			l.overruns.Inc()
			if l.OnOverrun != nil {
				l.OnOverrun(id)
			}
			continue
		}

		if err := l.sem.Acquire(gctx, 1); err != nil {
			l.releaseLease(id)
			continue
		}

		g.Go(func() error {
			defer l.sem.Release(1)
			defer l.releaseLease(id)
			l.analyzeSignal(id)
			return nil
		})
	}
	_ = g.Wait()

	for _, pipelineID := range l.agg.Pipelines() {
		if err := l.agg.Execute(pipelineID); err != nil {
			l.log.Warn("aggregation pipeline execution failed",
				zap.String("pipeline_id", pipelineID), zap.Error(err))
		}
	}
}

// acquireLease attempts to take the per-signal lease, returning false if
// the signal's previous analysis is still in flight (§5 throttling policy).
func (l *Loop) acquireLease(id string) bool {
	l.inFlightMu.Lock()
	defer l.inFlightMu.Unlock()
	if _, busy := l.inFlight[id]; busy {
		return false
	}
	l.inFlight[id] = struct{}{}
	return true
}

func (l *Loop) releaseLease(id string) {
	l.inFlightMu.Lock()
	delete(l.inFlight, id)
	l.inFlightMu.Unlock()
}

// analyzeSignal computes every enabled analysis mode for one signal from a
// fresh snapshot, caches the result, and publishes an analysis event
// (§4.H steps 1-3). A signal already in StateError is skipped (§7).
func (l *Loop) analyzeSignal(id string) {
	sig, err := l.registry.Get(id)
	if err != nil {
		return // unregistered mid-tick; nothing to do
	}
	if st, _ := sig.State(); st == signal.StateError {
		return
	}

	cfg := sig.Config()
	samples := sig.Buffer.Snapshot()

	for mode := signal.ModeBasic; mode <= signal.ModeFractal; mode++ {
		if !cfg.HasMode(mode) {
			continue
		}

		result := pattern.Analyze(samples, mode, l.cfg.Options)
		now := time.Now()
		sig.SetLastAnalysis(mode, result, now)
		l.analysesCompleted.Inc()
		if l.OnAnalysisComplete != nil {
			l.OnAnalysisComplete(id, mode)
		}

		l.bus.Publish(eventbus.AnalysisTopic(id, mode.String()), id, result)

		if mode == signal.ModeAnomaly && result.Anomaly != nil && len(result.Anomaly.Points) > 0 {
			l.anomaliesDetected.Add(uint64(len(result.Anomaly.Points)))
			if l.OnAnomalies != nil {
				l.OnAnomalies(id, len(result.Anomaly.Points))
			}
			l.bus.Publish(eventbus.AnomalyTopic(id), id, result.Anomaly)
		}
	}
}

// Counters returns a snapshot of the loop's own metrics (§6: loop_overruns,
// analyses_completed, anomalies_detected).
func (l *Loop) Counters() (overruns, analysesCompleted, anomaliesDetected uint64) {
	return l.overruns.Load(), l.analysesCompleted.Load(), l.anomaliesDetected.Load()
}
