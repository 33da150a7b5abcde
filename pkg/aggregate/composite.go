package aggregate

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/sampler"
	"github.com/signalforge/telemetry/pkg/signal"
)

// PipelineSpec describes a composite signal: an aggregation over Inputs,
// re-executed on each processing-loop tick, whose result is pushed back
// into OutputSignalID as derived samples (§4.G "Composite signal
// creation").
type PipelineSpec struct {
	OutputSignalID string
	Inputs         []string
	Type           Type
	Options        Options
}

// Pipeline is a registered, executable composite aggregation.
type Pipeline struct {
	ID   string
	Spec PipelineSpec
}

// Aggregator implements component G: multi-signal alignment, fusion,
// composite pipelines with cycle detection, and time-bucketed reduction.
type Aggregator struct {
	registry *signal.Registry
	sampler  *sampler.Sampler

	pipelines map[string]*Pipeline
	edges     map[string]map[string]struct{} // input signal id -> set of output signal ids
}

// New creates an Aggregator bound to registry and sampler.
func New(registry *signal.Registry, smp *sampler.Sampler) *Aggregator {
	return &Aggregator{
		registry:  registry,
		sampler:   smp,
		pipelines: make(map[string]*Pipeline),
		edges:     make(map[string]map[string]struct{}),
	}
}

// Aggregate implements §4.G `aggregate(signal_ids, type, options)` as a
// one-shot, stateless computation over a snapshot of the given signals.
func (a *Aggregator) Aggregate(signalIDs []string, t Type, opts Options) (Result, error) {
	if len(signalIDs) == 0 {
		return Result{}, ErrInvalidSpec
	}
	snapshots, err := a.snapshot(signalIDs)
	if err != nil {
		return Result{}, err
	}

	switch t {
	case TypeStatistical:
		res, err := computeStatistical(snapshots)
		if err != nil {
			return Result{}, err
		}
		return Result{Type: t, Statistical: res}, nil
	case TypeWeighted:
		res, err := computeWeighted(snapshots, opts.Weights)
		if err != nil {
			return Result{}, err
		}
		return Result{Type: t, Weighted: res}, nil
	case TypeFusion:
		res, err := computeFusion(snapshots, opts.Fusion)
		if err != nil {
			return Result{}, err
		}
		return Result{Type: t, Fusion: res}, nil
	case TypeCorrelationMatrix:
		res, err := computeCorrelationMatrix(snapshots, opts.TopComponents)
		if err != nil {
			return Result{}, err
		}
		return Result{Type: t, CorrelationMatrix: res}, nil
	default:
		return Result{}, ErrInvalidSpec
	}
}

func (a *Aggregator) snapshot(signalIDs []string) (map[string][]ringbuffer.Sample, error) {
	out := make(map[string][]ringbuffer.Sample, len(signalIDs))
	for _, id := range signalIDs {
		sig, err := a.registry.Get(id)
		if err != nil {
			return nil, err
		}
		out[id] = sig.Buffer.Snapshot()
	}
	return out, nil
}

// CreateAggregation registers a composite pipeline, performing cycle
// detection over the pipeline graph before any state is mutated (§4.G,
// §8 "Cycle rejection"). Node set = signal ids; edges = input -> output
// across every already-registered pipeline plus the candidate.
func (a *Aggregator) CreateAggregation(spec PipelineSpec) (string, error) {
	if spec.OutputSignalID == "" || len(spec.Inputs) == 0 {
		return "", ErrInvalidSpec
	}
	for _, in := range spec.Inputs {
		if in == spec.OutputSignalID {
			return "", ErrCycle
		}
	}

	if a.wouldCycle(spec) {
		return "", ErrCycle
	}

	id := uuid.NewString()
	a.pipelines[id] = &Pipeline{ID: id, Spec: spec}
	for _, in := range spec.Inputs {
		if a.edges[in] == nil {
			a.edges[in] = make(map[string]struct{})
		}
		a.edges[in][spec.OutputSignalID] = struct{}{}
	}
	return id, nil
}

// wouldCycle reports whether adding spec's edges to the existing pipeline
// graph would create a cycle, via DFS from every node of the trial graph.
func (a *Aggregator) wouldCycle(spec PipelineSpec) bool {
	// Build the trial edge set without mutating a.edges.
	trial := make(map[string]map[string]struct{}, len(a.edges)+1)
	for from, tos := range a.edges {
		copySet := make(map[string]struct{}, len(tos))
		for to := range tos {
			copySet[to] = struct{}{}
		}
		trial[from] = copySet
	}
	for _, in := range spec.Inputs {
		if trial[in] == nil {
			trial[in] = make(map[string]struct{})
		}
		trial[in][spec.OutputSignalID] = struct{}{}
	}

	visited := make(map[string]int) // 0=unvisited, 1=in-progress, 2=done
	var dfs func(node string) bool
	dfs = func(node string) bool {
		switch visited[node] {
		case 1:
			return true // back-edge: cycle
		case 2:
			return false
		}
		visited[node] = 1
		for next := range trial[node] {
			if dfs(next) {
				return true
			}
		}
		visited[node] = 2
		return false
	}

	for node := range trial {
		if visited[node] == 0 && dfs(node) {
			return true
		}
	}
	return false
}

// RemovePipeline unregisters a composite pipeline and its graph edges.
func (a *Aggregator) RemovePipeline(id string) error {
	p, ok := a.pipelines[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	for _, in := range p.Spec.Inputs {
		delete(a.edges[in], p.Spec.OutputSignalID)
	}
	delete(a.pipelines, id)
	return nil
}

// Pipelines returns the ids of all registered pipelines, used by the
// Processing Loop to iterate active pipelines each tick (§4.H).
func (a *Aggregator) Pipelines() []string {
	out := make([]string, 0, len(a.pipelines))
	for id := range a.pipelines {
		out = append(out, id)
	}
	return out
}

// Execute runs one registered pipeline's aggregation over its inputs'
// current snapshots and pushes every resulting point back into the output
// signal as a derived sample (§4.G: "output samples are pushed back via
// the Sampler with a derived=true flag").
func (a *Aggregator) Execute(pipelineID string) error {
	p, ok := a.pipelines[pipelineID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, pipelineID)
	}

	res, err := a.Aggregate(p.Spec.Inputs, p.Spec.Type, p.Spec.Options)
	if err != nil {
		return err
	}

	switch p.Spec.Type {
	case TypeWeighted:
		for i, v := range res.Weighted.Values {
			a.sampler.IngestDerived(p.Spec.OutputSignalID, v, res.Weighted.Timestamps[i])
		}
	case TypeFusion:
		for i, v := range res.Fusion.Values {
			a.sampler.IngestDerived(p.Spec.OutputSignalID, v, res.Fusion.Timestamps[i])
		}
	default:
		// Statistical and correlation_matrix aggregations summarize the
		// inputs rather than producing a pushable output stream; they are
		// read directly via Aggregate by callers instead.
	}
	return nil
}
