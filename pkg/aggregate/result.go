package aggregate

// Type names an aggregation family (§4.G).
type Type int

const (
	TypeStatistical Type = iota
	TypeWeighted
	TypeFusion
	TypeCorrelationMatrix
)

func (t Type) String() string {
	switch t {
	case TypeStatistical:
		return "statistical"
	case TypeWeighted:
		return "weighted"
	case TypeFusion:
		return "fusion"
	case TypeCorrelationMatrix:
		return "correlation_matrix"
	default:
		return "unknown"
	}
}

// FusionMethod names a concrete fusion algorithm (§4.G, §9 open question —
// each variant's formula is fixed by this module, see DESIGN.md).
type FusionMethod int

const (
	FusionSimpleAverage FusionMethod = iota
	FusionKalman
	FusionBayesian
	FusionDempsterShafer
)

func (f FusionMethod) String() string {
	switch f {
	case FusionSimpleAverage:
		return "simple_average"
	case FusionKalman:
		return "kalman"
	case FusionBayesian:
		return "bayesian"
	case FusionDempsterShafer:
		return "dempster_shafer"
	default:
		return "unknown"
	}
}

// Options carries the per-type knobs Aggregate needs (§4.G `options`).
type Options struct {
	Weights       map[string]float64 // TypeWeighted
	Fusion        FusionMethod       // TypeFusion
	TopComponents int                // TypeCorrelationMatrix, 0 disables PCA
}

// Range is an inclusive [Min, Max] observed over one signal's aligned
// series.
type Range struct {
	Min float64
	Max float64
}

// StatisticalResult implements §4.G statistical aggregation.
type StatisticalResult struct {
	SignalIDs   []string
	Mean        []float64   // per-signal mean, same order as SignalIDs
	Covariance  [][]float64 // len(SignalIDs) x len(SignalIDs)
	Correlation [][]float64 // len(SignalIDs) x len(SignalIDs)
	Ranges      map[string]Range
	Synchrony   float64 // mean of |off-diagonal correlations|
}

// WeightedResult implements §4.G weighted aggregation.
type WeightedResult struct {
	Timestamps []int64
	Values     []float64 // componentwise weighted sum, aligned to Timestamps
}

// FusionResult implements §4.G fusion aggregation.
type FusionResult struct {
	Timestamps []int64
	Values     []float64
	Confidence []float64 // same length as Values
	Method     FusionMethod
}

// CorrelationMatrixResult implements §4.G correlation_matrix aggregation.
type CorrelationMatrixResult struct {
	SignalIDs         []string
	Matrix            [][]float64
	PrincipalVectors  [][]float64 // optional, len == min(TopComponents, len(SignalIDs))
	ExplainedVariance []float64   // eigenvalue per returned component
}

// Result is the tagged union Aggregate returns.
type Result struct {
	Type              Type
	Statistical       *StatisticalResult
	Weighted          *WeightedResult
	Fusion            *FusionResult
	CorrelationMatrix *CorrelationMatrixResult
}
