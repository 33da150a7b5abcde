package aggregate

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

// computeStatistical implements §4.G statistical aggregation: vector mean,
// covariance/correlation matrices, per-signal ranges, and synchrony (mean
// of absolute off-diagonal correlations). Observations are the aligned
// grid rows; variables are signals — the same orientation dastard's
// gonum-based pipeline uses for its channel matrices.
func computeStatistical(snapshots map[string][]ringbuffer.Sample) (*StatisticalResult, error) {
	aligned := Align(snapshots)
	n := len(aligned.Timestamps)
	p := len(aligned.SignalIDs)
	if n == 0 || p == 0 {
		return nil, ErrInvalidSpec
	}

	data := make([]float64, n*p)
	for col, id := range aligned.SignalIDs {
		series := aligned.Columns[id]
		for row, v := range series {
			data[row*p+col] = v
		}
	}
	x := mat.NewDense(n, p, data)

	mean := make([]float64, p)
	ranges := make(map[string]Range, p)
	for col, id := range aligned.SignalIDs {
		series := aligned.Columns[id]
		mean[col] = stat.Mean(series, nil)
		lo, hi := series[0], series[0]
		for _, v := range series {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		ranges[id] = Range{Min: lo, Max: hi}
	}

	cov := mat.NewSymDense(p, nil)
	stat.CovarianceMatrix(cov, x, nil)
	corr := mat.NewSymDense(p, nil)
	stat.CorrelationMatrix(corr, x, nil)

	covariance := symToSlice(cov, p)
	correlation := symToSlice(corr, p)

	var sumOffDiag float64
	var countOffDiag int
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			if i == j {
				continue
			}
			v := correlation[i][j]
			if math.IsNaN(v) {
				continue
			}
			sumOffDiag += math.Abs(v)
			countOffDiag++
		}
	}
	synchrony := 0.0
	if countOffDiag > 0 {
		synchrony = sumOffDiag / float64(countOffDiag)
	}

	return &StatisticalResult{
		SignalIDs:   aligned.SignalIDs,
		Mean:        mean,
		Covariance:  covariance,
		Correlation: correlation,
		Ranges:      ranges,
		Synchrony:   synchrony,
	}, nil
}

func symToSlice(m *mat.SymDense, n int) [][]float64 {
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}
