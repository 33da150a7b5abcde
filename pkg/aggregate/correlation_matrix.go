package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

// computeCorrelationMatrix implements §4.G correlation_matrix aggregation,
// with optional top principal components.
func computeCorrelationMatrix(snapshots map[string][]ringbuffer.Sample, topComponents int) (*CorrelationMatrixResult, error) {
	aligned := Align(snapshots)
	n := len(aligned.Timestamps)
	p := len(aligned.SignalIDs)
	if n == 0 || p == 0 {
		return nil, ErrInvalidSpec
	}

	data := make([]float64, n*p)
	for col, id := range aligned.SignalIDs {
		for row, v := range aligned.Columns[id] {
			data[row*p+col] = v
		}
	}
	x := mat.NewDense(n, p, data)

	corr := mat.NewSymDense(p, nil)
	stat.CorrelationMatrix(corr, x, nil)
	matrix := symToSlice(corr, p)

	res := &CorrelationMatrixResult{SignalIDs: aligned.SignalIDs, Matrix: matrix}
	if topComponents <= 0 {
		return res, nil
	}
	if topComponents > p {
		topComponents = p
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(corr, true); !ok {
		return res, nil // eigendecomposition failure is non-fatal: PCA is optional
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	type indexedEigen struct {
		value float64
		index int
	}
	ordered := make([]indexedEigen, len(values))
	for i, v := range values {
		ordered[i] = indexedEigen{value: v, index: i}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].value > ordered[j].value })

	res.PrincipalVectors = make([][]float64, topComponents)
	res.ExplainedVariance = make([]float64, topComponents)
	for k := 0; k < topComponents; k++ {
		idx := ordered[k].index
		res.ExplainedVariance[k] = ordered[k].value
		vec := make([]float64, p)
		for row := 0; row < p; row++ {
			vec[row] = vectors.At(row, idx)
		}
		res.PrincipalVectors[k] = vec
	}
	return res, nil
}
