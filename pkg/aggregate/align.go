package aggregate

import (
	"sort"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

// AlignedSeries is a set of per-signal value series resampled onto one
// common, strictly increasing timestamp grid (§4.G "align by common
// timestamp grid via linear interpolation when timestamps differ").
type AlignedSeries struct {
	SignalIDs  []string
	Timestamps []int64
	Columns    map[string][]float64 // SignalIDs[i] -> one value per Timestamps index
}

// Align builds a common grid from the union of all input timestamps and
// linearly interpolates each signal's series onto it. A signal whose grid
// point falls outside its own observed range is clamped to its nearest
// endpoint value (flat extrapolation) rather than left undefined.
func Align(snapshots map[string][]ringbuffer.Sample) AlignedSeries {
	ids := make([]string, 0, len(snapshots))
	for id := range snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	gridSet := make(map[int64]struct{})
	for _, samples := range snapshots {
		for _, s := range samples {
			gridSet[s.TimestampUs] = struct{}{}
		}
	}
	grid := make([]int64, 0, len(gridSet))
	for ts := range gridSet {
		grid = append(grid, ts)
	}
	sort.Slice(grid, func(i, j int) bool { return grid[i] < grid[j] })

	columns := make(map[string][]float64, len(ids))
	for _, id := range ids {
		columns[id] = interpolateOnto(snapshots[id], grid)
	}

	return AlignedSeries{SignalIDs: ids, Timestamps: grid, Columns: columns}
}

// interpolateOnto resamples samples (assumed already in timestamp order, as
// ring-buffer snapshots are) onto grid via piecewise-linear interpolation.
func interpolateOnto(samples []ringbuffer.Sample, grid []int64) []float64 {
	out := make([]float64, len(grid))
	if len(samples) == 0 {
		return out
	}
	if len(samples) == 1 {
		for i := range out {
			out[i] = samples[0].Value
		}
		return out
	}

	j := 0
	for i, t := range grid {
		for j < len(samples)-2 && samples[j+1].TimestampUs < t {
			j++
		}
		lo, hi := samples[j], samples[j+1]
		switch {
		case t <= lo.TimestampUs:
			out[i] = lo.Value
		case t >= hi.TimestampUs:
			out[i] = hi.Value
		default:
			span := float64(hi.TimestampUs - lo.TimestampUs)
			frac := float64(t-lo.TimestampUs) / span
			out[i] = lo.Value + frac*(hi.Value-lo.Value)
		}
	}
	return out
}
