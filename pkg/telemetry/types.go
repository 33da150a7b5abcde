package telemetry

import (
	"github.com/signalforge/telemetry/pkg/eventbus"
	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

// SignalData is the payload for GetSignalData (§4.J `get_signal_data`).
type SignalData struct {
	Samples   []ringbuffer.Sample
	Count     int
	StartUs   int64
	EndUs     int64
	HaveRange bool
}

// FilteredSeries is the payload for ApplyFilter (§4.J `apply_filter`).
type FilteredSeries struct {
	Values     []float64
	Timestamps []int64
}

// CorrelationResult is the payload for Correlate (§4.J `correlate`).
type CorrelationResult struct {
	Pearson     float64
	CrossLags   []int
	CrossValues []float64
	BestLag     int
	BestValue   float64
}

// SubscriptionHandle identifies one active event-bus subscription, returned
// by Subscribe (§4.J `subscribe(topic) -> SubscriptionHandle`).
type SubscriptionHandle struct {
	Topic string

	handle eventbus.Handle
}
