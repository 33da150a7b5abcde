package eventbus

import "fmt"

// Topic name builders for the fixed topic families named in §4.I.

func SignalTopic(id string) string { return "signal:" + id }

func AnalysisTopic(id string, mode string) string {
	return fmt.Sprintf("analysis:%s:%s", id, mode)
}

func AnomalyTopic(id string) string { return "anomaly:" + id }

func AlertTopic(id string) string { return "alert:" + id }

// MetricsTopic is the topic name for drop-counter events. The Bus does not
// publish to it itself; the bus-wide drop count is read through
// DroppedTotal.
const MetricsTopic = "metrics:bus"
