package metrics

import (
	"github.com/bridgekit-io/redisbridge/v1/observability"
)

// ObserveOperation records one completed operation into the command
// instruments, implementing observability.Observer. Backends call it for
// every direct command and batch flush when the metrics instance is
// attached as their observer.
func (m *Metrics) ObserveOperation(op observability.OperationContext) {
	status := "ok"
	if op.Error != nil {
		status = "error"
	}

	m.commandsTotal.WithLabelValues(op.Component, op.Operation, status).Inc()
	m.commandDuration.WithLabelValues(op.Component, op.Operation).Observe(op.Duration.Seconds())

	// Batch flushes carry their command count in the metadata.
	if op.Metadata != nil {
		if count, ok := op.Metadata["command_count"].(int); ok {
			m.batchSize.WithLabelValues(op.Component, op.Operation).Observe(float64(count))
		}
	}
}

var _ observability.Observer = (*Metrics)(nil)
