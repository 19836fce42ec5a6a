package metrics

import (
	"context"
	"time"
)

// Snapshot represents the configured state of the webhook gateway.
type Snapshot struct {
	// HookCounts maps hook type id to the number of configured hooks
	HookCounts map[string]int64 `json:"hook_counts"`

	// QueueLengths maps workflow type id to the number of queued runs
	QueueLengths map[string]int64 `json:"queue_lengths"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for sampling gauges from the gateway's stores.
type Collector interface {
	// Collect gathers a full snapshot
	Collect(ctx context.Context) (Snapshot, error)

	// GetHookCounts returns the number of hooks per hook type
	GetHookCounts(ctx context.Context) (map[string]int64, error)

	// GetQueueLengths returns the number of pending runs per workflow type
	GetQueueLengths(ctx context.Context) (map[string]int64, error)
}
