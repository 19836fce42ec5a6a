package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-workflow/hook"
	workflowredis "github.com/marcelsud/webhook-workflow/workflow/redis"
	"github.com/redis/go-redis/v9"
)

// Counter is implemented by stores that count hooks without loading them (hook/redis)
type Counter interface {
	Count(ctx context.Context, typeID string) (int64, error)
}

// StoreCollector counts configured hooks through any hook.Reader
type StoreCollector struct {
	hooks   hook.Reader
	typeIDs []string
}

// NewStoreCollector creates a collector for the given hook types
func NewStoreCollector(hooks hook.Reader, typeIDs ...string) *StoreCollector {
	return &StoreCollector{
		hooks:   hooks,
		typeIDs: typeIDs,
	}
}

// Collect gathers hook counts; queue lengths are always empty
func (c *StoreCollector) Collect(ctx context.Context) (Snapshot, error) {
	counts, err := c.GetHookCounts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("getting hook counts: %w", err)
	}

	return Snapshot{
		HookCounts:   counts,
		QueueLengths: map[string]int64{},
		Timestamp:    time.Now(),
	}, nil
}

// GetHookCounts returns the number of hooks per configured type
func (c *StoreCollector) GetHookCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(c.typeIDs))
	counter, canCount := c.hooks.(Counter)
	for _, typeID := range c.typeIDs {
		if canCount {
			n, err := counter.Count(ctx, typeID)
			if err != nil {
				return nil, fmt.Errorf("counting hooks of type %s: %w", typeID, err)
			}
			counts[typeID] = n
			continue
		}
		hooks, err := c.hooks.List(ctx, typeID)
		if err != nil {
			return nil, fmt.Errorf("listing hooks of type %s: %w", typeID, err)
		}
		counts[typeID] = int64(len(hooks))
	}
	return counts, nil
}

// GetQueueLengths has nothing to report without a queue
func (c *StoreCollector) GetQueueLengths(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

// workflowTypes returns the distinct workflow types referenced by the configured hooks
func (c *StoreCollector) workflowTypes(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var types []string
	for _, typeID := range c.typeIDs {
		hooks, err := c.hooks.List(ctx, typeID)
		if err != nil {
			return nil, fmt.Errorf("listing hooks of type %s: %w", typeID, err)
		}
		for _, h := range hooks {
			if !seen[h.WorkflowTypeID] {
				seen[h.WorkflowTypeID] = true
				types = append(types, h.WorkflowTypeID)
			}
		}
	}
	return types, nil
}

// RedisCollector adds workflow stream lengths to the hook counts
type RedisCollector struct {
	*StoreCollector
	client *redis.Client
}

// NewRedisCollector creates a collector that also inspects workflow streams
func NewRedisCollector(client *redis.Client, hooks hook.Reader, typeIDs ...string) *RedisCollector {
	return &RedisCollector{
		StoreCollector: NewStoreCollector(hooks, typeIDs...),
		client:         client,
	}
}

// Collect gathers hook counts and queue lengths
func (c *RedisCollector) Collect(ctx context.Context) (Snapshot, error) {
	counts, err := c.GetHookCounts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("getting hook counts: %w", err)
	}

	queueLengths, err := c.GetQueueLengths(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("getting queue lengths: %w", err)
	}

	return Snapshot{
		HookCounts:   counts,
		QueueLengths: queueLengths,
		Timestamp:    time.Now(),
	}, nil
}

// GetQueueLengths returns the length of every stream a hook can feed
func (c *RedisCollector) GetQueueLengths(ctx context.Context) (map[string]int64, error) {
	types, err := c.workflowTypes(ctx)
	if err != nil {
		return nil, err
	}

	queueLengths := make(map[string]int64, len(types))
	if len(types) == 0 {
		return queueLengths, nil
	}

	pipe := c.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(types))
	for i, typeID := range types {
		cmds[i] = pipe.XLen(ctx, workflowredis.StreamKey(typeID))
	}

	_, err = pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("executing pipeline: %w", err)
	}

	for i, cmd := range cmds {
		length, err := cmd.Result()
		if err != nil {
			// Continue even if one stream fails
			continue
		}
		queueLengths[types[i]] = length
	}

	return queueLengths, nil
}

var (
	_ Collector = (*StoreCollector)(nil)
	_ Collector = (*RedisCollector)(nil)
)
