package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-workflow/workflow"
	"github.com/redis/go-redis/v9"
)

/* Queue hands workflow runs to asynchronous workers over Redis Streams
 * Known workflow types live in a set; runs are appended to workflows:{type_id}
 * Run never waits for the worker, so outcomes are always empty
 */

const (
	typesKey     = "workflow-types" // Set of registered workflow type ids
	streamPrefix = "workflows"      // Stream naming: workflows:{type_id}
)

type Queue struct {
	client *redis.Client
	maxLen int64
}

// NewQueue creates a new Redis-backed workflow queue
func NewQueue(addr, password string, db int) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Queue{
		client: client,
		maxLen: 10000,
	}, nil
}

// RegisterType marks a workflow type as runnable
func (q *Queue) RegisterType(ctx context.Context, typeID string) error {
	if err := q.client.SAdd(ctx, typesKey, typeID).Err(); err != nil {
		return fmt.Errorf("registering workflow type: %w", err)
	}
	return nil
}

// Activate returns an instance when the type is registered
func (q *Queue) Activate(ctx context.Context, typeID, contextHint string) (*workflow.Instance, error) {
	ok, err := q.client.SIsMember(ctx, typesKey, typeID).Result()
	if err != nil {
		return nil, fmt.Errorf("checking workflow type: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", workflow.ErrTypeNotFound, typeID)
	}
	return workflow.NewInstance(typeID, contextHint), nil
}

// Run enqueues the instance and returns an empty outcome
func (q *Queue) Run(ctx context.Context, inst *workflow.Instance) (workflow.Outcome, error) {
	attrs, err := json.Marshal(inst.Attributes)
	if err != nil {
		return workflow.Outcome{}, fmt.Errorf("marshaling attributes: %w", err)
	}

	_, err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey(inst.TypeID),
		MaxLen: q.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"instance_id":  inst.ID,
			"type_id":      inst.TypeID,
			"context_hint": inst.ContextHint,
			"attributes":   string(attrs),
		},
	}).Result()
	if err != nil {
		return workflow.Outcome{}, fmt.Errorf("adding to stream: %w", err)
	}

	return workflow.Outcome{Attributes: map[string]string{}}, nil
}

// Close closes the Redis connection
func (q *Queue) Close(ctx context.Context) error {
	return q.client.Close()
}

// StreamKey returns the stream a workflow type's runs are appended to
func StreamKey(typeID string) string {
	return fmt.Sprintf("%s:%s", streamPrefix, typeID)
}

var _ workflow.Engine = (*Queue)(nil)
