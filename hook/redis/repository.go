package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of hook.Repository
 * Uses a sorted set per hook type (score = order) for ordered listing
 * Uses Redis Hashes for hook definitions
 */

const (
	indexPrefix = "hooks" // Sorted set naming: hooks:{type_id}
	hashPrefix  = "hook"  // Hash naming: hook:{hook_id}
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
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

	return &Repository{
		client: client,
	}, nil
}

// Save stores a hook definition and indexes it under its type
func (r *Repository) Save(ctx context.Context, h hook.Hook) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("validating hook: %w", err)
	}

	attrs, err := json.Marshal(h.Attributes)
	if err != nil {
		return fmt.Errorf("marshaling attributes: %w", err)
	}

	hashKey := HashKey(h.ID)
	previousType, err := r.client.HGet(ctx, hashKey, "type_id").Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("reading previous hook type: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previousType != "" && previousType != h.TypeID {
			pipe.ZRem(ctx, IndexKey(previousType), h.ID)
		}
		pipe.HSet(ctx, hashKey, map[string]interface{}{
			"id":                h.ID,
			"type_id":           h.TypeID,
			"name":              h.Name,
			"order":             h.Order,
			"method":            h.Method,
			"url":               h.URL,
			"text":              h.Text,
			"workflow_type":     h.WorkflowTypeID,
			"include_headers":   h.Options.IncludeHeaders,
			"include_cookies":   h.Options.IncludeCookies,
			"response_username": h.ResponseUsername,
			"response_icon":     h.ResponseIcon,
			"attributes":        string(attrs),
		})
		pipe.ZAdd(ctx, IndexKey(h.TypeID), redis.Z{Score: float64(h.Order), Member: h.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("storing hook: %w", err)
	}
	return nil
}

// Get retrieves a hook by ID
func (r *Repository) Get(ctx context.Context, id string) (hook.Hook, error) {
	data, err := r.client.HGetAll(ctx, HashKey(id)).Result()
	if err != nil {
		return hook.Hook{}, fmt.Errorf("getting hook: %w", err)
	}
	if len(data) == 0 {
		return hook.Hook{}, fmt.Errorf("%w: %s", hook.ErrNotFound, id)
	}
	return parseHook(data)
}

// List returns the hooks of a type ordered by score
func (r *Repository) List(ctx context.Context, typeID string) ([]hook.Hook, error) {
	ids, err := r.client.ZRange(ctx, IndexKey(typeID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing hook ids: %w", err)
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, HashKey(id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("loading hooks: %w", err)
		}
	}

	hooks := make([]hook.Hook, 0, len(ids))
	for _, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			// index entry without definition, skip
			continue
		}
		h, err := parseHook(data)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, h)
	}
	hook.SortByOrder(hooks)
	return hooks, nil
}

// Delete removes a hook and its index entry
func (r *Repository) Delete(ctx context.Context, id string) error {
	typeID, err := r.client.HGet(ctx, HashKey(id), "type_id").Result()
	if err == redis.Nil {
		return fmt.Errorf("%w: %s", hook.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("reading hook type: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, IndexKey(typeID), id)
		pipe.Del(ctx, HashKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting hook: %w", err)
	}
	return nil
}

// Count returns the number of hooks indexed under a type
func (r *Repository) Count(ctx context.Context, typeID string) (int64, error) {
	n, err := r.client.ZCard(ctx, IndexKey(typeID)).Result()
	if err != nil {
		return 0, fmt.Errorf("counting hooks: %w", err)
	}
	return n, nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// IndexKey returns the sorted set holding a type's hook ids
func IndexKey(typeID string) string {
	return fmt.Sprintf("%s:%s", indexPrefix, typeID)
}

// HashKey returns the hash holding a hook definition
func HashKey(id string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func parseHook(data map[string]string) (hook.Hook, error) {
	order, err := strconv.Atoi(data["order"])
	if err != nil {
		return hook.Hook{}, fmt.Errorf("parsing order of hook %s: %w", data["id"], err)
	}

	var attrs map[string]string
	if s := data["attributes"]; s != "" && s != "null" {
		if err := json.Unmarshal([]byte(s), &attrs); err != nil {
			return hook.Hook{}, fmt.Errorf("unmarshaling attributes of hook %s: %w", data["id"], err)
		}
	}

	return hook.Hook{
		ID:             data["id"],
		TypeID:         data["type_id"],
		Name:           data["name"],
		Order:          order,
		Method:         data["method"],
		URL:            data["url"],
		Text:           data["text"],
		WorkflowTypeID: data["workflow_type"],
		Options: hook.Options{
			IncludeHeaders: data["include_headers"] == "1",
			IncludeCookies: data["include_cookies"] == "1",
		},
		ResponseUsername: data["response_username"],
		ResponseIcon:     data["response_icon"],
		Attributes:       attrs,
	}, nil
}

var _ hook.Repository = (*Repository)(nil)
