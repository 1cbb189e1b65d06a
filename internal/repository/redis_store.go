package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// redisStore keeps JSON documents under <prefix>:<kind>:<id> and tracks
// their ids in the set <prefix>:<kind>s.
type redisStore[T any] struct {
	client *redis.Client
	prefix string
	kind   string
}

func newRedisStore[T any](client *redis.Client, prefix, kind string) *redisStore[T] {
	return &redisStore[T]{client: client, prefix: prefix, kind: kind}
}

func (s *redisStore[T]) key(id string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, s.kind, id)
}

func (s *redisStore[T]) indexKey() string {
	return fmt.Sprintf("%s:%ss", s.prefix, s.kind)
}

func (s *redisStore[T]) save(ctx context.Context, id string, value *T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", s.kind, id, err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(id), payload, 0)
	pipe.SAdd(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save %s %s: %w", s.kind, id, err)
	}
	return nil
}

func (s *redisStore[T]) get(ctx context.Context, id string) (*T, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load %s %s: %w", s.kind, id, err)
	}
	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", s.kind, id, err)
	}
	return &value, nil
}

func (s *redisStore[T]) all(ctx context.Context) ([]*T, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", s.kind, err)
	}
	sort.Slice(ids, func(i, j int) bool { return lessID(ids[i], ids[j]) })
	result := make([]*T, 0, len(ids))
	for _, id := range ids {
		value, err := s.get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, value)
	}
	return result, nil
}
