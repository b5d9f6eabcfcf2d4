// Package cache keeps recently read orders in Redis in front of another
// order repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"deliveryflow/pkg/logger"
	"deliveryflow/pkg/order"
	"deliveryflow/pkg/pricing"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is used when New is given a non-positive ttl.
const DefaultTTL = 5 * time.Minute

// Repository wraps an order.Repository. FindOne is read-through; writes go to
// the wrapped repository and then drop the cached entry. Redis errors are
// logged and never fail the call.
type Repository struct {
	next   order.Repository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New creates the caching decorator.
func New(next order.Repository, client *redis.Client, ttl time.Duration, log *logger.Logger) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repository{next: next, client: client, ttl: ttl, log: log}
}

// Insert stores a new order. Nothing is cached until it is read.
func (r *Repository) Insert(ctx context.Context, d order.Details, p pricing.Result) (string, error) {
	return r.next.Insert(ctx, d, p)
}

// Update writes through and invalidates the cached order.
func (r *Repository) Update(ctx context.Context, id string, d order.Details, p pricing.Result) error {
	if err := r.next.Update(ctx, id, d, p); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// Delete removes the order and its cached copy.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// FindOne serves the order from Redis when present, otherwise loads it from
// the wrapped repository and caches it.
func (r *Repository) FindOne(ctx context.Context, id string) (order.Order, error) {
	key := cacheKey(id)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var o order.Order
		if err := json.Unmarshal(data, &o); err == nil {
			return o, nil
		}
		r.log.Warn(ctx, "discarding undecodable cached order", "key", key)
	case !errors.Is(err, redis.Nil):
		r.log.Warn(ctx, "redis get failed", "key", key, "error", err)
	}

	o, err := r.next.FindOne(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	if err := r.set(ctx, key, o); err != nil {
		r.log.Warn(ctx, "redis set failed", "key", key, "error", err)
	}
	return o, nil
}

// FindAll always reads the wrapped repository.
func (r *Repository) FindAll(ctx context.Context) ([]order.Order, error) {
	return r.next.FindAll(ctx)
}

func (r *Repository) set(ctx context.Context, key string, o order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// invalidate drops the cached order, retrying once. If both attempts fail the
// old entry survives until its TTL runs out.
func (r *Repository) invalidate(ctx context.Context, id string) {
	key := cacheKey(id)
	err := r.client.Del(ctx, key).Err()
	if err == nil {
		return
	}
	r.log.Warn(ctx, "redis delete failed, retrying", "key", key, "error", err)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.log.Error(ctx, "cached order left stale until ttl", "key", key, "ttl", r.ttl, "error", err)
	}
}

func cacheKey(id string) string {
	return "order:" + strings.ToLower(id)
}
