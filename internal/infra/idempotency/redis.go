// Package idempotency stores Idempotency-Key reservations for order creation.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shop-order-scheduler/internal/infra"
	"shop-order-scheduler/internal/pkg/config"
	"shop-order-scheduler/internal/pkg/errs"
	"shop-order-scheduler/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
)

// KeyOrderCreate maps an Idempotency-Key to its reservation record.
const KeyOrderCreate = "idem:order:create:%s"

var ErrKeyNotReserved = errs.New("idempotency key not reserved")

type redisRecord struct {
	Status      string `json:"status"`
	RequestHash string `json:"request_hash"`
	OrderID     string `json:"order_id,omitempty"`
}

type RedisStore struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
}

func NewRedisStore(rdb *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, logger: logger}
}

func redisKey(key string) string {
	return fmt.Sprintf(KeyOrderCreate, key)
}

func (s *RedisStore) Reserve(ctx context.Context, key, requestHash string, ttl time.Duration) (shared.IdempotencyRecord, bool, error) {
	rec := shared.IdempotencyRecord{
		Key:         key,
		Status:      shared.IdempotencyProcessing,
		RequestHash: requestHash,
	}
	payload, err := json.Marshal(redisRecord{Status: rec.Status, RequestHash: requestHash})
	if err != nil {
		return shared.IdempotencyRecord{}, false, err
	}

	// The key can expire between SETNX and GET; one more round settles it.
	for range 2 {
		ok, err := s.rdb.SetNX(ctx, redisKey(key), payload, ttl).Result()
		if err != nil {
			return shared.IdempotencyRecord{}, false, infra.WrapRepoErr(s.logger, infra.KindUnavailable, "failed to reserve idempotency key", err)
		}
		if ok {
			return rec, true, nil
		}

		existing, found, err := s.get(ctx, key)
		if err != nil {
			return shared.IdempotencyRecord{}, false, err
		}
		if found {
			return existing, false, nil
		}
	}
	return shared.IdempotencyRecord{}, false, infra.WrapRepoErr(s.logger, infra.KindConflict, "idempotency key kept expiring", nil)
}

func (s *RedisStore) get(ctx context.Context, key string) (shared.IdempotencyRecord, bool, error) {
	raw, err := s.rdb.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return shared.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		return shared.IdempotencyRecord{}, false, infra.WrapRepoErr(s.logger, infra.KindUnavailable, "failed to read idempotency key", err)
	}

	var r redisRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return shared.IdempotencyRecord{}, false, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "corrupt idempotency record", err)
	}
	return shared.IdempotencyRecord{
		Key:         key,
		Status:      r.Status,
		RequestHash: r.RequestHash,
		OrderID:     r.OrderID,
	}, true, nil
}

func (s *RedisStore) Complete(ctx context.Context, key, orderID string, ttl time.Duration) error {
	rec, found, err := s.get(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return ErrKeyNotReserved
	}
	payload, err := json.Marshal(redisRecord{
		Status:      shared.IdempotencyCompleted,
		RequestHash: rec.RequestHash,
		OrderID:     orderID,
	})
	if err != nil {
		return err
	}

	ok, err := s.rdb.SetXX(ctx, redisKey(key), payload, ttl).Result()
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindUnavailable, "failed to complete idempotency key", err)
	}
	if !ok {
		return ErrKeyNotReserved
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, redisKey(key)).Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindUnavailable, "failed to release idempotency key", err)
	}
	return nil
}
