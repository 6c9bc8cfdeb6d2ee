package hintstore

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"broker_market/internal/domain/entity"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

const keyPrefix = "price-hint:"

// Redis is the shared hint store for multi-instance deployments. GetDel gives
// the consume-once guarantee across processes; SET gives last-writer-wins.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Put(ctx context.Context, ownerID, itemID string, decision entity.SellDecision) error {
	payload, err := json.Marshal(decision)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+key(ownerID, itemID), payload, r.ttl).Err()
}

func (r *Redis) Take(ctx context.Context, ownerID, itemID string) (entity.SellDecision, bool, error) {
	payload, err := r.client.GetDel(ctx, keyPrefix+key(ownerID, itemID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.SellDecision{}, false, nil
	}
	if err != nil {
		return entity.SellDecision{}, false, err
	}

	var decision entity.SellDecision
	if err := json.Unmarshal(payload, &decision); err != nil {
		return entity.SellDecision{}, false, err
	}
	return decision, true, nil
}
