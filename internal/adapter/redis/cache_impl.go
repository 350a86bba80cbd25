package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/pkg/utils"
)

const resolutionPrefix = "resolution:"

// CacheRepoImpl stores resolutions in Redis keyed by the hashed reel URL.
type CacheRepoImpl struct {
	client *redis.Client
}

func NewCacheRepo(client *redis.Client) *CacheRepoImpl {
	return &CacheRepoImpl{client: client}
}

func (r *CacheRepoImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", resolutionPrefix, utils.HashURL(url))
}

func (r *CacheRepoImpl) Get(ctx context.Context, reelURL string) (*entity.Resolution, error) {
	raw, err := r.client.Get(ctx, r.generateKey(reelURL)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var res entity.Resolution
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode cached resolution: %w", err)
	}
	return &res, nil
}

// Put uses SETEX so the value and its expiry are written atomically.
func (r *CacheRepoImpl) Put(ctx context.Context, reelURL string, res *entity.Resolution, ttl time.Duration) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return r.client.SetEx(ctx, r.generateKey(reelURL), raw, ttl).Err()
}

func (r *CacheRepoImpl) Forget(ctx context.Context, reelURL string) error {
	return r.client.Del(ctx, r.generateKey(reelURL)).Err()
}
