package forecast

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const scoreKeyPrefix = "demand_score:"

// RedisScoreStore holds per-product demand scores in redis. It satisfies the
// inventory domain's DemandScoreStore contract; a missing key means no score
// and the snapshot provider falls back to the placeholder.
type RedisScoreStore struct {
	client *redis.Client
}

func NewRedisScoreStore(client *redis.Client) *RedisScoreStore {
	return &RedisScoreStore{client: client}
}

func (s *RedisScoreStore) Score(ctx context.Context, productID string) (float64, bool, error) {
	score, err := s.client.Get(ctx, scoreKeyPrefix+productID).Float64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read demand score for %q: %w", productID, err)
	}
	if score < 0 || score > 1 {
		return 0, false, fmt.Errorf("stored demand score for %q is out of range: %v", productID, score)
	}
	return score, true, nil
}

// SetScore stores a score, used by seed tooling. Scores outside [0, 1] are
// rejected so the snapshot never carries an invalid item.
func (s *RedisScoreStore) SetScore(ctx context.Context, productID string, score float64) error {
	if score < 0 || score > 1 {
		return fmt.Errorf("demand score for %q must be in [0, 1], got %v", productID, score)
	}
	return s.client.Set(ctx, scoreKeyPrefix+productID, score, 0).Err()
}
