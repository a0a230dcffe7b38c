package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisWords reads the corpus from two Redis sets. It implements
// words.Source.
type RedisWords struct {
	rdb        *redis.Client
	targetsKey string
	guessesKey string
}

func NewRedisWords(rdb *redis.Client, targetsKey, guessesKey string) *RedisWords {
	return &RedisWords{rdb: rdb, targetsKey: targetsKey, guessesKey: guessesKey}
}

func (s *RedisWords) Load(ctx context.Context) ([]string, []string, error) {
	targets, err := s.rdb.SMembers(ctx, s.targetsKey).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("store: redis %s: %w", s.targetsKey, err)
	}
	var guesses []string
	if s.guessesKey != "" {
		guesses, err = s.rdb.SMembers(ctx, s.guessesKey).Result()
		if err != nil && err != redis.Nil {
			return nil, nil, fmt.Errorf("store: redis %s: %w", s.guessesKey, err)
		}
	}
	return targets, guesses, nil
}

// Add puts words into the targets or guesses set.
func (s *RedisWords) Add(ctx context.Context, targets bool, words ...string) error {
	key := s.guessesKey
	if targets {
		key = s.targetsKey
	}
	members := make([]any, len(words))
	for i, w := range words {
		members[i] = w
	}
	return s.rdb.SAdd(ctx, key, members...).Err()
}
