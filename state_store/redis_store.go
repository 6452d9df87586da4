package state_store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"

	"github.com/gridfeed/gridfeed/model"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

const redisKeyPrefix = "gridfeed__local_state__"

// RedisStore keeps the state as one JSON value per viewer.
type RedisStore struct {
	inner *redis.Client
	key   string
}

func NewRedisStore(viewerId string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &RedisStore{inner: client, key: redisKeyPrefix + viewerId}, nil
}

func (s *RedisStore) Save(ctx context.Context, state *model.LocalState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, s.key, payload, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context) (*model.LocalState, error) {
	payload, err := s.inner.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return model.NewLocalState(), nil
	}
	if err != nil {
		return nil, err
	}

	state := &model.LocalState{}
	if err := json.Unmarshal([]byte(payload), state); err != nil {
		Logger.Log.Warnln("discarding corrupt local state in redis:", err)
		return model.NewLocalState(), nil
	}
	state.Normalize()
	return state, nil
}
