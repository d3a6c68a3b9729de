package storage

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type redisStorage struct {
	client redis.UniversalClient
	key    string
}

var _ FileLike = &redisStorage{}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

func NewRedisBackend(ctx context.Context, cfg RedisConfig, key string) (*redisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := client.Ping(ctx).Err()
	if err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "fail to connect to redis at %s", cfg.Addr)
	}

	return &redisStorage{client, key}, nil
}

func (rs *redisStorage) Load(ctx context.Context, v any) error {
	hclog.FromContext(ctx).Debug("Reading variables from redis", "key", rs.key)

	data, err := rs.client.Get(ctx, rs.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "fail to get %s from redis", rs.key)
	}

	err = json.Unmarshal(data, v)
	return errors.Wrapf(err, "fail to decode variables from redis key %s", rs.key)
}

func (rs *redisStorage) Save(ctx context.Context, v any) error {
	hclog.FromContext(ctx).Debug("Writting variables to redis", "key", rs.key)

	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "fail to marshal variables to json")
	}

	err = rs.client.Set(ctx, rs.key, data, 0).Err()
	return errors.Wrapf(err, "fail to set %s in redis", rs.key)
}

func (rs *redisStorage) Close() error {
	return rs.client.Close()
}
