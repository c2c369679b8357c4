package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps records as plain Redis strings under Prefix+key.
type RedisStore struct {
	client *redis.Client
	Prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(host, port, password string, db int) (*RedisStore, error) {
	addr := fmt.Sprintf("%s:%s", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", addr, err)
	}

	log.Printf("[INFO] connected to redis at %s", addr)
	return &RedisStore{client: client, Prefix: "stocklens:"}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return v, err
}

// Put stores the record without expiration.
func (r *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.Prefix+key, value, 0).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
