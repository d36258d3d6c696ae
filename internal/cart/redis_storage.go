package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the cart in Redis so several clients of one shopper share
// it. Every write is announced on a pub/sub channel for the other clients.
type RedisStorage struct {
	client    *redis.Client
	namespace string
	origin    string
}

// NewRedisStorage namespaces keys under namespace (usually a shopper id).
func NewRedisStorage(client *redis.Client, namespace string) *RedisStorage {
	return &RedisStorage{client: client, namespace: namespace, origin: uuid.NewString()}
}

func (s *RedisStorage) key(key string) string {
	return "storefront:" + s.namespace + ":" + key
}

func (s *RedisStorage) channel() string {
	return "storefront:" + s.namespace + ":changes"
}

func (s *RedisStorage) GetItem(key string) (string, bool, error) {
	val, err := s.client.Get(context.Background(), s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cart.redis.get: %w", err)
	}
	return val, true, nil
}

// SetItem writes the value and publishes the change in one MULTI/EXEC.
func (s *RedisStorage) SetItem(key, value string) error {
	ctx := context.Background()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(key), value, 0)
		pipe.Publish(ctx, s.channel(), s.origin+"|"+key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cart.redis.set: %w", err)
	}
	return nil
}

// Watch streams keys written by other RedisStorage instances until ctx is done.
func (s *RedisStorage) Watch(ctx context.Context) (<-chan string, error) {
	sub := s.client.Subscribe(ctx, s.channel())
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("cart.redis.watch: %w", err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				origin, key, found := strings.Cut(msg.Payload, "|")
				if !found || origin == s.origin {
					continue
				}
				select {
				case out <- key:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
