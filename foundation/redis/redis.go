package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const produceTimeout = 3 * time.Second

type Redis struct {
	Client         *redis.Client
	Logger         *zap.SugaredLogger
	VerdictChannel string
}

func New(host, password, verdictChannel string, logger *zap.SugaredLogger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     host,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), produceTimeout)
	defer cancel()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Redis{
		Client:         client,
		Logger:         logger,
		VerdictChannel: verdictChannel,
	}, nil
}

// Produce publishes data as JSON on the verdict channel.
func (r *Redis) Produce(ctx context.Context, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("redis: marshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, produceTimeout)
	defer cancel()

	receivers, err := r.Client.Publish(ctx, r.VerdictChannel, jsonData).Result()
	if err != nil {
		return err
	}

	r.Logger.Debugw("redis: Produce", "channel", r.VerdictChannel, "receivers", receivers)

	return nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
