package publisher

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"freegamewatch/internal/listing"
	"freegamewatch/logger"
	apperrors "freegamewatch/pkg/errors"
)

// RedisPublisher implements Publisher on a single Redis stream. Each call
// appends one entry holding the JSON-encoded batch; the stream is capped
// at maxLength so slow consumers cannot grow it without bound.
type RedisPublisher struct {
	client    *redis.Client
	ctx       context.Context
	stream    string
	maxLength int64
	log       *logger.Logger
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(ctx context.Context, addr string, db int, stream string, maxLength int64) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:    client,
		ctx:       ctx,
		stream:    stream,
		maxLength: maxLength,
		log:       logger.ForPublisher(),
	}
}

// PublishListings appends the batch to the stream. Nothing is written for
// an empty batch.
func (p *RedisPublisher) PublishListings(listings []listing.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	payload, err := json.Marshal(listings)
	if err != nil {
		return apperrors.NewNotification("failed to encode listings", err)
	}

	err = p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream:     p.stream,
		MaxLen:     p.maxLength,
		Approx:     true,
		NoMkStream: false,
		Values: map[string]interface{}{
			"listings": payload,
			"count":    len(listings),
		},
	}).Err()
	if err != nil {
		return apperrors.NewNotification("failed to publish to stream", err)
	}

	p.log.Debug().Str("stream", p.stream).Int("count", len(listings)).Msg("Published batch")
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
