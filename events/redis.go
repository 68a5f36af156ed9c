package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBus fans events out through a Redis channel so multiple API instances
// see each other's orders. Same interface as Hub; pick via REDIS_ADDR.
type RedisBus struct {
	rdb     *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedisBus(addr, channel string, log *zap.Logger) *RedisBus {
	if channel == "" {
		channel = "sevenapparel.events"
	}
	return &RedisBus{
		rdb:     redis.NewClient(&redis.Options{Addr: addr}),
		channel: channel,
		log:     log,
	}
}

func (b *RedisBus) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		b.log.Warn("❌ failed to encode event", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
		b.log.Warn("❌ failed to publish event", zap.Error(err))
	}
}

func (b *RedisBus) Subscribe() (<-chan Event, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := b.rdb.Subscribe(ctx, b.channel)
	ch := make(chan Event, 16)

	go func() {
		defer close(ch)
		for msg := range sub.Channel() {
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				b.log.Warn("❌ malformed event payload", zap.Error(err))
				continue
			}
			select {
			case ch <- evt:
			default:
			}
		}
	}()

	return ch, func() {
		_ = sub.Close()
		cancel()
	}
}

func (b *RedisBus) Close() error { return b.rdb.Close() }
