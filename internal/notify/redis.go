package notify

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// DefaultChannel is the Redis pub/sub channel changes are published on
const DefaultChannel = "shipnotes:changes"

// RedisPublisher publishes changes over Redis pub/sub. Every publisher has its
// own origin ID so instances sharing a channel can tell their changes apart.
type RedisPublisher struct {
	client   *redis.Client
	channel  string
	origin   string
	sequence atomic.Int64
	now      func() time.Time
}

// NewRedisPublisher creates a publisher on channel (DefaultChannel if empty)
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		now:     time.Now,
	}
}

// Origin returns the ID stamped on changes this publisher sends
func (p *RedisPublisher) Origin() string {
	return p.origin
}

// Channel returns the pub/sub channel name
func (p *RedisPublisher) Channel() string {
	return p.channel
}

// Publish stamps the change with a timestamp, sequence number and origin and
// sends it
func (p *RedisPublisher) Publish(ctx context.Context, change Change) error {
	if change.Timestamp.IsZero() {
		change.Timestamp = p.now()
	}
	if change.Origin == "" {
		change.Origin = p.origin
	}
	change.SequenceID = p.sequence.Add(1)

	payload, err := sonic.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to encode change: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change: %w", err)
	}
	return nil
}

// Subscribe listens for changes until ctx is cancelled. The returned channel is
// closed when the subscription ends. Undecodable messages are logged and skipped.
func (p *RedisPublisher) Subscribe(ctx context.Context) (<-chan Change, error) {
	sub := p.client.Subscribe(ctx, p.channel)
	// Wait for the subscription confirmation so no message published after
	// Subscribe returns is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", p.channel, err)
	}

	out := make(chan Change, 16)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				log.WithError(err).Debug("closing change subscription")
			}
		}()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change Change
				if err := sonic.UnmarshalString(msg.Payload, &change); err != nil {
					log.WithError(err).WithField("channel", p.channel).Warn("dropping undecodable change")
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
