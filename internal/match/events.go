package match

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NotificationChannel is the Redis pub/sub channel match events go to.
const NotificationChannel = "notifications"

const (
	EventMatchStarted = "match_started"
	EventMatchOver    = "match_over"
)

type Event struct {
	Type    string `json:"type"`
	MatchID string `json:"matchId"`
	Player  string `json:"player"`
	Status  Status `json:"status,omitempty"`
	Turns   int    `json:"turns,omitempty"`
}

// Publisher announces match lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: NotificationChannel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", e.Type, err)
	}
	if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	return nil
}
