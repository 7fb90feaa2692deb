package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-minimax/internal/match"
	wsPkg "github.com/krishanu7/battleship-minimax/pkg/websocket"
)

// NotificationWorker relays match events from Redis to connected players.
type NotificationWorker struct {
	RedisClient *redis.Client
	Hub         *wsPkg.Hub
}

func NewNotificationWorker(rdb *redis.Client, hub *wsPkg.Hub) *NotificationWorker {
	return &NotificationWorker{
		RedisClient: rdb,
		Hub:         hub,
	}
}

// Run forwards events until ctx is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) error {
	pubsub := w.RedisClient.Subscribe(ctx, match.NotificationChannel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed.
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	log.Info().Str("channel", match.NotificationChannel).Msg("Notification worker started")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Notification worker stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			w.dispatch(msg.Payload)
		}
	}
}

func (w *NotificationWorker) dispatch(payload string) {
	var e match.Event
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		log.Warn().Err(err).Msg("Failed to unmarshal notification")
		return
	}
	if e.Player == "" {
		return
	}
	if !w.Hub.SendToClient(e.Player, []byte(payload)) {
		log.Debug().Str("player", e.Player).Str("type", e.Type).Msg("Notification not delivered")
	}
}
