package ws

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-minimax/internal/auth"
	wsPkg "github.com/krishanu7/battleship-minimax/pkg/websocket"
)

type NotificationHandler struct {
	Hub *wsPkg.Hub
}

func NewNotificationHandler(hub *wsPkg.Hub) *NotificationHandler {
	return &NotificationHandler{
		Hub: hub,
	}
}

// ServeNotifications registers the player's connection in the hub. Clients
// only listen on this socket; anything they send is discarded.
func (h *NotificationHandler) ServeNotifications(w http.ResponseWriter, r *http.Request) {
	playerID, ok := auth.PlayerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := wsPkg.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Notification upgrade failed")
		return
	}

	client := wsPkg.NewClient(playerID, conn)
	h.Hub.AddClient(client)

	go func() {
		if err := client.WritePump(); err != nil {
			log.Debug().Err(err).Str("player", playerID).Msg("Notification write error")
		}
	}()
	go h.read(client)
}

func (h *NotificationHandler) read(c *wsPkg.Client) {
	defer h.Hub.RemoveClient(c)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			log.Debug().Err(err).Str("player", c.ID).Msg("Notification read error")
			return
		}
	}
}
