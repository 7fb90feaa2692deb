package ws

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-minimax/internal/auth"
	"github.com/krishanu7/battleship-minimax/internal/match"
	wsPkg "github.com/krishanu7/battleship-minimax/pkg/websocket"
)

// Message is what clients send.
type Message struct {
	Type       string `json:"type"`
	MatchID    string `json:"matchId,omitempty"`
	Coordinate string `json:"coordinate,omitempty"`
}

// Reply is what the server sends back.
type Reply struct {
	Type    string            `json:"type"`
	Match   *match.View       `json:"match,omitempty"`
	Result  *match.TurnResult `json:"result,omitempty"`
	Message string            `json:"message,omitempty"`
}

const (
	TypeNewGame      = "new_game"
	TypeAttack       = "attack"
	TypeGet          = "get"
	TypeMatchStarted = "match_started"
	TypeMatch        = "match"
	TypeTurnResult   = "turn_result"
	TypeError        = "error"
)

type Handler struct {
	matches *match.Service
}

func NewHandler(matches *match.Service) *Handler {
	return &Handler{
		matches: matches,
	}
}

// ServePlay upgrades an authenticated request and plays matches over the
// connection until the client goes away.
func (h *Handler) ServePlay(w http.ResponseWriter, r *http.Request) {
	playerID, ok := auth.PlayerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := wsPkg.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Upgrade failed")
		return
	}

	client := wsPkg.NewClient(playerID, conn)
	log.Info().Str("player", playerID).Msg("Player connected")
	go func() {
		if err := client.WritePump(); err != nil {
			log.Debug().Err(err).Str("player", playerID).Msg("Write error")
		}
	}()
	h.read(r, client)
}

func (h *Handler) read(r *http.Request, c *wsPkg.Client) {
	defer close(c.Send)
	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("player", c.ID).Msg("Read error")
			return
		}
		var message Message
		if err := json.Unmarshal(msg, &message); err != nil {
			send(c, Reply{Type: TypeError, Message: "invalid message"})
			continue
		}
		send(c, h.handle(r, c.ID, message))
	}
}

func (h *Handler) handle(r *http.Request, playerID string, msg Message) Reply {
	ctx := r.Context()
	switch msg.Type {
	case TypeNewGame:
		m, err := h.matches.NewMatch(ctx, playerID)
		if err != nil {
			log.Error().Err(err).Str("player", playerID).Msg("Failed to create match")
			return Reply{Type: TypeError, Message: "failed to create match"}
		}
		v := m.View()
		return Reply{Type: TypeMatchStarted, Match: &v}
	case TypeGet:
		m, err := h.matches.Get(ctx, msg.MatchID, playerID)
		if err != nil {
			return Reply{Type: TypeError, Message: err.Error()}
		}
		v := m.View()
		return Reply{Type: TypeMatch, Match: &v}
	case TypeAttack:
		res, err := h.matches.Attack(ctx, msg.MatchID, playerID, msg.Coordinate)
		if err != nil {
			if match.StatusFor(err) == http.StatusInternalServerError {
				log.Error().Err(err).Str("player", playerID).Msg("Failed to process attack")
			}
			return Reply{Type: TypeError, Message: err.Error()}
		}
		return Reply{Type: TypeTurnResult, Result: res}
	default:
		return Reply{Type: TypeError, Message: "unknown message type " + msg.Type}
	}
}

func send(c *wsPkg.Client, reply Reply) {
	data, err := json.Marshal(reply)
	if err != nil {
		log.Error().Err(err).Str("type", reply.Type).Msg("Failed to marshal reply")
		return
	}
	c.Send <- data
}
