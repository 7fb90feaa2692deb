package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/krishanu7/battleship-minimax/internal/ai"
	"github.com/krishanu7/battleship-minimax/internal/auth"
	"github.com/krishanu7/battleship-minimax/internal/game"
	"github.com/krishanu7/battleship-minimax/internal/match"
	wsPkg "github.com/krishanu7/battleship-minimax/pkg/websocket"
)

func asPlayer(playerID string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(auth.WithPlayerID(r.Context(), playerID)))
	})
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg Message) Reply {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply Reply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	return reply
}

func TestPlayOverWebsocket(t *testing.T) {
	store := match.NewMemoryStore()
	svc := match.NewService(store, ai.NewEngine(1), match.WithBoard(3, game.FleetFromSizes(2)), match.WithSeed(5))
	srv := httptest.NewServer(asPlayer("p1", NewHandler(svc).ServePlay))
	defer srv.Close()
	conn := dial(t, srv)

	reply := roundTrip(t, conn, Message{Type: TypeNewGame})
	if reply.Type != TypeMatchStarted || reply.Match == nil {
		t.Fatalf("unexpected reply %+v", reply)
	}
	id := reply.Match.ID

	m, err := store.Load(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	target := game.FormatCoordinate(m.ComputerBoard.Ships[0].Cells[0])

	reply = roundTrip(t, conn, Message{Type: TypeAttack, MatchID: id, Coordinate: target})
	if reply.Type != TypeTurnResult || reply.Result == nil || reply.Result.Player.Result != "hit" {
		t.Fatalf("unexpected reply %+v", reply)
	}

	reply = roundTrip(t, conn, Message{Type: TypeAttack, MatchID: id, Coordinate: target})
	if reply.Type != TypeError || reply.Message == "" {
		t.Fatalf("repeat attack reply = %+v, want an error", reply)
	}

	reply = roundTrip(t, conn, Message{Type: TypeGet, MatchID: id})
	if reply.Type != TypeMatch || reply.Match.Turns != 1 {
		t.Fatalf("unexpected reply %+v", reply)
	}

	reply = roundTrip(t, conn, Message{Type: "resign"})
	if reply.Type != TypeError {
		t.Fatalf("unknown type reply = %+v", reply)
	}
}

func TestServePlayRequiresPlayer(t *testing.T) {
	h := NewHandler(match.NewService(match.NewMemoryStore(), ai.NewEngine(1)))
	rec := httptest.NewRecorder()
	h.ServePlay(rec, httptest.NewRequest(http.MethodGet, "/ws/play", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}

func TestNotificationsReachPlayer(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	hub := wsPkg.NewHub()
	srv := httptest.NewServer(asPlayer("p1", NewNotificationHandler(hub).ServeNotifications))
	defer srv.Close()
	conn := dial(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewNotificationWorker(rdb, hub).Run(ctx) }()

	// Publish until the worker's subscription and the hub registration are
	// both in place.
	pub := match.NewRedisPublisher(rdb)
	event := match.Event{Type: match.EventMatchOver, MatchID: "m1", Player: "p1", Status: match.StatusComputerWon, Turns: 40}
	received := make(chan match.Event, 1)
	go func() {
		var e match.Event
		if err := conn.ReadJSON(&e); err == nil {
			received <- e
		}
	}()

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
loop:
	for {
		select {
		case got := <-received:
			if got != event {
				t.Fatalf("got %+v, want %+v", got, event)
			}
			break loop
		case <-ticker.C:
			if err := pub.Publish(ctx, event); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatalf("notification never arrived")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop")
	}
}
