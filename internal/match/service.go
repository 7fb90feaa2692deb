package match

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-minimax/internal/ai"
	"github.com/krishanu7/battleship-minimax/internal/game"
)

// StatsRecorder is told the outcome of every finished match.
type StatsRecorder interface {
	RecordResult(ctx context.Context, playerID string, won bool) error
}

type Service struct {
	store     Store
	engine    *ai.Engine
	stats     StatsRecorder
	events    Publisher
	boardSize int
	fleet     []game.ShipSpec
	newRand   func() *rand.Rand
	locks     matchLocks
}

type Option func(*Service)

func WithStats(r StatsRecorder) Option { return func(s *Service) { s.stats = r } }

func WithPublisher(p Publisher) Option { return func(s *Service) { s.events = p } }

// WithBoard changes the board size and fleet of new matches.
func WithBoard(size int, fleet []game.ShipSpec) Option {
	return func(s *Service) {
		s.boardSize = size
		s.fleet = fleet
	}
}

// WithSeed makes every new match use the same fixed random sequence.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.newRand = func() *rand.Rand { return rand.New(rand.NewSource(seed)) }
	}
}

func NewService(store Store, engine *ai.Engine, opts ...Option) *Service {
	s := &Service{
		store:     store,
		engine:    engine,
		boardSize: game.DefaultBoardSize,
		fleet:     game.StandardFleet,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		locks: matchLocks{locks: make(map[string]*matchLock)},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewMatch lays out both fleets and stores the match. The two boards take
// consecutive draws from one random source, so neither layout depends on
// the other.
func (s *Service) NewMatch(ctx context.Context, playerID string) (*Match, error) {
	if playerID == "" {
		return nil, fmt.Errorf("player id cannot be empty")
	}
	placer := game.NewPlacer(s.newRand())
	playerBoard, err := placer.NewFleetBoard(s.boardSize, s.fleet)
	if err != nil {
		return nil, fmt.Errorf("failed to place player fleet: %w", err)
	}
	computerBoard, err := placer.NewFleetBoard(s.boardSize, s.fleet)
	if err != nil {
		return nil, fmt.Errorf("failed to place computer fleet: %w", err)
	}

	now := time.Now().Unix()
	m := &Match{
		ID:            uuid.NewString(),
		PlayerID:      playerID,
		PlayerBoard:   playerBoard,
		ComputerBoard: computerBoard,
		Status:        StatusInProgress,
		Depth:         s.engine.Depth,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to store match: %w", err)
	}
	log.Info().Str("match", m.ID).Str("player", playerID).Int("depth", m.Depth).Msg("Match started")
	s.publish(ctx, Event{Type: EventMatchStarted, MatchID: m.ID, Player: playerID, Status: m.Status})
	return m, nil
}

// Get returns the match if it belongs to playerID.
func (s *Service) Get(ctx context.Context, matchID, playerID string) (*Match, error) {
	m, err := s.store.Load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.PlayerID != playerID {
		return nil, ErrForbidden
	}
	return m, nil
}

// Attack plays one full turn: the player fires at target, then, unless that
// shot won the match, the computer searches for and fires its reply. Nothing
// is stored unless the whole turn succeeds.
//
// target is parsed with game.ParseCoordinate.
func (s *Service) Attack(ctx context.Context, matchID, playerID, target string) (*TurnResult, error) {
	unlock := s.locks.lock(matchID)
	defer unlock()

	m, err := s.Get(ctx, matchID, playerID)
	if err != nil {
		return nil, err
	}
	if m.Over() {
		return nil, ErrMatchOver
	}

	c, err := game.ParseCoordinate(target, m.ComputerBoard.Size)
	if err != nil {
		return nil, err
	}
	out, err := m.ComputerBoard.Attack(c)
	if err != nil {
		return nil, fmt.Errorf("attack %s: %w", game.FormatCoordinate(c), err)
	}
	res := &TurnResult{Player: report(m.ComputerBoard, c, out)}
	log.Debug().Str("match", m.ID).Str("coordinate", res.Player.Label).Str("result", res.Player.Result).Msg("Player attacked")

	if m.ComputerBoard.AllShipsSunk() {
		m.Status = StatusPlayerWon
	} else {
		move, st, err := s.engine.ChooseMove(m.PlayerBoard)
		if err != nil {
			return nil, fmt.Errorf("failed to choose computer move: %w", err)
		}
		out, err := m.PlayerBoard.Attack(move)
		if err != nil {
			return nil, fmt.Errorf("computer attack %s: %w", game.FormatCoordinate(move), err)
		}
		r := report(m.PlayerBoard, move, out)
		res.Computer = &r
		log.Debug().
			Str("match", m.ID).
			Str("coordinate", r.Label).
			Str("result", r.Result).
			Int("nodes", st.Nodes).
			Dur("dur", st.Duration).
			Msg("Computer attacked")
		if m.PlayerBoard.AllShipsSunk() {
			m.Status = StatusComputerWon
		}
	}

	m.Turns++
	m.UpdatedAt = time.Now().Unix()
	res.Status = m.Status
	res.Match = m.View()

	if m.Over() {
		s.finish(ctx, m)
		return res, nil
	}
	if err := s.store.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to store match: %w", err)
	}
	return res, nil
}

// finish records the result and drops the match. Failures here are logged;
// the turn itself has already been decided.
func (s *Service) finish(ctx context.Context, m *Match) {
	log.Info().Str("match", m.ID).Str("player", m.PlayerID).Str("status", string(m.Status)).Int("turns", m.Turns).Msg("Match over")
	if s.stats != nil {
		if err := s.stats.RecordResult(ctx, m.PlayerID, m.Status == StatusPlayerWon); err != nil {
			log.Error().Err(err).Str("player", m.PlayerID).Msg("Failed to update player stats")
		}
	}
	s.publish(ctx, Event{Type: EventMatchOver, MatchID: m.ID, Player: m.PlayerID, Status: m.Status, Turns: m.Turns})
	if err := s.store.Delete(ctx, m.ID); err != nil {
		log.Error().Err(err).Str("match", m.ID).Msg("Failed to delete finished match")
	}
}

func (s *Service) publish(ctx context.Context, e Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		log.Error().Err(err).Str("match", e.MatchID).Str("type", e.Type).Msg("Failed to publish event")
	}
}

// matchLocks serializes turns per match while letting different matches
// proceed in parallel.
type matchLocks struct {
	mu    sync.Mutex
	locks map[string]*matchLock
}

type matchLock struct {
	sync.Mutex
	refs int
}

func (l *matchLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	ml, ok := l.locks[id]
	if !ok {
		ml = &matchLock{}
		l.locks[id] = ml
	}
	ml.refs++
	l.mu.Unlock()

	ml.Lock()
	return func() {
		ml.Unlock()
		l.mu.Lock()
		ml.refs--
		if ml.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
