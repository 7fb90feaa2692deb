package match

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/krishanu7/battleship-minimax/internal/ai"
	"github.com/krishanu7/battleship-minimax/internal/game"
)

type fakeStats struct {
	mu      sync.Mutex
	results map[string][]bool
}

func (f *fakeStats) RecordResult(_ context.Context, playerID string, won bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.results == nil {
		f.results = make(map[string][]bool)
	}
	f.results[playerID] = append(f.results[playerID], won)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (f *fakePublisher) Publish(_ context.Context, e Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

type fixture struct {
	svc    *Service
	store  *MemoryStore
	stats  *fakeStats
	events *fakePublisher
}

// newFixture plays on a 3x3 board with a single two-cell ship per side.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: NewMemoryStore(), stats: &fakeStats{}, events: &fakePublisher{}}
	f.svc = NewService(f.store, ai.NewEngine(1),
		WithStats(f.stats),
		WithPublisher(f.events),
		WithBoard(3, game.FleetFromSizes(2)),
		WithSeed(7),
	)
	return f
}

func cellsWith(b *game.Board, want game.Cell) []game.Coordinate {
	var out []game.Coordinate
	for _, c := range b.LegalMoves() {
		if b.At(c) == want {
			out = append(out, c)
		}
	}
	return out
}

func TestNewMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.NewMatch(ctx, "p1")
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if m.Status != StatusInProgress || m.Turns != 0 || m.Depth != 1 {
		t.Fatalf("unexpected new match %+v", m)
	}
	for _, b := range []*game.Board{m.PlayerBoard, m.ComputerBoard} {
		if b.Size != 3 || b.FleetCells() != 2 || len(cellsWith(b, game.Occupied)) != 2 {
			t.Fatalf("board not laid out: %+v", b)
		}
	}
	if f.store.Len() != 1 {
		t.Fatalf("store holds %d matches, want 1", f.store.Len())
	}
	if len(f.events.events) != 1 || f.events.events[0].Type != EventMatchStarted {
		t.Fatalf("events = %+v", f.events.events)
	}

	view := m.View()
	if got := countCells(view.ComputerBoard.Grid, game.Occupied); got != 0 {
		t.Fatalf("view reveals %d computer ship cells", got)
	}
	if got := countCells(view.PlayerBoard.Grid, game.Occupied); got != 2 {
		t.Fatalf("view shows %d of the player's ship cells, want 2", got)
	}

	if _, err := f.svc.NewMatch(ctx, ""); err == nil {
		t.Fatalf("expected an error for an empty player id")
	}
}

func TestAttackPlayerWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, err := f.svc.NewMatch(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	targets := cellsWith(m.ComputerBoard, game.Occupied)

	res, err := f.svc.Attack(ctx, m.ID, "p1", game.FormatCoordinate(targets[0]))
	if err != nil {
		t.Fatalf("first attack: %v", err)
	}
	if res.Player.Result != "hit" || res.Computer == nil || res.Status != StatusInProgress {
		t.Fatalf("unexpected first turn %+v", res)
	}
	if res.Match.Turns != 1 {
		t.Fatalf("turns = %d, want 1", res.Match.Turns)
	}
	// The engine sees the player's fleet and goes straight for it.
	if res.Computer.Result != "hit" {
		t.Fatalf("computer reply = %+v, want a hit", res.Computer)
	}

	res, err = f.svc.Attack(ctx, m.ID, "p1", game.FormatCoordinate(targets[1]))
	if err != nil {
		t.Fatalf("second attack: %v", err)
	}
	if res.Player.Result != "sunk" || res.Status != StatusPlayerWon {
		t.Fatalf("unexpected final turn %+v", res)
	}
	if res.Computer != nil {
		t.Fatalf("computer moved after losing: %+v", res.Computer)
	}
	if f.store.Len() != 0 {
		t.Fatalf("finished match was not deleted")
	}
	if got := f.stats.results["p1"]; len(got) != 1 || !got[0] {
		t.Fatalf("stats = %v, want one win", got)
	}
	last := f.events.events[len(f.events.events)-1]
	if last.Type != EventMatchOver || last.Status != StatusPlayerWon || last.Turns != 2 {
		t.Fatalf("last event = %+v", last)
	}

	if _, err := f.svc.Attack(ctx, m.ID, "p1", "A1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("attack after finish: err = %v, want ErrNotFound", err)
	}
}

func countCells(grid []int, want game.Cell) int {
	n := 0
	for _, c := range grid {
		if game.Cell(c) == want {
			n++
		}
	}
	return n
}

func TestAttackComputerWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, err := f.svc.NewMatch(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	misses := cellsWith(m.ComputerBoard, game.Empty)

	res, err := f.svc.Attack(ctx, m.ID, "p1", game.FormatCoordinate(misses[0]))
	if err != nil {
		t.Fatal(err)
	}
	if res.Player.Result != "miss" || res.Status != StatusInProgress {
		t.Fatalf("unexpected first turn %+v", res)
	}

	res, err = f.svc.Attack(ctx, m.ID, "p1", game.FormatCoordinate(misses[1]))
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusComputerWon || res.Computer == nil || res.Computer.Result != "sunk" {
		t.Fatalf("unexpected final turn %+v", res)
	}
	if got := countCells(res.Match.ComputerBoard.Grid, game.Occupied); got != 2 {
		t.Fatalf("finished view reveals %d computer ship cells, want 2", got)
	}
	if got := f.stats.results["p1"]; len(got) != 1 || got[0] {
		t.Fatalf("stats = %v, want one loss", got)
	}
	if f.store.Len() != 0 {
		t.Fatalf("finished match was not deleted")
	}
}

func TestAttackRejectsWithoutChangingMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, err := f.svc.NewMatch(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	miss := game.FormatCoordinate(cellsWith(m.ComputerBoard, game.Empty)[0])
	if _, err := f.svc.Attack(ctx, m.ID, "p1", miss); err != nil {
		t.Fatal(err)
	}
	before, err := f.store.Load(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		matchID  string
		playerID string
		target   string
		want     error
	}{
		{"already attacked", m.ID, "p1", miss, game.ErrAlreadyAttacked},
		{"out of bounds", m.ID, "p1", "D1", game.ErrOutOfBounds},
		{"garbage", m.ID, "p1", "??", game.ErrInvalidCoordinate},
		{"other player", m.ID, "p2", "A1", ErrForbidden},
		{"unknown match", "nope", "p1", "A1", ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Attack(ctx, tc.matchID, tc.playerID, tc.target)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	after, err := f.store.Load(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Turns != before.Turns || after.PlayerBoard.HitCells() != before.PlayerBoard.HitCells() {
		t.Fatalf("rejected attacks changed the match: before %+v after %+v", before, after)
	}
	for i := range before.ComputerBoard.Grid {
		if before.ComputerBoard.Grid[i] != after.ComputerBoard.Grid[i] {
			t.Fatalf("computer board changed at %d", i)
		}
	}
}

func TestGetChecksOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, err := f.svc.NewMatch(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.svc.Get(ctx, m.ID, "p1")
	if err != nil || got.ID != m.ID {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if _, err := f.svc.Get(ctx, m.ID, "p2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestConcurrentAttacksAreSerialized(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, ai.NewEngine(1), WithSeed(3))
	ctx := context.Background()
	m, err := svc.NewMatch(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}

	// Every goroutine fires at the same cell; exactly one may succeed.
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Attack(ctx, m.ID, "p1", "J10"); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ok != 1 {
		t.Fatalf("%d attacks succeeded, want 1", ok)
	}
	got, err := store.Load(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Turns != 1 {
		t.Fatalf("turns = %d, want 1", got.Turns)
	}
	if len(svc.locks.locks) != 0 {
		t.Fatalf("%d match locks leaked", len(svc.locks.locks))
	}
}
