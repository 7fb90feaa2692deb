package game

import (
	"fmt"
	"math/rand"
	"time"
)

// DefaultMaxAttempts bounds the random draws spent on a single ship.
const DefaultMaxAttempts = 10000

// Placer lays a fleet out on a board with rejection sampling: draw an origin
// and orientation uniformly, keep it if the ship fits, otherwise draw again.
// A Placer is not safe for concurrent use; give each goroutine its own.
type Placer struct {
	rng         *rand.Rand
	MaxAttempts int
}

func NewPlacer(rng *rand.Rand) *Placer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Placer{rng: rng, MaxAttempts: DefaultMaxAttempts}
}

// NewSeededPlacer gives the same layouts for the same seed.
func NewSeededPlacer(seed int64) *Placer {
	return NewPlacer(rand.New(rand.NewSource(seed)))
}

// Place adds every ship of the fleet to b in order. If any ship cannot be
// placed within MaxAttempts draws, b is restored to its state before the
// call and ErrPlacementExhausted is returned.
func (p *Placer) Place(b *Board, fleet []ShipSpec) error {
	gridBefore := make([]Cell, len(b.Grid))
	copy(gridBefore, b.Grid)
	shipsBefore := len(b.Ships)

	for _, spec := range fleet {
		if spec.Size <= 0 || spec.Size > b.Size {
			b.restore(gridBefore, shipsBefore)
			return fmt.Errorf("place %s: %w", shipLabel(spec), ErrInvalidShip)
		}
		placed := false
		for attempt := 0; attempt < p.maxAttempts(); attempt++ {
			origin := Coordinate{X: p.rng.Intn(b.Size), Y: p.rng.Intn(b.Size)}
			o := Horizontal
			if p.rng.Intn(2) == 1 {
				o = Vertical
			}
			if !b.CanPlace(spec.Size, origin, o) {
				continue
			}
			if err := b.PlaceShip(spec, origin, o); err != nil {
				b.restore(gridBefore, shipsBefore)
				return err
			}
			placed = true
			break
		}
		if !placed {
			b.restore(gridBefore, shipsBefore)
			return fmt.Errorf("place %s after %d attempts: %w", shipLabel(spec), p.maxAttempts(), ErrPlacementExhausted)
		}
	}
	return nil
}

func (p *Placer) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

func (b *Board) restore(grid []Cell, ships int) {
	copy(b.Grid, grid)
	b.Ships = b.Ships[:ships]
}

// NewFleetBoard returns a board of the given size with the fleet placed.
func (p *Placer) NewFleetBoard(size int, fleet []ShipSpec) (*Board, error) {
	b := NewBoard(size)
	if err := p.Place(b, fleet); err != nil {
		return nil, err
	}
	return b, nil
}
