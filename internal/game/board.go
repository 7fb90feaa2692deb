package game

import "fmt"

// Outcome is the result of a resolved attack.
type Outcome uint8

const (
	OutcomeMiss Outcome = iota
	OutcomeHit
	OutcomeSunk
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeSunk:
		return "sunk"
	default:
		return "miss"
	}
}

// IsHit reports whether the attack struck a ship, sinking it or not.
func (o Outcome) IsHit() bool { return o != OutcomeMiss }

func NewBoard(size int) *Board {
	return &Board{
		Size: size,
		Grid: make([]Cell, size*size),
	}
}

func (b *Board) InBounds(c Coordinate) bool {
	return c.X >= 0 && c.X < b.Size && c.Y >= 0 && c.Y < b.Size
}

// At returns the state of the cell at c. c must be in bounds.
func (b *Board) At(c Coordinate) Cell {
	return b.Grid[c.Y*b.Size+c.X]
}

func (b *Board) set(c Coordinate, v Cell) {
	b.Grid[c.Y*b.Size+c.X] = v
}

// shipCells lists the cells a ship of the given size would cover, without
// checking them.
func shipCells(size int, origin Coordinate, o Orientation) []Coordinate {
	cells := make([]Coordinate, size)
	for i := range size {
		if o == Horizontal {
			cells[i] = Coordinate{X: origin.X + i, Y: origin.Y}
		} else {
			cells[i] = Coordinate{X: origin.X, Y: origin.Y + i}
		}
	}
	return cells
}

// CanPlace reports whether a ship of the given size fits at origin without
// leaving the grid or touching an occupied cell.
func (b *Board) CanPlace(size int, origin Coordinate, o Orientation) bool {
	return b.checkPlacement(size, origin, o) == nil
}

func (b *Board) checkPlacement(size int, origin Coordinate, o Orientation) error {
	if size <= 0 {
		return ErrInvalidShip
	}
	end := origin
	if o == Horizontal {
		end.X += size - 1
	} else {
		end.Y += size - 1
	}
	if !b.InBounds(origin) || !b.InBounds(end) {
		return ErrOutOfBounds
	}
	for _, c := range shipCells(size, origin, o) {
		if b.At(c) != Empty {
			return ErrOverlap
		}
	}
	return nil
}

// PlaceShip puts a ship on the board. The board is left untouched when the
// ship does not fit.
func (b *Board) PlaceShip(spec ShipSpec, origin Coordinate, o Orientation) error {
	if err := b.checkPlacement(spec.Size, origin, o); err != nil {
		return fmt.Errorf("place %s at %s %s: %w", shipLabel(spec), FormatCoordinate(origin), o, err)
	}
	cells := shipCells(spec.Size, origin, o)
	for _, c := range cells {
		b.set(c, Occupied)
	}
	b.Ships = append(b.Ships, Ship{Type: spec.Type, Size: spec.Size, Cells: cells})
	return nil
}

func shipLabel(spec ShipSpec) string {
	if spec.Type != "" {
		return string(spec.Type)
	}
	return fmt.Sprintf("ship of size %d", spec.Size)
}

// ShipAt returns the ship covering c, or nil.
func (b *Board) ShipAt(c Coordinate) *Ship {
	for i := range b.Ships {
		if b.Ships[i].Covers(c) {
			return &b.Ships[i]
		}
	}
	return nil
}

// Attack fires at c. An occupied cell becomes Hit and the owning ship takes
// the hit; an empty cell becomes Miss. Cells that were already fired upon are
// rejected with ErrAlreadyAttacked and nothing changes.
func (b *Board) Attack(c Coordinate) (Outcome, error) {
	if !b.InBounds(c) {
		return OutcomeMiss, ErrOutOfBounds
	}
	switch b.At(c) {
	case Hit, Miss:
		return OutcomeMiss, ErrAlreadyAttacked
	case Empty:
		b.set(c, Miss)
		return OutcomeMiss, nil
	}

	ship := b.ShipAt(c)
	if ship == nil {
		// Occupied cell with no owner breaks the board invariant.
		return OutcomeMiss, fmt.Errorf("%w: no ship covers occupied cell %s", ErrMalformedBoard, FormatCoordinate(c))
	}
	b.set(c, Hit)
	ship.Hits++
	if ship.Sunk() {
		return OutcomeSunk, nil
	}
	return OutcomeHit, nil
}

// AllShipsSunk reports whether every ship has taken as many hits as it has
// cells.
func (b *Board) AllShipsSunk() bool {
	for i := range b.Ships {
		if !b.Ships[i].Sunk() {
			return false
		}
	}
	return true
}

// FleetCells is the total size of all ships on the board.
func (b *Board) FleetCells() int {
	n := 0
	for i := range b.Ships {
		n += b.Ships[i].Size
	}
	return n
}

// HitCells counts cells in the Hit state.
func (b *Board) HitCells() int {
	n := 0
	for _, c := range b.Grid {
		if c == Hit {
			n++
		}
	}
	return n
}

// RemainingShipCells counts ship cells not yet hit.
func (b *Board) RemainingShipCells() int {
	n := 0
	for _, c := range b.Grid {
		if c == Occupied {
			n++
		}
	}
	return n
}

// LegalMoves lists every cell not yet attacked, row by row with x varying
// fastest: (0,0), (1,0), ..., (size-1,0), (0,1), ...
func (b *Board) LegalMoves() []Coordinate {
	moves := make([]Coordinate, 0, len(b.Grid))
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			c := Coordinate{X: x, Y: y}
			if !b.At(c).Attacked() {
				moves = append(moves, c)
			}
		}
	}
	return moves
}

// Clone returns a copy that shares no mutable state with b. Ship cell lists
// are shared because they never change after placement.
func (b *Board) Clone() *Board {
	out := &Board{
		Size:  b.Size,
		Grid:  make([]Cell, len(b.Grid)),
		Ships: make([]Ship, len(b.Ships)),
	}
	copy(out.Grid, b.Grid)
	copy(out.Ships, b.Ships)
	return out
}
