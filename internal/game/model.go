package game

import "encoding/json"

// DefaultBoardSize is the side length of a standard board.
const DefaultBoardSize = 10

type ShipType string

const (
	Carrier    ShipType = "Carrier"
	Battleship ShipType = "Battleship"
	Cruiser    ShipType = "Cruiser"
	Submarine  ShipType = "Submarine"
	Destroyer  ShipType = "Destroyer"
)

// ShipSpec describes one fleet member before it is placed.
type ShipSpec struct {
	Type ShipType `json:"type"`
	Size int      `json:"size"`
}

// StandardFleet is placed in this order on every new board.
var StandardFleet = []ShipSpec{
	{Carrier, 5},
	{Battleship, 4},
	{Cruiser, 3},
	{Submarine, 3},
	{Destroyer, 2},
}

// FleetFromSizes builds an unnamed fleet, mostly for small test boards.
func FleetFromSizes(sizes ...int) []ShipSpec {
	fleet := make([]ShipSpec, len(sizes))
	for i, size := range sizes {
		fleet[i] = ShipSpec{Size: size}
	}
	return fleet
}

// FleetCells is the total number of cells the fleet occupies.
func FleetCells(fleet []ShipSpec) int {
	n := 0
	for _, s := range fleet {
		n += s.Size
	}
	return n
}

// Cell is the state of a single grid square.
type Cell uint8

const (
	Empty Cell = iota
	Occupied
	Hit
	Miss
)

var cellNames = [...]string{"empty", "occupied", "hit", "miss"}

func (c Cell) String() string {
	if int(c) < len(cellNames) {
		return cellNames[c]
	}
	return "unknown"
}

// Attacked reports whether the cell has already been fired upon.
func (c Cell) Attacked() bool { return c == Hit || c == Miss }

type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) String() string { return FormatCoordinate(c) }

// Ship is a placed fleet member. Cells never change after placement; only
// Hits is mutated, by Board.Attack.
type Ship struct {
	Type  ShipType     `json:"type,omitempty"`
	Size  int          `json:"size"`
	Cells []Coordinate `json:"cells"`
	Hits  int          `json:"hits"`
}

func (s *Ship) Sunk() bool { return s.Hits == s.Size }

// Covers reports whether c is one of the ship's cells.
func (s *Ship) Covers(c Coordinate) bool {
	for _, cell := range s.Cells {
		if cell == c {
			return true
		}
	}
	return false
}

// Board is a square grid of cells plus the ships placed on it, in placement
// order. Grid is row-major: the cell at (x, y) lives at Grid[y*Size+x].
type Board struct {
	Size  int    `json:"size"`
	Grid  []Cell `json:"grid"`
	Ships []Ship `json:"ships"`
}

// MarshalJSON keeps Grid readable as a list of small integers instead of the
// base64 string encoding/json would produce for a byte slice.
func (b Board) MarshalJSON() ([]byte, error) {
	grid := make([]int, len(b.Grid))
	for i, c := range b.Grid {
		grid[i] = int(c)
	}
	return json.Marshal(struct {
		Size  int    `json:"size"`
		Grid  []int  `json:"grid"`
		Ships []Ship `json:"ships"`
	}{b.Size, grid, b.Ships})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw struct {
		Size  int    `json:"size"`
		Grid  []int  `json:"grid"`
		Ships []Ship `json:"ships"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Grid) != raw.Size*raw.Size {
		return ErrMalformedBoard
	}
	b.Size = raw.Size
	b.Grid = make([]Cell, len(raw.Grid))
	for i, v := range raw.Grid {
		if v < int(Empty) || v > int(Miss) {
			return ErrMalformedBoard
		}
		b.Grid[i] = Cell(v)
	}
	b.Ships = raw.Ships
	return nil
}
