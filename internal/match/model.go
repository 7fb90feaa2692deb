package match

import (
	"errors"

	"github.com/krishanu7/battleship-minimax/internal/game"
)

var (
	ErrNotFound  = errors.New("match not found")
	ErrForbidden = errors.New("match belongs to another player")
	ErrMatchOver = errors.New("match is already over")
)

type Status string

const (
	StatusInProgress  Status = "in_progress"
	StatusPlayerWon   Status = "player_won"
	StatusComputerWon Status = "computer_won"
)

// Match is one game between a human and the computer. The human fires at
// ComputerBoard, the computer at PlayerBoard.
type Match struct {
	ID            string      `json:"id"`
	PlayerID      string      `json:"player_id"`
	PlayerBoard   *game.Board `json:"player_board"`
	ComputerBoard *game.Board `json:"computer_board"`
	Status        Status      `json:"status"`
	Turns         int         `json:"turns"`
	Depth         int         `json:"depth"`
	CreatedAt     int64       `json:"created_at"`
	UpdatedAt     int64       `json:"updated_at"`
}

func (m *Match) Over() bool { return m.Status != StatusInProgress }

// AttackReport describes a single shot.
type AttackReport struct {
	Coordinate game.Coordinate `json:"coordinate"`
	Label      string          `json:"label"`
	Result     string          `json:"result"`
	Sunk       game.ShipType   `json:"sunk,omitempty"`
}

// TurnResult is what one player move produces: the player's shot, the
// computer's reply (absent when the player's shot ended the match) and the
// match as it stands afterwards.
type TurnResult struct {
	Player   AttackReport  `json:"player"`
	Computer *AttackReport `json:"computer,omitempty"`
	Status   Status        `json:"status"`
	Match    View          `json:"match"`
}

// ShipStatus is what a player may know about a ship.
type ShipStatus struct {
	Type game.ShipType `json:"type,omitempty"`
	Size int           `json:"size"`
	Sunk bool          `json:"sunk"`
}

// BoardView is a board as shown to the player. Grid uses the game.Cell
// numbering, row-major.
type BoardView struct {
	Size  int          `json:"size"`
	Grid  []int        `json:"grid"`
	Ships []ShipStatus `json:"ships"`
}

// Board rebuilds a grid-only board from the view, enough for game.Render.
func (v BoardView) Board() *game.Board {
	b := game.NewBoard(v.Size)
	for i, c := range v.Grid {
		b.Grid[i] = game.Cell(c)
	}
	return b
}

type View struct {
	ID            string    `json:"id"`
	Status        Status    `json:"status"`
	Turns         int       `json:"turns"`
	PlayerBoard   BoardView `json:"player_board"`
	ComputerBoard BoardView `json:"computer_board"`
}

// View hides the computer's unhit ship cells until the match is over.
func (m *Match) View() View {
	return View{
		ID:            m.ID,
		Status:        m.Status,
		Turns:         m.Turns,
		PlayerBoard:   boardView(m.PlayerBoard, true),
		ComputerBoard: boardView(m.ComputerBoard, m.Over()),
	}
}

func boardView(b *game.Board, reveal bool) BoardView {
	v := BoardView{
		Size:  b.Size,
		Grid:  make([]int, len(b.Grid)),
		Ships: make([]ShipStatus, len(b.Ships)),
	}
	for i, c := range b.Grid {
		if c == game.Occupied && !reveal {
			c = game.Empty
		}
		v.Grid[i] = int(c)
	}
	for i := range b.Ships {
		v.Ships[i] = ShipStatus{Type: b.Ships[i].Type, Size: b.Ships[i].Size, Sunk: b.Ships[i].Sunk()}
	}
	return v
}

func report(b *game.Board, c game.Coordinate, out game.Outcome) AttackReport {
	r := AttackReport{Coordinate: c, Label: game.FormatCoordinate(c), Result: out.String()}
	if out == game.OutcomeSunk {
		if ship := b.ShipAt(c); ship != nil {
			r.Sunk = ship.Type
		}
	}
	return r
}
