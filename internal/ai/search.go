// Package ai picks the computer's next shot with a depth-limited minimax
// search using alpha-beta pruning.
//
// The search runs on a single board: the maximizing layer is the computer
// firing at the human's board, and the minimizing layer is an adversary that
// also fires at that same board. Every simulated shot is applied to a fresh
// copy, so the real board is never touched.
package ai

import (
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-minimax/internal/game"
)

// DefaultDepth is the number of plies searched per move.
const DefaultDepth = 3

var (
	ErrNoMoves      = errors.New("no legal move to search")
	ErrInvalidDepth = errors.New("search depth must be at least 1")
)

// Stats describes one search.
type Stats struct {
	Nodes    int
	Cutoffs  int
	Score    float64
	Duration time.Duration
}

// Engine chooses moves. The zero value is not usable; call NewEngine.
type Engine struct {
	Depth    int
	Evaluate Evaluator
}

func NewEngine(depth int) *Engine {
	return &Engine{Depth: depth, Evaluate: Evaluate}
}

// ChooseMove returns the coordinate to attack next on b. b is read, never
// modified.
//
// Candidate moves are tried in game.Board.LegalMoves order (row by row, x
// fastest). On equal scores the first candidate wins, so the result is fully
// determined by the board.
func (e *Engine) ChooseMove(b *game.Board) (game.Coordinate, Stats, error) {
	start := time.Now()
	if e.Depth < 1 {
		return game.Coordinate{}, Stats{}, ErrInvalidDepth
	}
	if b.AllShipsSunk() || len(b.LegalMoves()) == 0 {
		return game.Coordinate{}, Stats{}, ErrNoMoves
	}

	s := &searcher{eval: e.Evaluate}
	if s.eval == nil {
		s.eval = Evaluate
	}
	move, score, ok := s.minimax(b, e.Depth, math.Inf(-1), math.Inf(1), true)
	st := Stats{Nodes: s.nodes, Cutoffs: s.cutoffs, Score: score, Duration: time.Since(start)}
	if !ok {
		return game.Coordinate{}, st, ErrNoMoves
	}

	log.Debug().
		Str("move", game.FormatCoordinate(move)).
		Int("depth", e.Depth).
		Int("nodes", st.Nodes).
		Int("cutoffs", st.Cutoffs).
		Float64("score", st.Score).
		Dur("dur", st.Duration).
		Msg("search finished")
	return move, st, nil
}

type searcher struct {
	eval    Evaluator
	nodes   int
	cutoffs int
}

// minimax returns the best move at this node, its score, and whether a move
// was found at all (false at terminal nodes).
func (s *searcher) minimax(b *game.Board, depth int, alpha, beta float64, maximizing bool) (game.Coordinate, float64, bool) {
	s.nodes++
	if depth == 0 || b.AllShipsSunk() {
		return game.Coordinate{}, s.eval(b), false
	}

	var best game.Coordinate
	found := false
	bestScore := math.Inf(1)
	if maximizing {
		bestScore = math.Inf(-1)
	}

	for _, move := range b.LegalMoves() {
		child := b.Clone()
		if _, err := child.Attack(move); err != nil {
			// LegalMoves only yields attackable cells.
			continue
		}
		_, score, _ := s.minimax(child, depth-1, alpha, beta, !maximizing)

		if maximizing {
			if !found || score > bestScore {
				best, bestScore, found = move, score, true
			}
			alpha = math.Max(alpha, score)
		} else {
			if !found || score < bestScore {
				best, bestScore, found = move, score, true
			}
			beta = math.Min(beta, score)
		}
		if beta <= alpha {
			s.cutoffs++
			break
		}
	}

	if !found {
		// Every cell has been fired upon: nothing left to play.
		return game.Coordinate{}, s.eval(b), false
	}
	return best, bestScore, true
}
