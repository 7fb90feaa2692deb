package ai

import "github.com/krishanu7/battleship-minimax/internal/game"

// Evaluator scores a board from the attacker's point of view. Higher is
// better for the attacker.
type Evaluator func(b *game.Board) float64

// Evaluate is the fraction of the fleet's cells that have been hit, in [0,1].
// A board with no ships scores 0.
func Evaluate(b *game.Board) float64 {
	total := b.FleetCells()
	if total == 0 {
		return 0
	}
	return float64(b.HitCells()) / float64(total)
}
