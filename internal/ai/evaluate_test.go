package ai

import (
	"testing"

	"github.com/krishanu7/battleship-minimax/internal/game"
)

func TestEvaluateMonotonic(t *testing.T) {
	b, err := game.NewSeededPlacer(3).NewFleetBoard(game.DefaultBoardSize, game.StandardFleet)
	if err != nil {
		t.Fatal(err)
	}
	if got := Evaluate(b); got != 0 {
		t.Fatalf("Evaluate(fresh board) = %v, want 0", got)
	}

	for _, move := range b.LegalMoves() {
		before := Evaluate(b)
		out, err := b.Attack(move)
		if err != nil {
			t.Fatalf("Attack(%v): %v", move, err)
		}
		after := Evaluate(b)
		if out.IsHit() && after <= before {
			t.Fatalf("hit at %v: score %v -> %v, want increase", move, before, after)
		}
		if !out.IsHit() && after != before {
			t.Fatalf("miss at %v: score %v -> %v, want unchanged", move, before, after)
		}
		if after < 0 || after > 1 {
			t.Fatalf("score %v outside [0,1]", after)
		}
	}
	if got := Evaluate(b); got != 1 {
		t.Fatalf("Evaluate(cleared board) = %v, want 1", got)
	}
}

func TestEvaluateEmptyFleet(t *testing.T) {
	if got := Evaluate(game.NewBoard(3)); got != 0 {
		t.Fatalf("Evaluate(no ships) = %v, want 0", got)
	}
}
