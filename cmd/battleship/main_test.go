package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/krishanu7/battleship-minimax/internal/ai"
	"github.com/krishanu7/battleship-minimax/internal/game"
	"github.com/krishanu7/battleship-minimax/internal/match"
)

func smallService() *match.Service {
	return match.NewService(match.NewMemoryStore(), ai.NewEngine(1),
		match.WithBoard(3, game.FleetFromSizes(2)),
		match.WithSeed(9),
	)
}

func TestPlayToTheEnd(t *testing.T) {
	input := "Z9\n\nA1\nA1\nA2\nA3\nB1\nB2\nB3\nC1\nC2\nC3\n"
	var out bytes.Buffer
	if err := play(context.Background(), smallService(), strings.NewReader(input), &out, false); err != nil {
		t.Fatalf("play: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Welcome to Battleship!", "Invalid move:", "Computer fires at", "Enemy waters:"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "You win") && !strings.Contains(got, "The computer wins") {
		t.Fatalf("no winner announced:\n%s", got)
	}
}

func TestPlayStopsAtEndOfInput(t *testing.T) {
	var out bytes.Buffer
	if err := play(context.Background(), smallService(), strings.NewReader(""), &out, true); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out.String(), "Your move>") {
		t.Fatalf("no prompt printed:\n%s", out.String())
	}
}

func TestAnnounce(t *testing.T) {
	var out bytes.Buffer
	announce(&out, &match.TurnResult{
		Player:   match.AttackReport{Label: "B3", Result: "sunk", Sunk: game.Destroyer},
		Computer: &match.AttackReport{Label: "A1", Result: "miss"},
	})
	got := out.String()
	for _, want := range []string{"Hit!", "You sunk my " + string(game.Destroyer) + "!", "Computer fires at A1: miss"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
