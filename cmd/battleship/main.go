package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-minimax/internal/ai"
	"github.com/krishanu7/battleship-minimax/internal/game"
	"github.com/krishanu7/battleship-minimax/internal/match"
	"github.com/krishanu7/battleship-minimax/pkg/logger"
)

const localPlayer = "you"

func main() {
	depth := flag.Int("depth", ai.DefaultDepth, "computer search depth")
	seed := flag.Int64("seed", 0, "fleet placement seed (0 picks one at random)")
	reveal := flag.Bool("reveal", false, "show the computer's ships")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger.Setup(*logLevel, true)
	if *depth < 1 {
		log.Fatal().Int("depth", *depth).Msg("depth must be at least 1")
	}

	var opts []match.Option
	if *seed != 0 {
		opts = append(opts, match.WithSeed(*seed))
	}
	svc := match.NewService(match.NewMemoryStore(), ai.NewEngine(*depth), opts...)

	if err := play(context.Background(), svc, os.Stdin, os.Stdout, *reveal); err != nil {
		log.Fatal().Err(err).Msg("Game aborted")
	}
}

// play runs one match, reading the player's moves from in. It returns nil
// when the match ends or the input runs out.
func play(ctx context.Context, svc *match.Service, in io.Reader, out io.Writer, reveal bool) error {
	m, err := svc.NewMatch(ctx, localPlayer)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Welcome to Battleship! Enter targets like B3.")

	scanner := bufio.NewScanner(in)
	for {
		m, err = svc.Get(ctx, m.ID, localPlayer)
		if err != nil {
			return err
		}
		if err := printBoards(out, m.PlayerBoard, m.ComputerBoard, reveal); err != nil {
			return err
		}

		fmt.Fprint(out, "Your move> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		target := strings.TrimSpace(scanner.Text())
		if target == "" {
			continue
		}

		res, err := svc.Attack(ctx, m.ID, localPlayer, target)
		if err != nil {
			if match.StatusFor(err) >= 500 {
				return err
			}
			fmt.Fprintf(out, "Invalid move: %v\n", err)
			continue
		}

		announce(out, res)
		if res.Status == match.StatusInProgress {
			continue
		}

		if err := printBoards(out, res.Match.PlayerBoard.Board(), res.Match.ComputerBoard.Board(), true); err != nil {
			return err
		}
		if res.Status == match.StatusPlayerWon {
			fmt.Fprintf(out, "You win in %d turns!\n", res.Match.Turns)
		} else {
			fmt.Fprintf(out, "The computer wins in %d turns.\n", res.Match.Turns)
		}
		return nil
	}
}

func announce(out io.Writer, res *match.TurnResult) {
	switch res.Player.Result {
	case game.OutcomeMiss.String():
		fmt.Fprintln(out, "Miss!")
	case game.OutcomeSunk.String():
		fmt.Fprintln(out, "Hit!")
		fmt.Fprintf(out, "You sunk my %s!\n", shipName(res.Player.Sunk))
	default:
		fmt.Fprintln(out, "Hit!")
	}

	if c := res.Computer; c != nil {
		fmt.Fprintf(out, "Computer fires at %s: %s\n", c.Label, c.Result)
		if c.Sunk != "" || c.Result == game.OutcomeSunk.String() {
			fmt.Fprintf(out, "The computer sunk your %s!\n", shipName(c.Sunk))
		}
	}
}

func shipName(t game.ShipType) string {
	if t == "" {
		return "ship"
	}
	return string(t)
}

func printBoards(out io.Writer, own, enemy *game.Board, reveal bool) error {
	fmt.Fprintln(out, "\nYour fleet:")
	if err := game.Render(out, own, true); err != nil {
		return fmt.Errorf("failed to render board: %w", err)
	}
	fmt.Fprintln(out, "\nEnemy waters:")
	if err := game.Render(out, enemy, reveal); err != nil {
		return fmt.Errorf("failed to render board: %w", err)
	}
	return nil
}
