package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-minimax/db"
)

const (
	// ComputerElo is the fixed rating of the computer opponent.
	ComputerElo = 1500
	// StartingElo is assigned to a player's first recorded match.
	StartingElo = 1500
	kFactor     = 32

	DefaultLimit = 10
	MaxLimit     = 100
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

type LeaderboardEntry struct {
	PlayerID  string    `json:"player_id"`
	Username  string    `json:"username"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	Elo       int       `json:"elo"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	selectStats = `SELECT player_id, wins, losses, elo FROM stats WHERE player_id = $1`
	upsertStats = `INSERT INTO stats (player_id, wins, losses, elo, updated_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (player_id) DO UPDATE SET wins = $2, losses = $3, elo = $4, updated_at = $5`
	selectBoard = `SELECT s.player_id, u.username, s.wins, s.losses, s.elo, s.updated_at FROM stats s JOIN users u ON s.player_id = u.id ORDER BY s.elo DESC, s.wins DESC LIMIT $1`
)

// NewElo returns the rating after one game against an opponent rated
// opponent. won selects the actual score (1 or 0).
func NewElo(rating, opponent int, won bool) int {
	expected := 1 / (1 + math.Pow(10, float64(opponent-rating)/400))
	score := 0.0
	if won {
		score = 1
	}
	return rating + int(math.Round(kFactor*(score-expected)))
}

// RecordResult adds a win or loss against the computer to the player's stats.
func (s *Service) RecordResult(ctx context.Context, playerID string, won bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin stats transaction: %w", err)
	}
	defer tx.Rollback()

	var stats db.PlayerStats
	err = tx.QueryRowContext(ctx, selectStats, playerID).
		Scan(&stats.PlayerID, &stats.Wins, &stats.Losses, &stats.Elo)
	if errors.Is(err, sql.ErrNoRows) {
		stats = db.PlayerStats{PlayerID: playerID, Elo: StartingElo}
	} else if err != nil {
		return fmt.Errorf("failed to get player stats: %w", err)
	}

	if won {
		stats.Wins++
	} else {
		stats.Losses++
	}
	stats.Elo = NewElo(stats.Elo, ComputerElo, won)

	if _, err := tx.ExecContext(ctx, upsertStats, playerID, stats.Wins, stats.Losses, stats.Elo, time.Now()); err != nil {
		return fmt.Errorf("failed to update player stats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit player stats: %w", err)
	}
	log.Info().Str("player", playerID).Bool("won", won).Int("wins", stats.Wins).Int("losses", stats.Losses).Int("elo", stats.Elo).Msg("Updated stats")
	return nil
}

func (s *Service) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	rows, err := s.db.QueryContext(ctx, selectBoard, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	leaderboard := []LeaderboardEntry{}
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.PlayerID, &entry.Username, &entry.Wins, &entry.Losses, &entry.Elo, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		leaderboard = append(leaderboard, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return leaderboard, nil
}
