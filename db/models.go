package db

import "time"

type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // Hashed password
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PlayerStats is a player's record against the computer.
type PlayerStats struct {
	PlayerID  string    `json:"player_id" db:"player_id"`
	Wins      int       `json:"wins" db:"wins"`
	Losses    int       `json:"losses" db:"losses"`
	Elo       int       `json:"elo" db:"elo"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
