package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/krishanu7/battleship-minimax/db"
)

var (
	ErrMissingFields      = errors.New("username, email and password cannot be empty")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const tokenTTL = 24 * time.Hour

type Service struct {
	db     *sql.DB
	secret []byte
}

func NewService(db *sql.DB, jwtSecret string) *Service {
	return &Service{
		db:     db,
		secret: []byte(jwtSecret),
	}
}

const insertUser = `INSERT INTO users (id, username, email, password, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id, username, email, created_at`

func (s *Service) Register(ctx context.Context, username, email, password string) (db.User, error) {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return db.User{}, ErrMissingFields
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return db.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var user db.User
	err = s.db.QueryRowContext(ctx, insertUser, uuid.New(), username, email, string(hashedPassword), time.Now()).
		Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_username_key":
				return db.User{}, fmt.Errorf("%w: username %q is taken", ErrUserExists, username)
			case "users_email_key":
				return db.User{}, fmt.Errorf("%w: email %q is taken", ErrUserExists, email)
			}
			return db.User{}, ErrUserExists
		}
		return db.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	user.Password = string(hashedPassword)
	return user, nil
}

const selectUser = `SELECT id, username, email, password, created_at FROM users WHERE username = $1`

// Login checks the password and returns a signed token carrying the user ID.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	var user db.User
	err := s.db.QueryRowContext(ctx, selectUser, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken(user.ID)
}

// IssueToken signs an HS256 token for userID valid for 24 hours.
func (s *Service) IssueToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ParseToken validates the signature and expiry and returns the user ID.
func (s *Service) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}
