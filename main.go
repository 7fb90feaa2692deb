package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-minimax/config"
	"github.com/krishanu7/battleship-minimax/internal/ai"
	"github.com/krishanu7/battleship-minimax/internal/auth"
	"github.com/krishanu7/battleship-minimax/internal/leaderboard"
	"github.com/krishanu7/battleship-minimax/internal/match"
	"github.com/krishanu7/battleship-minimax/internal/ws"
	"github.com/krishanu7/battleship-minimax/pkg/logger"
	"github.com/krishanu7/battleship-minimax/pkg/redis"
	wsPkg "github.com/krishanu7/battleship-minimax/pkg/websocket"
)

func main() {
	cfg := config.LoadConfig()
	logger.Setup(cfg.LogLevel, cfg.LogPretty)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect database")
	}

	rdb, err := redis.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect redis")
	}
	defer rdb.Close()

	authService := auth.NewService(db, cfg.JWTSecret)
	authHandler := auth.NewAuthHandler(authService)

	leaderboardService := leaderboard.NewService(db)
	leaderboardHandler := leaderboard.NewHandler(leaderboardService)

	matchService := match.NewService(
		match.NewRedisStore(rdb, cfg.MatchTTL),
		ai.NewEngine(cfg.SearchDepth),
		match.WithStats(leaderboardService),
		match.WithPublisher(match.NewRedisPublisher(rdb)),
	)
	matchHandler := match.NewHandler(matchService)

	hub := wsPkg.NewHub()
	playHandler := ws.NewHandler(matchService)
	notificationHandler := ws.NewNotificationHandler(hub)

	worker := ws.NewNotificationWorker(rdb, hub)
	go func() {
		if err := worker.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Notification worker failed")
		}
	}()

	protected := func(h http.HandlerFunc) http.Handler {
		return authService.Middleware(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/v1/leaderboard", leaderboardHandler.Get)
	mux.Handle("POST /api/v1/matches", protected(matchHandler.Create))
	mux.Handle("GET /api/v1/matches/{id}", protected(matchHandler.Get))
	mux.Handle("POST /api/v1/matches/{id}/attack", protected(matchHandler.Attack))
	mux.Handle("GET /ws/play", protected(playHandler.ServePlay))
	mux.Handle("GET /ws/notifications", protected(notificationHandler.ServeNotifications))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           logger.RequestLogger(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Int("depth", cfg.SearchDepth).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}
