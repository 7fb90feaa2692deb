package match

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-minimax/internal/auth"
	"github.com/krishanu7/battleship-minimax/internal/game"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{
		service: s,
	}
}

type AttackRequest struct {
	Coordinate string `json:"coordinate"`
}

// Create starts a new match for the authenticated player.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	playerID, ok := auth.PlayerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	m, err := h.service.NewMatch(r.Context(), playerID)
	if err != nil {
		log.Error().Err(err).Str("player", playerID).Msg("Failed to create match")
		writeError(w, http.StatusInternalServerError, "failed to create match")
		return
	}
	writeJSON(w, http.StatusCreated, m.View())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	playerID, ok := auth.PlayerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	m, err := h.service.Get(r.Context(), r.PathValue("id"), playerID)
	if err != nil {
		writeError(w, StatusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m.View())
}

func (h *Handler) Attack(w http.ResponseWriter, r *http.Request) {
	playerID, ok := auth.PlayerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req AttackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Coordinate == "" {
		writeError(w, http.StatusBadRequest, "Missing coordinate")
		return
	}

	res, err := h.service.Attack(r.Context(), r.PathValue("id"), playerID, req.Coordinate)
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Str("player", playerID).Msg("Failed to process attack")
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidCoordinate), errors.Is(err, game.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrAlreadyAttacked), errors.Is(err, ErrMatchOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
