package server

import (
	"context"
	"encoding/json"
	"errors"
	"mkworld-overlay/internal/domain"
	"mkworld-overlay/internal/repository"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	msgNameRequired = "Player name is required"
	msgNameInvalid  = "Player name can only contain letters, numbers, spaces, and hyphens"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9 ._-]+$`)

type PlayerProvider interface {
	GetPlayer(ctx context.Context, name, variant string) (domain.PlayerRecord, error)
	GetHistory(ctx context.Context, name, variant string, limit int) ([]domain.MmrSnapshot, error)
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	Snapshots []domain.MmrSnapshot `json:"snapshots"`
}

type PlayerHandler struct {
	players PlayerProvider
	logger  zerolog.Logger
}

func NewPlayerHandler(players PlayerProvider, logger zerolog.Logger) *PlayerHandler {
	return &PlayerHandler{players: players, logger: logger}
}

// ValidateName trims the raw query value and checks it against the lounge
// name alphabet.
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", &ValidationError{Message: msgNameRequired}
	}
	if !validName.MatchString(name) {
		return "", &ValidationError{Message: msgNameInvalid}
	}
	return name, nil
}

func (h *PlayerHandler) GetPlayerDetails(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	q := r.URL.Query()

	name, err := ValidateName(q.Get("name"))
	if err != nil {
		log.Debug().Str("name", q.Get("name")).Err(err).Msg("rejected player lookup")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()}, log)
		return
	}

	record, err := h.players.GetPlayer(r.Context(), name, q.Get("game"))
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to fetch player data")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()}, log)
		return
	}

	writeJSON(w, http.StatusOK, record, log)
}

func (h *PlayerHandler) GetPlayerHistory(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	q := r.URL.Query()

	name, err := ValidateName(q.Get("name"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()}, log)
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"}, log)
			return
		}
	}

	snapshots, err := h.players.GetHistory(r.Context(), name, q.Get("game"), limit)
	if errors.Is(err, repository.ErrHistoryDisabled) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: repository.ErrHistoryDisabled.Error()}, log)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to list player history")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()}, log)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Snapshots: snapshots}, log)
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (h *PlayerHandler) requestLogger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &h.logger
}

func writeJSON(w http.ResponseWriter, status int, body any, log *zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}
