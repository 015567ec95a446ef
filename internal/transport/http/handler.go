package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/watchparty/sync-service/internal/domain"
	"github.com/watchparty/sync-service/internal/registry"
)

type Handler struct {
	registry *registry.RoomRegistry
}

func NewHandler(reg *registry.RoomRegistry) *Handler {
	return &Handler{registry: reg}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// RoomItem — read-only срез комнаты для наблюдения, без ростера и чата.
type RoomItem struct {
	ID           string    `json:"id"`
	VideoURL     string    `json:"videoUrl"`
	Playing      bool      `json:"playing"`
	Participants int       `json:"participants"`
	Pending      int       `json:"pendingRequests"`
	CreatedAt    time.Time `json:"createdAt"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /rooms/{id}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	room, err := h.registry.Snapshot(id)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		slog.Error("handler.GetRoom:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, RoomItem{
		ID:           room.ID,
		VideoURL:     room.VideoURL,
		Playing:      room.VideoState.Playing,
		Participants: len(room.Participants),
		Pending:      len(room.Pending),
		CreatedAt:    room.CreatedAt,
	})
}
