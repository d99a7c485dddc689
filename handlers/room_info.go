package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"snake-rooms/game"
)

// RoomInfoHandler serves a read-only room summary at /api/rooms/{code}.
// It sits behind the auth middleware; the token must belong to a participant
// of the requested room.
type RoomInfoHandler struct {
	registry *game.Registry
}

func NewRoomInfoHandler(registry *game.Registry) *RoomInfoHandler {
	return &RoomInfoHandler{registry: registry}
}

func (h *RoomInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/api/rooms/"))
	if code == "" || strings.Contains(code, "/") {
		http.NotFound(w, r)
		return
	}

	if r.Header.Get("X-Room-Code") != code {
		http.Error(w, "Forbidden: token is for another room", http.StatusForbidden)
		return
	}

	room, ok := h.registry.Lookup(code)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(room.Summary())
}
