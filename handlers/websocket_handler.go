package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"snake-rooms/auth"
	"snake-rooms/config"
	"snake-rooms/constants"
	"snake-rooms/game"
	"snake-rooms/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

// clientMessage is the inbound JSON envelope. Fields beyond Type are
// populated per message type.
type clientMessage struct {
	Type     string              `json:"type"`
	Name     string              `json:"name,omitempty"`
	RoomCode string              `json:"roomCode,omitempty"`
	Dir      string              `json:"dir,omitempty"`
	Team     int                 `json:"team,omitempty"`
	Options  *models.RoomOptions `json:"options,omitempty"`
}

// WebSocketHandler upgrades connections and runs one session per participant.
type WebSocketHandler struct {
	registry *game.Registry
	tokens   *auth.Service
	upgrader websocket.Upgrader
	maxSize  int64
}

func NewWebSocketHandler(registry *game.Registry, tokens *auth.Service, cfg config.ServerConfig) *WebSocketHandler {
	allowed := cfg.AllowedOrigin
	return &WebSocketHandler{
		registry: registry,
		tokens:   tokens,
		maxSize:  cfg.MaxMessageSize,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowed == "" {
					return true
				}
				return r.Header.Get("Origin") == allowed
			},
		},
	}
}

// session is one connected client: its socket, outbound queue, and, once it
// joins, its room and participant identity.
type session struct {
	handler     *WebSocketHandler
	conn        *websocket.Conn
	send        chan []byte
	room        *game.Room
	participant game.Participant
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	s := &session{
		handler: h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
	}

	go s.writePump()
	s.readPump()
}

func (s *session) readPump() {
	defer func() {
		if s.room != nil && s.participant != nil {
			s.room.Remove(s.participant.ParticipantID())
		}
		close(s.send)
		s.conn.Close()
	}()

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetReadLimit(s.handler.maxSize)
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendError(game.ErrMalformedRequest)
			continue
		}

		s.handleMessage(&msg)
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := s.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(s.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-s.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *session) handleMessage(msg *clientMessage) {
	switch msg.Type {
	case constants.MSG_CREATE_ROOM:
		var opts models.RoomOptions
		if msg.Options != nil {
			opts = *msg.Options
		}
		room := s.handler.registry.Create(opts)
		s.admit(room, msg.Name)

	case constants.MSG_JOIN_ROOM:
		room, ok := s.handler.registry.Lookup(msg.RoomCode)
		if !ok {
			s.sendError(game.ErrRoomNotFound)
			return
		}
		s.admit(room, msg.Name)

	case constants.MSG_CHANGE_DIR:
		if s.room == nil || s.participant == nil || s.participant.IsSpectator() {
			return
		}
		s.room.ChangeDirection(s.participant.ParticipantID(), msg.Dir)

	case constants.MSG_SELECT_TEAM:
		if s.room == nil || s.participant == nil || s.participant.IsSpectator() {
			return
		}
		if msg.Team != 1 && msg.Team != 2 {
			s.sendError(game.ErrMalformedRequest)
			return
		}
		if err := s.room.SelectTeam(s.participant.ParticipantID(), msg.Team); err != nil {
			s.sendError(err)
		}

	case constants.MSG_START_MATCH:
		if s.room == nil || s.participant == nil || s.participant.IsSpectator() {
			return
		}
		if err := s.room.StartMatch(s.participant.ParticipantID()); err != nil {
			s.sendError(err)
		}

	case constants.MSG_END_ROOM:
		if s.room == nil || s.participant == nil {
			return
		}
		if err := s.room.EndByHost(s.participant.ParticipantID()); err != nil {
			s.sendError(err)
		}

	case constants.MSG_PING:
		s.reply(map[string]any{"type": constants.MSG_PONG, "t": time.Now().UnixMilli()})
	}
}

// admit joins this session to a room and, on success, issues its session
// token.
func (s *session) admit(room *game.Room, name string) {
	participant, err := room.Admit(s.send, name)
	if err != nil {
		s.sendError(err)
		return
	}
	s.room = room
	s.participant = participant

	token, err := s.handler.tokens.GenerateToken(participant.ParticipantID(), room.Code)
	if err != nil {
		log.Printf("token generation error for %s: %v", participant.ParticipantID(), err)
		return
	}
	s.reply(map[string]any{"type": constants.MSG_SESSION, "token": token})
}

func (s *session) sendError(err error) {
	var roomErr *game.RoomError
	message := "Request failed."
	if errors.As(err, &roomErr) {
		message = roomErr.Message
	}
	s.reply(map[string]any{"type": constants.MSG_ERROR, "message": message})
}

func (s *session) reply(payload map[string]any) {
	data, _ := json.Marshal(payload)
	select {
	case s.send <- data:
	default:
	}
}
