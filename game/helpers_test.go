package game

import (
	"encoding/json"
	"testing"

	"snake-rooms/models"
)

// newTestRoom builds a room without starting its tick loop, so tests drive
// ticks by hand.
func newTestRoom(t *testing.T, opts models.RoomOptions) (*Room, *Registry) {
	t.Helper()
	reg := NewRegistry()
	room := newRoom("TESTR", normalizeOptions(opts), reg)
	reg.rooms[room.Code] = room
	t.Cleanup(func() {
		room.mu.Lock()
		room.stopTimersLocked()
		room.mu.Unlock()
	})
	return room, reg
}

func admitPlayer(t *testing.T, room *Room, name string) (*Player, chan []byte) {
	t.Helper()
	send := make(chan []byte, 256)
	participant, err := room.Admit(send, name)
	if err != nil {
		t.Fatalf("Admit(%q) failed: %v", name, err)
	}
	player, ok := participant.(*Player)
	if !ok {
		t.Fatalf("Admit(%q) returned %T, want *Player", name, participant)
	}
	return player, send
}

// drainMessages empties a participant channel and decodes each message.
func drainMessages(t *testing.T, ch chan []byte) []map[string]any {
	t.Helper()
	var messages []map[string]any
	for {
		select {
		case raw := <-ch:
			var msg map[string]any
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("bad message %q: %v", raw, err)
			}
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}

func messagesOfType(messages []map[string]any, msgType string) []map[string]any {
	var out []map[string]any
	for _, m := range messages {
		if m["type"] == msgType {
			out = append(out, m)
		}
	}
	return out
}

func hasMessageType(messages []map[string]any, msgType string) bool {
	return len(messagesOfType(messages, msgType)) > 0
}

// setBody replaces a player's body and direction under the room lock.
func setBody(room *Room, p *Player, dir models.Dir, body ...models.Cell) {
	room.mu.Lock()
	defer room.mu.Unlock()
	p.Body = body
	p.Dir = dir
	p.PendingDir = dir
	p.Grow = 0
}

// setFood pins the regular food cell.
func setFood(room *Room, c models.Cell) {
	room.mu.Lock()
	defer room.mu.Unlock()
	room.foods.Food = &c
}
