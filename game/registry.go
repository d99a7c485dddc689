package game

import (
	"log"
	"math/rand"
	"strings"
	"sync"

	"snake-rooms/constants"
	"snake-rooms/models"
)

// Registry is the process-wide directory of rooms, keyed by code. It is
// constructed once at startup and handed to whatever owns connection
// dispatch; there is no ambient global.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create normalizes the requested options, allocates a unique code, and
// stores the room. Classic rooms start ticking immediately; team rooms wait
// for the host to start the match.
func (reg *Registry) Create(opts models.RoomOptions) *Room {
	normalized := normalizeOptions(opts)

	reg.mu.Lock()
	code := reg.generateCodeLocked()
	room := newRoom(code, normalized, reg)
	reg.rooms[code] = room
	reg.mu.Unlock()

	if normalized.GameMode == constants.GAME_MODE_CLASSIC {
		room.begin()
	}

	log.Printf("room %s created (%s, %dx%d, speed %d)",
		code, normalized.GameMode, normalized.MapSize, normalized.MapSize, normalized.Speed)
	return room
}

// Lookup finds a room by code, case-insensitive.
func (reg *Registry) Lookup(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[strings.ToUpper(code)]
	return room, ok
}

// Remove deletes a room from the directory. Rooms call it themselves when
// their last player leaves.
func (reg *Registry) Remove(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rooms[code]; ok {
		delete(reg.rooms, code)
		log.Printf("room %s removed", code)
	}
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// generateCodeLocked draws codes until one misses the directory. Caller must
// hold reg.mu.
func (reg *Registry) generateCodeLocked() string {
	buf := make([]byte, constants.ROOM_CODE_LENGTH)
	for {
		for i := range buf {
			buf[i] = constants.ROOM_CODE_CHARSET[rand.Intn(len(constants.ROOM_CODE_CHARSET))]
		}
		code := string(buf)
		if _, taken := reg.rooms[code]; !taken {
			return code
		}
	}
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// normalizeOptions fills defaults for zero values and clamps everything to
// the supported ranges.
func normalizeOptions(opts models.RoomOptions) models.RoomOptions {
	if opts.MapSize == 0 {
		opts.MapSize = constants.DEFAULT_MAP_SIZE
	}
	if opts.Speed == 0 {
		opts.Speed = constants.DEFAULT_SPEED
	}
	if opts.MaxPlayers == 0 {
		opts.MaxPlayers = constants.MAX_PLAYERS
	}
	opts.MapSize = clamp(opts.MapSize, constants.MIN_MAP_SIZE, constants.MAX_MAP_SIZE)
	opts.Speed = clamp(opts.Speed, constants.MIN_SPEED, constants.MAX_SPEED)
	opts.MaxPlayers = clamp(opts.MaxPlayers, constants.MIN_PLAYERS, constants.MAX_PLAYERS)
	opts.TimerMinutes = clamp(opts.TimerMinutes, constants.MIN_TIMER_MINUTES, constants.MAX_TIMER_MINUTES)
	if opts.GameMode != constants.GAME_MODE_TEAM {
		opts.GameMode = constants.GAME_MODE_CLASSIC
	}
	return opts
}
