package game

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"snake-rooms/constants"
	"snake-rooms/models"
)

// Room is one independent game instance: its own grid, players, spectators,
// food economy, and tick schedule. A single mutex serializes the tick loop,
// admission, departure, direction input, and every timer callback, so room
// state only ever has one writer at a time. Rooms share nothing with each
// other.
type Room struct {
	Code string

	mu           sync.Mutex
	options      models.RoomOptions
	players      map[string]*Player
	order        []string // player ids in join order; ticks and host promotion follow it
	spectators   map[string]*Spectator
	hostID       string
	foods        foodEconomy
	teams        teamState
	endAt        time.Time // zero when the room has no match timer
	ended        bool
	matchStarted bool

	tickInterval   time.Duration
	ticker         *time.Ticker
	loopStop       chan struct{}
	bonusTimer     *time.Timer
	bonusHideTimer *time.Timer
	respawnTimers  map[string]*time.Timer

	registry *Registry
}

func newRoom(code string, opts models.RoomOptions, reg *Registry) *Room {
	r := &Room{
		Code:          code,
		options:       opts,
		players:       make(map[string]*Player),
		spectators:    make(map[string]*Spectator),
		respawnTimers: make(map[string]*time.Timer),
		registry:      reg,
	}
	r.tickInterval = constants.BASE_TICK_MS - time.Duration(opts.Speed-1)*constants.SPEED_STEP_MS
	if r.tickInterval < constants.MIN_TICK_MS {
		r.tickInterval = constants.MIN_TICK_MS
	}
	if opts.TimerMinutes > 0 {
		r.endAt = time.Now().Add(time.Duration(opts.TimerMinutes) * time.Minute)
	}
	return r
}

// begin activates the simulation: food on the board, bonus cycle armed, tick
// loop running. Classic rooms begin at creation; team rooms when the match
// starts.
func (r *Room) begin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beginLocked()
}

func (r *Room) beginLocked() {
	r.spawnFoodLocked()
	r.scheduleBonusLocked()
	r.startLoopLocked()
}

// Options returns the normalized room configuration.
func (r *Room) Options() models.RoomOptions {
	return r.options
}

// Admit adds a participant to the room. Order of rules: an ended room admits
// nobody; a team room with a running match admits spectators without a player
// cap; a full room rejects; otherwise a player slot is allocated. The first
// player admitted becomes host.
func (r *Room) Admit(send chan []byte, name string) (Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return nil, ErrRoomClosed
	}

	name = cleanName(name)
	id := uuid.New().String()

	if r.options.GameMode == constants.GAME_MODE_TEAM && r.matchStarted {
		spectator := &Spectator{ID: id, Name: name, Send: send}
		r.spectators[id] = spectator
		spectator.Deliver(encodeMessage(constants.MSG_JOINED, map[string]any{
			"playerId":     id,
			"roomCode":     r.Code,
			"options":      r.options,
			"hostId":       r.hostID,
			"endAt":        r.endAtMillis(),
			"isSpectator":  true,
			"matchStarted": true,
		}))
		r.broadcastSystemLocked(fmt.Sprintf("%s joined as spectator.", name))
		r.broadcastStateLocked()
		log.Printf("room %s: %s joined as spectator", r.Code, name)
		return spectator, nil
	}

	if len(r.players) >= r.options.MaxPlayers {
		return nil, ErrRoomFull
	}

	player := &Player{
		ID:         id,
		Name:       name,
		Color:      constants.COLORS[len(r.players)%len(constants.COLORS)],
		Dir:        models.DirRight,
		PendingDir: models.DirRight,
		Grow:       constants.SPAWN_GROW,
		Alive:      true,
		Send:       send,
	}

	// Team rooms leave players bodiless until the match starts.
	if r.options.GameMode == constants.GAME_MODE_CLASSIC || r.matchStarted {
		r.respawnLocked(player)
	}

	r.players[id] = player
	r.order = append(r.order, id)
	if r.hostID == "" {
		r.hostID = id
	}

	player.Deliver(encodeMessage(constants.MSG_JOINED, map[string]any{
		"playerId":     id,
		"roomCode":     r.Code,
		"options":      r.options,
		"hostId":       r.hostID,
		"endAt":        r.endAtMillis(),
		"matchStarted": r.matchStarted,
		"isSpectator":  false,
	}))
	r.broadcastSystemLocked(fmt.Sprintf("%s joined.", name))

	if r.options.GameMode == constants.GAME_MODE_TEAM && !r.matchStarted {
		r.broadcastTeamLobbyLocked()
	} else {
		r.broadcastStateLocked()
	}

	log.Printf("room %s: %s joined (%d/%d players)", r.Code, name, len(r.players), r.options.MaxPlayers)
	return player, nil
}

// Remove takes a participant out of the room; the transport calls it when the
// participant's channel closes. Removing the last player tears the room down.
func (r *Room) Remove(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if spectator, ok := r.spectators[participantID]; ok {
		delete(r.spectators, participantID)
		r.broadcastSystemLocked(fmt.Sprintf("%s (spectator) left.", spectator.Name))
		return
	}

	player, ok := r.players[participantID]
	if !ok {
		return
	}
	delete(r.players, participantID)
	for i, id := range r.order {
		if id == participantID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.options.GameMode == constants.GAME_MODE_TEAM {
		r.teams.removePlayer(participantID)
	}

	r.broadcastSystemLocked(fmt.Sprintf("%s left.", player.Name))

	if r.hostID == participantID {
		r.hostID = ""
		if len(r.order) > 0 {
			r.hostID = r.order[0]
			r.broadcastSystemLocked(fmt.Sprintf("%s is the new host.", r.players[r.hostID].Name))
		}
	}

	if r.options.GameMode == constants.GAME_MODE_TEAM && !r.matchStarted {
		r.broadcastTeamLobbyLocked()
	} else {
		r.broadcastStateLocked()
	}

	log.Printf("room %s: %s left (%d players remain)", r.Code, player.Name, len(r.players))

	if len(r.players) == 0 {
		// Mark terminal before stopping timers: a timer callback already
		// blocked on r.mu would otherwise pass its ended check after
		// teardown and re-arm the cycle on a room the registry forgot.
		r.ended = true
		r.stopTimersLocked()
		r.registry.Remove(r.Code)
	}
}

// ChangeDirection records a player's pending direction for the next tick.
// Reversing into the current direction is ignored, which prevents instant
// self-collision.
func (r *Room) ChangeDirection(playerID, dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.players[playerID]
	if !ok || !player.Alive {
		return
	}
	next, ok := parseDir(dir)
	if !ok {
		return
	}
	if next == player.Dir.Opposite() {
		return
	}
	player.PendingDir = next
}

func parseDir(dir string) (models.Dir, bool) {
	switch dir {
	case "up":
		return models.DirUp, true
	case "down":
		return models.DirDown, true
	case "left":
		return models.DirLeft, true
	case "right":
		return models.DirRight, true
	default:
		return models.Dir{}, false
	}
}

// EndByHost ends the room on the host's explicit request.
func (r *Room) EndByHost(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if requesterID != r.hostID {
		return ErrNotHost
	}
	r.endLocked("host")
	return nil
}

// endLocked transitions the room to its terminal state: timers stopped, final
// leaderboard delivered, closing snapshot broadcast. The room record persists
// in the registry until the last player disconnects. Caller must hold r.mu.
func (r *Room) endLocked(reason string) {
	if r.ended {
		return
	}
	r.ended = true
	r.stopTimersLocked()
	r.broadcastLocked(encodeMessage(constants.MSG_ROOM_ENDED, map[string]any{
		"leaderboard": r.leaderboardLocked(false),
		"reason":      reason,
		"roomCode":    r.Code,
	}))
	r.broadcastStateLocked()
	log.Printf("room %s: ended (%s)", r.Code, reason)
}

// stopTimersLocked cancels the tick loop and every pending timer so no
// callback mutates a torn-down room. Caller must hold r.mu.
func (r *Room) stopTimersLocked() {
	if r.loopStop != nil {
		close(r.loopStop)
		r.loopStop = nil
	}
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
	if r.bonusTimer != nil {
		r.bonusTimer.Stop()
		r.bonusTimer = nil
	}
	if r.bonusHideTimer != nil {
		r.bonusHideTimer.Stop()
		r.bonusHideTimer = nil
	}
	for id, t := range r.respawnTimers {
		t.Stop()
		delete(r.respawnTimers, id)
	}
}

// respawnLocked places a player back on the board: single random open cell,
// facing right, with pending growth. Caller must hold r.mu.
func (r *Room) respawnLocked(player *Player) {
	start := randomOpenCell(r.options.MapSize, r.occupiedLocked())
	player.Body = []models.Cell{start}
	player.Dir = models.DirRight
	player.PendingDir = models.DirRight
	player.Grow = constants.SPAWN_GROW
	player.Alive = true
}

// scheduleRespawnLocked arms the fixed-delay respawn for an eliminated
// player. Caller must hold r.mu.
func (r *Room) scheduleRespawnLocked(playerID string) {
	if t, ok := r.respawnTimers[playerID]; ok {
		t.Stop()
	}
	r.respawnTimers[playerID] = time.AfterFunc(constants.RESPAWN_DELAY, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.respawnTimers, playerID)
		if r.ended {
			return
		}
		player, ok := r.players[playerID]
		if !ok {
			return
		}
		r.respawnLocked(player)
	})
}

// occupiedLocked builds the set of cells covered by living players' bodies.
// Caller must hold r.mu.
func (r *Room) occupiedLocked() map[models.Cell]bool {
	occupied := make(map[models.Cell]bool)
	for _, p := range r.players {
		if !p.Alive {
			continue
		}
		for _, part := range p.Body {
			occupied[part] = true
		}
	}
	return occupied
}

func (r *Room) endAtMillis() *int64 {
	if r.endAt.IsZero() {
		return nil
	}
	ms := r.endAt.UnixMilli()
	return &ms
}

// broadcastLocked delivers a serialized payload to every participant. Sends
// are non-blocking; one unwritable channel never delays the others or the
// tick. Caller must hold r.mu.
func (r *Room) broadcastLocked(data []byte) {
	for _, p := range r.players {
		p.Deliver(data)
	}
	for _, s := range r.spectators {
		s.Deliver(data)
	}
}

func (r *Room) broadcastSystemLocked(message string) {
	r.broadcastLocked(encodeMessage(constants.MSG_SYSTEM, map[string]any{"message": message}))
}

func (r *Room) broadcastStateLocked() {
	data, err := json.Marshal(r.snapshotLocked())
	if err != nil {
		log.Printf("room %s: snapshot marshal error: %v", r.Code, err)
		return
	}
	r.broadcastLocked(data)
}

// snapshotLocked assembles the full state snapshot, players in join order.
// Caller must hold r.mu.
func (r *Room) snapshotLocked() *models.StateSnapshot {
	snapshot := &models.StateSnapshot{
		Type:           constants.MSG_STATE,
		Food:           r.foods.Food,
		BonusFood:      r.foods.Bonus,
		DecomposedFood: r.foods.decomposedCells(),
		MapSize:        r.options.MapSize,
		Players:        make([]models.PlayerView, 0, len(r.players)),
		Leaderboard:    r.leaderboardLocked(true),
		HostID:         r.hostID,
		EndAt:          r.endAtMillis(),
		Ended:          r.ended,
		GameMode:       r.options.GameMode,
		TeamScores:     r.teams.Scores,
	}
	for _, id := range r.order {
		snapshot.Players = append(snapshot.Players, r.players[id].view())
	}
	return snapshot
}

// leaderboardLocked returns the top scores, descending, capped at the
// leaderboard size. Caller must hold r.mu.
func (r *Room) leaderboardLocked(withTeam bool) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(r.players))
	for _, id := range r.order {
		p := r.players[id]
		entry := models.LeaderboardEntry{ID: p.ID, Name: p.Name, Score: p.Score}
		if withTeam {
			entry.Team = p.teamRef()
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > constants.LEADERBOARD_SIZE {
		entries = entries[:constants.LEADERBOARD_SIZE]
	}
	return entries
}

// Summary reports the room's read-only view for the HTTP API.
func (r *Room) Summary() models.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.RoomSummary{
		Code:         r.Code,
		GameMode:     r.options.GameMode,
		MapSize:      r.options.MapSize,
		Players:      len(r.players),
		Spectators:   len(r.spectators),
		MatchStarted: r.matchStarted,
		Ended:        r.ended,
	}
}

// encodeMessage builds the JSON envelope shared by all non-snapshot events.
func encodeMessage(msgType string, data map[string]any) []byte {
	message := map[string]any{
		"type": msgType,
	}
	for k, v := range data {
		message[k] = v
	}
	payload, _ := json.Marshal(message)
	return payload
}
