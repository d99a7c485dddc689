package game

import (
	"errors"
	"testing"
	"time"

	"snake-rooms/constants"
	"snake-rooms/models"
)

func newTeamRoom(t *testing.T) *Room {
	t.Helper()
	room, _ := newTestRoom(t, models.RoomOptions{MapSize: 16, GameMode: constants.GAME_MODE_TEAM})
	return room
}

func TestSelectTeamMovesBetweenRosters(t *testing.T) {
	room := newTeamRoom(t)
	p, _ := admitPlayer(t, room, "alice")

	if err := room.SelectTeam(p.ID, 1); err != nil {
		t.Fatal(err)
	}
	room.mu.Lock()
	onOne, onTwo := len(room.teams.Team1), len(room.teams.Team2)
	room.mu.Unlock()
	if onOne != 1 || onTwo != 0 {
		t.Fatalf("rosters = %d/%d after first pick, want 1/0", onOne, onTwo)
	}
	if p.Team != 1 {
		t.Errorf("player team = %d, want 1", p.Team)
	}

	// Re-selection moves, never duplicates.
	if err := room.SelectTeam(p.ID, 2); err != nil {
		t.Fatal(err)
	}
	room.mu.Lock()
	onOne, onTwo = len(room.teams.Team1), len(room.teams.Team2)
	room.mu.Unlock()
	if onOne != 0 || onTwo != 1 {
		t.Fatalf("rosters = %d/%d after re-pick, want 0/1", onOne, onTwo)
	}
	if p.Team != 2 {
		t.Errorf("player team = %d, want 2", p.Team)
	}
}

func TestSelectTeamBroadcastsLobbyUpdate(t *testing.T) {
	room := newTeamRoom(t)
	p, ch := admitPlayer(t, room, "alice")
	drainMessages(t, ch)

	if err := room.SelectTeam(p.ID, 1); err != nil {
		t.Fatal(err)
	}

	messages := drainMessages(t, ch)
	updates := messagesOfType(messages, constants.MSG_TEAM_LOBBY_UPDATE)
	if len(updates) != 1 {
		t.Fatalf("got %d lobby updates, want 1", len(updates))
	}
	teams, ok := updates[0]["teams"].(map[string]any)
	if !ok {
		t.Fatalf("teams payload has type %T", updates[0]["teams"])
	}
	team1, _ := teams["team1"].([]any)
	if len(team1) != 1 {
		t.Errorf("team1 roster size = %d, want 1", len(team1))
	}
}

func TestSelectTeamClassicRoomRejected(t *testing.T) {
	room, _ := newTestRoom(t, models.RoomOptions{MapSize: 16})
	p, _ := admitPlayer(t, room, "alice")

	if err := room.SelectTeam(p.ID, 1); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("err = %v, want ErrInvalidMode", err)
	}
}

func TestStartMatchValidation(t *testing.T) {
	room := newTeamRoom(t)
	host, _ := admitPlayer(t, room, "alice")
	other, _ := admitPlayer(t, room, "bob")

	if err := room.StartMatch(other.ID); !errors.Is(err, ErrNotHost) {
		t.Fatalf("non-host start: err = %v, want ErrNotHost", err)
	}
	if err := room.StartMatch(host.ID); !errors.Is(err, ErrTeamsIncomplete) {
		t.Fatalf("empty rosters: err = %v, want ErrTeamsIncomplete", err)
	}

	room.SelectTeam(host.ID, 1)
	room.SelectTeam(other.ID, 1)
	if err := room.StartMatch(host.ID); !errors.Is(err, ErrTeamsIncomplete) {
		t.Fatalf("one-sided rosters: err = %v, want ErrTeamsIncomplete", err)
	}
}

func TestStartMatchSpawnsEveryoneAndStartsLoop(t *testing.T) {
	room := newTeamRoom(t)
	host, hostCh := admitPlayer(t, room, "alice")
	other, _ := admitPlayer(t, room, "bob")
	room.SelectTeam(host.ID, 1)
	room.SelectTeam(other.ID, 2)
	drainMessages(t, hostCh)

	if err := room.StartMatch(host.ID); err != nil {
		t.Fatal(err)
	}

	room.mu.Lock()
	started := room.matchStarted
	ticker := room.ticker
	food := room.foods.Food
	room.stopTimersLocked() // freeze the simulation so assertions below are stable
	room.mu.Unlock()
	if !started {
		t.Error("matchStarted not set")
	}
	if ticker == nil {
		t.Error("tick loop not running")
	}
	if food == nil {
		t.Error("food not spawned at match start")
	}
	if len(host.Body) != 1 || len(other.Body) != 1 {
		t.Errorf("spawn body lengths = %d/%d, want 1/1", len(host.Body), len(other.Body))
	}

	messages := drainMessages(t, hostCh)
	startMsgs := messagesOfType(messages, constants.MSG_MATCH_STARTED)
	if len(startMsgs) != 1 {
		t.Fatalf("got %d match_started messages, want 1", len(startMsgs))
	}
	if team, _ := startMsgs[0]["myTeam"].(float64); int(team) != 1 {
		t.Errorf("myTeam = %v, want 1", startMsgs[0]["myTeam"])
	}

	if err := room.StartMatch(host.ID); !errors.Is(err, ErrMatchAlreadyStarted) {
		t.Fatalf("second start: err = %v, want ErrMatchAlreadyStarted", err)
	}
	if err := room.SelectTeam(host.ID, 2); !errors.Is(err, ErrMatchAlreadyStarted) {
		t.Fatalf("post-start team pick: err = %v, want ErrMatchAlreadyStarted", err)
	}
}

func TestEliminationAddsTeamScore(t *testing.T) {
	room := newTeamRoom(t)
	killer, _ := admitPlayer(t, room, "alice")
	victim, _ := admitPlayer(t, room, "bob")
	room.SelectTeam(killer.ID, 1)
	room.SelectTeam(victim.ID, 2)
	if err := room.StartMatch(killer.ID); err != nil {
		t.Fatal(err)
	}
	room.mu.Lock()
	room.stopTimersLocked()
	room.mu.Unlock()

	setBody(room, killer, models.DirUp, models.Cell{X: 8, Y: 5}, models.Cell{X: 8, Y: 6})
	setBody(room, victim, models.DirRight, models.Cell{X: 7, Y: 6}, models.Cell{X: 6, Y: 6})
	setFood(room, models.Cell{X: 0, Y: 0})

	room.tick()

	wantBonus := constants.KILL_BASE_BONUS + 2*constants.KILL_SEGMENT_BONUS
	if killer.Score != wantBonus {
		t.Errorf("killer score = %d, want %d", killer.Score, wantBonus)
	}
	room.mu.Lock()
	scores := room.teams.Scores
	room.mu.Unlock()
	if scores.Team1 != wantBonus || scores.Team2 != 0 {
		t.Errorf("team scores = %+v, want team1 %d, team2 0", scores, wantBonus)
	}
}

func TestFriendlyFireKillsWithoutScore(t *testing.T) {
	room := newTeamRoom(t)
	mate, _ := admitPlayer(t, room, "alice")
	mover, _ := admitPlayer(t, room, "bob")
	third, _ := admitPlayer(t, room, "carol")
	room.SelectTeam(mate.ID, 1)
	room.SelectTeam(mover.ID, 1)
	room.SelectTeam(third.ID, 2)
	if err := room.StartMatch(mate.ID); err != nil {
		t.Fatal(err)
	}
	room.mu.Lock()
	room.stopTimersLocked()
	room.mu.Unlock()

	setBody(room, mate, models.DirUp, models.Cell{X: 8, Y: 5}, models.Cell{X: 8, Y: 6})
	setBody(room, mover, models.DirRight, models.Cell{X: 7, Y: 6}, models.Cell{X: 6, Y: 6})
	setBody(room, third, models.DirLeft, models.Cell{X: 12, Y: 12})
	setFood(room, models.Cell{X: 0, Y: 0})

	room.tick()

	if mover.Alive {
		t.Error("mover survived crashing into a teammate")
	}
	if mate.Score != 0 || mover.Score != 0 {
		t.Errorf("scores = %d/%d after friendly fire, want 0/0", mate.Score, mover.Score)
	}
	room.mu.Lock()
	scores := room.teams.Scores
	decomposed := len(room.foods.Decomposed)
	room.mu.Unlock()
	if scores.Team1 != 0 || scores.Team2 != 0 {
		t.Errorf("team scores = %+v, want zeroes", scores)
	}
	if decomposed != 2 {
		t.Errorf("decomposed cells = %d, want mover length 2", decomposed)
	}
}

func TestRemovePlayerLeavesRoster(t *testing.T) {
	room := newTeamRoom(t)
	p, _ := admitPlayer(t, room, "alice")
	admitPlayer(t, room, "bob")
	room.SelectTeam(p.ID, 1)

	room.Remove(p.ID)

	room.mu.Lock()
	onOne := len(room.teams.Team1)
	room.mu.Unlock()
	if onOne != 0 {
		t.Errorf("team1 roster size = %d after departure, want 0", onOne)
	}
}

func TestDecomposedFoodExpires(t *testing.T) {
	var foods foodEconomy
	now := time.Now()
	foods.decompose([]models.Cell{{X: 1, Y: 1}, {X: 2, Y: 1}}, now)

	foods.expire(now.Add(constants.DECOMPOSED_TTL - time.Second))
	if len(foods.Decomposed) != 2 {
		t.Fatalf("cells expired early: %d left, want 2", len(foods.Decomposed))
	}

	foods.expire(now.Add(constants.DECOMPOSED_TTL))
	if len(foods.Decomposed) != 0 {
		t.Fatalf("cells survived their TTL: %d left, want 0", len(foods.Decomposed))
	}
}

func TestConsumeDecomposedTakesFirstMatch(t *testing.T) {
	var foods foodEconomy
	now := time.Now()
	c := models.Cell{X: 3, Y: 3}
	foods.decompose([]models.Cell{c, c}, now)

	if !foods.consumeDecomposed(c) {
		t.Fatal("first consumption failed")
	}
	if len(foods.Decomposed) != 1 {
		t.Fatalf("remaining = %d, want 1 (one cell per bite)", len(foods.Decomposed))
	}
	if foods.consumeDecomposed(models.Cell{X: 9, Y: 9}) {
		t.Error("consumed a cell that does not exist")
	}
}
