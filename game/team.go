package game

import (
	"snake-rooms/constants"
	"snake-rooms/models"
)

// teamState holds the two rosters and running team scores of a team-mode
// room. Rosters keep selection order. Guarded by the room mutex.
type teamState struct {
	Team1  []string
	Team2  []string
	Scores models.TeamScores
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func (t *teamState) removePlayer(id string) {
	t.Team1 = removeID(t.Team1, id)
	t.Team2 = removeID(t.Team2, id)
}

func (t *teamState) addScore(team, points int) {
	switch team {
	case 1:
		t.Scores.Team1 += points
	case 2:
		t.Scores.Team2 += points
	}
}

// SelectTeam moves a player onto a roster while the room is in the lobby
// state. The player is removed from both rosters first, so re-selection is
// safe to repeat.
func (r *Room) SelectTeam(playerID string, team int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.options.GameMode != constants.GAME_MODE_TEAM {
		return ErrInvalidMode
	}
	if r.matchStarted {
		return ErrMatchAlreadyStarted
	}
	player, ok := r.players[playerID]
	if !ok {
		return nil
	}

	r.teams.removePlayer(playerID)
	switch team {
	case 1:
		r.teams.Team1 = append(r.teams.Team1, playerID)
		player.Team = 1
	case 2:
		r.teams.Team2 = append(r.teams.Team2, playerID)
		player.Team = 2
	}

	r.broadcastTeamLobbyLocked()
	return nil
}

// StartMatch transitions a team room from Lobby to Live: every player spawns,
// the food economy arms, and the tick loop starts. Host-only; both rosters
// must be non-empty and hold at least two players combined. A failed start
// leaves room state untouched.
func (r *Room) StartMatch(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.options.GameMode != constants.GAME_MODE_TEAM {
		return ErrInvalidMode
	}
	if requesterID != r.hostID {
		return ErrNotHost
	}
	if r.matchStarted {
		return ErrMatchAlreadyStarted
	}
	if len(r.teams.Team1) == 0 || len(r.teams.Team2) == 0 ||
		len(r.teams.Team1)+len(r.teams.Team2) < 2 {
		return ErrTeamsIncomplete
	}

	r.matchStarted = true

	for _, id := range r.order {
		r.respawnLocked(r.players[id])
	}
	r.beginLocked()

	for _, id := range r.order {
		player := r.players[id]
		player.Deliver(encodeMessage(constants.MSG_MATCH_STARTED, map[string]any{
			"myTeam":      player.teamRef(),
			"isSpectator": false,
		}))
	}
	r.broadcastStateLocked()
	return nil
}

// rosterLocked builds the pre-match roster view. Caller must hold r.mu.
func (r *Room) rosterLocked() models.TeamRoster {
	roster := models.TeamRoster{
		Team1: make([]models.TeamMember, 0, len(r.teams.Team1)),
		Team2: make([]models.TeamMember, 0, len(r.teams.Team2)),
	}
	for _, id := range r.teams.Team1 {
		if p, ok := r.players[id]; ok {
			roster.Team1 = append(roster.Team1, models.TeamMember{ID: p.ID, Name: p.Name})
		}
	}
	for _, id := range r.teams.Team2 {
		if p, ok := r.players[id]; ok {
			roster.Team2 = append(roster.Team2, models.TeamMember{ID: p.ID, Name: p.Name})
		}
	}
	return roster
}

func (r *Room) broadcastTeamLobbyLocked() {
	r.broadcastLocked(encodeMessage(constants.MSG_TEAM_LOBBY_UPDATE, map[string]any{
		"teams": r.rosterLocked(),
	}))
}
