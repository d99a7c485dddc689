package game

import (
	"strings"

	"snake-rooms/constants"
	"snake-rooms/models"
)

// Participant is either a Player or a Spectator. Both receive every broadcast
// through their owning channel; only players mutate simulation state.
type Participant interface {
	ParticipantID() string
	DisplayName() string
	IsSpectator() bool
	Deliver(data []byte)
}

// Player is one snake in a room. All fields are guarded by the room mutex.
type Player struct {
	ID         string
	Name       string
	Color      string
	Body       []models.Cell // head first; empty only before first spawn
	Dir        models.Dir
	PendingDir models.Dir
	Grow       int
	Score      int
	Alive      bool
	Team       int // 0 = unassigned
	Send       chan []byte
}

func (p *Player) ParticipantID() string { return p.ID }
func (p *Player) DisplayName() string   { return p.Name }
func (p *Player) IsSpectator() bool     { return false }

// Deliver pushes a serialized message to the player's channel without
// blocking. A full channel drops the message; the next snapshot supersedes it.
func (p *Player) Deliver(data []byte) {
	select {
	case p.Send <- data:
	default:
	}
}

func (p *Player) teamRef() *int {
	if p.Team == 0 {
		return nil
	}
	t := p.Team
	return &t
}

func (p *Player) view() models.PlayerView {
	return models.PlayerView{
		ID:    p.ID,
		Name:  p.Name,
		Color: p.Color,
		Body:  append([]models.Cell(nil), p.Body...),
		Alive: p.Alive,
		Score: p.Score,
		Team:  p.teamRef(),
	}
}

// Spectator is a read-only participant admitted to a team room after match
// start. It never mutates simulation state.
type Spectator struct {
	ID   string
	Name string
	Send chan []byte
}

func (s *Spectator) ParticipantID() string { return s.ID }
func (s *Spectator) DisplayName() string   { return s.Name }
func (s *Spectator) IsSpectator() bool     { return true }

func (s *Spectator) Deliver(data []byte) {
	select {
	case s.Send <- data:
	default:
	}
}

// cleanName trims whitespace, applies the default, and caps the length.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = constants.DEFAULT_NAME
	}
	if runes := []rune(name); len(runes) > constants.MAX_NAME_LENGTH {
		name = string(runes[:constants.MAX_NAME_LENGTH])
	}
	return name
}
