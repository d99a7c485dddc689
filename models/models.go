package models

// Cell is one grid square.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Dir is a unit movement vector.
type Dir struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var (
	DirUp    = Dir{X: 0, Y: -1}
	DirDown  = Dir{X: 0, Y: 1}
	DirLeft  = Dir{X: -1, Y: 0}
	DirRight = Dir{X: 1, Y: 0}
)

// Opposite returns the reverse of d.
func (d Dir) Opposite() Dir {
	return Dir{X: -d.X, Y: -d.Y}
}

// RoomOptions is the room configuration as requested by the creator.
// Zero values are replaced with defaults and the rest clamped on room creation.
type RoomOptions struct {
	MapSize      int    `json:"mapSize"`
	Speed        int    `json:"speed"`
	MaxPlayers   int    `json:"maxPlayers"`
	TimerMinutes int    `json:"timerMinutes"`
	GameMode     string `json:"gameMode"`
}

// PlayerView is the per-player portion of a state snapshot.
type PlayerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Body  []Cell `json:"body"`
	Alive bool   `json:"alive"`
	Score int    `json:"score"`
	Team  *int   `json:"team"`
}

// LeaderboardEntry is one row of the top-5 leaderboard.
type LeaderboardEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Team  *int   `json:"team,omitempty"`
}

// TeamScores holds the running score totals per team.
type TeamScores struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// TeamMember is a roster entry in the team lobby view.
type TeamMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamRoster is the full pre-match roster view.
type TeamRoster struct {
	Team1 []TeamMember `json:"team1"`
	Team2 []TeamMember `json:"team2"`
}

// StateSnapshot is the full room state broadcast after every tick and on
// state-changing events. It is the only state propagation mechanism; clients
// render it wholesale.
type StateSnapshot struct {
	Type           string             `json:"type"`
	Food           *Cell              `json:"food"`
	BonusFood      *Cell              `json:"bonusFood"`
	DecomposedFood []Cell             `json:"decomposedFood"`
	MapSize        int                `json:"mapSize"`
	Players        []PlayerView       `json:"players"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
	HostID         string             `json:"hostId"`
	EndAt          *int64             `json:"endAt"`
	Ended          bool               `json:"ended"`
	GameMode       string             `json:"gameMode"`
	TeamScores     TeamScores         `json:"teamScores"`
}

// RoomSummary is the read-only room view served over the HTTP API.
type RoomSummary struct {
	Code         string `json:"code"`
	GameMode     string `json:"gameMode"`
	MapSize      int    `json:"mapSize"`
	Players      int    `json:"players"`
	Spectators   int    `json:"spectators"`
	MatchStarted bool   `json:"matchStarted"`
	Ended        bool   `json:"ended"`
}
