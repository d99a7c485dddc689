package constants

import "time"

const (
	// Tick interval: BASE_TICK_MS minus SPEED_STEP_MS per speed level above 1,
	// floored at MIN_TICK_MS.
	BASE_TICK_MS  = 140 * time.Millisecond
	MIN_TICK_MS   = 60 * time.Millisecond
	SPEED_STEP_MS = 18 * time.Millisecond

	// Option bounds
	MIN_MAP_SIZE      = 16
	MAX_MAP_SIZE      = 64
	DEFAULT_MAP_SIZE  = 32
	MIN_SPEED         = 1
	MAX_SPEED         = 5
	DEFAULT_SPEED     = 3
	MIN_PLAYERS       = 1
	MAX_PLAYERS       = 4
	MIN_TIMER_MINUTES = 0
	MAX_TIMER_MINUTES = 60

	GAME_MODE_CLASSIC = "classic"
	GAME_MODE_TEAM    = "team"

	// Scoring and growth
	FOOD_SCORE       = 10
	FOOD_GROW        = 1
	BONUS_SCORE      = 50
	BONUS_GROW       = 3
	DECOMPOSED_SCORE = 15
	DECOMPOSED_GROW  = 1

	KILL_BASE_BONUS    = 30
	KILL_SEGMENT_BONUS = 5

	SPAWN_GROW = 3

	// Timed food
	BONUS_DELAY_MIN    = 7 * time.Second
	BONUS_DELAY_JITTER = 8 * time.Second
	BONUS_VISIBLE      = 9 * time.Second
	DECOMPOSED_TTL     = 10 * time.Second

	RESPAWN_DELAY = 1200 * time.Millisecond

	// Room identity
	ROOM_CODE_LENGTH  = 5
	ROOM_CODE_CHARSET = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

	MAX_NAME_LENGTH = 18
	DEFAULT_NAME    = "Player"

	LEADERBOARD_SIZE = 5

	// Message types
	MSG_CREATE_ROOM       = "create_room"
	MSG_JOIN_ROOM         = "join_room"
	MSG_CHANGE_DIR        = "change_dir"
	MSG_SELECT_TEAM       = "select_team"
	MSG_START_MATCH       = "start_match"
	MSG_END_ROOM          = "end_room"
	MSG_PING              = "ping"
	MSG_JOINED            = "joined"
	MSG_SESSION           = "session"
	MSG_TEAM_LOBBY_UPDATE = "team_lobby_update"
	MSG_MATCH_STARTED     = "match_started"
	MSG_STATE             = "state"
	MSG_ROOM_ENDED        = "room_ended"
	MSG_SYSTEM            = "system"
	MSG_ERROR             = "error"
	MSG_PONG              = "pong"
)

// Player colors, assigned in rotation by join order
var COLORS = []string{
	"#7CFFCB",
	"#FFD166",
	"#A29BFE",
	"#F25F5C",
	"#4CC9F0",
	"#9B5DE5",
	"#06D6A0",
	"#F15BB5",
}
