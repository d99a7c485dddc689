package game

// RoomError is a request-level failure reported back to the requesting
// participant only. It never mutates room state and is never broadcast.
type RoomError struct {
	Code    string
	Message string
}

func (e *RoomError) Error() string {
	return e.Message
}

// Is matches by code so errors.Is works against the predefined values.
func (e *RoomError) Is(target error) bool {
	t, ok := target.(*RoomError)
	return ok && t.Code == e.Code
}

var (
	ErrRoomNotFound        = &RoomError{Code: "ROOM_NOT_FOUND", Message: "Room not found."}
	ErrRoomClosed          = &RoomError{Code: "ROOM_CLOSED", Message: "Room is closed."}
	ErrRoomFull            = &RoomError{Code: "ROOM_FULL", Message: "Room is full."}
	ErrNotHost             = &RoomError{Code: "NOT_HOST", Message: "Only host can do that."}
	ErrInvalidMode         = &RoomError{Code: "INVALID_MODE", Message: "Not in team mode."}
	ErrMatchAlreadyStarted = &RoomError{Code: "MATCH_STARTED", Message: "Match already started."}
	ErrTeamsIncomplete     = &RoomError{Code: "TEAMS_INCOMPLETE", Message: "Need at least 1 player per team."}
	ErrMalformedRequest    = &RoomError{Code: "MALFORMED_REQUEST", Message: "Invalid payload."}
)
