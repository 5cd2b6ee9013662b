package chat

import "errors"

// Error codes for domain errors, used verbatim on the wire.
const (
	ErrCodeRoomNotFound   = "room_not_found"
	ErrCodeMemberNotFound = "member_not_found"
	ErrCodeBadRequest     = "bad_request"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrSessionClosed  = errors.New("session closed")
	ErrBadRequest     = errors.New("bad request")
)

// ChatError wraps a code and human-readable message for error frames.
type ChatError struct {
	Code    string
	Message string
}

func (e *ChatError) Error() string {
	return e.Message
}

// CodeFor maps a domain error onto its wire code.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return ErrCodeRoomNotFound
	case errors.Is(err, ErrMemberNotFound):
		return ErrCodeMemberNotFound
	default:
		return ErrCodeBadRequest
	}
}
