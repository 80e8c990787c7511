// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the state machine. Rejected actions never
// mutate state.
var (
	ErrNotYourTurn        = errors.New("not your turn")
	ErrWrongPhase         = errors.New("action not allowed in the current phase")
	ErrInvalidAction      = errors.New("invalid action")
	ErrRoomFull           = errors.New("room is full")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrRoomNotFound       = errors.New("room not found")
)

// ConfigurationError reports an unplayable room configuration, such as a
// player count outside the supported range. It aborts game start.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// invalidf wraps ErrInvalidAction with a user-facing detail message.
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidAction, fmt.Sprintf(format, args...))
}
