package turn

import "errors"

var (
	ErrNoPlayers   = errors.New("at least one player is required")
	ErrBadMaxTurns = errors.New("invalid max turns")
)
