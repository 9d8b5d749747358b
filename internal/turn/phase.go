// Package turn implements the round-robin turn and phase state machine.
package turn

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase designates the active player or a terminal state. Player turns are
// Phase(1) through Phase(N).
type Phase int

const (
	TurnTransition Phase = 0
	GameOver       Phase = -1
)

// PlayerPhase returns the phase in which player (1-based) is active.
func PlayerPhase(player int) Phase {
	return Phase(player)
}

// Player returns the active player of a player-turn phase.
func (p Phase) Player() (int, bool) {
	if p >= 1 {
		return int(p), true
	}
	return 0, false
}

func (p Phase) String() string {
	switch {
	case p == GameOver:
		return "GameOver"
	case p == TurnTransition:
		return "TurnTransition"
	case p >= 1:
		return fmt.Sprintf("Player%dTurn", int(p))
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Preset maximum turn counts. Unbounded disables the game-over check.
const (
	Unbounded    = 0
	Quick        = 50
	Normal       = 100
	Long         = 150
	LongLongLong = 175
	Marathon     = 200
)

var maxTurnPresets = map[string]int{
	"quick":        Quick,
	"normal":       Normal,
	"long":         Long,
	"longlonglong": LongLongLong,
	"marathon":     Marathon,
	"unbounded":    Unbounded,
	"infinite":     Unbounded,
}

// ParseMaxTurns accepts a preset name or a non-negative number.
func ParseMaxTurns(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, ok := maxTurnPresets[s]; ok {
		return n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadMaxTurns, s)
	}
	return n, nil
}
