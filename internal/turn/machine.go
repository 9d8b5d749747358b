package turn

import "fmt"

// Transition describes the effect of one turn-ended event.
type Transition struct {
	From    Phase `json:"from"`
	To      Phase `json:"to"`
	Turn    int   `json:"turn"`
	Applied bool  `json:"applied"`
	Wrapped bool  `json:"wrapped,omitempty"` // the last player ended; turn counter advanced
}

// Machine cycles Player1Turn through PlayerNTurn, incrementing the turn
// counter once per full cycle, and rests in GameOver once the counter
// exceeds the maximum. It is not safe for concurrent use.
type Machine struct {
	players  int
	maxTurns int
	phase    Phase
	turn     int

	started bool
	// Last (turn, player) whose start fired the hook.
	lastTurn   int
	lastPlayer int

	onTurnStart []func(player, turn int)
}

// New returns a machine in Player1Turn on turn 1. maxTurns may be Unbounded.
func New(players, maxTurns int) (*Machine, error) {
	if players < 1 {
		return nil, ErrNoPlayers
	}
	if maxTurns < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadMaxTurns, maxTurns)
	}
	return &Machine{
		players:  players,
		maxTurns: maxTurns,
		phase:    PlayerPhase(1),
		turn:     1,
	}, nil
}

// OnTurnStart registers a hook run when a player's turn begins.
func (m *Machine) OnTurnStart(fn func(player, turn int)) {
	m.onTurnStart = append(m.onTurnStart, fn)
}

// Start fires the turn-start hook for the initial player. Calling it again
// has no effect.
func (m *Machine) Start() {
	if m.started {
		return
	}
	m.started = true
	m.fireTurnStart()
}

func (m *Machine) Phase() Phase    { return m.phase }
func (m *Machine) Turn() int        { return m.turn }
func (m *Machine) MaxTurns() int    { return m.maxTurns }
func (m *Machine) Players() int     { return m.players }
func (m *Machine) IsGameOver() bool { return m.phase == GameOver }

// ActivePlayer returns the player whose turn it is, or false in GameOver.
func (m *Machine) ActivePlayer() (int, bool) {
	return m.phase.Player()
}

// EndTurn ends the active player's turn. In GameOver the event is ignored.
func (m *Machine) EndTurn() Transition {
	from := m.phase
	player, ok := from.Player()
	if !ok {
		return Transition{From: from, To: from, Turn: m.turn}
	}

	tr := Transition{From: from, Turn: m.turn, Applied: true}
	if player < m.players {
		m.phase = PlayerPhase(player + 1)
	} else {
		tr.Wrapped = true
		m.turn++
		if m.maxTurns != Unbounded && m.turn > m.maxTurns {
			m.phase = GameOver
		} else {
			m.phase = PlayerPhase(1)
		}
	}
	tr.To = m.phase
	tr.Turn = m.turn

	if m.started {
		m.fireTurnStart()
	}
	return tr
}

// EndTurnFor ends the turn on behalf of player. Events from a player that is
// not active are ignored.
func (m *Machine) EndTurnFor(player int) Transition {
	if active, ok := m.ActivePlayer(); !ok || active != player {
		return Transition{From: m.phase, To: m.phase, Turn: m.turn}
	}
	return m.EndTurn()
}

func (m *Machine) fireTurnStart() {
	player, ok := m.phase.Player()
	if !ok {
		return
	}
	if m.lastTurn == m.turn && m.lastPlayer == player {
		return
	}
	m.lastTurn, m.lastPlayer = m.turn, player
	for _, fn := range m.onTurnStart {
		fn(player, m.turn)
	}
}
