package game

import "errors"

// Game errors
var (
	ErrNotYourTurn    = errors.New("not your turn")
	ErrGameOver       = errors.New("game is over")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoSpawn        = errors.New("no passable tile left to place a unit")
)
