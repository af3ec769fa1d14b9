// Package engine defines the interface for game engines.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tictactoe-local/engine/minimax"
	"tictactoe-local/types"
)

// Errors returned by GameEngine implementations.
var (
	ErrGameOver      = errors.New("game is over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrOccupied      = errors.New("cell already occupied")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// GameEngine defines the interface for playing a game of tic-tac-toe.
type GameEngine interface {
	// Connect initializes the game. If the computer moves first it starts thinking.
	Connect() error

	// GetBoardState returns a snapshot of the current game.
	GetBoardState() *types.BoardState

	// PlayMove plays the current human's mark at p.
	PlayMove(p types.Position) error

	// IsMyTurn returns true if a human is expected to move.
	IsMyTurn() bool

	// CurrentMark returns the mark of the side to move.
	CurrentMark() types.Mark

	// OnMove registers a callback for when a move is played (by either side).
	OnMove(func(p types.Position, mark types.Mark, boardState *types.BoardState))

	// OnGameEnd registers a callback for when the game ends.
	OnGameEnd(func(outcome string))

	// Undo takes back the last human move, and the computer reply after it.
	Undo() error

	// Reset starts a new game with the same configuration.
	Reset()

	// LastSearch returns the result of the most recent computer move.
	LastSearch() minimax.Result

	// Close stops the engine. Pending computer moves are discarded.
	Close()
}

// Mode selects who plays the two sides.
type Mode int

const (
	HumanVsHuman Mode = iota + 1
	HumanVsComputer
)

func (m Mode) String() string {
	switch m {
	case HumanVsHuman:
		return "pvp"
	case HumanVsComputer:
		return "pvc"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Label is the human readable name of the mode.
func (m Mode) Label() string {
	if m == HumanVsHuman {
		return "Player vs Player"
	}
	return "Player vs Computer"
}

// ParseMode accepts "pvp"/"pvc" and a few spelled-out variants.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pvp", "hvh", "human", "1":
		return HumanVsHuman, nil
	case "pvc", "hvc", "computer", "ai", "2":
		return HumanVsComputer, nil
	}
	return 0, fmt.Errorf("unknown game mode %q", s)
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	Mode          Mode
	HumanMark     types.Mark    // Mark of the human in HumanVsComputer, X moves first
	ComputerDelay time.Duration // Pause before the computer replies
}

// ComputerMark returns the mark the computer plays, or Empty without a computer.
func (c GameConfig) ComputerMark() types.Mark {
	if c.Mode != HumanVsComputer {
		return types.Empty
	}
	return c.HumanMark.Opponent()
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Mode:          HumanVsComputer,
		HumanMark:     types.PlayerX,
		ComputerDelay: 300 * time.Millisecond,
	}
}
