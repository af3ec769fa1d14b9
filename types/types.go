// Package types contains shared data structures for tictactoe-local.
package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPosition is returned when a position is outside 1-9.
var ErrInvalidPosition = errors.New("invalid position")

// Mark is the content of a single cell.
type Mark int

const (
	Empty Mark = iota
	PlayerX
	PlayerO
)

// Opponent returns the other player's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	}
	return Empty
}

func (m Mark) String() string {
	switch m {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	}
	return " "
}

// ParseMark converts "x" or "o" (any case) to a player mark.
func ParseMark(s string) (Mark, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return PlayerX, nil
	case "o":
		return PlayerO, nil
	}
	return Empty, fmt.Errorf("invalid mark %q", s)
}

// Position is a cell number in numeric keypad layout:
//
//	7 8 9
//	4 5 6
//	1 2 3
type Position int

// NoMove is returned by the search when no empty cell exists.
const NoMove Position = 0

// Valid reports whether p names a cell.
func (p Position) Valid() bool {
	return p >= 1 && p <= 9
}

// RowCol returns the grid coordinates of p, with row 0 at the top.
func (p Position) RowCol() (row, col int) {
	return 2 - int(p-1)/3, int(p-1) % 3
}

// PositionAt is the inverse of RowCol.
func PositionAt(row, col int) Position {
	return Position((2-row)*3 + col + 1)
}

// ParsePosition parses user input into a position.
func ParsePosition(s string) (Position, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q is not a number", ErrInvalidPosition, s)
	}
	p := Position(n)
	if !p.Valid() {
		return NoMove, fmt.Errorf("%w: %d is not between 1 and 9", ErrInvalidPosition, n)
	}
	return p, nil
}

// Game phases for BoardState.
const (
	PhasePlaying  = "playing"
	PhaseFinished = "finished"
)

// BoardState is a snapshot of a game for presentation.
// Board is indexed as Board[row][col] with row 0 at the top.
type BoardState struct {
	GameID       string
	MoveNumber   int
	PlayerToMove Mark
	Phase        string
	Board        [3][3]Mark
	Outcome      string
	Winner       Mark
	WinningLine  []Position
	LastMove     Position
	History      []Move
}

// Move is one entry of the game history.
type Move struct {
	Position Position
	Mark     Mark
}

// Finished returns true if the game is over.
func (b *BoardState) Finished() bool {
	return b.Phase == PhaseFinished
}

// At returns the mark at position p.
func (b *BoardState) At(p Position) Mark {
	row, col := p.RowCol()
	return b.Board[row][col]
}

// OnWinningLine reports whether p is part of the completed line.
func (b *BoardState) OnWinningLine(p Position) bool {
	for _, w := range b.WinningLine {
		if w == p {
			return true
		}
	}
	return false
}

// NewBoardState creates the snapshot of an empty board with X to move.
func NewBoardState() *BoardState {
	return &BoardState{
		PlayerToMove: PlayerX,
		Phase:        PhasePlaying,
	}
}
