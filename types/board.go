package types

import (
	"fmt"
	"strings"
)

// PreconditionError is the panic value raised when a caller breaks the
// Board contract, e.g. placing a mark on an occupied cell.
type PreconditionError struct {
	Op       string
	Position Position
	Reason   string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("board %s(%d): %s", e.Op, e.Position, e.Reason)
}

// Lines lists the 8 winning lines as positions: rows, columns, diagonals.
var Lines = [8][3]Position{
	{7, 8, 9}, {4, 5, 6}, {1, 2, 3},
	{7, 4, 1}, {8, 5, 2}, {9, 6, 3},
	{7, 5, 3}, {9, 5, 1},
}

// Board is the 3x3 grid plus the number of occupied cells.
// The zero value is an empty board.
type Board struct {
	cells      [3][3]Mark
	turnsTaken int
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// IsEmpty reports whether the cell at p holds no mark.
func (b *Board) IsEmpty(p Position) bool {
	return b.At(p) == Empty
}

// At returns the mark at p.
func (b *Board) At(p Position) Mark {
	row, col := p.RowCol()
	return b.cells[row][col]
}

// Place writes m into the empty cell at p.
// It panics with a *PreconditionError if p is invalid or already occupied.
func (b *Board) Place(m Mark, p Position) {
	if !p.Valid() {
		panic(&PreconditionError{Op: "place", Position: p, Reason: "position out of range"})
	}
	row, col := p.RowCol()
	if b.cells[row][col] != Empty {
		panic(&PreconditionError{Op: "place", Position: p, Reason: "cell occupied"})
	}
	b.cells[row][col] = m
	b.turnsTaken++
}

// Clear empties the cell at p. It undoes a previous Place.
func (b *Board) Clear(p Position) {
	if !p.Valid() {
		panic(&PreconditionError{Op: "clear", Position: p, Reason: "position out of range"})
	}
	row, col := p.RowCol()
	if b.cells[row][col] == Empty {
		panic(&PreconditionError{Op: "clear", Position: p, Reason: "cell already empty"})
	}
	b.cells[row][col] = Empty
	b.turnsTaken--
}

// IsWinner reports whether any line is fully occupied by m.
func (b *Board) IsWinner(m Mark) bool {
	return b.WinningLine(m) != nil
}

// WinningLine returns the first line completed by m, or nil.
func (b *Board) WinningLine(m Mark) []Position {
	if m == Empty {
		return nil
	}
	for _, line := range Lines {
		if b.At(line[0]) == m && b.At(line[1]) == m && b.At(line[2]) == m {
			return line[:]
		}
	}
	return nil
}

// Winner returns the mark that completed a line, or Empty.
func (b *Board) Winner() Mark {
	if b.IsWinner(PlayerX) {
		return PlayerX
	}
	if b.IsWinner(PlayerO) {
		return PlayerO
	}
	return Empty
}

// IsFull reports whether all 9 cells are occupied.
func (b *Board) IsFull() bool {
	return b.turnsTaken == 9
}

// TurnsTaken returns the number of occupied cells.
func (b *Board) TurnsTaken() int {
	return b.turnsTaken
}

// Reset empties every cell.
func (b *Board) Reset() {
	b.cells = [3][3]Mark{}
	b.turnsTaken = 0
}

// EmptyPositions returns the empty cells in increasing position order.
func (b *Board) EmptyPositions() []Position {
	var positions []Position
	for p := Position(1); p <= 9; p++ {
		if b.IsEmpty(p) {
			positions = append(positions, p)
		}
	}
	return positions
}

// Cells returns a copy of the grid, row 0 at the top.
func (b *Board) Cells() [3][3]Mark {
	return b.cells
}

// String renders the board in keypad orientation, empty cells showing their number.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			p := PositionAt(row, col)
			if m := b.cells[row][col]; m != Empty {
				sb.WriteString(m.String())
			} else {
				sb.WriteString(fmt.Sprintf("%d", p))
			}
			if col < 2 {
				sb.WriteString("|")
			}
		}
		if row < 2 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
