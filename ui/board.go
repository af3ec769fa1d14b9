// Package ui specifies custom controls for tview to play tic-tac-toe in the terminal.
package ui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tictactoe-local/config"
	"tictactoe-local/engine"
	"tictactoe-local/engine/minimax"
	"tictactoe-local/types"
)

// Cell geometry: each cell is cellW x cellH characters, with a one character grid line between cells.
const (
	cellW  = 7
	cellH  = 3
	boardW = cellW*3 + 2
	boardH = cellH*3 + 2
)

// Indexes into BoardUI.styles.
const (
	styleBoard = iota
	styleGrid
	styleX
	styleO
	styleHint
	styleCursor
	styleLastPlayed
	styleWin
)

// evaluator is implemented by engines that can score the legal moves.
type evaluator interface {
	Evaluate() []minimax.MoveScore
}

type BoardUI struct {
	Box        *tview.Box
	BoardState *types.BoardState
	hint       *tview.TextView
	cfg        *config.Config
	finished   bool
	selRow     int
	selCol     int
	app        *tview.Application
	eng        engine.GameEngine
	mode       engine.Mode
	styles     []tcell.Color
	infoPanel  *GameInfoPanel
	focusMode  bool
	showEval   bool
	evals      map[types.Position]int
	message    string
	onGameEnd  func(outcome string)
}

// NewBoard creates the board widget.
func NewBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *BoardUI {
	b := &BoardUI{
		Box:        tview.NewBox(),
		BoardState: types.NewBoardState(),
		hint:       hint,
		app:        app,
		selRow:     -1,
		selCol:     -1,
	}
	b.SetConfig(c)
	b.Box.SetDrawFunc(b.draw)
	return b
}

func (b *BoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if b.BoardState == nil {
		return x, y, width, height
	}
	left := x + max(0, (width-boardW)/2)
	top := y + max(0, (height-boardH)/2)

	gridStyle := tcell.StyleDefault.Background(b.styles[styleBoard]).Foreground(b.styles[styleGrid])
	for i := 0; i < boardH; i++ {
		for j := 0; j < boardW; j++ {
			onV := j == cellW || j == 2*cellW+1
			onH := i == cellH || i == 2*cellH+1
			switch {
			case onV && onH:
				screen.SetContent(left+j, top+i, '┼', nil, gridStyle)
			case onV:
				screen.SetContent(left+j, top+i, '│', nil, gridStyle)
			case onH:
				screen.SetContent(left+j, top+i, '─', nil, gridStyle)
			}
		}
	}

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			b.drawCell(screen, left+col*(cellW+1), top+row*(cellH+1), row, col)
		}
	}
	return x, y, width, height
}

func (b *BoardUI) drawCell(screen tcell.Screen, cx, cy, row, col int) {
	p := types.PositionAt(row, col)
	mark := b.BoardState.Board[row][col]

	bg := b.styles[styleBoard]
	switch {
	case row == b.selRow && col == b.selCol && b.cfg.Theme.DrawCursorBackground:
		bg = b.styles[styleCursor]
	case b.BoardState.OnWinningLine(p):
		bg = b.styles[styleWin]
	case p == b.BoardState.LastMove && b.cfg.Theme.DrawLastPlayedBackground:
		bg = b.styles[styleLastPlayed]
	}
	style := tcell.StyleDefault.Background(bg)
	for i := 0; i < cellH; i++ {
		for j := 0; j < cellW; j++ {
			screen.SetContent(cx+j, cy+i, ' ', nil, style)
		}
	}

	var text string
	fg := b.styles[styleHint]
	switch {
	case mark == types.PlayerX:
		text, fg = string(b.cfg.Theme.Symbols.X), b.styles[styleX]
		style = style.Bold(true)
	case mark == types.PlayerO:
		text, fg = string(b.cfg.Theme.Symbols.O), b.styles[styleO]
		style = style.Bold(true)
	case b.showEval:
		if score, ok := b.evals[p]; ok {
			text = fmt.Sprintf("%+d", score)
			if score == 0 {
				text = "0"
			}
		}
	case b.cfg.Theme.ShowCellNumbers:
		text = fmt.Sprintf("%d", p)
	}
	if row == b.selRow && col == b.selCol && !b.cfg.Theme.DrawCursorBackground && mark == types.Empty {
		text = "·"
	}

	runes := []rune(text)
	start := cx + (cellW-len(runes))/2
	for i, ch := range runes {
		screen.SetContent(start+i, cy+cellH/2, ch, nil, style.Foreground(fg))
	}
}

// SelectedTile returns the position under the cursor, or NoMove.
func (b *BoardUI) SelectedTile() types.Position {
	if b.selRow == -1 && b.selCol == -1 {
		return types.NoMove
	}
	return types.PositionAt(b.selRow, b.selCol)
}

// MoveSelection moves the cursor by h columns and v rows. The first move
// places it on the last move, or the centre.
func (b *BoardUI) MoveSelection(h, v int) {
	if b.finished {
		b.ResetSelection()
		return
	}
	if b.SelectedTile() == types.NoMove {
		b.selRow, b.selCol = 1, 1
		if last := b.BoardState.LastMove; last.Valid() {
			b.selRow, b.selCol = last.RowCol()
		}
		return
	}
	if b.selCol+h < 0 || b.selCol+h > 2 || b.selRow+v < 0 || b.selRow+v > 2 {
		return
	}
	b.selCol += h
	b.selRow += v
}

func (b *BoardUI) ResetSelection() {
	b.selRow = -1
	b.selCol = -1
}

// ConnectEngine connects the board to a game engine and starts the game.
func (b *BoardUI) ConnectEngine(e engine.GameEngine, mode engine.Mode) error {
	b.finished = false
	b.eng = e
	b.mode = mode
	b.message = ""
	b.ResetSelection()

	e.OnMove(func(p types.Position, mark types.Mark, boardState *types.BoardState) {
		// Spawn goroutine to avoid deadlock when called from the UI goroutine
		go b.app.QueueUpdateDraw(func() {
			b.BoardState = boardState
			b.refreshHint()
		})
	})

	e.OnGameEnd(func(outcome string) {
		go b.app.QueueUpdateDraw(func() {
			b.finished = true
			b.BoardState = e.GetBoardState()
			b.ResetSelection()
			b.refreshHint()
			if b.onGameEnd != nil {
				b.onGameEnd(outcome)
			}
		})
	})

	if err := e.Connect(); err != nil {
		return err
	}

	b.BoardState = e.GetBoardState()
	if b.infoPanel != nil {
		b.infoPanel.SetMode(mode)
	}
	b.refreshHint()
	return nil
}

// SetGameEndFunc registers a handler called on the UI goroutine when a game ends.
func (b *BoardUI) SetGameEndFunc(handler func(outcome string)) {
	b.onGameEnd = handler
}

// PlayMove plays the side to move at p.
func (b *BoardUI) PlayMove(p types.Position) {
	if b.finished || b.eng == nil || !b.eng.IsMyTurn() {
		return
	}
	if err := b.eng.PlayMove(p); err != nil {
		if errors.Is(err, engine.ErrOccupied) {
			b.message = fmt.Sprintf("Cell %d is already occupied", p)
		} else {
			b.message = err.Error()
		}
		b.refreshHint()
		return
	}
	b.message = ""
}

// PlaySelected plays at the cursor.
func (b *BoardUI) PlaySelected() {
	if p := b.SelectedTile(); p != types.NoMove {
		b.PlayMove(p)
	}
}

// Undo takes back the last move (and the computer reply).
func (b *BoardUI) Undo() {
	if b.eng == nil {
		return
	}
	if err := b.eng.Undo(); err != nil {
		b.message = "Nothing to undo"
		b.refreshHint()
		return
	}
	b.finished = false
	b.message = ""
	b.BoardState = b.eng.GetBoardState()
	b.refreshHint()
}

// NewGame restarts with the same settings.
func (b *BoardUI) NewGame() {
	if b.eng == nil {
		return
	}
	b.eng.Reset()
	b.finished = false
	b.message = ""
	b.ResetSelection()
	b.BoardState = b.eng.GetBoardState()
	b.refreshHint()
}

// ToggleEvaluation shows or hides the search score of each empty cell.
func (b *BoardUI) ToggleEvaluation() {
	b.showEval = !b.showEval
	b.refreshHint()
}

// Close disconnects the engine.
func (b *BoardUI) Close() {
	if b.eng == nil {
		return
	}
	b.eng.Close()
	b.eng = nil
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (b *BoardUI) ToggleFocusMode() bool {
	b.focusMode = !b.focusMode
	b.refreshHint()
	return b.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (b *BoardUI) SetFocusMode(enabled bool) {
	b.focusMode = enabled
	b.refreshHint()
}

func (b *BoardUI) SetConfig(c *config.Config) {
	b.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),        // styleBoard
		tcell.PaletteColor(c.Theme.Colors.GridColor),         // styleGrid
		tcell.PaletteColor(c.Theme.Colors.XColor),            // styleX
		tcell.PaletteColor(c.Theme.Colors.OColor),            // styleO
		tcell.PaletteColor(c.Theme.Colors.HintColor),         // styleHint
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG),     // styleCursor
		tcell.PaletteColor(c.Theme.Colors.LastPlayedColorBG), // styleLastPlayed
		tcell.PaletteColor(c.Theme.Colors.WinColorBG),        // styleWin
	}
	b.cfg = c
}

// IsFinished returns true if the game is over.
func (b *BoardUI) IsFinished() bool {
	return b.finished
}

func (b *BoardUI) refreshEvaluation() {
	b.evals = nil
	if !b.showEval || b.finished || b.eng == nil || !b.eng.IsMyTurn() {
		return
	}
	ev, ok := b.eng.(evaluator)
	if !ok {
		return
	}
	b.evals = make(map[types.Position]int)
	for _, ms := range ev.Evaluate() {
		b.evals[ms.Position] = ms.Score
	}
}

func (b *BoardUI) refreshHint() {
	b.refreshEvaluation()

	if b.infoPanel != nil {
		b.infoPanel.SetBoardState(b.BoardState)
		if b.eng != nil {
			b.infoPanel.SetSearch(b.eng.LastSearch())
		}
	}

	if b.focusMode {
		b.hint.SetText("  f to toggle")
		return
	}

	var statusLine, turnLine, controlsLine string

	if b.finished {
		statusLine = "───────── Game Complete ─────────\n"
		turnLine = fmt.Sprintf("  Result: %s\n", b.BoardState.Outcome)
		controlsLine = "  r · new game   u · undo   q · return to menu"
	} else {
		if b.message != "" {
			statusLine = fmt.Sprintf("  ! %s\n", b.message)
		}
		mark := b.BoardState.PlayerToMove
		if b.eng != nil && b.eng.IsMyTurn() {
			if b.mode == engine.HumanVsHuman {
				turnLine = fmt.Sprintf("  %s to move\n", mark)
			} else {
				turnLine = fmt.Sprintf("  Your move (%s)\n", mark)
			}
		} else {
			turnLine = "  ◌ Thinking...\n"
		}
		controlsLine = "  1-9 play   hjkl/↑↓←→ move   ⏎ play   u undo   e eval   r new   f focus   q quit"
	}

	b.hint.SetText(statusLine + turnLine + controlsLine)
	slog.Debug("board refreshed", "moves", b.BoardState.MoveNumber, "finished", b.finished)
}
