package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"tictactoe-local/engine"
	"tictactoe-local/engine/minimax"
	"tictactoe-local/types"
)

// GameInfoPanel displays game information and move history alongside the board.
type GameInfoPanel struct {
	box        *tview.TextView
	boardState *types.BoardState
	mode       engine.Mode
	search     minimax.Result
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetBoardState updates the panel with current board state.
func (p *GameInfoPanel) SetBoardState(state *types.BoardState) {
	p.boardState = state
	p.refresh()
}

func (p *GameInfoPanel) SetMode(mode engine.Mode) {
	p.mode = mode
	p.refresh()
}

// SetSearch shows the statistics of the last computer search.
func (p *GameInfoPanel) SetSearch(res minimax.Result) {
	p.search = res
	p.refresh()
}

func (p *GameInfoPanel) refresh() {
	if p.boardState == nil {
		p.box.SetText("")
		return
	}

	var sb strings.Builder

	sb.WriteString("[white::b]Game Info[-:-:-]\n")
	sb.WriteString("[dimgray]──────────────────────[-:-:-]\n")

	if id := p.boardState.GameID; id != "" {
		fmt.Fprintf(&sb, "[white]Game:[-:-:-] %s\n", id)
	}
	if p.mode != 0 {
		fmt.Fprintf(&sb, "[white]Mode:[-:-:-] %s\n", p.mode.Label())
	}
	fmt.Fprintf(&sb, "[white]Move:[-:-:-] %d\n", p.boardState.MoveNumber)
	if p.boardState.Finished() {
		fmt.Fprintf(&sb, "[white]Result:[-:-:-] %s\n", p.boardState.Outcome)
	} else {
		fmt.Fprintf(&sb, "[white]To move:[-:-:-] %s\n", p.boardState.PlayerToMove)
	}

	if p.search.Position.Valid() {
		sb.WriteString("\n[white::b]Search[-:-:-]\n")
		sb.WriteString("[dimgray]──────────────────────[-:-:-]\n")
		fmt.Fprintf(&sb, "[white]Chose:[-:-:-] %d (%+d)\n", p.search.Position, p.search.Score)
		fmt.Fprintf(&sb, "[white]Nodes:[-:-:-] %d\n", p.search.Stats.Nodes)
		fmt.Fprintf(&sb, "[white]Cutoffs:[-:-:-] %d\n", p.search.Stats.Cutoffs)
	}

	if moves := p.boardState.History; len(moves) > 0 {
		sb.WriteString("\n[white::b]Moves[-:-:-]\n")
		sb.WriteString("[dimgray]──────────────────────[-:-:-]\n")
		for i, m := range moves {
			marker := " "
			if i == len(moves)-1 {
				marker = "[white]>[-]"
			}
			fmt.Fprintf(&sb, "%s[dimgray]%2d.[-] %s %d\n", marker, i+1, m.Mark, m.Position)
		}
	}

	p.box.SetText(sb.String())
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *BoardUI, hint *tview.TextView) *tview.Flex {
	mainFlex := tview.NewFlex()
	RebuildNormalLayout(mainFlex, board, hint)
	return mainFlex
}

// CreateCenteredForm creates a centered container for menu screens.
func CreateCenteredForm(form tview.Primitive, maxWidth, height int) *tview.Flex {
	row := tview.NewFlex().SetDirection(tview.FlexColumn)
	row.AddItem(nil, 0, 1, false)
	row.AddItem(form, maxWidth, 0, true)
	row.AddItem(nil, 0, 1, false)

	centered := tview.NewFlex().SetDirection(tview.FlexRow)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(row, height, 0, true)
	centered.AddItem(nil, 0, 1, false)
	return centered
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *BoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	infoPanel := NewGameInfoPanel()
	infoPanel.SetMode(board.mode)
	board.infoPanel = infoPanel
	if board.BoardState != nil {
		infoPanel.SetBoardState(board.BoardState)
	}

	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false)

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 3, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *BoardUI) {
	gameFrame.Clear()
	board.infoPanel = nil

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false)

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(board.Box, boardW, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	gameFrame.AddItem(centerRow, boardH, 0, true)
	gameFrame.AddItem(nil, 0, 1, false)
}
