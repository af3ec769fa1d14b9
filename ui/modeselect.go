package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tictactoe-local/engine"
	"tictactoe-local/types"
)

// menuItem is a focusable control inside the mode select card.
type menuItem interface {
	SetFocused(bool)
	HandleKey(*tcell.EventKey) bool
}

// ModeSelectUI is the setup screen: game mode, the human's mark, and buttons.
type ModeSelectUI struct {
	*MenuCard

	modeSelect *RadioSelect
	markSelect *RadioSelect
	buttons    []*MenuButton
	focus      int

	config engine.GameConfig
}

// NewModeSelect creates the setup screen starting from initial.
func NewModeSelect(initial engine.GameConfig, onStart func(engine.GameConfig), onColors func(), onQuit func()) *ModeSelectUI {
	m := &ModeSelectUI{
		MenuCard: NewMenuCard("T I C · T A C · T O E"),
		config:   initial,
	}

	modeIndex := 1
	if initial.Mode == engine.HumanVsHuman {
		modeIndex = 0
	}
	m.modeSelect = NewRadioSelect("Game Mode", []RadioOption{
		{Label: engine.HumanVsHuman.Label(), Description: "hot seat"},
		{Label: engine.HumanVsComputer.Label(), Description: "perfect play"},
	}, modeIndex, func(i int) {
		m.config.Mode = engine.HumanVsHuman
		if i == 1 {
			m.config.Mode = engine.HumanVsComputer
		}
		m.markSelect.SetDisabled(m.config.Mode == engine.HumanVsHuman)
	})

	markIndex := 0
	if initial.HumanMark == types.PlayerO {
		markIndex = 1
	}
	m.markSelect = NewRadioSelect("You Play", []RadioOption{
		{Label: "X", Description: "moves first"},
		{Label: "O", Description: "moves second"},
	}, markIndex, func(i int) {
		m.config.HumanMark = types.PlayerX
		if i == 1 {
			m.config.HumanMark = types.PlayerO
		}
	})
	m.markSelect.SetDisabled(initial.Mode == engine.HumanVsHuman)

	m.buttons = []*MenuButton{
		NewMenuButton("Start Game", true, func() { onStart(m.config) }),
		NewMenuButton("Colors", false, onColors),
		NewMenuButton("Quit", false, onQuit),
	}
	m.SetFocused(true)
	m.applyFocus()
	return m
}

func (m *ModeSelectUI) items() []menuItem {
	items := []menuItem{m.modeSelect}
	if !m.markSelect.Disabled() {
		items = append(items, m.markSelect)
	}
	for _, b := range m.buttons {
		items = append(items, b)
	}
	return items
}

func (m *ModeSelectUI) applyFocus() {
	items := m.items()
	if m.focus >= len(items) {
		m.focus = len(items) - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	m.modeSelect.SetFocused(false)
	m.markSelect.SetFocused(false)
	for _, b := range m.buttons {
		b.SetFocused(false)
	}
	items[m.focus].SetFocused(true)
}

// Config returns the currently selected game configuration.
func (m *ModeSelectUI) Config() engine.GameConfig {
	return m.config
}

// Draw renders the card and its controls.
func (m *ModeSelectUI) Draw(screen tcell.Screen) {
	m.MenuCard.Draw(screen)

	x, y, width, height := m.GetInnerRect()
	if width < 30 || height < 18 {
		return
	}
	left := x + 3
	row := y + ContentTop
	row += m.modeSelect.Draw(screen, left, row, width-6) + 1
	row += m.markSelect.Draw(screen, left, row, width-6) + 1

	m.DrawDivider(screen, row)
	row += 2
	col := left
	for _, b := range m.buttons {
		col += b.Draw(screen, col, row) + 2
	}

	hintStyle := tcell.StyleDefault.Foreground(MenuColors.Hint).Background(MenuColors.CardBG)
	drawText(screen, left, y+height-2, width-6, "Tab next · ↑↓ choose · ⏎ select", hintStyle)
}

// InputHandler moves focus with Tab and hands other keys to the focused control.
func (m *ModeSelectUI) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return m.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		switch event.Key() {
		case tcell.KeyTab:
			m.focus = (m.focus + 1) % len(m.items())
			m.applyFocus()
			return
		case tcell.KeyBacktab:
			n := len(m.items())
			m.focus = (m.focus + n - 1) % n
			m.applyFocus()
			return
		}
		items := m.items()
		items[m.focus].HandleKey(event)
		// Toggling the mode can hide the mark group.
		m.applyFocus()
	})
}
