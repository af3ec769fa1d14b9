package ui

import (
	"github.com/gdamore/tcell/v2"
)

// RadioOption represents a single radio button option.
type RadioOption struct {
	Label       string
	Description string
}

// RadioSelect is a radio button group component.
type RadioSelect struct {
	label    string
	options  []RadioOption
	selected int
	focused  bool
	disabled bool
	onChange func(int)
}

// NewRadioSelect creates a new radio select component.
func NewRadioSelect(label string, options []RadioOption, initial int, onChange func(int)) *RadioSelect {
	return &RadioSelect{
		label:    label,
		options:  options,
		selected: initial,
		onChange: onChange,
	}
}

// SetFocused sets the focus state.
func (r *RadioSelect) SetFocused(focused bool) {
	r.focused = focused
}

// SetDisabled greys the group out and ignores input.
func (r *RadioSelect) SetDisabled(disabled bool) {
	r.disabled = disabled
}

// Disabled reports whether the group ignores input.
func (r *RadioSelect) Disabled() bool {
	return r.disabled
}

// HandleKey processes keyboard input. Returns true if handled.
func (r *RadioSelect) HandleKey(event *tcell.EventKey) bool {
	if r.disabled {
		return false
	}
	switch event.Key() {
	case tcell.KeyUp, tcell.KeyLeft:
		r.SetSelected(r.selected - 1)
		return true
	case tcell.KeyDown, tcell.KeyRight:
		r.SetSelected(r.selected + 1)
		return true
	case tcell.KeyRune:
		switch event.Rune() {
		case 'k', 'h':
			r.SetSelected(r.selected - 1)
			return true
		case 'j', 'l':
			r.SetSelected(r.selected + 1)
			return true
		}
	}
	return false
}

// Draw renders the radio select component.
// Returns the number of rows used.
func (r *RadioSelect) Draw(screen tcell.Screen, x, y, width int) int {
	bgStyle := tcell.StyleDefault.Background(MenuColors.CardBG)
	labelStyle := tcell.StyleDefault.Foreground(MenuColors.Label).Background(MenuColors.CardBG)
	accentStyle := tcell.StyleDefault.Foreground(MenuColors.TitleAccent).Background(MenuColors.CardBG)
	selectedStyle := tcell.StyleDefault.Foreground(MenuColors.Selected).Background(MenuColors.CardBG)
	unselectedStyle := tcell.StyleDefault.Foreground(MenuColors.Unselected).Background(MenuColors.CardBG)
	hintStyle := tcell.StyleDefault.Foreground(MenuColors.Hint).Background(MenuColors.CardBG)
	if r.disabled {
		disabledStyle := tcell.StyleDefault.Foreground(MenuColors.Disabled).Background(MenuColors.CardBG)
		labelStyle, accentStyle, selectedStyle, unselectedStyle, hintStyle =
			disabledStyle, disabledStyle, disabledStyle, disabledStyle, disabledStyle
	}

	row := y
	drawText(screen, x, row, width, "◈", accentStyle)
	drawText(screen, x+2, row, width-2, r.label, labelStyle)
	row++

	for i, opt := range r.options {
		col := x + 2

		if r.focused && i == r.selected {
			screen.SetContent(col, row, '▸', nil, selectedStyle)
		} else {
			screen.SetContent(col, row, ' ', nil, bgStyle)
		}
		col += 2

		style := unselectedStyle
		bullet := "○"
		if i == r.selected {
			bullet = "●"
			style = selectedStyle
		}
		drawText(screen, col, row, x+width-col, bullet, style)
		col += 2

		col += drawText(screen, col, row, x+width-col, opt.Label, style)
		if opt.Description != "" {
			drawText(screen, col+1, row, x+width-col-1, opt.Description, hintStyle)
		}
		row++
	}

	return row - y
}

// Selected returns the currently selected index.
func (r *RadioSelect) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RadioSelect) SetSelected(index int) {
	if index >= 0 && index < len(r.options) && index != r.selected {
		r.selected = index
		if r.onChange != nil {
			r.onChange(r.selected)
		}
	}
}

// drawText writes s clipped to maxWidth cells and returns the cells used.
func drawText(screen tcell.Screen, x, y, maxWidth int, s string, style tcell.Style) int {
	n := 0
	for _, ch := range s {
		if n >= maxWidth {
			break
		}
		screen.SetContent(x+n, y, ch, nil, style)
		n++
	}
	return n
}
