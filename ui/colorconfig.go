package ui

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tictactoe-local/config"
)

// ColorConfigUI provides a color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()

	selectedX int
	selectedO int
	editingO  bool // true = editing O color, false = editing X color
}

type paletteEntry struct {
	code int
	name string
}

var markColors = []paletteEntry{
	{37, "Teal"},
	{39, "Sky Blue"},
	{45, "Turquoise"},
	{33, "Blue"},
	{75, "Steel Blue"},
	{48, "Spring Green"},
	{82, "Chartreuse"},
	{118, "Lime"},
	{226, "Yellow"},
	{220, "Gold"},
	{214, "Orange"},
	{208, "Dark Orange"},
	{203, "Coral"},
	{196, "Red"},
	{168, "Rose"},
	{205, "Hot Pink"},
	{177, "Violet"},
	{141, "Lavender"},
	{255, "White"},
	{250, "Gray"},
}

// NewColorConfig creates a new color configuration screen.
func NewColorConfig(cfg *config.Config, onDone func()) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:       cfg,
		onDone:    onDone,
		selectedX: cfg.Theme.Colors.XColor,
		selectedO: cfg.Theme.Colors.OColor,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	cc.populateColorList()

	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index < 0 || index >= len(markColors) {
			return
		}
		if cc.editingO {
			cc.selectedO = markColors[index].code
		} else {
			cc.selectedX = markColors[index].code
		}
	})

	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index < 0 || index >= len(markColors) {
			return
		}
		if !cc.editingO {
			// Pick O next.
			cc.editingO = true
			cc.populateColorList()
			return
		}
		cc.cfg.Theme.Colors.XColor = cc.selectedX
		cc.cfg.Theme.Colors.OColor = cc.selectedO
		if err := cc.cfg.Save(); err != nil {
			slog.Error("saving colors failed", "err", err)
		}
		cc.editingO = false
		cc.populateColorList()
		onDone()
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 30, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()

	selected := cc.selectedX
	if cc.editingO {
		cc.colorList.SetTitle(" Select O Color (Tab: switch to X) ")
		selected = cc.selectedO
	} else {
		cc.colorList.SetTitle(" Select X Color (Tab: switch to O) ")
	}
	for i, c := range markColors {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range markColors {
		if c.code == selected {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if width < boardW+4 || height < boardH+3 {
		return x, y, width, height
	}

	colors := cc.cfg.Theme.Colors
	boardStyle := tcell.StyleDefault.Background(tcell.PaletteColor(colors.BoardColor))
	gridStyle := boardStyle.Foreground(tcell.PaletteColor(colors.GridColor))
	xStyle := boardStyle.Foreground(tcell.PaletteColor(cc.selectedX)).Bold(true)
	oStyle := boardStyle.Foreground(tcell.PaletteColor(cc.selectedO)).Bold(true)

	startX := x + 2
	startY := y + 1

	// X on 7, 5 and 3; O on 9 and 1.
	sample := map[[2]int]rune{
		{0, 0}: 'X', {0, 2}: 'O',
		{1, 1}: 'X',
		{2, 0}: 'O', {2, 2}: 'X',
	}

	for i := 0; i < boardH; i++ {
		for j := 0; j < boardW; j++ {
			onV := j == cellW || j == 2*cellW+1
			onH := i == cellH || i == 2*cellH+1
			ch, style := ' ', boardStyle
			switch {
			case onV && onH:
				ch, style = '┼', gridStyle
			case onV:
				ch, style = '│', gridStyle
			case onH:
				ch, style = '─', gridStyle
			case i%(cellH+1) == cellH/2 && j%(cellW+1) == cellW/2:
				if m, ok := sample[[2]int{i / (cellH + 1), j / (cellW + 1)}]; ok {
					if m == 'X' {
						ch, style = cc.cfg.Theme.Symbols.X, xStyle
					} else {
						ch, style = cc.cfg.Theme.Symbols.O, oStyle
					}
				}
			}
			screen.SetContent(startX+j, startY+i, ch, nil, style)
		}
	}

	info := fmt.Sprintf("X: %d  O: %d", cc.selectedX, cc.selectedO)
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+boardH+1, ch, nil, tcell.StyleDefault)
		}
	}

	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches between editing the X and the O color.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingO = !cc.editingO
	cc.populateColorList()
}
