// Package console plays the game over plain text input and output.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tictactoe-local/engine"
	"tictactoe-local/engine/local"
	"tictactoe-local/types"
)

const (
	ansiCyan  = "\x1b[36m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// Game runs console sessions reading from in and writing to out.
type Game struct {
	in    *bufio.Scanner
	out   io.Writer
	color bool
}

// New creates a console game. color enables ANSI colours for the marks.
func New(in io.Reader, out io.Writer, color bool) *Game {
	return &Game{
		in:    bufio.NewScanner(in),
		out:   out,
		color: color,
	}
}

// Run plays games until the player declines a rematch or input ends.
// A zero cfg.Mode asks the player to choose.
func (g *Game) Run(cfg engine.GameConfig) error {
	if cfg.Mode == 0 {
		mode, err := g.askMode()
		if err != nil {
			return ignoreEOF(err)
		}
		cfg.Mode = mode
	}
	if cfg.HumanMark == types.Empty {
		cfg.HumanMark = types.PlayerX
	}
	// The search is instant, a delay would only slow the prompt down.
	cfg.ComputerDelay = 0

	for {
		if err := g.playOne(cfg); err != nil {
			return ignoreEOF(err)
		}
		again, err := g.ask("\nPlay again? [y/N]: ")
		if err != nil {
			return ignoreEOF(err)
		}
		if a := strings.ToLower(strings.TrimSpace(again)); a != "y" && a != "yes" {
			return nil
		}
	}
}

func (g *Game) askMode() (engine.Mode, error) {
	for {
		fmt.Fprintln(g.out, "Please select the game mode:")
		fmt.Fprintf(g.out, "1. %s\n", engine.HumanVsHuman.Label())
		fmt.Fprintf(g.out, "2. %s\n", engine.HumanVsComputer.Label())
		line, err := g.ask("")
		if err != nil {
			return 0, err
		}
		switch strings.TrimSpace(line) {
		case "1":
			return engine.HumanVsHuman, nil
		case "2":
			return engine.HumanVsComputer, nil
		}
		fmt.Fprintln(g.out, "Invalid input. Please enter 1 or 2.")
	}
}

func (g *Game) playOne(cfg engine.GameConfig) error {
	eng := local.NewLocalEngine(cfg)
	computer := cfg.ComputerMark()
	eng.OnMove(func(p types.Position, mark types.Mark, _ *types.BoardState) {
		if mark == computer {
			fmt.Fprintf(g.out, "\nComputer chooses move %d.\n", p)
		}
	})
	if err := eng.Connect(); err != nil {
		return err
	}
	defer eng.Close()
	eng.Wait()

	for {
		state := eng.GetBoardState()
		g.render(state)
		if state.Finished() {
			g.announce(state, computer)
			return nil
		}

		for {
			line, err := g.ask(fmt.Sprintf("\nChoose your move Player %d: ", playerNumber(state.PlayerToMove)))
			if err != nil {
				return err
			}
			p, err := types.ParsePosition(line)
			if err != nil {
				fmt.Fprintln(g.out, "\nIncorrect input! Please choose a number between 1 and 9!")
				continue
			}
			if err := eng.PlayMove(p); err != nil {
				if errors.Is(err, engine.ErrOccupied) {
					fmt.Fprintln(g.out, "\nCell is already occupied! Choose another cell!")
					continue
				}
				return err
			}
			break
		}
		eng.Wait()
	}
}

func (g *Game) announce(state *types.BoardState, computer types.Mark) {
	switch {
	case state.Winner == types.Empty:
		fmt.Fprintln(g.out, "\nIt's a draw. Try again!")
	case state.Winner == computer:
		fmt.Fprintln(g.out, "\nThe computer has won!")
	default:
		fmt.Fprintf(g.out, "\nPlayer %d has won!\n", playerNumber(state.Winner))
	}
	slog.Info("console game finished", "game", state.GameID, "outcome", state.Outcome)
}

// render draws the board in keypad layout, empty cells showing their number.
func (g *Game) render(state *types.BoardState) {
	var sb strings.Builder
	sb.WriteString("\n-------------------\n")
	sb.WriteString("| -*- TicTacToe -*- |\n")
	sb.WriteString("-------------------\n\n")
	for row := 0; row < 3; row++ {
		sb.WriteString("    ")
		for col := 0; col < 3; col++ {
			p := types.PositionAt(row, col)
			sb.WriteString(" " + g.symbol(p, state.Board[row][col]) + " ")
			if col < 2 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
		if row < 2 {
			sb.WriteString("    ---+---+---\n")
		}
	}
	fmt.Fprint(g.out, sb.String())
}

func (g *Game) symbol(p types.Position, m types.Mark) string {
	switch {
	case m == types.Empty:
		return fmt.Sprintf("%d", p)
	case !g.color:
		return m.String()
	case m == types.PlayerX:
		return ansiCyan + m.String() + ansiReset
	default:
		return ansiRed + m.String() + ansiReset
	}
}

// ask prints prompt and reads one line. io.EOF means input ended.
func (g *Game) ask(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(g.out, prompt)
	}
	if !g.in.Scan() {
		if err := g.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return g.in.Text(), nil
}

// X is player 1 and moves first.
func playerNumber(m types.Mark) int {
	if m == types.PlayerO {
		return 2
	}
	return 1
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
