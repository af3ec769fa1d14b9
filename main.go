// tictactoe-local is a terminal application to play tic-tac-toe against a friend or a perfect computer opponent.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tictactoe-local/config"
	"tictactoe-local/console"
	"tictactoe-local/engine"
	"tictactoe-local/engine/local"
	"tictactoe-local/logging"
	"tictactoe-local/telemetry"
	"tictactoe-local/types"
	"tictactoe-local/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagMode       = flag.String("mode", "", "Game mode (pvp or pvc)")
	flagMark       = flag.String("mark", "", "Your mark against the computer (x or o)")
	flagDelay      = flag.Int("delay", -1, "Computer move delay in milliseconds")
	flagConsole    = flag.Bool("console", false, "Play in plain text mode")
	flagNoColor    = flag.Bool("no-color", false, "Disable colors in plain text mode")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (board only)")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.BoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config
var currentGame engine.GameConfig

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("tictactoe-local %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	closeLog, err := logging.Init(logPath, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	shutdown, err := telemetry.InitTracing(cfg.Telemetry.TraceFile, Version)
	if err != nil {
		slog.Warn("tracing disabled", "err", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				slog.Warn("tracing shutdown failed", "err", err)
			}
		}()
	}

	gameCfg, err := buildGameConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.Info("starting", "version", Version, "console", *flagConsole, "mode", gameCfg.Mode)

	if *flagConsole {
		// Without -mode the console asks, like the classic prompt.
		if *flagMode == "" {
			gameCfg.Mode = 0
		}
		if err := console.New(os.Stdin, os.Stdout, !*flagNoColor).Run(gameCfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	runTUI(gameCfg)
}

func runTUI(gameCfg engine.GameConfig) {
	quickStart := *flagQuickStart || *flagMode != "" || *flagMark != "" || *flagFocus

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" # tictactoe ")

	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewBoard(app, cfg, gameHint)
	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	gameBoard.SetGameEndFunc(showResult)

	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			if gameBoard.SelectedTile() != types.NoMove {
				gameBoard.ResetSelection()
			} else {
				gameBoard.Close()
				rootPage.SwitchToPage("setup")
			}
			return nil
		}
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveSelection(0, -1)
		case tcell.KeyDown:
			gameBoard.MoveSelection(0, 1)
		case tcell.KeyLeft:
			gameBoard.MoveSelection(-1, 0)
		case tcell.KeyRight:
			gameBoard.MoveSelection(1, 0)
		case tcell.KeyEnter:
			gameBoard.PlaySelected()
		case tcell.KeyRune:
			switch r := event.Rune(); r {
			case '1', '2', '3', '4', '5', '6', '7', '8', '9':
				gameBoard.PlayMove(types.Position(r - '0'))
			case 'h':
				gameBoard.MoveSelection(-1, 0)
			case 'j':
				gameBoard.MoveSelection(0, 1)
			case 'k':
				gameBoard.MoveSelection(0, -1)
			case 'l':
				gameBoard.MoveSelection(1, 0)
			case 'u':
				gameBoard.Undo()
			case 'r':
				gameBoard.NewGame()
			case 'e':
				gameBoard.ToggleEvaluation()
			case 'f':
				if gameBoard.ToggleFocusMode() {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
				}
			}
		}
		return event
	})

	setupUI := ui.NewModeSelect(gameCfg,
		startGame,
		func() {
			rootPage.SwitchToPage("colors")
		},
		func() {
			app.Stop()
		},
	)

	colorConfig := ui.NewColorConfig(cfg, func() {
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI, 52, 24), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)

	if quickStart {
		startGame(gameCfg)
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		slog.Error("ui stopped", "err", err)
		gameBoard.Close()
		os.Exit(1)
	}
	gameBoard.Close()
}

// startGame starts a game with the given configuration.
func startGame(gameCfg engine.GameConfig) {
	gameBoard.Close()
	currentGame = gameCfg

	eng := local.NewLocalEngine(gameCfg)
	if err := gameBoard.ConnectEngine(eng, gameCfg.Mode); err != nil {
		modal := tview.NewModal().
			SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				rootPage.RemovePage("error")
			})
		rootPage.AddPage("error", modal, true, true)
		return
	}
	rootPage.SwitchToPage("gameview")
	app.SetFocus(gameBoard.Box)
}

// showResult pops up the outcome with a rematch choice.
func showResult(outcome string) {
	slog.Info("game over", "outcome", outcome, "game", gameBoard.BoardState.GameID)
	modal := tview.NewModal().
		SetText(resultText()).
		AddButtons([]string{"Play again", "Menu"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("result")
			if buttonLabel == "Play again" {
				gameBoard.NewGame()
				rootPage.SwitchToPage("gameview")
				app.SetFocus(gameBoard.Box)
				return
			}
			gameBoard.Close()
			rootPage.SwitchToPage("setup")
		})
	rootPage.AddPage("result", modal, true, true)
}

func resultText() string {
	winner := gameBoard.BoardState.Winner
	switch {
	case winner == types.Empty:
		return "It's a draw. Try again!"
	case currentGame.Mode != engine.HumanVsComputer:
		return fmt.Sprintf("%s has won!", winner)
	case winner == currentGame.ComputerMark():
		return "The computer has won!"
	}
	return "You won!"
}

// buildGameConfigFromFlags starts from the configured defaults and applies the flags.
func buildGameConfigFromFlags() (engine.GameConfig, error) {
	gameCfg, err := cfg.GameConfig()
	if err != nil {
		return gameCfg, err
	}

	if *flagMode != "" {
		mode, err := engine.ParseMode(*flagMode)
		if err != nil {
			return gameCfg, err
		}
		gameCfg.Mode = mode
	}
	if *flagMark != "" {
		mark, err := types.ParseMark(*flagMark)
		if err != nil {
			return gameCfg, err
		}
		gameCfg.HumanMark = mark
	}
	if *flagDelay >= 0 {
		gameCfg.ComputerDelay = time.Duration(*flagDelay) * time.Millisecond
	}
	return gameCfg, nil
}
