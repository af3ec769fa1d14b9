package local

import (
	"errors"
	"sync"
	"testing"

	"tictactoe-local/engine"
	"tictactoe-local/types"
)

func newEngine(t *testing.T, cfg engine.GameConfig) *LocalEngine {
	t.Helper()
	e := NewLocalEngine(cfg)
	if err := e.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() {
		e.Close()
		e.Wait()
	})
	return e
}

func pvp() engine.GameConfig {
	return engine.GameConfig{Mode: engine.HumanVsHuman, HumanMark: types.PlayerX}
}

func pvc(human types.Mark) engine.GameConfig {
	return engine.GameConfig{Mode: engine.HumanVsComputer, HumanMark: human}
}

func TestHumanVsHumanAlternates(t *testing.T) {
	e := newEngine(t, pvp())

	if e.CurrentMark() != types.PlayerX || !e.IsMyTurn() {
		t.Fatal("X should move first")
	}
	if err := e.PlayMove(5); err != nil {
		t.Fatalf("PlayMove failed: %v", err)
	}
	if e.CurrentMark() != types.PlayerO || !e.IsMyTurn() {
		t.Fatal("O should move second, and is also human")
	}
	state := e.GetBoardState()
	if state.At(5) != types.PlayerX || state.MoveNumber != 1 || state.LastMove != 5 {
		t.Fatalf("unexpected state after first move: %+v", state)
	}
}

func TestPlayMoveRejectsIllegalMoves(t *testing.T) {
	e := newEngine(t, pvp())
	if err := e.PlayMove(5); err != nil {
		t.Fatalf("PlayMove failed: %v", err)
	}
	if err := e.PlayMove(5); !errors.Is(err, engine.ErrOccupied) {
		t.Fatalf("expected ErrOccupied, got %v", err)
	}
	if err := e.PlayMove(0); !errors.Is(err, types.ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
	if err := e.PlayMove(10); !errors.Is(err, types.ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
	if got := e.GetBoardState().MoveNumber; got != 1 {
		t.Fatalf("rejected moves must not change the board, move number %d", got)
	}
}

func TestGameEndsWithWinner(t *testing.T) {
	e := newEngine(t, pvp())

	var mu sync.Mutex
	var outcomes []string
	e.OnGameEnd(func(outcome string) {
		mu.Lock()
		outcomes = append(outcomes, outcome)
		mu.Unlock()
	})

	for _, p := range []types.Position{7, 1, 8, 2, 9} {
		if err := e.PlayMove(p); err != nil {
			t.Fatalf("PlayMove(%d) failed: %v", p, err)
		}
	}

	state := e.GetBoardState()
	if !state.Finished() || state.Winner != types.PlayerX || state.Outcome != "X wins" {
		t.Fatalf("expected X to win, got %+v", state)
	}
	for _, p := range []types.Position{7, 8, 9} {
		if !state.OnWinningLine(p) {
			t.Errorf("position %d should be on the winning line", p)
		}
	}
	if err := e.PlayMove(3); !errors.Is(err, engine.ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if e.IsMyTurn() {
		t.Fatal("no one moves after the game is over")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(outcomes) != 1 || outcomes[0] != "X wins" {
		t.Fatalf("OnGameEnd should fire once with the outcome, got %v", outcomes)
	}
}

func TestGameEndsInDraw(t *testing.T) {
	e := newEngine(t, pvp())
	for _, p := range []types.Position{7, 8, 9, 5, 4, 6, 2, 1, 3} {
		if err := e.PlayMove(p); err != nil {
			t.Fatalf("PlayMove(%d) failed: %v", p, err)
		}
	}
	state := e.GetBoardState()
	if !state.Finished() || state.Outcome != "Draw" || state.Winner != types.Empty {
		t.Fatalf("expected a draw, got %+v", state)
	}
}

func TestComputerRepliesWithCorner(t *testing.T) {
	e := newEngine(t, pvc(types.PlayerX))

	moves := make(chan types.Move, 4)
	e.OnMove(func(p types.Position, mark types.Mark, _ *types.BoardState) {
		moves <- types.Move{Position: p, Mark: mark}
	})

	if err := e.PlayMove(5); err != nil {
		t.Fatalf("PlayMove failed: %v", err)
	}
	e.Wait()

	if got := <-moves; got.Position != 5 || got.Mark != types.PlayerX {
		t.Fatalf("first callback should be the human move, got %+v", got)
	}
	if got := <-moves; got.Position != 1 || got.Mark != types.PlayerO {
		t.Fatalf("computer should answer the centre with corner 1, got %+v", got)
	}
	if !e.IsMyTurn() {
		t.Fatal("human should be to move after the computer reply")
	}
	if res := e.LastSearch(); res.Position != 1 || res.Stats.Nodes == 0 {
		t.Fatalf("unexpected last search %+v", res)
	}
}

func TestComputerOpensWhenPlayingX(t *testing.T) {
	e := newEngine(t, pvc(types.PlayerO))
	e.Wait()

	state := e.GetBoardState()
	if state.MoveNumber != 1 || state.At(1) != types.PlayerX {
		t.Fatalf("computer should open at 1 as X, got %+v", state)
	}
	if !e.IsMyTurn() || e.CurrentMark() != types.PlayerO {
		t.Fatal("human O should be to move")
	}
}

func TestNotYourTurnWhileComputerThinks(t *testing.T) {
	e := newEngine(t, pvc(types.PlayerO))
	// The computer move is scheduled in the background; until it lands the
	// human must wait.
	if !e.IsMyTurn() {
		if err := e.PlayMove(5); !errors.Is(err, engine.ErrNotYourTurn) {
			t.Fatalf("expected ErrNotYourTurn, got %v", err)
		}
	}
	e.Wait()
}

func TestUndoTakesBackComputerReply(t *testing.T) {
	e := newEngine(t, pvc(types.PlayerX))
	if err := e.Undo(); !errors.Is(err, engine.ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}

	if err := e.PlayMove(5); err != nil {
		t.Fatalf("PlayMove failed: %v", err)
	}
	e.Wait()
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	state := e.GetBoardState()
	if state.MoveNumber != 0 || state.At(5) != types.Empty || state.At(1) != types.Empty {
		t.Fatalf("undo should clear both moves, got %+v", state)
	}
	if !e.IsMyTurn() || e.CurrentMark() != types.PlayerX {
		t.Fatal("human X should be to move after undo")
	}
}

func TestUndoReopensFinishedGame(t *testing.T) {
	e := newEngine(t, pvp())
	for _, p := range []types.Position{7, 1, 8, 2, 9} {
		if err := e.PlayMove(p); err != nil {
			t.Fatalf("PlayMove(%d) failed: %v", p, err)
		}
	}
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	state := e.GetBoardState()
	if state.Finished() || state.At(9) != types.Empty || state.MoveNumber != 4 {
		t.Fatalf("undo should reopen the game, got %+v", state)
	}
}

func TestResetStartsNewGame(t *testing.T) {
	e := newEngine(t, pvp())
	first := e.GetBoardState().GameID
	if err := e.PlayMove(5); err != nil {
		t.Fatalf("PlayMove failed: %v", err)
	}
	e.Reset()
	state := e.GetBoardState()
	if state.MoveNumber != 0 || state.At(5) != types.Empty {
		t.Fatalf("reset should clear the board, got %+v", state)
	}
	if state.GameID == "" || state.GameID == first {
		t.Fatalf("reset should assign a new game id, got %q after %q", state.GameID, first)
	}
}

func TestComputerNeverLosesThroughEngine(t *testing.T) {
	// A naive human that always takes the lowest free cell.
	e := newEngine(t, pvc(types.PlayerX))
	for !e.GetBoardState().Finished() {
		state := e.GetBoardState()
		var p types.Position
		for q := types.Position(1); q <= 9; q++ {
			if state.At(q) == types.Empty {
				p = q
				break
			}
		}
		if err := e.PlayMove(p); err != nil {
			t.Fatalf("PlayMove(%d) failed: %v", p, err)
		}
		e.Wait()
	}
	if w := e.GetBoardState().Winner; w == types.PlayerX {
		t.Fatal("computer lost")
	}
}

func TestConnectRejectsBadConfig(t *testing.T) {
	e := NewLocalEngine(engine.GameConfig{Mode: engine.HumanVsComputer})
	if err := e.Connect(); err == nil {
		t.Fatal("expected an error without a human mark")
	}
	e = NewLocalEngine(engine.GameConfig{})
	if err := e.Connect(); err == nil {
		t.Fatal("expected an error without a mode")
	}
}
