// Package local implements engine.GameEngine in process, with the computer
// side played by the minimax searcher.
package local

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tictactoe-local/engine"
	"tictactoe-local/engine/minimax"
	"tictactoe-local/types"
)

const instrumentationName = "tictactoe-local/engine/local"

// LocalEngine owns the board of one game at a time.
type LocalEngine struct {
	config   engine.GameConfig
	board    *types.Board
	searcher *minimax.Searcher

	gameID      string
	history     []types.Move
	gameOver    bool
	outcome     string
	winner      types.Mark
	winningLine []types.Position
	lastSearch  minimax.Result

	// generation invalidates computer moves scheduled before an Undo, Reset or Close.
	generation int
	closed     bool

	moveCallback func(p types.Position, mark types.Mark, boardState *types.BoardState)
	endCallback  func(outcome string)

	logger  *slog.Logger
	tracer  trace.Tracer
	pending sync.WaitGroup
	mu      sync.Mutex
}

// NewLocalEngine creates an engine with the given configuration.
func NewLocalEngine(cfg engine.GameConfig) *LocalEngine {
	e := &LocalEngine{
		config: cfg,
		board:  types.NewBoard(),
		logger: slog.Default().With("component", "engine"),
		tracer: otel.Tracer(instrumentationName),
	}
	if computer := cfg.ComputerMark(); computer != types.Empty {
		e.searcher = minimax.New(computer)
	}
	return e
}

// Connect starts the first game.
func (e *LocalEngine) Connect() error {
	if e.config.Mode != engine.HumanVsHuman && e.config.Mode != engine.HumanVsComputer {
		return fmt.Errorf("unsupported game mode %v", e.config.Mode)
	}
	if e.config.Mode == engine.HumanVsComputer && e.config.HumanMark != types.PlayerX && e.config.HumanMark != types.PlayerO {
		return fmt.Errorf("human must play X or O, got %q", e.config.HumanMark)
	}

	e.mu.Lock()
	e.newGame()
	e.mu.Unlock()
	return nil
}

// newGame clears the board and schedules the computer if it opens.
// Must be called while holding the lock.
func (e *LocalEngine) newGame() {
	e.board.Reset()
	e.history = nil
	e.gameOver = false
	e.outcome = ""
	e.winner = types.Empty
	e.winningLine = nil
	e.lastSearch = minimax.Result{}
	e.generation++
	e.gameID = uuid.New().String()[:8]

	e.logger.Info("new game", "game", e.gameID, "mode", e.config.Mode.String(), "human", e.config.HumanMark.String())

	if e.computerToMove() {
		e.scheduleComputerMove()
	}
}

// GetBoardState returns a snapshot of the current game.
func (e *LocalEngine) GetBoardState() *types.BoardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyBoardState()
}

// PlayMove plays the mark of the side to move at p.
func (e *LocalEngine) PlayMove(p types.Position) error {
	e.mu.Lock()

	if e.gameOver {
		e.mu.Unlock()
		return engine.ErrGameOver
	}
	if e.computerToMove() {
		e.mu.Unlock()
		return engine.ErrNotYourTurn
	}
	if !p.Valid() {
		e.mu.Unlock()
		return fmt.Errorf("illegal move: %w", types.ErrInvalidPosition)
	}
	if !e.board.IsEmpty(p) {
		e.mu.Unlock()
		return fmt.Errorf("illegal move %d: %w", p, engine.ErrOccupied)
	}

	mark := e.currentMark()
	finished := e.apply(mark, p)
	e.logger.Debug("human move", "game", e.gameID, "mark", mark.String(), "position", int(p))

	if !finished && e.computerToMove() {
		e.scheduleComputerMove()
	}
	boardStateCopy := e.copyBoardState()
	outcome := e.outcome
	e.mu.Unlock()

	// Notify callbacks outside the lock
	e.notify(p, mark, boardStateCopy, finished, outcome)
	return nil
}

// apply places mark at p, records it and settles the game if it ended.
// Must be called while holding the lock.
func (e *LocalEngine) apply(mark types.Mark, p types.Position) bool {
	e.board.Place(mark, p)
	e.history = append(e.history, types.Move{Position: p, Mark: mark})

	// A completed line wins even on the ninth move.
	if line := e.board.WinningLine(mark); line != nil {
		e.gameOver = true
		e.winner = mark
		e.winningLine = line
		e.outcome = fmt.Sprintf("%s wins", mark)
	} else if e.board.IsFull() {
		e.gameOver = true
		e.outcome = "Draw"
	}
	if e.gameOver {
		e.logger.Info("game finished", "game", e.gameID, "outcome", e.outcome, "moves", len(e.history))
	}
	return e.gameOver
}

func (e *LocalEngine) notify(p types.Position, mark types.Mark, state *types.BoardState, finished bool, outcome string) {
	if e.moveCallback != nil {
		e.moveCallback(p, mark, state)
	}
	if finished && e.endCallback != nil {
		e.endCallback(outcome)
	}
}

// scheduleComputerMove starts the computer reply in the background.
// Must be called while holding the lock.
func (e *LocalEngine) scheduleComputerMove() {
	generation := e.generation
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		if e.config.ComputerDelay > 0 {
			time.Sleep(e.config.ComputerDelay)
		}
		e.triggerComputerMove(generation)
	}()
}

// triggerComputerMove searches for and plays the computer's move.
// The lock is held for the whole search, the board is never observable
// with a speculative mark on it.
func (e *LocalEngine) triggerComputerMove(generation int) {
	e.mu.Lock()

	if e.closed || e.gameOver || generation != e.generation || !e.computerToMove() {
		e.mu.Unlock()
		return
	}

	_, span := e.tracer.Start(context.Background(), "minimax.best_move",
		trace.WithAttributes(
			attribute.String("game.id", e.gameID),
			attribute.Int("board.turns_taken", e.board.TurnsTaken()),
		))
	start := time.Now()
	result := e.searcher.BestMove(e.board)
	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.Int("move.position", int(result.Position)),
		attribute.Int("move.score", result.Score),
		attribute.Int("search.nodes", result.Stats.Nodes),
		attribute.Int("search.cutoffs", result.Stats.Cutoffs),
	)
	span.End()

	if result.Position == types.NoMove {
		e.mu.Unlock()
		return
	}

	mark := e.searcher.Max
	e.lastSearch = result
	e.logger.Debug("computer move",
		"game", e.gameID,
		"mark", mark.String(),
		"position", int(result.Position),
		"score", result.Score,
		"nodes", result.Stats.Nodes,
		"cutoffs", result.Stats.Cutoffs,
		"elapsed", elapsed,
	)
	finished := e.apply(mark, result.Position)
	boardStateCopy := e.copyBoardState()
	outcome := e.outcome
	e.mu.Unlock()

	e.notify(result.Position, mark, boardStateCopy, finished, outcome)
}

// IsMyTurn returns true if a human is expected to move.
func (e *LocalEngine) IsMyTurn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.gameOver && !e.computerToMove()
}

// CurrentMark returns the mark of the side to move.
func (e *LocalEngine) CurrentMark() types.Mark {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentMark()
}

// X always moves first, so the parity of the move count decides the turn.
func (e *LocalEngine) currentMark() types.Mark {
	if e.board.TurnsTaken()%2 == 0 {
		return types.PlayerX
	}
	return types.PlayerO
}

func (e *LocalEngine) computerToMove() bool {
	return e.searcher != nil && e.currentMark() == e.searcher.Max
}

// Config returns the configuration the engine was created with.
func (e *LocalEngine) Config() engine.GameConfig {
	return e.config
}

// OnMove registers a callback for when a move is played.
func (e *LocalEngine) OnMove(callback func(p types.Position, mark types.Mark, boardState *types.BoardState)) {
	e.moveCallback = callback
}

// OnGameEnd registers a callback for when the game ends.
func (e *LocalEngine) OnGameEnd(callback func(outcome string)) {
	e.endCallback = callback
}

// Undo takes back the last human move. Against the computer the reply that
// followed it is taken back too.
func (e *LocalEngine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	last := len(e.history) - 1
	if e.searcher != nil {
		for last >= 0 && e.history[last].Mark == e.searcher.Max {
			last--
		}
	}
	if last < 0 {
		return engine.ErrNothingToUndo
	}

	for i := len(e.history) - 1; i >= last; i-- {
		e.board.Clear(e.history[i].Position)
	}
	e.history = e.history[:last]
	e.gameOver = false
	e.outcome = ""
	e.winner = types.Empty
	e.winningLine = nil
	e.generation++

	e.logger.Debug("undo", "game", e.gameID, "moves", len(e.history))
	return nil
}

// Reset starts a new game.
func (e *LocalEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.newGame()
}

// LastSearch returns the result of the most recent computer move.
func (e *LocalEngine) LastSearch() minimax.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSearch
}

// Evaluate returns the root score of each legal move for the side to move.
func (e *LocalEngine) Evaluate() []minimax.MoveScore {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gameOver {
		return nil
	}
	return minimax.New(e.currentMark()).Scores(e.board)
}

// Wait blocks until scheduled computer moves have been played or discarded.
func (e *LocalEngine) Wait() {
	e.pending.Wait()
}

// Close discards pending computer moves.
func (e *LocalEngine) Close() {
	e.mu.Lock()
	e.closed = true
	e.generation++
	e.mu.Unlock()
}

// copyBoardState creates a snapshot of the current game.
// Must be called while holding the lock.
func (e *LocalEngine) copyBoardState() *types.BoardState {
	phase := types.PhasePlaying
	if e.gameOver {
		phase = types.PhaseFinished
	}
	var lastMove types.Position
	if n := len(e.history); n > 0 {
		lastMove = e.history[n-1].Position
	}
	return &types.BoardState{
		GameID:       e.gameID,
		MoveNumber:   len(e.history),
		PlayerToMove: e.currentMark(),
		Phase:        phase,
		Board:        e.board.Cells(),
		Outcome:      e.outcome,
		Winner:       e.winner,
		WinningLine:  append([]types.Position(nil), e.winningLine...),
		LastMove:     lastMove,
		History:      append([]types.Move(nil), e.history...),
	}
}

var _ engine.GameEngine = (*LocalEngine)(nil)
