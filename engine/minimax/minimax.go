// Package minimax selects moves by alpha-beta pruned minimax over the
// remaining empty cells of a board.
package minimax

import "tictactoe-local/types"

// Scores of a terminal position from the computer's point of view.
const (
	Loss = -1
	Draw = 0
	Win  = 1
)

// infinity bounds the search window. Any value outside [-1, 1] works.
const infinity = 1000

// Stats counts the work done by one search.
type Stats struct {
	Nodes   int
	Cutoffs int
}

// Result is the outcome of BestMove.
type Result struct {
	Position types.Position
	Score    int
	Stats    Stats
}

// MoveScore is the root evaluation of a single legal move.
type MoveScore struct {
	Position types.Position
	Score    int
}

// Searcher plays Max against an opponent playing Min.
type Searcher struct {
	Max types.Mark
	Min types.Mark

	stats Stats
}

// New returns a searcher for the computer playing mark.
func New(computer types.Mark) *Searcher {
	return &Searcher{Max: computer, Min: computer.Opponent()}
}

// FindBestMove returns the best move for O on b, or types.NoMove on a full board.
func FindBestMove(b *types.Board) types.Position {
	return New(types.PlayerO).BestMove(b).Position
}

// BestMove tries every empty cell in position order and keeps the one with
// the strictly highest score, so ties go to the lowest position.
// b is borrowed: every speculative mark is cleared before returning.
func (s *Searcher) BestMove(b *types.Board) Result {
	s.stats = Stats{}
	best := Result{Position: types.NoMove, Score: -infinity}
	for p := types.Position(1); p <= 9; p++ {
		if !b.IsEmpty(p) {
			continue
		}
		b.Place(s.Max, p)
		score := s.search(b, false, -infinity, infinity)
		b.Clear(p)

		if score > best.Score {
			best.Score = score
			best.Position = p
		}
	}
	best.Stats = s.stats
	return best
}

// Scores returns the root score of each legal move in position order.
func (s *Searcher) Scores(b *types.Board) []MoveScore {
	s.stats = Stats{}
	var scores []MoveScore
	for _, p := range b.EmptyPositions() {
		b.Place(s.Max, p)
		scores = append(scores, MoveScore{Position: p, Score: s.search(b, false, -infinity, infinity)})
		b.Clear(p)
	}
	return scores
}

// Stats returns the counters of the last BestMove or Scores call.
func (s *Searcher) Stats() Stats {
	return s.stats
}

// Evaluate scores a terminal board. ok is false while the game is undecided.
// A win for Max is checked before a full board is treated as a draw.
func (s *Searcher) Evaluate(b *types.Board) (score int, ok bool) {
	switch {
	case b.IsWinner(s.Max):
		return Win, true
	case b.IsWinner(s.Min):
		return Loss, true
	case b.IsFull():
		return Draw, true
	}
	return 0, false
}

// Minimax returns the value of b with the given side to move, searching
// inside the window (alpha, beta).
func (s *Searcher) Minimax(b *types.Board, maximizing bool, alpha, beta int) int {
	return s.search(b, maximizing, alpha, beta)
}

func (s *Searcher) search(b *types.Board, maximizing bool, alpha, beta int) int {
	s.stats.Nodes++
	if score, ok := s.Evaluate(b); ok {
		return score
	}

	if maximizing {
		best := -infinity
		for p := types.Position(1); p <= 9; p++ {
			if !b.IsEmpty(p) {
				continue
			}
			b.Place(s.Max, p)
			value := s.search(b, false, alpha, beta)
			b.Clear(p)

			best = max(best, value)
			alpha = max(alpha, best)
			if beta <= alpha {
				s.stats.Cutoffs++
				break
			}
		}
		return best
	}

	best := infinity
	for p := types.Position(1); p <= 9; p++ {
		if !b.IsEmpty(p) {
			continue
		}
		b.Place(s.Min, p)
		value := s.search(b, true, alpha, beta)
		b.Clear(p)

		best = min(best, value)
		beta = min(beta, best)
		if beta <= alpha {
			s.stats.Cutoffs++
			break
		}
	}
	return best
}
