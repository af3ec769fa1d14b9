package minimax

import (
	"testing"

	"tictactoe-local/types"
)

// fullMinimax is an unpruned reference search on a copy of the board.
func fullMinimax(b types.Board, toMove, computer types.Mark, nodes *int) int {
	*nodes++
	switch {
	case b.IsWinner(computer):
		return Win
	case b.IsWinner(computer.Opponent()):
		return Loss
	case b.IsFull():
		return Draw
	}
	best := infinity
	if toMove == computer {
		best = -infinity
	}
	for _, p := range b.EmptyPositions() {
		child := b
		child.Place(toMove, p)
		v := fullMinimax(child, toMove.Opponent(), computer, nodes)
		if toMove == computer {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

// referenceBest returns the lowest position with the highest unpruned score.
func referenceBest(b types.Board, computer types.Mark) (types.Position, int) {
	bestPos, bestScore := types.NoMove, -infinity
	var nodes int
	for _, p := range b.EmptyPositions() {
		child := b
		child.Place(computer, p)
		if v := fullMinimax(child, computer.Opponent(), computer, &nodes); v > bestScore {
			bestPos, bestScore = p, v
		}
	}
	return bestPos, bestScore
}

// forEachOpenState visits every undecided, non-full board reachable with X moving first.
func forEachOpenState(fn func(b *types.Board, toMove types.Mark)) {
	seen := make(map[[3][3]types.Mark]bool)
	var walk func(b *types.Board, toMove types.Mark)
	walk = func(b *types.Board, toMove types.Mark) {
		if seen[b.Cells()] || b.Winner() != types.Empty || b.IsFull() {
			return
		}
		seen[b.Cells()] = true
		fn(b, toMove)
		for _, p := range b.EmptyPositions() {
			b.Place(toMove, p)
			walk(b, toMove.Opponent())
			b.Clear(p)
		}
	}
	walk(types.NewBoard(), types.PlayerX)
}

func TestBestMoveOpeningTieBreak(t *testing.T) {
	b := types.NewBoard()
	s := New(types.PlayerO)

	scores := s.Scores(b)
	if len(scores) != 9 {
		t.Fatalf("expected 9 root moves, got %d", len(scores))
	}
	for _, ms := range scores {
		if ms.Score != Draw {
			t.Fatalf("opening move %d scored %d, want %d", ms.Position, ms.Score, Draw)
		}
	}

	res := s.BestMove(b)
	if res.Position != 1 {
		t.Fatalf("opening move = %d, want 1 (lowest of equal scores)", res.Position)
	}
	if res.Score < Draw {
		t.Fatalf("opening score = %d, the computer must not lose", res.Score)
	}
}

func TestBestMoveAfterCenterPicksCorner(t *testing.T) {
	b := types.NewBoard()
	b.Place(types.PlayerX, 5)

	s := New(types.PlayerO)
	for _, ms := range s.Scores(b) {
		corner := ms.Position == 1 || ms.Position == 3 || ms.Position == 7 || ms.Position == 9
		if corner && ms.Score != Draw {
			t.Errorf("corner %d scored %d, want %d", ms.Position, ms.Score, Draw)
		}
		if !corner && ms.Score != Loss {
			t.Errorf("edge %d scored %d, want %d", ms.Position, ms.Score, Loss)
		}
	}

	if got := FindBestMove(b); got != 1 {
		t.Fatalf("FindBestMove = %d, want corner 1", got)
	}
}

func TestBestMoveBlocksThreat(t *testing.T) {
	b := types.NewBoard()
	b.Place(types.PlayerX, 7)
	b.Place(types.PlayerO, 5)
	b.Place(types.PlayerX, 9)

	res := New(types.PlayerO).BestMove(b)
	if res.Position != 8 {
		t.Fatalf("BestMove = %d, want 8 to block 7-8-9", res.Position)
	}
	if res.Score < Draw {
		t.Fatalf("blocking move scored %d", res.Score)
	}
}

func TestBestMoveFullBoard(t *testing.T) {
	b := types.NewBoard()
	mark := types.PlayerX
	for _, p := range []types.Position{7, 8, 9, 5, 4, 6, 2, 1, 3} {
		b.Place(mark, p)
		mark = mark.Opponent()
	}
	if got := FindBestMove(b); got != types.NoMove {
		t.Fatalf("FindBestMove on a full board = %d, want NoMove", got)
	}
}

func TestEvaluateWinBeforeDraw(t *testing.T) {
	// Full board where O completed the 7-5-3 diagonal.
	b := types.NewBoard()
	for p, m := range map[types.Position]types.Mark{
		7: types.PlayerO, 8: types.PlayerX, 9: types.PlayerX,
		4: types.PlayerX, 5: types.PlayerO, 6: types.PlayerO,
		1: types.PlayerX, 2: types.PlayerO, 3: types.PlayerO,
	} {
		b.Place(m, p)
	}
	score, ok := New(types.PlayerO).Evaluate(b)
	if !ok || score != Win {
		t.Fatalf("Evaluate = %d, %v, want Win", score, ok)
	}

	if _, ok := New(types.PlayerO).Evaluate(types.NewBoard()); ok {
		t.Fatal("empty board is not terminal")
	}
}

func TestBestMoveRestoresBoard(t *testing.T) {
	forEachOpenState(func(b *types.Board, toMove types.Mark) {
		before, turns := b.Cells(), b.TurnsTaken()
		res := New(toMove).BestMove(b)
		if b.Cells() != before || b.TurnsTaken() != turns {
			t.Fatalf("search left the board modified:\n%s", b)
		}
		if !res.Position.Valid() || !b.IsEmpty(res.Position) {
			t.Fatalf("search chose unavailable cell %d on\n%s", res.Position, b)
		}
	})
}

func TestBestMoveMatchesUnprunedSearch(t *testing.T) {
	forEachOpenState(func(b *types.Board, toMove types.Mark) {
		wantPos, wantScore := referenceBest(*b, toMove)
		res := New(toMove).BestMove(b)
		if res.Position != wantPos || res.Score != wantScore {
			t.Fatalf("BestMove = (%d, %d), reference = (%d, %d) for %s on\n%s",
				res.Position, res.Score, wantPos, wantScore, toMove, b)
		}
	})
}

func TestPruningVisitsFewerNodes(t *testing.T) {
	var reference int
	b := types.NewBoard()
	for _, p := range b.EmptyPositions() {
		child := *b
		child.Place(types.PlayerO, p)
		fullMinimax(child, types.PlayerX, types.PlayerO, &reference)
	}

	res := New(types.PlayerO).BestMove(b)
	if res.Stats.Cutoffs == 0 {
		t.Fatal("expected alpha-beta cutoffs on the empty board")
	}
	if res.Stats.Nodes >= reference {
		t.Fatalf("pruned search visited %d nodes, unpruned %d", res.Stats.Nodes, reference)
	}
}

// TestComputerNeverLoses plays the computer against every possible opponent line.
func TestComputerNeverLoses(t *testing.T) {
	for _, computer := range []types.Mark{types.PlayerO, types.PlayerX} {
		s := New(computer)
		var play func(b *types.Board, toMove types.Mark)
		play = func(b *types.Board, toMove types.Mark) {
			if b.IsWinner(computer.Opponent()) {
				t.Fatalf("computer %s lost on\n%s", computer, b)
			}
			if b.IsWinner(computer) || b.IsFull() {
				return
			}
			if toMove == computer {
				p := s.BestMove(b).Position
				b.Place(computer, p)
				play(b, toMove.Opponent())
				b.Clear(p)
				return
			}
			for _, p := range b.EmptyPositions() {
				b.Place(toMove, p)
				play(b, toMove.Opponent())
				b.Clear(p)
			}
		}
		play(types.NewBoard(), types.PlayerX)
	}
}
