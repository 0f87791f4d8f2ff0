package knowledge

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent(height, width int) *Agent {
	return NewAgent(height, width, rand.New(rand.NewPCG(1, 2)))
}

// checkInvariants asserts the global agent invariants: mines and
// safes disjoint, every sentence within bounds and purged of
// resolved cells.
func checkInvariants(t *testing.T, a *Agent) {
	t.Helper()
	for c := range a.mines {
		_, ok := a.safes[c]
		assert.False(t, ok, "cell %v both mine and safe", c)
	}
	for _, s := range a.knowledge {
		assert.GreaterOrEqual(t, s.Count(), 0, "sentence %v", s)
		assert.LessOrEqual(t, s.Count(), s.Len(), "sentence %v", s)
		for _, c := range s.Cells() {
			_, mined := a.mines[c]
			_, safe := a.safes[c]
			assert.False(t, mined, "known mine %v left in sentence %v", c, s)
			assert.False(t, safe, "known safe %v left in sentence %v", c, s)
		}
	}
}

func TestMarkMineIdempotent(t *testing.T) {
	a := newTestAgent(3, 3)
	a.knowledge = append(a.knowledge, NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}}, 2))

	a.MarkMine(Cell{0, 0})
	assert.Len(t, a.KnownMines(), 1)
	assert.Equal(t, 1, a.knowledge[0].Count())

	// second call must not decrement the sentence again
	a.MarkMine(Cell{0, 0})
	assert.Len(t, a.KnownMines(), 1)
	assert.Equal(t, 1, a.knowledge[0].Count())
	checkInvariants(t, a)
}

func TestMarkSafeIdempotent(t *testing.T) {
	a := newTestAgent(3, 3)
	a.knowledge = append(a.knowledge, NewSentence([]Cell{{0, 0}, {0, 1}}, 1))

	a.MarkSafe(Cell{0, 1})
	a.MarkSafe(Cell{0, 1})
	assert.Len(t, a.KnownSafes(), 1)
	assert.Equal(t, []Cell{{0, 0}}, a.knowledge[0].Cells())
	assert.Equal(t, 1, a.knowledge[0].Count())
}

func TestAddKnowledgeBuildsNeighborSentence(t *testing.T) {
	// 1x3 board, middle cell opened with count 1: the only
	// in-bounds neighbors are the two ends.
	a := newTestAgent(1, 3)
	a.AddKnowledge(Cell{0, 1}, 1)

	require.Equal(t, 1, a.KnowledgeSize())
	assert.Equal(t, []Cell{{0, 0}, {0, 2}}, a.knowledge[0].Cells())
	assert.Equal(t, 1, a.knowledge[0].Count())

	// nothing else is provably safe yet
	_, ok := a.SafeMove()
	assert.False(t, ok)
	checkInvariants(t, a)
}

func TestAddKnowledgeClipsNeighborhood(t *testing.T) {
	a := newTestAgent(3, 3)
	a.AddKnowledge(Cell{0, 0}, 0)

	// corner cell with count 0: all three neighbors are safe and
	// the sentence resolves away entirely
	assert.Equal(t, 0, a.KnowledgeSize())
	assert.ElementsMatch(t,
		[]Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		a.KnownSafes(),
	)
	checkInvariants(t, a)
}

func TestAddKnowledgeDiscountsKnownMines(t *testing.T) {
	a := newTestAgent(1, 3)
	a.MarkMine(Cell{0, 0})
	a.AddKnowledge(Cell{0, 1}, 1)

	// the single mine is already accounted for, so the remaining
	// neighbor resolves safe and no sentence survives
	assert.Equal(t, 0, a.KnowledgeSize())
	assert.ElementsMatch(t, []Cell{{0, 1}, {0, 2}}, a.KnownSafes())
	checkInvariants(t, a)
}

func TestAddKnowledgeFullyKnownNeighborhood(t *testing.T) {
	a := newTestAgent(1, 3)
	a.MarkSafe(Cell{0, 0})
	a.MarkSafe(Cell{0, 2})

	a.AddKnowledge(Cell{0, 1}, 0)

	// every neighbor already known safe: no sentence is added
	assert.Equal(t, 0, a.KnowledgeSize())
	checkInvariants(t, a)
}

func TestPropagationMarksMines(t *testing.T) {
	a := newTestAgent(3, 3)
	a.knowledge = append(a.knowledge, NewSentence([]Cell{{1, 1}, {1, 2}}, 2))
	a.propagate()

	assert.ElementsMatch(t, []Cell{{1, 1}, {1, 2}}, a.KnownMines())
	assert.Equal(t, 0, a.KnowledgeSize())
	checkInvariants(t, a)
}

func TestSubsetResolution(t *testing.T) {
	// {A,B,C}=1 and {A,B}=1 must derive {C}=0, and propagation
	// must then mark C safe.
	var (
		cellA = Cell{1, 1}
		cellB = Cell{1, 2}
		cellC = Cell{1, 3}
	)
	a := newTestAgent(3, 5)
	a.knowledge = append(a.knowledge,
		NewSentence([]Cell{cellA, cellB, cellC}, 1),
		NewSentence([]Cell{cellA, cellB}, 1),
	)

	a.infer()

	var derived *Sentence
	for _, s := range a.knowledge {
		if s.Len() == 1 && s.Contains(cellC) {
			derived = s
		}
	}
	require.NotNil(t, derived, "expected a sentence about C alone")
	assert.Equal(t, 0, derived.Count())

	a.propagate()
	assert.Contains(t, a.KnownSafes(), cellC)
	checkInvariants(t, a)
}

func TestSubsetResolutionDerivesMine(t *testing.T) {
	// {(1,1),(1,2)}=1 against {(1,1),(1,2),(1,3)}=2 leaves
	// {(1,3)}=1, a mine.
	a := newTestAgent(3, 5)
	a.knowledge = append(a.knowledge,
		NewSentence([]Cell{{1, 1}, {1, 2}}, 1),
		NewSentence([]Cell{{1, 1}, {1, 2}, {1, 3}}, 2),
	)

	a.infer()
	a.propagate()

	assert.Contains(t, a.KnownMines(), Cell{1, 3})
	checkInvariants(t, a)
}

func TestInferDeduplicates(t *testing.T) {
	a := newTestAgent(3, 5)
	a.knowledge = append(a.knowledge,
		NewSentence([]Cell{{1, 1}, {1, 2}}, 1),
		NewSentence([]Cell{{1, 1}, {1, 2}, {1, 3}}, 1),
		NewSentence([]Cell{{1, 3}}, 0),
	)

	a.infer()

	// {(1,3)}=0 is derivable but already present; it must not be
	// staged a second time
	seen := make(map[string]int)
	for _, s := range a.knowledge {
		seen[s.Key()]++
	}
	for key, n := range seen {
		assert.Equal(t, 1, n, "duplicate sentence %s", key)
	}
}

func TestInferDiscardsNegativeCounts(t *testing.T) {
	a := newTestAgent(3, 5)
	a.knowledge = append(a.knowledge,
		NewSentence([]Cell{{1, 1}, {1, 2}}, 2),
		NewSentence([]Cell{{1, 1}, {1, 2}, {1, 3}}, 1),
	)

	a.infer()

	for _, s := range a.knowledge {
		assert.GreaterOrEqual(t, s.Count(), 0, "sentence %v", s)
	}
}

func TestSafeMove(t *testing.T) {
	a := newTestAgent(2, 2)

	_, ok := a.SafeMove()
	assert.False(t, ok)

	a.MarkSafe(Cell{0, 1})
	move, ok := a.SafeMove()
	require.True(t, ok)
	assert.Equal(t, Cell{0, 1}, move)

	a.movesMade[move] = struct{}{}
	_, ok = a.SafeMove()
	assert.False(t, ok)
}

func TestRandomMove(t *testing.T) {
	a := newTestAgent(2, 2)
	a.MarkMine(Cell{0, 0})
	a.movesMade[Cell{0, 1}] = struct{}{}

	for range 20 {
		move, ok := a.RandomMove()
		require.True(t, ok)
		assert.NotEqual(t, Cell{0, 0}, move)
		assert.NotEqual(t, Cell{0, 1}, move)
	}
}

func TestRandomMoveExhausted(t *testing.T) {
	a := newTestAgent(1, 2)
	a.MarkMine(Cell{0, 0})
	a.movesMade[Cell{0, 1}] = struct{}{}

	_, ok := a.RandomMove()
	assert.False(t, ok)
}

func TestAgentSolvesKnownLayout(t *testing.T) {
	/*
	 * 3x3 board with mines at (0,0) and (2,2). Feeding the agent
	 * the true counts of the safe cells must identify both mines
	 * without any sentence ever violating the invariants.
	 */
	mines := map[Cell]struct{}{
		{0, 0}: {},
		{2, 2}: {},
	}
	counts := map[Cell]int{
		{0, 1}: 1, {0, 2}: 0,
		{1, 0}: 1, {1, 1}: 2, {1, 2}: 1,
		{2, 0}: 0, {2, 1}: 1,
	}

	a := newTestAgent(3, 3)
	for range len(counts) {
		move, ok := a.SafeMove()
		if !ok {
			// guess only among cells that are actually safe so
			// the playout is deterministic
			for c := range counts {
				if !a.HasPlayed(c) {
					move = c
					ok = true
					break
				}
			}
		}
		require.True(t, ok)
		a.AddKnowledge(move, counts[move])
		checkInvariants(t, a)
	}

	assert.ElementsMatch(t, []Cell{{0, 0}, {2, 2}}, a.KnownMines())
	for c := range mines {
		assert.NotContains(t, a.KnownSafes(), c)
	}
}
