package knowledge

import (
	"math/rand/v2"
)

/*
An Agent accumulates sentences about a minesweeper board of
fixed dimensions and derives cells that are provably safe or
provably mined. It never looks at the board itself: the driver
feeds it ground-truth adjacency counts for the cells it opens,
one AddKnowledge call per opened cell.

The agent is not safe for concurrent use; the driver serializes
one AddKnowledge/query cycle at a time.
*/
type Agent struct {
	height, width int

	movesMade map[Cell]struct{}
	mines     map[Cell]struct{}
	safes     map[Cell]struct{}

	knowledge []*Sentence

	rnd *rand.Rand
}

func NewAgent(height, width int, r *rand.Rand) *Agent {
	return &Agent{
		height:    height,
		width:     width,
		movesMade: make(map[Cell]struct{}),
		mines:     make(map[Cell]struct{}),
		safes:     make(map[Cell]struct{}),
		rnd:       r,
	}
}

// MarkMine records a cell as a proven mine and simplifies every
// sentence with that fact. Idempotent.
func (a *Agent) MarkMine(c Cell) {
	if _, ok := a.mines[c]; ok {
		return
	}
	a.mines[c] = struct{}{}
	for _, s := range a.knowledge {
		s.MarkMine(c)
	}
}

// MarkSafe records a cell as proven safe and simplifies every
// sentence with that fact. Idempotent.
func (a *Agent) MarkSafe(c Cell) {
	if _, ok := a.safes[c]; ok {
		return
	}
	a.safes[c] = struct{}{}
	for _, s := range a.knowledge {
		s.MarkSafe(c)
	}
}

/*
AddKnowledge ingests the adjacency mine count of a freshly
opened cell. It records the move, marks the cell safe, states a
new sentence about the cell's unknown neighbors, saturates the
direct consequences, and then runs one round of subset
resolution over the knowledge base.

The count is trusted unconditionally; it comes from the board.
*/
func (a *Agent) AddKnowledge(cell Cell, count int) {
	a.movesMade[cell] = struct{}{}
	a.MarkSafe(cell)

	/*
	 * Build the sentence over the in-bounds neighborhood,
	 * folding in what is already known: known mines lower the
	 * count and stay out of the cell set, known safes just stay
	 * out. An empty cell set carries no information.
	 */
	cells := make(map[Cell]struct{}, 8)
	for _, n := range a.neighbors(cell) {
		if _, ok := a.mines[n]; ok {
			count--
			continue
		}
		if _, ok := a.safes[n]; ok {
			continue
		}
		cells[n] = struct{}{}
	}
	if len(cells) > 0 {
		a.knowledge = append(a.knowledge, &Sentence{cells: cells, count: count})
	}

	a.propagate()
	a.infer()
}

func (a *Agent) neighbors(cell Cell) []Cell {
	ns := make([]Cell, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Cell{cell.Row + dr, cell.Col + dc}
			if 0 <= n.Row && n.Row < a.height &&
				0 <= n.Col && n.Col < a.width {
				ns = append(ns, n)
			}
		}
	}
	return ns
}

/*
propagate repeats full passes over the knowledge base until one
makes no change. Each pass marks every cell some sentence has
resolved, which simplifies the other sentences and may expose
more resolutions on the next pass. Terminates because every
productive pass shrinks the finite pool of unknown cells.
*/
func (a *Agent) propagate() {
	for changed := true; changed; {
		changed = false
		for _, s := range a.knowledge {
			for _, c := range s.KnownMines() {
				if _, ok := a.mines[c]; !ok {
					a.MarkMine(c)
					changed = true
				}
			}
			for _, c := range s.KnownSafes() {
				if _, ok := a.safes[c]; !ok {
					a.MarkSafe(c)
					changed = true
				}
			}
		}
		a.compact()
	}
}

// compact drops sentences that are fully resolved (empty cell
// set) or that simplification has turned into exact duplicates.
func (a *Agent) compact() {
	seen := make(map[string]struct{}, len(a.knowledge))
	kept := a.knowledge[:0]
	for _, s := range a.knowledge {
		if s.Len() == 0 {
			continue
		}
		key := s.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(a.knowledge); i++ {
		a.knowledge[i] = nil
	}
	a.knowledge = kept
}

/*
infer runs one round of subset resolution: for every pair of
sentences where one cell set strictly contains the other, the
leftover cells hold exactly the difference of the counts.

Candidates are staged during the scan and appended afterwards,
so one round never resolves against its own conclusions; chains
of inference finish across subsequent AddKnowledge calls.
*/
func (a *Agent) infer() {
	keys := make(map[string]struct{}, len(a.knowledge))
	for _, s := range a.knowledge {
		keys[s.Key()] = struct{}{}
	}

	var staged []*Sentence
	for i, sub := range a.knowledge {
		for j, super := range a.knowledge {
			if i == j || !sub.StrictSubsetOf(super) {
				continue
			}
			rest := super.Difference(sub)
			if rest.count < 0 {
				continue
			}
			key := rest.Key()
			if _, ok := keys[key]; ok {
				continue
			}
			keys[key] = struct{}{}
			staged = append(staged, rest)
		}
	}

	a.knowledge = append(a.knowledge, staged...)
}

// SafeMove returns a cell proven safe that has not been played
// yet. ok is false when no such cell is known.
func (a *Agent) SafeMove() (move Cell, ok bool) {
	for c := range a.safes {
		if _, played := a.movesMade[c]; !played {
			return c, true
		}
	}
	return Cell{}, false
}

// RandomMove returns a uniformly random cell among those not
// played and not known to be mines. ok is false when every cell
// is played or mined.
func (a *Agent) RandomMove() (move Cell, ok bool) {
	candidates := make([]Cell, 0, a.height*a.width)
	for row := range a.height {
		for col := range a.width {
			c := Cell{row, col}
			if _, played := a.movesMade[c]; played {
				continue
			}
			if _, mined := a.mines[c]; mined {
				continue
			}
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return Cell{}, false
	}
	return candidates[a.rnd.IntN(len(candidates))], true
}

func (a *Agent) HasPlayed(c Cell) bool {
	_, ok := a.movesMade[c]
	return ok
}

// MovesMade returns a copy of the cells played so far.
func (a *Agent) MovesMade() []Cell {
	return cellList(a.movesMade)
}

// KnownMines returns a copy of the cells proven to be mines.
func (a *Agent) KnownMines() []Cell {
	return cellList(a.mines)
}

// KnownSafes returns a copy of the cells proven safe.
func (a *Agent) KnownSafes() []Cell {
	return cellList(a.safes)
}

// KnowledgeSize reports the number of active sentences.
func (a *Agent) KnowledgeSize() int {
	return len(a.knowledge)
}

func cellList(set map[Cell]struct{}) []Cell {
	cells := make([]Cell, 0, len(set))
	for c := range set {
		cells = append(cells, c)
	}
	return cells
}
