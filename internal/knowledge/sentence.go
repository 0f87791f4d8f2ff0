package knowledge

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Cell identifies a board position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.Row, c.Col)
}

/*
A Sentence is a logical statement about the board: exactly
`count` of `cells` are mines. The cell set is owned exclusively
by the sentence and is simplified in place as cells are resolved,
so 0 <= count <= len(cells) holds at all times.
*/
type Sentence struct {
	cells map[Cell]struct{}
	count int
}

func NewSentence(cells []Cell, count int) *Sentence {
	s := &Sentence{
		cells: make(map[Cell]struct{}, len(cells)),
		count: count,
	}
	for _, c := range cells {
		s.cells[c] = struct{}{}
	}
	return s
}

func (s *Sentence) Len() int {
	return len(s.cells)
}

func (s *Sentence) Count() int {
	return s.count
}

func (s *Sentence) Contains(c Cell) bool {
	_, ok := s.cells[c]
	return ok
}

// Cells returns a copy of the cell set, sorted row-major.
func (s *Sentence) Cells() []Cell {
	cells := make([]Cell, 0, len(s.cells))
	for c := range s.cells {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}

/*
Key is a canonical form of the sentence: the sorted cell set
plus the count. Two sentences are structurally equal iff their
keys match, which gives O(1) duplicate detection when staging
inferred sentences.
*/
func (s *Sentence) Key() string {
	var b strings.Builder
	for _, c := range s.Cells() {
		b.WriteString(c.String())
		b.WriteByte(',')
	}
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(s.count))
	return b.String()
}

// KnownMines returns a copy of the cell set if every remaining
// cell must be a mine, otherwise nil.
func (s *Sentence) KnownMines() []Cell {
	if s.count > 0 && s.count == len(s.cells) {
		return s.Cells()
	}
	return nil
}

// KnownSafes returns a copy of the cell set if no remaining cell
// can be a mine, otherwise nil.
func (s *Sentence) KnownSafes() []Cell {
	if s.count == 0 && len(s.cells) > 0 {
		return s.Cells()
	}
	return nil
}

// MarkMine removes a cell known to be a mine; one fewer
// unresolved mine remains among the rest. No-op if absent.
func (s *Sentence) MarkMine(c Cell) {
	if _, ok := s.cells[c]; ok {
		delete(s.cells, c)
		s.count--
	}
}

// MarkSafe removes a cell known to be safe; it contributed no
// mines, so the count is unchanged. No-op if absent.
func (s *Sentence) MarkSafe(c Cell) {
	delete(s.cells, c)
}

// StrictSubsetOf reports whether every cell of s is in o and o
// has at least one more.
func (s *Sentence) StrictSubsetOf(o *Sentence) bool {
	if len(s.cells) >= len(o.cells) {
		return false
	}
	for c := range s.cells {
		if _, ok := o.cells[c]; !ok {
			return false
		}
	}
	return true
}

/*
Difference resolves two sentences where sub is a strict subset
of s: the mines among the leftover cells number exactly the
difference of the counts. A negative count means the pair yields
no valid inference; the caller discards it.
*/
func (s *Sentence) Difference(sub *Sentence) *Sentence {
	rest := &Sentence{
		cells: make(map[Cell]struct{}, len(s.cells)-len(sub.cells)),
		count: s.count - sub.count,
	}
	for c := range s.cells {
		if _, ok := sub.cells[c]; !ok {
			rest.cells[c] = struct{}{}
		}
	}
	return rest
}

func (s *Sentence) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range s.Cells() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	fmt.Fprintf(&b, "} = %d", s.count)
	return b.String()
}
