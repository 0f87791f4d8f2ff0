package board

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/vancomm/minesweeper-agent/internal/knowledge"
)

type Params struct {
	Height, Width, MineCount int
}

func (p Params) Validate() error {
	if p.Height <= 0 || p.Width <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", p.Height, p.Width)
	}
	if p.MineCount < 0 || p.MineCount >= p.Height*p.Width {
		return fmt.Errorf(
			"invalid mine count %d for a %dx%d board",
			p.MineCount, p.Height, p.Width,
		)
	}
	return nil
}

/*
A Board holds the ground truth of one game: where the mines are,
which cells have been opened and which have been flagged. It has
no inference logic; it answers adjacency queries and tracks the
win condition.
*/
type Board struct {
	Params
	Mines   []bool
	Opened  map[knowledge.Cell]bool
	Flagged map[knowledge.Cell]bool
}

// New places MineCount mines uniformly at random.
func New(params Params, r *rand.Rand) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	b := &Board{
		Params:  params,
		Mines:   make([]bool, params.Height*params.Width),
		Opened:  make(map[knowledge.Cell]bool),
		Flagged: make(map[knowledge.Cell]bool),
	}

	/*
	 * Write down every position, then pick MineCount off the
	 * list at random.
	 */
	candidates := make([]int, len(b.Mines))
	for i := range candidates {
		candidates[i] = i
	}
	k := len(candidates)
	for range params.MineCount {
		i := r.IntN(k)
		b.Mines[candidates[i]] = true
		k--
		candidates[i] = candidates[k]
	}

	return b, nil
}

func DecodeBoard(buf []byte) (*Board, error) {
	var b Board
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (b Board) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(b)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Board) InBounds(c knowledge.Cell) bool {
	return 0 <= c.Row && c.Row < b.Height && 0 <= c.Col && c.Col < b.Width
}

func (b *Board) IsMine(c knowledge.Cell) bool {
	return b.Mines[c.Row*b.Width+c.Col]
}

// NearbyMines counts the mines within one row and column of a
// cell, the cell itself excluded.
func (b *Board) NearbyMines(c knowledge.Cell) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := knowledge.Cell{Row: c.Row + dr, Col: c.Col + dc}
			if b.InBounds(n) && b.IsMine(n) {
				count++
			}
		}
	}
	return count
}

/*
Open reveals a cell and returns its adjacency count. Opening a
mine returns mined=true and the cell stays closed; the caller
decides whether that ends the game.
*/
func (b *Board) Open(c knowledge.Cell) (count int, mined bool) {
	if b.IsMine(c) {
		return 0, true
	}
	b.Opened[c] = true
	return b.NearbyMines(c), false
}

func (b *Board) Flag(c knowledge.Cell) {
	if !b.Opened[c] {
		b.Flagged[c] = true
	}
}

func (b *Board) Unflag(c knowledge.Cell) {
	delete(b.Flagged, c)
}

// AllMinesFlagged reports whether the flags placed so far are
// exactly the mines.
func (b *Board) AllMinesFlagged() bool {
	if len(b.Flagged) != b.MineCount {
		return false
	}
	for c := range b.Flagged {
		if !b.IsMine(c) {
			return false
		}
	}
	return true
}

// AllSafesOpened reports whether every non-mine cell has been
// opened.
func (b *Board) AllSafesOpened() bool {
	return len(b.Opened) == b.Height*b.Width-b.MineCount
}

// Won reports the win condition: every safe cell opened or every
// mine flagged.
func (b *Board) Won() bool {
	return b.AllSafesOpened() || b.AllMinesFlagged()
}

// String renders the player-visible grid: counts for opened
// cells, * for flags, blank for closed cells.
func (b Board) String() string {
	var sb strings.Builder
	for row := range b.Height {
		for col := range b.Width {
			c := knowledge.Cell{Row: row, Col: col}
			switch {
			case b.Opened[c]:
				fmt.Fprintf(&sb, "%d ", b.NearbyMines(c))
			case b.Flagged[c]:
				sb.WriteString("* ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RevealString renders the ground truth, mines as *.
func (b Board) RevealString() string {
	var sb strings.Builder
	for row := range b.Height {
		for col := range b.Width {
			c := knowledge.Cell{Row: row, Col: col}
			if b.IsMine(c) {
				sb.WriteString("* ")
			} else {
				fmt.Fprintf(&sb, "%d ", b.NearbyMines(c))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
