package board

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/knowledge"
)

func newTestBoard(t *testing.T, params Params) *Board {
	t.Helper()
	b, err := New(params, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return b
}

func TestNewPlacesExactMineCount(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{name: "9x9(10)", params: Params{Height: 9, Width: 9, MineCount: 10}},
		{name: "16x16(40)", params: Params{Height: 16, Width: 16, MineCount: 40}},
		{name: "16x30(99)", params: Params{Height: 16, Width: 30, MineCount: 99}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := newTestBoard(t, test.params)
			mines := 0
			for _, m := range b.Mines {
				if m {
					mines++
				}
			}
			assert.Equal(t, test.params.MineCount, mines)
		})
	}
}

func TestParamsValidate(t *testing.T) {
	assert.Error(t, Params{Height: 0, Width: 5, MineCount: 1}.Validate())
	assert.Error(t, Params{Height: 5, Width: 5, MineCount: 25}.Validate())
	assert.Error(t, Params{Height: 5, Width: 5, MineCount: -1}.Validate())
	assert.NoError(t, Params{Height: 5, Width: 5, MineCount: 24}.Validate())
}

func TestNearbyMines(t *testing.T) {
	b := newTestBoard(t, Params{Height: 3, Width: 3, MineCount: 0})
	b.Mines[0] = true // (0,0)
	b.Mines[8] = true // (2,2)

	tests := []struct {
		cell knowledge.Cell
		want int
	}{
		{knowledge.Cell{Row: 0, Col: 1}, 1},
		{knowledge.Cell{Row: 0, Col: 2}, 0},
		{knowledge.Cell{Row: 1, Col: 1}, 2},
		{knowledge.Cell{Row: 2, Col: 0}, 0},
		{knowledge.Cell{Row: 1, Col: 2}, 1},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, b.NearbyMines(test.cell), "cell %v", test.cell)
	}
}

func TestOpen(t *testing.T) {
	b := newTestBoard(t, Params{Height: 3, Width: 3, MineCount: 0})
	b.Mines[0] = true
	b.Params.MineCount = 1

	count, mined := b.Open(knowledge.Cell{Row: 1, Col: 1})
	assert.False(t, mined)
	assert.Equal(t, 1, count)
	assert.True(t, b.Opened[knowledge.Cell{Row: 1, Col: 1}])

	_, mined = b.Open(knowledge.Cell{Row: 0, Col: 0})
	assert.True(t, mined)
	assert.False(t, b.Opened[knowledge.Cell{Row: 0, Col: 0}])
}

func TestWonByFlags(t *testing.T) {
	b := newTestBoard(t, Params{Height: 2, Width: 2, MineCount: 0})
	b.Mines[3] = true // (1,1)
	b.Params.MineCount = 1

	assert.False(t, b.Won())

	b.Flag(knowledge.Cell{Row: 0, Col: 0})
	b.Flag(knowledge.Cell{Row: 1, Col: 1})
	assert.False(t, b.AllMinesFlagged(), "a wrong flag must not count")

	b.Unflag(knowledge.Cell{Row: 0, Col: 0})
	assert.True(t, b.AllMinesFlagged())
	assert.True(t, b.Won())
}

func TestWonByOpening(t *testing.T) {
	b := newTestBoard(t, Params{Height: 1, Width: 3, MineCount: 0})
	b.Mines[0] = true
	b.Params.MineCount = 1

	b.Open(knowledge.Cell{Row: 0, Col: 1})
	assert.False(t, b.Won())
	b.Open(knowledge.Cell{Row: 0, Col: 2})
	assert.True(t, b.Won())
}

func TestBoardGobRoundtrip(t *testing.T) {
	b := newTestBoard(t, Params{Height: 4, Width: 4, MineCount: 3})
	b.Open(knowledge.Cell{Row: 0, Col: 0})
	b.Flag(knowledge.Cell{Row: 3, Col: 3})

	buf, err := b.Bytes()
	require.NoError(t, err)

	decoded, err := DecodeBoard(buf)
	require.NoError(t, err)
	assert.Equal(t, b.Params, decoded.Params)
	assert.Equal(t, b.Mines, decoded.Mines)
	assert.Equal(t, b.Opened, decoded.Opened)
	assert.Equal(t, b.Flagged, decoded.Flagged)
}
