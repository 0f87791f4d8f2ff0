package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownMines(t *testing.T) {
	tests := []struct {
		name     string
		sentence *Sentence
		want     []Cell
	}{
		{
			name:     "all cells mined",
			sentence: NewSentence([]Cell{{0, 0}, {0, 1}}, 2),
			want:     []Cell{{0, 0}, {0, 1}},
		},
		{
			name:     "undetermined",
			sentence: NewSentence([]Cell{{0, 0}, {0, 1}}, 1),
			want:     nil,
		},
		{
			name:     "zero count",
			sentence: NewSentence([]Cell{{0, 0}, {0, 1}}, 0),
			want:     nil,
		},
		{
			name:     "empty",
			sentence: NewSentence(nil, 0),
			want:     nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.sentence.KnownMines())
		})
	}
}

func TestKnownSafes(t *testing.T) {
	tests := []struct {
		name     string
		sentence *Sentence
		want     []Cell
	}{
		{
			name:     "no cells mined",
			sentence: NewSentence([]Cell{{1, 2}, {3, 4}}, 0),
			want:     []Cell{{1, 2}, {3, 4}},
		},
		{
			name:     "undetermined",
			sentence: NewSentence([]Cell{{1, 2}, {3, 4}}, 1),
			want:     nil,
		},
		{
			name:     "empty",
			sentence: NewSentence(nil, 0),
			want:     nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.sentence.KnownSafes())
		})
	}
}

func TestSentenceMarkMine(t *testing.T) {
	s := NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}}, 2)

	s.MarkMine(Cell{0, 1})
	assert.Equal(t, []Cell{{0, 0}, {0, 2}}, s.Cells())
	assert.Equal(t, 1, s.Count())

	// absent cell is a no-op
	s.MarkMine(Cell{5, 5})
	assert.Equal(t, []Cell{{0, 0}, {0, 2}}, s.Cells())
	assert.Equal(t, 1, s.Count())

	s.MarkMine(Cell{0, 0})
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, []Cell{{0, 2}}, s.KnownSafes())
}

func TestSentenceMarkSafe(t *testing.T) {
	s := NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}}, 1)

	s.MarkSafe(Cell{0, 0})
	assert.Equal(t, []Cell{{0, 1}, {0, 2}}, s.Cells())
	assert.Equal(t, 1, s.Count())

	s.MarkSafe(Cell{9, 9})
	assert.Equal(t, 2, s.Len())

	s.MarkSafe(Cell{0, 1})
	assert.Equal(t, []Cell{{0, 2}}, s.KnownMines())
}

func TestSentenceInvariantAfterMarks(t *testing.T) {
	s := NewSentence([]Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, 2)
	for _, c := range []Cell{{0, 0}, {1, 1}} {
		s.MarkMine(c)
	}
	s.MarkSafe(Cell{0, 1})
	assert.GreaterOrEqual(t, s.Count(), 0)
	assert.LessOrEqual(t, s.Count(), s.Len())
}

func TestSentenceKey(t *testing.T) {
	a := NewSentence([]Cell{{0, 1}, {0, 0}}, 1)
	b := NewSentence([]Cell{{0, 0}, {0, 1}}, 1)
	c := NewSentence([]Cell{{0, 0}, {0, 1}}, 2)

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestStrictSubsetOf(t *testing.T) {
	small := NewSentence([]Cell{{0, 0}, {0, 1}}, 1)
	big := NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}}, 1)
	other := NewSentence([]Cell{{0, 0}, {5, 5}}, 1)

	assert.True(t, small.StrictSubsetOf(big))
	assert.False(t, big.StrictSubsetOf(small))
	assert.False(t, small.StrictSubsetOf(small))
	assert.False(t, other.StrictSubsetOf(big))
}

func TestDifference(t *testing.T) {
	small := NewSentence([]Cell{{0, 0}, {0, 1}}, 1)
	big := NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}}, 2)

	rest := big.Difference(small)
	assert.Equal(t, []Cell{{0, 2}}, rest.Cells())
	assert.Equal(t, 1, rest.Count())
}
