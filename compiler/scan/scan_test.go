package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanner(t *testing.T) {
	type step struct {
		r         rune
		ok        bool
		line, col int
	}

	s := New([]byte("ab\né\n"))

	for i, want := range []step{
		{'a', true, 1, 1},
		{'b', true, 1, 2},
		{'\n', true, 2, 0},
		{'é', true, 2, 1},
		{'\n', true, 3, 0},
		{0, false, 3, 1},
		{0, false, 3, 2},
	} {
		r, ok := s.Next()

		assert.Equal(t, want, step{r, ok, s.Line(), s.Col()}, "step %d", i)
		assert.Equal(t, !want.ok, s.EOF(), "step %d", i)
		assert.Equal(t, want.r, s.Last(), "step %d", i)
	}

	assert.Equal(t, 6, s.Pos())
}

func TestScannerEmpty(t *testing.T) {
	s := New(nil)

	assert.False(t, s.EOF())
	assert.Equal(t, 1, s.Line())
	assert.Equal(t, 0, s.Col())

	_, ok := s.Next()
	assert.False(t, ok)
	assert.True(t, s.EOF())
	assert.Equal(t, 1, s.Col())
}

func TestScannerInvalid(t *testing.T) {
	s := New([]byte("a\xffb"))

	r, _ := s.Next()
	assert.Equal(t, 'a', r)
	assert.False(t, s.Invalid())

	r, ok := s.Next()
	assert.True(t, ok)
	assert.Equal(t, '�', r)
	assert.True(t, s.Invalid())
	assert.Equal(t, 2, s.Col())

	r, _ = s.Next()
	assert.Equal(t, 'b', r)
	assert.False(t, s.Invalid())

	_, ok = s.Next()
	assert.False(t, ok)
	assert.False(t, s.Invalid())
}
