package scan

import "unicode/utf8"

type (
	// Scanner is a character cursor over source text.
	Scanner struct {
		b []byte
		i int

		line int
		col  int

		last    rune
		eof     bool
		invalid bool
	}
)

func New(text []byte) *Scanner {
	return &Scanner{
		b:    text,
		line: 1,
	}
}

// Next returns the next character.
// ok is false once the text is exhausted.
func (s *Scanner) Next() (r rune, ok bool) {
	if s.i >= len(s.b) {
		s.col++
		s.last = 0
		s.eof = true
		s.invalid = false

		return 0, false
	}

	r, w := utf8.DecodeRune(s.b[s.i:])
	s.i += w

	if r == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}

	s.last = r
	s.eof = false
	s.invalid = r == utf8.RuneError && w == 1

	return r, true
}

// EOF reports whether the last Next call found the text exhausted.
func (s *Scanner) EOF() bool { return s.eof }

// Invalid reports whether the last character read was not valid UTF-8.
// Such a character is returned as utf8.RuneError.
func (s *Scanner) Invalid() bool { return s.invalid }

// Last is the most recently read character.
func (s *Scanner) Last() rune { return s.last }

func (s *Scanner) Line() int { return s.line }

func (s *Scanner) Col() int { return s.col }

// Pos is the byte offset of the next character.
func (s *Scanner) Pos() int { return s.i }
