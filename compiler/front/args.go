package front

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/slowlang/basm/compiler/ir"
)

// skipSpaces returns the first non-space character.
// Arguments never span lines, so newline is an error.
func (p *Parser) skipSpaces() (rune, error) {
	for {
		c, ok := p.s.Next()
		switch {
		case !ok:
			return 0, p.errorf(ir.ErrUnexpectedEndOfFile, "")
		case c == '\n':
			return 0, p.errorf(ir.ErrUnexpectedEndOfLine, "")
		case !unicode.IsSpace(c):
			return c, nil
		}
	}
}

// word reads c and everything up to the next space (or comma if comma is set).
// last is the terminating character or the last word character at the end of text.
func (p *Parser) word(c rune, comma bool) (w string, last rune) {
	var b strings.Builder

	b.WriteRune(c)
	last = c

	for {
		c, ok := p.s.Next()
		if !ok {
			break
		}

		last = c

		if unicode.IsSpace(c) || comma && c == ',' {
			break
		}

		b.WriteRune(c)
	}

	return b.String(), last
}

func (p *Parser) value(tok string) (ir.Value, error) {
	if rest, ok := strings.CutPrefix(tok, "r"); ok {
		n, err := strconv.ParseUint(rest, 10, 8)
		if err != nil {
			return nil, p.errorf(ir.ErrInvalidRegister, tok)
		}

		return ir.Reg(n), nil
	}

	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return nil, p.errorf(ir.ErrInvalidArgument, tok)
	}

	return ir.Num(n), nil
}

func (p *Parser) firstArg() (v ir.Value, last rune, err error) {
	c, err := p.skipSpaces()
	if err != nil {
		return nil, 0, err
	}

	tok, last := p.word(c, true)

	v, err = p.value(tok)

	return v, last, err
}

// nextArg reads a comma and the value after it.
// last is the character the previous value stopped at.
func (p *Parser) nextArg(last rune) (v ir.Value, _ rune, err error) {
	switch last {
	case ',':
	case '\n':
		return nil, 0, p.errorf(ir.ErrUnexpectedEndOfLine, "")
	default:
		err = p.separator()
		if err != nil {
			return nil, 0, err
		}
	}

	return p.firstArg()
}

func (p *Parser) separator() error {
	for {
		c, ok := p.s.Next()
		switch {
		case !ok:
			return p.errorf(ir.ErrUnexpectedEndOfFile, "")
		case c == ',':
			return nil
		case c == '\n':
			return p.errorf(ir.ErrUnexpectedEndOfLine, "")
		case unicode.IsSpace(c):
		default:
			return p.errorf(ir.ErrInvalidArgument, "unexpected character "+strconv.QuoteRune(c))
		}
	}
}

// args reads n comma separated values.
func (p *Parser) args(n int) (vals []ir.Value, err error) {
	vals = make([]ir.Value, n)

	var last rune

	for j := range vals {
		if j == 0 {
			vals[j], last, err = p.firstArg()
		} else {
			vals[j], last, err = p.nextArg(last)
		}

		if err != nil {
			return nil, err
		}
	}

	return vals, nil
}

// regArgs reads a destination register followed by n values.
func (p *Parser) regArgs(n int) (dst ir.Reg, vals []ir.Value, err error) {
	v, last, err := p.firstArg()
	if err != nil {
		return
	}

	dst, ok := v.(ir.Reg)
	if !ok {
		return 0, nil, p.errorf(ir.ErrInvalidDestination, v.(ir.Num).String())
	}

	vals = make([]ir.Value, n)

	for j := range vals {
		vals[j], last, err = p.nextArg(last)
		if err != nil {
			return 0, nil, err
		}
	}

	return dst, vals, nil
}

// quoted reads a string after the opening quote.
func (p *Parser) quoted() (string, error) {
	var b strings.Builder

	esc := false

	for {
		c, ok := p.s.Next()
		if !ok {
			return "", p.errorf(ir.ErrUnexpectedEndOfFile, "")
		}

		if esc {
			switch c {
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case '0':
				c = 0
			case '\\', '"':
			default:
				return "", p.errorf(ir.ErrInvalidEscape, string(c))
			}

			b.WriteRune(c)
			esc = false

			continue
		}

		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			esc = true
		default:
			b.WriteRune(c)
		}
	}
}

// comment reads a block comment after the opening "/*".
func (p *Parser) comment() (string, error) {
	var b strings.Builder
	var last rune

	for first := true; ; first = false {
		c, ok := p.s.Next()
		if !ok {
			return "", p.errorf(ir.ErrUnexpectedEndOfFile, "")
		}

		if !first {
			if last == '*' && c == '/' {
				return b.String(), nil
			}

			b.WriteRune(last)
		}

		last = c
	}
}
