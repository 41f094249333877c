package front

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/basm/compiler/ir"
	"github.com/slowlang/basm/compiler/scan"
)

type (
	Parser struct {
		text []byte
		s    *scan.Scanner

		code ir.Code
	}
)

func New(text []byte) *Parser {
	return &Parser{
		text: text,
		s:    scan.New(text),
		code: ir.Code{},
	}
}

// Parse turns source text into the raw instruction sequence.
// Jump targets are left symbolic.
func Parse(ctx context.Context, text []byte) (ir.Code, error) {
	return New(text).Parse(ctx)
}

func (p *Parser) Parse(ctx context.Context) (_ ir.Code, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "front: parse")
	defer tr.Finish("err", &err)

	err = validate(p.text)
	if err != nil {
		return nil, err
	}

	var cmd strings.Builder
	var last rune

	for {
		c, ok := p.s.Next()
		if !ok {
			break
		}

		switch {
		case unicode.IsSpace(c):
			err = p.dispatch(cmd.String())
			if err != nil {
				return nil, err
			}

			cmd.Reset()
		case last == '/' && c == '*':
			text, err := p.comment()
			if err != nil {
				return nil, err
			}

			p.emit(ir.Comment{Text: text})

			cmd.Reset()
		default:
			cmd.WriteRune(c)
		}

		last = c
	}

	err = p.dispatch(cmd.String())
	if err != nil {
		return nil, err
	}

	return p.code, nil
}

func (p *Parser) dispatch(cmd string) error {
	x, err := p.command(cmd)
	if err != nil {
		return err
	}

	if x != nil {
		p.emit(x)
	}

	return nil
}

func (p *Parser) emit(x ir.Instr) {
	if tlog.If("parse") {
		tlog.Printw("instr", "i", len(p.code), "line", p.s.Line(), "col", p.s.Col(), "typ", tlog.NextAsType, x, "val", x, "from", loc.Caller(1))
	}

	p.code = append(p.code, x)
}

// validate reports the position of the first invalid UTF-8 sequence.
func validate(text []byte) error {
	if utf8.Valid(text) {
		return nil
	}

	s := scan.New(text)

	for {
		_, ok := s.Next()
		if !ok {
			return nil
		}

		if s.Invalid() {
			return ir.NewPosError(ir.ErrInvalidEncoding, "", s.Line(), s.Col())
		}
	}
}

func (p *Parser) errorf(err error, text string) error {
	return ir.NewPosError(err, text, p.s.Line(), p.s.Col())
}
