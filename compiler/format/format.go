package format

import (
	"context"
	"unicode/utf8"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/basm/compiler/ir"
)

// Format appends a listing of code, one numbered instruction per line.
func Format(ctx context.Context, b []byte, code ir.Code) (_ []byte, err error) {
	for i, x := range code {
		b = app(b, 0, "%4d  ", i)

		b, err = Instr(ctx, b, x)
		if err != nil {
			return nil, errors.Wrap(err, "instruction %d", i)
		}

		b = append(b, '\n')
	}

	return b, nil
}

// Instr appends x in source syntax.
func Instr(ctx context.Context, b []byte, x ir.Instr) ([]byte, error) {
	switch x := x.(type) {
	case ir.Comment:
		b = app(b, 0, "/*%s*/", x.Text)
	case ir.Label:
		b = app(b, 0, "%s:", x.Name)
	case ir.Out:
		b = append(b, "\tout "...)
		b = quote(b, x.Text)
	case ir.Mov:
		b = app(b, 1, "mov %v, %v", x.Dst, x.Src)
	case ir.Add:
		b = app(b, 1, "add %v, %v, %v", x.Dst, x.Left, x.Right)
	case ir.Sub:
		b = app(b, 1, "sub %v, %v, %v", x.Dst, x.Left, x.Right)
	case ir.Mul:
		b = app(b, 1, "mul %v, %v, %v", x.Dst, x.Left, x.Right)
	case ir.Div:
		b = app(b, 1, "div %v, %v, %v", x.Dst, x.Left, x.Right)
	case ir.Mod:
		b = app(b, 1, "mod %v, %v, %v", x.Dst, x.Left, x.Right)
	case ir.Cmp:
		b = app(b, 1, "cmp %v, %v", x.Left, x.Right)
	case ir.Jmp:
		b = app(b, 1, "jmp %v", x.To)
	case ir.Jl:
		b = app(b, 1, "jl %v", x.To)
	case ir.Jg:
		b = app(b, 1, "jg %v", x.To)
	case ir.Je:
		b = app(b, 1, "je %v", x.To)
	default:
		return nil, errors.New("unsupported instruction: %T", x)
	}

	return b, nil
}

// quote writes s as a source string literal.
func quote(b []byte, s string) []byte {
	b = append(b, '"')

	for _, r := range s {
		switch r {
		case '\n':
			b = append(b, `\n`...)
		case '\r':
			b = append(b, `\r`...)
		case '\t':
			b = append(b, `\t`...)
		case 0:
			b = append(b, `\0`...)
		case '\\':
			b = append(b, `\\`...)
		case '"':
			b = append(b, `\"`...)
		default:
			b = utf8.AppendRune(b, r)
		}
	}

	return append(b, '"')
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"
	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)
	return b
}
