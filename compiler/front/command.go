package front

import (
	"strings"

	"github.com/slowlang/basm/compiler/ir"
)

// command parses the arguments of cmd and returns its instruction.
// Empty cmd gives no instruction.
func (p *Parser) command(cmd string) (x ir.Instr, err error) {
	switch cmd {
	case "":
		return nil, nil
	case "out":
		return p.out()
	case "mov":
		dst, v, err := p.regArgs(1)
		if err != nil {
			return nil, err
		}

		return ir.Mov{Dst: dst, Src: v[0]}, nil
	case "add", "sub", "mul", "div", "mod":
		dst, v, err := p.regArgs(2)
		if err != nil {
			return nil, err
		}

		return arith(cmd, dst, v[0], v[1]), nil
	case "jmp", "jl", "jg", "je":
		to, err := p.target()
		if err != nil {
			return nil, err
		}

		return jump(cmd, to), nil
	case "cmp":
		v, err := p.args(2)
		if err != nil {
			return nil, err
		}

		return ir.Cmp{Left: v[0], Right: v[1]}, nil
	}

	if i := strings.IndexByte(cmd, ':'); i >= 0 {
		if i == 0 || i != len(cmd)-1 {
			return nil, p.errorf(ir.ErrInvalidLabel, cmd)
		}

		return ir.Label{Name: cmd[:i]}, nil
	}

	return nil, p.errorf(ir.ErrInvalidCommand, cmd)
}

// out reads a quoted template as is, or a bare word followed by newline.
func (p *Parser) out() (x ir.Instr, err error) {
	c, err := p.skipSpaces()
	if err != nil {
		return nil, err
	}

	if c == '"' {
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}

		return ir.Out{Text: s}, nil
	}

	w, _ := p.word(c, false)

	return ir.Out{Text: w + "\n"}, nil
}

func (p *Parser) target() (ir.Sym, error) {
	c, err := p.skipSpaces()
	if err != nil {
		return "", err
	}

	w, _ := p.word(c, false)

	return ir.Sym(w), nil
}

func arith(cmd string, dst ir.Reg, l, r ir.Value) ir.Instr {
	switch cmd {
	case "add":
		return ir.Add{Dst: dst, Left: l, Right: r}
	case "sub":
		return ir.Sub{Dst: dst, Left: l, Right: r}
	case "mul":
		return ir.Mul{Dst: dst, Left: l, Right: r}
	case "div":
		return ir.Div{Dst: dst, Left: l, Right: r}
	default:
		return ir.Mod{Dst: dst, Left: l, Right: r}
	}
}

func jump(cmd string, to ir.Target) ir.Instr {
	switch cmd {
	case "jl":
		return ir.Jl{To: to}
	case "jg":
		return ir.Jg{To: to}
	case "je":
		return ir.Je{To: to}
	default:
		return ir.Jmp{To: to}
	}
}
