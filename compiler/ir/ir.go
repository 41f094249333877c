package ir

import "strconv"

type (
	Code []Instr

	// Instr is one of the instruction types below.
	Instr any

	Reg uint8
	Num int64

	// Value is Reg or Num.
	Value any

	// Sym is an unresolved jump target, Addr is a resolved one.
	Sym  string
	Addr int

	// Target is Sym or Addr.
	Target any

	Flag int8

	Comment struct {
		Text string
	}

	Out struct {
		Text string
	}

	Mov struct {
		Dst Reg
		Src Value
	}

	Add struct {
		Dst   Reg
		Left  Value
		Right Value
	}

	Sub struct {
		Dst   Reg
		Left  Value
		Right Value
	}

	Mul struct {
		Dst   Reg
		Left  Value
		Right Value
	}

	Div struct {
		Dst   Reg
		Left  Value
		Right Value
	}

	Mod struct {
		Dst   Reg
		Left  Value
		Right Value
	}

	Label struct {
		Name string
	}

	Jmp struct {
		To Target
	}

	Jl struct {
		To Target
	}

	Jg struct {
		To Target
	}

	Je struct {
		To Target
	}

	Cmp struct {
		Left  Value
		Right Value
	}
)

const (
	Less Flag = iota - 1
	Equal
	Greater
)

const NumRegs = 256

// Compare returns the flag for the three-way comparison of l and r.
func Compare(l, r int64) Flag {
	switch {
	case l < r:
		return Less
	case l > r:
		return Greater
	default:
		return Equal
	}
}

// JumpTarget returns the target of a jump instruction.
func JumpTarget(x Instr) (Target, bool) {
	switch x := x.(type) {
	case Jmp:
		return x.To, true
	case Jl:
		return x.To, true
	case Jg:
		return x.To, true
	case Je:
		return x.To, true
	default:
		return nil, false
	}
}

// WithTarget returns a copy of jump instruction x pointing to t.
// Other instructions are returned as is.
func WithTarget(x Instr, t Target) Instr {
	switch x.(type) {
	case Jmp:
		return Jmp{To: t}
	case Jl:
		return Jl{To: t}
	case Jg:
		return Jg{To: t}
	case Je:
		return Je{To: t}
	default:
		return x
	}
}

func (r Reg) String() string { return "r" + strconv.Itoa(int(r)) }

func (n Num) String() string { return strconv.FormatInt(int64(n), 10) }

func (s Sym) String() string { return string(s) }

func (a Addr) String() string { return "@" + strconv.Itoa(int(a)) }

func (f Flag) String() string {
	switch f {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "flag(" + strconv.Itoa(int(f)) + ")"
	}
}
