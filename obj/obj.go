package obj

import (
	"os"

	"github.com/fxamacker/cbor/v2"
	"tlog.app/go/errors"

	"github.com/slowlang/basm/compiler/ir"
)

type (
	Op uint8

	file struct {
		Version int      `cbor:"1,keyasint"`
		Code    []record `cbor:"2,keyasint"`
	}

	record struct {
		Op   Op        `cbor:"1,keyasint"`
		Text string    `cbor:"2,keyasint,omitempty"`
		Dst  uint8     `cbor:"3,keyasint,omitempty"`
		Args []operand `cbor:"4,keyasint,omitempty"`
		Addr int       `cbor:"5,keyasint,omitempty"`
		Sym  bool      `cbor:"6,keyasint,omitempty"`
	}

	operand struct {
		_ struct{} `cbor:",toarray"`

		Reg bool
		N   int64
	}
)

const Version = 1

const (
	_ Op = iota
	OpComment
	OpOut
	OpMov
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLabel
	OpJmp
	OpJl
	OpJg
	OpJe
	OpCmp
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

var ErrVersion = errors.New("unsupported object version")

// nargs is the number of value operands per op.
var nargs = map[Op]int{
	OpMov: 1,
	OpAdd: 2, OpSub: 2, OpMul: 2, OpDiv: 2, OpMod: 2,
	OpCmp: 2,
}

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	decMode, err = cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

func WriteFile(name string, code ir.Code) error {
	data, err := Encode(code)
	if err != nil {
		return errors.Wrap(err, "encode")
	}

	err = os.WriteFile(name, data, 0o644)
	if err != nil {
		return errors.Wrap(err, "write file")
	}

	return nil
}

func ReadFile(name string) (ir.Code, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	code, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode %v", name)
	}

	return code, nil
}

// Encode serializes code deterministically.
func Encode(code ir.Code) ([]byte, error) {
	f := file{
		Version: Version,
		Code:    make([]record, len(code)),
	}

	for i, x := range code {
		r, err := encodeInstr(x)
		if err != nil {
			return nil, errors.Wrap(err, "instruction %d", i)
		}

		f.Code[i] = r
	}

	return encMode.Marshal(f)
}

// Decode parses data produced by Encode.
// Resolved jump addresses must point inside the decoded code.
func Decode(data []byte) (ir.Code, error) {
	var f file

	err := decMode.Unmarshal(data, &f)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal")
	}

	if f.Version != Version {
		return nil, errors.Wrap(ErrVersion, "%d", f.Version)
	}

	code := make(ir.Code, len(f.Code))

	for i, r := range f.Code {
		code[i], err = decodeInstr(r, len(f.Code))
		if err != nil {
			return nil, errors.Wrap(err, "instruction %d", i)
		}
	}

	return code, nil
}

func encodeInstr(x ir.Instr) (r record, err error) {
	switch x := x.(type) {
	case ir.Comment:
		return record{Op: OpComment, Text: x.Text}, nil
	case ir.Out:
		return record{Op: OpOut, Text: x.Text}, nil
	case ir.Label:
		return record{Op: OpLabel, Text: x.Name}, nil
	case ir.Mov:
		return regRecord(OpMov, x.Dst, x.Src)
	case ir.Add:
		return regRecord(OpAdd, x.Dst, x.Left, x.Right)
	case ir.Sub:
		return regRecord(OpSub, x.Dst, x.Left, x.Right)
	case ir.Mul:
		return regRecord(OpMul, x.Dst, x.Left, x.Right)
	case ir.Div:
		return regRecord(OpDiv, x.Dst, x.Left, x.Right)
	case ir.Mod:
		return regRecord(OpMod, x.Dst, x.Left, x.Right)
	case ir.Cmp:
		return regRecord(OpCmp, 0, x.Left, x.Right)
	case ir.Jmp:
		return jumpRecord(OpJmp, x.To)
	case ir.Jl:
		return jumpRecord(OpJl, x.To)
	case ir.Jg:
		return jumpRecord(OpJg, x.To)
	case ir.Je:
		return jumpRecord(OpJe, x.To)
	default:
		return r, errors.New("unsupported instruction: %T", x)
	}
}

func regRecord(op Op, dst ir.Reg, args ...ir.Value) (r record, err error) {
	r = record{
		Op:   op,
		Dst:  uint8(dst),
		Args: make([]operand, len(args)),
	}

	for i, a := range args {
		switch a := a.(type) {
		case ir.Reg:
			r.Args[i] = operand{Reg: true, N: int64(a)}
		case ir.Num:
			r.Args[i] = operand{N: int64(a)}
		default:
			return r, errors.New("unsupported value: %T", a)
		}
	}

	return r, nil
}

func jumpRecord(op Op, to ir.Target) (record, error) {
	switch to := to.(type) {
	case ir.Addr:
		return record{Op: op, Addr: int(to)}, nil
	case ir.Sym:
		return record{Op: op, Text: string(to), Sym: true}, nil
	default:
		return record{}, errors.New("unsupported jump target: %T", to)
	}
}

func decodeInstr(r record, n int) (x ir.Instr, err error) {
	if len(r.Args) != nargs[r.Op] {
		return nil, errors.New("op %d: expected %d operands, got %d", r.Op, nargs[r.Op], len(r.Args))
	}

	args := make([]ir.Value, len(r.Args))

	for i, a := range r.Args {
		if !a.Reg {
			args[i] = ir.Num(a.N)
			continue
		}

		if a.N < 0 || a.N >= ir.NumRegs {
			return nil, errors.Wrap(ir.ErrInvalidRegister, "r%d", a.N)
		}

		args[i] = ir.Reg(a.N)
	}

	dst := ir.Reg(r.Dst)

	switch r.Op {
	case OpComment:
		return ir.Comment{Text: r.Text}, nil
	case OpOut:
		return ir.Out{Text: r.Text}, nil
	case OpLabel:
		return ir.Label{Name: r.Text}, nil
	case OpMov:
		return ir.Mov{Dst: dst, Src: args[0]}, nil
	case OpAdd:
		return ir.Add{Dst: dst, Left: args[0], Right: args[1]}, nil
	case OpSub:
		return ir.Sub{Dst: dst, Left: args[0], Right: args[1]}, nil
	case OpMul:
		return ir.Mul{Dst: dst, Left: args[0], Right: args[1]}, nil
	case OpDiv:
		return ir.Div{Dst: dst, Left: args[0], Right: args[1]}, nil
	case OpMod:
		return ir.Mod{Dst: dst, Left: args[0], Right: args[1]}, nil
	case OpCmp:
		return ir.Cmp{Left: args[0], Right: args[1]}, nil
	case OpJmp, OpJl, OpJg, OpJe:
	default:
		return nil, errors.New("unsupported op: %d", r.Op)
	}

	var to ir.Target = ir.Sym(r.Text)

	if !r.Sym {
		if r.Addr < 0 || r.Addr >= n {
			return nil, errors.New("jump address %d out of range [0, %d)", r.Addr, n)
		}

		to = ir.Addr(r.Addr)
	}

	switch r.Op {
	case OpJl:
		return ir.Jl{To: to}, nil
	case OpJg:
		return ir.Jg{To: to}, nil
	case OpJe:
		return ir.Je{To: to}, nil
	default:
		return ir.Jmp{To: to}, nil
	}
}
