package vm

import (
	"context"
	"io"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/basm/compiler/ir"
	"github.com/slowlang/basm/compiler/set"
)

type (
	// Machine executes resolved code.
	// Its state survives Run calls, so a paused program can be resumed.
	Machine struct {
		Regs [ir.NumRegs]int64
		IP   int
		Flag ir.Flag

		// Steps is the number of instructions executed.
		Steps int64

		w   io.Writer
		buf []byte

		visited set.Bitmap
	}
)

func New(w io.Writer) *Machine {
	return &Machine{
		Flag: ir.Equal,
		w:    w,
	}
}

// Execute runs code on a fresh machine.
func Execute(ctx context.Context, w io.Writer, code ir.Code, cycles int) (*Machine, error) {
	m := New(w)

	err := m.Run(ctx, code, cycles)

	return m, err
}

// Done reports whether IP has left code.
func (m *Machine) Done(code ir.Code) bool {
	return m.IP < 0 || m.IP >= len(code)
}

// Coverage is the set of executed instruction indexes.
func (m *Machine) Coverage() *set.Bitmap {
	return &m.visited
}

// Run executes instructions until IP leaves code or cycles instructions are executed.
// Negative cycles means no limit. Running out of cycles is not an error.
func (m *Machine) Run(ctx context.Context, code ir.Code, cycles int) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "vm: run", "ip", m.IP, "cycles", cycles)
	defer func() {
		tr.Finish("ip", m.IP, "steps", m.Steps, "err", err)
	}()

	trace := tr.If("exec")

	for ; !m.Done(code) && cycles != 0; m.IP++ {
		if cycles > 0 {
			cycles--
		}

		x := code[m.IP]

		if trace {
			tr.Printw("step", "ip", m.IP, "flag", m.Flag, "typ", tlog.NextAsType, x, "val", x)
		}

		m.visited.Set(m.IP)
		m.Steps++

		err = m.step(x)
		if err != nil {
			return errors.Wrap(err, "instruction %d", m.IP)
		}
	}

	return nil
}

func (m *Machine) step(x ir.Instr) (err error) {
	switch x := x.(type) {
	case ir.Comment, ir.Label:
	case ir.Out:
		m.buf = AppendFormat(m.buf[:0], x.Text, &m.Regs)

		_, err = m.w.Write(m.buf)
		if err != nil {
			return errors.Wrap(err, "write output")
		}
	case ir.Mov:
		m.Regs[x.Dst] = m.value(x.Src)
	case ir.Add:
		m.arith(x.Dst, m.value(x.Left)+m.value(x.Right))
	case ir.Sub:
		m.arith(x.Dst, m.value(x.Left)-m.value(x.Right))
	case ir.Mul:
		m.arith(x.Dst, m.value(x.Left)*m.value(x.Right))
	case ir.Div:
		l, r := m.value(x.Left), m.value(x.Right)
		if r == 0 {
			return ir.ErrDivisionByZero
		}

		m.arith(x.Dst, l/r)
	case ir.Mod:
		l, r := m.value(x.Left), m.value(x.Right)
		if r == 0 {
			return ir.ErrDivisionByZero
		}

		m.arith(x.Dst, l%r)
	case ir.Cmp:
		m.Flag = ir.Compare(m.value(x.Left), m.value(x.Right))
	case ir.Jmp:
		return m.jump(x.To, true)
	case ir.Jl:
		return m.jump(x.To, m.Flag == ir.Less)
	case ir.Jg:
		return m.jump(x.To, m.Flag == ir.Greater)
	case ir.Je:
		return m.jump(x.To, m.Flag == ir.Equal)
	default:
		return errors.New("unsupported instruction: %T", x)
	}

	return nil
}

// arith stores the result of an arithmetic instruction and compares it to zero.
func (m *Machine) arith(dst ir.Reg, res int64) {
	m.Regs[dst] = res
	m.Flag = ir.Compare(res, 0)
}

// jump sets IP to the target address.
// The loop increment then skips the label marker.
func (m *Machine) jump(to ir.Target, cond bool) error {
	addr, ok := to.(ir.Addr)
	if !ok {
		return errors.Wrap(ir.ErrUnresolvedLabel, "%v", to)
	}

	if cond {
		m.IP = int(addr)
	}

	return nil
}

func (m *Machine) value(v ir.Value) int64 {
	switch v := v.(type) {
	case ir.Reg:
		return m.Regs[v]
	case ir.Num:
		return int64(v)
	default:
		panic(v)
	}
}
