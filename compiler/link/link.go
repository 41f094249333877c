package link

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/basm/compiler/ir"
	"github.com/slowlang/basm/compiler/set"
)

// Resolve rewrites symbolic jump targets into instruction addresses in place.
// A label resolves to the index of its own Label instruction.
// If a label is declared more than once the last declaration wins.
// Already resolved targets are left as is.
func Resolve(ctx context.Context, code ir.Code) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "link: resolve", "instrs", len(code))
	defer tr.Finish("err", &err)

	labels := Labels(code)

	var used set.Bitmap

	for i, x := range code {
		to, ok := ir.JumpTarget(x)
		if !ok {
			continue
		}

		switch to := to.(type) {
		case ir.Addr:
			if to >= 0 {
				used.Set(int(to))
			}
		case ir.Sym:
			addr, ok := labels[string(to)]
			if !ok {
				return errors.Wrap(ir.ErrUnresolvedLabel, "%q at instruction %d", string(to), i)
			}

			used.Set(addr)
			code[i] = ir.WithTarget(x, ir.Addr(addr))
		default:
			return errors.New("instruction %d: unsupported jump target: %T", i, to)
		}
	}

	if tr.If("link") {
		for name, addr := range labels {
			if !used.IsSet(addr) {
				tr.Printw("unused label", "name", name, "addr", addr)
			}
		}

		tr.Printw("jump targets", "addrs", used)
	}

	return nil
}

// Labels maps label names to the index of their last declaration.
func Labels(code ir.Code) map[string]int {
	labels := make(map[string]int)

	for i, x := range code {
		if l, ok := x.(ir.Label); ok {
			labels[l.Name] = i
		}
	}

	return labels
}
