package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/k0kubun/pp/v3"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/basm/compiler"
	"github.com/slowlang/basm/compiler/format"
	"github.com/slowlang/basm/compiler/ir"
	"github.com/slowlang/basm/compiler/link"
	"github.com/slowlang/basm/config"
	"github.com/slowlang/basm/obj"
	"github.com/slowlang/basm/vm"
)

const (
	SourceExt = ".basm"
	ObjectExt = ".basmo"
)

var ErrUnknownExt = errors.New("unknown file extension")

var cfg = config.Default()

func main() {
	buildCmd := &cli.Command{
		Name:        "build",
		Description: "compile source into bytecode",
		Action:      buildAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "", "output file, defaults to input with "+ObjectExt+" extension"),
		},
	}

	runCmd := &cli.Command{
		Name:        "run",
		Description: "compile or load a program and run it",
		Action:      runAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("cycles,c", -1, "instructions limit, negative means no limit"),
			cli.NewFlag("perf,p", false, "print timings"),
			cli.NewFlag("coverage", false, "list instructions never executed"),
			cli.NewFlag("regs", false, "print non-zero registers"),
			cli.NewFlag("output,o", "", "save bytecode"),
		},
	}

	dumpCmd := &cli.Command{
		Name:        "dump",
		Description: "disassemble a program",
		Action:      dumpAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("raw", false, "print instruction structures"),
		},
	}

	app := &cli.Command{
		Name:        "basm",
		Description: "basm is a tool for building and running basm programs",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("config", "basm.toml", "config file"),
			cli.NewFlag("verbosity,v", "", "tlog verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			buildCmd,
			runCmd,
			dumpCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) (err error) {
	cfg, err = config.Load(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	v := cfg.Log.Verbosity
	if f := c.Flag("verbosity"); f != nil && f.IsSet {
		v = c.String("verbosity")
	}

	tlog.SetVerbosity(v)

	return nil
}

func buildAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		if filepath.Ext(a) != SourceExt {
			return errors.Wrap(ErrUnknownExt, "build %v", a)
		}

		code, err := compiler.CompileFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		out := c.String("output")
		if out == "" || len(c.Args) > 1 {
			out = objectName(a)
		}

		err = obj.WriteFile(out, code)
		if err != nil {
			return errors.Wrap(err, "save %v", out)
		}

		tlog.Printw("built", "file", a, "output", out, "instrs", len(code))
	}

	return nil
}

func runAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	if len(c.Args) != 1 {
		return errors.New("expected one file, got %d", len(c.Args))
	}

	a := c.Args[0]
	rc := runConfig(c)

	start := time.Now()

	code, err := load(ctx, a)
	if err != nil {
		return err
	}

	loaded := time.Now()

	m, err := vm.Execute(ctx, os.Stdout, code, rc.Cycles)

	finished := time.Now()

	if rc.Perf {
		printPerf(os.Stderr, m, loaded.Sub(start), finished.Sub(loaded))
	}

	if err != nil {
		return errors.Wrap(err, "run %v", a)
	}

	if rc.Regs {
		printRegs(os.Stderr, m)
	}

	if rc.Coverage {
		printCoverage(ctx, os.Stderr, code, m)
	}

	if out := c.String("output"); out != "" {
		err = obj.WriteFile(out, code)
		if err != nil {
			return errors.Wrap(err, "save %v", out)
		}
	}

	return nil
}

func dumpAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		code, err := load(ctx, a)
		if err != nil {
			return err
		}

		err = dump(ctx, os.Stdout, code, c.Bool("raw"))
		if err != nil {
			return errors.Wrap(err, "dump %v", a)
		}
	}

	return nil
}

// runConfig merges config file values with the flags set explicitly.
func runConfig(c *cli.Command) config.Run {
	rc := cfg.Run

	if isSet(c, "cycles") {
		rc.Cycles = c.Int("cycles")
	}

	rc.Perf = rc.Perf || c.Bool("perf")
	rc.Coverage = rc.Coverage || c.Bool("coverage")
	rc.Regs = rc.Regs || c.Bool("regs")

	return rc
}

func isSet(c *cli.Command, name string) bool {
	f := c.Flag(name)

	return f != nil && f.IsSet
}

// load compiles source or decodes bytecode depending on the file extension.
// Loaded bytecode is resolved too, as it may carry symbolic targets.
func load(ctx context.Context, name string) (code ir.Code, err error) {
	switch filepath.Ext(name) {
	case SourceExt:
		code, err = compiler.CompileFile(ctx, name)
		if err != nil {
			return nil, errors.Wrap(err, "compile %v", name)
		}
	case ObjectExt:
		code, err = obj.ReadFile(name)
		if err != nil {
			return nil, errors.Wrap(err, "load %v", name)
		}

		err = link.Resolve(ctx, code)
		if err != nil {
			return nil, errors.Wrap(err, "link %v", name)
		}
	default:
		return nil, errors.Wrap(ErrUnknownExt, "%v", name)
	}

	return code, nil
}

func objectName(name string) string {
	return name[:len(name)-len(filepath.Ext(name))] + ObjectExt
}

func dump(ctx context.Context, w io.Writer, code ir.Code, raw bool) error {
	if raw {
		p := pp.New()
		p.SetColoringEnabled(false)
		p.SetOutput(w)

		_, err := p.Println(code)

		return err
	}

	b, err := format.Format(ctx, nil, code)
	if err != nil {
		return err
	}

	_, err = w.Write(b)

	return err
}

func printPerf(w io.Writer, m *vm.Machine, load, run time.Duration) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Performance")
	t.AppendHeader(table.Row{"Phase", "Time", "Steps", "Steps/s"})

	t.AppendRow(table.Row{"load", load, "", ""})
	t.AppendRow(table.Row{"run", run, m.Steps, rate(m.Steps, run)})
	t.AppendFooter(table.Row{"total", load + run, "", ""})

	t.Render()
}

func printRegs(w io.Writer, m *vm.Machine) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Registers")
	t.AppendHeader(table.Row{"Reg", "Value"})

	for i, v := range m.Regs {
		if v == 0 {
			continue
		}

		t.AppendRow(table.Row{ir.Reg(i), v})
	}

	t.AppendFooter(table.Row{"ip", m.IP})
	t.AppendFooter(table.Row{"flag", m.Flag})

	t.Render()
}

func printCoverage(ctx context.Context, w io.Writer, code ir.Code, m *vm.Machine) {
	missing := m.Coverage().Missing(len(code))

	fmt.Fprintf(w, "coverage: %d/%d instructions executed\n", len(code)-len(missing), len(code))

	var b []byte
	var err error

	for _, i := range missing {
		b = fmt.Appendf(b[:0], "%4d  ", i)

		b, err = format.Instr(ctx, b, code[i])
		if err != nil {
			b = fmt.Appendf(b[:0], "%4d  %T", i, code[i])
		}

		b = append(b, '\n')

		_, _ = w.Write(b)
	}
}

func rate(n int64, d time.Duration) string {
	if d <= 0 {
		return "-"
	}

	return fmt.Sprintf("%.0f", float64(n)/d.Seconds())
}
