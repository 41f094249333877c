package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/basm/compiler/ir"
	"github.com/slowlang/basm/obj"
)

const prog = `mov r0, 3
loop: sub r0, r0, 1
jg loop
out "done"`

func TestLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "p.basm")
	require.NoError(t, os.WriteFile(src, []byte(prog), 0o644))

	code, err := load(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, ir.Jg{To: ir.Addr(1)}, code[3])

	bin := objectName(src)
	assert.Equal(t, filepath.Join(dir, "p.basmo"), bin)

	require.NoError(t, obj.WriteFile(bin, code))

	loaded, err := load(ctx, bin)
	require.NoError(t, err)
	assert.Equal(t, code, loaded)

	_, err = load(ctx, filepath.Join(dir, "p.txt"))
	assert.ErrorIs(t, err, ErrUnknownExt)

	_, err = load(ctx, filepath.Join(dir, "missing.basm"))
	assert.Error(t, err)
}

func TestLoadResolvesBytecode(t *testing.T) {
	name := filepath.Join(t.TempDir(), "sym.basmo")

	err := obj.WriteFile(name, ir.Code{ir.Jmp{To: ir.Sym("end")}, ir.Label{Name: "end"}})
	require.NoError(t, err)

	code, err := load(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, ir.Jmp{To: ir.Addr(1)}, code[0])
}

func TestDump(t *testing.T) {
	code := ir.Code{
		ir.Mov{Dst: 0, Src: ir.Num(1)},
		ir.Out{Text: "{0}\n"},
	}

	var b bytes.Buffer

	err := dump(context.Background(), &b, code, false)
	require.NoError(t, err)
	assert.Equal(t, "   0  \tmov r0, 1\n   1  \tout \"{0}\\n\"\n", b.String())

	b.Reset()

	err = dump(context.Background(), &b, code, true)
	require.NoError(t, err)
	assert.Contains(t, b.String(), "Mov")
	assert.Contains(t, b.String(), "Out")
}
