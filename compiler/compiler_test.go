package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/basm/compiler/ir"
)

func TestCompile(t *testing.T) {
	code, err := Compile(context.Background(), "loop.basm", []byte(`mov r0, 3
loop: sub r0, r0, 1
out "{0}"
jg loop`))
	require.NoError(t, err)

	assert.Equal(t, ir.Code{
		ir.Mov{Dst: 0, Src: ir.Num(3)},
		ir.Label{Name: "loop"},
		ir.Sub{Dst: 0, Left: ir.Reg(0), Right: ir.Num(1)},
		ir.Out{Text: "{0}"},
		ir.Jg{To: ir.Addr(1)},
	}, code)
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile(context.Background(), "bad.basm", []byte("jmp missing"))
	require.ErrorIs(t, err, ir.ErrUnresolvedLabel)
	assert.Contains(t, err.Error(), "link")

	_, err = Compile(context.Background(), "bad.basm", []byte("nop"))
	require.ErrorIs(t, err, ir.ErrInvalidCommand)
	assert.Contains(t, err.Error(), "parse")
}

func TestCompileFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "hello.basm")

	err := os.WriteFile(name, []byte("out hello\n"), 0o644)
	require.NoError(t, err)

	code, err := CompileFile(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, ir.Code{ir.Out{Text: "hello\n"}}, code)

	_, err = CompileFile(context.Background(), filepath.Join(t.TempDir(), "missing.basm"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
