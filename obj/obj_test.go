package obj

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/basm/compiler"
	"github.com/slowlang/basm/compiler/ir"
)

func TestRoundTrip(t *testing.T) {
	code, err := compiler.Compile(context.Background(), "all.basm", []byte(`/* every instruction */
mov r0, -5
loop: add r1, r0, 9223372036854775807
sub r2, r1, r255
mul r3, 0, r0
div r4, r3, 1
mod r5, r4, 2
cmp r5, 0
out "{0}\n\0"
out bare
jl loop
jg loop
je end
jmp end
end:`))
	require.NoError(t, err)

	data, err := Encode(code)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, code, got)

	again, err := Encode(got)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestRoundTripSymbolic(t *testing.T) {
	code := ir.Code{
		ir.Jmp{To: ir.Sym("later")},
		ir.Label{Name: "later"},
	}

	data, err := Encode(code)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, code, got)
}

func TestRoundTripEmpty(t *testing.T) {
	data, err := Encode(ir.Code{})
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "prog.basmo")
	code := ir.Code{ir.Mov{Dst: 1, Src: ir.Num(2)}, ir.Out{Text: "{1}"}}

	err := WriteFile(name, code)
	require.NoError(t, err)

	got, err := ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, code, got)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.basmo"))
	assert.Error(t, err)
}

func TestEncodeUnsupported(t *testing.T) {
	_, err := Encode(ir.Code{ir.Out{}, "what"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instruction 1")

	_, err = Encode(ir.Code{ir.Mov{Dst: 0, Src: nil}})
	assert.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	marshal := func(f file) []byte {
		data, err := cbor.Marshal(f)
		require.NoError(t, err)

		return data
	}

	_, err := Decode([]byte("not cbor"))
	assert.Error(t, err)

	_, err = Decode(marshal(file{Version: 99}))
	assert.ErrorIs(t, err, ErrVersion)

	for _, r := range []record{
		{Op: 0},
		{Op: 200},
		{Op: OpMov, Args: []operand{{N: 1}, {N: 2}}},
		{Op: OpAdd, Args: []operand{{N: 1}}},
		{Op: OpOut, Args: []operand{{N: 1}}},
		{Op: OpMov, Args: []operand{{Reg: true, N: 256}}},
		{Op: OpJmp, Addr: 5},
		{Op: OpJl, Addr: -1},
	} {
		_, err = Decode(marshal(file{Version: Version, Code: []record{r}}))
		assert.Error(t, err, "record %+v", r)
	}

	_, err = Decode(marshal(file{Version: Version, Code: []record{{Op: OpMov, Args: []operand{{Reg: true, N: -1}}}}}))
	assert.ErrorIs(t, err, ir.ErrInvalidRegister)
}
