package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slowlang/basm/compiler/ir"
)

func TestAppendFormat(t *testing.T) {
	var regs [ir.NumRegs]int64

	regs[0] = 10
	regs[1] = -7
	regs[255] = 42

	for _, tc := range []struct {
		tmpl string
		want string
	}{
		{"", ""},
		{"plain text\n", "plain text\n"},
		{"{0}", "10"},
		{"r1={1}, r255={255}", "r1=-7, r255=42"},
		{"{2}", "0"},
		{"{{literal}", "{literal}"},
		{"{{0}", "{0}"},
		{"a{1{b}", "a{b}"},
		{"{zz}", "{zz"},
		{"{256}", "{256"},
		{"{-1}", "{-1"},
		{"{+1}", "{+1"},
		{"{ 1}", "{ 1"},
		{"{}", "{"},
		{"{", "{"},
		{"{ab", "{ab"},
		{"x}", "x}"},
		{"{0}{1}", "10-7"},
		{"é{0}ü", "é10ü"},
	} {
		got := AppendFormat(nil, tc.tmpl, &regs)
		assert.Equal(t, tc.want, string(got), "template %q", tc.tmpl)
	}
}

func TestAppendFormatAppends(t *testing.T) {
	var regs [ir.NumRegs]int64

	regs[3] = 3

	b := AppendFormat([]byte("prefix "), "{3}", &regs)
	assert.Equal(t, "prefix 3", string(b))
}
