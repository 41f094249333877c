package vm

import (
	"strconv"
	"strings"

	"github.com/slowlang/basm/compiler/ir"
)

// AppendFormat appends the Out template tmpl with register references expanded.
//
// "{N}" is replaced by the value of register N.
// "{{" is a literal "{"; anything between the braces is dropped.
// A reference that is not a register index or is not closed
// is written as "{" followed by its content, without the closing brace.
func AppendFormat(b []byte, tmpl string, regs *[ir.NumRegs]int64) []byte {
	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		i++

		if c != '{' {
			b = append(b, c)
			continue
		}

		end := strings.IndexAny(tmpl[i:], "{}")
		if end < 0 {
			b = append(b, '{')
			b = append(b, tmpl[i:]...)

			break
		}

		ref := tmpl[i : i+end]
		term := tmpl[i+end]
		i += end + 1

		if term == '{' {
			b = append(b, '{')
			continue
		}

		n, err := strconv.ParseUint(ref, 10, 8)
		if err != nil {
			b = append(b, '{')
			b = append(b, ref...)

			continue
		}

		b = strconv.AppendInt(b, regs[n], 10)
	}

	return b
}
