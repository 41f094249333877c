package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/basm/compiler/front"
	"github.com/slowlang/basm/compiler/ir"
	"github.com/slowlang/basm/compiler/link"
)

func CompileFile(ctx context.Context, name string) (code ir.Code, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text)
}

// Compile parses text and resolves its labels.
// The result is ready to be executed or saved.
func Compile(ctx context.Context, name string, text []byte) (code ir.Code, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name)
	defer tr.Finish("err", &err)

	code, err = front.Parse(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	err = link.Resolve(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "link")
	}

	return code, nil
}
