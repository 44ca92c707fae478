package filter

import (
	"context"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤：表达式为 true 的候选保留，false 的过滤掉。
// Invert 为 true 时反过来，表达式命中即过滤。
type ExprFilter struct {
	Program *dsl.Program
	Invert  bool
}

// NewExprFilter 编译表达式并创建过滤器。
func NewExprFilter(expr string, invert bool) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{Program: prg, Invert: invert}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Program == nil {
		return false, nil
	}
	ok, err := f.Program.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	if f.Invert {
		return ok, nil
	}
	return !ok, nil
}
