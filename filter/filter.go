package filter

import (
	"context"

	"github.com/rushteam/swiperec/core"
)

// Filter 判断一个候选是否应被移除：返回 true 表示过滤掉。
type Filter interface {
	Name() string

	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// Invariant 标记不可放宽的过滤器：出错时 FilterNode 直接返回错误而不是放行。
type Invariant interface {
	Invariant() bool
}

func isInvariant(f Filter) bool {
	inv, ok := f.(Invariant)
	return ok && inv.Invariant()
}
