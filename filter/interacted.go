package filter

import (
	"context"

	"github.com/rushteam/swiperec/core"
)

// InteractedFilter 过滤用户历史四个分区中出现过的商品。推荐结果绝不包含已交互商品。
type InteractedFilter struct{}

func (f *InteractedFilter) Name() string    { return "filter.interacted" }
func (f *InteractedFilter) Invariant() bool { return true }

func (f *InteractedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return rctx.Interacted(item.ID), nil
}
