package filter

import (
	"context"

	"github.com/rushteam/swiperec/core"
)

// GenderFilter 按用户性别过滤：unisex 用户不限制，其他用户只保留本性别与 unisex 商品。
type GenderFilter struct{}

func (f *GenderFilter) Name() string    { return "filter.gender" }
func (f *GenderFilter) Invariant() bool { return true }

func (f *GenderFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Product == nil {
		return true, nil
	}
	if rctx == nil || rctx.User == nil {
		return false, nil
	}
	audience := rctx.User.Gender.Audience()
	if len(audience) == 0 {
		return false, nil
	}
	for _, g := range audience {
		if item.Product.Gender == g {
			return false, nil
		}
	}
	return true, nil
}

// CategoryFilter 过滤与请求类目不一致的商品。
type CategoryFilter struct{}

func (f *CategoryFilter) Name() string    { return "filter.category" }
func (f *CategoryFilter) Invariant() bool { return true }

func (f *CategoryFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Product == nil {
		return true, nil
	}
	if rctx == nil || rctx.Category == "" {
		return false, nil
	}
	return item.Product.Category != rctx.Category, nil
}
