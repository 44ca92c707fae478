package filter

import (
	"context"

	"github.com/rushteam/swiperec/core"
)

// BlacklistFilter 过滤运营下架/屏蔽的商品。
// 黑名单来自内存列表 ItemIDs，以及（可选）Store 中 Key 对应的 JSON 数组。
type BlacklistFilter struct {
	ItemIDs []string
	Store   BlacklistStore
	Key     string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建黑名单过滤器；store 为 nil 时只使用内存列表。
func NewBlacklistFilter(itemIDs []string, store BlacklistStore, key string) *BlacklistFilter {
	return &BlacklistFilter{ItemIDs: itemIDs, Store: store, Key: key}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if contains(f.ItemIDs, item.ID) {
		return true, nil
	}
	if f.Store == nil || f.Key == "" {
		return false, nil
	}
	ids, err := f.Store.GetBlacklist(ctx, f.Key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return contains(ids, item.ID), nil
}

// UserBlockFilter 过滤用户主动屏蔽的商品，Store 中 key 为 {KeyPrefix}:{UserID}。
type UserBlockFilter struct {
	Store     BlacklistStore
	KeyPrefix string
}

func (f *UserBlockFilter) Name() string {
	return "filter.user_block"
}

func (f *UserBlockFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Store == nil || rctx == nil || rctx.UserID == "" {
		return false, nil
	}
	ids, err := f.Store.GetBlacklist(ctx, f.KeyPrefix+":"+rctx.UserID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return contains(ids, item.ID), nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
