package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/pipeline"
	"github.com/rushteam/swiperec/pkg/utils"
)

// FilterNode 组合多个过滤器，任一过滤器命中即移除该候选。
//
// 普通过滤器出错时放行该候选（例如黑名单存储暂不可用）；
// 实现了 Invariant 的过滤器出错时整个节点返回错误。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	filtered := 0
	for _, item := range items {
		if item == nil {
			continue
		}
		reason, err := n.check(ctx, rctx, item)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			filtered++
			item.PutLabel("filtered", utils.Label{Value: "true", Source: reason})
			continue
		}
		out = append(out, item)
	}

	if filtered > 0 && rctx != nil {
		rctx.PutLabel("filter.removed", utils.Label{Value: fmt.Sprint(filtered), Source: n.Name()})
	}
	return out, nil
}

func (n *FilterNode) check(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (string, error) {
	for _, f := range n.Filters {
		hit, err := f.ShouldFilter(ctx, rctx, item)
		if err != nil {
			if isInvariant(f) {
				return "", fmt.Errorf("%s: %w", f.Name(), err)
			}
			continue
		}
		if hit {
			return f.Name(), nil
		}
	}
	return "", nil
}
