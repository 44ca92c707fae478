package rerank

import (
	"context"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/pipeline"
)

// TopNNode 在排序后截取前 N 个候选。
// N <= 0 时使用请求的 rctx.Limit；两者都没有时不截断。
// MinScore 非 nil 时先丢弃分数低于它的候选。
type TopNNode struct {
	N        int
	MinScore *float64
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.MinScore != nil {
		kept := items[:0:0]
		for _, it := range items {
			if it != nil && it.Score >= *n.MinScore {
				kept = append(kept, it)
			}
		}
		items = kept
	}

	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.Limit
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
